// Package timesheets re-exports the time-tracking entity from the canonical
// schema. The alias shares storage with internal/models.
package timesheets

import "github.com/aethra/atlas/internal/models"

type TimeEntry = models.TimeEntry
