// Package expenses re-exports the expense ledger entity from the canonical
// schema. The alias shares storage with internal/models.
package expenses

import "github.com/aethra/atlas/internal/models"

type Expense = models.Expense
