// Package services - analytics event rollups
package services

import (
	"fmt"
	"time"

	"github.com/aethra/atlas/internal/models"
	"gorm.io/gorm"
)

// MetricsService aggregates raw analytics events into periodic rollups
type MetricsService struct {
	db *gorm.DB
}

// NewMetricsService creates a metrics service
func NewMetricsService(db *gorm.DB) *MetricsService {
	return &MetricsService{db: db}
}

// Rollup counts events per (event_name, bucket) inside [since, until) and
// upserts one AggregatedMetric per pair. Buckets are computed in-process so
// the query stays identical across drivers. Returns the number of metrics
// written.
func (s *MetricsService) Rollup(granularity models.Granularity, since, until time.Time) (int, error) {
	if granularity != models.GranularityHour && granularity != models.GranularityDay {
		return 0, fmt.Errorf("unknown granularity: %s", granularity)
	}

	var events []models.AnalyticsEvent
	err := s.db.Select("event_name", "timestamp").
		Where("timestamp >= ? AND timestamp < ?", since, until).
		Find(&events).Error
	if err != nil {
		return 0, err
	}

	type bucketKey struct {
		name   string
		period time.Time
	}
	counts := make(map[bucketKey]int64)
	for _, event := range events {
		counts[bucketKey{event.EventName, truncate(event.Timestamp, granularity)}]++
	}

	written := 0
	for key, value := range counts {
		metric := models.AggregatedMetric{
			MetricName:  key.name,
			PeriodStart: key.period,
			Granularity: granularity,
			Value:       value,
		}
		err := s.db.Where(models.AggregatedMetric{
			MetricName:  key.name,
			PeriodStart: key.period,
			Granularity: granularity,
		}).Assign(map[string]interface{}{"value": value}).FirstOrCreate(&metric).Error
		if err != nil {
			return written, err
		}
		written++
	}
	return written, nil
}

func truncate(t time.Time, granularity models.Granularity) time.Time {
	t = t.UTC()
	if granularity == models.GranularityHour {
		return t.Truncate(time.Hour)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
