package database

import (
	"time"

	"idlewatch/internal/models"

	"github.com/pkg/errors"

	"gorm.io/gorm"
)

// Repository handles all database operations for samples and events
type Repository struct {
	db *DB
}

// NewRepository creates a new repository instance
func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

// CreateSample inserts one scheduler-tick sample
func (r *Repository) CreateSample(sample *models.IdleSample) error {
	result := r.db.Create(sample)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to insert idle sample")
	}
	return nil
}

// GetSamplesSince retrieves all samples recorded since a given time
func (r *Repository) GetSamplesSince(since time.Time) ([]*models.IdleSample, error) {
	var samples []*models.IdleSample
	result := r.db.Where("timestamp >= ?", since).Order("timestamp ASC").Find(&samples)
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, "failed to query idle samples")
	}
	return samples, nil
}

// GetLatestSample retrieves the most recent sample, nil when none exist
func (r *Repository) GetLatestSample() (*models.IdleSample, error) {
	var sample models.IdleSample
	result := r.db.Order("timestamp DESC").First(&sample)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, errors.Wrap(result.Error, "failed to get latest sample")
	}
	return &sample, nil
}

// GetDaySummariesSince aggregates samples per day using SQL
func (r *Repository) GetDaySummariesSince(since time.Time) ([]models.DaySummary, error) {
	var summaries []models.DaySummary

	result := r.db.Model(&models.IdleSample{}).
		Select("DATE(timestamp) as day, COUNT(*) as samples, SUM(suppressed) as suppressed_count, MAX(idle_ms) as max_idle_ms").
		Where("timestamp >= ?", since).
		Group("DATE(timestamp)").
		Order("day ASC").
		Scan(&summaries)

	if result.Error != nil {
		return nil, errors.Wrap(result.Error, "failed to query day summaries")
	}

	return summaries, nil
}

// CreateActionEvent records a timer activation or cancellation
func (r *Repository) CreateActionEvent(event *models.ActionEvent) error {
	result := r.db.Create(event)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to insert action event")
	}
	return nil
}

// GetActionEventsSince retrieves timer events since a given time
func (r *Repository) GetActionEventsSince(since time.Time) ([]*models.ActionEvent, error) {
	var events []*models.ActionEvent
	result := r.db.Where("timestamp >= ?", since).Order("timestamp ASC").Find(&events)
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, "failed to query action events")
	}
	return events, nil
}

// DeleteOldSamples deletes samples older than a specified date (soft delete)
func (r *Repository) DeleteOldSamples(before time.Time) (int64, error) {
	result := r.db.Where("timestamp < ?", before).Delete(&models.IdleSample{})
	if result.Error != nil {
		return 0, errors.Wrap(result.Error, "failed to delete old samples")
	}
	return result.RowsAffected, nil
}

// CreateErrorLog inserts a new error log into the database
func (r *Repository) CreateErrorLog(errorLog *models.ErrorLog) error {
	result := r.db.Create(errorLog)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to insert error log")
	}
	return nil
}

// Clear removes all samples and events from the database
func (r *Repository) Clear() error {
	for _, table := range []string{"idle_samples", "action_events", "error_logs"} {
		if result := r.db.Exec("DELETE FROM " + table); result.Error != nil {
			return errors.Wrapf(result.Error, "failed to clear %s", table)
		}
	}
	return nil
}
