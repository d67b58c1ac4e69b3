package database

import (
	"time"

	"github.com/goaltrack/goaltrack/internal/models"

	"github.com/pkg/errors"

	"gorm.io/gorm"
)

// ErrStoreUnavailable marks an activity or rule store I/O failure. Callers
// isolate it per time span; it never aborts the hosting process.
var ErrStoreUnavailable = errors.New("store unavailable")

// ActivityStore handles all database operations for activity snapshots.
type ActivityStore struct {
	db *DB
}

// NewActivityStore creates a new activity store instance.
func NewActivityStore(db *DB) *ActivityStore {
	return &ActivityStore{db: db}
}

// Create inserts a new activity snapshot into the database.
func (s *ActivityStore) Create(snapshot *models.ActivitySnapshot) error {
	result := s.db.Create(snapshot)
	if result.Error != nil {
		return wrapStoreError(result.Error, "failed to insert activity snapshot")
	}
	return nil
}

// UpdateEnd extends the end instant of an open snapshot.
func (s *ActivityStore) UpdateEnd(id uint, end time.Time) error {
	result := s.db.Model(&models.ActivitySnapshot{}).Where("id = ?", id).Update("end_time", end)
	if result.Error != nil {
		return wrapStoreError(result.Error, "failed to update snapshot end")
	}
	return nil
}

// GetLatest retrieves the most recent snapshot, or nil when none exist.
func (s *ActivityStore) GetLatest() (*models.ActivitySnapshot, error) {
	var snapshot models.ActivitySnapshot
	result := s.db.Order("start_time DESC").First(&snapshot)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, wrapStoreError(result.Error, "failed to get latest snapshot")
	}
	return &snapshot, nil
}

// FetchRange returns the recorded activity whose interval intersects
// [start, end), chronologically. Records are returned raw; merging happens
// in the aggregator.
func (s *ActivityStore) FetchRange(start, end time.Time) ([]models.ActivityContext, error) {
	var snapshots []*models.ActivitySnapshot
	result := s.db.Where("end_time > ? AND start_time < ?", start, end).Order("start_time ASC").Find(&snapshots)
	if result.Error != nil {
		return nil, wrapStoreError(result.Error, "failed to query activity snapshots")
	}

	records := make([]models.ActivityContext, 0, len(snapshots))
	for _, snapshot := range snapshots {
		records = append(records, snapshot.Context())
	}
	return records, nil
}

// DeleteOldSnapshots deletes snapshots that ended before a cutoff.
func (s *ActivityStore) DeleteOldSnapshots(before time.Time) (int64, error) {
	result := s.db.Where("end_time < ?", before).Delete(&models.ActivitySnapshot{})
	if result.Error != nil {
		return 0, wrapStoreError(result.Error, "failed to delete old snapshots")
	}
	return result.RowsAffected, nil
}

// Clear removes all activity snapshots from the database.
func (s *ActivityStore) Clear() error {
	result := s.db.Exec("DELETE FROM activity_snapshots")
	if result.Error != nil {
		return wrapStoreError(result.Error, "failed to clear activity snapshots")
	}
	return nil
}

// wrapStoreError tags a gorm failure as ErrStoreUnavailable while keeping
// the underlying cause in the message.
func wrapStoreError(cause error, msg string) error {
	return errors.Wrapf(ErrStoreUnavailable, "%s: %v", msg, cause)
}
