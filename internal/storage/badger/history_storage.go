package badger

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"

	"github.com/ternarybob/vestio/internal/interfaces"
	"github.com/ternarybob/vestio/internal/models"
)

// catalogSnapshotKey is the fixed key under which the single favorites
// catalog snapshot is stored.
const catalogSnapshotKey = "favorites"

// HistoryStorage implements the HistoryStorage interface for Badger
type HistoryStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewHistoryStorage creates a new HistoryStorage instance
func NewHistoryStorage(db *BadgerDB, logger arbor.ILogger) interfaces.HistoryStorage {
	return &HistoryStorage{
		db:     db,
		logger: logger,
	}
}

func (s *HistoryStorage) RecordSwitch(ctx context.Context, record *models.SwitchRecord) error {
	if record.ID == "" {
		return fmt.Errorf("switch record ID is required")
	}

	if record.CreatedAt == 0 {
		record.CreatedAt = time.Now().Unix()
	}

	if err := s.db.Store().Upsert(record.ID, record); err != nil {
		return fmt.Errorf("failed to store switch record: %w", err)
	}
	return nil
}

// RecentSwitches returns the most recent switch attempts, newest first.
func (s *HistoryStorage) RecentSwitches(ctx context.Context, limit int) ([]*models.SwitchRecord, error) {
	var records []models.SwitchRecord
	if err := s.db.Store().Find(&records, nil); err != nil {
		return nil, fmt.Errorf("failed to list switch records: %w", err)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt > records[j].CreatedAt
	})
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}

	result := make([]*models.SwitchRecord, len(records))
	for i := range records {
		result[i] = &records[i]
	}
	return result, nil
}

// SaveCatalog stores the favorites catalog snapshot, replacing any
// previous one.
func (s *HistoryStorage) SaveCatalog(ctx context.Context, snapshot *models.CatalogSnapshot) error {
	snapshot.ID = catalogSnapshotKey
	if snapshot.FetchedAt == 0 {
		snapshot.FetchedAt = time.Now().Unix()
	}

	if err := s.db.Store().Upsert(snapshot.ID, snapshot); err != nil {
		return fmt.Errorf("failed to store catalog snapshot: %w", err)
	}

	s.logger.Debug().Int("avatars", len(snapshot.Avatars)).Msg("Catalog snapshot saved")
	return nil
}

// LoadCatalog returns the persisted catalog snapshot, or nil when no
// snapshot has been saved yet.
func (s *HistoryStorage) LoadCatalog(ctx context.Context) (*models.CatalogSnapshot, error) {
	var snapshot models.CatalogSnapshot
	if err := s.db.Store().Get(catalogSnapshotKey, &snapshot); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load catalog snapshot: %w", err)
	}
	return &snapshot, nil
}
