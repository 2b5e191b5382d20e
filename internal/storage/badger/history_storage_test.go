package badger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"

	"github.com/ternarybob/vestio/internal/models"
)

func setupTestDB(t *testing.T) (*BadgerDB, func()) {
	t.Helper()

	tmpDir := t.TempDir()

	options := badgerhold.DefaultOptions
	options.Dir = tmpDir
	options.ValueDir = tmpDir
	options.Logger = nil

	store, err := badgerhold.Open(options)
	require.NoError(t, err)

	db := &BadgerDB{store: store, logger: arbor.NewLogger()}
	return db, func() { store.Close() }
}

func TestRecordSwitch_RequiresID(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	storage := NewHistoryStorage(db, arbor.NewLogger())

	err := storage.RecordSwitch(context.Background(), &models.SwitchRecord{Query: "fox"})
	assert.Error(t, err)
}

func TestRecentSwitches_NewestFirst(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	storage := NewHistoryStorage(db, arbor.NewLogger())
	ctx := context.Background()

	base := time.Now().Unix()
	for i, query := range []string{"fox", "knight", "zebra"} {
		record := &models.SwitchRecord{
			ID:        "swt_" + query,
			Query:     query,
			Outcome:   models.SwitchOutcomeSuccess,
			Attempts:  1,
			CreatedAt: base + int64(i),
		}
		require.NoError(t, storage.RecordSwitch(ctx, record))
	}

	records, err := storage.RecentSwitches(ctx, 2)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "zebra", records[0].Query)
	assert.Equal(t, "knight", records[1].Query)
}

func TestRecordSwitch_DefaultsCreatedAt(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	storage := NewHistoryStorage(db, arbor.NewLogger())
	ctx := context.Background()

	record := &models.SwitchRecord{ID: "swt_1", Query: "fox", Outcome: models.SwitchOutcomeSuccess}
	require.NoError(t, storage.RecordSwitch(ctx, record))

	records, err := storage.RecentSwitches(ctx, 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.InDelta(t, time.Now().Unix(), records[0].CreatedAt, 5)
}

func TestCatalogSnapshot_RoundTrip(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	storage := NewHistoryStorage(db, arbor.NewLogger())
	ctx := context.Background()

	snapshot := &models.CatalogSnapshot{
		Avatars: models.AvatarCatalog{
			{ID: "avtr_a1", Name: "Blue Fox"},
			{ID: "avtr_a2", Name: "Red Fox"},
		},
	}
	require.NoError(t, storage.SaveCatalog(ctx, snapshot))

	loaded, err := storage.LoadCatalog(ctx)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, snapshot.Avatars, loaded.Avatars)
	assert.NotZero(t, loaded.FetchedAt)

	// A second save replaces the snapshot instead of adding one
	snapshot2 := &models.CatalogSnapshot{
		Avatars: models.AvatarCatalog{{ID: "avtr_a3", Name: "Neon Knight"}},
	}
	require.NoError(t, storage.SaveCatalog(ctx, snapshot2))

	loaded, err = storage.LoadCatalog(ctx)
	require.NoError(t, err)
	require.Len(t, loaded.Avatars, 1)
	assert.Equal(t, "avtr_a3", loaded.Avatars[0].ID)
}

func TestLoadCatalog_AbsentSnapshotIsNil(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	storage := NewHistoryStorage(db, arbor.NewLogger())

	snapshot, err := storage.LoadCatalog(context.Background())
	require.NoError(t, err)
	assert.Nil(t, snapshot)
}
