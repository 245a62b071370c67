package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/Veraticus/spice-ledger/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCheckpointStorage(t *testing.T) (*SQLiteStorage, *CheckpointManager, string) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "ledger.db")

	store, err := NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Migrate(context.Background()))

	cm, err := store.NewCheckpointManager()
	require.NoError(t, err)

	return store, cm, dbPath
}

func seedCheckpointData(t *testing.T, store *SQLiteStorage) {
	t.Helper()
	ctx := context.Background()

	cat := &model.Category{Name: "Food", Kind: model.KindExpense}
	require.NoError(t, store.CreateCategory(ctx, cat))
	for i := 1; i <= 3; i++ {
		require.NoError(t, store.CreateTransaction(ctx,
			testTransaction(model.KindExpense, cat.ID, "10", testDate(2024, 3, i))))
	}
	require.NoError(t, store.SetTotalLimit(ctx, model.Period{Year: 2024, Month: 3}, decimal.NewFromInt(100)))
}

func TestCheckpointManager_RequiresFile(t *testing.T) {
	store, err := NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	_, err = store.NewCheckpointManager()
	assert.ErrorIs(t, err, ErrInMemoryCheckpointDB)
}

func TestCheckpointManager_Create(t *testing.T) {
	store, cm, dbPath := setupCheckpointStorage(t)
	defer func() { _ = store.Close() }()
	seedCheckpointData(t, store)
	ctx := context.Background()

	info, err := cm.Create(ctx, "before-import", "safety net")
	require.NoError(t, err)
	assert.Equal(t, "before-import", info.ID)
	assert.Equal(t, "safety net", info.Description)
	assert.Equal(t, 3, info.Transactions)
	assert.Equal(t, 1, info.Categories)
	assert.Equal(t, 1, info.Budgets)
	assert.Equal(t, ExpectedSchemaVersion, info.SchemaVersion)
	assert.Positive(t, info.FileSize)
	assert.False(t, info.IsAuto)

	checkpointsDir := filepath.Join(filepath.Dir(dbPath), "checkpoints")
	assert.FileExists(t, filepath.Join(checkpointsDir, "before-import.db"))
	assert.FileExists(t, filepath.Join(checkpointsDir, "before-import.meta.json"))

	_, err = cm.Create(ctx, "before-import", "again")
	assert.ErrorIs(t, err, ErrCheckpointExists)

	for _, bad := range []string{"../escape", "a/b", `a\b`} {
		_, err = cm.Create(ctx, bad, "")
		assert.ErrorIs(t, err, ErrInvalidCheckpointID, bad)
	}

	generated, err := cm.Create(ctx, "", "")
	require.NoError(t, err)
	assert.Contains(t, generated.ID, "checkpoint-")
}

func TestCheckpointManager_ListAndInfo(t *testing.T) {
	store, cm, _ := setupCheckpointStorage(t)
	defer func() { _ = store.Close() }()
	ctx := context.Background()

	for _, tag := range []string{"one", "two", "three"} {
		_, err := cm.Create(ctx, tag, tag)
		require.NoError(t, err)
	}

	list, err := cm.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	for i := 1; i < len(list); i++ {
		assert.False(t, list[i].CreatedAt.After(list[i-1].CreatedAt), "newest first")
	}

	info, err := cm.Info(ctx, "two")
	require.NoError(t, err)
	assert.Equal(t, "two", info.Description)

	_, err = cm.Info(ctx, "missing")
	assert.ErrorIs(t, err, ErrCheckpointNotFound)
}

func TestCheckpointManager_Restore(t *testing.T) {
	store, cm, dbPath := setupCheckpointStorage(t)
	seedCheckpointData(t, store)
	ctx := context.Background()

	_, err := cm.Create(ctx, "snapshot", "")
	require.NoError(t, err)

	require.NoError(t, store.CreateTransaction(ctx,
		testTransaction(model.KindIncome, "", "500", testDate(2024, 3, 20))))

	require.NoError(t, cm.Restore(ctx, "snapshot"))

	reopened, err := NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	txns, err := reopened.GetTransactionsByPeriod(ctx, model.Period{Year: 2024, Month: 3})
	require.NoError(t, err)
	assert.Len(t, txns, 3, "transaction created after the snapshot is gone")

	assert.ErrorIs(t, cm.Restore(ctx, "missing"), ErrCheckpointNotFound)
}

func TestCheckpointManager_RestoreCorrupted(t *testing.T) {
	store, cm, dbPath := setupCheckpointStorage(t)
	defer func() { _ = store.Close() }()
	ctx := context.Background()

	_, err := cm.Create(ctx, "broken", "")
	require.NoError(t, err)

	snapshot := filepath.Join(filepath.Dir(dbPath), "checkpoints", "broken.db")
	require.NoError(t, os.WriteFile(snapshot, []byte("not a database"), 0600))

	err = cm.Restore(ctx, "broken")
	assert.ErrorIs(t, err, ErrCheckpointCorrupted)
}

func TestCheckpointManager_Delete(t *testing.T) {
	store, cm, dbPath := setupCheckpointStorage(t)
	defer func() { _ = store.Close() }()
	ctx := context.Background()

	_, err := cm.Create(ctx, "doomed", "")
	require.NoError(t, err)
	require.NoError(t, cm.Delete(ctx, "doomed"))

	assert.NoFileExists(t, filepath.Join(filepath.Dir(dbPath), "checkpoints", "doomed.db"))
	assert.ErrorIs(t, cm.Delete(ctx, "doomed"), ErrCheckpointNotFound)
}

func TestCheckpointManager_AutoCheckpointCleanup(t *testing.T) {
	store, cm, _ := setupCheckpointStorage(t)
	defer func() { _ = store.Close() }()
	ctx := context.Background()

	_, err := cm.Create(ctx, "manual", "")
	require.NoError(t, err)

	for i := 0; i < maxAutoCheckpoints+2; i++ {
		require.NoError(t, cm.AutoCheckpoint(ctx, fmt.Sprintf("import%d", i)))
	}

	list, err := cm.List(ctx)
	require.NoError(t, err)

	autos := 0
	manual := false
	for _, cp := range list {
		if cp.IsAuto {
			autos++
		}
		if cp.ID == "manual" {
			manual = true
		}
	}
	assert.Equal(t, maxAutoCheckpoints, autos)
	assert.True(t, manual, "manual checkpoints are never pruned")
}
