package repository

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"storefront/internal/model"
)

// newSQLite opens a migrated in-memory database. A single connection keeps
// every query on the same memory database.
func newSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, AutoMigrate(db))
	return db
}

func TestGormItemRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewItemRepository(newSQLite(t))

	a := &model.Item{Name: "A", Cost: decimal.NewFromInt(5), Description: "a", ImageURL: "a.png"}
	b := &model.Item{Name: "B", Cost: decimal.RequireFromString("7.5"), Description: "b", ImageURL: "b.png"}
	for _, it := range []*model.Item{a, b} {
		created, err := repo.Upsert(ctx, it)
		require.NoError(t, err)
		assert.True(t, created)
		assert.NotEmpty(t, it.ID)
	}

	a2 := &model.Item{Name: "A", Cost: decimal.NewFromInt(6), Description: "a2", ImageURL: "a.png"}
	created, err := repo.Upsert(ctx, a2)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, a.ID, a2.ID)

	items, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 2)

	got, err := repo.FindByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "a2", got.Description)
	assert.True(t, decimal.NewFromInt(6).Equal(got.Cost))

	got, err = repo.FindByID(ctx, b.ID)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("7.5").Equal(got.Cost))

	_, err = repo.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	found, err := repo.FindByIDs(ctx, []string{b.ID, "missing"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "B", found[0].Name)

	found, err = repo.FindByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, found)

	_, err = repo.Upsert(ctx, &model.Item{Name: "C"})
	assert.True(t, model.IsValidationError(err))
}

func TestGormUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(newSQLite(t))

	user := &model.User{Name: "alice", PasswordHash: "hash"}
	require.NoError(t, repo.Create(ctx, user))
	assert.NotEmpty(t, user.ID)

	err := repo.Create(ctx, &model.User{Name: "alice", PasswordHash: "other"})
	assert.ErrorIs(t, err, ErrDuplicate)

	byName, err := repo.FindByName(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byName.ID)
	assert.Equal(t, "hash", byName.PasswordHash)

	byID, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.Name)

	_, err = repo.FindByName(ctx, "bob")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGormCartRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewCartRepository(newSQLite(t))

	_, err := repo.FindByUserID(ctx, "user-1")
	assert.ErrorIs(t, err, ErrNotFound)

	first, err := repo.ReplaceItems(ctx, "user-1", []model.CartItem{{ItemID: "b", Count: 2}, {ItemID: "a", Count: 1}})
	require.NoError(t, err)
	assert.Equal(t, []model.CartItem{{ItemID: "b", Count: 2}, {ItemID: "a", Count: 1}}, first.Items)

	second, err := repo.ReplaceItems(ctx, "user-1", []model.CartItem{{ItemID: "c", Count: 3}, {ItemID: "a", Count: -1}, {ItemID: "b", Count: 0}})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "user-1", second.UserID)
	assert.Equal(t, []model.CartItem{{ItemID: "c", Count: 3}, {ItemID: "a", Count: -1}, {ItemID: "b", Count: 0}}, second.Items)

	emptied, err := repo.ReplaceItems(ctx, "user-1", nil)
	require.NoError(t, err)
	assert.Equal(t, first.ID, emptied.ID)
	assert.Empty(t, emptied.Items)

	other, err := repo.ReplaceItems(ctx, "user-2", []model.CartItem{{ItemID: "a", Count: 1}})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, other.ID)

	_, err = repo.ReplaceItems(ctx, "user-1", []model.CartItem{{Count: 1}})
	assert.True(t, model.IsValidationError(err))

	require.NoError(t, repo.DeleteByUserID(ctx, "user-1"))
	require.NoError(t, repo.DeleteByUserID(ctx, "user-1"))
	_, err = repo.FindByUserID(ctx, "user-1")
	assert.ErrorIs(t, err, ErrNotFound)

	kept, err := repo.FindByUserID(ctx, "user-2")
	require.NoError(t, err)
	assert.Equal(t, []model.CartItem{{ItemID: "a", Count: 1}}, kept.Items)
}
