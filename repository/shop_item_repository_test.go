package repository

import (
	"context"
	"testing"

	"guildbank/domain/entities"
	"guildbank/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShopItemRepository_CreateAndGet(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewShopItemRepository(testDB.DB, 100)
	ctx := context.Background()

	item := testutil.CreateTestShopItem(100, "Sword", 150, 3)
	err := repo.Create(ctx, item)
	require.NoError(t, err)
	assert.NotZero(t, item.ID)

	loaded, err := repo.GetByID(ctx, item.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "Sword", loaded.Name)
	assert.Equal(t, int64(150), loaded.Price)
	assert.Equal(t, int64(3), loaded.Stock)
	assert.True(t, loaded.Active)
	assert.Nil(t, loaded.RoleID)
}

func TestShopItemRepository_GetByIDMissing(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewShopItemRepository(testDB.DB, 100)

	item, err := repo.GetByID(context.Background(), 999999)
	require.NoError(t, err)
	assert.Nil(t, item)
}

func TestShopItemRepository_ListActive(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewShopItemRepository(testDB.DB, 100)
	ctx := context.Background()

	expensive := testutil.CreateTestShopItem(100, "Expensive", 900, 1)
	cheap := testutil.CreateTestShopItem(100, "Cheap", 50, 1)
	hidden := testutil.CreateTestShopItem(100, "Hidden", 10, 1)
	hidden.Active = false
	otherGuild := testutil.CreateTestShopItem(100, "Elsewhere", 10, 1)

	require.NoError(t, repo.Create(ctx, expensive))
	require.NoError(t, repo.Create(ctx, cheap))
	require.NoError(t, repo.Create(ctx, hidden))
	require.NoError(t, NewShopItemRepository(testDB.DB, 200).Create(ctx, otherGuild))

	items, err := repo.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Cheap", items[0].Name)
	assert.Equal(t, "Expensive", items[1].Name)
}

func TestShopItemRepository_DecrementStock(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewShopItemRepository(testDB.DB, 100)
	ctx := context.Background()

	item := testutil.CreateTestShopItem(100, "Potion", 25, 3)
	require.NoError(t, repo.Create(ctx, item))

	t.Run("decrements within stock", func(t *testing.T) {
		ok, err := repo.DecrementStock(ctx, item.ID, 2)
		require.NoError(t, err)
		assert.True(t, ok)

		loaded, err := repo.GetByID(ctx, item.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), loaded.Stock)
	})

	t.Run("refuses beyond stock", func(t *testing.T) {
		ok, err := repo.DecrementStock(ctx, item.ID, 2)
		require.NoError(t, err)
		assert.False(t, ok)

		loaded, err := repo.GetByID(ctx, item.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), loaded.Stock)
	})

	t.Run("drains to zero", func(t *testing.T) {
		ok, err := repo.DecrementStock(ctx, item.ID, 1)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = repo.DecrementStock(ctx, item.ID, 1)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestShopItemRepository_RoleItem(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewShopItemRepository(testDB.DB, 100)
	ctx := context.Background()

	roleID := int64(424242)
	item := &entities.ShopItem{
		GuildID: 100,
		Name:    "VIP",
		Price:   1000,
		Stock:   entities.UnlimitedStock,
		RoleID:  &roleID,
		Active:  true,
	}
	require.NoError(t, repo.Create(ctx, item))

	loaded, err := repo.GetByID(ctx, item.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded.RoleID)
	assert.Equal(t, roleID, *loaded.RoleID)
	assert.True(t, loaded.HasUnlimitedStock())
}
