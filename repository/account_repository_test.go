package repository

import (
	"context"
	"testing"
	"time"

	"guildbank/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountRepository_GetByUser(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewAccountRepository(testDB.DB, 100)
	ctx := context.Background()

	t.Run("account not found", func(t *testing.T) {
		account, err := repo.GetByUser(ctx, 999999)
		require.NoError(t, err)
		assert.Nil(t, account)
	})

	t.Run("account found", func(t *testing.T) {
		created, err := repo.Create(ctx, 123456, 500)
		require.NoError(t, err)
		require.NotNil(t, created)
		assert.False(t, created.CreatedAt.IsZero())

		account, err := repo.GetByUser(ctx, 123456)
		require.NoError(t, err)
		require.NotNil(t, account)
		assert.Equal(t, int64(123456), account.DiscordID)
		assert.Equal(t, int64(100), account.GuildID)
		assert.Equal(t, int64(500), account.Wallet)
		assert.Equal(t, int64(0), account.Bank)
		assert.Equal(t, 0, account.DailyStreak)
		assert.Nil(t, account.LastDailyAt)
		assert.Nil(t, account.LastWorkAt)
	})

	t.Run("guild scoping", func(t *testing.T) {
		otherGuildRepo := NewAccountRepository(testDB.DB, 200)
		account, err := otherGuildRepo.GetByUser(ctx, 123456)
		require.NoError(t, err)
		assert.Nil(t, account)
	})
}

func TestAccountRepository_Update(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewAccountRepository(testDB.DB, 100)
	ctx := context.Background()

	account, err := repo.Create(ctx, 123456, 500)
	require.NoError(t, err)

	claimedAt := time.Now().UTC().Truncate(time.Microsecond)
	account.Wallet = 250
	account.Bank = 400
	account.DailyStreak = 3
	account.LastDailyAt = &claimedAt

	err = repo.Update(ctx, account)
	require.NoError(t, err)

	loaded, err := repo.GetByUser(ctx, 123456)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, int64(250), loaded.Wallet)
	assert.Equal(t, int64(400), loaded.Bank)
	assert.Equal(t, 3, loaded.DailyStreak)
	require.NotNil(t, loaded.LastDailyAt)
	assert.True(t, loaded.LastDailyAt.Equal(claimedAt))
	assert.Nil(t, loaded.LastWorkAt)
}

func TestAccountRepository_UpdateMissingAccount(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewAccountRepository(testDB.DB, 100)
	account := testutil.CreateTestAccount(100, 555)

	err := repo.Update(context.Background(), account)
	assert.Error(t, err)
}

func TestAccountRepository_SameUserAcrossGuilds(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	repoA := NewAccountRepository(testDB.DB, 100)
	repoB := NewAccountRepository(testDB.DB, 200)

	_, err := repoA.Create(ctx, 123456, 500)
	require.NoError(t, err)
	_, err = repoB.Create(ctx, 123456, 900)
	require.NoError(t, err)

	a, err := repoA.GetByUser(ctx, 123456)
	require.NoError(t, err)
	b, err := repoB.GetByUser(ctx, 123456)
	require.NoError(t, err)

	assert.Equal(t, int64(500), a.Wallet)
	assert.Equal(t, int64(900), b.Wallet)
}
