package services

import (
	"context"
	"math/rand"
	"sync"
	"testing"
	"time"

	"guildbank/config"
	"guildbank/domain"
	"guildbank/domain/entities"
	"guildbank/domain/testhelpers"
	"guildbank/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testGuildID = int64(1000)
	testUserID  = int64(2000)
	otherUserID = int64(3000)
)

func setupLedgerTest(t *testing.T) (*ledgerService, *testhelpers.MemoryStore) {
	t.Helper()
	config.SetTestConfig(config.NewTestConfig())
	t.Cleanup(config.ResetConfig)

	factory := testhelpers.NewMemoryUnitOfWorkFactory()
	svc := &ledgerService{
		uowFactory: factory,
		locks:      NewAccountLocks(),
		now:        time.Now,
		randInt63n: rand.Int63n,
	}
	return svc, factory.Store
}

func seedAccount(store *testhelpers.MemoryStore, userID, wallet, bank int64) {
	store.SeedAccount(&entities.Account{
		DiscordID: userID,
		GuildID:   testGuildID,
		Wallet:    wallet,
		Bank:      bank,
	})
}

func TestGetBalanceCreatesAccountOnFirstUse(t *testing.T) {
	svc, store := setupLedgerTest(t)
	ctx := context.Background()

	summary, err := svc.GetBalance(ctx, testGuildID, testUserID)
	require.NoError(t, err)
	assert.Equal(t, int64(500), summary.Wallet)
	assert.Equal(t, int64(0), summary.Bank)
	assert.Equal(t, int64(500), summary.Total)

	account := store.Account(testGuildID, testUserID)
	require.NotNil(t, account)
	assert.Equal(t, int64(500), account.Wallet)

	history := store.HistoryFor(testGuildID, testUserID)
	require.Len(t, history, 1)
	assert.Equal(t, entities.TransactionTypeInitial, history[0].TransactionType)

	published := store.PublishedEvents()
	require.Len(t, published, 1)
	created, ok := published[0].(events.AccountCreatedEvent)
	require.True(t, ok)
	assert.Equal(t, int64(500), created.StartingWallet)
}

func TestGetBalanceExistingAccount(t *testing.T) {
	svc, store := setupLedgerTest(t)
	seedAccount(store, testUserID, 300, 200)

	summary, err := svc.GetBalance(context.Background(), testGuildID, testUserID)
	require.NoError(t, err)
	assert.Equal(t, int64(300), summary.Wallet)
	assert.Equal(t, int64(200), summary.Bank)
	assert.Equal(t, int64(500), summary.Total)
}

func TestAddFunds(t *testing.T) {
	svc, store := setupLedgerTest(t)
	seedAccount(store, testUserID, 500, 0)
	ctx := context.Background()

	newWallet, err := svc.AddFunds(ctx, testGuildID, testUserID, 100, entities.TransactionTypeWorkReward, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(600), newWallet)
	assert.Equal(t, int64(600), store.Account(testGuildID, testUserID).Wallet)

	history := store.HistoryFor(testGuildID, testUserID)
	require.Len(t, history, 1)
	assert.Equal(t, int64(500), history[0].WalletBefore)
	assert.Equal(t, int64(600), history[0].WalletAfter)
	assert.Equal(t, int64(100), history[0].ChangeAmount)
}

func TestAddFundsRejectsNonPositiveAmount(t *testing.T) {
	svc, _ := setupLedgerTest(t)
	ctx := context.Background()

	_, err := svc.AddFunds(ctx, testGuildID, testUserID, 0, entities.TransactionTypeWorkReward, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = svc.AddFunds(ctx, testGuildID, testUserID, -5, entities.TransactionTypeWorkReward, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
}

func TestRemoveFunds(t *testing.T) {
	svc, store := setupLedgerTest(t)
	seedAccount(store, testUserID, 500, 0)
	ctx := context.Background()

	newWallet, err := svc.RemoveFunds(ctx, testGuildID, testUserID, 200, entities.TransactionTypeBlackjackBet, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(300), newWallet)
	assert.Equal(t, int64(300), store.Account(testGuildID, testUserID).Wallet)
}

func TestRemoveFundsInsufficientLeavesBalanceUntouched(t *testing.T) {
	svc, store := setupLedgerTest(t)
	seedAccount(store, testUserID, 100, 500)
	ctx := context.Background()

	// bank funds do not cover wallet spending
	_, err := svc.RemoveFunds(ctx, testGuildID, testUserID, 200, entities.TransactionTypeBlackjackBet, nil)
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)

	account := store.Account(testGuildID, testUserID)
	assert.Equal(t, int64(100), account.Wallet)
	assert.Equal(t, int64(500), account.Bank)
	assert.Empty(t, store.HistoryFor(testGuildID, testUserID))
}

func TestTransferConservesTotal(t *testing.T) {
	svc, store := setupLedgerTest(t)
	seedAccount(store, testUserID, 1000, 0)
	seedAccount(store, otherUserID, 500, 0)

	err := svc.Transfer(context.Background(), testGuildID, testUserID, otherUserID, 300)
	require.NoError(t, err)

	sender := store.Account(testGuildID, testUserID)
	recipient := store.Account(testGuildID, otherUserID)
	assert.Equal(t, int64(700), sender.Wallet)
	assert.Equal(t, int64(800), recipient.Wallet)
	assert.Equal(t, int64(1500), sender.Wallet+recipient.Wallet)

	senderHistory := store.HistoryFor(testGuildID, testUserID)
	require.Len(t, senderHistory, 1)
	assert.Equal(t, entities.TransactionTypeTransferOut, senderHistory[0].TransactionType)

	recipientHistory := store.HistoryFor(testGuildID, otherUserID)
	require.Len(t, recipientHistory, 1)
	assert.Equal(t, entities.TransactionTypeTransferIn, recipientHistory[0].TransactionType)
}

func TestTransferCreatesRecipientAccount(t *testing.T) {
	svc, store := setupLedgerTest(t)
	seedAccount(store, testUserID, 1000, 0)

	err := svc.Transfer(context.Background(), testGuildID, testUserID, otherUserID, 100)
	require.NoError(t, err)

	recipient := store.Account(testGuildID, otherUserID)
	require.NotNil(t, recipient)
	assert.Equal(t, int64(600), recipient.Wallet) // starting wallet plus transfer
}

func TestTransferRejections(t *testing.T) {
	svc, store := setupLedgerTest(t)
	seedAccount(store, testUserID, 100, 0)
	ctx := context.Background()

	assert.ErrorIs(t, svc.Transfer(ctx, testGuildID, testUserID, testUserID, 50), domain.ErrSelfTransfer)
	assert.ErrorIs(t, svc.Transfer(ctx, testGuildID, testUserID, -1, 50), domain.ErrInvalidTarget)
	assert.ErrorIs(t, svc.Transfer(ctx, testGuildID, testUserID, otherUserID, 0), domain.ErrInvalidAmount)
	assert.ErrorIs(t, svc.Transfer(ctx, testGuildID, testUserID, otherUserID, 500), domain.ErrInsufficientFunds)

	// failed transfers leave both sides untouched
	assert.Equal(t, int64(100), store.Account(testGuildID, testUserID).Wallet)
}

func TestDepositAndWithdraw(t *testing.T) {
	svc, store := setupLedgerTest(t)
	seedAccount(store, testUserID, 500, 100)
	ctx := context.Background()

	summary, err := svc.Deposit(ctx, testGuildID, testUserID, 300)
	require.NoError(t, err)
	assert.Equal(t, int64(200), summary.Wallet)
	assert.Equal(t, int64(400), summary.Bank)
	assert.Equal(t, int64(600), summary.Total)

	summary, err = svc.Withdraw(ctx, testGuildID, testUserID, 150)
	require.NoError(t, err)
	assert.Equal(t, int64(350), summary.Wallet)
	assert.Equal(t, int64(250), summary.Bank)

	account := store.Account(testGuildID, testUserID)
	assert.Equal(t, int64(350), account.Wallet)
	assert.Equal(t, int64(250), account.Bank)
}

func TestDepositInsufficientWallet(t *testing.T) {
	svc, store := setupLedgerTest(t)
	seedAccount(store, testUserID, 100, 0)

	_, err := svc.Deposit(context.Background(), testGuildID, testUserID, 200)
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
	assert.Equal(t, int64(100), store.Account(testGuildID, testUserID).Wallet)
}

func TestWithdrawInsufficientBank(t *testing.T) {
	svc, store := setupLedgerTest(t)
	seedAccount(store, testUserID, 0, 100)

	_, err := svc.Withdraw(context.Background(), testGuildID, testUserID, 200)
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
	assert.Equal(t, int64(100), store.Account(testGuildID, testUserID).Bank)
}

func TestClaimDaily(t *testing.T) {
	svc, store := setupLedgerTest(t)
	seedAccount(store, testUserID, 1000, 0)
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return base }

	result, err := svc.ClaimDaily(ctx, testGuildID, testUserID)
	require.NoError(t, err)
	assert.Equal(t, int64(100), result.Amount)
	assert.Equal(t, int64(1100), result.NewWallet)
	assert.Equal(t, 1, result.Streak)

	// immediate second claim is rejected with the remaining wait
	svc.now = func() time.Time { return base.Add(30 * time.Minute) }
	_, err = svc.ClaimDaily(ctx, testGuildID, testUserID)
	cooldown, ok := domain.AsCooldownError(err)
	require.True(t, ok)
	assert.Equal(t, 23*time.Hour+30*time.Minute, cooldown.Remaining)
	assert.Equal(t, int64(1100), store.Account(testGuildID, testUserID).Wallet)

	// next day extends the streak and scales the reward
	svc.now = func() time.Time { return base.Add(25 * time.Hour) }
	result, err = svc.ClaimDaily(ctx, testGuildID, testUserID)
	require.NoError(t, err)
	assert.Equal(t, int64(125), result.Amount)
	assert.Equal(t, 2, result.Streak)

	// claiming beyond the streak window starts over
	svc.now = func() time.Time { return base.Add(25*time.Hour + 50*time.Hour) }
	result, err = svc.ClaimDaily(ctx, testGuildID, testUserID)
	require.NoError(t, err)
	assert.Equal(t, int64(100), result.Amount)
	assert.Equal(t, 1, result.Streak)
}

func TestWork(t *testing.T) {
	svc, store := setupLedgerTest(t)
	seedAccount(store, testUserID, 500, 0)
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return base }
	svc.randInt63n = func(n int64) int64 { return 25 }

	result, err := svc.Work(ctx, testGuildID, testUserID)
	require.NoError(t, err)
	assert.Equal(t, int64(75), result.Amount) // min reward plus roll
	assert.Equal(t, int64(575), result.NewWallet)

	svc.now = func() time.Time { return base.Add(10 * time.Minute) }
	_, err = svc.Work(ctx, testGuildID, testUserID)
	cooldown, ok := domain.AsCooldownError(err)
	require.True(t, ok)
	assert.Equal(t, 50*time.Minute, cooldown.Remaining)
	assert.Equal(t, int64(575), store.Account(testGuildID, testUserID).Wallet)

	svc.now = func() time.Time { return base.Add(2 * time.Hour) }
	result, err = svc.Work(ctx, testGuildID, testUserID)
	require.NoError(t, err)
	assert.Equal(t, int64(650), result.NewWallet)
}

func TestWorkRewardBounds(t *testing.T) {
	svc, store := setupLedgerTest(t)
	seedAccount(store, testUserID, 0, 0)

	// the roll spans [min, max] inclusive
	svc.randInt63n = func(n int64) int64 {
		assert.Equal(t, int64(101), n)
		return n - 1
	}

	result, err := svc.Work(context.Background(), testGuildID, testUserID)
	require.NoError(t, err)
	assert.Equal(t, int64(150), result.Amount)
	assert.Equal(t, int64(150), store.Account(testGuildID, testUserID).Wallet)
}

func TestConcurrentRemoveFundsNeverOverdraws(t *testing.T) {
	svc, store := setupLedgerTest(t)
	seedAccount(store, testUserID, 500, 0)
	ctx := context.Background()

	const attempts = 10
	var wg sync.WaitGroup
	results := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.RemoveFunds(ctx, testGuildID, testUserID, 100, entities.TransactionTypeBlackjackBet, nil)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
		}
	}

	assert.Equal(t, 5, succeeded)
	assert.Equal(t, int64(0), store.Account(testGuildID, testUserID).Wallet)
}
