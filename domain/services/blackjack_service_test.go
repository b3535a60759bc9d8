package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"guildbank/config"
	"guildbank/domain"
	"guildbank/domain/entities"
	"guildbank/domain/interfaces"
	"guildbank/domain/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupBlackjackTest(t *testing.T) (*blackjackService, *testhelpers.MemoryStore) {
	t.Helper()
	config.SetTestConfig(config.NewTestConfig())
	t.Cleanup(config.ResetConfig)

	factory := testhelpers.NewMemoryUnitOfWorkFactory()
	locks := NewAccountLocks()
	ledger := NewLedgerService(factory, locks)

	publisher := new(testhelpers.MockEventPublisher)
	publisher.On("Publish", mock.Anything).Return(nil)

	svc := NewBlackjackService(ledger, publisher).(*blackjackService)
	return svc, factory.Store
}

// bjCard builds a card for stacked decks; suits never matter in blackjack.
func bjCard(r entities.Rank) entities.Card {
	return entities.Card{Rank: r, Suit: entities.Spades}
}

func stackDeck(svc *blackjackService, ranks ...entities.Rank) {
	cards := make([]entities.Card, len(ranks))
	for i, r := range ranks {
		cards[i] = bjCard(r)
	}
	svc.newDeck = func() *entities.Deck { return entities.DeckFrom(cards...) }
}

func TestStartDebitsBetAndDeals(t *testing.T) {
	svc, store := setupBlackjackTest(t)
	seedAccount(store, testUserID, 500, 0)
	// player 19, dealer 10
	stackDeck(svc, entities.Ten, entities.Nine, entities.Five, entities.Five)

	view, err := svc.Start(context.Background(), testGuildID, testUserID, 200)
	require.NoError(t, err)

	assert.Equal(t, entities.GameStatusActive, view.Status)
	assert.Equal(t, int64(200), view.Bet)
	assert.Equal(t, 19, view.PlayerHand.Value())
	assert.Len(t, view.DealerHand, 2)
	assert.Equal(t, int64(300), view.WalletAfter)
	assert.Equal(t, int64(300), store.Account(testGuildID, testUserID).Wallet)

	_, active := svc.ActiveGame(testGuildID, testUserID)
	assert.True(t, active)
}

func TestStartRejectsNonPositiveBet(t *testing.T) {
	svc, store := setupBlackjackTest(t)
	seedAccount(store, testUserID, 500, 0)
	ctx := context.Background()

	_, err := svc.Start(ctx, testGuildID, testUserID, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidBet)

	_, err = svc.Start(ctx, testGuildID, testUserID, -100)
	assert.ErrorIs(t, err, domain.ErrInvalidBet)

	assert.Equal(t, int64(500), store.Account(testGuildID, testUserID).Wallet)
}

func TestStartInsufficientFunds(t *testing.T) {
	svc, store := setupBlackjackTest(t)
	seedAccount(store, testUserID, 100, 0)

	_, err := svc.Start(context.Background(), testGuildID, testUserID, 200)
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)

	assert.Equal(t, int64(100), store.Account(testGuildID, testUserID).Wallet)
	_, active := svc.ActiveGame(testGuildID, testUserID)
	assert.False(t, active)
}

func TestStartSecondGameRejected(t *testing.T) {
	svc, store := setupBlackjackTest(t)
	seedAccount(store, testUserID, 500, 0)
	stackDeck(svc, entities.Ten, entities.Nine, entities.Five, entities.Five)
	ctx := context.Background()

	_, err := svc.Start(ctx, testGuildID, testUserID, 200)
	require.NoError(t, err)

	_, err = svc.Start(ctx, testGuildID, testUserID, 100)
	assert.ErrorIs(t, err, domain.ErrGameAlreadyActive)

	// the bet was taken exactly once
	assert.Equal(t, int64(300), store.Account(testGuildID, testUserID).Wallet)
}

func TestStartPlayerNaturalSettlesImmediately(t *testing.T) {
	svc, store := setupBlackjackTest(t)
	seedAccount(store, testUserID, 500, 0)
	// player A+K natural, dealer 17
	stackDeck(svc, entities.Ace, entities.King, entities.Nine, entities.Eight)

	view, err := svc.Start(context.Background(), testGuildID, testUserID, 200)
	require.NoError(t, err)

	assert.Equal(t, entities.GameStatusResolved, view.Status)
	assert.Equal(t, entities.GameResultWin, view.Result)
	assert.Equal(t, int64(400), view.Payout)
	assert.Equal(t, int64(700), view.WalletAfter)
	assert.Equal(t, int64(700), store.Account(testGuildID, testUserID).Wallet)

	_, active := svc.ActiveGame(testGuildID, testUserID)
	assert.False(t, active)
}

// flakyLedger delegates to a real ledger but fails a set number of credit
// calls, simulating a storage outage between the bet debit and the payout.
type flakyLedger struct {
	interfaces.LedgerService
	mu            sync.Mutex
	creditsToFail int
}

func (l *flakyLedger) AddFunds(ctx context.Context, guildID, userID, amount int64, txType entities.TransactionType, metadata map[string]any) (int64, error) {
	l.mu.Lock()
	fail := l.creditsToFail > 0
	if fail {
		l.creditsToFail--
	}
	l.mu.Unlock()
	if fail {
		return 0, domain.StorageError(errors.New("connection reset"))
	}
	return l.LedgerService.AddFunds(ctx, guildID, userID, amount, txType, metadata)
}

func TestStartNaturalPayoutFailureKeepsGameRetryable(t *testing.T) {
	config.SetTestConfig(config.NewTestConfig())
	t.Cleanup(config.ResetConfig)

	factory := testhelpers.NewMemoryUnitOfWorkFactory()
	ledger := &flakyLedger{
		LedgerService: NewLedgerService(factory, NewAccountLocks()),
		creditsToFail: 1,
	}
	publisher := new(testhelpers.MockEventPublisher)
	publisher.On("Publish", mock.Anything).Return(nil)
	svc := NewBlackjackService(ledger, publisher).(*blackjackService)

	store := factory.Store
	seedAccount(store, testUserID, 500, 0)
	// player A+K natural, dealer 17
	stackDeck(svc, entities.Ace, entities.King, entities.Nine, entities.Eight)
	ctx := context.Background()

	_, err := svc.Start(ctx, testGuildID, testUserID, 200)
	assert.ErrorIs(t, err, domain.ErrStorageUnavailable)

	// the stake is debited but the game stays live for a retry
	assert.Equal(t, int64(300), store.Account(testGuildID, testUserID).Wallet)
	_, active := svc.ActiveGame(testGuildID, testUserID)
	require.True(t, active)

	view, err := svc.Stand(ctx, testGuildID, testUserID)
	require.NoError(t, err)
	assert.Equal(t, entities.GameResultWin, view.Result)
	assert.Equal(t, int64(400), view.Payout)
	assert.Equal(t, int64(700), store.Account(testGuildID, testUserID).Wallet)

	_, active = svc.ActiveGame(testGuildID, testUserID)
	assert.False(t, active)
}

func TestStartBothNaturalsTie(t *testing.T) {
	svc, store := setupBlackjackTest(t)
	seedAccount(store, testUserID, 500, 0)
	stackDeck(svc, entities.Ace, entities.King, entities.Ace, entities.Queen)

	view, err := svc.Start(context.Background(), testGuildID, testUserID, 200)
	require.NoError(t, err)

	assert.Equal(t, entities.GameResultTie, view.Result)
	assert.Equal(t, int64(200), view.Payout)
	assert.Equal(t, int64(500), store.Account(testGuildID, testUserID).Wallet)
}

func TestHitDealsAndKeepsGameLive(t *testing.T) {
	svc, store := setupBlackjackTest(t)
	seedAccount(store, testUserID, 500, 0)
	// player 2+3, dealer 10+6, hit card 5
	stackDeck(svc, entities.Two, entities.Three, entities.Ten, entities.Six, entities.Five)
	ctx := context.Background()

	_, err := svc.Start(ctx, testGuildID, testUserID, 200)
	require.NoError(t, err)

	view, err := svc.Hit(ctx, testGuildID, testUserID)
	require.NoError(t, err)
	assert.Equal(t, entities.GameStatusActive, view.Status)
	assert.Equal(t, 10, view.PlayerHand.Value())
	assert.Len(t, view.PlayerHand, 3)
}

func TestHitBustLosesStake(t *testing.T) {
	svc, store := setupBlackjackTest(t)
	seedAccount(store, testUserID, 500, 0)
	// player 19, dealer 10, hit card busts
	stackDeck(svc, entities.Ten, entities.Nine, entities.Five, entities.Five, entities.King)
	ctx := context.Background()

	_, err := svc.Start(ctx, testGuildID, testUserID, 200)
	require.NoError(t, err)

	view, err := svc.Hit(ctx, testGuildID, testUserID)
	require.NoError(t, err)
	assert.Equal(t, entities.GameStatusResolved, view.Status)
	assert.Equal(t, entities.GameResultLose, view.Result)
	assert.Equal(t, int64(0), view.Payout)

	// stake stays lost, nothing is credited back
	assert.Equal(t, int64(300), store.Account(testGuildID, testUserID).Wallet)
	_, active := svc.ActiveGame(testGuildID, testUserID)
	assert.False(t, active)
}

func TestHitWithoutGame(t *testing.T) {
	svc, _ := setupBlackjackTest(t)

	_, err := svc.Hit(context.Background(), testGuildID, testUserID)
	assert.ErrorIs(t, err, domain.ErrNoActiveGame)
}

func TestStandDealerBustPaysDouble(t *testing.T) {
	svc, store := setupBlackjackTest(t)
	seedAccount(store, testUserID, 500, 0)
	// player 19, dealer 16 draws a king and busts
	stackDeck(svc, entities.Ten, entities.Nine, entities.Ten, entities.Six, entities.King)
	ctx := context.Background()

	_, err := svc.Start(ctx, testGuildID, testUserID, 200)
	require.NoError(t, err)

	view, err := svc.Stand(ctx, testGuildID, testUserID)
	require.NoError(t, err)
	assert.Equal(t, entities.GameResultWin, view.Result)
	assert.Equal(t, int64(400), view.Payout)
	assert.Equal(t, int64(700), view.WalletAfter)
	assert.Equal(t, int64(700), store.Account(testGuildID, testUserID).Wallet)
}

func TestStandPushRefundsStake(t *testing.T) {
	svc, store := setupBlackjackTest(t)
	seedAccount(store, testUserID, 500, 0)
	// player 18 vs dealer 18
	stackDeck(svc, entities.Ten, entities.Eight, entities.Ten, entities.Eight)
	ctx := context.Background()

	_, err := svc.Start(ctx, testGuildID, testUserID, 200)
	require.NoError(t, err)

	view, err := svc.Stand(ctx, testGuildID, testUserID)
	require.NoError(t, err)
	assert.Equal(t, entities.GameResultTie, view.Result)
	assert.Equal(t, int64(200), view.Payout)
	assert.Equal(t, int64(500), store.Account(testGuildID, testUserID).Wallet)
}

func TestStandDealerWins(t *testing.T) {
	svc, store := setupBlackjackTest(t)
	seedAccount(store, testUserID, 500, 0)
	// player 17 vs dealer 19
	stackDeck(svc, entities.Ten, entities.Seven, entities.Ten, entities.Nine)
	ctx := context.Background()

	_, err := svc.Start(ctx, testGuildID, testUserID, 200)
	require.NoError(t, err)

	view, err := svc.Stand(ctx, testGuildID, testUserID)
	require.NoError(t, err)
	assert.Equal(t, entities.GameResultLose, view.Result)
	assert.Equal(t, int64(0), view.Payout)
	assert.Equal(t, int64(300), store.Account(testGuildID, testUserID).Wallet)
}

func TestStandWithoutGame(t *testing.T) {
	svc, _ := setupBlackjackTest(t)

	_, err := svc.Stand(context.Background(), testGuildID, testUserID)
	assert.ErrorIs(t, err, domain.ErrNoActiveGame)
}

func TestResolvedGameAllowsNewRound(t *testing.T) {
	svc, store := setupBlackjackTest(t)
	seedAccount(store, testUserID, 500, 0)
	stackDeck(svc, entities.Ten, entities.Eight, entities.Ten, entities.Eight)
	ctx := context.Background()

	_, err := svc.Start(ctx, testGuildID, testUserID, 200)
	require.NoError(t, err)
	_, err = svc.Stand(ctx, testGuildID, testUserID)
	require.NoError(t, err)

	_, err = svc.Start(ctx, testGuildID, testUserID, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(400), store.Account(testGuildID, testUserID).Wallet)
}

func TestConcurrentStartsYieldOneGame(t *testing.T) {
	svc, store := setupBlackjackTest(t)
	seedAccount(store, testUserID, 500, 0)
	stackDeck(svc, entities.Ten, entities.Nine, entities.Five, entities.Five)
	ctx := context.Background()

	const attempts = 8
	var wg sync.WaitGroup
	results := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Start(ctx, testGuildID, testUserID, 200)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	started := 0
	for err := range results {
		if err == nil {
			started++
		} else {
			assert.ErrorIs(t, err, domain.ErrGameAlreadyActive)
		}
	}

	assert.Equal(t, 1, started)
	// exactly one bet was taken
	assert.Equal(t, int64(300), store.Account(testGuildID, testUserID).Wallet)
}
