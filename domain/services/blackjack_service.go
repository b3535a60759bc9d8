package services

import (
	"context"
	"sync"

	"guildbank/domain"
	"guildbank/domain/entities"
	"guildbank/domain/interfaces"
	"guildbank/events"

	log "github.com/sirupsen/logrus"
)

// blackjackService runs the blackjack state machine. Games are ephemeral
// and live only in the in-memory index; the wager itself moves through the
// ledger, which owns all wallet state.
//
// Each operation holds the game key's mutex for its whole duration, so the
// at-most-one-live-game rule and every state transition are race free. The
// ledger takes its own account lock inside; the game lock is always
// acquired first and the ledger never reaches back into the game engine,
// so the ordering cannot deadlock.
type blackjackService struct {
	ledger    interfaces.LedgerService
	publisher interfaces.EventPublisher
	gameLocks *AccountLocks

	mu    sync.Mutex
	games map[accountKey]*entities.BlackjackGame

	// swapped out by tests to stack the deck
	newDeck func() *entities.Deck
}

// NewBlackjackService creates a new blackjack service. The game-key lock
// registry is private to this service and unrelated to the ledger's
// account locks.
func NewBlackjackService(ledger interfaces.LedgerService, publisher interfaces.EventPublisher) interfaces.BlackjackService {
	return &blackjackService{
		ledger:    ledger,
		publisher: publisher,
		gameLocks: NewAccountLocks(),
		games:     make(map[accountKey]*entities.BlackjackGame),
		newDeck:   entities.NewShuffledDeck,
	}
}

func (s *blackjackService) Start(ctx context.Context, guildID, userID, bet int64) (*interfaces.GameView, error) {
	if bet <= 0 {
		return nil, domain.ErrInvalidBet
	}

	unlock := s.gameLocks.Lock(guildID, userID)
	defer unlock()

	key := accountKey{guildID: guildID, discordID: userID}
	if s.lookupGame(key) != nil {
		return nil, domain.ErrGameAlreadyActive
	}

	// Debit first: the game only exists once the stake is secured.
	walletAfter, err := s.ledger.RemoveFunds(ctx, guildID, userID, bet, entities.TransactionTypeBlackjackBet, map[string]any{
		"game": "blackjack",
	})
	if err != nil {
		return nil, err
	}

	game := entities.NewBlackjackGame(guildID, userID, bet, s.newDeck())
	s.storeGame(key, game)

	// A natural stands automatically; the dealer plays out and the round
	// settles before the caller ever sees an active game. The game is
	// already in the index, so if the payout credit fails it stays live
	// with the stake intact and Stand settles it again.
	if game.PlayerHand.IsBlackjack() {
		game.PlayDealer()
		return s.settle(ctx, key, game)
	}

	log.WithFields(log.Fields{
		"guildID": guildID,
		"userID":  userID,
		"bet":     bet,
	}).Debug("Blackjack game started")

	return viewOf(game, walletAfter), nil
}

func (s *blackjackService) Hit(ctx context.Context, guildID, userID int64) (*interfaces.GameView, error) {
	unlock := s.gameLocks.Lock(guildID, userID)
	defer unlock()

	key := accountKey{guildID: guildID, discordID: userID}
	game := s.lookupGame(key)
	if game == nil {
		return nil, domain.ErrNoActiveGame
	}

	game.DealToPlayer()
	if game.PlayerHand.IsBust() {
		return s.settle(ctx, key, game)
	}

	return viewOf(game, 0), nil
}

func (s *blackjackService) Stand(ctx context.Context, guildID, userID int64) (*interfaces.GameView, error) {
	unlock := s.gameLocks.Lock(guildID, userID)
	defer unlock()

	key := accountKey{guildID: guildID, discordID: userID}
	game := s.lookupGame(key)
	if game == nil {
		return nil, domain.ErrNoActiveGame
	}

	game.PlayDealer()
	return s.settle(ctx, key, game)
}

func (s *blackjackService) ActiveGame(guildID, userID int64) (*interfaces.GameView, bool) {
	game := s.lookupGame(accountKey{guildID: guildID, discordID: userID})
	if game == nil {
		return nil, false
	}
	return viewOf(game, 0), true
}

// settle computes the outcome, credits any payout through the ledger and
// only then retires the game. If the credit fails the game stays live in
// the index with the wager intact, so a retry of Stand settles it again
// instead of losing the stake.
func (s *blackjackService) settle(ctx context.Context, key accountKey, game *entities.BlackjackGame) (*interfaces.GameView, error) {
	result, payout := game.Outcome()

	var walletAfter int64
	if payout > 0 {
		txType := entities.TransactionTypeBlackjackWin
		if result == entities.GameResultTie {
			txType = entities.TransactionTypeBlackjackPush
		}
		var err error
		walletAfter, err = s.ledger.AddFunds(ctx, game.GuildID, game.DiscordID, payout, txType, map[string]any{
			"game":   "blackjack",
			"bet":    game.Bet,
			"result": string(result),
		})
		if err != nil {
			return nil, err
		}
	}

	game.MarkResolved(result, payout)
	s.deleteGame(key)

	if err := s.publisher.Publish(events.GameResolvedEvent{
		UserID:  game.DiscordID,
		GuildID: game.GuildID,
		Bet:     game.Bet,
		Result:  result,
		Payout:  payout,
	}); err != nil {
		log.WithError(err).Error("Failed to publish game resolved event")
	}

	log.WithFields(log.Fields{
		"guildID": game.GuildID,
		"userID":  game.DiscordID,
		"bet":     game.Bet,
		"result":  result,
		"payout":  payout,
	}).Debug("Blackjack game resolved")

	return viewOf(game, walletAfter), nil
}

func (s *blackjackService) lookupGame(key accountKey) *entities.BlackjackGame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.games[key]
}

func (s *blackjackService) storeGame(key accountKey, game *entities.BlackjackGame) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games[key] = game
}

func (s *blackjackService) deleteGame(key accountKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.games, key)
}

func viewOf(game *entities.BlackjackGame, walletAfter int64) *interfaces.GameView {
	return &interfaces.GameView{
		Bet:         game.Bet,
		PlayerHand:  append(entities.Hand{}, game.PlayerHand...),
		DealerHand:  append(entities.Hand{}, game.DealerHand...),
		Status:      game.Status,
		Result:      game.Result,
		Payout:      game.Payout,
		WalletAfter: walletAfter,
	}
}
