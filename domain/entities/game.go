package entities

import (
	"time"
)

// GameStatus represents the lifecycle state of a blackjack game.
type GameStatus string

const (
	GameStatusActive   GameStatus = "active"
	GameStatusResolved GameStatus = "resolved"
)

// GameResult represents the outcome of a resolved game.
type GameResult string

const (
	GameResultWin  GameResult = "win"
	GameResultLose GameResult = "lose"
	GameResultTie  GameResult = "tie"
)

// dealerStandValue is the value at which the dealer stops drawing, soft or hard.
const dealerStandValue = 17

// BlackjackGame holds the in-flight state of one member's blackjack round.
// The bet has already been removed from the wallet when the game exists.
// Games are ephemeral: they live only in the game engine's in-memory index
// and are never persisted.
type BlackjackGame struct {
	GuildID    int64
	DiscordID  int64
	Bet        int64
	PlayerHand Hand
	DealerHand Hand
	Status     GameStatus
	Result     GameResult
	Payout     int64
	StartedAt  time.Time
	Deck       *Deck
}

// NewBlackjackGame creates an active game and deals the opening hands:
// two cards to the player, two to the dealer.
func NewBlackjackGame(guildID, discordID, bet int64, deck *Deck) *BlackjackGame {
	g := &BlackjackGame{
		GuildID:   guildID,
		DiscordID: discordID,
		Bet:       bet,
		Status:    GameStatusActive,
		StartedAt: time.Now(),
		Deck:      deck,
	}
	g.PlayerHand = Hand{deck.Deal(), deck.Deal()}
	g.DealerHand = Hand{deck.Deal(), deck.Deal()}
	return g
}

// DealToPlayer deals one card to the player's hand.
func (g *BlackjackGame) DealToPlayer() Card {
	c := g.Deck.Deal()
	g.PlayerHand = append(g.PlayerHand, c)
	return c
}

// PlayDealer draws dealer cards until the dealer reaches 17 or higher.
// The dealer stands on all 17s, including soft 17.
func (g *BlackjackGame) PlayDealer() {
	for g.DealerHand.Value() < dealerStandValue {
		g.DealerHand = append(g.DealerHand, g.Deck.Deal())
	}
}

// Outcome compares the hands and returns the result and gross payout.
// A win pays twice the bet (the stake back plus an equal win), a tie
// refunds the stake, a loss pays nothing since the bet was removed at start.
func (g *BlackjackGame) Outcome() (GameResult, int64) {
	player := g.PlayerHand.Value()
	dealer := g.DealerHand.Value()
	switch {
	case player > 21:
		return GameResultLose, 0
	case dealer > 21 || player > dealer:
		return GameResultWin, 2 * g.Bet
	case player == dealer:
		return GameResultTie, g.Bet
	default:
		return GameResultLose, 0
	}
}

// MarkResolved transitions the game to its terminal state.
func (g *BlackjackGame) MarkResolved(result GameResult, payout int64) {
	g.Status = GameStatusResolved
	g.Result = result
	g.Payout = payout
}

// IsActive reports whether the game still accepts player actions.
func (g *BlackjackGame) IsActive() bool {
	return g.Status == GameStatusActive
}
