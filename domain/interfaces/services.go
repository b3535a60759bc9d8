package interfaces

import (
	"context"

	"guildbank/domain/entities"
)

// BalanceSummary is the result of a balance query.
type BalanceSummary struct {
	Wallet int64
	Bank   int64
	Total  int64
}

// DailyClaimResult is the result of a successful daily reward claim.
type DailyClaimResult struct {
	Amount    int64
	NewWallet int64
	Streak    int
}

// WorkResult is the result of a successful work reward claim.
type WorkResult struct {
	Amount    int64
	NewWallet int64
}

// LedgerService owns every wallet and bank mutation. All mutating operations
// are serialized per (guild, user) and run inside a single storage
// transaction, so balances can never go negative and multi-step mutations
// commit or roll back as a unit.
type LedgerService interface {
	// GetBalance returns the member's balances, creating the account with
	// the configured starting wallet on first interaction.
	GetBalance(ctx context.Context, guildID, userID int64) (*BalanceSummary, error)

	// AddFunds credits the wallet and returns the new wallet total.
	AddFunds(ctx context.Context, guildID, userID, amount int64, txType entities.TransactionType, metadata map[string]any) (int64, error)

	// RemoveFunds debits the wallet atomically with the sufficiency check
	// and returns the new wallet total.
	RemoveFunds(ctx context.Context, guildID, userID, amount int64, txType entities.TransactionType, metadata map[string]any) (int64, error)

	// Transfer moves wallet funds between two members as one transaction.
	Transfer(ctx context.Context, guildID, fromUserID, toUserID, amount int64) error

	// Deposit moves funds from wallet to bank.
	Deposit(ctx context.Context, guildID, userID, amount int64) (*BalanceSummary, error)

	// Withdraw moves funds from bank to wallet.
	Withdraw(ctx context.Context, guildID, userID, amount int64) (*BalanceSummary, error)

	// ClaimDaily credits the streak-scaled daily reward, subject to cooldown.
	ClaimDaily(ctx context.Context, guildID, userID int64) (*DailyClaimResult, error)

	// Work credits a randomized reward, subject to a shorter cooldown.
	Work(ctx context.Context, guildID, userID int64) (*WorkResult, error)
}

// GameView is the caller-facing snapshot of a blackjack game. DealerHand
// includes the hole card; hiding it while the game is active is a
// presentation concern.
type GameView struct {
	Bet         int64
	PlayerHand  entities.Hand
	DealerHand  entities.Hand
	Status      entities.GameStatus
	Result      entities.GameResult
	Payout      int64
	WalletAfter int64 // set when resolution credited the wallet
}

// BlackjackService runs at most one blackjack game per (guild, user).
// Terminal transitions settle the wager against the ledger.
type BlackjackService interface {
	// Start debits the bet and deals the opening hands. A player natural
	// auto-stands and returns the resolved view immediately.
	Start(ctx context.Context, guildID, userID, bet int64) (*GameView, error)

	// Hit deals one card to the player; a bust resolves the game as a loss.
	Hit(ctx context.Context, guildID, userID int64) (*GameView, error)

	// Stand plays out the dealer and settles the wager.
	Stand(ctx context.Context, guildID, userID int64) (*GameView, error)

	// ActiveGame returns the live game for the key, if any.
	ActiveGame(guildID, userID int64) (*GameView, bool)
}

// PurchaseResult is the result of a successful shop purchase.
type PurchaseResult struct {
	Item        *entities.ShopItem
	Quantity    int64
	TotalPrice  int64
	NewWallet   int64
	RoleGranted bool
}

// ShopService lists the catalog and performs stock-bounded purchases.
type ShopService interface {
	// ListItems returns the guild's active catalog.
	ListItems(ctx context.Context, guildID int64) ([]*entities.ShopItem, error)

	// Purchase atomically decrements stock, debits the wallet and grows the
	// member's inventory. Role granting happens after commit, best effort.
	Purchase(ctx context.Context, guildID, userID, itemID, quantity int64) (*PurchaseResult, error)
}

// RoleGranter grants a guild role to a member. Implemented by the Discord
// layer; failures are logged by the shop service, never rolled back.
type RoleGranter interface {
	GrantRole(ctx context.Context, guildID, userID, roleID int64) error
}
