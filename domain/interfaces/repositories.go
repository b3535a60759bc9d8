package interfaces

import (
	"context"

	"guildbank/domain/entities"
	"guildbank/events"
)

// AccountRepository manages account rows. Implementations are guild-scoped:
// the guild ID is bound at construction and every method operates within it.
type AccountRepository interface {
	// GetByUser retrieves an account by Discord ID, or nil if absent.
	GetByUser(ctx context.Context, discordID int64) (*entities.Account, error)

	// Create inserts a new account with the given starting wallet.
	Create(ctx context.Context, discordID, startingWallet int64) (*entities.Account, error)

	// Update persists wallet, bank, streak and cooldown fields of an account.
	Update(ctx context.Context, account *entities.Account) error
}

// BalanceHistoryRepository records and queries wallet changes.
type BalanceHistoryRepository interface {
	// Record inserts a history entry and sets its ID.
	Record(ctx context.Context, history *entities.BalanceHistory) error

	// GetByUser returns the most recent entries for a member, newest first.
	GetByUser(ctx context.Context, discordID int64, limit int) ([]*entities.BalanceHistory, error)
}

// ShopItemRepository manages the guild's purchasable catalog.
type ShopItemRepository interface {
	// GetByID retrieves an item by ID, or nil if absent.
	GetByID(ctx context.Context, itemID int64) (*entities.ShopItem, error)

	// ListActive returns all active items in the guild.
	ListActive(ctx context.Context) ([]*entities.ShopItem, error)

	// Create inserts a new catalog item and sets its ID.
	Create(ctx context.Context, item *entities.ShopItem) error

	// DecrementStock atomically reduces finite stock by quantity.
	// It returns false when remaining stock cannot cover the quantity.
	DecrementStock(ctx context.Context, itemID, quantity int64) (bool, error)
}

// InventoryRepository tracks per-member item ownership.
type InventoryRepository interface {
	// AddQuantity increments a member's holding of an item, creating the
	// entry when absent.
	AddQuantity(ctx context.Context, discordID, itemID, quantity int64) error

	// GetByUser returns all inventory entries for a member.
	GetByUser(ctx context.Context, discordID int64) ([]*entities.InventoryEntry, error)
}

// EventPublisher publishes domain events.
type EventPublisher interface {
	Publish(event events.Event) error
}
