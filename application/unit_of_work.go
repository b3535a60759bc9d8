package application

import (
	"context"

	"guildbank/domain/interfaces"
)

// UnitOfWork defines the interface for transactional repository operations.
// Repositories obtained from a unit of work share one storage transaction;
// events published through EventBus are buffered and flushed only on commit.
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction and flushes buffered events
	Commit() error

	// Rollback rolls back the transaction and discards buffered events
	Rollback() error

	// Repository getters
	AccountRepository() interfaces.AccountRepository
	BalanceHistoryRepository() interfaces.BalanceHistoryRepository
	ShopItemRepository() interfaces.ShopItemRepository
	InventoryRepository() interfaces.InventoryRepository
	EventBus() interfaces.EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	// CreateForGuild creates a new UnitOfWork instance scoped to a specific guild
	CreateForGuild(guildID int64) UnitOfWork
}
