package repository

import (
	"context"
	"fmt"

	"guildbank/application"
	"guildbank/database"
	"guildbank/domain/interfaces"
	"guildbank/events"

	"github.com/jackc/pgx/v5"
	log "github.com/sirupsen/logrus"
)

// unitOfWork implements the application.UnitOfWork interface. Events
// published while the transaction is open are buffered and only handed to
// the real publisher after a successful commit, so observers never see
// events for work that rolled back.
type unitOfWork struct {
	db        *database.DB
	tx        pgx.Tx
	ctx       context.Context
	guildID   int64
	publisher interfaces.EventPublisher
	pending   []events.Event

	accountRepo        interfaces.AccountRepository
	balanceHistoryRepo interfaces.BalanceHistoryRepository
	shopItemRepo       interfaces.ShopItemRepository
	inventoryRepo      interfaces.InventoryRepository
}

type unitOfWorkFactory struct {
	db        *database.DB
	publisher interfaces.EventPublisher
}

// NewUnitOfWorkFactory creates a new UnitOfWork factory. Events from every
// unit of work it creates flow to the given publisher on commit.
func NewUnitOfWorkFactory(db *database.DB, publisher interfaces.EventPublisher) application.UnitOfWorkFactory {
	return &unitOfWorkFactory{
		db:        db,
		publisher: publisher,
	}
}

// CreateForGuild creates a new UnitOfWork scoped to a specific guild
func (f *unitOfWorkFactory) CreateForGuild(guildID int64) application.UnitOfWork {
	return &unitOfWork{
		db:        f.db,
		guildID:   guildID,
		publisher: f.publisher,
	}
}

// Begin starts a new transaction
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	u.tx = tx
	u.ctx = ctx

	// Create guild-scoped repositories with the transaction
	u.accountRepo = newAccountRepositoryScoped(tx, u.guildID)
	u.balanceHistoryRepo = newBalanceHistoryRepositoryScoped(tx, u.guildID)
	u.shopItemRepo = newShopItemRepositoryScoped(tx, u.guildID)
	u.inventoryRepo = newInventoryRepositoryScoped(tx, u.guildID)

	return nil
}

// Commit commits the transaction and flushes buffered events
func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}

	err := u.tx.Commit(u.ctx)
	if err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	u.tx = nil

	for _, event := range u.pending {
		if err := u.publisher.Publish(event); err != nil {
			log.WithError(err).WithField("eventType", event.Type()).Error("Failed to publish event after commit")
		}
	}
	u.pending = nil

	return nil
}

// Rollback rolls back the transaction and discards buffered events
func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return nil // Nothing to rollback
	}

	err := u.tx.Rollback(u.ctx)
	if err != nil && err != pgx.ErrTxClosed {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}

	u.tx = nil
	u.pending = nil

	return nil
}

// AccountRepository returns the account repository for this unit of work
func (u *unitOfWork) AccountRepository() interfaces.AccountRepository {
	if u.accountRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.accountRepo
}

// BalanceHistoryRepository returns the balance history repository for this unit of work
func (u *unitOfWork) BalanceHistoryRepository() interfaces.BalanceHistoryRepository {
	if u.balanceHistoryRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.balanceHistoryRepo
}

// ShopItemRepository returns the shop item repository for this unit of work
func (u *unitOfWork) ShopItemRepository() interfaces.ShopItemRepository {
	if u.shopItemRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.shopItemRepo
}

// InventoryRepository returns the inventory repository for this unit of work
func (u *unitOfWork) InventoryRepository() interfaces.InventoryRepository {
	if u.inventoryRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.inventoryRepo
}

// EventBus returns a publisher that buffers events until commit
func (u *unitOfWork) EventBus() interfaces.EventPublisher {
	if u.tx == nil {
		panic("unit of work not started - call Begin() first")
	}
	return bufferingPublisher{u}
}

// bufferingPublisher appends events to the owning unit of work's buffer
type bufferingPublisher struct {
	uow *unitOfWork
}

func (p bufferingPublisher) Publish(event events.Event) error {
	p.uow.pending = append(p.uow.pending, event)
	return nil
}
