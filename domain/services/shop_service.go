package services

import (
	"context"

	"guildbank/application"
	"guildbank/domain"
	"guildbank/domain/entities"
	"guildbank/domain/interfaces"
	"guildbank/events"

	log "github.com/sirupsen/logrus"
)

// shopService sells catalog items. A purchase decrements stock, debits the
// wallet and grows the member's inventory inside one transaction, sharing
// the ledger's account locks so concurrent wallet mutations for the same
// member stay serialized.
type shopService struct {
	uowFactory application.UnitOfWorkFactory
	locks      *AccountLocks
	roles      interfaces.RoleGranter
}

// NewShopService creates a new shop service. The locks registry must be the
// same one the ledger service uses. roles may be nil when no Discord session
// is available, in which case role-granting items deliver without the role.
func NewShopService(uowFactory application.UnitOfWorkFactory, locks *AccountLocks, roles interfaces.RoleGranter) interfaces.ShopService {
	return &shopService{
		uowFactory: uowFactory,
		locks:      locks,
		roles:      roles,
	}
}

func (s *shopService) ListItems(ctx context.Context, guildID int64) ([]*entities.ShopItem, error) {
	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return nil, domain.StorageError(err)
	}
	defer uow.Rollback()

	items, err := uow.ShopItemRepository().ListActive(ctx)
	if err != nil {
		return nil, domain.StorageError(err)
	}

	if err := uow.Commit(); err != nil {
		return nil, domain.StorageError(err)
	}
	return items, nil
}

func (s *shopService) Purchase(ctx context.Context, guildID, userID, itemID, quantity int64) (*interfaces.PurchaseResult, error) {
	if quantity <= 0 {
		return nil, domain.ErrInvalidAmount
	}

	unlock := s.locks.Lock(guildID, userID)
	defer unlock()

	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return nil, domain.StorageError(err)
	}
	defer uow.Rollback()

	item, err := uow.ShopItemRepository().GetByID(ctx, itemID)
	if err != nil {
		return nil, domain.StorageError(err)
	}
	if item == nil || !item.Active {
		return nil, domain.ErrItemNotFound
	}
	if !item.HasStock(quantity) {
		return nil, domain.ErrOutOfStock
	}

	totalPrice := item.Price * quantity

	account, err := getOrCreateAccount(ctx, uow, guildID, userID)
	if err != nil {
		return nil, domain.StorageError(err)
	}
	if !account.CanSpend(totalPrice) {
		return nil, domain.ErrInsufficientFunds
	}

	// The conditional decrement is the authority on stock: a concurrent
	// purchase that raced past the read above loses here and rolls back.
	if !item.HasUnlimitedStock() {
		ok, err := uow.ShopItemRepository().DecrementStock(ctx, itemID, quantity)
		if err != nil {
			return nil, domain.StorageError(err)
		}
		if !ok {
			return nil, domain.ErrOutOfStock
		}
		item.Stock -= quantity
	}

	walletBefore := account.Wallet
	account.Wallet -= totalPrice
	if err := uow.AccountRepository().Update(ctx, account); err != nil {
		return nil, domain.StorageError(err)
	}

	if err := uow.InventoryRepository().AddQuantity(ctx, userID, itemID, quantity); err != nil {
		return nil, domain.StorageError(err)
	}

	if err := recordWalletChange(ctx, uow, &entities.BalanceHistory{
		DiscordID:       userID,
		GuildID:         guildID,
		WalletBefore:    walletBefore,
		WalletAfter:     account.Wallet,
		ChangeAmount:    -totalPrice,
		TransactionType: entities.TransactionTypeShopPurchase,
		TransactionMetadata: map[string]any{
			"item_id":   itemID,
			"item_name": item.Name,
			"quantity":  quantity,
		},
	}); err != nil {
		return nil, domain.StorageError(err)
	}

	if err := uow.EventBus().Publish(events.ItemPurchasedEvent{
		UserID:     userID,
		GuildID:    guildID,
		ItemID:     itemID,
		Quantity:   quantity,
		TotalPrice: totalPrice,
	}); err != nil {
		return nil, domain.StorageError(err)
	}

	if err := uow.Commit(); err != nil {
		return nil, domain.StorageError(err)
	}

	result := &interfaces.PurchaseResult{
		Item:       item,
		Quantity:   quantity,
		TotalPrice: totalPrice,
		NewWallet:  account.Wallet,
	}

	// The purchase is committed; a failed role grant is reported, not undone.
	if item.GrantsRole() && s.roles != nil {
		if err := s.roles.GrantRole(ctx, guildID, userID, *item.RoleID); err != nil {
			log.WithFields(log.Fields{
				"guildID": guildID,
				"userID":  userID,
				"itemID":  itemID,
				"roleID":  *item.RoleID,
			}).WithError(err).Error("Failed to grant purchased role")
		} else {
			result.RoleGranted = true
		}
	}

	log.WithFields(log.Fields{
		"guildID":    guildID,
		"userID":     userID,
		"itemID":     itemID,
		"quantity":   quantity,
		"totalPrice": totalPrice,
	}).Debug("Shop purchase completed")

	return result, nil
}
