package testhelpers

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"guildbank/application"
	"guildbank/domain/entities"
	"guildbank/domain/interfaces"
	"guildbank/events"
)

type storeAccountKey struct {
	GuildID   int64
	DiscordID int64
}

type storeInventoryKey struct {
	GuildID   int64
	DiscordID int64
	ItemID    int64
}

// MemoryStore is an in-memory stand-in for the database, shared by every
// unit of work a MemoryUnitOfWorkFactory hands out. Units of work operate
// on a copy of the state and merge it back on commit, so a rollback leaves
// the store untouched, matching real transaction semantics closely enough
// for service-level tests.
type MemoryStore struct {
	mu            sync.Mutex
	accounts      map[storeAccountKey]entities.Account
	history       []entities.BalanceHistory
	items         map[int64]entities.ShopItem
	inventory     map[storeInventoryKey]entities.InventoryEntry
	published     []events.Event
	nextItemID    int64
	nextHistoryID int64
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		accounts:      make(map[storeAccountKey]entities.Account),
		items:         make(map[int64]entities.ShopItem),
		inventory:     make(map[storeInventoryKey]entities.InventoryEntry),
		nextItemID:    1,
		nextHistoryID: 1,
	}
}

// SeedAccount inserts an account directly, bypassing transactions.
func (s *MemoryStore) SeedAccount(account *entities.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[storeAccountKey{GuildID: account.GuildID, DiscordID: account.DiscordID}] = *account
}

// SeedItem inserts a shop item directly and assigns its ID.
func (s *MemoryStore) SeedItem(item *entities.ShopItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if item.ID == 0 {
		item.ID = s.nextItemID
		s.nextItemID++
	}
	s.items[item.ID] = *item
}

// Account returns a copy of the stored account, or nil if absent.
func (s *MemoryStore) Account(guildID, discordID int64) *entities.Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[storeAccountKey{GuildID: guildID, DiscordID: discordID}]
	if !ok {
		return nil
	}
	return &a
}

// Item returns a copy of the stored item, or nil if absent.
func (s *MemoryStore) Item(itemID int64) *entities.ShopItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.items[itemID]
	if !ok {
		return nil
	}
	return &i
}

// InventoryQuantity returns how many units of an item a member owns.
func (s *MemoryStore) InventoryQuantity(guildID, discordID, itemID int64) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inventory[storeInventoryKey{GuildID: guildID, DiscordID: discordID, ItemID: itemID}].Quantity
}

// HistoryFor returns the committed history entries for a member, oldest first.
func (s *MemoryStore) HistoryFor(guildID, discordID int64) []entities.BalanceHistory {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []entities.BalanceHistory
	for _, h := range s.history {
		if h.GuildID == guildID && h.DiscordID == discordID {
			out = append(out, h)
		}
	}
	return out
}

// PublishedEvents returns every event flushed by committed units of work.
func (s *MemoryStore) PublishedEvents() []events.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]events.Event{}, s.published...)
}

// MemoryUnitOfWorkFactory creates units of work over a shared MemoryStore.
type MemoryUnitOfWorkFactory struct {
	Store *MemoryStore
}

// NewMemoryUnitOfWorkFactory creates a factory with a fresh store.
func NewMemoryUnitOfWorkFactory() *MemoryUnitOfWorkFactory {
	return &MemoryUnitOfWorkFactory{Store: NewMemoryStore()}
}

func (f *MemoryUnitOfWorkFactory) CreateForGuild(guildID int64) application.UnitOfWork {
	return &memoryUnitOfWork{store: f.Store, guildID: guildID}
}

// memoryUnitOfWork is a single in-memory transaction. Begin copies the
// store state; repositories mutate the copy; Commit merges it back and
// flushes buffered events.
type memoryUnitOfWork struct {
	store   *MemoryStore
	guildID int64
	started bool

	accounts      map[storeAccountKey]entities.Account
	history       []entities.BalanceHistory
	items         map[int64]entities.ShopItem
	inventory     map[storeInventoryKey]entities.InventoryEntry
	nextItemID    int64
	nextHistoryID int64
	pending       []events.Event
}

func (u *memoryUnitOfWork) Begin(ctx context.Context) error {
	if u.started {
		return fmt.Errorf("transaction already started")
	}
	u.store.mu.Lock()
	defer u.store.mu.Unlock()

	u.accounts = make(map[storeAccountKey]entities.Account, len(u.store.accounts))
	for k, v := range u.store.accounts {
		u.accounts[k] = v
	}
	u.items = make(map[int64]entities.ShopItem, len(u.store.items))
	for k, v := range u.store.items {
		u.items[k] = v
	}
	u.inventory = make(map[storeInventoryKey]entities.InventoryEntry, len(u.store.inventory))
	for k, v := range u.store.inventory {
		u.inventory[k] = v
	}
	u.history = append([]entities.BalanceHistory{}, u.store.history...)
	u.nextItemID = u.store.nextItemID
	u.nextHistoryID = u.store.nextHistoryID
	u.started = true
	return nil
}

func (u *memoryUnitOfWork) Commit() error {
	if !u.started {
		return fmt.Errorf("no transaction to commit")
	}
	u.store.mu.Lock()
	defer u.store.mu.Unlock()

	u.store.accounts = u.accounts
	u.store.items = u.items
	u.store.inventory = u.inventory
	u.store.history = u.history
	u.store.nextItemID = u.nextItemID
	u.store.nextHistoryID = u.nextHistoryID
	u.store.published = append(u.store.published, u.pending...)
	u.started = false
	u.pending = nil
	return nil
}

func (u *memoryUnitOfWork) Rollback() error {
	u.started = false
	u.pending = nil
	return nil
}

func (u *memoryUnitOfWork) AccountRepository() interfaces.AccountRepository {
	u.mustBeStarted()
	return &memoryAccountRepository{uow: u}
}

func (u *memoryUnitOfWork) BalanceHistoryRepository() interfaces.BalanceHistoryRepository {
	u.mustBeStarted()
	return &memoryBalanceHistoryRepository{uow: u}
}

func (u *memoryUnitOfWork) ShopItemRepository() interfaces.ShopItemRepository {
	u.mustBeStarted()
	return &memoryShopItemRepository{uow: u}
}

func (u *memoryUnitOfWork) InventoryRepository() interfaces.InventoryRepository {
	u.mustBeStarted()
	return &memoryInventoryRepository{uow: u}
}

func (u *memoryUnitOfWork) EventBus() interfaces.EventPublisher {
	u.mustBeStarted()
	return &memoryEventBus{uow: u}
}

func (u *memoryUnitOfWork) mustBeStarted() {
	if !u.started {
		panic("unit of work not started - call Begin first")
	}
}

type memoryAccountRepository struct {
	uow *memoryUnitOfWork
}

func (r *memoryAccountRepository) GetByUser(ctx context.Context, discordID int64) (*entities.Account, error) {
	a, ok := r.uow.accounts[storeAccountKey{GuildID: r.uow.guildID, DiscordID: discordID}]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (r *memoryAccountRepository) Create(ctx context.Context, discordID, startingWallet int64) (*entities.Account, error) {
	key := storeAccountKey{GuildID: r.uow.guildID, DiscordID: discordID}
	if _, exists := r.uow.accounts[key]; exists {
		return nil, fmt.Errorf("account already exists for user %d", discordID)
	}
	now := time.Now()
	account := entities.Account{
		DiscordID: discordID,
		GuildID:   r.uow.guildID,
		Wallet:    startingWallet,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.uow.accounts[key] = account
	return &account, nil
}

func (r *memoryAccountRepository) Update(ctx context.Context, account *entities.Account) error {
	key := storeAccountKey{GuildID: r.uow.guildID, DiscordID: account.DiscordID}
	if _, exists := r.uow.accounts[key]; !exists {
		return fmt.Errorf("account not found for user %d", account.DiscordID)
	}
	stored := *account
	stored.UpdatedAt = time.Now()
	r.uow.accounts[key] = stored
	return nil
}

type memoryBalanceHistoryRepository struct {
	uow *memoryUnitOfWork
}

func (r *memoryBalanceHistoryRepository) Record(ctx context.Context, history *entities.BalanceHistory) error {
	history.GuildID = r.uow.guildID
	if err := history.Validate(); err != nil {
		return err
	}
	history.ID = r.uow.nextHistoryID
	r.uow.nextHistoryID++
	history.CreatedAt = time.Now()
	r.uow.history = append(r.uow.history, *history)
	return nil
}

func (r *memoryBalanceHistoryRepository) GetByUser(ctx context.Context, discordID int64, limit int) ([]*entities.BalanceHistory, error) {
	var out []*entities.BalanceHistory
	for i := len(r.uow.history) - 1; i >= 0 && len(out) < limit; i-- {
		h := r.uow.history[i]
		if h.GuildID == r.uow.guildID && h.DiscordID == discordID {
			out = append(out, &h)
		}
	}
	return out, nil
}

type memoryShopItemRepository struct {
	uow *memoryUnitOfWork
}

func (r *memoryShopItemRepository) GetByID(ctx context.Context, itemID int64) (*entities.ShopItem, error) {
	item, ok := r.uow.items[itemID]
	if !ok || item.GuildID != r.uow.guildID {
		return nil, nil
	}
	return &item, nil
}

func (r *memoryShopItemRepository) ListActive(ctx context.Context) ([]*entities.ShopItem, error) {
	var out []*entities.ShopItem
	for _, item := range r.uow.items {
		if item.GuildID == r.uow.guildID && item.Active {
			i := item
			out = append(out, &i)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Price < out[b].Price })
	return out, nil
}

func (r *memoryShopItemRepository) Create(ctx context.Context, item *entities.ShopItem) error {
	item.ID = r.uow.nextItemID
	r.uow.nextItemID++
	item.GuildID = r.uow.guildID
	now := time.Now()
	item.CreatedAt = now
	item.UpdatedAt = now
	r.uow.items[item.ID] = *item
	return nil
}

func (r *memoryShopItemRepository) DecrementStock(ctx context.Context, itemID, quantity int64) (bool, error) {
	item, ok := r.uow.items[itemID]
	if !ok || item.GuildID != r.uow.guildID || item.Stock < quantity {
		return false, nil
	}
	item.Stock -= quantity
	item.UpdatedAt = time.Now()
	r.uow.items[itemID] = item
	return true, nil
}

type memoryInventoryRepository struct {
	uow *memoryUnitOfWork
}

func (r *memoryInventoryRepository) AddQuantity(ctx context.Context, discordID, itemID, quantity int64) error {
	key := storeInventoryKey{GuildID: r.uow.guildID, DiscordID: discordID, ItemID: itemID}
	entry, ok := r.uow.inventory[key]
	if !ok {
		entry = entities.InventoryEntry{
			GuildID:   r.uow.guildID,
			DiscordID: discordID,
			ItemID:    itemID,
		}
	}
	entry.Quantity += quantity
	entry.UpdatedAt = time.Now()
	r.uow.inventory[key] = entry
	return nil
}

func (r *memoryInventoryRepository) GetByUser(ctx context.Context, discordID int64) ([]*entities.InventoryEntry, error) {
	var out []*entities.InventoryEntry
	for _, entry := range r.uow.inventory {
		if entry.GuildID == r.uow.guildID && entry.DiscordID == discordID {
			e := entry
			out = append(out, &e)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].ItemID < out[b].ItemID })
	return out, nil
}

type memoryEventBus struct {
	uow *memoryUnitOfWork
}

func (b *memoryEventBus) Publish(event events.Event) error {
	b.uow.pending = append(b.uow.pending, event)
	return nil
}
