package events

import "guildbank/domain/entities"

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeBalanceChange  EventType = "balance_change"
	EventTypeAccountCreated EventType = "account_created"
	EventTypeGameResolved   EventType = "game_resolved"
	EventTypeItemPurchased  EventType = "item_purchased"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// BalanceChangeEvent represents a wallet change that occurred
type BalanceChangeEvent struct {
	UserID          int64
	GuildID         int64
	OldWallet       int64
	NewWallet       int64
	TransactionType entities.TransactionType
	ChangeAmount    int64
}

func (e BalanceChangeEvent) Type() EventType {
	return EventTypeBalanceChange
}

// AccountCreatedEvent represents a lazily created account
type AccountCreatedEvent struct {
	UserID         int64
	GuildID        int64
	StartingWallet int64
}

func (e AccountCreatedEvent) Type() EventType {
	return EventTypeAccountCreated
}

// GameResolvedEvent represents a blackjack game reaching a terminal state
type GameResolvedEvent struct {
	UserID  int64
	GuildID int64
	Bet     int64
	Result  entities.GameResult
	Payout  int64
}

func (e GameResolvedEvent) Type() EventType {
	return EventTypeGameResolved
}

// ItemPurchasedEvent represents a completed shop purchase
type ItemPurchasedEvent struct {
	UserID     int64
	GuildID    int64
	ItemID     int64
	Quantity   int64
	TotalPrice int64
}

func (e ItemPurchasedEvent) Type() EventType {
	return EventTypeItemPurchased
}
