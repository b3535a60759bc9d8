package services

import (
	"context"
	"fmt"

	"guildbank/application"
	"guildbank/config"
	"guildbank/domain/entities"
	"guildbank/events"
)

// getOrCreateAccount loads the member's account inside the given unit of
// work, creating it with the configured starting wallet on first economic
// interaction. Creation records an initial history entry and publishes an
// AccountCreatedEvent through the unit of work's event bus.
func getOrCreateAccount(ctx context.Context, uow application.UnitOfWork, guildID, discordID int64) (*entities.Account, error) {
	account, err := uow.AccountRepository().GetByUser(ctx, discordID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if account != nil {
		return account, nil
	}

	startingWallet := config.Get().StartingWallet
	account, err = uow.AccountRepository().Create(ctx, discordID, startingWallet)
	if err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	if startingWallet > 0 {
		history := &entities.BalanceHistory{
			DiscordID:       discordID,
			GuildID:         guildID,
			WalletBefore:    0,
			WalletAfter:     startingWallet,
			ChangeAmount:    startingWallet,
			TransactionType: entities.TransactionTypeInitial,
		}
		if err := uow.BalanceHistoryRepository().Record(ctx, history); err != nil {
			return nil, fmt.Errorf("failed to record initial balance: %w", err)
		}
	}

	if err := uow.EventBus().Publish(events.AccountCreatedEvent{
		UserID:         discordID,
		GuildID:        guildID,
		StartingWallet: startingWallet,
	}); err != nil {
		return nil, fmt.Errorf("failed to publish account created event: %w", err)
	}

	return account, nil
}

// recordWalletChange records a history entry for a wallet mutation and
// publishes the matching BalanceChangeEvent. The single entry point for all
// wallet changes in the system.
func recordWalletChange(ctx context.Context, uow application.UnitOfWork, history *entities.BalanceHistory) error {
	if err := uow.BalanceHistoryRepository().Record(ctx, history); err != nil {
		return fmt.Errorf("failed to record balance history: %w", err)
	}

	if err := uow.EventBus().Publish(events.BalanceChangeEvent{
		UserID:          history.DiscordID,
		GuildID:         history.GuildID,
		OldWallet:       history.WalletBefore,
		NewWallet:       history.WalletAfter,
		TransactionType: history.TransactionType,
		ChangeAmount:    history.ChangeAmount,
	}); err != nil {
		return fmt.Errorf("failed to publish balance change event: %w", err)
	}

	return nil
}
