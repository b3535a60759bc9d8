package testutil

import (
	"time"

	"guildbank/domain/entities"
)

// CreateTestAccount creates an account with default balances
func CreateTestAccount(guildID, discordID int64) *entities.Account {
	now := time.Now()
	return &entities.Account{
		DiscordID: discordID,
		GuildID:   guildID,
		Wallet:    1000,
		Bank:      0,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// CreateTestBalanceHistory creates a balance history entry for a wallet debit
func CreateTestBalanceHistory(guildID, discordID int64, transactionType entities.TransactionType) *entities.BalanceHistory {
	return &entities.BalanceHistory{
		DiscordID:       discordID,
		GuildID:         guildID,
		WalletBefore:    1000,
		WalletAfter:     900,
		ChangeAmount:    -100,
		TransactionType: transactionType,
		TransactionMetadata: map[string]any{
			"test": true,
		},
		CreatedAt: time.Now(),
	}
}

// CreateTestShopItem creates an active shop item with finite stock
func CreateTestShopItem(guildID int64, name string, price, stock int64) *entities.ShopItem {
	return &entities.ShopItem{
		GuildID:     guildID,
		Name:        name,
		Description: "test item",
		Price:       price,
		Stock:       stock,
		Active:      true,
	}
}
