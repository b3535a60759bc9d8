package entities

import (
	"errors"
	"time"
)

// BalanceHistory represents one recorded wallet change. Every mutation the
// ledger performs leaves exactly one row per affected account.
type BalanceHistory struct {
	ID                  int64           `db:"id"`
	DiscordID           int64           `db:"discord_id"`
	GuildID             int64           `db:"guild_id"`
	WalletBefore        int64           `db:"wallet_before"`
	WalletAfter         int64           `db:"wallet_after"`
	ChangeAmount        int64           `db:"change_amount"`
	TransactionType     TransactionType `db:"transaction_type"`
	TransactionMetadata map[string]any  `db:"transaction_metadata"`
	CreatedAt           time.Time       `db:"created_at"`
}

// IsCredit returns true if the change increased the wallet.
func (bh *BalanceHistory) IsCredit() bool {
	return bh.ChangeAmount > 0
}

// IsDebit returns true if the change decreased the wallet.
func (bh *BalanceHistory) IsDebit() bool {
	return bh.ChangeAmount < 0
}

// Validate performs basic consistency checks on the entry.
func (bh *BalanceHistory) Validate() error {
	if bh.ChangeAmount == 0 {
		return errors.New("change amount cannot be zero")
	}
	if bh.WalletAfter != bh.WalletBefore+bh.ChangeAmount {
		return errors.New("wallet calculation is inconsistent")
	}
	if bh.WalletAfter < 0 {
		return errors.New("wallet cannot go negative")
	}
	return nil
}

// Description returns a human-readable label for the transaction.
func (bh *BalanceHistory) Description() string {
	switch bh.TransactionType {
	case TransactionTypeDailyReward:
		return "Daily reward"
	case TransactionTypeWorkReward:
		return "Work reward"
	case TransactionTypeTransferIn:
		return "Transfer received"
	case TransactionTypeTransferOut:
		return "Transfer sent"
	case TransactionTypeDeposit:
		return "Bank deposit"
	case TransactionTypeWithdraw:
		return "Bank withdrawal"
	case TransactionTypeBlackjackBet:
		return "Blackjack bet"
	case TransactionTypeBlackjackWin:
		return "Blackjack win"
	case TransactionTypeBlackjackPush:
		return "Blackjack push"
	case TransactionTypeShopPurchase:
		return "Shop purchase"
	case TransactionTypeInitial:
		return "Starting balance"
	default:
		return string(bh.TransactionType)
	}
}
