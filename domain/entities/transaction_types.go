package entities

// TransactionType represents the type of wallet change recorded in history.
type TransactionType string

// All transaction types supported by the system
const (
	// Reward transactions
	TransactionTypeDailyReward TransactionType = "daily_reward"
	TransactionTypeWorkReward  TransactionType = "work_reward"

	// Transfer transactions
	TransactionTypeTransferIn  TransactionType = "transfer_in"
	TransactionTypeTransferOut TransactionType = "transfer_out"

	// Wallet/bank movements
	TransactionTypeDeposit  TransactionType = "deposit"
	TransactionTypeWithdraw TransactionType = "withdraw"

	// Blackjack transactions
	TransactionTypeBlackjackBet  TransactionType = "blackjack_bet"
	TransactionTypeBlackjackWin  TransactionType = "blackjack_win"
	TransactionTypeBlackjackPush TransactionType = "blackjack_push"

	// Shop transactions
	TransactionTypeShopPurchase TransactionType = "shop_purchase"

	// System transactions
	TransactionTypeInitial TransactionType = "initial"
)

// IsRewardType returns true for cooldown-gated reward credits.
func (tt TransactionType) IsRewardType() bool {
	return tt == TransactionTypeDailyReward || tt == TransactionTypeWorkReward
}

// IsTransferType returns true if the transaction moved funds between members.
func (tt TransactionType) IsTransferType() bool {
	return tt == TransactionTypeTransferIn || tt == TransactionTypeTransferOut
}

// IsGamblingRelated returns true for blackjack wager transactions.
func (tt TransactionType) IsGamblingRelated() bool {
	return tt == TransactionTypeBlackjackBet ||
		tt == TransactionTypeBlackjackWin ||
		tt == TransactionTypeBlackjackPush
}

// IsBankMovement returns true for wallet/bank moves that leave total funds unchanged.
func (tt TransactionType) IsBankMovement() bool {
	return tt == TransactionTypeDeposit || tt == TransactionTypeWithdraw
}

// String returns the string representation of the transaction type.
func (tt TransactionType) String() string {
	return string(tt)
}
