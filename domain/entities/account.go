package entities

import (
	"time"
)

// Account represents a member's economy state within a specific guild.
// Wallet and Bank are always non-negative; they change only through the
// ledger service, never by direct assignment from callers.
type Account struct {
	DiscordID   int64      `db:"discord_id"`
	GuildID     int64      `db:"guild_id"`
	Wallet      int64      `db:"wallet"`
	Bank        int64      `db:"bank"`
	DailyStreak int        `db:"daily_streak"`
	LastDailyAt *time.Time `db:"last_daily_at"`
	LastWorkAt  *time.Time `db:"last_work_at"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
}

// Total returns the combined wallet and bank balance.
func (a *Account) Total() int64 {
	return a.Wallet + a.Bank
}

// CanSpend checks if the wallet covers an amount.
func (a *Account) CanSpend(amount int64) bool {
	return a.Wallet >= amount
}

// CanWithdraw checks if the bank covers an amount.
func (a *Account) CanWithdraw(amount int64) bool {
	return a.Bank >= amount
}

// HasClaimedDaily reports whether the account has ever claimed a daily reward.
func (a *Account) HasClaimedDaily() bool {
	return a.LastDailyAt != nil
}

// HasWorked reports whether the account has ever claimed a work reward.
func (a *Account) HasWorked() bool {
	return a.LastWorkAt != nil
}
