package repository

import (
	"context"
	"fmt"

	"guildbank/database"
	"guildbank/domain/entities"

	"github.com/jackc/pgx/v5"
)

// AccountRepository implements the AccountRepository interface
type AccountRepository struct {
	q       Queryable
	guildID int64
}

// NewAccountRepository creates a new account repository scoped to a guild
func NewAccountRepository(db *database.DB, guildID int64) *AccountRepository {
	return &AccountRepository{q: db.Pool, guildID: guildID}
}

// newAccountRepositoryScoped creates a new account repository with a transaction and guild scope
func newAccountRepositoryScoped(tx Queryable, guildID int64) *AccountRepository {
	return &AccountRepository{
		q:       tx,
		guildID: guildID,
	}
}

// GetByUser retrieves an account by Discord ID in the current guild, or nil if absent
func (r *AccountRepository) GetByUser(ctx context.Context, discordID int64) (*entities.Account, error) {
	query := `
		SELECT discord_id, guild_id, wallet, bank, daily_streak,
		       last_daily_at, last_work_at, created_at, updated_at
		FROM accounts
		WHERE discord_id = $1 AND guild_id = $2
	`

	var account entities.Account
	err := r.q.QueryRow(ctx, query, discordID, r.guildID).Scan(
		&account.DiscordID,
		&account.GuildID,
		&account.Wallet,
		&account.Bank,
		&account.DailyStreak,
		&account.LastDailyAt,
		&account.LastWorkAt,
		&account.CreatedAt,
		&account.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account for discord ID %d in guild %d: %w", discordID, r.guildID, err)
	}

	return &account, nil
}

// Create creates a new account with the starting wallet in the current guild
func (r *AccountRepository) Create(ctx context.Context, discordID, startingWallet int64) (*entities.Account, error) {
	query := `
		INSERT INTO accounts (discord_id, guild_id, wallet)
		VALUES ($1, $2, $3)
		RETURNING created_at, updated_at
	`

	account := &entities.Account{
		DiscordID: discordID,
		GuildID:   r.guildID,
		Wallet:    startingWallet,
	}
	err := r.q.QueryRow(ctx, query, discordID, r.guildID, startingWallet).Scan(
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create account for discord ID %d in guild %d: %w", discordID, r.guildID, err)
	}

	return account, nil
}

// Update persists the mutable fields of an account
func (r *AccountRepository) Update(ctx context.Context, account *entities.Account) error {
	query := `
		UPDATE accounts
		SET wallet = $1, bank = $2, daily_streak = $3,
		    last_daily_at = $4, last_work_at = $5, updated_at = NOW()
		WHERE discord_id = $6 AND guild_id = $7
	`
	result, err := r.q.Exec(ctx, query,
		account.Wallet,
		account.Bank,
		account.DailyStreak,
		account.LastDailyAt,
		account.LastWorkAt,
		account.DiscordID,
		r.guildID,
	)
	if err != nil {
		return fmt.Errorf("failed to update account for discord ID %d in guild %d: %w", account.DiscordID, r.guildID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("account for discord ID %d not found in guild %d", account.DiscordID, r.guildID)
	}

	return nil
}
