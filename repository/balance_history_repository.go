package repository

import (
	"context"
	"fmt"

	"guildbank/database"
	"guildbank/domain/entities"
)

// BalanceHistoryRepository implements the BalanceHistoryRepository interface
type BalanceHistoryRepository struct {
	q       Queryable
	guildID int64
}

// NewBalanceHistoryRepository creates a new balance history repository scoped to a guild
func NewBalanceHistoryRepository(db *database.DB, guildID int64) *BalanceHistoryRepository {
	return &BalanceHistoryRepository{q: db.Pool, guildID: guildID}
}

// newBalanceHistoryRepositoryScoped creates a new repository with a transaction and guild scope
func newBalanceHistoryRepositoryScoped(tx Queryable, guildID int64) *BalanceHistoryRepository {
	return &BalanceHistoryRepository{
		q:       tx,
		guildID: guildID,
	}
}

// Record inserts a balance history entry and sets its ID
func (r *BalanceHistoryRepository) Record(ctx context.Context, history *entities.BalanceHistory) error {
	if err := history.Validate(); err != nil {
		return fmt.Errorf("invalid balance history entry: %w", err)
	}

	query := `
		INSERT INTO balance_history (
			discord_id, guild_id, wallet_before, wallet_after,
			change_amount, transaction_type, transaction_metadata
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	history.GuildID = r.guildID
	err := r.q.QueryRow(ctx, query,
		history.DiscordID,
		r.guildID,
		history.WalletBefore,
		history.WalletAfter,
		history.ChangeAmount,
		history.TransactionType,
		history.TransactionMetadata,
	).Scan(&history.ID, &history.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record balance history for discord ID %d in guild %d: %w", history.DiscordID, r.guildID, err)
	}

	return nil
}

// GetByUser returns the most recent entries for a member, newest first
func (r *BalanceHistoryRepository) GetByUser(ctx context.Context, discordID int64, limit int) ([]*entities.BalanceHistory, error) {
	query := `
		SELECT id, discord_id, guild_id, wallet_before, wallet_after,
		       change_amount, transaction_type, transaction_metadata, created_at
		FROM balance_history
		WHERE discord_id = $1 AND guild_id = $2
		ORDER BY created_at DESC, id DESC
		LIMIT $3
	`

	rows, err := r.q.Query(ctx, query, discordID, r.guildID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get balance history for discord ID %d in guild %d: %w", discordID, r.guildID, err)
	}
	defer rows.Close()

	var entries []*entities.BalanceHistory
	for rows.Next() {
		var entry entities.BalanceHistory
		err := rows.Scan(
			&entry.ID,
			&entry.DiscordID,
			&entry.GuildID,
			&entry.WalletBefore,
			&entry.WalletAfter,
			&entry.ChangeAmount,
			&entry.TransactionType,
			&entry.TransactionMetadata,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan balance history entry: %w", err)
		}
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate balance history: %w", err)
	}

	return entries, nil
}
