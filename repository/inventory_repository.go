package repository

import (
	"context"
	"fmt"

	"guildbank/database"
	"guildbank/domain/entities"
)

// InventoryRepository implements the InventoryRepository interface
type InventoryRepository struct {
	q       Queryable
	guildID int64
}

// NewInventoryRepository creates a new inventory repository scoped to a guild
func NewInventoryRepository(db *database.DB, guildID int64) *InventoryRepository {
	return &InventoryRepository{q: db.Pool, guildID: guildID}
}

// newInventoryRepositoryScoped creates a new repository with a transaction and guild scope
func newInventoryRepositoryScoped(tx Queryable, guildID int64) *InventoryRepository {
	return &InventoryRepository{
		q:       tx,
		guildID: guildID,
	}
}

// AddQuantity increments a member's holding of an item, creating the entry when absent
func (r *InventoryRepository) AddQuantity(ctx context.Context, discordID, itemID, quantity int64) error {
	query := `
		INSERT INTO inventory_entries (guild_id, discord_id, item_id, quantity)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (guild_id, discord_id, item_id)
		DO UPDATE SET quantity = inventory_entries.quantity + EXCLUDED.quantity,
		              updated_at = NOW()
	`

	_, err := r.q.Exec(ctx, query, r.guildID, discordID, itemID, quantity)
	if err != nil {
		return fmt.Errorf("failed to add %d of item %d to inventory of discord ID %d in guild %d: %w",
			quantity, itemID, discordID, r.guildID, err)
	}

	return nil
}

// GetByUser returns all inventory entries for a member
func (r *InventoryRepository) GetByUser(ctx context.Context, discordID int64) ([]*entities.InventoryEntry, error) {
	query := `
		SELECT guild_id, discord_id, item_id, quantity, updated_at
		FROM inventory_entries
		WHERE guild_id = $1 AND discord_id = $2
		ORDER BY item_id ASC
	`

	rows, err := r.q.Query(ctx, query, r.guildID, discordID)
	if err != nil {
		return nil, fmt.Errorf("failed to get inventory for discord ID %d in guild %d: %w", discordID, r.guildID, err)
	}
	defer rows.Close()

	var entries []*entities.InventoryEntry
	for rows.Next() {
		var entry entities.InventoryEntry
		err := rows.Scan(
			&entry.GuildID,
			&entry.DiscordID,
			&entry.ItemID,
			&entry.Quantity,
			&entry.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan inventory entry: %w", err)
		}
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate inventory entries: %w", err)
	}

	return entries, nil
}
