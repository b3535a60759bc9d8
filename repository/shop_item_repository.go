package repository

import (
	"context"
	"fmt"

	"guildbank/database"
	"guildbank/domain/entities"

	"github.com/jackc/pgx/v5"
)

// ShopItemRepository implements the ShopItemRepository interface
type ShopItemRepository struct {
	q       Queryable
	guildID int64
}

// NewShopItemRepository creates a new shop item repository scoped to a guild
func NewShopItemRepository(db *database.DB, guildID int64) *ShopItemRepository {
	return &ShopItemRepository{q: db.Pool, guildID: guildID}
}

// newShopItemRepositoryScoped creates a new repository with a transaction and guild scope
func newShopItemRepositoryScoped(tx Queryable, guildID int64) *ShopItemRepository {
	return &ShopItemRepository{
		q:       tx,
		guildID: guildID,
	}
}

// GetByID retrieves a shop item by ID in the current guild, or nil if absent
func (r *ShopItemRepository) GetByID(ctx context.Context, itemID int64) (*entities.ShopItem, error) {
	query := `
		SELECT id, guild_id, name, description, price, stock, role_id, active,
		       created_at, updated_at
		FROM shop_items
		WHERE id = $1 AND guild_id = $2
	`

	var item entities.ShopItem
	err := r.q.QueryRow(ctx, query, itemID, r.guildID).Scan(
		&item.ID,
		&item.GuildID,
		&item.Name,
		&item.Description,
		&item.Price,
		&item.Stock,
		&item.RoleID,
		&item.Active,
		&item.CreatedAt,
		&item.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get shop item %d in guild %d: %w", itemID, r.guildID, err)
	}

	return &item, nil
}

// ListActive returns all active shop items in the current guild
func (r *ShopItemRepository) ListActive(ctx context.Context) ([]*entities.ShopItem, error) {
	query := `
		SELECT id, guild_id, name, description, price, stock, role_id, active,
		       created_at, updated_at
		FROM shop_items
		WHERE guild_id = $1 AND active
		ORDER BY price ASC
	`

	rows, err := r.q.Query(ctx, query, r.guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to list active shop items in guild %d: %w", r.guildID, err)
	}
	defer rows.Close()

	var items []*entities.ShopItem
	for rows.Next() {
		var item entities.ShopItem
		err := rows.Scan(
			&item.ID,
			&item.GuildID,
			&item.Name,
			&item.Description,
			&item.Price,
			&item.Stock,
			&item.RoleID,
			&item.Active,
			&item.CreatedAt,
			&item.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shop item: %w", err)
		}
		items = append(items, &item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate shop items: %w", err)
	}

	return items, nil
}

// Create inserts a new catalog item and sets its ID
func (r *ShopItemRepository) Create(ctx context.Context, item *entities.ShopItem) error {
	query := `
		INSERT INTO shop_items (guild_id, name, description, price, stock, role_id, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	item.GuildID = r.guildID
	err := r.q.QueryRow(ctx, query,
		r.guildID,
		item.Name,
		item.Description,
		item.Price,
		item.Stock,
		item.RoleID,
		item.Active,
	).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create shop item %q in guild %d: %w", item.Name, r.guildID, err)
	}

	return nil
}

// DecrementStock atomically reduces finite stock by quantity. The stock
// check and the decrement are a single statement, so concurrent purchases
// can never oversell. Returns false when remaining stock is insufficient.
func (r *ShopItemRepository) DecrementStock(ctx context.Context, itemID, quantity int64) (bool, error) {
	query := `
		UPDATE shop_items
		SET stock = stock - $1, updated_at = NOW()
		WHERE id = $2 AND guild_id = $3 AND stock >= $1
	`

	result, err := r.q.Exec(ctx, query, quantity, itemID, r.guildID)
	if err != nil {
		return false, fmt.Errorf("failed to decrement stock for item %d in guild %d: %w", itemID, r.guildID, err)
	}

	return result.RowsAffected() > 0, nil
}
