package entities

import (
	"time"
)

// UnlimitedStock is the stock sentinel for items that never sell out.
const UnlimitedStock int64 = -1

// ShopItem represents a purchasable catalog entry scoped to a guild.
// Stock of UnlimitedStock means the item never sells out; otherwise stock
// only decreases, through purchases.
type ShopItem struct {
	ID          int64     `db:"id"`
	GuildID     int64     `db:"guild_id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	Price       int64     `db:"price"`
	Stock       int64     `db:"stock"`
	RoleID      *int64    `db:"role_id"`
	Active      bool      `db:"active"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// HasUnlimitedStock reports whether the item ignores stock accounting.
func (i *ShopItem) HasUnlimitedStock() bool {
	return i.Stock == UnlimitedStock
}

// HasStock checks whether the item can cover a purchase of the given quantity.
func (i *ShopItem) HasStock(quantity int64) bool {
	return i.HasUnlimitedStock() || i.Stock >= quantity
}

// GrantsRole reports whether purchasing the item grants a guild role.
func (i *ShopItem) GrantsRole() bool {
	return i.RoleID != nil
}

// InventoryEntry records how many units of an item a member owns.
// Quantity only grows in this engine; consumption is handled elsewhere.
type InventoryEntry struct {
	GuildID   int64     `db:"guild_id"`
	DiscordID int64     `db:"discord_id"`
	ItemID    int64     `db:"item_id"`
	Quantity  int64     `db:"quantity"`
	UpdatedAt time.Time `db:"updated_at"`
}
