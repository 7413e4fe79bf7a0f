package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is the catalog listing settlement bookkeeps against. Inventory and
// sold counters move together: a settled line decrements one and increments
// the other by the same quantity.
type Product struct {
	ID                uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name              string          `gorm:"column:name;not null"`
	UnitPrice         decimal.Decimal `gorm:"column:unit_price;type:numeric(14,2);not null"`
	QuantityInventory int64           `gorm:"column:quantity_inventory;not null;default:0"`
	QuantitySold      int64           `gorm:"column:quantity_sold;not null;default:0"`
	Version           int64           `gorm:"column:version;not null;default:0"`
	CreatedAt         time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
