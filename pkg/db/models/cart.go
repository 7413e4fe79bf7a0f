package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cart carries a buyer's line items plus cached totals. TotalPrice is the
// amount snapshotted into a payment at initiation time; settlement resets
// both totals to zero alongside the item delete.
type Cart struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OwnerID       uuid.UUID       `gorm:"column:owner_id;type:uuid;not null;uniqueIndex"`
	TotalQuantity int64           `gorm:"column:total_quantity;not null;default:0"`
	TotalPrice    decimal.Decimal `gorm:"column:total_price;type:numeric(14,2);not null;default:0"`
	Items         []CartItem      `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
