package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatusSettled is the only status the reconciliation flow writes today.
// Refund handling would introduce more.
const OrderStatusSettled = "settled"

// Order records a settled payment. GatewayOrderID is the gateway-side key the
// confirmation callback references. Amount and the recipient fields are the
// snapshot taken at initiation time, never recomputed from the cart.
type Order struct {
	ID              uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	GatewayOrderID  string          `gorm:"column:gateway_order_id;not null;uniqueIndex"`
	CartID          uuid.UUID       `gorm:"column:cart_id;type:uuid;not null"`
	RecipientName   string          `gorm:"column:recipient_name;not null"`
	DeliveryAddress string          `gorm:"column:delivery_address;not null"`
	RecipientPhone  string          `gorm:"column:recipient_phone;not null"`
	PaymentMethod   string          `gorm:"column:payment_method;not null"`
	Amount          decimal.Decimal `gorm:"column:amount;type:numeric(14,2);not null"`
	Status          string          `gorm:"column:status;not null;default:'settled'"`
	SettledAt       time.Time       `gorm:"column:settled_at;not null"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
