package checkout

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Intent is the pending-order snapshot staged between payment initiation and
// the gateway confirmation callback. Amount is the cart total captured at
// initiation and signed into the gateway request; settlement persists it
// as-is instead of recomputing from the cart. The recipient fields are
// pass-through from the initiation request.
type Intent struct {
	GatewayOrderID  string          `json:"gateway_order_id"`
	RequestID       string          `json:"request_id"`
	CartID          uuid.UUID       `json:"cart_id"`
	RecipientName   string          `json:"recipient_name"`
	DeliveryAddress string          `json:"delivery_address"`
	RecipientPhone  string          `json:"recipient_phone"`
	PaymentMethod   string          `json:"payment_method"`
	Amount          decimal.Decimal `json:"amount"`
	OrderInfo       string          `json:"order_info"`
	CreatedAt       time.Time       `json:"created_at"`
}

// InitiateInput is what a buyer submits to start a payment. The cart itself
// is resolved from OwnerID; its total at this moment becomes the amount.
type InitiateInput struct {
	OwnerID         uuid.UUID
	RecipientName   string
	DeliveryAddress string
	RecipientPhone  string
	PaymentMethod   string
}

// InitiateResult carries the gateway handoff back to the buyer.
type InitiateResult struct {
	PayURL         string
	GatewayOrderID string
}

// ConfirmInput is the gateway's settlement callback payload.
type ConfirmInput struct {
	Message        string
	GatewayOrderID string
}

// ConfirmResult reports what the confirmation did.
type ConfirmResult struct {
	Settled bool
	Message string
}
