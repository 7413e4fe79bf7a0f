package cart

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vietshop/checkout-backend/pkg/db/models"
)

// Repository defines the cart persistence surface the checkout flow needs.
// Clear removes line items and zeroes the cached totals in one go.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByOwner(ctx context.Context, ownerID uuid.UUID) (*models.Cart, error)
	FindItems(ctx context.Context, cartID uuid.UUID) ([]models.CartItem, error)
	Clear(ctx context.Context, cartID uuid.UUID) error
}
