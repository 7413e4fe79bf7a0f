package orders

import (
	"context"

	"gorm.io/gorm"

	"github.com/vietshop/checkout-backend/pkg/db/models"
)

// Repository defines persistence operations for settled orders.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	FindByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*models.Order, error)
	List(ctx context.Context) ([]models.Order, error)
}
