package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vietshop/checkout-backend/pkg/db/models"
)

// Repository defines the catalog persistence surface settlement depends on.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error)
	// SettleLine moves qty from inventory to sold: quantity_inventory drops
	// by qty clamped at zero, quantity_sold rises by qty. It reports whether
	// the clamp fired. The update is optimistic on the row version and
	// retried on contention.
	SettleLine(ctx context.Context, id uuid.UUID, qty int64) (clamped bool, err error)
}
