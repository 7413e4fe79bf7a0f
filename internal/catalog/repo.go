package catalog

import (
	"context"
	stdErrors "errors"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
	"gorm.io/gorm"

	"github.com/vietshop/checkout-backend/pkg/db/models"
	"github.com/vietshop/checkout-backend/pkg/errors"
)

const settleMaxRetries = 4

var errVersionConflict = stdErrors.New("product version conflict")

type repository struct {
	db *gorm.DB
}

// NewRepository builds a catalog repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&product).Error
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New(errors.CodeNotFound, "product not found")
		}
		return nil, err
	}
	return &product, nil
}

func (r *repository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var products []models.Product
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

// SettleLine applies an optimistic, version-guarded inventory-to-sold move.
// A stale read loses the version check and is retried with backoff rather
// than writing against an outdated quantity.
func (r *repository) SettleLine(ctx context.Context, id uuid.UUID, qty int64) (bool, error) {
	if qty <= 0 {
		return false, nil
	}

	var clamped bool
	backoff := retry.WithMaxRetries(settleMaxRetries, retry.NewFibonacci(10*time.Millisecond))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		var product models.Product
		if err := r.db.WithContext(ctx).Where("id = ?", id).First(&product).Error; err != nil {
			if stdErrors.Is(err, gorm.ErrRecordNotFound) {
				return errors.New(errors.CodeNotFound, "product not found")
			}
			return err
		}

		nextInventory := product.QuantityInventory - qty
		clamped = nextInventory < 0
		if clamped {
			nextInventory = 0
		}

		res := r.db.WithContext(ctx).
			Model(&models.Product{}).
			Where("id = ? AND version = ?", id, product.Version).
			Updates(map[string]any{
				"quantity_inventory": nextInventory,
				"quantity_sold":      product.QuantitySold + qty,
				"version":            product.Version + 1,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return retry.RetryableError(errVersionConflict)
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return clamped, nil
}
