package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vietshop/checkout-backend/internal/cart"
	"github.com/vietshop/checkout-backend/internal/catalog"
	"github.com/vietshop/checkout-backend/internal/orders"
	"github.com/vietshop/checkout-backend/pkg/db/models"
	"github.com/vietshop/checkout-backend/pkg/errors"
	"github.com/vietshop/checkout-backend/pkg/logger"
	"github.com/vietshop/checkout-backend/pkg/metrics"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// SettlementEngine turns a consumed intent into a persisted order, adjusted
// stock and an emptied cart.
type SettlementEngine interface {
	Settle(ctx context.Context, intent Intent) (*models.Order, error)
}

type settlementEngine struct {
	tx          txRunner
	cartRepo    cart.Repository
	catalogRepo catalog.Repository
	ordersRepo  orders.Repository
	logger      *logger.Logger
	now         func() time.Time
}

// NewSettlementEngine builds the settlement engine.
func NewSettlementEngine(
	tx txRunner,
	cartRepo cart.Repository,
	catalogRepo catalog.Repository,
	ordersRepo orders.Repository,
	logg *logger.Logger,
) (SettlementEngine, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if cartRepo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if catalogRepo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if ordersRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	return &settlementEngine{
		tx:          tx,
		cartRepo:    cartRepo,
		catalogRepo: catalogRepo,
		ordersRepo:  ordersRepo,
		logger:      logg,
		now:         time.Now,
	}, nil
}

// Settle persists the order first in its own transaction, then applies stock
// bookkeeping and the cart reset in a second one. The intent was already
// consumed, so the order row must land even if the follow-up work fails;
// a half-finished settlement then still leaves evidence for reconciliation.
func (e *settlementEngine) Settle(ctx context.Context, intent Intent) (*models.Order, error) {
	if intent.CartID == uuid.Nil {
		return nil, errors.New(errors.CodeValidation, "intent missing cart reference")
	}

	if e.logger != nil {
		ctx = e.logger.WithOrderID(ctx, intent.GatewayOrderID)
		ctx = e.logger.WithCartID(ctx, intent.CartID.String())
	}

	order := &models.Order{
		ID:              uuid.New(),
		GatewayOrderID:  intent.GatewayOrderID,
		CartID:          intent.CartID,
		RecipientName:   intent.RecipientName,
		DeliveryAddress: intent.DeliveryAddress,
		RecipientPhone:  intent.RecipientPhone,
		PaymentMethod:   intent.PaymentMethod,
		Amount:          intent.Amount,
		Status:          models.OrderStatusSettled,
		SettledAt:       e.now(),
	}

	err := e.tx.WithTx(ctx, func(tx *gorm.DB) error {
		_, err := e.ordersRepo.WithTx(tx).Create(ctx, order)
		return err
	})
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "persisting settled order")
	}

	if err := e.applyCartEffects(ctx, intent); err != nil {
		if e.logger != nil {
			e.logger.Error(ctx, "settlement side effects failed, order persisted", err)
		}
		return nil, errors.Wrap(errors.CodeInternal, err, "applying settlement effects")
	}

	return order, nil
}

func (e *settlementEngine) applyCartEffects(ctx context.Context, intent Intent) error {
	return e.tx.WithTx(ctx, func(tx *gorm.DB) error {
		cartRepo := e.cartRepo.WithTx(tx)
		catalogRepo := e.catalogRepo.WithTx(tx)

		items, err := cartRepo.FindItems(ctx, intent.CartID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			if e.logger != nil {
				e.logger.Warn(ctx, "settling against an empty cart")
			}
			return nil
		}

		for _, item := range items {
			clamped, err := catalogRepo.SettleLine(ctx, item.ProductID, item.Quantity)
			if err != nil {
				return err
			}
			if clamped {
				metrics.RecordInventoryClamp()
				if e.logger != nil {
					e.logger.Warn(
						e.logger.WithField(ctx, "product_id", item.ProductID.String()),
						"inventory decrement clamped at zero",
					)
				}
			}
		}

		return cartRepo.Clear(ctx, intent.CartID)
	})
}
