package checkout

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vietshop/checkout-backend/internal/cart"
	"github.com/vietshop/checkout-backend/internal/orders"
	"github.com/vietshop/checkout-backend/pkg/config"
	"github.com/vietshop/checkout-backend/pkg/db/models"
	"github.com/vietshop/checkout-backend/pkg/errors"
	"github.com/vietshop/checkout-backend/pkg/logger"
	"github.com/vietshop/checkout-backend/pkg/metrics"
	"github.com/vietshop/checkout-backend/pkg/momo"
)

const (
	// confirmSuccessMessage is the literal the gateway sends on a completed
	// payment. Anything else is acknowledged but not settled.
	confirmSuccessMessage = "Successful"

	defaultOrderInfo   = " thanh toán qua momo "
	redirectPathSuffix = "/profile/mybooking"
)

type gatewayClient interface {
	CreatePayment(ctx context.Context, req momo.CreatePaymentRequest) (*momo.CreatePaymentResponse, error)
}

type requestSigner interface {
	Sign(fields momo.SignatureFields) string
}

type orderIDSource interface {
	Next() string
}

type cartReader interface {
	FindByOwner(ctx context.Context, ownerID uuid.UUID) (*models.Cart, error)
}

// Service orchestrates payment initiation and confirmation.
type Service interface {
	Initiate(ctx context.Context, input InitiateInput) (*InitiateResult, error)
	Confirm(ctx context.Context, input ConfirmInput) (*ConfirmResult, error)
	ListOrders(ctx context.Context) ([]models.Order, error)
}

type service struct {
	cfg        config.MoMoConfig
	signer     requestSigner
	gateway    gatewayClient
	orderIDs   orderIDSource
	carts      cartReader
	intents    IntentStore
	settlement SettlementEngine
	ordersRepo orders.Repository
	logger     *logger.Logger
}

// NewService builds the checkout service.
func NewService(
	cfg config.MoMoConfig,
	signer requestSigner,
	gateway gatewayClient,
	orderIDs orderIDSource,
	carts cart.Repository,
	intents IntentStore,
	settlement SettlementEngine,
	ordersRepo orders.Repository,
	logg *logger.Logger,
) (Service, error) {
	if signer == nil {
		return nil, fmt.Errorf("request signer required")
	}
	if gateway == nil {
		return nil, fmt.Errorf("gateway client required")
	}
	if orderIDs == nil {
		return nil, fmt.Errorf("order id source required")
	}
	if carts == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if intents == nil {
		return nil, fmt.Errorf("intent store required")
	}
	if settlement == nil {
		return nil, fmt.Errorf("settlement engine required")
	}
	if ordersRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	return &service{
		cfg:        cfg,
		signer:     signer,
		gateway:    gateway,
		orderIDs:   orderIDs,
		carts:      carts,
		intents:    intents,
		settlement: settlement,
		ordersRepo: ordersRepo,
		logger:     logg,
	}, nil
}

// Initiate resolves the owner's cart, snapshots its total as the amount,
// signs a create-payment request, sends it, and stages the intent only after
// the gateway accepted the request. A gateway failure therefore leaves
// nothing behind for Confirm to settle.
func (s *service) Initiate(ctx context.Context, input InitiateInput) (*InitiateResult, error) {
	if input.OwnerID == uuid.Nil {
		metrics.RecordInitiation(metrics.OutcomeError)
		return nil, errors.New(errors.CodeValidation, "owner id required")
	}

	record, err := s.carts.FindByOwner(ctx, input.OwnerID)
	if err != nil {
		metrics.RecordInitiation(metrics.OutcomeError)
		return nil, err
	}
	if record.TotalPrice.IsZero() || record.TotalQuantity == 0 {
		metrics.RecordInitiation(metrics.OutcomeError)
		return nil, errors.New(errors.CodeValidation, "cart is empty")
	}

	orderID := s.orderIDs.Next()
	requestID := uuid.NewString()
	amount := record.TotalPrice.String()
	redirectURL := strings.TrimSuffix(s.cfg.RedirectBaseURL, "/") + redirectPathSuffix

	if s.logger != nil {
		ctx = s.logger.WithOrderID(ctx, orderID)
		ctx = s.logger.WithCartID(ctx, record.ID.String())
	}

	fields := momo.SignatureFields{
		AccessKey:   s.cfg.AccessKey,
		Amount:      amount,
		ExtraData:   "",
		IPNURL:      s.cfg.IPNURL,
		OrderID:     orderID,
		OrderInfo:   defaultOrderInfo,
		PartnerCode: s.cfg.PartnerCode,
		RedirectURL: redirectURL,
		RequestID:   requestID,
		RequestType: "captureWallet",
	}

	req := momo.CreatePaymentRequest{
		PartnerCode: s.cfg.PartnerCode,
		AccessKey:   s.cfg.AccessKey,
		RequestID:   requestID,
		Amount:      record.TotalPrice.IntPart(),
		OrderID:     orderID,
		OrderInfo:   defaultOrderInfo,
		RedirectURL: redirectURL,
		IPNURL:      s.cfg.IPNURL,
		ExtraData:   "",
		RequestType: "captureWallet",
		Signature:   s.signer.Sign(fields),
	}

	start := time.Now()
	resp, err := s.gateway.CreatePayment(ctx, req)
	if err != nil {
		metrics.ObserveGatewayRequest(metrics.OutcomeError, time.Since(start))
		metrics.RecordInitiation(metrics.OutcomeError)
		if s.logger != nil {
			s.logger.Error(ctx, "gateway create payment failed", err)
		}
		return nil, err
	}
	metrics.ObserveGatewayRequest(metrics.OutcomeOK, time.Since(start))

	// The gateway may reassign the order id; its value keys the staged
	// intent so the callback can find it.
	gatewayOrderID := resp.OrderID
	if gatewayOrderID == "" {
		gatewayOrderID = orderID
	}
	if s.logger != nil && gatewayOrderID != orderID {
		ctx = s.logger.WithOrderID(ctx, gatewayOrderID)
	}

	intent := Intent{
		GatewayOrderID:  gatewayOrderID,
		RequestID:       requestID,
		CartID:          record.ID,
		RecipientName:   input.RecipientName,
		DeliveryAddress: input.DeliveryAddress,
		RecipientPhone:  input.RecipientPhone,
		PaymentMethod:   input.PaymentMethod,
		Amount:          record.TotalPrice,
		OrderInfo:       defaultOrderInfo,
		CreatedAt:       start.UTC(),
	}
	if err := s.intents.Stage(ctx, intent); err != nil {
		metrics.RecordInitiation(metrics.OutcomeError)
		if s.logger != nil {
			s.logger.Error(ctx, "staging intent after gateway accept failed", err)
		}
		return nil, err
	}

	metrics.RecordInitiation(metrics.OutcomeOK)
	if s.logger != nil {
		s.logger.Info(ctx, "payment initiated")
	}

	return &InitiateResult{
		PayURL:         resp.PayURL,
		GatewayOrderID: gatewayOrderID,
	}, nil
}

// Confirm reacts to the gateway's redirect callback. The staged intent is
// consumed atomically whatever the reported status, so concurrent or repeated
// confirmations for the same order settle at most once and a failed payment
// cannot be resurrected later. Only the success message settles; everything
// else, including unknown or expired order ids, is answered as a no-op.
func (s *service) Confirm(ctx context.Context, input ConfirmInput) (*ConfirmResult, error) {
	if input.GatewayOrderID == "" {
		return nil, errors.New(errors.CodeValidation, "order id required")
	}

	if s.logger != nil {
		ctx = s.logger.WithOrderID(ctx, input.GatewayOrderID)
	}

	intent, err := s.intents.Consume(ctx, input.GatewayOrderID)
	if err != nil {
		if typed := errors.As(err); typed != nil && typed.Code() == errors.CodeNotFound {
			metrics.RecordSettlement(metrics.OutcomeNotFound)
			if existing, findErr := s.ordersRepo.FindByGatewayOrderID(ctx, input.GatewayOrderID); findErr == nil && existing != nil {
				return &ConfirmResult{Settled: false, Message: "order already settled"}, nil
			}
			return &ConfirmResult{Settled: false, Message: "pending order expired or unknown"}, nil
		}
		metrics.RecordSettlement(metrics.OutcomeError)
		return nil, err
	}

	if input.Message != confirmSuccessMessage {
		metrics.RecordSettlement(metrics.OutcomeIgnored)
		if s.logger != nil {
			s.logger.Info(ctx, "non-success confirmation discarded")
		}
		return &ConfirmResult{Settled: false, Message: "payment not successful"}, nil
	}

	if _, err := s.settlement.Settle(ctx, *intent); err != nil {
		metrics.RecordSettlement(metrics.OutcomeError)
		if s.logger != nil {
			s.logger.Error(ctx, "settlement failed after intent consume", err)
		}
		return nil, err
	}

	metrics.RecordSettlement(metrics.OutcomeOK)
	if s.logger != nil {
		s.logger.Info(ctx, "order settled")
	}
	return &ConfirmResult{Settled: true, Message: "payment recorded"}, nil
}

func (s *service) ListOrders(ctx context.Context) ([]models.Order, error) {
	return s.ordersRepo.List(ctx)
}
