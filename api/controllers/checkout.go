package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/vietshop/checkout-backend/api/responses"
	"github.com/vietshop/checkout-backend/api/validators"
	checkoutsvc "github.com/vietshop/checkout-backend/internal/checkout"
	"github.com/vietshop/checkout-backend/pkg/db/models"
	pkgerrors "github.com/vietshop/checkout-backend/pkg/errors"
	"github.com/vietshop/checkout-backend/pkg/logger"
)

// CheckoutInitiate builds a signed payment request and returns the gateway
// pay URL for the buyer's cart.
func CheckoutInitiate(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		var payload initiateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Initiate(r.Context(), checkoutsvc.InitiateInput{
			OwnerID:         payload.OwnerID,
			RecipientName:   payload.RecipientName,
			DeliveryAddress: payload.DeliveryAddress,
			RecipientPhone:  payload.RecipientPhone,
			PaymentMethod:   payload.PaymentMethod,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, initiateResponse{
			PayURL:  result.PayURL,
			OrderID: result.GatewayOrderID,
		})
	}
}

// CheckoutConfirm receives the gateway's post-payment callback and settles
// the matching pending order.
func CheckoutConfirm(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		var payload confirmRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Confirm(r.Context(), checkoutsvc.ConfirmInput{
			Message:        payload.Message,
			GatewayOrderID: payload.OrderID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, confirmResponse{Message: result.Message})
	}
}

// CheckoutOrders lists settled orders, newest first.
func CheckoutOrders(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		list, err := svc.ListOrders(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]orderResponse, len(list))
		for i, order := range list {
			out[i] = newOrderResponse(order)
		}
		responses.WriteSuccess(w, out)
	}
}

type initiateRequest struct {
	OwnerID         uuid.UUID `json:"owner_id" validate:"required"`
	RecipientName   string    `json:"recipient_name" validate:"required"`
	DeliveryAddress string    `json:"delivery_address" validate:"required"`
	RecipientPhone  string    `json:"recipient_phone" validate:"required"`
	PaymentMethod   string    `json:"payment_method" validate:"required"`
}

type initiateResponse struct {
	PayURL  string `json:"pay_url"`
	OrderID string `json:"order_id"`
}

type confirmRequest struct {
	Message string `json:"message" validate:"required"`
	OrderID string `json:"orderId" validate:"required"`
}

type confirmResponse struct {
	Message string `json:"message"`
}

type orderResponse struct {
	ID             uuid.UUID `json:"id"`
	GatewayOrderID string    `json:"gateway_order_id"`
	CartID         uuid.UUID `json:"cart_id"`
	Amount         string    `json:"amount"`
	Status         string    `json:"status"`
	SettledAt      string    `json:"settled_at"`
}

func newOrderResponse(order models.Order) orderResponse {
	return orderResponse{
		ID:             order.ID,
		GatewayOrderID: order.GatewayOrderID,
		CartID:         order.CartID,
		Amount:         order.Amount.String(),
		Status:         order.Status,
		SettledAt:      order.SettledAt.UTC().Format(time.RFC3339),
	}
}
