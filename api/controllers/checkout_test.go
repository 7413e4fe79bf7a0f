package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	checkoutsvc "github.com/vietshop/checkout-backend/internal/checkout"
	"github.com/vietshop/checkout-backend/pkg/db/models"
	pkgerrors "github.com/vietshop/checkout-backend/pkg/errors"
	"github.com/vietshop/checkout-backend/pkg/logger"
)

type stubCheckoutService struct {
	initiateInput  *checkoutsvc.InitiateInput
	initiateResult *checkoutsvc.InitiateResult
	initiateErr    error

	confirmInput  *checkoutsvc.ConfirmInput
	confirmResult *checkoutsvc.ConfirmResult
	confirmErr    error

	orders []models.Order
}

func (s *stubCheckoutService) Initiate(_ context.Context, input checkoutsvc.InitiateInput) (*checkoutsvc.InitiateResult, error) {
	s.initiateInput = &input
	if s.initiateErr != nil {
		return nil, s.initiateErr
	}
	return s.initiateResult, nil
}

func (s *stubCheckoutService) Confirm(_ context.Context, input checkoutsvc.ConfirmInput) (*checkoutsvc.ConfirmResult, error) {
	s.confirmInput = &input
	if s.confirmErr != nil {
		return nil, s.confirmErr
	}
	return s.confirmResult, nil
}

func (s *stubCheckoutService) ListOrders(context.Context) ([]models.Order, error) {
	return s.orders, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func initiateBody(ownerID string) string {
	return `{"owner_id":"` + ownerID + `","recipient_name":"Nguyen Van A","delivery_address":"1 Le Loi, Da Nang","recipient_phone":"0905123456","payment_method":"momo"}`
}

func TestCheckoutInitiateReturnsPayURL(t *testing.T) {
	ownerID := uuid.New()
	svc := &stubCheckoutService{
		initiateResult: &checkoutsvc.InitiateResult{
			PayURL:         "https://pay.example/abc",
			GatewayOrderID: "1700000000000",
		},
	}
	handler := CheckoutInitiate(svc, testLogger())

	body := initiateBody(ownerID.String())
	req := httptest.NewRequest(http.MethodPost, "/checkout/generateQRCode", strings.NewReader(body))
	resp := httptest.NewRecorder()
	handler(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}

	var envelope struct {
		Data initiateResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.PayURL != "https://pay.example/abc" {
		t.Fatalf("unexpected pay url %s", envelope.Data.PayURL)
	}
	if envelope.Data.OrderID != "1700000000000" {
		t.Fatalf("unexpected order id %s", envelope.Data.OrderID)
	}
	if svc.initiateInput == nil || svc.initiateInput.OwnerID != ownerID {
		t.Fatalf("service input mismatch: %+v", svc.initiateInput)
	}
	if svc.initiateInput.RecipientName != "Nguyen Van A" || svc.initiateInput.PaymentMethod != "momo" {
		t.Fatalf("recipient details not forwarded: %+v", svc.initiateInput)
	}
}

func TestCheckoutInitiateRejectsBadBody(t *testing.T) {
	svc := &stubCheckoutService{}
	handler := CheckoutInitiate(svc, testLogger())

	cases := []string{
		initiateBody("not-a-uuid"),
		`{"recipient_name":"A","delivery_address":"B","recipient_phone":"C","payment_method":"momo"}`,
		`{"owner_id":"` + uuid.NewString() + `","recipient_name":"A"}`,
		`{"owner_id":"` + uuid.NewString() + `","recipient_name":"A","delivery_address":"B","recipient_phone":"C","payment_method":"momo","extra":"x"}`,
		`not json`,
	}
	for _, body := range cases {
		req := httptest.NewRequest(http.MethodPost, "/checkout/generateQRCode", strings.NewReader(body))
		resp := httptest.NewRecorder()
		handler(resp, req)
		if resp.Code != http.StatusBadRequest {
			t.Fatalf("body %q: expected 400, got %d", body, resp.Code)
		}
	}
	if svc.initiateInput != nil {
		t.Fatal("service called despite invalid body")
	}
}

func TestCheckoutInitiateGatewayDown(t *testing.T) {
	svc := &stubCheckoutService{
		initiateErr: pkgerrors.New(pkgerrors.CodeDependency, "payment gateway unreachable"),
	}
	handler := CheckoutInitiate(svc, testLogger())

	body := initiateBody(uuid.NewString())
	req := httptest.NewRequest(http.MethodPost, "/checkout/generateQRCode", strings.NewReader(body))
	resp := httptest.NewRecorder()
	handler(resp, req)

	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", resp.Code)
	}
}

func TestCheckoutConfirmSettles(t *testing.T) {
	svc := &stubCheckoutService{
		confirmResult: &checkoutsvc.ConfirmResult{Settled: true, Message: "order settled"},
	}
	handler := CheckoutConfirm(svc, testLogger())

	body := `{"message":"Successful","orderId":"1700000000000"}`
	req := httptest.NewRequest(http.MethodPost, "/checkout/savedata", strings.NewReader(body))
	resp := httptest.NewRecorder()
	handler(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.confirmInput == nil || svc.confirmInput.GatewayOrderID != "1700000000000" || svc.confirmInput.Message != "Successful" {
		t.Fatalf("service input mismatch: %+v", svc.confirmInput)
	}

	var envelope struct {
		Data confirmResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Message != "order settled" {
		t.Fatalf("unexpected message %q", envelope.Data.Message)
	}
}

func TestCheckoutConfirmExpiredIsBenign(t *testing.T) {
	svc := &stubCheckoutService{
		confirmResult: &checkoutsvc.ConfirmResult{Settled: false, Message: "pending order expired or unknown"},
	}
	handler := CheckoutConfirm(svc, testLogger())

	body := `{"message":"Successful","orderId":"1700000000000"}`
	req := httptest.NewRequest(http.MethodPost, "/checkout/savedata", strings.NewReader(body))
	resp := httptest.NewRecorder()
	handler(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var envelope struct {
		Data confirmResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Message != "pending order expired or unknown" {
		t.Fatalf("unexpected message %q", envelope.Data.Message)
	}
}

func TestCheckoutConfirmRejectsBadBody(t *testing.T) {
	svc := &stubCheckoutService{}
	handler := CheckoutConfirm(svc, testLogger())

	for _, body := range []string{`{}`, `{"message":"Successful"}`, `not json`} {
		req := httptest.NewRequest(http.MethodPost, "/checkout/savedata", strings.NewReader(body))
		resp := httptest.NewRecorder()
		handler(resp, req)
		if resp.Code != http.StatusBadRequest {
			t.Fatalf("body %q: expected 400, got %d", body, resp.Code)
		}
	}
	if svc.confirmInput != nil {
		t.Fatal("service called despite invalid body")
	}
}

func TestCheckoutOrdersLists(t *testing.T) {
	settledAt := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	svc := &stubCheckoutService{
		orders: []models.Order{
			{
				ID:             uuid.New(),
				GatewayOrderID: "1700000000000",
				CartID:         uuid.New(),
				Amount:         decimal.NewFromInt(150000),
				Status:         models.OrderStatusSettled,
				SettledAt:      settledAt,
			},
		},
	}
	handler := CheckoutOrders(svc, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/checkout/orders", nil)
	resp := httptest.NewRecorder()
	handler(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var envelope struct {
		Data []orderResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data) != 1 {
		t.Fatalf("expected 1 order, got %d", len(envelope.Data))
	}
	got := envelope.Data[0]
	if got.Amount != "150000" {
		t.Fatalf("unexpected amount %s", got.Amount)
	}
	if got.SettledAt != "2026-08-01T12:00:00Z" {
		t.Fatalf("unexpected settled_at %s", got.SettledAt)
	}
}
