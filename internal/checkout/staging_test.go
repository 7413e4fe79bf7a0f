package checkout

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	pkgerrors "github.com/vietshop/checkout-backend/pkg/errors"
	"github.com/vietshop/checkout-backend/pkg/redis"
)

type fakeIntentCache struct {
	mu     sync.Mutex
	values map[string][]byte
	ttls   map[string]time.Duration
}

func newFakeIntentCache() *fakeIntentCache {
	return &fakeIntentCache{
		values: map[string][]byte{},
		ttls:   map[string]time.Duration{},
	}
}

func (f *fakeIntentCache) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	raw, ok := value.([]byte)
	if !ok {
		raw = []byte(value.(string))
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[key] = raw
	f.ttls[key] = ttl
	return nil
}

func (f *fakeIntentCache) GetDel(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	raw, ok := f.values[key]
	if !ok {
		return "", redis.Nil
	}
	delete(f.values, key)
	return string(raw), nil
}

func (f *fakeIntentCache) ttl(key string) time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ttls[key]
}

func (f *fakeIntentCache) value(key string) []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values[key]
}

func (f *fakeIntentCache) IntentKey(gatewayOrderID string) string {
	return "shop:checkout:intent:" + gatewayOrderID
}

func testIntent() Intent {
	return Intent{
		GatewayOrderID:  "1700000000000",
		RequestID:       uuid.NewString(),
		CartID:          uuid.New(),
		RecipientName:   "Nguyen Van A",
		DeliveryAddress: "1 Le Loi, Da Nang",
		RecipientPhone:  "0905123456",
		PaymentMethod:   "momo",
		Amount:          decimal.NewFromInt(150000),
		OrderInfo:       " thanh toán qua momo ",
		CreatedAt:       time.Now().UTC().Truncate(time.Second),
	}
}

func TestStageAndConsumeRoundTrip(t *testing.T) {
	t.Parallel()

	cache := newFakeIntentCache()
	store := NewIntentStore(cache, 15*time.Minute)
	intent := testIntent()

	if err := store.Stage(context.Background(), intent); err != nil {
		t.Fatalf("stage: %v", err)
	}
	if ttl := cache.ttl(cache.IntentKey(intent.GatewayOrderID)); ttl != 15*time.Minute {
		t.Fatalf("staged with wrong ttl: %v", ttl)
	}

	got, err := store.Consume(context.Background(), intent.GatewayOrderID)
	if err != nil {
		t.Fatalf("consume: %v", err)
	}
	if got.CartID != intent.CartID || !got.Amount.Equal(intent.Amount) {
		t.Fatalf("consumed intent mismatch: %+v", got)
	}
	if got.RecipientName != intent.RecipientName || got.PaymentMethod != intent.PaymentMethod {
		t.Fatalf("recipient snapshot lost in round trip: %+v", got)
	}
}

func TestConsumeIsOneShot(t *testing.T) {
	t.Parallel()

	cache := newFakeIntentCache()
	store := NewIntentStore(cache, time.Minute)
	intent := testIntent()

	if err := store.Stage(context.Background(), intent); err != nil {
		t.Fatalf("stage: %v", err)
	}
	if _, err := store.Consume(context.Background(), intent.GatewayOrderID); err != nil {
		t.Fatalf("first consume: %v", err)
	}

	_, err := store.Consume(context.Background(), intent.GatewayOrderID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("second consume should be not found, got %v", err)
	}
}

func TestConcurrentConsumeYieldsOneWinner(t *testing.T) {
	t.Parallel()

	cache := newFakeIntentCache()
	store := NewIntentStore(cache, time.Minute)
	intent := testIntent()

	if err := store.Stage(context.Background(), intent); err != nil {
		t.Fatalf("stage: %v", err)
	}

	const consumers = 50
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		won      int
		missed   int
		unexpect []error
	)
	for i := 0; i < consumers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Consume(context.Background(), intent.GatewayOrderID)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				won++
			case pkgerrors.As(err) != nil && pkgerrors.As(err).Code() == pkgerrors.CodeNotFound:
				missed++
			default:
				unexpect = append(unexpect, err)
			}
		}()
	}
	wg.Wait()

	if len(unexpect) != 0 {
		t.Fatalf("unexpected consume errors: %v", unexpect)
	}
	if won != 1 {
		t.Fatalf("exactly one consumer must win, got %d", won)
	}
	if missed != consumers-1 {
		t.Fatalf("expected %d not-found losers, got %d", consumers-1, missed)
	}
}

func TestConsumeUnknownOrder(t *testing.T) {
	t.Parallel()

	store := NewIntentStore(newFakeIntentCache(), time.Minute)

	_, err := store.Consume(context.Background(), "never-staged")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestStageRequiresOrderID(t *testing.T) {
	t.Parallel()

	store := NewIntentStore(newFakeIntentCache(), time.Minute)
	intent := testIntent()
	intent.GatewayOrderID = ""

	err := store.Stage(context.Background(), intent)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestStagedPayloadIsJSON(t *testing.T) {
	t.Parallel()

	cache := newFakeIntentCache()
	store := NewIntentStore(cache, time.Minute)
	intent := testIntent()

	if err := store.Stage(context.Background(), intent); err != nil {
		t.Fatalf("stage: %v", err)
	}

	raw := cache.value(cache.IntentKey(intent.GatewayOrderID))
	var decoded Intent
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("staged payload not json: %v", err)
	}
	if decoded.GatewayOrderID != intent.GatewayOrderID {
		t.Fatalf("decoded order id mismatch: %s", decoded.GatewayOrderID)
	}
}
