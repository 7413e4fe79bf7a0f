package checkout

import (
	"context"
	"encoding/json"
	stdErrors "errors"
	"time"

	"github.com/vietshop/checkout-backend/pkg/errors"
	"github.com/vietshop/checkout-backend/pkg/redis"
)

// IntentStore stages pending intents between initiation and confirmation.
// Consume must be atomic so two concurrent confirmations for the same order
// cannot both observe the intent.
type IntentStore interface {
	Stage(ctx context.Context, intent Intent) error
	Consume(ctx context.Context, gatewayOrderID string) (*Intent, error)
}

type intentCache interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	GetDel(ctx context.Context, key string) (string, error)
	IntentKey(gatewayOrderID string) string
}

type redisIntentStore struct {
	cache intentCache
	ttl   time.Duration
}

// NewIntentStore builds a Redis-backed intent store. Staged intents expire
// after ttl, which doubles as the payment window.
func NewIntentStore(cache intentCache, ttl time.Duration) IntentStore {
	return &redisIntentStore{cache: cache, ttl: ttl}
}

func (s *redisIntentStore) Stage(ctx context.Context, intent Intent) error {
	if intent.GatewayOrderID == "" {
		return errors.New(errors.CodeValidation, "gateway order id required")
	}

	raw, err := json.Marshal(intent)
	if err != nil {
		return errors.Wrap(errors.CodeInternal, err, "encoding intent")
	}

	key := s.cache.IntentKey(intent.GatewayOrderID)
	if err := s.cache.Set(ctx, key, raw, s.ttl); err != nil {
		return errors.Wrap(errors.CodeDependency, err, "staging intent")
	}
	return nil
}

// Consume removes and returns the staged intent in a single round trip.
// A missing key means the intent expired, never existed, or was already
// consumed; all three surface as CodeNotFound.
func (s *redisIntentStore) Consume(ctx context.Context, gatewayOrderID string) (*Intent, error) {
	key := s.cache.IntentKey(gatewayOrderID)

	raw, err := s.cache.GetDel(ctx, key)
	if err != nil {
		if stdErrors.Is(err, redis.Nil) {
			return nil, errors.New(errors.CodeNotFound, "pending order not found")
		}
		return nil, errors.Wrap(errors.CodeDependency, err, "consuming intent")
	}

	var intent Intent
	if err := json.Unmarshal([]byte(raw), &intent); err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "decoding intent")
	}
	return &intent, nil
}
