package momo

import (
	"strconv"
	"sync"
	"time"
)

// OrderIDGenerator hands out millisecond-timestamp order ids. Two calls in
// the same millisecond must not collide, so the generator remembers the last
// value and bumps forward when the clock has not moved.
type OrderIDGenerator struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

func NewOrderIDGenerator() *OrderIDGenerator {
	return &OrderIDGenerator{now: time.Now}
}

// Next returns a strictly increasing millisecond timestamp string.
func (g *OrderIDGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms := g.now().UnixMilli()
	if ms <= g.last {
		ms = g.last + 1
	}
	g.last = ms

	return strconv.FormatInt(ms, 10)
}
