// Package limits implements the in-process cooldown buckets and the durable
// per-user action ledger that gate automated responses.
package limits

import (
	"sync"
	"time"

	"github.com/sglre6355/giveawaybot/internal/scheduler"
)

// ItemLimit caps how often one specific item value may be used before that
// item enters its own cooldown. The item bucket refills on the same interval as
// the primary bucket.
type ItemLimit struct {
	Item    string
	MaxUses int
}

type bucket struct {
	charges    int
	lastRefill time.Time
}

// CooldownLedger is a token-bucket limiter keyed by arbitrary string ids.
// Buckets are created full on first use and refilled lazily in whole intervals.
type CooldownLedger struct {
	mu      sync.Mutex
	clock   scheduler.Clock
	buckets map[string]*bucket
}

// NewCooldownLedger creates an empty CooldownLedger.
func NewCooldownLedger(clock scheduler.Clock) *CooldownLedger {
	if clock == nil {
		clock = scheduler.SystemClock{}
	}
	return &CooldownLedger{
		clock:   clock,
		buckets: make(map[string]*bucket),
	}
}

// TryConsume takes one charge from the bucket for id and reports whether it
// succeeded. When item limits are given, each item bucket must also have a
// charge; nothing is consumed unless every bucket passes.
func (l *CooldownLedger) TryConsume(id string, interval time.Duration, maxCharges int, items ...ItemLimit) bool {
	if maxCharges <= 0 {
		return false
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()

	primary := l.refill(id, now, interval, maxCharges)
	if primary.charges == 0 {
		return false
	}

	sub := make([]*bucket, 0, len(items))
	for _, item := range items {
		if item.MaxUses <= 0 {
			continue
		}
		b := l.refill(itemKey(id, item.Item), now, interval, item.MaxUses)
		if b.charges == 0 {
			return false
		}
		sub = append(sub, b)
	}

	primary.charges--
	for _, b := range sub {
		b.charges--
	}

	return true
}

// Charges returns the charges currently available for id without consuming
// any. Unseen ids report maxCharges.
func (l *CooldownLedger) Charges(id string, interval time.Duration, maxCharges int) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.refill(id, l.clock.Now(), interval, maxCharges).charges
}

func (l *CooldownLedger) refill(key string, now time.Time, interval time.Duration, maxCharges int) *bucket {
	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{charges: maxCharges, lastRefill: now}
		l.buckets[key] = b
		return b
	}

	if b.charges > maxCharges {
		b.charges = maxCharges
	}

	if interval <= 0 {
		b.charges = maxCharges
		b.lastRefill = now
		return b
	}

	elapsed := now.Sub(b.lastRefill)
	if elapsed < interval {
		return b
	}

	intervals := int64(elapsed / interval)
	b.charges += int(min(int64(maxCharges-b.charges), intervals))
	// Advance by whole intervals so partial progress toward the next charge is kept.
	b.lastRefill = b.lastRefill.Add(time.Duration(intervals) * interval)

	return b
}

func itemKey(id, item string) string {
	return id + "|" + item
}
