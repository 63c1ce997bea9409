package time

import (
	"context"
	"sync"
	"time"

	"github.com/drdoublecheck/wallet-ledger/internal/domain/port/core"
)

// FixedTimeProvider is a TimeProvider pinned to a settable instant. Useful in
// tests that assert on timestamps or expiry boundaries.
type FixedTimeProvider struct {
	mu      sync.Mutex
	current time.Time
}

// NewFixedTimeProvider creates a provider pinned to the given instant
func NewFixedTimeProvider(current time.Time) *FixedTimeProvider {
	return &FixedTimeProvider{current: current}
}

// Now returns the pinned instant
func (p *FixedTimeProvider) Now() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// Advance moves the pinned instant forward
func (p *FixedTimeProvider) Advance(d core.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current = p.current.Add(d.Std())
}

// Since returns the elapsed duration relative to the pinned instant
func (p *FixedTimeProvider) Since(t time.Time) core.Duration {
	return core.Duration(p.Now().Sub(t))
}

// Until returns the duration until t relative to the pinned instant
func (p *FixedTimeProvider) Until(t time.Time) core.Duration {
	return core.Duration(t.Sub(p.Now()))
}

// Sleep is a no-op; tests advance time explicitly
func (p *FixedTimeProvider) Sleep(d core.Duration) {}

// WithTimeout delegates to the real context clock so cancellation still works
func (p *FixedTimeProvider) WithTimeout(ctx context.Context, timeout core.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, timeout.Std())
}

// ParseDuration parses a duration string
func (p *FixedTimeProvider) ParseDuration(s string) (core.Duration, error) {
	d, err := time.ParseDuration(s)
	return core.Duration(d), err
}
