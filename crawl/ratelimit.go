package crawl

import (
	"context"
	"sync"
	"time"

	"github.com/fwojciec/websum"
	"golang.org/x/time/rate"
)

var _ websum.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter keeps requests to one host at least a fixed delay apart
// while leaving other hosts unaffected. Each host gets a token bucket of
// size one, so a host that has been idle still gets only one immediate
// request.
type DomainLimiter struct {
	every rate.Limit

	mu    sync.Mutex
	hosts map[string]*rate.Limiter
}

// NewDelayLimiter returns a DomainLimiter spacing requests to a host delay
// apart. A non-positive delay never blocks.
func NewDelayLimiter(delay time.Duration) *DomainLimiter {
	every := rate.Inf
	if delay > 0 {
		every = rate.Every(delay)
	}
	return &DomainLimiter{every: every, hosts: make(map[string]*rate.Limiter)}
}

// Wait blocks until host may be requested again or ctx ends.
func (d *DomainLimiter) Wait(ctx context.Context, host string) error {
	return d.limiter(host).Wait(ctx)
}

// Hosts returns how many distinct hosts have been seen.
func (d *DomainLimiter) Hosts() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.hosts)
}

func (d *DomainLimiter) limiter(host string) *rate.Limiter {
	d.mu.Lock()
	defer d.mu.Unlock()
	l, ok := d.hosts[host]
	if !ok {
		l = rate.NewLimiter(d.every, 1)
		d.hosts[host] = l
	}
	return l
}
