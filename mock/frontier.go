package mock

import (
	"context"

	"github.com/fwojciec/websum"
)

var _ websum.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter is a mock implementation of websum.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, host string) error
}

func (d *DomainLimiter) Wait(ctx context.Context, host string) error {
	return d.WaitFn(ctx, host)
}
