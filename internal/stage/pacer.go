package stage

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// pacer spaces external calls by a fixed delay. The first wait returns
// immediately; later waits are spaced, so the last call never sleeps after
// itself.
type pacer struct {
	lim *rate.Limiter
}

func newPacer(delay time.Duration) *pacer {
	if delay <= 0 {
		return &pacer{}
	}
	return &pacer{lim: rate.NewLimiter(rate.Every(delay), 1)}
}

func (p *pacer) Wait(ctx context.Context) error {
	if p.lim == nil {
		return ctx.Err()
	}
	return p.lim.Wait(ctx)
}
