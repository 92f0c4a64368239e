package judge

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Pacer spaces out completion calls. One pacer is shared by every judge
// of a run.
type Pacer interface {
	Wait(ctx context.Context) error
}

type noPacing struct{}

func (noPacing) Wait(ctx context.Context) error {
	return ctx.Err()
}

// NoPacing lets every call through immediately.
var NoPacing Pacer = noPacing{}

// NewIntervalPacer returns a pacer that admits one call per interval.
// A non-positive interval disables pacing.
func NewIntervalPacer(interval time.Duration) Pacer {
	if interval <= 0 {
		return NoPacing
	}
	return rate.NewLimiter(rate.Every(interval), 1)
}
