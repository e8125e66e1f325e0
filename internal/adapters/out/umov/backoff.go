package umov

import (
	"math/rand/v2"
	"time"
)

// backoff yields exponentially growing delays with +/-20% jitter.
// One instance serves one call and is not shared between goroutines.
type backoff struct {
	minDelay   time.Duration
	maxDelay   time.Duration
	multiplier float64
	current    time.Duration
}

func newBackoff(minDelay, maxDelay time.Duration, multiplier float64) *backoff {
	return &backoff{
		minDelay:   minDelay,
		maxDelay:   max(maxDelay, minDelay),
		multiplier: multiplier,
		current:    minDelay,
	}
}

func (b *backoff) Next() time.Duration {
	jitterFactor := rand.Float64()*0.4 - 0.2
	jitter := time.Duration(jitterFactor * float64(b.current))
	wait := max(b.current+jitter, b.minDelay)

	b.current = min(time.Duration(float64(b.current)*b.multiplier), b.maxDelay)

	return wait
}
