package predictor

import (
	"context"

	"churn-predictor/internal/common/metrics"
)

// Pool bounds concurrent inference executions with a semaphore. Inference
// is synchronous, bounded-latency work; the cap keeps a burst of clients
// from stacking unbounded CPU work behind the router.
type Pool struct {
	slots chan struct{}
}

func NewPool(maxConcurrent int) *Pool {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &Pool{slots: make(chan struct{}, maxConcurrent)}
}

// Do runs fn within a pool slot, honouring ctx while waiting for one.
func (p *Pool) Do(ctx context.Context, fn func() error) error {
	select {
	case p.slots <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	metrics.InferencesInFlight.Inc()
	defer func() {
		metrics.InferencesInFlight.Dec()
		<-p.slots
	}()
	return fn()
}
