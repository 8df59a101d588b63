package async

import (
	"context"
	"sync"

	"github.com/secmon-lab/qaboard/pkg/utils/logging"
)

// Dispatcher runs handlers in background goroutines detached from the request context.
// Wait blocks until every dispatched handler has returned.
type Dispatcher struct {
	wg sync.WaitGroup
}

// Dispatch executes handler asynchronously with a background context that keeps the caller's logger.
// Errors and panics are logged, never propagated.
func (d *Dispatcher) Dispatch(ctx context.Context, handler func(ctx context.Context) error) {
	bgCtx := logging.With(context.Background(), logging.From(ctx))

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				logging.From(bgCtx).Error("panic in async handler", "panic", r)
			}
		}()

		if err := handler(bgCtx); err != nil {
			logging.From(bgCtx).Error("async handler failed", "error", err)
		}
	}()
}

// Wait blocks until all dispatched handlers finish
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
