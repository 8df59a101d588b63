package async_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/qaboard/pkg/utils/async"
)

func TestDispatcher(t *testing.T) {
	var d async.Dispatcher
	var calls atomic.Int32

	for range 3 {
		d.Dispatch(context.Background(), func(ctx context.Context) error {
			calls.Add(1)
			return nil
		})
	}
	d.Dispatch(context.Background(), func(ctx context.Context) error {
		calls.Add(1)
		return errors.New("webhook unreachable")
	})
	d.Dispatch(context.Background(), func(ctx context.Context) error {
		calls.Add(1)
		panic("boom")
	})

	d.Wait()
	gt.Value(t, calls.Load()).Equal(int32(5))
}

func TestDispatcher_DetachedFromCancel(t *testing.T) {
	var d async.Dispatcher
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var seen error
	d.Dispatch(ctx, func(ctx context.Context) error {
		seen = ctx.Err()
		return nil
	})
	d.Wait()
	gt.Value(t, seen).Nil()
}
