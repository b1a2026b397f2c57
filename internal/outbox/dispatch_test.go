package outbox

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestDispatcher_RunTickerLoop_StopsOnContextCancellation(t *testing.T) {
	d := NewDispatcher(nil, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		d.RunTickerLoop(ctx, time.Hour)
		close(done)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("RunTickerLoop did not return after context cancellation")
	}
}
