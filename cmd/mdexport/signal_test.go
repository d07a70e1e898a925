package main

import (
	"context"
	"testing"
)

// ---------------------------------------------------------------------------
// TestNotifyContext - Cancellation paths other than OS signals
// ---------------------------------------------------------------------------

func TestNotifyContext(t *testing.T) {
	t.Parallel()

	t.Run("live until stopped", func(t *testing.T) {
		t.Parallel()

		ctx, stop := notifyContext(context.Background())
		if ctx.Err() != nil {
			t.Fatalf("fresh context already done: %v", ctx.Err())
		}
		stop()
		if ctx.Err() == nil {
			t.Fatal("context should be done after stop()")
		}
	})

	t.Run("follows parent", func(t *testing.T) {
		t.Parallel()

		parent, cancel := context.WithCancel(context.Background())
		ctx, stop := notifyContext(parent)
		defer stop()

		cancel()
		<-ctx.Done()
		if ctx.Err() != context.Canceled {
			t.Errorf("Err() = %v, want context.Canceled", ctx.Err())
		}
	})
}
