package ui

import (
	"context"
	"time"
	"weak"
)

// Every calls fn with target on each interval tick. The goroutine holds only
// a weak reference: it exits once target has been garbage collected, when fn
// returns false, or when ctx is done. The returned channel closes on exit.
func Every[T any](ctx context.Context, interval time.Duration, target *T, fn func(*T) bool) <-chan struct{} {
	ref := weak.Make(target)
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
			current := ref.Value()
			if current == nil {
				return
			}
			if !fn(current) {
				return
			}
		}
	}()
	return done
}
