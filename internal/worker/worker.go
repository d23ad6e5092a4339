package worker

import (
	"context"
	"runtime/debug"
	"time"

	"go.uber.org/zap"
)

// Worker is a background loop. Start blocks until ctx is cancelled.
type Worker interface {
	Name() string
	Start(ctx context.Context)
}

// runEvery calls task on each tick until ctx is done. A panicking task is
// logged and the loop keeps going.
func runEvery(ctx context.Context, interval time.Duration, logger *zap.Logger, task func(ctx context.Context)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			func() {
				defer func() {
					if r := recover(); r != nil {
						logger.Error("Panic recovered in worker task",
							zap.Any("panic", r),
							zap.String("stack", string(debug.Stack())),
						)
					}
				}()
				task(ctx)
			}()
		case <-ctx.Done():
			logger.Info("Worker shutting down")
			return
		}
	}
}
