package worker

import (
	"context"
	"log/slog"
	"time"
)

// Sweeper is the operation the loop drives; *application.Service satisfies it.
type Sweeper interface {
	SweepExpiredResets(ctx context.Context) (int64, error)
}

// ResetSweeper periodically deletes reset states past their retention window.
type ResetSweeper struct {
	logger   *slog.Logger
	sweeper  Sweeper
	interval time.Duration
}

func NewResetSweeper(logger *slog.Logger, sweeper Sweeper, interval time.Duration) *ResetSweeper {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &ResetSweeper{
		logger:   logger,
		sweeper:  sweeper,
		interval: interval,
	}
}

// Run sweeps immediately and then on every tick until ctx is cancelled.
func (w *ResetSweeper) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		_, _ = w.RunOnce(ctx)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// RunOnce performs a single sweep and logs the outcome.
func (w *ResetSweeper) RunOnce(ctx context.Context) (int64, error) {
	removed, err := w.sweeper.SweepExpiredResets(ctx)
	if err != nil {
		w.logger.ErrorContext(ctx, "reset sweep failed",
			"module", "worker.reset_sweeper",
			"layer", "adapter",
			"operation", "sweep_expired_resets",
			"outcome", "failure",
			"error", err,
		)
		return 0, err
	}
	if removed > 0 {
		w.logger.InfoContext(ctx, "reset sweep completed",
			"module", "worker.reset_sweeper",
			"layer", "adapter",
			"operation", "sweep_expired_resets",
			"outcome", "success",
			"removed", removed,
		)
	}
	return removed, nil
}
