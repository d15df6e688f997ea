package reservation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/seatwise/reservation-service/internal/domain"
)

const DefaultReapInterval = 30 * time.Second

// Reaper periodically prunes expired hold claims from the seat indexes. It is
// a backstop, not the enforcer: every read and mutation re-checks expiry on
// its own, so a slow sweep never lets an expired hold pass as valid.
type Reaper struct {
	logger   *slog.Logger
	holds    domain.HoldRepository
	interval time.Duration
	cron     *cron.Cron
}

func NewReaper(logger *slog.Logger, holds domain.HoldRepository, interval time.Duration) *Reaper {
	if interval <= 0 {
		interval = DefaultReapInterval
	}

	return &Reaper{
		logger:   logger,
		holds:    holds,
		interval: interval,
		cron:     cron.New(),
	}
}

func (r *Reaper) Start() error {
	_, err := r.cron.AddFunc(fmt.Sprintf("@every %s", r.interval), func() {
		r.Sweep(context.Background())
	})
	if err != nil {
		return fmt.Errorf("failed to schedule reaper: %w", err)
	}

	r.cron.Start()
	r.logger.Info("expiry reaper started", "interval", r.interval)

	return nil
}

// Stop halts the schedule and waits for an in-flight sweep to finish.
func (r *Reaper) Stop(ctx context.Context) {
	select {
	case <-r.cron.Stop().Done():
	case <-ctx.Done():
		r.logger.Warn("timed out waiting for reaper to stop")
	}
}

// Sweep runs one pass synchronously. Callers may use it as a cheap
// correctness backstop ahead of conflict-sensitive reads.
func (r *Reaper) Sweep(ctx context.Context) {
	reaped, err := r.holds.ReapExpired(ctx)
	if err != nil {
		r.logger.Error("expiry sweep failed", "error", err)
		return
	}

	if reaped > 0 {
		r.logger.Info("released expired holds", "count", reaped)
	}
}
