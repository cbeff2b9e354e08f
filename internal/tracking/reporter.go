package tracking

import (
	"context"
	"errors"
	"log"
	"time"
)

// ErrNoPosition is returned by a PositionSource that has nothing to report
// yet; the reporter skips the tick and tries again on the next one.
var ErrNoPosition = errors.New("no position available")

// PositionSource yields the rider's current position on demand.
type PositionSource interface {
	Current(ctx context.Context) (lat, lng float64, err error)
}

// Reporter persists the rider's position for one order: once immediately,
// then on a fixed interval until its context is cancelled. A failed read or
// write is logged and skipped; every tick stands on its own.
type Reporter struct {
	orderID  string
	source   PositionSource
	repo     Repository
	interval time.Duration
	logger   *log.Logger
}

func NewReporter(orderID string, source PositionSource, repo Repository, interval time.Duration, logger *log.Logger) *Reporter {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &Reporter{
		orderID:  orderID,
		source:   source,
		repo:     repo,
		interval: interval,
		logger:   logger,
	}
}

func (r *Reporter) Run(ctx context.Context) {
	r.report(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.report(ctx)
		}
	}
}

func (r *Reporter) report(ctx context.Context) {
	lat, lng, err := r.source.Current(ctx)
	if err != nil {
		if !errors.Is(err, ErrNoPosition) {
			r.logger.Printf("position read for order %s failed: %v", r.orderID, err)
		}
		return
	}

	if err := r.repo.Upsert(ctx, r.orderID, lat, lng); err != nil {
		r.logger.Printf("tracking write for order %s failed: %v", r.orderID, err)
	}
}
