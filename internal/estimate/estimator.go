package estimate

import (
	"context"
	"log"
	"math"
	"time"
)

const (
	prepMinutes      = 15.0 // kitchen prep offset
	averageSpeedKmh  = 22.0 // rider speed through city traffic
	minSampleCount   = 10
	correctionWeight = 0.5
	toleranceMinutes = 5
)

type Input struct {
	DistanceKm   float64
	RestaurantID string
	Weekday      time.Weekday
	Hour         int
}

// Stats summarizes how a restaurant's past estimates compared to reality.
// AverageDeviation is the mean of (estimated - actual) in minutes; positive
// means we tend to over-estimate.
type Stats struct {
	AverageDeviation float64 `json:"averageDeviation"`
	TotalDeliveries  int     `json:"totalDeliveries"`
	OnTimePercentage float64 `json:"onTimePercentage"`
}

type HistoryRepository interface {
	AverageDeviation(ctx context.Context, restaurantID string) (float64, int, error)
	Stats(ctx context.Context, restaurantID string) (Stats, error)
	Record(ctx context.Context, restaurantID string, estimatedMinutes, actualMinutes int) error
}

// Estimator predicts delivery time from distance, adjusted for traffic/demand
// buckets and corrected with the restaurant's historical estimate accuracy.
type Estimator struct {
	history HistoryRepository
	logger  *log.Logger
}

func NewEstimator(history HistoryRepository, logger *log.Logger) *Estimator {
	return &Estimator{history: history, logger: logger}
}

// Estimate returns a predicted delivery time in whole minutes, never negative.
// History problems degrade to the uncorrected figure; this path must not fail.
func (e *Estimator) Estimate(ctx context.Context, in Input) int {
	minutes := prepMinutes + in.DistanceKm/averageSpeedKmh*60
	minutes *= demandMultiplier(in.Weekday, in.Hour)

	avg, n, err := e.history.AverageDeviation(ctx, in.RestaurantID)
	if err != nil {
		e.logger.Printf("delivery history for restaurant %s unavailable: %v", in.RestaurantID, err)
	} else if n >= minSampleCount {
		// Positive deviation means past estimates ran high, so pull the
		// figure down. Half weight keeps one bad week from whipsawing it.
		minutes -= avg * correctionWeight
	}

	if minutes < 0 {
		minutes = 0
	}
	return int(math.Round(minutes))
}

// AccuracyStats aggregates the restaurant's delivery history. A restaurant
// with no history gets a zeroed result, not an error; this feeds a display.
func (e *Estimator) AccuracyStats(ctx context.Context, restaurantID string) Stats {
	stats, err := e.history.Stats(ctx, restaurantID)
	if err != nil {
		e.logger.Printf("accuracy stats for restaurant %s unavailable: %v", restaurantID, err)
		return Stats{}
	}
	return stats
}

// RecordDelivery feeds a completed delivery back into the history so future
// estimates for the restaurant self-correct.
func (e *Estimator) RecordDelivery(ctx context.Context, restaurantID string, estimatedMinutes, actualMinutes int) error {
	return e.history.Record(ctx, restaurantID, estimatedMinutes, actualMinutes)
}

// demandMultiplier scales the base estimate for known traffic and kitchen-load
// patterns: weekday lunch rush, the nightly dinner peak, and quiet late-night
// hours.
func demandMultiplier(day time.Weekday, hour int) float64 {
	weekday := day >= time.Monday && day <= time.Friday

	switch {
	case hour >= 12 && hour <= 14 && weekday:
		return 1.3
	case hour >= 19 && hour <= 21:
		return 1.4
	case hour >= 12 && hour <= 14:
		return 1.15
	case hour >= 23 || hour <= 5:
		return 0.8
	default:
		return 1.0
	}
}
