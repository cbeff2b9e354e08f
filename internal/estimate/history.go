package estimate

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBPool matches the methods from *pgxpool.Pool that the history repository
// uses, so tests can substitute a fake.
type DBPool interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// PostgresHistory stores (estimated, actual) pairs per restaurant and serves
// the aggregates the estimator blends in.
type PostgresHistory struct {
	pool DBPool
}

func NewPostgresHistory(pool DBPool) *PostgresHistory {
	return &PostgresHistory{pool: pool}
}

func (h *PostgresHistory) AverageDeviation(ctx context.Context, restaurantID string) (float64, int, error) {
	var (
		avg float64
		n   int
	)
	err := h.pool.QueryRow(ctx, `
		SELECT COALESCE(AVG(estimated_minutes - actual_minutes), 0), COUNT(*)
		FROM delivery_history
		WHERE restaurant_id = $1
	`, restaurantID).Scan(&avg, &n)
	if err != nil {
		return 0, 0, fmt.Errorf("select average deviation: %w", err)
	}
	return avg, n, nil
}

func (h *PostgresHistory) Stats(ctx context.Context, restaurantID string) (Stats, error) {
	var s Stats
	err := h.pool.QueryRow(ctx, `
		SELECT COUNT(*),
		       COALESCE(AVG(estimated_minutes - actual_minutes), 0),
		       COALESCE(AVG(CASE WHEN actual_minutes <= estimated_minutes + $2 THEN 100.0 ELSE 0.0 END), 0)
		FROM delivery_history
		WHERE restaurant_id = $1
	`, restaurantID, toleranceMinutes).Scan(&s.TotalDeliveries, &s.AverageDeviation, &s.OnTimePercentage)
	if err != nil {
		return Stats{}, fmt.Errorf("select accuracy stats: %w", err)
	}
	return s, nil
}

func (h *PostgresHistory) Record(ctx context.Context, restaurantID string, estimatedMinutes, actualMinutes int) error {
	_, err := h.pool.Exec(ctx, `
		INSERT INTO delivery_history (id, restaurant_id, estimated_minutes, actual_minutes, delivered_at)
		VALUES ($1, $2, $3, $4, NOW())
	`, uuid.NewString(), restaurantID, estimatedMinutes, actualMinutes)
	if err != nil {
		return fmt.Errorf("insert delivery history: %w", err)
	}
	return nil
}
