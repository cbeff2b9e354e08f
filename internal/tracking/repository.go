package tracking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

type Position struct {
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Repository interface {
	Upsert(ctx context.Context, orderID string, lat, lng float64) error
	Latest(ctx context.Context, orderID string) (*Position, error)
}

type repo struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repo{db: db}
}

// Upsert writes the rider's current position for an order. Last write wins;
// a stale write landing after tracking stops is harmless.
func (r *repo) Upsert(ctx context.Context, orderID string, lat, lng float64) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO delivery_tracking (order_id, latitude, longitude, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (order_id) DO UPDATE
		SET latitude = EXCLUDED.latitude, longitude = EXCLUDED.longitude, updated_at = NOW()
	`, orderID, lat, lng)
	if err != nil {
		return fmt.Errorf("upsert tracking: %w", err)
	}
	return nil
}

func (r *repo) Latest(ctx context.Context, orderID string) (*Position, error) {
	var p Position
	err := r.db.QueryRowContext(ctx,
		`SELECT latitude, longitude, updated_at FROM delivery_tracking WHERE order_id = $1`,
		orderID,
	).Scan(&p.Latitude, &p.Longitude, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select tracking: %w", err)
	}
	return &p, nil
}
