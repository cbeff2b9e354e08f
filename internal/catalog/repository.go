package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type Repository interface {
	GetRestaurant(ctx context.Context, restaurantID string) (*Restaurant, error)
	ListRestaurants(ctx context.Context, city, cuisine string) ([]Restaurant, error)
	ListMenu(ctx context.Context, restaurantID string) ([]MenuItem, error)
	GetMenuItem(ctx context.Context, restaurantID, itemID string) (*MenuItem, error)
	SetMenuItemAvailability(ctx context.Context, restaurantID, itemID string, available bool) (bool, error)
}

type repo struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repo{db: db}
}

const restaurantColumns = `id, name, city, cuisine, address, latitude, longitude, delivery_fee, rating, is_open, created_at`

func (r *repo) GetRestaurant(ctx context.Context, restaurantID string) (*Restaurant, error) {
	var rest Restaurant
	err := r.db.QueryRowContext(ctx,
		`SELECT `+restaurantColumns+` FROM restaurants WHERE id = $1`,
		restaurantID,
	).Scan(&rest.ID, &rest.Name, &rest.City, &rest.Cuisine, &rest.Address,
		&rest.Latitude, &rest.Longitude, &rest.DeliveryFee, &rest.Rating, &rest.IsOpen, &rest.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select restaurant: %w", err)
	}
	return &rest, nil
}

func (r *repo) ListRestaurants(ctx context.Context, city, cuisine string) ([]Restaurant, error) {
	query := `SELECT ` + restaurantColumns + ` FROM restaurants WHERE 1=1`
	args := []any{}
	if city != "" {
		args = append(args, city)
		query += fmt.Sprintf(" AND city = $%d", len(args))
	}
	if cuisine != "" {
		args = append(args, cuisine)
		query += fmt.Sprintf(" AND cuisine = $%d", len(args))
	}
	query += " ORDER BY rating DESC, name ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select restaurants: %w", err)
	}
	defer rows.Close()

	var out []Restaurant
	for rows.Next() {
		var rest Restaurant
		if err := rows.Scan(&rest.ID, &rest.Name, &rest.City, &rest.Cuisine, &rest.Address,
			&rest.Latitude, &rest.Longitude, &rest.DeliveryFee, &rest.Rating, &rest.IsOpen, &rest.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan restaurant: %w", err)
		}
		out = append(out, rest)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

func (r *repo) ListMenu(ctx context.Context, restaurantID string) ([]MenuItem, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, restaurant_id, name, description, category, price, image_url, available
         FROM menu_items WHERE restaurant_id = $1 ORDER BY category, name`,
		restaurantID,
	)
	if err != nil {
		return nil, fmt.Errorf("select menu_items: %w", err)
	}
	defer rows.Close()

	var items []MenuItem
	for rows.Next() {
		var it MenuItem
		if err := rows.Scan(&it.ID, &it.RestaurantID, &it.Name, &it.Description, &it.Category, &it.Price, &it.ImageURL, &it.Available); err != nil {
			return nil, fmt.Errorf("scan menu_item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return items, nil
}

func (r *repo) GetMenuItem(ctx context.Context, restaurantID, itemID string) (*MenuItem, error) {
	var it MenuItem
	err := r.db.QueryRowContext(ctx,
		`SELECT id, restaurant_id, name, description, category, price, image_url, available
         FROM menu_items WHERE restaurant_id = $1 AND id = $2`,
		restaurantID, itemID,
	).Scan(&it.ID, &it.RestaurantID, &it.Name, &it.Description, &it.Category, &it.Price, &it.ImageURL, &it.Available)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select menu_item: %w", err)
	}
	return &it, nil
}

func (r *repo) SetMenuItemAvailability(ctx context.Context, restaurantID, itemID string, available bool) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE menu_items SET available = $3 WHERE restaurant_id = $1 AND id = $2`,
		restaurantID, itemID, available,
	)
	if err != nil {
		return false, fmt.Errorf("update menu_item: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}
