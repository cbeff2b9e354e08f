package referral

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, referrerID, referredID string) (*Referral, error)
	FindUnusedByReferred(ctx context.Context, referredID string) (*Referral, error)
	FindUnusedByReferrer(ctx context.Context, referrerID string) (*Referral, error)
	MarkUsed(ctx context.Context, referredID string, amount float64) (bool, error)
}

type repo struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repo{db: db}
}

func (r *repo) Create(ctx context.Context, referrerID, referredID string) (*Referral, error) {
	ref := &Referral{
		ID:         uuid.NewString(),
		ReferrerID: referrerID,
		ReferredID: referredID,
	}

	err := r.db.QueryRowContext(ctx,
		`INSERT INTO referrals (id, referrer_id, referred_id, discount_used, discount_amount, created_at)
         VALUES ($1, $2, $3, false, 0, NOW())
         RETURNING created_at`,
		ref.ID, ref.ReferrerID, ref.ReferredID,
	).Scan(&ref.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert referral: %w", err)
	}
	return ref, nil
}

func (r *repo) FindUnusedByReferred(ctx context.Context, referredID string) (*Referral, error) {
	return r.findUnused(ctx, "referred_id", referredID)
}

func (r *repo) FindUnusedByReferrer(ctx context.Context, referrerID string) (*Referral, error) {
	return r.findUnused(ctx, "referrer_id", referrerID)
}

func (r *repo) findUnused(ctx context.Context, column, userID string) (*Referral, error) {
	query := fmt.Sprintf(
		`SELECT id, referrer_id, referred_id, discount_used, discount_amount, created_at
         FROM referrals WHERE %s = $1 AND discount_used = false
         ORDER BY created_at ASC LIMIT 1`, column)

	var ref Referral
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&ref.ID, &ref.ReferrerID, &ref.ReferredID, &ref.DiscountUsed, &ref.DiscountAmount, &ref.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select referral: %w", err)
	}
	return &ref, nil
}

// MarkUsed consumes the referral discount for the given referred user. The
// WHERE clause on discount_used makes the update conditional, so when two
// checkouts race only one of them gets a row back.
func (r *repo) MarkUsed(ctx context.Context, referredID string, amount float64) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE referrals
         SET discount_used = true, discount_amount = $2
         WHERE referred_id = $1 AND discount_used = false`,
		referredID, amount,
	)
	if err != nil {
		return false, fmt.Errorf("mark referral used: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}
