package referral

import (
	"context"
	"log"
	"math"
)

// DiscountPercent is the flat referral discount applied to an order total.
const DiscountPercent = 10.0

// Resolver answers discount-eligibility questions for checkout. Lookups fail
// open: a store error is logged and reported as "no discount" so checkout is
// never blocked on the referral table.
type Resolver struct {
	repo   Repository
	logger *log.Logger
}

func NewResolver(repo Repository, logger *log.Logger) *Resolver {
	return &Resolver{repo: repo, logger: logger}
}

// CheckReferralDiscount reports whether the user still has an unconsumed
// discount from being referred, and what it is worth against orderTotal.
func (r *Resolver) CheckReferralDiscount(ctx context.Context, userID string, orderTotal float64) Discount {
	ref, err := r.repo.FindUnusedByReferred(ctx, userID)
	if err != nil {
		r.logger.Printf("referral lookup for referred user %s failed: %v", userID, err)
		return Discount{}
	}
	if ref == nil {
		return Discount{}
	}
	return discountFor(orderTotal)
}

// CheckReferrerDiscount is the symmetric lookup rewarding the user who
// referred somebody else.
func (r *Resolver) CheckReferrerDiscount(ctx context.Context, userID string, orderTotal float64) Discount {
	ref, err := r.repo.FindUnusedByReferrer(ctx, userID)
	if err != nil {
		r.logger.Printf("referral lookup for referrer %s failed: %v", userID, err)
		return Discount{}
	}
	if ref == nil {
		return Discount{}
	}
	return discountFor(orderTotal)
}

// MarkDiscountUsed consumes the discount. A false result means the row was
// already consumed, e.g. by a concurrent checkout; callers treat that as
// "discount not applied", never as a checkout failure.
func (r *Resolver) MarkDiscountUsed(ctx context.Context, userID string, amount float64) (bool, error) {
	return r.repo.MarkUsed(ctx, userID, amount)
}

func discountFor(orderTotal float64) Discount {
	return Discount{
		HasDiscount: true,
		Percentage:  DiscountPercent,
		Amount:      round2(orderTotal * DiscountPercent / 100),
	}
}

// round2 rounds half up to two decimals for display currency.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
