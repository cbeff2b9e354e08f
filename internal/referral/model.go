package referral

import "time"

// Referral links a referrer to the user they invited. The discount on it can
// be consumed exactly once.
type Referral struct {
	ID             string    `json:"id"`
	ReferrerID     string    `json:"referrerId"`
	ReferredID     string    `json:"referredId"`
	DiscountUsed   bool      `json:"discountUsed"`
	DiscountAmount float64   `json:"discountAmount"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Discount is the per-request answer to "does a referral discount apply to
// this order". It is derived, never persisted.
type Discount struct {
	HasDiscount bool    `json:"hasDiscount"`
	Percentage  float64 `json:"percentage"`
	Amount      float64 `json:"amount"`
}
