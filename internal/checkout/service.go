package checkout

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/GUNZO-DEV/atlaas-go-delivery-sub003/internal/cart"
	"github.com/GUNZO-DEV/atlaas-go-delivery-sub003/internal/catalog"
	"github.com/GUNZO-DEV/atlaas-go-delivery-sub003/internal/estimate"
	"github.com/GUNZO-DEV/atlaas-go-delivery-sub003/internal/order"
	"github.com/GUNZO-DEV/atlaas-go-delivery-sub003/internal/referral"
)

var ErrEmptyCart = errors.New("cart is empty")

const defaultDeliveryFee = 12.0 // MAD, when the restaurant row can't be read

type OrderRepository interface {
	Create(ctx context.Context, o *order.Order) error
}

type DiscountResolver interface {
	CheckReferralDiscount(ctx context.Context, userID string, orderTotal float64) referral.Discount
	MarkDiscountUsed(ctx context.Context, userID string, amount float64) (bool, error)
}

type RestaurantReader interface {
	Restaurant(ctx context.Context, restaurantID string) (*catalog.Restaurant, error)
}

type DeliveryEstimator interface {
	Estimate(ctx context.Context, in estimate.Input) int
}

type Publisher interface {
	PublishOrderPlaced(ctx context.Context, o *order.Order) error
}

// Service turns a cart into a persisted order: price it, apply the referral
// discount, write the order, consume the discount, announce it, clear the
// cart. Only the order write itself can fail the checkout; everything around
// it degrades.
type Service struct {
	carts       *cart.Store
	orders      OrderRepository
	discounts   DiscountResolver
	restaurants RestaurantReader
	estimator   DeliveryEstimator
	publisher   Publisher
	logger      *log.Logger
}

func NewService(
	carts *cart.Store,
	orders OrderRepository,
	discounts DiscountResolver,
	restaurants RestaurantReader,
	estimator DeliveryEstimator,
	publisher Publisher,
	logger *log.Logger,
) *Service {
	return &Service{
		carts:       carts,
		orders:      orders,
		discounts:   discounts,
		restaurants: restaurants,
		estimator:   estimator,
		publisher:   publisher,
		logger:      logger,
	}
}

// Checkout places an order from the user's cart. distanceKm is the
// device-measured distance between the restaurant and the delivery address,
// used for the delivery-time estimate.
func (s *Service) Checkout(ctx context.Context, userID string, distanceKm float64) (*order.Order, error) {
	c := s.carts.Get(userID)
	if c.IsEmpty() {
		return nil, ErrEmptyCart
	}

	subtotal := c.TotalPrice()

	fee := defaultDeliveryFee
	rest, err := s.restaurants.Restaurant(ctx, c.RestaurantID)
	if err != nil {
		s.logger.Printf("restaurant %s lookup failed, using default delivery fee: %v", c.RestaurantID, err)
	} else if rest != nil {
		fee = rest.DeliveryFee
	}

	disc := s.discounts.CheckReferralDiscount(ctx, userID, subtotal)

	now := time.Now().UTC()
	o := &order.Order{
		ID:           uuid.NewString(),
		UserID:       userID,
		RestaurantID: c.RestaurantID,
		Subtotal:     subtotal,
		DeliveryFee:  fee,
		Discount:     disc.Amount,
		Total:        subtotal + fee - disc.Amount,
		Status:       order.StatusPlaced,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if distanceKm > 0 {
		o.EstimatedMinutes = s.estimator.Estimate(ctx, estimate.Input{
			DistanceKm:   distanceKm,
			RestaurantID: c.RestaurantID,
			Weekday:      now.Weekday(),
			Hour:         now.Hour(),
		})
	}
	for _, line := range c.Lines {
		o.Items = append(o.Items, order.Item{
			ItemID:              line.ItemID,
			Name:                line.Name,
			Quantity:            line.Quantity,
			UnitPrice:           line.UnitPrice,
			SpecialInstructions: line.SpecialInstructions,
		})
	}

	if err := s.orders.Create(ctx, o); err != nil {
		return nil, err
	}

	// Consume the discount only after the order is safely written. Losing
	// the race (another checkout already used it) is not a failure; the
	// discount simply isn't marked twice.
	if disc.HasDiscount {
		applied, err := s.discounts.MarkDiscountUsed(ctx, userID, disc.Amount)
		if err != nil {
			s.logger.Printf("mark discount used for user %s: %v", userID, err)
		} else if !applied {
			s.logger.Printf("referral discount for user %s already consumed", userID)
		}
	}

	if err := s.publisher.PublishOrderPlaced(ctx, o); err != nil {
		s.logger.Printf("publish OrderPlaced for order %s: %v", o.ID, err)
	}

	s.carts.Clear(userID)

	return o, nil
}
