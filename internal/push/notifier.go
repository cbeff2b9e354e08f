package push

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/GUNZO-DEV/atlaas-go-delivery-sub003/internal/order"
)

// ErrSubscriptionGone signals that the push service no longer knows the
// endpoint; the subscription is dead and should be pruned.
var ErrSubscriptionGone = errors.New("push subscription gone")

// Sender delivers an encrypted payload to one subscription endpoint. The web
// push wire protocol lives behind this interface.
type Sender interface {
	Send(ctx context.Context, sub Subscription, payload Payload) error
}

// Notifier fans an order status change out to every device the user has
// registered. Delivery is best effort: individual failures are logged, dead
// endpoints are deleted, and nothing propagates back to the order flow.
type Notifier struct {
	repo   Repository
	sender Sender
	logger *log.Logger
}

func NewNotifier(repo Repository, sender Sender, logger *log.Logger) *Notifier {
	return &Notifier{repo: repo, sender: sender, logger: logger}
}

func (n *Notifier) NotifyOrderStatus(ctx context.Context, userID, orderID string, status order.Status) {
	subs, err := n.repo.ListByUser(ctx, userID)
	if err != nil {
		n.logger.Printf("list subscriptions for user %s: %v", userID, err)
		return
	}

	payload := Payload{
		Title: "Atlaas Delivery",
		Body:  statusMessage(status),
		URL:   fmt.Sprintf("/orders/%s", orderID),
		Tag:   fmt.Sprintf("order-%s", orderID),
	}

	for _, sub := range subs {
		err := n.sender.Send(ctx, sub, payload)
		if errors.Is(err, ErrSubscriptionGone) {
			if _, delErr := n.repo.DeleteByEndpoint(ctx, sub.Endpoint); delErr != nil {
				n.logger.Printf("prune dead subscription %s: %v", sub.Endpoint, delErr)
			}
			continue
		}
		if err != nil {
			n.logger.Printf("push send to %s failed: %v", sub.Endpoint, err)
		}
	}
}

func statusMessage(status order.Status) string {
	switch status {
	case order.StatusConfirmed:
		return "Your order was confirmed by the restaurant."
	case order.StatusPreparing:
		return "The kitchen is preparing your order."
	case order.StatusReadyForPickup:
		return "Your order is ready and waiting for a rider."
	case order.StatusRiderEnRoute:
		return "A rider is on the way to the restaurant."
	case order.StatusPickedUp:
		return "Your order was picked up and is heading to you."
	case order.StatusDelivered:
		return "Your order was delivered. Enjoy!"
	case order.StatusCancelled:
		return "Your order was cancelled."
	default:
		return fmt.Sprintf("Your order status changed to %s.", status)
	}
}
