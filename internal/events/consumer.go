package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/GUNZO-DEV/atlaas-go-delivery-sub003/internal/order"
	"github.com/GUNZO-DEV/atlaas-go-delivery-sub003/internal/push"
)

// StartOrderStatusConsumer consumes order.status events and fans each one out
// as a push notification to the order's owner. Notification delivery is best
// effort, so handler errors only cover undecodable messages.
func StartOrderStatusConsumer(ctx context.Context, conn *amqp.Connection, notifier *push.Notifier, logger *log.Logger) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}

	_, err = ch.QueueDeclare(
		OrderStatusQueue,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	)
	if err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	msgs, err := ch.Consume(
		OrderStatusQueue,
		"atlaas-push", // consumer tag
		false,         // autoAck
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				logger.Println("stopping order.status consumer")
				return
			case msg, ok := <-msgs:
				if !ok {
					logger.Println("messages channel closed")
					return
				}

				if err := handleOrderStatusChanged(ctx, notifier, msg.Body); err != nil {
					logger.Printf("handle message error: %v", err)
					_ = msg.Nack(false, false) // drop, nothing to retry
					continue
				}
				_ = msg.Ack(false)
			}
		}
	}()

	return nil
}

func handleOrderStatusChanged(ctx context.Context, notifier *push.Notifier, body []byte) error {
	var ev OrderStatusChanged
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal OrderStatusChanged: %w", err)
	}

	notifier.NotifyOrderStatus(ctx, ev.UserID, ev.OrderID, order.Status(ev.Status))
	return nil
}
