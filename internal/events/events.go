package events

import "time"

const (
	EventTypeOrderPlaced        = "OrderPlaced"
	EventTypeOrderStatusChanged = "OrderStatusChanged"
)

type OrderItem struct {
	ItemID    string  `json:"itemId"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
}

type OrderPlaced struct {
	EventType    string      `json:"eventType"`
	OrderID      string      `json:"orderId"`
	UserID       string      `json:"userId"`
	RestaurantID string      `json:"restaurantId"`
	Items        []OrderItem `json:"items"`
	TotalAmount  float64     `json:"totalAmount"`
	Timestamp    time.Time   `json:"timestamp"`
}

type OrderStatusChanged struct {
	EventType string    `json:"eventType"`
	OrderID   string    `json:"orderId"`
	UserID    string    `json:"userId"`
	Status    string    `json:"status"`
	Sequence  int64     `json:"sequence"`
	Timestamp time.Time `json:"timestamp"`
}
