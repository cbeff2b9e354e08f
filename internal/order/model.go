package order

import "time"

type Item struct {
	ItemID              string  `json:"itemId"`
	Name                string  `json:"name"`
	Quantity            int     `json:"quantity"`
	UnitPrice           float64 `json:"unitPrice"`
	SpecialInstructions string  `json:"specialInstructions,omitempty"`
}

type Order struct {
	ID               string    `json:"orderId"`
	UserID           string    `json:"userId"`
	RestaurantID     string    `json:"restaurantId"`
	Items            []Item    `json:"items"`
	Subtotal         float64   `json:"subtotal"`
	DeliveryFee      float64   `json:"deliveryFee"`
	Discount         float64   `json:"discount"`
	Total            float64   `json:"totalAmount"`
	Status           Status    `json:"status"`
	EstimatedMinutes int       `json:"estimatedMinutes"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}
