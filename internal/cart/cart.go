package cart

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrLineNotFound is returned when an item id has no line in the cart.
	ErrLineNotFound = errors.New("cart line not found")
)

// RestaurantConflictError is returned when an item from a different restaurant
// is added to a non-empty cart. The caller must resolve it explicitly (keep the
// current cart, or retry the add with replace set) before anything is mutated.
type RestaurantConflictError struct {
	CurrentRestaurantID   string
	RequestedRestaurantID string
}

func (e *RestaurantConflictError) Error() string {
	return fmt.Sprintf("cart is bound to restaurant %s, cannot add item from restaurant %s",
		e.CurrentRestaurantID, e.RequestedRestaurantID)
}

type Line struct {
	ItemID              string  `json:"itemId"`
	RestaurantID        string  `json:"restaurantId"`
	Name                string  `json:"name"`
	UnitPrice           float64 `json:"unitPrice"`
	Quantity            int     `json:"quantity"`
	ImageURL            string  `json:"imageUrl,omitempty"`
	SpecialInstructions string  `json:"specialInstructions,omitempty"`
}

// Cart holds an in-progress order bound to a single restaurant.
// Invariant: RestaurantID is empty iff Lines is empty, and every line's
// RestaurantID equals Cart.RestaurantID.
type Cart struct {
	UserID       string    `json:"userId"`
	RestaurantID string    `json:"restaurantId,omitempty"`
	Lines        []Line    `json:"lines"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// addLine appends a new line or increments an existing one. When the cart is
// bound to a different restaurant it mutates nothing unless replace is set, in
// which case existing lines are discarded first.
func (c *Cart) addLine(line Line, replace bool) error {
	if c.RestaurantID != "" && c.RestaurantID != line.RestaurantID {
		if !replace {
			return &RestaurantConflictError{
				CurrentRestaurantID:   c.RestaurantID,
				RequestedRestaurantID: line.RestaurantID,
			}
		}
		c.Lines = nil
		c.RestaurantID = ""
	}

	c.RestaurantID = line.RestaurantID

	if line.Quantity <= 0 {
		line.Quantity = 1
	}

	for i := range c.Lines {
		if c.Lines[i].ItemID == line.ItemID {
			c.Lines[i].Quantity += line.Quantity
			c.UpdatedAt = time.Now()
			return nil
		}
	}

	c.Lines = append(c.Lines, line)
	c.UpdatedAt = time.Now()
	return nil
}

// removeLine deletes the line with the given item id. When the last line goes,
// the restaurant binding is released.
func (c *Cart) removeLine(itemID string) error {
	for i := range c.Lines {
		if c.Lines[i].ItemID == itemID {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			if len(c.Lines) == 0 {
				c.RestaurantID = ""
			}
			c.UpdatedAt = time.Now()
			return nil
		}
	}
	return ErrLineNotFound
}

func (c *Cart) updateQuantity(itemID string, qty int) error {
	if qty <= 0 {
		return c.removeLine(itemID)
	}
	for i := range c.Lines {
		if c.Lines[i].ItemID == itemID {
			c.Lines[i].Quantity = qty
			c.UpdatedAt = time.Now()
			return nil
		}
	}
	return ErrLineNotFound
}

func (c *Cart) updateInstructions(itemID, text string) error {
	for i := range c.Lines {
		if c.Lines[i].ItemID == itemID {
			c.Lines[i].SpecialInstructions = text
			c.UpdatedAt = time.Now()
			return nil
		}
	}
	return ErrLineNotFound
}

func (c *Cart) clear() {
	c.Lines = nil
	c.RestaurantID = ""
	c.UpdatedAt = time.Now()
}

// TotalItemCount is the sum of line quantities.
func (c *Cart) TotalItemCount() int {
	count := 0
	for _, line := range c.Lines {
		count += line.Quantity
	}
	return count
}

// TotalPrice is the undiscounted sum over all lines.
func (c *Cart) TotalPrice() float64 {
	total := 0.0
	for _, line := range c.Lines {
		total += line.UnitPrice * float64(line.Quantity)
	}
	return total
}

func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

func (c *Cart) copy() *Cart {
	out := &Cart{
		UserID:       c.UserID,
		RestaurantID: c.RestaurantID,
		UpdatedAt:    c.UpdatedAt,
	}
	out.Lines = append([]Line(nil), c.Lines...)
	return out
}
