package order

type Status string

const (
	StatusPlaced         Status = "placed"
	StatusConfirmed      Status = "confirmed"
	StatusPreparing      Status = "preparing"
	StatusReadyForPickup Status = "ready_for_pickup"
	StatusRiderEnRoute   Status = "rider_en_route"
	StatusPickedUp       Status = "picked_up"
	StatusDelivered      Status = "delivered"
	// Cancelled sits outside the delivery progression.
	StatusCancelled Status = "cancelled"
)

// progression lists the delivery statuses in the order they are reached.
var progression = []Status{
	StatusPlaced,
	StatusConfirmed,
	StatusPreparing,
	StatusReadyForPickup,
	StatusRiderEnRoute,
	StatusPickedUp,
	StatusDelivered,
}

// Progress maps a status to its position in the delivery progression, used to
// render how far an order has come. Unknown values and cancelled map to -1 so
// the display shows no completed step instead of failing.
func Progress(s Status) int {
	for i, step := range progression {
		if step == s {
			return i
		}
	}
	return -1
}

// Steps returns the full delivery progression for display.
func Steps() []Status {
	return append([]Status(nil), progression...)
}

func (s Status) Valid() bool {
	return s == StatusCancelled || Progress(s) >= 0
}

// Terminal reports whether no further status changes are allowed.
func (s Status) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}
