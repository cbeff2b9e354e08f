package push

import "time"

// Subscription is a device's push registration: the endpoint the push service
// issued plus the client encryption keys, owned by one user.
type Subscription struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Endpoint  string    `json:"endpoint"`
	P256dh    string    `json:"p256dh"`
	Auth      string    `json:"auth"`
	CreatedAt time.Time `json:"createdAt"`
}

// Payload is what gets rendered as an OS notification; clicking it opens URL.
type Payload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	URL   string `json:"url"`
	Tag   string `json:"tag"`
}

type State string

const (
	StateUnsupported  State = "unsupported"
	StateUnsubscribed State = "unsubscribed"
	StateSubscribed   State = "subscribed"
)
