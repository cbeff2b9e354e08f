package push

import (
	"context"
	"errors"
)

var (
	// ErrNotAuthenticated is returned when a subscription operation arrives
	// without an authenticated user.
	ErrNotAuthenticated = errors.New("authenticated user required")
	// ErrInvalidSubscription is returned when the registration from the
	// device is missing its endpoint or keys.
	ErrInvalidSubscription = errors.New("subscription endpoint and keys required")
)

// Registration is what the device hands over after the push service accepted
// it: an endpoint URL plus the client key pair.
type Registration struct {
	Endpoint string `json:"endpoint"`
	P256dh   string `json:"p256dh"`
	Auth     string `json:"auth"`
}

// Manager runs the server side of the push subscription lifecycle. The
// browser flow (permission prompt, registering against the push service with
// the application key) happens on the device; the manager persists the result
// keyed by user and tears it down again.
type Manager struct {
	repo           Repository
	VAPIDPublicKey string
}

func NewManager(repo Repository, vapidPublicKey string) *Manager {
	return &Manager{repo: repo, VAPIDPublicKey: vapidPublicKey}
}

// Subscribe persists a device registration for the user, moving the device to
// the subscribed state. It requires an authenticated user.
func (m *Manager) Subscribe(ctx context.Context, userID string, reg Registration) (*Subscription, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}
	if reg.Endpoint == "" || reg.P256dh == "" || reg.Auth == "" {
		return nil, ErrInvalidSubscription
	}

	sub := &Subscription{
		UserID:   userID,
		Endpoint: reg.Endpoint,
		P256dh:   reg.P256dh,
		Auth:     reg.Auth,
	}
	if err := m.repo.Save(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// Unsubscribe removes the persisted registration for the endpoint. It is
// idempotent: unsubscribing an endpoint that was never registered is a no-op.
func (m *Manager) Unsubscribe(ctx context.Context, userID, endpoint string) error {
	if userID == "" {
		return ErrNotAuthenticated
	}
	_, err := m.repo.Delete(ctx, userID, endpoint)
	return err
}

// StateFor reports the subscription state for the user's devices as the
// server sees it. A device that never registered shows as unsubscribed; the
// unsupported state only exists on the client.
func (m *Manager) StateFor(ctx context.Context, userID string) (State, error) {
	if userID == "" {
		return StateUnsubscribed, ErrNotAuthenticated
	}
	n, err := m.repo.CountByUser(ctx, userID)
	if err != nil {
		return StateUnsubscribed, err
	}
	if n > 0 {
		return StateSubscribed, nil
	}
	return StateUnsubscribed, nil
}
