package tracking

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"
)

// ErrNotActive is returned when a position arrives for an order that is not
// being tracked.
var ErrNotActive = errors.New("tracking not active for order")

// Manager owns one reporter per actively tracked order. Starting binds the
// reporter's lifetime to the order being out for delivery; stopping cancels
// it immediately so no timer outlives its order.
type Manager struct {
	repo     Repository
	interval time.Duration
	logger   *log.Logger

	mu     sync.Mutex
	active map[string]*session
}

type session struct {
	source *deviceSource
	cancel context.CancelFunc
	done   chan struct{}
}

func NewManager(repo Repository, interval time.Duration, logger *log.Logger) *Manager {
	return &Manager{
		repo:     repo,
		interval: interval,
		logger:   logger,
		active:   make(map[string]*session),
	}
}

// Start begins tracking an order. Starting an already tracked order is a
// no-op.
func (m *Manager) Start(orderID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.active[orderID]; ok {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	sess := &session{
		source: &deviceSource{},
		cancel: cancel,
		done:   make(chan struct{}),
	}
	m.active[orderID] = sess

	reporter := NewReporter(orderID, sess.source, m.repo, m.interval, m.logger)
	go func() {
		defer close(sess.done)
		reporter.Run(ctx)
	}()

	m.logger.Printf("tracking started for order %s", orderID)
}

// Report feeds the latest device position for an order; the reporter persists
// it on its next tick.
func (m *Manager) Report(orderID string, lat, lng float64) error {
	m.mu.Lock()
	sess, ok := m.active[orderID]
	m.mu.Unlock()

	if !ok {
		return ErrNotActive
	}
	sess.source.set(lat, lng)
	return nil
}

// Stop tears down the order's reporter. Stopping an untracked order is a
// no-op.
func (m *Manager) Stop(orderID string) {
	m.mu.Lock()
	sess, ok := m.active[orderID]
	if ok {
		delete(m.active, orderID)
	}
	m.mu.Unlock()

	if !ok {
		return
	}
	sess.cancel()
	<-sess.done
	m.logger.Printf("tracking stopped for order %s", orderID)
}

// StopAll cancels every active reporter; used on shutdown.
func (m *Manager) StopAll() {
	m.mu.Lock()
	sessions := m.active
	m.active = make(map[string]*session)
	m.mu.Unlock()

	for _, sess := range sessions {
		sess.cancel()
		<-sess.done
	}
}

// deviceSource holds the most recent position pushed by the rider's device.
type deviceSource struct {
	mu  sync.Mutex
	lat float64
	lng float64
	has bool
}

func (d *deviceSource) set(lat, lng float64) {
	d.mu.Lock()
	d.lat, d.lng, d.has = lat, lng, true
	d.mu.Unlock()
}

func (d *deviceSource) Current(ctx context.Context) (float64, float64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.has {
		return 0, 0, ErrNoPosition
	}
	return d.lat, d.lng, nil
}
