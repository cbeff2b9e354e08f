package http

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/GUNZO-DEV/atlaas-go-delivery-sub003/internal/order"
	"github.com/GUNZO-DEV/atlaas-go-delivery-sub003/internal/tracking"
)

type orderRepoMock struct {
	CreateFunc       func(ctx context.Context, o *order.Order) error
	GetByIDFunc      func(ctx context.Context, orderID string) (*order.Order, error)
	ListByUserFunc   func(ctx context.Context, userID string) ([]order.Order, error)
	UpdateStatusFunc func(ctx context.Context, orderID string, status order.Status) (bool, error)
}

func (m *orderRepoMock) Create(ctx context.Context, o *order.Order) error {
	return m.CreateFunc(ctx, o)
}

func (m *orderRepoMock) GetByID(ctx context.Context, orderID string) (*order.Order, error) {
	return m.GetByIDFunc(ctx, orderID)
}

func (m *orderRepoMock) ListByUser(ctx context.Context, userID string) ([]order.Order, error) {
	return m.ListByUserFunc(ctx, userID)
}

func (m *orderRepoMock) UpdateStatus(ctx context.Context, orderID string, status order.Status) (bool, error) {
	return m.UpdateStatusFunc(ctx, orderID, status)
}

type statusPublisherMock struct {
	published []order.Status
}

func (m *statusPublisherMock) PublishOrderStatusChanged(ctx context.Context, orderID, userID string, status order.Status) error {
	m.published = append(m.published, status)
	return nil
}

type recorderMock struct {
	calls []struct {
		restaurantID      string
		estimated, actual int
	}
}

func (m *recorderMock) RecordDelivery(ctx context.Context, restaurantID string, estimatedMinutes, actualMinutes int) error {
	m.calls = append(m.calls, struct {
		restaurantID      string
		estimated, actual int
	}{restaurantID, estimatedMinutes, actualMinutes})
	return nil
}

type nopTrackingRepo struct{}

func (nopTrackingRepo) Upsert(ctx context.Context, orderID string, lat, lng float64) error {
	return nil
}

func (nopTrackingRepo) Latest(ctx context.Context, orderID string) (*tracking.Position, error) {
	return nil, nil
}

func newOrderTestHandler(repo order.Repository) (*OrderHandler, *statusPublisherMock, *recorderMock, *tracking.Manager) {
	logger := log.New(io.Discard, "", 0)
	pub := &statusPublisherMock{}
	rec := &recorderMock{}
	trackers := tracking.NewManager(nopTrackingRepo{}, time.Hour, logger)
	return NewOrderHandler(repo, pub, trackers, rec, logger), pub, rec, trackers
}

func orderRouter(h *OrderHandler) http.Handler {
	r := chi.NewRouter()
	r.Get("/api/orders/{orderId}", h.GetOrder)
	r.Put("/api/orders/{orderId}/status", h.UpdateStatus)
	return r
}

func TestGetOrderNotFound(t *testing.T) {
	repo := &orderRepoMock{
		GetByIDFunc: func(ctx context.Context, orderID string) (*order.Order, error) {
			return nil, nil
		},
	}
	h, _, _, _ := newOrderTestHandler(repo)

	req := httptest.NewRequest(http.MethodGet, "/api/orders/ghost", nil)
	rec := httptest.NewRecorder()
	orderRouter(h).ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestGetOrderIncludesProgress(t *testing.T) {
	repo := &orderRepoMock{
		GetByIDFunc: func(ctx context.Context, orderID string) (*order.Order, error) {
			return &order.Order{ID: orderID, Status: order.StatusPreparing}, nil
		},
	}
	h, _, _, _ := newOrderTestHandler(repo)

	req := httptest.NewRequest(http.MethodGet, "/api/orders/o1", nil)
	rec := httptest.NewRecorder()
	orderRouter(h).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body struct {
		Progress int            `json:"progress"`
		Steps    []order.Status `json:"steps"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Progress != order.Progress(order.StatusPreparing) {
		t.Fatalf("wrong progress: %d", body.Progress)
	}
	if len(body.Steps) == 0 {
		t.Fatalf("steps missing from the response")
	}
}

func TestUpdateStatusUnknownValue(t *testing.T) {
	h, _, _, _ := newOrderTestHandler(&orderRepoMock{})

	req := httptest.NewRequest(http.MethodPut, "/api/orders/o1/status", strings.NewReader(`{"status":"teleported"}`))
	rec := httptest.NewRecorder()
	orderRouter(h).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestUpdateStatusCannotMoveBackwards(t *testing.T) {
	repo := &orderRepoMock{
		GetByIDFunc: func(ctx context.Context, orderID string) (*order.Order, error) {
			return &order.Order{ID: orderID, Status: order.StatusPickedUp}, nil
		},
	}
	h, pub, _, _ := newOrderTestHandler(repo)

	req := httptest.NewRequest(http.MethodPut, "/api/orders/o1/status", strings.NewReader(`{"status":"preparing"}`))
	rec := httptest.NewRecorder()
	orderRouter(h).ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	if len(pub.published) != 0 {
		t.Fatalf("rejected transitions must not be announced")
	}
}

func TestUpdateStatusTerminalOrder(t *testing.T) {
	repo := &orderRepoMock{
		GetByIDFunc: func(ctx context.Context, orderID string) (*order.Order, error) {
			return &order.Order{ID: orderID, Status: order.StatusPlaced}, nil
		},
		UpdateStatusFunc: func(ctx context.Context, orderID string, status order.Status) (bool, error) {
			return false, nil
		},
	}
	h, _, _, _ := newOrderTestHandler(repo)

	req := httptest.NewRequest(http.MethodPut, "/api/orders/o1/status", strings.NewReader(`{"status":"confirmed"}`))
	rec := httptest.NewRecorder()
	orderRouter(h).ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 when no row updated, got %d", rec.Code)
	}
}

func TestUpdateStatusStartsAndStopsTracking(t *testing.T) {
	current := order.StatusPickedUp
	repo := &orderRepoMock{
		GetByIDFunc: func(ctx context.Context, orderID string) (*order.Order, error) {
			return &order.Order{ID: orderID, UserID: "u1", Status: current}, nil
		},
		UpdateStatusFunc: func(ctx context.Context, orderID string, status order.Status) (bool, error) {
			return true, nil
		},
	}
	h, pub, _, trackers := newOrderTestHandler(repo)
	router := orderRouter(h)

	current = order.StatusReadyForPickup
	req := httptest.NewRequest(http.MethodPut, "/api/orders/o1/status", strings.NewReader(`{"status":"rider_en_route"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if err := trackers.Report("o1", 33.58, -7.61); err != nil {
		t.Fatalf("tracking should be live after rider_en_route: %v", err)
	}

	current = order.StatusPickedUp
	req = httptest.NewRequest(http.MethodPut, "/api/orders/o1/status", strings.NewReader(`{"status":"delivered"}`))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if err := trackers.Report("o1", 1, 2); err == nil {
		t.Fatalf("tracking should stop once delivered")
	}
	if len(pub.published) != 2 {
		t.Fatalf("expected both transitions announced, got %v", pub.published)
	}
}

func TestUpdateStatusDeliveredRecordsHistory(t *testing.T) {
	created := time.Now().Add(-42 * time.Minute)
	repo := &orderRepoMock{
		GetByIDFunc: func(ctx context.Context, orderID string) (*order.Order, error) {
			return &order.Order{
				ID: orderID, UserID: "u1", RestaurantID: "r1",
				Status: order.StatusPickedUp, EstimatedMinutes: 35, CreatedAt: created,
			}, nil
		},
		UpdateStatusFunc: func(ctx context.Context, orderID string, status order.Status) (bool, error) {
			return true, nil
		},
	}
	h, _, recorder, _ := newOrderTestHandler(repo)

	req := httptest.NewRequest(http.MethodPut, "/api/orders/o1/status", strings.NewReader(`{"status":"delivered"}`))
	rec := httptest.NewRecorder()
	orderRouter(h).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(recorder.calls) != 1 {
		t.Fatalf("delivered order must feed the history once, got %d", len(recorder.calls))
	}
	call := recorder.calls[0]
	if call.restaurantID != "r1" || call.estimated != 35 {
		t.Fatalf("wrong history record: %+v", call)
	}
	if call.actual < 41 || call.actual > 43 {
		t.Fatalf("actual minutes should be about 42, got %d", call.actual)
	}
}

func TestUpdateStatusCancelAllowedFromAnywhere(t *testing.T) {
	repo := &orderRepoMock{
		GetByIDFunc: func(ctx context.Context, orderID string) (*order.Order, error) {
			return &order.Order{ID: orderID, UserID: "u1", Status: order.StatusPickedUp}, nil
		},
		UpdateStatusFunc: func(ctx context.Context, orderID string, status order.Status) (bool, error) {
			return true, nil
		},
	}
	h, _, _, _ := newOrderTestHandler(repo)

	req := httptest.NewRequest(http.MethodPut, "/api/orders/o1/status", strings.NewReader(`{"status":"cancelled"}`))
	rec := httptest.NewRecorder()
	orderRouter(h).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("cancel from a non-terminal status should work, got %d", rec.Code)
	}
}
