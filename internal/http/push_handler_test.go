package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/GUNZO-DEV/atlaas-go-delivery-sub003/internal/middleware"
	"github.com/GUNZO-DEV/atlaas-go-delivery-sub003/internal/push"
)

type pushRepoMock struct {
	SaveFunc        func(ctx context.Context, sub *push.Subscription) error
	DeleteFunc      func(ctx context.Context, userID, endpoint string) (bool, error)
	CountByUserFunc func(ctx context.Context, userID string) (int, error)
}

func (m *pushRepoMock) Save(ctx context.Context, sub *push.Subscription) error {
	return m.SaveFunc(ctx, sub)
}

func (m *pushRepoMock) Delete(ctx context.Context, userID, endpoint string) (bool, error) {
	return m.DeleteFunc(ctx, userID, endpoint)
}

func (m *pushRepoMock) DeleteByEndpoint(ctx context.Context, endpoint string) (bool, error) {
	return false, nil
}

func (m *pushRepoMock) ListByUser(ctx context.Context, userID string) ([]push.Subscription, error) {
	return nil, nil
}

func (m *pushRepoMock) CountByUser(ctx context.Context, userID string) (int, error) {
	return m.CountByUserFunc(ctx, userID)
}

func pushRequest(method, target, body, userID string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if userID != "" {
		req = req.WithContext(middleware.WithUserID(req.Context(), userID))
	}
	return req
}

func TestSubscribeWithoutUser(t *testing.T) {
	h := NewPushHandler(push.NewManager(&pushRepoMock{}, "vapid-pub"))

	rec := httptest.NewRecorder()
	h.Subscribe(rec, pushRequest(http.MethodPost, "/api/push/subscriptions",
		`{"endpoint":"ep1","keys":{"p256dh":"k","auth":"a"}}`, ""))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestSubscribeIncompleteRegistration(t *testing.T) {
	h := NewPushHandler(push.NewManager(&pushRepoMock{}, "vapid-pub"))

	rec := httptest.NewRecorder()
	h.Subscribe(rec, pushRequest(http.MethodPost, "/api/push/subscriptions",
		`{"endpoint":"ep1"}`, "u1"))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestSubscribePersists(t *testing.T) {
	var saved *push.Subscription
	repo := &pushRepoMock{
		SaveFunc: func(ctx context.Context, sub *push.Subscription) error {
			saved = sub
			return nil
		},
	}
	h := NewPushHandler(push.NewManager(repo, "vapid-pub"))

	rec := httptest.NewRecorder()
	h.Subscribe(rec, pushRequest(http.MethodPost, "/api/push/subscriptions",
		`{"endpoint":"https://push.example.com/send/abc","keys":{"p256dh":"k","auth":"a"}}`, "u1"))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if saved == nil || saved.UserID != "u1" || saved.P256dh != "k" {
		t.Fatalf("wrong subscription saved: %+v", saved)
	}
}

func TestUnsubscribeIdempotent(t *testing.T) {
	repo := &pushRepoMock{
		DeleteFunc: func(ctx context.Context, userID, endpoint string) (bool, error) {
			return false, nil
		},
	}
	h := NewPushHandler(push.NewManager(repo, "vapid-pub"))

	rec := httptest.NewRecorder()
	h.Unsubscribe(rec, pushRequest(http.MethodDelete, "/api/push/subscriptions",
		`{"endpoint":"never-registered"}`, "u1"))

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
}

func TestGetStateSubscribed(t *testing.T) {
	repo := &pushRepoMock{
		CountByUserFunc: func(ctx context.Context, userID string) (int, error) {
			return 1, nil
		},
	}
	h := NewPushHandler(push.NewManager(repo, "vapid-pub"))

	rec := httptest.NewRecorder()
	h.GetState(rec, pushRequest(http.MethodGet, "/api/push/state", "", "u1"))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body struct {
		State          push.State `json:"state"`
		VAPIDPublicKey string     `json:"vapidPublicKey"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.State != push.StateSubscribed {
		t.Fatalf("expected subscribed, got %v", body.State)
	}
	if body.VAPIDPublicKey != "vapid-pub" {
		t.Fatalf("response must carry the application public key")
	}
}

func TestGetStateWithoutUser(t *testing.T) {
	h := NewPushHandler(push.NewManager(&pushRepoMock{}, "vapid-pub"))

	rec := httptest.NewRecorder()
	h.GetState(rec, pushRequest(http.MethodGet, "/api/push/state", "", ""))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
