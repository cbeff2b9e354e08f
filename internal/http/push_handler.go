package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/GUNZO-DEV/atlaas-go-delivery-sub003/internal/middleware"
	"github.com/GUNZO-DEV/atlaas-go-delivery-sub003/internal/push"
)

type PushHandler struct {
	manager *push.Manager
}

func NewPushHandler(manager *push.Manager) *PushHandler {
	return &PushHandler{manager: manager}
}

func (h *PushHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var body struct {
		Endpoint string `json:"endpoint"`
		Keys     struct {
			P256dh string `json:"p256dh"`
			Auth   string `json:"auth"`
		} `json:"keys"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	sub, err := h.manager.Subscribe(ctx, userID, push.Registration{
		Endpoint: body.Endpoint,
		P256dh:   body.Keys.P256dh,
		Auth:     body.Keys.Auth,
	})
	if err != nil {
		switch {
		case errors.Is(err, push.ErrNotAuthenticated):
			writeError(w, http.StatusUnauthorized, "authentication required")
		case errors.Is(err, push.ErrInvalidSubscription):
			writeError(w, http.StatusBadRequest, "endpoint and keys are required")
		default:
			writeError(w, http.StatusInternalServerError, "failed to save subscription")
		}
		return
	}

	writeJSON(w, http.StatusCreated, sub)
}

// Unsubscribe is idempotent: removing a subscription that does not exist
// still returns 204.
func (h *PushHandler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var body struct {
		Endpoint string `json:"endpoint"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.manager.Unsubscribe(ctx, userID, body.Endpoint); err != nil {
		if errors.Is(err, push.ErrNotAuthenticated) {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to remove subscription")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *PushHandler) GetState(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	state, err := h.manager.StateFor(ctx, userID)
	if err != nil {
		if errors.Is(err, push.ErrNotAuthenticated) {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load subscription state")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"state":          state,
		"vapidPublicKey": h.manager.VAPIDPublicKey,
	})
}
