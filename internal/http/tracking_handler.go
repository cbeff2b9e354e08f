package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/GUNZO-DEV/atlaas-go-delivery-sub003/internal/tracking"
)

type TrackingHandler struct {
	manager *tracking.Manager
	repo    tracking.Repository
}

func NewTrackingHandler(manager *tracking.Manager, repo tracking.Repository) *TrackingHandler {
	return &TrackingHandler{manager: manager, repo: repo}
}

// ReportPosition accepts a position sample from the rider's device for an
// actively tracked order.
func (h *TrackingHandler) ReportPosition(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderId")

	var body struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.manager.Report(orderID, body.Latitude, body.Longitude); err != nil {
		if errors.Is(err, tracking.ErrNotActive) {
			writeError(w, http.StatusConflict, "tracking is not active for this order")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to report position")
		return
	}

	w.WriteHeader(http.StatusAccepted)
}

func (h *TrackingHandler) GetPosition(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderId")

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	pos, err := h.repo.Latest(ctx, orderID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load position")
		return
	}
	if pos == nil {
		writeError(w, http.StatusNotFound, "no position reported yet")
		return
	}
	writeJSON(w, http.StatusOK, pos)
}
