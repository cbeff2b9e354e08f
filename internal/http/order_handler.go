package http

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/GUNZO-DEV/atlaas-go-delivery-sub003/internal/middleware"
	"github.com/GUNZO-DEV/atlaas-go-delivery-sub003/internal/order"
	"github.com/GUNZO-DEV/atlaas-go-delivery-sub003/internal/tracking"
)

type StatusPublisher interface {
	PublishOrderStatusChanged(ctx context.Context, orderID, userID string, status order.Status) error
}

// DeliveryRecorder feeds completed deliveries back into the estimator's
// history.
type DeliveryRecorder interface {
	RecordDelivery(ctx context.Context, restaurantID string, estimatedMinutes, actualMinutes int) error
}

type OrderHandler struct {
	repo      order.Repository
	publisher StatusPublisher
	trackers  *tracking.Manager
	recorder  DeliveryRecorder
	logger    *log.Logger
}

func NewOrderHandler(repo order.Repository, publisher StatusPublisher, trackers *tracking.Manager, recorder DeliveryRecorder, logger *log.Logger) *OrderHandler {
	return &OrderHandler{
		repo:      repo,
		publisher: publisher,
		trackers:  trackers,
		recorder:  recorder,
		logger:    logger,
	}
}

func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	orders, err := h.repo.ListByUser(ctx, userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load orders")
		return
	}
	if orders == nil {
		orders = []order.Order{}
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderId")

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	o, err := h.repo.GetByID(ctx, orderID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load order")
		return
	}
	if o == nil {
		writeError(w, http.StatusNotFound, "order not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"order":    o,
		"progress": order.Progress(o.Status),
		"steps":    order.Steps(),
	})
}

// UpdateStatus advances an order through the delivery progression. Moving to
// rider_en_route starts live tracking; reaching a terminal status stops it.
// A delivered order also feeds the estimator's history.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderId")

	var body struct {
		Status order.Status `json:"status"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if !body.Status.Valid() {
		writeError(w, http.StatusBadRequest, "unknown status")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	o, err := h.repo.GetByID(ctx, orderID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load order")
		return
	}
	if o == nil {
		writeError(w, http.StatusNotFound, "order not found")
		return
	}

	// The progression only moves forward; cancelling is allowed from any
	// non-terminal status.
	if body.Status != order.StatusCancelled && order.Progress(body.Status) <= order.Progress(o.Status) {
		writeError(w, http.StatusConflict, "status cannot move backwards")
		return
	}

	updated, err := h.repo.UpdateStatus(ctx, orderID, body.Status)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update status")
		return
	}
	if !updated {
		writeError(w, http.StatusConflict, "order already in a terminal status")
		return
	}

	switch body.Status {
	case order.StatusRiderEnRoute:
		h.trackers.Start(orderID)
	case order.StatusDelivered, order.StatusCancelled:
		h.trackers.Stop(orderID)
	}

	if body.Status == order.StatusDelivered && o.EstimatedMinutes > 0 {
		actual := int(time.Since(o.CreatedAt).Round(time.Minute) / time.Minute)
		if err := h.recorder.RecordDelivery(ctx, o.RestaurantID, o.EstimatedMinutes, actual); err != nil {
			h.logger.Printf("record delivery history for order %s: %v", orderID, err)
		}
	}

	if err := h.publisher.PublishOrderStatusChanged(ctx, orderID, o.UserID, body.Status); err != nil {
		h.logger.Printf("publish status change for order %s: %v", orderID, err)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"orderId":  orderID,
		"status":   body.Status,
		"progress": order.Progress(body.Status),
	})
}
