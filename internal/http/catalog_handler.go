package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/GUNZO-DEV/atlaas-go-delivery-sub003/internal/catalog"
	"github.com/GUNZO-DEV/atlaas-go-delivery-sub003/internal/estimate"
)

type CatalogHandler struct {
	catalog   *catalog.Service
	estimator *estimate.Estimator
}

func NewCatalogHandler(catalogSvc *catalog.Service, estimator *estimate.Estimator) *CatalogHandler {
	return &CatalogHandler{catalog: catalogSvc, estimator: estimator}
}

func (h *CatalogHandler) ListRestaurants(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	restaurants, err := h.catalog.ListRestaurants(ctx, r.URL.Query().Get("city"), r.URL.Query().Get("cuisine"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load restaurants")
		return
	}
	if restaurants == nil {
		restaurants = []catalog.Restaurant{}
	}
	writeJSON(w, http.StatusOK, restaurants)
}

func (h *CatalogHandler) GetRestaurant(w http.ResponseWriter, r *http.Request) {
	restaurantID := chi.URLParam(r, "restaurantId")

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	rest, err := h.catalog.Restaurant(ctx, restaurantID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load restaurant")
		return
	}
	if rest == nil {
		writeError(w, http.StatusNotFound, "restaurant not found")
		return
	}
	writeJSON(w, http.StatusOK, rest)
}

func (h *CatalogHandler) GetMenu(w http.ResponseWriter, r *http.Request) {
	restaurantID := chi.URLParam(r, "restaurantId")

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	items, err := h.catalog.Menu(ctx, restaurantID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load menu")
		return
	}
	if items == nil {
		items = []catalog.MenuItem{}
	}
	writeJSON(w, http.StatusOK, items)
}

// GetEstimate returns the predicted delivery time for a restaurant/distance
// pair, evaluated at the current local time.
func (h *CatalogHandler) GetEstimate(w http.ResponseWriter, r *http.Request) {
	restaurantID := chi.URLParam(r, "restaurantId")

	distanceKm, err := strconv.ParseFloat(r.URL.Query().Get("distanceKm"), 64)
	if err != nil || distanceKm <= 0 {
		writeError(w, http.StatusBadRequest, "distanceKm must be a positive number")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	now := time.Now()
	minutes := h.estimator.Estimate(ctx, estimate.Input{
		DistanceKm:   distanceKm,
		RestaurantID: restaurantID,
		Weekday:      now.Weekday(),
		Hour:         now.Hour(),
	})

	writeJSON(w, http.StatusOK, map[string]any{
		"restaurantId":     restaurantID,
		"distanceKm":       distanceKm,
		"estimatedMinutes": minutes,
	})
}

func (h *CatalogHandler) GetAccuracyStats(w http.ResponseWriter, r *http.Request) {
	restaurantID := chi.URLParam(r, "restaurantId")

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	writeJSON(w, http.StatusOK, h.estimator.AccuracyStats(ctx, restaurantID))
}
