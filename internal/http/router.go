package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/GUNZO-DEV/atlaas-go-delivery-sub003/internal/middleware"
)

func NewRouter(
	cartHandler *CartHandler,
	orderHandler *OrderHandler,
	catalogHandler *CatalogHandler,
	trackingHandler *TrackingHandler,
	pushHandler *PushHandler,
) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Logger)
	r.Use(middleware.CorrelationID)
	r.Use(middleware.UserID)

	r.Get("/health", healthHandler)

	r.Route("/api/restaurants", func(r chi.Router) {
		r.Get("/", catalogHandler.ListRestaurants)
		r.Get("/{restaurantId}", catalogHandler.GetRestaurant)
		r.Get("/{restaurantId}/menu", catalogHandler.GetMenu)
		r.Get("/{restaurantId}/estimate", catalogHandler.GetEstimate)
		r.Get("/{restaurantId}/stats", catalogHandler.GetAccuracyStats)
	})

	r.Route("/api/cart", func(r chi.Router) {
		r.Use(middleware.RequireUser)
		r.Get("/", cartHandler.GetCart)
		r.Post("/items", cartHandler.AddItem)
		r.Patch("/items/{itemId}", cartHandler.UpdateItem)
		r.Delete("/items/{itemId}", cartHandler.RemoveItem)
		r.Delete("/", cartHandler.ClearCart)
		r.Post("/checkout", cartHandler.Checkout)
	})

	r.Route("/api/orders", func(r chi.Router) {
		r.With(middleware.RequireUser).Get("/", orderHandler.ListOrders)
		r.Get("/{orderId}", orderHandler.GetOrder)
		r.Post("/{orderId}/status", orderHandler.UpdateStatus)
		r.Get("/{orderId}/tracking", trackingHandler.GetPosition)
		r.Post("/{orderId}/tracking", trackingHandler.ReportPosition)
	})

	r.Route("/api/push", func(r chi.Router) {
		r.Get("/state", pushHandler.GetState)
		r.Post("/subscriptions", pushHandler.Subscribe)
		r.Delete("/subscriptions", pushHandler.Unsubscribe)
	})

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "atlaas-api"})
}
