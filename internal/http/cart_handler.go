package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/GUNZO-DEV/atlaas-go-delivery-sub003/internal/cart"
	"github.com/GUNZO-DEV/atlaas-go-delivery-sub003/internal/catalog"
	"github.com/GUNZO-DEV/atlaas-go-delivery-sub003/internal/checkout"
	"github.com/GUNZO-DEV/atlaas-go-delivery-sub003/internal/middleware"
)

// MenuItemReader resolves menu items so the cart never trusts client-supplied
// names or prices.
type MenuItemReader interface {
	MenuItem(ctx context.Context, restaurantID, itemID string) (*catalog.MenuItem, error)
}

type CartHandler struct {
	store    *cart.Store
	menu     MenuItemReader
	checkout *checkout.Service
}

func NewCartHandler(store *cart.Store, menu MenuItemReader, checkoutSvc *checkout.Service) *CartHandler {
	return &CartHandler{store: store, menu: menu, checkout: checkoutSvc}
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	writeJSON(w, http.StatusOK, h.store.Get(userID))
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var body struct {
		RestaurantID        string `json:"restaurantId"`
		ItemID              string `json:"itemId"`
		Quantity            int    `json:"quantity"`
		SpecialInstructions string `json:"specialInstructions"`
		Replace             bool   `json:"replace"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if body.RestaurantID == "" || body.ItemID == "" {
		writeError(w, http.StatusBadRequest, "restaurantId and itemId are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	item, err := h.menu.MenuItem(ctx, body.RestaurantID, body.ItemID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load menu item")
		return
	}
	if item == nil {
		writeError(w, http.StatusNotFound, "menu item not found")
		return
	}
	if !item.Available {
		writeError(w, http.StatusConflict, "menu item is unavailable")
		return
	}

	line := cart.Line{
		ItemID:              item.ID,
		RestaurantID:        item.RestaurantID,
		Name:                item.Name,
		UnitPrice:           item.Price,
		Quantity:            body.Quantity,
		ImageURL:            item.ImageURL,
		SpecialInstructions: body.SpecialInstructions,
	}

	c, err := h.store.AddItem(userID, line, body.Replace)
	if err != nil {
		var conflict *cart.RestaurantConflictError
		if errors.As(err, &conflict) {
			writeJSON(w, http.StatusConflict, map[string]string{
				"error":                 "cart is bound to another restaurant",
				"currentRestaurantId":   conflict.CurrentRestaurantID,
				"requestedRestaurantId": conflict.RequestedRestaurantID,
			})
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to add item")
		return
	}

	writeJSON(w, http.StatusOK, c)
}

func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	itemID := chi.URLParam(r, "itemId")

	var body struct {
		Quantity            *int    `json:"quantity"`
		SpecialInstructions *string `json:"specialInstructions"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if body.Quantity == nil && body.SpecialInstructions == nil {
		writeError(w, http.StatusBadRequest, "nothing to update")
		return
	}

	var (
		c   *cart.Cart
		err error
	)
	if body.Quantity != nil {
		c, err = h.store.UpdateQuantity(userID, itemID, *body.Quantity)
		if err != nil {
			writeCartError(w, err)
			return
		}
	}
	if body.SpecialInstructions != nil {
		c, err = h.store.UpdateInstructions(userID, itemID, *body.SpecialInstructions)
		if err != nil {
			// Quantity zero removes the line; losing the follow-up
			// instruction update then is expected.
			if body.Quantity != nil && errors.Is(err, cart.ErrLineNotFound) {
				writeJSON(w, http.StatusOK, h.store.Get(userID))
				return
			}
			writeCartError(w, err)
			return
		}
	}

	writeJSON(w, http.StatusOK, c)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	itemID := chi.URLParam(r, "itemId")

	c, err := h.store.RemoveItem(userID, itemID)
	if err != nil {
		writeCartError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	h.store.Clear(userID)
	writeJSON(w, http.StatusOK, h.store.Get(userID))
}

func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var body struct {
		DistanceKm float64 `json:"distanceKm"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	o, err := h.checkout.Checkout(ctx, userID, body.DistanceKm)
	if err != nil {
		if errors.Is(err, checkout.ErrEmptyCart) {
			writeError(w, http.StatusBadRequest, "cart is empty")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to place order")
		return
	}

	writeJSON(w, http.StatusCreated, o)
}

func writeCartError(w http.ResponseWriter, err error) {
	if errors.Is(err, cart.ErrLineNotFound) {
		writeError(w, http.StatusNotFound, "cart line not found")
		return
	}
	writeError(w, http.StatusInternalServerError, "cart update failed")
}
