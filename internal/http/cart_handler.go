package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/Ammark2003/Pizzeria-app/internal/catalog"
	"github.com/Ammark2003/Pizzeria-app/internal/domain"
	"github.com/Ammark2003/Pizzeria-app/internal/pricing"
	"github.com/go-chi/chi/v5"
)

// CartService is the slice of the reconciler this handler consumes.
type CartService interface {
	Snapshot(ctx context.Context) ([]domain.CartLineItem, error)
	Index() map[string]string
	Add(ctx context.Context, item domain.CatalogItem) (domain.CartLineItem, error)
	Remove(ctx context.Context, name string) error
	ChangeQuantity(ctx context.Context, id string, current, delta int) ([]domain.CartLineItem, error)
}

type CartHandler struct {
	catalog catalog.Provider
	cart    CartService
	timeout time.Duration
}

func NewCartHandler(provider catalog.Provider, cart CartService, timeout time.Duration) *CartHandler {
	return &CartHandler{
		catalog: provider,
		cart:    cart,
		timeout: timeout,
	}
}

type AddItemRequestDTO struct {
	Name string `json:"name"`
}

type UpdateQuantityRequestDTO struct {
	CurrentQuantity int `json:"current_quantity"`
	Delta           int `json:"delta"`
}

// CartView is what the presentation adapter re-renders after every
// operation: the authoritative line items, the name→id lookup snapshot,
// and the computed order summary.
type CartView struct {
	Items   []domain.CartLineItem `json:"items"`
	Index   map[string]string     `json:"index"`
	Summary pricing.Summary       `json:"summary"`
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	items, err := h.cart.Snapshot(ctx)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, h.view(items))
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "invalid_name", "name is required")
		return
	}

	item, err := h.catalog.GetByName(ctx, req.Name)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	if _, err := h.cart.Add(ctx, item); err != nil {
		respondDomainError(w, err)
		return
	}

	items, err := h.cart.Snapshot(ctx)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, h.view(items))
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	name := chi.URLParam(r, "name")
	if name == "" {
		respondError(w, http.StatusBadRequest, "invalid_name", "name is required")
		return
	}

	if err := h.cart.Remove(ctx, name); err != nil {
		respondDomainError(w, err)
		return
	}

	items, err := h.cart.Snapshot(ctx)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, h.view(items))
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id := chi.URLParam(r, "id")
	if id == "" {
		respondError(w, http.StatusBadRequest, "invalid_id", "id is required")
		return
	}

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Delta == 0 {
		respondError(w, http.StatusBadRequest, "invalid_delta", "delta must be non-zero")
		return
	}

	items, err := h.cart.ChangeQuantity(ctx, id, req.CurrentQuantity, req.Delta)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, h.view(items))
}

func (h *CartHandler) view(items []domain.CartLineItem) CartView {
	if items == nil {
		items = []domain.CartLineItem{}
	}
	return CartView{
		Items:   items,
		Index:   h.cart.Index(),
		Summary: pricing.Summarize(items),
	}
}
