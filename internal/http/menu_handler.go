package http

import (
	"context"
	"net/http"
	"time"

	"github.com/Ammark2003/Pizzeria-app/internal/catalog"
	"github.com/Ammark2003/Pizzeria-app/internal/domain"
)

type MenuHandler struct {
	catalog catalog.Provider
	timeout time.Duration
}

func NewMenuHandler(provider catalog.Provider, timeout time.Duration) *MenuHandler {
	return &MenuHandler{
		catalog: provider,
		timeout: timeout,
	}
}

func (h *MenuHandler) GetMenu(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	items, err := h.catalog.GetAll(ctx)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	if items == nil {
		items = []domain.CatalogItem{}
	}

	respondJSON(w, http.StatusOK, items)
}
