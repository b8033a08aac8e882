package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Ammark2003/Pizzeria-app/internal/catalog"
	"github.com/Ammark2003/Pizzeria-app/internal/reconciler"
	"github.com/Ammark2003/Pizzeria-app/internal/store"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// respondDomainError maps domain errors to HTTP statuses. A failed mutation
// always leaves the cart unchanged, so callers can safely retry.
func respondDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, reconciler.ErrAlreadyInCart):
		respondError(w, http.StatusConflict, "already_in_cart", "item is already in the cart")
	case errors.Is(err, catalog.ErrItemNotFound):
		respondError(w, http.StatusNotFound, "menu_item_not_found", "no such item on the menu")
	case errors.Is(err, store.ErrNotFound):
		respondError(w, http.StatusNotFound, "not_found", "cart item not found")
	case errors.Is(err, store.ErrValidation):
		respondError(w, http.StatusBadRequest, "validation_failed", err.Error())
	case errors.Is(err, store.ErrUnavailable):
		respondError(w, http.StatusServiceUnavailable, "store_unavailable", "cart store is unavailable, try again")
	case errors.Is(err, context.DeadlineExceeded):
		respondError(w, http.StatusGatewayTimeout, "timeout", "operation timed out")
	default:
		slog.Error("unhandled error", "error", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
