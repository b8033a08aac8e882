package cache

import (
	"context"
	"errors"

	"github.com/Ammark2003/Pizzeria-app/internal/domain"
)

// CartCache holds a disposable snapshot of the cart for the read path.
// It is advisory only; the store remains the source of truth.
type CartCache interface {
	Get(ctx context.Context, cartID string) ([]domain.CartLineItem, error)
	Set(ctx context.Context, cartID string, items []domain.CartLineItem) error
	Delete(ctx context.Context, cartID string) error
}

var ErrCacheMiss = errors.New("cache miss")
