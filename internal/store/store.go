package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/Ammark2003/Pizzeria-app/internal/domain"
)

var (
	ErrNotFound      = errors.New("cart item not found")
	ErrValidation    = errors.New("invalid cart item")
	ErrDuplicateName = errors.New("cart item with this name already exists")
	ErrUnavailable   = errors.New("cart store unavailable")
)

// CartStore is the authoritative, persisted cart collection.
// Consumers define this interface, not the MongoDB implementation.
type CartStore interface {
	List(ctx context.Context) ([]domain.CartLineItem, error)
	Create(ctx context.Context, item domain.CartLineItem) (domain.CartLineItem, error)
	UpdateQuantity(ctx context.Context, id string, quantity int) (domain.CartLineItem, error)
	Delete(ctx context.Context, id string) error
}

func validate(item domain.CartLineItem) error {
	if item.Name == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if item.Price < 0 {
		return fmt.Errorf("%w: price must not be negative", ErrValidation)
	}
	if item.Quantity < 1 {
		return fmt.Errorf("%w: quantity must be at least 1", ErrValidation)
	}
	if !item.Type.Valid() {
		return fmt.Errorf("%w: type must be veg or nonveg", ErrValidation)
	}
	if item.Image == "" {
		return fmt.Errorf("%w: image is required", ErrValidation)
	}
	return nil
}
