package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Ammark2003/Pizzeria-app/internal/domain"
	"github.com/sony/gobreaker/v2"
)

// BreakerStore decorates a CartStore with a circuit breaker. Once the
// backing store fails repeatedly the breaker opens and calls fail fast
// with ErrUnavailable instead of piling up on a dead connection.
type BreakerStore struct {
	inner CartStore
	cb    *gobreaker.CircuitBreaker[any]
}

func NewBreakerStore(inner CartStore, logger *slog.Logger) *BreakerStore {
	settings := gobreaker.Settings{
		Name: "cart-store",
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				"breaker", name, "from", from.String(), "to", to.String())
		},
		// Domain outcomes are not store failures and must not trip the breaker.
		IsSuccessful: func(err error) bool {
			return err == nil ||
				errors.Is(err, ErrNotFound) ||
				errors.Is(err, ErrValidation) ||
				errors.Is(err, ErrDuplicateName)
		},
	}

	return &BreakerStore{
		inner: inner,
		cb:    gobreaker.NewCircuitBreaker[any](settings),
	}
}

func (b *BreakerStore) List(ctx context.Context) ([]domain.CartLineItem, error) {
	v, err := b.cb.Execute(func() (any, error) {
		return b.inner.List(ctx)
	})
	if err != nil {
		return nil, b.mapErr(err)
	}
	return v.([]domain.CartLineItem), nil
}

func (b *BreakerStore) Create(ctx context.Context, item domain.CartLineItem) (domain.CartLineItem, error) {
	v, err := b.cb.Execute(func() (any, error) {
		return b.inner.Create(ctx, item)
	})
	if err != nil {
		return domain.CartLineItem{}, b.mapErr(err)
	}
	return v.(domain.CartLineItem), nil
}

func (b *BreakerStore) UpdateQuantity(ctx context.Context, id string, quantity int) (domain.CartLineItem, error) {
	v, err := b.cb.Execute(func() (any, error) {
		return b.inner.UpdateQuantity(ctx, id, quantity)
	})
	if err != nil {
		return domain.CartLineItem{}, b.mapErr(err)
	}
	return v.(domain.CartLineItem), nil
}

func (b *BreakerStore) Delete(ctx context.Context, id string) error {
	_, err := b.cb.Execute(func() (any, error) {
		return nil, b.inner.Delete(ctx, id)
	})
	if err != nil {
		return b.mapErr(err)
	}
	return nil
}

func (b *BreakerStore) mapErr(err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return err
}
