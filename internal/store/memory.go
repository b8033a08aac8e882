package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Ammark2003/Pizzeria-app/internal/domain"
	"github.com/google/uuid"
)

// MemoryStore is an in-process CartStore with the same validation and
// uniqueness semantics as the Mongo store. Used for local runs and tests.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]domain.CartLineItem
	order []string // insertion-ordered ids
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		items: make(map[string]domain.CartLineItem),
	}
}

func (s *MemoryStore) List(_ context.Context) ([]domain.CartLineItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]domain.CartLineItem, 0, len(s.order))
	for _, id := range s.order {
		items = append(items, s.items[id])
	}
	return items, nil
}

func (s *MemoryStore) Create(_ context.Context, item domain.CartLineItem) (domain.CartLineItem, error) {
	if err := validate(item); err != nil {
		return domain.CartLineItem{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.items {
		if existing.Name == item.Name {
			return domain.CartLineItem{}, fmt.Errorf("%w: %q", ErrDuplicateName, item.Name)
		}
	}

	now := time.Now().UTC()
	item.ID = uuid.NewString()
	item.CreatedAt = now
	item.UpdatedAt = now
	if item.Toppings == nil {
		item.Toppings = []string{}
	}

	s.items[item.ID] = item
	s.order = append(s.order, item.ID)
	return item, nil
}

func (s *MemoryStore) UpdateQuantity(_ context.Context, id string, quantity int) (domain.CartLineItem, error) {
	if quantity < 1 {
		return domain.CartLineItem{}, fmt.Errorf("%w: quantity must be at least 1", ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[id]
	if !ok {
		return domain.CartLineItem{}, ErrNotFound
	}

	item.Quantity = quantity
	item.UpdatedAt = time.Now().UTC()
	s.items[id] = item
	return item, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return ErrNotFound
	}

	delete(s.items, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}
