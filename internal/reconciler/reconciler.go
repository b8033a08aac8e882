// Package reconciler keeps the client-visible cart consistent with the
// authoritative cart store. It translates user intents (add, remove, change
// quantity) into validated store operations, maintains the one-line-item-
// per-name invariant, and keeps an advisory name→id identity index current.
package reconciler

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/Ammark2003/Pizzeria-app/internal/cache"
	"github.com/Ammark2003/Pizzeria-app/internal/domain"
	"github.com/Ammark2003/Pizzeria-app/internal/store"
	"golang.org/x/sync/singleflight"
)

// ErrAlreadyInCart rejects an add intent for a name that already has a
// line item. Re-adding is never merged into the existing line; quantity
// changes are a separate intent.
var ErrAlreadyInCart = errors.New("item already in cart")

// Reconciler serializes mutating intents against the cart store for one
// cart session. Mutations hold mu for the full store call plus the resync
// that follows, so at most one mutating intent is in flight at a time and
// the identity index can never drift ahead of the store. The store's
// unique name index backstops the invariant across processes.
//
// The identity index is advisory: it is rebuilt from List after every
// mutation and can be discarded at any time.
type Reconciler struct {
	store  store.CartStore
	cache  cache.CartCache
	cartID string
	logger *slog.Logger

	mu    sync.Mutex // serializes mutating intents
	idxMu sync.RWMutex
	index map[string]string // name -> line-item id

	sfg singleflight.Group // collapses concurrent snapshot reads
}

func New(st store.CartStore, c cache.CartCache, cartID string, logger *slog.Logger) *Reconciler {
	return &Reconciler{
		store:  st,
		cache:  c,
		cartID: cartID,
		logger: logger,
		index:  make(map[string]string),
	}
}

// Add creates a quantity-1 line item snapshotting the given catalog item.
// The precondition (name not already present) is checked against the
// last-synchronized index; the store's unique index catches the rest.
func (r *Reconciler) Add(ctx context.Context, item domain.CatalogItem) (domain.CartLineItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.lookup(item.Name); ok {
		return domain.CartLineItem{}, ErrAlreadyInCart
	}

	line := domain.CartLineItem{
		Name:     item.Name,
		Price:    item.Price,
		Quantity: 1,
		Type:     item.Type,
		Image:    item.Image,
		Toppings: slices.Clone(item.Toppings),
	}

	created, err := r.store.Create(ctx, line)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateName) {
			// The store saw a line this instance's index did not.
			r.logger.Warn("add rejected by store uniqueness", "name", item.Name)
			r.resyncLocked(ctx)
			return domain.CartLineItem{}, ErrAlreadyInCart
		}
		// No partial mutation: the index is untouched on failure and the
		// resync self-heals anything the failed call may have left behind.
		r.resyncLocked(ctx)
		return domain.CartLineItem{}, err
	}

	// Index entry is recorded only after the store confirms creation.
	r.setIndex(created.Name, created.ID)
	r.invalidateCache()
	r.resyncLocked(ctx)

	return created, nil
}

// Remove deletes the line item for the given catalog name. It is idempotent:
// removing an absent item is a no-op success, and a NotFound from the store
// is swallowed. The index entry is dropped regardless of the store outcome.
func (r *Reconciler) Remove(ctx context.Context, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.lookup(name)
	if !ok {
		// Index may be stale; re-resolve through the authoritative store.
		items, err := r.store.List(ctx)
		if err != nil {
			return err
		}
		for _, item := range items {
			if item.Name == name {
				id, ok = item.ID, true
				break
			}
		}
	}

	r.deleteIndex(name)

	if !ok {
		return nil
	}

	if err := r.store.Delete(ctx, id); err != nil && !errors.Is(err, store.ErrNotFound) {
		r.resyncLocked(ctx)
		return err
	}

	r.invalidateCache()
	r.resyncLocked(ctx)
	return nil
}

// ChangeQuantity applies a signed delta to the line item's quantity.
// current is the quantity the caller believes is stored. A result below 1
// is a rejected no-op, not an error and not a removal. Returns the
// authoritative post-operation snapshot.
func (r *Reconciler) ChangeQuantity(ctx context.Context, id string, current, delta int) ([]domain.CartLineItem, error) {
	next := current + delta
	if next < 1 {
		return r.Snapshot(ctx)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.store.UpdateQuantity(ctx, id, next); err != nil {
		r.resyncLocked(ctx)
		return nil, err
	}

	r.invalidateCache()
	return r.resyncLocked(ctx)
}

// Resync fetches the authoritative cart and rebuilds the identity index
// from scratch, discarding any speculative entries.
func (r *Reconciler) Resync(ctx context.Context) ([]domain.CartLineItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resyncLocked(ctx)
}

// Snapshot is the read path: cache first, then the store behind a
// singleflight so a burst of readers triggers one List. The cache is
// filled asynchronously and failures only log.
func (r *Reconciler) Snapshot(ctx context.Context) ([]domain.CartLineItem, error) {
	v, err, _ := r.sfg.Do(r.cartID, func() (interface{}, error) {
		items, err := r.cache.Get(ctx, r.cartID)
		if err == nil {
			return items, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			r.logger.Warn("cart cache get failed", "error", err)
		}

		items, err = r.store.List(ctx)
		if err != nil {
			return nil, err
		}

		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			if err := r.cache.Set(ctx, r.cartID, items); err != nil {
				r.logger.Warn("cart cache set failed", "error", err)
			}
		}()

		return items, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.CartLineItem), nil
}

// Index returns a copy of the current name→id lookup for the presentation
// adapter. Advisory only.
func (r *Reconciler) Index() map[string]string {
	r.idxMu.RLock()
	defer r.idxMu.RUnlock()

	out := make(map[string]string, len(r.index))
	for name, id := range r.index {
		out[name] = id
	}
	return out
}

// resyncLocked rebuilds the index by a full scan of the fetched cart.
// Duplicate names should be impossible given the store's unique index;
// if one shows up anyway the last writer wins and we log rather than crash.
// Callers must hold mu.
func (r *Reconciler) resyncLocked(ctx context.Context) ([]domain.CartLineItem, error) {
	items, err := r.store.List(ctx)
	if err != nil {
		r.logger.Warn("resync failed, keeping previous index", "error", err)
		return nil, err
	}

	fresh := make(map[string]string, len(items))
	for _, item := range items {
		if _, dup := fresh[item.Name]; dup {
			r.logger.Warn("duplicate cart line for name, last writer wins",
				"name", item.Name, "id", item.ID)
		}
		fresh[item.Name] = item.ID
	}

	r.idxMu.Lock()
	r.index = fresh
	r.idxMu.Unlock()

	return items, nil
}

func (r *Reconciler) lookup(name string) (string, bool) {
	r.idxMu.RLock()
	defer r.idxMu.RUnlock()
	id, ok := r.index[name]
	return id, ok
}

func (r *Reconciler) setIndex(name, id string) {
	r.idxMu.Lock()
	defer r.idxMu.Unlock()
	r.index[name] = id
}

func (r *Reconciler) deleteIndex(name string) {
	r.idxMu.Lock()
	defer r.idxMu.Unlock()
	delete(r.index, name)
}

func (r *Reconciler) invalidateCache() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := r.cache.Delete(ctx, r.cartID); err != nil {
		r.logger.Warn("cart cache invalidate failed", "error", err)
	}
}
