package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Ammark2003/Pizzeria-app/internal/catalog"
	"github.com/Ammark2003/Pizzeria-app/internal/domain"
	"github.com/Ammark2003/Pizzeria-app/internal/reconciler"
	"github.com/Ammark2003/Pizzeria-app/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type catalogMock struct {
	items []domain.CatalogItem
	err   error
}

func (c catalogMock) GetAll(context.Context) ([]domain.CatalogItem, error) {
	return c.items, c.err
}

func (c catalogMock) GetByName(_ context.Context, name string) (domain.CatalogItem, error) {
	if c.err != nil {
		return domain.CatalogItem{}, c.err
	}
	for _, item := range c.items {
		if item.Name == name {
			return item, nil
		}
	}
	return domain.CatalogItem{}, fmt.Errorf("%w: %q", catalog.ErrItemNotFound, name)
}

type cartServiceMock struct {
	items []domain.CartLineItem
	index map[string]string

	addErr    error
	removeErr error
	changeErr error
	snapErr   error
}

func (m *cartServiceMock) Snapshot(context.Context) ([]domain.CartLineItem, error) {
	return m.items, m.snapErr
}

func (m *cartServiceMock) Index() map[string]string {
	if m.index == nil {
		return map[string]string{}
	}
	return m.index
}

func (m *cartServiceMock) Add(_ context.Context, item domain.CatalogItem) (domain.CartLineItem, error) {
	if m.addErr != nil {
		return domain.CartLineItem{}, m.addErr
	}
	line := domain.CartLineItem{ID: "new-id", Name: item.Name, Price: item.Price, Quantity: 1, Type: item.Type}
	m.items = append(m.items, line)
	return line, nil
}

func (m *cartServiceMock) Remove(_ context.Context, name string) error {
	return m.removeErr
}

func (m *cartServiceMock) ChangeQuantity(_ context.Context, id string, current, delta int) ([]domain.CartLineItem, error) {
	if m.changeErr != nil {
		return nil, m.changeErr
	}
	return m.items, nil
}

func testMenu() []domain.CatalogItem {
	return []domain.CatalogItem{
		{Name: "Margherita", Price: 200, Type: domain.TypeVeg, Image: "/images/margherita.png"},
		{Name: "Pepperoni", Price: 350, Type: domain.TypeNonVeg, Image: "/images/pepperoni.png"},
	}
}

func newTestServer(cat catalogMock, svc *cartServiceMock) http.Handler {
	menu := NewMenuHandler(cat, 5*time.Second)
	cart := NewCartHandler(cat, svc, 5*time.Second)
	return NewRouter(menu, cart, 30*time.Second)
}

func TestGetMenu(t *testing.T) {
	srv := newTestServer(catalogMock{items: testMenu()}, &cartServiceMock{})

	recorder := httptest.NewRecorder()
	srv.ServeHTTP(recorder, httptest.NewRequest("GET", "/api/v1/menu", nil))

	require.Equal(t, http.StatusOK, recorder.Code)

	var items []domain.CatalogItem
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&items))
	assert.Len(t, items, 2)
}

func TestGetCart_ReturnsViewWithSummary(t *testing.T) {
	svc := &cartServiceMock{
		items: []domain.CartLineItem{
			{ID: "a", Name: "Margherita", Price: 200, Quantity: 2},
			{ID: "b", Name: "Pepperoni", Price: 350, Quantity: 1},
		},
		index: map[string]string{"Margherita": "a", "Pepperoni": "b"},
	}
	srv := newTestServer(catalogMock{items: testMenu()}, svc)

	recorder := httptest.NewRecorder()
	srv.ServeHTTP(recorder, httptest.NewRequest("GET", "/api/v1/cart", nil))

	require.Equal(t, http.StatusOK, recorder.Code)

	var view CartView
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&view))
	assert.Len(t, view.Items, 2)
	assert.Equal(t, "a", view.Index["Margherita"])
	assert.Equal(t, int64(750), view.Summary.Subtotal)
	assert.Equal(t, int64(19), view.Summary.SGST)
	assert.Equal(t, int64(19), view.Summary.CGST)
	assert.Equal(t, int64(788), view.Summary.GrandTotal)
}

func TestGetCart_EmptyCartZeroTotals(t *testing.T) {
	srv := newTestServer(catalogMock{}, &cartServiceMock{})

	recorder := httptest.NewRecorder()
	srv.ServeHTTP(recorder, httptest.NewRequest("GET", "/api/v1/cart", nil))

	require.Equal(t, http.StatusOK, recorder.Code)

	var view CartView
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&view))
	assert.Empty(t, view.Items)
	assert.Equal(t, int64(0), view.Summary.Subtotal)
	assert.Equal(t, int64(0), view.Summary.GrandTotal)
}

func TestAddItem_Success(t *testing.T) {
	svc := &cartServiceMock{}
	srv := newTestServer(catalogMock{items: testMenu()}, svc)

	body, _ := json.Marshal(AddItemRequestDTO{Name: "Margherita"})
	recorder := httptest.NewRecorder()
	srv.ServeHTTP(recorder, httptest.NewRequest("POST", "/api/v1/cart/items", bytes.NewReader(body)))

	require.Equal(t, http.StatusCreated, recorder.Code)

	var view CartView
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&view))
	require.Len(t, view.Items, 1)
	assert.Equal(t, "Margherita", view.Items[0].Name)
}

func TestAddItem_UnknownMenuName(t *testing.T) {
	srv := newTestServer(catalogMock{items: testMenu()}, &cartServiceMock{})

	body, _ := json.Marshal(AddItemRequestDTO{Name: "Calzone"})
	recorder := httptest.NewRecorder()
	srv.ServeHTTP(recorder, httptest.NewRequest("POST", "/api/v1/cart/items", bytes.NewReader(body)))

	require.Equal(t, http.StatusNotFound, recorder.Code)

	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
	assert.Equal(t, "menu_item_not_found", resp.Code)
}

func TestAddItem_AlreadyInCart(t *testing.T) {
	svc := &cartServiceMock{addErr: reconciler.ErrAlreadyInCart}
	srv := newTestServer(catalogMock{items: testMenu()}, svc)

	body, _ := json.Marshal(AddItemRequestDTO{Name: "Margherita"})
	recorder := httptest.NewRecorder()
	srv.ServeHTTP(recorder, httptest.NewRequest("POST", "/api/v1/cart/items", bytes.NewReader(body)))

	require.Equal(t, http.StatusConflict, recorder.Code)

	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
	assert.Equal(t, "already_in_cart", resp.Code)
}

func TestAddItem_StoreUnavailable(t *testing.T) {
	svc := &cartServiceMock{addErr: store.ErrUnavailable}
	srv := newTestServer(catalogMock{items: testMenu()}, svc)

	body, _ := json.Marshal(AddItemRequestDTO{Name: "Margherita"})
	recorder := httptest.NewRecorder()
	srv.ServeHTTP(recorder, httptest.NewRequest("POST", "/api/v1/cart/items", bytes.NewReader(body)))

	assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)
}

func TestAddItem_InvalidBody(t *testing.T) {
	srv := newTestServer(catalogMock{items: testMenu()}, &cartServiceMock{})

	recorder := httptest.NewRecorder()
	srv.ServeHTTP(recorder, httptest.NewRequest("POST", "/api/v1/cart/items", bytes.NewReader([]byte("{"))))

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestRemoveItem_AlwaysSucceedsForAbsentName(t *testing.T) {
	srv := newTestServer(catalogMock{items: testMenu()}, &cartServiceMock{})

	recorder := httptest.NewRecorder()
	srv.ServeHTTP(recorder, httptest.NewRequest("DELETE", "/api/v1/cart/items/Margherita", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestUpdateQuantity_Success(t *testing.T) {
	svc := &cartServiceMock{
		items: []domain.CartLineItem{{ID: "a", Name: "Margherita", Price: 200, Quantity: 3}},
	}
	srv := newTestServer(catalogMock{items: testMenu()}, svc)

	body, _ := json.Marshal(UpdateQuantityRequestDTO{CurrentQuantity: 2, Delta: 1})
	recorder := httptest.NewRecorder()
	srv.ServeHTTP(recorder, httptest.NewRequest("PATCH", "/api/v1/cart/items/a", bytes.NewReader(body)))

	require.Equal(t, http.StatusOK, recorder.Code)

	var view CartView
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&view))
	require.Len(t, view.Items, 1)
	assert.Equal(t, 3, view.Items[0].Quantity)
}

func TestUpdateQuantity_StaleID(t *testing.T) {
	svc := &cartServiceMock{changeErr: store.ErrNotFound}
	srv := newTestServer(catalogMock{items: testMenu()}, svc)

	body, _ := json.Marshal(UpdateQuantityRequestDTO{CurrentQuantity: 2, Delta: 1})
	recorder := httptest.NewRecorder()
	srv.ServeHTTP(recorder, httptest.NewRequest("PATCH", "/api/v1/cart/items/gone", bytes.NewReader(body)))

	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestUpdateQuantity_ZeroDeltaRejected(t *testing.T) {
	srv := newTestServer(catalogMock{items: testMenu()}, &cartServiceMock{})

	body, _ := json.Marshal(UpdateQuantityRequestDTO{CurrentQuantity: 2, Delta: 0})
	recorder := httptest.NewRecorder()
	srv.ServeHTTP(recorder, httptest.NewRequest("PATCH", "/api/v1/cart/items/a", bytes.NewReader(body)))

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestHealth(t *testing.T) {
	srv := newTestServer(catalogMock{}, &cartServiceMock{})

	recorder := httptest.NewRecorder()
	srv.ServeHTTP(recorder, httptest.NewRequest("GET", "/health", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
}
