package domain

import "time"

type ItemType string

const (
	TypeVeg    ItemType = "veg"
	TypeNonVeg ItemType = "nonveg"
)

// Valid reports whether t is one of the known menu item types.
func (t ItemType) Valid() bool {
	return t == TypeVeg || t == TypeNonVeg
}

// CatalogItem is an immutable menu record. The catalog guarantees names are
// unique, so the name doubles as the item's identity key.
type CatalogItem struct {
	Name        string   `json:"name"`
	Price       int64    `json:"price"`
	Type        ItemType `json:"type"`
	Image       string   `json:"image"`
	Description string   `json:"description"`
	Ingredients []string `json:"ingredients"`
	Toppings    []string `json:"toppings"`
}

// CartLineItem is a persisted, quantity-bearing record of one catalog item
// added to the cart. All catalog fields are snapshots taken at add time and
// are never re-synced against the catalog.
type CartLineItem struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	Name      string    `bson:"name" json:"name"`
	Price     int64     `bson:"price" json:"price"`
	Quantity  int       `bson:"quantity" json:"quantity"`
	Type      ItemType  `bson:"type" json:"type"`
	Image     string    `bson:"image" json:"image"`
	Toppings  []string  `bson:"toppings" json:"toppings"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
