// Package catalog supplies the read-only menu. Items are reference data;
// nothing in the cart path ever writes here.
package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Ammark2003/Pizzeria-app/internal/domain"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "modernc.org/sqlite"
)

var ErrItemNotFound = errors.New("menu item not found")

type Repository struct {
	db *sql.DB
}

// Provider is the catalog contract the rest of the system consumes.
type Provider interface {
	GetAll(ctx context.Context) ([]domain.CatalogItem, error)
	GetByName(ctx context.Context, name string) (domain.CatalogItem, error)
}

func NewRepository(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) RunMigrations(migrationsPath string) error {
	driver, err := sqlite.WithInstance(r.db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", migrationsPath),
		"sqlite",
		driver,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

func (r *Repository) GetAll(ctx context.Context) ([]domain.CatalogItem, error) {
	query := `
		SELECT name, price, type, image, description, ingredients, toppings
		FROM pizzas
		ORDER BY name
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query menu: %w", err)
	}
	defer rows.Close()

	var items []domain.CatalogItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return items, nil
}

func (r *Repository) GetByName(ctx context.Context, name string) (domain.CatalogItem, error) {
	query := `
		SELECT name, price, type, image, description, ingredients, toppings
		FROM pizzas
		WHERE name = $1
	`

	rows, err := r.db.QueryContext(ctx, query, name)
	if err != nil {
		return domain.CatalogItem{}, fmt.Errorf("failed to query menu: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return domain.CatalogItem{}, fmt.Errorf("row iteration error: %w", err)
		}
		return domain.CatalogItem{}, fmt.Errorf("%w: %q", ErrItemNotFound, name)
	}

	return scanItem(rows)
}

func (r *Repository) Close() error {
	return r.db.Close()
}

func scanItem(rows *sql.Rows) (domain.CatalogItem, error) {
	var (
		item        domain.CatalogItem
		ingredients string
		toppings    string
	)

	err := rows.Scan(
		&item.Name,
		&item.Price,
		&item.Type,
		&item.Image,
		&item.Description,
		&ingredients,
		&toppings,
	)
	if err != nil {
		return domain.CatalogItem{}, fmt.Errorf("failed to scan menu item: %w", err)
	}

	if err := json.Unmarshal([]byte(ingredients), &item.Ingredients); err != nil {
		return domain.CatalogItem{}, fmt.Errorf("failed to decode ingredients: %w", err)
	}
	if err := json.Unmarshal([]byte(toppings), &item.Toppings); err != nil {
		return domain.CatalogItem{}, fmt.Errorf("failed to decode toppings: %w", err)
	}

	return item, nil
}
