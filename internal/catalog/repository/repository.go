package repository

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/Abu-Issam/buyshea-connect/internal/domain"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

var ErrProductNotFound = errors.New("product not found")

type Repository struct {
	db *sql.DB
}

type RepoInterface interface {
	GetAllProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, id string) (domain.Product, error)
	Close() error
	RunMigrations() error
}

func NewRepository(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// every connection to ":memory:" is its own database
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) RunMigrations() error {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("could not open embedded migrations: %w", err)
	}

	driver, err := sqlite.WithInstance(r.db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

func (r *Repository) GetAllProducts(ctx context.Context) ([]domain.Product, error) {
	query := `
		SELECT id, name, description, price, category, in_stock, rating, reviews,
		       is_new, is_featured, weight, dimensions
		FROM products
		ORDER BY position
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	index := make(map[string]int)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		index[p.ID] = len(products)
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	err = r.eachChild(ctx, `SELECT product_id, url FROM product_images ORDER BY product_id, position`, nil,
		func(id, value string) {
			if i, ok := index[id]; ok {
				products[i].Images = append(products[i].Images, value)
			}
		})
	if err != nil {
		return nil, err
	}

	err = r.eachChild(ctx, `SELECT product_id, feature FROM product_features ORDER BY product_id, position`, nil,
		func(id, value string) {
			if i, ok := index[id]; ok {
				products[i].Features = append(products[i].Features, value)
			}
		})
	if err != nil {
		return nil, err
	}

	return products, nil
}

func (r *Repository) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	query := `
		SELECT id, name, description, price, category, in_stock, rating, reviews,
		       is_new, is_featured, weight, dimensions
		FROM products
		WHERE id = ?
	`

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, ErrProductNotFound
	}
	if err != nil {
		return domain.Product{}, err
	}

	err = r.eachChild(ctx, `SELECT product_id, url FROM product_images WHERE product_id = ? ORDER BY position`,
		[]any{id}, func(_, value string) { p.Images = append(p.Images, value) })
	if err != nil {
		return domain.Product{}, err
	}

	err = r.eachChild(ctx, `SELECT product_id, feature FROM product_features WHERE product_id = ? ORDER BY position`,
		[]any{id}, func(_, value string) { p.Features = append(p.Features, value) })
	if err != nil {
		return domain.Product{}, err
	}

	return p, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}

// Load opens dbPath, applies pending migrations and returns every product.
func Load(ctx context.Context, dbPath string) ([]domain.Product, error) {
	repo, err := NewRepository(dbPath)
	if err != nil {
		return nil, err
	}
	defer repo.Close()

	if err := repo.RunMigrations(); err != nil {
		return nil, err
	}
	return repo.GetAllProducts(ctx)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProduct(s scanner) (domain.Product, error) {
	var (
		p        domain.Product
		category string
	)
	err := s.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Price,
		&category,
		&p.InStock,
		&p.Rating,
		&p.Reviews,
		&p.IsNew,
		&p.IsFeatured,
		&p.Weight,
		&p.Dimensions,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return p, err
	}
	if err != nil {
		return p, fmt.Errorf("failed to scan product: %w", err)
	}
	p.Category = domain.Category(category)
	return p, nil
}

func (r *Repository) eachChild(ctx context.Context, query string, args []any, fn func(id, value string)) error {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to query product details: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, value string
		if err := rows.Scan(&id, &value); err != nil {
			return fmt.Errorf("failed to scan product detail: %w", err)
		}
		fn(id, value)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("row iteration error: %w", err)
	}
	return nil
}
