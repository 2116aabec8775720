package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"pos-service/internal/models"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Store is the remote backend: a row-oriented Postgres database holding the
// products, categories, customers and orders collections.
type Store struct {
	db *sqlx.DB
}

// NewStore creates a new database store
func NewStore(databaseURL string) (*Store, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// GetProducts retrieves all products ordered by id
func (s *Store) GetProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := s.db.SelectContext(ctx, &products, "SELECT * FROM products ORDER BY id")
	return products, err
}

// GetProductByID retrieves a product by ID
func (s *Store) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	err := s.db.GetContext(ctx, &product, "SELECT * FROM products WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("product not found: %d", id)
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// CreateProduct inserts a product and fills in its assigned id
func (s *Store) CreateProduct(ctx context.Context, product *models.Product) error {
	query := `
		INSERT INTO products (name, price, image, stock, category_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	return s.db.GetContext(ctx, &product.ID, query,
		product.Name, product.Price, product.Image, product.Stock, product.CategoryID)
}

// UpdateProduct overwrites all mutable product fields
func (s *Store) UpdateProduct(ctx context.Context, product *models.Product) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE products SET name = $1, price = $2, image = $3, stock = $4, category_id = $5 WHERE id = $6",
		product.Name, product.Price, product.Image, product.Stock, product.CategoryID, product.ID)
	return err
}

// UpdateProductStock sets a product's stock counter to an absolute value.
// Stock writes are full-counter overwrites, not deltas, so a stale writer
// cannot corrupt the value, only briefly shadow it.
func (s *Store) UpdateProductStock(ctx context.Context, productID int64, newStock int) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE products SET stock = $1 WHERE id = $2", newStock, productID)
	return err
}

// DeleteProduct deletes a product
func (s *Store) DeleteProduct(ctx context.Context, productID int64) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM products WHERE id = $1", productID)
	return err
}

// GetCategories retrieves all categories ordered by id
func (s *Store) GetCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := s.db.SelectContext(ctx, &categories, "SELECT * FROM categories ORDER BY id")
	return categories, err
}

// CreateCategory inserts a category and fills in its assigned id
func (s *Store) CreateCategory(ctx context.Context, category *models.Category) error {
	return s.db.GetContext(ctx, &category.ID,
		"INSERT INTO categories (name) VALUES ($1) RETURNING id", category.Name)
}

// UpdateCategory renames a category
func (s *Store) UpdateCategory(ctx context.Context, category *models.Category) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE categories SET name = $1 WHERE id = $2", category.Name, category.ID)
	return err
}

// DeleteCategory deletes a category
func (s *Store) DeleteCategory(ctx context.Context, categoryID int64) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM categories WHERE id = $1", categoryID)
	return err
}
