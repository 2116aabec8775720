package store

import (
	"context"

	"pos-service/internal/models"
)

// GetCustomers retrieves all customers ordered by name
func (s *Store) GetCustomers(ctx context.Context) ([]models.Customer, error) {
	var customers []models.Customer
	err := s.db.SelectContext(ctx, &customers, "SELECT * FROM customers ORDER BY name")
	return customers, err
}

// CreateCustomer inserts a customer. The id is assigned by the caller so the
// same id can be reused on the fallback path.
func (s *Store) CreateCustomer(ctx context.Context, customer *models.Customer) error {
	return s.db.GetContext(ctx, &customer.CreatedAt, `
		INSERT INTO customers (id, name, address)
		VALUES ($1, $2, $3)
		RETURNING created_at`,
		customer.ID, customer.Name, customer.Address)
}

// UpdateCustomer overwrites a customer's name and address
func (s *Store) UpdateCustomer(ctx context.Context, customer *models.Customer) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE customers SET name = $1, address = $2 WHERE id = $3",
		customer.Name, customer.Address, customer.ID)
	return err
}

// DeleteCustomer deletes a customer. Orders keep their name/address snapshot
// so history is unaffected.
func (s *Store) DeleteCustomer(ctx context.Context, customerID string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM customers WHERE id = $1", customerID)
	return err
}
