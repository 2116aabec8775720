package store

import (
	"context"
	"database/sql"
	"fmt"

	"pos-service/internal/models"
)

// CreateOrder persists an order header and its line items in one
// transaction. Either the whole order becomes visible or nothing does; a
// header without its lines must never be readable.
func (s *Store) CreateOrder(ctx context.Context, order *models.Order) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (id, date, customer_name, customer_address, vendor_name, subtotal, discount, final_total, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		order.ID, order.Date, order.CustomerName, order.CustomerAddress, order.VendorName,
		order.Subtotal, order.Discount, order.FinalTotal, order.Status, order.Notes)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	for i := range order.Items {
		item := &order.Items[i]
		item.OrderID = order.ID
		err = tx.GetContext(ctx, &item.ID, `
			INSERT INTO order_items (order_id, product_id, product_name, price, quantity)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id`,
			item.OrderID, item.ProductID, item.ProductName, item.Price, item.Quantity)
		if err != nil {
			return fmt.Errorf("failed to insert order item: %w", err)
		}
	}

	return tx.Commit()
}

// GetOrders retrieves the full order history, newest first, items attached
func (s *Store) GetOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.SelectContext(ctx, &orders, "SELECT * FROM orders ORDER BY date DESC")
	if err != nil {
		return nil, err
	}
	return s.attachItems(ctx, orders)
}

// GetPendingOrders retrieves orders not yet delivered, newest first
func (s *Store) GetPendingOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.SelectContext(ctx, &orders,
		"SELECT * FROM orders WHERE status <> $1 ORDER BY date DESC", models.StatusDelivered)
	if err != nil {
		return nil, err
	}
	return s.attachItems(ctx, orders)
}

// GetOrderByID retrieves a single order with its items
func (s *Store) GetOrderByID(ctx context.Context, orderID string) (*models.Order, error) {
	var order models.Order
	err := s.db.GetContext(ctx, &order, "SELECT * FROM orders WHERE id = $1", orderID)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("order not found: %s", orderID)
	}
	if err != nil {
		return nil, err
	}

	err = s.db.SelectContext(ctx, &order.Items,
		"SELECT * FROM order_items WHERE order_id = $1 ORDER BY id", orderID)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *Store) attachItems(ctx context.Context, orders []models.Order) ([]models.Order, error) {
	for i := range orders {
		err := s.db.SelectContext(ctx, &orders[i].Items,
			"SELECT * FROM order_items WHERE order_id = $1 ORDER BY id", orders[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return orders, nil
}

// UpdateOrderStatus updates an order's status and optionally overwrites the
// notes and delivery address
func (s *Store) UpdateOrderStatus(ctx context.Context, orderID, status string, notes, address *string) error {
	query := "UPDATE orders SET status = $1"
	args := []interface{}{status}

	if notes != nil {
		args = append(args, *notes)
		query += fmt.Sprintf(", notes = $%d", len(args))
	}
	if address != nil {
		args = append(args, *address)
		query += fmt.Sprintf(", customer_address = $%d", len(args))
	}

	args = append(args, orderID)
	query += fmt.Sprintf(" WHERE id = $%d", len(args))

	_, err := s.db.ExecContext(ctx, query, args...)
	return err
}

// DeleteOrder removes an order header and its items as a single unit
func (s *Store) DeleteOrder(ctx context.Context, orderID string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM order_items WHERE order_id = $1", orderID); err != nil {
		return fmt.Errorf("failed to delete order items: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM orders WHERE id = $1", orderID); err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}

	return tx.Commit()
}
