package repo

import (
	"context"
	"fmt"

	"pos-service/internal/models"
)

// OfflineRemote stands in for the remote backend when it is unreachable or
// unconfigured at startup. Every call fails with the recorded cause, which
// routes the repositories onto the local store; the process itself keeps
// running.
type OfflineRemote struct {
	cause error
}

// NewOfflineRemote creates an offline remote carrying the startup failure
func NewOfflineRemote(cause error) *OfflineRemote {
	return &OfflineRemote{cause: cause}
}

func (o *OfflineRemote) err() error {
	return fmt.Errorf("remote backend offline: %w", o.cause)
}

func (o *OfflineRemote) GetProducts(context.Context) ([]models.Product, error) {
	return nil, o.err()
}

func (o *OfflineRemote) CreateProduct(context.Context, *models.Product) error { return o.err() }

func (o *OfflineRemote) UpdateProduct(context.Context, *models.Product) error { return o.err() }

func (o *OfflineRemote) UpdateProductStock(context.Context, int64, int) error { return o.err() }

func (o *OfflineRemote) DeleteProduct(context.Context, int64) error { return o.err() }

func (o *OfflineRemote) GetCategories(context.Context) ([]models.Category, error) {
	return nil, o.err()
}

func (o *OfflineRemote) CreateCategory(context.Context, *models.Category) error { return o.err() }

func (o *OfflineRemote) UpdateCategory(context.Context, *models.Category) error { return o.err() }

func (o *OfflineRemote) DeleteCategory(context.Context, int64) error { return o.err() }

func (o *OfflineRemote) GetCustomers(context.Context) ([]models.Customer, error) {
	return nil, o.err()
}

func (o *OfflineRemote) CreateCustomer(context.Context, *models.Customer) error { return o.err() }

func (o *OfflineRemote) UpdateCustomer(context.Context, *models.Customer) error { return o.err() }

func (o *OfflineRemote) DeleteCustomer(context.Context, string) error { return o.err() }

func (o *OfflineRemote) CreateOrder(context.Context, *models.Order) error { return o.err() }

func (o *OfflineRemote) GetOrders(context.Context) ([]models.Order, error) { return nil, o.err() }

func (o *OfflineRemote) GetPendingOrders(context.Context) ([]models.Order, error) {
	return nil, o.err()
}

func (o *OfflineRemote) GetOrderByID(context.Context, string) (*models.Order, error) {
	return nil, o.err()
}

func (o *OfflineRemote) UpdateOrderStatus(context.Context, string, string, *string, *string) error {
	return o.err()
}

func (o *OfflineRemote) DeleteOrder(context.Context, string) error { return o.err() }
