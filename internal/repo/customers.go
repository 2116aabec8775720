package repo

import (
	"context"
	"time"

	"pos-service/internal/broker"
	"pos-service/internal/localstore"
	"pos-service/internal/models"
	"pos-service/internal/util"

	"go.uber.org/zap"
)

// RemoteCustomers is the slice of the remote store the customer repository uses
type RemoteCustomers interface {
	GetCustomers(ctx context.Context) ([]models.Customer, error)
	CreateCustomer(ctx context.Context, customer *models.Customer) error
	UpdateCustomer(ctx context.Context, customer *models.Customer) error
	DeleteCustomer(ctx context.Context, customerID string) error
}

// Customers is the dual-store repository for customers
type Customers struct {
	remote   RemoteCustomers
	local    *localstore.Store
	notifier broker.Notifier
	timeout  time.Duration
	logger   *zap.Logger
}

// NewCustomers creates a customer repository
func NewCustomers(remote RemoteCustomers, local *localstore.Store, notifier broker.Notifier, timeout time.Duration) *Customers {
	return &Customers{
		remote:   remote,
		local:    local,
		notifier: notifier,
		timeout:  timeout,
		logger:   util.GetLogger(),
	}
}

// Customers returns all customers, remote first with local fallback
func (c *Customers) Customers(ctx context.Context) ([]models.Customer, error) {
	var customers []models.Customer
	err := callRemote(ctx, c.timeout, func(ctx context.Context) error {
		var err error
		customers, err = c.remote.GetCustomers(ctx)
		return err
	})
	if err == nil {
		if saveErr := c.local.Save(localstore.KeyCustomers, customers); saveErr != nil {
			c.logger.Warn("Failed to mirror customers locally", zap.Error(saveErr))
		}
		return customers, nil
	}

	util.RemoteFallbacksTotal.WithLabelValues(models.TableCustomers).Inc()
	c.logger.Warn("Remote customer fetch failed, using local store", zap.Error(err))

	customers = nil
	if loadErr := c.local.Load(localstore.KeyCustomers, &customers); loadErr != nil {
		return nil, loadErr
	}
	return customers, nil
}

// Add creates a customer. The id is assigned by the caller so the identical
// record lands in whichever store takes the write.
func (c *Customers) Add(ctx context.Context, customer *models.Customer) error {
	if customer.CreatedAt.IsZero() {
		customer.CreatedAt = time.Now()
	}

	err := callRemote(ctx, c.timeout, func(ctx context.Context) error {
		return c.remote.CreateCustomer(ctx, customer)
	})
	if err != nil {
		util.RemoteFallbacksTotal.WithLabelValues(models.TableCustomers).Inc()
		c.logger.Warn("Remote customer insert failed, adding locally", zap.Error(err))
	} else {
		notify(ctx, c.notifier, c.logger, models.TableCustomers)
	}

	return c.mirror(*customer)
}

// Update overwrites a customer in both stores
func (c *Customers) Update(ctx context.Context, customer *models.Customer) error {
	err := callRemote(ctx, c.timeout, func(ctx context.Context) error {
		return c.remote.UpdateCustomer(ctx, customer)
	})
	if err != nil {
		util.RemoteFallbacksTotal.WithLabelValues(models.TableCustomers).Inc()
		c.logger.Warn("Remote customer update failed, updating locally", zap.Error(err))
	} else {
		notify(ctx, c.notifier, c.logger, models.TableCustomers)
	}

	return c.mirror(*customer)
}

// Delete removes a customer from both stores
func (c *Customers) Delete(ctx context.Context, customerID string) error {
	err := callRemote(ctx, c.timeout, func(ctx context.Context) error {
		return c.remote.DeleteCustomer(ctx, customerID)
	})
	if err != nil {
		util.RemoteFallbacksTotal.WithLabelValues(models.TableCustomers).Inc()
		c.logger.Warn("Remote customer delete failed, deleting locally", zap.Error(err))
	} else {
		notify(ctx, c.notifier, c.logger, models.TableCustomers)
	}

	var customers []models.Customer
	if loadErr := c.local.Load(localstore.KeyCustomers, &customers); loadErr != nil {
		return loadErr
	}
	kept := customers[:0]
	for _, cust := range customers {
		if cust.ID != customerID {
			kept = append(kept, cust)
		}
	}
	return c.local.Save(localstore.KeyCustomers, kept)
}

func (c *Customers) mirror(customer models.Customer) error {
	var customers []models.Customer
	if err := c.local.Load(localstore.KeyCustomers, &customers); err != nil {
		return err
	}
	for i := range customers {
		if customers[i].ID == customer.ID {
			customers[i] = customer
			return c.local.Save(localstore.KeyCustomers, customers)
		}
	}
	return c.local.Save(localstore.KeyCustomers, append(customers, customer))
}
