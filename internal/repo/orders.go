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

// RemoteOrders is the slice of the remote store the order repository uses
type RemoteOrders interface {
	CreateOrder(ctx context.Context, order *models.Order) error
	GetOrders(ctx context.Context) ([]models.Order, error)
	GetPendingOrders(ctx context.Context) ([]models.Order, error)
	GetOrderByID(ctx context.Context, orderID string) (*models.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID, status string, notes, address *string) error
	DeleteOrder(ctx context.Context, orderID string) error
}

// Orders is the dual-store repository for orders. The local side keeps two
// namespaces: the full history and the pending (not yet delivered) working
// set.
type Orders struct {
	remote   RemoteOrders
	local    *localstore.Store
	notifier broker.Notifier
	timeout  time.Duration
	logger   *zap.Logger
}

// NewOrders creates an order repository
func NewOrders(remote RemoteOrders, local *localstore.Store, notifier broker.Notifier, timeout time.Duration) *Orders {
	return &Orders{
		remote:   remote,
		local:    local,
		notifier: notifier,
		timeout:  timeout,
		logger:   util.GetLogger(),
	}
}

// Save persists a new order. The remote write carries header and items as
// one unit; if it fails the identical record (same id) goes to the local
// store instead. Returns whether the fallback path was taken. An error means
// neither store took the order.
func (o *Orders) Save(ctx context.Context, order *models.Order) (bool, error) {
	err := callRemote(ctx, o.timeout, func(ctx context.Context) error {
		return o.remote.CreateOrder(ctx, order)
	})
	if err == nil {
		if mirrorErr := o.mirror(*order); mirrorErr != nil {
			o.logger.Warn("Failed to mirror order locally", zap.Error(mirrorErr))
		}
		notify(ctx, o.notifier, o.logger, models.TableOrders)
		return false, nil
	}

	util.RemoteFallbacksTotal.WithLabelValues(models.TableOrders).Inc()
	o.logger.Warn("Remote order insert failed, saving to local store",
		zap.String("order_id", order.ID),
		zap.Error(err))

	if localErr := o.mirror(*order); localErr != nil {
		return true, localErr
	}
	return true, nil
}

// Orders returns the full order history, remote first with local fallback
func (o *Orders) Orders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := callRemote(ctx, o.timeout, func(ctx context.Context) error {
		var err error
		orders, err = o.remote.GetOrders(ctx)
		return err
	})
	if err == nil {
		if saveErr := o.local.Save(localstore.KeyOrderHistory, orders); saveErr != nil {
			o.logger.Warn("Failed to mirror order history locally", zap.Error(saveErr))
		}
		return orders, nil
	}

	util.RemoteFallbacksTotal.WithLabelValues(models.TableOrders).Inc()
	o.logger.Warn("Remote order fetch failed, using local store", zap.Error(err))

	orders = nil
	if loadErr := o.local.Load(localstore.KeyOrderHistory, &orders); loadErr != nil {
		return nil, loadErr
	}
	return orders, nil
}

// Pending returns orders not yet delivered
func (o *Orders) Pending(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := callRemote(ctx, o.timeout, func(ctx context.Context) error {
		var err error
		orders, err = o.remote.GetPendingOrders(ctx)
		return err
	})
	if err == nil {
		if saveErr := o.local.Save(localstore.KeyPendingOrders, orders); saveErr != nil {
			o.logger.Warn("Failed to mirror pending orders locally", zap.Error(saveErr))
		}
		return orders, nil
	}

	util.RemoteFallbacksTotal.WithLabelValues(models.TableOrders).Inc()
	o.logger.Warn("Remote pending order fetch failed, using local store", zap.Error(err))

	orders = nil
	if loadErr := o.local.Load(localstore.KeyPendingOrders, &orders); loadErr != nil {
		return nil, loadErr
	}
	return orders, nil
}

// Get returns a single order, remote first, falling back to the local history
func (o *Orders) Get(ctx context.Context, orderID string) (*models.Order, error) {
	var order *models.Order
	err := callRemote(ctx, o.timeout, func(ctx context.Context) error {
		var err error
		order, err = o.remote.GetOrderByID(ctx, orderID)
		return err
	})
	if err == nil {
		return order, nil
	}

	var history []models.Order
	if loadErr := o.local.Load(localstore.KeyOrderHistory, &history); loadErr != nil {
		return nil, loadErr
	}
	for i := range history {
		if history[i].ID == orderID {
			return &history[i], nil
		}
	}
	return nil, err
}

// SetStatus applies a status transition, optionally overwriting notes and
// delivery address. The local mirror is always updated so the current
// session stays consistent even when the remote write fails; the divergence
// is not reconciled automatically.
func (o *Orders) SetStatus(ctx context.Context, orderID, status string, notes, address *string) error {
	err := callRemote(ctx, o.timeout, func(ctx context.Context) error {
		return o.remote.UpdateOrderStatus(ctx, orderID, status, notes, address)
	})
	if err != nil {
		util.RemoteFallbacksTotal.WithLabelValues(models.TableOrders).Inc()
		o.logger.Warn("Remote status update failed, applying locally only",
			zap.String("order_id", orderID),
			zap.String("status", status),
			zap.Error(err))
	} else {
		notify(ctx, o.notifier, o.logger, models.TableOrders)
	}

	return o.applyStatusLocally(orderID, status, notes, address)
}

// Delete removes an order (header and items as a single unit) from both stores
func (o *Orders) Delete(ctx context.Context, orderID string) error {
	err := callRemote(ctx, o.timeout, func(ctx context.Context) error {
		return o.remote.DeleteOrder(ctx, orderID)
	})
	if err != nil {
		util.RemoteFallbacksTotal.WithLabelValues(models.TableOrders).Inc()
		o.logger.Warn("Remote order delete failed, deleting locally",
			zap.String("order_id", orderID),
			zap.Error(err))
	} else {
		notify(ctx, o.notifier, o.logger, models.TableOrders)
	}

	var history []models.Order
	if loadErr := o.local.Load(localstore.KeyOrderHistory, &history); loadErr != nil {
		return loadErr
	}
	if saveErr := o.local.Save(localstore.KeyOrderHistory, removeOrder(history, orderID)); saveErr != nil {
		return saveErr
	}

	var pending []models.Order
	if loadErr := o.local.Load(localstore.KeyPendingOrders, &pending); loadErr != nil {
		return loadErr
	}
	return o.local.Save(localstore.KeyPendingOrders, removeOrder(pending, orderID))
}

// mirror upserts an order into the local history (newest first) and, unless
// delivered, into the pending set.
func (o *Orders) mirror(order models.Order) error {
	var history []models.Order
	if err := o.local.Load(localstore.KeyOrderHistory, &history); err != nil {
		return err
	}
	if err := o.local.Save(localstore.KeyOrderHistory, upsertOrder(history, order)); err != nil {
		return err
	}

	if order.Status == models.StatusDelivered {
		return nil
	}

	var pending []models.Order
	if err := o.local.Load(localstore.KeyPendingOrders, &pending); err != nil {
		return err
	}
	return o.local.Save(localstore.KeyPendingOrders, upsertOrder(pending, order))
}

func (o *Orders) applyStatusLocally(orderID, status string, notes, address *string) error {
	apply := func(order *models.Order) {
		order.Status = status
		if notes != nil {
			order.Notes = *notes
		}
		if address != nil {
			order.CustomerAddress = *address
		}
	}

	var history []models.Order
	if err := o.local.Load(localstore.KeyOrderHistory, &history); err != nil {
		return err
	}
	for i := range history {
		if history[i].ID == orderID {
			apply(&history[i])
		}
	}
	if err := o.local.Save(localstore.KeyOrderHistory, history); err != nil {
		return err
	}

	var pending []models.Order
	if err := o.local.Load(localstore.KeyPendingOrders, &pending); err != nil {
		return err
	}
	if status == models.StatusDelivered {
		// delivered leaves the working set but stays in history
		return o.local.Save(localstore.KeyPendingOrders, removeOrder(pending, orderID))
	}
	for i := range pending {
		if pending[i].ID == orderID {
			apply(&pending[i])
		}
	}
	return o.local.Save(localstore.KeyPendingOrders, pending)
}

func upsertOrder(orders []models.Order, order models.Order) []models.Order {
	for i := range orders {
		if orders[i].ID == order.ID {
			orders[i] = order
			return orders
		}
	}
	return append([]models.Order{order}, orders...)
}

func removeOrder(orders []models.Order, orderID string) []models.Order {
	kept := orders[:0]
	for _, o := range orders {
		if o.ID != orderID {
			kept = append(kept, o)
		}
	}
	return kept
}
