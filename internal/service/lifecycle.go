package service

import (
	"context"
	"fmt"

	"pos-service/internal/models"
	"pos-service/internal/util"

	"go.uber.org/zap"
)

// OrderTracker is what the lifecycle service needs from the order repository
type OrderTracker interface {
	Get(ctx context.Context, orderID string) (*models.Order, error)
	SetStatus(ctx context.Context, orderID, status string, notes, address *string) error
	Delete(ctx context.Context, orderID string) error
}

// LifecycleService moves orders through pending → preparing → ready →
// delivered. Transitions may skip forward but never move backward;
// delivered is terminal and leaves the in-progress working set.
type LifecycleService struct {
	orders OrderTracker
	logger *zap.Logger
}

// NewLifecycleService creates a lifecycle service
func NewLifecycleService(orders OrderTracker) *LifecycleService {
	return &LifecycleService{
		orders: orders,
		logger: util.GetLogger(),
	}
}

// SetStatus applies a transition, optionally overwriting notes and delivery
// address
func (l *LifecycleService) SetStatus(ctx context.Context, orderID, status string, notes, address *string) error {
	ctx, span := util.StartSpan(ctx, "LifecycleService.SetStatus")
	defer span.End()

	if !models.ValidStatus(status) {
		return fmt.Errorf("%w: %q", ErrUnknownStatus, status)
	}

	order, err := l.orders.Get(ctx, orderID)
	if err != nil {
		return err
	}
	if !models.CanTransition(order.Status, status) {
		return fmt.Errorf("%w: %s -> %s", ErrBackwardTransition, order.Status, status)
	}

	if err := l.orders.SetStatus(ctx, orderID, status, notes, address); err != nil {
		return err
	}

	if status == models.StatusDelivered {
		util.OrdersDeliveredTotal.Inc()
	}
	l.logger.Info("Order status updated",
		zap.String("order_id", orderID),
		zap.String("from", order.Status),
		zap.String("to", status))
	return nil
}

// Delete removes an order irreversibly, header and items as one unit,
// regardless of its status
func (l *LifecycleService) Delete(ctx context.Context, orderID string) error {
	ctx, span := util.StartSpan(ctx, "LifecycleService.Delete")
	defer span.End()

	if err := l.orders.Delete(ctx, orderID); err != nil {
		return err
	}
	l.logger.Info("Order deleted", zap.String("order_id", orderID))
	return nil
}
