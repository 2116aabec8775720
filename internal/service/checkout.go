package service

import (
	"context"
	"time"

	"pos-service/internal/models"
	"pos-service/internal/receipt"
	"pos-service/internal/session"
	"pos-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrderSaver persists a new order, reporting whether the local fallback path
// was taken
type OrderSaver interface {
	Save(ctx context.Context, order *models.Order) (bool, error)
}

// CheckoutService turns a session's cart into a persisted order and a
// printable receipt
type CheckoutService struct {
	sessions  *session.Manager
	orders    OrderSaver
	storeName string
	logger    *zap.Logger

	now   func() time.Time
	newID func() string
}

// NewCheckoutService creates a checkout service
func NewCheckoutService(sessions *session.Manager, orders OrderSaver, storeName string) *CheckoutService {
	return &CheckoutService{
		sessions:  sessions,
		orders:    orders,
		storeName: storeName,
		logger:    util.GetLogger(),
		now:       time.Now,
		newID:     func() string { return uuid.New().String() },
	}
}

// Result is what a successful submission hands back to the operator
type Result struct {
	Order    *models.Order `json:"order"`
	Receipt  string        `json:"receipt"`
	FellBack bool          `json:"-"`
}

// Submit validates the session, snapshots the cart into an order, persists
// it (remote with local fallback, same id either way), renders the receipt
// from the persisted snapshot and only then clears the cart. On any error
// the cart is left untouched for retry.
func (s *CheckoutService) Submit(ctx context.Context, sessionID, notes string) (*Result, error) {
	ctx, span := util.StartSpan(ctx, "CheckoutService.Submit")
	defer span.End()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}

	if len(sess.Lines) == 0 {
		util.OrdersRejectedTotal.WithLabelValues("empty_cart").Inc()
		return nil, ErrEmptyCart
	}
	if sess.CustomerName == "" {
		util.OrdersRejectedTotal.WithLabelValues("missing_customer").Inc()
		return nil, ErrCustomerRequired
	}
	if sess.Discount < 0 || sess.Discount > 100 {
		util.OrdersRejectedTotal.WithLabelValues("discount_range").Inc()
		return nil, ErrDiscountRange
	}

	subtotal := Subtotal(sess.Lines)
	order := &models.Order{
		ID:              s.newID(),
		Date:            s.now(),
		CustomerName:    sess.CustomerName,
		CustomerAddress: sess.CustomerAddress,
		VendorName:      sess.VendorName,
		Subtotal:        subtotal,
		Discount:        sess.Discount,
		FinalTotal:      FinalTotal(subtotal, sess.Discount),
		Status:          models.StatusPending,
		Notes:           notes,
		Items:           snapshotLines(sess.Lines),
	}

	fellBack, err := s.orders.Save(ctx, order)
	if err != nil {
		return nil, err
	}

	util.OrdersCreatedTotal.Inc()
	if fellBack {
		util.OrdersFallbackTotal.Inc()
	}
	s.logger.Info("Order created",
		zap.String("order_id", order.ID),
		zap.Int64("final_total", order.FinalTotal),
		zap.Bool("fallback", fellBack))

	rendered := receipt.Render(s.storeName, order)

	// the submitted lines are spent, not returned to the pool
	if _, err := s.sessions.ClearCart(sessionID); err != nil {
		s.logger.Error("Failed to clear cart after checkout",
			zap.String("session_id", sessionID),
			zap.Error(err))
	}

	return &Result{Order: order, Receipt: rendered, FellBack: fellBack}, nil
}

// Subtotal sums price times quantity over the cart
func Subtotal(lines []models.CartLine) int64 {
	var total int64
	for _, line := range lines {
		total += line.Price * int64(line.Quantity)
	}
	return total
}

// FinalTotal applies a percentage discount to a subtotal, rounding half up
// to the whole currency unit
func FinalTotal(subtotal int64, discount int) int64 {
	return (subtotal*int64(100-discount) + 50) / 100
}

// snapshotLines deep-copies cart lines into order items so later product
// edits never reach past orders
func snapshotLines(lines []models.CartLine) []models.OrderItem {
	items := make([]models.OrderItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, models.OrderItem{
			ProductID:   line.ProductID,
			ProductName: line.Name,
			Price:       line.Price,
			Quantity:    line.Quantity,
		})
	}
	return items
}
