package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"pos-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSaver struct {
	saved    []*models.Order
	fellBack bool
	err      error
}

func (fs *fakeSaver) Save(_ context.Context, order *models.Order) (bool, error) {
	if fs.err != nil {
		return false, fs.err
	}
	fs.saved = append(fs.saved, order)
	return fs.fellBack, nil
}

func fillCart(t *testing.T, svc *CheckoutService, sessionID string) {
	t.Helper()
	_, err := svc.sessions.SetCustomer(sessionID, "Ana", "Av. Corrientes 1500")
	require.NoError(t, err)
	_, err = svc.sessions.AddLine(sessionID, models.CartLine{ProductID: 1, Name: "Almendras", Price: 1000, Quantity: 2})
	require.NoError(t, err)
	_, err = svc.sessions.AddLine(sessionID, models.CartLine{ProductID: 2, Name: "Mix tropical", Price: 2000, Quantity: 1})
	require.NoError(t, err)
}

func newCheckout(t *testing.T, saver *fakeSaver) (*CheckoutService, string) {
	t.Helper()
	sessions, sessionID := newTestSessions(t)
	svc := NewCheckoutService(sessions, saver, "Sabornuts")
	svc.now = func() time.Time { return time.Date(2025, 3, 14, 18, 30, 0, 0, time.UTC) }
	svc.newID = func() string { return "order-test-1" }
	return svc, sessionID
}

func TestSubmitComputesTotals(t *testing.T) {
	saver := &fakeSaver{}
	svc, sessionID := newCheckout(t, saver)
	fillCart(t, svc, sessionID)
	_, err := svc.sessions.SetDiscount(sessionID, 10)
	require.NoError(t, err)

	result, err := svc.Submit(context.Background(), sessionID, "sin sal")
	require.NoError(t, err)

	order := result.Order
	assert.Equal(t, "order-test-1", order.ID)
	assert.Equal(t, int64(4000), order.Subtotal)
	assert.Equal(t, 10, order.Discount)
	assert.Equal(t, int64(3600), order.FinalTotal)
	assert.Equal(t, models.StatusPending, order.Status)
	assert.Equal(t, "Ana", order.CustomerName)
	assert.Equal(t, "Marta", order.VendorName)
	assert.Equal(t, "sin sal", order.Notes)
	require.Len(t, order.Items, 2)

	require.Len(t, saver.saved, 1)
	assert.Same(t, order, saver.saved[0])

	sess, err := svc.sessions.Get(sessionID)
	require.NoError(t, err)
	assert.Empty(t, sess.Lines, "cart is cleared after a successful submit")
	assert.Zero(t, sess.Discount)
	assert.Equal(t, "Ana", sess.CustomerName, "customer selection survives checkout")
}

func TestSubmitRejectsEmptyCart(t *testing.T) {
	saver := &fakeSaver{}
	svc, sessionID := newCheckout(t, saver)
	_, err := svc.sessions.SetCustomer(sessionID, "Ana", "")
	require.NoError(t, err)

	_, err = svc.Submit(context.Background(), sessionID, "")
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Empty(t, saver.saved)
}

func TestSubmitRejectsMissingCustomer(t *testing.T) {
	saver := &fakeSaver{}
	svc, sessionID := newCheckout(t, saver)
	_, err := svc.sessions.AddLine(sessionID, models.CartLine{ProductID: 1, Name: "Almendras", Price: 1000, Quantity: 1})
	require.NoError(t, err)

	_, err = svc.Submit(context.Background(), sessionID, "")
	assert.ErrorIs(t, err, ErrCustomerRequired)

	sess, err := svc.sessions.Get(sessionID)
	require.NoError(t, err)
	assert.Len(t, sess.Lines, 1, "a rejected submission leaves the cart intact")
}

func TestSubmitSaveFailureKeepsCart(t *testing.T) {
	saver := &fakeSaver{err: errors.New("both stores down")}
	svc, sessionID := newCheckout(t, saver)
	fillCart(t, svc, sessionID)

	_, err := svc.Submit(context.Background(), sessionID, "")
	assert.Error(t, err)

	sess, getErr := svc.sessions.Get(sessionID)
	require.NoError(t, getErr)
	assert.Len(t, sess.Lines, 2, "a failed persist leaves the cart intact for retry")
}

func TestSubmitFallbackKeepsSameOrder(t *testing.T) {
	saver := &fakeSaver{fellBack: true}
	svc, sessionID := newCheckout(t, saver)
	fillCart(t, svc, sessionID)

	result, err := svc.Submit(context.Background(), sessionID, "")
	require.NoError(t, err)

	assert.True(t, result.FellBack)
	assert.Equal(t, "order-test-1", result.Order.ID, "the fallback path keeps the same id")
}

func TestSubmitReceiptMatchesOrder(t *testing.T) {
	saver := &fakeSaver{}
	svc, sessionID := newCheckout(t, saver)
	fillCart(t, svc, sessionID)
	_, err := svc.sessions.SetDiscount(sessionID, 10)
	require.NoError(t, err)

	result, err := svc.Submit(context.Background(), sessionID, "")
	require.NoError(t, err)

	assert.Contains(t, result.Receipt, "Sabornuts")
	assert.Contains(t, result.Receipt, "Cliente:  Ana")
	assert.Contains(t, result.Receipt, "Almendras")
	assert.Contains(t, result.Receipt, "$3.600")
}

func TestSubmitSnapshotIsolation(t *testing.T) {
	saver := &fakeSaver{}
	svc, sessionID := newCheckout(t, saver)
	fillCart(t, svc, sessionID)

	result, err := svc.Submit(context.Background(), sessionID, "")
	require.NoError(t, err)

	// refill and resubmit; the first order's items must not change
	svc.newID = func() string { return "order-test-2" }
	_, err = svc.sessions.AddLine(sessionID, models.CartLine{ProductID: 1, Name: "Almendras", Price: 9999, Quantity: 7})
	require.NoError(t, err)
	_, err = svc.Submit(context.Background(), sessionID, "")
	require.NoError(t, err)

	assert.Equal(t, int64(1000), result.Order.Items[0].Price)
	assert.Equal(t, 2, result.Order.Items[0].Quantity)
}

func TestSubtotal(t *testing.T) {
	lines := []models.CartLine{
		{Price: 1000, Quantity: 2},
		{Price: 2000, Quantity: 1},
	}
	assert.Equal(t, int64(4000), Subtotal(lines))
	assert.Zero(t, Subtotal(nil))
}

func TestFinalTotalRoundsHalfUp(t *testing.T) {
	assert.Equal(t, int64(3600), FinalTotal(4000, 10))
	assert.Equal(t, int64(4000), FinalTotal(4000, 0))
	assert.Equal(t, int64(0), FinalTotal(4000, 100))
	// 1050 at 5% is 997.5, rounded up
	assert.Equal(t, int64(998), FinalTotal(1050, 5))
	// 999 at 15% is 849.15, rounded down
	assert.Equal(t, int64(849), FinalTotal(999, 15))
}
