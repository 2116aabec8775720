package session

import (
	"testing"

	"pos-service/internal/localstore"
	"pos-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManager(t *testing.T, dir string) *Manager {
	t.Helper()
	local, err := localstore.NewStore(dir)
	require.NoError(t, err)
	m, err := NewManager(local)
	require.NoError(t, err)
	return m
}

func TestStartAndGet(t *testing.T) {
	m := newManager(t, t.TempDir())

	sess, err := m.Start("Marta")
	require.NoError(t, err)
	assert.NotEmpty(t, sess.ID)
	assert.Equal(t, "Marta", sess.VendorName)
	assert.Empty(t, sess.Lines)

	got, err := m.Get(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, got.ID)
}

func TestStartRejectsEmptyVendor(t *testing.T) {
	m := newManager(t, t.TempDir())

	_, err := m.Start("")
	assert.Error(t, err)
}

func TestGetUnknownSession(t *testing.T) {
	m := newManager(t, t.TempDir())

	_, err := m.Get("nope")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestEndSession(t *testing.T) {
	m := newManager(t, t.TempDir())
	sess, err := m.Start("Marta")
	require.NoError(t, err)

	require.NoError(t, m.End(sess.ID))
	_, err = m.Get(sess.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.ErrorIs(t, m.End(sess.ID), ErrSessionNotFound)
}

func TestSetDiscountRange(t *testing.T) {
	m := newManager(t, t.TempDir())
	sess, err := m.Start("Marta")
	require.NoError(t, err)

	updated, err := m.SetDiscount(sess.ID, 15)
	require.NoError(t, err)
	assert.Equal(t, 15, updated.Discount)

	_, err = m.SetDiscount(sess.ID, -1)
	assert.Error(t, err)
	_, err = m.SetDiscount(sess.ID, 101)
	assert.Error(t, err)

	got, err := m.Get(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, 15, got.Discount, "a rejected discount leaves the old value")
}

func TestAddLineMerges(t *testing.T) {
	m := newManager(t, t.TempDir())
	sess, err := m.Start("Marta")
	require.NoError(t, err)

	_, err = m.AddLine(sess.ID, models.CartLine{ProductID: 1, Name: "Almendras", Price: 1000, Quantity: 2})
	require.NoError(t, err)
	updated, err := m.AddLine(sess.ID, models.CartLine{ProductID: 1, Name: "Almendras", Price: 1000, Quantity: 3})
	require.NoError(t, err)

	require.Len(t, updated.Lines, 1)
	assert.Equal(t, 5, updated.Lines[0].Quantity)
}

func TestRemoveLineReportsQuantity(t *testing.T) {
	m := newManager(t, t.TempDir())
	sess, err := m.Start("Marta")
	require.NoError(t, err)
	_, err = m.AddLine(sess.ID, models.CartLine{ProductID: 1, Name: "Almendras", Price: 1000, Quantity: 4})
	require.NoError(t, err)

	removed, err := m.RemoveLine(sess.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 4, removed)

	_, err = m.RemoveLine(sess.ID, 1)
	assert.Error(t, err)
}

func TestClearCartResetsDiscount(t *testing.T) {
	m := newManager(t, t.TempDir())
	sess, err := m.Start("Marta")
	require.NoError(t, err)
	_, err = m.AddLine(sess.ID, models.CartLine{ProductID: 1, Name: "Almendras", Price: 1000, Quantity: 2})
	require.NoError(t, err)
	_, err = m.SetDiscount(sess.ID, 20)
	require.NoError(t, err)

	cleared, err := m.ClearCart(sess.ID)
	require.NoError(t, err)
	require.Len(t, cleared, 1)
	assert.Equal(t, 2, cleared[0].Quantity)

	got, err := m.Get(sess.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Lines)
	assert.Zero(t, got.Discount)
}

func TestSessionsSurviveRestart(t *testing.T) {
	dir := t.TempDir()
	m := newManager(t, dir)
	sess, err := m.Start("Marta")
	require.NoError(t, err)
	_, err = m.AddLine(sess.ID, models.CartLine{ProductID: 1, Name: "Almendras", Price: 1000, Quantity: 2})
	require.NoError(t, err)

	restored := newManager(t, dir)
	got, err := restored.Get(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "Marta", got.VendorName)
	require.Len(t, got.Lines, 1)
	assert.Equal(t, 2, got.Lines[0].Quantity)
}

func TestGetReturnsCopy(t *testing.T) {
	m := newManager(t, t.TempDir())
	sess, err := m.Start("Marta")
	require.NoError(t, err)
	_, err = m.AddLine(sess.ID, models.CartLine{ProductID: 1, Name: "Almendras", Price: 1000, Quantity: 2})
	require.NoError(t, err)

	got, err := m.Get(sess.ID)
	require.NoError(t, err)
	got.Lines[0].Quantity = 99

	again, err := m.Get(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, again.Lines[0].Quantity)
}
