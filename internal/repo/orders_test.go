package repo

import (
	"context"
	"fmt"
	"testing"
	"time"

	"pos-service/internal/localstore"
	"pos-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryOrders is an in-memory RemoteOrders that can be switched off
type memoryOrders struct {
	down   bool
	orders map[string]models.Order
}

func newMemoryOrders() *memoryOrders {
	return &memoryOrders{orders: make(map[string]models.Order)}
}

func (mo *memoryOrders) err() error {
	if mo.down {
		return errRemoteDown
	}
	return nil
}

func (mo *memoryOrders) CreateOrder(_ context.Context, order *models.Order) error {
	if err := mo.err(); err != nil {
		return err
	}
	mo.orders[order.ID] = *order
	return nil
}

func (mo *memoryOrders) GetOrders(context.Context) ([]models.Order, error) {
	if err := mo.err(); err != nil {
		return nil, err
	}
	out := make([]models.Order, 0, len(mo.orders))
	for _, o := range mo.orders {
		out = append(out, o)
	}
	return out, nil
}

func (mo *memoryOrders) GetPendingOrders(context.Context) ([]models.Order, error) {
	if err := mo.err(); err != nil {
		return nil, err
	}
	var out []models.Order
	for _, o := range mo.orders {
		if o.Status != models.StatusDelivered {
			out = append(out, o)
		}
	}
	return out, nil
}

func (mo *memoryOrders) GetOrderByID(_ context.Context, orderID string) (*models.Order, error) {
	if err := mo.err(); err != nil {
		return nil, err
	}
	o, ok := mo.orders[orderID]
	if !ok {
		return nil, fmt.Errorf("order not found: %s", orderID)
	}
	return &o, nil
}

func (mo *memoryOrders) UpdateOrderStatus(_ context.Context, orderID, status string, notes, address *string) error {
	if err := mo.err(); err != nil {
		return err
	}
	o, ok := mo.orders[orderID]
	if !ok {
		return fmt.Errorf("order not found: %s", orderID)
	}
	o.Status = status
	if notes != nil {
		o.Notes = *notes
	}
	if address != nil {
		o.CustomerAddress = *address
	}
	mo.orders[orderID] = o
	return nil
}

func (mo *memoryOrders) DeleteOrder(_ context.Context, orderID string) error {
	if err := mo.err(); err != nil {
		return err
	}
	delete(mo.orders, orderID)
	return nil
}

func newOrdersRepo(t *testing.T, remote *memoryOrders) (*Orders, *localstore.Store, *recordingNotifier) {
	t.Helper()
	local, err := localstore.NewStore(t.TempDir())
	require.NoError(t, err)
	notifier := &recordingNotifier{}
	return NewOrders(remote, local, notifier, 100*time.Millisecond), local, notifier
}

func testOrder(id string) *models.Order {
	return &models.Order{
		ID:           id,
		Date:         time.Date(2025, 3, 14, 18, 30, 0, 0, time.UTC),
		CustomerName: "Ana",
		VendorName:   "Marta",
		Subtotal:     4000,
		Discount:     10,
		FinalTotal:   3600,
		Status:       models.StatusPending,
		Items: []models.OrderItem{
			{ProductID: 1, ProductName: "Almendras", Price: 1000, Quantity: 2},
			{ProductID: 2, ProductName: "Mix tropical", Price: 2000, Quantity: 1},
		},
	}
}

func TestSaveRemote(t *testing.T) {
	remote := newMemoryOrders()
	repo, local, notifier := newOrdersRepo(t, remote)

	fellBack, err := repo.Save(context.Background(), testOrder("o1"))
	require.NoError(t, err)

	assert.False(t, fellBack)
	assert.Contains(t, remote.orders, "o1")
	assert.Equal(t, []string{models.TableOrders}, notifier.tables)

	// a remote save also lands in the local mirror
	var history []models.Order
	require.NoError(t, local.Load(localstore.KeyOrderHistory, &history))
	require.Len(t, history, 1)
	assert.Equal(t, "o1", history[0].ID)
}

func TestSaveFallsBackWithSameID(t *testing.T) {
	remote := newMemoryOrders()
	remote.down = true
	repo, local, notifier := newOrdersRepo(t, remote)

	fellBack, err := repo.Save(context.Background(), testOrder("o1"))
	require.NoError(t, err)

	assert.True(t, fellBack)
	assert.Empty(t, remote.orders)
	assert.Empty(t, notifier.tables)

	var history []models.Order
	require.NoError(t, local.Load(localstore.KeyOrderHistory, &history))
	require.Len(t, history, 1)
	assert.Equal(t, "o1", history[0].ID, "the fallback record keeps the submitted id")
	require.Len(t, history[0].Items, 2)

	var pending []models.Order
	require.NoError(t, local.Load(localstore.KeyPendingOrders, &pending))
	require.Len(t, pending, 1)
	assert.Equal(t, "o1", pending[0].ID)
}

func TestSaveMirrorsNewestFirst(t *testing.T) {
	remote := newMemoryOrders()
	remote.down = true
	repo, local, _ := newOrdersRepo(t, remote)

	_, err := repo.Save(context.Background(), testOrder("o1"))
	require.NoError(t, err)
	_, err = repo.Save(context.Background(), testOrder("o2"))
	require.NoError(t, err)

	var history []models.Order
	require.NoError(t, local.Load(localstore.KeyOrderHistory, &history))
	require.Len(t, history, 2)
	assert.Equal(t, "o2", history[0].ID)
}

func TestGetFallsBackToHistory(t *testing.T) {
	remote := newMemoryOrders()
	remote.down = true
	repo, _, _ := newOrdersRepo(t, remote)

	_, err := repo.Save(context.Background(), testOrder("o1"))
	require.NoError(t, err)

	order, err := repo.Get(context.Background(), "o1")
	require.NoError(t, err)
	assert.Equal(t, "Ana", order.CustomerName)

	_, err = repo.Get(context.Background(), "missing")
	assert.Error(t, err)
}

func TestSetStatusDeliveredLeavesPendingSet(t *testing.T) {
	remote := newMemoryOrders()
	repo, local, _ := newOrdersRepo(t, remote)

	_, err := repo.Save(context.Background(), testOrder("o1"))
	require.NoError(t, err)

	require.NoError(t, repo.SetStatus(context.Background(), "o1", models.StatusDelivered, nil, nil))

	var pending []models.Order
	require.NoError(t, local.Load(localstore.KeyPendingOrders, &pending))
	assert.Empty(t, pending)

	var history []models.Order
	require.NoError(t, local.Load(localstore.KeyOrderHistory, &history))
	require.Len(t, history, 1)
	assert.Equal(t, models.StatusDelivered, history[0].Status, "delivered orders stay in history")
}

func TestSetStatusAppliesLocallyWhenRemoteDown(t *testing.T) {
	remote := newMemoryOrders()
	repo, local, _ := newOrdersRepo(t, remote)

	_, err := repo.Save(context.Background(), testOrder("o1"))
	require.NoError(t, err)

	remote.down = true
	require.NoError(t, repo.SetStatus(context.Background(), "o1", models.StatusPreparing, nil, nil))

	var pending []models.Order
	require.NoError(t, local.Load(localstore.KeyPendingOrders, &pending))
	require.Len(t, pending, 1)
	assert.Equal(t, models.StatusPreparing, pending[0].Status)
	assert.Equal(t, models.StatusPending, remote.orders["o1"].Status, "remote still holds the old status")
}

func TestDeleteRemovesFromBothNamespaces(t *testing.T) {
	remote := newMemoryOrders()
	repo, local, _ := newOrdersRepo(t, remote)

	_, err := repo.Save(context.Background(), testOrder("o1"))
	require.NoError(t, err)

	require.NoError(t, repo.Delete(context.Background(), "o1"))

	assert.Empty(t, remote.orders)
	var history []models.Order
	require.NoError(t, local.Load(localstore.KeyOrderHistory, &history))
	assert.Empty(t, history)
	var pending []models.Order
	require.NoError(t, local.Load(localstore.KeyPendingOrders, &pending))
	assert.Empty(t, pending)
}

func TestOrdersListFallback(t *testing.T) {
	remote := newMemoryOrders()
	repo, _, _ := newOrdersRepo(t, remote)

	_, err := repo.Save(context.Background(), testOrder("o1"))
	require.NoError(t, err)
	_, err = repo.Orders(context.Background())
	require.NoError(t, err)

	remote.down = true
	orders, err := repo.Orders(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "o1", orders[0].ID)
}
