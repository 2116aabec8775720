package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"pos-service/internal/localstore"
	"pos-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errRemoteDown = errors.New("remote unavailable")

type recordingNotifier struct {
	tables []string
}

func (rn *recordingNotifier) NotifyTableChanged(_ context.Context, table string) error {
	rn.tables = append(rn.tables, table)
	return nil
}

// memoryCatalog is an in-memory RemoteCatalog that can be switched off to
// simulate the backend going away
type memoryCatalog struct {
	down       bool
	products   []models.Product
	categories []models.Category
	nextID     int64
}

func (mc *memoryCatalog) err() error {
	if mc.down {
		return errRemoteDown
	}
	return nil
}

func (mc *memoryCatalog) GetProducts(context.Context) ([]models.Product, error) {
	if err := mc.err(); err != nil {
		return nil, err
	}
	return append([]models.Product(nil), mc.products...), nil
}

func (mc *memoryCatalog) CreateProduct(_ context.Context, product *models.Product) error {
	if err := mc.err(); err != nil {
		return err
	}
	mc.nextID++
	product.ID = mc.nextID
	mc.products = append(mc.products, *product)
	return nil
}

func (mc *memoryCatalog) UpdateProduct(_ context.Context, product *models.Product) error {
	if err := mc.err(); err != nil {
		return err
	}
	for i := range mc.products {
		if mc.products[i].ID == product.ID {
			mc.products[i] = *product
		}
	}
	return nil
}

func (mc *memoryCatalog) UpdateProductStock(_ context.Context, productID int64, newStock int) error {
	if err := mc.err(); err != nil {
		return err
	}
	for i := range mc.products {
		if mc.products[i].ID == productID {
			mc.products[i].Stock = newStock
		}
	}
	return nil
}

func (mc *memoryCatalog) DeleteProduct(_ context.Context, productID int64) error {
	if err := mc.err(); err != nil {
		return err
	}
	kept := mc.products[:0]
	for _, p := range mc.products {
		if p.ID != productID {
			kept = append(kept, p)
		}
	}
	mc.products = kept
	return nil
}

func (mc *memoryCatalog) GetCategories(context.Context) ([]models.Category, error) {
	if err := mc.err(); err != nil {
		return nil, err
	}
	return append([]models.Category(nil), mc.categories...), nil
}

func (mc *memoryCatalog) CreateCategory(_ context.Context, category *models.Category) error {
	if err := mc.err(); err != nil {
		return err
	}
	mc.nextID++
	category.ID = mc.nextID
	mc.categories = append(mc.categories, *category)
	return nil
}

func (mc *memoryCatalog) UpdateCategory(_ context.Context, category *models.Category) error {
	if err := mc.err(); err != nil {
		return err
	}
	for i := range mc.categories {
		if mc.categories[i].ID == category.ID {
			mc.categories[i] = *category
		}
	}
	return nil
}

func (mc *memoryCatalog) DeleteCategory(_ context.Context, categoryID int64) error {
	if err := mc.err(); err != nil {
		return err
	}
	kept := mc.categories[:0]
	for _, c := range mc.categories {
		if c.ID != categoryID {
			kept = append(kept, c)
		}
	}
	mc.categories = kept
	return nil
}

func newCatalogRepo(t *testing.T, remote *memoryCatalog) (*Catalog, *localstore.Store, *recordingNotifier) {
	t.Helper()
	local, err := localstore.NewStore(t.TempDir())
	require.NoError(t, err)
	notifier := &recordingNotifier{}
	return NewCatalog(remote, local, notifier, 100*time.Millisecond), local, notifier
}

func TestProductsMirrorsThenFallsBack(t *testing.T) {
	remote := &memoryCatalog{products: []models.Product{
		{ID: 1, Name: "Almendras", Price: 1000, Stock: 5},
	}}
	catalog, _, _ := newCatalogRepo(t, remote)

	products, err := catalog.Products(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)

	// backend goes away; the mirror still serves the last good read
	remote.down = true
	products, err = catalog.Products(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Almendras", products[0].Name)
	assert.Equal(t, 5, products[0].Stock)
}

func TestAddProductRemoteAssignsID(t *testing.T) {
	remote := &memoryCatalog{}
	catalog, _, notifier := newCatalogRepo(t, remote)

	product := &models.Product{Name: "Nueces", Price: 1500, Stock: 10}
	require.NoError(t, catalog.AddProduct(context.Background(), product))

	assert.Equal(t, int64(1), product.ID)
	assert.Equal(t, []string{models.TableProducts}, notifier.tables)
}

func TestAddProductFallbackAssignsLocalID(t *testing.T) {
	remote := &memoryCatalog{down: true}
	catalog, local, notifier := newCatalogRepo(t, remote)
	require.NoError(t, local.Save(localstore.KeyStock, []models.Product{
		{ID: 7, Name: "Almendras", Price: 1000, Stock: 5},
	}))

	product := &models.Product{Name: "Nueces", Price: 1500, Stock: 10}
	require.NoError(t, catalog.AddProduct(context.Background(), product))

	assert.Equal(t, int64(8), product.ID, "fallback assigns the next free local id")
	assert.Empty(t, notifier.tables, "no change notification without a remote write")

	var mirrored []models.Product
	require.NoError(t, local.Load(localstore.KeyStock, &mirrored))
	assert.Len(t, mirrored, 2)
}

func TestSetStockAlwaysUpdatesMirror(t *testing.T) {
	remote := &memoryCatalog{products: []models.Product{
		{ID: 1, Name: "Almendras", Price: 1000, Stock: 5},
	}}
	catalog, local, _ := newCatalogRepo(t, remote)
	_, err := catalog.Products(context.Background())
	require.NoError(t, err)

	remote.down = true
	require.NoError(t, catalog.SetStock(context.Background(), 1, 2))

	var mirrored []models.Product
	require.NoError(t, local.Load(localstore.KeyStock, &mirrored))
	assert.Equal(t, 2, mirrored[0].Stock)
	assert.Equal(t, 5, remote.products[0].Stock, "remote keeps its stale value until reconciled")
}

func TestProductReadsThroughMirror(t *testing.T) {
	remote := &memoryCatalog{products: []models.Product{
		{ID: 1, Name: "Almendras", Price: 1000, Stock: 5},
	}}
	catalog, _, _ := newCatalogRepo(t, remote)

	// unknown id triggers a full reload that finds the product
	product, err := catalog.Product(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Almendras", product.Name)

	_, err = catalog.Product(context.Background(), 99)
	assert.Error(t, err)
}

func TestDeleteProductRemovesFromBothStores(t *testing.T) {
	remote := &memoryCatalog{products: []models.Product{
		{ID: 1, Name: "Almendras", Price: 1000, Stock: 5},
	}}
	catalog, local, _ := newCatalogRepo(t, remote)
	_, err := catalog.Products(context.Background())
	require.NoError(t, err)

	require.NoError(t, catalog.DeleteProduct(context.Background(), 1))

	assert.Empty(t, remote.products)
	var mirrored []models.Product
	require.NoError(t, local.Load(localstore.KeyStock, &mirrored))
	assert.Empty(t, mirrored)
}

func TestCategoriesFallback(t *testing.T) {
	remote := &memoryCatalog{categories: []models.Category{{ID: 1, Name: "Frutos secos"}}}
	catalog, _, _ := newCatalogRepo(t, remote)

	_, err := catalog.Categories(context.Background())
	require.NoError(t, err)

	remote.down = true
	categories, err := catalog.Categories(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, "Frutos secos", categories[0].Name)
}
