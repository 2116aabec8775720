package repo

import (
	"context"
	"fmt"
	"time"

	"pos-service/internal/broker"
	"pos-service/internal/localstore"
	"pos-service/internal/models"
	"pos-service/internal/util"

	"go.uber.org/zap"
)

// RemoteCatalog is the slice of the remote store the catalog repository uses
type RemoteCatalog interface {
	GetProducts(ctx context.Context) ([]models.Product, error)
	CreateProduct(ctx context.Context, product *models.Product) error
	UpdateProduct(ctx context.Context, product *models.Product) error
	UpdateProductStock(ctx context.Context, productID int64, newStock int) error
	DeleteProduct(ctx context.Context, productID int64) error
	GetCategories(ctx context.Context) ([]models.Category, error)
	CreateCategory(ctx context.Context, category *models.Category) error
	UpdateCategory(ctx context.Context, category *models.Category) error
	DeleteCategory(ctx context.Context, categoryID int64) error
}

// Catalog is the dual-store repository for products and categories
type Catalog struct {
	remote   RemoteCatalog
	local    *localstore.Store
	notifier broker.Notifier
	timeout  time.Duration
	logger   *zap.Logger
}

// NewCatalog creates a catalog repository
func NewCatalog(remote RemoteCatalog, local *localstore.Store, notifier broker.Notifier, timeout time.Duration) *Catalog {
	return &Catalog{
		remote:   remote,
		local:    local,
		notifier: notifier,
		timeout:  timeout,
		logger:   util.GetLogger(),
	}
}

// Products returns the full product list, remote first. A successful remote
// read refreshes the local mirror; a failed one serves the mirror, which is
// what subsequent reads see until the next successful full reload.
func (c *Catalog) Products(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := callRemote(ctx, c.timeout, func(ctx context.Context) error {
		var err error
		products, err = c.remote.GetProducts(ctx)
		return err
	})
	if err == nil {
		if saveErr := c.local.Save(localstore.KeyStock, products); saveErr != nil {
			c.logger.Warn("Failed to mirror products locally", zap.Error(saveErr))
		}
		return products, nil
	}

	util.RemoteFallbacksTotal.WithLabelValues(models.TableProducts).Inc()
	c.logger.Warn("Remote product fetch failed, using local store", zap.Error(err))

	products = nil
	if loadErr := c.local.Load(localstore.KeyStock, &products); loadErr != nil {
		return nil, loadErr
	}
	return products, nil
}

// Product returns a single product from the local mirror, reloading the
// catalog if the mirror does not know the id. Cart operations read through
// here so they see the same counter values the vendor sees.
func (c *Catalog) Product(ctx context.Context, productID int64) (*models.Product, error) {
	var products []models.Product
	if err := c.local.Load(localstore.KeyStock, &products); err != nil {
		return nil, err
	}
	for i := range products {
		if products[i].ID == productID {
			return &products[i], nil
		}
	}

	products, err := c.Products(ctx)
	if err != nil {
		return nil, err
	}
	for i := range products {
		if products[i].ID == productID {
			return &products[i], nil
		}
	}
	return nil, fmt.Errorf("product not found: %d", productID)
}

// AddProduct creates a product. If the remote insert fails the product gets
// a locally assigned id and lives only in the mirror until the stores are
// reconciled out of band.
func (c *Catalog) AddProduct(ctx context.Context, product *models.Product) error {
	err := callRemote(ctx, c.timeout, func(ctx context.Context) error {
		return c.remote.CreateProduct(ctx, product)
	})
	if err != nil {
		util.RemoteFallbacksTotal.WithLabelValues(models.TableProducts).Inc()
		c.logger.Warn("Remote product insert failed, adding locally", zap.Error(err))

		var products []models.Product
		if loadErr := c.local.Load(localstore.KeyStock, &products); loadErr != nil {
			return loadErr
		}
		product.ID = nextProductID(products)
		return c.local.Save(localstore.KeyStock, append(products, *product))
	}

	if mirrorErr := c.mirrorProduct(*product); mirrorErr != nil {
		c.logger.Warn("Failed to mirror product locally", zap.Error(mirrorErr))
	}
	notify(ctx, c.notifier, c.logger, models.TableProducts)
	return nil
}

// UpdateProduct overwrites a product in both stores
func (c *Catalog) UpdateProduct(ctx context.Context, product *models.Product) error {
	err := callRemote(ctx, c.timeout, func(ctx context.Context) error {
		return c.remote.UpdateProduct(ctx, product)
	})
	if err != nil {
		util.RemoteFallbacksTotal.WithLabelValues(models.TableProducts).Inc()
		c.logger.Warn("Remote product update failed, updating locally", zap.Error(err))
		return c.mirrorProduct(*product)
	}

	if mirrorErr := c.mirrorProduct(*product); mirrorErr != nil {
		c.logger.Warn("Failed to mirror product locally", zap.Error(mirrorErr))
	}
	notify(ctx, c.notifier, c.logger, models.TableProducts)
	return nil
}

// SetStock writes a product's counter as an absolute value to both stores
func (c *Catalog) SetStock(ctx context.Context, productID int64, newStock int) error {
	remoteErr := callRemote(ctx, c.timeout, func(ctx context.Context) error {
		return c.remote.UpdateProductStock(ctx, productID, newStock)
	})
	if remoteErr != nil {
		util.RemoteFallbacksTotal.WithLabelValues(models.TableProducts).Inc()
		c.logger.Warn("Remote stock update failed, local value is authoritative until next reload",
			zap.Int64("product_id", productID),
			zap.Error(remoteErr))
	}

	var products []models.Product
	if err := c.local.Load(localstore.KeyStock, &products); err != nil {
		return err
	}
	for i := range products {
		if products[i].ID == productID {
			products[i].Stock = newStock
			break
		}
	}
	if err := c.local.Save(localstore.KeyStock, products); err != nil {
		return err
	}

	if remoteErr == nil {
		notify(ctx, c.notifier, c.logger, models.TableProducts)
	}
	return nil
}

// DeleteProduct removes a product from both stores
func (c *Catalog) DeleteProduct(ctx context.Context, productID int64) error {
	err := callRemote(ctx, c.timeout, func(ctx context.Context) error {
		return c.remote.DeleteProduct(ctx, productID)
	})
	if err != nil {
		util.RemoteFallbacksTotal.WithLabelValues(models.TableProducts).Inc()
		c.logger.Warn("Remote product delete failed, deleting locally", zap.Error(err))
	} else {
		notify(ctx, c.notifier, c.logger, models.TableProducts)
	}

	var products []models.Product
	if loadErr := c.local.Load(localstore.KeyStock, &products); loadErr != nil {
		return loadErr
	}
	kept := products[:0]
	for _, p := range products {
		if p.ID != productID {
			kept = append(kept, p)
		}
	}
	return c.local.Save(localstore.KeyStock, kept)
}

// Categories returns all categories, remote first with local fallback
func (c *Catalog) Categories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := callRemote(ctx, c.timeout, func(ctx context.Context) error {
		var err error
		categories, err = c.remote.GetCategories(ctx)
		return err
	})
	if err == nil {
		if saveErr := c.local.Save(localstore.KeyCategories, categories); saveErr != nil {
			c.logger.Warn("Failed to mirror categories locally", zap.Error(saveErr))
		}
		return categories, nil
	}

	util.RemoteFallbacksTotal.WithLabelValues(models.TableCategories).Inc()
	c.logger.Warn("Remote category fetch failed, using local store", zap.Error(err))

	categories = nil
	if loadErr := c.local.Load(localstore.KeyCategories, &categories); loadErr != nil {
		return nil, loadErr
	}
	return categories, nil
}

// AddCategory creates a category in both stores
func (c *Catalog) AddCategory(ctx context.Context, category *models.Category) error {
	err := callRemote(ctx, c.timeout, func(ctx context.Context) error {
		return c.remote.CreateCategory(ctx, category)
	})
	if err != nil {
		util.RemoteFallbacksTotal.WithLabelValues(models.TableCategories).Inc()
		c.logger.Warn("Remote category insert failed, adding locally", zap.Error(err))

		var categories []models.Category
		if loadErr := c.local.Load(localstore.KeyCategories, &categories); loadErr != nil {
			return loadErr
		}
		category.ID = nextCategoryID(categories)
		return c.local.Save(localstore.KeyCategories, append(categories, *category))
	}

	var categories []models.Category
	if loadErr := c.local.Load(localstore.KeyCategories, &categories); loadErr == nil {
		categories = upsertCategory(categories, *category)
		if saveErr := c.local.Save(localstore.KeyCategories, categories); saveErr != nil {
			c.logger.Warn("Failed to mirror category locally", zap.Error(saveErr))
		}
	}
	notify(ctx, c.notifier, c.logger, models.TableCategories)
	return nil
}

// UpdateCategory renames a category in both stores
func (c *Catalog) UpdateCategory(ctx context.Context, category *models.Category) error {
	err := callRemote(ctx, c.timeout, func(ctx context.Context) error {
		return c.remote.UpdateCategory(ctx, category)
	})
	if err != nil {
		util.RemoteFallbacksTotal.WithLabelValues(models.TableCategories).Inc()
		c.logger.Warn("Remote category update failed, updating locally", zap.Error(err))
	} else {
		notify(ctx, c.notifier, c.logger, models.TableCategories)
	}

	var categories []models.Category
	if loadErr := c.local.Load(localstore.KeyCategories, &categories); loadErr != nil {
		return loadErr
	}
	return c.local.Save(localstore.KeyCategories, upsertCategory(categories, *category))
}

// DeleteCategory removes a category from both stores
func (c *Catalog) DeleteCategory(ctx context.Context, categoryID int64) error {
	err := callRemote(ctx, c.timeout, func(ctx context.Context) error {
		return c.remote.DeleteCategory(ctx, categoryID)
	})
	if err != nil {
		util.RemoteFallbacksTotal.WithLabelValues(models.TableCategories).Inc()
		c.logger.Warn("Remote category delete failed, deleting locally", zap.Error(err))
	} else {
		notify(ctx, c.notifier, c.logger, models.TableCategories)
	}

	var categories []models.Category
	if loadErr := c.local.Load(localstore.KeyCategories, &categories); loadErr != nil {
		return loadErr
	}
	kept := categories[:0]
	for _, cat := range categories {
		if cat.ID != categoryID {
			kept = append(kept, cat)
		}
	}
	return c.local.Save(localstore.KeyCategories, kept)
}

func (c *Catalog) mirrorProduct(product models.Product) error {
	var products []models.Product
	if err := c.local.Load(localstore.KeyStock, &products); err != nil {
		return err
	}
	for i := range products {
		if products[i].ID == product.ID {
			products[i] = product
			return c.local.Save(localstore.KeyStock, products)
		}
	}
	return c.local.Save(localstore.KeyStock, append(products, product))
}

func nextProductID(products []models.Product) int64 {
	var max int64
	for _, p := range products {
		if p.ID > max {
			max = p.ID
		}
	}
	return max + 1
}

func nextCategoryID(categories []models.Category) int64 {
	var max int64
	for _, c := range categories {
		if c.ID > max {
			max = c.ID
		}
	}
	return max + 1
}

func upsertCategory(categories []models.Category, category models.Category) []models.Category {
	for i := range categories {
		if categories[i].ID == category.ID {
			categories[i] = category
			return categories
		}
	}
	return append(categories, category)
}
