package service

import (
	"context"

	"pos-service/internal/models"
	"pos-service/internal/session"
	"pos-service/internal/util"

	"go.uber.org/zap"
)

// CartService orchestrates cart mutations against stock reconciliation:
// adding a line reserves stock, removing one releases it, and clearing a
// cart without checking out returns everything to the pool.
type CartService struct {
	sessions *session.Manager
	catalog  ProductCatalog
	stock    *StockService
	logger   *zap.Logger
}

// NewCartService creates a cart service
func NewCartService(sessions *session.Manager, catalog ProductCatalog, stock *StockService) *CartService {
	return &CartService{
		sessions: sessions,
		catalog:  catalog,
		stock:    stock,
		logger:   util.GetLogger(),
	}
}

// AddToCart reserves stock and merges a product snapshot into the cart.
// Under the block policy a shortage leaves the cart untouched; under the
// warn policy the returned shortage describes the deficit.
func (c *CartService) AddToCart(ctx context.Context, sessionID string, productID int64, quantity int) (*models.Session, *models.Shortage, error) {
	ctx, span := util.StartSpan(ctx, "CartService.AddToCart")
	defer span.End()

	product, err := c.catalog.Product(ctx, productID)
	if err != nil {
		return nil, nil, err
	}

	shortage, err := c.stock.Reserve(ctx, productID, quantity)
	if err != nil {
		return nil, nil, err
	}

	sess, err := c.sessions.AddLine(sessionID, models.CartLine{
		ProductID: product.ID,
		Name:      product.Name,
		Price:     product.Price,
		Quantity:  quantity,
	})
	if err != nil {
		// give the reservation back, the cart never saw it
		if relErr := c.stock.Release(ctx, productID, quantity); relErr != nil {
			c.logger.Error("Failed to release stock after cart error",
				zap.Int64("product_id", productID),
				zap.Error(relErr))
		}
		return nil, nil, err
	}

	return sess, shortage, nil
}

// RemoveFromCart drops a line and returns its quantity to the pool
func (c *CartService) RemoveFromCart(ctx context.Context, sessionID string, productID int64) (*models.Session, error) {
	ctx, span := util.StartSpan(ctx, "CartService.RemoveFromCart")
	defer span.End()

	removed, err := c.sessions.RemoveLine(sessionID, productID)
	if err != nil {
		return nil, err
	}
	if err := c.stock.Release(ctx, productID, removed); err != nil {
		c.logger.Error("Failed to release stock for removed line",
			zap.Int64("product_id", productID),
			zap.Error(err))
	}
	return c.sessions.Get(sessionID)
}

// UpdateQuantity changes a line's quantity, reserving or releasing the
// difference. A quantity of zero or less removes the line.
func (c *CartService) UpdateQuantity(ctx context.Context, sessionID string, productID int64, quantity int) (*models.Session, *models.Shortage, error) {
	ctx, span := util.StartSpan(ctx, "CartService.UpdateQuantity")
	defer span.End()

	if quantity <= 0 {
		sess, err := c.RemoveFromCart(ctx, sessionID, productID)
		return sess, nil, err
	}

	sess, err := c.sessions.Get(sessionID)
	if err != nil {
		return nil, nil, err
	}
	previous := 0
	for _, line := range sess.Lines {
		if line.ProductID == productID {
			previous = line.Quantity
		}
	}

	var shortage *models.Shortage
	delta := quantity - previous
	if delta > 0 {
		shortage, err = c.stock.Reserve(ctx, productID, delta)
		if err != nil {
			return nil, nil, err
		}
	} else if delta < 0 {
		if err := c.stock.Release(ctx, productID, -delta); err != nil {
			c.logger.Error("Failed to release stock on quantity decrease",
				zap.Int64("product_id", productID),
				zap.Error(err))
		}
	}

	if _, err := c.sessions.SetLineQuantity(sessionID, productID, quantity); err != nil {
		// give the reservation back, the cart never saw it
		if delta > 0 {
			if relErr := c.stock.Release(ctx, productID, delta); relErr != nil {
				c.logger.Error("Failed to release stock after cart error",
					zap.Int64("product_id", productID),
					zap.Error(relErr))
			}
		}
		return nil, nil, err
	}
	sess, err = c.sessions.Get(sessionID)
	return sess, shortage, err
}

// ClearCart abandons the cart: every line's quantity goes back to the pool
func (c *CartService) ClearCart(ctx context.Context, sessionID string) (*models.Session, error) {
	ctx, span := util.StartSpan(ctx, "CartService.ClearCart")
	defer span.End()

	cleared, err := c.sessions.ClearCart(sessionID)
	if err != nil {
		return nil, err
	}
	for _, line := range cleared {
		if err := c.stock.Release(ctx, line.ProductID, line.Quantity); err != nil {
			c.logger.Error("Failed to release stock for cleared line",
				zap.Int64("product_id", line.ProductID),
				zap.Error(err))
		}
	}
	return c.sessions.Get(sessionID)
}

// Shortages reports the cart lines whose requested quantity exceeds current
// availability, for the checkout summary
func (c *CartService) Shortages(ctx context.Context, sessionID string) ([]models.Shortage, error) {
	sess, err := c.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	return c.stock.CheckShortages(ctx, sess.Lines)
}
