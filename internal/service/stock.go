package service

import (
	"context"
	"fmt"
	"time"

	"pos-service/internal/models"
	"pos-service/internal/util"

	"go.uber.org/zap"
)

// Policy decides what a reservation does when stock runs short. The source
// system shipped both behaviors at different times; here the choice is an
// explicit configuration value, never an implicit stub.
type Policy string

const (
	// PolicyWarn lets every reservation through and reports the shortage;
	// the counter may go negative.
	PolicyWarn Policy = "warn"
	// PolicyBlock refuses reservations that would take the counter below zero.
	PolicyBlock Policy = "block"
)

// ParsePolicy validates a configured policy name
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case PolicyWarn, PolicyBlock:
		return Policy(s), nil
	default:
		return "", fmt.Errorf("unknown stock policy: %q", s)
	}
}

// ProductCatalog is what stock reconciliation needs from the catalog
// repository
type ProductCatalog interface {
	Product(ctx context.Context, productID int64) (*models.Product, error)
	Products(ctx context.Context) ([]models.Product, error)
	SetStock(ctx context.Context, productID int64, newStock int) error
}

// StockCache is the optional fast path for counters (Redis). When absent,
// reservations go straight through the dual-store repository.
type StockCache interface {
	Reserve(ctx context.Context, productID int64, quantity int, blocking bool) (bool, int, error)
	Release(ctx context.Context, productID int64, quantity int) (int, error)
	SetStock(ctx context.Context, productID int64, stock int) error
	GetStock(ctx context.Context, productID int64) (int, error)
	DeleteStock(ctx context.Context, productID int64) error
}

// StockService maintains the per-product available counter: reservations
// decrement it, releases increment it, and every mutation writes the
// absolute value through to the persisted stock.
type StockService struct {
	catalog ProductCatalog
	cache   StockCache
	policy  Policy
	logger  *zap.Logger
}

// NewStockService creates a stock service; cache may be nil
func NewStockService(catalog ProductCatalog, cache StockCache, policy Policy) *StockService {
	return &StockService{
		catalog: catalog,
		cache:   cache,
		policy:  policy,
		logger:  util.GetLogger(),
	}
}

// Policy returns the configured shortage policy
func (s *StockService) Policy() Policy {
	return s.policy
}

// Reserve decrements a product's counter by quantity. Under the block
// policy a shortage fails with ErrInsufficientStock and leaves the counter
// alone; under the warn policy the reservation always goes through and a
// non-nil Shortage describes the deficit.
func (s *StockService) Reserve(ctx context.Context, productID int64, quantity int) (*models.Shortage, error) {
	ctx, span := util.StartSpan(ctx, "StockService.Reserve")
	defer span.End()

	start := time.Now()
	defer func() {
		util.StockReserveLatency.Observe(time.Since(start).Seconds())
	}()

	product, err := s.catalog.Product(ctx, productID)
	if err != nil {
		util.StockReservationsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	if s.cache != nil {
		ok, newStock, cacheErr := s.cache.Reserve(ctx, productID, quantity, s.policy == PolicyBlock)
		if cacheErr != nil {
			s.logger.Warn("Stock cache reservation failed, falling back to repository",
				zap.Int64("product_id", productID),
				zap.Error(cacheErr))
			return s.reserveDirect(ctx, product, quantity)
		}
		if !ok {
			util.StockReservationsTotal.WithLabelValues("insufficient").Inc()
			return nil, fmt.Errorf("%w: product %d has %d, requested %d",
				ErrInsufficientStock, productID, newStock, quantity)
		}

		// mirror the counter to the dual store off the hot path
		go func() {
			wctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := s.catalog.SetStock(wctx, productID, newStock); err != nil {
				s.logger.Error("Failed to write through reserved stock",
					zap.Int64("product_id", productID),
					zap.Error(err))
			}
		}()

		util.StockReservationsTotal.WithLabelValues("ok").Inc()
		return s.shortageIfAny(product, quantity, newStock+quantity), nil
	}

	return s.reserveDirect(ctx, product, quantity)
}

func (s *StockService) reserveDirect(ctx context.Context, product *models.Product, quantity int) (*models.Shortage, error) {
	if s.policy == PolicyBlock && product.Stock < quantity {
		util.StockReservationsTotal.WithLabelValues("insufficient").Inc()
		return nil, fmt.Errorf("%w: product %d has %d, requested %d",
			ErrInsufficientStock, product.ID, product.Stock, quantity)
	}

	newStock := product.Stock - quantity
	if err := s.catalog.SetStock(ctx, product.ID, newStock); err != nil {
		util.StockReservationsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	util.StockReservationsTotal.WithLabelValues("ok").Inc()
	return s.shortageIfAny(product, quantity, product.Stock), nil
}

func (s *StockService) shortageIfAny(product *models.Product, requested, availableBefore int) *models.Shortage {
	if requested <= availableBefore {
		return nil
	}
	util.StockShortageWarnings.Inc()
	s.logger.Warn("Stock shortage",
		zap.Int64("product_id", product.ID),
		zap.String("name", product.Name),
		zap.Int("requested", requested),
		zap.Int("available", availableBefore))
	return &models.Shortage{
		ProductID: product.ID,
		Name:      product.Name,
		Requested: requested,
		Available: availableBefore,
	}
}

// Release returns quantity units to a product's counter
func (s *StockService) Release(ctx context.Context, productID int64, quantity int) error {
	ctx, span := util.StartSpan(ctx, "StockService.Release")
	defer span.End()

	if s.cache != nil {
		newStock, err := s.cache.Release(ctx, productID, quantity)
		if err == nil {
			go func() {
				wctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := s.catalog.SetStock(wctx, productID, newStock); err != nil {
					s.logger.Error("Failed to write through released stock",
						zap.Int64("product_id", productID),
						zap.Error(err))
				}
			}()
			return nil
		}
		s.logger.Warn("Stock cache release failed, falling back to repository",
			zap.Int64("product_id", productID),
			zap.Error(err))
	}

	product, err := s.catalog.Product(ctx, productID)
	if err != nil {
		return err
	}
	return s.catalog.SetStock(ctx, productID, product.Stock+quantity)
}

// SetAbsolute overwrites a product's counter with an absolute value (the
// stock adjustment screen)
func (s *StockService) SetAbsolute(ctx context.Context, productID int64, stock int) error {
	ctx, span := util.StartSpan(ctx, "StockService.SetAbsolute")
	defer span.End()

	if s.cache != nil {
		if err := s.cache.SetStock(ctx, productID, stock); err != nil {
			s.logger.Warn("Failed to update stock cache",
				zap.Int64("product_id", productID),
				zap.Error(err))
		}
	}
	return s.catalog.SetStock(ctx, productID, stock)
}

// Forget drops a product's counter from the cache after the product is
// deleted, so a recreated id never inherits a stale value
func (s *StockService) Forget(ctx context.Context, productID int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteStock(ctx, productID); err != nil {
		s.logger.Warn("Failed to drop stock counter for deleted product",
			zap.Int64("product_id", productID),
			zap.Error(err))
	}
}

// CheckShortages reports every cart line whose requested quantity exceeds
// the product's current available counter
func (s *StockService) CheckShortages(ctx context.Context, lines []models.CartLine) ([]models.Shortage, error) {
	var shortages []models.Shortage
	for _, line := range lines {
		available, err := s.available(ctx, line.ProductID)
		if err != nil {
			return nil, err
		}
		if line.Quantity > available {
			shortages = append(shortages, models.Shortage{
				ProductID: line.ProductID,
				Name:      line.Name,
				Requested: line.Quantity,
				Available: available,
			})
		}
	}
	return shortages, nil
}

// SyncCache seeds the counter cache from the catalog. Called at startup and
// after full catalog reloads.
func (s *StockService) SyncCache(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}

	products, err := s.catalog.Products(ctx)
	if err != nil {
		return fmt.Errorf("failed to load products: %w", err)
	}
	for _, product := range products {
		if err := s.cache.SetStock(ctx, product.ID, product.Stock); err != nil {
			s.logger.Error("Failed to seed stock cache",
				zap.Int64("product_id", product.ID),
				zap.Error(err))
		}
	}
	s.logger.Info("Stock cache synced", zap.Int("count", len(products)))
	return nil
}

func (s *StockService) available(ctx context.Context, productID int64) (int, error) {
	if s.cache != nil {
		if stock, err := s.cache.GetStock(ctx, productID); err == nil {
			return stock, nil
		}
	}
	product, err := s.catalog.Product(ctx, productID)
	if err != nil {
		return 0, err
	}
	return product.Stock, nil
}
