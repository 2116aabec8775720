package worker

import (
	"context"

	"pos-service/internal/broker"
	"pos-service/internal/models"
	"pos-service/internal/repo"
	"pos-service/internal/service"
	"pos-service/internal/util"
	"pos-service/internal/ws"

	"go.uber.org/zap"
)

// RefreshWorker consumes table-change events and keeps this terminal's view
// fresh: catalog changes reload the mirror and reseed the stock counters,
// every change is pushed to connected clients over the websocket hub.
type RefreshWorker struct {
	consumer *broker.Consumer
	catalog  *repo.Catalog
	stock    *service.StockService
	hub      *ws.Hub
	logger   *zap.Logger
}

// NewRefreshWorker creates a refresh worker
func NewRefreshWorker(consumer *broker.Consumer, catalog *repo.Catalog, stock *service.StockService, hub *ws.Hub) *RefreshWorker {
	return &RefreshWorker{
		consumer: consumer,
		catalog:  catalog,
		stock:    stock,
		hub:      hub,
		logger:   util.GetLogger(),
	}
}

// Start begins consuming change events. Blocks until ctx is cancelled.
func (w *RefreshWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting refresh worker")

	handler := broker.NewEventHandler()
	handler.OnTableChanged(w.handleTableChanged)

	return w.consumer.StartConsuming(ctx, handler.HandleMessage)
}

func (w *RefreshWorker) handleTableChanged(ctx context.Context, event *models.TableChangedEvent) error {
	w.logger.Info("Table changed",
		zap.String("event_id", event.EventID),
		zap.String("table", event.Table))

	switch event.Table {
	case models.TableProducts:
		if _, err := w.catalog.Products(ctx); err != nil {
			w.logger.Error("Failed to reload products", zap.Error(err))
			return err
		}
		if err := w.stock.SyncCache(ctx); err != nil {
			w.logger.Error("Failed to resync stock cache", zap.Error(err))
		}
		util.CatalogReloadsTotal.Inc()
	case models.TableCategories:
		if _, err := w.catalog.Categories(ctx); err != nil {
			w.logger.Error("Failed to reload categories", zap.Error(err))
			return err
		}
		util.CatalogReloadsTotal.Inc()
	}

	if w.hub != nil {
		w.hub.Broadcast(event.Table)
	}
	return nil
}
