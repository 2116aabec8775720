package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pos_orders_created_total",
		Help: "Total number of orders created",
	})

	OrdersFallbackTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pos_orders_fallback_total",
		Help: "Total number of orders persisted to the local fallback store",
	})

	OrdersRejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pos_orders_rejected_total",
		Help: "Total number of order submissions rejected by validation",
	}, []string{"reason"})

	OrdersDeliveredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pos_orders_delivered_total",
		Help: "Total number of orders marked delivered",
	})

	StockReservationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pos_stock_reservations_total",
		Help: "Total number of stock reservations by outcome",
	}, []string{"outcome"})

	StockShortageWarnings = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pos_stock_shortage_warnings_total",
		Help: "Total number of shortage warnings issued under the warn policy",
	})

	StockReserveLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pos_stock_reserve_latency_seconds",
		Help:    "Latency of stock reservation operations",
		Buckets: prometheus.DefBuckets,
	})

	RemoteFallbacksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pos_remote_fallbacks_total",
		Help: "Total number of remote calls that fell back to the local store",
	}, []string{"entity"})

	CatalogReloadsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pos_catalog_reloads_total",
		Help: "Total number of full catalog reloads triggered by invalidation",
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
