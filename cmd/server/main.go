package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pos-service/config"
	"pos-service/internal/api"
	"pos-service/internal/broker"
	"pos-service/internal/localstore"
	"pos-service/internal/media"
	"pos-service/internal/redisclient"
	"pos-service/internal/repo"
	"pos-service/internal/service"
	"pos-service/internal/session"
	"pos-service/internal/store"
	"pos-service/internal/util"
	"pos-service/internal/worker"
	"pos-service/internal/ws"

	"github.com/gin-gonic/gin"
)

func main() {

	cfg := config.Load()

	if err := util.InitLogger(cfg.Server.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting POS service")

	policy, err := service.ParsePolicy(cfg.POS.StockPolicy)
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	tp, err := util.InitTracer("pos-service", cfg.Observ.JaegerEndpoint)
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("Error shutting down tracer: %v", err)
		}
	}()

	local, err := localstore.NewStore(cfg.POS.DataDir)
	if err != nil {
		log.Fatalf("Failed to open local store: %v", err)
	}

	mediaStore, err := media.NewStore(cfg.POS.MediaDir)
	if err != nil {
		log.Fatalf("Failed to open media store: %v", err)
	}

	var catalogRemote repo.RemoteCatalog
	var customerRemote repo.RemoteCustomers
	var orderRemote repo.RemoteOrders
	db, err := store.NewStore(cfg.Database.URL)
	if err != nil {
		log.Printf("Database unavailable, serving from the local store: %v", err)
		offline := repo.NewOfflineRemote(err)
		catalogRemote, customerRemote, orderRemote = offline, offline, offline
	} else {
		defer db.Close()
		catalogRemote, customerRemote, orderRemote = db, db, db
		log.Println("Database connected")
	}

	var cache service.StockCache
	redisClient, err := redisclient.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Printf("Redis unavailable, stock counters go through the repository: %v", err)
	} else {
		defer redisClient.Close()
		cache = redisClient
		log.Println("Redis connected")
	}

	producer := broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicChanges)
	defer producer.Close()
	log.Println("Kafka producer initialized")

	eventPublisher := broker.NewEventPublisher(producer)

	catalogRepo := repo.NewCatalog(catalogRemote, local, eventPublisher, cfg.POS.CallTimeout)
	customerRepo := repo.NewCustomers(customerRemote, local, eventPublisher, cfg.POS.CallTimeout)
	orderRepo := repo.NewOrders(orderRemote, local, eventPublisher, cfg.POS.CallTimeout)

	sessions, err := session.NewManager(local)
	if err != nil {
		log.Fatalf("Failed to restore sessions: %v", err)
	}

	stockService := service.NewStockService(catalogRepo, cache, policy)
	cartService := service.NewCartService(sessions, catalogRepo, stockService)
	checkoutService := service.NewCheckoutService(sessions, orderRepo, cfg.POS.StoreName)
	lifecycleService := service.NewLifecycleService(orderRepo)
	statsService := service.NewStatsService(orderRepo)

	ctx := context.Background()
	if err := stockService.SyncCache(ctx); err != nil {
		log.Printf("Failed to seed stock cache: %v", err)
	}

	hub := ws.NewHub()

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	changeConsumer := broker.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.TopicChanges, cfg.Kafka.ConsumerGroup)
	defer changeConsumer.Close()
	refreshWorker := worker.NewRefreshWorker(changeConsumer, catalogRepo, stockService, hub)
	go func() {
		if err := refreshWorker.Start(workerCtx); err != nil && workerCtx.Err() == nil {
			log.Printf("Refresh worker error: %v", err)
		}
	}()

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	handler := api.NewHandler(
		catalogRepo,
		customerRepo,
		orderRepo,
		sessions,
		cartService,
		checkoutService,
		lifecycleService,
		statsService,
		stockService,
		mediaStore,
		hub,
	)
	handler.SetupRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting HTTP server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	workerCancel()

	log.Println("Server exited")
}
