package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/GUNZO-DEV/atlaas-go-delivery-sub003/internal/cart"
	"github.com/GUNZO-DEV/atlaas-go-delivery-sub003/internal/catalog"
	"github.com/GUNZO-DEV/atlaas-go-delivery-sub003/internal/checkout"
	"github.com/GUNZO-DEV/atlaas-go-delivery-sub003/internal/config"
	"github.com/GUNZO-DEV/atlaas-go-delivery-sub003/internal/db"
	"github.com/GUNZO-DEV/atlaas-go-delivery-sub003/internal/estimate"
	"github.com/GUNZO-DEV/atlaas-go-delivery-sub003/internal/events"
	httpserver "github.com/GUNZO-DEV/atlaas-go-delivery-sub003/internal/http"
	"github.com/GUNZO-DEV/atlaas-go-delivery-sub003/internal/order"
	"github.com/GUNZO-DEV/atlaas-go-delivery-sub003/internal/push"
	"github.com/GUNZO-DEV/atlaas-go-delivery-sub003/internal/referral"
	"github.com/GUNZO-DEV/atlaas-go-delivery-sub003/internal/tracking"
)

func main() {
	cfg := config.Load()

	logger := log.New(os.Stdout, "[atlaas-api] ", log.LstdFlags|log.Lshortfile)

	dsn := cfg.DatabaseDSN
	if dsn == "" {
		dsn = db.GetDSN()
	}
	if err := db.RunMigrations(dsn, logger); err != nil {
		logger.Fatalf("run migrations: %v", err)
	}

	database := db.MustOpen(dsn)
	defer database.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		logger.Fatalf("open pgx pool: %v", err)
	}
	defer pool.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer redisClient.Close()

	rabbitConn := events.MustDialRabbit()
	defer rabbitConn.Close()

	// Repositories
	orderRepo := order.NewRepository(database)
	referralRepo := referral.NewRepository(database)
	catalogRepo := catalog.NewRepository(database)
	trackingRepo := tracking.NewRepository(database)
	pushRepo := push.NewRepository(database)
	historyRepo := estimate.NewPostgresHistory(pool)
	sequenceRepo := events.NewSequenceRepository(database)

	// Services
	publisher, err := events.NewPublisher(rabbitConn, sequenceRepo)
	if err != nil {
		logger.Fatalf("create publisher: %v", err)
	}

	carts := cart.NewStore()
	menuCache := catalog.NewRedisMenuCache(redisClient)
	catalogSvc := catalog.NewService(catalogRepo, menuCache, logger)
	resolver := referral.NewResolver(referralRepo, logger)
	estimator := estimate.NewEstimator(historyRepo, logger)
	checkoutSvc := checkout.NewService(carts, orderRepo, resolver, catalogSvc, estimator, publisher, logger)
	trackers := tracking.NewManager(trackingRepo, cfg.TrackingInterval, logger)
	pushManager := push.NewManager(pushRepo, cfg.VAPIDPublicKey)
	notifier := push.NewNotifier(pushRepo, push.NewLogSender(logger), logger)

	if err := events.StartOrderStatusConsumer(ctx, rabbitConn, notifier, logger); err != nil {
		logger.Fatalf("start order.status consumer: %v", err)
	}

	mux := httpserver.NewRouter(
		httpserver.NewCartHandler(carts, catalogSvc, checkoutSvc),
		httpserver.NewOrderHandler(orderRepo, publisher, trackers, estimator, logger),
		httpserver.NewCatalogHandler(catalogSvc, estimator),
		httpserver.NewTrackingHandler(trackers, trackingRepo),
		httpserver.NewPushHandler(pushManager),
	)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Printf("atlaas-api listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Printf("shutdown signal received")
	case err := <-errCh:
		logger.Fatalf("server error: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Printf("graceful shutdown error: %v", err)
	}
	trackers.StopAll()
	if err := publisher.Close(); err != nil {
		logger.Printf("publisher close error: %v", err)
	}
}
