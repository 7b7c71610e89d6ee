package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"paypal-order-sync/internal/client"
	"paypal-order-sync/internal/config"
	"paypal-order-sync/internal/logger"
	"paypal-order-sync/internal/order"
	"paypal-order-sync/internal/repository"
	"paypal-order-sync/internal/server"
	"paypal-order-sync/internal/service"
)

func main() {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		fmt.Printf("Failed to parse config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		fmt.Printf("Failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	intent, err := order.ParseIntent(cfg.Paypal.Intent)
	if err != nil {
		log.Fatal("invalid PAYPAL_INTENT", zap.Error(err))
	}

	db := client.InitSqliteClient(cfg.DatabaseURL)
	paypalClient := client.NewPaypalClient(&cfg.Paypal)

	snapshotRepo := repository.NewSnapshotRepository(db)

	syncService := service.NewSyncService(
		db,
		paypalClient,
		snapshotRepo,
		intent,
		decimal.NewFromFloat(cfg.Sync.RoundingTolerance),
		log,
	)

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port

	srv := server.NewServer(syncService)

	log.Info("starting HTTP server", zap.String("addr", serverAddr))
	go func() {
		if err := srv.Start(serverAddr); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	<-sigChan
	log.Info("signal received, starting graceful shutdown")

	if err := srv.Shutdown(); err != nil {
		log.Fatal("HTTP server shutdown error", zap.Error(err))
	}
}
