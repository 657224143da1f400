package main

import (
	"context"
	"log"
	"os"

	"farmstore/internal/channel/paystack"
	"farmstore/internal/config"
	"farmstore/internal/db"
	"farmstore/internal/reconcile"
	orderrepo "farmstore/internal/repository/order"
	ordersvc "farmstore/internal/service/order"
	"github.com/joho/godotenv"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"
)

func main() {
	_ = godotenv.Load()
	logger := log.New(os.Stdout, "[worker] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	cfg, err := config.FromEnv()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	if !cfg.ReconcileEnabled() {
		logger.Fatalf("TEMPORAL_HOST must be set")
	}
	if !cfg.PaymentsEnabled() {
		logger.Fatalf("PAYSTACK_SECRET_KEY must be set")
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	c, err := client.Dial(client.Options{HostPort: cfg.TemporalHost})
	if err != nil {
		logger.Fatalf("connect to temporal: %v", err)
	}
	defer c.Close()

	gateway := paystack.New(cfg.PaystackSecretKey, cfg.PaystackBaseURL, cfg.PaystackCallback)
	orders := ordersvc.New(orderrepo.NewPostgres(pool, logger), gateway, logger)

	w := worker.New(c, cfg.TemporalTaskQueue, worker.Options{
		Identity: "farmstore-worker-" + hostname(),
	})
	w.RegisterWorkflow(reconcile.PaymentWorkflow)
	w.RegisterActivity(&reconcile.Activities{Orders: orders})

	logger.Printf("worker starting on task queue %s", cfg.TemporalTaskQueue)
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Fatalf("worker stopped: %v", err)
	}
}

func hostname() string {
	h, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return h
}
