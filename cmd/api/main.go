package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"farmstore/internal/channel/paystack"
	"farmstore/internal/channel/whatsapp"
	"farmstore/internal/config"
	"farmstore/internal/db"
	"farmstore/internal/httpserver"
	"farmstore/internal/notify"
	"farmstore/internal/reconcile"
	cartrepo "farmstore/internal/repository/cart"
	categoryrepo "farmstore/internal/repository/category"
	orderrepo "farmstore/internal/repository/order"
	productrepo "farmstore/internal/repository/product"
	profilerepo "farmstore/internal/repository/profile"
	tokenrepo "farmstore/internal/repository/token"
	adminsvc "farmstore/internal/service/admin"
	authsvc "farmstore/internal/service/auth"
	cartsvc "farmstore/internal/service/cart"
	categorysvc "farmstore/internal/service/category"
	checkoutsvc "farmstore/internal/service/checkout"
	ordersvc "farmstore/internal/service/order"
	productsvc "farmstore/internal/service/product"
	usersvc "farmstore/internal/service/user"
	"farmstore/internal/session"
	"farmstore/internal/telemetry"
	"github.com/joho/godotenv"
	"go.temporal.io/sdk/client"
)

const tokenPurgeInterval = time.Hour

func main() {
	_ = godotenv.Load()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	cfg, err := config.FromEnv()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, "farmstore-api", cfg.OTelEndpoint)
	if err != nil {
		logger.Printf("tracing disabled: %v", err)
	}
	defer shutdownTracing(context.Background())

	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	productRepo := productrepo.NewPostgres(dbpool, logger)
	cartRepo := cartrepo.NewPostgres(dbpool, logger)
	profileRepo := profilerepo.NewPostgres(dbpool, logger)
	tokenRepo := tokenrepo.NewPostgres(dbpool)
	orderRepo := orderrepo.NewPostgres(dbpool, logger)

	notifier := session.NewNotifier()
	notifier.Subscribe(func(e session.Event) {
		logger.Printf("session: %s user_id=%s email=%s", e.Kind, e.Identity.UserID, e.Identity.Email)
	})
	authService := authsvc.New(profileRepo, tokenRepo, []byte(cfg.JWTSecret), cfg.AccessTokenTTL, notifier)
	resolver := session.NewResolver(authService, logger)

	hub := notify.NewHub(cfg.AllowedOrigins, logger)
	defer hub.Close()
	checkoutOpts := []checkoutsvc.Option{checkoutsvc.WithPublisher(hub)}

	var watcher *reconcile.Client
	if cfg.ReconcileEnabled() {
		tc, err := client.Dial(client.Options{HostPort: cfg.TemporalHost})
		if err != nil {
			logger.Fatalf("connect to temporal: %v", err)
		}
		defer tc.Close()
		watcher = reconcile.NewClient(tc, cfg.TemporalTaskQueue, cfg.ReconcileWindow)
		checkoutOpts = append(checkoutOpts, checkoutsvc.WithWatcher(watcher))
		logger.Printf("payment reconciliation enabled queue=%s", cfg.TemporalTaskQueue)
	}

	link := whatsapp.New(cfg.WhatsAppNumber)
	var (
		checkoutService *checkoutsvc.Service
		orderService    *ordersvc.Service
	)
	if cfg.PaymentsEnabled() {
		gateway := paystack.New(cfg.PaystackSecretKey, cfg.PaystackBaseURL, cfg.PaystackCallback)
		checkoutService = checkoutsvc.New(orderRepo, link, gateway, logger, checkoutOpts...)
		orderService = ordersvc.New(orderRepo, gateway, logger)
	} else {
		logger.Printf("card payments disabled: PAYSTACK_SECRET_KEY not set")
		checkoutService = checkoutsvc.New(orderRepo, link, nil, logger, checkoutOpts...)
		orderService = ordersvc.New(orderRepo, nil, logger)
	}
	if watcher != nil {
		orderService.WithSignaler(watcher)
	}

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		Sessions:        resolver,
		AuthSvc:         authService,
		ProductSvc:      productsvc.New(productRepo),
		CategorySvc:     categorysvc.New(categoryrepo.NewPostgres(dbpool, logger)),
		CartSvc:         cartsvc.New(cartRepo),
		CheckoutSvc:     checkoutService,
		OrderSvc:        orderService,
		UserSvc:         usersvc.New(profileRepo, logger),
		StatsSvc:        adminsvc.New(orderRepo, productRepo, profileRepo),
		OrderFeed:       hub,
		AllowedOrigins:  cfg.AllowedOrigins,
		AdminServiceKey: cfg.AdminServiceKey,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	go purgeTokens(ctx, authService, logger)

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}

func purgeTokens(ctx context.Context, auth *authsvc.Service, logger *log.Logger) {
	ticker := time.NewTicker(tokenPurgeInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := auth.PurgeExpired(ctx)
			if err != nil {
				logger.Printf("purge expired tokens: %v", err)
				continue
			}
			if n > 0 {
				logger.Printf("purged %d expired tokens", n)
			}
		}
	}
}
