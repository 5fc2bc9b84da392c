package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/graamkart/graamkart-backend/api/routes"
	"github.com/graamkart/graamkart-backend/internal/address"
	"github.com/graamkart/graamkart-backend/internal/cart"
	"github.com/graamkart/graamkart-backend/internal/catalog"
	"github.com/graamkart/graamkart-backend/internal/coupons"
	"github.com/graamkart/graamkart-backend/internal/favorites"
	"github.com/graamkart/graamkart-backend/internal/notifications"
	"github.com/graamkart/graamkart-backend/internal/orders"
	"github.com/graamkart/graamkart-backend/internal/products"
	"github.com/graamkart/graamkart-backend/internal/users"
	"github.com/graamkart/graamkart-backend/pkg/config"
	"github.com/graamkart/graamkart-backend/pkg/db"
	"github.com/graamkart/graamkart-backend/pkg/logger"
	"github.com/graamkart/graamkart-backend/pkg/mail"
	"github.com/graamkart/graamkart-backend/pkg/metrics"
	"github.com/graamkart/graamkart-backend/pkg/migrate"
	"github.com/graamkart/graamkart-backend/pkg/push"
	"github.com/graamkart/graamkart-backend/pkg/redis"
	"github.com/graamkart/graamkart-backend/pkg/storage/gcs"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	gcsClient, err := gcs.NewClient(context.Background(), cfg.GCS, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap cloud storage", err)
		os.Exit(1)
	}
	defer func() {
		if err := gcsClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing cloud storage", err)
		}
	}()

	pushClient, err := push.New(context.Background(), cfg.Firebase, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap push messaging", err)
		os.Exit(1)
	}
	mailClient := mail.New(cfg.Sendgrid)

	gormDB := dbClient.DB()
	productRepo := products.NewRepository(gormDB)
	cartRepo := cart.NewRepository(gormDB)
	addressRepo := address.NewRepository(gormDB)
	favoriteRepo := favorites.NewRepository(gormDB)
	catalogRepo := catalog.NewRepository(gormDB)
	couponRepo := coupons.NewRepository(gormDB)
	orderRepo := orders.NewRepository(gormDB)
	userRepo := users.NewRepository(gormDB)
	notificationRepo := notifications.NewRepository(gormDB)

	cartService, err := cart.NewService(cart.ServiceParams{
		CartRepo:    cartRepo,
		ProductRepo: productRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	addressService, err := address.NewService(addressRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create address service", err)
		os.Exit(1)
	}

	favoriteService, err := favorites.NewService(favorites.ServiceParams{
		Repo:        favoriteRepo,
		ProductRepo: productRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create favorites service", err)
		os.Exit(1)
	}

	catalogService, err := catalog.NewService(catalog.ServiceParams{
		Repo:   catalogRepo,
		Assets: gcsClient,
		Logger: logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	productService, err := products.NewService(products.ServiceParams{
		Repo:   productRepo,
		Assets: gcsClient,
		Logger: logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create product service", err)
		os.Exit(1)
	}

	couponService, err := coupons.NewService(coupons.ServiceParams{Repo: couponRepo})
	if err != nil {
		logg.Error(context.Background(), "failed to create coupon service", err)
		os.Exit(1)
	}

	orderService, err := orders.NewService(orders.ServiceParams{
		Repo:        orderRepo,
		ProductRepo: productRepo,
		AddressRepo: addressRepo,
		Coupons:     couponService,
		Push:        pushClient,
		Mail:        mailClient,
		Logger:      logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create order service", err)
		os.Exit(1)
	}

	userService, err := users.NewService(users.ServiceParams{
		Repo:        userRepo,
		Cart:        cartService,
		Favorites:   favoriteService,
		AddressRepo: addressRepo,
		OrderRepo:   orderRepo,
		Assets:      gcsClient,
		JWT:         cfg.JWT,
		Password:    cfg.Password,
		Logger:      logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create user service", err)
		os.Exit(1)
	}

	notificationService, err := notifications.NewService(notifications.ServiceParams{
		Repo: notificationRepo,
		Push: pushClient,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create notification service", err)
		os.Exit(1)
	}

	httpMetrics := metrics.NewHTTPMetrics()

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, httpMetrics, routes.Services{
			Users:         userService,
			Cart:          cartService,
			Address:       addressService,
			Favorites:     favoriteService,
			Catalog:       catalogService,
			Products:      productService,
			Coupons:       couponService,
			Orders:        orderService,
			Notifications: notificationService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
