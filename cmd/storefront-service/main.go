package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/baykery/storefront-service/internal/api"
	"github.com/baykery/storefront-service/internal/api/handlers"
	"github.com/baykery/storefront-service/internal/cache"
	"github.com/baykery/storefront-service/internal/config"
	"github.com/baykery/storefront-service/internal/repository"
	"github.com/baykery/storefront-service/internal/service"
	"github.com/baykery/storefront-service/pkg/db"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", "storefront").Logger()

	cfg, err := config.Load(".env")
	if err != nil {
		logger.Fatal().Err(err).Msg("load config")
	}

	conn, err := db.NewPostgresConnection(cfg.DSN())
	if err != nil {
		logger.Fatal().Err(err).Msg("db connect")
	}
	defer conn.Close()

	if err := db.RunMigrations(cfg.MigrationsPath, cfg.DSN()); err != nil {
		logger.Fatal().Err(err).Msg("run migrations")
	}

	productRepo := repository.NewProductRepo(conn)
	categoryRepo := repository.NewCategoryRepo(conn)
	zoneRepo := repository.NewZoneRepo(conn)
	couponRepo := repository.NewCouponRepo(conn)
	orderRepo := repository.NewOrderRepo(conn)
	userRepo := repository.NewUserRepo(conn)

	sessionTTL := time.Duration(cfg.SessionTTLHours) * time.Hour
	checkoutSvc := service.NewCheckoutService(productRepo, zoneRepo, couponRepo, orderRepo, cfg.MaxOrdersPerWindow)
	authSvc := service.NewAuthService(userRepo, sessionTTL)

	// Stale sessions pile up otherwise; a sweep at boot is enough for the
	// traffic this service sees.
	{
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := userRepo.DeleteExpiredSessions(ctx, time.Now()); err != nil {
			logger.Warn().Err(err).Msg("sweep expired sessions")
		}
		cancel()
	}

	zoneCache := cache.NewZoneCache()

	router := api.NewRouter(api.Handlers{
		Checkout:   handlers.NewCheckoutHandler(checkoutSvc, logger),
		Products:   handlers.NewProductHandler(productRepo, logger),
		Categories: handlers.NewCategoryHandler(categoryRepo, logger),
		Zones:      handlers.NewZoneHandler(zoneRepo, zoneCache, logger),
		Coupons:    handlers.NewCouponHandler(couponRepo, logger),
		Orders:     handlers.NewOrderHandler(orderRepo, logger),
		Auth:       handlers.NewAuthHandler(authSvc, sessionTTL, logger),
	}, authSvc, logger)

	srv := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// graceful shutdown
	idleConnsClosed := make(chan struct{})
	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error().Err(err).Msg("server shutdown")
		}
		close(idleConnsClosed)
	}()

	logger.Info().Str("addr", srv.Addr).Msg("starting storefront-service")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal().Err(err).Msg("listen")
	}

	<-idleConnsClosed
	logger.Info().Msg("server stopped")
}
