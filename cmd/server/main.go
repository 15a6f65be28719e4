package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "storefront/docs" // swagger docs

	"github.com/alexedwards/scs/goredisstore"
	"github.com/alexedwards/scs/v2"
	"github.com/alexedwards/scs/v2/memstore"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"storefront/internal/auth"
	"storefront/internal/cache"
	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/handler"
	"storefront/internal/repository"
	"storefront/internal/router"
	"storefront/internal/service"
	"storefront/internal/session"
)

// @title Storefront API
// @version 1.0
// @description Catalog, session login and per-user cart for the storefront front end.
// @host localhost:4000
// @BasePath /
// @schemes http
func main() {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	logger.SetFormatter(&logrus.JSONFormatter{})

	if err := run(logger); err != nil {
		if errors.Is(err, config.ErrHelpWanted) {
			return
		}
		logger.Error(err)
		os.Exit(1)
	}
}

func run(logger *logrus.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger.Info("starting server")
	defer logger.Info("shutdown complete")
	logger.Infof("config:\n%s", cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient, err = db.NewRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return fmt.Errorf("redis init: %w", err)
		}
		defer redisClient.Close()
	}

	repos, err := repository.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("store init: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := repos.Close(closeCtx); err != nil {
			logger.WithError(err).Warn("store close")
		}
	}()

	var store scs.Store = memstore.New()
	if redisClient != nil {
		store = goredisstore.New(redisClient)
	}
	sessions := session.NewManager(session.NewHashedStore(store, cfg.SessionSecret), cfg.Production())

	cacheClient := cache.New(redisClient)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)

	// Initialize services
	authService := service.NewAuthService(repos.Users, jwtService)
	itemService := service.NewItemService(repos.Items, cacheClient)
	cartService := service.NewCartService(repos.Users, repos.Items, repos.Carts)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService, sessions, logger)
	itemHandler := handler.NewItemHandler(itemService, logger)
	cartHandler := handler.NewCartHandler(cartService, logger)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	router.Register(
		e,
		cfg,
		logger,
		sessions,
		jwtService,
		authHandler,
		itemHandler,
		cartHandler,
	)

	lw := logger.Writer()
	defer lw.Close()

	api := &http.Server{
		Handler:      e,
		Addr:         ":" + cfg.Port,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		ErrorLog:     log.New(lw, "", 0),
	}

	serverErrors := make(chan error, 1)

	go func() {
		logger.Infof("listening on %s, swagger at /swagger/index.html", api.Addr)
		serverErrors <- api.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Infof("shutting down: signal %s", sig)

		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if err := api.Shutdown(ctx); err != nil {
			api.Close()
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
	}
	return nil
}
