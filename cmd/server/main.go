package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/shop/backend/internal/application/cart"
	"github.com/shop/backend/internal/application/catalog"
	"github.com/shop/backend/internal/application/checkout"
	"github.com/shop/backend/internal/application/identity"
	"github.com/shop/backend/internal/application/recommendation"
	"github.com/shop/backend/internal/infrastructure/auth"
	"github.com/shop/backend/internal/infrastructure/cache"
	"github.com/shop/backend/internal/infrastructure/config"
	"github.com/shop/backend/internal/infrastructure/event"
	"github.com/shop/backend/internal/infrastructure/logger"
	"github.com/shop/backend/internal/infrastructure/persistence"
	"github.com/shop/backend/internal/infrastructure/recommender"
	"github.com/shop/backend/internal/interfaces/http/handler"
	"github.com/shop/backend/internal/interfaces/http/middleware"
	"github.com/shop/backend/internal/interfaces/http/router"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server exited with error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Database
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close database connection", zap.Error(err))
		}
	}()
	log.Info("Database connection established",
		zap.String("host", cfg.Database.Host),
		zap.String("database", cfg.Database.DBName),
	)

	// Repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	cartRepo := persistence.NewGormCartRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	uow := persistence.NewGormUnitOfWork(db)

	// Event bus with an audit trail of everything that happens
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(event.NewAuditLogHandler(log))

	// Services
	jwtService := auth.NewJWTService(cfg.JWT)

	productService := catalog.NewProductService(productRepo)
	productService.SetEventPublisher(eventBus)

	cartService := cart.NewCartService(cartRepo, productRepo)

	orderService := checkout.NewOrderService(uow, orderRepo)
	orderService.SetEventPublisher(eventBus)

	authService := identity.NewAuthService(userRepo, jwtService, log)
	userService := identity.NewUserService(userRepo)

	recommendationService := recommendation.NewService(productRepo, userRepo)
	if cfg.Recommender.BaseURL != "" {
		recommendationService.SetRemoteClient(
			recommender.NewClient(cfg.Recommender, recommender.WithLogger(log)),
		)
		log.Info("Remote recommender enabled", zap.String("base_url", cfg.Recommender.BaseURL))
	}
	recCache, err := buildRecommendationCache(cfg, log)
	if err != nil {
		return err
	}
	recommendationService.SetCache(recCache, cfg.Recommender.CacheTTL)

	// HTTP engine
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()
	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		return fmt.Errorf("failed to set trusted proxies: %w", err)
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.HTTP.CORSAllowOrigins,
		AllowMethods: cfg.HTTP.CORSAllowMethods,
		AllowHeaders: cfg.HTTP.CORSAllowHeaders,
	}))

	// Routes
	jwtConfig := middleware.DefaultJWTConfig(jwtService)
	jwtConfig.Logger = log

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))
	r.Register(handler.NewSystemHandler(db))
	r.Register(handler.NewAuthHandler(authService))
	r.Register(handler.NewUserHandler(userService))
	r.Register(handler.NewProductHandler(productService))
	r.Register(handler.NewCartHandler(cartService))
	r.Register(handler.NewOrderHandler(orderService))
	r.Register(handler.NewRecommendationHandler(recommendationService))
	r.Setup()

	// Server
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		log.Info("Shutting down server", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info("Server exited")
	return nil
}

// buildRecommendationCache prefers Redis when configured and falls back
// to the in-process cache otherwise.
func buildRecommendationCache(cfg *config.Config, log *zap.Logger) (recommendation.Cache, error) {
	if cfg.Redis.Enabled {
		redisCache, err := cache.NewRedisRecommendationCache(cfg.Redis, cache.WithCacheLogger(log))
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		log.Info("Recommendation cache backed by Redis", zap.String("addr", cfg.Redis.Addr()))
		return redisCache, nil
	}
	return cache.NewInMemoryRecommendationCache(), nil
}
