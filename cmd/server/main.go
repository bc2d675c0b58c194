package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	storeapi "github.com/thriftwear/storefront/api/echo"
	"github.com/thriftwear/storefront/cache"
	rediscache "github.com/thriftwear/storefront/cache/redis"
	"github.com/thriftwear/storefront/config"
	"github.com/thriftwear/storefront/domain"
	"github.com/thriftwear/storefront/internal/auth"
	"github.com/thriftwear/storefront/internal/idp"
	"github.com/thriftwear/storefront/mongodb"
	"github.com/thriftwear/storefront/services"
	"github.com/thriftwear/storefront/session"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logLevel, parseErr := zerolog.ParseLevel(cfg.LogLevel)
	if parseErr != nil {
		logLevel = zerolog.InfoLevel
	}
	logger := zerolog.New(os.Stderr).Level(logLevel).With().Timestamp().Logger()
	if cfg.LogPretty {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	log.Logger = logger

	log.Info().
		Str("http_addr", cfg.HTTPAddr).
		Str("mongo_db_name", cfg.MongoDBName).
		Str("cache_backend", string(cfg.CacheBackend)).
		Msg("Starting storefront server")

	ctx := context.Background()
	if initErr := mongodb.InitMongoDB(ctx, cfg.MongoURI, cfg.MongoDBName); initErr != nil {
		log.Fatal().Err(initErr).Msg("Failed to initialize MongoDB connection")
	}
	db := mongodb.GetDB()

	// Repositories
	profileRepo, err := mongodb.NewProfileRepository(ctx, db)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize ProfileRepository")
	}
	productRepo, err := mongodb.NewProductRepository(ctx, db)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize ProductRepository")
	}
	orderRepo, err := mongodb.NewOrderRepository(ctx, db)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize OrderRepository")
	}
	reviewRepo, err := mongodb.NewReviewRepository(ctx, db)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize ReviewRepository")
	}
	credentialRepo, err := mongodb.NewCredentialRepository(ctx, db)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize CredentialRepository")
	}
	cartRepo := mongodb.NewCartRepository(db)

	// Identity provider
	var federation *idp.Federation
	if cfg.FederationClientID != "" {
		federation = &idp.Federation{
			ClientID:     cfg.FederationClientID,
			ClientSecret: cfg.FederationClientSecret,
			RedirectURL:  cfg.FederationRedirectURL,
			AuthURL:      cfg.FederationAuthURL,
			TokenURL:     cfg.FederationTokenURL,
			UserInfoURL:  cfg.FederationUserInfoURL,
			Scopes:       cfg.FederationScopes,
		}
	}
	provider := idp.NewServer(credentialRepo, auth.NewBcryptPasswordHasher(0), federation)

	// Session cache
	var sessionCache domain.SessionCache
	switch cfg.CacheBackend {
	case config.CacheBackendRedis:
		redisClient := goredis.NewClient(&goredis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		sessionCache = rediscache.NewSessionCache(redisClient, cfg.CacheKeyPrefix)
	default:
		sessionCache = cache.NewMemorySessionCache()
	}

	// Session manager
	sessions := session.NewManager(provider, profileRepo, sessionCache, session.Options{
		CacheTTL:    cfg.SessionCacheTTL,
		InitTimeout: cfg.BootstrapTimeout,
	})
	defer sessions.Close()

	bootstrapCtx, cancel := context.WithTimeout(ctx, cfg.BootstrapTimeout+time.Second)
	if err := sessions.Bootstrap(bootstrapCtx); err != nil {
		log.Warn().Err(err).Msg("Session bootstrap did not complete cleanly")
	}
	cancel()

	// Services
	catalogService := services.NewCatalogService(productRepo)
	cartService := services.NewCartService(cartRepo)
	wishlistService := services.NewWishlistService(profileRepo, productRepo)
	orderService := services.NewOrderService(orderRepo, cartRepo)
	reviewService := services.NewReviewService(reviewRepo, orderRepo, productRepo, profileRepo)
	profileService := services.NewProfileService(profileRepo, provider, sessions)

	// HTTP server
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())

	api := storeapi.NewStorefrontAPI(sessions, catalogService, cartService,
		wishlistService, orderService, reviewService, profileService)
	api.RegisterRoutes(e)

	e.GET("/healthz", func(c echo.Context) error {
		if err := mongodb.Ping(c.Request().Context()); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	go func() {
		if err := e.Start(cfg.HTTPAddr); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down storefront server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown failed")
	}
	if err := mongodb.Disconnect(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("MongoDB disconnect failed")
	}
}
