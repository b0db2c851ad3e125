package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/Raj-3200/depthndecoy/internal/auth"
	"github.com/Raj-3200/depthndecoy/internal/cache"
	"github.com/Raj-3200/depthndecoy/internal/cart"
	"github.com/Raj-3200/depthndecoy/internal/catalog"
	"github.com/Raj-3200/depthndecoy/internal/checkout"
	"github.com/Raj-3200/depthndecoy/internal/events"
	h "github.com/Raj-3200/depthndecoy/internal/http"
	"github.com/Raj-3200/depthndecoy/internal/payment"
	"github.com/Raj-3200/depthndecoy/internal/repository"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

type Config struct {
	HTTPPort         string
	MongoURI         string
	MongoDBName      string
	RedisAddr        string
	RedisPassword    string
	KafkaBrokers     []string
	CheckoutDBPath   string
	MigrationsPath   string
	GatewayBaseURL   string
	GatewayKeyID     string
	GatewayKeySecret string

	FreeShippingThreshold float64
	FlatShippingFee       float64
	TaxRate               float64
	Currency              string

	RequestTimeout  time.Duration
	PaymentTimeout  time.Duration
	ShutdownTimeout time.Duration
}

func loadConfig() *Config {
	return &Config{
		HTTPPort:         getEnv("HTTP_PORT", "8080"),
		MongoURI:         getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName:      getEnv("MONGO_DB_NAME", "storefront"),
		RedisAddr:        getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:    getEnv("REDIS_PASSWORD", ""),
		KafkaBrokers:     strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
		CheckoutDBPath:   getEnv("CHECKOUT_DB_PATH", "checkout.db"),
		MigrationsPath:   getEnv("MIGRATIONS_PATH", "migrations"),
		GatewayBaseURL:   getEnv("PAYMENT_GATEWAY_URL", ""),
		GatewayKeyID:     getEnv("PAYMENT_KEY_ID", ""),
		GatewayKeySecret: getEnv("PAYMENT_KEY_SECRET", ""),

		FreeShippingThreshold: getEnvFloat("FREE_SHIPPING_THRESHOLD", 5000),
		FlatShippingFee:       getEnvFloat("FLAT_SHIPPING_FEE", 199),
		TaxRate:               getEnvFloat("TAX_RATE", 0.18),
		Currency:              getEnv("CURRENCY", "INR"),

		RequestTimeout:  30 * time.Second,
		PaymentTimeout:  60 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func main() {
	cfg := loadConfig()

	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx := context.Background()

	// MongoDB holds the catalog, orders and account documents
	mongoDB, err := repository.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDBName)
	if err != nil {
		log.Fatal("failed to connect to MongoDB", zap.Error(err))
	}
	defer mongoDB.Client().Disconnect(ctx)
	if err := repository.EnsureIndexes(ctx, mongoDB); err != nil {
		log.Fatal("failed to create indexes", zap.Error(err))
	}
	log.Info("connected to MongoDB", zap.String("uri", cfg.MongoURI))

	catalogRepo := repository.NewCatalogMongoRepository(mongoDB)
	orderRepo := repository.NewOrderMongoRepository(mongoDB)
	addressRepo := repository.NewAddressMongoRepository(mongoDB)
	wishlistRepo := repository.NewWishlistMongoRepository(mongoDB)
	profileRepo := repository.NewProfileMongoRepository(mongoDB)

	// Redis accelerates catalog listings
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal("Redis connection failed", zap.Error(err))
	}
	log.Info("connected to Redis", zap.String("addr", cfg.RedisAddr))

	catalogSvc := catalog.NewService(catalogRepo, cache.NewRedisCache(redisClient), log)
	carts := cart.NewManager()

	// Checkout sessions live in a local SQLite file
	sessions, err := checkout.NewSQLiteSessionStore(cfg.CheckoutDBPath)
	if err != nil {
		log.Fatal("failed to open checkout session store", zap.Error(err))
	}
	defer sessions.Close()
	if err := sessions.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatal("failed to run checkout migrations", zap.Error(err))
	}

	// Without gateway credentials, charges are simulated. Only for
	// development environments.
	var gateway payment.Gateway
	if cfg.GatewayBaseURL != "" {
		gateway = payment.NewHostedGateway(cfg.GatewayBaseURL, cfg.GatewayKeyID, cfg.GatewayKeySecret, cfg.PaymentTimeout)
		log.Info("using hosted payment gateway", zap.String("url", cfg.GatewayBaseURL))
	} else {
		gateway = payment.NewSimulatedGateway(payment.RandomOutcomes{})
		log.Warn("no payment gateway configured, simulating charges")
	}

	publisher := events.NewKafkaPublisher(cfg.KafkaBrokers...)
	defer publisher.Close()

	pricing := checkout.Pricing{
		FreeShippingThreshold: cfg.FreeShippingThreshold,
		FlatShippingFee:       cfg.FlatShippingFee,
		TaxRate:               cfg.TaxRate,
		Currency:              cfg.Currency,
	}
	checkoutSvc := checkout.NewService(sessions, orderRepo, gateway, publisher, pricing, cfg.PaymentTimeout, log)

	authSvc := auth.NewService(auth.NewMemoryProvider(), profileRepo, log)

	router := h.NewRouter(h.RouterDeps{
		Catalog:  h.NewCatalogHandler(catalogSvc, cfg.RequestTimeout),
		Cart:     h.NewCartHandler(carts, catalogSvc, cfg.RequestTimeout),
		Checkout: h.NewCheckoutHandler(checkoutSvc, carts, cfg.RequestTimeout),
		Orders:   h.NewOrdersHandler(orderRepo, cfg.RequestTimeout),
		Accounts: h.NewAccountsHandler(addressRepo, wishlistRepo, profileRepo, cfg.RequestTimeout),
		Auth:     h.NewAuthHandler(authSvc, cfg.RequestTimeout),
		Verifier: authSvc,
		Timeout:  cfg.RequestTimeout,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(router, "storefront"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("storefront listening", zap.String("port", cfg.HTTPPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("forced shutdown", zap.Error(err))
	}
	log.Info("server exited")
}
