package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/AdonesMapula/rapollo-web/internal/cache"
	"github.com/AdonesMapula/rapollo-web/internal/cart"
	"github.com/AdonesMapula/rapollo-web/internal/catalog"
	"github.com/AdonesMapula/rapollo-web/internal/checkout"
	h "github.com/AdonesMapula/rapollo-web/internal/http"
	"github.com/AdonesMapula/rapollo-web/internal/notify"
	"github.com/AdonesMapula/rapollo-web/internal/repository"
	"github.com/AdonesMapula/rapollo-web/internal/upload"
)

type Config struct {
	HTTPPort        string
	MongoURI        string
	MongoDatabase   string
	RedisAddr       string
	RedisPassword   string
	RelayURL        string
	KafkaBrokers    []string
	JWTSecret       string
	UploadEndpoint  string
	UploadPreset    string
	UploadFolder    string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

func loadConfig() *Config {
	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		MongoURI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:   getEnv("MONGO_DB_NAME", "rapollodb"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		RelayURL:        getEnv("RELAY_URL", "http://localhost:5000"),
		KafkaBrokers:    strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
		JWTSecret:       getEnv("JWT_SECRET", "dev-secret"),
		UploadEndpoint:  getEnv("UPLOAD_ENDPOINT", "https://api.cloudinary.com/v1_1/rapollo/image/upload"),
		UploadPreset:    getEnv("UPLOAD_PRESET", "rapollo_receipts"),
		UploadFolder:    getEnv("UPLOAD_FOLDER", "receipts"),
		RequestTimeout:  30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := loadConfig()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	db, err := repository.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDatabase)
	cancel()
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.Client().Disconnect(ctx); err != nil {
			log.Printf("Failed to disconnect from MongoDB: %v", err)
		}
	}()

	ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
	if err := repository.EnsureCartIndexes(ctx, db); err != nil {
		log.Printf("Failed to create cart indexes: %v", err)
	}
	cancel()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	ctx, cancel = context.WithTimeout(context.Background(), 5*time.Second)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	cancel()
	defer redisClient.Close()

	cartRepo := repository.NewMongoCartRepository(db)
	catalogRepo := repository.NewMongoCatalogRepository(db)
	orderRepo := repository.NewMongoOrderRepository(db)
	outboxRepo := repository.NewMongoOutboxRepository(db)

	cartCache := cache.NewRedisCache(redisClient)
	cartService := cart.NewService(cartRepo, cartCache)
	catalogService := catalog.NewService(catalogRepo)

	relayClient := notify.NewRelayClient(cfg.RelayURL)
	uploader := upload.NewImageHostUploader(cfg.UploadEndpoint, cfg.UploadPreset, cfg.UploadFolder)
	checkoutService := checkout.NewService(cartService, catalogRepo, orderRepo, outboxRepo, uploader, relayClient)

	poller := notify.NewOutboxPoller(outboxRepo, relayClient, cfg.KafkaBrokers...)
	pollerCtx, stopPoller := context.WithCancel(context.Background())
	go poller.Run(pollerCtx)
	defer func() {
		stopPoller()
		if err := poller.Close(); err != nil {
			log.Printf("Failed to close outbox poller: %v", err)
		}
	}()

	catalogHandler := h.NewCatalogHandler(catalogService, cfg.RequestTimeout)
	cartHandler := h.NewCartHandler(cartService, catalogService, cfg.RequestTimeout)
	checkoutHandler := h.NewCheckoutHandler(checkoutService, cfg.RequestTimeout)
	ordersHandler := h.NewOrdersHandler(orderRepo, cfg.RequestTimeout)

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(h.RequestIDMiddleware)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))
	r.Use(h.MetricsMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", catalogHandler.ListProducts)
		r.Get("/events", catalogHandler.ListEvents)
		r.Get("/events/years", catalogHandler.ListEventYears)
		r.Get("/emcees", catalogHandler.ListEmcees)
		r.Get("/tickets", catalogHandler.ListTicketEvents)

		r.Group(func(r chi.Router) {
			r.Use(h.SessionMiddleware)

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", cartHandler.GetCart)
				r.Delete("/", cartHandler.ClearCart)
				r.Post("/items", cartHandler.AddItem)
				r.Post("/items/{index}/increment", cartHandler.Increment)
				r.Post("/items/{index}/decrement", cartHandler.Decrement)
				r.Delete("/items/{index}", cartHandler.RemoveLine)
			})

			r.Post("/checkout", checkoutHandler.Submit)
		})

		r.Post("/tickets/checkout", checkoutHandler.SubmitTicket)

		r.Group(func(r chi.Router) {
			r.Use(h.JWTAuthMiddleware(cfg.JWTSecret))
			r.Get("/orders", ordersHandler.ListOrders)
		})
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Storefront API starting on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("server exited")
}
