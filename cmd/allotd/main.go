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

	"github.com/SherClockHolmes/webpush-go"

	"hostel-allotment-backend/config"
	"hostel-allotment-backend/internal/api"
	"hostel-allotment-backend/internal/auth"
	"hostel-allotment-backend/internal/db"
	"hostel-allotment-backend/internal/engine"
	"hostel-allotment-backend/internal/notification"
	"hostel-allotment-backend/internal/store"
)

func main() {
	// Setup logger
	logger := log.New(os.Stdout, "allotd ", log.LstdFlags)

	// Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml" // Default path for local development
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}
	logger.Printf("configuration loaded successfully from %s", configPath)

	if cfg.Auth.JWTSecret == "" {
		logger.Fatalf("auth.jwt_secret must be configured; tokens cannot be verified without it.")
	}

	policy, err := engine.ParsePolicy(cfg.Queue.EligibilityPolicy)
	if err != nil {
		logger.Fatalf("invalid queue.eligibility_policy: %v", err)
	}

	// Initialize database
	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		logger.Fatalf("failed to initialize database: %v", err)
	}
	logger.Println("database initialized successfully")

	// Create a context that can be cancelled
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appStore := store.NewGormStore(gormDB)
	logger.Println("data store initialized")

	verifier := auth.NewVerifier(cfg.Auth.JWTSecret)

	// Turn-start push notifications are optional; without VAPID keys the
	// engine still broadcasts to viewers over the socket.
	var pool *notification.WorkerPool
	if cfg.Push.PublicKey != "" && cfg.Push.PrivateKey != "" {
		webpushOptions := webpush.Options{
			VAPIDPublicKey:  cfg.Push.PublicKey,
			VAPIDPrivateKey: cfg.Push.PrivateKey,
			Subscriber:      cfg.Push.Subject,
			TTL:             cfg.Push.TTL,
		}
		pool = notification.NewWorkerPool(cfg.WorkerPool.Size, gormDB, &webpushOptions)
		pool.Start(ctx)
		logger.Printf("notification worker pool started with %d workers", cfg.WorkerPool.Size)
	} else {
		logger.Println("VAPID keys not configured; turn push notifications disabled")
	}

	// Wire the queue engine
	queues := engine.NewManager(nil)
	hub := engine.NewHub()

	turnChanged := func(hostelID string, next engine.Group, hasNext bool) {
		if !hasNext {
			return
		}
		hub.Broadcast(hostelID, engine.Frame{Type: "turn", HostelID: hostelID, GroupID: next.ID})
		if pool != nil {
			pool.Dispatch(notification.TurnJob{
				HostelID:   hostelID,
				GroupID:    next.ID,
				StudentIDs: next.MemberIDs(),
			})
		}
	}

	service := engine.NewService(queues, appStore, hub, cfg.Queue.TurnWindow, policy, turnChanged)
	sweeper := engine.NewSweeper(queues, cfg.Queue.SweepInterval, cfg.Queue.TurnWindow, turnChanged)
	gateway := api.NewGateway(ctx, verifier, appStore, queues, service, sweeper, hub)

	// Initialize router
	router := api.NewRouter(cfg, appStore, verifier, gateway)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Start the server in a goroutine
	go func() {
		logger.Printf("HTTP server starting on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("HTTP server ListenAndServe: %v", err)
		}
	}()

	// Setup signal handling for graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	// Block until a signal is received.
	<-stop
	logger.Println("Shutdown signal received, stopping services...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatalf("HTTP server Shutdown: %v", err)
	}

	logger.Println("Server gracefully stopped")
}
