package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/danielhkuo/quickly-cart/cliparse"
	"github.com/danielhkuo/quickly-cart/db"
	"github.com/danielhkuo/quickly-cart/executor"
	"github.com/danielhkuo/quickly-cart/middleware"
	"github.com/danielhkuo/quickly-cart/router"
	"github.com/danielhkuo/quickly-cart/session"
)

func main() {
	var err error

	// Local development settings; real environment variables win
	if err := cliparse.LoadEnvFile(".env"); err != nil {
		slog.Error("Error loading .env", "error", err)
		os.Exit(1)
	}

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	// Connect to the session database
	dbConn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		slog.Error("database connection failed", "type", cfg.DatabaseType, "error", err)
		os.Exit(1)
	}
	defer dbConn.Close()

	// Create schema (tables)
	if err := db.CreateSchema(dbConn); err != nil {
		slog.Error("schema creation failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database schema ready", "type", cfg.DatabaseType)

	cart := executor.NewCartClient(cfg.CartAPIURL, &http.Client{
		Timeout: cfg.RequestTimeout,
	})
	sessions := session.NewManager(dbConn, cart, session.Options{
		TTL:            cfg.SessionTTL,
		RequestTimeout: cfg.RequestTimeout,
		TokenSalt:      cfg.TokenSalt,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Expire stale session storage in the background
	go sessions.Run(ctx, session.DefaultSweepInterval)

	// Create router
	mux := router.NewRouter(sessions, cfg)

	// Create server
	server := http.Server{
		Handler:           middleware.CORS(cfg.AllowedOrigins)(mux),
		Addr:              ":" + strconv.Itoa(cfg.Port),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		// Wait for Ctrl-C signal
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port, "cart_api", cfg.CartAPIURL)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}
