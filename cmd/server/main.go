package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/khmarket/price-tracker/internal/catalog"
	"github.com/khmarket/price-tracker/internal/metrics"
	"github.com/khmarket/price-tracker/internal/store"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	port := os.Getenv("PORT")
	if port == "" {
		port = "5000"
	}

	// --- Initialize store ---
	// Catalog state lives in memory for the process lifetime, loaded from
	// the seed dataset. There is no persistence layer behind it.
	st := store.NewMemoryStore(store.SeedMarkets())
	slog.Info("catalog seeded", "markets", len(store.SeedMarkets()))

	// --- WebSocket hub ---
	wsHub := catalog.NewWSHub()
	go wsHub.Run()

	// --- Catalog service ---
	svc := catalog.NewService(st, wsHub)

	// --- HTTP router ---
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(metrics.Middleware)

	// CORS middleware for frontend cross-origin requests.
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	})

	// Prometheus metrics endpoint.
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"status":"OK","message":"Price Tracker API is running"}`))
		})

		// WebSocket endpoint for live catalog updates.
		r.Get("/ws", wsHub.HandleWS)

		// Read side.
		r.Get("/markets", svc.ListMarkets)
		r.Get("/prices", svc.ListPrices)
		r.Get("/compare", svc.Compare)

		// Item management.
		r.Post("/market/{marketID}/item", svc.AddItem)
		r.Put("/market/{marketID}/item/{itemID}", svc.UpdateItem)
		r.Delete("/market/{marketID}/item/{itemID}", svc.DeleteItem)
	})

	// --- Server ---
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("price-tracker listening", "port", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	slog.Info("shutting down price-tracker...")
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "err", err)
	}
	fmt.Println("price-tracker stopped")
}
