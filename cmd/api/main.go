package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/gra-app/gra/handlers"
	"github.com/gra-app/gra/internal/config"
	"github.com/gra-app/gra/internal/goapi"
	"github.com/gra-app/gra/repository"
	"github.com/gra-app/gra/service"
)

func main() {
	// Load base .env first, then .env.local (which overrides for local development)
	_ = godotenv.Load(".env")
	_ = godotenv.Overload(".env.local")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if cfg.DBDriver == config.DriverSQLite {
		if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0o755); err != nil {
			log.Fatalf("Failed to create database directory: %v", err)
		}
	}

	db, err := repository.Open(cfg.DBDriver, cfg.DataSource())
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := db.EnsureSchema(context.Background()); err != nil {
		log.Fatalf("Failed to ensure database schema: %v", err)
	}

	loc, err := goapi.LoadLocation(cfg.OperatorTimezone)
	if err != nil {
		log.Fatalf("Failed to configure GO Transit client: %v", err)
	}
	client := goapi.NewClient(cfg.GOAPIBaseURL, cfg.HTTPTimeout, loc)

	routeService := service.NewRouteService(db, client, service.NewTripReconciler(), cfg.FetchTimeout)
	stationService := service.NewStationService(db, client)
	eligibilityService := service.NewEligibilityService(db, client)

	// Setup router
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", handlers.UserIDHeader},
		AllowCredentials: true,
	}))

	handlers.Register(r,
		handlers.NewRouteHandler(routeService),
		handlers.NewSystemHandler(stationService, eligibilityService),
		handlers.NewHealthHandler(db),
		cfg.AuthToken,
	)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Printf("API server starting on :%s (database: %s)", cfg.Port, db.Driver())
	log.Println("Portal endpoints:")
	log.Println("  GET    /portal/api/get-stations/")
	log.Println("  GET    /portal/api/route/{id or DEPART-ARRIVAL}/")
	log.Println("  POST   /portal/api/route/")
	log.Println("  DELETE /portal/api/route/{id}/")
	log.Println("System endpoints (Authorization required):")
	log.Println("  POST   /portal/api/system/populate-stations/")
	log.Println("  GET    /portal/api/system/route/{id}/eligibility/")
	log.Println("Health:")
	log.Println("  GET    /health (with database check)")

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	log.Println("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Shutdown failed: %v", err)
	}
	log.Println("Goodbye!")
}
