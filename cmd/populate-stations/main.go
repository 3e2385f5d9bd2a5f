package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"github.com/gra-app/gra/internal/config"
	"github.com/gra-app/gra/internal/goapi"
	"github.com/gra-app/gra/repository"
	"github.com/gra-app/gra/service"
)

func main() {
	_ = godotenv.Load(".env")
	_ = godotenv.Overload(".env.local")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Command line flags override the environment
	driver := flag.String("driver", cfg.DBDriver, "Database driver (sqlite or postgres)")
	dataSource := flag.String("db", cfg.DataSource(), "SQLite path or PostgreSQL URL")
	baseURL := flag.String("api", cfg.GOAPIBaseURL, "GO Transit EligibilityService base URL")
	timeout := flag.Duration("timeout", time.Minute, "Overall time limit for the run")
	flag.Parse()

	if *driver == config.DriverSQLite {
		if err := os.MkdirAll(filepath.Dir(*dataSource), 0o755); err != nil {
			log.Fatalf("Failed to create database directory: %v", err)
		}
	}

	db, err := repository.Open(*driver, *dataSource)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := db.EnsureSchema(ctx); err != nil {
		log.Fatalf("Failed to ensure schema: %v", err)
	}

	loc, err := goapi.LoadLocation(cfg.OperatorTimezone)
	if err != nil {
		log.Fatalf("Failed to configure GO Transit client: %v", err)
	}
	client := goapi.NewClient(*baseURL, cfg.HTTPTimeout, loc)

	run, err := service.NewStationService(db, client).Populate(ctx)
	if err != nil {
		log.Fatalf("Station population failed: %v", err)
	}

	log.Printf("Done: %d stations fetched, %d inserted, %d skipped", run.Fetched, run.Inserted, run.Skipped)
}
