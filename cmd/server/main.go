// File: cmd/server/main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/iphenelist/vendor-backend/internal/category"
	"github.com/iphenelist/vendor-backend/internal/config"
	"github.com/iphenelist/vendor-backend/internal/conversation"
	"github.com/iphenelist/vendor-backend/internal/listing"
	"github.com/iphenelist/vendor-backend/internal/location"
	"github.com/iphenelist/vendor-backend/internal/platform/database"
	"github.com/iphenelist/vendor-backend/internal/platform/logger"
	"github.com/iphenelist/vendor-backend/internal/wishlist"

	"go.uber.org/zap"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "seed-locations":
			runLocationSeed()
			return
		case "migrate":
			runMigrations()
			return
		}
	}

	startServer()
}

// runMigrations syncs the schema for every table this service owns. The
// users/seller_profiles tables belong to the identity service and are left
// alone.
func runMigrations() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration for migration: %v", err)
	}
	db, err := database.NewGORM(cfg)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize database for migration: %v", err)
	}
	defer database.CloseGORMDB(db)

	err = db.AutoMigrate(
		&category.Category{},
		&listing.Listing{},
		&listing.ListingImage{},
		&wishlist.Item{},
		&conversation.Conversation{},
		&conversation.Message{},
		&location.Location{},
	)
	if err != nil {
		log.Fatalf("FATAL: Migration failed: %v", err)
	}
	log.Println("INFO: Migration complete.")
}

// runLocationSeed installs the built-in region fixture and exits. Safe to
// run against a seeded database.
func runLocationSeed() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration for seeding: %v", err)
	}
	appLogger, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize logger for seeding: %v", err)
	}
	db, err := database.NewGORM(cfg)
	if err != nil {
		appLogger.Fatal("FATAL: Failed to initialize database for seeding", zap.Error(err))
	}
	defer database.CloseGORMDB(db)

	seeder := location.NewSeeder(db, appLogger)
	result, err := seeder.Seed(context.Background())
	if err != nil {
		appLogger.Fatal("FATAL: Location seeding failed", zap.Error(err))
	}

	appLogger.Info("Location seeding finished",
		zap.Strings("added", result.Added),
		zap.Strings("updated", result.Updated),
		zap.Int("failed", len(result.Failed)),
	)
	if len(result.Failed) > 0 {
		for name, reason := range result.Failed {
			appLogger.Warn("Location was skipped", zap.String("name", name), zap.String("reason", reason))
		}
		os.Exit(1)
	}
}

func startServer() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	server, cleanup, err := initializeServer(cfg)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize server: %v", err)
	}
	defer cleanup()

	go func() {
		if err := server.Start(); err != nil && err.Error() != "http: Server closed" {
			log.Fatalf("FATAL: Server failed to start or crashed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Printf("INFO: Received signal '%s'. Shutting down server...", sig)

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.ServerTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("ERROR: Server forced to shutdown due to error: %v", err)
	} else {
		log.Println("INFO: Server shutdown complete.")
	}
	log.Println("INFO: Application exiting.")
}
