// File: cmd/server/providers.go
package main

import (
	"log"

	"github.com/iphenelist/vendor-backend/internal/platform/cache"
	"github.com/iphenelist/vendor-backend/internal/platform/database"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// provideCleanup bundles the shutdown work for resources the injector opens.
func provideCleanup(logger *zap.Logger, db *gorm.DB, store cache.Store) func() {
	return func() {
		logger.Info("Executing cleanup tasks...")
		database.CloseGORMDB(db)
		if err := store.Close(); err != nil {
			log.Printf("ERROR: Failed to close cache store during cleanup: %v", err)
		}
		if err := logger.Sync(); err != nil {
			log.Printf("ERROR: Failed to sync logger during cleanup: %v", err)
		}
		log.Println("Cleanup finished.")
	}
}
