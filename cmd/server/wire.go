// File: cmd/server/wire.go
//go:build wireinject
// +build wireinject

package main

import (
	"github.com/iphenelist/vendor-backend/internal/app"
	"github.com/iphenelist/vendor-backend/internal/auth"
	"github.com/iphenelist/vendor-backend/internal/category"
	"github.com/iphenelist/vendor-backend/internal/config"
	"github.com/iphenelist/vendor-backend/internal/jobs"
	"github.com/iphenelist/vendor-backend/internal/listing"
	"github.com/iphenelist/vendor-backend/internal/platform/cache"
	"github.com/iphenelist/vendor-backend/internal/platform/database"
	"github.com/iphenelist/vendor-backend/internal/platform/logger"
	"github.com/iphenelist/vendor-backend/internal/user"
	"github.com/iphenelist/vendor-backend/internal/wishlist"

	"github.com/google/wire"
)

// initializeServer is the main Wire injector.
func initializeServer(cfg *config.Config) (*app.Server, func(), error) {
	wire.Build(
		// Platform Layer
		logger.New,
		database.NewGORM,
		cache.NewRedisStore,
		provideCleanup,

		// Auth
		auth.NewJWTTokenService,

		// Feature Modules
		user.NewGORMRepository,
		category.NewGORMRepository,
		category.NewService,
		category.NewHandler,
		listing.NewGORMRepository,
		listing.NewService,
		listing.NewHandler,
		wishlist.NewGORMRepository,
		wishlist.NewService,
		wishlist.NewHandler,
		jobs.NewListingExpiryJob,

		// Application Layer
		app.NewServer,
	)
	return nil, nil, nil
}
