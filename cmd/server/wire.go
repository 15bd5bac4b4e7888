// File: cmd/server/wire.go
//go:build wireinject
// +build wireinject

package main

import (
	"scholar_directory_backend/internal/app"
	"scholar_directory_backend/internal/config"
	"scholar_directory_backend/internal/firebase"
	"scholar_directory_backend/internal/jobs"
	"scholar_directory_backend/internal/notification"
	platformElasticsearch "scholar_directory_backend/internal/platform/elasticsearch"
	"scholar_directory_backend/internal/platform/database"
	"scholar_directory_backend/internal/platform/logger"
	"scholar_directory_backend/internal/profile"
	"scholar_directory_backend/internal/projectmode"
	"scholar_directory_backend/internal/shared"
	"scholar_directory_backend/internal/storage"
	"scholar_directory_backend/internal/user"

	"github.com/google/wire"
)

// initializeServer is the main Wire injector.
func initializeServer(cfg *config.Config) (*app.Server, func(), error) {
	wire.Build(
		// Platform Layer
		logger.New,
		database.NewGORM,
		platformElasticsearch.NewClient,

		// Firebase
		firebase.NewFirebaseService,
		wire.Bind(new(profile.AuthAccountDeleter), new(*firebase.FirebaseService)),

		// Object storage
		storage.NewS3Service,
		wire.Bind(new(storage.Service), new(*storage.S3Service)),

		// Users
		user.NewGORMRepository,
		user.NewService,
		wire.Bind(new(shared.Service), new(*user.ServiceImplementation)),
		user.NewHandler,

		// Project mode
		projectmode.NewGORMRepository,
		projectmode.NewService,

		// Notifications
		notification.NewGORMRepository,
		notification.NewService,
		notification.NewHandler,

		// Profiles
		profile.NewGORMRepository,
		profile.NewSearchIndexer,
		profile.NewService,
		profile.NewHandler,

		// Jobs
		jobs.NewOrphanCleanupJob,

		// Application Layer
		app.NewServer,
	)
	return nil, nil, nil
}
