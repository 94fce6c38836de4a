// Command migrate applies the embedded schema migrations to the configured
// database and exits.
package main

import (
	"context"
	"os"

	"github.com/sirupsen/logrus"

	"newsletter-go/internal/config"
	"newsletter-go/internal/database"
	"newsletter-go/internal/logging"
)

func main() {
	settings, err := config.Load(".")
	if err != nil {
		logrus.Fatalf("Failed to read configuration: %v", err)
	}
	logger := logging.Init(settings.Application.ServiceName+"-migrate", logrus.InfoLevel, os.Stdout)

	ctx := context.Background()
	db, err := database.Open(ctx, settings.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to Postgres: %v", err)
	}
	defer db.Close()

	applied, err := database.Migrate(ctx, db)
	if err != nil {
		logger.WithField("applied", applied).Fatalf("Failed to migrate database: %v", err)
	}

	logger.WithFields(logrus.Fields{
		"database": settings.Database.DatabaseName,
		"applied":  applied,
	}).Info("Database migrated")
}
