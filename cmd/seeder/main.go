// cmd/seeder/main.go
package main

import (
	"context"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/unclebandit/followup-tracker/internal/config"
	"github.com/unclebandit/followup-tracker/internal/db"
	"github.com/unclebandit/followup-tracker/internal/logging"
)

// Applies the schema and then the demo rows. Pass "schema" to skip the demo data.
func main() {
	cfg := config.Load()

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	conn, err := db.Init(context.Background(), cfg.DatabaseURL, cfg.DBMaxOpenConns, logger)
	if err != nil {
		logger.Fatal("database unavailable", zap.Error(err))
	}
	defer conn.Close()

	seedFiles := []string{"seed/schema.sql", "seed/demo.sql"}
	if len(os.Args) > 1 && os.Args[1] == "schema" {
		seedFiles = seedFiles[:1]
	}

	for _, file := range seedFiles {
		content, err := os.ReadFile(file)
		if err != nil {
			logger.Fatal("failed to read seed file", zap.String("file", file), zap.Error(err))
		}
		if _, err := conn.Exec(string(content)); err != nil {
			logger.Fatal("failed to execute seed file", zap.String("file", file), zap.Error(err))
		}
		logger.Info("seeded", zap.String("file", file))
	}

	logger.Info("database seeding completed")
}
