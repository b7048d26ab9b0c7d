// cmd/trlist/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/anmicius0/testrail-client-go/internal/client"
	"github.com/anmicius0/testrail-client-go/internal/services"
)

func main() {
	// Allow a local .env to populate the environment tier
	_ = godotenv.Load()

	// Open project-root/app.log for append; create if missing
	logFile, err := os.OpenFile("app.log", os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		// Log fatal failure to standard error stream, as logger setup hasn't completed yet
		fmt.Fprintf(os.Stderr, "FATAL: failed to open app.log: %v\n", err) //nolint:errcheck
		os.Exit(1)
	}
	defer logFile.Close()

	// Logger setup (console writer for stdout, json for file)
	consoleWriter := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	multiWriter := zerolog.MultiLevelWriter(consoleWriter, logFile)

	// Configure global logger
	log.Logger = zerolog.New(multiWriter).With().Timestamp().Logger()
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	// Build client; credentials come from the environment or the config file
	apiClient, err := client.New(log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create client")
	}
	log.Info().Msg("API client created")

	// Context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// List projects to stdout
	seq, err := apiClient.Projects(ctx, nil)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to list projects")
	}
	count := 0
	for rec := range seq {
		count++
		log.Info().Any("project", rec["name"]).Any("id", rec["id"]).Msg("project")
	}
	log.Info().Int("count", count).Msg("Listed projects")

	// Optional CSV export: trlist <output-dir>
	if len(os.Args) > 1 {
		exporter := services.NewExportService(apiClient, os.Args[1], log.Logger)
		filename := time.Now().Format("2006-01-02_15-04-05") + ".csv"
		path, err := exporter.ExportProjects(ctx, nil, filename)
		if err != nil {
			log.Fatal().Err(err).Msg("project export failed")
		}
		fmt.Printf("Wrote export: %s\n", filepath.Clean(path))
	}
}
