// internal/services/export.go
package services

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/anmicius0/testrail-client-go/internal/client"
	"github.com/anmicius0/testrail-client-go/internal/report"
)

// ExportService turns API listings into CSV snapshots.
type ExportService struct {
	cl        *client.Client
	outputDir string
	logger    zerolog.Logger
}

// NewExportService constructs a new service writing under outputDir.
func NewExportService(cl *client.Client, outputDir string, logger zerolog.Logger) *ExportService {
	return &ExportService{cl: cl, outputDir: outputDir, logger: logger}
}

// ExportProjects fetches the project list (optionally filtered by completion
// state) and writes it as a CSV to outputDir/filename. It returns the
// written file path.
func (s *ExportService) ExportProjects(ctx context.Context, isCompleted *bool, filename string) (string, error) {
	logger := s.logger.With().Str("filename", filename).Logger()
	logger.Info().Msg("ExportProjects invoked")

	seq, err := s.cl.Projects(ctx, isCompleted)
	if err != nil {
		logger.Error().Err(err).Msg("failed to retrieve project list")
		return "", fmt.Errorf("get projects: %w", err)
	}

	var rows []report.Row
	for rec := range seq {
		rows = append(rows, rowFromRecord(rec))
	}
	logger.Info().Int("count", len(rows)).Msg("Fetched projects")

	dest := filepath.Join(s.outputDir, filename)
	if err := report.WriteCSV(dest, rows, logger); err != nil {
		return "", fmt.Errorf("write csv: %w", err)
	}
	return dest, nil
}

// rowFromRecord picks the fields the snapshot cares about out of an opaque
// record. Numeric fields arrive as float64 from the JSON decoder.
func rowFromRecord(rec client.Record) report.Row {
	row := report.Row{}
	if id, ok := rec["id"].(float64); ok {
		row.ID = int(id)
	}
	if name, ok := rec["name"].(string); ok {
		row.Name = name
	}
	if ann, ok := rec["announcement"].(string); ok {
		row.Announcement = ann
	}
	if u, ok := rec["url"].(string); ok {
		row.URL = u
	}
	if done, ok := rec["is_completed"].(bool); ok {
		row.IsCompleted = done
	}
	return row
}
