// internal/services/export_test.go
package services

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/anmicius0/testrail-client-go/internal/client"
	"github.com/anmicius0/testrail-client-go/internal/config"
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

func TestExportProjects_Integration(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/get_projects", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"id": 1, "name": "Project One", "announcement": "hi", "url": "http://tr/p/1", "is_completed": false},
			{"id": 2, "name": "Project Two", "url": "http://tr/p/2", "is_completed": true},
		})
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	apiClient, err := client.New(testLogger(),
		config.WithUsername("u"),
		config.WithAPIKey("key"),
		config.WithURL(srv.URL),
	)
	if err != nil {
		t.Fatalf("client.New error = %v", err)
	}

	outputDir := t.TempDir()
	svc := NewExportService(apiClient, outputDir, testLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	path, err := svc.ExportProjects(ctx, nil, "projects.csv")
	if err != nil {
		t.Fatalf("ExportProjects error = %v", err)
	}
	if path != filepath.Join(outputDir, "projects.csv") {
		t.Errorf("unexpected path %q", path)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open export: %v", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(records))
	}
	if records[1][2] != "Project One" || records[2][5] != "true" {
		t.Errorf("unexpected rows: %v", records[1:])
	}
}

func TestExportProjects_RequestFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	apiClient, err := client.New(testLogger(),
		config.WithUsername("u"),
		config.WithPassword("p"),
		config.WithURL(srv.URL),
	)
	if err != nil {
		t.Fatalf("client.New error = %v", err)
	}

	svc := NewExportService(apiClient, t.TempDir(), testLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	if _, err := svc.ExportProjects(ctx, nil, "projects.csv"); err == nil {
		t.Fatal("expected error when the listing fails")
	}
}

func TestRowFromRecord_IgnoresMissingFields(t *testing.T) {
	row := rowFromRecord(client.Record{"name": "only name"})
	if row.Name != "only name" || row.ID != 0 || row.IsCompleted {
		t.Errorf("unexpected row: %#v", row)
	}
}
