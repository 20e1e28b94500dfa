package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/erentorlak/storemigrate/migration"
	"github.com/erentorlak/storemigrate/storage"
	"github.com/erentorlak/storemigrate/workflow"
)

func writeRequest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "request.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadRequest(t *testing.T) {
	path := writeRequest(t, `source_platform: shopify
destination_platform: ideasoft
source_config:
  store_url: https://old.example.com
  access_token: tok-123
destination_config:
  store_url: https://new.example.com
  api_key: key-456
migration_options:
  max_duration_days: 14
`)

	cfg, err := loadRequest(path)
	if err != nil {
		t.Fatalf("loadRequest: %v", err)
	}
	if cfg.SourcePlatform != "shopify" || cfg.DestinationPlatform != "ideasoft" {
		t.Errorf("platforms = %s -> %s", cfg.SourcePlatform, cfg.DestinationPlatform)
	}
	if cfg.SourceConfig.StoreURL != "https://old.example.com" || cfg.SourceConfig.AccessToken != "tok-123" {
		t.Errorf("source config = %+v", cfg.SourceConfig)
	}
	if cfg.DestinationConfig.APIKey != "key-456" {
		t.Errorf("destination config = %+v", cfg.DestinationConfig)
	}
	if cfg.MaxDurationDays() != 14 {
		t.Errorf("max duration = %d, want 14", cfg.MaxDurationDays())
	}
}

func TestLoadRequestRejectsUnknownPlatform(t *testing.T) {
	path := writeRequest(t, `source_platform: geocities
destination_platform: ideasoft
`)
	if _, err := loadRequest(path); err == nil {
		t.Error("expected error for unsupported platform")
	}
}

func TestLoadRequestMissingFile(t *testing.T) {
	if _, err := loadRequest(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestFoldResult(t *testing.T) {
	st := workflow.NewState("m-1", migration.Config{SourcePlatform: "shopify", DestinationPlatform: "ideasoft"})
	st.AnalysisResult = &migration.AnalysisResult{ConfidenceScore: 0.8}
	st.FinalSummary = &migration.FinalSummary{MigrationID: "m-1", WorkflowStatus: "completed"}
	st.MarkStageComplete(workflow.StageCoordination)
	st.MarkStageComplete(workflow.StageDataAnalysis)

	rec := &storage.Migration{ID: "m-1", Status: storage.StatusAnalyzing}
	foldResult(rec, &workflow.FinalState{
		MigrationID:  "m-1",
		Success:      true,
		CurrentStage: "completed",
		Progress:     100,
		State:        st,
	}, slog.Default())

	if rec.Status != storage.StatusCompleted {
		t.Errorf("status = %s, want completed", rec.Status)
	}
	if rec.CurrentStage != "completed" || rec.Progress != 100 {
		t.Errorf("terminal = %s/%v", rec.CurrentStage, rec.Progress)
	}
	if len(rec.CompletedStages) != 2 {
		t.Errorf("completed stages = %v", rec.CompletedStages)
	}
	if rec.AnalysisResult == nil || rec.FinalSummary == nil {
		t.Error("result slots should be filled")
	}
	if rec.MigrationPlan != nil {
		t.Error("empty slots should stay empty")
	}
	if rec.CompletedAt == nil {
		t.Error("completed_at should be set")
	}

	rec = &storage.Migration{ID: "m-1", Status: storage.StatusAnalyzing}
	foldResult(rec, &workflow.FinalState{
		MigrationID:  "m-1",
		Success:      false,
		Error:        "coordination: auth rejected",
		CurrentStage: "failed",
	}, slog.Default())
	if rec.Status != storage.StatusFailed || rec.Error == "" {
		t.Errorf("failed record = %+v", rec)
	}
}
