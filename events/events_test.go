package events

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/erentorlak/storemigrate/workflow"
)

func TestPublishProgressNilConnection(t *testing.T) {
	p := NewPublisher(nil, slog.Default())

	// Must be a silent no-op, not a panic.
	p.PublishProgress(context.Background(), workflow.ProgressEvent{
		MigrationID: "m-1",
		Stage:       "data_analysis",
		Progress:    25,
		Status:      "running",
		Timestamp:   time.Now(),
	})
}

func TestPublishProgressNilPublisher(t *testing.T) {
	var p *Publisher
	p.PublishProgress(context.Background(), workflow.ProgressEvent{MigrationID: "m-1"})
}

func TestSubject(t *testing.T) {
	if SubjectPrefix+"m-1" != "migration.progress.m-1" {
		t.Error("subject prefix mismatch")
	}
}
