package server

import (
	"context"
	"log/slog"

	"github.com/erentorlak/storemigrate/storage"
	"github.com/erentorlak/storemigrate/workflow"
)

// ProgressRecorder mirrors workflow progress events into the stored
// migration record so status queries see live stage and progress values.
// It chains to an optional next sink, typically the NATS publisher, so one
// orchestrator sink serves both concerns.
type ProgressRecorder struct {
	store  storage.Store
	logger *slog.Logger
	next   workflow.EventSink
}

// NewProgressRecorder builds a recorder over store. next may be nil.
func NewProgressRecorder(store storage.Store, logger *slog.Logger, next workflow.EventSink) *ProgressRecorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProgressRecorder{store: store, logger: logger, next: next}
}

// PublishProgress implements workflow.EventSink.
func (p *ProgressRecorder) PublishProgress(ctx context.Context, event workflow.ProgressEvent) {
	if p.next != nil {
		p.next.PublishProgress(ctx, event)
	}

	// Terminal outcomes are persisted by the run's finish path; only live
	// stage updates flow through here.
	if event.Status != "running" {
		return
	}

	rec, err := p.store.Get(context.Background(), event.MigrationID)
	if err != nil {
		return
	}
	if rec.Status == storage.StatusPaused || rec.Status.IsTerminal() {
		return
	}

	rec.CurrentStage = event.Stage
	rec.Progress = event.Progress
	if next := storage.StatusForStage(event.Stage); next.Active() {
		rec.Status = next
	}
	if err := p.store.Update(context.Background(), rec); err != nil {
		p.logger.Warn("record progress failed",
			"migration_id", event.MigrationID, "error", err)
	}
}
