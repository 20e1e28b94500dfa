// Package events publishes workflow progress over NATS so external
// consumers (dashboards, the execution engine) can follow runs live.
package events

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/nats-io/nats.go"

	"github.com/erentorlak/storemigrate/workflow"
)

// SubjectPrefix is the subject root for progress events; the migration ID
// is appended as the final token.
const SubjectPrefix = "migration.progress."

// Publisher sends progress events to NATS. A Publisher with a nil
// connection is a no-op, so callers never need to special-case a missing
// broker (graceful degradation).
type Publisher struct {
	nc     *nats.Conn
	logger *slog.Logger
}

// NewPublisher returns a Publisher using nc. nc may be nil.
func NewPublisher(nc *nats.Conn, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{nc: nc, logger: logger}
}

// PublishProgress implements workflow.EventSink. Publish failures are
// logged and swallowed; progress events are advisory and must never stall
// a run.
func (p *Publisher) PublishProgress(_ context.Context, event workflow.ProgressEvent) {
	if p == nil || p.nc == nil {
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("marshal progress event failed",
			"migration_id", event.MigrationID, "error", err)
		return
	}

	subject := SubjectPrefix + event.MigrationID
	if err := p.nc.Publish(subject, data); err != nil {
		p.logger.Warn("publish progress event failed",
			"subject", subject, "error", err)
	}
}
