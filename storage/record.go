// Package storage persists migration records. The primary implementation
// keeps records in a NATS JetStream key-value bucket; MemoryStore backs
// tests and single-process development.
package storage

import (
	"context"
	"encoding/json"
	"time"

	"github.com/erentorlak/storemigrate/migration"
)

// Migration is the persisted view of a migration and its workflow outputs.
// Result documents are stored as raw JSON so the record survives schema
// evolution in the result types.
type Migration struct {
	ID     string           `json:"id"`
	Config migration.Config `json:"config"`

	Status          Status   `json:"status"`
	CurrentStage    string   `json:"current_stage"`
	Progress        float64  `json:"progress"`
	CompletedStages []string `json:"completed_stages,omitempty"`

	AnalysisResult    json.RawMessage `json:"analysis_result,omitempty"`
	MigrationPlan     json.RawMessage `json:"migration_plan,omitempty"`
	SEOAnalysis       json.RawMessage `json:"seo_analysis,omitempty"`
	CommunicationPlan json.RawMessage `json:"communication_plan,omitempty"`
	ExecutionPlan     json.RawMessage `json:"execution_plan,omitempty"`
	FinalSummary      json.RawMessage `json:"final_summary,omitempty"`

	Error      string `json:"error,omitempty"`
	ErrorCount int    `json:"error_count"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// SetResult stores a result document in the named slot, marshaling v.
func (m *Migration) SetResult(slot string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	switch slot {
	case "analysis_result":
		m.AnalysisResult = data
	case "migration_plan":
		m.MigrationPlan = data
	case "seo_analysis":
		m.SEOAnalysis = data
	case "communication_plan":
		m.CommunicationPlan = data
	case "execution_plan":
		m.ExecutionPlan = data
	case "final_summary":
		m.FinalSummary = data
	}
	return nil
}

// ListFilter narrows and pages List results. A zero filter returns
// everything.
type ListFilter struct {
	Status Status
	Offset int
	Limit  int
}

// Store is the persistence interface the server depends on.
type Store interface {
	Create(ctx context.Context, m *Migration) error
	Get(ctx context.Context, id string) (*Migration, error)
	Update(ctx context.Context, m *Migration) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListFilter) ([]*Migration, error)
}
