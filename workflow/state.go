package workflow

import (
	"time"

	"github.com/erentorlak/storemigrate/migration"
)

// Message roles used in the workflow audit trail.
const (
	RoleSystem = "system"
	RoleHuman  = "human"
	RoleAgent  = "agent"
)

// Message is one entry in the workflow's conversation history.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// StageError records a failure attributed to a specific stage.
type StageError struct {
	Stage     Stage     `json:"stage"`
	Message   string    `json:"error"`
	Timestamp time.Time `json:"timestamp"`
}

// State carries everything a workflow run accumulates. The orchestrator is
// the only writer; stage agents receive inputs and return results, never the
// state itself.
type State struct {
	MigrationID string           `json:"migration_id"`
	Config      migration.Config `json:"migration_config"`

	CurrentStage Stage   `json:"current_stage"`
	Progress     float64 `json:"current_progress"`
	TotalStages  int     `json:"total_stages"`

	AnalysisResult    *migration.AnalysisResult    `json:"analysis_result,omitempty"`
	MigrationPlan     *migration.Plan              `json:"migration_plan,omitempty"`
	SEOAnalysis       *migration.SEOAnalysis       `json:"seo_analysis,omitempty"`
	CommunicationPlan *migration.CommunicationPlan `json:"communication_plan,omitempty"`
	ExecutionPlan     *migration.ExecutionPlan     `json:"execution_plan,omitempty"`
	FinalSummary      *migration.FinalSummary      `json:"final_summary,omitempty"`

	Messages        []Message    `json:"messages"`
	Errors          []StageError `json:"errors"`
	CompletedStages []Stage      `json:"completed_stages"`

	// ErrorAnalysis holds the latest error-handler recommendation text.
	ErrorAnalysis string `json:"error_analysis,omitempty"`
}

// NewState builds the initial state for a run.
func NewState(migrationID string, cfg migration.Config) *State {
	return &State{
		MigrationID:  migrationID,
		Config:       cfg,
		CurrentStage: stageInitialization,
		TotalStages:  len(forwardStages) - 1,
	}
}

// AppendMessage records an audit-trail message.
func (s *State) AppendMessage(role, content string) {
	s.Messages = append(s.Messages, Message{Role: role, Content: content})
}

// RecordError appends a stage error.
func (s *State) RecordError(stage Stage, message string, at time.Time) {
	s.Errors = append(s.Errors, StageError{Stage: stage, Message: message, Timestamp: at})
}

// EnterStage marks the stage the run is working on and advances progress to
// its scheduled value. Progress never moves backwards, so re-entering an
// earlier stage after a recovery retry keeps the high-water mark.
func (s *State) EnterStage(stage Stage) {
	s.CurrentStage = stage
	s.advanceProgress(stage.ScheduledProgress())
}

// MarkStageComplete appends the stage to the completed list.
func (s *State) MarkStageComplete(stage Stage) {
	s.CompletedStages = append(s.CompletedStages, stage)
	s.advanceProgress(stage.ScheduledProgress())
}

func (s *State) advanceProgress(p float64) {
	if p > s.Progress {
		s.Progress = p
	}
}

// StageErrorCount returns how many errors have been recorded against stage.
func (s *State) StageErrorCount(stage Stage) int {
	n := 0
	for _, e := range s.Errors {
		if e.Stage == stage {
			n++
		}
	}
	return n
}

// LatestError returns the most recent error, or nil when none occurred.
func (s *State) LatestError() *StageError {
	if len(s.Errors) == 0 {
		return nil
	}
	return &s.Errors[len(s.Errors)-1]
}

// CompletedStageNames returns the completed stages as plain strings.
func (s *State) CompletedStageNames() []string {
	names := make([]string, len(s.CompletedStages))
	for i, stage := range s.CompletedStages {
		names[i] = stage.String()
	}
	return names
}
