package migration

import "time"

// ExecutionPlan is produced by the execution-preparation stage once all
// planning stages have run.
type ExecutionPlan struct {
	MigrationID       string        `json:"migration_id"`
	ReadyForExecution bool          `json:"ready_for_execution"`
	PreparedAt        time.Time     `json:"preparation_timestamp"`
	Prerequisites     Prerequisites `json:"prerequisites_met"`
	ExecutionOrder    []string      `json:"execution_order"`
}

// Prerequisites records which planning outputs are in place before execution.
type Prerequisites struct {
	AnalysisCompleted    bool `json:"analysis_completed"`
	PlanCreated          bool `json:"plan_created"`
	SEOAnalyzed          bool `json:"seo_analyzed"`
	CommunicationPlanned bool `json:"communication_planned"`
	NoCriticalErrors     bool `json:"no_critical_errors"`
}

// Met reports whether every prerequisite holds.
func (p Prerequisites) Met() bool {
	return p.AnalysisCompleted && p.PlanCreated && p.SEOAnalyzed &&
		p.CommunicationPlanned && p.NoCriticalErrors
}

// FinalSummary closes out a workflow run.
type FinalSummary struct {
	MigrationID       string    `json:"migration_id"`
	WorkflowStatus    string    `json:"workflow_status"`
	CompletedAt       time.Time `json:"completion_timestamp"`
	StagesCompleted   []string  `json:"stages_completed"`
	TotalErrors       int       `json:"total_errors"`
	ReadyForExecution bool      `json:"ready_for_execution"`
}
