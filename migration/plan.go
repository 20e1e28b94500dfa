package migration

import "time"

// Plan is the migration-planning stage output: a phased roadmap with
// resource requirements, risks, and rollback procedures.
type Plan struct {
	Details              PlanDetails          `json:"migration_plan"`
	Phases               []PlanPhase          `json:"phases,omitempty"`
	ResourceRequirements ResourceRequirements `json:"resource_requirements"`
	Risks                []PlanRisk           `json:"risks,omitempty"`
	RollbackPlan         *RollbackPlan        `json:"rollback_plan,omitempty"`
	SuccessMetrics       []SuccessMetric      `json:"success_metrics,omitempty"`

	DataConsiderations      *DataConsiderations `json:"data_considerations,omitempty"`
	OptimizationSuggestions []string            `json:"optimization_suggestions,omitempty"`
	PlanSummary             string              `json:"plan_summary,omitempty"`
	CreatedAt               time.Time           `json:"created_timestamp,omitzero"`
}

// PlanDetails holds the headline estimates of a plan.
type PlanDetails struct {
	PlanID                string  `json:"plan_id,omitempty"`
	EstimatedDurationDays float64 `json:"estimated_duration_days"`
	EstimatedEffortHours  float64 `json:"estimated_effort_hours"`
	ComplexityLevel       string  `json:"complexity_level"`
	ConfidenceScore       float64 `json:"confidence_score"`

	// TechnicalEstimateDays and AIEstimateDays record the two inputs to the
	// final duration; EstimatedDurationDays is the larger of the two.
	TechnicalEstimateDays float64 `json:"technical_estimate_days,omitempty"`
	AIEstimateDays        float64 `json:"ai_estimate_days,omitempty"`

	FallbackReason string `json:"fallback_reason,omitempty"`
}

// PlanPhase is one step of the migration roadmap.
type PlanPhase struct {
	PhaseName       string     `json:"phase_name"`
	PhaseNumber     int        `json:"phase_number"`
	DurationDays    int        `json:"duration_days"`
	Prerequisites   []string   `json:"prerequisites,omitempty"`
	Tasks           []PlanTask `json:"tasks,omitempty"`
	Deliverables    []string   `json:"deliverables,omitempty"`
	SuccessCriteria []string   `json:"success_criteria,omitempty"`

	BufferAdded          bool   `json:"buffer_added,omitempty"`
	CriticalPath         bool   `json:"critical_path"`
	RecommendedStartDate string `json:"recommended_start_date,omitempty"`
}

// PlanTask is one unit of work within a phase.
type PlanTask struct {
	TaskName       string   `json:"task_name"`
	EstimatedHours float64  `json:"estimated_hours"`
	AssigneeType   string   `json:"assignee_type,omitempty"`
	Dependencies   []string `json:"dependencies,omitempty"`
	CriticalPath   bool     `json:"critical_path"`
}

// ResourceRequirements estimates staffing for the migration.
type ResourceRequirements struct {
	Developers         int    `json:"developers"`
	Analysts           int    `json:"analysts"`
	QAEngineers        int    `json:"qa_engineers"`
	SystemAdmins       int    `json:"system_admins"`
	EstimatedCostRange string `json:"estimated_cost_range,omitempty"`
}

// PlanRisk is an identified project risk with its mitigation.
type PlanRisk struct {
	RiskCategory       string `json:"risk_category,omitempty"`
	RiskDescription    string `json:"risk_description"`
	Probability        string `json:"probability,omitempty"`
	Impact             string `json:"impact,omitempty"`
	MitigationStrategy string `json:"mitigation_strategy,omitempty"`
	ContingencyPlan    string `json:"contingency_plan,omitempty"`
}

// RollbackPlan describes how to back out of a failed migration.
type RollbackPlan struct {
	RollbackTriggers   []string `json:"rollback_triggers,omitempty"`
	RollbackProcedures []string `json:"rollback_procedures,omitempty"`
	DataRecoveryTime   string   `json:"data_recovery_time,omitempty"`
	BusinessImpact     string   `json:"business_impact,omitempty"`
}

// SuccessMetric is a measurable acceptance criterion.
type SuccessMetric struct {
	MetricName        string `json:"metric_name"`
	TargetValue       string `json:"target_value,omitempty"`
	MeasurementMethod string `json:"measurement_method,omitempty"`
}

// DataConsiderations carries data-volume figures into the plan.
type DataConsiderations struct {
	EstimatedProducts              int  `json:"estimated_products"`
	EstimatedCustomers             int  `json:"estimated_customers"`
	EstimatedOrders                int  `json:"estimated_orders"`
	ParallelProcessingRecommended  bool `json:"parallel_processing_recommended"`
}

// DataVolumeSummary classifies the total item count driving plan complexity.
type DataVolumeSummary struct {
	Products   int    `json:"products"`
	Customers  int    `json:"customers"`
	Orders     int    `json:"orders"`
	TotalItems int    `json:"total_items"`
	Complexity string `json:"complexity"`
}
