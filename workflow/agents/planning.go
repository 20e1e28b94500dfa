package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/erentorlak/storemigrate/llm"
	"github.com/erentorlak/storemigrate/migration"
	"github.com/erentorlak/storemigrate/workflow/prompts"
)

// planningTemperature allows slightly more latitude than analysis while
// keeping plans reproducible.
const planningTemperature = 0.2

// bufferedPhases are phase names that get a 20% schedule buffer.
var bufferedPhases = map[string]bool{
	"data_migration": true,
	"testing":        true,
	"go_live":        true,
}

// PlanningAgent turns an analysis result into a phased migration plan.
type PlanningAgent struct {
	llm    llm.CompletionClient
	logger *slog.Logger
	now    func() time.Time
}

// NewPlanningAgent creates a migration planning agent.
func NewPlanningAgent(client llm.CompletionClient, logger *slog.Logger) *PlanningAgent {
	if logger == nil {
		logger = slog.Default()
	}
	return &PlanningAgent{llm: client, logger: logger, now: time.Now}
}

// Run creates the migration plan. Completion failures produce a conservative
// fallback plan; the returned error is non-nil only when the context is done.
func (p *PlanningAgent) Run(ctx context.Context, analysis *migration.AnalysisResult, cfg migration.Config) (*migration.Plan, error) {
	p.logger.Info("Creating migration plan",
		"source_platform", cfg.SourcePlatform,
		"destination_platform", cfg.DestinationPlatform)

	plan, err := p.aiPlan(ctx, analysis, cfg)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		p.logger.Error("Migration planning failed", "error", err)
		return p.fallbackPlan(err), nil
	}

	p.enhanceWithCalculations(plan, analysis)
	p.optimizeTimeline(plan)
	p.validatePlan(plan, cfg)
	plan.CreatedAt = p.now().UTC()

	p.logger.Info("Migration plan created successfully",
		"estimated_days", plan.Details.EstimatedDurationDays,
		"phases_count", len(plan.Phases),
		"risks_identified", len(plan.Risks))

	return plan, nil
}

func (p *PlanningAgent) aiPlan(ctx context.Context, analysis *migration.AnalysisResult, cfg migration.Config) (*migration.Plan, error) {
	dataVolume := calculateDataVolume(analysis)

	businessRequirements := cfg.Options
	if businessRequirements == nil {
		businessRequirements = map[string]any{}
	}

	userPrompt := prompts.PlannerUserPrompt(
		indentJSON(analysis),
		cfg.SourcePlatform,
		cfg.DestinationPlatform,
		indentJSON(dataVolume),
		indentJSON(businessRequirements),
	)

	resp, err := p.llm.Complete(ctx, llm.Request{
		Messages: []llm.Message{
			{Role: "system", Content: prompts.PlannerSystemPrompt()},
			{Role: "user", Content: userPrompt},
		},
		Temperature: llm.Temp(planningTemperature),
	})
	if err != nil {
		return nil, err
	}

	return parsePlan(p.logger, resp.Content), nil
}

// parsePlan decodes the model reply. Unparseable replies keep the raw text
// as the summary with a default one-week estimate.
func parsePlan(logger *slog.Logger, text string) *migration.Plan {
	raw := llm.ExtractJSON(text)
	if raw == "" {
		return &migration.Plan{
			PlanSummary: text,
			Details:     migration.PlanDetails{EstimatedDurationDays: 7},
		}
	}

	var plan migration.Plan
	if err := json.Unmarshal([]byte(raw), &plan); err != nil {
		logger.Warn("Failed to parse migration plan as JSON", "error", err)
		return &migration.Plan{
			PlanSummary: text,
			Details:     migration.PlanDetails{EstimatedDurationDays: 7},
		}
	}
	return &plan
}

// enhanceWithCalculations reconciles the model's duration estimate with the
// throughput-based technical estimate, keeping the more conservative one.
func (p *PlanningAgent) enhanceWithCalculations(plan *migration.Plan, analysis *migration.AnalysisResult) {
	if analysis == nil || analysis.TechnicalAnalysis == nil {
		return
	}

	technical := analysis.TechnicalAnalysis.MigrationEstimates.EstimatedDurationDays
	ai := plan.Details.EstimatedDurationDays

	plan.Details.TechnicalEstimateDays = technical
	plan.Details.AIEstimateDays = ai
	plan.Details.EstimatedDurationDays = max(technical, ai)

	volume := analysis.TechnicalAnalysis.DataVolumeAnalysis
	plan.DataConsiderations = &migration.DataConsiderations{
		EstimatedProducts:             volume.EstimatedTotalProducts,
		EstimatedCustomers:            volume.EstimatedTotalCustomers,
		EstimatedOrders:               volume.EstimatedTotalOrders,
		ParallelProcessingRecommended: volume.EstimatedTotalProducts > 1000,
	}
}

// optimizeTimeline buffers the heavy phases, marks the critical path, and
// assigns recommended start dates from accumulated phase durations.
func (p *PlanningAgent) optimizeTimeline(plan *migration.Plan) {
	today := p.now().UTC()
	elapsed := 0

	for i := range plan.Phases {
		phase := &plan.Phases[i]

		if bufferedPhases[strings.ToLower(phase.PhaseName)] {
			phase.DurationDays = int(float64(phase.DurationDays) * 1.2)
			phase.BufferAdded = true
		}

		phase.CriticalPath = i == 0 || i == len(plan.Phases)-1
		phase.RecommendedStartDate = today.AddDate(0, 0, elapsed).Format("2006-01-02")
		elapsed += phase.DurationDays
	}
}

// validatePlan flags plans that exceed the configured maximum duration.
func (p *PlanningAgent) validatePlan(plan *migration.Plan, cfg migration.Config) {
	maxDuration := cfg.MaxDurationDays()
	if maxDuration > 0 && plan.Details.EstimatedDurationDays > float64(maxDuration) {
		plan.OptimizationSuggestions = []string{
			fmt.Sprintf("Original plan exceeds maximum duration of %d days", maxDuration),
			"Consider parallel processing of data migration",
			"Evaluate phased migration approach",
			"Increase resource allocation to compress timeline",
		}
	}
}

// calculateDataVolume classifies the store size driving plan complexity.
func calculateDataVolume(analysis *migration.AnalysisResult) migration.DataVolumeSummary {
	if analysis == nil || analysis.TechnicalAnalysis == nil {
		return migration.DataVolumeSummary{Complexity: "unknown"}
	}

	volume := analysis.TechnicalAnalysis.DataVolumeAnalysis
	total := volume.EstimatedTotalProducts + volume.EstimatedTotalCustomers + volume.EstimatedTotalOrders

	complexity := "high"
	switch {
	case total < 1000:
		complexity = "low"
	case total < 10000:
		complexity = "medium"
	}

	return migration.DataVolumeSummary{
		Products:   volume.EstimatedTotalProducts,
		Customers:  volume.EstimatedTotalCustomers,
		Orders:     volume.EstimatedTotalOrders,
		TotalItems: total,
		Complexity: complexity,
	}
}

// fallbackPlan is the conservative three-phase plan substituted when the
// completion service fails.
func (p *PlanningAgent) fallbackPlan(cause error) *migration.Plan {
	now := p.now().UTC()

	return &migration.Plan{
		Details: migration.PlanDetails{
			PlanID:                fmt.Sprintf("fallback_%d", now.Unix()),
			EstimatedDurationDays: 14,
			EstimatedEffortHours:  200,
			ComplexityLevel:       "medium",
			ConfidenceScore:       0.3,
			FallbackReason:        cause.Error(),
		},
		Phases: []migration.PlanPhase{
			{
				PhaseName:     "Analysis & Planning",
				PhaseNumber:   1,
				DurationDays:  3,
				Prerequisites: []string{"API access", "backup creation"},
				Tasks: []migration.PlanTask{{
					TaskName:       "Detailed data analysis",
					EstimatedHours: 16,
					AssigneeType:   "analyst",
					CriticalPath:   true,
				}},
				Deliverables:    []string{"Migration plan", "Risk assessment"},
				SuccessCriteria: []string{"Plan approved", "Risks identified"},
			},
			{
				PhaseName:     "Data Migration",
				PhaseNumber:   2,
				DurationDays:  7,
				Prerequisites: []string{"Testing environment", "Data mapping"},
				Tasks: []migration.PlanTask{{
					TaskName:       "Extract and migrate data",
					EstimatedHours: 80,
					AssigneeType:   "developer",
					Dependencies:   []string{"Detailed data analysis"},
					CriticalPath:   true,
				}},
				Deliverables:    []string{"Migrated data", "Validation report"},
				SuccessCriteria: []string{"Data integrity verified", "No data loss"},
			},
			{
				PhaseName:     "Testing & Go-Live",
				PhaseNumber:   3,
				DurationDays:  4,
				Prerequisites: []string{"Migrated data", "UAT environment"},
				Tasks: []migration.PlanTask{{
					TaskName:       "User acceptance testing",
					EstimatedHours: 40,
					AssigneeType:   "qa",
					Dependencies:   []string{"Extract and migrate data"},
					CriticalPath:   true,
				}},
				Deliverables:    []string{"Test results", "Go-live checklist"},
				SuccessCriteria: []string{"All tests passed", "Go-live approved"},
			},
		},
		ResourceRequirements: migration.ResourceRequirements{
			Developers:         2,
			Analysts:           1,
			QAEngineers:        1,
			SystemAdmins:       1,
			EstimatedCostRange: "medium",
		},
		Risks: []migration.PlanRisk{{
			RiskCategory:       "technical",
			RiskDescription:    "AI planning failed - using fallback plan",
			Probability:        "high",
			Impact:             "medium",
			MitigationStrategy: "Manual planning review required",
			ContingencyPlan:    "Engage external consultant",
		}},
		RollbackPlan: &migration.RollbackPlan{
			RollbackTriggers:   []string{"Critical data loss", "System failure"},
			RollbackProcedures: []string{"Restore from backup", "DNS rollback"},
			DataRecoveryTime:   "4 hours",
			BusinessImpact:     "Temporary service interruption",
		},
		SuccessMetrics: []migration.SuccessMetric{{
			MetricName:        "Data integrity",
			TargetValue:       "100% accuracy",
			MeasurementMethod: "Automated validation scripts",
		}},
		CreatedAt: now,
	}
}
