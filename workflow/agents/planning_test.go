package agents

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/erentorlak/storemigrate/llm"
	"github.com/erentorlak/storemigrate/llm/testutil"
	"github.com/erentorlak/storemigrate/migration"
)

func analysisWithVolume(products, customers, orders int) *migration.AnalysisResult {
	return &migration.AnalysisResult{
		TechnicalAnalysis: &migration.TechnicalAnalysis{
			MigrationEstimates: migration.EffortEstimate{EstimatedDurationDays: 10},
			DataVolumeAnalysis: migration.DataVolume{
				EstimatedTotalProducts:  products,
				EstimatedTotalCustomers: customers,
				EstimatedTotalOrders:    orders,
			},
		},
	}
}

func TestPlanningAgentRun(t *testing.T) {
	mock := &testutil.MockClient{
		Responses: []*llm.Response{{
			Content: `{
				"migration_plan": {"plan_id": "plan-1", "estimated_duration_days": 5, "complexity_level": "medium", "confidence_score": 0.8},
				"phases": [
					{"phase_name": "data_migration", "phase_number": 1, "duration_days": 10},
					{"phase_name": "review", "phase_number": 2, "duration_days": 2},
					{"phase_name": "testing", "phase_number": 3, "duration_days": 5}
				]
			}`,
		}},
	}

	agent := NewPlanningAgent(mock, slog.Default())
	agent.now = fixedNow

	plan, err := agent.Run(context.Background(), analysisWithVolume(5000, 100, 100), testConfig())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	// Conservative estimate wins: technical 10 > ai 5
	if plan.Details.EstimatedDurationDays != 10 {
		t.Errorf("duration = %v, want 10", plan.Details.EstimatedDurationDays)
	}
	if plan.Details.TechnicalEstimateDays != 10 || plan.Details.AIEstimateDays != 5 {
		t.Errorf("estimates = %v/%v", plan.Details.TechnicalEstimateDays, plan.Details.AIEstimateDays)
	}

	if plan.DataConsiderations == nil {
		t.Fatal("expected data considerations")
	}
	if !plan.DataConsiderations.ParallelProcessingRecommended {
		t.Error("5000 products should recommend parallel processing")
	}

	// data_migration gets a 20% buffer: 10 -> 12
	if plan.Phases[0].DurationDays != 12 || !plan.Phases[0].BufferAdded {
		t.Errorf("phase 1 = %+v", plan.Phases[0])
	}
	// review is unbuffered
	if plan.Phases[1].DurationDays != 2 || plan.Phases[1].BufferAdded {
		t.Errorf("phase 2 = %+v", plan.Phases[1])
	}
	// testing buffered: 5 -> 6
	if plan.Phases[2].DurationDays != 6 {
		t.Errorf("phase 3 duration = %d, want 6", plan.Phases[2].DurationDays)
	}

	// First and last phases are critical path
	if !plan.Phases[0].CriticalPath || plan.Phases[1].CriticalPath || !plan.Phases[2].CriticalPath {
		t.Error("critical path should mark first and last phases only")
	}

	// Start dates accumulate buffered durations
	if plan.Phases[0].RecommendedStartDate != "2024-06-01" {
		t.Errorf("phase 1 start = %q", plan.Phases[0].RecommendedStartDate)
	}
	if plan.Phases[1].RecommendedStartDate != "2024-06-13" {
		t.Errorf("phase 2 start = %q, want 2024-06-13", plan.Phases[1].RecommendedStartDate)
	}
	if plan.Phases[2].RecommendedStartDate != "2024-06-15" {
		t.Errorf("phase 3 start = %q, want 2024-06-15", plan.Phases[2].RecommendedStartDate)
	}

	req := mock.LastRequest()
	if req.Temperature == nil || *req.Temperature != 0.2 {
		t.Errorf("temperature = %v, want 0.2", req.Temperature)
	}
}

func TestPlanningAgentMaxDurationExceeded(t *testing.T) {
	mock := &testutil.MockClient{
		Responses: []*llm.Response{{
			Content: `{"migration_plan": {"estimated_duration_days": 30}}`,
		}},
	}

	agent := NewPlanningAgent(mock, slog.Default())
	agent.now = fixedNow

	cfg := testConfig()
	cfg.Options = map[string]any{"max_duration_days": 14}

	plan, err := agent.Run(context.Background(), nil, cfg)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(plan.OptimizationSuggestions) != 4 {
		t.Fatalf("suggestions = %v", plan.OptimizationSuggestions)
	}
	if !strings.HasPrefix(plan.OptimizationSuggestions[0], "Original plan exceeds maximum duration of 14 days") {
		t.Errorf("first suggestion = %q", plan.OptimizationSuggestions[0])
	}
}

func TestPlanningAgentFallback(t *testing.T) {
	mock := &testutil.MockClient{Err: errors.New("service down")}
	agent := NewPlanningAgent(mock, slog.Default())
	agent.now = fixedNow

	plan, err := agent.Run(context.Background(), nil, testConfig())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if plan.Details.FallbackReason != "service down" {
		t.Errorf("fallback reason = %q", plan.Details.FallbackReason)
	}
	if plan.Details.EstimatedDurationDays != 14 || plan.Details.ConfidenceScore != 0.3 {
		t.Errorf("details = %+v", plan.Details)
	}
	if len(plan.Phases) != 3 {
		t.Errorf("phases = %d, want 3", len(plan.Phases))
	}
	if plan.Details.PlanID == "" || !strings.HasPrefix(plan.Details.PlanID, "fallback_") {
		t.Errorf("plan id = %q", plan.Details.PlanID)
	}
	if plan.ResourceRequirements.Developers != 2 {
		t.Errorf("developers = %d, want 2", plan.ResourceRequirements.Developers)
	}
}

func TestParsePlanDegraded(t *testing.T) {
	plan := parsePlan(slog.Default(), "no structured output here")
	if plan.PlanSummary != "no structured output here" {
		t.Errorf("summary = %q", plan.PlanSummary)
	}
	if plan.Details.EstimatedDurationDays != 7 {
		t.Errorf("duration = %v, want 7", plan.Details.EstimatedDurationDays)
	}
}

func TestCalculateDataVolume(t *testing.T) {
	tests := []struct {
		name     string
		analysis *migration.AnalysisResult
		want     string
	}{
		{"nil analysis", nil, "unknown"},
		{"no technical", &migration.AnalysisResult{}, "unknown"},
		{"low", analysisWithVolume(100, 100, 100), "low"},
		{"medium", analysisWithVolume(5000, 1000, 1000), "medium"},
		{"high", analysisWithVolume(50000, 10000, 10000), "high"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calculateDataVolume(tt.analysis)
			if got.Complexity != tt.want {
				t.Errorf("complexity = %q, want %q", got.Complexity, tt.want)
			}
		})
	}
}
