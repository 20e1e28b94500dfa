package agents

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/erentorlak/storemigrate/llm"
	"github.com/erentorlak/storemigrate/llm/testutil"
	"github.com/erentorlak/storemigrate/migration"
)

func planWithDuration(days float64, complexity string) *migration.Plan {
	return &migration.Plan{
		Details: migration.PlanDetails{
			EstimatedDurationDays: days,
			ComplexityLevel:       complexity,
		},
	}
}

func seoWithRisk(risk string) *migration.SEOAnalysis {
	return &migration.SEOAnalysis{Analysis: migration.SEOAssessment{RiskLevel: risk}}
}

func TestCommunicationAgentRun(t *testing.T) {
	mock := &testutil.MockClient{
		Responses: []*llm.Response{{
			Content: `{"communication_strategy": {"approach": "transparent", "tone": "friendly", "estimated_customer_count": 2500}}`,
		}},
	}

	agent := NewCommunicationAgent(mock, slog.Default())
	agent.now = fixedNow

	result, err := agent.Run(context.Background(), planWithDuration(10, "high"), seoWithRisk("high"), testConfig())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	// timeline: max(10+14, 21) = 24
	if result.Strategy.CommunicationTimelineDays != 24 {
		t.Errorf("timeline = %d, want 24", result.Strategy.CommunicationTimelineDays)
	}
	if result.Strategy.PreMigrationDays != 7 {
		t.Errorf("pre days = %d, want 7", result.Strategy.PreMigrationDays)
	}
	if result.Strategy.PostMigrationMonitoringDays != 7 {
		t.Errorf("post days = %d, want 7", result.Strategy.PostMigrationMonitoringDays)
	}
	// domain change + high risk -> high impact
	if result.Strategy.CustomerImpactLevel != "high" {
		t.Errorf("impact = %q, want high", result.Strategy.CustomerImpactLevel)
	}
	if result.Strategy.EstimatedCustomerCount != 2500 {
		t.Errorf("customer count = %d", result.Strategy.EstimatedCustomerCount)
	}

	// duration 10 > 3: schedule includes a mid-migration update, 6 total
	if len(result.NotificationSchedule) != 6 {
		t.Fatalf("schedule = %d entries, want 6", len(result.NotificationSchedule))
	}

	first := result.NotificationSchedule[0]
	// migration start 2024-06-08, first notice 7 days before
	if first.ScheduledDate != "2024-06-01" || first.NotificationType != "announcement" {
		t.Errorf("first notification = %+v", first)
	}
	if first.ScheduledTime != "09:00" {
		t.Errorf("time = %q", first.ScheduledTime)
	}
	// high priority -> email + banner
	if len(first.Channels) != 2 || first.Channels[0] != "email" || first.Channels[1] != "website_banner" {
		t.Errorf("channels = %v", first.Channels)
	}

	var progress *migration.ScheduledNotification
	for i := range result.NotificationSchedule {
		if result.NotificationSchedule[i].NotificationType == "progress_update" {
			progress = &result.NotificationSchedule[i]
		}
	}
	if progress == nil {
		t.Fatal("expected progress update for long migration")
	}
	if progress.TimingDays != 5 || progress.ScheduledDate != "2024-06-13" {
		t.Errorf("progress notification = %+v", progress)
	}

	// shopify -> ideasoft adds the platform-pair template
	found := false
	for _, tmpl := range result.MessageTemplates {
		if tmpl.TemplateID == "shopify_to_ideasoft_announcement" {
			found = true
		}
	}
	if !found {
		t.Error("expected shopify to ideasoft template")
	}

	if result.PlatformConsiderations == nil {
		t.Fatal("expected platform considerations")
	}
	diffs := result.PlatformConsiderations.FeatureDifferences
	if len(diffs.NewFeatures) != 4 || len(diffs.RemovedFeatures) != 4 || len(diffs.CommonFeatures) != 0 {
		t.Errorf("feature diffs = %+v", diffs)
	}

	if len(result.ImplementationGuidelines) != 4 {
		t.Errorf("guidelines = %d groups, want 4", len(result.ImplementationGuidelines))
	}

	req := mock.LastRequest()
	if req.Temperature == nil || *req.Temperature != 0.3 {
		t.Errorf("temperature = %v, want 0.3", req.Temperature)
	}
}

func TestCommunicationAgentShortMigrationSchedule(t *testing.T) {
	mock := &testutil.MockClient{
		Responses: []*llm.Response{{Content: `{"communication_strategy": {"approach": "minimal", "tone": "professional"}}`}},
	}

	agent := NewCommunicationAgent(mock, slog.Default())
	agent.now = fixedNow

	result, err := agent.Run(context.Background(), planWithDuration(2, "low"), seoWithRisk("low"), testConfig())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	// No mid-migration update for short migrations: 5 entries
	if len(result.NotificationSchedule) != 5 {
		t.Errorf("schedule = %d entries, want 5", len(result.NotificationSchedule))
	}
	// max(2+14, 21) = 21
	if result.Strategy.CommunicationTimelineDays != 21 {
		t.Errorf("timeline = %d, want 21", result.Strategy.CommunicationTimelineDays)
	}
}

func TestCommunicationAgentFallback(t *testing.T) {
	mock := &testutil.MockClient{Err: errors.New("service down")}
	agent := NewCommunicationAgent(mock, slog.Default())
	agent.now = fixedNow

	result, err := agent.Run(context.Background(), nil, nil, testConfig())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if result.Strategy.FallbackReason != "service down" {
		t.Errorf("fallback reason = %q", result.Strategy.FallbackReason)
	}
	if result.Strategy.Approach != "transparent" || result.Strategy.CommunicationTimelineDays != 14 {
		t.Errorf("strategy = %+v", result.Strategy)
	}
	if len(result.MessageTemplates) != 2 {
		t.Errorf("templates = %d, want 2", len(result.MessageTemplates))
	}
	if len(result.CustomerSegments) != 1 || result.CustomerSegments[0].SegmentName != "all_customers" {
		t.Errorf("segments = %+v", result.CustomerSegments)
	}
}

func TestAssessCustomerImpact(t *testing.T) {
	sameDomain := migration.Config{
		SourceConfig:      migration.PlatformConfig{StoreURL: "https://shop.example.com"},
		DestinationConfig: migration.PlatformConfig{StoreURL: "https://shop.example.com"},
	}
	differentDomain := migration.Config{
		SourceConfig:      migration.PlatformConfig{StoreURL: "https://a.example.com"},
		DestinationConfig: migration.PlatformConfig{StoreURL: "https://b.example.com"},
	}

	tests := []struct {
		name string
		cfg  migration.Config
		seo  *migration.SEOAnalysis
		want string
	}{
		{"domain change critical risk", differentDomain, seoWithRisk("critical"), "high"},
		{"domain change high risk", differentDomain, seoWithRisk("high"), "high"},
		{"domain change low risk", differentDomain, seoWithRisk("low"), "medium"},
		{"same domain high risk", sameDomain, seoWithRisk("high"), "medium"},
		{"same domain medium risk", sameDomain, seoWithRisk("medium"), "low"},
		{"same domain low risk", sameDomain, seoWithRisk("low"), "minimal"},
		{"nil seo defaults medium", sameDomain, nil, "low"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := assessCustomerImpact(tt.cfg, tt.seo); got != tt.want {
				t.Errorf("impact = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestChannelsForPriority(t *testing.T) {
	if got := channelsForPriority("critical"); len(got) != 4 {
		t.Errorf("critical channels = %v", got)
	}
	if got := channelsForPriority("low"); len(got) != 2 || got[1] != "blog_post" {
		t.Errorf("low channels = %v", got)
	}
	if got := channelsForPriority("unknown"); len(got) != 1 || got[0] != "email" {
		t.Errorf("default channels = %v", got)
	}
}

func TestComparePlatformFeaturesUnknownPlatform(t *testing.T) {
	diffs := comparePlatformFeatures("bigcommerce", "bigcommerce")
	if len(diffs.CommonFeatures) != 1 || diffs.CommonFeatures[0] != "Standard e-commerce features" {
		t.Errorf("diffs = %+v", diffs)
	}
}

func TestParseCommunicationPlanDegraded(t *testing.T) {
	result := parseCommunicationPlan(slog.Default(), "plain text reply")
	if result.CommunicationSummary != "plain text reply" {
		t.Errorf("summary = %q", result.CommunicationSummary)
	}
}
