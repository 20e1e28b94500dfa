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

func TestSEOAgentRun(t *testing.T) {
	mock := &testutil.MockClient{
		Responses: []*llm.Response{{
			Content: `{"seo_analysis": {"current_seo_score": 7.5, "risk_level": "high"}}`,
		}},
	}

	agent := NewSEOAgent(mock, slog.Default())
	agent.now = fixedNow

	analysis := &migration.AnalysisResult{
		ProductAnalysis: migration.ProductAnalysis{
			TotalProducts:        6000,
			ProductCategories:    40,
			SEOOptimizationLevel: "poor",
		},
	}

	result, err := agent.Run(context.Background(), analysis, &migration.Plan{}, testConfig())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if result.Analysis.RiskLevel != "high" {
		t.Errorf("risk = %q", result.Analysis.RiskLevel)
	}

	// 6000 poor products: high base risk and multiplier 1.5 -> critical
	if result.TrafficImpact == nil {
		t.Fatal("expected traffic impact")
	}
	if result.TrafficImpact.RiskLevel != "critical" || result.TrafficImpact.EstimatedTrafficLoss != "15-30%" {
		t.Errorf("traffic impact = %+v", result.TrafficImpact)
	}

	// shopify -> ideasoft URL overrides
	if len(result.URLMappings) != 4 {
		t.Fatalf("mappings = %d, want 4", len(result.URLMappings))
	}
	byType := map[string]migration.URLMapping{}
	for _, m := range result.URLMappings {
		byType[m.PageType] = m
	}
	if byType["product"].DestinationURL != "/urun/{slug}" {
		t.Errorf("product mapping = %+v", byType["product"])
	}
	if byType["category"].DestinationURL != "/kategori/{slug}" {
		t.Errorf("category mapping = %+v", byType["category"])
	}
	if byType["page"].DestinationURL != "/pages/{slug}" {
		t.Errorf("page mapping = %+v", byType["page"])
	}
	for _, m := range result.URLMappings {
		if m.RedirectType != "301" {
			t.Errorf("redirect type = %q, want 301", m.RedirectType)
		}
	}

	// high risk: 60 day monitoring every 2 days
	if result.MonitoringPlan.MonitoringDurationDays != 60 || result.MonitoringPlan.CheckFrequency != "every 2 days" {
		t.Errorf("monitoring = %+v", result.MonitoringPlan)
	}

	if result.URLStructure == nil || !result.URLStructure.DomainChanged {
		t.Error("different hosts should mark domain changed")
	}
	if !result.URLStructure.URLChangesRequired {
		t.Error("shopify to ideasoft should require URL changes")
	}
}

func TestSEOAgentFallback(t *testing.T) {
	mock := &testutil.MockClient{Err: errors.New("service down")}
	agent := NewSEOAgent(mock, slog.Default())
	agent.now = fixedNow

	result, err := agent.Run(context.Background(), nil, nil, testConfig())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if result.Analysis.RiskLevel != "medium" || result.Analysis.CurrentSEOScore != 5.0 {
		t.Errorf("assessment = %+v", result.Analysis)
	}
	if result.Analysis.FallbackReason != "service down" {
		t.Errorf("fallback reason = %q", result.Analysis.FallbackReason)
	}
	if len(result.MigrationRisks) != 1 {
		t.Errorf("risks = %+v", result.MigrationRisks)
	}
}

func TestParseSEOAnalysisDegraded(t *testing.T) {
	result := parseSEOAnalysis(slog.Default(), "cannot comply")
	if result.SEOSummary != "cannot comply" {
		t.Errorf("summary = %q", result.SEOSummary)
	}
	if result.Analysis.RiskLevel != "medium" {
		t.Errorf("risk = %q, want medium", result.Analysis.RiskLevel)
	}
}

func TestDetectDomainChanges(t *testing.T) {
	tests := []struct {
		name        string
		source      string
		destination string
		want        bool
	}{
		{"different hosts", "https://a.example.com", "https://b.example.com", true},
		{"same host", "https://shop.example.com", "https://shop.example.com/new", false},
		{"missing source", "", "https://b.example.com", false},
		{"missing destination", "https://a.example.com", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := migration.Config{
				SourceConfig:      migration.PlatformConfig{StoreURL: tt.source},
				DestinationConfig: migration.PlatformConfig{StoreURL: tt.destination},
			}
			if got := detectDomainChanges(cfg); got != tt.want {
				t.Errorf("detectDomainChanges = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDetectURLStructureChanges(t *testing.T) {
	tests := []struct {
		source      string
		destination string
		want        bool
	}{
		{"shopify", "ideasoft", true},
		{"shopify", "ikas", true}, // collections vs categories paths
		{"shopify", "shopify", false},
		{"woocommerce", "magento", true},
	}

	for _, tt := range tests {
		cfg := migration.Config{SourcePlatform: tt.source, DestinationPlatform: tt.destination}
		if got := detectURLStructureChanges(cfg); got != tt.want {
			t.Errorf("%s->%s = %v, want %v", tt.source, tt.destination, got, tt.want)
		}
	}
}

func TestCalculateTrafficRisk(t *testing.T) {
	tests := []struct {
		name         string
		products     int
		optimization string
		wantLevel    string
		wantLoss     string
	}{
		{"large poor", 6000, "poor", "critical", "15-30%"},
		{"large good", 6000, "good", "high", "10-20%"},
		{"small poor", 500, "poor", "high", "10-20%"},
		{"medium good", 2000, "good", "medium", "5-15%"},
		{"small fair", 500, "fair", "medium", "5-15%"},
		{"small excellent", 500, "excellent", "low", "0-10%"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calculateTrafficRisk(tt.products, tt.optimization)
			if got.RiskLevel != tt.wantLevel || got.EstimatedTrafficLoss != tt.wantLoss {
				t.Errorf("risk = %q/%q, want %q/%q", got.RiskLevel, got.EstimatedTrafficLoss, tt.wantLevel, tt.wantLoss)
			}
		})
	}
}

func TestCreateMonitoringPlan(t *testing.T) {
	tests := []struct {
		risk      string
		days      int
		frequency string
	}{
		{"critical", 90, "daily"},
		{"high", 60, "every 2 days"},
		{"medium", 30, "weekly"},
		{"low", 14, "weekly"},
		{"", 14, "weekly"},
	}

	for _, tt := range tests {
		plan := createMonitoringPlan(tt.risk)
		if plan.MonitoringDurationDays != tt.days || plan.CheckFrequency != tt.frequency {
			t.Errorf("risk %q: got %d/%q, want %d/%q", tt.risk,
				plan.MonitoringDurationDays, plan.CheckFrequency, tt.days, tt.frequency)
		}
		if plan.AlertThresholds["traffic_drop_percentage"] != 15 {
			t.Errorf("risk %q: thresholds = %v", tt.risk, plan.AlertThresholds)
		}
	}
}

func TestGenerateURLMappingsNonIdeasoft(t *testing.T) {
	cfg := migration.Config{SourcePlatform: "shopify", DestinationPlatform: "ikas"}
	mappings := generateURLMappings(cfg)

	for _, m := range mappings {
		if m.PageType == "product" && m.DestinationURL != "/products/{slug}" {
			t.Errorf("product mapping should keep default: %+v", m)
		}
		if m.PageType == "category" && m.DestinationURL != "/categories/{slug}" {
			t.Errorf("category mapping should keep default: %+v", m)
		}
	}
}
