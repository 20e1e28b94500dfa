package agents

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/erentorlak/storemigrate/llm"
	"github.com/erentorlak/storemigrate/migration"
	"github.com/erentorlak/storemigrate/workflow/prompts"
)

const seoTemperature = 0.1

// platformURLPatterns describes the characteristic URL layout per platform.
// Differing patterns between source and destination mean URL structure
// changes are required.
var platformURLPatterns = map[string]string{
	"shopify":     "/products/, /collections/, /pages/",
	"woocommerce": "/product/, /product-category/, /page/",
	"magento":     "/catalog/product/, /catalog/category/",
	"ideasoft":    "/urun/, /kategori/, /sayfa/",
	"ikas":        "/products/, /categories/, /pages/",
}

// SEOAgent assesses ranking risk and produces the URL preservation strategy.
type SEOAgent struct {
	llm    llm.CompletionClient
	logger *slog.Logger
	now    func() time.Time
}

// NewSEOAgent creates an SEO preservation agent.
func NewSEOAgent(client llm.CompletionClient, logger *slog.Logger) *SEOAgent {
	if logger == nil {
		logger = slog.Default()
	}
	return &SEOAgent{llm: client, logger: logger, now: time.Now}
}

// Run analyzes SEO requirements for the migration. Completion failures
// produce a medium-risk fallback analysis; the returned error is non-nil
// only when the context is done.
func (s *SEOAgent) Run(ctx context.Context, analysis *migration.AnalysisResult, plan *migration.Plan, cfg migration.Config) (*migration.SEOAnalysis, error) {
	s.logger.Info("Starting SEO analysis",
		"source_platform", cfg.SourcePlatform,
		"destination_platform", cfg.DestinationPlatform)

	domainChanges := detectDomainChanges(cfg)
	urlStructureChanges := detectURLStructureChanges(cfg)

	result, err := s.aiAnalysis(ctx, analysis, plan, cfg, domainChanges, urlStructureChanges)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		s.logger.Error("SEO analysis failed", "error", err)
		return s.fallbackAnalysis(cause(err)), nil
	}

	s.enhanceWithTechnicalAnalysis(result, analysis)

	if result.URLStructure == nil {
		result.URLStructure = &migration.URLStructureAnalysis{}
	}
	result.URLStructure.DomainChanged = domainChanges
	if urlStructureChanges {
		result.URLStructure.URLChangesRequired = true
	}

	result.URLMappings = generateURLMappings(cfg)
	result.MonitoringPlan = createMonitoringPlan(result.Analysis.RiskLevel)
	result.CreatedAt = s.now().UTC()

	s.logger.Info("SEO analysis completed successfully",
		"risk_level", result.Analysis.RiskLevel,
		"url_mappings_count", len(result.URLMappings),
		"monitoring_duration", result.MonitoringPlan.MonitoringDurationDays)

	return result, nil
}

func (s *SEOAgent) aiAnalysis(ctx context.Context, analysis *migration.AnalysisResult, plan *migration.Plan, cfg migration.Config, domainChanges, urlStructureChanges bool) (*migration.SEOAnalysis, error) {
	userPrompt := prompts.SEOUserPrompt(
		indentJSON(analysis),
		indentJSON(plan),
		cfg.SourcePlatform,
		cfg.DestinationPlatform,
		domainChanges,
		urlStructureChanges,
	)

	resp, err := s.llm.Complete(ctx, llm.Request{
		Messages: []llm.Message{
			{Role: "system", Content: prompts.SEOSystemPrompt()},
			{Role: "user", Content: userPrompt},
		},
		Temperature: llm.Temp(seoTemperature),
	})
	if err != nil {
		return nil, err
	}

	return parseSEOAnalysis(s.logger, resp.Content), nil
}

// parseSEOAnalysis decodes the model reply. Unparseable replies keep the raw
// text as the summary at medium risk.
func parseSEOAnalysis(logger *slog.Logger, text string) *migration.SEOAnalysis {
	raw := llm.ExtractJSON(text)
	if raw == "" {
		return &migration.SEOAnalysis{
			SEOSummary: text,
			Analysis:   migration.SEOAssessment{RiskLevel: "medium"},
		}
	}

	var result migration.SEOAnalysis
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		logger.Warn("Failed to parse SEO analysis as JSON", "error", err)
		return &migration.SEOAnalysis{
			SEOSummary: text,
			Analysis:   migration.SEOAssessment{RiskLevel: "medium"},
		}
	}
	return &result
}

// enhanceWithTechnicalAnalysis adds traffic-risk and page-type estimates
// derived from the product analysis.
func (s *SEOAgent) enhanceWithTechnicalAnalysis(result *migration.SEOAnalysis, analysis *migration.AnalysisResult) {
	if analysis == nil {
		return
	}

	products := analysis.ProductAnalysis
	if products.TotalProducts > 0 {
		optimization := products.SEOOptimizationLevel
		if optimization == "" {
			optimization = "fair"
		}
		result.TrafficImpact = calculateTrafficRisk(products.TotalProducts, optimization)
	}

	result.PageTypeAnalysis = map[string]any{
		"product_pages": map[string]any{
			"count":                products.TotalProducts,
			"seo_priority":         "critical",
			"migration_complexity": "medium",
		},
		"category_pages": map[string]any{
			"count":                products.ProductCategories,
			"seo_priority":         "high",
			"migration_complexity": "medium",
		},
		"content_pages": map[string]any{
			"count":                10,
			"seo_priority":         "medium",
			"migration_complexity": "low",
		},
		"blog_pages": map[string]any{
			"count":                5,
			"seo_priority":         "medium",
			"migration_complexity": "low",
		},
	}
}

// detectDomainChanges compares the hosts of the two store URLs. Missing URLs
// are treated as no domain change.
func detectDomainChanges(cfg migration.Config) bool {
	source := cfg.SourceConfig.StoreURL
	destination := cfg.DestinationConfig.StoreURL
	if source == "" || destination == "" {
		return false
	}

	sourceURL, err1 := url.Parse(source)
	destinationURL, err2 := url.Parse(destination)
	if err1 != nil || err2 != nil {
		return false
	}
	return sourceURL.Host != destinationURL.Host
}

// detectURLStructureChanges reports whether the platforms use different URL
// layouts.
func detectURLStructureChanges(cfg migration.Config) bool {
	source := platformURLPatterns[strings.ToLower(cfg.SourcePlatform)]
	destination := platformURLPatterns[strings.ToLower(cfg.DestinationPlatform)]
	return source != destination
}

// calculateTrafficRisk estimates organic-traffic loss from catalog size and
// current optimization quality.
func calculateTrafficRisk(totalProducts int, optimization string) *migration.TrafficImpact {
	baseRisk := "low"
	switch {
	case totalProducts > 5000:
		baseRisk = "high"
	case totalProducts > 1000:
		baseRisk = "medium"
	}

	multiplier := 1.0
	switch optimization {
	case "poor":
		multiplier = 1.5
	case "fair":
		multiplier = 1.2
	case "good":
		multiplier = 1.0
	case "excellent":
		multiplier = 0.8
	}

	var level, loss string
	switch {
	case baseRisk == "high" && multiplier > 1.2:
		level, loss = "critical", "15-30%"
	case baseRisk == "high" || multiplier > 1.2:
		level, loss = "high", "10-20%"
	case baseRisk == "medium" || multiplier > 1.0:
		level, loss = "medium", "5-15%"
	default:
		level, loss = "low", "0-10%"
	}

	return &migration.TrafficImpact{
		RiskLevel:            level,
		EstimatedTrafficLoss: loss,
		AffectedProducts:     totalProducts,
		CurrentOptimization:  optimization,
		RecoveryTimeline:     "2-8 weeks",
	}
}

// generateURLMappings produces redirect rules for the common e-commerce page
// types, adjusted per platform pair.
func generateURLMappings(cfg migration.Config) []migration.URLMapping {
	type pattern struct {
		pageType    string
		source      string
		destination string
		priority    string
	}

	patterns := []pattern{
		{"product", "/products/{slug}", "/products/{slug}", "critical"},
		{"category", "/collections/{slug}", "/categories/{slug}", "high"},
		{"page", "/pages/{slug}", "/pages/{slug}", "medium"},
		{"blog", "/blogs/{slug}", "/blog/{slug}", "medium"},
	}

	source := strings.ToLower(cfg.SourcePlatform)
	destination := strings.ToLower(cfg.DestinationPlatform)
	if source == "shopify" && destination == "ideasoft" {
		for i := range patterns {
			switch patterns[i].pageType {
			case "category":
				patterns[i].destination = "/kategori/{slug}"
			case "product":
				patterns[i].destination = "/urun/{slug}"
			}
		}
	}

	mappings := make([]migration.URLMapping, 0, len(patterns))
	for _, p := range patterns {
		mappings = append(mappings, migration.URLMapping{
			SourceURL:        p.source,
			DestinationURL:   p.destination,
			RedirectType:     "301",
			SEOPriority:      p.priority,
			PageType:         p.pageType,
			EstimatedTraffic: estimatePageTraffic(p.pageType),
		})
	}
	return mappings
}

func estimatePageTraffic(pageType string) string {
	switch pageType {
	case "product":
		return "40-60% of organic traffic"
	case "category":
		return "20-30% of organic traffic"
	case "page":
		return "5-15% of organic traffic"
	case "blog":
		return "5-20% of organic traffic"
	case "home":
		return "10-20% of organic traffic"
	default:
		return "Unknown"
	}
}

// createMonitoringPlan sizes the post-migration monitoring window to the
// assessed risk level.
func createMonitoringPlan(riskLevel string) *migration.MonitoringPlan {
	duration := 14
	frequency := "weekly"
	switch riskLevel {
	case "critical":
		duration, frequency = 90, "daily"
	case "high":
		duration, frequency = 60, "every 2 days"
	case "medium":
		duration, frequency = 30, "weekly"
	}

	return &migration.MonitoringPlan{
		MonitoringDurationDays: duration,
		CheckFrequency:         frequency,
		MetricsToMonitor: []string{
			"organic_traffic",
			"keyword_rankings",
			"indexation_status",
			"crawl_errors",
			"page_load_speed",
			"core_web_vitals",
		},
		ToolsRequired: []string{
			"Google Search Console",
			"Google Analytics",
			"Third-party SEO tools",
			"Server log analysis",
		},
		AlertThresholds: map[string]int{
			"traffic_drop_percentage":    15,
			"ranking_drop_positions":     5,
			"indexation_loss_percentage": 10,
			"crawl_error_increase":       50,
		},
		RecoveryProcedures: []string{
			"Verify redirect implementation",
			"Submit updated sitemaps",
			"Request re-indexing for critical pages",
			"Check for technical SEO issues",
			"Monitor competitor activity",
		},
	}
}

// fallbackAnalysis is the medium-risk default substituted when the
// completion service fails.
func (s *SEOAgent) fallbackAnalysis(reason string) *migration.SEOAnalysis {
	return &migration.SEOAnalysis{
		Analysis: migration.SEOAssessment{
			CurrentSEOScore:       5.0,
			RiskLevel:             "medium",
			CriticalPagesCount:    100,
			IndexedPagesEstimated: 500,
			BacklinksEstimated:    50,
			FallbackReason:        reason,
		},
		URLStructure: &migration.URLStructureAnalysis{
			CurrentURLPattern:     "Standard e-commerce structure",
			DestinationURLPattern: "Standard e-commerce structure",
			URLChangesRequired:    true,
			SEOFriendlyURLs:       true,
		},
		CriticalElements: map[string]any{
			"meta_titles": map[string]any{
				"count":                100,
				"optimization_level":   "fair",
				"migration_complexity": "medium",
			},
			"meta_descriptions": map[string]any{
				"count":                80,
				"optimization_level":   "fair",
				"migration_complexity": "medium",
			},
			"heading_structure": map[string]any{
				"h1_tags":              100,
				"structure_quality":    "good",
				"migration_complexity": "low",
			},
			"structured_data": map[string]any{
				"schemas_present":      []string{"Product", "Organization"},
				"schema_compliance":    "fair",
				"migration_complexity": "medium",
			},
		},
		MigrationRisks: []migration.SEORisk{{
			RiskType:           "rankings",
			RiskDescription:    "Potential temporary ranking fluctuations",
			Probability:        "medium",
			ImpactSeverity:     "medium",
			AffectedPages:      100,
			MitigationStrategy: "Implement proper redirects and monitoring",
			TimelineImpact:     "short-term",
		}},
		PreservationPlan: map[string]any{
			"pre_migration_tasks": []string{
				"Export current SEO data",
				"Create redirect mapping",
				"Set up monitoring tools",
			},
			"during_migration_tasks": []string{
				"Implement redirects",
				"Verify metadata migration",
				"Monitor crawl errors",
			},
			"post_migration_tasks": []string{
				"Submit updated sitemaps",
				"Monitor rankings and traffic",
				"Fix any identified issues",
			},
			"monitoring_duration_days": 30,
			"recovery_procedures": []string{
				"Check redirect implementation",
				"Verify sitemap submission",
				"Monitor search console for errors",
			},
		},
		SuccessMetrics: []migration.SuccessMetric{{
			MetricName:        "Organic traffic retention",
			TargetValue:       "95%+",
			MeasurementMethod: "weekly",
		}},
		CreatedAt: s.now().UTC(),
	}
}

// cause extracts the message of an error for fallback annotations.
func cause(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
