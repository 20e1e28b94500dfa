package agents

import (
	"context"
	"encoding/json"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/erentorlak/storemigrate/llm"
	"github.com/erentorlak/storemigrate/migration"
	"github.com/erentorlak/storemigrate/workflow/prompts"
)

// communicationTemperature gives customer-facing copy some stylistic room.
const communicationTemperature = 0.3

// platformFeatures summarizes customer-visible capabilities per platform,
// used to explain the migration in announcements.
var platformFeatures = map[string][]string{
	"shopify": {
		"Easy checkout process",
		"Mobile-optimized design",
		"App integrations",
		"Multi-currency support",
	},
	"ideasoft": {
		"Advanced Turkish market features",
		"Local payment integrations",
		"Enhanced SEO capabilities",
		"Improved performance",
	},
	"woocommerce": {
		"WordPress integration",
		"Flexible customization",
		"Plugin ecosystem",
		"Content management",
	},
	"magento": {
		"Enterprise features",
		"Advanced B2B capabilities",
		"Multi-store management",
		"Complex product catalogs",
	},
}

// CommunicationAgent plans customer-facing messaging around the migration.
type CommunicationAgent struct {
	llm    llm.CompletionClient
	logger *slog.Logger
	now    func() time.Time
}

// NewCommunicationAgent creates a customer communication agent.
func NewCommunicationAgent(client llm.CompletionClient, logger *slog.Logger) *CommunicationAgent {
	if logger == nil {
		logger = slog.Default()
	}
	return &CommunicationAgent{llm: client, logger: logger, now: time.Now}
}

// Run creates the communication plan. Completion failures produce a minimal
// fallback plan; the returned error is non-nil only when the context is done.
func (c *CommunicationAgent) Run(ctx context.Context, plan *migration.Plan, seo *migration.SEOAnalysis, cfg migration.Config) (*migration.CommunicationPlan, error) {
	c.logger.Info("Creating customer communication plan",
		"source_platform", cfg.SourcePlatform,
		"destination_platform", cfg.DestinationPlatform)

	duration := 7
	complexity := "medium"
	if plan != nil {
		if plan.Details.EstimatedDurationDays > 0 {
			duration = int(plan.Details.EstimatedDurationDays)
		}
		if plan.Details.ComplexityLevel != "" {
			complexity = plan.Details.ComplexityLevel
		}
	}
	impact := assessCustomerImpact(cfg, seo)

	result, err := c.aiPlan(ctx, plan, seo, cfg, duration, complexity, impact)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.logger.Error("Communication planning failed", "error", err)
		return c.fallbackPlan(cause(err)), nil
	}

	c.enhanceWithPlatformTemplates(result, cfg)
	c.optimizeTimeline(result, duration, impact)
	result.NotificationSchedule = c.generateNotificationSchedule(duration)
	result.ImplementationGuidelines = implementationGuidelines()
	result.CreatedAt = c.now().UTC()

	c.logger.Info("Communication plan created successfully",
		"notification_count", len(result.MessageTemplates),
		"timeline_days", result.Strategy.CommunicationTimelineDays,
		"customer_segments", len(result.CustomerSegments))

	return result, nil
}

func (c *CommunicationAgent) aiPlan(ctx context.Context, plan *migration.Plan, seo *migration.SEOAnalysis, cfg migration.Config, duration int, complexity, impact string) (*migration.CommunicationPlan, error) {
	userPrompt := prompts.CommunicationUserPrompt(
		indentJSON(plan),
		indentJSON(seo),
		cfg.SourcePlatform,
		cfg.DestinationPlatform,
		duration,
		complexity,
		impact,
	)

	resp, err := c.llm.Complete(ctx, llm.Request{
		Messages: []llm.Message{
			{Role: "system", Content: prompts.CommunicationSystemPrompt()},
			{Role: "user", Content: userPrompt},
		},
		Temperature: llm.Temp(communicationTemperature),
	})
	if err != nil {
		return nil, err
	}

	return parseCommunicationPlan(c.logger, resp.Content), nil
}

// parseCommunicationPlan decodes the model reply. Unparseable replies keep
// the raw text as the summary.
func parseCommunicationPlan(logger *slog.Logger, text string) *migration.CommunicationPlan {
	raw := llm.ExtractJSON(text)
	if raw == "" {
		return &migration.CommunicationPlan{CommunicationSummary: text}
	}

	var result migration.CommunicationPlan
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		logger.Warn("Failed to parse communication plan as JSON", "error", err)
		return &migration.CommunicationPlan{CommunicationSummary: text}
	}
	return &result
}

// assessCustomerImpact combines the domain change with SEO risk into a
// customer impact level.
func assessCustomerImpact(cfg migration.Config, seo *migration.SEOAnalysis) string {
	domainChange := cfg.SourceConfig.StoreURL != cfg.DestinationConfig.StoreURL

	seoRisk := "medium"
	if seo != nil && seo.Analysis.RiskLevel != "" {
		seoRisk = seo.Analysis.RiskLevel
	}

	switch {
	case domainChange && (seoRisk == "high" || seoRisk == "critical"):
		return "high"
	case domainChange || seoRisk == "high":
		return "medium"
	case seoRisk == "medium":
		return "low"
	default:
		return "minimal"
	}
}

// enhanceWithPlatformTemplates appends platform-pair message templates and
// the feature comparison.
func (c *CommunicationAgent) enhanceWithPlatformTemplates(result *migration.CommunicationPlan, cfg migration.Config) {
	source := strings.ToLower(cfg.SourcePlatform)
	destination := strings.ToLower(cfg.DestinationPlatform)

	result.MessageTemplates = append(result.MessageTemplates, platformTemplates(source, destination)...)

	result.PlatformConsiderations = &migration.PlatformConsiderations{
		SourcePlatformFeatures:      featuresFor(source),
		DestinationPlatformFeatures: featuresFor(destination),
		FeatureDifferences:          comparePlatformFeatures(source, destination),
	}
}

// optimizeTimeline sizes the communication window to the migration duration.
func (c *CommunicationAgent) optimizeTimeline(result *migration.CommunicationPlan, duration int, impact string) {
	timelineDays := duration + 14
	if timelineDays < 21 {
		timelineDays = 21
	}

	result.Strategy.CommunicationTimelineDays = timelineDays
	result.Strategy.PreMigrationDays = max(7, duration/2)
	result.Strategy.PostMigrationMonitoringDays = 7
	result.Strategy.CustomerImpactLevel = impact
}

// generateNotificationSchedule produces the dated notification sequence
// around an assumed migration start one week out.
func (c *CommunicationAgent) generateNotificationSchedule(duration int) []migration.ScheduledNotification {
	type notice struct {
		phase    string
		timing   int
		kind     string
		title    string
		priority string
	}

	notices := []notice{
		{"pre_migration", -7, "announcement", "Important: Store Migration Scheduled", "high"},
		{"pre_migration", -3, "reminder", "Migration Reminder: 3 Days to Go", "medium"},
		{"pre_migration", -1, "final_notice", "Final Notice: Migration Tomorrow", "high"},
	}
	if duration > 3 {
		notices = append(notices, notice{"during_migration", duration / 2, "progress_update", "Migration Progress Update", "medium"})
	}
	notices = append(notices,
		notice{"post_migration", 0, "completion", "Migration Complete - Welcome to Your New Store!", "high"},
		notice{"post_migration", 3, "follow_up", "How Is Your New Store Experience?", "low"},
	)

	migrationStart := c.now().UTC().AddDate(0, 0, 7)

	schedule := make([]migration.ScheduledNotification, 0, len(notices))
	for _, n := range notices {
		schedule = append(schedule, migration.ScheduledNotification{
			Phase:            n.phase,
			TimingDays:       n.timing,
			NotificationType: n.kind,
			Title:            n.title,
			Priority:         n.priority,
			ScheduledDate:    migrationStart.AddDate(0, 0, n.timing).Format("2006-01-02"),
			ScheduledTime:    "09:00",
			Channels:         channelsForPriority(n.priority),
			EstimatedReach:   "All active customers",
		})
	}
	return schedule
}

// channelsForPriority maps notification priority to delivery channels.
func channelsForPriority(priority string) []string {
	switch priority {
	case "critical":
		return []string{"email", "sms", "website_banner", "app_notification"}
	case "high":
		return []string{"email", "website_banner"}
	case "medium":
		return []string{"email"}
	case "low":
		return []string{"email", "blog_post"}
	default:
		return []string{"email"}
	}
}

// platformTemplates returns canned templates for known platform pairs.
func platformTemplates(source, destination string) []migration.MessageTemplate {
	if source == "shopify" && destination == "ideasoft" {
		return []migration.MessageTemplate{{
			TemplateID:   "shopify_to_ideasoft_announcement",
			TemplateName: "Shopify to Ideasoft Migration Announcement",
			Phase:        "pre_migration",
			Channel:      "email",
			SubjectLine:  "Exciting Store Upgrade Coming Soon!",
			MessageContent: `Dear Valued Customer,

We're excited to announce that we're upgrading our store to provide you with an even better shopping experience!

What's happening:
- We're migrating from Shopify to a new, more powerful platform (Ideasoft)
- Your account information and order history will be preserved
- All your favorite products will still be available
- You'll enjoy improved performance and new features

When: The migration is scheduled for [DATE]
Duration: Approximately [DURATION] days

What you need to do: Nothing! We'll handle everything for you.

Thank you for your patience as we make these improvements.

Best regards,
[STORE_NAME] Team`,
			CallToAction:          "Continue shopping as usual",
			PersonalizationFields: []string{"customer_name", "migration_date", "duration", "store_name"},
		}}
	}
	return nil
}

func featuresFor(platform string) []string {
	if features, ok := platformFeatures[platform]; ok {
		return features
	}
	return []string{"Standard e-commerce features"}
}

// comparePlatformFeatures computes the feature deltas between two platforms.
// Results are sorted for stable output.
func comparePlatformFeatures(source, destination string) migration.FeatureDifferences {
	sourceSet := make(map[string]bool)
	for _, f := range featuresFor(source) {
		sourceSet[f] = true
	}
	destinationSet := make(map[string]bool)
	for _, f := range featuresFor(destination) {
		destinationSet[f] = true
	}

	var added, removed, common []string
	for f := range destinationSet {
		if sourceSet[f] {
			common = append(common, f)
		} else {
			added = append(added, f)
		}
	}
	for f := range sourceSet {
		if !destinationSet[f] {
			removed = append(removed, f)
		}
	}
	sort.Strings(added)
	sort.Strings(removed)
	sort.Strings(common)

	return migration.FeatureDifferences{
		NewFeatures:     added,
		RemovedFeatures: removed,
		CommonFeatures:  common,
	}
}

// implementationGuidelines are the operational checklists attached to every
// communication plan.
func implementationGuidelines() map[string][]string {
	return map[string][]string{
		"preparation_checklist": {
			"Review and approve all message templates",
			"Set up communication channels and tools",
			"Prepare customer service team with FAQs",
			"Schedule notifications in advance",
			"Test all communication systems",
		},
		"best_practices": {
			"Send notifications during business hours",
			"Use clear, non-technical language",
			"Provide specific dates and times",
			"Include contact information for questions",
			"Monitor customer feedback and respond promptly",
		},
		"monitoring_requirements": {
			"Track email open and click rates",
			"Monitor customer service inquiries",
			"Measure social media sentiment",
			"Collect customer feedback surveys",
			"Analyze website traffic patterns",
		},
		"contingency_procedures": {
			"Prepare additional FAQ content",
			"Have backup communication channels ready",
			"Plan for increased customer service capacity",
			"Create escalation procedures for issues",
			"Prepare crisis communication templates",
		},
	}
}

// fallbackPlan is the minimal plan substituted when the completion service
// fails.
func (c *CommunicationAgent) fallbackPlan(reason string) *migration.CommunicationPlan {
	return &migration.CommunicationPlan{
		Strategy: migration.CommunicationStrategy{
			Approach:                  "transparent",
			Tone:                      "professional",
			TargetAudience:            []string{"all_customers"},
			CommunicationTimelineDays: 14,
			EstimatedCustomerCount:    1000,
			FallbackReason:            reason,
		},
		MessageTemplates: []migration.MessageTemplate{
			{
				TemplateID:            "fallback_announcement",
				TemplateName:          "Migration Announcement",
				Phase:                 "pre_migration",
				Channel:               "email",
				SubjectLine:           "Important Store Update Scheduled",
				MessageContent:        "We're upgrading our store to serve you better. The migration is scheduled for [DATE] and will take approximately [DURATION]. Your account and order history will be preserved.",
				CallToAction:          "Continue shopping as usual",
				PersonalizationFields: []string{"migration_date", "duration"},
			},
			{
				TemplateID:     "fallback_completion",
				TemplateName:   "Migration Complete",
				Phase:          "post_migration",
				Channel:        "email",
				SubjectLine:    "Store Upgrade Complete!",
				MessageContent: "Our store upgrade is now complete! You can continue shopping with improved performance and features. Thank you for your patience.",
				CallToAction:   "Start shopping now",
			},
		},
		CustomerSegments: []migration.CustomerSegment{{
			SegmentName:              "all_customers",
			Description:              "All registered customers",
			EstimatedSize:            1000,
			CommunicationPreferences: []string{"email"},
			SpecialConsiderations:    []string{"Basic migration notifications only"},
		}},
		SupportDocumentation: map[string]any{
			"faq_topics": []string{
				"What is happening to the store?",
				"Will my account be affected?",
				"How long will the migration take?",
				"What if I have issues?",
			},
			"help_articles":               []string{"Migration FAQ", "Account Access Guide"},
			"video_tutorials":             []string{},
			"support_channel_preparation": []string{"Prepare standard migration FAQ"},
		},
		SuccessMetrics: []migration.SuccessMetric{{
			MetricName:        "Customer inquiry volume",
			TargetValue:       "< 5% increase",
			MeasurementMethod: "Support ticket count",
		}},
		CreatedAt: c.now().UTC(),
	}
}
