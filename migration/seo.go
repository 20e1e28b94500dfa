package migration

import "time"

// SEOAnalysis is the SEO-preservation stage output: risk assessment, URL
// mapping strategy, and a monitoring plan sized to the risk level.
type SEOAnalysis struct {
	Analysis     SEOAssessment         `json:"seo_analysis"`
	URLStructure *URLStructureAnalysis `json:"url_structure_analysis,omitempty"`

	// CriticalElements and PreservationPlan are free-form model output
	// (meta titles, heading structure, task lists) that the deterministic
	// layer passes through untouched.
	CriticalElements map[string]any `json:"critical_elements,omitempty"`
	PreservationPlan map[string]any `json:"preservation_plan,omitempty"`

	URLMappings      []URLMapping    `json:"url_mappings,omitempty"`
	MigrationRisks   []SEORisk       `json:"migration_risks,omitempty"`
	TrafficImpact    *TrafficImpact  `json:"traffic_impact_assessment,omitempty"`
	PageTypeAnalysis map[string]any  `json:"page_type_analysis,omitempty"`
	MonitoringPlan   *MonitoringPlan `json:"monitoring_plan,omitempty"`
	SuccessMetrics   []SuccessMetric `json:"success_metrics,omitempty"`

	SEOSummary      string           `json:"seo_summary,omitempty"`
	Recommendations []Recommendation `json:"recommendations,omitempty"`
	CreatedAt       time.Time        `json:"created_timestamp,omitzero"`
}

// SEOAssessment scores the current SEO posture and its migration risk.
type SEOAssessment struct {
	CurrentSEOScore       float64 `json:"current_seo_score"`
	RiskLevel             string  `json:"risk_level"`
	CriticalPagesCount    int     `json:"critical_pages_count,omitempty"`
	IndexedPagesEstimated int     `json:"indexed_pages_estimated,omitempty"`
	BacklinksEstimated    int     `json:"backlinks_estimated,omitempty"`
	FallbackReason        string  `json:"fallback_reason,omitempty"`
}

// URLStructureAnalysis describes URL changes between platforms.
type URLStructureAnalysis struct {
	CurrentURLPattern     string   `json:"current_url_pattern,omitempty"`
	DestinationURLPattern string   `json:"destination_url_pattern,omitempty"`
	URLChangesRequired    bool     `json:"url_changes_required"`
	DomainChanged         bool     `json:"domain_changed"`
	SEOFriendlyURLs       bool     `json:"seo_friendly_urls"`
	CanonicalIssues       []string `json:"canonical_issues,omitempty"`
}

// URLMapping is one redirect rule from the source to the destination store.
type URLMapping struct {
	SourceURL        string `json:"source_url"`
	DestinationURL   string `json:"destination_url"`
	RedirectType     string `json:"redirect_type"`
	SEOPriority      string `json:"seo_priority"`
	PageType         string `json:"page_type,omitempty"`
	EstimatedTraffic string `json:"estimated_traffic,omitempty"`
}

// SEORisk is one identified ranking or traffic risk.
type SEORisk struct {
	RiskType           string `json:"risk_type,omitempty"`
	RiskDescription    string `json:"risk_description"`
	Probability        string `json:"probability,omitempty"`
	ImpactSeverity     string `json:"impact_severity,omitempty"`
	AffectedPages      int    `json:"affected_pages,omitempty"`
	MitigationStrategy string `json:"mitigation_strategy,omitempty"`
	TimelineImpact     string `json:"timeline_impact,omitempty"`
}

// TrafficImpact estimates organic-traffic loss from the migration.
type TrafficImpact struct {
	RiskLevel            string `json:"risk_level"`
	EstimatedTrafficLoss string `json:"estimated_traffic_loss"`
	AffectedProducts     int    `json:"affected_products"`
	CurrentOptimization  string `json:"current_optimization"`
	RecoveryTimeline     string `json:"recovery_timeline"`
}

// MonitoringPlan schedules post-migration SEO monitoring by risk tier.
type MonitoringPlan struct {
	MonitoringDurationDays int            `json:"monitoring_duration_days"`
	CheckFrequency         string         `json:"check_frequency"`
	MetricsToMonitor       []string       `json:"metrics_to_monitor"`
	ToolsRequired          []string       `json:"tools_required"`
	AlertThresholds        map[string]int `json:"alert_thresholds"`
	RecoveryProcedures     []string       `json:"recovery_procedures"`
}
