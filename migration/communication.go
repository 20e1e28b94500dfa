package migration

import "time"

// CommunicationPlan is the customer-communication stage output: a
// notification schedule, message templates, and segmentation strategy.
type CommunicationPlan struct {
	Strategy             CommunicationStrategy   `json:"communication_strategy"`
	NotificationSchedule []ScheduledNotification `json:"notification_schedule,omitempty"`
	MessageTemplates     []MessageTemplate       `json:"message_templates,omitempty"`
	CustomerSegments     []CustomerSegment       `json:"customer_segments,omitempty"`

	// SupportDocumentation and CrisisCommunication are free-form model
	// output passed through untouched.
	SupportDocumentation map[string]any `json:"support_documentation,omitempty"`
	CrisisCommunication  map[string]any `json:"crisis_communication,omitempty"`

	PlatformConsiderations   *PlatformConsiderations `json:"platform_considerations,omitempty"`
	ImplementationGuidelines map[string][]string     `json:"implementation_guidelines,omitempty"`
	SuccessMetrics           []SuccessMetric         `json:"success_metrics,omitempty"`

	CommunicationSummary string    `json:"communication_summary,omitempty"`
	CreatedAt            time.Time `json:"created_timestamp,omitzero"`
}

// CommunicationStrategy sets the tone and timeline of customer messaging.
type CommunicationStrategy struct {
	Approach                   string   `json:"approach"`
	Tone                       string   `json:"tone"`
	TargetAudience             []string `json:"target_audience,omitempty"`
	CommunicationTimelineDays  int      `json:"communication_timeline_days"`
	PreMigrationDays           int      `json:"pre_migration_days,omitempty"`
	PostMigrationMonitoringDays int     `json:"post_migration_monitoring_days,omitempty"`
	EstimatedCustomerCount     int      `json:"estimated_customer_count,omitempty"`
	CustomerImpactLevel        string   `json:"customer_impact_level,omitempty"`
	FallbackReason             string   `json:"fallback_reason,omitempty"`
}

// ScheduledNotification is one dated customer notification.
type ScheduledNotification struct {
	Phase            string   `json:"phase"`
	TimingDays       int      `json:"timing_days"`
	NotificationType string   `json:"notification_type"`
	Title            string   `json:"title"`
	Priority         string   `json:"priority"`
	ScheduledDate    string   `json:"scheduled_date"`
	ScheduledTime    string   `json:"scheduled_time"`
	Channels         []string `json:"channels"`
	EstimatedReach   string   `json:"estimated_reach,omitempty"`
}

// MessageTemplate is one reusable customer message.
type MessageTemplate struct {
	TemplateID            string   `json:"template_id"`
	TemplateName          string   `json:"template_name"`
	Phase                 string   `json:"phase"`
	Channel               string   `json:"channel"`
	SubjectLine           string   `json:"subject_line,omitempty"`
	MessageContent        string   `json:"message_content"`
	CallToAction          string   `json:"call_to_action,omitempty"`
	PersonalizationFields []string `json:"personalization_fields,omitempty"`
}

// CustomerSegment is one audience group with its channel preferences.
type CustomerSegment struct {
	SegmentName              string   `json:"segment_name"`
	Description              string   `json:"description,omitempty"`
	EstimatedSize            int      `json:"estimated_size,omitempty"`
	CommunicationPreferences []string `json:"communication_preferences,omitempty"`
	SpecialConsiderations    []string `json:"special_considerations,omitempty"`
}

// PlatformConsiderations compares source and destination platform features.
type PlatformConsiderations struct {
	SourcePlatformFeatures      []string           `json:"source_platform_features"`
	DestinationPlatformFeatures []string           `json:"destination_platform_features"`
	FeatureDifferences          FeatureDifferences `json:"feature_differences"`
}

// FeatureDifferences lists feature deltas between the two platforms.
type FeatureDifferences struct {
	NewFeatures     []string `json:"new_features"`
	RemovedFeatures []string `json:"removed_features"`
	CommonFeatures  []string `json:"common_features"`
}
