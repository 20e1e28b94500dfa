package migration

import "time"

// AnalysisResult is the data-analysis stage output: the model's structural
// assessment of the source platform merged with deterministic technical
// analysis of sampled data.
type AnalysisResult struct {
	PlatformAnalysis    PlatformAnalysis `json:"platform_analysis"`
	ProductAnalysis     ProductAnalysis  `json:"product_analysis"`
	MigrationChallenges []Challenge      `json:"migration_challenges,omitempty"`
	Recommendations     []Recommendation `json:"recommendations,omitempty"`
	ConfidenceScore     float64          `json:"confidence_score"`
	AnalysisSummary     string           `json:"analysis_summary,omitempty"`

	TechnicalAnalysis *TechnicalAnalysis `json:"technical_analysis,omitempty"`
	DataSamples       *DataSampleCounts  `json:"data_samples,omitempty"`
	AnalyzedAt        time.Time          `json:"analysis_timestamp,omitzero"`

	// FallbackReason is set when the completion service failed and a
	// default result was substituted.
	FallbackReason string `json:"fallback_reason,omitempty"`
	// Error is set when the source platform could not be analyzed at all.
	Error string `json:"error,omitempty"`
}

// PlatformAnalysis describes the source platform as assessed by the model.
type PlatformAnalysis struct {
	PlatformType        string  `json:"platform_type"`
	Version             string  `json:"version,omitempty"`
	StructureComplexity string  `json:"structure_complexity"`
	DataQualityScore    float64 `json:"data_quality_score"`
}

// ProductAnalysis summarizes the product catalog.
type ProductAnalysis struct {
	TotalProducts        int    `json:"total_products"`
	ProductCategories    int    `json:"product_categories"`
	VariantsPerProduct   int    `json:"variants_per_product"`
	CustomFields         int    `json:"custom_fields"`
	ImagesPerProduct     int    `json:"images_per_product"`
	SEOOptimizationLevel string `json:"seo_optimization_level"`
}

// Challenge is a migration obstacle identified during analysis.
type Challenge struct {
	Challenge string `json:"challenge"`
	Severity  string `json:"severity"`
	Solution  string `json:"solution,omitempty"`
}

// Recommendation is an actionable suggestion from the analysis.
type Recommendation struct {
	Category        string `json:"category,omitempty"`
	Recommendation  string `json:"recommendation"`
	Priority        string `json:"priority,omitempty"`
	EstimatedEffort string `json:"estimated_effort,omitempty"`
}

// TechnicalAnalysis holds the deterministic portion of the analysis.
type TechnicalAnalysis struct {
	ProductComplexity    ProductComplexity  `json:"product_complexity"`
	RelationshipAnalysis RelationshipCounts `json:"relationship_analysis"`
	MigrationEstimates   EffortEstimate     `json:"migration_estimates"`
	DataVolumeAnalysis   DataVolume         `json:"data_volume_analysis"`
}

// ProductComplexity scores the product data structure from 0 to 10.
type ProductComplexity struct {
	ComplexityScore         float64  `json:"complexity_score"`
	Factors                 []string `json:"factors,omitempty"`
	HasVariants             bool     `json:"has_variants"`
	CustomFieldsCount       int      `json:"custom_fields_count"`
	AverageImagesPerProduct float64  `json:"average_images_per_product"`
}

// RelationshipCounts records cross-references between sampled entities.
type RelationshipCounts struct {
	ProductCustomerLinks  int    `json:"product_customer_links"`
	OrderDependencies     int    `json:"order_dependencies"`
	OrderProductRefs      int    `json:"order_product_references"`
	ReferentialIntegrity  string `json:"referential_integrity"`
}

// EffortEstimate is the throughput-based migration effort projection.
type EffortEstimate struct {
	EstimatedDurationHours float64            `json:"estimated_duration_hours"`
	EstimatedDurationDays  float64            `json:"estimated_duration_days"`
	Breakdown              map[string]float64 `json:"breakdown"`
	RecommendedWorkers     int                `json:"recommended_workers"`
}

// DataVolume holds sampled counts and totals extrapolated from them.
type DataVolume struct {
	Products                int `json:"products"`
	Customers               int `json:"customers"`
	Orders                  int `json:"orders"`
	EstimatedTotalProducts  int `json:"estimated_total_products"`
	EstimatedTotalCustomers int `json:"estimated_total_customers"`
	EstimatedTotalOrders    int `json:"estimated_total_orders"`
}

// DataSampleCounts records how many records were fetched per category.
type DataSampleCounts struct {
	Products  int `json:"products_count"`
	Customers int `json:"customers_count"`
	Orders    int `json:"orders_count"`
}
