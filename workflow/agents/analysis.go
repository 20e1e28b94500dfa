package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/erentorlak/storemigrate/connector"
	"github.com/erentorlak/storemigrate/llm"
	"github.com/erentorlak/storemigrate/migration"
	"github.com/erentorlak/storemigrate/workflow/prompts"
)

// analysisTemperature keeps the analysis output near-deterministic.
const analysisTemperature = 0.1

// Sample sizes fetched from the source platform for analysis.
const (
	productSampleLimit  = 50
	customerSampleLimit = 20
	orderSampleLimit    = 20
	categorySampleLimit = 20
)

// standardProductFields are the product keys every platform exposes; keys
// outside this set count as custom fields during complexity scoring.
var standardProductFields = map[string]bool{
	"id": true, "title": true, "description": true,
	"price": true, "images": true, "variants": true,
}

// AnalysisAgent analyzes the source platform's data structures and produces
// the migration analysis that downstream stages build on.
type AnalysisAgent struct {
	llm    llm.CompletionClient
	logger *slog.Logger

	now     func() time.Time
	connect func(platform string, cfg migration.PlatformConfig) (connector.Connector, error)
}

// NewAnalysisAgent creates a data analysis agent.
func NewAnalysisAgent(client llm.CompletionClient, logger *slog.Logger) *AnalysisAgent {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalysisAgent{
		llm:     client,
		logger:  logger,
		now:     time.Now,
		connect: connector.New,
	}
}

// Run performs the platform analysis. Connection and completion failures are
// absorbed into an error-carrying result so the workflow can keep going; the
// returned error is non-nil only when the context is done.
func (a *AnalysisAgent) Run(ctx context.Context, cfg migration.Config) (*migration.AnalysisResult, error) {
	a.logger.Info("Starting platform analysis",
		"platform_type", cfg.SourcePlatform,
		"store_url", cfg.SourceConfig.StoreURL)

	conn, err := a.connect(cfg.SourcePlatform, cfg.SourceConfig)
	if err != nil {
		a.logger.Error("Platform analysis failed",
			"platform_type", cfg.SourcePlatform,
			"error", err)
		return a.failureResult(cfg.SourcePlatform, err), nil
	}

	data := a.gatherData(ctx, conn)

	result, err := a.aiAnalysis(ctx, cfg, data)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		a.logger.Error("Platform analysis failed",
			"platform_type", cfg.SourcePlatform,
			"error", err)
		return a.failureResult(cfg.SourcePlatform, err), nil
	}

	result.TechnicalAnalysis = technicalAnalysis(data)
	result.DataSamples = &migration.DataSampleCounts{
		Products:  len(data.products),
		Customers: len(data.customers),
		Orders:    len(data.orders),
	}
	result.AnalyzedAt = a.now().UTC()

	a.logger.Info("Platform analysis completed",
		"confidence_score", result.ConfidenceScore,
		"challenges_found", len(result.MigrationChallenges))

	return result, nil
}

// analysisData holds the sampled records fetched from the source platform.
type analysisData struct {
	products     []map[string]any
	customers    []map[string]any
	orders       []map[string]any
	categories   []map[string]any
	platformInfo map[string]any
}

// gatherData fetches all sample sets concurrently. A failed fetch degrades
// to an empty set rather than failing the analysis.
func (a *AnalysisAgent) gatherData(ctx context.Context, conn connector.Connector) analysisData {
	var data analysisData
	var wg sync.WaitGroup

	wg.Add(5)
	go func() {
		defer wg.Done()
		data.products = a.safeFetch(ctx, "products", func() ([]map[string]any, error) {
			return conn.GetProducts(ctx, productSampleLimit)
		})
	}()
	go func() {
		defer wg.Done()
		data.customers = a.safeFetch(ctx, "customers", func() ([]map[string]any, error) {
			return conn.GetCustomers(ctx, customerSampleLimit)
		})
	}()
	go func() {
		defer wg.Done()
		data.orders = a.safeFetch(ctx, "orders", func() ([]map[string]any, error) {
			return conn.GetOrders(ctx, orderSampleLimit)
		})
	}()
	go func() {
		defer wg.Done()
		data.categories = a.safeFetch(ctx, "categories", func() ([]map[string]any, error) {
			return conn.GetCategories(ctx, categorySampleLimit)
		})
	}()
	go func() {
		defer wg.Done()
		info, err := conn.GetPlatformInfo(ctx)
		if err != nil {
			a.logger.Warn("Failed to fetch data", "kind", "platform_info", "error", err)
			info = map[string]any{}
		}
		data.platformInfo = info
	}()
	wg.Wait()

	return data
}

func (a *AnalysisAgent) safeFetch(ctx context.Context, kind string, fetch func() ([]map[string]any, error)) []map[string]any {
	records, err := fetch()
	if err != nil {
		a.logger.Warn("Failed to fetch data", "kind", kind, "error", err)
		return []map[string]any{}
	}
	return records
}

// aiAnalysis sends sampled data to the completion service and parses the
// structured analysis out of the reply.
func (a *AnalysisAgent) aiAnalysis(ctx context.Context, cfg migration.Config, data analysisData) (*migration.AnalysisResult, error) {
	storeURL := cfg.SourceConfig.StoreURL
	if storeURL == "" {
		storeURL = "Unknown"
	}

	userPrompt := prompts.AnalysisUserPrompt(
		cfg.SourcePlatform,
		storeURL,
		indentJSON(sampleRecords(data.products, 3)),
		indentJSON(sampleRecords(data.customers, 2)),
		indentJSON(sampleRecords(data.orders, 2)),
		indentJSON(data.platformInfo),
	)

	resp, err := a.llm.Complete(ctx, llm.Request{
		Messages: []llm.Message{
			{Role: "system", Content: prompts.AnalysisSystemPrompt()},
			{Role: "user", Content: userPrompt},
		},
		Temperature: llm.Temp(analysisTemperature),
	})
	if err != nil {
		return nil, err
	}

	return parseAnalysis(a.logger, resp.Content), nil
}

// parseAnalysis decodes the model reply. Replies without a JSON object keep
// the raw text as the summary at reduced confidence; undecodable JSON drops
// confidence further.
func parseAnalysis(logger *slog.Logger, text string) *migration.AnalysisResult {
	raw := llm.ExtractJSON(text)
	if raw == "" {
		return &migration.AnalysisResult{
			AnalysisSummary: text,
			ConfidenceScore: 0.5,
		}
	}

	var result migration.AnalysisResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		logger.Warn("Failed to parse analysis output as JSON", "error", err)
		return &migration.AnalysisResult{
			AnalysisSummary: text,
			ConfidenceScore: 0.3,
		}
	}
	return &result
}

// failureResult builds the error-shaped analysis returned when the source
// platform cannot be reached or analyzed.
func (a *AnalysisAgent) failureResult(platformType string, cause error) *migration.AnalysisResult {
	return &migration.AnalysisResult{
		Error: cause.Error(),
		PlatformAnalysis: migration.PlatformAnalysis{
			PlatformType:        platformType,
			StructureComplexity: "unknown",
			DataQualityScore:    0,
		},
		MigrationChallenges: []migration.Challenge{{
			Challenge: fmt.Sprintf("Failed to connect to source platform: %v", cause),
			Severity:  "high",
			Solution:  "Verify API credentials and platform accessibility",
		}},
		ConfidenceScore: 0,
		AnalysisSummary: fmt.Sprintf("Analysis failed due to connection error: %v", cause),
	}
}

// technicalAnalysis derives the deterministic portion of the analysis from
// the sampled data.
func technicalAnalysis(data analysisData) *migration.TechnicalAnalysis {
	return &migration.TechnicalAnalysis{
		ProductComplexity:    analyzeProductComplexity(data.products),
		RelationshipAnalysis: analyzeRelationships(data.products, data.orders),
		MigrationEstimates:   calculateEffort(data),
		DataVolumeAnalysis: migration.DataVolume{
			Products:                len(data.products),
			Customers:               len(data.customers),
			Orders:                  len(data.orders),
			EstimatedTotalProducts:  estimateTotalCount(len(data.products)),
			EstimatedTotalCustomers: estimateTotalCount(len(data.customers)),
			EstimatedTotalOrders:    estimateTotalCount(len(data.orders)),
		},
	}
}

// analyzeProductComplexity scores product structure on a 0-10 scale from
// variants, custom fields, and image counts.
func analyzeProductComplexity(products []map[string]any) migration.ProductComplexity {
	if len(products) == 0 {
		return migration.ProductComplexity{ComplexityScore: 0}
	}

	var score float64
	var factors []string

	hasVariants := false
	for _, p := range products {
		if len(anySlice(p["variants"])) > 1 {
			hasVariants = true
			break
		}
	}
	if hasVariants {
		score += 2
		factors = append(factors, "Product variants detected")
	}

	customFields := make(map[string]bool)
	for _, p := range products {
		for key := range p {
			if !standardProductFields[key] {
				customFields[key] = true
			}
		}
	}
	if len(customFields) > 0 {
		score += float64(len(customFields)) * 0.5

		names := make([]string, 0, len(customFields))
		for name := range customFields {
			names = append(names, name)
		}
		sort.Strings(names)
		if len(names) > 5 {
			names = names[:5]
		}
		factors = append(factors, "Custom fields: "+strings.Join(names, ", "))
	}

	totalImages := 0
	for _, p := range products {
		totalImages += len(anySlice(p["images"]))
	}
	avgImages := float64(totalImages) / float64(len(products))
	if avgImages > 3 {
		score += 1
		factors = append(factors, fmt.Sprintf("Average %.1f images per product", avgImages))
	}

	if score > 10 {
		score = 10
	}

	return migration.ProductComplexity{
		ComplexityScore:         score,
		Factors:                 factors,
		HasVariants:             hasVariants,
		CustomFieldsCount:       len(customFields),
		AverageImagesPerProduct: avgImages,
	}
}

// analyzeRelationships counts order line items that reference sampled products.
func analyzeRelationships(products, orders []map[string]any) migration.RelationshipCounts {
	counts := migration.RelationshipCounts{ReferentialIntegrity: "good"}

	if len(orders) == 0 || len(products) == 0 {
		return counts
	}

	productIDs := make(map[string]bool, len(products))
	for _, p := range products {
		productIDs[fmt.Sprint(p["id"])] = true
	}

	for _, order := range orders {
		for _, item := range anySlice(order["line_items"]) {
			m, ok := item.(map[string]any)
			if !ok {
				continue
			}
			if productIDs[fmt.Sprint(m["product_id"])] {
				counts.OrderProductRefs++
			}
		}
	}

	return counts
}

// Base processing rates in items per hour.
const (
	productRate  = 500
	customerRate = 1000
	orderRate    = 800
)

// calculateEffort projects migration effort from extrapolated record counts.
func calculateEffort(data analysisData) migration.EffortEstimate {
	products := float64(estimateTotalCount(len(data.products)))
	customers := float64(estimateTotalCount(len(data.customers)))
	orders := float64(estimateTotalCount(len(data.orders)))

	breakdown := map[string]float64{
		"products":  max(1, products/productRate),
		"customers": max(0.5, customers/customerRate),
		"orders":    max(0.5, orders/orderRate),
	}

	totalHours := breakdown["products"] + breakdown["customers"] + breakdown["orders"]

	workers := int(totalHours / 24)
	if workers < 1 {
		workers = 1
	}
	if workers > 4 {
		workers = 4
	}

	return migration.EffortEstimate{
		EstimatedDurationHours: totalHours,
		EstimatedDurationDays:  max(1, totalHours/8),
		Breakdown:              breakdown,
		RecommendedWorkers:     workers,
	}
}

// estimateTotalCount extrapolates a store total from a sample size. The
// multiplier grows with the sample because larger samples indicate larger
// catalogs behind the pagination window.
func estimateTotalCount(sampleSize int) int {
	switch {
	case sampleSize == 0:
		return 0
	case sampleSize < 10:
		return sampleSize * 10
	case sampleSize < 50:
		return sampleSize * 20
	default:
		return sampleSize * 40
	}
}

// anySlice coerces a decoded JSON value to a slice, or nil.
func anySlice(v any) []any {
	s, _ := v.([]any)
	return s
}
