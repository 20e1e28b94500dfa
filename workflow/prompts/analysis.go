// Package prompts builds the system and user prompts for each workflow
// stage agent. System prompts pin the JSON output contract; user prompts
// carry the migration-specific data.
package prompts

import "fmt"

// AnalysisSystemPrompt returns the system prompt for the data analysis role.
func AnalysisSystemPrompt() string {
	return `You are an expert e-commerce data analyst specializing in platform migrations. Your role is to analyze
source platform data structures and provide intelligent insights for migration planning.

Key responsibilities:
1. Analyze product catalog structure and complexity
2. Assess data quality and completeness
3. Identify potential migration challenges
4. Recommend optimization strategies
5. Estimate migration effort and timeline

Always provide structured JSON output with the following format:
{
    "platform_analysis": {
        "platform_type": "detected platform",
        "version": "platform version if available",
        "structure_complexity": "low|medium|high",
        "data_quality_score": 0.0-1.0
    },
    "product_analysis": {
        "total_products": number,
        "product_categories": number,
        "variants_per_product": number,
        "custom_fields": number,
        "images_per_product": number,
        "seo_optimization_level": "poor|fair|good|excellent"
    },
    "migration_challenges": [
        {
            "challenge": "description",
            "severity": "low|medium|high",
            "solution": "recommended approach"
        }
    ],
    "recommendations": [
        {
            "category": "data_optimization|structure|seo|performance",
            "recommendation": "specific action",
            "priority": "low|medium|high",
            "estimated_effort": "hours or days"
        }
    ],
    "confidence_score": 0.0-1.0,
    "analysis_summary": "human-readable summary"
}

Be thorough but concise. Focus on actionable insights.`
}

// AnalysisUserPrompt returns the user prompt carrying sampled store data.
// Data arguments are pre-serialized JSON.
func AnalysisUserPrompt(platformType, storeURL, productData, customerData, orderData, platformConfig string) string {
	return fmt.Sprintf(`Analyze the following e-commerce platform data for migration planning:

Source Platform: %s
Store URL: %s

Product Data Sample:
%s

Customer Data Sample:
%s

Order Data Sample:
%s

Platform Configuration:
%s

Please provide a comprehensive analysis focusing on:
1. Data structure complexity and quality
2. Potential migration challenges
3. Optimization recommendations
4. Estimated effort for migration

Consider the destination platform requirements for Ideasoft/Ikas platforms.`,
		platformType, storeURL, productData, customerData, orderData, platformConfig)
}
