// Package main implements a mock completion server for local development
// and workflow wiring tests. It serves OpenAI-compatible /v1/chat/completions
// responses, picking a canned stage response by inspecting the system prompt
// of each request. This removes the need for a real LLM: runs are fast,
// deterministic, and offline.
//
// Usage:
//
//	mock-llm -port 11434
//	mock-llm -fixtures /path/to/fixtures -port 11434
//
// With -fixtures, files named after a stage (e.g. "data_analysis.json")
// override the built-in response for that stage.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature *float64      `json:"temperature,omitempty"`
	MaxTokens   *int          `json:"max_tokens,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	ID      string       `json:"id"`
	Object  string       `json:"object"`
	Created int64        `json:"created"`
	Model   string       `json:"model"`
	Choices []chatChoice `json:"choices"`
	Usage   chatUsage    `json:"usage"`
}

type chatChoice struct {
	Index        int         `json:"index"`
	Message      chatMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

type chatUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// stageMarkers map a distinctive phrase from each stage prompt to the stage
// name used for response lookup. First match wins, checked in this order.
var stageMarkers = []struct {
	marker string
	stage  string
}{
	{"e-commerce data analysis", "data_analysis"},
	{"migration planning", "migration_planning"},
	{"SEO preservation", "seo_analysis"},
	{"customer communication", "communication_planning"},
	{"Migration Coordinator", "coordination"},
	{"recovery strategy", "error_handling"},
}

type server struct {
	responses map[string]string
	calls     atomic.Int64

	stageCallsMu sync.Mutex
	stageCalls   map[string]int64
}

func newServer(responses map[string]string) *server {
	return &server{
		responses:  responses,
		stageCalls: make(map[string]int64),
	}
}

func main() {
	fixtureDir := flag.String("fixtures", "", "directory with per-stage response overrides")
	port := flag.Int("port", 11434, "port to listen on")
	flag.Parse()

	if envDir := os.Getenv("MOCK_LLM_FIXTURES"); envDir != "" && *fixtureDir == "" {
		*fixtureDir = envDir
	}

	responses := builtinResponses()
	if *fixtureDir != "" {
		overrides, err := loadFixtures(*fixtureDir)
		if err != nil {
			log.Fatalf("Failed to load fixtures from %s: %v", *fixtureDir, err)
		}
		for stage, content := range overrides {
			responses[stage] = content
		}
		log.Printf("Loaded %d override(s) from %s", len(overrides), *fixtureDir)
	}

	s := newServer(responses)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/v1/chat/completions", s.handleChatCompletions)
	mux.HandleFunc("/stats", s.handleStats)

	addr := fmt.Sprintf(":%d", *port)
	log.Printf("Mock completion server listening on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func (s *server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *server) handleChatCompletions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	callNum := s.calls.Add(1)
	stage := classifyStage(req.Messages)
	content, ok := s.responses[stage]
	if !ok {
		content = "Acknowledged."
	}

	s.stageCallsMu.Lock()
	s.stageCalls[stage]++
	s.stageCallsMu.Unlock()

	log.Printf("[call %d] model=%s stage=%s messages=%d", callNum, req.Model, stage, len(req.Messages))

	resp := chatResponse{
		ID:      fmt.Sprintf("mock-%d", time.Now().UnixNano()),
		Object:  "chat.completion",
		Created: time.Now().Unix(),
		Model:   req.Model,
		Choices: []chatChoice{
			{
				Index:        0,
				Message:      chatMessage{Role: "assistant", Content: content},
				FinishReason: "stop",
			},
		},
		Usage: chatUsage{
			PromptTokens:     len(content) / 4, // rough estimate
			CompletionTokens: len(content) / 4,
			TotalTokens:      len(content) / 2,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

// handleStats returns call counts for test assertions.
func (s *server) handleStats(w http.ResponseWriter, _ *http.Request) {
	s.stageCallsMu.Lock()
	callsByStage := make(map[string]int64, len(s.stageCalls))
	for stage, n := range s.stageCalls {
		callsByStage[stage] = n
	}
	s.stageCallsMu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"total_calls":    s.calls.Load(),
		"calls_by_stage": callsByStage,
	})
}

// classifyStage matches the request's system prompt against known stage
// markers. Unrecognized prompts map to "unknown".
func classifyStage(messages []chatMessage) string {
	var system string
	for _, m := range messages {
		if m.Role == "system" {
			system = m.Content
			break
		}
	}
	for _, sm := range stageMarkers {
		if strings.Contains(system, sm.marker) {
			return sm.stage
		}
	}
	return "unknown"
}

// loadFixtures reads stage override files (<stage>.json) from dir.
func loadFixtures(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	overrides := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		if !json.Valid(data) {
			return nil, fmt.Errorf("invalid JSON in %s", path)
		}
		stage := strings.TrimSuffix(entry.Name(), ".json")
		overrides[stage] = string(data)
	}
	return overrides, nil
}

func builtinResponses() map[string]string {
	return map[string]string{
		"coordination":   "Workflow coordinated. Agents may proceed through analysis, planning, SEO, and communication stages in order.",
		"error_handling": "The error appears transient. Recommendation: continue with partial results and flag the stage for manual review.",
		"data_analysis": `{
  "platform_analysis": {
    "platform_type": "shopify",
    "structure_complexity": "medium",
    "data_quality_score": 0.85,
    "api_capabilities": ["rest", "webhooks"]
  },
  "product_analysis": {
    "total_products_estimated": 1200,
    "product_categories": 14,
    "seo_optimization_level": "good"
  },
  "migration_challenges": [
    {
      "challenge": "Product variants use platform-specific option encoding",
      "severity": "medium",
      "mitigation": "Map option sets during transformation"
    }
  ],
  "confidence_score": 0.82,
  "analysis_summary": "Mid-size catalog with clean structure and good SEO hygiene."
}`,
		"migration_planning": `{
  "migration_plan": {
    "plan_id": "mock_plan_001",
    "estimated_duration_days": 10,
    "estimated_duration_hours": 80,
    "complexity_level": "medium",
    "confidence_score": 0.8
  },
  "phases": [
    {"phase_name": "data_migration", "phase_number": 1, "duration_days": 5, "description": "Extract and load catalog, customers, and orders"},
    {"phase_name": "testing", "phase_number": 2, "duration_days": 3, "description": "Validate migrated data and storefront behavior"},
    {"phase_name": "go_live", "phase_number": 3, "duration_days": 2, "description": "DNS cutover and monitoring"}
  ],
  "resource_requirements": {"developers": 2, "project_managers": 1, "qa_testers": 1},
  "risks": [
    {"risk": "API rate limits slow extraction", "probability": "medium", "impact": "medium", "mitigation": "Batch requests with backoff"}
  ]
}`,
		"seo_analysis": `{
  "seo_analysis": {
    "current_seo_score": 7.2,
    "risk_level": "medium",
    "total_indexed_pages_estimated": 1500
  },
  "critical_elements": {
    "priority_pages": ["/", "/products/best-seller"],
    "url_patterns_to_preserve": ["/products/{slug}"]
  },
  "migration_risks": [
    {"risk": "Category URL structure changes", "impact": "medium", "mitigation": "301 redirect map for collections"}
  ],
  "preservation_strategy": {
    "redirect_strategy": "301 permanent redirects for all changed URLs",
    "monitoring_period_days": 30
  }
}`,
		"communication_planning": `{
  "communication_strategy": {
    "approach": "transparent",
    "tone": "professional",
    "estimated_customer_count": 5000
  },
  "message_templates": [
    {
      "template_id": "pre_migration_announcement",
      "template_type": "announcement",
      "subject": "We're upgrading our store",
      "message_body": "Our store is moving to a new platform to serve you better."
    }
  ],
  "customer_segments": [
    {"segment_name": "all_customers", "segment_size_estimate": "100%", "priority": "high"}
  ]
}`,
	}
}
