package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestClassifyStage(t *testing.T) {
	tests := []struct {
		name   string
		system string
		want   string
	}{
		{"analysis", "You are an expert e-commerce data analysis agent.", "data_analysis"},
		{"planning", "You are an expert e-commerce migration planning agent.", "migration_planning"},
		{"seo", "You are an expert SEO preservation agent.", "seo_analysis"},
		{"communication", "You are an expert customer communication agent.", "communication_planning"},
		{"coordinator", "As the Migration Coordinator, you are orchestrating...", "coordination"},
		{"error handler", "Analyze this error and recommend a recovery strategy:", "error_handling"},
		{"unmatched", "Tell me a joke.", "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			messages := []chatMessage{{Role: "system", Content: tt.system}}
			if got := classifyStage(messages); got != tt.want {
				t.Errorf("classifyStage = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHandleChatCompletions(t *testing.T) {
	s := newServer(builtinResponses())

	body, _ := json.Marshal(chatRequest{
		Model: "mock",
		Messages: []chatMessage{
			{Role: "system", Content: "You are an expert e-commerce data analysis agent."},
			{Role: "user", Content: "Analyze this store."},
		},
	})
	req := httptest.NewRequest(http.MethodPost, "/v1/chat/completions", bytes.NewReader(body))
	w := httptest.NewRecorder()
	s.handleChatCompletions(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp chatResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(resp.Choices) != 1 || resp.Choices[0].FinishReason != "stop" {
		t.Fatalf("choices = %+v", resp.Choices)
	}

	var parsed map[string]any
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &parsed); err != nil {
		t.Fatalf("analysis response should be JSON: %v", err)
	}
	if _, ok := parsed["platform_analysis"]; !ok {
		t.Error("analysis response missing platform_analysis")
	}
}

func TestHandleChatCompletionsRejectsGet(t *testing.T) {
	s := newServer(builtinResponses())
	req := httptest.NewRequest(http.MethodGet, "/v1/chat/completions", nil)
	w := httptest.NewRecorder()
	s.handleChatCompletions(w, req)
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d", w.Code)
	}
}

func TestLoadFixtures(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "data_analysis.json"), []byte(`{"confidence_score": 1.0}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644); err != nil {
		t.Fatal(err)
	}

	overrides, err := loadFixtures(dir)
	if err != nil {
		t.Fatalf("loadFixtures: %v", err)
	}
	if len(overrides) != 1 || overrides["data_analysis"] == "" {
		t.Errorf("overrides = %v", overrides)
	}
}

func TestLoadFixturesRejectsInvalidJSON(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "broken.json"), []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := loadFixtures(dir); err == nil {
		t.Error("expected error for invalid JSON fixture")
	}
}
