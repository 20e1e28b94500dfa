package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"missing provider", func(c *Config) { c.LLM.Provider = "" }, true},
		{"missing model", func(c *Config) { c.LLM.Model = "" }, true},
		{"missing addr", func(c *Config) { c.HTTP.Addr = "" }, true},
		{"zero abort threshold", func(c *Config) { c.Workflow.AbortThreshold = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMerge(t *testing.T) {
	base := DefaultConfig()
	other := &Config{
		LLM:      LLMConfig{Provider: "ollama", Endpoint: "http://localhost:11434/v1", Model: "llama3"},
		NATS:     NATSConfig{URL: "nats://localhost:4222"},
		Workflow: WorkflowConfig{StageTimeout: time.Minute},
	}

	base.Merge(other)

	assert.Equal(t, "ollama", base.LLM.Provider)
	assert.Equal(t, "llama3", base.LLM.Model)
	assert.Equal(t, "nats://localhost:4222", base.NATS.URL)
	assert.Equal(t, time.Minute, base.Workflow.StageTimeout)

	// Untouched fields keep defaults
	assert.Equal(t, ":8080", base.HTTP.Addr)
	assert.Equal(t, 5, base.Workflow.AbortThreshold)
}

func TestMergeNil(t *testing.T) {
	base := DefaultConfig()
	base.Merge(nil)
	assert.Equal(t, "openai", base.LLM.Provider, "merge with nil should not change config")
}

func TestLoadFromFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	cfg := DefaultConfig()
	cfg.LLM.Model = "test-model"
	cfg.Workflow.AbortThreshold = 7
	require.NoError(t, cfg.SaveToFile(path))

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "test-model", loaded.LLM.Model)
	assert.Equal(t, 7, loaded.Workflow.AbortThreshold)
}

func TestLoadFromFileMissing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadFromFileInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("llm: [not a map"), 0644))

	_, err := LoadFromFile(path)
	require.Error(t, err)
}
