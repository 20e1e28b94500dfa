// Package config provides configuration loading and management for storemigrate.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete storemigrate configuration
type Config struct {
	LLM      LLMConfig      `yaml:"llm"`
	NATS     NATSConfig     `yaml:"nats"`
	HTTP     HTTPConfig     `yaml:"http"`
	Workflow WorkflowConfig `yaml:"workflow"`
	Log      LogConfig      `yaml:"log"`
}

// LLMConfig configures the completion service client
type LLMConfig struct {
	// Provider selects the API dialect ("openai", "anthropic", "ollama")
	Provider string `yaml:"provider"`
	// Endpoint is the completion API base URL
	Endpoint string `yaml:"endpoint"`
	// Model is the default model name sent with each request
	Model string `yaml:"model"`
	// Timeout is the maximum time to wait for a single completion
	Timeout time.Duration `yaml:"timeout"`
	// MaxTokens limits response length (0 = provider default)
	MaxTokens int `yaml:"max_tokens"`
}

// NATSConfig configures the NATS connection
type NATSConfig struct {
	// URL is the NATS server URL (empty = in-memory storage, no events)
	URL string `yaml:"url"`
}

// HTTPConfig configures the API server
type HTTPConfig struct {
	// Addr is the listen address for the HTTP API
	Addr string `yaml:"addr"`
}

// WorkflowConfig tunes orchestrator behavior
type WorkflowConfig struct {
	// StageTimeout bounds each stage's completion call
	StageTimeout time.Duration `yaml:"stage_timeout"`
	// AbortThreshold is the total error count above which a run is aborted
	AbortThreshold int `yaml:"abort_threshold"`
}

// LogConfig configures logging
type LogConfig struct {
	// Level is one of debug, info, warn, error
	Level string `yaml:"level"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider: "openai",
			Endpoint: "https://api.openai.com/v1",
			Model:    "gpt-4-1106-preview",
			Timeout:  3 * time.Minute,
		},
		NATS: NATSConfig{
			URL: "",
		},
		HTTP: HTTPConfig{
			Addr: ":8080",
		},
		Workflow: WorkflowConfig{
			StageTimeout:   3 * time.Minute,
			AbortThreshold: 5,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.LLM.Provider == "" {
		return fmt.Errorf("llm.provider is required")
	}
	if c.LLM.Model == "" {
		return fmt.Errorf("llm.model is required")
	}
	if c.HTTP.Addr == "" {
		return fmt.Errorf("http.addr is required")
	}
	if c.Workflow.AbortThreshold < 1 {
		return fmt.Errorf("workflow.abort_threshold must be at least 1")
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for non-zero values)
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	if other.LLM.Provider != "" {
		c.LLM.Provider = other.LLM.Provider
	}
	if other.LLM.Endpoint != "" {
		c.LLM.Endpoint = other.LLM.Endpoint
	}
	if other.LLM.Model != "" {
		c.LLM.Model = other.LLM.Model
	}
	if other.LLM.Timeout != 0 {
		c.LLM.Timeout = other.LLM.Timeout
	}
	if other.LLM.MaxTokens != 0 {
		c.LLM.MaxTokens = other.LLM.MaxTokens
	}

	if other.NATS.URL != "" {
		c.NATS.URL = other.NATS.URL
	}

	if other.HTTP.Addr != "" {
		c.HTTP.Addr = other.HTTP.Addr
	}

	if other.Workflow.StageTimeout != 0 {
		c.Workflow.StageTimeout = other.Workflow.StageTimeout
	}
	if other.Workflow.AbortThreshold != 0 {
		c.Workflow.AbortThreshold = other.Workflow.AbortThreshold
	}

	if other.Log.Level != "" {
		c.Log.Level = other.Log.Level
	}
}
