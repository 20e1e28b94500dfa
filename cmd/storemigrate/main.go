// Package main provides the storemigrate binary entry point.
// Storemigrate is an e-commerce migration planning service that drives
// a multi-stage agent workflow over an HTTP API.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/erentorlak/storemigrate/config"
	"github.com/erentorlak/storemigrate/events"
	"github.com/erentorlak/storemigrate/llm"
	_ "github.com/erentorlak/storemigrate/llm/providers"
	"github.com/erentorlak/storemigrate/metrics"
	"github.com/erentorlak/storemigrate/migration"
	"github.com/erentorlak/storemigrate/server"
	"github.com/erentorlak/storemigrate/storage"
	"github.com/erentorlak/storemigrate/workflow"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "storemigrate"
)

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		configPath string
		logLevel   string
	)

	cmd := &cobra.Command{
		Use:   appName,
		Short: "E-commerce migration planning service",
		Long: `Storemigrate plans e-commerce platform migrations using a staged
agent workflow: data analysis, migration planning, SEO preservation,
and customer communication.

It exposes an HTTP API for creating migrations, tracking workflow
progress, and pausing, resuming, or cancelling running workflows.
With NATS configured, migration records persist in a JetStream
key-value bucket and progress events publish to migration.progress.>.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(configPath, logLevel)
		},
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	cmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(configPath, logLevel)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "run <request-file>",
		Short: "Execute one migration workflow and print the final record as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOnce(configPath, logLevel, args[0])
		},
	})

	// Version command
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	})

	return cmd
}

func runServe(configPath, logLevel string) error {
	cfg, logger, err := setup(configPath, logLevel)
	if err != nil {
		return err
	}

	slog.Info("Storemigrate starting",
		"version", Version,
		"provider", cfg.LLM.Provider,
		"model", cfg.LLM.Model)

	ctx := context.Background()

	// Storage and events: NATS-backed when configured, in-memory otherwise.
	var (
		store     storage.Store
		publisher *events.Publisher
		nc        *nats.Conn
	)
	if cfg.NATS.URL != "" {
		nc, err = connectToNATS(cfg.NATS.URL, logger)
		if err != nil {
			return err
		}
		defer nc.Close()

		js, err := jetstream.New(nc)
		if err != nil {
			return fmt.Errorf("create JetStream context: %w", err)
		}
		store, err = storage.NewKVStore(ctx, js)
		if err != nil {
			return fmt.Errorf("create KV store: %w", err)
		}
		publisher = events.NewPublisher(nc, logger)
		slog.Info("Using NATS-backed storage and events", "url", cfg.NATS.URL)
	} else {
		store = storage.NewMemoryStore()
		slog.Info("Using in-memory storage, progress events disabled")
	}

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)
	client := metrics.InstrumentClient(newCompletionClient(cfg, logger), collector)

	// Progress events flow through the recorder so status queries stay
	// current, then on to NATS when configured.
	recorder := server.NewProgressRecorder(store, logger, sinkOrNil(publisher))

	orch := workflow.New(client,
		workflow.WithLogger(logger),
		workflow.WithEvents(recorder),
		workflow.WithMetrics(collector),
		workflow.WithStageTimeout(cfg.Workflow.StageTimeout),
		workflow.WithAbortThreshold(cfg.Workflow.AbortThreshold),
	)

	srv := server.New(store, orch,
		server.WithLogger(logger),
		server.WithMetricsRegistry(registry),
	)

	httpSrv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	signalCtx, signalCancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer signalCancel()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTTP API listening", "addr", cfg.HTTP.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-signalCtx.Done():
		slog.Info("Received shutdown signal")
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP shutdown error", "error", err)
	}

	// Let in-flight workflow goroutines record their outcomes.
	srv.Wait()

	slog.Info("Storemigrate shutdown complete")
	return nil
}

// runOnce executes a single migration workflow synchronously against an
// in-memory record and prints the final record as indented JSON.
func runOnce(configPath, logLevel, requestPath string) error {
	cfg, logger, err := setup(configPath, logLevel)
	if err != nil {
		return err
	}

	mcfg, err := loadRequest(requestPath)
	if err != nil {
		return fmt.Errorf("load migration request: %w", err)
	}

	ctx := context.Background()
	store := storage.NewMemoryStore()
	rec := &storage.Migration{
		ID:           uuid.New().String(),
		Config:       mcfg,
		Status:       storage.StatusPending,
		CurrentStage: "initialization",
	}
	if err := store.Create(ctx, rec); err != nil {
		return fmt.Errorf("store migration: %w", err)
	}

	orch := workflow.New(newCompletionClient(cfg, logger),
		workflow.WithLogger(logger),
		workflow.WithEvents(server.NewProgressRecorder(store, logger, nil)),
		workflow.WithStageTimeout(cfg.Workflow.StageTimeout),
		workflow.WithAbortThreshold(cfg.Workflow.AbortThreshold),
	)

	signalCtx, signalCancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer signalCancel()

	started := time.Now()
	rec.Status = storage.StatusAnalyzing
	rec.StartedAt = &started
	if err := store.Update(ctx, rec); err != nil {
		return fmt.Errorf("mark migration started: %w", err)
	}

	fs := orch.Execute(signalCtx, workflow.Input{MigrationID: rec.ID, Config: mcfg})

	rec, err = store.Get(ctx, rec.ID)
	if err != nil {
		return fmt.Errorf("load migration record: %w", err)
	}
	foldResult(rec, fs, logger)
	if err := store.Update(ctx, rec); err != nil {
		return fmt.Errorf("persist workflow result: %w", err)
	}

	out, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal final record: %w", err)
	}
	fmt.Println(string(out))

	if !fs.Success {
		return fmt.Errorf("migration workflow did not complete: %s", fs.Error)
	}
	return nil
}

// migrationRequest is the YAML shape accepted by the run subcommand. It
// mirrors the POST /api/v1/migrations body.
type migrationRequest struct {
	SourcePlatform      string          `yaml:"source_platform"`
	DestinationPlatform string          `yaml:"destination_platform"`
	SourceConfig        platformRequest `yaml:"source_config"`
	DestinationConfig   platformRequest `yaml:"destination_config"`
	Options             map[string]any  `yaml:"migration_options"`
}

type platformRequest struct {
	StoreURL    string         `yaml:"store_url"`
	AccessToken string         `yaml:"access_token"`
	APIKey      string         `yaml:"api_key"`
	Extra       map[string]any `yaml:"additional_config"`
}

func (p platformRequest) toConfig() migration.PlatformConfig {
	return migration.PlatformConfig{
		StoreURL:    p.StoreURL,
		AccessToken: p.AccessToken,
		APIKey:      p.APIKey,
		Extra:       p.Extra,
	}
}

func loadRequest(path string) (migration.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return migration.Config{}, err
	}

	var req migrationRequest
	if err := yaml.Unmarshal(data, &req); err != nil {
		return migration.Config{}, err
	}
	if !migration.IsSupportedPlatform(req.SourcePlatform) {
		return migration.Config{}, fmt.Errorf("unsupported source platform: %q", req.SourcePlatform)
	}
	if !migration.IsSupportedPlatform(req.DestinationPlatform) {
		return migration.Config{}, fmt.Errorf("unsupported destination platform: %q", req.DestinationPlatform)
	}

	return migration.Config{
		SourcePlatform:      req.SourcePlatform,
		DestinationPlatform: req.DestinationPlatform,
		SourceConfig:        req.SourceConfig.toConfig(),
		DestinationConfig:   req.DestinationConfig.toConfig(),
		Options:             req.Options,
	}, nil
}

// foldResult writes the workflow outcome onto the stored record.
func foldResult(rec *storage.Migration, fs *workflow.FinalState, logger *slog.Logger) {
	rec.CurrentStage = fs.CurrentStage
	rec.Progress = fs.Progress
	rec.Error = fs.Error

	if st := fs.State; st != nil {
		rec.CompletedStages = st.CompletedStageNames()
		rec.ErrorCount = len(st.Errors)
		slots := []struct {
			name  string
			value any
			empty bool
		}{
			{"analysis_result", st.AnalysisResult, st.AnalysisResult == nil},
			{"migration_plan", st.MigrationPlan, st.MigrationPlan == nil},
			{"seo_analysis", st.SEOAnalysis, st.SEOAnalysis == nil},
			{"communication_plan", st.CommunicationPlan, st.CommunicationPlan == nil},
			{"execution_plan", st.ExecutionPlan, st.ExecutionPlan == nil},
			{"final_summary", st.FinalSummary, st.FinalSummary == nil},
		}
		for _, slot := range slots {
			if slot.empty {
				continue
			}
			if err := rec.SetResult(slot.name, slot.value); err != nil {
				logger.Error("marshal result slot failed", "slot", slot.name, "error", err)
			}
		}
	}

	done := time.Now()
	rec.CompletedAt = &done
	if fs.Success {
		rec.Status = storage.StatusCompleted
	} else {
		rec.Status = storage.StatusFailed
	}
}

// setup loads configuration and installs the default logger.
func setup(configPath, logLevel string) (*config.Config, *slog.Logger, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	// Flag overrides config
	if logLevel == "" {
		logLevel = cfg.Log.Level
	}
	logger := newLogger(logLevel)
	slog.SetDefault(logger)
	return cfg, logger, nil
}

func newCompletionClient(cfg *config.Config, logger *slog.Logger) *llm.Client {
	return llm.NewClient(cfg.LLM.Provider, cfg.LLM.Endpoint, cfg.LLM.Model,
		llm.WithLogger(logger),
		llm.WithMaxTokens(cfg.LLM.MaxTokens),
		llm.WithHTTPClient(&http.Client{Timeout: cfg.LLM.Timeout}),
	)
}

func newLogger(level string) *slog.Logger {
	lvl := slog.LevelInfo
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

func loadConfig(configPath string) (*config.Config, error) {
	if configPath != "" {
		cfg, err := config.LoadFromFile(configPath)
		if err != nil {
			return nil, err
		}
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	return config.NewLoader(slog.Default()).Load()
}

func connectToNATS(url string, logger *slog.Logger) (*nats.Conn, error) {
	logger.Info("Connecting to NATS", "url", url)

	nc, err := nats.Connect(url,
		nats.Name(appName),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.Timeout(10*time.Second),
	)
	if err != nil {
		return nil, wrapNATSError(err, url)
	}

	logger.Info("Connected to NATS", "url", url)
	return nc, nil
}

// wrapNATSError provides helpful guidance when NATS connection fails.
func wrapNATSError(err error, url string) error {
	errStr := err.Error()

	if strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no servers available") ||
		strings.Contains(errStr, "timeout") {
		return fmt.Errorf(`NATS connection failed: %w

NATS is not running at %s.

To start NATS:
  docker compose up -d nats

Or leave nats.url empty to run with in-memory storage.`, err, url)
	}

	return fmt.Errorf("NATS connection failed: %w", err)
}

// sinkOrNil converts a possibly nil *events.Publisher into an EventSink
// without producing a typed-nil interface.
func sinkOrNil(p *events.Publisher) workflow.EventSink {
	if p == nil {
		return nil
	}
	return p
}
