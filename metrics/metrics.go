// Package metrics exposes Prometheus instrumentation for workflow runs
// and completion-service calls.
package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/erentorlak/storemigrate/llm"
)

// Collector holds the Prometheus collectors for a server instance. It
// implements workflow.MetricsSink.
type Collector struct {
	workflowRuns  *prometheus.CounterVec
	stageDuration *prometheus.HistogramVec
	stageErrors   *prometheus.CounterVec
	llmCalls      *prometheus.CounterVec
}

// NewCollector builds the collectors and registers them on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		workflowRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storemigrate",
			Name:      "workflow_runs_total",
			Help:      "Workflow runs by final outcome.",
		}, []string{"outcome"}),
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "storemigrate",
			Name:      "stage_duration_seconds",
			Help:      "Wall-clock duration of workflow stages.",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 12),
		}, []string{"stage"}),
		stageErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storemigrate",
			Name:      "stage_errors_total",
			Help:      "Errors recorded against workflow stages.",
		}, []string{"stage"}),
		llmCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storemigrate",
			Name:      "llm_calls_total",
			Help:      "Completion-service calls by result.",
		}, []string{"status"}),
	}
	reg.MustRegister(c.workflowRuns, c.stageDuration, c.stageErrors, c.llmCalls)
	return c
}

// WorkflowCompleted implements workflow.MetricsSink.
func (c *Collector) WorkflowCompleted(outcome string) {
	c.workflowRuns.WithLabelValues(outcome).Inc()
}

// StageDuration implements workflow.MetricsSink.
func (c *Collector) StageDuration(stage string, seconds float64) {
	c.stageDuration.WithLabelValues(stage).Observe(seconds)
}

// StageError implements workflow.MetricsSink.
func (c *Collector) StageError(stage string) {
	c.stageErrors.WithLabelValues(stage).Inc()
}

// LLMCall records one completion call outcome.
func (c *Collector) LLMCall(status string) {
	c.llmCalls.WithLabelValues(status).Inc()
}

// instrumentedClient wraps a completion client with call counting.
type instrumentedClient struct {
	inner     llm.CompletionClient
	collector *Collector
}

// InstrumentClient returns a CompletionClient that counts calls on
// collector before delegating to inner.
func InstrumentClient(inner llm.CompletionClient, collector *Collector) llm.CompletionClient {
	return &instrumentedClient{inner: inner, collector: collector}
}

func (i *instrumentedClient) Complete(ctx context.Context, req llm.Request) (*llm.Response, error) {
	resp, err := i.inner.Complete(ctx, req)
	if err != nil {
		i.collector.LLMCall("error")
		return nil, err
	}
	i.collector.LLMCall("ok")
	return resp, nil
}
