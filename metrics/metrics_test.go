package metrics

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/erentorlak/storemigrate/llm"
	llmtest "github.com/erentorlak/storemigrate/llm/testutil"
)

func TestCollectorCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.WorkflowCompleted("completed")
	c.WorkflowCompleted("completed")
	c.WorkflowCompleted("failed")
	c.StageError("data_analysis")
	c.StageDuration("data_analysis", 1.5)

	if got := testutil.ToFloat64(c.workflowRuns.WithLabelValues("completed")); got != 2 {
		t.Errorf("completed runs = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.workflowRuns.WithLabelValues("failed")); got != 1 {
		t.Errorf("failed runs = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.stageErrors.WithLabelValues("data_analysis")); got != 1 {
		t.Errorf("stage errors = %v, want 1", got)
	}
}

func TestInstrumentClient(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	mock := &llmtest.MockClient{Responses: []*llm.Response{{Content: "ok"}}}
	client := InstrumentClient(mock, c)

	if _, err := client.Complete(context.Background(), llm.Request{}); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got := testutil.ToFloat64(c.llmCalls.WithLabelValues("ok")); got != 1 {
		t.Errorf("ok calls = %v, want 1", got)
	}

	failing := InstrumentClient(&llmtest.MockClient{Err: errors.New("down")}, c)
	if _, err := failing.Complete(context.Background(), llm.Request{}); err == nil {
		t.Fatal("expected error")
	}
	if got := testutil.ToFloat64(c.llmCalls.WithLabelValues("error")); got != 1 {
		t.Errorf("error calls = %v, want 1", got)
	}
}
