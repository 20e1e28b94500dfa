// Package workflow runs the multi-agent migration planning state machine.
// An Orchestrator drives a run through coordination, the four specialist
// stages, execution preparation, and completion, recording everything it
// learns in a State. Stage failures are classified by DecideTransition and
// escalate to an error handler whose verdict comes from DecideRecovery.
package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/erentorlak/storemigrate/llm"
	"github.com/erentorlak/storemigrate/migration"
	"github.com/erentorlak/storemigrate/workflow/agents"
	"github.com/erentorlak/storemigrate/workflow/prompts"
)

const (
	defaultStageTimeout   = 3 * time.Minute
	defaultAbortThreshold = 5

	coordinationTemperature = 0.1
)

// executionOrder is the fixed sequence of execution phases a prepared
// migration will run through.
var executionOrder = []string{
	"data_extraction",
	"data_transformation",
	"seo_setup",
	"data_loading",
	"verification",
	"go_live",
}

// AnalysisRunner runs the data-analysis stage.
type AnalysisRunner interface {
	Run(ctx context.Context, cfg migration.Config) (*migration.AnalysisResult, error)
}

// PlanningRunner runs the migration-planning stage.
type PlanningRunner interface {
	Run(ctx context.Context, analysis *migration.AnalysisResult, cfg migration.Config) (*migration.Plan, error)
}

// SEORunner runs the SEO-analysis stage.
type SEORunner interface {
	Run(ctx context.Context, analysis *migration.AnalysisResult, plan *migration.Plan, cfg migration.Config) (*migration.SEOAnalysis, error)
}

// CommunicationRunner runs the communication-planning stage.
type CommunicationRunner interface {
	Run(ctx context.Context, plan *migration.Plan, seo *migration.SEOAnalysis, cfg migration.Config) (*migration.CommunicationPlan, error)
}

// ProgressEvent describes a change in a run's position.
type ProgressEvent struct {
	MigrationID string    `json:"migration_id"`
	Stage       string    `json:"stage"`
	Progress    float64   `json:"progress"`
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
}

// EventSink receives progress events. Implementations must not block for
// long; the orchestrator calls them inline between stages.
type EventSink interface {
	PublishProgress(ctx context.Context, event ProgressEvent)
}

// MetricsSink receives workflow instrumentation.
type MetricsSink interface {
	WorkflowCompleted(outcome string)
	StageDuration(stage string, seconds float64)
	StageError(stage string)
}

type nopEvents struct{}

func (nopEvents) PublishProgress(context.Context, ProgressEvent) {}

type nopMetrics struct{}

func (nopMetrics) WorkflowCompleted(string)      {}
func (nopMetrics) StageDuration(string, float64) {}
func (nopMetrics) StageError(string)             {}

// Input identifies and configures a workflow run.
type Input struct {
	MigrationID string
	Config      migration.Config
}

// FinalState is the outcome of a run. State carries the full accumulated
// detail for persistence; the flat fields summarize it.
type FinalState struct {
	MigrationID  string  `json:"migration_id"`
	Success      bool    `json:"success"`
	Aborted      bool    `json:"aborted,omitempty"`
	Error        string  `json:"error,omitempty"`
	CurrentStage string  `json:"current_stage"`
	Progress     float64 `json:"current_progress"`

	State *State `json:"-"`
}

// Orchestrator executes migration planning workflows. It is safe for
// concurrent use; all per-run state lives in the State it builds.
type Orchestrator struct {
	llm            llm.CompletionClient
	logger         *slog.Logger
	analysis       AnalysisRunner
	planning       PlanningRunner
	seo            SEORunner
	communication  CommunicationRunner
	events         EventSink
	metrics        MetricsSink
	now            func() time.Time
	stageTimeout   time.Duration
	abortThreshold int
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) { o.logger = logger }
}

// WithEvents sets the progress event sink.
func WithEvents(sink EventSink) Option {
	return func(o *Orchestrator) { o.events = sink }
}

// WithMetrics sets the metrics sink.
func WithMetrics(sink MetricsSink) Option {
	return func(o *Orchestrator) { o.metrics = sink }
}

// WithStageTimeout bounds each stage's work.
func WithStageTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.stageTimeout = d
		}
	}
}

// WithAbortThreshold sets the total error count above which a run aborts.
func WithAbortThreshold(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.abortThreshold = n
		}
	}
}

// WithClock overrides the time source for deterministic tests.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// WithAnalysisRunner replaces the data-analysis stage agent.
func WithAnalysisRunner(r AnalysisRunner) Option {
	return func(o *Orchestrator) { o.analysis = r }
}

// WithPlanningRunner replaces the migration-planning stage agent.
func WithPlanningRunner(r PlanningRunner) Option {
	return func(o *Orchestrator) { o.planning = r }
}

// WithSEORunner replaces the SEO-analysis stage agent.
func WithSEORunner(r SEORunner) Option {
	return func(o *Orchestrator) { o.seo = r }
}

// WithCommunicationRunner replaces the communication-planning stage agent.
func WithCommunicationRunner(r CommunicationRunner) Option {
	return func(o *Orchestrator) { o.communication = r }
}

// New builds an Orchestrator with the default stage agents wired to client.
func New(client llm.CompletionClient, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		llm:            client,
		logger:         slog.Default(),
		events:         nopEvents{},
		metrics:        nopMetrics{},
		now:            time.Now,
		stageTimeout:   defaultStageTimeout,
		abortThreshold: defaultAbortThreshold,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.analysis == nil {
		o.analysis = agents.NewAnalysisAgent(client, o.logger)
	}
	if o.planning == nil {
		o.planning = agents.NewPlanningAgent(client, o.logger)
	}
	if o.seo == nil {
		o.seo = agents.NewSEOAgent(client, o.logger)
	}
	if o.communication == nil {
		o.communication = agents.NewCommunicationAgent(client, o.logger)
	}
	return o
}

// Control pauses and resumes a run cooperatively. The orchestrator checks
// it between stages; a paused run parks until Resume or context cancellation.
type Control struct {
	mu      sync.Mutex
	paused  bool
	resumed chan struct{}
}

// NewControl returns a Control in the running state.
func NewControl() *Control {
	return &Control{}
}

// Pause requests the run park before its next stage.
func (c *Control) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.paused {
		c.paused = true
		c.resumed = make(chan struct{})
	}
}

// Resume releases a paused run.
func (c *Control) Resume() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.paused {
		c.paused = false
		close(c.resumed)
	}
}

// Paused reports whether the run is parked.
func (c *Control) Paused() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.paused
}

func (c *Control) wait(ctx context.Context) error {
	for {
		c.mu.Lock()
		if !c.paused {
			c.mu.Unlock()
			return nil
		}
		resumed := c.resumed
		c.mu.Unlock()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-resumed:
		}
	}
}

// Execute runs the workflow to completion without external control.
func (o *Orchestrator) Execute(ctx context.Context, in Input) *FinalState {
	return o.ExecuteControlled(ctx, in, nil)
}

// ExecuteControlled runs the workflow, honoring pause requests on ctrl. A
// nil ctrl disables pausing. The returned FinalState is never nil; any
// error escaping the state machine is folded into a failed result rather
// than returned.
func (o *Orchestrator) ExecuteControlled(ctx context.Context, in Input, ctrl *Control) *FinalState {
	state := NewState(in.MigrationID, in.Config)
	state.AppendMessage(RoleSystem, "Starting migration workflow orchestration")
	state.AppendMessage(RoleHuman, "Migration ID: "+in.MigrationID)

	o.logger.Info("starting migration workflow",
		"migration_id", in.MigrationID,
		"source_platform", in.Config.SourcePlatform,
		"destination_platform", in.Config.DestinationPlatform)

	aborted, err := o.run(ctx, state, ctrl)
	if err != nil {
		o.logger.Error("migration workflow failed",
			"migration_id", in.MigrationID, "error", err)
		o.metrics.WorkflowCompleted("failed")
		o.publishProgress(ctx, state, "failed")
		return &FinalState{
			MigrationID:  in.MigrationID,
			Success:      false,
			Error:        err.Error(),
			CurrentStage: "failed",
			Progress:     0,
			State:        state,
		}
	}
	if aborted {
		o.logger.Warn("migration workflow aborted",
			"migration_id", in.MigrationID, "errors", len(state.Errors))
		o.metrics.WorkflowCompleted("aborted")
		o.publishProgress(ctx, state, "aborted")
		return &FinalState{
			MigrationID:  in.MigrationID,
			Success:      false,
			Aborted:      true,
			Error:        fmt.Sprintf("workflow aborted after %d errors", len(state.Errors)),
			CurrentStage: state.CurrentStage.String(),
			Progress:     state.Progress,
			State:        state,
		}
	}

	o.logger.Info("migration workflow completed",
		"migration_id", in.MigrationID,
		"stages_completed", len(state.CompletedStages),
		"errors", len(state.Errors))
	o.metrics.WorkflowCompleted("completed")
	o.publishProgress(ctx, state, "completed")
	return &FinalState{
		MigrationID:  in.MigrationID,
		Success:      true,
		CurrentStage: state.CurrentStage.String(),
		Progress:     state.Progress,
		State:        state,
	}
}

// run drives the state machine. It returns aborted=true when the error
// handler gives up on the run, and a non-nil error only for failures that
// cannot be handled in-band (coordination failure, cancellation).
func (o *Orchestrator) run(ctx context.Context, s *State, ctrl *Control) (aborted bool, err error) {
	stage := StageCoordination
	for {
		if err := gate(ctx, ctrl); err != nil {
			return false, err
		}
		switch stage {
		case StageCoordination:
			if err := o.coordinate(ctx, s); err != nil {
				return false, err
			}
			stage = StageDataAnalysis
		case StageDataAnalysis:
			before := s.StageErrorCount(StageDataAnalysis)
			o.runDataAnalysis(ctx, s)
			stage = o.transition(s, StageDataAnalysis, before)
		case StageMigrationPlanning:
			before := s.StageErrorCount(StageMigrationPlanning)
			o.runMigrationPlanning(ctx, s)
			stage = o.transition(s, StageMigrationPlanning, before)
		case StageSEOAnalysis:
			before := s.StageErrorCount(StageSEOAnalysis)
			o.runSEOAnalysis(ctx, s)
			stage = o.transition(s, StageSEOAnalysis, before)
		case StageCommunicationPlanning:
			before := s.StageErrorCount(StageCommunicationPlanning)
			o.runCommunicationPlanning(ctx, s)
			stage = o.transition(s, StageCommunicationPlanning, before)
		case StageExecutionPreparation:
			o.prepareExecution(ctx, s)
			stage = StageCompletion
		case StageCompletion:
			o.complete(ctx, s)
			return false, nil
		case StageErrorHandling:
			if err := o.handleErrors(ctx, s); err != nil {
				return false, err
			}
			recovery := DecideRecovery(len(s.Errors), o.abortThreshold, s.ErrorAnalysis)
			o.logger.Info("error recovery decision",
				"migration_id", s.MigrationID,
				"recovery", recovery.String(),
				"total_errors", len(s.Errors))
			switch recovery {
			case RecoveryAbort:
				return true, nil
			case RecoveryRetry:
				stage = StageCoordination
			default:
				stage = StageCompletion
			}
		default:
			return false, fmt.Errorf("workflow reached invalid stage %q", stage)
		}
	}
}

func gate(ctx context.Context, ctrl *Control) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if ctrl == nil {
		return nil
	}
	return ctrl.wait(ctx)
}

// transition applies the stage-level decision after an agent stage ran.
// prevErrors is the stage's error count before the attempt. Errors are
// append-only, so the count alone cannot distinguish a fresh failure from
// history; an attempt that recorded no new error always moves forward,
// otherwise DecideTransition applies to the stage's total.
func (o *Orchestrator) transition(s *State, stage Stage, prevErrors int) Stage {
	count := s.StageErrorCount(stage)
	if count == prevErrors {
		next, _ := stage.Next()
		return next
	}
	switch DecideTransition(count) {
	case DecisionRetry:
		o.logger.Warn("retrying stage", "migration_id", s.MigrationID, "stage", stage.String())
		return stage
	case DecisionError:
		return StageErrorHandling
	}
	next, _ := stage.Next()
	return next
}

func (o *Orchestrator) coordinate(ctx context.Context, s *State) error {
	o.logger.Info("coordinator initializing migration workflow", "migration_id", s.MigrationID)

	s.EnterStage(StageCoordination)
	o.publishProgress(ctx, s, "running")

	messages := make([]llm.Message, 0, len(s.Messages)+1)
	messages = append(messages, llm.Message{
		Role: "system",
		Content: prompts.CoordinatorPrompt(
			s.MigrationID, s.Config.SourcePlatform, s.Config.DestinationPlatform),
	})
	for _, m := range s.Messages {
		messages = append(messages, llm.Message{Role: chatRole(m.Role), Content: m.Content})
	}

	sctx, cancel := context.WithTimeout(ctx, o.stageTimeout)
	defer cancel()

	temp := coordinationTemperature
	start := o.now()
	resp, err := o.llm.Complete(sctx, llm.Request{Messages: messages, Temperature: &temp})
	o.metrics.StageDuration(StageCoordination.String(), o.now().Sub(start).Seconds())
	if err != nil {
		o.metrics.StageError(StageCoordination.String())
		return fmt.Errorf("coordination: %w", err)
	}

	s.AppendMessage(RoleAgent, resp.Content)
	s.MarkStageComplete(StageCoordination)
	return nil
}

func (o *Orchestrator) runDataAnalysis(ctx context.Context, s *State) {
	o.logger.Info("starting data analysis phase", "migration_id", s.MigrationID)

	s.EnterStage(StageDataAnalysis)
	o.publishProgress(ctx, s, "running")

	sctx, cancel := context.WithTimeout(ctx, o.stageTimeout)
	defer cancel()

	start := o.now()
	result, err := o.analysis.Run(sctx, s.Config)
	o.metrics.StageDuration(StageDataAnalysis.String(), o.now().Sub(start).Seconds())
	if err != nil {
		o.recordStageFailure(s, StageDataAnalysis, err)
		return
	}

	s.AnalysisResult = result
	s.MarkStageComplete(StageDataAnalysis)

	complexity := result.PlatformAnalysis.StructureComplexity
	if complexity == "" {
		complexity = "unknown"
	}
	s.AppendMessage(RoleAgent, "Data analysis completed. Platform complexity: "+complexity)

	o.logger.Info("data analysis completed successfully",
		"migration_id", s.MigrationID, "complexity", complexity)
}

func (o *Orchestrator) runMigrationPlanning(ctx context.Context, s *State) {
	o.logger.Info("starting migration planning phase", "migration_id", s.MigrationID)

	s.EnterStage(StageMigrationPlanning)
	o.publishProgress(ctx, s, "running")

	sctx, cancel := context.WithTimeout(ctx, o.stageTimeout)
	defer cancel()

	start := o.now()
	plan, err := o.planning.Run(sctx, s.AnalysisResult, s.Config)
	o.metrics.StageDuration(StageMigrationPlanning.String(), o.now().Sub(start).Seconds())
	if err != nil {
		o.recordStageFailure(s, StageMigrationPlanning, err)
		return
	}

	s.MigrationPlan = plan
	s.MarkStageComplete(StageMigrationPlanning)

	duration := "unknown"
	if plan.Details.EstimatedDurationDays > 0 {
		duration = strconv.FormatFloat(plan.Details.EstimatedDurationDays, 'f', -1, 64)
	}
	s.AppendMessage(RoleAgent, "Migration plan created. Estimated duration: "+duration+" days")

	o.logger.Info("migration planning completed successfully",
		"migration_id", s.MigrationID, "estimated_days", plan.Details.EstimatedDurationDays)
}

func (o *Orchestrator) runSEOAnalysis(ctx context.Context, s *State) {
	o.logger.Info("starting SEO analysis phase", "migration_id", s.MigrationID)

	s.EnterStage(StageSEOAnalysis)
	o.publishProgress(ctx, s, "running")

	sctx, cancel := context.WithTimeout(ctx, o.stageTimeout)
	defer cancel()

	start := o.now()
	seo, err := o.seo.Run(sctx, s.AnalysisResult, s.MigrationPlan, s.Config)
	o.metrics.StageDuration(StageSEOAnalysis.String(), o.now().Sub(start).Seconds())
	if err != nil {
		o.recordStageFailure(s, StageSEOAnalysis, err)
		return
	}

	s.SEOAnalysis = seo
	s.MarkStageComplete(StageSEOAnalysis)

	risk := seo.Analysis.RiskLevel
	if risk == "" {
		risk = "unknown"
	}
	s.AppendMessage(RoleAgent, "SEO analysis completed. Risk level: "+risk)

	o.logger.Info("SEO analysis completed successfully",
		"migration_id", s.MigrationID, "risk_level", risk)
}

func (o *Orchestrator) runCommunicationPlanning(ctx context.Context, s *State) {
	o.logger.Info("starting communication planning phase", "migration_id", s.MigrationID)

	s.EnterStage(StageCommunicationPlanning)
	o.publishProgress(ctx, s, "running")

	sctx, cancel := context.WithTimeout(ctx, o.stageTimeout)
	defer cancel()

	start := o.now()
	plan, err := o.communication.Run(sctx, s.MigrationPlan, s.SEOAnalysis, s.Config)
	o.metrics.StageDuration(StageCommunicationPlanning.String(), o.now().Sub(start).Seconds())
	if err != nil {
		o.recordStageFailure(s, StageCommunicationPlanning, err)
		return
	}

	s.CommunicationPlan = plan
	s.MarkStageComplete(StageCommunicationPlanning)
	s.AppendMessage(RoleAgent, fmt.Sprintf(
		"Communication plan created. %d notifications planned", len(plan.NotificationSchedule)))

	o.logger.Info("communication planning completed successfully",
		"migration_id", s.MigrationID,
		"notifications_count", len(plan.NotificationSchedule))
}

func (o *Orchestrator) prepareExecution(ctx context.Context, s *State) {
	o.logger.Info("preparing for migration execution", "migration_id", s.MigrationID)

	s.EnterStage(StageExecutionPreparation)
	o.publishProgress(ctx, s, "running")

	prereqs := checkPrerequisites(s)
	s.ExecutionPlan = &migration.ExecutionPlan{
		MigrationID:       s.MigrationID,
		ReadyForExecution: prereqs.Met(),
		PreparedAt:        o.now(),
		Prerequisites:     prereqs,
		ExecutionOrder:    append([]string(nil), executionOrder...),
	}
	s.MarkStageComplete(StageExecutionPreparation)
	s.AppendMessage(RoleAgent, "Migration execution preparation completed. Ready for execution phase.")
}

func checkPrerequisites(s *State) migration.Prerequisites {
	noCritical := true
	for _, e := range s.Errors {
		if strings.Contains(strings.ToLower(e.Message), "critical") {
			noCritical = false
			break
		}
	}
	return migration.Prerequisites{
		AnalysisCompleted:    s.AnalysisResult != nil,
		PlanCreated:          s.MigrationPlan != nil,
		SEOAnalyzed:          s.SEOAnalysis != nil,
		CommunicationPlanned: s.CommunicationPlan != nil,
		NoCriticalErrors:     noCritical,
	}
}

func (o *Orchestrator) complete(ctx context.Context, s *State) {
	o.logger.Info("completing migration workflow", "migration_id", s.MigrationID)

	s.EnterStage(StageCompletion)
	s.MarkStageComplete(StageCompletion)

	ready := false
	if s.ExecutionPlan != nil {
		ready = s.ExecutionPlan.ReadyForExecution
	}
	s.FinalSummary = &migration.FinalSummary{
		MigrationID:       s.MigrationID,
		WorkflowStatus:    "completed",
		CompletedAt:       o.now(),
		StagesCompleted:   s.CompletedStageNames(),
		TotalErrors:       len(s.Errors),
		ReadyForExecution: ready,
	}
	s.CurrentStage = StageCompleted
	s.AppendMessage(RoleAgent, fmt.Sprintf(
		"Migration workflow completed successfully. %d stages completed with %d errors.",
		len(s.CompletedStages), len(s.Errors)))
}

// handleErrors asks for a recovery recommendation on the latest error. The
// recommendation text feeds DecideRecovery; a completion failure here is
// fatal to the run.
func (o *Orchestrator) handleErrors(ctx context.Context, s *State) error {
	o.logger.Warn("handling workflow errors",
		"migration_id", s.MigrationID, "error_count", len(s.Errors))

	s.EnterStage(StageErrorHandling)

	latest := s.LatestError()
	if latest == nil {
		return nil
	}

	sctx, cancel := context.WithTimeout(ctx, o.stageTimeout)
	defer cancel()

	temp := coordinationTemperature
	resp, err := o.llm.Complete(sctx, llm.Request{
		Messages: []llm.Message{{
			Role: "system",
			Content: prompts.ErrorAnalysisPrompt(
				latest.Stage.String(), latest.Message, latest.Timestamp.Format(time.RFC3339)),
		}},
		Temperature: &temp,
	})
	if err != nil {
		return fmt.Errorf("error analysis: %w", err)
	}

	s.AppendMessage(RoleAgent, resp.Content)
	s.ErrorAnalysis = resp.Content
	return nil
}

func (o *Orchestrator) recordStageFailure(s *State, stage Stage, err error) {
	s.RecordError(stage, err.Error(), o.now())
	o.metrics.StageError(stage.String())
	o.logger.Error(stage.String()+" failed",
		"migration_id", s.MigrationID, "error", err)
}

func (o *Orchestrator) publishProgress(ctx context.Context, s *State, status string) {
	o.events.PublishProgress(ctx, ProgressEvent{
		MigrationID: s.MigrationID,
		Stage:       s.CurrentStage.String(),
		Progress:    s.Progress,
		Status:      status,
		Timestamp:   o.now(),
	})
}

// chatRole maps audit-trail roles onto chat API roles.
func chatRole(role string) string {
	switch role {
	case RoleHuman:
		return "user"
	case RoleAgent:
		return "assistant"
	default:
		return "system"
	}
}
