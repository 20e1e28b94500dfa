package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/erentorlak/storemigrate/migration"
	"github.com/erentorlak/storemigrate/storage"
	"github.com/erentorlak/storemigrate/workflow"
)

// defaultListLimit caps unpaged list responses.
const defaultListLimit = 50

type createRequest struct {
	SourcePlatform      string                   `json:"source_platform" binding:"required"`
	DestinationPlatform string                   `json:"destination_platform" binding:"required"`
	SourceConfig        migration.PlatformConfig `json:"source_config"`
	DestinationConfig   migration.PlatformConfig `json:"destination_config"`
	Options             map[string]any           `json:"migration_options"`
}

func (s *Server) handleCreate(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	if !migration.IsSupportedPlatform(req.SourcePlatform) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported source platform: " + req.SourcePlatform})
		return
	}
	if !migration.IsSupportedPlatform(req.DestinationPlatform) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported destination platform: " + req.DestinationPlatform})
		return
	}

	rec := &storage.Migration{
		ID: uuid.New().String(),
		Config: migration.Config{
			SourcePlatform:      req.SourcePlatform,
			DestinationPlatform: req.DestinationPlatform,
			SourceConfig:        req.SourceConfig,
			DestinationConfig:   req.DestinationConfig,
			Options:             req.Options,
		},
		Status:       storage.StatusPending,
		CurrentStage: "initialization",
	}
	if err := s.store.Create(c.Request.Context(), rec); err != nil {
		s.logger.Error("create migration failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store migration"})
		return
	}

	c.JSON(http.StatusCreated, rec)

	// The goroutine gets its own copy so it never races the response write.
	runRec := *rec
	s.startWorkflow(&runRec)
}

func (s *Server) handleList(c *gin.Context) {
	filter := storage.ListFilter{Limit: defaultListLimit}

	if status := c.Query("status"); status != "" {
		st := storage.Status(status)
		if !st.IsValid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status: " + status})
			return
		}
		filter.Status = st
	}
	if offset := c.Query("offset"); offset != "" {
		n, err := strconv.Atoi(offset)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid offset"})
			return
		}
		filter.Offset = n
	}
	if limit := c.Query("limit"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		filter.Limit = n
	}

	records, err := s.store.List(c.Request.Context(), filter)
	if err != nil {
		s.logger.Error("list migrations failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list migrations"})
		return
	}
	if records == nil {
		records = []*storage.Migration{}
	}
	c.JSON(http.StatusOK, gin.H{"migrations": records, "count": len(records)})
}

func (s *Server) handleGet(c *gin.Context) {
	rec, ok := s.getRecord(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (s *Server) handleWorkflowStatus(c *gin.Context) {
	rec, ok := s.getRecord(c)
	if !ok {
		return
	}

	next := ""
	if n, hasNext := workflow.Stage(rec.CurrentStage).Next(); hasNext {
		next = n.String()
	}
	c.JSON(http.StatusOK, gin.H{
		"migration_id":     rec.ID,
		"status":           rec.Status,
		"current_stage":    rec.CurrentStage,
		"progress":         rec.Progress,
		"completed_stages": rec.CompletedStages,
		"next_stage":       next,
		"error_count":      rec.ErrorCount,
	})
}

func (s *Server) handlePause(c *gin.Context) {
	rec, ok := s.getRecord(c)
	if !ok {
		return
	}
	if !rec.Status.Active() {
		c.JSON(http.StatusConflict, gin.H{"error": fmt.Sprintf("migration is %s, not running", rec.Status)})
		return
	}
	run, running := s.runs.get(rec.ID)
	if !running {
		c.JSON(http.StatusConflict, gin.H{"error": "no active workflow for migration"})
		return
	}

	run.ctrl.Pause()
	rec.Status = storage.StatusPaused
	if err := s.store.Update(c.Request.Context(), rec); err != nil {
		s.logger.Error("persist pause failed", "migration_id", rec.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update migration"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"migration_id": rec.ID, "status": rec.Status})
}

func (s *Server) handleResume(c *gin.Context) {
	rec, ok := s.getRecord(c)
	if !ok {
		return
	}
	if rec.Status != storage.StatusPaused {
		c.JSON(http.StatusConflict, gin.H{"error": fmt.Sprintf("migration is %s, not paused", rec.Status)})
		return
	}
	run, running := s.runs.get(rec.ID)
	if !running {
		c.JSON(http.StatusConflict, gin.H{"error": "no active workflow for migration"})
		return
	}

	run.ctrl.Resume()
	next := storage.StatusForStage(rec.CurrentStage)
	if !next.Active() {
		next = storage.StatusAnalyzing
	}
	rec.Status = next
	if err := s.store.Update(c.Request.Context(), rec); err != nil {
		s.logger.Error("persist resume failed", "migration_id", rec.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update migration"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"migration_id": rec.ID, "status": rec.Status})
}

func (s *Server) handleDelete(c *gin.Context) {
	id := c.Param("id")

	if run, running := s.runs.get(id); running {
		run.cancel()
		run.ctrl.Resume() // unpark so the cancellation is observed
		s.runs.remove(id)
	}

	if err := s.store.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "migration not found"})
			return
		}
		s.logger.Error("delete migration failed", "migration_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete migration"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) getRecord(c *gin.Context) (*storage.Migration, bool) {
	rec, err := s.store.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "migration not found"})
		} else {
			s.logger.Error("get migration failed", "migration_id", c.Param("id"), "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load migration"})
		}
		return nil, false
	}
	return rec, true
}

// startWorkflow launches the background workflow goroutine for a freshly
// accepted migration.
func (s *Server) startWorkflow(rec *storage.Migration) {
	ctx, cancel := context.WithCancel(context.Background())
	ctrl := workflow.NewControl()
	s.runs.add(rec.ID, &activeRun{ctrl: ctrl, cancel: cancel})

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer cancel()
		defer s.runs.remove(rec.ID)
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("workflow panicked", "migration_id", rec.ID, "panic", r)
				s.markFailed(rec.ID, fmt.Sprintf("workflow panic: %v", r))
			}
		}()

		now := time.Now()
		rec.Status = storage.StatusAnalyzing
		rec.StartedAt = &now
		if err := s.store.Update(context.Background(), rec); err != nil {
			s.logger.Error("mark migration started failed", "migration_id", rec.ID, "error", err)
		}

		fs := s.runner.ExecuteControlled(ctx, workflow.Input{
			MigrationID: rec.ID,
			Config:      rec.Config,
		}, ctrl)
		s.finishRun(rec.ID, fs)
	}()
}

// finishRun folds the workflow outcome back into the stored record.
func (s *Server) finishRun(id string, fs *workflow.FinalState) {
	ctx := context.Background()
	rec, err := s.store.Get(ctx, id)
	if err != nil {
		// Deleted while running; nothing to record.
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.Error("load migration after run failed", "migration_id", id, "error", err)
		}
		return
	}

	rec.CurrentStage = fs.CurrentStage
	rec.Progress = fs.Progress
	rec.Error = fs.Error

	if st := fs.State; st != nil {
		rec.CompletedStages = st.CompletedStageNames()
		rec.ErrorCount = len(st.Errors)
		s.storeResults(rec, st)
	}

	now := time.Now()
	rec.CompletedAt = &now
	if fs.Success {
		rec.Status = storage.StatusCompleted
	} else {
		rec.Status = storage.StatusFailed
	}

	if err := s.store.Update(ctx, rec); err != nil {
		s.logger.Error("persist workflow result failed", "migration_id", id, "error", err)
	}
}

func (s *Server) storeResults(rec *storage.Migration, st *workflow.State) {
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
			s.logger.Error("marshal result slot failed",
				"migration_id", rec.ID, "slot", slot.name, "error", err)
		}
	}
}

func (s *Server) markFailed(id, message string) {
	ctx := context.Background()
	rec, err := s.store.Get(ctx, id)
	if err != nil {
		return
	}
	rec.Status = storage.StatusFailed
	rec.Error = message
	now := time.Now()
	rec.CompletedAt = &now
	if err := s.store.Update(ctx, rec); err != nil {
		s.logger.Error("mark migration failed errored", "migration_id", id, "error", err)
	}
}
