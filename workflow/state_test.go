package workflow

import (
	"testing"
	"time"

	"github.com/erentorlak/storemigrate/migration"
)

func TestStageOrder(t *testing.T) {
	want := []Stage{
		StageCoordination,
		StageDataAnalysis,
		StageMigrationPlanning,
		StageSEOAnalysis,
		StageCommunicationPlanning,
		StageExecutionPreparation,
		StageCompletion,
	}

	stage := StageCoordination
	for i := 1; i < len(want); i++ {
		next, ok := stage.Next()
		if !ok {
			t.Fatalf("%s has no successor", stage)
		}
		if next != want[i] {
			t.Fatalf("after %s got %s, want %s", stage, next, want[i])
		}
		stage = next
	}
	if _, ok := StageCompletion.Next(); ok {
		t.Error("completion should be terminal")
	}
	if _, ok := StageErrorHandling.Next(); ok {
		t.Error("error handling has no forward successor")
	}
}

func TestScheduledProgress(t *testing.T) {
	tests := []struct {
		stage Stage
		want  float64
	}{
		{StageCoordination, 10},
		{StageDataAnalysis, 25},
		{StageMigrationPlanning, 45},
		{StageSEOAnalysis, 65},
		{StageCommunicationPlanning, 80},
		{StageExecutionPreparation, 95},
		{StageCompletion, 100},
		{StageErrorHandling, 0},
	}

	for _, tt := range tests {
		if got := tt.stage.ScheduledProgress(); got != tt.want {
			t.Errorf("%s progress = %v, want %v", tt.stage, got, tt.want)
		}
	}
}

func TestStageIsValid(t *testing.T) {
	for _, s := range forwardStages {
		if !s.IsValid() {
			t.Errorf("%s should be valid", s)
		}
	}
	if !StageErrorHandling.IsValid() || !StageCompleted.IsValid() {
		t.Error("side stages should be valid")
	}
	if Stage("bogus").IsValid() {
		t.Error("bogus stage should be invalid")
	}
}

func TestStateProgressMonotone(t *testing.T) {
	s := NewState("m-1", migration.Config{})
	if s.Progress != 0 || s.CurrentStage != stageInitialization {
		t.Fatalf("fresh state = %v/%v", s.Progress, s.CurrentStage)
	}
	if s.TotalStages != 6 {
		t.Errorf("total stages = %d, want 6", s.TotalStages)
	}

	s.EnterStage(StageSEOAnalysis)
	if s.Progress != 65 {
		t.Fatalf("progress = %v, want 65", s.Progress)
	}

	// Re-entering an earlier stage keeps the high-water mark.
	s.EnterStage(StageCoordination)
	if s.Progress != 65 {
		t.Errorf("progress regressed to %v", s.Progress)
	}
	if s.CurrentStage != StageCoordination {
		t.Errorf("current stage = %v", s.CurrentStage)
	}

	s.EnterStage(StageErrorHandling)
	if s.Progress != 65 {
		t.Errorf("error handling changed progress to %v", s.Progress)
	}
}

func TestStateErrorsAndCompletion(t *testing.T) {
	s := NewState("m-1", migration.Config{})
	at := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	if s.LatestError() != nil {
		t.Error("fresh state has no errors")
	}

	s.RecordError(StageDataAnalysis, "timeout", at)
	s.RecordError(StageMigrationPlanning, "boom", at.Add(time.Minute))
	s.RecordError(StageDataAnalysis, "timeout again", at.Add(2*time.Minute))

	if got := s.StageErrorCount(StageDataAnalysis); got != 2 {
		t.Errorf("data analysis errors = %d, want 2", got)
	}
	if got := s.StageErrorCount(StageSEOAnalysis); got != 0 {
		t.Errorf("seo errors = %d, want 0", got)
	}
	if latest := s.LatestError(); latest == nil || latest.Message != "timeout again" {
		t.Errorf("latest error = %+v", latest)
	}

	s.MarkStageComplete(StageCoordination)
	s.MarkStageComplete(StageDataAnalysis)
	names := s.CompletedStageNames()
	if len(names) != 2 || names[0] != "coordination" || names[1] != "data_analysis" {
		t.Errorf("completed = %v", names)
	}
}
