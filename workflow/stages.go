package workflow

// Stage identifies a step in the migration planning workflow.
type Stage string

// Forward stages in execution order, plus the error-handling side stage and
// the terminal marker set once the completion stage has run.
const (
	StageCoordination          Stage = "coordination"
	StageDataAnalysis          Stage = "data_analysis"
	StageMigrationPlanning     Stage = "migration_planning"
	StageSEOAnalysis           Stage = "seo_analysis"
	StageCommunicationPlanning Stage = "communication_planning"
	StageExecutionPreparation  Stage = "execution_preparation"
	StageCompletion            Stage = "completion"

	StageErrorHandling Stage = "error_handling"
	StageCompleted     Stage = "completed"
)

// stageInitialization is the pre-coordination placeholder a fresh state starts in.
const stageInitialization Stage = "initialization"

var forwardStages = []Stage{
	StageCoordination,
	StageDataAnalysis,
	StageMigrationPlanning,
	StageSEOAnalysis,
	StageCommunicationPlanning,
	StageExecutionPreparation,
	StageCompletion,
}

// stageProgress is the percentage a run reaches when the stage begins.
var stageProgress = map[Stage]float64{
	StageCoordination:          10,
	StageDataAnalysis:          25,
	StageMigrationPlanning:     45,
	StageSEOAnalysis:           65,
	StageCommunicationPlanning: 80,
	StageExecutionPreparation:  95,
	StageCompletion:            100,
}

func (s Stage) String() string { return string(s) }

// IsValid reports whether s is a stage the orchestrator can be in.
func (s Stage) IsValid() bool {
	if s == StageErrorHandling || s == StageCompleted || s == stageInitialization {
		return true
	}
	_, ok := stageProgress[s]
	return ok
}

// ScheduledProgress returns the progress percentage reached when the stage
// starts. Side stages carry no schedule and return 0.
func (s Stage) ScheduledProgress() float64 {
	return stageProgress[s]
}

// Next returns the stage that follows s on the forward path. The completion
// stage and side stages have no successor.
func (s Stage) Next() (Stage, bool) {
	for i, stage := range forwardStages {
		if stage == s && i+1 < len(forwardStages) {
			return forwardStages[i+1], true
		}
	}
	return "", false
}
