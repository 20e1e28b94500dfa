package storage

// Status represents the lifecycle state of a migration record.
type Status string

const (
	StatusPending    Status = "pending"
	StatusAnalyzing  Status = "analyzing"
	StatusPlanning   Status = "planning"
	StatusInProgress Status = "in_progress"
	StatusPaused     Status = "paused"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
	StatusCancelled  Status = "cancelled"
)

// validTransitions maps each status to the statuses it may move to.
// Completed, failed, and cancelled are terminal.
var validTransitions = map[Status][]Status{
	StatusPending:    {StatusAnalyzing, StatusFailed, StatusCancelled},
	StatusAnalyzing:  {StatusPlanning, StatusPaused, StatusCompleted, StatusFailed, StatusCancelled},
	StatusPlanning:   {StatusInProgress, StatusPaused, StatusCompleted, StatusFailed, StatusCancelled},
	StatusInProgress: {StatusPaused, StatusCompleted, StatusFailed, StatusCancelled},
	StatusPaused:     {StatusAnalyzing, StatusPlanning, StatusInProgress, StatusCancelled, StatusFailed},
	StatusCompleted:  {},
	StatusFailed:     {},
	StatusCancelled:  {},
}

func (s Status) String() string { return string(s) }

// IsValid reports whether s is a known status.
func (s Status) IsValid() bool {
	_, ok := validTransitions[s]
	return ok
}

// IsTerminal reports whether the status permits no further transitions.
func (s Status) IsTerminal() bool {
	return s.IsValid() && len(validTransitions[s]) == 0
}

// CanTransitionTo reports whether moving from s to next is allowed.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Active reports whether the migration is running a workflow right now,
// which is when pausing makes sense.
func (s Status) Active() bool {
	switch s {
	case StatusAnalyzing, StatusPlanning, StatusInProgress:
		return true
	}
	return false
}

// StatusForStage maps a workflow stage name to the record status it implies.
func StatusForStage(stage string) Status {
	switch stage {
	case "coordination", "data_analysis":
		return StatusAnalyzing
	case "migration_planning", "seo_analysis", "communication_planning":
		return StatusPlanning
	case "execution_preparation", "completion":
		return StatusInProgress
	case "completed":
		return StatusCompleted
	case "failed":
		return StatusFailed
	default:
		return StatusPending
	}
}
