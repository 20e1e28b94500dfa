package workflow

import "strings"

// Decision directs the workflow after a stage finishes.
type Decision int

const (
	// DecisionContinue advances to the next forward stage.
	DecisionContinue Decision = iota
	// DecisionRetry re-runs the stage that just failed once.
	DecisionRetry
	// DecisionError hands control to the error handler.
	DecisionError
)

func (d Decision) String() string {
	switch d {
	case DecisionContinue:
		return "continue"
	case DecisionRetry:
		return "retry"
	case DecisionError:
		return "error"
	}
	return "unknown"
}

// DecideTransition maps a stage's accumulated error count to a decision:
// a clean stage continues, the first failure earns one retry, anything
// beyond that goes to error handling.
func DecideTransition(errCount int) Decision {
	switch {
	case errCount == 0:
		return DecisionContinue
	case errCount == 1:
		return DecisionRetry
	default:
		return DecisionError
	}
}

// Recovery is the error handler's verdict for a troubled run.
type Recovery int

const (
	// RecoveryContinue finishes the run with whatever results exist.
	RecoveryContinue Recovery = iota
	// RecoveryRetry restarts the workflow from coordination. Result slots
	// already filled are kept, so a restart only redoes failed work.
	RecoveryRetry
	// RecoveryAbort terminates the run.
	RecoveryAbort
)

func (r Recovery) String() string {
	switch r {
	case RecoveryContinue:
		return "continue"
	case RecoveryRetry:
		return "retry"
	case RecoveryAbort:
		return "abort"
	}
	return "unknown"
}

// DecideRecovery picks a recovery strategy. Runs whose total error count
// exceeds abortThreshold are abandoned; otherwise the advisory
// recommendation text decides between a full retry and continuing with
// partial results.
func DecideRecovery(totalErrors, abortThreshold int, recommendation string) Recovery {
	if totalErrors > abortThreshold {
		return RecoveryAbort
	}
	if strings.Contains(strings.ToLower(recommendation), "retry") {
		return RecoveryRetry
	}
	return RecoveryContinue
}
