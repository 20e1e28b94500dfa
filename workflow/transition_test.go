package workflow

import "testing"

func TestDecideTransition(t *testing.T) {
	tests := []struct {
		errCount int
		want     Decision
	}{
		{0, DecisionContinue},
		{1, DecisionRetry},
		{2, DecisionError},
		{3, DecisionError},
		{10, DecisionError},
	}

	for _, tt := range tests {
		if got := DecideTransition(tt.errCount); got != tt.want {
			t.Errorf("DecideTransition(%d) = %s, want %s", tt.errCount, got, tt.want)
		}
	}
}

func TestDecideRecovery(t *testing.T) {
	tests := []struct {
		name           string
		totalErrors    int
		recommendation string
		want           Recovery
	}{
		{"over threshold aborts", 6, "please retry", RecoveryAbort},
		{"at threshold honors recommendation", 5, "please retry", RecoveryRetry},
		{"retry case insensitive", 2, "I recommend a RETRY of the stage", RecoveryRetry},
		{"no retry keyword continues", 2, "manual intervention required", RecoveryContinue},
		{"empty recommendation continues", 1, "", RecoveryContinue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DecideRecovery(tt.totalErrors, 5, tt.recommendation); got != tt.want {
				t.Errorf("DecideRecovery = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestDecisionString(t *testing.T) {
	if DecisionContinue.String() != "continue" || DecisionRetry.String() != "retry" || DecisionError.String() != "error" {
		t.Error("decision strings mismatch")
	}
	if RecoveryContinue.String() != "continue" || RecoveryRetry.String() != "retry" || RecoveryAbort.String() != "abort" {
		t.Error("recovery strings mismatch")
	}
}
