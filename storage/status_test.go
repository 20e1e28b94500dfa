package storage

import "testing"

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		from Status
		to   Status
		want bool
	}{
		{StatusPending, StatusAnalyzing, true},
		{StatusPending, StatusCompleted, false},
		{StatusAnalyzing, StatusPlanning, true},
		{StatusAnalyzing, StatusPaused, true},
		{StatusPlanning, StatusInProgress, true},
		{StatusInProgress, StatusCompleted, true},
		{StatusPaused, StatusInProgress, true},
		{StatusPaused, StatusCancelled, true},
		{StatusCompleted, StatusPending, false},
		{StatusFailed, StatusAnalyzing, false},
		{StatusCancelled, StatusInProgress, false},
	}

	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
			t.Errorf("%s -> %s = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestStatusTerminal(t *testing.T) {
	for _, s := range []Status{StatusCompleted, StatusFailed, StatusCancelled} {
		if !s.IsTerminal() {
			t.Errorf("%s should be terminal", s)
		}
	}
	for _, s := range []Status{StatusPending, StatusAnalyzing, StatusPlanning, StatusInProgress, StatusPaused} {
		if s.IsTerminal() {
			t.Errorf("%s should not be terminal", s)
		}
	}
	if Status("bogus").IsValid() {
		t.Error("bogus status should be invalid")
	}
}

func TestStatusActive(t *testing.T) {
	active := map[Status]bool{
		StatusPending:    false,
		StatusAnalyzing:  true,
		StatusPlanning:   true,
		StatusInProgress: true,
		StatusPaused:     false,
		StatusCompleted:  false,
	}
	for s, want := range active {
		if got := s.Active(); got != want {
			t.Errorf("%s active = %v, want %v", s, got, want)
		}
	}
}

func TestStatusForStage(t *testing.T) {
	tests := []struct {
		stage string
		want  Status
	}{
		{"coordination", StatusAnalyzing},
		{"data_analysis", StatusAnalyzing},
		{"migration_planning", StatusPlanning},
		{"seo_analysis", StatusPlanning},
		{"communication_planning", StatusPlanning},
		{"execution_preparation", StatusInProgress},
		{"completed", StatusCompleted},
		{"failed", StatusFailed},
		{"initialization", StatusPending},
	}

	for _, tt := range tests {
		if got := StatusForStage(tt.stage); got != tt.want {
			t.Errorf("StatusForStage(%q) = %s, want %s", tt.stage, got, tt.want)
		}
	}
}
