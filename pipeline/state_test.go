package pipeline

import "testing"

func TestCanTransitionToFollowsTheStateMachine(t *testing.T) {
	cases := []struct {
		from, to Phase
		want     bool
	}{
		{PhaseIdle, PhaseConnecting, true},
		{PhaseIdle, PhaseStreaming, false},
		{PhaseConnecting, PhaseStreaming, true},
		{PhaseStreaming, PhaseProcessing, true},
		{PhaseStreaming, PhaseRewinding, true},
		{PhaseStreaming, PhaseTerminated, true},
		{PhaseProcessing, PhaseStreaming, true},
		{PhaseProcessing, PhaseTerminated, false},
		{PhaseRewinding, PhaseStreaming, true},
		{PhaseTerminated, PhaseConnecting, false},
	}

	for _, c := range cases {
		if got := c.from.CanTransitionTo(c.to); got != c.want {
			t.Errorf("%s -> %s: got %v, want %v", c.from, c.to, got, c.want)
		}
	}
}

func TestIsTerminalOnlyTerminated(t *testing.T) {
	for _, p := range []Phase{PhaseIdle, PhaseConnecting, PhaseStreaming, PhaseProcessing, PhaseRewinding} {
		if p.IsTerminal() {
			t.Errorf("%s should not be terminal", p)
		}
	}
	if !PhaseTerminated.IsTerminal() {
		t.Error("Terminated should be terminal")
	}
}

func TestIsActiveExcludesIdleAndTerminated(t *testing.T) {
	if PhaseIdle.IsActive() {
		t.Error("Idle should not be active")
	}
	if PhaseTerminated.IsActive() {
		t.Error("Terminated should not be active")
	}
	for _, p := range []Phase{PhaseConnecting, PhaseStreaming, PhaseProcessing, PhaseRewinding} {
		if !p.IsActive() {
			t.Errorf("%s should be active", p)
		}
	}
}
