// Package pipeline drives the per-block ingestion loop: own the
// stream subscription, preprocess then dispatch each block in order,
// persist the cursor on success, and defer to the undo collaborator
// on a rewind signal.
package pipeline

import "errors"

var (
	errIllegalTransition = errors.New("pipeline: illegal phase transition")
	errUnknownFrameKind  = errors.New("pipeline: unrecognized stream frame kind")
)

// Phase is one state of the pipeline driver's state machine.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseConnecting Phase = "connecting"
	PhaseStreaming  Phase = "streaming"
	PhaseProcessing Phase = "processing"
	PhaseRewinding  Phase = "rewinding"
	PhaseTerminated Phase = "terminated"
)

// validTransitions enumerates the legal edges of the driver's state
// machine. Streaming and Processing alternate per block; Rewinding
// is entered only from Streaming on an undo signal and returns to
// Streaming; Terminated is reachable only from Streaming, when the
// frame channel closes. Stream transport errors do not reach the
// driver: substream.Client.Subscribe reconnects on them instead of
// closing the channel.
var validTransitions = map[Phase][]Phase{
	PhaseIdle:       {PhaseConnecting},
	PhaseConnecting: {PhaseStreaming},
	PhaseStreaming:  {PhaseProcessing, PhaseRewinding, PhaseTerminated},
	PhaseProcessing: {PhaseStreaming},
	PhaseRewinding:  {PhaseStreaming},
}

// IsTerminal reports whether phase ends the driver's run loop.
func (p Phase) IsTerminal() bool {
	return p == PhaseTerminated
}

// IsActive reports whether phase represents in-progress work rather
// than a momentary transition state.
func (p Phase) IsActive() bool {
	return p == PhaseConnecting || p == PhaseStreaming || p == PhaseProcessing || p == PhaseRewinding
}

// CanTransitionTo reports whether target is a legal next phase from p.
func (p Phase) CanTransitionTo(target Phase) bool {
	for _, valid := range validTransitions[p] {
		if valid == target {
			return true
		}
	}
	return false
}
