// Package favorites maintains the per-user saved-opportunity sets with
// optimistic local mutation backed by the remote data gateway.
//
// Every toggle runs through an explicit phase machine:
//
//	IDLE ──► OPTIMISTIC ──► COMMITTED
//	              │
//	              └───────► ROLLED_BACK
//
// COMMITTED and ROLLED_BACK are terminal phases.
package favorites

import "fmt"

// Phase is the state of a single toggle operation.
type Phase string

const (
	PhaseIdle       Phase = "IDLE"
	PhaseOptimistic Phase = "OPTIMISTIC"
	PhaseCommitted  Phase = "COMMITTED"
	PhaseRolledBack Phase = "ROLLED_BACK"
)

// validPhaseTransitions lists every allowed (from → to) pair.
var validPhaseTransitions = map[Phase][]Phase{
	PhaseIdle:       {PhaseOptimistic},
	PhaseOptimistic: {PhaseCommitted, PhaseRolledBack},
	// COMMITTED and ROLLED_BACK are terminal — no outgoing transitions
}

// ParsePhase converts a raw string to a Phase, returning an error for
// unknown values.
func ParsePhase(s string) (Phase, error) {
	p := Phase(s)
	switch p {
	case PhaseIdle, PhaseOptimistic, PhaseCommitted, PhaseRolledBack:
		return p, nil
	}
	return "", fmt.Errorf("unknown toggle phase %q", s)
}

// IsPhaseTransitionAllowed returns true when moving from → to is permitted
// by the phase machine.
func IsPhaseTransitionAllowed(from, to Phase) bool {
	allowed, ok := validPhaseTransitions[from]
	if !ok {
		return false // terminal phase — no outgoing transitions
	}
	for _, p := range allowed {
		if p == to {
			return true
		}
	}
	return false
}

// toggleOp tracks one toggle operation through the phase machine. The
// local set is flipped when entering OPTIMISTIC and restored when entering
// ROLLED_BACK; advancing along a forbidden edge is a programming error.
type toggleOp struct {
	phase Phase
}

func newToggleOp() *toggleOp { return &toggleOp{phase: PhaseIdle} }

func (op *toggleOp) advance(to Phase) error {
	if !IsPhaseTransitionAllowed(op.phase, to) {
		return fmt.Errorf("toggle phase transition %s → %s is not allowed", op.phase, to)
	}
	op.phase = to
	return nil
}
