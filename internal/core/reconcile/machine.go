// Package reconcile holds the per-call phase machine of a reconciliation.
// It has no I/O; the orchestrator in internal/app drives it.
package reconcile

import (
	"fmt"
	"strings"
)

// Phase is a reconciliation phase.
type Phase string

// Phases in the order a successful call visits them.
const (
	PhaseLoadingInputs  Phase = "LOADING_INPUTS"
	PhaseAwaitingOracle Phase = "AWAITING_ORACLE"
	PhaseParsing        Phase = "PARSING"
	PhaseValidating     Phase = "VALIDATING"
	PhaseCommitted      Phase = "COMMITTED"
	PhaseFailed         Phase = "FAILED"
)

// IsTerminal reports whether p ends the call.
func IsTerminal(p Phase) bool {
	return p == PhaseCommitted || p == PhaseFailed
}

func isAllowedTransition(from, to Phase) bool {
	if to == PhaseFailed {
		return !IsTerminal(from)
	}
	switch from {
	case PhaseLoadingInputs:
		return to == PhaseAwaitingOracle
	case PhaseAwaitingOracle:
		return to == PhaseParsing
	case PhaseParsing:
		return to == PhaseValidating
	case PhaseValidating:
		return to == PhaseCommitted
	default:
		return false
	}
}

// Machine tracks the phase of one call and the path it took.
// A Machine is not safe for concurrent use; each call owns its own.
type Machine struct {
	phase  Phase
	trace  []Phase
	reason string
}

// NewMachine returns a machine in PhaseLoadingInputs.
func NewMachine() *Machine {
	return &Machine{
		phase: PhaseLoadingInputs,
		trace: []Phase{PhaseLoadingInputs},
	}
}

// Phase returns the current phase.
func (m *Machine) Phase() Phase { return m.phase }

// Trace returns the phases visited so far, oldest first.
func (m *Machine) Trace() []Phase {
	out := make([]Phase, len(m.trace))
	copy(out, m.trace)
	return out
}

// Reason returns the failure reason, empty unless the machine failed.
func (m *Machine) Reason() string { return m.reason }

// Advance moves to the next phase. Moving to PhaseFailed must go through Fail.
func (m *Machine) Advance(to Phase) error {
	if to == PhaseFailed {
		return fmt.Errorf("use Fail to enter %s", PhaseFailed)
	}
	return m.move(to)
}

// Fail moves to PhaseFailed from any non-terminal phase and records why.
func (m *Machine) Fail(reason string) error {
	if err := m.move(PhaseFailed); err != nil {
		return err
	}
	m.reason = reason
	return nil
}

func (m *Machine) move(to Phase) error {
	if !isAllowedTransition(m.phase, to) {
		return fmt.Errorf("disallowed transition: %s -> %s", m.phase, to)
	}
	m.phase = to
	m.trace = append(m.trace, to)
	return nil
}

// String renders the trace as "A -> B -> C".
func (m *Machine) String() string {
	parts := make([]string, len(m.trace))
	for i, p := range m.trace {
		parts[i] = string(p)
	}
	return strings.Join(parts, " -> ")
}
