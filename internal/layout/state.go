package layout

import "fmt"

// StageState tracks one stage of a layout run.
type StageState string

const (
	StagePending   StageState = "PENDING"
	StageRunning   StageState = "RUNNING"
	StageCompleted StageState = "COMPLETED"
	StageFailed    StageState = "FAILED"
	StageSkipped   StageState = "SKIPPED"
)

// Stage names, in execution order. The order is fixed: each stage consumes
// a file the previous stage wrote.
const (
	StageSubstations  = "substations"
	StageConnectivity = "connectivity"
	StageTree         = "tree"
)

// StageOrder is the canonical execution order.
var StageOrder = []string{StageSubstations, StageConnectivity, StageTree}

// RunState maps stage name to its current state.
type RunState map[string]StageState

// NewRunState returns a state with every stage PENDING.
func NewRunState() RunState {
	st := make(RunState, len(StageOrder))
	for _, name := range StageOrder {
		st[name] = StagePending
	}
	return st
}

// Snapshot returns a copy of the state.
func (s RunState) Snapshot() RunState {
	cp := make(RunState, len(s))
	for k, v := range s {
		cp[k] = v
	}
	return cp
}

// IsTerminal reports whether the state is terminal (finished).
func IsTerminal(s StageState) bool {
	switch s {
	case StageCompleted, StageFailed, StageSkipped:
		return true
	default:
		return false
	}
}

// Transition performs a validated transition for a single stage.
//
// The caller supplies the expected prior state (from) so that any
// bookkeeping bug surfaces as an explicit error instead of a silent
// overwrite.
func Transition(state RunState, stage string, from, to StageState) error {
	cur, ok := state[stage]
	if !ok {
		return fmt.Errorf("unknown stage in state: %q", stage)
	}
	if cur != from {
		return fmt.Errorf("invalid transition for %q: expected %s, got %s", stage, from, cur)
	}
	if !isAllowedTransition(from, to) {
		return fmt.Errorf("disallowed transition for %q: %s -> %s", stage, from, to)
	}
	state[stage] = to
	return nil
}

func isAllowedTransition(from, to StageState) bool {
	switch from {
	case StagePending:
		return to == StageRunning || to == StageSkipped
	case StageRunning:
		return to == StageCompleted || to == StageFailed
	default:
		return false
	}
}

// FailAndSkipDownstream transitions the stage from RUNNING to FAILED and
// marks every later stage in StageOrder as SKIPPED. The skipped set is
// defined purely by position in the fixed order.
func FailAndSkipDownstream(state RunState, stage string) error {
	if err := Transition(state, stage, StageRunning, StageFailed); err != nil {
		return err
	}
	past := false
	for _, name := range StageOrder {
		if name == stage {
			past = true
			continue
		}
		if !past {
			continue
		}
		if state[name] == StagePending {
			state[name] = StageSkipped
		}
	}
	return nil
}
