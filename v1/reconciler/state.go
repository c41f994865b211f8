package reconciler

// State is a step of a reconciliation run.
type State string

const (
	StateUnknown           State = "UNKNOWN"
	StateCheckingRemote    State = "CHECKING_REMOTE"
	StateRegisteringFirst  State = "REGISTERING_FIRST"
	StateDiffCheck         State = "DIFF_CHECK"
	StateUpToDate          State = "UP_TO_DATE"
	StateCompatibilityTest State = "COMPATIBILITY_TEST"
	StateUpdating          State = "UPDATING"
	StateRejected          State = "REJECTED"
	StateReady             State = "READY"
	StateFailed            State = "FAILED"
)

// Terminal reports whether no transition leaves s.
func (s State) Terminal() bool {
	return s == StateReady || s == StateRejected || s == StateFailed
}

// next lists the legal successors of every non-terminal state. FAILED is
// reachable from any of them.
var next = map[State][]State{
	StateUnknown:           {StateCheckingRemote},
	StateCheckingRemote:    {StateRegisteringFirst, StateDiffCheck},
	StateRegisteringFirst:  {StateReady},
	StateDiffCheck:         {StateUpToDate, StateCompatibilityTest},
	StateUpToDate:          {StateReady},
	StateCompatibilityTest: {StateUpdating, StateRejected},
	StateUpdating:          {StateReady, StateRejected},
}

// CanTransition reports whether the state machine may move from s to to.
func (s State) CanTransition(to State) bool {
	if s.Terminal() {
		return false
	}
	if to == StateFailed {
		return true
	}
	for _, candidate := range next[s] {
		if candidate == to {
			return true
		}
	}
	return false
}
