package watch

// State is the regeneration state owned by the watch loop.
type State int

const (
	// StateIdle: no generation running, nothing queued.
	StateIdle State = iota
	// StateRunning: a generation is running and no change arrived since it started.
	StateRunning
	// StateRunningPending: a generation is running and at least one change arrived meanwhile.
	StateRunningPending
	// StateScheduled: the trailing generation is armed and waits for the debounce delay.
	StateScheduled
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateRunningPending:
		return "running_pending"
	case StateScheduled:
		return "scheduled"
	default:
		return "unknown"
	}
}

// Action tells the loop what to do after a transition.
type Action int

const (
	ActionNone Action = iota
	// ActionStart starts a generation now.
	ActionStart
	// ActionSchedule arms the debounce timer for one trailing generation.
	ActionSchedule
)

// Machine serializes generation requests: at most one generation runs at a time
// and any number of changes during a run collapse into one trailing run.
// It is not safe for concurrent use; the watch loop goroutine owns it.
type Machine struct {
	state State
}

// State returns the current state.
func (m *Machine) State() State { return m.state }

// Change records a relevant source change. The second result reports whether the
// change was folded into already queued work.
func (m *Machine) Change() (Action, bool) {
	switch m.state {
	case StateIdle:
		m.state = StateRunning
		return ActionStart, false
	case StateRunning:
		m.state = StateRunningPending
		return ActionNone, false
	default:
		return ActionNone, true
	}
}

// Done records the end of a generation, successful or not.
func (m *Machine) Done() Action {
	switch m.state {
	case StateRunning:
		m.state = StateIdle
		return ActionNone
	case StateRunningPending:
		m.state = StateScheduled
		return ActionSchedule
	default:
		return ActionNone
	}
}

// Fire records expiry of the debounce timer.
func (m *Machine) Fire() Action {
	if m.state != StateScheduled {
		return ActionNone
	}
	m.state = StateRunning
	return ActionStart
}

// Begin marks the initial generation that runs before any event is observed.
func (m *Machine) Begin() Action {
	if m.state != StateIdle {
		return ActionNone
	}
	m.state = StateRunning
	return ActionStart
}
