// pkg/transaction/state.go
package transaction

// State is the lifecycle position of a Transaction.
type State string

// Transaction state constants.
const (
	StatePending   State = "Pending"
	StateSent      State = "Sent"
	StateConfirmed State = "Confirmed"
	StateEnsured   State = "Ensured"
	StateFailed    State = "Failed"
)

func (s State) String() string { return string(s) }

// IsTerminal returns true for Ensured and Failed.
func (s State) IsTerminal() bool {
	return s == StateEnsured || s == StateFailed
}

// canAdvanceTo reports whether next is a legal successor of s.
func (s State) canAdvanceTo(next State) bool {
	switch next {
	case StateSent:
		return s == StatePending
	case StateConfirmed:
		return s == StateSent
	case StateEnsured:
		return s == StateConfirmed
	case StateFailed:
		return s == StateSent || s == StateConfirmed
	default:
		return false
	}
}

// Milestone names a lifecycle point that observers can subscribe to.
type Milestone string

// Milestone constants.
const (
	MilestoneSent      Milestone = "sent"
	MilestoneConfirmed Milestone = "confirmed"
	MilestoneEnsured   Milestone = "ensured"
	MilestoneFailed    Milestone = "failed"

	// MilestoneSafe is the older name of MilestoneEnsured.
	MilestoneSafe = MilestoneEnsured
)

// Milestones lists every milestone in firing order.
var Milestones = []Milestone{MilestoneSent, MilestoneConfirmed, MilestoneEnsured, MilestoneFailed}

// State returns the state a transaction enters when m fires.
func (m Milestone) State() State {
	switch m {
	case MilestoneSent:
		return StateSent
	case MilestoneConfirmed:
		return StateConfirmed
	case MilestoneEnsured:
		return StateEnsured
	case MilestoneFailed:
		return StateFailed
	default:
		return ""
	}
}
