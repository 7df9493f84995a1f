// Package approval holds the multi-stage approval state machine shared by
// payrolls, payroll vouchers and group payrolls.
package approval

// State is a position in the approval chain
type State string

const (
	StateNone         State = "none"
	StatePending      State = "pending"
	StateReviewed     State = "reviewed"
	StateVerified     State = "verified"
	StateAcknowledged State = "acknowledged"
	StateCorrection   State = "correction"
	StateRejected     State = "rejected"
	StateApproved1    State = "approved1"
	StateApproved2    State = "approved2"
)

// AllStates lists every state in chain order
var AllStates = []State{
	StateNone,
	StatePending,
	StateReviewed,
	StateVerified,
	StateAcknowledged,
	StateCorrection,
	StateRejected,
	StateApproved1,
	StateApproved2,
}

// String returns the string representation of State
func (s State) String() string {
	return string(s)
}

// IsValid checks if the state is a known value
func (s State) IsValid() bool {
	switch s {
	case StateNone, StatePending, StateReviewed, StateVerified, StateAcknowledged,
		StateCorrection, StateRejected, StateApproved1, StateApproved2:
		return true
	}
	return false
}

// IsApproved reports whether the state is one of the approved levels
func (s State) IsApproved() bool {
	return s == StateApproved1 || s == StateApproved2
}

// IsPostable reports whether a record in this state carries ledger postings.
// Records without an approval chain (none) are posted on creation.
func (s State) IsPostable() bool {
	return s == StateNone || s.IsApproved()
}

// IsTerminal reports whether no further transition is accepted
func (s State) IsTerminal() bool {
	return s == StateRejected
}

// allowsCorrection reports whether the record is still under review
func (s State) allowsCorrection() bool {
	switch s {
	case StatePending, StateReviewed, StateVerified, StateAcknowledged:
		return true
	}
	return false
}

// rank orders the forward chain. Correction sits with pending because a
// corrected record restarts the climb.
func (s State) rank() int {
	switch s {
	case StatePending, StateCorrection:
		return 0
	case StateReviewed:
		return 1
	case StateVerified:
		return 2
	case StateAcknowledged:
		return 3
	case StateApproved1:
		return 4
	case StateApproved2:
		return 5
	}
	return -1
}

// IsForward reports whether s is one of the climbable chain levels
func (s State) IsForward() bool {
	return s.rank() >= 1
}

// Feature identifies which approval chain an organization configures
type Feature string

const (
	FeaturePayroll        Feature = "payroll"
	FeaturePayrollVoucher Feature = "payroll_voucher"
	FeatureGroupPayroll   Feature = "group_payroll"
)

// String returns the string representation of Feature
func (f Feature) String() string {
	return string(f)
}

// IsValid checks if the feature is known
func (f Feature) IsValid() bool {
	switch f {
	case FeaturePayroll, FeaturePayrollVoucher, FeatureGroupPayroll:
		return true
	}
	return false
}
