package approval

import (
	"time"

	"github.com/erp/payroll/internal/domain/shared"
	"github.com/google/uuid"
)

// Workflow is the approval value object shared by every approvable record.
// It is embedded by composition into Payroll, Voucher and GroupPayroll.
type Workflow struct {
	State  State
	Levels int // number of approver levels configured for the feature

	Comment string

	SubmittedBy    *uuid.UUID
	SubmittedAt    *time.Time
	ReviewedBy     *uuid.UUID
	ReviewedAt     *time.Time
	VerifiedBy     *uuid.UUID
	VerifiedAt     *time.Time
	AcknowledgedBy *uuid.UUID
	AcknowledgedAt *time.Time
	Approved1By    *uuid.UUID
	Approved1At    *time.Time
	Approved2By    *uuid.UUID
	Approved2At    *time.Time
	CorrectedBy    *uuid.UUID
	CorrectedAt    *time.Time
	RejectedBy     *uuid.UUID
	RejectedAt     *time.Time
}

// Command requests a move of the workflow to a new state
type Command struct {
	To      State
	Actor   uuid.UUID
	Comment string
	At      time.Time
}

// Transition is the outcome of a state change.
// Post is set on the first entry into an approved state, Reverse when a
// postable record is rejected.
type Transition struct {
	From    State
	To      State
	Changed bool
	Post    bool
	Reverse bool
}

// EnteredFirstApproval reports whether the record just reached approved1
func (t Transition) EnteredFirstApproval() bool {
	return t.Changed && t.To == StateApproved1
}

// Record is implemented by every entity that carries a Workflow
type Record interface {
	GetID() uuid.UUID
	Feature() Feature
	DisplayID() string
	ApprovalWorkflow() *Workflow
	PostedTransactionIDs() []uuid.UUID
}

// New creates a workflow in its initial state. Organizations without an
// approval chain for the feature start in none and post immediately.
func New(requiresApproval bool, levels int) Workflow {
	if levels < 1 {
		levels = 1
	}
	if levels > 2 {
		levels = 2
	}
	if !requiresApproval {
		return Workflow{State: StateNone, Levels: levels}
	}
	return Workflow{State: StatePending, Levels: levels}
}

// TerminalLevel returns the approved state that completes the chain
func (w *Workflow) TerminalLevel() State {
	if w.Levels >= 2 {
		return StateApproved2
	}
	return StateApproved1
}

// IsFullyApproved reports whether the chain has reached its terminal level
func (w *Workflow) IsFullyApproved() bool {
	return w.State == w.TerminalLevel() || w.State == StateApproved2
}

// Plan evaluates a move to the target state without mutating the workflow.
// Invalid or repeated moves return ErrApprovalStateConflict, which callers
// treat as a silent no-op.
func (w *Workflow) Plan(to State) (Transition, error) {
	from := w.State
	noop := Transition{From: from, To: from}

	if !to.IsValid() {
		return noop, shared.NewValidationError("unknown approval state %q", to)
	}
	if from.IsTerminal() {
		return noop, shared.NewApprovalConflictError(from.String(), to.String())
	}

	switch {
	case to == StateRejected:
		return Transition{From: from, To: to, Changed: true, Reverse: from.IsPostable()}, nil
	case to == StateCorrection:
		if !from.allowsCorrection() {
			return noop, shared.NewApprovalConflictError(from.String(), to.String())
		}
		return Transition{From: from, To: to, Changed: true}, nil
	case to == StatePending:
		if from != StateCorrection {
			return noop, shared.NewApprovalConflictError(from.String(), to.String())
		}
		return Transition{From: from, To: to, Changed: true}, nil
	case to.IsForward():
		if from == StateNone || to.rank() <= from.rank() {
			return noop, shared.NewApprovalConflictError(from.String(), to.String())
		}
		if to == StateApproved2 && w.Levels < 2 {
			return noop, shared.NewApprovalConflictError(from.String(), to.String())
		}
		return Transition{
			From:    from,
			To:      to,
			Changed: true,
			Post:    to.IsApproved() && !from.IsApproved(),
		}, nil
	}
	return noop, shared.NewApprovalConflictError(from.String(), to.String())
}

// Apply moves the workflow and records actor metadata for the new level
func (w *Workflow) Apply(cmd Command) (Transition, error) {
	t, err := w.Plan(cmd.To)
	if err != nil {
		return t, err
	}
	at := cmd.At
	if at.IsZero() {
		at = time.Now()
	}
	actor := cmd.Actor

	switch cmd.To {
	case StateCorrection:
		w.clearLevels()
		w.Comment = cmd.Comment
		w.CorrectedBy, w.CorrectedAt = &actor, &at
	case StateRejected:
		w.RejectedBy, w.RejectedAt = &actor, &at
		if cmd.Comment != "" {
			w.Comment = cmd.Comment
		}
	case StatePending:
		w.clearLevels()
		w.SubmittedBy, w.SubmittedAt = &actor, &at
	default:
		w.clearAbove(cmd.To.rank())
		w.stamp(cmd.To, actor, at)
		if cmd.Comment != "" {
			w.Comment = cmd.Comment
		}
	}
	w.State = cmd.To
	return t, nil
}

// Reset returns an edited record to the start of the chain
func (w *Workflow) Reset() {
	w.clearLevels()
	w.CorrectedBy, w.CorrectedAt = nil, nil
	w.RejectedBy, w.RejectedAt = nil, nil
	w.Comment = ""
	w.State = StatePending
}

// Resubmit sends an edited record back to pending under actor. Earlier
// approvals no longer cover the new content.
func (w *Workflow) Resubmit(actor uuid.UUID, at time.Time) {
	w.Reset()
	w.SubmittedBy, w.SubmittedAt = &actor, &at
}

// Follow moves a child record to the state of its batch without checking the
// child's own chain. It is used by group payroll fan-out.
func (w *Workflow) Follow(parent *Workflow) {
	w.Levels = parent.Levels
	w.State = parent.State
	w.ReviewedBy, w.ReviewedAt = parent.ReviewedBy, parent.ReviewedAt
	w.VerifiedBy, w.VerifiedAt = parent.VerifiedBy, parent.VerifiedAt
	w.AcknowledgedBy, w.AcknowledgedAt = parent.AcknowledgedBy, parent.AcknowledgedAt
	w.Approved1By, w.Approved1At = parent.Approved1By, parent.Approved1At
	w.Approved2By, w.Approved2At = parent.Approved2By, parent.Approved2At
	w.RejectedBy, w.RejectedAt = parent.RejectedBy, parent.RejectedAt
}

// LastActor returns the actor of the most recent level reached
func (w *Workflow) LastActor() *uuid.UUID {
	switch w.State {
	case StateReviewed:
		return w.ReviewedBy
	case StateVerified:
		return w.VerifiedBy
	case StateAcknowledged:
		return w.AcknowledgedBy
	case StateApproved1:
		return w.Approved1By
	case StateApproved2:
		return w.Approved2By
	case StateCorrection:
		return w.CorrectedBy
	case StateRejected:
		return w.RejectedBy
	case StatePending:
		return w.SubmittedBy
	}
	return nil
}

func (w *Workflow) stamp(s State, actor uuid.UUID, at time.Time) {
	switch s {
	case StateReviewed:
		w.ReviewedBy, w.ReviewedAt = &actor, &at
	case StateVerified:
		w.VerifiedBy, w.VerifiedAt = &actor, &at
	case StateAcknowledged:
		w.AcknowledgedBy, w.AcknowledgedAt = &actor, &at
	case StateApproved1:
		w.Approved1By, w.Approved1At = &actor, &at
	case StateApproved2:
		w.Approved2By, w.Approved2At = &actor, &at
	}
}

// clearAbove drops the metadata of every level ranked above r
func (w *Workflow) clearAbove(r int) {
	if r < StateReviewed.rank() {
		w.ReviewedBy, w.ReviewedAt = nil, nil
	}
	if r < StateVerified.rank() {
		w.VerifiedBy, w.VerifiedAt = nil, nil
	}
	if r < StateAcknowledged.rank() {
		w.AcknowledgedBy, w.AcknowledgedAt = nil, nil
	}
	if r < StateApproved1.rank() {
		w.Approved1By, w.Approved1At = nil, nil
	}
	if r < StateApproved2.rank() {
		w.Approved2By, w.Approved2At = nil, nil
	}
}

func (w *Workflow) clearLevels() {
	w.SubmittedBy, w.SubmittedAt = nil, nil
	w.clearAbove(StatePending.rank())
}
