package editor

import "guestlisteditor/internal/domain"

// POCLookup finds the current point of contact of a group.
type POCLookup interface {
	PointOfContact(groupID domain.ID) (domain.Guest, bool)
}

// POCTransfer gates handing the point-of-contact role to another guest.
// Idle -> PendingConfirmation(candidate) -> Applied, or back to Idle on cancel.
type POCTransfer struct {
	state     string
	candidate domain.ID
	incumbent domain.Guest
}

// State returns the current state name.
func (p *POCTransfer) State() string {
	if p.state == "" {
		return domain.POCIdle
	}
	return p.state
}

// Pending reports whether a transfer waits for confirmation.
func (p *POCTransfer) Pending() bool { return p.state == domain.POCPendingConfirmation }

// Request asks to make candidate the point of contact of groupID. It reports
// true when another guest holds the role and the transfer must be confirmed.
func (p *POCTransfer) Request(lookup POCLookup, candidate domain.ID, groupID *domain.ID) bool {
	p.candidate = candidate
	p.incumbent = domain.Guest{}
	if groupID != nil {
		if current, ok := lookup.PointOfContact(*groupID); ok && (candidate.IsZero() || current.ID != candidate) {
			p.state = domain.POCPendingConfirmation
			p.incumbent = current
			return true
		}
	}
	p.state = domain.POCApplied
	return false
}

// Confirm accepts a pending transfer. It reports whether one was pending.
func (p *POCTransfer) Confirm() bool {
	if !p.Pending() {
		return false
	}
	p.state = domain.POCApplied
	return true
}

// Reset returns to Idle.
func (p *POCTransfer) Reset() {
	*p = POCTransfer{}
}

// Conflict returns the error describing a pending transfer.
func (p *POCTransfer) Conflict(groupID domain.ID) error {
	return &domain.POCConflictError{GroupID: groupID, Incumbent: p.incumbent}
}

// View describes the transfer for callers.
func (p *POCTransfer) View() domain.POCView {
	v := domain.POCView{State: p.State()}
	if p.Pending() {
		v.CandidateID = p.candidate
		v.IncumbentID = p.incumbent.ID
		v.Incumbent = p.incumbent.Name
	}
	return v
}
