package editor

import (
	"fmt"

	"guestlisteditor/internal/domain"
)

// Guard stops actions that would lose unsaved form edits until the operator
// decides what to do with them.
type Guard struct {
	guests *GuestEditor
	groups *GroupEditor
}

func NewGuard(guests *GuestEditor, groups *GroupEditor) *Guard {
	return &Guard{guests: guests, groups: groups}
}

// HasUnsavedChanges reports whether either form is dirty.
func (g *Guard) HasUnsavedChanges() bool {
	return g.guests.IsDirty() || g.groups.IsDirty()
}

// Resolve applies the decision and reports whether the guarded action may
// proceed. Without unsaved edits it always proceeds. Save-and-continue saves
// the group form before the guest form so a guest can reference the new group;
// a failed save stops the action and leaves the form open.
func (g *Guard) Resolve(decision domain.UnsavedDecision) (bool, error) {
	if !g.HasUnsavedChanges() {
		return true, nil
	}
	switch decision {
	case domain.DecisionCancel:
		return false, nil
	case domain.DecisionDiscard:
		if g.groups.IsDirty() {
			g.groups.Cancel()
		}
		if g.guests.IsDirty() {
			g.guests.Cancel()
		}
		return true, nil
	case domain.DecisionSaveAndContinue:
		if g.groups.IsDirty() {
			if _, err := g.groups.Save(); err != nil {
				return false, fmt.Errorf("save group: %w", err)
			}
		}
		if g.guests.IsDirty() {
			if _, err := g.guests.Save(); err != nil {
				return false, fmt.Errorf("save guest: %w", err)
			}
		}
		return true, nil
	default:
		return false, domain.ErrUnsavedChanges
	}
}
