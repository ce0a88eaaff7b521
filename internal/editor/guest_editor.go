package editor

import (
	"fmt"
	"strings"

	"guestlisteditor/internal/domain"
	"guestlisteditor/internal/staging"
)

// GuestEditor is the guest form of an editing session. It is either closed or
// open on a new or an existing guest. Saving validates the form, stages the
// guest and records the invitations removed since the form was opened.
type GuestEditor struct {
	store     *staging.Store
	validator *Validator

	open     bool
	mode     string
	form     domain.Guest
	initial  domain.Guest
	original domain.Invitations
	poc      POCTransfer
}

// NewGuestEditor returns a closed guest editor staging into store.
func NewGuestEditor(store *staging.Store, validator *Validator) *GuestEditor {
	return &GuestEditor{store: store, validator: validator}
}

// IsOpen reports whether the form is open.
func (e *GuestEditor) IsOpen() bool { return e.open }

// OpenNew opens an empty form for a guest that does not exist yet.
func (e *GuestEditor) OpenNew() error {
	if e.open {
		return domain.ErrEditorOpen
	}
	g := domain.Guest{GuestType: domain.GuestTypeSingle, Invitations: domain.Invitations{}}
	e.begin(domain.EditorModeNew, g, nil)
	return nil
}

// OpenExisting opens the form on a staged guest. The invitations the guest
// had in the last-known-good snapshot are the baseline for deletions; a guest
// created in this session falls back to its working copy.
func (e *GuestEditor) OpenExisting(id domain.ID) error {
	if e.open {
		return domain.ErrEditorOpen
	}
	g, ok := e.store.Guest(id)
	if !ok {
		return fmt.Errorf("guest %s: %w", id, domain.ErrNotFound)
	}
	original := g.Invitations
	if snap, ok := e.store.SnapshotGuest(id); ok {
		original = snap.Invitations
	}
	if g.Invitations == nil {
		g.Invitations = domain.Invitations{}
	}
	e.begin(domain.EditorModeExisting, g, original.Clone())
	return nil
}

func (e *GuestEditor) begin(mode string, g domain.Guest, original domain.Invitations) {
	e.open = true
	e.mode = mode
	e.form = g
	e.initial = g.Clone()
	e.original = original
	e.poc.Reset()
}

// Apply merges a patch into the form. Setting point of contact on a group that
// already has one leaves the field unset until ConfirmPOC.
func (e *GuestEditor) Apply(p domain.GuestPatch) error {
	if !e.open {
		return domain.ErrEditorClosed
	}
	if p.Name != nil {
		e.form.Name = *p.Name
	}
	if p.Email != nil {
		e.form.Email = optional(*p.Email)
	}
	if p.Phone != nil {
		e.form.Phone = optional(*p.Phone)
	}
	if p.Tag != nil {
		e.form.Tag = optional(*p.Tag)
	}
	if p.GuestType != nil {
		e.form.GuestType = *p.GuestType
	}
	if p.GuestLimit != nil {
		limit := *p.GuestLimit
		e.form.GuestLimit = &limit
	}
	if p.GenderID != nil {
		id := *p.GenderID
		e.form.GenderID = &id
	}
	if p.AgeGroupID != nil {
		id := *p.AgeGroupID
		e.form.AgeGroupID = &id
	}
	for _, t := range p.Invitations {
		e.toggleInvitation(t)
	}

	groupChanged := false
	switch {
	case p.ClearGroup:
		groupChanged = e.form.GroupID != nil
		e.form.GroupID = nil
		e.form.GroupTitle = ""
	case p.GroupID != nil && !e.form.InGroup(*p.GroupID):
		id := *p.GroupID
		e.form.GroupID = &id
		e.form.GroupTitle = ""
		if grp, ok := e.store.Group(id); ok {
			e.form.GroupTitle = grp.Title
		}
		groupChanged = true
	}

	switch {
	case p.PointOfContact != nil:
		e.setPointOfContact(*p.PointOfContact)
	case groupChanged && (e.form.PointOfContact || e.poc.Pending()):
		e.setPointOfContact(true)
	}
	return nil
}

func (e *GuestEditor) toggleInvitation(t domain.InvitationToggle) {
	if !t.Invited {
		delete(e.form.Invitations, t.Label)
		return
	}
	if _, ok := e.form.Invitations[t.Label]; ok {
		return
	}
	if e.form.Invitations == nil {
		e.form.Invitations = domain.Invitations{}
	}
	if _, ok := e.original[t.Label]; ok {
		e.form.Invitations[t.Label] = e.original.Clone()[t.Label]
		return
	}
	e.form.Invitations[t.Label] = domain.NewInvitation(t.SubeventID)
}

func (e *GuestEditor) setPointOfContact(on bool) {
	if !on {
		e.form.PointOfContact = false
		e.poc.Reset()
		return
	}
	if e.poc.Request(e.store, e.form.ID, e.form.GroupID) {
		e.form.PointOfContact = false
		return
	}
	e.form.PointOfContact = true
}

// ConfirmPOC accepts a pending point-of-contact transfer. The current holder
// is demoted when the guest is saved.
func (e *GuestEditor) ConfirmPOC() error {
	if !e.open {
		return domain.ErrEditorClosed
	}
	if e.poc.Confirm() {
		e.form.PointOfContact = true
	}
	return nil
}

// CancelPOC abandons a pending transfer and leaves the guest without the role.
func (e *GuestEditor) CancelPOC() error {
	if !e.open {
		return domain.ErrEditorClosed
	}
	if e.poc.Pending() {
		e.form.PointOfContact = false
		e.poc.Reset()
	}
	return nil
}

// IsDirty reports whether the form differs from the guest it was opened on.
func (e *GuestEditor) IsDirty() bool {
	if !e.open {
		return false
	}
	a, b := e.form, e.initial
	return strings.TrimSpace(a.Name) != strings.TrimSpace(b.Name) ||
		!sameString(a.Email, b.Email) ||
		!sameString(a.Phone, b.Phone) ||
		!sameString(a.Tag, b.Tag) ||
		!sameID(a.GroupID, b.GroupID) ||
		a.PointOfContact != b.PointOfContact ||
		e.poc.Pending() ||
		!a.Invitations.Equal(b.Invitations) ||
		a.GuestType != b.GuestType ||
		!sameInt(a.GuestLimit, b.GuestLimit) ||
		!sameInt(a.GenderID, b.GenderID) ||
		!sameInt(a.AgeGroupID, b.AgeGroupID)
}

// Save validates and stages the form, then closes the editor. It is refused
// while a point-of-contact transfer waits for confirmation.
func (e *GuestEditor) Save() (domain.Guest, error) {
	if !e.open {
		return domain.Guest{}, domain.ErrEditorClosed
	}
	if e.poc.Pending() {
		return domain.Guest{}, e.poc.Conflict(*e.form.GroupID)
	}
	if e.form.PointOfContact && e.form.GroupID != nil && e.poc.State() != domain.POCApplied {
		if e.poc.Request(e.store, e.form.ID, e.form.GroupID) {
			e.form.PointOfContact = false
			return domain.Guest{}, e.poc.Conflict(*e.form.GroupID)
		}
	}
	if err := e.validator.ValidateGuest(e.form); err != nil {
		return domain.Guest{}, err
	}

	if e.form.GroupID != nil {
		if grp, ok := e.store.Group(*e.form.GroupID); ok {
			e.form.GroupTitle = grp.Title
		}
	}
	saved := e.store.UpsertGuest(e.form)
	e.store.SetRSVPDeletions(saved.ID, staging.CalculateRSVPDeletions(e.original, saved.Invitations, saved.ID))
	e.Cancel()
	return saved, nil
}

// Cancel closes the form without staging anything.
func (e *GuestEditor) Cancel() {
	*e = GuestEditor{store: e.store, validator: e.validator}
}

// View returns the form state, or nil when the editor is closed.
func (e *GuestEditor) View() *domain.GuestEditorView {
	if !e.open {
		return nil
	}
	return &domain.GuestEditorView{
		Mode:  e.mode,
		Form:  e.form.Clone(),
		Dirty: e.IsDirty(),
		POC:   e.poc.View(),
	}
}

func optional(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

func sameString(a, b *string) bool {
	var x, y string
	if a != nil {
		x = strings.TrimSpace(*a)
	}
	if b != nil {
		y = strings.TrimSpace(*b)
	}
	return x == y
}

func sameInt(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func sameID(a, b *domain.ID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
