package editor

import (
	"fmt"
	"strings"

	"guestlisteditor/internal/domain"
	"guestlisteditor/internal/staging"
)

// GroupEditor is the group form of an editing session.
type GroupEditor struct {
	store     *staging.Store
	validator *Validator

	open    bool
	mode    string
	form    domain.Group
	initial domain.Group
}

// NewGroupEditor returns a closed group editor staging into store.
func NewGroupEditor(store *staging.Store, validator *Validator) *GroupEditor {
	return &GroupEditor{store: store, validator: validator}
}

func (e *GroupEditor) IsOpen() bool { return e.open }

// OpenNew opens an empty form with the default size limit and status.
func (e *GroupEditor) OpenNew() error {
	if e.open {
		return domain.ErrEditorOpen
	}
	e.begin(domain.EditorModeNew, domain.NewGroup(e.store.Event().ID))
	return nil
}

// OpenExisting opens the form on a staged group.
func (e *GroupEditor) OpenExisting(id domain.ID) error {
	if e.open {
		return domain.ErrEditorOpen
	}
	g, ok := e.store.Group(id)
	if !ok {
		return fmt.Errorf("group %s: %w", id, domain.ErrNotFound)
	}
	e.begin(domain.EditorModeExisting, g)
	return nil
}

func (e *GroupEditor) begin(mode string, g domain.Group) {
	e.open = true
	e.mode = mode
	e.form = g
	e.initial = g
}

func (e *GroupEditor) Apply(p domain.GroupPatch) error {
	if !e.open {
		return domain.ErrEditorClosed
	}
	if p.Title != nil {
		e.form.Title = *p.Title
	}
	if p.Description != nil {
		e.form.Description = *p.Description
	}
	if p.SizeLimit != nil {
		e.form.SizeLimit = *p.SizeLimit
	}
	if p.StatusID != nil {
		e.form.StatusID = *p.StatusID
	}
	return nil
}

// IsDirty reports unsaved edits. A new group is dirty once it has a title or
// a description.
func (e *GroupEditor) IsDirty() bool {
	if !e.open {
		return false
	}
	if e.mode == domain.EditorModeNew {
		return strings.TrimSpace(e.form.Title) != "" || strings.TrimSpace(e.form.Description) != ""
	}
	return e.form != e.initial
}

// Save validates and stages the group, then closes the editor. A new group
// gets a pending id and is offered by the group selector right away.
func (e *GroupEditor) Save() (domain.Group, error) {
	if !e.open {
		return domain.Group{}, domain.ErrEditorClosed
	}
	e.form.Title = strings.TrimSpace(e.form.Title)
	if err := e.validator.ValidateGroup(e.form); err != nil {
		return domain.Group{}, err
	}
	if e.form.EventID == "" {
		e.form.EventID = e.store.Event().ID
	}
	saved := e.store.UpsertGroup(e.form)
	e.Cancel()
	return saved, nil
}

func (e *GroupEditor) Cancel() {
	*e = GroupEditor{store: e.store, validator: e.validator}
}

// View returns the form state, or nil when the editor is closed.
func (e *GroupEditor) View() *domain.GroupEditorView {
	if !e.open {
		return nil
	}
	return &domain.GroupEditorView{Mode: e.mode, Form: e.form, Dirty: e.IsDirty()}
}
