package domain

import "context"

// InvitationToggle adds or removes the invitation to one sub-event.
type InvitationToggle struct {
	Label      string `json:"label"`
	SubeventID int64  `json:"subevent_id"`
	Invited    bool   `json:"invited"`
}

// GuestPatch holds in-progress guest form edits. Nil fields are left unchanged.
// swagger:model GuestPatch
type GuestPatch struct {
	Name           *string            `json:"name,omitempty"`
	Email          *string            `json:"email,omitempty"`
	Phone          *string            `json:"phone,omitempty"`
	Tag            *string            `json:"tag,omitempty"`
	GroupID        *ID                `json:"group_id,omitempty"`
	ClearGroup     bool               `json:"clear_group,omitempty"`
	PointOfContact *bool              `json:"point_of_contact,omitempty"`
	Invitations    []InvitationToggle `json:"invitations,omitempty"`
	GuestType      *string            `json:"guest_type,omitempty"`
	GuestLimit     *int               `json:"guest_limit,omitempty"`
	GenderID       *int               `json:"gender_id,omitempty"`
	AgeGroupID     *int               `json:"age_group_id,omitempty"`
}

// GroupPatch holds in-progress group form edits. Nil fields are left unchanged.
// swagger:model GroupPatch
type GroupPatch struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	SizeLimit   *int    `json:"size_limit,omitempty"`
	StatusID    *int    `json:"status_id,omitempty"`
}

// POC transfer states.
const (
	POCIdle                = "idle"
	POCPendingConfirmation = "pending_confirmation"
	POCApplied             = "applied"
)

// POCView describes the point-of-contact state of the open guest form.
type POCView struct {
	State       string `json:"state"`
	CandidateID ID     `json:"candidate_id,omitempty"`
	IncumbentID ID     `json:"incumbent_id,omitempty"`
	Incumbent   string `json:"incumbent,omitempty"`
}

// Editor modes.
const (
	EditorModeNew      = "new"
	EditorModeExisting = "existing"
)

// GuestEditorView is the state of an open guest editor.
// swagger:model GuestEditorView
type GuestEditorView struct {
	Mode  string  `json:"mode"`
	Form  Guest   `json:"form"`
	Dirty bool    `json:"dirty"`
	POC   POCView `json:"poc"`
}

// GroupEditorView is the state of an open group editor.
// swagger:model GroupEditorView
type GroupEditorView struct {
	Mode  string `json:"mode"`
	Form  Group  `json:"form"`
	Dirty bool   `json:"dirty"`
}

// SessionView is the full state of an editing session.
// swagger:model SessionView
type SessionView struct {
	ID             string           `json:"id"`
	EventID        string           `json:"event_id"`
	Guests         []Guest          `json:"guests"`
	Groups         []Group          `json:"groups"`
	GroupOptions   []GroupOption    `json:"group_options"`
	Delta          StagingDelta     `json:"delta"`
	CommitInFlight bool             `json:"commit_in_flight"`
	GuestEditor    *GuestEditorView `json:"guest_editor,omitempty"`
	GroupEditor    *GroupEditorView `json:"group_editor,omitempty"`
}

// UnsavedDecision is the operator's answer when an action finds unsaved form edits.
type UnsavedDecision string

const (
	DecisionNone            UnsavedDecision = ""
	DecisionCancel          UnsavedDecision = "cancel"
	DecisionDiscard         UnsavedDecision = "discard"
	DecisionSaveAndContinue UnsavedDecision = "save"
)

// Valid reports whether d is a known decision.
func (d UnsavedDecision) Valid() bool {
	switch d {
	case DecisionNone, DecisionCancel, DecisionDiscard, DecisionSaveAndContinue:
		return true
	}
	return false
}

// CommitResult is the outcome of a successful commit.
// swagger:model CommitResult
type CommitResult struct {
	Message   string `json:"message,omitempty"`
	Refreshed bool   `json:"refreshed"`
}

// EditSessionService drives guest-list editing sessions. Every call is scoped to
// the owner that opened the session; other owners get ErrNotFound.
type EditSessionService interface {
	Open(ctx context.Context, ownerID, token, eventID string) (*SessionView, error)
	Get(ctx context.Context, sessionID, ownerID string) (*SessionView, error)
	Close(ctx context.Context, sessionID, ownerID string, discard bool) error
	// ListGuests returns one page of the working guests matching filter and the total number of matches.
	ListGuests(ctx context.Context, sessionID, ownerID string, filter GuestFilter, params PaginationParams) ([]Guest, int, error)

	OpenGuestEditor(ctx context.Context, sessionID, ownerID string, guestID ID) (*GuestEditorView, error)
	UpdateGuestEditor(ctx context.Context, sessionID, ownerID string, patch GuestPatch) (*GuestEditorView, error)
	ResolvePOC(ctx context.Context, sessionID, ownerID string, confirm bool) (*GuestEditorView, error)
	SaveGuestEditor(ctx context.Context, sessionID, ownerID string) (*Guest, error)
	CancelGuestEditor(ctx context.Context, sessionID, ownerID string) error

	OpenGroupEditor(ctx context.Context, sessionID, ownerID string, groupID ID) (*GroupEditorView, error)
	UpdateGroupEditor(ctx context.Context, sessionID, ownerID string, patch GroupPatch) (*GroupEditorView, error)
	SaveGroupEditor(ctx context.Context, sessionID, ownerID string) (*Group, error)
	CancelGroupEditor(ctx context.Context, sessionID, ownerID string) error

	Review(ctx context.Context, sessionID, ownerID string) (*ChangeReview, error)
	RenderReview(ctx context.Context, sessionID, ownerID string) (string, error)
	Commit(ctx context.Context, sessionID, ownerID, token string, decision UnsavedDecision) (*CommitResult, error)
	DeleteGuest(ctx context.Context, sessionID, ownerID, token string, guestID ID) error
}
