package domain

import "maps"

// Guest types offered by the guest form.
const (
	GuestTypeSingle   = "Single"
	GuestTypeMultiple = "Multiple"
	GuestTypeVariable = "Variable"
)

// RSVP status ids as stored by the storage service.
const (
	RSVPStatusPending      = 1
	RSVPStatusOpened       = 2
	RSVPStatusAttending    = 3
	RSVPStatusNotAttending = 4
	RSVPStatusMaybe        = 5
	RSVPStatusNoResponse   = 6
)

var rsvpStatusNames = map[int]string{
	RSVPStatusPending:      "pending",
	RSVPStatusOpened:       "opened",
	RSVPStatusAttending:    "attending",
	RSVPStatusNotAttending: "not_attending",
	RSVPStatusMaybe:        "maybe",
	RSVPStatusNoResponse:   "no_response",
}

// RSVPStatusName returns the name of an RSVP status id, or "unknown".
func RSVPStatusName(statusID int) string {
	if name, ok := rsvpStatusNames[statusID]; ok {
		return name
	}
	return "unknown"
}

// Invitation is a guest's association with one sub-event.
// swagger:model Invitation
type Invitation struct {
	SubeventID    *int64 `json:"subevent_id"`
	StatusID      int    `json:"status_id"`
	StatusName    string `json:"status_name"`
	ResponseCount int    `json:"response"`
}

// NewInvitation returns a pending invitation to the given sub-event.
func NewInvitation(subeventID int64) Invitation {
	return Invitation{
		SubeventID: &subeventID,
		StatusID:   RSVPStatusPending,
		StatusName: RSVPStatusName(RSVPStatusPending),
	}
}

// Invitations maps a sub-event label to the guest's invitation to it.
type Invitations map[string]Invitation

// Clone returns a deep copy of the invitations.
func (inv Invitations) Clone() Invitations {
	if inv == nil {
		return nil
	}
	out := make(Invitations, len(inv))
	for label, i := range inv {
		if i.SubeventID != nil {
			id := *i.SubeventID
			i.SubeventID = &id
		}
		out[label] = i
	}
	return out
}

// Equal reports whether both sets hold the same labels with the same values.
func (inv Invitations) Equal(other Invitations) bool {
	return maps.EqualFunc(inv, other, func(a, b Invitation) bool {
		if (a.SubeventID == nil) != (b.SubeventID == nil) {
			return false
		}
		if a.SubeventID != nil && *a.SubeventID != *b.SubeventID {
			return false
		}
		return a.StatusID == b.StatusID && a.StatusName == b.StatusName && a.ResponseCount == b.ResponseCount
	})
}

// Guest is a person on an event's guest list.
// swagger:model Guest
type Guest struct {
	ID             ID          `json:"id"`
	Name           string      `json:"name"`
	Email          *string     `json:"email"`
	Phone          *string     `json:"phone"`
	Tag            *string     `json:"tag,omitempty"`
	GroupID        *ID         `json:"group_id"`
	GroupTitle     string      `json:"group,omitempty"`
	PointOfContact bool        `json:"point_of_contact"`
	Invitations    Invitations `json:"rsvp_status"`
	GuestType      string      `json:"guest_type,omitempty"`
	GuestLimit     *int        `json:"guest_limit"`
	GenderID       *int        `json:"gender_id,omitempty"`
	AgeGroupID     *int        `json:"age_group_id,omitempty"`
}

// InGroup reports whether the guest belongs to the given group.
func (g *Guest) InGroup(groupID ID) bool {
	return g.GroupID != nil && *g.GroupID == groupID
}

// Clone returns a deep copy of the guest.
func (g Guest) Clone() Guest {
	out := g
	out.Email = cloneString(g.Email)
	out.Phone = cloneString(g.Phone)
	out.Tag = cloneString(g.Tag)
	out.GuestLimit = cloneInt(g.GuestLimit)
	out.GenderID = cloneInt(g.GenderID)
	out.AgeGroupID = cloneInt(g.AgeGroupID)
	if g.GroupID != nil {
		id := *g.GroupID
		out.GroupID = &id
	}
	out.Invitations = g.Invitations.Clone()
	return out
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneInt(n *int) *int {
	if n == nil {
		return nil
	}
	v := *n
	return &v
}
