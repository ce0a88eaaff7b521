// Package editor implements the guest and group editors of an editing
// session: local form state, validation, the point-of-contact confirmation
// state machine and the unsaved-change guard.
package editor

import (
	"regexp"
	"strings"

	"guestlisteditor/internal/domain"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// GroupLookup resolves staged groups.
type GroupLookup interface {
	Group(id domain.ID) (domain.Group, bool)
}

// Validator checks candidate records before they may be staged.
type Validator struct {
	groups GroupLookup
}

// NewValidator returns a Validator resolving group references through groups.
func NewValidator(groups GroupLookup) *Validator {
	return &Validator{groups: groups}
}

// ValidateGuest returns a *domain.ValidationError listing every invalid field, or nil.
func (v *Validator) ValidateGuest(g domain.Guest) error {
	fields := make(map[string]string)

	if strings.TrimSpace(g.Name) == "" {
		fields["name"] = "name is required"
	}
	if g.Email != nil {
		if email := strings.TrimSpace(*g.Email); email != "" && !emailPattern.MatchString(email) {
			fields["email"] = "invalid email format"
		}
	}
	switch g.GuestType {
	case "", domain.GuestTypeSingle, domain.GuestTypeVariable:
	case domain.GuestTypeMultiple:
		if g.GuestLimit == nil || *g.GuestLimit < 0 {
			fields["guest_limit"] = "guest limit is required for Multiple guest type"
		}
	default:
		fields["guest_type"] = "unknown guest type"
	}
	if g.GuestLimit != nil && *g.GuestLimit < 0 {
		fields["guest_limit"] = "guest limit must not be negative"
	}
	switch {
	case g.GroupID == nil || g.GroupID.IsZero():
		fields["group_id"] = "please select an existing group or create a new one"
	case g.GroupID.IsPending():
		if _, ok := v.groups.Group(*g.GroupID); !ok {
			fields["group_id"] = "group does not exist"
		}
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// ValidateGroup returns a *domain.ValidationError listing every invalid field, or nil.
func (v *Validator) ValidateGroup(g domain.Group) error {
	fields := make(map[string]string)
	if strings.TrimSpace(g.Title) == "" {
		fields["title"] = "title is required"
	}
	if g.SizeLimit < domain.GroupSizeUnlimited {
		fields["size_limit"] = "size limit must be -1 (unlimited) or greater"
	}
	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}
