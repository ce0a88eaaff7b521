package domain

// RSVPDeletion asks the storage service to drop a guest's invitation to a sub-event.
// swagger:model RSVPDeletion
type RSVPDeletion struct {
	GuestID    ID    `json:"guest_id"`
	SubeventID int64 `json:"subevent_id"`
}

// StagingDelta is the set of changes staged in an editing session and not yet committed.
// The sign of each id tells a create (pending) from an update (durable).
// swagger:model StagingDelta
type StagingDelta struct {
	UpdatedGuests []Guest        `json:"updated_guests"`
	UpdatedGroups []Group        `json:"updated_groups"`
	RSVPsToDelete []RSVPDeletion `json:"rsvps_to_delete"`
}

// IsEmpty reports whether nothing is staged.
func (d StagingDelta) IsEmpty() bool {
	return len(d.UpdatedGuests) == 0 && len(d.UpdatedGroups) == 0 && len(d.RSVPsToDelete) == 0
}

// Event is the event a guest list belongs to.
// swagger:model EventRef
type Event struct {
	ID    string `json:"id"`
	Title string `json:"title,omitempty"`
}

// Snapshot is the last-known-good guest list as returned by the storage service.
type Snapshot struct {
	Event  Event   `json:"event"`
	Groups []Group `json:"groups"`
	Guests []Guest `json:"guests"`
}

// CommitRequest is the single batch sent to the storage service.
type CommitRequest struct {
	GuestList     []Guest        `json:"guestList"`
	Groups        []Group        `json:"groups"`
	Event         Event          `json:"event"`
	RSVPsToDelete []RSVPDeletion `json:"rsvpsToDelete"`
}

// CommitResponse is the storage service's answer to a CommitRequest.
// StatusCode carries the HTTP status; Validated must be true for the commit to count.
type CommitResponse struct {
	StatusCode int    `json:"-"`
	Validated  bool   `json:"validated"`
	Message    string `json:"message,omitempty"`
}

// OK reports whether the commit was accepted.
func (r CommitResponse) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300 && r.Validated
}

// ChangeReview groups the staged changes for confirmation before commit.
// swagger:model ChangeReview
type ChangeReview struct {
	NewGuests      []Guest          `json:"new_guests"`
	UpdatedGuests  []Guest          `json:"updated_guests"`
	NewGroups      []Group          `json:"new_groups"`
	UpdatedGroups  []Group          `json:"updated_groups"`
	RSVPsToDelete  []RSVPDeletion   `json:"rsvps_to_delete"`
	GuestNames     map[ID]string    `json:"-"`
	GroupTitles    map[ID]string    `json:"-"`
	SubeventLabels map[int64]string `json:"-"`
}

// IsEmpty reports whether the review has nothing to show.
func (r ChangeReview) IsEmpty() bool {
	return len(r.NewGuests) == 0 && len(r.UpdatedGuests) == 0 &&
		len(r.NewGroups) == 0 && len(r.UpdatedGroups) == 0 && len(r.RSVPsToDelete) == 0
}
