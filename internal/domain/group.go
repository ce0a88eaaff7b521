package domain

// Defaults applied to groups created in the editor.
const (
	GroupSizeUnlimited   = -1
	GroupStatusDefaultID = 2
)

// Group is a household or party of guests invited together.
// swagger:model Group
type Group struct {
	ID          ID     `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	SizeLimit   int    `json:"size_limit"`
	StatusID    int    `json:"status_id"`
	EventID     string `json:"event_id,omitempty"`
}

// NewGroup returns a group with the editor defaults and no id.
func NewGroup(eventID string) Group {
	return Group{
		SizeLimit: GroupSizeUnlimited,
		StatusID:  GroupStatusDefaultID,
		EventID:   eventID,
	}
}

// GroupOption is an entry of the group selector.
type GroupOption struct {
	ID    ID     `json:"id"`
	Label string `json:"label"`
}
