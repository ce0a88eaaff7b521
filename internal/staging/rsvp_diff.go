package staging

import (
	"sort"

	"guestlisteditor/internal/domain"
)

// CalculateRSVPDeletions returns one deletion for every sub-event label present
// in original and absent from current, provided the original entry carries a
// sub-event id. Added labels and labels whose value changed are not reported.
// Results are ordered by label.
func CalculateRSVPDeletions(original, current domain.Invitations, guestID domain.ID) []domain.RSVPDeletion {
	labels := make([]string, 0, len(original))
	for label := range original {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	deletions := []domain.RSVPDeletion{}
	for _, label := range labels {
		if _, kept := current[label]; kept {
			continue
		}
		inv := original[label]
		if inv.SubeventID == nil {
			continue
		}
		deletions = append(deletions, domain.RSVPDeletion{GuestID: guestID, SubeventID: *inv.SubeventID})
	}
	return deletions
}
