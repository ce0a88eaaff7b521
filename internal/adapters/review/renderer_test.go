package review

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guestlisteditor/internal/domain"
)

func TestTemplateRenderer_Render(t *testing.T) {
	family := domain.ID(10)
	neighbours := domain.ID(-1)
	review := domain.ChangeReview{
		NewGuests: []domain.Guest{{ID: -2, Name: "Dee", GroupID: &neighbours, PointOfContact: true,
			Invitations: domain.Invitations{"Reception": domain.NewInvitation(2), "Ceremony": domain.NewInvitation(1)}}},
		UpdatedGuests:  []domain.Guest{{ID: 2, Name: "Benjamin", GroupID: &family}},
		NewGroups:      []domain.Group{{ID: -1, Title: "Neighbours", Description: "next door", SizeLimit: -1}},
		UpdatedGroups:  []domain.Group{{ID: 10, Title: "Family", SizeLimit: 6}},
		RSVPsToDelete:  []domain.RSVPDeletion{{GuestID: 1, SubeventID: 1}, {GuestID: 9, SubeventID: 7}},
		GuestNames:     map[domain.ID]string{1: "Ana", 2: "Benjamin", -2: "Dee"},
		GroupTitles:    map[domain.ID]string{10: "Family", -1: "Neighbours"},
		SubeventLabels: map[int64]string{1: "Ceremony", 2: "Reception"},
	}

	out, err := NewTemplateRenderer().Render(review)
	require.NoError(t, err)

	assert.Contains(t, out, "New groups:")
	assert.Contains(t, out, "+ Neighbours (size limit: unlimited) - next door")
	assert.Contains(t, out, "~ Family (size limit: 6)")
	assert.Contains(t, out, "+ Dee [Neighbours] (point of contact) invited to: Ceremony, Reception")
	assert.Contains(t, out, "~ Benjamin [Family]")
	assert.Contains(t, out, "- Ana: Ceremony")
	assert.Contains(t, out, "- guest 9: sub-event 7")
	assert.NotContains(t, out, "No changes")
}

func TestTemplateRenderer_Empty(t *testing.T) {
	out, err := NewTemplateRenderer().Render(domain.ChangeReview{})
	require.NoError(t, err)
	assert.Contains(t, out, "No changes to save.")
	assert.NotContains(t, out, "New guests:")
}
