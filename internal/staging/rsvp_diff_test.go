package staging

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"guestlisteditor/internal/domain"
)

func TestCalculateRSVPDeletions(t *testing.T) {
	const guestID = domain.ID(7)
	reception := subevent(2)
	receptionAttending := reception
	receptionAttending.StatusID = domain.RSVPStatusAttending
	receptionAttending.ResponseCount = 3

	tests := []struct {
		name     string
		original domain.Invitations
		current  domain.Invitations
		want     []domain.RSVPDeletion
	}{
		{
			name:     "removed label is reported",
			original: domain.Invitations{"Ceremony": subevent(1), "Reception": reception},
			current:  domain.Invitations{"Reception": reception},
			want:     []domain.RSVPDeletion{{GuestID: guestID, SubeventID: 1}},
		},
		{
			name:     "value change only is not reported",
			original: domain.Invitations{"Reception": reception},
			current:  domain.Invitations{"Reception": receptionAttending},
			want:     []domain.RSVPDeletion{},
		},
		{
			name:     "added label is not reported",
			original: domain.Invitations{"Reception": reception},
			current:  domain.Invitations{"Reception": reception, "Brunch": subevent(3)},
			want:     []domain.RSVPDeletion{},
		},
		{
			name:     "entry without subevent id is skipped",
			original: domain.Invitations{"Ceremony": {StatusID: 1}, "Reception": reception},
			current:  domain.Invitations{},
			want:     []domain.RSVPDeletion{{GuestID: guestID, SubeventID: 2}},
		},
		{
			name:     "everything removed is ordered by label",
			original: domain.Invitations{"Reception": reception, "Ceremony": subevent(1), "Brunch": subevent(3)},
			current:  nil,
			want: []domain.RSVPDeletion{
				{GuestID: guestID, SubeventID: 3},
				{GuestID: guestID, SubeventID: 1},
				{GuestID: guestID, SubeventID: 2},
			},
		},
		{
			name:     "empty original",
			original: nil,
			current:  domain.Invitations{"Reception": reception},
			want:     []domain.RSVPDeletion{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateRSVPDeletions(tt.original, tt.current, guestID)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCalculateRSVPDeletions_Idempotent(t *testing.T) {
	original := domain.Invitations{"Ceremony": subevent(1), "Reception": subevent(2), "Brunch": subevent(3)}
	current := domain.Invitations{"Reception": subevent(2)}

	first := CalculateRSVPDeletions(original, current, 9)
	second := CalculateRSVPDeletions(original, current, 9)
	assert.ElementsMatch(t, first, second)
	assert.Len(t, first, 2)
}
