package domain

import (
	"context"
	"time"
)

// GuestListClient talks to the storage service that durably owns the guest list.
type GuestListClient interface {
	// FetchGuestList returns the authoritative guest list of the event.
	FetchGuestList(ctx context.Context, token, eventID string) (*Snapshot, error)
	// CommitGuestList sends one batch of staged changes. A non-nil error means the
	// request did not complete; a rejected commit is reported through the response.
	CommitGuestList(ctx context.Context, token, eventID string, req *CommitRequest) (*CommitResponse, error)
	// DeleteGuest removes a single durable guest.
	DeleteGuest(ctx context.Context, token, eventID string, guestID ID) error
}

// TokenVerifier verifies a bearer token and returns the subject it was issued to.
type TokenVerifier interface {
	Verify(token string) (subject string, err error)
}

// ReviewRenderer renders a ChangeReview as human-readable text.
type ReviewRenderer interface {
	Render(review ChangeReview) (string, error)
}

// Draft is the persisted change-log of an interrupted editing session.
type Draft struct {
	EventID   string       `json:"event_id"`
	OwnerID   string       `json:"owner_id"`
	Delta     StagingDelta `json:"delta"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// DraftRepository stores at most one draft per event and owner.
type DraftRepository interface {
	Save(ctx context.Context, draft *Draft) error
	// Get returns ErrNotFound when no draft exists.
	Get(ctx context.Context, eventID, ownerID string) (*Draft, error)
	Delete(ctx context.Context, eventID, ownerID string) error
}
