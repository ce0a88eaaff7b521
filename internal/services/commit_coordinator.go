package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"guestlisteditor/internal/domain"
	"guestlisteditor/internal/staging"
)

const commitSuccessMessage = "Guest list updated successfully"

// CommitCoordinator reviews the staged changes of one session and commits them
// to the storage service as a single batch. Like the Store it serves, it is
// not safe for concurrent use; Begin and Finish must run under the session
// lock while Send may run without it.
type CommitCoordinator struct {
	store    *staging.Store
	client   domain.GuestListClient
	renderer domain.ReviewRenderer
	logger   *slog.Logger
	inFlight *CommitAttempt
}

// NewCommitCoordinator returns a coordinator for store. renderer may be nil
// when text reviews are not needed.
func NewCommitCoordinator(store *staging.Store, client domain.GuestListClient, renderer domain.ReviewRenderer, logger *slog.Logger) *CommitCoordinator {
	if logger == nil {
		logger = slog.Default()
	}
	return &CommitCoordinator{store: store, client: client, renderer: renderer, logger: logger}
}

// Review splits the staged changes into creates and updates.
func (c *CommitCoordinator) Review() domain.ChangeReview {
	delta := c.store.Delta()
	review := domain.ChangeReview{
		NewGuests:      []domain.Guest{},
		UpdatedGuests:  []domain.Guest{},
		NewGroups:      []domain.Group{},
		UpdatedGroups:  []domain.Group{},
		RSVPsToDelete:  delta.RSVPsToDelete,
		GuestNames:     c.store.GuestNames(),
		GroupTitles:    c.store.GroupTitles(),
		SubeventLabels: c.store.SubeventLabels(),
	}
	for _, g := range delta.UpdatedGuests {
		if g.ID.IsPending() {
			review.NewGuests = append(review.NewGuests, g)
		} else {
			review.UpdatedGuests = append(review.UpdatedGuests, g)
		}
	}
	for _, g := range delta.UpdatedGroups {
		if g.ID.IsPending() {
			review.NewGroups = append(review.NewGroups, g)
		} else {
			review.UpdatedGroups = append(review.UpdatedGroups, g)
		}
	}
	return review
}

// RenderReview renders the review as text.
func (c *CommitCoordinator) RenderReview() (string, error) {
	if c.renderer == nil {
		return "", errors.New("no review renderer configured")
	}
	out, err := c.renderer.Render(c.Review())
	if err != nil {
		return "", fmt.Errorf("render review: %w", err)
	}
	return out, nil
}

// InFlight reports whether a commit is outstanding.
func (c *CommitCoordinator) InFlight() bool { return c.inFlight != nil }

// CanCommit reports whether a commit may start now.
func (c *CommitCoordinator) CanCommit() bool {
	return c.inFlight == nil && c.store.Event().ID != "" && c.store.HasChanges()
}

// Ready checks everything Begin needs apart from staged changes. It lets a
// caller refuse a commit before touching open editors.
func (c *CommitCoordinator) Ready(token string) error {
	switch {
	case c.store.Event().ID == "":
		return domain.ErrMissingEvent
	case token == "":
		return domain.ErrAuthRequired
	case c.inFlight != nil:
		return domain.ErrCommitInFlight
	}
	return nil
}

// CreatesGuest reports whether the outstanding commit creates pending guest id.
// Such a guest gets a durable id from the refresh and must not be edited meanwhile.
func (c *CommitCoordinator) CreatesGuest(id domain.ID) bool {
	if c.inFlight == nil || !id.IsPending() {
		return false
	}
	for _, g := range c.inFlight.Request.GuestList {
		if g.ID == id {
			return true
		}
	}
	return false
}

// CreatesGroup reports whether the outstanding commit creates pending group id.
func (c *CommitCoordinator) CreatesGroup(id domain.ID) bool {
	if c.inFlight == nil || !id.IsPending() {
		return false
	}
	for _, g := range c.inFlight.Request.Groups {
		if g.ID == id {
			return true
		}
	}
	return false
}

// CommitAttempt is a commit between Begin and Finish.
type CommitAttempt struct {
	EventID string
	Request *domain.CommitRequest

	client   domain.GuestListClient
	token    string
	mark     uint64
	response *domain.CommitResponse
	snapshot *domain.Snapshot
	err      error
	fetchErr error
}

// Begin snapshots the change-log into a commit request and marks the commit
// in flight.
func (c *CommitCoordinator) Begin(token string) (*CommitAttempt, error) {
	if err := c.Ready(token); err != nil {
		return nil, err
	}
	if !c.store.HasChanges() {
		return nil, domain.ErrNothingToCommit
	}

	event := c.store.Event()
	delta := c.store.Delta()
	c.inFlight = &CommitAttempt{
		EventID: event.ID,
		Request: &domain.CommitRequest{
			GuestList:     delta.UpdatedGuests,
			Groups:        delta.UpdatedGroups,
			Event:         domain.Event{ID: event.ID},
			RSVPsToDelete: delta.RSVPsToDelete,
		},
		client: c.client,
		token:  token,
		mark:   c.store.Mark(),
	}
	return c.inFlight, nil
}

// Send issues the commit call and, when it is accepted, exactly one refresh
// call. It does not touch the store.
func (a *CommitAttempt) Send(ctx context.Context) {
	resp, err := a.client.CommitGuestList(ctx, a.token, a.EventID, a.Request)
	if err != nil {
		a.err = err
		return
	}
	a.response = resp
	if !resp.OK() {
		return
	}
	a.snapshot, a.fetchErr = a.client.FetchGuestList(ctx, a.token, a.EventID)
}

// Finish applies the outcome of a sent attempt. A failed or rejected commit
// leaves the staged changes untouched. An accepted one clears the entries it
// carried and rebases the store on the refreshed guest list.
func (c *CommitCoordinator) Finish(a *CommitAttempt) (*domain.CommitResult, error) {
	c.inFlight = nil

	if a.err != nil {
		c.logger.Warn("commit failed", "event_id", a.EventID, "error", a.err)
		return nil, fmt.Errorf("commit guest list: %w", a.err)
	}
	if a.response == nil {
		return nil, fmt.Errorf("commit guest list: %w", domain.ErrNetworkFailure)
	}
	if !a.response.OK() {
		msg := a.response.Message
		if msg == "" {
			msg = domain.DefaultCommitErrorMessage
		}
		c.logger.Info("commit rejected", "event_id", a.EventID, "status", a.response.StatusCode, "message", msg)
		return nil, &domain.CommitRejectedError{StatusCode: a.response.StatusCode, Message: msg}
	}

	c.store.ClearThrough(a.mark)
	result := &domain.CommitResult{Message: a.response.Message}
	if result.Message == "" {
		result.Message = commitSuccessMessage
	}
	if a.fetchErr != nil {
		c.logger.Warn("refresh after commit failed", "event_id", a.EventID, "error", a.fetchErr)
		return result, nil
	}
	if a.snapshot != nil {
		c.store.Rebase(*a.snapshot)
		result.Refreshed = true
	}
	c.logger.Info("guest list committed",
		"event_id", a.EventID,
		"guests", len(a.Request.GuestList),
		"groups", len(a.Request.Groups),
		"rsvps_deleted", len(a.Request.RSVPsToDelete),
	)
	return result, nil
}

// Commit runs Begin, Send and Finish in one go.
func (c *CommitCoordinator) Commit(ctx context.Context, token string) (*domain.CommitResult, error) {
	a, err := c.Begin(token)
	if err != nil {
		return nil, err
	}
	a.Send(ctx)
	return c.Finish(a)
}
