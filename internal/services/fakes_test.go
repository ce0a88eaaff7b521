package services

import (
	"context"
	"fmt"
	"sync"

	"guestlisteditor/internal/domain"
)

func idPtr(id domain.ID) *domain.ID { return &id }

func strPtr(s string) *string { return &s }

func familySnapshot() *domain.Snapshot {
	return &domain.Snapshot{
		Event: domain.Event{ID: "evt-1", Title: "Wedding"},
		Groups: []domain.Group{
			{ID: 10, Title: "Family", SizeLimit: -1, StatusID: 2, EventID: "evt-1"},
			{ID: 11, Title: "Friends", SizeLimit: -1, StatusID: 2, EventID: "evt-1"},
		},
		Guests: []domain.Guest{
			{ID: 1, Name: "Ana", GroupID: idPtr(10), PointOfContact: true,
				Invitations: domain.Invitations{"Ceremony": domain.NewInvitation(1), "Reception": domain.NewInvitation(2)}},
			{ID: 2, Name: "Ben", GroupID: idPtr(10), Invitations: domain.Invitations{}},
			{ID: 3, Name: "Cleo", GroupID: idPtr(11), PointOfContact: true, Invitations: domain.Invitations{}},
		},
	}
}

func cloneSnapshot(s *domain.Snapshot) *domain.Snapshot {
	out := &domain.Snapshot{Event: s.Event}
	out.Groups = append(out.Groups, s.Groups...)
	for _, g := range s.Guests {
		out.Guests = append(out.Guests, g.Clone())
	}
	return out
}

// fakeGuestListClient is an in-memory GuestListClient for tests.
type fakeGuestListClient struct {
	mu          sync.Mutex
	snapshot    *domain.Snapshot
	fetchErr    error
	commitResp  *domain.CommitResponse
	commitErr   error
	deleteErr   error
	onCommit    func() // runs inside CommitGuestList, before it returns
	fetchCalls  int
	commitCalls int
	deleted     []domain.ID
	lastCommit  *domain.CommitRequest
	lastToken   string
}

func newFakeGuestListClient() *fakeGuestListClient {
	return &fakeGuestListClient{
		snapshot:   familySnapshot(),
		commitResp: &domain.CommitResponse{StatusCode: 200, Validated: true, Message: "Guest list updated successfully"},
	}
}

func (f *fakeGuestListClient) FetchGuestList(ctx context.Context, token, eventID string) (*domain.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetchCalls++
	f.lastToken = token
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return cloneSnapshot(f.snapshot), nil
}

func (f *fakeGuestListClient) CommitGuestList(ctx context.Context, token, eventID string, req *domain.CommitRequest) (*domain.CommitResponse, error) {
	f.mu.Lock()
	f.commitCalls++
	f.lastCommit = req
	f.lastToken = token
	hook := f.onCommit
	resp, err := f.commitResp, f.commitErr
	f.mu.Unlock()

	if hook != nil {
		hook()
	}
	if err != nil {
		return nil, err
	}
	out := *resp
	return &out, nil
}

func (f *fakeGuestListClient) DeleteGuest(ctx context.Context, token, eventID string, guestID domain.ID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, guestID)
	kept := f.snapshot.Guests[:0]
	for _, g := range f.snapshot.Guests {
		if g.ID != guestID {
			kept = append(kept, g)
		}
	}
	f.snapshot.Guests = kept
	return nil
}

// fakeDraftRepo is an in-memory DraftRepository for tests.
type fakeDraftRepo struct {
	mu      sync.Mutex
	drafts  map[string]*domain.Draft
	saves   int
	deletes int
	getErr  error
}

func newFakeDraftRepo() *fakeDraftRepo {
	return &fakeDraftRepo{drafts: make(map[string]*domain.Draft)}
}

func draftKey(eventID, ownerID string) string { return eventID + "/" + ownerID }

func (f *fakeDraftRepo) Save(ctx context.Context, d *domain.Draft) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saves++
	cp := *d
	f.drafts[draftKey(d.EventID, d.OwnerID)] = &cp
	return nil
}

func (f *fakeDraftRepo) Get(ctx context.Context, eventID, ownerID string) (*domain.Draft, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	d, ok := f.drafts[draftKey(eventID, ownerID)]
	if !ok {
		return nil, fmt.Errorf("draft: %w", domain.ErrNotFound)
	}
	cp := *d
	return &cp, nil
}

func (f *fakeDraftRepo) Delete(ctx context.Context, eventID, ownerID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes++
	delete(f.drafts, draftKey(eventID, ownerID))
	return nil
}

func (f *fakeDraftRepo) get(eventID, ownerID string) (*domain.Draft, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.drafts[draftKey(eventID, ownerID)]
	return d, ok
}

// fakeRenderer renders a one-line summary.
type fakeRenderer struct{}

func (fakeRenderer) Render(r domain.ChangeReview) (string, error) {
	return fmt.Sprintf("%d new guests, %d updated guests", len(r.NewGuests), len(r.UpdatedGuests)), nil
}
