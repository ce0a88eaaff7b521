package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"guestlisteditor/internal/domain"
	"guestlisteditor/internal/editor"
	"guestlisteditor/internal/staging"
)

// editSession is one operator editing one event's guest list.
type editSession struct {
	mu      sync.Mutex
	id      string
	ownerID string
	eventID string

	// guarded by editSessionService.mu
	lastUsed time.Time

	store   *staging.Store
	guests  *editor.GuestEditor
	groups  *editor.GroupEditor
	guard   *editor.Guard
	commits *CommitCoordinator
}

func (e *editSession) view() *domain.SessionView {
	return &domain.SessionView{
		ID:             e.id,
		EventID:        e.eventID,
		Guests:         e.store.Guests(),
		Groups:         e.store.Groups(),
		GroupOptions:   e.store.GroupOptions(),
		Delta:          e.store.Delta(),
		CommitInFlight: e.commits.InFlight(),
		GuestEditor:    e.guests.View(),
		GroupEditor:    e.groups.View(),
	}
}

type editSessionService struct {
	client         domain.GuestListClient
	drafts         domain.DraftRepository
	renderer       domain.ReviewRenderer
	logger         *slog.Logger
	idleTTL        time.Duration
	contextTimeout time.Duration
	now            func() time.Time

	mu       sync.Mutex
	sessions map[string]*editSession
}

// NewEditSessionService returns the service hosting editing sessions. drafts
// may be nil, in which case unsaved change-logs are lost when a session ends.
// Sessions idle for longer than idleTTL are dropped; zero keeps them forever.
func NewEditSessionService(client domain.GuestListClient, drafts domain.DraftRepository, renderer domain.ReviewRenderer, logger *slog.Logger, idleTTL, timeout time.Duration) domain.EditSessionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &editSessionService{
		client:         client,
		drafts:         drafts,
		renderer:       renderer,
		logger:         logger,
		idleTTL:        idleTTL,
		contextTimeout: timeout,
		now:            time.Now,
		sessions:       make(map[string]*editSession),
	}
}

func (s *editSessionService) Open(ctx context.Context, ownerID, token, eventID string) (*domain.SessionView, error) {
	if eventID == "" {
		return nil, domain.ErrMissingEvent
	}
	if token == "" {
		return nil, domain.ErrAuthRequired
	}
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	snap, err := s.client.FetchGuestList(ctx, token, eventID)
	if err != nil {
		return nil, fmt.Errorf("fetch guest list: %w", err)
	}
	if snap.Event.ID == "" {
		snap.Event.ID = eventID
	}

	store := staging.NewStore(nil)
	store.Initialize(*snap)
	if s.drafts != nil {
		draft, err := s.drafts.Get(ctx, eventID, ownerID)
		switch {
		case err == nil:
			store.Restore(draft.Delta)
			s.logger.Info("restored draft", "event_id", eventID, "owner_id", ownerID, "updated_at", draft.UpdatedAt)
		case !errors.Is(err, domain.ErrNotFound):
			s.logger.Warn("failed to load draft", "event_id", eventID, "owner_id", ownerID, "error", err)
		}
	}

	validator := editor.NewValidator(store)
	guests := editor.NewGuestEditor(store, validator)
	groups := editor.NewGroupEditor(store, validator)
	sess := &editSession{
		id:       ulid.Make().String(),
		ownerID:  ownerID,
		eventID:  eventID,
		lastUsed: s.now(),
		store:    store,
		guests:   guests,
		groups:   groups,
		guard:    editor.NewGuard(guests, groups),
		commits:  NewCommitCoordinator(store, s.client, s.renderer, s.logger),
	}

	s.mu.Lock()
	s.evictIdleLocked()
	for id, other := range s.sessions {
		if other.ownerID == ownerID && other.eventID == eventID {
			delete(s.sessions, id)
		}
	}
	s.sessions[sess.id] = sess
	s.mu.Unlock()

	s.logger.Info("editing session opened", "session_id", sess.id, "event_id", eventID, "owner_id", ownerID)
	return sess.view(), nil
}

func (s *editSessionService) evictIdleLocked() {
	if s.idleTTL <= 0 {
		return
	}
	cutoff := s.now().Add(-s.idleTTL)
	for id, sess := range s.sessions {
		if sess.lastUsed.Before(cutoff) {
			delete(s.sessions, id)
			s.logger.Info("editing session expired", "session_id", id, "event_id", sess.eventID)
		}
	}
}

func (s *editSessionService) lookup(sessionID, ownerID string) (*editSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evictIdleLocked()
	sess, ok := s.sessions[sessionID]
	if !ok || sess.ownerID != ownerID {
		return nil, fmt.Errorf("session %s: %w", sessionID, domain.ErrNotFound)
	}
	sess.lastUsed = s.now()
	return sess, nil
}

// withSession runs fn holding the session lock.
func (s *editSessionService) withSession(sessionID, ownerID string, fn func(*editSession) error) error {
	sess, err := s.lookup(sessionID, ownerID)
	if err != nil {
		return err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return fn(sess)
}

// isCurrent reports whether sess is still registered. A session closed or
// replaced while a commit was outstanding no longer owns the draft.
func (s *editSessionService) isCurrent(sess *editSession) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions[sess.id] == sess
}

// persist saves the change-log as a draft, or removes the draft when nothing
// is staged. Failures are logged; the staged edit itself already happened.
func (s *editSessionService) persist(ctx context.Context, sess *editSession) {
	if s.drafts == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if !sess.store.HasChanges() {
		if err := s.drafts.Delete(ctx, sess.eventID, sess.ownerID); err != nil {
			s.logger.Warn("failed to delete draft", "session_id", sess.id, "error", err)
		}
		return
	}
	draft := &domain.Draft{
		EventID:   sess.eventID,
		OwnerID:   sess.ownerID,
		Delta:     sess.store.Delta(),
		UpdatedAt: s.now(),
	}
	if err := s.drafts.Save(ctx, draft); err != nil {
		s.logger.Warn("failed to save draft", "session_id", sess.id, "error", err)
	}
}

func (s *editSessionService) Get(ctx context.Context, sessionID, ownerID string) (*domain.SessionView, error) {
	var view *domain.SessionView
	err := s.withSession(sessionID, ownerID, func(sess *editSession) error {
		view = sess.view()
		return nil
	})
	return view, err
}

func (s *editSessionService) ListGuests(ctx context.Context, sessionID, ownerID string, filter domain.GuestFilter, params domain.PaginationParams) ([]domain.Guest, int, error) {
	var page []domain.Guest
	var total int
	err := s.withSession(sessionID, ownerID, func(sess *editSession) error {
		matched := filterGuests(sess.store.Guests(), filter)
		total = len(matched)
		start, end := params.Window(total)
		page = matched[start:end]
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return page, total, nil
}

func filterGuests(guests []domain.Guest, filter domain.GuestFilter) []domain.Guest {
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	out := make([]domain.Guest, 0, len(guests))
	for _, g := range guests {
		if filter.GroupID != nil && !g.InGroup(*filter.GroupID) {
			continue
		}
		if search != "" && !guestMatches(g, search) {
			continue
		}
		out = append(out, g)
	}
	return out
}

func guestMatches(g domain.Guest, search string) bool {
	fields := []string{g.Name, g.GroupTitle}
	if g.Email != nil {
		fields = append(fields, *g.Email)
	}
	if g.Phone != nil {
		fields = append(fields, *g.Phone)
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), search) {
			return true
		}
	}
	return false
}

func (s *editSessionService) Close(ctx context.Context, sessionID, ownerID string, discard bool) error {
	sess, err := s.lookup(sessionID, ownerID)
	if err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()

	if discard && s.drafts != nil {
		ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
		defer cancel()
		if err := s.drafts.Delete(ctx, sess.eventID, ownerID); err != nil {
			return fmt.Errorf("delete draft: %w", err)
		}
	}
	s.logger.Info("editing session closed", "session_id", sessionID, "discard", discard)
	return nil
}

func (s *editSessionService) OpenGuestEditor(ctx context.Context, sessionID, ownerID string, guestID domain.ID) (*domain.GuestEditorView, error) {
	var view *domain.GuestEditorView
	err := s.withSession(sessionID, ownerID, func(sess *editSession) error {
		if sess.commits.CreatesGuest(guestID) {
			return fmt.Errorf("guest %s: %w", guestID, domain.ErrCommitInFlight)
		}
		if guestID.IsZero() {
			if err := sess.guests.OpenNew(); err != nil {
				return err
			}
		} else if err := sess.guests.OpenExisting(guestID); err != nil {
			return err
		}
		view = sess.guests.View()
		return nil
	})
	return view, err
}

func (s *editSessionService) UpdateGuestEditor(ctx context.Context, sessionID, ownerID string, patch domain.GuestPatch) (*domain.GuestEditorView, error) {
	var view *domain.GuestEditorView
	err := s.withSession(sessionID, ownerID, func(sess *editSession) error {
		if err := sess.guests.Apply(patch); err != nil {
			return err
		}
		view = sess.guests.View()
		return nil
	})
	return view, err
}

func (s *editSessionService) ResolvePOC(ctx context.Context, sessionID, ownerID string, confirm bool) (*domain.GuestEditorView, error) {
	var view *domain.GuestEditorView
	err := s.withSession(sessionID, ownerID, func(sess *editSession) error {
		resolve := sess.guests.CancelPOC
		if confirm {
			resolve = sess.guests.ConfirmPOC
		}
		if err := resolve(); err != nil {
			return err
		}
		view = sess.guests.View()
		return nil
	})
	return view, err
}

func (s *editSessionService) SaveGuestEditor(ctx context.Context, sessionID, ownerID string) (*domain.Guest, error) {
	var saved domain.Guest
	err := s.withSession(sessionID, ownerID, func(sess *editSession) error {
		if sess.store.Event().ID == "" {
			return domain.ErrMissingEvent
		}
		if err := guestSaveBlocked(sess); err != nil {
			return err
		}
		g, err := sess.guests.Save()
		if err != nil {
			return err
		}
		saved = g
		s.persist(ctx, sess)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

// guestSaveBlocked refuses saving a guest the outstanding commit creates, or
// one placed in a group it creates. Both ids are replaced by the refresh.
func guestSaveBlocked(sess *editSession) error {
	view := sess.guests.View()
	if view == nil {
		return nil
	}
	if sess.commits.CreatesGuest(view.Form.ID) {
		return fmt.Errorf("guest %s: %w", view.Form.ID, domain.ErrCommitInFlight)
	}
	if view.Form.GroupID != nil && sess.commits.CreatesGroup(*view.Form.GroupID) {
		return fmt.Errorf("group %s: %w", *view.Form.GroupID, domain.ErrCommitInFlight)
	}
	return nil
}

func (s *editSessionService) CancelGuestEditor(ctx context.Context, sessionID, ownerID string) error {
	return s.withSession(sessionID, ownerID, func(sess *editSession) error {
		if !sess.guests.IsOpen() {
			return domain.ErrEditorClosed
		}
		sess.guests.Cancel()
		return nil
	})
}

func (s *editSessionService) OpenGroupEditor(ctx context.Context, sessionID, ownerID string, groupID domain.ID) (*domain.GroupEditorView, error) {
	var view *domain.GroupEditorView
	err := s.withSession(sessionID, ownerID, func(sess *editSession) error {
		if sess.commits.CreatesGroup(groupID) {
			return fmt.Errorf("group %s: %w", groupID, domain.ErrCommitInFlight)
		}
		if groupID.IsZero() {
			if err := sess.groups.OpenNew(); err != nil {
				return err
			}
		} else if err := sess.groups.OpenExisting(groupID); err != nil {
			return err
		}
		view = sess.groups.View()
		return nil
	})
	return view, err
}

func (s *editSessionService) UpdateGroupEditor(ctx context.Context, sessionID, ownerID string, patch domain.GroupPatch) (*domain.GroupEditorView, error) {
	var view *domain.GroupEditorView
	err := s.withSession(sessionID, ownerID, func(sess *editSession) error {
		if err := sess.groups.Apply(patch); err != nil {
			return err
		}
		view = sess.groups.View()
		return nil
	})
	return view, err
}

func (s *editSessionService) SaveGroupEditor(ctx context.Context, sessionID, ownerID string) (*domain.Group, error) {
	var saved domain.Group
	err := s.withSession(sessionID, ownerID, func(sess *editSession) error {
		if sess.store.Event().ID == "" {
			return domain.ErrMissingEvent
		}
		if view := sess.groups.View(); view != nil && sess.commits.CreatesGroup(view.Form.ID) {
			return fmt.Errorf("group %s: %w", view.Form.ID, domain.ErrCommitInFlight)
		}
		g, err := sess.groups.Save()
		if err != nil {
			return err
		}
		saved = g
		s.persist(ctx, sess)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (s *editSessionService) CancelGroupEditor(ctx context.Context, sessionID, ownerID string) error {
	return s.withSession(sessionID, ownerID, func(sess *editSession) error {
		if !sess.groups.IsOpen() {
			return domain.ErrEditorClosed
		}
		sess.groups.Cancel()
		return nil
	})
}

func (s *editSessionService) Review(ctx context.Context, sessionID, ownerID string) (*domain.ChangeReview, error) {
	var review domain.ChangeReview
	err := s.withSession(sessionID, ownerID, func(sess *editSession) error {
		review = sess.commits.Review()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (s *editSessionService) RenderReview(ctx context.Context, sessionID, ownerID string) (string, error) {
	var out string
	err := s.withSession(sessionID, ownerID, func(sess *editSession) error {
		var err error
		out, err = sess.commits.RenderReview()
		return err
	})
	return out, err
}

// Commit resolves unsaved form edits, then sends the change-log. The session
// lock is released while the commit call is outstanding so editing can go on;
// edits made meanwhile stay staged for the next commit. Guests and groups the
// commit creates stay locked until it finishes.
func (s *editSessionService) Commit(ctx context.Context, sessionID, ownerID, token string, decision domain.UnsavedDecision) (*domain.CommitResult, error) {
	sess, err := s.lookup(sessionID, ownerID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	if err := sess.commits.Ready(token); err != nil {
		sess.mu.Unlock()
		return nil, err
	}
	proceed, err := sess.guard.Resolve(decision)
	if err != nil {
		sess.mu.Unlock()
		return nil, err
	}
	if !proceed {
		sess.mu.Unlock()
		return nil, fmt.Errorf("commit cancelled: %w", domain.ErrUnsavedChanges)
	}
	if decision == domain.DecisionSaveAndContinue {
		s.persist(ctx, sess)
	}
	attempt, err := sess.commits.Begin(token)
	sess.mu.Unlock()
	if err != nil {
		return nil, err
	}

	sendCtx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	attempt.Send(sendCtx)
	cancel()

	sess.mu.Lock()
	defer sess.mu.Unlock()
	result, err := sess.commits.Finish(attempt)
	if err != nil {
		return nil, err
	}
	if s.isCurrent(sess) {
		s.persist(ctx, sess)
	} else {
		s.logger.Info("session ended during commit, draft left as is", "session_id", sess.id)
	}
	return result, nil
}

// DeleteGuest removes one guest. A guest created in this session only leaves
// staging; a durable guest is deleted by the storage service first and the
// guest list is refreshed afterwards.
func (s *editSessionService) DeleteGuest(ctx context.Context, sessionID, ownerID, token string, guestID domain.ID) error {
	return s.withSession(sessionID, ownerID, func(sess *editSession) error {
		if sess.store.Event().ID == "" {
			return domain.ErrMissingEvent
		}
		if _, ok := sess.store.Guest(guestID); !ok {
			return fmt.Errorf("guest %s: %w", guestID, domain.ErrNotFound)
		}
		if sess.commits.CreatesGuest(guestID) {
			return fmt.Errorf("guest %s: %w", guestID, domain.ErrCommitInFlight)
		}
		if sess.guests.IsOpen() && sess.guests.View().Form.ID == guestID {
			sess.guests.Cancel()
		}

		if guestID.IsPending() {
			sess.store.RemoveGuest(guestID)
			s.persist(ctx, sess)
			return nil
		}

		if token == "" {
			return domain.ErrAuthRequired
		}
		ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
		defer cancel()
		if err := s.client.DeleteGuest(ctx, token, sess.eventID, guestID); err != nil {
			return fmt.Errorf("delete guest: %w", err)
		}
		sess.store.RemoveGuest(guestID)

		snap, err := s.client.FetchGuestList(ctx, token, sess.eventID)
		if err != nil {
			s.logger.Warn("refresh after delete failed", "session_id", sess.id, "error", err)
		} else {
			sess.store.Rebase(*snap)
		}
		s.persist(ctx, sess)
		s.logger.Info("guest deleted", "session_id", sess.id, "event_id", sess.eventID, "guest_id", guestID)
		return nil
	})
}
