// Package staging holds the working copy of a guest list while it is being
// edited, separate from the last-known-good snapshot, together with the
// change-log that a commit sends to the storage service.
//
// A Store is owned by exactly one editing session and is not safe for
// concurrent use; callers serialise access.
package staging

import (
	"sort"

	"guestlisteditor/internal/domain"
)

type loggedGuest struct {
	guest domain.Guest
	rev   uint64
}

type loggedGroup struct {
	group domain.Group
	rev   uint64
}

type loggedDeletions struct {
	guestID   domain.ID
	deletions []domain.RSVPDeletion
	rev       uint64
}

// Store keeps the working guests and groups of one editing session.
type Store struct {
	event domain.Event
	ids   *domain.IDAllocator

	snapshotGroups []domain.Group
	snapshotGuests []domain.Guest
	groups         []domain.Group
	guests         []domain.Guest

	updatedGuests []loggedGuest
	updatedGroups []loggedGroup
	rsvpsToDelete []loggedDeletions

	rev uint64
}

// NewStore returns an empty store. The allocator mints pending ids for new
// guests and groups; a nil allocator gets a fresh one.
func NewStore(ids *domain.IDAllocator) *Store {
	if ids == nil {
		ids = &domain.IDAllocator{}
	}
	return &Store{ids: ids}
}

// Initialize deep-copies the snapshot into the working collections and resets
// the change-log. The store never aliases the snapshot's slices or maps.
func (s *Store) Initialize(snapshot domain.Snapshot) {
	s.load(snapshot)
	s.updatedGuests = nil
	s.updatedGroups = nil
	s.rsvpsToDelete = nil
}

func (s *Store) load(snapshot domain.Snapshot) {
	s.event = snapshot.Event
	s.snapshotGroups = cloneGroups(snapshot.Groups)
	s.snapshotGuests = cloneGuests(snapshot.Guests)
	s.groups = cloneGroups(snapshot.Groups)
	s.guests = cloneGuests(snapshot.Guests)
	for _, g := range s.groups {
		s.ids.Reserve(g.ID)
	}
	for _, g := range s.guests {
		s.ids.Reserve(g.ID)
	}
}

// Event returns the event the guest list belongs to.
func (s *Store) Event() domain.Event { return s.event }

// NewID mints a pending id.
func (s *Store) NewID() domain.ID { return s.ids.Next() }

// Guests returns copies of the working guests.
func (s *Store) Guests() []domain.Guest { return cloneGuests(s.guests) }

// Groups returns copies of the working groups.
func (s *Store) Groups() []domain.Group { return cloneGroups(s.groups) }

// Guest returns a copy of the working guest with the given id.
func (s *Store) Guest(id domain.ID) (domain.Guest, bool) {
	if i := s.guestIndex(id); i >= 0 {
		return s.guests[i].Clone(), true
	}
	return domain.Guest{}, false
}

// SnapshotGuest returns the last-known-good version of a guest.
func (s *Store) SnapshotGuest(id domain.ID) (domain.Guest, bool) {
	for _, g := range s.snapshotGuests {
		if g.ID == id {
			return g.Clone(), true
		}
	}
	return domain.Guest{}, false
}

// Group returns the working group with the given id.
func (s *Store) Group(id domain.ID) (domain.Group, bool) {
	if i := s.groupIndex(id); i >= 0 {
		return s.groups[i], true
	}
	return domain.Group{}, false
}

// PointOfContact returns the staged guest that is point of contact of the group.
func (s *Store) PointOfContact(groupID domain.ID) (domain.Guest, bool) {
	for _, g := range s.guests {
		if g.PointOfContact && g.InGroup(groupID) {
			return g.Clone(), true
		}
	}
	return domain.Guest{}, false
}

// GroupOptions lists the working groups for the group selector, including
// groups created in this session.
func (s *Store) GroupOptions() []domain.GroupOption {
	opts := make([]domain.GroupOption, 0, len(s.groups))
	for _, g := range s.groups {
		opts = append(opts, domain.GroupOption{ID: g.ID, Label: g.Title})
	}
	return opts
}

// SubeventLabels maps sub-event ids to the labels used in the guests' invitations.
func (s *Store) SubeventLabels() map[int64]string {
	labels := make(map[int64]string)
	for _, list := range [][]domain.Guest{s.snapshotGuests, s.guests} {
		for _, g := range list {
			for label, inv := range g.Invitations {
				if inv.SubeventID != nil {
					labels[*inv.SubeventID] = label
				}
			}
		}
	}
	return labels
}

// UpsertGuest stages a guest, inserting or replacing it by id in the working
// list and in the change-log. A guest without an id gets a pending one; a
// guest that already has one keeps it. When the guest is point of contact,
// every other staged guest of the same group loses the role and is logged as
// updated too. The stored copy is returned.
func (s *Store) UpsertGuest(guest domain.Guest) domain.Guest {
	s.rev++
	g := guest.Clone()
	if g.ID.IsZero() {
		g.ID = s.ids.Next()
	}
	s.ids.Reserve(g.ID)
	s.putGuest(g, true)
	return g.Clone()
}

func (s *Store) putGuest(g domain.Guest, logChange bool) {
	if g.PointOfContact && g.GroupID != nil {
		for i := range s.guests {
			other := &s.guests[i]
			if other.ID != g.ID && other.PointOfContact && other.InGroup(*g.GroupID) {
				other.PointOfContact = false
				if logChange {
					s.logGuest(other.Clone())
				}
			}
		}
	}
	if i := s.guestIndex(g.ID); i >= 0 {
		s.guests[i] = g
	} else {
		s.guests = append(s.guests, g)
	}
	if logChange {
		s.logGuest(g.Clone())
	}
}

func (s *Store) logGuest(g domain.Guest) {
	for i := range s.updatedGuests {
		if s.updatedGuests[i].guest.ID == g.ID {
			s.updatedGuests[i] = loggedGuest{guest: g, rev: s.rev}
			return
		}
	}
	s.updatedGuests = append(s.updatedGuests, loggedGuest{guest: g, rev: s.rev})
}

// UpsertGroup stages a group the same way UpsertGuest stages a guest.
func (s *Store) UpsertGroup(group domain.Group) domain.Group {
	s.rev++
	g := group
	if g.ID.IsZero() {
		g.ID = s.ids.Next()
	}
	s.ids.Reserve(g.ID)
	s.putGroup(g, true)
	return g
}

func (s *Store) putGroup(g domain.Group, logChange bool) {
	if i := s.groupIndex(g.ID); i >= 0 {
		s.groups[i] = g
	} else {
		s.groups = append(s.groups, g)
	}
	if !logChange {
		return
	}
	for i := range s.updatedGroups {
		if s.updatedGroups[i].group.ID == g.ID {
			s.updatedGroups[i] = loggedGroup{group: g, rev: s.rev}
			return
		}
	}
	s.updatedGroups = append(s.updatedGroups, loggedGroup{group: g, rev: s.rev})
}

// SetRSVPDeletions replaces the invitation deletions recorded for a guest.
// An empty list drops the guest's entry.
func (s *Store) SetRSVPDeletions(guestID domain.ID, deletions []domain.RSVPDeletion) {
	s.rev++
	for i := range s.rsvpsToDelete {
		if s.rsvpsToDelete[i].guestID != guestID {
			continue
		}
		if len(deletions) == 0 {
			s.rsvpsToDelete = append(s.rsvpsToDelete[:i], s.rsvpsToDelete[i+1:]...)
			return
		}
		s.rsvpsToDelete[i] = loggedDeletions{guestID: guestID, deletions: cloneDeletions(deletions), rev: s.rev}
		return
	}
	if len(deletions) == 0 {
		return
	}
	s.rsvpsToDelete = append(s.rsvpsToDelete, loggedDeletions{guestID: guestID, deletions: cloneDeletions(deletions), rev: s.rev})
}

// RemoveGuest drops a guest from the working list, the snapshot and every
// change-log collection. It reports whether the guest was known.
func (s *Store) RemoveGuest(id domain.ID) bool {
	s.rev++
	found := false
	if i := s.guestIndex(id); i >= 0 {
		s.guests = append(s.guests[:i], s.guests[i+1:]...)
		found = true
	}
	for i, g := range s.snapshotGuests {
		if g.ID == id {
			s.snapshotGuests = append(s.snapshotGuests[:i], s.snapshotGuests[i+1:]...)
			break
		}
	}
	for i, lg := range s.updatedGuests {
		if lg.guest.ID == id {
			s.updatedGuests = append(s.updatedGuests[:i], s.updatedGuests[i+1:]...)
			break
		}
	}
	for i, ld := range s.rsvpsToDelete {
		if ld.guestID == id {
			s.rsvpsToDelete = append(s.rsvpsToDelete[:i], s.rsvpsToDelete[i+1:]...)
			break
		}
	}
	return found
}

// Delta returns a copy of everything staged since the last successful commit.
func (s *Store) Delta() domain.StagingDelta {
	d := domain.StagingDelta{
		UpdatedGuests: make([]domain.Guest, 0, len(s.updatedGuests)),
		UpdatedGroups: make([]domain.Group, 0, len(s.updatedGroups)),
		RSVPsToDelete: []domain.RSVPDeletion{},
	}
	for _, lg := range s.updatedGuests {
		d.UpdatedGuests = append(d.UpdatedGuests, lg.guest.Clone())
	}
	for _, lg := range s.updatedGroups {
		d.UpdatedGroups = append(d.UpdatedGroups, lg.group)
	}
	for _, ld := range s.rsvpsToDelete {
		d.RSVPsToDelete = append(d.RSVPsToDelete, ld.deletions...)
	}
	return d
}

// HasChanges reports whether anything is staged.
func (s *Store) HasChanges() bool {
	return len(s.updatedGuests) > 0 || len(s.updatedGroups) > 0 || len(s.rsvpsToDelete) > 0
}

// Mark returns a revision marker for the current change-log.
func (s *Store) Mark() uint64 { return s.rev }

// ClearThrough removes the change-log entries last modified at or before mark.
// Entries staged after the mark stay for the next commit.
func (s *Store) ClearThrough(mark uint64) {
	guests := s.updatedGuests[:0]
	for _, lg := range s.updatedGuests {
		if lg.rev > mark {
			guests = append(guests, lg)
		}
	}
	s.updatedGuests = guests

	groups := s.updatedGroups[:0]
	for _, lg := range s.updatedGroups {
		if lg.rev > mark {
			groups = append(groups, lg)
		}
	}
	s.updatedGroups = groups

	dels := s.rsvpsToDelete[:0]
	for _, ld := range s.rsvpsToDelete {
		if ld.rev > mark {
			dels = append(dels, ld)
		}
	}
	s.rsvpsToDelete = dels
}

// Clear empties the change-log.
func (s *Store) Clear() {
	s.ClearThrough(s.rev)
}

// Rebase replaces the snapshot and working copies with a refreshed snapshot and
// re-applies the change-log entries that are still pending on top of it.
func (s *Store) Rebase(snapshot domain.Snapshot) {
	if snapshot.Event.ID == "" {
		snapshot.Event = s.event
	}
	s.load(snapshot)
	for _, lg := range s.updatedGroups {
		s.putGroup(lg.group, false)
	}
	for _, lg := range s.updatedGuests {
		s.putGuest(lg.guest.Clone(), false)
	}
}

// Restore stages a previously persisted delta on top of the current snapshot.
func (s *Store) Restore(delta domain.StagingDelta) {
	for _, g := range delta.UpdatedGroups {
		s.UpsertGroup(g)
	}
	for _, g := range delta.UpdatedGuests {
		s.UpsertGuest(g)
	}
	byGuest := make(map[domain.ID][]domain.RSVPDeletion)
	var order []domain.ID
	for _, d := range delta.RSVPsToDelete {
		if _, ok := byGuest[d.GuestID]; !ok {
			order = append(order, d.GuestID)
		}
		byGuest[d.GuestID] = append(byGuest[d.GuestID], d)
	}
	for _, id := range order {
		s.SetRSVPDeletions(id, byGuest[id])
	}
}

// GuestNames maps every known guest id to its name.
func (s *Store) GuestNames() map[domain.ID]string {
	names := make(map[domain.ID]string, len(s.guests))
	for _, g := range s.snapshotGuests {
		names[g.ID] = g.Name
	}
	for _, g := range s.guests {
		names[g.ID] = g.Name
	}
	return names
}

// GroupTitles maps every known group id to its title.
func (s *Store) GroupTitles() map[domain.ID]string {
	titles := make(map[domain.ID]string, len(s.groups))
	for _, g := range s.groups {
		titles[g.ID] = g.Title
	}
	return titles
}

func (s *Store) guestIndex(id domain.ID) int {
	for i := range s.guests {
		if s.guests[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) groupIndex(id domain.ID) int {
	for i := range s.groups {
		if s.groups[i].ID == id {
			return i
		}
	}
	return -1
}

func cloneGuests(in []domain.Guest) []domain.Guest {
	out := make([]domain.Guest, 0, len(in))
	for _, g := range in {
		out = append(out, g.Clone())
	}
	return out
}

func cloneGroups(in []domain.Group) []domain.Group {
	out := make([]domain.Group, len(in))
	copy(out, in)
	return out
}

func cloneDeletions(in []domain.RSVPDeletion) []domain.RSVPDeletion {
	out := make([]domain.RSVPDeletion, len(in))
	copy(out, in)
	sort.SliceStable(out, func(i, j int) bool { return out[i].SubeventID < out[j].SubeventID })
	return out
}
