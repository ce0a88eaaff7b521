package domain

import "strconv"

// ID identifies a Guest or Group.
// Zero means the entity was never saved, a positive value is a durable id
// assigned by the storage service and a negative value is a pending id
// minted locally for an entity that has not been committed yet.
type ID int64

// DurableID returns the ID for a server-assigned identifier.
func DurableID(n uint64) ID {
	return ID(n)
}

// IsZero reports whether the id is absent.
func (id ID) IsZero() bool { return id == 0 }

// IsDurable reports whether the id was assigned by the storage service.
func (id ID) IsDurable() bool { return id > 0 }

// IsPending reports whether the id is a session-local placeholder.
func (id ID) IsPending() bool { return id < 0 }

func (id ID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// ParseID parses the decimal wire form of an ID.
func ParseID(s string) (ID, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, err
	}
	return ID(n), nil
}

// IDAllocator mints pending ids from a strictly monotonic counter, so two
// entities created in the same session never share an id.
// It is owned by a single editing session and is not safe for concurrent use.
type IDAllocator struct {
	last int64
}

// Next returns a new pending id (-1, -2, -3, ...).
func (a *IDAllocator) Next() ID {
	a.last++
	return ID(-a.last)
}

// Reserve records that id is already in use so Next never returns it.
// Durable and zero ids are ignored.
func (a *IDAllocator) Reserve(id ID) {
	if !id.IsPending() {
		return
	}
	if n := -int64(id); n > a.last {
		a.last = n
	}
}
