package service

import (
	"sync"

	"github.com/google/uuid"
)

// docLocks serializes signing mutations per document. Entries are
// reference-counted and removed once the last holder unlocks, so the map
// does not grow with document history.
type docLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*docLock
}

type docLock struct {
	mu   sync.Mutex
	refs int
}

func newDocLocks() *docLocks {
	return &docLocks{locks: make(map[uuid.UUID]*docLock)}
}

// Lock acquires the document's lock and returns the matching unlock.
func (d *docLocks) Lock(docID uuid.UUID) (unlock func()) {
	d.mu.Lock()
	l, ok := d.locks[docID]
	if !ok {
		l = &docLock{}
		d.locks[docID] = l
	}
	l.refs++
	d.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		d.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(d.locks, docID)
		}
		d.mu.Unlock()
	}
}
