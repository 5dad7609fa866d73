package verification

import "sync"

// keyedLocks serializes mutations per request id so concurrent submissions
// for different artifact kinds cannot lose each other's updates. Entries are
// never removed; requests are never deleted, so the map is bounded by the
// number of requests ever created.
type keyedLocks struct {
	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

func newKeyedLocks() *keyedLocks {
	return &keyedLocks{locks: make(map[uint]*sync.Mutex)}
}

// lock acquires the mutex for id and returns its release func.
func (k *keyedLocks) lock(id uint) func() {
	k.mu.Lock()
	m, ok := k.locks[id]
	if !ok {
		m = &sync.Mutex{}
		k.locks[id] = m
	}
	k.mu.Unlock()

	m.Lock()
	return m.Unlock
}
