package flow

import "sync"

// userLocks serializes event handling per user. Events for different
// users proceed in parallel; two deliveries for the same user queue up so
// the session read-decide-write never races. Entries are reference
// counted and removed once the last holder releases, so the map only
// holds users with an event in flight.
type userLocks struct {
	mu    sync.Mutex
	locks map[string]*userLock
}

type userLock struct {
	mu      sync.Mutex
	holders int
}

func newUserLocks() *userLocks {
	return &userLocks{locks: make(map[string]*userLock)}
}

// acquire locks the per-user mutex and returns the release func.
func (u *userLocks) acquire(userID string) func() {
	u.mu.Lock()
	lock, exists := u.locks[userID]
	if !exists {
		lock = &userLock{}
		u.locks[userID] = lock
	}
	lock.holders++
	u.mu.Unlock()

	lock.mu.Lock()
	return func() {
		lock.mu.Unlock()

		u.mu.Lock()
		lock.holders--
		if lock.holders == 0 {
			delete(u.locks, userID)
		}
		u.mu.Unlock()
	}
}
