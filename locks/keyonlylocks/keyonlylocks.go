// Package keyonlylocks holds non-blocking locks identified by key alone.
// A lock is an entry in a *sync.Map; there is nothing to wait on.
package keyonlylocks

import "sync"

// AcquireLocks takes every key or none. ok is false when any key is already held.
func AcquireLocks(lockStore *sync.Map, keys []string) (acquired []string, ok bool) {
	for _, key := range keys {
		if _, loaded := lockStore.LoadOrStore(key, struct{}{}); loaded {
			// rollback previously acquired locks
			ReleaseLocks(lockStore, acquired)
			return nil, false
		}
		acquired = append(acquired, key)
	}
	return acquired, true
}

// ReleaseLocks deletes locks from the lockStore
// Wrap this in deferred calls to guarantee to be called even if panic occurs.
func ReleaseLocks(lockStore *sync.Map, keys []string) {
	for _, key := range keys {
		lockStore.Delete(key)
	}
}

// TryLock acquires the keys and returns their release func
func TryLock(lockStore *sync.Map, keys ...string) (release func(), ok bool) {
	acquired, ok := AcquireLocks(lockStore, keys)
	if !ok {
		return func() {}, false
	}
	return func() { ReleaseLocks(lockStore, acquired) }, true
}
