package booking

import (
	"sort"
	"sync"
)

// keyedMutex hands out one mutex per string key, created on demand and
// dropped once the last holder releases it.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*lockEntry)}
}

func (k *keyedMutex) acquire(key string) *lockEntry {
	k.mu.Lock()
	entry, ok := k.locks[key]
	if !ok {
		entry = &lockEntry{}
		k.locks[key] = entry
	}
	entry.refs++
	k.mu.Unlock()

	entry.mu.Lock()
	return entry
}

func (k *keyedMutex) release(key string, entry *lockEntry) {
	entry.mu.Unlock()

	k.mu.Lock()
	entry.refs--
	if entry.refs == 0 {
		delete(k.locks, key)
	}
	k.mu.Unlock()
}

// lockAll locks every key in one canonical (sorted) order so that callers
// holding overlapping key sets can never deadlock, and returns the unlock
// function. Duplicate keys are collapsed.
func (k *keyedMutex) lockAll(keys ...string) func() {
	uniq := make([]string, 0, len(keys))
	seen := make(map[string]bool, len(keys))
	for _, key := range keys {
		if !seen[key] {
			seen[key] = true
			uniq = append(uniq, key)
		}
	}
	sort.Strings(uniq)

	entries := make([]*lockEntry, len(uniq))
	for i, key := range uniq {
		entries[i] = k.acquire(key)
	}

	return func() {
		for i := len(uniq) - 1; i >= 0; i-- {
			k.release(uniq[i], entries[i])
		}
	}
}
