package booking

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyedMutexSerializesSameKey(t *testing.T) {
	km := newKeyedMutex()

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := km.lockAll("slot:1")
			counter++
			unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, counter)
}

func TestKeyedMutexDropsUnusedEntries(t *testing.T) {
	km := newKeyedMutex()

	unlock := km.lockAll("slot:1", "candidate:a")
	unlock()

	km.mu.Lock()
	defer km.mu.Unlock()
	assert.Empty(t, km.locks, "released entries must be dropped")
}

func TestKeyedMutexOverlappingKeySets(t *testing.T) {
	km := newKeyedMutex()

	// opposite acquisition orders on overlapping sets must not deadlock
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			unlock := km.lockAll("slot:1", "candidate:a")
			unlock()
		}()
		go func() {
			defer wg.Done()
			unlock := km.lockAll("candidate:a", "slot:1")
			unlock()
		}()
	}
	wg.Wait()
}

func TestKeyedMutexCollapsesDuplicates(t *testing.T) {
	km := newKeyedMutex()

	unlock := km.lockAll("slot:1", "slot:1")
	// would deadlock if the duplicate were locked twice
	unlock()
}
