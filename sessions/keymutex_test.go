package sessions

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKeyMutexSerializesSameKey(t *testing.T) {
	var km keyMutex

	const workers = 32
	counter := 0
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			unlock := km.lock("session-a")
			defer unlock()
			counter++
		}()
	}
	wg.Wait()

	require.Equal(t, workers, counter)
}

func TestKeyMutexDistinctKeysDoNotBlock(t *testing.T) {
	var km keyMutex

	unlockA := km.lock("session-a")
	defer unlockA()

	acquired := make(chan struct{})
	go func() {
		unlockB := km.lock("session-b")
		defer unlockB()
		close(acquired)
	}()
	<-acquired
}

func TestKeyMutexReleasesEntries(t *testing.T) {
	var km keyMutex

	unlockA := km.lock("session-a")
	unlockB := km.lock("session-b")
	require.Len(t, km.locks, 2)

	unlockA()
	require.Len(t, km.locks, 1)
	unlockB()
	require.Empty(t, km.locks)

	// Contended entries stay until the last holder releases.
	first := km.lock("session-c")
	second := make(chan func(), 1)
	go func() { second <- km.lock("session-c") }()
	for {
		km.mu.Lock()
		refs := km.locks["session-c"].refs
		km.mu.Unlock()
		if refs == 2 {
			break
		}
	}
	first()
	require.NotEmpty(t, km.locks)
	(<-second)()
	require.Empty(t, km.locks)
}
