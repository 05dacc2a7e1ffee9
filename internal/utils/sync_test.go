package utils

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOptionalRWMutexDisabled(t *testing.T) {
	var m OptionalRWMutex

	// Never locks, so re-entry does not deadlock
	m.Lock()
	m.Lock()
	m.RLock()
	m.Unlock()
	m.Unlock()
	m.RUnlock()
}

func TestOptionalRWMutexEnabled(t *testing.T) {
	m := OptionalRWMutex{UseMutex: true}

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				m.Lock()
				counter++
				m.Unlock()
			}
		}()
	}
	wg.Wait()

	m.RLock()
	defer m.RUnlock()
	require.Equal(t, 8000, counter)
}
