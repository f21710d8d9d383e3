package keylock

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocker_SerializesSameKey(t *testing.T) {
	l := New()
	counter := 0
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Lock("court:1:2025-06-01")
			defer l.Unlock("court:1:2025-06-01")
			current := counter
			counter = current + 1
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, counter)
	assert.Equal(t, 0, l.Len())
}

func TestLocker_LockAllOverlappingSets(t *testing.T) {
	l := New()
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			unlock := l.LockAll([]string{"a", "b", "a"})
			unlock()
		}()
		go func() {
			defer wg.Done()
			unlock := l.LockAll([]string{"b", "a"})
			unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 0, l.Len())
}

func TestLocker_ZeroValue(t *testing.T) {
	var l Locker
	l.Lock("x")
	l.Unlock("x")
	assert.Equal(t, 0, l.Len())
}

func TestLocker_UnlockUnknownPanics(t *testing.T) {
	l := New()
	assert.Panics(t, func() { l.Unlock("missing") })
}
