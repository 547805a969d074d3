package arcade

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlayerLocksSerialize(t *testing.T) {
	t.Parallel()

	var locks playerLocks
	var wg sync.WaitGroup
	counter := 0
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.acquire(alice)
			defer unlock()
			counter++
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, counter)
	assert.Zero(t, locks.size())
}

func TestPlayerLocksEvict(t *testing.T) {
	t.Parallel()

	var locks playerLocks
	unlockAlice := locks.acquire(alice)
	unlockBob := locks.acquire(bob)
	assert.Equal(t, 2, locks.size())

	unlockAlice()
	assert.Equal(t, 1, locks.size())
	unlockBob()
	assert.Zero(t, locks.size())
}
