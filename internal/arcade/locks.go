package arcade

import "sync"

type playerLock struct {
	mu   sync.Mutex
	refs int
}

// playerLocks hands out one mutex per address and drops it once no caller
// holds or waits on it.
type playerLocks struct {
	mu    sync.Mutex
	locks map[string]*playerLock
}

func (l *playerLocks) acquire(address string) func() {
	l.mu.Lock()
	if l.locks == nil {
		l.locks = make(map[string]*playerLock)
	}
	pl, ok := l.locks[address]
	if !ok {
		pl = &playerLock{}
		l.locks[address] = pl
	}
	pl.refs++
	l.mu.Unlock()

	pl.mu.Lock()
	return func() {
		pl.mu.Unlock()
		l.mu.Lock()
		pl.refs--
		if pl.refs == 0 {
			delete(l.locks, address)
		}
		l.mu.Unlock()
	}
}

func (l *playerLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
