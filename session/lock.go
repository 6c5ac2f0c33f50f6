package session

import "sync"

// Locker hands out one mutex per identity. Sessions that may act on the same
// identity must share a Locker.
type Locker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewLocker() *Locker {
	return &Locker{locks: make(map[string]*sync.Mutex)}
}

// Lock blocks until identity is free and returns the unlock func.
func (l *Locker) Lock(identity string) func() {
	l.mu.Lock()
	m, ok := l.locks[identity]
	if !ok {
		m = &sync.Mutex{}
		l.locks[identity] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
