package session

import (
	"io"
	"sync"
)

// lockedReader serializes reads so one reader can feed every participant
// goroutine.
type lockedReader struct {
	mu sync.Mutex
	r  io.Reader
}

func (l *lockedReader) Read(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Read(p)
}
