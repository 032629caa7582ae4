package catalog

import (
	"context"
	"sync"
)

// latest cancels the previous fetch whenever a new one starts, so that only
// the most recent request of a kind can deliver a result.
type latest struct {
	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
}

func (l *latest) begin(parent context.Context) (context.Context, uint64, func()) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.cancel != nil {
		l.cancel()
	}

	ctx, cancel := context.WithCancel(parent)
	l.seq++
	l.cancel = cancel
	seq := l.seq

	return ctx, seq, func() {
		l.mu.Lock()
		defer l.mu.Unlock()

		cancel()

		if l.seq == seq {
			l.cancel = nil
		}
	}
}

func (l *latest) current(seq uint64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.seq == seq
}
