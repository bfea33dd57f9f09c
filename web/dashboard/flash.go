package dashboard

import (
	"context"
	"sync"

	dash "github.com/JaimeStill/esgdash/internal/dashboard"
)

// Flash queues notices between a POST and the page render that follows its redirect.
type Flash struct {
	mu      sync.Mutex
	notices []string
}

var _ dash.Notifier = (*Flash)(nil)

// NewFlash creates an empty Flash.
func NewFlash() *Flash {
	return &Flash{}
}

// Notify queues message for the next render.
func (f *Flash) Notify(_ context.Context, message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notices = append(f.notices, message)
}

// Drain returns the queued notices in order and empties the queue.
func (f *Flash) Drain() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.notices
	f.notices = nil
	return out
}
