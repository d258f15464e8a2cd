package noop

import (
	"context"
	"sync"

	"tasignals/pkg/errors"
)

// Tracker discards events but keeps the captured errors in memory.
// Used when error tracking is disabled or for testing.
type Tracker struct {
	mu       sync.Mutex
	errors   []error
	tags     []map[string]string
	messages []string
}

// New creates a new no-op tracker
func New() *Tracker {
	return &Tracker{}
}

// CaptureError remembers the error and its tags
func (t *Tracker) CaptureError(ctx context.Context, err error, tags map[string]string) error {
	if err == nil {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.errors = append(t.errors, err)
	t.tags = append(t.tags, copyTags(tags))
	return nil
}

// CaptureMessage remembers the message
func (t *Tracker) CaptureMessage(ctx context.Context, message string, level errors.Level, tags map[string]string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.messages = append(t.messages, level.String()+": "+message)
	return nil
}

// Flush does nothing
func (t *Tracker) Flush(ctx context.Context) error {
	return nil
}

// Errors returns the captured errors in capture order
func (t *Tracker) Errors() []error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]error(nil), t.errors...)
}

// Tags returns the tags of the i-th captured error
func (t *Tracker) Tags(i int) map[string]string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if i < 0 || i >= len(t.tags) {
		return nil
	}
	return t.tags[i]
}

// Messages returns captured messages prefixed by their level
func (t *Tracker) Messages() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.messages...)
}

func copyTags(tags map[string]string) map[string]string {
	out := make(map[string]string, len(tags))
	for k, v := range tags {
		out[k] = v
	}
	return out
}
