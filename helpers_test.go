package mdview

import (
	"context"
	"sync"
)

// recordingClipboard records every write and fails with err when set.
type recordingClipboard struct {
	mu     sync.Mutex
	writes []string
	err    error
	panics bool
}

func (c *recordingClipboard) WriteText(_ context.Context, text string) error {
	if c.panics {
		panic("clipboard exploded")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.writes = append(c.writes, text)
	return nil
}

func (c *recordingClipboard) Writes() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.writes...)
}

// copyRecord is one observed copy.
type copyRecord struct {
	Code     string
	Language string
}

type copyRecorder struct {
	mu     sync.Mutex
	copies []copyRecord
}

func (r *copyRecorder) observe(code, language string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.copies = append(r.copies, copyRecord{Code: code, Language: language})
}

func (r *copyRecorder) Copies() []copyRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]copyRecord(nil), r.copies...)
}
