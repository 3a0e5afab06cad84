package canvas

import (
	"sync"
	"time"
)

// IDSource hands out image identifiers
type IDSource interface {
	NextID() int64
}

// ClockIDs produces millisecond-clock ids that never repeat.
// Two placements in the same millisecond get consecutive ids.
type ClockIDs struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

// NewClockIDs creates an id source backed by the wall clock
func NewClockIDs() *ClockIDs {
	return &ClockIDs{now: time.Now}
}

// NextID returns max(last+1, now in ms)
func (c *ClockIDs) NextID() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.now().UnixMilli()
	if id <= c.last {
		id = c.last + 1
	}
	c.last = id
	return id
}
