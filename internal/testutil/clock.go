package testutil

import (
	"fmt"
	"sync"
	"time"

	"docflow/internal/docflow"
)

// StubClock is a manually driven docflow.Clock. Safe for concurrent use.
type StubClock struct {
	mu   sync.Mutex
	now  time.Time
	step time.Duration
}

var _ docflow.Clock = (*StubClock)(nil)

// NewStubClock returns a clock frozen at start.
func NewStubClock(start time.Time) *StubClock {
	return &StubClock{now: start}
}

// NewTickingClock returns a clock that moves forward by step after every
// reading, so each timestamp it hands out is distinct.
func NewTickingClock(start time.Time, step time.Duration) *StubClock {
	return &StubClock{now: start, step: step}
}

// FixedClock returns a frozen clock at 2024-01-15 10:30:00 UTC.
func FixedClock() *StubClock {
	return NewStubClock(time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC))
}

func (c *StubClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.now
	c.now = c.now.Add(c.step)
	return t
}

// Advance moves the clock forward by d.
func (c *StubClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// StubIDGenerator issues sequential IDs "<prefix>-1", "<prefix>-2", ...
type StubIDGenerator struct {
	mu     sync.Mutex
	prefix string
	issued int
}

var _ docflow.IDGenerator = (*StubIDGenerator)(nil)

// NewStubIDGenerator issues "id-1", "id-2", ...
func NewStubIDGenerator() *StubIDGenerator {
	return NewPrefixedIDGenerator("id")
}

func NewPrefixedIDGenerator(prefix string) *StubIDGenerator {
	return &StubIDGenerator{prefix: prefix}
}

func (g *StubIDGenerator) New() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.issued++
	return fmt.Sprintf("%s-%d", g.prefix, g.issued)
}

// Issued returns how many IDs have been handed out.
func (g *StubIDGenerator) Issued() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.issued
}
