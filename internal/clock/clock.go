// Package clock provides an injectable time source so services can be
// tested against a fixed or advancing "now".
package clock

import "time"

type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func NewRealClock() Clock { return &RealClock{} }

func (c *RealClock) Now() time.Time { return time.Now() }

// MockClock returns a controllable time for tests.
type MockClock struct {
	currentTime time.Time
}

func NewMockClock(t time.Time) *MockClock { return &MockClock{currentTime: t} }

func (c *MockClock) Now() time.Time { return c.currentTime }

func (c *MockClock) Set(t time.Time) { c.currentTime = t }

func (c *MockClock) Add(d time.Duration) { c.currentTime = c.currentTime.Add(d) }
