// Package hostio simulates the Clock and GPIO collaborators (§6) well
// enough to run the core on a workstation standing in for the
// microcontroller target.
package hostio

import "time"

// Clock is a wall-clock Clock measuring milliseconds elapsed since it was
// constructed, standing in for the target's free-running millisecond
// counter.
type Clock struct {
	start time.Time
}

// NewClock starts a new Clock at the current instant.
func NewClock() *Clock { return &Clock{start: time.Now()} }

// Millis returns milliseconds elapsed since NewClock, wrapping at 2^32 the
// same as the original's unsigned millisecond counter.
func (c *Clock) Millis() uint32 { return uint32(time.Since(c.start).Milliseconds()) }
