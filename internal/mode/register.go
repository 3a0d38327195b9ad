// Package mode holds the process-wide filter mode shared between the command
// path and the frame path.
package mode

import (
	"sync"

	"github.com/zsiec/tint/internal/filter"
)

// Reader is the read side of the register. The frame path and the overlay
// only need this.
type Reader interface {
	Get() filter.Mode
}

// Writer is the write side of the register used by command transports.
type Writer interface {
	Set(m filter.Mode)
}

// Register is a single mutex-guarded cell holding the active filter mode.
// The zero value holds filter.None and is ready to use.
//
// The lock is held only for the copy in or out, never across filtering or I/O.
type Register struct {
	mu   sync.Mutex
	mode filter.Mode
}

// NewRegister returns a register initialised to filter.None.
func NewRegister() *Register {
	return &Register{mode: filter.None}
}

// Set replaces the current mode. Every Get that starts after Set returns
// observes m or a later value.
func (r *Register) Set(m filter.Mode) {
	r.mu.Lock()
	r.mode = m
	r.mu.Unlock()
}

// Get returns the most recently committed mode.
func (r *Register) Get() filter.Mode {
	r.mu.Lock()
	m := r.mode
	r.mu.Unlock()
	return m
}
