// Package lifecycle tracks whether the application has been created, whether
// it is running and whether teardown has begun.
//
// The rendering goroutine owns the created flag. The running flag is also
// read and toggled by the application's control goroutine and is kept
// behind a mutex. The shutdown flag only ever goes from false to true.
package lifecycle

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
)

// ErrNotCreated reports a frame callback delivered before the surface was
// established. It indicates a broken host integration.
var ErrNotCreated = errors.New("frame callback before the application was created")

// FatalError is raised with panic for conditions that indicate a wiring or
// integration bug rather than a runtime failure.
type FatalError struct {
	Op  string
	Err error
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *FatalError) Unwrap() error { return e.Err }

// State is derived from the flags.
type State int

const (
	Uninitialized State = iota
	Created
	Running
	ShuttingDown
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Created:
		return "created"
	case Running:
		return "running"
	case ShuttingDown:
		return "shutting down"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

type Machine struct {
	mu sync.Mutex
	// created is written under mu by the rendering goroutine, which may
	// read it without locking.
	created bool
	running bool

	shuttingDown atomic.Bool
}

// Establish runs create the first time it is called, then marks the
// machine running. It reports whether create ran.
func (m *Machine) Establish(create func()) bool {
	if m.created {
		return false
	}
	if create != nil {
		create()
	}
	m.mu.Lock()
	m.created = true
	m.running = true
	m.mu.Unlock()
	return true
}

func (m *Machine) Created() bool {
	return m.created
}

// RequireCreated panics with a *FatalError wrapping ErrNotCreated when the
// machine has not been established yet.
func (m *Machine) RequireCreated(op string) {
	if !m.created {
		panic(&FatalError{Op: op, Err: ErrNotCreated})
	}
}

// Running reports whether frames should keep being scheduled. Safe for
// concurrent use.
func (m *Machine) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

// Pause stops frame scheduling until Resume. It has no effect before the
// machine is established or once shutdown began.
func (m *Machine) Pause() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.running {
		return false
	}
	m.running = false
	return true
}

// Resume restarts frame scheduling after Pause.
func (m *Machine) Resume() bool {
	if m.shuttingDown.Load() {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running || !m.created {
		return false
	}
	m.running = true
	return true
}

// Shutdown begins teardown. It reports true only for the call that made
// the transition.
func (m *Machine) Shutdown() bool {
	if !m.shuttingDown.CompareAndSwap(false, true) {
		return false
	}
	m.mu.Lock()
	m.running = false
	m.mu.Unlock()
	return true
}

func (m *Machine) ShuttingDown() bool {
	return m.shuttingDown.Load()
}

func (m *Machine) State() State {
	if m.shuttingDown.Load() {
		return ShuttingDown
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	switch {
	case m.running:
		return Running
	case m.created:
		return Created
	default:
		return Uninitialized
	}
}
