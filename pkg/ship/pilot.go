package ship

import (
	"errors"
	"fmt"
)

// Mode is how the smart pilot interprets a raw command.
type Mode int

const (
	// ModeDirect passes commands straight to the outputs.
	ModeDirect Mode = iota
	// ModeVelocity reads commands as a desired velocity or turn speed.
	ModeVelocity
	// ModeTarget reads commands relative to the current target.
	ModeTarget
)

// ErrUnknownMode is returned when a mode value has no interpretation.
var ErrUnknownMode = errors.New("unknown smart pilot mode")

func (m Mode) String() string {
	switch m {
	case ModeDirect:
		return "DIRECT"
	case ModeVelocity:
		return "VELOCITY"
	case ModeTarget:
		return "TARGET"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

func unknownMode(kind string, m Mode) error {
	return fmt.Errorf("%s: %w: %v", kind, ErrUnknownMode, m)
}

// ModeMachine cycles a mode field through a fixed list, skipping modes
// marked illegal.
type ModeMachine struct {
	cycle    []Mode
	fallback Mode
	illegal  map[Mode]bool
	get      func() Mode
	set      func(Mode)
}

// NewModeMachine builds a machine over the field behind get and set. set is
// only called when the mode actually changes.
func NewModeMachine(cycle []Mode, fallback Mode, get func() Mode, set func(Mode)) *ModeMachine {
	return &ModeMachine{
		cycle:    cycle,
		fallback: fallback,
		illegal:  make(map[Mode]bool),
		get:      get,
		set:      set,
	}
}

// Current returns the active mode.
func (mm *ModeMachine) Current() Mode {
	return mm.get()
}

// IsLegal reports whether mode may be entered.
func (mm *ModeMachine) IsLegal(mode Mode) bool {
	return !mm.illegal[mode]
}

// SetLegal marks mode (il)legal. Making the active mode illegal drops to the fallback.
func (mm *ModeMachine) SetLegal(mode Mode, legal bool) {
	if legal {
		delete(mm.illegal, mode)
		return
	}
	mm.illegal[mode] = true
	if mm.get() == mode {
		mm.TransitionTo(mm.fallback)
	}
}

// TransitionTo enters mode if it is legal and reports whether the machine is now in it.
func (mm *ModeMachine) TransitionTo(mode Mode) bool {
	if mm.get() == mode {
		return true
	}
	if !mm.IsLegal(mode) {
		return false
	}
	mm.set(mode)
	return true
}

// Toggle advances to the next legal mode in the cycle.
func (mm *ModeMachine) Toggle() {
	current := mm.get()
	idx := -1
	for i, m := range mm.cycle {
		if m == current {
			idx = i
			break
		}
	}
	for step := 1; step <= len(mm.cycle); step++ {
		next := mm.cycle[(idx+step)%len(mm.cycle)]
		if mm.IsLegal(next) {
			mm.TransitionTo(next)
			return
		}
	}
}
