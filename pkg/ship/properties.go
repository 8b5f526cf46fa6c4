package ship

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/Navot-Ram/starwards/pkg/physics"
)

var (
	// ErrUnknownProperty is returned for names a ship does not expose.
	ErrUnknownProperty = errors.New("unknown ship property")
	// ErrInvalidValue is returned for NaN or infinite writes.
	ErrInvalidValue = errors.New("invalid property value")
	// ErrReadOnly is returned when writing a status property.
	ErrReadOnly = errors.New("read-only property")
)

// NumericProperty is a number with a declared, possibly state-dependent, range.
type NumericProperty struct {
	name  string
	rng   func() physics.Range
	get   func() float64
	write func(float64)
}

// Name returns the property name.
func (p *NumericProperty) Name() string { return p.name }

// Range returns the current valid range.
func (p *NumericProperty) Range() physics.Range { return p.rng() }

// Value returns the current value.
func (p *NumericProperty) Value() float64 { return p.get() }

// Set clamps v into range and writes it. Writing the current value is a no-op.
func (p *NumericProperty) Set(v float64) error {
	if p.write == nil {
		return fmt.Errorf("%s: %w", p.name, ErrReadOnly)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%s: %w: %v", p.name, ErrInvalidValue, v)
	}
	v = p.rng().Clamp(v)
	if v == p.get() {
		return nil
	}
	p.write(v)
	return nil
}

// TriggerProperty is an on/off command.
type TriggerProperty struct {
	name  string
	get   func() bool
	write func(bool)
}

// Name returns the property name.
func (p *TriggerProperty) Name() string { return p.name }

// Value returns the current state.
func (p *TriggerProperty) Value() bool { return p.get() }

// Set writes v. Writing the current state is a no-op.
func (p *TriggerProperty) Set(v bool) {
	if v == p.get() {
		return
	}
	p.write(v)
}

// Properties is the named command and status surface of one ship.
type Properties struct {
	numeric  map[string]*NumericProperty
	triggers map[string]*TriggerProperty
}

// Numeric looks up a numeric property.
func (p *Properties) Numeric(name string) (*NumericProperty, error) {
	prop, ok := p.numeric[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProperty, name)
	}
	return prop, nil
}

// Trigger looks up a trigger property.
func (p *Properties) Trigger(name string) (*TriggerProperty, error) {
	prop, ok := p.triggers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProperty, name)
	}
	return prop, nil
}

// Names lists every property, sorted.
func (p *Properties) Names() []string {
	names := make([]string, 0, len(p.numeric)+len(p.triggers))
	for n := range p.numeric {
		names = append(names, n)
	}
	for n := range p.triggers {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func fixed(min, max float64) func() physics.Range {
	return func() physics.Range { return physics.Range{Min: min, Max: max} }
}

// Properties builds the property surface for the ship.
func (m *Manager) Properties() *Properties {
	s := m.state
	stick := fixed(-1, 1)
	normal := fixed(0, 1)
	numeric := []*NumericProperty{
		{name: "rotationCommand", rng: stick, get: func() float64 { return s.SmartPilot.Rotation }, write: m.SetRotationCommand},
		{name: "boostCommand", rng: stick, get: func() float64 { return s.SmartPilot.Maneuvering.X }, write: m.SetBoostCommand},
		{name: "strafeCommand", rng: stick, get: func() float64 { return s.SmartPilot.Maneuvering.Y }, write: m.SetStrafeCommand},
		{name: "shellRangeCommand", rng: stick, get: func() float64 { return s.ChainGun.ShellRange }, write: m.SetShellRangeCommand},
		{name: "antidrift", rng: normal, get: func() float64 { return s.Antidrift }, write: m.SetAntidrift},
		{name: "breaks", rng: normal, get: func() float64 { return s.Breaks }, write: m.SetBreaks},
		{name: "afterBurnerCommand", rng: normal, get: func() float64 { return s.AfterBurnerCommand }, write: m.SetAfterBurnerCommand},
		{
			name: "energy",
			rng:  func() physics.Range { return physics.Range{Max: s.Reactor.MaxEnergy} },
			get:  func() float64 { return s.Reactor.Energy },
		},
		{
			name: "afterBurnerFuel",
			rng:  func() physics.Range { return physics.Range{Max: s.Reactor.MaxAfterBurnerFuel} },
			get:  func() float64 { return s.Reactor.AfterBurnerFuel },
		},
		{
			name: "chainGunAmmo",
			rng:  func() physics.Range { return physics.Range{Max: float64(s.MaxChainGunAmmo)} },
			get:  func() float64 { return float64(s.ChainGunAmmo) },
		},
	}
	triggers := []*TriggerProperty{
		{name: "chainGunIsFiring", get: func() bool { return s.ChainGun.IsFiring }, write: m.ChainGun},
		{name: "rotationModeToggle", get: func() bool { return m.toggleRotation }, write: func(v bool) { m.toggleRotation = v }},
		{name: "maneuveringModeToggle", get: func() bool { return m.toggleManeuvering }, write: func(v bool) { m.toggleManeuvering = v }},
		{name: "nextTargetCommand", get: func() bool { return m.nextTarget }, write: func(v bool) { m.nextTarget = v }},
		{name: "clearTargetCommand", get: func() bool { return m.clearTarget }, write: func(v bool) { m.clearTarget = v }},
	}

	p := &Properties{
		numeric:  make(map[string]*NumericProperty, len(numeric)),
		triggers: make(map[string]*TriggerProperty, len(triggers)),
	}
	for _, n := range numeric {
		p.numeric[n.name] = n
	}
	for _, t := range triggers {
		p.triggers[t.name] = t
	}
	return p
}
