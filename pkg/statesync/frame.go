// Package statesync mirrors simulation state as plain data for remote
// observers: snapshot frames, their msgpack codec and the sinks that carry
// them out of the process.
package statesync

import (
	"errors"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/Navot-Ram/starwards/pkg/ship"
	"github.com/Navot-Ram/starwards/pkg/space"
)

// Frame is everything an observer needs to draw one tick.
type Frame struct {
	Tick    uint64           `msgpack:"tick"`
	Seconds float64          `msgpack:"seconds"`
	Ships   []ShipSnapshot   `msgpack:"ships"`
	Objects []ObjectSnapshot `msgpack:"objects"`
}

// ObjectSnapshot is the synchronized part of a space object.
type ObjectSnapshot struct {
	ID     string  `msgpack:"id"`
	Kind   string  `msgpack:"kind"`
	X      float64 `msgpack:"x"`
	Y      float64 `msgpack:"y"`
	VX     float64 `msgpack:"vx"`
	VY     float64 `msgpack:"vy"`
	Angle  float64 `msgpack:"angle"`
	Radius float64 `msgpack:"radius"`
	Health float64 `msgpack:"health"`
}

// ShipSnapshot is the synchronized part of a ship's subsystem state.
type ShipSnapshot struct {
	ID              string    `msgpack:"id"`
	Model           string    `msgpack:"model"`
	Faction         string    `msgpack:"faction"`
	Energy          float64   `msgpack:"energy"`
	AfterBurnerFuel float64   `msgpack:"afterBurnerFuel"`
	AfterBurner     float64   `msgpack:"afterBurner"`
	Rotation        float64   `msgpack:"rotation"`
	Boost           float64   `msgpack:"boost"`
	Strafe          float64   `msgpack:"strafe"`
	ChainGunAmmo    int       `msgpack:"chainGunAmmo"`
	ChainGunFiring  bool      `msgpack:"chainGunFiring"`
	ShellRange      float64   `msgpack:"shellRange"`
	RadarRange      float64   `msgpack:"radarRange"`
	Plates          []float64 `msgpack:"plates"`
	TargetID        string    `msgpack:"targetId,omitempty"`
	TargetedStatus  string    `msgpack:"targetedStatus"`
	ManeuveringMode string    `msgpack:"maneuveringMode"`
	RotationMode    string    `msgpack:"rotationMode"`
	Broken          []string  `msgpack:"broken,omitempty"`
	Destroyed       bool      `msgpack:"destroyed"`
}

// SnapshotObject copies an object's synchronized fields.
func SnapshotObject(o *space.Object) ObjectSnapshot {
	return ObjectSnapshot{
		ID:     o.ID,
		Kind:   o.Kind.String(),
		X:      o.Position.X,
		Y:      o.Position.Y,
		VX:     o.Velocity.X,
		VY:     o.Velocity.Y,
		Angle:  o.Angle,
		Radius: o.Radius,
		Health: o.Health,
	}
}

// SnapshotShip copies a ship manager's synchronized fields.
func SnapshotShip(m *ship.Manager) ShipSnapshot {
	s := m.State()
	plates := make([]float64, len(s.Armor.Plates))
	for i, p := range s.Armor.Plates {
		plates[i] = p.Health
	}
	return ShipSnapshot{
		ID:              s.ID,
		Model:           s.ModelName,
		Faction:         s.Faction,
		Energy:          s.Reactor.Energy,
		AfterBurnerFuel: s.Reactor.AfterBurnerFuel,
		AfterBurner:     s.AfterBurner,
		Rotation:        s.Rotation,
		Boost:           s.Boost,
		Strafe:          s.Strafe,
		ChainGunAmmo:    s.ChainGunAmmo,
		ChainGunFiring:  s.ChainGun.IsFiring,
		ShellRange:      s.ChainGun.ShellRange,
		RadarRange:      s.RadarRange,
		Plates:          plates,
		TargetID:        s.TargetID,
		TargetedStatus:  s.TargetedStatus.String(),
		ManeuveringMode: s.SmartPilot.ManeuveringMode.String(),
		RotationMode:    s.SmartPilot.RotationMode.String(),
		Broken:          brokenSystems(s),
		Destroyed:       m.Destroyed(),
	}
}

func brokenSystems(s *ship.State) []string {
	var broken []string
	if s.ChainGun.Broken() {
		broken = append(broken, "chainGun")
	}
	if s.Radar.Broken() {
		broken = append(broken, "radar")
	}
	if s.Reactor.Broken() {
		broken = append(broken, "reactor")
	}
	if s.SmartPilot.Broken() {
		broken = append(broken, "smartPilot")
	}
	for i, t := range s.Thrusters {
		if t.Broken() {
			broken = append(broken, fmt.Sprintf("thruster%d", i))
		}
	}
	return broken
}

// BuildFrame snapshots the registry objects and ship managers in order.
func BuildFrame(tick uint64, seconds float64, objects []*space.Object, ships []*ship.Manager) *Frame {
	f := &Frame{
		Tick:    tick,
		Seconds: seconds,
		Ships:   make([]ShipSnapshot, 0, len(ships)),
		Objects: make([]ObjectSnapshot, 0, len(objects)),
	}
	for _, o := range objects {
		f.Objects = append(f.Objects, SnapshotObject(o))
	}
	for _, m := range ships {
		f.Ships = append(f.Ships, SnapshotShip(m))
	}
	return f
}

// Encode serializes a frame with msgpack.
func Encode(f *Frame) ([]byte, error) {
	data, err := msgpack.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("encode frame %d: %w", f.Tick, err)
	}
	return data, nil
}

// Decode parses a frame produced by Encode.
func Decode(data []byte) (*Frame, error) {
	var f Frame
	if err := msgpack.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode frame: %w", err)
	}
	return &f, nil
}

// ReadFrames decodes a stream of frames written back to back, as a
// WriterSink produces them.
func ReadFrames(r io.Reader) ([]*Frame, error) {
	dec := msgpack.NewDecoder(r)
	var frames []*Frame
	for {
		var f Frame
		err := dec.Decode(&f)
		if errors.Is(err, io.EOF) {
			return frames, nil
		}
		if err != nil {
			return frames, fmt.Errorf("decode frame %d: %w", len(frames), err)
		}
		frames = append(frames, &f)
	}
}
