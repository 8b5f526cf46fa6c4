package engine

import (
	"github.com/EngoEngine/ecs"

	"github.com/Navot-Ram/starwards/pkg/ship"
)

// World priorities. Higher runs first: space always moves before ships react.
const (
	spacePriority = 10
	fleetPriority = 0
)

// spaceSystem advances the registry.
type spaceSystem struct {
	sim *Simulation
}

// Update ignores the world's float32 delta and uses the exact step.
func (s *spaceSystem) Update(float32) {
	s.sim.registry.Update(s.sim.step)
}

// Remove satisfies the ecs.System interface
func (s *spaceSystem) Remove(ecs.BasicEntity) {}

// Priority satisfies ecs.Prioritizer
func (s *spaceSystem) Priority() int { return spacePriority }

type fleetEntry struct {
	basic   ecs.BasicEntity
	manager *ship.Manager
}

// fleetSystem runs every ship manager in insertion order.
type fleetSystem struct {
	sim     *Simulation
	entries []fleetEntry
}

// Add registers a ship manager under its object's entity.
func (f *fleetSystem) Add(basic *ecs.BasicEntity, m *ship.Manager) {
	f.entries = append(f.entries, fleetEntry{basic: *basic, manager: m})
}

// Remove drops the manager of a removed ship.
func (f *fleetSystem) Remove(basic ecs.BasicEntity) {
	for i, e := range f.entries {
		if e.basic.ID() == basic.ID() {
			f.entries = append(f.entries[:i], f.entries[i+1:]...)
			return
		}
	}
}

// Priority satisfies ecs.Prioritizer
func (f *fleetSystem) Priority() int { return fleetPriority }

// entity finds the entity of a managed ship by its ecs id.
func (f *fleetSystem) entity(basicID uint64) (ecs.BasicEntity, bool) {
	for _, e := range f.entries {
		if e.basic.ID() == basicID {
			return e.basic, true
		}
	}
	return ecs.BasicEntity{}, false
}

func (f *fleetSystem) managers() []*ship.Manager {
	out := make([]*ship.Manager, len(f.entries))
	for i, e := range f.entries {
		out[i] = e.manager
	}
	return out
}

// Update ticks every ship against the targeting picture taken before any of
// them moved. A failing ship is logged and skipped.
func (f *fleetSystem) Update(float32) {
	fleet := make(ship.Fleet, 0, len(f.entries))
	for _, e := range f.entries {
		fleet = append(fleet, e.manager.Targeting())
	}
	for _, e := range f.entries {
		if err := e.manager.Update(f.sim.step, fleet); err != nil {
			f.sim.logger.Error(f.sim.ctx, "ship tick failed", err,
				"ship_id", e.manager.ID(),
				"tick", f.sim.registry.Tick(),
			)
		}
	}
}
