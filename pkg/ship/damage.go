package ship

import (
	"math"
	"strconv"

	"github.com/Navot-Ram/starwards/pkg/die"
	"github.com/Navot-Ram/starwards/pkg/event"
	"github.com/Navot-Ram/starwards/pkg/physics"
	"github.com/Navot-Ram/starwards/pkg/space"
)

// Armor damage multiplier per plate, drawn from N(mean, stdDev).
const (
	armorDamageMean   = 20.0
	armorDamageStdDev = 4.0
)

// damageable is a subsystem the damage model can degrade.
type damageable interface {
	Broken() bool
	damage50() float64
	degrade(d die.Die, id string)
	name() string
}

// handleDamage resolves every damage event queued for the ship this tick.
func (m *Manager) handleDamage() {
	for _, d := range m.space.ResolveObjectDamage(m.state.ID) {
		m.applyDamage(d)
	}
}

func (m *Manager) applyDamage(d space.Damage) {
	for _, area := range Areas {
		clipped, ok := area.Arc().Intersection(d.Arc)
		if !ok {
			continue
		}
		plates := m.state.Armor.NumberOfPlatesInArc(area.Arc())
		broken := m.state.Armor.BrokenPlatesInArc(clipped)
		if broken > 0 && plates > 0 {
			fraction := float64(broken) / float64(plates)
			for _, sys := range m.systemsIn(area) {
				m.damageSystem(sys, d, fraction)
			}
		}
		m.damageArmor(d, clipped)
	}
}

// damageArmor lowers every plate in arc by amount times a Gaussian multiplier.
func (m *Manager) damageArmor(d space.Damage, arc physics.Arc) {
	armor := &m.state.Armor
	for _, i := range armor.PlateIndexesInArc(arc) {
		plate := &armor.Plates[i]
		if plate.Health <= 0 {
			continue
		}
		factor := die.Gaussian(m.die, d.ID+"armorPlate"+strconv.Itoa(i), armorDamageMean, armorDamageStdDev)
		plate.Health = physics.Clamp(plate.Health-d.Amount*factor, 0, armor.PlateMaxHealth)
	}
}

// damageSystem rolls against a normal CDF of the scaled damage. Every system
// hit by the same event shares one roll.
func (m *Manager) damageSystem(sys damageable, d space.Damage, fraction float64) {
	if sys.Broken() {
		return
	}
	d50 := sys.damage50()
	if d50 <= 0 {
		return
	}
	chance := die.NormalCDF(d.Amount*fraction, d50, d50/2)
	if m.die.Roll(d.ID+"damageSystem") >= chance {
		return
	}
	sys.degrade(m.die, d.ID)
	m.bus.Publish(event.NewShipEvent(event.SubsystemDamaged, m, m.state.ID, m.state.Faction, sys.name()))
}

func (m *Manager) systemsIn(area Area) []damageable {
	s := m.state
	switch area {
	case AreaFront:
		return []damageable{&s.ChainGun, &s.Radar, &s.SmartPilot}
	case AreaRear:
		out := make([]damageable, 0, len(s.Thrusters)+1)
		for i, t := range s.Thrusters {
			out = append(out, &thrusterSystem{Thruster: t, index: i})
		}
		return append(out, &s.Reactor)
	}
	return nil
}

// thrusterSystem gives each thruster a distinct roll namespace.
type thrusterSystem struct {
	*Thruster
	index int
}

func (t *thrusterSystem) name() string      { return "thruster" + strconv.Itoa(t.index) }
func (t *thrusterSystem) damage50() float64 { return t.Damage50 }

func (t *thrusterSystem) degrade(d die.Die, id string) {
	id += t.name()
	if d.Roll("damageThruster"+id) < 0.5 {
		offset := physics.LimitPrecision(d.RollInRange("thrusterAngleOffset"+id, 1, 3))
		sign := 1.0
		if d.Roll("thrusterAngleSign"+id) < 0.5 {
			sign = -1
		}
		t.AngleError = physics.Clamp(t.AngleError+sign*offset, -180, 180)
		return
	}
	loss := physics.LimitPrecision(d.RollInRange("availableCapacity"+id, 0.01, 0.1))
	t.AvailableCapacity = math.Max(0, t.AvailableCapacity-loss)
}

func (c *ChainGun) name() string      { return "chainGun" }
func (c *ChainGun) damage50() float64 { return c.Damage50 }

func (c *ChainGun) degrade(d die.Die, id string) {
	if d.Roll("damageChaingun"+id) < 0.5 {
		offset := physics.LimitPrecision(d.RollInRange("chainGunAngleOffset"+id, 1, 2))
		sign := 1.0
		if d.Roll("chainGunAngleSign"+id) < 0.5 {
			sign = -1
		}
		c.AngleOffset += sign * offset
		return
	}
	c.CooldownFactor++
}

func (r *Radar) name() string      { return "radar" }
func (r *Radar) damage50() float64 { return r.Damage50 }

func (r *Radar) degrade(die.Die, string) {
	r.MalfunctionRangeFactor += 0.05
}

func (p *SmartPilot) name() string      { return "smartPilot" }
func (p *SmartPilot) damage50() float64 { return p.Damage50 }

func (p *SmartPilot) degrade(die.Die, string) {
	p.OffsetFactor += 0.01
}

func (r *Reactor) name() string      { return "reactor" }
func (r *Reactor) damage50() float64 { return r.Damage50 }

func (r *Reactor) degrade(d die.Die, id string) {
	if d.Roll("damageReactor"+id) < 0.5 {
		r.Energy *= 0.9
		return
	}
	r.EfficiencyFactor = math.Max(0, r.EfficiencyFactor-0.05)
}
