package ship

import (
	"fmt"
	"strconv"

	"github.com/Navot-Ram/starwards/pkg/die"
	"github.com/Navot-Ram/starwards/pkg/event"
	"github.com/Navot-Ram/starwards/pkg/physics"
	"github.com/Navot-Ram/starwards/pkg/space"
)

// shellSpawnClearance keeps a fresh shell clear of the firing hull.
const shellSpawnClearance = 2 * space.CannonShellRadius

func (m *Manager) updateChainGun(deltaSeconds float64, obj *space.Object) error {
	s := m.state
	g := &s.ChainGun
	if g.Cooldown > 0 {
		g.Cooldown -= deltaSeconds * g.BulletsPerSecond
	}
	if !g.IsFiring && g.Cooldown < 0 {
		g.Cooldown = 0
	}
	if !g.IsFiring || g.Cooldown > 0 || g.Broken() || s.ChainGunAmmo <= 0 {
		return nil
	}
	g.Cooldown += g.CooldownFactor
	s.ChainGunAmmo--
	return m.fireChainGun(obj)
}

// fireChainGun inserts a shell just outside the hull, spread around the gun's
// (possibly damaged) aim.
func (m *Manager) fireChainGun(obj *space.Object) error {
	s := m.state
	g := &s.ChainGun
	m.shots++

	aim := s.Angle + g.Angle + g.AngleOffset
	angle := die.Gaussian(m.die, "chainGunSpread"+strconv.FormatUint(m.shots, 10), aim, g.BulletDegreesDeviation)
	offset := obj.Radius + space.CannonShellRadius + physics.Epsilon + shellSpawnClearance
	position := obj.Position.Add(physics.FromAngle(angle, offset))
	velocity := obj.Velocity.Add(physics.FromAngle(angle, g.BulletSpeed))

	shell := space.NewCannonShell(s.ID, position, velocity, angle, g.ShellSecondsToLive, &space.ExplosionTemplate{
		SecondsToLive:  g.ExplosionSecondsToLive,
		ExpansionSpeed: g.ExplosionExpansionSpeed,
		DamageFactor:   g.ExplosionDamageFactor,
		BlastFactor:    g.ExplosionBlastFactor,
	})
	if err := m.space.Insert(shell); err != nil {
		return fmt.Errorf("fire %s: %w", s.ID, err)
	}
	m.bus.Publish(event.NewShipEvent(event.ProjectileFired, m, s.ID, s.Faction, shell.ID))
	return nil
}

// AimShellRange sets the shell range command so that shells burst after
// travelling distance, as far as the range band allows.
func (m *Manager) AimShellRange(distance float64) {
	limits := m.state.ChainGun.ShellRangeLimits()
	aimRange := limits.Size() / 2
	if aimRange <= 0 {
		return
	}
	base, err := m.shellRangeBase()
	if err != nil {
		return
	}
	m.SetShellRangeCommand((limits.Clamp(distance) - base) / aimRange)
}
