// Package bot contains automatic pilots that fly a ship by writing its
// commands every tick.
package bot

import (
	"fmt"
	"sort"

	"github.com/Navot-Ram/starwards/pkg/physics"
	"github.com/Navot-Ram/starwards/pkg/ship"
	"github.com/Navot-Ram/starwards/pkg/space"
)

// defaultDeltaSeconds seeds the smoothed tick length.
const defaultDeltaSeconds = 1.0 / 20

// strategy flies the ship against a resolved target.
type strategy func(deltaSeconds float64, m *ship.Manager, target *space.Object, lastTargetVelocity physics.Vector2D)

// attack wraps a strategy with target lookup, dt smoothing and trigger control.
func attack(st strategy) ship.Bot {
	lastTargetVelocity := physics.Vector2D{}
	deltaSeconds := defaultDeltaSeconds
	return func(current float64, sp space.Reader, m *ship.Manager) {
		deltaSeconds = deltaSeconds*0.8 + current*0.2
		takeControls(m)

		target, ok := targetOf(sp, m)
		if !ok {
			lastTargetVelocity = physics.Vector2D{}
			m.ChainGun(false)
			return
		}
		st(deltaSeconds, m, target, lastTargetVelocity)
		lastTargetVelocity = target.Velocity
		m.ChainGun(TargetInKillZone(m.State(), target))
	}
}

// takeControls puts the pilot in DIRECT so the bot's outputs pass through.
func takeControls(m *ship.Manager) {
	m.ManeuveringModes().TransitionTo(ship.ModeDirect)
	m.RotationModes().TransitionTo(ship.ModeDirect)
}

func targetOf(sp space.Reader, m *ship.Manager) (*space.Object, bool) {
	id := m.State().TargetID
	if id == "" {
		return nil, false
	}
	return sp.Get(id)
}

type engagement struct {
	hit      Hit
	zone     physics.Range
	distance float64
}

// engage aims the gun at the predicted intercept and times the shell burst.
func engage(deltaSeconds float64, m *ship.Manager, target *space.Object, lastTargetVelocity physics.Vector2D) engagement {
	s := m.State()
	accel := target.Velocity.Sub(lastTargetVelocity).Scale(1 / deltaSeconds)
	hit := PredictHitLocation(s, target, accel)
	m.SetRotationCommand(ship.RotateToTarget(deltaSeconds, s, hit.AimPoint, 0))
	m.AimShellRange(hit.Travel)
	return engagement{
		hit:      hit,
		zone:     KillZone(s),
		distance: hit.Location.Distance(s.Position),
	}
}

func steer(m *ship.Manager, out ship.Maneuvering) {
	m.SetBoostCommand(out.Boost)
	m.SetStrafeCommand(out.Strafe)
}

// Jouster closes to the kill zone around the intercept point, matches the
// target's velocity inside it and backs off when too close.
func Jouster() ship.Bot {
	return attack(func(deltaSeconds float64, m *ship.Manager, target *space.Object, lastTargetVelocity physics.Vector2D) {
		s := m.State()
		e := engage(deltaSeconds, m, target, lastTargetVelocity)
		if e.zone.Contains(e.distance) {
			steer(m, ship.MatchGlobalSpeed(deltaSeconds, s, target.Velocity))
			return
		}
		out := ship.MoveToTarget(deltaSeconds, s, e.hit.Location)
		if e.distance > e.zone.Max {
			steer(m, out)
			return
		}
		steer(m, ship.Maneuvering{Boost: -out.Boost, Strafe: -out.Strafe})
	})
}

// JousterFlanker jousts from the target's beam instead of its stern.
func JousterFlanker() ship.Bot {
	return attack(func(deltaSeconds float64, m *ship.Manager, target *space.Object, lastTargetVelocity physics.Vector2D) {
		s := m.State()
		e := engage(deltaSeconds, m, target, lastTargetVelocity)

		flank := physics.FromAngle(target.Angle+90, (e.zone.Min+e.zone.Max)/2)
		port, starboard := e.hit.Location.Add(flank), e.hit.Location.Sub(flank)
		position := starboard
		if s.Position.Distance(port) > s.Position.Distance(starboard) {
			position = port
		}
		out := ship.MoveToTarget(deltaSeconds, s, position)
		if e.distance > e.zone.Max {
			match := ship.MatchGlobalSpeed(deltaSeconds, s, target.Velocity)
			steer(m, ship.Maneuvering{
				Boost:  (match.Boost + out.Boost) / 2,
				Strafe: (match.Strafe + out.Strafe) / 2,
			})
			return
		}
		steer(m, ship.Maneuvering{Boost: -out.Boost, Strafe: -out.Strafe})
	})
}

// arrivalRadius is how close P2PGoto must get before it stops steering.
const arrivalRadius = 10

// P2PGoto flies to destination and holds there.
func P2PGoto(destination physics.Vector2D) ship.Bot {
	return func(deltaSeconds float64, _ space.Reader, m *ship.Manager) {
		takeControls(m)
		m.ChainGun(false)
		s := m.State()
		if s.Position.Distance(destination) < arrivalRadius {
			steer(m, ship.MatchGlobalSpeed(deltaSeconds, s, physics.Vector2D{}))
			m.SetRotationCommand(ship.RotationFromTargetTurnSpeed(deltaSeconds, s, 0))
			return
		}
		m.SetRotationCommand(ship.RotateToTarget(deltaSeconds, s, destination, 0))
		steer(m, ship.MoveToTarget(deltaSeconds, s, destination))
	}
}

// FromOrder builds the bot that carries out an order. It satisfies ship.BotFactory.
func FromOrder(order space.Order) ship.Bot {
	switch order.Kind {
	case space.OrderMove:
		return P2PGoto(order.Position)
	case space.OrderAttack:
		return Jouster()
	}
	return nil
}

var named = map[string]func() ship.Bot{
	"jouster":        Jouster,
	"jousterFlanker": JousterFlanker,
}

// ByName returns a constructor for a named attack bot.
func ByName(name string) (func() ship.Bot, error) {
	build, ok := named[name]
	if !ok {
		return nil, fmt.Errorf("unknown bot %q (known: %v)", name, Names())
	}
	return build, nil
}

// Names lists the named attack bots.
func Names() []string {
	names := make([]string, 0, len(named))
	for n := range named {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
