package bot

import (
	"github.com/Navot-Ram/starwards/pkg/physics"
	"github.com/Navot-Ram/starwards/pkg/ship"
	"github.com/Navot-Ram/starwards/pkg/space"
)

// interceptIterations bounds the fixed-point search for the intercept time.
const interceptIterations = 8

// Hit is a predicted shell intercept.
type Hit struct {
	// Location is where the target will be when the shell arrives.
	Location physics.Vector2D
	// AimPoint is where to point the gun, compensating for the shooter's
	// own velocity which the shell inherits.
	AimPoint physics.Vector2D
	// Seconds is the shell flight time.
	Seconds float64
	// Travel is the distance the shell covers relative to the shooter.
	Travel float64
}

// PredictHitLocation solves for the point where a shell fired now meets a
// target moving with constant acceleration.
func PredictHitLocation(s *ship.State, target *space.Object, targetAccel physics.Vector2D) Hit {
	offset := target.Position.Sub(s.Position)
	relVelocity := target.Velocity.Sub(s.Velocity)
	speed := s.ChainGun.BulletSpeed
	if speed <= 0 {
		return Hit{Location: target.Position, AimPoint: target.Position, Travel: offset.Length()}
	}

	t := offset.Length() / speed
	aim := offset
	for i := 0; i < interceptIterations; i++ {
		aim = offset.Add(relVelocity.Scale(t)).Add(targetAccel.Scale(0.5 * t * t))
		t = aim.Length() / speed
	}
	location := target.Position.Add(target.Velocity.Scale(t)).Add(targetAccel.Scale(0.5 * t * t))
	return Hit{
		Location: location,
		AimPoint: location.Add(ShellAimVelocityCompensation(s, t)),
		Seconds:  t,
		Travel:   aim.Length(),
	}
}

// ShellAimVelocityCompensation is the aim correction for a shell that
// inherits the shooter's velocity over a flight of seconds.
func ShellAimVelocityCompensation(s *ship.State, seconds float64) physics.Vector2D {
	return s.Velocity.Scale(-seconds)
}

// KillZone is the distance band in which shells can be timed to burst on target.
func KillZone(s *ship.State) physics.Range {
	g := s.ChainGun
	return physics.Range{Min: g.MinShellRange, Max: (g.MinShellRange + g.MaxShellRange) / 2}
}

// TargetInKillZone reports whether target currently sits in the kill zone.
func TargetInKillZone(s *ship.State, target *space.Object) bool {
	return KillZone(s).Contains(target.Position.Distance(s.Position))
}
