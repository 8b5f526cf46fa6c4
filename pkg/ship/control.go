package ship

import (
	"math"

	"github.com/Navot-Ram/starwards/pkg/physics"
)

// Maneuvering is a (boost, strafe) output pair, each in [-1, 1].
type Maneuvering struct {
	Boost  float64
	Strafe float64
}

func axisCommand(deltaSeconds, delta, forwardCapacity, backwardCapacity float64) float64 {
	if delta == 0 {
		return 0
	}
	capacity := forwardCapacity
	if delta < 0 {
		capacity = backwardCapacity
	}
	if capacity*deltaSeconds <= 0 {
		return physics.Sign(delta)
	}
	return physics.Clamp(delta/(capacity*deltaSeconds), -1, 1)
}

// MatchLocalSpeed returns the outputs that move the ship toward a
// ship-local velocity as fast as its thrusters allow.
func MatchLocalSpeed(deltaSeconds float64, s *State, local physics.Vector2D) Maneuvering {
	diff := local.Sub(s.GlobalToLocal(s.Velocity))
	return Maneuvering{
		Boost:  axisCommand(deltaSeconds, diff.X, s.VelocityCapacity(0), s.VelocityCapacity(180)),
		Strafe: axisCommand(deltaSeconds, diff.Y, s.VelocityCapacity(90), s.VelocityCapacity(270)),
	}
}

// MatchGlobalSpeed is MatchLocalSpeed for a global velocity.
func MatchGlobalSpeed(deltaSeconds float64, s *State, global physics.Vector2D) Maneuvering {
	return MatchLocalSpeed(deltaSeconds, s, s.GlobalToLocal(global))
}

// approachSpeed is the fastest speed along one axis from which the ship can
// still stop at distance, capped at maxSpeed.
func approachSpeed(distance, brakeCapacity, maxSpeed float64) float64 {
	speed := math.Min(physics.StoppingSpeed(math.Abs(distance), brakeCapacity), maxSpeed)
	return physics.Sign(distance) * speed
}

// MoveToTarget returns the outputs that bring the ship to rest at target.
func MoveToTarget(deltaSeconds float64, s *State, target physics.Vector2D) Maneuvering {
	offset := s.GlobalToLocal(target.Sub(s.Position))
	maxSpeed := s.MaxSpeed()
	brakeX := s.VelocityCapacity(180)
	if offset.X < 0 {
		brakeX = s.VelocityCapacity(0)
	}
	brakeY := s.VelocityCapacity(270)
	if offset.Y < 0 {
		brakeY = s.VelocityCapacity(90)
	}
	desired := physics.Vector2D{
		X: approachSpeed(offset.X, brakeX, maxSpeed),
		Y: approachSpeed(offset.Y, brakeY, maxSpeed),
	}
	return MatchLocalSpeed(deltaSeconds, s, desired)
}

// RotationFromTargetTurnSpeed returns the rotation output that drives the
// turn speed toward target.
func RotationFromTargetTurnSpeed(deltaSeconds float64, s *State, target float64) float64 {
	if s.RotationCapacity*deltaSeconds <= 0 {
		return 0
	}
	return physics.Clamp((target-s.TurnSpeed)/(s.RotationCapacity*deltaSeconds), -1, 1)
}

// RotateToTarget returns the rotation output that turns the bow toward
// target, offset by offsetDegrees.
func RotateToTarget(deltaSeconds float64, s *State, target physics.Vector2D, offsetDegrees float64) float64 {
	bearing := target.Sub(s.Position).Angle() + offsetDegrees
	delta := physics.DegreesDelta(bearing - s.Angle)
	speed := math.Min(physics.StoppingSpeed(math.Abs(delta), s.RotationCapacity), s.MaxTurnSpeed())
	return RotationFromTargetTurnSpeed(deltaSeconds, s, physics.Sign(delta)*speed)
}
