package ship

import (
	"math"
	"testing"

	"github.com/Navot-Ram/starwards/pkg/physics"
)

func TestVelocityCapacity(t *testing.T) {
	s := NewState("s", Dragonfly())
	tests := []struct {
		name        string
		direction   float64
		afterBurner float64
		want        float64
	}{
		{name: "forward", direction: 0, want: 300},
		{name: "backward", direction: 180, want: 300},
		{name: "strafe left", direction: 90, want: 150},
		{name: "strafe right", direction: -90, want: 150},
		{name: "forward with afterburner", direction: 0, afterBurner: 1, want: 900},
		{name: "no thruster at 45", direction: 45, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s.AfterBurner = tt.afterBurner
			if got := s.VelocityCapacity(tt.direction); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("VelocityCapacity(%v) = %v, want %v", tt.direction, got, tt.want)
			}
		})
	}
}

func TestVelocityCapacity_IgnoresBrokenThrusters(t *testing.T) {
	s := NewState("s", Dragonfly())
	s.Thrusters[0].AvailableCapacity = 0
	if got := s.VelocityCapacity(0); got != 150 {
		t.Errorf("VelocityCapacity(0) = %v, want 150", got)
	}
	s.Thrusters[1].AngleError = 25
	if got := s.VelocityCapacity(0); got != 0 {
		t.Errorf("VelocityCapacity(0) = %v, want 0", got)
	}
}

func TestMatchLocalSpeed(t *testing.T) {
	const dt = 0.05
	tests := []struct {
		name     string
		angle    float64
		velocity physics.Vector2D
		target   physics.Vector2D
		want     Maneuvering
	}{
		{name: "at rest, far forward target saturates", target: physics.Vector2D{X: 100}, want: Maneuvering{Boost: 1}},
		{name: "small forward delta", target: physics.Vector2D{X: 3}, want: Maneuvering{Boost: 0.2}},
		{name: "slow down", velocity: physics.Vector2D{X: 6}, want: Maneuvering{Boost: -0.4}},
		{name: "strafe", target: physics.Vector2D{Y: -3}, want: Maneuvering{Strafe: -0.4}},
		{name: "rotated ship reads global velocity locally", angle: 90, velocity: physics.Vector2D{Y: 3}, want: Maneuvering{Boost: -0.2}},
		{name: "already matched", velocity: physics.Vector2D{X: 10}, target: physics.Vector2D{X: 10}, want: Maneuvering{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewState("s", Dragonfly())
			s.Angle = tt.angle
			s.Velocity = tt.velocity
			got := MatchLocalSpeed(dt, s, tt.target)
			if math.Abs(got.Boost-tt.want.Boost) > 1e-9 || math.Abs(got.Strafe-tt.want.Strafe) > 1e-9 {
				t.Errorf("MatchLocalSpeed() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestMoveToTarget_ApproachesAndBrakes(t *testing.T) {
	s := NewState("s", Dragonfly())

	far := MoveToTarget(0.05, s, physics.Vector2D{X: 5000})
	if far.Boost != 1 {
		t.Errorf("MoveToTarget(far).Boost = %v, want 1", far.Boost)
	}

	// moving too fast to stop within 10 units
	s.Velocity = physics.Vector2D{X: 150}
	near := MoveToTarget(0.05, s, physics.Vector2D{X: 10})
	if near.Boost >= 0 {
		t.Errorf("MoveToTarget(near).Boost = %v, want braking (< 0)", near.Boost)
	}
}

func TestRotationFromTargetTurnSpeed(t *testing.T) {
	s := NewState("s", Dragonfly())
	tests := []struct {
		current, target, want float64
	}{
		{0, 0, 0},
		{0, 2.25, 0.5},
		{0, 100, 1},
		{10, 0, -1},
		{4.5, 0, -1},
		{2.25, 0, -0.5},
	}
	for _, tt := range tests {
		s.TurnSpeed = tt.current
		if got := RotationFromTargetTurnSpeed(0.05, s, tt.target); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("RotationFromTargetTurnSpeed(turn=%v, target=%v) = %v, want %v", tt.current, tt.target, got, tt.want)
		}
	}
}

func TestRotateToTarget_TurnsTowardBearing(t *testing.T) {
	s := NewState("s", Dragonfly())
	tests := []struct {
		name   string
		target physics.Vector2D
		offset float64
		sign   float64
	}{
		{name: "target to the left turns positive", target: physics.Vector2D{X: 100, Y: 100}, sign: 1},
		{name: "target to the right turns negative", target: physics.Vector2D{X: 100, Y: -100}, sign: -1},
		{name: "offset flips side", target: physics.Vector2D{X: 100, Y: 10}, offset: -30, sign: -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RotateToTarget(0.05, s, tt.target, tt.offset)
			if physics.Sign(got) != tt.sign {
				t.Errorf("RotateToTarget() = %v, want sign %v", got, tt.sign)
			}
		})
	}
}
