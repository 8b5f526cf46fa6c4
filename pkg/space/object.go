// Package space holds the spatial registry: every object in the arena, its
// kinematics, collisions, explosions, and the damage and order queues that
// ships drain each tick.
package space

import (
	"fmt"

	"github.com/EngoEngine/ecs"

	"github.com/Navot-Ram/starwards/pkg/physics"
)

// Kind identifies the type of a space object.
type Kind int

const (
	KindSpaceship Kind = iota
	KindCannonShell
	KindAsteroid
	KindExplosion
)

func (k Kind) String() string {
	switch k {
	case KindSpaceship:
		return "spaceship"
	case KindCannonShell:
		return "cannon_shell"
	case KindAsteroid:
		return "asteroid"
	case KindExplosion:
		return "explosion"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Default sizes.
const (
	SpaceshipRadius    = 50.0
	CannonShellRadius  = 1.0
	CannonShellHealth  = 10.0
	ExplosionMinRadius = 1.0
)

// ExplosionTemplate describes the explosion a projectile leaves behind.
type ExplosionTemplate struct {
	SecondsToLive  float64
	ExpansionSpeed float64
	DamageFactor   float64
	BlastFactor    float64
}

// Object is a physical entity in space. Ships read it; only the registry mutates it.
type Object struct {
	Basic ecs.BasicEntity

	ID         string
	Kind       Kind
	Position   physics.Vector2D
	Velocity   physics.Vector2D
	Angle      float64 // degrees, [0, 360)
	TurnSpeed  float64 // degrees per second
	Radius     float64
	Health     float64
	Faction    string
	RadarRange float64
	Destroyed  bool

	// OwnerID is the ship that fired a projectile.
	OwnerID string
	// SecondsToLive counts down for shells and explosions.
	SecondsToLive float64
	// Explosion is spawned when a shell hits or expires.
	Explosion *ExplosionTemplate

	// explosion runtime
	ExpansionSpeed float64
	DamageFactor   float64
	BlastFactor    float64
}

// Circle returns the collision shape of the object.
func (o *Object) Circle() physics.Circle {
	return physics.Circle{Center: o.Position, Radius: o.Radius}
}

// GlobalToLocal rotates a global vector into the object's frame (x forward).
func (o *Object) GlobalToLocal(v physics.Vector2D) physics.Vector2D {
	return v.Rotate(-o.Angle)
}

// LocalToGlobal rotates a vector from the object's frame into the global frame.
func (o *Object) LocalToGlobal(v physics.Vector2D) physics.Vector2D {
	return v.Rotate(o.Angle)
}

// Alive reports whether the object still takes part in the simulation.
func (o *Object) Alive() bool {
	return !o.Destroyed
}

// isProjectile reports whether the object uses swept collision.
func (o *Object) isProjectile() bool {
	return o.Kind == KindCannonShell
}

// isSolid reports whether the object takes part in body collisions.
func (o *Object) isSolid() bool {
	return o.Kind == KindSpaceship || o.Kind == KindAsteroid
}

// NewSpaceship creates a ship body. The id may be empty.
func NewSpaceship(id string, position physics.Vector2D, angle float64, faction string) *Object {
	return &Object{
		ID:       id,
		Kind:     KindSpaceship,
		Position: position,
		Angle:    physics.PositiveDegrees(angle),
		Radius:   SpaceshipRadius,
		Health:   1000,
		Faction:  faction,
	}
}

// NewAsteroid creates an asteroid.
func NewAsteroid(id string, position physics.Vector2D, radius float64) *Object {
	return &Object{
		ID:       id,
		Kind:     KindAsteroid,
		Position: position,
		Radius:   radius,
		Health:   radius * 100,
	}
}

// NewCannonShell creates a shell. The registry assigns its id on insertion.
func NewCannonShell(ownerID string, position, velocity physics.Vector2D, angle, secondsToLive float64, explosion *ExplosionTemplate) *Object {
	return &Object{
		Kind:          KindCannonShell,
		OwnerID:       ownerID,
		Position:      position,
		Velocity:      velocity,
		Angle:         physics.PositiveDegrees(angle),
		Radius:        CannonShellRadius,
		Health:        CannonShellHealth,
		SecondsToLive: secondsToLive,
		Explosion:     explosion,
	}
}

// newExplosion creates an expanding explosion at position.
func newExplosion(sourceID string, position physics.Vector2D, t ExplosionTemplate) *Object {
	return &Object{
		Kind:           KindExplosion,
		OwnerID:        sourceID,
		Position:       position,
		Radius:         ExplosionMinRadius,
		Health:         1,
		SecondsToLive:  t.SecondsToLive,
		ExpansionSpeed: t.ExpansionSpeed,
		DamageFactor:   t.DamageFactor,
		BlastFactor:    t.BlastFactor,
	}
}
