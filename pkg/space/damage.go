package space

import (
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/Navot-Ram/starwards/pkg/physics"
)

// Damage is a hit against one object.
type Damage struct {
	// ID is unique per event and keys every die roll made while resolving it.
	ID     string
	Amount float64
	// Arc is the hit surface in the victim's local frame (0 is the bow).
	Arc      physics.Arc
	SourceID string
}

// damageNamespace scopes the name-based damage ids.
var damageNamespace = uuid.MustParse("6f1d3c52-8a7e-4d1b-9c0e-5b2a7d4e9f13")

// damageID derives a stable id so that a seeded die replays the same fight.
func damageID(tick uint64, seq uint64) string {
	return uuid.NewSHA1(damageNamespace, []byte(fmt.Sprintf("%d/%d", tick, seq))).String()
}

// CollisionDamage is the damage a body of targetRadius takes from an impact at relativeSpeed.
func CollisionDamage(factor, relativeSpeed, targetRadius float64) float64 {
	if targetRadius <= 0 {
		return 0
	}
	return factor * relativeSpeed / targetRadius
}

// hitArc returns the victim-local arc covered by a contact with a body of
// otherRadius whose center lies toward point, with the victim centered at center.
func hitArc(victim *Object, center, point physics.Vector2D, otherRadius float64) physics.Arc {
	direction := point.Sub(center).Angle() - victim.Angle
	half := 90.0
	if victim.Radius > 0 {
		half = math.Atan2(otherRadius, victim.Radius) * 180 / math.Pi
	}
	return physics.ArcAround(direction, math.Max(half, 1))
}

// OrderKind distinguishes ship orders.
type OrderKind int

const (
	OrderMove OrderKind = iota
	OrderAttack
)

func (k OrderKind) String() string {
	switch k {
	case OrderMove:
		return "move"
	case OrderAttack:
		return "attack"
	}
	return fmt.Sprintf("order(%d)", int(k))
}

// Order is a high-level instruction for a ship's bot.
type Order struct {
	ShipID   string
	Kind     OrderKind
	Position physics.Vector2D // move
	TargetID string           // attack
}
