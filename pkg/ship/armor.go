package ship

import (
	"fmt"

	"github.com/Navot-Ram/starwards/pkg/physics"
)

// Area is a hull section that houses systems.
type Area int

const (
	AreaFront Area = iota
	AreaRear
)

func (a Area) String() string {
	switch a {
	case AreaFront:
		return "front"
	case AreaRear:
		return "rear"
	}
	return fmt.Sprintf("area(%d)", int(a))
}

// Arc returns the ship-local arc the area covers.
func (a Area) Arc() physics.Arc {
	switch a {
	case AreaFront:
		return physics.NewArc(-90, 90-physics.Epsilon)
	case AreaRear:
		return physics.NewArc(90, 270-physics.Epsilon)
	}
	return physics.Arc{}
}

// Areas lists every area in evaluation order.
var Areas = []Area{AreaFront, AreaRear}

// PlateIndexesInArc lists the plates whose arc overlaps arc.
func (a *Armor) PlateIndexesInArc(arc physics.Arc) []int {
	var out []int
	for i := range a.Plates {
		if _, ok := a.PlateArc(i).Intersection(arc); ok {
			out = append(out, i)
		}
	}
	return out
}

// NumberOfPlatesInArc counts the plates overlapping arc.
func (a *Armor) NumberOfPlatesInArc(arc physics.Arc) int {
	return len(a.PlateIndexesInArc(arc))
}

// BrokenPlatesInArc counts the depleted plates overlapping arc.
func (a *Armor) BrokenPlatesInArc(arc physics.Arc) int {
	n := 0
	for _, i := range a.PlateIndexesInArc(arc) {
		if a.Plates[i].Health <= 0 {
			n++
		}
	}
	return n
}

// Heal regenerates damaged plates up to the plate maximum. Depleted plates
// stay broken until Fix.
func (a *Armor) Heal(deltaSeconds float64) {
	if deltaSeconds <= 0 || a.HealRate <= 0 {
		return
	}
	for i := range a.Plates {
		p := &a.Plates[i]
		if p.Health > 0 && p.Health < a.PlateMaxHealth {
			p.Health = min(a.PlateMaxHealth, p.Health+a.HealRate*deltaSeconds)
		}
	}
}

// Fix restores every plate to full health.
func (a *Armor) Fix() {
	for i := range a.Plates {
		a.Plates[i].Health = a.PlateMaxHealth
	}
}

// HealthRatio is the armor's total health over its maximum.
func (a *Armor) HealthRatio() float64 {
	if len(a.Plates) == 0 || a.PlateMaxHealth <= 0 {
		return 0
	}
	total := 0.0
	for _, p := range a.Plates {
		total += p.Health
	}
	return total / (a.PlateMaxHealth * float64(len(a.Plates)))
}
