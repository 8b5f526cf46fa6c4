// pkg/physics/arc.go
package physics

import "math"

// Arc is a span of directions swept counter-clockwise from From to To, in degrees.
// Both ends are kept normalized to [0, 360).
type Arc struct {
	From float64
	To   float64
}

// NewArc builds an arc from its two ends.
func NewArc(from, to float64) Arc {
	return Arc{From: PositiveDegrees(from), To: PositiveDegrees(to)}
}

// ArcAround builds an arc centered on center, spanning halfWidth on each side.
func ArcAround(center, halfWidth float64) Arc {
	halfWidth = Clamp(halfWidth, 0, 180)
	return NewArc(center-halfWidth, center+halfWidth)
}

// Width returns the swept angle in [0, 360).
func (a Arc) Width() float64 {
	return PositiveDegrees(a.To - a.From)
}

// Center returns the direction halfway through the arc.
func (a Arc) Center() float64 {
	return PositiveDegrees(a.From + a.Width()/2)
}

// Contains reports whether direction lies within the arc, ends included.
func (a Arc) Contains(direction float64) bool {
	return PositiveDegrees(direction-a.From) <= a.Width()
}

// Rotate shifts both ends by degrees.
func (a Arc) Rotate(degrees float64) Arc {
	return NewArc(a.From+degrees, a.To+degrees)
}

// Intersection returns the overlap of two arcs. Arcs whose widths sum to less
// than a full turn overlap in at most one piece; when two pieces exist the
// wider one is returned. ok is false when the overlap has no width.
func (a Arc) Intersection(b Arc) (Arc, bool) {
	wa := a.Width()
	bFrom := PositiveDegrees(b.From - a.From)
	bTo := bFrom + b.Width()

	var best Arc
	bestWidth := 0.0
	found := false
	consider := func(lo, hi float64) {
		if hi-lo > 0 && hi-lo > bestWidth {
			best = NewArc(a.From+lo, a.From+hi)
			bestWidth = hi - lo
			found = true
		}
	}
	consider(math.Max(0, bFrom), math.Min(wa, bTo))
	if bTo > 360 {
		consider(0, math.Min(wa, bTo-360))
	}
	return best, found
}
