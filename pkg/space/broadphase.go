package space

import (
	"math"

	"github.com/Navot-Ram/starwards/pkg/physics"
)

// quadCapacity is the number of bodies a quad holds before splitting.
const quadCapacity = 8

// broadPhase indexes solid bodies for a single step.
type broadPhase struct {
	tree      *physics.QuadTree[*Object]
	maxRadius float64
	maxSpeed  float64
}

func newBroadPhase(objects []*Object) *broadPhase {
	b := &broadPhase{}
	points := make([]physics.Vector2D, 0, len(objects))
	for _, o := range objects {
		if o.isSolid() && !o.Destroyed {
			points = append(points, o.Position)
			b.maxRadius = math.Max(b.maxRadius, o.Radius)
			b.maxSpeed = math.Max(b.maxSpeed, o.Velocity.Length())
		}
	}
	b.tree = physics.NewQuadTree[*Object](physics.BoundingRect(points), quadCapacity)
	for _, o := range objects {
		if o.isSolid() && !o.Destroyed {
			b.tree.Insert(o.Position, o)
		}
	}
	return b
}

// near returns bodies whose circle may overlap a circle at center with radius.
func (b *broadPhase) near(center physics.Vector2D, radius float64) []*Object {
	area := physics.Circle{Center: center, Radius: radius + b.maxRadius}.Bounds()
	return b.tree.Query(area, nil)
}

// alongPath returns bodies a moving object may touch during a step.
func (b *broadPhase) alongPath(o *Object, displacement physics.Vector2D, dt float64) []*Object {
	mid := o.Position.Add(displacement.Scale(0.5))
	margin := o.Radius + b.maxRadius + b.maxSpeed*dt
	area := physics.Rect{
		Center: mid,
		Width:  math.Abs(displacement.X),
		Height: math.Abs(displacement.Y),
	}.Grow(margin)
	return b.tree.Query(area, nil)
}
