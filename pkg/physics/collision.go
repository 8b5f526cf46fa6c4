// pkg/physics/collision.go
package physics

import "math"

// Circle represents a circular collision shape
type Circle struct {
	Center Vector2D
	Radius float64
}

// Collides reports whether two circles touch or overlap.
func (c Circle) Collides(other Circle) bool {
	return c.Center.Distance(other.Center) <= c.Radius+other.Radius
}

// Bounds returns the axis-aligned square enclosing the circle.
func (c Circle) Bounds() Rect {
	return Rect{Center: c.Center, Width: c.Radius * 2, Height: c.Radius * 2}
}

// CollisionResult contains information about a collision
type CollisionResult struct {
	Collided     bool
	Normal       Vector2D // unit vector from a toward b
	Penetration  float64
	ContactPoint Vector2D // point on the surface of a
}

// CheckCollision performs detailed collision detection between two circles.
// Concentric circles report +X as their normal.
func CheckCollision(a, b Circle) CollisionResult {
	delta := b.Center.Sub(a.Center)
	distance := delta.Length()
	if distance > a.Radius+b.Radius {
		return CollisionResult{}
	}

	normal := delta.Normalize()
	if normal.IsZero() {
		normal = Vector2D{X: 1}
	}
	return CollisionResult{
		Collided:     true,
		Normal:       normal,
		Penetration:  a.Radius + b.Radius - distance,
		ContactPoint: a.Center.Add(normal.Scale(a.Radius)),
	}
}

// SweptContact finds the first moment two moving circles touch during a step.
// Each circle moves by its displacement over the step; the returned fraction
// is in [0, 1]. Circles that already overlap report fraction 0.
func SweptContact(a Circle, displacementA Vector2D, b Circle, displacementB Vector2D) (float64, bool) {
	p := a.Center.Sub(b.Center)
	v := displacementA.Sub(displacementB)
	r := a.Radius + b.Radius

	c := p.LengthSquared() - r*r
	if c <= 0 {
		return 0, true
	}
	qa := v.LengthSquared()
	if qa == 0 {
		return 0, false
	}
	qb := 2 * p.Dot(v)
	if qb >= 0 {
		// moving apart
		return 0, false
	}
	disc := qb*qb - 4*qa*c
	if disc < 0 {
		return 0, false
	}
	t := (-qb - math.Sqrt(disc)) / (2 * qa)
	if t < 0 || t > 1 {
		return 0, false
	}
	return t, true
}

// Rect is an axis-aligned rectangle described by its center.
type Rect struct {
	Center Vector2D
	Width  float64
	Height float64
}

// Contains reports whether point lies inside the rectangle (right and top edges excluded).
func (r Rect) Contains(point Vector2D) bool {
	return point.X >= r.Center.X-r.Width/2 &&
		point.X < r.Center.X+r.Width/2 &&
		point.Y >= r.Center.Y-r.Height/2 &&
		point.Y < r.Center.Y+r.Height/2
}

// Intersects reports whether two rectangles overlap.
func (r Rect) Intersects(other Rect) bool {
	return !(other.Center.X-other.Width/2 > r.Center.X+r.Width/2 ||
		other.Center.X+other.Width/2 < r.Center.X-r.Width/2 ||
		other.Center.Y-other.Height/2 > r.Center.Y+r.Height/2 ||
		other.Center.Y+other.Height/2 < r.Center.Y-r.Height/2)
}

// Grow returns the rectangle expanded by margin on every side.
func (r Rect) Grow(margin float64) Rect {
	return Rect{Center: r.Center, Width: r.Width + 2*margin, Height: r.Height + 2*margin}
}

// BoundingRect returns the smallest rectangle containing all points, padded
// so that every point is strictly inside.
func BoundingRect(points []Vector2D) Rect {
	if len(points) == 0 {
		return Rect{Width: 1, Height: 1}
	}
	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points[1:] {
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}
	return Rect{
		Center: Vector2D{X: (minX + maxX) / 2, Y: (minY + maxY) / 2},
		Width:  maxX - minX + 2,
		Height: maxY - minY + 2,
	}
}

// QuadTree partitions items by position for broad-phase queries.
type QuadTree[T any] struct {
	Boundary  Rect
	Capacity  int
	Points    []Vector2D
	Items     []T
	Divided   bool
	NorthWest *QuadTree[T]
	NorthEast *QuadTree[T]
	SouthWest *QuadTree[T]
	SouthEast *QuadTree[T]
}

// NewQuadTree creates a new quad tree with the given boundary and node capacity.
func NewQuadTree[T any](boundary Rect, capacity int) *QuadTree[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &QuadTree[T]{
		Boundary: boundary,
		Capacity: capacity,
		Points:   make([]Vector2D, 0, capacity),
		Items:    make([]T, 0, capacity),
	}
}

// maxQuadDepthWidth stops subdivision so coincident points cannot recurse forever.
const maxQuadDepthWidth = 1e-3

// Insert stores item at point. It returns false when point is outside the boundary.
func (qt *QuadTree[T]) Insert(point Vector2D, item T) bool {
	if !qt.Boundary.Contains(point) {
		return false
	}

	if !qt.Divided && (len(qt.Points) < qt.Capacity || qt.Boundary.Width < maxQuadDepthWidth) {
		qt.Points = append(qt.Points, point)
		qt.Items = append(qt.Items, item)
		return true
	}

	if !qt.Divided {
		qt.subdivide()
	}
	if !qt.insertChild(point, item) {
		// rounding at child edges; keep it here
		qt.Points = append(qt.Points, point)
		qt.Items = append(qt.Items, item)
	}
	return true
}

func (qt *QuadTree[T]) insertChild(point Vector2D, item T) bool {
	return qt.NorthWest.Insert(point, item) ||
		qt.NorthEast.Insert(point, item) ||
		qt.SouthWest.Insert(point, item) ||
		qt.SouthEast.Insert(point, item)
}

func (qt *QuadTree[T]) subdivide() {
	x := qt.Boundary.Center.X
	y := qt.Boundary.Center.Y
	w := qt.Boundary.Width / 2
	h := qt.Boundary.Height / 2

	qt.NorthWest = NewQuadTree[T](Rect{Center: Vector2D{X: x - w/2, Y: y + h/2}, Width: w, Height: h}, qt.Capacity)
	qt.NorthEast = NewQuadTree[T](Rect{Center: Vector2D{X: x + w/2, Y: y + h/2}, Width: w, Height: h}, qt.Capacity)
	qt.SouthWest = NewQuadTree[T](Rect{Center: Vector2D{X: x - w/2, Y: y - h/2}, Width: w, Height: h}, qt.Capacity)
	qt.SouthEast = NewQuadTree[T](Rect{Center: Vector2D{X: x + w/2, Y: y - h/2}, Width: w, Height: h}, qt.Capacity)
	qt.Divided = true

	// push existing points down so leaves hold everything
	points, items := qt.Points, qt.Items
	qt.Points, qt.Items = nil, nil
	for i, p := range points {
		if !qt.insertChild(p, items[i]) {
			qt.Points = append(qt.Points, p)
			qt.Items = append(qt.Items, items[i])
		}
	}
}

// Query appends to dst every item whose point lies inside area.
func (qt *QuadTree[T]) Query(area Rect, dst []T) []T {
	if !qt.Boundary.Intersects(area) {
		return dst
	}
	for i, point := range qt.Points {
		if area.Contains(point) {
			dst = append(dst, qt.Items[i])
		}
	}
	if !qt.Divided {
		return dst
	}
	dst = qt.NorthWest.Query(area, dst)
	dst = qt.NorthEast.Query(area, dst)
	dst = qt.SouthWest.Query(area, dst)
	return qt.SouthEast.Query(area, dst)
}

// Len returns the number of stored items.
func (qt *QuadTree[T]) Len() int {
	n := len(qt.Points)
	if qt.Divided {
		n += qt.NorthWest.Len() + qt.NorthEast.Len() + qt.SouthWest.Len() + qt.SouthEast.Len()
	}
	return n
}
