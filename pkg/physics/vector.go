// pkg/physics/vector.go
package physics

import "math"

// Vector2D is a plain 2D vector. Angles in this package are degrees, with 0
// pointing along +X and positive angles turning toward +Y.
type Vector2D struct {
	X float64
	Y float64
}

// Zero is the zero vector.
var Zero = Vector2D{}

// Add returns the sum of two vectors
func (v Vector2D) Add(other Vector2D) Vector2D {
	return Vector2D{X: v.X + other.X, Y: v.Y + other.Y}
}

// Sub returns the difference between two vectors
func (v Vector2D) Sub(other Vector2D) Vector2D {
	return Vector2D{X: v.X - other.X, Y: v.Y - other.Y}
}

// Scale multiplies the vector by a scalar value
func (v Vector2D) Scale(factor float64) Vector2D {
	return Vector2D{X: v.X * factor, Y: v.Y * factor}
}

// Negate returns the vector pointing the other way.
func (v Vector2D) Negate() Vector2D {
	return Vector2D{X: -v.X, Y: -v.Y}
}

// Length returns the magnitude of the vector
func (v Vector2D) Length() float64 {
	return math.Hypot(v.X, v.Y)
}

// LengthSquared returns magnitude squared
func (v Vector2D) LengthSquared() float64 {
	return v.X*v.X + v.Y*v.Y
}

// Normalize returns a unit vector in the same direction, or zero for the zero vector.
func (v Vector2D) Normalize() Vector2D {
	length := v.Length()
	if length == 0 {
		return Vector2D{}
	}
	return Vector2D{X: v.X / length, Y: v.Y / length}
}

// Distance returns the distance between two points
func (v Vector2D) Distance(other Vector2D) float64 {
	return v.Sub(other).Length()
}

// Dot returns the dot product of two vectors
func (v Vector2D) Dot(other Vector2D) float64 {
	return v.X*other.X + v.Y*other.Y
}

// Angle returns the direction of the vector in degrees, in [0, 360).
func (v Vector2D) Angle() float64 {
	return PositiveDegrees(math.Atan2(v.Y, v.X) * 180 / math.Pi)
}

// Rotate rotates the vector by angle degrees.
func (v Vector2D) Rotate(degrees float64) Vector2D {
	sin, cos := math.Sincos(degrees * math.Pi / 180)
	return Vector2D{
		X: v.X*cos - v.Y*sin,
		Y: v.X*sin + v.Y*cos,
	}
}

// ProjectOn returns the component of v along the direction of axis.
func (v Vector2D) ProjectOn(axis Vector2D) Vector2D {
	unit := axis.Normalize()
	return unit.Scale(v.Dot(unit))
}

// IsZero reports whether both components are zero.
func (v Vector2D) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

// Equals compares two vectors within epsilon.
func (v Vector2D) Equals(other Vector2D, epsilon float64) bool {
	return math.Abs(v.X-other.X) <= epsilon && math.Abs(v.Y-other.Y) <= epsilon
}

// FromAngle creates a vector of the given magnitude pointing at angle degrees.
func FromAngle(degrees float64, magnitude float64) Vector2D {
	sin, cos := math.Sincos(degrees * math.Pi / 180)
	return Vector2D{X: magnitude * cos, Y: magnitude * sin}
}

// Average returns the arithmetic mean of the given vectors.
func Average(vectors ...Vector2D) Vector2D {
	if len(vectors) == 0 {
		return Vector2D{}
	}
	var sum Vector2D
	for _, v := range vectors {
		sum = sum.Add(v)
	}
	return sum.Scale(1 / float64(len(vectors)))
}
