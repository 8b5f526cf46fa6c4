// pkg/physics/vector_test.go
package physics

import (
	"math"
	"testing"
)

const testEpsilon = 1e-9

func TestVector2D_Arithmetic(t *testing.T) {
	tests := []struct {
		name     string
		got      Vector2D
		expected Vector2D
	}{
		{"add", Vector2D{X: 3, Y: 4}.Add(Vector2D{X: 1, Y: 2}), Vector2D{X: 4, Y: 6}},
		{"sub", Vector2D{X: 2, Y: 3}.Sub(Vector2D{X: 5, Y: 7}), Vector2D{X: -3, Y: -4}},
		{"scale", Vector2D{X: 2, Y: -3}.Scale(2), Vector2D{X: 4, Y: -6}},
		{"negate", Vector2D{X: 2, Y: -3}.Negate(), Vector2D{X: -2, Y: 3}},
		{"normalize", Vector2D{X: 3, Y: 4}.Normalize(), Vector2D{X: 0.6, Y: 0.8}},
		{"normalize_zero", Vector2D{}.Normalize(), Vector2D{}},
		{"project_on_x", Vector2D{X: 3, Y: 4}.ProjectOn(Vector2D{X: 10}), Vector2D{X: 3}},
		{"average", Average(Vector2D{X: 2}, Vector2D{Y: 2}), Vector2D{X: 1, Y: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.got.Equals(tt.expected, testEpsilon) {
				t.Errorf("%s = %v, expected %v", tt.name, tt.got, tt.expected)
			}
		})
	}
}

func TestVector2D_Length(t *testing.T) {
	v := Vector2D{X: 3, Y: 4}
	if v.Length() != 5 {
		t.Errorf("Length() = %v, expected 5", v.Length())
	}
	if v.LengthSquared() != 25 {
		t.Errorf("LengthSquared() = %v, expected 25", v.LengthSquared())
	}
	if d := v.Distance(Vector2D{}); d != 5 {
		t.Errorf("Distance() = %v, expected 5", d)
	}
}

func TestVector2D_Angle(t *testing.T) {
	tests := []struct {
		name     string
		vector   Vector2D
		expected float64
	}{
		{"positive_x", Vector2D{X: 1}, 0},
		{"positive_y", Vector2D{Y: 1}, 90},
		{"negative_x", Vector2D{X: -1}, 180},
		{"negative_y", Vector2D{Y: -1}, 270},
		{"diagonal", Vector2D{X: 1, Y: 1}, 45},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.vector.Angle(); math.Abs(got-tt.expected) > testEpsilon {
				t.Errorf("Angle() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestFromAngle_RoundTripsWithAngle(t *testing.T) {
	for _, degrees := range []float64{0, 30, 90, 135, 200, 359} {
		v := FromAngle(degrees, 7)
		if math.Abs(v.Length()-7) > testEpsilon {
			t.Errorf("FromAngle(%v, 7).Length() = %v, expected 7", degrees, v.Length())
		}
		if math.Abs(DegreesDelta(v.Angle()-degrees)) > 1e-6 {
			t.Errorf("FromAngle(%v, 7).Angle() = %v", degrees, v.Angle())
		}
	}
}

func TestVector2D_Rotate(t *testing.T) {
	got := Vector2D{X: 1}.Rotate(90)
	if !got.Equals(Vector2D{Y: 1}, testEpsilon) {
		t.Errorf("Rotate(90) = %v, expected (0,1)", got)
	}
	got = Vector2D{X: 1, Y: 1}.Rotate(-45)
	if !got.Equals(Vector2D{X: math.Sqrt2}, testEpsilon) {
		t.Errorf("Rotate(-45) = %v, expected (sqrt2,0)", got)
	}
}
