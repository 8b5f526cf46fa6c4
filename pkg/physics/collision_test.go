// pkg/physics/collision_test.go
package physics

import (
	"math"
	"testing"
)

func TestCircle_Collides(t *testing.T) {
	tests := []struct {
		name     string
		circle1  Circle
		circle2  Circle
		expected bool
	}{
		{
			name:     "circles_touching",
			circle1:  Circle{Center: Vector2D{X: 0, Y: 0}, Radius: 5},
			circle2:  Circle{Center: Vector2D{X: 10, Y: 0}, Radius: 5},
			expected: true,
		},
		{
			name:     "circles_overlapping",
			circle1:  Circle{Center: Vector2D{X: 0, Y: 0}, Radius: 5},
			circle2:  Circle{Center: Vector2D{X: 5, Y: 0}, Radius: 5},
			expected: true,
		},
		{
			name:     "circles_not_touching",
			circle1:  Circle{Center: Vector2D{X: 0, Y: 0}, Radius: 5},
			circle2:  Circle{Center: Vector2D{X: 15, Y: 0}, Radius: 5},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := tt.circle1.Collides(tt.circle2); result != tt.expected {
				t.Errorf("Circle.Collides() = %v, expected %v", result, tt.expected)
			}
		})
	}
}

func TestCheckCollision(t *testing.T) {
	t.Run("no_collision", func(t *testing.T) {
		result := CheckCollision(Circle{Radius: 5}, Circle{Center: Vector2D{X: 15}, Radius: 5})
		if result.Collided {
			t.Error("expected no collision")
		}
	})

	t.Run("overlap", func(t *testing.T) {
		result := CheckCollision(Circle{Radius: 5}, Circle{Center: Vector2D{X: 8}, Radius: 5})
		if !result.Collided {
			t.Fatal("expected collision")
		}
		if !result.Normal.Equals(Vector2D{X: 1}, testEpsilon) {
			t.Errorf("Normal = %v, expected (1,0)", result.Normal)
		}
		if math.Abs(result.Penetration-2) > testEpsilon {
			t.Errorf("Penetration = %v, expected 2", result.Penetration)
		}
		if !result.ContactPoint.Equals(Vector2D{X: 5}, testEpsilon) {
			t.Errorf("ContactPoint = %v, expected (5,0)", result.ContactPoint)
		}
	})

	t.Run("concentric", func(t *testing.T) {
		result := CheckCollision(Circle{Radius: 5}, Circle{Radius: 1})
		if !result.Collided || result.Normal.IsZero() {
			t.Errorf("concentric circles should collide with a usable normal, got %+v", result)
		}
	})
}

func TestSweptContact(t *testing.T) {
	target := Circle{Center: Vector2D{X: 100}, Radius: 10}

	t.Run("hits_surface", func(t *testing.T) {
		shell := Circle{Radius: 1}
		frac, ok := SweptContact(shell, Vector2D{X: 200}, target, Vector2D{})
		if !ok {
			t.Fatal("expected contact")
		}
		contact := shell.Center.Add(Vector2D{X: 200}.Scale(frac))
		if math.Abs(contact.Distance(target.Center)-11) > 1e-9 {
			t.Errorf("contact distance = %v, expected 11", contact.Distance(target.Center))
		}
	})

	t.Run("falls_short", func(t *testing.T) {
		if _, ok := SweptContact(Circle{Radius: 1}, Vector2D{X: 50}, target, Vector2D{}); ok {
			t.Error("expected no contact within the step")
		}
	})

	t.Run("moving_away", func(t *testing.T) {
		if _, ok := SweptContact(Circle{Radius: 1}, Vector2D{X: -500}, target, Vector2D{}); ok {
			t.Error("expected no contact when moving away")
		}
	})

	t.Run("already_overlapping", func(t *testing.T) {
		frac, ok := SweptContact(Circle{Center: Vector2D{X: 95}, Radius: 1}, Vector2D{}, target, Vector2D{})
		if !ok || frac != 0 {
			t.Errorf("SweptContact() = %v, %v, expected 0, true", frac, ok)
		}
	})
}

func TestRect_ContainsAndIntersects(t *testing.T) {
	r := Rect{Center: Vector2D{}, Width: 10, Height: 10}
	if !r.Contains(Vector2D{X: -5, Y: -5}) {
		t.Error("left/bottom edge should be inside")
	}
	if r.Contains(Vector2D{X: 5}) {
		t.Error("right edge should be outside")
	}
	if !r.Intersects(Rect{Center: Vector2D{X: 9}, Width: 10, Height: 10}) {
		t.Error("overlapping rects should intersect")
	}
	if r.Intersects(Rect{Center: Vector2D{X: 20}, Width: 2, Height: 2}) {
		t.Error("distant rects should not intersect")
	}
}

func TestQuadTree_InsertAndQuery(t *testing.T) {
	points := []Vector2D{{X: -40, Y: -40}, {X: 10, Y: 10}, {X: 12, Y: 11}, {X: 45, Y: -30}, {X: 0, Y: 0}, {X: 11, Y: 9}}
	qt := NewQuadTree[int](BoundingRect(points), 2)
	for i, p := range points {
		if !qt.Insert(p, i) {
			t.Fatalf("Insert(%v) = false", p)
		}
	}
	if qt.Len() != len(points) {
		t.Errorf("Len() = %d, expected %d", qt.Len(), len(points))
	}
	if !qt.Divided {
		t.Error("tree should subdivide past capacity")
	}

	found := qt.Query(Rect{Center: Vector2D{X: 11, Y: 10}, Width: 6, Height: 6}, nil)
	if len(found) != 3 {
		t.Errorf("Query() found %v, expected 3 items", found)
	}
	if qt.Insert(Vector2D{X: 1000}, 99) {
		t.Error("Insert() outside boundary should fail")
	}
}

func TestQuadTree_CoincidentPoints(t *testing.T) {
	qt := NewQuadTree[string](Rect{Width: 10, Height: 10}, 1)
	for i := 0; i < 10; i++ {
		qt.Insert(Vector2D{X: 1, Y: 1}, "same")
	}
	if got := len(qt.Query(Rect{Center: Vector2D{X: 1, Y: 1}, Width: 1, Height: 1}, nil)); got != 10 {
		t.Errorf("Query() = %d items, expected 10", got)
	}
}
