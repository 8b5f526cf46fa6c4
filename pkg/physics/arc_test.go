package physics

import (
	"math"
	"testing"
)

func TestArc_WidthAndContains(t *testing.T) {
	front := NewArc(-90, 90-Epsilon)
	if math.Abs(front.Width()-(180-Epsilon)) > 1e-9 {
		t.Errorf("Width() = %v, expected %v", front.Width(), 180-Epsilon)
	}
	for _, dir := range []float64{0, 45, -45, 270, 89} {
		if !front.Contains(dir) {
			t.Errorf("front arc should contain %v", dir)
		}
	}
	for _, dir := range []float64{90, 180, 269} {
		if front.Contains(dir) {
			t.Errorf("front arc should not contain %v", dir)
		}
	}
}

func TestArc_Intersection(t *testing.T) {
	front := NewArc(-90, 90-Epsilon)
	rear := NewArc(90, 270-Epsilon)

	tests := []struct {
		name      string
		a, b      Arc
		ok        bool
		wantWidth float64
	}{
		{"inside", front, ArcAround(0, 10), true, 20},
		{"across_zero", front, ArcAround(-80, 20), true, 30},
		{"disjoint", front, ArcAround(180, 10), false, 0},
		{"straddles_edge", rear, ArcAround(90, 10), true, 10},
		{"wrapping_b", NewArc(0, 90), NewArc(300, 30), true, 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.a.Intersection(tt.b)
			if ok != tt.ok {
				t.Fatalf("Intersection() ok = %v, expected %v", ok, tt.ok)
			}
			if ok && math.Abs(got.Width()-tt.wantWidth) > 1e-6 {
				t.Errorf("Intersection() width = %v, expected %v", got.Width(), tt.wantWidth)
			}
		})
	}
}

func TestArcAround_Center(t *testing.T) {
	a := ArcAround(350, 20)
	if math.Abs(DegreesDelta(a.Center()-350)) > 1e-9 {
		t.Errorf("Center() = %v, expected 350", a.Center())
	}
}
