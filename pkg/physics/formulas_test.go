package physics

import (
	"math"
	"testing"
)

func TestPositiveDegrees(t *testing.T) {
	tests := []struct {
		in, expected float64
	}{
		{0, 0}, {360, 0}, {-90, 270}, {450, 90}, {-720, 0}, {359.5, 359.5},
	}
	for _, tt := range tests {
		if got := PositiveDegrees(tt.in); math.Abs(got-tt.expected) > testEpsilon {
			t.Errorf("PositiveDegrees(%v) = %v, expected %v", tt.in, got, tt.expected)
		}
	}
}

func TestDegreesDelta(t *testing.T) {
	tests := []struct {
		in, expected float64
	}{
		{0, 0}, {180, 180}, {-180, 180}, {190, -170}, {-10, -10}, {350, -10},
	}
	for _, tt := range tests {
		if got := DegreesDelta(tt.in); math.Abs(got-tt.expected) > testEpsilon {
			t.Errorf("DegreesDelta(%v) = %v, expected %v", tt.in, got, tt.expected)
		}
	}
}

func TestLerp(t *testing.T) {
	from := Range{Min: -1, Max: 1}
	to := Range{Min: -500, Max: 500}
	tests := []struct {
		in, expected float64
	}{
		{-1, -500}, {0, 0}, {1, 500}, {0.5, 250},
	}
	for _, tt := range tests {
		if got := Lerp(from, to, tt.in); math.Abs(got-tt.expected) > testEpsilon {
			t.Errorf("Lerp(%v) = %v, expected %v", tt.in, got, tt.expected)
		}
	}
	if got := Lerp(Range{Min: 1, Max: 1}, to, 5); got != to.Min {
		t.Errorf("Lerp() on empty range = %v, expected %v", got, to.Min)
	}
}

func TestClamp(t *testing.T) {
	if Clamp(5, 0, 1) != 1 || Clamp(-5, 0, 1) != 0 || Clamp(0.5, 0, 1) != 0.5 {
		t.Error("Clamp() did not cap into range")
	}
	r := Range{Min: 2, Max: 4}
	if r.Clamp(10) != 4 || !r.Contains(3) || r.Contains(5) || r.Size() != 2 {
		t.Error("Range helpers returned unexpected values")
	}
}

func TestSinWave_StaysWithinAmplitude(t *testing.T) {
	for i := 0; i < 200; i++ {
		v := SinWave(float64(i)*0.05, 0.7, 0.5, 0, 0.5)
		if v < -testEpsilon || v > 1+testEpsilon {
			t.Fatalf("SinWave() = %v, expected value in [0,1]", v)
		}
	}
}

func TestLimitPrecision(t *testing.T) {
	if got := LimitPrecision(0.123456789); got != 0.1235 {
		t.Errorf("LimitPrecision() = %v, expected 0.1235", got)
	}
}

func TestStoppingSpeed(t *testing.T) {
	if got := StoppingSpeed(50, 100); math.Abs(got-100) > testEpsilon {
		t.Errorf("StoppingSpeed(50, 100) = %v, expected 100", got)
	}
	if StoppingSpeed(-1, 100) != 0 {
		t.Error("StoppingSpeed() with negative distance should be 0")
	}
}
