package die

import (
	"fmt"
	"math"
	"testing"
)

func TestShipDie_SameSeedAndIDReproduce(t *testing.T) {
	a := NewShipDie(42)
	b := NewShipDie(42)
	for i := 0; i < 100; i++ {
		id := fmt.Sprintf("damage-%d", i)
		ra, rb := a.Roll(id), b.Roll(id)
		if ra != rb {
			t.Fatalf("Roll(%q) = %v and %v, expected identical", id, ra, rb)
		}
		if ra != a.Roll(id) {
			t.Fatalf("Roll(%q) changed between calls", id)
		}
		if ra < 0 || ra >= 1 {
			t.Fatalf("Roll(%q) = %v, expected [0,1)", id, ra)
		}
	}
}

func TestShipDie_DifferentSeedsDiverge(t *testing.T) {
	a := NewShipDie(1)
	b := NewShipDie(2)
	same := 0
	for i := 0; i < 50; i++ {
		id := fmt.Sprintf("roll-%d", i)
		if a.Roll(id) == b.Roll(id) {
			same++
		}
	}
	if same == 50 {
		t.Error("different seeds produced identical rolls")
	}
}

func TestShipDie_RollInRange(t *testing.T) {
	d := NewShipDie(7)
	for i := 0; i < 200; i++ {
		v := d.RollInRange(fmt.Sprint(i), 1, 3)
		if v < 1 || v >= 3 {
			t.Fatalf("RollInRange() = %v, expected [1,3)", v)
		}
	}
}

func TestRandomDie_SeededStreamsMatch(t *testing.T) {
	a := NewRandomDie(9)
	b := NewRandomDie(9)
	for i := 0; i < 20; i++ {
		if a.Roll("x") != b.Roll("x") {
			t.Fatal("equal seeds should produce equal streams")
		}
	}
}

func TestFixed(t *testing.T) {
	tests := []struct {
		name     string
		die      Fixed
		min, max float64
		expected float64
	}{
		{"inside_range", Fixed{Value: 0.5}, 0, 1, 0.5},
		{"below_range", Fixed{Value: 0.5}, 1, 3, 1},
		{"upper_bound_excluded", Fixed{Value: 3}, 1, 3, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.die.RollInRange("id", tt.min, tt.max); got != tt.expected {
				t.Errorf("RollInRange() = %v, expected %v", got, tt.expected)
			}
		})
	}

	if !(Fixed{Value: 0.2}).Success("id", 0.3) {
		t.Error("Success() should be true when roll < probability")
	}
	if (Fixed{Value: 0.3}).Success("id", 0.3) {
		t.Error("Success() should be false when roll == probability")
	}
}

func TestGaussian(t *testing.T) {
	if got := Gaussian(Fixed{Value: 0.5}, "plate", 20, 4); math.Abs(got-20) > 1e-9 {
		t.Errorf("Gaussian() at median = %v, expected 20", got)
	}
	if got := Gaussian(Fixed{Value: 0}, "plate", 20, 4); math.IsInf(got, 0) || math.IsNaN(got) {
		t.Errorf("Gaussian() at roll 0 = %v, expected finite", got)
	}
	if got := Gaussian(Fixed{Value: 0.9}, "plate", 20, 0); got != 20 {
		t.Errorf("Gaussian() with zero deviation = %v, expected mean", got)
	}
}

func TestNormalCDF(t *testing.T) {
	if got := NormalCDF(10, 10, 5); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("NormalCDF(mean) = %v, expected 0.5", got)
	}
	if NormalCDF(0, 1000, 500) > 0.05 {
		t.Error("NormalCDF() far below mean should be small")
	}
	if NormalCDF(1, 2, 0) != 0 || NormalCDF(2, 2, 0) != 1 {
		t.Error("NormalCDF() with zero deviation should be a step")
	}
}

func TestPrefixed(t *testing.T) {
	base := NewShipDie(7)
	a := Prefixed(base, "ship-1/")
	b := Prefixed(base, "ship-2/")

	if got, want := a.Roll("x"), base.Roll("ship-1/x"); got != want {
		t.Errorf("Roll() = %v, want %v", got, want)
	}
	if a.Roll("x") == b.Roll("x") {
		t.Errorf("prefixes ship-1/ and ship-2/ rolled the same value")
	}
	if got := a.RollInRange("x", 10, 20); got < 10 || got >= 20 {
		t.Errorf("RollInRange() = %v, expected [10,20)", got)
	}
}
