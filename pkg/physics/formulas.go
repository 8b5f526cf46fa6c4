// pkg/physics/formulas.go
package physics

import "math"

// Epsilon is the clearance used for arc edges and spawn offsets.
const Epsilon = 0.01

// Range is a closed numeric interval.
type Range struct {
	Min float64
	Max float64
}

// Clamp caps value to the interval.
func (r Range) Clamp(value float64) float64 {
	return Clamp(value, r.Min, r.Max)
}

// Contains reports whether value lies in [Min, Max].
func (r Range) Contains(value float64) bool {
	return value >= r.Min && value <= r.Max
}

// Size returns Max - Min.
func (r Range) Size() float64 {
	return r.Max - r.Min
}

// Clamp caps value to [min, max].
func Clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// Lerp maps value linearly from one interval onto another. A degenerate
// source interval maps everything onto to.Min.
func Lerp(from, to Range, value float64) float64 {
	if from.Size() == 0 {
		return to.Min
	}
	return to.Min + (value-from.Min)/from.Size()*to.Size()
}

// SinWave samples amplitude*sin(2*pi*frequency*t + phase) + offset.
func SinWave(t, frequency, amplitude, phase, offset float64) float64 {
	return amplitude*math.Sin(2*math.Pi*frequency*t+phase) + offset
}

// LimitPrecision rounds to four decimal places so accumulated damage stays stable.
func LimitPrecision(value float64) float64 {
	return math.Round(value*1e4) / 1e4
}

// PositiveDegrees normalizes an angle into [0, 360).
func PositiveDegrees(degrees float64) float64 {
	r := math.Mod(degrees, 360)
	if r < 0 {
		r += 360
	}
	if r >= 360 {
		r = 0
	}
	return r
}

// DegreesDelta normalizes an angle difference into (-180, 180].
func DegreesDelta(degrees float64) float64 {
	r := PositiveDegrees(degrees)
	if r > 180 {
		r -= 360
	}
	return r
}

// Sign returns -1, 0 or 1.
func Sign(value float64) float64 {
	switch {
	case value > 0:
		return 1
	case value < 0:
		return -1
	}
	return 0
}

// StoppingSpeed is the highest speed from which a body decelerating at
// capacity can stop within distance.
func StoppingSpeed(distance, capacity float64) float64 {
	if distance <= 0 || capacity <= 0 {
		return 0
	}
	return math.Sqrt(2 * capacity * distance)
}
