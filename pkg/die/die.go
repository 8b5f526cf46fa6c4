// Package die provides the roll sources that drive every probabilistic
// decision in the simulation. Rolls are addressed by a string id so that a
// seeded source can replay a whole fight.
package die

import (
	"encoding/binary"
	"math"
	"math/rand/v2"
	"sync"

	"github.com/cespare/xxhash/v2"
	"gonum.org/v1/gonum/stat/distuv"
)

// Die is a source of rolls in [0, 1).
type Die interface {
	// Roll returns a value in [0, 1) for id.
	Roll(id string) float64
	// Success reports whether a roll for id falls below probability.
	Success(id string, probability float64) bool
	// RollInRange returns a value in [min, max) for id.
	RollInRange(id string, min, max float64) float64
}

// ShipDie is deterministic: the same seed and id always produce the same roll.
type ShipDie struct {
	seed [8]byte
}

// NewShipDie creates a deterministic die for seed.
func NewShipDie(seed uint64) *ShipDie {
	d := &ShipDie{}
	binary.LittleEndian.PutUint64(d.seed[:], seed)
	return d
}

// Roll hashes the seed and id into [0, 1).
func (d *ShipDie) Roll(id string) float64 {
	h := xxhash.New()
	_, _ = h.Write(d.seed[:])
	_, _ = h.WriteString(id)
	// top 53 bits give an exactly representable fraction
	return float64(h.Sum64()>>11) / (1 << 53)
}

// Success implements Die.
func (d *ShipDie) Success(id string, probability float64) bool {
	return d.Roll(id) < probability
}

// RollInRange implements Die.
func (d *ShipDie) RollInRange(id string, min, max float64) float64 {
	return min + d.Roll(id)*(max-min)
}

// RandomDie ignores ids and draws from a PCG stream. It is safe for concurrent use.
type RandomDie struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomDie creates a random die. Equal seeds produce equal streams.
func NewRandomDie(seed uint64) *RandomDie {
	return &RandomDie{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Roll implements Die.
func (d *RandomDie) Roll(string) float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.rng.Float64()
}

// Success implements Die.
func (d *RandomDie) Success(id string, probability float64) bool {
	return d.Roll(id) < probability
}

// RollInRange implements Die.
func (d *RandomDie) RollInRange(id string, min, max float64) float64 {
	return min + d.Roll(id)*(max-min)
}

// Fixed always rolls Value. RollInRange returns Value when it lies inside
// [min, max) and min otherwise, which keeps scripted scenarios readable.
type Fixed struct {
	Value float64
}

// Roll implements Die.
func (f Fixed) Roll(string) float64 {
	return f.Value
}

// Success implements Die.
func (f Fixed) Success(_ string, probability float64) bool {
	return f.Value < probability
}

// RollInRange implements Die.
func (f Fixed) RollInRange(_ string, min, max float64) float64 {
	if f.Value >= min && f.Value < max {
		return f.Value
	}
	return min
}

// rollBound keeps inverse-CDF sampling away from infinite tails.
const rollBound = 1e-9

// Gaussian samples a normal distribution by inverting its CDF at a roll for id.
func Gaussian(d Die, id string, mean, stdDev float64) float64 {
	if stdDev <= 0 {
		return mean
	}
	p := math.Min(math.Max(d.Roll(id), rollBound), 1-rollBound)
	return distuv.Normal{Mu: mean, Sigma: stdDev}.Quantile(p)
}

// NormalCDF returns P(X <= x) for X ~ N(mean, stdDev). A zero deviation is a step.
func NormalCDF(x, mean, stdDev float64) float64 {
	if stdDev <= 0 {
		if x < mean {
			return 0
		}
		return 1
	}
	return distuv.Normal{Mu: mean, Sigma: stdDev}.CDF(x)
}

// Prefixed scopes every roll id of d under prefix, so that two ships sharing
// one die do not share outcomes.
func Prefixed(d Die, prefix string) Die {
	return prefixed{d: d, prefix: prefix}
}

type prefixed struct {
	d      Die
	prefix string
}

func (p prefixed) Roll(id string) float64 {
	return p.d.Roll(p.prefix + id)
}

func (p prefixed) Success(id string, probability float64) bool {
	return p.d.Success(p.prefix+id, probability)
}

func (p prefixed) RollInRange(id string, min, max float64) float64 {
	return p.d.RollInRange(p.prefix+id, min, max)
}
