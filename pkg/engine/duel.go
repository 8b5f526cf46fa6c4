package engine

import (
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat"

	"github.com/Navot-Ram/starwards/pkg/config"
	"github.com/Navot-Ram/starwards/pkg/die"
	"github.com/Navot-Ram/starwards/pkg/physics"
	"github.com/Navot-Ram/starwards/pkg/ship"
	"github.com/Navot-Ram/starwards/pkg/space"
)

// Duel ship ids.
const (
	DuelA = "A"
	DuelB = "B"
)

// Duelist is one side of a duel.
type Duelist struct {
	Position  physics.Vector2D
	Velocity  physics.Vector2D
	Angle     float64
	TurnSpeed float64
	Bot       func() ship.Bot
}

// DuelResult is the outcome of RankDuel.
type DuelResult struct {
	// Winner is DuelA, DuelB or empty on timeout.
	Winner string
	// Score is A's hull health minus B's when the duel ended.
	Score   float64
	Seconds float64
}

// DuelSettings bound a duel.
type DuelSettings struct {
	StepSeconds float64
	MaxSeconds  float64
	Die         die.Die
}

// RankDuel flies a against b, each targeting the other, until one is
// disabled or destroyed or MaxSeconds of simulated time pass.
func RankDuel(a, b Duelist, settings DuelSettings) (DuelResult, error) {
	if settings.StepSeconds <= 0 {
		return DuelResult{}, fmt.Errorf("duel step must be positive, got %v", settings.StepSeconds)
	}
	cfg := config.DefaultConfig()
	cfg.Ships = nil
	cfg.Asteroids = nil
	opts := []Option{}
	if settings.Die != nil {
		opts = append(opts, WithDie(settings.Die))
	}
	sim, err := New(cfg, opts...)
	if err != nil {
		return DuelResult{}, err
	}

	var winner string
	place := func(id string, d Duelist, onDestroy func()) (*space.Object, error) {
		obj := space.NewSpaceship(id, d.Position, d.Angle, id)
		obj.Velocity = d.Velocity
		obj.TurnSpeed = d.TurnSpeed
		var pilot ship.Bot
		if d.Bot != nil {
			pilot = d.Bot()
		}
		m, err := sim.addShip(obj, ship.Dragonfly(), pilot, onDestroy)
		if err != nil {
			return nil, fmt.Errorf("duelist %s: %w", id, err)
		}
		m.SetTarget(otherDuelist(id))
		return obj, nil
	}
	objA, err := place(DuelA, a, func() { winner = DuelB })
	if err != nil {
		return DuelResult{}, err
	}
	objB, err := place(DuelB, b, func() { winner = DuelA })
	if err != nil {
		return DuelResult{}, err
	}

	elapsed := 0.0
	for winner == "" && elapsed < settings.MaxSeconds {
		sim.Tick(settings.StepSeconds)
		elapsed += settings.StepSeconds
		_, aliveA := sim.registry.Get(DuelA)
		_, aliveB := sim.registry.Get(DuelB)
		if winner != "" || (!aliveA && !aliveB) {
			break
		}
		if !aliveA {
			winner = DuelB
		} else if !aliveB {
			winner = DuelA
		}
	}
	return DuelResult{
		Winner:  winner,
		Score:   hull(objA) - hull(objB),
		Seconds: elapsed,
	}, nil
}

// Duel placement spread.
const (
	duelLocationRange = 10000.0
	duelSpeedMax      = 50.0
)

// RandomDuelist places a pilot anywhere in a 10km square with any heading
// and spin, drifting at up to 50 units/s.
func RandomDuelist(rng *rand.Rand, pilot func() ship.Bot) Duelist {
	return Duelist{
		Position: physics.Vector2D{
			X: (rng.Float64() - 0.5) * duelLocationRange,
			Y: (rng.Float64() - 0.5) * duelLocationRange,
		},
		Velocity:  physics.FromAngle(rng.Float64()*360, rng.Float64()*duelSpeedMax),
		Angle:     rng.Float64() * 360,
		TurnSpeed: rng.Float64() * 360,
		Bot:       pilot,
	}
}

// Ranking summarizes a series of mirrored duels between two pilots.
type Ranking struct {
	Duels  int
	WinsA  int
	WinsB  int
	Draws  int
	Mean   float64
	StdDev float64
}

// RankBots flies pairs random setups, each twice with the sides swapped,
// and scores every duel from a's point of view. newDie supplies a fresh die
// per duel so both legs of a pair roll the same sequence.
func RankBots(a, b func() ship.Bot, pairs int, seed uint64, settings DuelSettings, newDie func(i int) die.Die) (Ranking, error) {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	scores := make([]float64, 0, 2*pairs)
	var r Ranking
	for i := 0; i < pairs; i++ {
		first := RandomDuelist(rng, a)
		second := RandomDuelist(rng, b)

		settings.Die = newDie(i)
		forward, err := RankDuel(first, second, settings)
		if err != nil {
			return Ranking{}, err
		}
		r.tally(forward.Winner, DuelA)
		scores = append(scores, forward.Score)

		// same setups, pilots swapped; a stays side A
		first.Bot, second.Bot = b, a
		settings.Die = newDie(i)
		swapped, err := RankDuel(second, first, settings)
		if err != nil {
			return Ranking{}, err
		}
		r.tally(swapped.Winner, DuelA)
		scores = append(scores, swapped.Score)
	}
	r.Duels = len(scores)
	if r.Duels > 0 {
		r.Mean, r.StdDev = stat.MeanStdDev(scores, nil)
	}
	return r, nil
}

// tally counts a duel won by side aSide as a win for a.
func (r *Ranking) tally(winner, aSide string) {
	switch winner {
	case "":
		r.Draws++
	case aSide:
		r.WinsA++
	default:
		r.WinsB++
	}
}

func otherDuelist(id string) string {
	if id == DuelA {
		return DuelB
	}
	return DuelA
}

func hull(o *space.Object) float64 {
	if o.Health < 0 {
		return 0
	}
	return o.Health
}
