package engine

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/Navot-Ram/starwards/pkg/bot"
	"github.com/Navot-Ram/starwards/pkg/die"
	"github.com/Navot-Ram/starwards/pkg/physics"
)

const duelHealth = 1000

func TestRankDuel_Deterministic(t *testing.T) {
	a := Duelist{Position: physics.Vector2D{X: -1500}, Bot: bot.Jouster}
	b := Duelist{Position: physics.Vector2D{X: 1500}, Angle: 180, Bot: bot.Jouster}
	settings := func() DuelSettings {
		return DuelSettings{StepSeconds: dt, MaxSeconds: 20, Die: die.NewShipDie(7)}
	}

	first, err := RankDuel(a, b, settings())
	if err != nil {
		t.Fatalf("RankDuel() error = %v", err)
	}
	second, err := RankDuel(a, b, settings())
	if err != nil {
		t.Fatalf("RankDuel() error = %v", err)
	}
	if first != second {
		t.Errorf("RankDuel() = %+v then %+v, want identical results for the same seed", first, second)
	}
	if first.Seconds <= 0 || first.Seconds > 20+dt {
		t.Errorf("Seconds = %v, want within (0, 20]", first.Seconds)
	}
}

func TestRankDuel_IdleTargetLoses(t *testing.T) {
	a := Duelist{Position: physics.Vector2D{X: -1000}, Bot: bot.Jouster}
	b := Duelist{Position: physics.Vector2D{X: 1000}}

	res, err := RankDuel(a, b, DuelSettings{StepSeconds: dt, MaxSeconds: 30, Die: die.NewShipDie(3)})
	if err != nil {
		t.Fatalf("RankDuel() error = %v", err)
	}
	if res.Score <= 0 {
		t.Errorf("Score = %v, want the attacking side ahead of an idle target", res.Score)
	}
	if res.Winner == DuelB {
		t.Errorf("Winner = %q, the idle ship cannot win", res.Winner)
	}
}

func TestRankDuel_InvalidStep(t *testing.T) {
	if _, err := RankDuel(Duelist{}, Duelist{}, DuelSettings{MaxSeconds: 1}); err == nil {
		t.Error("RankDuel() error = nil for a zero step, want error")
	}
}

func TestRandomDuelist_WithinSpread(t *testing.T) {
	rng := rand.New(rand.NewPCG(4, 5))
	for i := 0; i < 100; i++ {
		d := RandomDuelist(rng, bot.Jouster)
		if math.Abs(d.Position.X) > duelLocationRange/2 || math.Abs(d.Position.Y) > duelLocationRange/2 {
			t.Fatalf("Position = %+v, outside the %v square", d.Position, duelLocationRange)
		}
		if speed := d.Velocity.Length(); speed > duelSpeedMax+1e-9 {
			t.Fatalf("speed = %v, want at most %v", speed, duelSpeedMax)
		}
		if d.Bot == nil {
			t.Fatal("Bot = nil")
		}
	}
}

// TestRankBots_SameBotsAreEven flies mirrored pairs of identical pilots, so
// only setup luck shows in the scores and it cancels out.
func TestRankBots_SameBotsAreEven(t *testing.T) {
	if testing.Short() {
		t.Skip("long duel scenario")
	}
	const pairs = 10
	settings := DuelSettings{StepSeconds: dt, MaxSeconds: 60}
	newDie := func(i int) die.Die { return die.NewShipDie(uint64(i)) }

	r, err := RankBots(bot.Jouster, bot.Jouster, pairs, 1, settings, newDie)
	if err != nil {
		t.Fatalf("RankBots() error = %v", err)
	}
	if r.Duels != 2*pairs {
		t.Errorf("Duels = %d, want %d", r.Duels, 2*pairs)
	}
	if r.WinsA+r.WinsB+r.Draws != r.Duels {
		t.Errorf("wins %d + losses %d + draws %d != %d duels", r.WinsA, r.WinsB, r.Draws, r.Duels)
	}
	if math.Abs(r.Mean) > duelHealth/5 {
		t.Errorf("Mean = %v, want within ±%v", r.Mean, duelHealth/5)
	}
}

func TestRankBots_InvalidStep(t *testing.T) {
	newDie := func(int) die.Die { return die.NewShipDie(0) }
	if _, err := RankBots(bot.Jouster, bot.Jouster, 1, 1, DuelSettings{}, newDie); err == nil {
		t.Error("RankBots() error = nil for a zero step, want error")
	}
}
