// cmd/simulate/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/Navot-Ram/starwards/pkg/bot"
	"github.com/Navot-Ram/starwards/pkg/die"
	"github.com/Navot-Ram/starwards/pkg/engine"
	"github.com/Navot-Ram/starwards/pkg/logging"
)

func main() {
	ctx := logging.WithCorrelationID(context.Background(), "")
	logger := logging.NewLoggerWithWriter(os.Stderr, os.Getenv(logging.LevelEnv))

	names := strings.Join(bot.Names(), ", ")
	botA := flag.String("a", "jouster", "Bot flying side A ("+names+")")
	botB := flag.String("b", "jousterFlanker", "Bot flying side B ("+names+")")
	pairs := flag.Int("pairs", 25, "Mirrored duel pairs to fly")
	seed := flag.Uint64("seed", 1, "Seed for placements and dice")
	step := flag.Float64("step", 0.05, "Simulated seconds per tick")
	maxSeconds := flag.Float64("max-seconds", 120, "Duel time limit in simulated seconds")
	flag.Parse()

	a, err := bot.ByName(*botA)
	if err != nil {
		logger.Error(ctx, "Unknown bot", err, "side", engine.DuelA)
		os.Exit(2)
	}
	b, err := bot.ByName(*botB)
	if err != nil {
		logger.Error(ctx, "Unknown bot", err, "side", engine.DuelB)
		os.Exit(2)
	}

	logger.Info(ctx, "Ranking bots", "a", *botA, "b", *botB, "pairs", *pairs, "seed", *seed)
	settings := engine.DuelSettings{StepSeconds: *step, MaxSeconds: *maxSeconds}
	newDie := func(i int) die.Die { return die.NewShipDie(*seed + uint64(i)) }

	r, err := engine.RankBots(a, b, *pairs, *seed, settings, newDie)
	if err != nil {
		logger.Error(ctx, "Ranking failed", err)
		os.Exit(1)
	}

	fmt.Printf("%s vs %s over %d duels\n", *botA, *botB, r.Duels)
	fmt.Printf("  wins %d  losses %d  draws %d\n", r.WinsA, r.WinsB, r.Draws)
	fmt.Printf("  hull difference %.1f ± %.1f\n", r.Mean, r.StdDev)
}
