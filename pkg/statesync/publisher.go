package statesync

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/sony/gobreaker"

	"github.com/Navot-Ram/starwards/pkg/config"
	"github.com/Navot-Ram/starwards/pkg/logging"
)

// Publisher sends every n-th frame to a sink through a circuit breaker.
type Publisher struct {
	breaker       *gobreaker.CircuitBreaker
	sink          Sink
	logger        *logging.Logger
	ticksPerState uint64
	dropped       atomic.Uint64
}

// NewPublisher wraps sink with a breaker configured from cfg.
func NewPublisher(sink Sink, cfg config.TelemetryConfig, logger *logging.Logger) *Publisher {
	if logger == nil {
		logger = logging.Discard()
	}
	ticks := uint64(1)
	if cfg.TicksPerState > 1 {
		ticks = uint64(cfg.TicksPerState)
	}
	maxFails := cfg.Breaker.MaxConsecutiveFails

	settings := gobreaker.Settings{
		Name:        "starwards-telemetry",
		MaxRequests: cfg.Breaker.MaxRequests,
		Interval:    cfg.Breaker.Interval,
		Timeout:     cfg.Breaker.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFails
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Info(context.Background(), "circuit breaker state changed",
				"name", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	}

	return &Publisher{
		breaker:       gobreaker.NewCircuitBreaker(settings),
		sink:          sink,
		logger:        logger,
		ticksPerState: ticks,
	}
}

// Due reports whether the frame for tick should be published.
func (p *Publisher) Due(tick uint64) bool {
	return tick%p.ticksPerState == 0
}

// Publish writes f through the breaker. Frames rejected or failed are
// counted as dropped.
func (p *Publisher) Publish(ctx context.Context, f *Frame) error {
	_, err := p.breaker.Execute(func() (interface{}, error) {
		return nil, p.sink.Write(ctx, f)
	})
	if err != nil {
		p.dropped.Add(1)
		p.logger.Warn(ctx, "frame dropped",
			"tick", f.Tick,
			"state", p.breaker.State().String(),
			"error", err,
		)
		return fmt.Errorf("circuit breaker: %w", err)
	}
	return nil
}

// State returns the current state of the circuit breaker.
func (p *Publisher) State() gobreaker.State {
	return p.breaker.State()
}

// Counts returns the breaker's failure/success counts.
func (p *Publisher) Counts() gobreaker.Counts {
	return p.breaker.Counts()
}

// Dropped is the number of frames that never reached the sink.
func (p *Publisher) Dropped() uint64 {
	return p.dropped.Load()
}

// Close closes the sink.
func (p *Publisher) Close() error {
	return p.sink.Close()
}
