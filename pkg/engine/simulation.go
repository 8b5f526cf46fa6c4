// Package engine hosts a simulation: the space registry and every ship
// manager run as systems of one ecs.World, advanced at a fixed rate.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/EngoEngine/ecs"

	"github.com/Navot-Ram/starwards/pkg/bot"
	"github.com/Navot-Ram/starwards/pkg/config"
	"github.com/Navot-Ram/starwards/pkg/die"
	"github.com/Navot-Ram/starwards/pkg/event"
	"github.com/Navot-Ram/starwards/pkg/logging"
	"github.com/Navot-Ram/starwards/pkg/physics"
	"github.com/Navot-Ram/starwards/pkg/ship"
	"github.com/Navot-Ram/starwards/pkg/space"
	"github.com/Navot-Ram/starwards/pkg/statesync"
	"github.com/Navot-Ram/starwards/pkg/validation"
)

var (
	// ErrUnknownShip is returned for commands to ships the simulation does not run.
	ErrUnknownShip = errors.New("unknown ship")
	// ErrRateLimited is returned when a ship receives commands faster than allowed.
	ErrRateLimited = errors.New("command rate limit exceeded")
)

// Option configures a Simulation.
type Option func(*Simulation)

// WithEventBus shares bus with the simulation.
func WithEventBus(bus *event.Bus) Option {
	return func(s *Simulation) { s.bus = bus }
}

// WithLogger sets the simulation logger.
func WithLogger(logger *logging.Logger) Option {
	return func(s *Simulation) { s.logger = logger }
}

// WithDie overrides the die chosen by the configuration.
func WithDie(d die.Die) Option {
	return func(s *Simulation) { s.die = d }
}

// WithPublisher streams state frames through p.
func WithPublisher(p *statesync.Publisher) Option {
	return func(s *Simulation) { s.publisher = p }
}

// WithCommandLimit caps every ship at maxCommands per window.
func WithCommandLimit(maxCommands int, window time.Duration) Option {
	return func(s *Simulation) { s.limiter = validation.NewRateLimiter(maxCommands, window) }
}

// Simulation is one running arena.
type Simulation struct {
	mu sync.Mutex

	world     ecs.World
	registry  *space.Registry
	fleet     *fleetSystem
	bus       *event.Bus
	logger    *logging.Logger
	die       die.Die
	publisher *statesync.Publisher
	limiter   *validation.RateLimiter
	ctx       context.Context

	tickSeconds float64
	// step is the exact length of the tick in progress.
	step float64

	running  atomic.Bool
	ticks    atomic.Uint64
	lastTick atomic.Int64
}

// New builds a simulation from cfg and places its ships and asteroids.
func New(cfg *config.SimConfig, opts ...Option) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Simulation{tickSeconds: cfg.TickSeconds()}
	for _, opt := range opts {
		opt(s)
	}
	if s.bus == nil {
		s.bus = event.NewEventBus()
	}
	if s.logger == nil {
		s.logger = logging.Discard()
	}
	if s.die == nil {
		s.die = NewDie(cfg.DieMode, cfg.Seed)
	}
	s.ctx = logging.WithCorrelationID(context.Background(), "")

	s.registry = space.NewRegistry(
		space.WithEventBus(s.bus),
		space.WithLogger(s.logger),
		space.WithSettings(space.Settings{
			CollisionDamageFactor: cfg.Physics.CollisionDamageFactor,
			Restitution:           cfg.Physics.Restitution,
		}),
	)
	s.fleet = &fleetSystem{sim: s}
	s.world.AddSystem(&spaceSystem{sim: s})
	s.world.AddSystem(s.fleet)
	s.bus.Subscribe(event.ObjectRemoved, s.onObjectRemoved)

	for _, a := range cfg.Asteroids {
		rock := space.NewAsteroid(a.ID, physics.Vector2D{X: a.X, Y: a.Y}, a.Radius)
		if err := s.registry.Insert(rock); err != nil {
			return nil, fmt.Errorf("add asteroid: %w", err)
		}
	}
	for _, sc := range cfg.Ships {
		if _, err := s.AddShip(sc); err != nil {
			return nil, err
		}
	}
	for _, sc := range cfg.Ships {
		if sc.Target != "" {
			m, _ := s.Manager(sc.ID)
			m.SetTarget(sc.Target)
		}
	}

	s.logger.Info(s.ctx, "simulation created",
		"ships", len(cfg.Ships),
		"asteroids", len(cfg.Asteroids),
		"tick_rate", cfg.TickRate,
		"die", cfg.DieMode,
	)
	return s, nil
}

// NewDie returns the die for a configured mode.
func NewDie(mode string, seed uint64) die.Die {
	if mode == config.DieRandom {
		return die.NewRandomDie(seed)
	}
	return die.NewShipDie(seed)
}

// AddShip inserts a ship described by sc and starts managing it.
func (s *Simulation) AddShip(sc config.ShipConfig) (*ship.Manager, error) {
	model, err := ship.LookupModel(sc.Model)
	if err != nil {
		return nil, fmt.Errorf("add ship %s: %w", sc.ID, err)
	}
	var pilot ship.Bot
	if sc.Bot != "" {
		build, err := bot.ByName(sc.Bot)
		if err != nil {
			return nil, fmt.Errorf("add ship %s: %w", sc.ID, err)
		}
		pilot = build()
	}
	obj := space.NewSpaceship(sc.ID, physics.Vector2D{X: sc.X, Y: sc.Y}, sc.Angle, sc.Faction)

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addShip(obj, model, pilot, nil)
}

// addShip inserts obj and registers its manager. onDestroy runs after the
// hulk is scheduled for removal. Callers hold mu or own the simulation.
func (s *Simulation) addShip(obj *space.Object, model ship.Model, pilot ship.Bot, onDestroy func()) (*ship.Manager, error) {
	if err := s.registry.Insert(obj); err != nil {
		return nil, fmt.Errorf("add ship: %w", err)
	}
	id := obj.ID
	m := ship.NewManager(s.registry, obj, model, s.die,
		ship.WithEventBus(s.bus),
		ship.WithLogger(s.logger),
		ship.WithBotFactory(bot.FromOrder),
		ship.WithOnDestroy(func() {
			if err := s.registry.Remove(id); err != nil {
				s.logger.Warn(s.ctx, "disabled ship already gone", "ship_id", id, "error", err)
			}
			if onDestroy != nil {
				onDestroy()
			}
		}),
	)
	m.SetBot(pilot)
	s.fleet.Add(&obj.Basic, m)
	s.logger.Debug(s.ctx, "ship added", "ship_id", id, "model", model.Name, "faction", obj.Faction)
	return m, nil
}

func (s *Simulation) onObjectRemoved(e event.Event) {
	removed, ok := e.(*event.ObjectEvent)
	if !ok {
		return
	}
	if basic, ok := s.fleet.entity(removed.BasicID); ok {
		s.world.RemoveEntity(basic)
		s.logger.Info(s.ctx, "ship left the arena", "ship_id", removed.ObjectID)
	}
}

// Tick advances the simulation by deltaSeconds: space first, then every ship.
func (s *Simulation) Tick(deltaSeconds float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	s.step = deltaSeconds
	s.world.Update(float32(deltaSeconds))
	tick := s.ticks.Add(1)
	s.lastTick.Store(time.Now().UnixNano())

	done := event.NewTickEvent(s, tick, deltaSeconds, s.registry.ElapsedSeconds())
	done.Duration = time.Since(start)
	s.bus.Publish(done)

	if s.publisher != nil && s.publisher.Due(tick) {
		frame := statesync.BuildFrame(tick, s.registry.ElapsedSeconds(), s.registry.Objects(), s.fleet.managers())
		if err := s.publisher.Publish(s.ctx, frame); err != nil {
			s.logger.Debug(s.ctx, "state frame not published", "tick", tick, "error", err)
		}
	}
}

// Run ticks at the configured rate until ctx is cancelled.
func (s *Simulation) Run(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return errors.New("simulation already running")
	}
	defer s.running.Store(false)

	ticker := time.NewTicker(time.Duration(s.tickSeconds * float64(time.Second)))
	defer ticker.Stop()

	s.logger.Info(s.ctx, "simulation started", "tick_seconds", s.tickSeconds)
	for {
		select {
		case <-ctx.Done():
			s.logger.Info(s.ctx, "simulation stopped", "ticks", s.ticks.Load())
			return nil
		case <-ticker.C:
			s.Tick(s.tickSeconds)
		}
	}
}

// Command writes a named ship property. Triggers treat any nonzero value as on.
func (s *Simulation) Command(shipID, name string, value float64) error {
	if err := validation.ValidateCommand(name, value); err != nil {
		return fmt.Errorf("command on %s: %w", shipID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.manager(shipID)
	if !ok {
		return fmt.Errorf("command %s: %w: %s", name, ErrUnknownShip, shipID)
	}
	if s.limiter != nil && !s.limiter.Allow(shipID) {
		return fmt.Errorf("command %s on %s: %w", name, shipID, ErrRateLimited)
	}
	props := m.Properties()
	if trigger, err := props.Trigger(name); err == nil {
		trigger.Set(value != 0)
		return nil
	}
	prop, err := props.Numeric(name)
	if err != nil {
		return fmt.Errorf("command %s on %s: %w", name, shipID, err)
	}
	if err := prop.Set(value); err != nil {
		return fmt.Errorf("command on %s: %w", shipID, err)
	}
	return nil
}

// Order hands a ship to the bot an order maps to, starting next tick.
func (s *Simulation) Order(o space.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registry.IssueOrder(o)
}

// Snapshot returns the current frame.
func (s *Simulation) Snapshot() *statesync.Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return statesync.BuildFrame(s.ticks.Load(), s.registry.ElapsedSeconds(), s.registry.Objects(), s.fleet.managers())
}

// Manager returns the manager of a live ship.
func (s *Simulation) Manager(id string) (*ship.Manager, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.manager(id)
}

func (s *Simulation) manager(id string) (*ship.Manager, bool) {
	for _, e := range s.fleet.entries {
		if e.manager.ID() == id {
			return e.manager, true
		}
	}
	return nil, false
}

// Registry exposes the space registry. Callers must not use it while Run is active.
func (s *Simulation) Registry() *space.Registry { return s.registry }

// Bus returns the simulation event bus.
func (s *Simulation) Bus() *event.Bus { return s.bus }

// Ticks is the number of completed ticks.
func (s *Simulation) Ticks() uint64 { return s.ticks.Load() }

// Running reports whether Run is active.
func (s *Simulation) Running() bool { return s.running.Load() }

// LastTick is the wall time the last tick finished, zero before the first.
func (s *Simulation) LastTick() time.Time {
	ns := s.lastTick.Load()
	if ns == 0 {
		return time.Time{}
	}
	return time.Unix(0, ns)
}

// TickSeconds is the configured step length.
func (s *Simulation) TickSeconds() float64 { return s.tickSeconds }
