// Package metrics turns simulation events into OpenTelemetry instruments.
package metrics

import (
	"context"
	"fmt"
	"sync/atomic"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/Navot-Ram/starwards/pkg/event"
)

const instrumentationName = "github.com/Navot-Ram/starwards/pkg/metrics"

// Totals are the running counts behind the instruments.
type Totals struct {
	Ticks          int64
	Collisions     int64
	ShotsFired     int64
	SubsystemHits  int64
	ShipsDestroyed int64
	LiveObjects    int64
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithMeter replaces the global meter.
func WithMeter(m metric.Meter) Option {
	return func(r *Recorder) { r.meter = m }
}

// Recorder subscribes to a bus and records what it sees.
type Recorder struct {
	meter metric.Meter
	bus   *event.Bus
	subs  map[event.Type]event.SubscriptionID

	ticks          metric.Int64Counter
	tickDuration   metric.Float64Histogram
	collisions     metric.Int64Counter
	shotsFired     metric.Int64Counter
	subsystemHits  metric.Int64Counter
	shipsDestroyed metric.Int64Counter
	liveObjects    metric.Int64UpDownCounter

	totals struct {
		ticks, collisions, shots, hits, destroyed, live atomic.Int64
	}
}

// New creates the instruments and subscribes to bus.
// Uses the global OTel meter unless WithMeter is given (no-op if not configured).
func New(bus *event.Bus, opts ...Option) (*Recorder, error) {
	r := &Recorder{bus: bus, subs: make(map[event.Type]event.SubscriptionID)}
	for _, opt := range opts {
		opt(r)
	}
	if r.meter == nil {
		r.meter = otel.Meter(instrumentationName)
	}
	if err := r.createInstruments(); err != nil {
		return nil, err
	}

	r.subscribe(event.TickCompleted, r.onTick)
	r.subscribe(event.EntityCollision, r.onCollision)
	r.subscribe(event.ProjectileFired, r.onShot)
	r.subscribe(event.SubsystemDamaged, r.onSubsystemHit)
	r.subscribe(event.ShipDestroyed, r.onShipDestroyed)
	r.subscribe(event.ObjectInserted, r.onObject(1))
	r.subscribe(event.ObjectRemoved, r.onObject(-1))
	return r, nil
}

func (r *Recorder) createInstruments() error {
	var err error
	m := r.meter

	if r.ticks, err = m.Int64Counter("starwards.ticks",
		metric.WithDescription("Simulation ticks completed")); err != nil {
		return fmt.Errorf("creating ticks counter: %w", err)
	}
	if r.tickDuration, err = m.Float64Histogram("starwards.tick.duration",
		metric.WithDescription("Wall time per tick"),
		metric.WithUnit("s")); err != nil {
		return fmt.Errorf("creating tick duration histogram: %w", err)
	}
	if r.collisions, err = m.Int64Counter("starwards.collisions",
		metric.WithDescription("Body collisions resolved")); err != nil {
		return fmt.Errorf("creating collisions counter: %w", err)
	}
	if r.shotsFired, err = m.Int64Counter("starwards.shots.fired",
		metric.WithDescription("Chain gun shells fired")); err != nil {
		return fmt.Errorf("creating shots counter: %w", err)
	}
	if r.subsystemHits, err = m.Int64Counter("starwards.subsystem.damaged",
		metric.WithDescription("Subsystem damage rolls that landed")); err != nil {
		return fmt.Errorf("creating subsystem counter: %w", err)
	}
	if r.shipsDestroyed, err = m.Int64Counter("starwards.ships.destroyed",
		metric.WithDescription("Ships disabled")); err != nil {
		return fmt.Errorf("creating destroyed counter: %w", err)
	}
	if r.liveObjects, err = m.Int64UpDownCounter("starwards.objects.live",
		metric.WithDescription("Objects currently in the registry")); err != nil {
		return fmt.Errorf("creating live objects counter: %w", err)
	}
	return nil
}

func (r *Recorder) subscribe(t event.Type, h event.Handler) {
	r.subs[t] = r.bus.Subscribe(t, h)
}

// Close unsubscribes from the bus.
func (r *Recorder) Close() {
	for t, id := range r.subs {
		r.bus.Unsubscribe(t, id)
	}
	clear(r.subs)
}

// Totals returns the counts recorded so far.
func (r *Recorder) Totals() Totals {
	return Totals{
		Ticks:          r.totals.ticks.Load(),
		Collisions:     r.totals.collisions.Load(),
		ShotsFired:     r.totals.shots.Load(),
		SubsystemHits:  r.totals.hits.Load(),
		ShipsDestroyed: r.totals.destroyed.Load(),
		LiveObjects:    r.totals.live.Load(),
	}
}

func (r *Recorder) onTick(e event.Event) {
	tick, ok := e.(*event.TickEvent)
	if !ok {
		return
	}
	ctx := context.Background()
	r.totals.ticks.Add(1)
	r.ticks.Add(ctx, 1)
	if tick.Duration > 0 {
		r.tickDuration.Record(ctx, tick.Duration.Seconds())
	}
}

func (r *Recorder) onCollision(event.Event) {
	r.totals.collisions.Add(1)
	r.collisions.Add(context.Background(), 1)
}

func (r *Recorder) onShot(e event.Event) {
	r.totals.shots.Add(1)
	r.shotsFired.Add(context.Background(), 1, factionAttr(e))
}

func (r *Recorder) onSubsystemHit(e event.Event) {
	r.totals.hits.Add(1)
	attrs := []attribute.KeyValue{}
	if ship, ok := e.(*event.ShipEvent); ok {
		attrs = append(attrs, attribute.String("subsystem", ship.Detail))
	}
	r.subsystemHits.Add(context.Background(), 1, metric.WithAttributes(attrs...))
}

func (r *Recorder) onShipDestroyed(e event.Event) {
	r.totals.destroyed.Add(1)
	r.shipsDestroyed.Add(context.Background(), 1, factionAttr(e))
}

func (r *Recorder) onObject(delta int64) event.Handler {
	return func(e event.Event) {
		kind := "unknown"
		if obj, ok := e.(*event.ObjectEvent); ok {
			kind = obj.Kind
		}
		r.totals.live.Add(delta)
		r.liveObjects.Add(context.Background(), delta,
			metric.WithAttributes(attribute.String("kind", kind)))
	}
}

func factionAttr(e event.Event) metric.AddOption {
	faction := ""
	if ship, ok := e.(*event.ShipEvent); ok {
		faction = ship.Faction
	}
	return metric.WithAttributes(attribute.String("faction", faction))
}
