package space

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/EngoEngine/ecs"

	"github.com/Navot-Ram/starwards/pkg/event"
	"github.com/Navot-Ram/starwards/pkg/logging"
	"github.com/Navot-Ram/starwards/pkg/physics"
)

var (
	// ErrNotFound is returned for ids that are not (or no longer) registered.
	ErrNotFound = errors.New("space object not found")
	// ErrDuplicateID is returned when inserting an object whose id is taken.
	ErrDuplicateID = errors.New("duplicate space object id")
	// ErrNotSpaceship is returned when a ship-only operation targets another kind.
	ErrNotSpaceship = errors.New("space object is not a spaceship")
)

// Reader is the read-only view of the registry that bots and ships use.
type Reader interface {
	Get(id string) (*Object, bool)
	Ships() []*Object
}

// Settings tunes collision physics.
type Settings struct {
	// CollisionDamageFactor scales CollisionDamage.
	CollisionDamageFactor float64
	// Restitution is the bounciness of body collisions, in [0, 1].
	Restitution float64
}

// DefaultSettings returns the stock collision tuning.
func DefaultSettings() Settings {
	return Settings{CollisionDamageFactor: 0.05, Restitution: 0.5}
}

// Option configures a Registry.
type Option func(*Registry)

// WithEventBus publishes registry events on bus.
func WithEventBus(bus *event.Bus) Option {
	return func(r *Registry) { r.bus = bus }
}

// WithLogger sets the registry logger.
func WithLogger(logger *logging.Logger) Option {
	return func(r *Registry) { r.logger = logger }
}

// WithSettings overrides the collision tuning.
func WithSettings(s Settings) Option {
	return func(r *Registry) { r.settings = s }
}

// Registry owns every space object. It is not safe for concurrent use; the
// host advances it from a single goroutine.
type Registry struct {
	objects  map[string]*Object
	order    []*Object
	damages  map[string][]Damage
	orders   map[string][]Order
	bus      *event.Bus
	logger   *logging.Logger
	settings Settings

	tick      uint64
	damageSeq uint64
	elapsed   float64
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		objects:  make(map[string]*Object),
		damages:  make(map[string][]Damage),
		orders:   make(map[string][]Order),
		settings: DefaultSettings(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = logging.Discard()
	}
	return r
}

// Insert adds obj, generating an id when it has none.
func (r *Registry) Insert(obj *Object) error {
	if obj == nil {
		return errors.New("insert: nil object")
	}
	if obj.Basic.ID() == 0 {
		obj.Basic = ecs.NewBasic()
	}
	if obj.ID == "" {
		obj.ID = fmt.Sprintf("%s-%d", obj.Kind, obj.Basic.ID())
	}
	if _, exists := r.objects[obj.ID]; exists {
		return fmt.Errorf("insert %s: %w", obj.ID, ErrDuplicateID)
	}
	r.objects[obj.ID] = obj
	r.order = append(r.order, obj)
	r.bus.Publish(event.NewObjectEvent(event.ObjectInserted, r, obj.ID, obj.Kind.String(), obj.Basic.ID()))
	return nil
}

// Get returns a live object by id.
func (r *Registry) Get(id string) (*Object, bool) {
	obj, ok := r.objects[id]
	if !ok || obj.Destroyed {
		return nil, false
	}
	return obj, true
}

// Objects returns every live object in insertion order.
func (r *Registry) Objects() []*Object {
	out := make([]*Object, 0, len(r.order))
	for _, o := range r.order {
		if !o.Destroyed {
			out = append(out, o)
		}
	}
	return out
}

// Ships returns every live spaceship in insertion order.
func (r *Registry) Ships() []*Object {
	out := make([]*Object, 0)
	for _, o := range r.order {
		if !o.Destroyed && o.Kind == KindSpaceship {
			out = append(out, o)
		}
	}
	return out
}

// Len returns the number of registered objects.
func (r *Registry) Len() int {
	return len(r.order)
}

// Tick returns the number of completed updates.
func (r *Registry) Tick() uint64 {
	return r.tick
}

// ElapsedSeconds returns the simulated time.
func (r *Registry) ElapsedSeconds() float64 {
	return r.elapsed
}

// Remove destroys an object; it disappears at the end of the next update.
func (r *Registry) Remove(id string) error {
	obj, ok := r.Get(id)
	if !ok {
		return fmt.Errorf("remove %s: %w", id, ErrNotFound)
	}
	obj.Destroyed = true
	return nil
}

// QueueDamage delivers damage to a ship on its next tick. An empty damage id is filled in.
func (r *Registry) QueueDamage(id string, d Damage) error {
	if _, ok := r.Get(id); !ok {
		return fmt.Errorf("queue damage for %s: %w", id, ErrNotFound)
	}
	if d.ID == "" {
		d.ID = r.nextDamageID()
	}
	r.damages[id] = append(r.damages[id], d)
	return nil
}

// ResolveObjectDamage returns and clears the damage queued for id.
func (r *Registry) ResolveObjectDamage(id string) []Damage {
	d := r.damages[id]
	delete(r.damages, id)
	return d
}

// IssueOrder queues an order for a ship.
func (r *Registry) IssueOrder(o Order) error {
	obj, ok := r.Get(o.ShipID)
	if !ok {
		return fmt.Errorf("order for %s: %w", o.ShipID, ErrNotFound)
	}
	if obj.Kind != KindSpaceship {
		return fmt.Errorf("order for %s: %w", o.ShipID, ErrNotSpaceship)
	}
	r.orders[o.ShipID] = append(r.orders[o.ShipID], o)
	return nil
}

// ResolveObjectOrder pops the oldest pending order for id.
func (r *Registry) ResolveObjectOrder(id string) (Order, bool) {
	pending := r.orders[id]
	if len(pending) == 0 {
		return Order{}, false
	}
	o := pending[0]
	if len(pending) == 1 {
		delete(r.orders, id)
	} else {
		r.orders[id] = pending[1:]
	}
	return o, true
}

// ChangeVelocity adds delta to an object's velocity.
func (r *Registry) ChangeVelocity(id string, delta physics.Vector2D) error {
	obj, ok := r.Get(id)
	if !ok {
		return fmt.Errorf("change velocity of %s: %w", id, ErrNotFound)
	}
	obj.Velocity = obj.Velocity.Add(delta)
	return nil
}

// ChangeTurnSpeed adds delta degrees per second to an object's turn speed.
func (r *Registry) ChangeTurnSpeed(id string, delta float64) error {
	obj, ok := r.Get(id)
	if !ok {
		return fmt.Errorf("change turn speed of %s: %w", id, ErrNotFound)
	}
	obj.TurnSpeed += delta
	return nil
}

// ChangeShipRadarRange sets a ship's radar range.
func (r *Registry) ChangeShipRadarRange(id string, radarRange float64) error {
	obj, ok := r.Get(id)
	if !ok {
		return fmt.Errorf("change radar range of %s: %w", id, ErrNotFound)
	}
	if obj.Kind != KindSpaceship {
		return fmt.Errorf("change radar range of %s: %w", id, ErrNotSpaceship)
	}
	obj.RadarRange = radarRange
	return nil
}

// Update advances every object by deltaSeconds: projectile sweeps, integration,
// body collisions, explosions, lifetimes, and finally removal of the dead.
func (r *Registry) Update(deltaSeconds float64) {
	r.tick++
	r.elapsed += deltaSeconds

	live := r.Objects()

	broad := newBroadPhase(live)
	for _, o := range live {
		if o.isProjectile() && !o.Destroyed {
			r.sweepProjectile(o, deltaSeconds, broad)
		}
	}

	for _, o := range live {
		if o.Destroyed {
			continue
		}
		o.Position = o.Position.Add(o.Velocity.Scale(deltaSeconds))
		if o.TurnSpeed != 0 {
			o.Angle = physics.PositiveDegrees(o.Angle + o.TurnSpeed*deltaSeconds)
		}
	}

	broad = newBroadPhase(live)
	r.collideBodies(live, broad)

	for _, o := range live {
		if o.Destroyed {
			continue
		}
		switch o.Kind {
		case KindExplosion:
			r.updateExplosion(o, deltaSeconds, broad)
		case KindCannonShell:
			o.SecondsToLive -= deltaSeconds
			if o.SecondsToLive <= 0 {
				r.explode(o, o.Position)
			}
		}
	}

	r.removeDestroyed()
}

// sweepProjectile explodes a projectile at its first surface contact during the step.
func (r *Registry) sweepProjectile(shell *Object, dt float64, broad *broadPhase) {
	displacement := shell.Velocity.Scale(dt)
	var (
		hit      *Object
		hitFrac  = math.Inf(1)
		hitSweep physics.Vector2D
	)
	for _, target := range broad.alongPath(shell, displacement, dt) {
		if target.Destroyed || target == shell {
			continue
		}
		frac, ok := physics.SweptContact(shell.Circle(), displacement, target.Circle(), target.Velocity.Scale(dt))
		if ok && frac < hitFrac {
			hit, hitFrac, hitSweep = target, frac, target.Velocity.Scale(dt*frac)
		}
	}
	if hit == nil {
		return
	}

	contact := shell.Position.Add(displacement.Scale(hitFrac))
	targetCenter := hit.Position.Add(hitSweep)
	relativeSpeed := shell.Velocity.Sub(hit.Velocity).Length()

	r.applyDamage(hit, CollisionDamage(r.settings.CollisionDamageFactor, relativeSpeed, hit.Radius),
		hitArc(hit, targetCenter, contact, shell.Radius), shell.ID)
	shell.Health = math.Max(0, shell.Health-CollisionDamage(r.settings.CollisionDamageFactor, relativeSpeed, shell.Radius))
	shell.Position = contact
	r.bus.Publish(event.NewCollisionEvent(r, shell.ID, hit.ID, relativeSpeed, contact))
	r.explode(shell, contact)
}

// explode replaces a projectile with its explosion.
func (r *Registry) explode(shell *Object, at physics.Vector2D) {
	shell.Destroyed = true
	if shell.Explosion == nil {
		return
	}
	explosion := newExplosion(shell.ID, at, *shell.Explosion)
	if err := r.Insert(explosion); err != nil {
		r.logger.Error(context.Background(), "explosion insert failed", err, "source", shell.ID)
		return
	}
	r.bus.Publish(event.NewObjectEvent(event.ExplosionSpawned, r, explosion.ID, explosion.Kind.String(), explosion.Basic.ID()))
}

// collideBodies resolves overlaps between ships and asteroids.
func (r *Registry) collideBodies(live []*Object, broad *broadPhase) {
	index := make(map[*Object]int, len(live))
	for i, o := range live {
		index[o] = i
	}
	for i, a := range live {
		if !a.isSolid() || a.Destroyed {
			continue
		}
		for _, b := range broad.near(a.Position, a.Radius) {
			if index[b] <= i || b.Destroyed || a.Destroyed {
				continue
			}
			r.resolveBodies(a, b)
		}
	}
}

func (r *Registry) resolveBodies(a, b *Object) {
	res := physics.CheckCollision(a.Circle(), b.Circle())
	if !res.Collided {
		return
	}
	ma, mb := a.Radius*a.Radius, b.Radius*b.Radius
	if ma+mb == 0 {
		return
	}

	a.Position = a.Position.Sub(res.Normal.Scale(res.Penetration * mb / (ma + mb)))
	b.Position = b.Position.Add(res.Normal.Scale(res.Penetration * ma / (ma + mb)))

	relative := a.Velocity.Sub(b.Velocity)
	approach := relative.Dot(res.Normal)
	if approach <= 0 {
		return
	}
	j := (1 + r.settings.Restitution) * approach / (1/ma + 1/mb)
	a.Velocity = a.Velocity.Sub(res.Normal.Scale(j / ma))
	b.Velocity = b.Velocity.Add(res.Normal.Scale(j / mb))

	speed := relative.Length()
	contact := res.ContactPoint
	r.applyDamage(a, CollisionDamage(r.settings.CollisionDamageFactor, speed, a.Radius), hitArc(a, a.Position, b.Position, b.Radius), b.ID)
	r.applyDamage(b, CollisionDamage(r.settings.CollisionDamageFactor, speed, b.Radius), hitArc(b, b.Position, a.Position, a.Radius), a.ID)
	r.bus.Publish(event.NewCollisionEvent(r, a.ID, b.ID, speed, contact))
}

// updateExplosion grows an explosion and damages and pushes what it touches.
func (r *Registry) updateExplosion(e *Object, dt float64, broad *broadPhase) {
	e.Radius += e.ExpansionSpeed * dt
	for _, o := range broad.near(e.Position, e.Radius) {
		if o.Destroyed || !o.isSolid() || !e.Circle().Collides(o.Circle()) {
			continue
		}
		r.applyDamage(o, e.DamageFactor*dt, hitArc(o, o.Position, e.Position, e.Radius), e.OwnerID)
		if push := o.Position.Sub(e.Position).Normalize(); !push.IsZero() {
			o.Velocity = o.Velocity.Add(push.Scale(e.BlastFactor * dt))
		}
	}
	e.SecondsToLive -= dt
	if e.SecondsToLive <= 0 {
		e.Destroyed = true
	}
}

// applyDamage lowers health and queues the hit for ships.
func (r *Registry) applyDamage(victim *Object, amount float64, arc physics.Arc, sourceID string) {
	if amount <= 0 || victim.Destroyed {
		return
	}
	victim.Health = math.Max(0, victim.Health-amount)
	if victim.Kind == KindSpaceship {
		r.damages[victim.ID] = append(r.damages[victim.ID], Damage{
			ID:       r.nextDamageID(),
			Amount:   amount,
			Arc:      arc,
			SourceID: sourceID,
		})
	}
	if victim.Health <= 0 {
		victim.Destroyed = true
	}
}

func (r *Registry) nextDamageID() string {
	r.damageSeq++
	return damageID(r.tick, r.damageSeq)
}

// removeDestroyed drops dead objects and everything queued for them.
func (r *Registry) removeDestroyed() {
	kept := r.order[:0]
	for _, o := range r.order {
		if !o.Destroyed {
			kept = append(kept, o)
			continue
		}
		delete(r.objects, o.ID)
		delete(r.damages, o.ID)
		delete(r.orders, o.ID)
		if o.Kind == KindSpaceship {
			r.logger.Debug(context.Background(), "spaceship removed", "ship_id", o.ID, "tick", r.tick)
		}
		r.bus.Publish(event.NewObjectEvent(event.ObjectRemoved, r, o.ID, o.Kind.String(), o.Basic.ID()))
	}
	for i := len(kept); i < len(r.order); i++ {
		r.order[i] = nil
	}
	r.order = kept
}
