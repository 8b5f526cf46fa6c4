// pkg/event/event.go
package event

import (
	"sync"
	"time"

	"github.com/Navot-Ram/starwards/pkg/physics"
)

// Type represents the type of event
type Type string

// Simulation event types
const (
	ObjectInserted   Type = "object_inserted"
	ObjectRemoved    Type = "object_removed"
	EntityCollision  Type = "entity_collision"
	ExplosionSpawned Type = "explosion_spawned"
	ProjectileFired  Type = "projectile_fired"
	SubsystemDamaged Type = "subsystem_damaged"
	ShipDestroyed    Type = "ship_destroyed"
	TickCompleted    Type = "tick_completed"
)

// Event is the base interface for all events
type Event interface {
	GetType() Type
	GetSource() interface{}
}

// BaseEvent provides common functionality for all events
type BaseEvent struct {
	EventType Type
	Source    interface{}
}

// GetType returns the event type
func (e *BaseEvent) GetType() Type {
	return e.EventType
}

// GetSource returns the event source
func (e *BaseEvent) GetSource() interface{} {
	return e.Source
}

// Handler is a function that handles events
type Handler func(Event)

// SubscriptionID identifies a registered handler.
type SubscriptionID uint64

type subscription struct {
	id      SubscriptionID
	handler Handler
}

// Bus manages event subscriptions and dispatching. Handlers run synchronously
// on the publishing goroutine, in subscription order.
type Bus struct {
	handlers map[Type][]subscription
	nextID   SubscriptionID
	mu       sync.RWMutex
}

// NewEventBus creates a new event bus
func NewEventBus() *Bus {
	return &Bus{
		handlers: make(map[Type][]subscription),
		nextID:   1,
	}
}

// Subscribe registers a handler for a specific event type
func (b *Bus) Subscribe(eventType Type, handler Handler) SubscriptionID {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.handlers[eventType] = append(b.handlers[eventType], subscription{id: id, handler: handler})
	return id
}

// Unsubscribe removes a handler. Unknown ids are ignored.
func (b *Bus) Unsubscribe(eventType Type, id SubscriptionID) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.handlers[eventType]
	for i, s := range subs {
		if s.id == id {
			next := make([]subscription, 0, len(subs)-1)
			next = append(next, subs[:i]...)
			b.handlers[eventType] = append(next, subs[i+1:]...)
			return
		}
	}
}

// Publish sends an event to all subscribed handlers. A nil bus drops events.
func (b *Bus) Publish(event Event) {
	if b == nil {
		return
	}
	b.mu.RLock()
	subs := b.handlers[event.GetType()]
	b.mu.RUnlock()

	for _, s := range subs {
		s.handler(event)
	}
}

// ObjectEvent reports an object entering or leaving the registry.
type ObjectEvent struct {
	BaseEvent
	ObjectID string
	Kind     string
	BasicID  uint64
}

// NewObjectEvent creates an object lifecycle event
func NewObjectEvent(eventType Type, source interface{}, objectID, kind string, basicID uint64) *ObjectEvent {
	return &ObjectEvent{
		BaseEvent: BaseEvent{EventType: eventType, Source: source},
		ObjectID:  objectID,
		Kind:      kind,
		BasicID:   basicID,
	}
}

// CollisionEvent contains information about object collisions
type CollisionEvent struct {
	BaseEvent
	ObjectA       string
	ObjectB       string
	RelativeSpeed float64
	Contact       physics.Vector2D
}

// NewCollisionEvent creates a new collision event
func NewCollisionEvent(source interface{}, objectA, objectB string, relativeSpeed float64, contact physics.Vector2D) *CollisionEvent {
	return &CollisionEvent{
		BaseEvent:     BaseEvent{EventType: EntityCollision, Source: source},
		ObjectA:       objectA,
		ObjectB:       objectB,
		RelativeSpeed: relativeSpeed,
		Contact:       contact,
	}
}

// ShipEvent contains information about ship-related events
type ShipEvent struct {
	BaseEvent
	ShipID  string
	Faction string
	// Detail names the subsystem or projectile involved, when relevant.
	Detail string
}

// NewShipEvent creates a new ship event
func NewShipEvent(eventType Type, source interface{}, shipID, faction, detail string) *ShipEvent {
	return &ShipEvent{
		BaseEvent: BaseEvent{EventType: eventType, Source: source},
		ShipID:    shipID,
		Faction:   faction,
		Detail:    detail,
	}
}

// TickEvent reports a completed simulation tick.
type TickEvent struct {
	BaseEvent
	Tick           uint64
	DeltaSeconds   float64
	ElapsedSeconds float64
	// Duration is the wall time the tick took, when measured.
	Duration time.Duration
}

// NewTickEvent creates a tick completion event
func NewTickEvent(source interface{}, tick uint64, deltaSeconds, elapsedSeconds float64) *TickEvent {
	return &TickEvent{
		BaseEvent:      BaseEvent{EventType: TickCompleted, Source: source},
		Tick:           tick,
		DeltaSeconds:   deltaSeconds,
		ElapsedSeconds: elapsedSeconds,
	}
}
