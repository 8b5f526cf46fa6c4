// pkg/event/event_test.go
package event

import (
	"sync"
	"testing"

	"github.com/Navot-Ram/starwards/pkg/physics"
)

func TestNewEventBus_Creation_ReturnsInitializedBus(t *testing.T) {
	bus := NewEventBus()
	if bus == nil {
		t.Fatal("NewEventBus() returned nil")
	}
	if bus.handlers == nil {
		t.Error("handlers map not initialized")
	}
	if bus.nextID != 1 {
		t.Errorf("expected nextID to be 1, got %d", bus.nextID)
	}
}

func TestBusSubscribe_MultipleHandlers_DistinctIDs(t *testing.T) {
	bus := NewEventBus()
	a := bus.Subscribe(ShipDestroyed, func(Event) {})
	b := bus.Subscribe(ShipDestroyed, func(Event) {})
	if a == b {
		t.Errorf("Subscribe() returned duplicate ids %d", a)
	}
	if len(bus.handlers[ShipDestroyed]) != 2 {
		t.Errorf("expected 2 handlers, got %d", len(bus.handlers[ShipDestroyed]))
	}
}

func TestBusPublish_WithSubscribers_CallsHandlersInOrder(t *testing.T) {
	bus := NewEventBus()
	var calls []string
	bus.Subscribe(ProjectileFired, func(Event) { calls = append(calls, "first") })
	bus.Subscribe(ProjectileFired, func(Event) { calls = append(calls, "second") })
	bus.Subscribe(ShipDestroyed, func(Event) { calls = append(calls, "wrong") })

	bus.Publish(NewShipEvent(ProjectileFired, nil, "ship-1", "red", "shell-2"))

	if len(calls) != 2 || calls[0] != "first" || calls[1] != "second" {
		t.Errorf("handlers called = %v, want [first second]", calls)
	}
}

func TestBusPublish_NilBusOrNoSubscribers_NoPanic(t *testing.T) {
	var nilBus *Bus
	nilBus.Publish(NewTickEvent(nil, 1, 0.05, 0.05))
	NewEventBus().Publish(NewTickEvent(nil, 1, 0.05, 0.05))
}

func TestBusUnsubscribe_RemovesOnlyTarget(t *testing.T) {
	bus := NewEventBus()
	count := 0
	id := bus.Subscribe(EntityCollision, func(Event) { count += 10 })
	bus.Subscribe(EntityCollision, func(Event) { count++ })
	other := bus.Subscribe(ObjectRemoved, func(Event) { count += 100 })

	bus.Unsubscribe(EntityCollision, id)
	bus.Unsubscribe(EntityCollision, other) // wrong type: ignored
	bus.Publish(NewCollisionEvent(nil, "a", "b", 3, physics.Vector2D{}))
	bus.Publish(NewObjectEvent(ObjectRemoved, nil, "a", "asteroid", 1))

	if count != 101 {
		t.Errorf("count = %d, want 101", count)
	}
}

func TestBus_ConcurrentSubscribeAndPublish_ThreadSafe(t *testing.T) {
	bus := NewEventBus()
	var mu sync.Mutex
	received := 0
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			bus.Subscribe(TickCompleted, func(Event) {
				mu.Lock()
				received++
				mu.Unlock()
			})
		}()
		go func() {
			defer wg.Done()
			bus.Publish(NewTickEvent(nil, 1, 0.05, 1))
		}()
	}
	wg.Wait()

	mu.Lock()
	before := received
	mu.Unlock()
	bus.Publish(NewTickEvent(nil, 2, 0.05, 1))
	mu.Lock()
	defer mu.Unlock()
	if received-before != 10 {
		t.Errorf("final publish reached %d handlers, want 10", received-before)
	}
}

func TestEventConstructors_ValidParameters_ReturnCorrectEvents(t *testing.T) {
	tests := []struct {
		name  string
		event Event
		want  Type
	}{
		{"object", NewObjectEvent(ObjectInserted, "registry", "shell-1", "cannon_shell", 4), ObjectInserted},
		{"collision", NewCollisionEvent("registry", "a", "b", 1, physics.Vector2D{X: 1}), EntityCollision},
		{"ship", NewShipEvent(SubsystemDamaged, "ship", "s", "blue", "radar"), SubsystemDamaged},
		{"tick", NewTickEvent("engine", 7, 0.05, 0.35), TickCompleted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.event.GetType() != tt.want {
				t.Errorf("GetType() = %v, want %v", tt.event.GetType(), tt.want)
			}
		})
	}

	ship := NewShipEvent(ShipDestroyed, "src", "ship-9", "red", "")
	if ship.ShipID != "ship-9" || ship.Faction != "red" || ship.GetSource() != "src" {
		t.Errorf("NewShipEvent() = %+v", ship)
	}
}
