package ecs

import (
	"sync"

	"github.com/phanxgames/rolloc"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// SpinEventType is the Donburi event type for rolloc spin events.
var SpinEventType = events.NewEventType[rolloc.SpinEvent]()

// DonburiStore is a rolloc.EventStore backed by a Donburi world.
//
// Spins land on clock goroutines while a donburi world belongs to the game
// loop, so EmitEvent only buffers. Flush publishes the buffered events to
// SpinEventType, where events.Subscribe handlers pick them up on the next
// ProcessEvents.
type DonburiStore struct {
	world donburi.World

	mu      sync.Mutex
	pending []rolloc.SpinEvent
}

// NewDonburiStore creates an EventStore backed by a Donburi world.
func NewDonburiStore(world donburi.World) *DonburiStore {
	return &DonburiStore{world: world}
}

// EmitEvent buffers event until the next Flush. Safe for concurrent use.
func (s *DonburiStore) EmitEvent(event rolloc.SpinEvent) {
	s.mu.Lock()
	s.pending = append(s.pending, event)
	s.mu.Unlock()
}

// Flush publishes buffered events in emission order and returns how many were
// published. Call it from the goroutine that owns the world.
func (s *DonburiStore) Flush() int {
	s.mu.Lock()
	batch := s.pending
	s.pending = nil
	s.mu.Unlock()

	for _, e := range batch {
		SpinEventType.Publish(s.world, e)
	}
	return len(batch)
}

// Pending returns the number of buffered events.
func (s *DonburiStore) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}
