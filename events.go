package rolloc

import "time"

// SpinEventType identifies what happened to a spin.
type SpinEventType uint8

const (
	SpinStarted SpinEventType = iota // rotation advanced, animation requested
	SpinLanded                       // duration elapsed, item resolved
	SpinMissed                       // duration elapsed, no slice matched
)

func (t SpinEventType) String() string {
	switch t {
	case SpinStarted:
		return "started"
	case SpinLanded:
		return "landed"
	case SpinMissed:
		return "missed"
	}
	return "unknown"
}

// SpinEvent describes one step of a spin. Item and Index are set on
// SpinLanded only.
type SpinEvent struct {
	Type     SpinEventType
	Wheel    string
	Seq      uint64
	At       time.Time
	Duration time.Duration
	Delta    float64
	Rotation float64
	// Effective is the wheel angle under the anchor at landing.
	Effective float64
	Index     int
	Item      *Item
}

// EventStore receives spin events. EmitEvent is called from the goroutine that
// started the spin (SpinStarted) or from a clock goroutine (SpinLanded,
// SpinMissed), never while the wheel holds its lock.
type EventStore interface {
	EmitEvent(SpinEvent)
}

// EventStoreFunc adapts a function to EventStore.
type EventStoreFunc func(SpinEvent)

// EmitEvent calls f(e).
func (f EventStoreFunc) EmitEvent(e SpinEvent) { f(e) }
