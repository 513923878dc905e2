// Package ecs provides ECS adapters for rolloc spin events.
//
// The primary adapter is [NewDonburiStore], which bridges rolloc spin events
// (started, landed, missed) into a [Donburi] world as typed events.
// Subscribe to [SpinEventType] in your ECS systems to receive them.
//
// Usage:
//
//	store := ecs.NewDonburiStore(world)
//	wheel, err := rolloc.New(opts, rolloc.WithEventStore(store))
//
//	// in the game loop, on the world's goroutine:
//	store.Flush()
//	ecs.SpinEventType.ProcessEvents(world)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
