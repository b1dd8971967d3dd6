// Package ecs bridges sapling scenes into a [Donburi] world.
//
// [NewDonburiStore] forwards node lifecycle events (loaded, disposed) to the
// world as typed events. Subscribe to [NodeEventType] in your ECS systems to
// receive them, or let a [Tracker] keep one entity per live node.
//
// Usage:
//
//	world := donburi.NewWorld()
//	tracker := ecs.NewTracker(world)
//	scene.SetEntityStore(ecs.NewDonburiStore(world))
//	scene.Load(app)
//	events.ProcessAllEvents(world)
//
// [Mirror] takes a one-off snapshot of a scene instead.
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
