// Package sapling loads, runs and saves 3D scenes described in a small
// whitespace-insignificant text format.
//
// A scene file is a tree of objects. Every object names a registered type,
// an optional integer ID and name, the fields of that type, and its children:
//
//	{
//	  type: transform,
//	  id: 1,
//	  name: Pivot,
//	  pos: [0, 0, -3],
//	  rot: [0, 45, 0],
//	  children: [
//	    { type: renderer, name: Box, transform: { type: transform, pos: [0, 0, 0], rot: [0, 0, 0] },
//	      mesh: cube, color: [1, 0.5, 0.2], children: [] }
//	  ]
//	}
//
// Whitespace is stripped before parsing, so names and strings cannot contain
// spaces.
//
// # Quick start
//
//	scene, err := sapling.ReadSceneFromFile("level.scene")
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer scene.Close()
//
//	if err := scene.Load(app); err != nil {
//		log.Fatal(err)
//	}
//	// once per frame:
//	scene.Run(app)
//	scene.Render(app, pipeline)
//
// The sapling/viewer package provides an [Ebitengine] window that does this
// for you.
//
// # Memory
//
// Every node and component of a scene is allocated from the scene's [Arena]
// and released at once by [Scene.Close]. A load that fails at any point
// releases everything it allocated and returns a tagged [*Error]; no partial
// scene is ever returned.
//
// # Adding a component type
//
// One call to [Register] from an init function is enough:
//
//	type Orbit struct{ Speed float32 }
//
//	func (o *Orbit) Run(app sapling.App, s *sapling.Scene, n *sapling.Node) { ... }
//
//	var ComponentOrbit = sapling.Register("orbit",
//		func(d *sapling.Decoder, o *Orbit) error { return d.Float("speed", &o.Speed) },
//		func(e *sapling.Encoder, o *Orbit) { e.Float("speed", o.Speed) })
//
// Components opt into per-frame work by implementing [Loadable], [Runnable]
// or [Renderable]. Scene lifecycle events can be forwarded to an ECS world
// with the [Donburi] adapter in sapling/ecs.
//
// [Ebitengine]: https://ebitengine.org
// [Donburi]: https://github.com/yohamta/donburi
package sapling
