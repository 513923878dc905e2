// Package rolloc draws a segmented wheel, spins it and reports where it lands.
//
// A wheel is an ordered list of [Item] values split into equal slices. Each
// spin turns the wheel (or the anchor marker) further by a random amount, the
// render surface animates the turn, and once the spin duration has elapsed
// the item under the anchor is resolved.
//
// # Quick start
//
//	scene := rolloc.NewScene()
//	wheel, err := rolloc.Create(scene, rolloc.Options{
//		Items: []rolloc.Item{{Value: "red"}, {Value: "green"}, {Value: "blue"}},
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	spin, err := wheel.Spin(ctx, rolloc.SpinOptions{})
//	if err != nil {
//		log.Fatal(err)
//	}
//	item, err := spin.Wait(ctx)
//
// A [Scene] only animates when something calls [Scene.Update] each frame:
// [github.com/phanxgames/rolloc/screen] runs one in an Ebitengine window and
// [github.com/phanxgames/rolloc/term] in a terminal. [SVGSurface] renders the
// same scene as an SVG document with CSS transitions.
//
// # Angles
//
// All angles are degrees. 0° points along +x and angles grow clockwise on the
// y-down screen. Slice i of n covers (i*360/n, (i+1)*360/n]: a result exactly
// on a boundary belongs to the slice ending there, and 0 belongs to the last
// slice. See [Resolve].
//
// Rotation is cumulative: it only grows, is never wrapped, and is the absolute
// angle surfaces animate to. Resolution normalizes it into [0, 360).
//
// # Configuration
//
// [Options] merge over [DefaultConfig]. They can be decoded from YAML with
// [DecodeOptionsYAML] or JSON with [DecodeOptionsJSON]; unknown keys are
// rejected. Durations are milliseconds, either a number or a {min, max} range
// sampled per spin.
//
// # Scene graph
//
// [BuildLayout] turns a [Config] into a tree of [Node] values: wedges, labels,
// the boundary, the hub and the anchor. Nodes carry a position, rotation and
// pivot; world transforms are computed lazily from the parent chain.
//
// # Concurrency
//
// [Wheel] is safe for concurrent use. By default only one spin runs at a time
// and a second [Wheel.Spin] fails with [ErrSpinInProgress];
// [WithOverlappingSpins] lifts that. Spin completions run on the wheel's
// clock (see [WithClock]); tests inject a mock clock.
//
// Spin events can be observed with [WithEventStore]. The ecs sub-module
// bridges them into a [Donburi] world.
//
// [Donburi]: https://github.com/yohamta/donburi
package rolloc
