package sapling

import (
	"sort"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// easings maps the names accepted in scene files to easing functions.
var easings = map[string]ease.TweenFunc{
	"linear":         ease.Linear,
	"in_quad":        ease.InQuad,
	"out_quad":       ease.OutQuad,
	"in_out_quad":    ease.InOutQuad,
	"in_cubic":       ease.InCubic,
	"out_cubic":      ease.OutCubic,
	"in_out_cubic":   ease.InOutCubic,
	"in_sine":        ease.InSine,
	"out_sine":       ease.OutSine,
	"in_out_sine":    ease.InOutSine,
	"in_expo":        ease.InExpo,
	"out_expo":       ease.OutExpo,
	"out_bounce":     ease.OutBounce,
	"out_elastic":    ease.OutElastic,
	"in_out_elastic": ease.InOutElastic,
}

// Easings returns the sorted easing names a tween accepts.
func Easings() []string {
	names := make([]string, 0, len(easings))
	for name := range easings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Tween moves the position of a transform node, referenced by ID, to To over
// Duration seconds. With Loop set it starts over from the captured position
// each time it finishes. If the target node is disposed, the tween stops.
type Tween struct {
	Target   *Node
	To       mgl32.Vec3
	Duration float32
	Ease     string
	Loop     bool

	tweens [3]*gween.Tween
	target *Transform
	Done   bool
}

// SetDefaults gives a one second linear tween.
func (tw *Tween) SetDefaults() {
	tw.Duration = 1
	tw.Ease = "linear"
}

// Load captures the target's current position and builds one tween per axis.
func (tw *Tween) Load(_ App, _ *Scene, n *Node) error {
	tr := ComponentOf[Transform](tw.Target)
	if tr == nil {
		return schemaErrorf("%s: tween target must be a transform node", n)
	}
	fn, ok := easings[tw.Ease]
	if !ok {
		return schemaErrorf("%s: unknown easing %q", n, tw.Ease)
	}
	tw.target = tr
	for i := range 3 {
		tw.tweens[i] = gween.New(tr.Pos[i], tw.To[i], tw.Duration, fn)
	}
	tw.Done = false
	return nil
}

// Run advances all three tweens by the frame delta and writes the position.
func (tw *Tween) Run(app App, _ *Scene, _ *Node) {
	tw.Update(float32(app.Delta()))
}

// Update advances the tweens by dt seconds. It does nothing before Load or
// once Done is set.
func (tw *Tween) Update(dt float32) {
	if tw.Done || tw.target == nil {
		return
	}
	if tw.Target == nil || tw.Target.IsDisposed() {
		tw.Done = true
		return
	}

	allDone := true
	for i, t := range tw.tweens {
		val, finished := t.Update(dt)
		tw.target.Pos[i] = val
		if !finished {
			allDone = false
		}
	}
	if !allDone {
		return
	}
	if tw.Loop {
		for _, t := range tw.tweens {
			t.Reset()
		}
		return
	}
	tw.Done = true
}

// Dispose drops the tweens when the owning arena is released.
func (tw *Tween) Dispose() {
	tw.tweens = [3]*gween.Tween{}
	tw.target = nil
	tw.Target = nil
}

func decodeTween(d *Decoder, tw *Tween) error {
	if err := d.NodeRef("target", &tw.Target); err != nil {
		return err
	}
	if err := d.Vec3("to", &tw.To); err != nil {
		return err
	}
	if err := d.Float("duration", &tw.Duration); err != nil {
		return err
	}
	if err := d.String("ease", &tw.Ease); err != nil {
		return err
	}
	if _, ok := easings[tw.Ease]; !ok {
		return schemaErrorf("tween: field %q: unknown easing %q", "ease", tw.Ease)
	}
	return d.Bool("loop", &tw.Loop)
}

func encodeTween(e *Encoder, tw *Tween) {
	e.NodeRef("target", tw.Target)
	e.Vec3("to", tw.To)
	e.Float("duration", tw.Duration)
	e.String("ease", tw.Ease)
	e.Bool("loop", tw.Loop)
}
