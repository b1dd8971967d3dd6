package sapling

import "github.com/go-gl/mathgl/mgl32"

// Script is a small built-in behavior: each frame it spins the nearest
// transform ancestor by Spin degrees per second and counts the frame.
// Args is free-form data kept for round trips.
type Script struct {
	Spin   mgl32.Vec3
	Args   []int
	Frames int
}

// Run advances the spin by the frame delta.
func (s *Script) Run(app App, _ *Scene, n *Node) {
	s.Frames++
	if s.Spin == (mgl32.Vec3{}) {
		return
	}
	t, _ := NearestTransform(n)
	if t == nil {
		return
	}
	t.Rotate(s.Spin.Mul(float32(app.Delta())))
}

func decodeScript(d *Decoder, s *Script) error {
	if err := d.Vec3("spin", &s.Spin); err != nil {
		return err
	}
	if err := d.Ints("args", &s.Args); err != nil {
		return err
	}
	return d.Int("frames", &s.Frames)
}

func encodeScript(e *Encoder, s *Script) {
	e.Vec3("spin", s.Spin)
	e.Ints("args", s.Args)
	e.Int("frames", s.Frames)
}
