package sapling

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Light holds the color and intensities shared by every light source. It is
// only ever embedded in another component.
type Light struct {
	Color    mgl32.Vec3
	Ambient  float32
	Diffuse  float32
	Specular float32
}

// SetDefaults gives a dim white ambient term and full diffuse and specular.
func (l *Light) SetDefaults() {
	l.Color = mgl32.Vec3{1, 1, 1}
	l.Ambient = 0.1
	l.Diffuse = 1
	l.Specular = 1
}

func decodeLight(d *Decoder, l *Light) error {
	if err := d.Vec3("color", &l.Color); err != nil {
		return err
	}
	if err := d.Float("ambient_intensity", &l.Ambient); err != nil {
		return err
	}
	if err := d.Float("diffuse_intensity", &l.Diffuse); err != nil {
		return err
	}
	return d.Float("specular_intensity", &l.Specular)
}

func encodeLight(e *Encoder, l *Light) {
	e.Vec3("color", l.Color)
	e.Float("ambient_intensity", l.Ambient)
	e.Float("diffuse_intensity", l.Diffuse)
	e.Float("specular_intensity", l.Specular)
}

// --- Directional light ---

// DirectionalLight lights the whole scene from one direction. With a
// positive Frequency the direction orbits the Y axis at that many radians
// per second.
type DirectionalLight struct {
	Direction mgl32.Vec3
	Frequency float32
	Light     Light
}

// SetDefaults points the light down -Z.
func (l *DirectionalLight) SetDefaults() {
	l.Direction = mgl32.Vec3{0, 0, -1}
	l.Light.SetDefaults()
}

// Run orbits the direction when Frequency is positive.
func (l *DirectionalLight) Run(app App, _ *Scene, _ *Node) {
	if l.Frequency <= 0 {
		return
	}
	phase := float64(l.Frequency) * app.Time()
	l.Direction = mgl32.Vec3{float32(math.Cos(phase)), l.Direction.Y(), float32(math.Sin(phase))}
}

// Render hands the light to the pipeline.
func (l *DirectionalLight) Render(_ App, _ *Scene, _ *Node, p Pipeline) {
	p.SetDirectionalLight(l.Direction, l.Light)
}

func decodeDirectionalLight(d *Decoder, l *DirectionalLight) error {
	if err := d.Vec3("direction", &l.Direction); err != nil {
		return err
	}
	if err := d.Float("frequency", &l.Frequency); err != nil {
		return err
	}
	return Embed(d, "light", &l.Light)
}

func encodeDirectionalLight(e *Encoder, l *DirectionalLight) {
	e.Vec3("direction", l.Direction)
	e.Float("frequency", l.Frequency)
	EncodeEmbed(e, "light", &l.Light)
}

// --- Point light ---

// PointLight emits light from a position local to its nearest transform
// ancestor, attenuated with distance.
type PointLight struct {
	Pos     mgl32.Vec3
	Color   mgl32.Vec3
	Ambient float32
	Diffuse float32
}

// SetDefaults gives a white light at the origin.
func (l *PointLight) SetDefaults() {
	l.Color = mgl32.Vec3{1, 1, 1}
	l.Ambient = 0.1
	l.Diffuse = 1
}

// Render hands the light, in world space, to the pipeline.
func (l *PointLight) Render(_ App, _ *Scene, n *Node, p Pipeline) {
	pos := WorldMatrix(n).Mul4x1(l.Pos.Vec4(1)).Vec3()
	p.AddPointLight(pos, Light{Color: l.Color, Ambient: l.Ambient, Diffuse: l.Diffuse})
}

func decodePointLight(d *Decoder, l *PointLight) error {
	if err := d.Vec3("pos", &l.Pos); err != nil {
		return err
	}
	if err := d.Vec3("color", &l.Color); err != nil {
		return err
	}
	if err := d.Float("ambient_intensity", &l.Ambient); err != nil {
		return err
	}
	return d.Float("diffuse_intensity", &l.Diffuse)
}

func encodePointLight(e *Encoder, l *PointLight) {
	e.Vec3("pos", l.Pos)
	e.Vec3("color", l.Color)
	e.Float("ambient_intensity", l.Ambient)
	e.Float("diffuse_intensity", l.Diffuse)
}
