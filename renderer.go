package sapling

import "github.com/go-gl/mathgl/mgl32"

// Renderer draws a mesh from the mesh library. Its own Transform is applied
// after the transforms of its ancestors.
type Renderer struct {
	Transform Transform
	Mesh      string
	Color     mgl32.Vec3

	mesh *Mesh
}

// SetDefaults draws a white cube.
func (r *Renderer) SetDefaults() {
	r.Mesh = "cube"
	r.Color = mgl32.Vec3{1, 1, 1}
}

// Load resolves the mesh name.
func (r *Renderer) Load(_ App, _ *Scene, n *Node) error {
	m, ok := LookupMesh(r.Mesh)
	if !ok {
		return &Error{Kind: ErrIO, Msg: "unable to load mesh " + r.Mesh + " for " + n.String()}
	}
	r.mesh = m
	return nil
}

// Loaded reports whether Load has resolved the mesh.
func (r *Renderer) Loaded() bool {
	return r.mesh != nil
}

// Render submits one draw. Nothing is drawn before Load.
func (r *Renderer) Render(_ App, _ *Scene, n *Node, p Pipeline) {
	if r.mesh == nil {
		return
	}
	p.Draw(r.mesh, WorldMatrix(n).Mul4(r.Transform.Model()), r.Color)
}

// Dispose drops the mesh reference when the owning arena is released.
func (r *Renderer) Dispose() {
	r.mesh = nil
}

func decodeRenderer(d *Decoder, r *Renderer) error {
	if err := Embed(d, "transform", &r.Transform); err != nil {
		return err
	}
	if err := d.String("mesh", &r.Mesh); err != nil {
		return err
	}
	return d.Vec3("color", &r.Color)
}

func encodeRenderer(e *Encoder, r *Renderer) {
	EncodeEmbed(e, "transform", &r.Transform)
	e.String("mesh", r.Mesh)
	e.Vec3("color", r.Color)
}
