package sapling

import "github.com/go-gl/mathgl/mgl32"

// Pipeline receives the draw state that components emit from Render.
// Scene.Render knows nothing about what an implementation does with it.
type Pipeline interface {
	SetCamera(view, proj mgl32.Mat4, eye mgl32.Vec3)
	SetDirectionalLight(dir mgl32.Vec3, l Light)
	AddPointLight(pos mgl32.Vec3, l Light)
	Draw(m *Mesh, model mgl32.Mat4, color mgl32.Vec3)
}

const defaultDrawCap = 256

// DrawCommand is a single mesh draw recorded during Scene.Render.
type DrawCommand struct {
	Mesh  *Mesh
	Model mgl32.Mat4
	Color mgl32.Vec3
}

// PointLightCommand is a point light recorded during Scene.Render.
type PointLightCommand struct {
	Pos   mgl32.Vec3
	Light Light
}

// CommandBuffer is a Pipeline that records one frame for later rasterizing.
// Without a camera the view and projection are the identity.
type CommandBuffer struct {
	View      mgl32.Mat4
	Proj      mgl32.Mat4
	Eye       mgl32.Vec3
	HasCamera bool

	SunDir mgl32.Vec3
	Sun    Light
	HasSun bool

	Points []PointLightCommand
	Draws  []DrawCommand
}

// NewCommandBuffer creates an empty command buffer.
func NewCommandBuffer() *CommandBuffer {
	b := &CommandBuffer{Draws: make([]DrawCommand, 0, defaultDrawCap)}
	b.Reset()
	return b
}

// Reset clears the buffer for the next frame, keeping its allocations.
func (b *CommandBuffer) Reset() {
	b.View = mgl32.Ident4()
	b.Proj = mgl32.Ident4()
	b.Eye = mgl32.Vec3{}
	b.HasCamera = false
	b.SunDir = mgl32.Vec3{}
	b.Sun = Light{}
	b.HasSun = false
	b.Points = b.Points[:0]
	b.Draws = b.Draws[:0]
}

// SetCamera records the camera. The last camera rendered in a frame wins.
func (b *CommandBuffer) SetCamera(view, proj mgl32.Mat4, eye mgl32.Vec3) {
	b.View, b.Proj, b.Eye = view, proj, eye
	b.HasCamera = true
}

// SetDirectionalLight records the directional light. The last one wins.
func (b *CommandBuffer) SetDirectionalLight(dir mgl32.Vec3, l Light) {
	b.SunDir, b.Sun = dir, l
	b.HasSun = true
}

// AddPointLight records a point light.
func (b *CommandBuffer) AddPointLight(pos mgl32.Vec3, l Light) {
	b.Points = append(b.Points, PointLightCommand{Pos: pos, Light: l})
}

// Draw records a mesh draw.
func (b *CommandBuffer) Draw(m *Mesh, model mgl32.Mat4, color mgl32.Vec3) {
	b.Draws = append(b.Draws, DrawCommand{Mesh: m, Model: model, Color: color})
}

// NumTriangles returns the number of triangles submitted this frame.
func (b *CommandBuffer) NumTriangles() int {
	n := 0
	for i := range b.Draws {
		n += b.Draws[i].Mesh.NumTriangles()
	}
	return n
}
