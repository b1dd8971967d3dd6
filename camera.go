package sapling

import "github.com/go-gl/mathgl/mgl32"

// Camera is the viewpoint the scene is rendered from. Pos, Forward and Up are
// local to the nearest transform ancestor. FOV is the vertical field of view
// in degrees.
type Camera struct {
	Pos     mgl32.Vec3
	Forward mgl32.Vec3
	Up      mgl32.Vec3
	FOV     float32
	Near    float32
	Far     float32
}

// SetDefaults places the camera at the origin looking down -Z.
func (c *Camera) SetDefaults() {
	c.Forward = mgl32.Vec3{0, 0, -1}
	c.Up = mgl32.Vec3{0, 1, 0}
	c.FOV = 45
	c.Near = 0.1
	c.Far = 10
}

// Translate moves the camera by delta.
func (c *Camera) Translate(delta mgl32.Vec3) {
	c.Pos = c.Pos.Add(delta)
}

// Yaw turns the camera by deg degrees around its up axis.
func (c *Camera) Yaw(deg float32) {
	q := mgl32.QuatRotate(mgl32.DegToRad(deg), c.Up.Normalize())
	c.Forward = q.Rotate(c.Forward)
}

// Left returns the unit vector pointing to the camera's left.
func (c *Camera) Left() mgl32.Vec3 {
	return c.Up.Cross(c.Forward).Normalize()
}

// Eye returns the camera position and viewing direction in world space.
func (c *Camera) Eye(n *Node) (pos, forward mgl32.Vec3) {
	world := WorldMatrix(n)
	pos = world.Mul4x1(c.Pos.Vec4(1)).Vec3()
	forward = world.Mul4x1(c.Forward.Vec4(0)).Vec3()
	return pos, forward
}

// View returns the world-to-view matrix for the camera attached to n.
func (c *Camera) View(n *Node) mgl32.Mat4 {
	eye, forward := c.Eye(n)
	return mgl32.LookAtV(eye, eye.Add(forward), c.Up)
}

// Projection returns the perspective matrix for the given aspect ratio.
func (c *Camera) Projection(aspect float32) mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), aspect, c.Near, c.Far)
}

// Render hands the view and projection to the pipeline.
func (c *Camera) Render(app App, _ *Scene, n *Node, p Pipeline) {
	eye, _ := c.Eye(n)
	p.SetCamera(c.View(n), c.Projection(app.Aspect()), eye)
}

func decodeCamera(d *Decoder, c *Camera) error {
	if err := d.Vec3("pos", &c.Pos); err != nil {
		return err
	}
	if err := d.Vec3("forward", &c.Forward); err != nil {
		return err
	}
	if err := d.Vec3("up", &c.Up); err != nil {
		return err
	}
	if err := d.Float("fov", &c.FOV); err != nil {
		return err
	}
	if err := d.Float("near", &c.Near); err != nil {
		return err
	}
	return d.Float("far", &c.Far)
}

func encodeCamera(e *Encoder, c *Camera) {
	e.Vec3("pos", c.Pos)
	e.Vec3("forward", c.Forward)
	e.Vec3("up", c.Up)
	e.Float("fov", c.FOV)
	e.Float("near", c.Near)
	e.Float("far", c.Far)
}
