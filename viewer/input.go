package viewer

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/phanxgames/sapling"
)

// cameraInput moves the first camera of the scene from the keyboard.
type cameraInput struct {
	camera *sapling.Camera
	speed  float32
}

func newCameraInput(scene *sapling.Scene, speed float32) *cameraInput {
	in := &cameraInput{speed: speed}
	scene.Root().Walk(func(n *sapling.Node) bool {
		if in.camera != nil {
			return false
		}
		in.camera = sapling.ComponentOf[sapling.Camera](n)
		return true
	})
	return in
}

// keyAxis returns +1, -1 or 0 depending on which of the two keys is held.
func keyAxis(pos, neg ebiten.Key) float32 {
	var v float32
	if ebiten.IsKeyPressed(pos) {
		v++
	}
	if ebiten.IsKeyPressed(neg) {
		v--
	}
	return v
}

func (in *cameraInput) update(dt float64) {
	if in.camera == nil {
		return
	}
	in.apply(
		keyAxis(ebiten.KeyW, ebiten.KeyS),
		keyAxis(ebiten.KeyA, ebiten.KeyD),
		keyAxis(ebiten.KeyE, ebiten.KeyQ),
		float32(dt),
	)
}

// apply moves the camera forward by fwd, turns it left by turn and raises it
// by rise, each scaled by dt.
func (in *cameraInput) apply(fwd, turn, rise, dt float32) {
	c := in.camera
	if turn != 0 {
		c.Yaw(turn * turnSpeed * dt)
	}
	if fwd != 0 {
		c.Translate(c.Forward.Normalize().Mul(fwd * in.speed * dt))
	}
	if rise != 0 {
		c.Translate(c.Up.Normalize().Mul(rise * in.speed * dt))
	}
}
