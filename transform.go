package sapling

import "github.com/go-gl/mathgl/mgl32"

// Transform places a subtree in space. Rot holds Euler angles in degrees.
type Transform struct {
	Pos mgl32.Vec3
	Rot mgl32.Vec3
}

// Model returns the local model matrix.
//
// Composition order:
//
//	Translate(Pos) * RotateX * RotateY * RotateZ
func (t *Transform) Model() mgl32.Mat4 {
	m := mgl32.Translate3D(t.Pos.X(), t.Pos.Y(), t.Pos.Z())
	m = m.Mul4(mgl32.HomogRotate3DX(mgl32.DegToRad(t.Rot.X())))
	m = m.Mul4(mgl32.HomogRotate3DY(mgl32.DegToRad(t.Rot.Y())))
	return m.Mul4(mgl32.HomogRotate3DZ(mgl32.DegToRad(t.Rot.Z())))
}

// Translate moves the transform by delta.
func (t *Transform) Translate(delta mgl32.Vec3) {
	t.Pos = t.Pos.Add(delta)
}

// Rotate adds delta degrees to each Euler angle, wrapping into [0, 360).
func (t *Transform) Rotate(delta mgl32.Vec3) {
	for i := range 3 {
		t.Rot[i] = wrapDegrees(t.Rot[i] + delta[i])
	}
}

func wrapDegrees(a float32) float32 {
	for a >= 360 {
		a -= 360
	}
	for a < 0 {
		a += 360
	}
	return a
}

// WorldMatrix returns the product of the model matrices of every transform
// node from the root down to n, n included. Non-transform nodes contribute
// the identity.
func WorldMatrix(n *Node) mgl32.Mat4 {
	m := mgl32.Ident4()
	for p := n; p != nil; p = p.Parent {
		if t := ComponentOf[Transform](p); t != nil {
			m = t.Model().Mul4(m)
		}
	}
	return m
}

// NearestTransform returns the transform of n or of its closest ancestor
// that is a transform node, together with that node. Both are nil when there
// is none.
func NearestTransform(n *Node) (*Transform, *Node) {
	for p := n; p != nil; p = p.Parent {
		if t := ComponentOf[Transform](p); t != nil {
			return t, p
		}
	}
	return nil, nil
}

func decodeTransform(d *Decoder, t *Transform) error {
	if err := d.Vec3("pos", &t.Pos); err != nil {
		return err
	}
	return d.Vec3("rot", &t.Rot)
}

func encodeTransform(e *Encoder, t *Transform) {
	e.Vec3("pos", t.Pos)
	e.Vec3("rot", t.Rot)
}
