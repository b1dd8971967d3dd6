package sapling

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Mesh is an indexed triangle list. Front faces wind counter-clockwise.
type Mesh struct {
	Name     string
	Vertices []mgl32.Vec3
	Indices  []uint16
}

// NumTriangles returns the number of triangles in the index list.
func (m *Mesh) NumTriangles() int {
	return len(m.Indices) / 3
}

// Bounds returns the local-space axis-aligned bounding box.
func (m *Mesh) Bounds() (lo, hi mgl32.Vec3) {
	if len(m.Vertices) == 0 {
		return lo, hi
	}
	lo, hi = m.Vertices[0], m.Vertices[0]
	for _, v := range m.Vertices[1:] {
		for i := range 3 {
			lo[i] = min(lo[i], v[i])
			hi[i] = max(hi[i], v[i])
		}
	}
	return lo, hi
}

// Validate checks that the index list is made of whole triangles and stays
// within the vertex list.
func (m *Mesh) Validate() error {
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("mesh %q: %d indices is not a whole number of triangles", m.Name, len(m.Indices))
	}
	for i, idx := range m.Indices {
		if int(idx) >= len(m.Vertices) {
			return fmt.Errorf("mesh %q: index %d (%d) out of range", m.Name, i, idx)
		}
	}
	return nil
}

// --- Mesh library ---

var meshes = map[string]*Mesh{}

func init() {
	for _, m := range []*Mesh{cubeMesh(), planeMesh(), tetrahedronMesh()} {
		RegisterMesh(m)
	}
}

// RegisterMesh makes m available to renderers under m.Name, replacing any
// mesh registered under the same name. Panics if m is invalid.
func RegisterMesh(m *Mesh) {
	if m == nil || m.Name == "" {
		panic("sapling: mesh must have a name")
	}
	if err := m.Validate(); err != nil {
		panic("sapling: " + err.Error())
	}
	meshes[m.Name] = m
}

// LookupMesh returns the mesh registered under name.
func LookupMesh(name string) (*Mesh, bool) {
	m, ok := meshes[name]
	return m, ok
}

// cubeMesh is a unit cube centered on the origin.
func cubeMesh() *Mesh {
	const h = 0.5
	return &Mesh{
		Name: "cube",
		Vertices: []mgl32.Vec3{
			{-h, -h, -h}, {h, -h, -h}, {h, h, -h}, {-h, h, -h},
			{-h, -h, h}, {h, -h, h}, {h, h, h}, {-h, h, h},
		},
		Indices: []uint16{
			4, 5, 6, 4, 6, 7, // +Z
			1, 0, 3, 1, 3, 2, // -Z
			5, 1, 2, 5, 2, 6, // +X
			0, 4, 7, 0, 7, 3, // -X
			7, 6, 2, 7, 2, 3, // +Y
			0, 1, 5, 0, 5, 4, // -Y
		},
	}
}

// planeMesh is a unit square in the XZ plane facing +Y.
func planeMesh() *Mesh {
	const h = 0.5
	return &Mesh{
		Name:     "plane",
		Vertices: []mgl32.Vec3{{-h, 0, h}, {h, 0, h}, {h, 0, -h}, {-h, 0, -h}},
		Indices:  []uint16{0, 1, 2, 0, 2, 3},
	}
}

// tetrahedronMesh is a regular tetrahedron inscribed in the unit cube.
func tetrahedronMesh() *Mesh {
	const h = 0.5
	return &Mesh{
		Name:     "tetrahedron",
		Vertices: []mgl32.Vec3{{h, h, h}, {h, -h, -h}, {-h, h, -h}, {-h, -h, h}},
		Indices:  []uint16{0, 1, 2, 0, 2, 3, 0, 3, 1, 1, 3, 2},
	}
}
