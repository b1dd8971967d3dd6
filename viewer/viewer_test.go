package viewer

import (
	"image/color"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/phanxgames/sapling"
)

const testScene = `{type: empty, id: 0, children: [
  {type: camera, id: 1, name: Cam, pos: [0, 0, 5], forward: [0, 0, -1], up: [0, 1, 0], fov: 45, near: 0.1, far: 100},
  {type: renderer, id: 2, transform: {pos: [0, 0, 0], rot: [0, 0, 0]}, mesh: cube, color: [0.25, 0.5, 1]}
]}`

func loadTestScene(t *testing.T) *sapling.Scene {
	t.Helper()
	s, err := sapling.LoadScene(testScene)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// --- Clock ---

func TestClockTick(t *testing.T) {
	c := newClock(800, 400)
	c.tick(0.25)
	c.tick(0.25)
	if c.Time() != 0.5 || c.Delta() != 0.25 {
		t.Errorf("Time/Delta = %v/%v, want 0.5/0.25", c.Time(), c.Delta())
	}
	if c.Aspect() != 2 {
		t.Errorf("Aspect = %v, want 2", c.Aspect())
	}
	c.resize(0, 0)
	if c.Aspect() != 1 {
		t.Errorf("Aspect = %v, want 1 for an empty window", c.Aspect())
	}
}

// --- Config ---

func TestNewGameDefaults(t *testing.T) {
	g := newGame(loadTestScene(t), RunConfig{})
	if g.width != defaultWidth || g.height != defaultHeight {
		t.Errorf("size = %dx%d, want %dx%d", g.width, g.height, defaultWidth, defaultHeight)
	}
	if g.cfg.Background != DefaultBackground {
		t.Errorf("Background = %v, want default", g.cfg.Background)
	}
	if g.fps != nil {
		t.Error("fps overlay should be off by default")
	}
	custom := newGame(loadTestScene(t), RunConfig{Width: 320, Height: 200, Background: color.RGBA{A: 255}})
	if custom.width != 320 || custom.cfg.Background != (color.RGBA{A: 255}) {
		t.Errorf("custom config not kept: %+v", custom.cfg)
	}
}

func TestNewGameNilScene(t *testing.T) {
	g := newGame(nil, RunConfig{})
	if g.input.camera != nil {
		t.Error("a nil scene has no camera to drive")
	}
	if g.label != "" {
		t.Errorf("label = %q, want empty", g.label)
	}
	g.clock.tick(0.5)
	g.input.update(g.clock.Delta())
	g.scene.Run(g.clock)
	g.buf.Reset()
	g.scene.Render(g.clock, g.buf)
	if len(g.buf.Draws) != 0 {
		t.Errorf("Draws = %d, want 0", len(g.buf.Draws))
	}
}

func TestLayoutUpdatesAspect(t *testing.T) {
	g := newGame(loadTestScene(t), RunConfig{})
	w, h := g.Layout(300, 150)
	if w != 300 || h != 150 {
		t.Errorf("Layout = %dx%d, want 300x150", w, h)
	}
	if g.clock.Aspect() != 2 {
		t.Errorf("Aspect = %v, want 2", g.clock.Aspect())
	}
}

// --- Triangles ---

func TestAppendTriangles(t *testing.T) {
	s := loadTestScene(t)
	app := newClock(100, 100)
	if err := s.Load(app); err != nil {
		t.Fatal(err)
	}
	buf := sapling.NewCommandBuffer()
	s.Render(app, buf)
	tris := sapling.Rasterize(buf, 100, 100)

	verts, inds := appendTriangles(nil, nil, tris)
	if len(verts) != 3*len(tris) || len(inds) != 3*len(tris) {
		t.Fatalf("verts/inds = %d/%d for %d triangles", len(verts), len(inds), len(tris))
	}
	for i, idx := range inds {
		if int(idx) != i {
			t.Errorf("inds[%d] = %d, want %d", i, idx, i)
		}
	}
	v := verts[0]
	if v.SrcX != 0.5 || v.SrcY != 0.5 || v.ColorA != 1 {
		t.Errorf("vertex = %+v, want center of the white pixel, opaque", v)
	}
	if v.ColorR != 0.25 || v.ColorG != 0.5 || v.ColorB != 1 {
		t.Errorf("vertex color = %v %v %v, want 0.25 0.5 1", v.ColorR, v.ColorG, v.ColorB)
	}
	if v.DstX != tris[0].Points[0].X() || v.DstY != tris[0].Points[0].Y() {
		t.Error("vertex position should match the triangle")
	}
}

func TestAppendTrianglesReusesBuffers(t *testing.T) {
	tris := []sapling.Triangle{{}, {}}
	verts, inds := appendTriangles(nil, nil, tris)
	verts, inds = appendTriangles(verts[:0], inds[:0], tris[:1])
	if len(verts) != 3 || len(inds) != 3 || inds[2] != 2 {
		t.Errorf("second frame: %d verts, inds %v", len(verts), inds)
	}
}

// --- Camera input ---

func TestCameraInputFindsCamera(t *testing.T) {
	s := loadTestScene(t)
	in := newCameraInput(s, 2)
	if in.camera != sapling.ComponentOf[sapling.Camera](s.Find("Cam")) {
		t.Error("input should drive the scene camera")
	}
}

func TestCameraInputNoCamera(t *testing.T) {
	s, err := sapling.LoadScene("{type: empty}")
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	in := newCameraInput(s, 2)
	in.update(1)
	if in.camera != nil {
		t.Error("no camera expected")
	}
}

// near compares componentwise with an absolute tolerance.
func near(got, want mgl32.Vec3) bool {
	for i := range got {
		if mgl32.Abs(got[i]-want[i]) > 1e-5 {
			return false
		}
	}
	return true
}

func TestCameraInputApply(t *testing.T) {
	s := loadTestScene(t)
	in := newCameraInput(s, 2)
	in.apply(1, 0, 0, 0.5)
	if !near(in.camera.Pos, mgl32.Vec3{0, 0, 4}) {
		t.Errorf("Pos = %v, want [0 0 4]", in.camera.Pos)
	}
	in.apply(0, 0, 1, 1)
	if !near(in.camera.Pos, mgl32.Vec3{0, 2, 4}) {
		t.Errorf("Pos = %v, want [0 2 4]", in.camera.Pos)
	}
	in.apply(0, 1, 0, 1)
	if !near(in.camera.Forward, mgl32.Vec3{-1, 0, 0}) {
		t.Errorf("Forward = %v, want [-1 0 0] after a quarter turn left", in.camera.Forward)
	}
}
