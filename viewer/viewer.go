package viewer

import (
	"errors"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/phanxgames/sapling"
)

// RunConfig configures the window opened by Run.
type RunConfig struct {
	Title      string
	Width      int
	Height     int
	ShowFPS    bool
	Background color.RGBA
	// ScreenshotDir receives the PNGs taken with F12. Empty selects
	// DefaultScreenshotDir.
	ScreenshotDir string
	// AutoSave writes the scene back to its file when the window closes.
	AutoSave bool
	// Speed is the camera move speed in units per second. Zero selects 2.
	Speed float32
}

const (
	defaultWidth  = 800
	defaultHeight = 600
	defaultSpeed  = 2
	turnSpeed     = 90 // degrees per second
)

// DefaultBackground is the clear color used when RunConfig.Background is zero.
var DefaultBackground = color.RGBA{R: 30, G: 30, B: 40, A: 255}

var whitePixel *ebiten.Image

// ensureWhitePixel returns the 1x1 source image for untextured triangles,
// creating it on first use.
func ensureWhitePixel() *ebiten.Image {
	if whitePixel == nil {
		whitePixel = ebiten.NewImage(1, 1)
		whitePixel.Fill(color.White)
	}
	return whitePixel
}

// Run opens a window and drives scene until the window is closed or Escape is
// pressed. A nil scene leaves the window empty. The scene is loaded first and closed on exit; the returned error
// is the first of the load, game loop and close errors.
func Run(scene *sapling.Scene, cfg RunConfig) error {
	g := newGame(scene, cfg)
	if err := scene.Load(g.clock); err != nil {
		_ = scene.Close()
		return err
	}

	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(g.width, g.height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	err := ebiten.RunGame(g)
	if errors.Is(err, ebiten.Termination) {
		err = nil
	}
	if cfg.AutoSave && scene != nil {
		scene.AutoSave = true
	}
	if cerr := scene.Close(); err == nil {
		err = cerr
	}
	return err
}

// game implements ebiten.Game for one scene.
type game struct {
	scene  *sapling.Scene
	cfg    RunConfig
	clock  *clock
	input  *cameraInput
	buf    *sapling.CommandBuffer
	raster sapling.Rasterizer
	fps    *fpsOverlay
	shots  screenshots
	label  string

	width, height int
	verts         []ebiten.Vertex
	inds          []uint32
}

func newGame(scene *sapling.Scene, cfg RunConfig) *game {
	if cfg.Width <= 0 {
		cfg.Width = defaultWidth
	}
	if cfg.Height <= 0 {
		cfg.Height = defaultHeight
	}
	if cfg.Speed <= 0 {
		cfg.Speed = defaultSpeed
	}
	if cfg.Background == (color.RGBA{}) {
		cfg.Background = DefaultBackground
	}
	if cfg.ScreenshotDir == "" {
		cfg.ScreenshotDir = DefaultScreenshotDir
	}
	var path string
	if scene != nil {
		path = scene.Path
	}
	g := &game{
		scene:  scene,
		cfg:    cfg,
		clock:  newClock(cfg.Width, cfg.Height),
		input:  newCameraInput(scene, cfg.Speed),
		buf:    sapling.NewCommandBuffer(),
		shots:  screenshots{dir: cfg.ScreenshotDir},
		label:  sceneLabel(path),
		width:  cfg.Width,
		height: cfg.Height,
	}
	if cfg.ShowFPS {
		g.fps = newFPSOverlay()
	}
	return g
}

func (g *game) Update() error {
	if ebiten.IsKeyPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		g.shots.request(g.label)
	}
	g.clock.tick(1 / float64(ebiten.TPS()))
	g.input.update(g.clock.Delta())
	g.scene.Run(g.clock)
	if g.fps != nil {
		g.fps.update(g.clock.Delta())
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	screen.Fill(g.cfg.Background)

	g.buf.Reset()
	g.scene.Render(g.clock, g.buf)
	tris := g.raster.Rasterize(g.buf, g.width, g.height)

	g.verts, g.inds = appendTriangles(g.verts[:0], g.inds[:0], tris)
	if len(g.inds) > 0 {
		var op ebiten.DrawTrianglesOptions
		op.ColorScaleMode = ebiten.ColorScaleModePremultipliedAlpha
		screen.DrawTriangles32(g.verts, g.inds, ensureWhitePixel(), &op)
	}

	g.shots.flush(screen)

	if g.fps != nil {
		g.fps.draw(screen)
	}
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.width, g.height = outsideWidth, outsideHeight
	g.clock.resize(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}

// appendTriangles converts rasterized triangles to vertices sampling the
// center of whitePixel, colored per triangle.
func appendTriangles(verts []ebiten.Vertex, inds []uint32, tris []sapling.Triangle) ([]ebiten.Vertex, []uint32) {
	for _, tri := range tris {
		base := uint32(len(verts))
		for _, p := range tri.Points {
			verts = append(verts, ebiten.Vertex{
				DstX:   p.X(),
				DstY:   p.Y(),
				SrcX:   0.5,
				SrcY:   0.5,
				ColorR: tri.Color.X(),
				ColorG: tri.Color.Y(),
				ColorB: tri.Color.Z(),
				ColorA: 1,
			})
		}
		inds = append(inds, base, base+1, base+2)
	}
	return verts, inds
}
