package viewer

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// DefaultScreenshotDir is used when RunConfig.ScreenshotDir is empty.
const DefaultScreenshotDir = "screenshots"

// screenshots holds the labels queued for capture at the end of Draw.
type screenshots struct {
	dir   string
	queue []string
}

func (s *screenshots) request(label string) {
	s.queue = append(s.queue, label)
}

// flush captures the finished frame once and writes one PNG per queued
// label. Errors are logged; the game loop keeps running.
func (s *screenshots) flush(screen *ebiten.Image) {
	if len(s.queue) == 0 {
		return
	}
	labels := s.queue
	s.queue = s.queue[:0]

	data, err := encodeFrame(screen)
	if err != nil {
		log.Printf("screenshot: %v", err)
		return
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		log.Printf("screenshot: %v", err)
		return
	}
	stamp := time.Now().Format("2006-01-02T150405")
	for _, label := range labels {
		path := filepath.Join(s.dir, sanitizeLabel(label)+"-"+stamp+".png")
		if err := os.WriteFile(path, data, 0o644); err != nil {
			log.Printf("screenshot: %v", err)
			continue
		}
		log.Printf("screenshot: saved %s", path)
	}
}

// encodeFrame reads back img as PNG bytes. Ebitengine and image.RGBA both
// store premultiplied alpha, so the pixels are copied as they are.
func encodeFrame(img *ebiten.Image) ([]byte, error) {
	rgba := image.NewRGBA(img.Bounds())
	img.ReadPixels(rgba.Pix)
	return encodePNG(rgba)
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// sceneLabel names screenshots after the scene file, without its extensions.
func sceneLabel(path string) string {
	if path == "" {
		return ""
	}
	base := filepath.Base(path)
	for ext := filepath.Ext(base); ext != ""; ext = filepath.Ext(base) {
		base = strings.TrimSuffix(base, ext)
	}
	return base
}

// sanitizeLabel makes label safe to use in a file name.
func sanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "scene"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case 'a' <= r && r <= 'z', 'A' <= r && r <= 'Z', '0' <= r && r <= '9':
			return r
		case r == '-', r == '.':
			return r
		}
		return '_'
	}, label)
}
