package sapling

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/go-gl/mathgl/mgl32"
)

var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

func writeTestFile(t *testing.T, name, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// --- Reading ---

func TestReadSceneFromFile(t *testing.T) {
	path := writeTestFile(t, "scene.txt", sampleScene)
	s, err := ReadSceneFromFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if s.Path != path {
		t.Errorf("Path = %q, want %q", s.Path, path)
	}
	if s.NumNodes() != 8 {
		t.Errorf("NumNodes = %d, want 8", s.NumNodes())
	}
}

func TestReadSceneFromMissingFile(t *testing.T) {
	_, err := ReadSceneFromFile(filepath.Join(t.TempDir(), "nope.txt"))
	assertKind(t, err, ErrIO)
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("err = %v, want it to wrap fs.ErrNotExist", err)
	}
}

func TestReadSceneFromFileParseError(t *testing.T) {
	path := writeTestFile(t, "broken.txt", "{type: empty")
	_, err := ReadSceneFromFile(path)
	assertKind(t, err, ErrSyntax)
}

func TestReadScene(t *testing.T) {
	s, err := ReadScene(strings.NewReader(sampleScene))
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if s.Path != "" {
		t.Errorf("Path = %q, want empty for a reader", s.Path)
	}
}

func TestReadSceneReaderError(t *testing.T) {
	boom := errors.New("boom")
	_, err := ReadScene(iotest.ErrReader(boom))
	assertKind(t, err, ErrIO)
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want it to wrap the reader error", err)
	}
}

// --- Writing ---

func TestWriteSceneFileRoundTrip(t *testing.T) {
	s := mustLoad(t, sampleScene)
	path := filepath.Join(t.TempDir(), "out.txt")
	if err := WriteSceneFile(path, s); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != sampleScene {
		t.Errorf("file contents differ from the serialized scene:\n%s", data)
	}
}

func TestCompressedRoundTrip(t *testing.T) {
	s := mustLoad(t, sampleScene)
	path := filepath.Join(t.TempDir(), "out.txt"+CompressedExt)
	if err := WriteSceneFile(path, s); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, zstdMagic) {
		t.Errorf("compressed file should start with the zstd magic number, got % x", data[:4])
	}

	again, err := ReadSceneFromFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer again.Close()
	if string(MarshalScene(again)) != sampleScene {
		t.Error("compressed round trip changed the scene")
	}
}

func TestCompressedCorrupt(t *testing.T) {
	path := writeTestFile(t, "bad.zst", "not compressed at all")
	_, err := ReadSceneFromFile(path)
	assertKind(t, err, ErrIO)
}

func TestWriteSceneFileBadDir(t *testing.T) {
	s := mustLoad(t, sampleScene)
	err := WriteSceneFile(filepath.Join(t.TempDir(), "missing", "out.txt"), s)
	assertKind(t, err, ErrIO)
}

// --- Save and AutoSave ---

func TestSaveWithoutPath(t *testing.T) {
	s := mustLoad(t, sampleScene)
	assertKind(t, s.Save(), ErrIO)
}

func TestCloseAutoSaves(t *testing.T) {
	path := writeTestFile(t, "scene.txt", sampleScene)
	s, err := ReadSceneFromFile(path)
	if err != nil {
		t.Fatal(err)
	}
	ComponentOf[Transform](s.Find("Pivot")).Pos = mgl32.Vec3{3, 0, 0}
	s.AutoSave = true
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	again, err := ReadSceneFromFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer again.Close()
	if got := ComponentOf[Transform](again.Find("Pivot")).Pos; got != (mgl32.Vec3{3, 0, 0}) {
		t.Errorf("Pivot pos = %v, want the autosaved [3 0 0]", got)
	}
}

func TestCloseWithoutAutoSaveLeavesFile(t *testing.T) {
	path := writeTestFile(t, "scene.txt", sampleScene)
	s, err := ReadSceneFromFile(path)
	if err != nil {
		t.Fatal(err)
	}
	ComponentOf[Transform](s.Find("Pivot")).Pos = mgl32.Vec3{3, 0, 0}
	_ = s.Close()

	data, _ := os.ReadFile(path)
	if string(data) != sampleScene {
		t.Error("file changed without AutoSave")
	}
}
