package sapling

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// CompressedExt marks scene files stored zstd-compressed.
const CompressedExt = ".zst"

// ReadScene reads all of r and builds a scene from it.
func ReadScene(r io.Reader) (*Scene, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &Error{Kind: ErrIO, Msg: "unable to read scene", Err: err}
	}
	return LoadScene(string(data))
}

// ReadSceneFromFile loads the scene stored at path. Files ending in ".zst"
// are decompressed first. The returned scene remembers path for Save.
func ReadSceneFromFile(path string) (*Scene, error) {
	return ReadSceneFromFileWithOptions(path, LoadOptions{})
}

// ReadSceneFromFileWithOptions is ReadSceneFromFile with explicit arena sizes.
func ReadSceneFromFileWithOptions(path string, opts LoadOptions) (*Scene, error) {
	text, err := ReadText(path)
	if err != nil {
		return nil, err
	}
	s, err := LoadSceneWithOptions(text, opts)
	if err != nil {
		return nil, err
	}
	s.Path = path
	return s, nil
}

// ReadText returns the text of the scene file at path, decompressed when the
// name ends in ".zst".
func ReadText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", &Error{Kind: ErrIO, Msg: "unable to open file " + path, Err: err}
	}
	if isCompressed(path) {
		data, err = decompress(data)
		if err != nil {
			return "", &Error{Kind: ErrIO, Msg: "unable to decompress " + path, Err: err}
		}
	}
	debugf("read %s (%d bytes)", path, len(data))
	return string(data), nil
}

// WriteSceneFile writes the scene to path, compressing it when path ends in
// ".zst".
func WriteSceneFile(path string, s *Scene) error {
	data := MarshalScene(s)
	if isCompressed(path) {
		var err error
		if data, err = compress(data); err != nil {
			return &Error{Kind: ErrIO, Msg: "unable to compress " + path, Err: err}
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return &Error{Kind: ErrIO, Msg: "unable to write file " + path, Err: err}
	}
	debugf("wrote %s (%d bytes)", path, len(data))
	return nil
}

// Save writes the scene back to the file it was read from.
func (s *Scene) Save() error {
	if s.Path == "" {
		return &Error{Kind: ErrIO, Msg: "scene has no file path"}
	}
	return WriteSceneFile(s.Path, s)
}

func isCompressed(path string) bool {
	return strings.EqualFold(filepath.Ext(path), CompressedExt)
}

func decompress(data []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return dec.DecodeAll(data, nil)
}

func compress(data []byte) ([]byte, error) {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, err
	}
	defer enc.Close()
	return enc.EncodeAll(data, nil), nil
}
