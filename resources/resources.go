// Package resources supplies external assets to the layout engine. Image
// nodes reference assets by source identifier; a Provider turns that
// identifier into bytes.
package resources

import (
	"bytes"
	"fmt"
	"image"
	"io/fs"
	"os"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Provider resolves a resource identifier to its raw bytes. Implementations
// must be safe for concurrent use.
type Provider interface {
	Get(name string) ([]byte, error)
}

// Map is an in-memory provider, mainly for tests and generated documents.
type Map map[string][]byte

func (m Map) Get(name string) ([]byte, error) {
	data, ok := m[name]
	if !ok {
		return nil, fmt.Errorf("resource %q not found", name)
	}
	return data, nil
}

// FS serves resources from any fs.FS.
type FS struct {
	fsys fs.FS
}

func NewFS(fsys fs.FS) *FS { return &FS{fsys: fsys} }

// NewDir serves resources from a directory on disk.
func NewDir(path string) *FS { return &FS{fsys: os.DirFS(path)} }

func (f *FS) Get(name string) ([]byte, error) {
	data, err := fs.ReadFile(f.fsys, name)
	if err != nil {
		return nil, fmt.Errorf("resource %q: %w", name, err)
	}
	return data, nil
}

// ImageSize probes the intrinsic pixel dimensions of encoded image data.
// PNG, JPEG, GIF, WebP and TIFF are recognized.
func ImageSize(data []byte) (w, h float64, err error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, fmt.Errorf("decode image: %w", err)
	}
	return float64(cfg.Width), float64(cfg.Height), nil
}
