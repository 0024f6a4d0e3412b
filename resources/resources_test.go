package resources

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestMapProvider(t *testing.T) {
	p := Map{"logo.png": []byte{1, 2, 3}}
	data, err := p.Get("logo.png")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(data) != 3 {
		t.Errorf("expected 3 bytes, got %d", len(data))
	}
	if _, err := p.Get("missing.png"); err == nil {
		t.Error("expected error for missing resource")
	}
}

func TestDirProvider(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.txt"), []byte("hello"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	p := NewDir(dir)
	data, err := p.Get("a.txt")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(data) != "hello" {
		t.Errorf("got %q", data)
	}
	if _, err := p.Get("b.txt"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestImageSize(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 30, 20))); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	w, h, err := ImageSize(buf.Bytes())
	if err != nil {
		t.Fatalf("ImageSize: %v", err)
	}
	if w != 30 || h != 20 {
		t.Errorf("got %fx%f, want 30x20", w, h)
	}
	if _, _, err := ImageSize([]byte("junk")); err == nil {
		t.Error("expected error for undecodable data")
	}
}
