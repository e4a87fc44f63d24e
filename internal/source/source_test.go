package source

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
)

func writeImage(t *testing.T, path string, w, h int) {
	t.Helper()
	img := imaging.New(w, h, color.NRGBA{R: 200, G: 100, B: 50, A: 255})
	if err := imaging.Save(img, path); err != nil {
		t.Fatalf("save %s: %v", path, err)
	}
}

func TestImageSourceDirectory(t *testing.T) {
	dir := t.TempDir()
	writeImage(t, filepath.Join(dir, "b.png"), 40, 30)
	writeImage(t, filepath.Join(dir, "a.JPG"), 20, 10)
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.png"), 0755); err != nil {
		t.Fatal(err)
	}

	src, err := Open(dir)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer src.Close()

	if src.PageCount() != 2 {
		t.Fatalf("Expected 2 pages, got %d", src.PageCount())
	}
	if src.PageName(0) != "a.JPG" || src.PageName(1) != "b.png" {
		t.Errorf("Pages not sorted: %s %s", src.PageName(0), src.PageName(1))
	}

	w, h, err := src.GetPageDimensions(1)
	if err != nil {
		t.Fatalf("GetPageDimensions failed: %v", err)
	}
	if w != 40 || h != 30 {
		t.Errorf("Expected 40x30, got %vx%v", w, h)
	}

	img, err := src.RenderPage(0, 150)
	if err != nil {
		t.Fatalf("RenderPage failed: %v", err)
	}
	if img.Bounds().Size() != image.Pt(20, 10) {
		t.Errorf("Unexpected page size %v", img.Bounds().Size())
	}
}

func TestImageSourceErrors(t *testing.T) {
	if _, err := NewImageSource(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("Expected error for missing path")
	}
	if _, err := NewImageSource(t.TempDir()); err == nil {
		t.Error("Expected error for a directory without images")
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "one.png")
	writeImage(t, path, 8, 8)
	src, err := NewImageSource(path)
	if err != nil {
		t.Fatalf("NewImageSource failed: %v", err)
	}
	if src.PageCount() != 1 {
		t.Errorf("Expected single page, got %d", src.PageCount())
	}
	if _, err := src.RenderPage(3, 72); err == nil {
		t.Error("Expected out of range error")
	}
	if _, _, err := src.GetPageDimensions(-1); err == nil {
		t.Error("Expected out of range error")
	}
	if src.PageName(5) != "" {
		t.Error("Out of range page should have no name")
	}
}

func TestOpenMissingPDF(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "missing.PDF")); err == nil {
		t.Error("Expected error for missing PDF")
	}
}
