package plan

import (
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ivlev/synthtext/internal/analyzer"
)

func TestBuilder(t *testing.T) {
	b := NewBuilder()

	regions := []analyzer.Region{
		{Rect: image.Rect(300, 55, 500, 150), Type: "flat"},
		{Rect: image.Rect(50, 50, 200, 100), Type: "flat"},
		{Rect: image.Rect(50, 150, 300, 250), Type: "flat"},
		{Rect: image.Rect(0, 0, 10, 10), Type: "flat"}, // too small
	}

	page, err := b.Build(2, "test.png", image.Pt(600, 400), regions)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if page.Index != 2 || page.Name != "test.png" || page.Width != 600 || page.Height != 400 {
		t.Errorf("Unexpected page header %+v", page)
	}

	want := []Rect{
		{X: 50, Y: 50, W: 150, H: 50},
		{X: 300, Y: 55, W: 200, H: 95},
		{X: 50, Y: 150, W: 250, H: 100},
	}
	if len(page.Regions) != len(want) {
		t.Fatalf("Expected %d regions, got %d", len(want), len(page.Regions))
	}
	for i := range want {
		if page.Regions[i] != want[i] {
			t.Errorf("Region %d: expected %+v, got %+v", i, want[i], page.Regions[i])
		}
	}

	b.MaxRegions = 1
	if page, _ := b.Build(0, "x", image.Pt(600, 400), regions); len(page.Regions) != 1 {
		t.Errorf("Expected MaxRegions to cap the page, got %d", len(page.Regions))
	}

	if _, err := b.Build(0, "empty.png", image.Pt(10, 10), regions[3:]); err == nil {
		t.Error("Expected error when no region is usable")
	}
}

func TestBuilderStaggeredRows(t *testing.T) {
	a := analyzer.Region{Rect: image.Rect(300, 0, 360, 30)}
	b := analyzer.Region{Rect: image.Rect(200, 15, 260, 45)}
	c := analyzer.Region{Rect: image.Rect(100, 30, 160, 60)}
	d := analyzer.Region{Rect: image.Rect(0, 45, 60, 75)}
	want := []Rect{RectOf(b.Rect), RectOf(a.Rect), RectOf(d.Rect), RectOf(c.Rect)}

	inputs := [][]analyzer.Region{
		{a, b, c, d},
		{d, c, b, a},
		{c, a, d, b},
		{b, d, a, c},
	}
	for _, in := range inputs {
		page, err := NewBuilder().Build(0, "staggered", image.Pt(400, 100), in)
		if err != nil {
			t.Fatalf("Build failed: %v", err)
		}
		for i := range want {
			if page.Regions[i] != want[i] {
				t.Errorf("Input %v: region %d expected %+v, got %+v", analyzer.Rects(in), i, want[i], page.Regions[i])
			}
		}
	}
}

func TestPageRectangles(t *testing.T) {
	pg := Page{Width: 200, Height: 100, Regions: []Rect{{X: 10, Y: 20, W: 50, H: 30}}}

	if got := pg.Rectangles(image.Pt(200, 100))[0]; got != image.Rect(10, 20, 60, 50) {
		t.Errorf("Unscaled: got %v", got)
	}
	if got := pg.Rectangles(image.Pt(400, 50))[0]; got != image.Rect(20, 10, 120, 25) {
		t.Errorf("Scaled: got %v", got)
	}
	if r := RectOf(image.Rect(1, 2, 4, 8)); r.Rectangle() != image.Rect(1, 2, 4, 8) {
		t.Errorf("Rect round trip: %+v", r)
	}
}

func TestPlanWriteRead(t *testing.T) {
	p := &Plan{
		Version:  Version,
		Source:   "pages/",
		Detector: "contrast",
		Pages: []Page{
			{Index: 0, Name: "a.png", Width: 1280, Height: 720, Regions: []Rect{{X: 0, Y: 0, W: 640, H: 360}}},
			{Index: 1, Name: "b.png", Width: 1280, Height: 720},
		},
	}

	path := filepath.Join(t.TempDir(), "nested", "plan.yaml")
	if err := Write(p, path); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	got, err := Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if got.Version != p.Version || got.Detector != "contrast" {
		t.Errorf("Header mismatch: %+v", got)
	}
	if len(got.Pages) != 2 || got.Pages[0].Regions[0] != p.Pages[0].Regions[0] {
		t.Errorf("Pages mismatch: %+v", got.Pages)
	}

	if pg, ok := got.Page(1); !ok || pg.Name != "b.png" {
		t.Errorf("Page lookup failed: %+v %v", pg, ok)
	}
	if _, ok := got.Page(7); ok {
		t.Error("Unexpected page 7")
	}

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	os.WriteFile(bad, []byte("pages: [oops"), 0644)
	if _, err := Read(bad); err == nil {
		t.Error("Expected parse error")
	}
}

func TestGeneratePath(t *testing.T) {
	path := GeneratePath("plans")

	if !strings.HasPrefix(path, filepath.Join("plans", "plan_")) || !strings.HasSuffix(path, ".yaml") {
		t.Errorf("Unexpected plan path: %s", path)
	}
	t.Logf("Generated path: %s", path)
}

func TestFindLatest(t *testing.T) {
	dir := t.TempDir()
	files := []string{
		filepath.Join(dir, "plan_2026-02-12_10-00-00.yaml"),
		filepath.Join(dir, "plan_2026-02-13_01-00-00.yaml"),
		filepath.Join(dir, "plan_2026-02-11_15-30-00.yaml"),
	}
	for i, f := range files {
		if err := os.WriteFile(f, []byte("version: \"1.0\""), 0644); err != nil {
			t.Fatal(err)
		}
		modTime := time.Now().Add(time.Duration(i) * time.Hour)
		os.Chtimes(f, modTime, modTime)
	}
	os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip"), 0644)

	latest, err := FindLatest(dir)
	if err != nil {
		t.Fatalf("FindLatest failed: %v", err)
	}
	if latest != files[len(files)-1] {
		t.Errorf("Expected latest to be %s, got %s", files[len(files)-1], latest)
	}

	if _, err := FindLatest(t.TempDir()); err == nil {
		t.Error("Expected error for a directory without plans")
	}
}
