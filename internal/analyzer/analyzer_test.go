package analyzer

import (
	"image"
	"image/color"
	"testing"
)

func assertDisjoint(t *testing.T, regions []Region, bounds image.Rectangle) {
	t.Helper()
	for i, a := range regions {
		if !a.Rect.In(bounds) {
			t.Errorf("Region %d %v leaves %v", i, a.Rect, bounds)
		}
		for j := i + 1; j < len(regions); j++ {
			if a.Rect.Overlaps(regions[j].Rect) {
				t.Errorf("Regions %v and %v overlap", a.Rect, regions[j].Rect)
			}
		}
	}
}

func TestContrastDetector(t *testing.T) {
	// White page with a busy checkerboard band across the middle
	img := image.NewGray(image.Rect(0, 0, 200, 200))
	for y := 0; y < 200; y++ {
		for x := 0; x < 200; x++ {
			v := uint8(255)
			if y >= 80 && y < 120 && (x/4+y/4)%2 == 0 {
				v = 0
			}
			img.SetGray(x, y, color.Gray{Y: v})
		}
	}

	detector := NewContrastDetector()
	detector.MinRegionArea = 500
	regions, err := detector.Detect(img)
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if len(regions) == 0 {
		t.Fatal("Expected at least one flat region, got none")
	}
	assertDisjoint(t, regions, img.Bounds())

	band := image.Rect(0, 84, 200, 116)
	for _, r := range regions {
		if r.Rect.Overlaps(band) {
			t.Errorf("Region %v covers the busy band", r.Rect)
		}
		if r.Score < 0 || r.Score > 1 {
			t.Errorf("Score out of range: %f", r.Score)
		}
	}

	// The top area is flat and should come back as one wide region
	if top := regions[0].Rect; top.Min.Y != 0 || top.Dx() < 150 {
		t.Errorf("Expected a wide region at the top, got %v", top)
	}

	for i, r := range regions {
		t.Logf("Region %d: %v (type: %s, score: %.2f)", i, r.Rect, r.Type, r.Score)
	}
}

func TestContrastDetectorScalesLargeImages(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 2000, 1000))
	for i := range img.Pix {
		img.Pix[i] = 240
	}

	regions, err := NewContrastDetector().Detect(img)
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if len(regions) != 1 || regions[0].Rect != img.Bounds() {
		t.Errorf("Blank page should be a single region, got %v", Rects(regions))
	}
}

func TestMergeTiles(t *testing.T) {
	flat := [][]bool{
		{true, true, false},
		{true, true, true},
		{false, true, true},
	}
	got := mergeTiles(flat)
	want := []image.Rectangle{
		image.Rect(0, 0, 2, 2),
		image.Rect(2, 1, 3, 3),
		image.Rect(1, 2, 2, 3),
	}
	if len(got) != len(want) {
		t.Fatalf("Expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Tile rect %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestRandomDetector(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 800, 600))
	a, _ := NewRandomDetector(42).Detect(img)
	b, _ := NewRandomDetector(42).Detect(img)

	if len(a) == 0 {
		t.Fatal("Expected random regions")
	}
	assertDisjoint(t, a, img.Bounds())
	if len(a) != len(b) || a[0].Rect != b[0].Rect {
		t.Error("Same seed should give the same regions")
	}
}

func TestRandomDetectorReseed(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 800, 600))
	parent := NewRandomDetector(1)
	parent.Count = 3

	first, _ := parent.Reseed(7).Detect(img)
	parent.Detect(img)
	second, _ := parent.Reseed(7).Detect(img)

	if len(first) == 0 || len(first) > 3 {
		t.Fatalf("Expected 1-3 regions, got %d", len(first))
	}
	if len(first) != len(second) {
		t.Fatalf("Reseeded detectors disagree: %d vs %d regions", len(first), len(second))
	}
	for i := range first {
		if first[i].Rect != second[i].Rect {
			t.Errorf("Region %d: %v vs %v", i, first[i].Rect, second[i].Rect)
		}
	}
}

func TestGridDetector(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 300, 200))
	d := &GridDetector{Rows: 2, Cols: 3, Gutter: 10}
	regions, err := d.Detect(img)
	if err != nil {
		t.Fatal(err)
	}
	if len(regions) != 6 {
		t.Fatalf("Expected 6 cells, got %d", len(regions))
	}
	assertDisjoint(t, regions, img.Bounds())
	if regions[0].Rect != image.Rect(5, 5, 95, 95) {
		t.Errorf("Unexpected first cell %v", regions[0].Rect)
	}
}

func TestDetectorRegistry(t *testing.T) {
	tests := []struct {
		variant string
		want    string
		wantErr bool
	}{
		{"contrast", "contrast", false},
		{"", "contrast", false}, // default
		{"random", "random", false},
		{"grid", "grid", false},
		{"ocr", "", true},
		{"invalid", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.variant, func(t *testing.T) {
			detector, err := NewDetector(tt.variant, 1)

			if tt.wantErr {
				if err == nil {
					t.Error("Expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if detector.Name() != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, detector.Name())
			}
		})
	}
}
