package analyzer

import "image"

// GridDetector splits the image into Rows x Cols cells separated by Gutter
// pixels.
type GridDetector struct {
	Rows, Cols int
	Gutter     int
}

func NewGridDetector() *GridDetector {
	return &GridDetector{Rows: 3, Cols: 2, Gutter: 8}
}

func (d *GridDetector) Name() string { return "grid" }

func (d *GridDetector) Detect(img image.Image) ([]Region, error) {
	b := img.Bounds()
	rows, cols := max(1, d.Rows), max(1, d.Cols)
	var regions []Region
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			cell := image.Rect(
				b.Min.X+c*b.Dx()/cols,
				b.Min.Y+r*b.Dy()/rows,
				b.Min.X+(c+1)*b.Dx()/cols,
				b.Min.Y+(r+1)*b.Dy()/rows,
			).Inset(d.Gutter / 2)
			if cell.Empty() {
				continue
			}
			regions = append(regions, Region{Rect: cell, Type: "grid", Score: 0.5})
		}
	}
	return regions, nil
}
