package plan

import "image"

// Plan lists the layout regions for every page of a background source.
type Plan struct {
	Version  string `yaml:"version"`
	Source   string `yaml:"source"`
	Detector string `yaml:"detector,omitempty"`
	Pages    []Page `yaml:"pages"`
}

// Page holds the regions of one background, in the coordinates of a canvas
// of Width x Height.
type Page struct {
	Index   int    `yaml:"index"`
	Name    string `yaml:"name"`
	Width   int    `yaml:"width"`
	Height  int    `yaml:"height"`
	Regions []Rect `yaml:"regions"`
}

// Rect represents a bounding box
type Rect struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
	W int `yaml:"w"`
	H int `yaml:"h"`
}

func RectOf(r image.Rectangle) Rect {
	return Rect{X: r.Min.X, Y: r.Min.Y, W: r.Dx(), H: r.Dy()}
}

func (r Rect) Rectangle() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.W, r.Y+r.H)
}

// Page returns the page with the given source index.
func (p *Plan) Page(index int) (Page, bool) {
	for _, pg := range p.Pages {
		if pg.Index == index {
			return pg, true
		}
	}
	return Page{}, false
}

// Rectangles maps the regions onto a canvas of size, scaling when the canvas
// differs from the one the page was planned on.
func (pg Page) Rectangles(size image.Point) []image.Rectangle {
	sx, sy := 1.0, 1.0
	if pg.Width > 0 && pg.Height > 0 {
		sx = float64(size.X) / float64(pg.Width)
		sy = float64(size.Y) / float64(pg.Height)
	}
	out := make([]image.Rectangle, 0, len(pg.Regions))
	for _, r := range pg.Regions {
		out = append(out, image.Rect(
			int(float64(r.X)*sx),
			int(float64(r.Y)*sy),
			int(float64(r.X+r.W)*sx),
			int(float64(r.Y+r.H)*sy),
		))
	}
	return out
}
