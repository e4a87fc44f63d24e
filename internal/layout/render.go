package layout

import (
	"image"
	"image/color"
	"image/draw"
)

var (
	colorRed             = color.NRGBA{R: 255, A: 255}
	colorGreen           = color.NRGBA{G: 255, A: 255}
	colorHalfTransparent = color.NRGBA{A: 100}
)

// paste composites e's raster over dst at its inner box. The raster's own
// alpha is the coverage: dst = src*a + dst*(1-a).
func paste(dst draw.Image, e Element) {
	img := e.Image()
	draw.Draw(dst, e.Inner(), img, img.Bounds().Min, draw.Over)
}

func strokeRect(dst draw.Image, r image.Rectangle, c color.Color) {
	src := image.NewUniform(c)
	edges := []image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+1),
		image.Rect(r.Min.X, r.Max.Y-1, r.Max.X, r.Max.Y),
		image.Rect(r.Min.X, r.Min.Y, r.Min.X+1, r.Max.Y),
		image.Rect(r.Max.X-1, r.Min.Y, r.Max.X, r.Max.Y),
	}
	for _, e := range edges {
		draw.Draw(dst, e, src, image.Point{}, draw.Src)
	}
}

func shade(dst draw.Image, r image.Rectangle, c color.Color) {
	draw.Draw(dst, r, image.NewUniform(c), image.Point{}, draw.Over)
}
