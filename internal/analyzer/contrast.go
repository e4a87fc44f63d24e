package analyzer

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
)

// ContrastDetector finds flat areas: tiles with few Sobel edges are merged
// greedily into disjoint rectangles. Text laid over them stays readable.
type ContrastDetector struct {
	AnalysisSize   int     // Longest side the image is reduced to before analysis
	TileSize       int     // Tile edge in analysis pixels
	EdgeThreshold  float64 // Gradient magnitude threshold
	MaxEdgeDensity float64 // Share of edge pixels a tile may hold and still be flat
	MinRegionArea  int     // Minimum area in source pixels²
}

// NewContrastDetector creates a new contrast-based detector with default settings
func NewContrastDetector() *ContrastDetector {
	return &ContrastDetector{
		AnalysisSize:   640,
		TileSize:       16,
		EdgeThreshold:  30.0,
		MaxEdgeDensity: 0.02,
		MinRegionArea:  4000,
	}
}

func (d *ContrastDetector) Name() string { return "contrast" }

func (d *ContrastDetector) Detect(img image.Image) ([]Region, error) {
	bounds := img.Bounds()
	if bounds.Empty() {
		return nil, nil
	}

	// Step 1: Reduce and convert to grayscale
	small := img
	if max(bounds.Dx(), bounds.Dy()) > d.AnalysisSize {
		small = imaging.Fit(img, d.AnalysisSize, d.AnalysisSize, imaging.Box)
	}
	gray := toGrayscale(small)
	scaleX := float64(bounds.Dx()) / float64(gray.Rect.Dx())
	scaleY := float64(bounds.Dy()) / float64(gray.Rect.Dy())

	// Step 2: Sobel edges, dilated so glyph strokes spread into their tile
	edges := dilate(sobelEdgeDetection(gray, d.EdgeThreshold), 3, 1)

	// Step 3: Classify tiles
	flat, density := d.flatTiles(edges)

	// Step 4: Merge flat tiles into rectangles
	var regions []Region
	for _, t := range mergeTiles(flat) {
		r := image.Rect(
			bounds.Min.X+int(math.Round(float64(t.Min.X*d.TileSize)*scaleX)),
			bounds.Min.Y+int(math.Round(float64(t.Min.Y*d.TileSize)*scaleY)),
			bounds.Min.X+int(math.Round(float64(min(t.Max.X*d.TileSize, gray.Rect.Dx()))*scaleX)),
			bounds.Min.Y+int(math.Round(float64(min(t.Max.Y*d.TileSize, gray.Rect.Dy()))*scaleY)),
		).Intersect(bounds)
		if r.Dx()*r.Dy() < d.MinRegionArea {
			continue
		}
		regions = append(regions, Region{
			Rect:  r,
			Type:  "flat",
			Score: 1 - meanDensity(density, t)/math.Max(d.MaxEdgeDensity, 1e-9),
		})
	}
	return regions, nil
}

// flatTiles returns the flat mask and edge density per tile, indexed [row][col].
func (d *ContrastDetector) flatTiles(edges *image.Gray) ([][]bool, [][]float64) {
	b := edges.Bounds()
	cols := (b.Dx() + d.TileSize - 1) / d.TileSize
	rows := (b.Dy() + d.TileSize - 1) / d.TileSize
	flat := make([][]bool, rows)
	density := make([][]float64, rows)

	for ty := 0; ty < rows; ty++ {
		flat[ty] = make([]bool, cols)
		density[ty] = make([]float64, cols)
		for tx := 0; tx < cols; tx++ {
			tile := image.Rect(tx*d.TileSize, ty*d.TileSize, (tx+1)*d.TileSize, (ty+1)*d.TileSize).Add(b.Min).Intersect(b)
			on := 0
			for y := tile.Min.Y; y < tile.Max.Y; y++ {
				for x := tile.Min.X; x < tile.Max.X; x++ {
					if edges.GrayAt(x, y).Y > 128 {
						on++
					}
				}
			}
			dens := float64(on) / float64(tile.Dx()*tile.Dy())
			density[ty][tx] = dens
			flat[ty][tx] = dens <= d.MaxEdgeDensity
		}
	}
	return flat, density
}

// mergeTiles claims flat tiles row-major: each seed grows right as far as it
// can, then down while the whole span stays flat. Results are in tile units
// and never overlap.
func mergeTiles(flat [][]bool) []image.Rectangle {
	rows := len(flat)
	if rows == 0 {
		return nil
	}
	cols := len(flat[0])
	claimed := make([][]bool, rows)
	for i := range claimed {
		claimed[i] = make([]bool, cols)
	}
	free := func(x, y int) bool { return flat[y][x] && !claimed[y][x] }

	var out []image.Rectangle
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			if !free(x, y) {
				continue
			}
			x1 := x + 1
			for x1 < cols && free(x1, y) {
				x1++
			}
			y1 := y + 1
		grow:
			for y1 < rows {
				for cx := x; cx < x1; cx++ {
					if !free(cx, y1) {
						break grow
					}
				}
				y1++
			}
			for cy := y; cy < y1; cy++ {
				for cx := x; cx < x1; cx++ {
					claimed[cy][cx] = true
				}
			}
			out = append(out, image.Rect(x, y, x1, y1))
		}
	}
	return out
}

func meanDensity(density [][]float64, t image.Rectangle) float64 {
	sum := 0.0
	for y := t.Min.Y; y < t.Max.Y; y++ {
		for x := t.Min.X; x < t.Max.X; x++ {
			sum += density[y][x]
		}
	}
	return sum / float64(t.Dx()*t.Dy())
}

// toGrayscale converts an image to grayscale
func toGrayscale(img image.Image) *image.Gray {
	bounds := img.Bounds()
	gray := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			gray.Set(x-bounds.Min.X, y-bounds.Min.Y, color.GrayModel.Convert(img.At(x, y)))
		}
	}

	return gray
}

var (
	sobelX = [3][3]int{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	}
	sobelY = [3][3]int{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	}
)

// sobelEdgeDetection marks pixels whose gradient magnitude exceeds threshold
func sobelEdgeDetection(gray *image.Gray, threshold float64) *image.Gray {
	bounds := gray.Bounds()
	edges := image.NewGray(bounds)

	for y := bounds.Min.Y + 1; y < bounds.Max.Y-1; y++ {
		for x := bounds.Min.X + 1; x < bounds.Max.X-1; x++ {
			var sumX, sumY float64
			for ky := -1; ky <= 1; ky++ {
				for kx := -1; kx <= 1; kx++ {
					pixel := float64(gray.GrayAt(x+kx, y+ky).Y)
					sumX += pixel * float64(sobelX[ky+1][kx+1])
					sumY += pixel * float64(sobelY[ky+1][kx+1])
				}
			}
			if math.Hypot(sumX, sumY) > threshold {
				edges.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}

	return edges
}

// dilate performs morphological dilation
func dilate(img *image.Gray, kernelSize, iterations int) *image.Gray {
	bounds := img.Bounds()
	result := image.NewGray(bounds)
	copy(result.Pix, img.Pix)
	half := kernelSize / 2

	for iter := 0; iter < iterations; iter++ {
		temp := image.NewGray(bounds)
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				maxVal := uint8(0)
				for ky := max(bounds.Min.Y, y-half); ky <= min(bounds.Max.Y-1, y+half); ky++ {
					for kx := max(bounds.Min.X, x-half); kx <= min(bounds.Max.X-1, x+half); kx++ {
						maxVal = max(maxVal, result.GrayAt(kx, ky).Y)
					}
				}
				temp.SetGray(x, y, color.Gray{Y: maxVal})
			}
		}
		result = temp
	}

	return result
}
