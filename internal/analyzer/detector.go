package analyzer

import "image"

// Region is a candidate area of a background where fragments may be laid out.
type Region struct {
	Rect  image.Rectangle
	Type  string  // "flat", "random", "grid"
	Score float64 // 0.0-1.0, higher is more suitable
}

// Detector proposes disjoint regions for an image.
type Detector interface {
	Name() string
	Detect(img image.Image) ([]Region, error)
}

// Reseeder is implemented by detectors whose output depends on a random
// source. Reseed returns an independent detector drawing from seed.
type Reseeder interface {
	Reseed(seed int64) Detector
}

// Rects drops the metadata.
func Rects(regions []Region) []image.Rectangle {
	out := make([]image.Rectangle, len(regions))
	for i, r := range regions {
		out[i] = r.Rect
	}
	return out
}
