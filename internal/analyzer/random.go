package analyzer

import (
	"image"
	"math/rand"
	"sync"
)

// RandomDetector proposes random disjoint rectangles, ignoring content.
type RandomDetector struct {
	Count   int     // Regions requested per image
	MinFrac float64 // Smallest region side as a share of the image side
	MaxFrac float64 // Largest region side as a share of the image side

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewRandomDetector(seed int64) *RandomDetector {
	return &RandomDetector{
		Count:   4,
		MinFrac: 0.15,
		MaxFrac: 0.5,
		rnd:     rand.New(rand.NewSource(seed)),
	}
}

func (d *RandomDetector) Name() string { return "random" }

// Reseed copies the settings onto a detector with its own source.
func (d *RandomDetector) Reseed(seed int64) Detector {
	r := NewRandomDetector(seed)
	r.Count, r.MinFrac, r.MaxFrac = d.Count, d.MinFrac, d.MaxFrac
	return r
}

// Detect gives up on a region after a fixed number of overlapping draws, so
// crowded images may get fewer than Count regions.
func (d *RandomDetector) Detect(img image.Image) ([]Region, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	b := img.Bounds()
	var regions []Region
	for tries := 0; len(regions) < d.Count && tries < d.Count*20; tries++ {
		w := d.side(b.Dx())
		h := d.side(b.Dy())
		if w <= 0 || h <= 0 {
			break
		}
		x := b.Min.X + d.rnd.Intn(b.Dx()-w+1)
		y := b.Min.Y + d.rnd.Intn(b.Dy()-h+1)
		r := image.Rect(x, y, x+w, y+h)

		if overlapsAny(r, regions) {
			continue
		}
		regions = append(regions, Region{Rect: r, Type: "random", Score: 0.5})
	}
	return regions, nil
}

func (d *RandomDetector) side(n int) int {
	lo := int(float64(n) * d.MinFrac)
	hi := int(float64(n) * d.MaxFrac)
	if hi <= lo {
		return min(lo, n)
	}
	return lo + d.rnd.Intn(hi-lo+1)
}

func overlapsAny(r image.Rectangle, regions []Region) bool {
	for _, o := range regions {
		if r.Overlaps(o.Rect) {
			return true
		}
	}
	return false
}
