package engine

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/disintegration/imaging"

	"github.com/ivlev/synthtext/internal/analyzer"
	"github.com/ivlev/synthtext/internal/plan"
)

// background is a rendered page shared by all samples of that page. It is
// loaded on first use and dropped after the last sample releases it.
type background struct {
	once      sync.Once
	img       *image.NRGBA
	regions   []image.Rectangle
	err       error
	remaining atomic.Int32
}

func (g *Generator) initPages(n, uses int) {
	g.pages = make([]*background, n)
	for i := range g.pages {
		g.pages[i] = &background{}
		g.pages[i].remaining.Store(int32(uses))
	}
}

func (g *Generator) page(i int) (*background, error) {
	b := g.pages[i]
	b.once.Do(func() {
		b.img, b.regions, b.err = g.load(i)
	})
	return b, b.err
}

func (g *Generator) release(i int) {
	if b := g.pages[i]; b.remaining.Add(-1) == 0 {
		b.img, b.regions = nil, nil
	}
}

func (g *Generator) load(i int) (*image.NRGBA, []image.Rectangle, error) {
	img, err := g.render(i)
	if err != nil {
		return nil, nil, err
	}
	regions, err := g.regions(i, img)
	if err != nil {
		return nil, nil, err
	}
	g.Logger.Debug("background ready",
		"page", g.Source.PageName(i),
		"size", img.Rect.Size(),
		"regions", len(regions),
	)
	return img, regions, nil
}

func (g *Generator) render(i int) (*image.NRGBA, error) {
	img, err := g.Source.RenderPage(i, g.Config.DPI)
	if err != nil {
		return nil, fmt.Errorf("render page %d: %w", i, err)
	}
	return fitCanvas(img, g.Config.MaxCanvas), nil
}

// regions prefers the plan, then the fixed regions, then the detector.
func (g *Generator) regions(i int, img *image.NRGBA) ([]image.Rectangle, error) {
	size := img.Rect.Size()
	if g.plan != nil {
		if pg, ok := g.plan.Page(i); ok {
			return pg.Rectangles(size), nil
		}
		g.Logger.Warn("page missing from plan, detecting regions", "page", g.Source.PageName(i))
	}

	if len(g.Config.Layout.Regions) > 0 {
		fixed := g.fixedRegions(img.Rect)
		if len(fixed) == 0 {
			return nil, fmt.Errorf("no configured region overlaps the %v canvas", size)
		}
		return fixed, nil
	}

	pg, err := g.detect(i, img)
	if err != nil {
		return nil, err
	}
	return pg.Rectangles(size), nil
}

func (g *Generator) detect(i int, img *image.NRGBA) (plan.Page, error) {
	det := g.detector
	if r, ok := det.(analyzer.Reseeder); ok {
		det = r.Reseed(g.pageSeed(i))
	}
	found, err := det.Detect(img)
	if err != nil {
		return plan.Page{}, fmt.Errorf("detect regions: %w", err)
	}
	return g.builder.Build(i, g.Source.PageName(i), img.Rect.Size(), found)
}

// fitCanvas returns an NRGBA copy of img at the origin, scaled down so that
// neither side exceeds maxSide. maxSide <= 0 keeps the size.
func fitCanvas(img image.Image, maxSide int) *image.NRGBA {
	b := img.Bounds()
	if maxSide > 0 && (b.Dx() > maxSide || b.Dy() > maxSide) {
		return imaging.Fit(img, maxSide, maxSide, imaging.Lanczos)
	}
	return imaging.Clone(img)
}

func saveJPEG(img image.Image, dir, name string, quality int) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	path := filepath.Join(dir, name)
	if err := imaging.Save(img, path, imaging.JPEGQuality(quality)); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}
