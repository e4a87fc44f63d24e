package provider

import (
	"image"

	"github.com/skip2/go-qrcode"

	"github.com/ivlev/synthtext/internal/layout"
)

// QROptions bounds the side length of QR fragments in pixels.
type QROptions struct {
	MinSize int
	MaxSize int
}

// QRProvider encodes corpus text as QR codes.
type QRProvider struct {
	corpus *Corpus
	opts   QROptions
	rnd    layout.Rand
}

func NewQRProvider(c *Corpus, opts QROptions, rnd layout.Rand) *QRProvider {
	if opts.MinSize <= 0 {
		opts.MinSize = 40
	}
	if opts.MaxSize < opts.MinSize {
		opts.MaxSize = max(opts.MinSize, 160)
	}
	return &QRProvider{corpus: c, opts: opts, rnd: rnd}
}

// NextFragment ignores the orientation; QR codes are square.
func (p *QRProvider) NextFragment(maxW, maxH int, o layout.Orientation, canvas image.Image) (*layout.Fragment, bool) {
	side := min(maxW, maxH, p.opts.MaxSize)
	if side < p.opts.MinSize {
		return nil, false
	}
	content := p.corpus.Next(p.rnd, 4, 48)
	q, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return nil, false
	}
	q.DisableBorder = true

	// Image silently grows past size when the symbol needs more modules.
	img := q.Image(between(p.rnd, p.opts.MinSize, side))
	if s := img.Bounds().Size(); s.X > maxW || s.Y > maxH {
		return nil, false
	}
	return &layout.Fragment{
		Image:       img,
		Text:        content,
		Orientation: o,
		Kind:        layout.KindQR,
	}, true
}
