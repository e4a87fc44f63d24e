package provider

import (
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/width"

	"github.com/ivlev/synthtext/internal/layout"
)

// TextOptions bounds the text fragments a TextImgProvider renders.
type TextOptions struct {
	MinFontSize int
	MaxFontSize int
	MinRunes    int
	MaxRunes    int
}

func (o TextOptions) withDefaults() TextOptions {
	if o.MinFontSize <= 0 {
		o.MinFontSize = 12
	}
	if o.MaxFontSize < o.MinFontSize {
		o.MaxFontSize = max(o.MinFontSize, 40)
	}
	if o.MinRunes <= 0 {
		o.MinRunes = 1
	}
	if o.MaxRunes < o.MinRunes {
		o.MaxRunes = max(o.MinRunes, 16)
	}
	return o
}

type faceKey struct {
	font, size int
}

// TextImgProvider renders corpus text into transparent rasters. Vertical
// fragments stack one rune per line. It is not safe for concurrent use.
type TextImgProvider struct {
	corpus *Corpus
	fonts  *FontSet
	opts   TextOptions
	rnd    layout.Rand
	faces  map[faceKey]font.Face
}

func NewTextImgProvider(c *Corpus, fs *FontSet, opts TextOptions, rnd layout.Rand) *TextImgProvider {
	return &TextImgProvider{
		corpus: c,
		fonts:  fs,
		opts:   opts.withDefaults(),
		rnd:    rnd,
		faces:  make(map[faceKey]font.Face),
	}
}

// NextFragment picks a font and size, then trims the text rune by rune until
// it fits. When even one rune is too large the size shrinks by a quarter
// until it drops below MinFontSize.
func (p *TextImgProvider) NextFragment(maxW, maxH int, o layout.Orientation, canvas image.Image) (*layout.Fragment, bool) {
	if maxW <= 0 || maxH <= 0 {
		return nil, false
	}
	text := []rune(p.corpus.Next(p.rnd, p.opts.MinRunes, p.opts.MaxRunes))
	fi := p.rnd.Intn(p.fonts.Len())

	for size := between(p.rnd, p.opts.MinFontSize, p.opts.MaxFontSize); size >= p.opts.MinFontSize; size = size * 3 / 4 {
		face, err := p.face(fi, size)
		if err != nil {
			return nil, false
		}
		runes := fitRunes(face, text, maxW, maxH, o)
		if len(runes) == 0 {
			continue
		}
		img := drawText(face, runes, o, pickColor(p.rnd, canvas))
		return &layout.Fragment{
			Image:       img,
			Text:        string(runes),
			Orientation: o,
			Kind:        layout.KindText,
		}, true
	}
	return nil, false
}

// Close releases cached faces.
func (p *TextImgProvider) Close() error {
	for k, f := range p.faces {
		f.Close()
		delete(p.faces, k)
	}
	return nil
}

func (p *TextImgProvider) face(fi, size int) (font.Face, error) {
	k := faceKey{fi, size}
	if f, ok := p.faces[k]; ok {
		return f, nil
	}
	f, err := p.fonts.face(fi, size)
	if err != nil {
		return nil, err
	}
	p.faces[k] = f
	return f, nil
}

func fitRunes(face font.Face, text []rune, maxW, maxH int, o layout.Orientation) []rune {
	for n := len(text); n > 0; n-- {
		runes := trimSpace(text[:n])
		if len(runes) == 0 {
			continue
		}
		w, h := measure(face, runes, o)
		if w > 0 && w <= maxW && h <= maxH {
			return runes
		}
	}
	return nil
}

func trimSpace(r []rune) []rune {
	for len(r) > 0 && r[len(r)-1] == ' ' {
		r = r[:len(r)-1]
	}
	for len(r) > 0 && r[0] == ' ' {
		r = r[1:]
	}
	return r
}

func lineHeight(face font.Face) int {
	m := face.Metrics()
	return (m.Ascent + m.Descent).Ceil()
}

func measure(face font.Face, runes []rune, o layout.Orientation) (w, h int) {
	if o == layout.Horizontal {
		return font.MeasureString(face, string(runes)).Ceil(), lineHeight(face)
	}
	var col fixed.Int26_6
	for _, r := range runes {
		adv, _ := face.GlyphAdvance(verticalRune(face, r))
		col = max(col, adv)
	}
	return col.Ceil(), lineHeight(face) * len(runes)
}

// verticalRune returns the full-width form of r when the face has a glyph
// for it.
func verticalRune(face font.Face, r rune) rune {
	wide := []rune(width.Widen.String(string(r)))
	if len(wide) == 1 && wide[0] != r {
		if _, ok := face.GlyphAdvance(wide[0]); ok {
			return wide[0]
		}
	}
	return r
}

func drawText(face font.Face, runes []rune, o layout.Orientation, c color.NRGBA) *image.NRGBA {
	w, h := measure(face, runes, o)
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: face,
	}
	ascent := face.Metrics().Ascent

	if o == layout.Horizontal {
		d.Dot = fixed.Point26_6{Y: ascent}
		d.DrawString(string(runes))
		return img
	}

	lh := lineHeight(face)
	for i, r := range runes {
		g := verticalRune(face, r)
		adv, _ := face.GlyphAdvance(g)
		d.Dot = fixed.Point26_6{
			X: (fixed.I(w) - adv) / 2,
			Y: ascent + fixed.I(i*lh),
		}
		d.DrawString(string(g))
	}
	return img
}

// pickColor returns a dark color on light canvases and a light one on dark
// canvases, with a little jitter per channel.
func pickColor(rnd layout.Rand, canvas image.Image) color.NRGBA {
	base := rnd.Intn(70)
	if meanLuma(canvas) < 128 {
		base = 255 - base
	}
	jitter := func() uint8 {
		v := base + rnd.Intn(31) - 15
		return uint8(min(255, max(0, v)))
	}
	return color.NRGBA{R: jitter(), G: jitter(), B: jitter(), A: 255}
}

// meanLuma samples the image on a coarse grid. A nil image counts as white.
func meanLuma(img image.Image) int {
	if img == nil {
		return 255
	}
	b := img.Bounds()
	if b.Empty() {
		return 255
	}
	stepX := max(1, b.Dx()/32)
	stepY := max(1, b.Dy()/32)
	sum, n := 0, 0
	for y := b.Min.Y; y < b.Max.Y; y += stepY {
		for x := b.Min.X; x < b.Max.X; x += stepX {
			sum += int(color.GrayModel.Convert(img.At(x, y)).(color.Gray).Y)
			n++
		}
	}
	return sum / n
}

// between returns a uniform integer in [lo, hi].
func between(rnd layout.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rnd.Intn(hi-lo+1)
}
