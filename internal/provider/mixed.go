package provider

import (
	"image"

	"github.com/ivlev/synthtext/internal/layout"
)

// Mixed asks the QR supplier for qrPercent of the fragments and falls back
// to text when the QR supplier has nothing that fits.
type Mixed struct {
	text      layout.FragmentSupplier
	qr        layout.FragmentSupplier
	qrPercent int
	rnd       layout.Rand
}

func NewMixed(rnd layout.Rand, text, qr layout.FragmentSupplier, qrPercent int) *Mixed {
	return &Mixed{text: text, qr: qr, qrPercent: qrPercent, rnd: rnd}
}

func (m *Mixed) NextFragment(maxW, maxH int, o layout.Orientation, canvas image.Image) (*layout.Fragment, bool) {
	if m.qr != nil && m.qrPercent > 0 && m.rnd.Intn(100) < m.qrPercent {
		if f, ok := m.qr.NextFragment(maxW, maxH, o, canvas); ok {
			return f, true
		}
	}
	if m.text == nil {
		return nil, false
	}
	return m.text.NextFragment(maxW, maxH, o, canvas)
}
