package layout

import "image"

// FragmentKind selects the block type a fragment is wrapped into.
type FragmentKind int

const (
	KindText FragmentKind = iota
	KindQR
)

// Fragment is a rendered piece of content ready to be placed.
type Fragment struct {
	Image       image.Image
	Text        string
	Orientation Orientation
	Kind        FragmentKind
}

// FragmentSupplier renders content that fits within maxW x maxH at the
// requested orientation. ok is false when nothing fits; that is a normal
// outcome, not a failure.
type FragmentSupplier interface {
	NextFragment(maxW, maxH int, o Orientation, canvas image.Image) (f *Fragment, ok bool)
}

// SupplierFunc adapts a function to FragmentSupplier.
type SupplierFunc func(maxW, maxH int, o Orientation, canvas image.Image) (*Fragment, bool)

func (f SupplierFunc) NextFragment(maxW, maxH int, o Orientation, canvas image.Image) (*Fragment, bool) {
	return f(maxW, maxH, o, canvas)
}

// Rand is the random choice capability. *math/rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
}

// intBetween returns a uniform integer in [lo, hi].
func intBetween(rnd Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rnd.Intn(hi-lo+1)
}

func (f *Fragment) element(margin int, angle float64) Element {
	switch f.Kind {
	case KindQR:
		return NewQRBlock(f.Image, f.Text, 0, 0, margin, angle)
	default:
		return NewTextBlock(f.Image, f.Text, f.Orientation, 0, 0, margin, angle)
	}
}
