package layout

import (
	"image"

	"github.com/disintegration/imaging"
)

// BlockGroup owns one rectangle of the canvas and the blocks placed in it.
// Blocks are kept in insertion order, which is also paint order.
type BlockGroup struct {
	id       int
	box      image.Rectangle
	canvas   *image.NRGBA
	blocks   []Element
	margin   int
	retries  int
	angleMin int
	angleMax int
	registry *Registry
	supplier FragmentSupplier
	rnd      Rand
	hooks    Hooks
	cursors  map[string]Cursor
	painted  int
}

func newBlockGroup(id int, canvas *image.NRGBA, box image.Rectangle, opts *Options) *BlockGroup {
	return &BlockGroup{
		id:       id,
		box:      box,
		canvas:   canvas,
		margin:   opts.Margin,
		retries:  opts.Retries,
		angleMin: opts.RotateAngle[0],
		angleMax: opts.RotateAngle[1],
		registry: opts.Registry,
		supplier: opts.Supplier,
		rnd:      opts.Rand,
		hooks:    opts.Hooks,
		cursors:  make(map[string]Cursor),
	}
}

func (g *BlockGroup) ID() int              { return g.id }
func (g *BlockGroup) Box() image.Rectangle { return g.box }
func (g *BlockGroup) Len() int             { return len(g.blocks) }
func (g *BlockGroup) Blocks() []Element    { return append([]Element(nil), g.blocks...) }
func (g *BlockGroup) Margin() int          { return g.margin }

// Rand is the group's random source, for strategies defined elsewhere.
func (g *BlockGroup) Rand() Rand { return g.rnd }

// Fits reports whether e, at its current position, lies inside the group
// with its outer box and overlaps no placed block with its inner box.
func (g *BlockGroup) Fits(e Element) bool {
	if !e.Outer().In(g.box) {
		return false
	}
	for _, b := range g.blocks {
		if b.Inner().Overlaps(e.Inner()) {
			return false
		}
	}
	return true
}

func (g *BlockGroup) cursor(name string, def Cursor) Cursor {
	if c, ok := g.cursors[name]; ok {
		return c
	}
	return def
}

func (g *BlockGroup) setCursor(name string, c Cursor) {
	g.cursors[name] = c
}

// AutoAppendBlock tries to place one new block, giving up after the retry
// budget. Every attempt picks a strategy, asks the supplier for a fragment
// in that strategy's orientation and submits the rotated block to it.
// It reports whether a block was appended.
func (g *BlockGroup) AutoAppendBlock() bool {
	maxW := max(g.box.Dx()-2*g.margin, 0)
	maxH := max(g.box.Dy()-2*g.margin, 0)

	attempts := 0
	for attempt := 1; attempt <= g.retries; attempt++ {
		s := g.registry.Pick()
		if s == nil {
			break
		}
		attempts = attempt
		o := s.Orientation(g)
		ev := PlacementEvent{
			Group:       g.id,
			Box:         g.box,
			Strategy:    s.Name(),
			Orientation: o,
			Attempt:     attempt,
		}

		frag, ok := g.supplier.NextFragment(maxW, maxH, o, g.canvas)
		if !ok || frag == nil || frag.Image == nil {
			ev.Outcome = OutcomeNoFit
			g.hooks.OnAttemptFailed(ev)
			continue
		}

		angle := intBetween(g.rnd, g.angleMin, g.angleMax)
		e := frag.element(g.margin, float64(angle))
		ev.Kind, ev.Text = e.Kind(), e.Data()
		if !s.Logic(g, e) {
			ev.Outcome = OutcomeRejected
			g.hooks.OnAttemptFailed(ev)
			continue
		}

		g.blocks = append(g.blocks, e)
		ev.Outcome = OutcomePlaced
		ev.Orientation = e.Orientation()
		ev.Inner = e.Inner()
		g.hooks.OnBlockPlaced(ev)
		g.hooks.OnGroupDone(g.id, g.box, true, attempt)
		return true
	}

	g.hooks.OnGroupDone(g.id, g.box, false, attempts)
	return false
}

// Render composites the blocks not yet painted onto the group canvas onto
// dst. With debug set it also outlines every outer (red) and inner (green)
// box and shades the group.
func (g *BlockGroup) Render(dst *image.NRGBA, debug bool) {
	for _, e := range g.blocks[g.painted:] {
		paste(dst, e)
	}
	if !debug {
		return
	}
	for _, e := range g.blocks {
		strokeRect(dst, e.Outer(), colorRed)
		strokeRect(dst, e.Inner(), colorGreen)
	}
	shade(dst, g.box, colorHalfTransparent)
}

// Preview renders onto a copy of the canvas and returns the group's crop.
func (g *BlockGroup) Preview(debug bool) *image.NRGBA {
	c := imaging.Clone(g.canvas)
	g.Render(c, debug)
	return imaging.Crop(c, g.box)
}
