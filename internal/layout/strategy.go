package layout

import (
	"fmt"
	"image"
	"strings"
)

// Strategy decides the orientation a fragment must be rendered in and
// where an accepted candidate goes inside a block group.
type Strategy interface {
	Name() string
	// Orientation is asked before the fragment is rendered. It may look at
	// the group state.
	Orientation(g *BlockGroup) Orientation
	// Logic positions e inside g and reports whether it fits. On false the
	// group is left untouched.
	Logic(g *BlockGroup, e Element) bool
}

// Cursor is flow state a group keeps for a strategy: the next outer origin
// and the far edge of the current line.
type Cursor struct {
	Pos  image.Point
	Line int
}

// HorizontalStrategy lays vertical text columns left to right along the
// top of the group.
type HorizontalStrategy struct{}

func (HorizontalStrategy) Name() string                        { return "horizontal" }
func (HorizontalStrategy) Orientation(*BlockGroup) Orientation { return Vertical }

func (HorizontalStrategy) Logic(g *BlockGroup, e Element) bool {
	x := g.box.Min.X
	for _, b := range g.blocks {
		x = max(x, b.Outer().Max.X)
	}
	e.LocateByOuter(x, g.box.Min.Y)
	return g.Fits(e)
}

// VerticalStrategy stacks horizontal lines top to bottom along the left
// edge of the group.
type VerticalStrategy struct{}

func (VerticalStrategy) Name() string                        { return "vertical" }
func (VerticalStrategy) Orientation(*BlockGroup) Orientation { return Horizontal }

func (VerticalStrategy) Logic(g *BlockGroup, e Element) bool {
	y := g.box.Min.Y
	for _, b := range g.blocks {
		y = max(y, b.Outer().Max.Y)
	}
	e.LocateByOuter(g.box.Min.X, y)
	return g.Fits(e)
}

// HorizontalFlowStrategy fills rows of horizontal text and wraps to a new
// row below the tallest block of the current one.
type HorizontalFlowStrategy struct{}

func (HorizontalFlowStrategy) Name() string                        { return "horizontal_flow" }
func (HorizontalFlowStrategy) Orientation(*BlockGroup) Orientation { return Horizontal }

func (s HorizontalFlowStrategy) Logic(g *BlockGroup, e Element) bool {
	c := g.cursor(s.Name(), Cursor{Pos: g.box.Min, Line: g.box.Min.Y})
	e.LocateByOuter(c.Pos.X, c.Pos.Y)
	if e.Outer().Max.X > g.box.Max.X && c.Pos.X > g.box.Min.X {
		c.Pos = image.Pt(g.box.Min.X, c.Line)
		e.LocateByOuter(c.Pos.X, c.Pos.Y)
	}
	if !g.Fits(e) {
		return false
	}
	c.Pos.X = e.Outer().Max.X
	c.Line = max(c.Line, e.Outer().Max.Y)
	g.setCursor(s.Name(), c)
	return true
}

// VerticalFlowStrategy fills columns of vertical text and wraps to a new
// column right of the widest block of the current one.
type VerticalFlowStrategy struct{}

func (VerticalFlowStrategy) Name() string                        { return "vertical_flow" }
func (VerticalFlowStrategy) Orientation(*BlockGroup) Orientation { return Vertical }

func (s VerticalFlowStrategy) Logic(g *BlockGroup, e Element) bool {
	c := g.cursor(s.Name(), Cursor{Pos: g.box.Min, Line: g.box.Min.X})
	e.LocateByOuter(c.Pos.X, c.Pos.Y)
	if e.Outer().Max.Y > g.box.Max.Y && c.Pos.Y > g.box.Min.Y {
		c.Pos = image.Pt(c.Line, g.box.Min.Y)
		e.LocateByOuter(c.Pos.X, c.Pos.Y)
	}
	if !g.Fits(e) {
		return false
	}
	c.Pos.Y = e.Outer().Max.Y
	c.Line = max(c.Line, e.Outer().Max.X)
	g.setCursor(s.Name(), c)
	return true
}

// LabelValueStrategy puts a vertical label in the top-left corner and
// stacks horizontal values to its right.
type LabelValueStrategy struct{}

func (LabelValueStrategy) Name() string { return "label_value" }

func (LabelValueStrategy) Orientation(g *BlockGroup) Orientation {
	if len(g.blocks) == 0 {
		return Vertical
	}
	return Horizontal
}

func (LabelValueStrategy) Logic(g *BlockGroup, e Element) bool {
	if len(g.blocks) == 0 {
		e.LocateByOuter(g.box.Min.X, g.box.Min.Y)
		return g.Fits(e)
	}
	x := g.blocks[0].Outer().Max.X
	y := g.box.Min.Y
	for _, b := range g.blocks[1:] {
		y = max(y, b.Outer().Max.Y)
	}
	e.LocateByOuter(x, y)
	return g.Fits(e)
}

// RandomStrategy drops the candidate at a uniform position. Orientation is
// horizontal two times out of three.
type RandomStrategy struct{}

func (RandomStrategy) Name() string { return "random" }

func (RandomStrategy) Orientation(g *BlockGroup) Orientation {
	return []Orientation{Vertical, Horizontal, Horizontal}[g.rnd.Intn(3)]
}

func (RandomStrategy) Logic(g *BlockGroup, e Element) bool {
	size := e.Outer().Size()
	if size.X > g.box.Dx() || size.Y > g.box.Dy() {
		return false
	}
	x := intBetween(g.rnd, g.box.Min.X, g.box.Max.X-size.X)
	y := intBetween(g.rnd, g.box.Min.Y, g.box.Max.Y-size.Y)
	e.LocateByOuter(x, y)
	return g.Fits(e)
}

// DefaultStrategies returns one of each built-in strategy.
func DefaultStrategies() []Strategy {
	return []Strategy{
		HorizontalStrategy{},
		VerticalStrategy{},
		HorizontalFlowStrategy{},
		VerticalFlowStrategy{},
		LabelValueStrategy{},
		RandomStrategy{},
	}
}

// StrategiesByName resolves configured strategy names. An empty list
// means all built-in strategies.
func StrategiesByName(names []string) ([]Strategy, error) {
	all := DefaultStrategies()
	if len(names) == 0 {
		return all, nil
	}
	byName := make(map[string]Strategy, len(all))
	for _, s := range all {
		byName[s.Name()] = s
	}
	out := make([]Strategy, 0, len(names))
	for _, n := range names {
		s, ok := byName[strings.ToLower(strings.TrimSpace(n))]
		if !ok {
			return nil, fmt.Errorf("unknown strategy: %s", n)
		}
		out = append(out, s)
	}
	return out, nil
}

// Registry picks a strategy uniformly from its set.
type Registry struct {
	strategies []Strategy
	rnd        Rand
}

func NewRegistry(rnd Rand, strategies ...Strategy) *Registry {
	return &Registry{strategies: strategies, rnd: rnd}
}

// Pick returns nil when the registry is empty.
func (r *Registry) Pick() Strategy {
	if len(r.strategies) == 0 {
		return nil
	}
	return r.strategies[r.rnd.Intn(len(r.strategies))]
}

func (r *Registry) Strategies() []Strategy {
	return append([]Strategy(nil), r.strategies...)
}
