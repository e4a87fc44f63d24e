package layout

import (
	"image"
	"math/rand"
	"testing"
)

func appendN(t *testing.T, g *BlockGroup, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		if !g.AutoAppendBlock() {
			t.Fatalf("Block %d was not placed", i)
		}
	}
}

func TestHorizontalStrategyMarginSpacing(t *testing.T) {
	sup := &fixedSupplier{w: 100, h: 50}
	l := newTestLayout(t, []image.Rectangle{image.Rect(0, 0, 500, 200)}, sup, nil, HorizontalStrategy{})
	g := l.Groups()[0]
	appendN(t, g, 2)

	blocks := g.Blocks()
	if got := blocks[0].Inner(); got != image.Rect(10, 10, 110, 60) {
		t.Errorf("Expected first inner (10,10,110,60), got %v", got)
	}
	if x := blocks[1].Inner().Min.X; x < 120 {
		t.Errorf("Second block starts at %d, expected >= 120", x)
	}
	if blocks[0].Outer().Max.X != blocks[1].Outer().Min.X {
		t.Errorf("Outer boxes should abut: %v %v", blocks[0].Outer(), blocks[1].Outer())
	}
}

func TestHorizontalStrategyStopsAtEdge(t *testing.T) {
	sup := &fixedSupplier{w: 100, h: 50}
	l := newTestLayout(t, []image.Rectangle{image.Rect(0, 0, 500, 200)}, sup, nil, HorizontalStrategy{})
	g := l.Groups()[0]

	// 120px outer width: four fit in 500, the fifth does not.
	appendN(t, g, 4)
	if g.AutoAppendBlock() {
		t.Errorf("Fifth block should not fit, got %v", g.Blocks()[4].Outer())
	}
	if g.Len() != 4 {
		t.Errorf("Expected 4 blocks, got %d", g.Len())
	}
}

func TestVerticalStrategyStacks(t *testing.T) {
	sup := &fixedSupplier{w: 100, h: 30}
	l := newTestLayout(t, []image.Rectangle{image.Rect(20, 20, 220, 220)}, sup, nil, VerticalStrategy{})
	g := l.Groups()[0]
	appendN(t, g, 3)

	for i, b := range g.Blocks() {
		want := image.Pt(30, 30+i*50)
		if b.Inner().Min != want {
			t.Errorf("Block %d: expected inner origin %v, got %v", i, want, b.Inner().Min)
		}
	}
	assertNoOverlap(t, g)
}

func TestHorizontalFlowWraps(t *testing.T) {
	sup := &fixedSupplier{w: 100, h: 20}
	l := newTestLayout(t, []image.Rectangle{image.Rect(0, 0, 300, 200)}, sup, nil, HorizontalFlowStrategy{})
	g := l.Groups()[0]
	appendN(t, g, 3)

	want := []image.Point{{10, 10}, {130, 10}, {10, 50}}
	for i, b := range g.Blocks() {
		if b.Inner().Min != want[i] {
			t.Errorf("Block %d: expected %v, got %v", i, want[i], b.Inner().Min)
		}
	}
	assertNoOverlap(t, g)
}

func TestVerticalFlowWraps(t *testing.T) {
	sup := &fixedSupplier{w: 20, h: 100}
	l := newTestLayout(t, []image.Rectangle{image.Rect(0, 0, 200, 300)}, sup, nil, VerticalFlowStrategy{})
	g := l.Groups()[0]
	appendN(t, g, 3)

	want := []image.Point{{10, 10}, {10, 130}, {50, 10}}
	for i, b := range g.Blocks() {
		if b.Inner().Min != want[i] {
			t.Errorf("Block %d: expected %v, got %v", i, want[i], b.Inner().Min)
		}
	}
}

func TestStrategyOrientation(t *testing.T) {
	sup := &fixedSupplier{w: 60, h: 20, swap: true}
	l := newTestLayout(t, []image.Rectangle{image.Rect(0, 0, 400, 300)}, sup, nil, LabelValueStrategy{})
	g := l.Groups()[0]

	tests := []struct {
		s    Strategy
		want Orientation
	}{
		{HorizontalStrategy{}, Vertical},
		{VerticalStrategy{}, Horizontal},
		{HorizontalFlowStrategy{}, Horizontal},
		{VerticalFlowStrategy{}, Vertical},
		{LabelValueStrategy{}, Vertical},
	}
	for _, tt := range tests {
		if got := tt.s.Orientation(g); got != tt.want {
			t.Errorf("%s: expected %s, got %s", tt.s.Name(), tt.want, got)
		}
	}

	appendN(t, g, 1)
	if got := (LabelValueStrategy{}).Orientation(g); got != Horizontal {
		t.Errorf("label_value after first block: expected horizontal, got %s", got)
	}
}

func TestLabelValuePlacesValuesRightOfLabel(t *testing.T) {
	sup := &fixedSupplier{w: 60, h: 20, swap: true}
	l := newTestLayout(t, []image.Rectangle{image.Rect(0, 0, 400, 300)}, sup, nil, LabelValueStrategy{})
	g := l.Groups()[0]
	appendN(t, g, 3)

	blocks := g.Blocks()
	if blocks[0].Orientation() != Vertical {
		t.Errorf("Label should be vertical, got %s", blocks[0].Orientation())
	}
	for _, b := range blocks[1:] {
		if b.Orientation() != Horizontal {
			t.Errorf("Value should be horizontal, got %s", b.Orientation())
		}
		if b.Outer().Min.X != blocks[0].Outer().Max.X {
			t.Errorf("Value %v should start right of label %v", b.Outer(), blocks[0].Outer())
		}
	}
	if blocks[2].Outer().Min.Y != blocks[1].Outer().Max.Y {
		t.Errorf("Values should stack: %v %v", blocks[1].Outer(), blocks[2].Outer())
	}
}

func TestRandomStrategyOrientationWeighting(t *testing.T) {
	sup := &fixedSupplier{w: 10, h: 10}
	l := newTestLayout(t, []image.Rectangle{image.Rect(0, 0, 100, 100)}, sup, nil, RandomStrategy{})
	g := l.Groups()[0]

	horizontal := 0
	const n = 3000
	for i := 0; i < n; i++ {
		if (RandomStrategy{}).Orientation(g) == Horizontal {
			horizontal++
		}
	}
	ratio := float64(horizontal) / n
	if ratio < 0.6 || ratio > 0.73 {
		t.Errorf("Expected about 2/3 horizontal, got %.3f", ratio)
	}
}

func TestRandomStrategyStaysInside(t *testing.T) {
	sup := &fixedSupplier{w: 30, h: 12}
	l := newTestLayout(t, []image.Rectangle{image.Rect(40, 40, 240, 180)}, sup, nil, RandomStrategy{})
	g := l.Groups()[0]
	for i := 0; i < 20; i++ {
		g.AutoAppendBlock()
	}
	if g.Len() == 0 {
		t.Fatal("Expected some random placements")
	}
	assertNoOverlap(t, g)
}

func TestFitsRejectsOverlap(t *testing.T) {
	sup := &fixedSupplier{w: 50, h: 50}
	l := newTestLayout(t, []image.Rectangle{image.Rect(0, 0, 200, 200)}, sup, nil, VerticalStrategy{})
	g := l.Groups()[0]
	appendN(t, g, 1)

	c := NewBlock(solid(50, 50, black), 0, 0, 10, 0)
	c.LocateByInner(30, 30)
	if g.Fits(c) {
		t.Error("Overlapping candidate should not fit")
	}
	c.LocateByOuter(100, 0)
	if !g.Fits(c) {
		t.Errorf("Free candidate %v should fit", c.Outer())
	}
	c.LocateByOuter(160, 0)
	if g.Fits(c) {
		t.Error("Candidate leaving the group should not fit")
	}
}

func TestStrategiesByName(t *testing.T) {
	tests := []struct {
		names   []string
		want    int
		wantErr bool
	}{
		{nil, 6, false},
		{[]string{"horizontal", " Vertical_Flow "}, 2, false},
		{[]string{"spiral"}, 0, true},
	}

	for _, tt := range tests {
		got, err := StrategiesByName(tt.names)
		if tt.wantErr {
			if err == nil {
				t.Errorf("%v: expected error", tt.names)
			}
			continue
		}
		if err != nil {
			t.Errorf("%v: unexpected error: %v", tt.names, err)
		}
		if len(got) != tt.want {
			t.Errorf("%v: expected %d strategies, got %d", tt.names, tt.want, len(got))
		}
	}
}

func TestRegistryPick(t *testing.T) {
	rnd := rand.New(rand.NewSource(3))
	if NewRegistry(rnd).Pick() != nil {
		t.Error("Empty registry should pick nil")
	}

	r := NewRegistry(rnd, DefaultStrategies()...)
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		seen[r.Pick().Name()] = true
	}
	if len(seen) != len(DefaultStrategies()) {
		t.Errorf("Expected every strategy to be picked, saw %v", seen)
	}
}

// cornerStrategy stands in for a strategy defined outside the package.
type cornerStrategy struct{}

func (cornerStrategy) Name() string                          { return "corner" }
func (cornerStrategy) Orientation(g *BlockGroup) Orientation { return Orientation(g.Rand().Intn(2)) }
func (cornerStrategy) Logic(g *BlockGroup, e Element) bool {
	e.LocateByInner(g.Box().Min.X+g.Margin(), g.Box().Min.Y+g.Margin())
	return g.Fits(e)
}

func TestCustomStrategy(t *testing.T) {
	sup := &fixedSupplier{w: 30, h: 10}
	l := newTestLayout(t, []image.Rectangle{image.Rect(50, 50, 150, 150)}, sup, nil, cornerStrategy{})
	g := l.Groups()[0]

	appendN(t, g, 1)
	if got := g.Blocks()[0].Inner().Min; got != image.Pt(60, 60) {
		t.Errorf("Expected corner placement at (60,60), got %v", got)
	}
	if g.AutoAppendBlock() {
		t.Error("Second block at the same corner should overlap")
	}
}
