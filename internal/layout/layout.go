// Package layout places rendered fragments into rectangular regions of a
// background canvas and exports the result as labeled training samples.
//
// A Layout owns the canvas and one BlockGroup per region. Each group runs a
// bounded retry loop: a Strategy from the Registry chooses the orientation
// the next fragment must be rendered in, a FragmentSupplier renders it, and
// the same Strategy decides where the rotated block goes. Placement is
// greedy; a group that cannot fit anything simply stays empty.
//
// Region rectangles are used as given. A degenerate rectangle, or one that
// reaches outside the canvas further than blocks can, produces a group that
// rejects every candidate.
package layout

import (
	"errors"
	"image"
	"math/rand"
	"time"

	"github.com/disintegration/imaging"
)

const (
	DefaultMargin      = 10
	DefaultRetries     = 5
	DefaultJPEGQuality = 95
)

// Options configures a Layout and the groups it creates.
type Options struct {
	Margin int

	// Retries is the attempt budget of one AutoAppendBlock call.
	Retries int

	// RotateAngle is the inclusive range, in degrees, a block's rotation is
	// drawn from.
	RotateAngle [2]int

	// Fill keeps appending to a group until an AutoAppendBlock call fails,
	// instead of one call per group.
	Fill bool

	JPEGQuality int
	Registry    *Registry
	Supplier    FragmentSupplier
	Rand        Rand
	Hooks       Hooks
}

// Layout is a canvas, an output directory and the block groups laid over
// the canvas.
type Layout struct {
	canvas    *image.NRGBA
	outputDir string
	groups    []*BlockGroup
	fill      bool
	quality   int
	hooks     Hooks
}

// New builds a layout over canvas with one group per box. boxes is copied;
// groups never share state with the caller's slice.
func New(canvas *image.NRGBA, outputDir string, boxes []image.Rectangle, opts Options) (*Layout, error) {
	if canvas == nil {
		return nil, errors.New("layout: nil canvas")
	}
	if opts.Supplier == nil {
		return nil, errors.New("layout: no fragment supplier")
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.Registry == nil {
		opts.Registry = NewRegistry(opts.Rand, DefaultStrategies()...)
	}
	if opts.Hooks == nil {
		opts.Hooks = NoopHooks{}
	}
	if opts.Retries <= 0 {
		opts.Retries = DefaultRetries
	}
	if opts.JPEGQuality <= 0 {
		opts.JPEGQuality = DefaultJPEGQuality
	}
	if opts.RotateAngle[0] > opts.RotateAngle[1] {
		opts.RotateAngle[0], opts.RotateAngle[1] = opts.RotateAngle[1], opts.RotateAngle[0]
	}

	l := &Layout{
		canvas:    canvas,
		outputDir: outputDir,
		groups:    make([]*BlockGroup, 0, len(boxes)),
		fill:      opts.Fill,
		quality:   opts.JPEGQuality,
		hooks:     opts.Hooks,
	}
	for i, box := range boxes {
		l.groups = append(l.groups, newBlockGroup(i, canvas, box, &opts))
	}
	return l, nil
}

func (l *Layout) Canvas() *image.NRGBA  { return l.canvas }
func (l *Layout) Groups() []*BlockGroup { return append([]*BlockGroup(nil), l.groups...) }
func (l *Layout) OutputDir() string     { return l.outputDir }

// Blocks returns every placed block, group by group.
func (l *Layout) Blocks() []Element {
	var all []Element
	for _, g := range l.groups {
		all = append(all, g.blocks...)
	}
	return all
}

// Gen runs the groups one after another and renders the new blocks onto
// the canvas. Calling it again adds to the existing blocks; earlier blocks
// are not painted twice.
func (l *Layout) Gen() {
	for _, g := range l.groups {
		placed := g.AutoAppendBlock()
		for placed && l.fill {
			placed = g.AutoAppendBlock()
		}
	}
	l.Render(false, true)
}

// IsEmpty reports whether no group holds a block.
func (l *Layout) IsEmpty() bool {
	for _, g := range l.groups {
		if len(g.blocks) > 0 {
			return false
		}
	}
	return true
}

// Render composites all groups. With inPlace the layout's canvas is drawn
// on and returned; otherwise a copy is drawn on and the canvas is left
// untouched. Blocks already painted in place are only outlined.
func (l *Layout) Render(debug, inPlace bool) *image.NRGBA {
	dst := l.canvas
	if !inPlace {
		dst = imaging.Clone(l.canvas)
	}
	for _, g := range l.groups {
		g.Render(dst, debug)
		if inPlace {
			g.painted = len(g.blocks)
		}
	}
	return dst
}

// FragmentRecord is the export view of one placed block.
type FragmentRecord struct {
	Image       *image.NRGBA
	Box         image.Rectangle
	Data        string
	Orientation Orientation
	Type        string
}

// CollectBlockFragment crops every block out of the canvas, in group order.
func (l *Layout) CollectBlockFragment() []FragmentRecord {
	blocks := l.Blocks()
	records := make([]FragmentRecord, 0, len(blocks))
	for _, b := range blocks {
		records = append(records, FragmentRecord{
			Image:       b.CropSelf(l.canvas),
			Box:         b.Inner(),
			Data:        b.Data(),
			Orientation: b.Orientation(),
			Type:        b.Kind(),
		})
	}
	return records
}
