package plan

import (
	"fmt"
	"image"
	"sort"

	"github.com/ivlev/synthtext/internal/analyzer"
)

// Builder turns detected regions into a plan page
type Builder struct {
	MinWidth   int // Regions narrower than this are dropped
	MinHeight  int // Regions shorter than this are dropped
	MaxRegions int // 0 keeps all
	RowSlack   int // Vertical offset still treated as the same row
}

// NewBuilder creates a new Builder with default settings
func NewBuilder() *Builder {
	return &Builder{
		MinWidth:  40,
		MinHeight: 24,
		RowSlack:  20,
	}
}

// Build filters regions and orders them top-to-bottom, left-to-right.
func (b *Builder) Build(index int, name string, size image.Point, regions []analyzer.Region) (Page, error) {
	kept := make([]analyzer.Region, 0, len(regions))
	for _, r := range regions {
		if r.Rect.Dx() >= b.MinWidth && r.Rect.Dy() >= b.MinHeight {
			kept = append(kept, r)
		}
	}
	if len(kept) == 0 {
		return Page{}, fmt.Errorf("no usable regions on %s", name)
	}

	b.sortRegions(kept)
	if b.MaxRegions > 0 && len(kept) > b.MaxRegions {
		kept = kept[:b.MaxRegions]
	}

	page := Page{Index: index, Name: name, Width: size.X, Height: size.Y}
	for _, r := range kept {
		page.Regions = append(page.Regions, RectOf(r.Rect))
	}
	return page, nil
}

// sortRegions sorts regions in reading order. Regions are bucketed into
// rows by top edge, a row taking every region starting within RowSlack of
// its first one, then each row is read left to right.
func (b *Builder) sortRegions(regions []analyzer.Region) {
	sort.SliceStable(regions, func(i, j int) bool {
		return regions[i].Rect.Min.Y < regions[j].Rect.Min.Y
	})

	rows := make([]int, len(regions))
	top := 0
	for i := 1; i < len(regions); i++ {
		rows[i] = rows[i-1]
		if regions[i].Rect.Min.Y-regions[top].Rect.Min.Y > b.RowSlack {
			rows[i]++
			top = i
		}
	}

	for start := 0; start < len(regions); {
		end := start + 1
		for end < len(regions) && rows[end] == rows[start] {
			end++
		}
		row := regions[start:end]
		sort.SliceStable(row, func(i, j int) bool {
			return row[i].Rect.Min.X < row[j].Rect.Min.X
		})
		start = end
	}
}
