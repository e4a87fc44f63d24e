package layout

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Orientation is the reading direction of a fragment.
type Orientation int

const (
	Horizontal Orientation = iota
	Vertical
)

func (o Orientation) String() string {
	if o == Vertical {
		return "vertical"
	}
	return "horizontal"
}

// Element is a fragment placed on the canvas.
type Element interface {
	Inner() image.Rectangle
	Outer() image.Rectangle
	Margin() int
	LocateByInner(x, y int)
	LocateByOuter(x, y int)
	Orientation() Orientation
	Data() string
	Kind() string
	Image() *image.NRGBA
	AlphaMask() *image.Alpha
	CropSelf(canvas image.Image) *image.NRGBA
}

// Block is a rotated raster with a margin around it. The inner box always
// has the raster's dimensions; the outer box is the inner box grown by the
// margin on every side.
type Block struct {
	img    *image.NRGBA
	margin int
	inner  image.Rectangle
	outer  image.Rectangle
}

// NewBlock rotates img by angle degrees (counter-clockwise, canvas expanded
// so nothing is cropped) and positions the result at (x, y).
func NewBlock(img image.Image, x, y, margin int, angle float64) *Block {
	b := &Block{
		img:    imaging.Rotate(img, angle, color.Transparent),
		margin: margin,
	}
	b.LocateByInner(x, y)
	return b
}

func (b *Block) Inner() image.Rectangle { return b.inner }
func (b *Block) Outer() image.Rectangle { return b.outer }
func (b *Block) Margin() int            { return b.margin }
func (b *Block) Image() *image.NRGBA    { return b.img }

// Size returns the raster dimensions.
func (b *Block) Size() image.Point {
	return b.img.Bounds().Size()
}

func (b *Block) LocateByInner(x, y int) {
	b.inner = image.Rectangle{Min: image.Pt(x, y), Max: image.Pt(x, y).Add(b.Size())}
	b.outer = b.inner.Inset(-b.margin)
}

func (b *Block) LocateByOuter(x, y int) {
	b.LocateByInner(x+b.margin, y+b.margin)
}

// Orientation is horizontal when the raster is wider than tall.
func (b *Block) Orientation() Orientation {
	s := b.Size()
	if s.X > s.Y {
		return Horizontal
	}
	return Vertical
}

func (b *Block) Data() string { return "" }
func (b *Block) Kind() string { return "Block" }

func (b *Block) AlphaMask() *image.Alpha {
	r := b.img.Bounds()
	mask := image.NewAlpha(r)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			mask.SetAlpha(x, y, color.Alpha{A: b.img.NRGBAAt(x, y).A})
		}
	}
	return mask
}

// CropSelf copies the part of canvas under the inner box.
func (b *Block) CropSelf(canvas image.Image) *image.NRGBA {
	return imaging.Crop(canvas, b.inner)
}

// TextBlock carries the text it was rendered from and the orientation the
// text was laid out in, which survives rotation.
type TextBlock struct {
	*Block
	text        string
	orientation Orientation
}

func NewTextBlock(img image.Image, text string, o Orientation, x, y, margin int, angle float64) *TextBlock {
	return &TextBlock{
		Block:       NewBlock(img, x, y, margin, angle),
		text:        text,
		orientation: o,
	}
}

func (t *TextBlock) Orientation() Orientation { return t.orientation }
func (t *TextBlock) Data() string             { return t.text }
func (t *TextBlock) Kind() string             { return "TextBlock" }

// QRBlock is a QR code raster. Orientation follows the block dimensions.
type QRBlock struct {
	*Block
	content string
}

func NewQRBlock(img image.Image, content string, x, y, margin int, angle float64) *QRBlock {
	return &QRBlock{Block: NewBlock(img, x, y, margin, angle), content: content}
}

func (q *QRBlock) Data() string { return q.content }
func (q *QRBlock) Kind() string { return "QRBlock" }
