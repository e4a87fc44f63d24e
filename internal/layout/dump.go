package layout

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strconv"

	"github.com/disintegration/imaging"
)

// Output subdirectories created under the layout's output directory.
const (
	PicDir      = "pic"
	FragmentDir = "fragment"
	DataDir     = "data"
)

// Box is a rectangle serialized as [x0, y0, x1, y1].
type Box [4]int

func BoxOf(r image.Rectangle) Box {
	return Box{r.Min.X, r.Min.Y, r.Max.X, r.Max.Y}
}

// Document is the JSON label file written next to every sample.
type Document struct {
	PicName  string         `json:"pic_name"`
	Width    int            `json:"width"`
	Height   int            `json:"height"`
	Fragment []FragmentInfo `json:"fragment"`
}

type FragmentInfo struct {
	Box          Box    `json:"box"`
	Data         string `json:"data"`
	Orientation  string `json:"orientation"`
	Type         string `json:"type"`
	FragmentName string `json:"fragment_name"`
}

// Name returns the hex SHA-1 of the canvas pixels. An unchanged canvas
// always maps to the same artifact names.
func (l *Layout) Name() string {
	return canvasHash(l.canvas)
}

func canvasHash(img *image.NRGBA) string {
	h := sha1.New()
	r := img.Rect
	rowLen := r.Dx() * 4
	for y := r.Min.Y; y < r.Max.Y; y++ {
		off := img.PixOffset(r.Min.X, y)
		h.Write(img.Pix[off : off+rowLen])
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Dump writes the canvas, one crop per block and the JSON document. Storage
// errors are returned as they occur; nothing is retried or cleaned up.
func (l *Layout) Dump() (*Document, error) {
	picDir := filepath.Join(l.outputDir, PicDir)
	fragmentDir := filepath.Join(l.outputDir, FragmentDir)
	dataDir := filepath.Join(l.outputDir, DataDir)
	for _, d := range []string{picDir, fragmentDir, dataDir} {
		if err := os.MkdirAll(d, 0755); err != nil {
			return nil, fmt.Errorf("create %s: %w", d, err)
		}
	}

	name := l.Name()
	picName := "pic_" + name + ".jpg"
	if err := imaging.Save(l.canvas, filepath.Join(picDir, picName), imaging.JPEGQuality(l.quality)); err != nil {
		return nil, fmt.Errorf("save %s: %w", picName, err)
	}

	doc := &Document{
		PicName:  picName,
		Width:    l.canvas.Rect.Dx(),
		Height:   l.canvas.Rect.Dy(),
		Fragment: []FragmentInfo{},
	}
	for i, f := range l.CollectBlockFragment() {
		fragmentName := "fragment_" + name + strconv.Itoa(i) + ".jpg"
		if err := imaging.Save(f.Image, filepath.Join(fragmentDir, fragmentName), imaging.JPEGQuality(l.quality)); err != nil {
			return nil, fmt.Errorf("save %s: %w", fragmentName, err)
		}
		doc.Fragment = append(doc.Fragment, FragmentInfo{
			Box:          BoxOf(f.Box),
			Data:         f.Data,
			Orientation:  f.Orientation.String(),
			Type:         f.Type,
			FragmentName: fragmentName,
		})
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	jsonPath := filepath.Join(dataDir, name+".json")
	if err := os.WriteFile(jsonPath, data, 0644); err != nil {
		return nil, fmt.Errorf("write %s: %w", jsonPath, err)
	}

	l.hooks.OnDumped(name, len(doc.Fragment))
	return doc, nil
}

// ReadDocument loads a JSON document written by Dump.
func ReadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}
