package provider

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/ivlev/synthtext/internal/layout"
)

var bundledFonts = []struct {
	name string
	data []byte
}{
	{"goregular", goregular.TTF},
	{"gobold", gobold.TTF},
	{"gomono", gomono.TTF},
}

// FontSet holds parsed fonts. Parsed fonts are safe to share; faces are not,
// so every provider builds its own through Face.
type FontSet struct {
	fonts []*opentype.Font
	names []string
}

// NewFontSet parses TrueType/OpenType files. Directories are scanned for
// .ttf and .otf files. With no paths the bundled Go fonts are used.
func NewFontSet(paths ...string) (*FontSet, error) {
	s := &FontSet{}
	if len(paths) == 0 {
		for _, f := range bundledFonts {
			if err := s.add(f.name, f.data); err != nil {
				return nil, err
			}
		}
		return s, nil
	}

	for _, p := range paths {
		files, err := fontFiles(p)
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			data, err := os.ReadFile(f)
			if err != nil {
				return nil, err
			}
			if err := s.add(filepath.Base(f), data); err != nil {
				return nil, err
			}
		}
	}
	if len(s.fonts) == 0 {
		return nil, fmt.Errorf("no fonts found in %v", paths)
	}
	return s, nil
}

func fontFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}
	var files []string
	for _, pattern := range []string{"*.ttf", "*.otf"} {
		m, err := filepath.Glob(filepath.Join(path, pattern))
		if err != nil {
			return nil, err
		}
		files = append(files, m...)
	}
	return files, nil
}

func (s *FontSet) add(name string, data []byte) error {
	f, err := opentype.Parse(data)
	if err != nil {
		return fmt.Errorf("parse font %s: %w", name, err)
	}
	s.fonts = append(s.fonts, f)
	s.names = append(s.names, name)
	return nil
}

func (s *FontSet) Len() int { return len(s.fonts) }

func (s *FontSet) Names() []string {
	return append([]string(nil), s.names...)
}

// Face opens a random font at the given pixel size.
func (s *FontSet) Face(rnd layout.Rand, size int) (font.Face, error) {
	return s.face(rnd.Intn(len(s.fonts)), size)
}

func (s *FontSet) face(i, size int) (font.Face, error) {
	return opentype.NewFace(s.fonts[i], &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     72,
		Hinting: font.HintingFull,
	})
}
