package source

import (
	"errors"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/disintegration/imaging"
)

var imageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
}

// ImageSource serves image files from a single file or a flat directory,
// sorted by name.
type ImageSource struct {
	paths []string
}

func NewImageSource(path string) (*ImageSource, error) {
	dir, err := isDir(path)
	if err != nil {
		return nil, err
	}

	var paths []string
	if dir {
		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			if !entry.IsDir() && imageExts[strings.ToLower(filepath.Ext(entry.Name()))] {
				paths = append(paths, filepath.Join(path, entry.Name()))
			}
		}
		sort.Strings(paths)
		if len(paths) == 0 {
			return nil, errors.New("no images found in " + path)
		}
	} else {
		paths = []string{path}
	}

	return &ImageSource{paths: paths}, nil
}

func (s *ImageSource) PageCount() int {
	return len(s.paths)
}

func (s *ImageSource) GetPageDimensions(index int) (float64, float64, error) {
	if err := checkIndex(index, len(s.paths)); err != nil {
		return 0, 0, err
	}
	f, err := os.Open(s.paths[index])
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, err
	}
	return float64(cfg.Width), float64(cfg.Height), nil
}

// RenderPage decodes the image, applying its EXIF orientation. dpi is
// ignored for raster files.
func (s *ImageSource) RenderPage(index int, dpi int) (image.Image, error) {
	if err := checkIndex(index, len(s.paths)); err != nil {
		return nil, err
	}
	return imaging.Open(s.paths[index], imaging.AutoOrientation(true))
}

func (s *ImageSource) PageName(index int) string {
	if checkIndex(index, len(s.paths)) != nil {
		return ""
	}
	return filepath.Base(s.paths[index])
}

func (s *ImageSource) Close() error {
	return nil
}
