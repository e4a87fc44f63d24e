package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	InputPath    string `yaml:"input"`
	OutputDir    string `yaml:"output"`
	Count        int    `yaml:"count"` // Samples per background
	Workers      int    `yaml:"workers"`
	DPI          int    `yaml:"dpi"`
	Seed         int64  `yaml:"seed"`
	MaxCanvas    int    `yaml:"max_canvas"`
	JPEGQuality  int    `yaml:"jpeg_quality"`
	ShowStats    bool   `yaml:"show_stats"`
	Detector     string `yaml:"detector"`
	PlanPath     string `yaml:"plan"`
	PlanDir      string `yaml:"plan_dir"`
	BuildVersion string `yaml:"-"`

	Layout LayoutConfig `yaml:"layout"`
	Text   TextConfig   `yaml:"text"`
	QR     QRConfig     `yaml:"qr"`
}

type LayoutConfig struct {
	Margin      int      `yaml:"margin"`
	Retries     int      `yaml:"retries"`
	RotateAngle [2]int   `yaml:"rotate_angle"`
	Fill        bool     `yaml:"fill"`
	Debug       bool     `yaml:"debug"`
	Strategies  []string `yaml:"strategies"`
	Regions     []Region `yaml:"regions"` // Fixed regions, used when no plan or detector applies
}

// Region is a fixed layout region in canvas pixels.
type Region struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
	W int `yaml:"w"`
	H int `yaml:"h"`
}

type TextConfig struct {
	Corpus   string   `yaml:"corpus"`
	Fonts    []string `yaml:"fonts"`
	FontSize [2]int   `yaml:"font_size"`
	MinRunes int      `yaml:"min_runes"`
	MaxRunes int      `yaml:"max_runes"`
}

type QRConfig struct {
	Ratio   int `yaml:"ratio"` // Percent of fragments rendered as QR codes
	MinSize int `yaml:"min_size"`
	MaxSize int `yaml:"max_size"`
}

func Default() *Config {
	return &Config{
		OutputDir:   "output",
		Count:       1,
		DPI:         150,
		MaxCanvas:   1600,
		JPEGQuality: 95,
		Detector:    "contrast",
		PlanDir:     "plans",
		Layout: LayoutConfig{
			Margin:  10,
			Retries: 5,
		},
		Text: TextConfig{
			FontSize: [2]int{14, 40},
			MinRunes: 2,
			MaxRunes: 24,
		},
		QR: QRConfig{
			MinSize: 48,
			MaxSize: 160,
		},
	}
}

// Load reads a YAML file over the defaults. An empty path returns the
// defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.Count < 1 {
		errs = append(errs, errors.New("count must be at least 1"))
	}
	if c.Workers < 0 {
		errs = append(errs, errors.New("workers must not be negative"))
	}
	if c.DPI <= 0 {
		errs = append(errs, errors.New("dpi must be positive"))
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		errs = append(errs, fmt.Errorf("jpeg_quality %d out of range 1-100", c.JPEGQuality))
	}
	if c.Layout.Margin < 0 {
		errs = append(errs, errors.New("layout.margin must not be negative"))
	}
	if c.Layout.Retries < 1 {
		errs = append(errs, errors.New("layout.retries must be at least 1"))
	}
	if fs := c.Text.FontSize; fs[0] < 1 || fs[1] < fs[0] {
		errs = append(errs, fmt.Errorf("text.font_size %v is not a valid range", fs))
	}
	if c.Text.MinRunes < 1 || c.Text.MaxRunes < c.Text.MinRunes {
		errs = append(errs, errors.New("text.min_runes/max_runes are not a valid range"))
	}
	if c.QR.Ratio < 0 || c.QR.Ratio > 100 {
		errs = append(errs, fmt.Errorf("qr.ratio %d out of range 0-100", c.QR.Ratio))
	}
	for i, r := range c.Layout.Regions {
		if r.W <= 0 || r.H <= 0 {
			errs = append(errs, fmt.Errorf("layout.regions[%d] has no area", i))
		}
	}
	return errors.Join(errs...)
}
