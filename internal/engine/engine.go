package engine

import (
	"context"
	"errors"
	"fmt"
	"image"
	"math/rand"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/ivlev/synthtext/internal/analyzer"
	"github.com/ivlev/synthtext/internal/config"
	"github.com/ivlev/synthtext/internal/layout"
	"github.com/ivlev/synthtext/internal/plan"
	"github.com/ivlev/synthtext/internal/provider"
	"github.com/ivlev/synthtext/internal/source"
	"github.com/ivlev/synthtext/internal/system"
)

// DebugDir holds annotated previews when layout.debug is set.
const DebugDir = "debug"

// Generator produces samples for every page of a source.
type Generator struct {
	Config *config.Config
	Source source.Source
	Logger *log.Logger
	// Hooks receives placement events. NewGenerator sets it to log through
	// Logger.
	Hooks  layout.Hooks

	corpus     *provider.Corpus
	fonts      *provider.FontSet
	strategies []layout.Strategy
	detector   analyzer.Detector
	builder    *plan.Builder
	plan       *plan.Plan
	pages      []*background
	seed       int64
}

type job struct {
	page, sample int
}

func NewGenerator(cfg *config.Config, src source.Source, logger *log.Logger) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.Default()
	}

	corpus, err := provider.LoadCorpus(cfg.Text.Corpus)
	if err != nil {
		return nil, err
	}
	fonts, err := provider.NewFontSet(cfg.Text.Fonts...)
	if err != nil {
		return nil, err
	}
	strategies, err := layout.StrategiesByName(cfg.Layout.Strategies)
	if err != nil {
		return nil, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	detector, err := analyzer.NewDetector(cfg.Detector, seed)
	if err != nil {
		return nil, err
	}

	g := &Generator{
		Config:     cfg,
		Source:     src,
		Logger:     logger,
		Hooks:      NewLogHooks(logger),
		corpus:     corpus,
		fonts:      fonts,
		strategies: strategies,
		detector:   detector,
		builder:    plan.NewBuilder(),
		seed:       seed,
	}

	if cfg.PlanPath != "" {
		path := cfg.PlanPath
		if path == "latest" {
			if path, err = plan.FindLatest(cfg.PlanDir); err != nil {
				return nil, err
			}
		}
		if g.plan, err = plan.Read(path); err != nil {
			return nil, err
		}
		logger.Info("using region plan", "path", path, "pages", len(g.plan.Pages))
	}
	return g, nil
}

// Run generates Count samples per page on a bounded worker pool. A failed
// sample is logged and counted; Run fails only when the context is
// cancelled or no sample succeeded.
func (g *Generator) Run(ctx context.Context) (*Stats, error) {
	start := time.Now()
	pageCount := g.Source.PageCount()
	if pageCount == 0 {
		return nil, errors.New("source has no pages")
	}
	g.initPages(pageCount, g.Config.Count)

	workers := g.workers()
	g.Logger.Info("generating",
		"input", g.Config.InputPath,
		"pages", pageCount,
		"samples", pageCount*g.Config.Count,
		"workers", workers,
	)

	var c counters
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)

schedule:
	for p := 0; p < pageCount; p++ {
		for s := 0; s < g.Config.Count; s++ {
			if ctx.Err() != nil {
				break schedule
			}
			j := job{page: p, sample: s}
			eg.Go(func() error {
				defer g.release(j.page)
				fragments, err := g.runJob(j)
				switch {
				case err != nil:
					c.failed.Add(1)
					g.Logger.Warn("sample failed", "page", g.Source.PageName(j.page), "sample", j.sample, "err", err)
				case fragments == 0:
					c.empty.Add(1)
				default:
					c.written.Add(1)
					c.fragments.Add(int64(fragments))
				}
				return nil
			})
		}
	}
	eg.Wait()

	stats := c.stats(pageCount*g.Config.Count, time.Since(start))
	if g.Config.ShowStats {
		g.report(stats)
	}
	if err := ctx.Err(); err != nil {
		return stats, err
	}
	if stats.Failed == stats.Jobs {
		return stats, fmt.Errorf("all %d samples failed", stats.Jobs)
	}
	return stats, nil
}

func (g *Generator) workers() int {
	if g.Config.Workers > 0 {
		return g.Config.Workers
	}
	// Background, canvas and a crop per block, at 4 bytes per pixel.
	side := uint64(g.Config.MaxCanvas)
	return system.RecommendedWorkers(side * side * 4 * 3)
}

// runJob builds, fills and dumps one layout. It returns the number of
// fragments written; 0 means the layout stayed empty and nothing was written.
func (g *Generator) runJob(j job) (int, error) {
	bg, err := g.page(j.page)
	if err != nil {
		return 0, err
	}

	canvas := system.GetCanvas(bg.img.Rect)
	defer system.PutCanvas(canvas)
	copy(canvas.Pix, bg.img.Pix)

	rnd := rand.New(rand.NewSource(g.jobSeed(j)))
	text := provider.NewTextImgProvider(g.corpus, g.fonts, provider.TextOptions{
		MinFontSize: g.Config.Text.FontSize[0],
		MaxFontSize: g.Config.Text.FontSize[1],
		MinRunes:    g.Config.Text.MinRunes,
		MaxRunes:    g.Config.Text.MaxRunes,
	}, rnd)
	defer text.Close()

	var supplier layout.FragmentSupplier = text
	if g.Config.QR.Ratio > 0 {
		qr := provider.NewQRProvider(g.corpus, provider.QROptions{
			MinSize: g.Config.QR.MinSize,
			MaxSize: g.Config.QR.MaxSize,
		}, rnd)
		supplier = provider.NewMixed(rnd, text, qr, g.Config.QR.Ratio)
	}

	l, err := layout.New(canvas, g.Config.OutputDir, bg.regions, layout.Options{
		Margin:      g.Config.Layout.Margin,
		Retries:     g.Config.Layout.Retries,
		RotateAngle: g.Config.Layout.RotateAngle,
		Fill:        g.Config.Layout.Fill,
		JPEGQuality: g.Config.JPEGQuality,
		Registry:    layout.NewRegistry(rnd, g.strategies...),
		Supplier:    supplier,
		Rand:        rnd,
		Hooks:       g.Hooks,
	})
	if err != nil {
		return 0, err
	}

	l.Gen()
	if l.IsEmpty() {
		g.Logger.Debug("layout empty, skipped", "page", g.Source.PageName(j.page), "sample", j.sample)
		return 0, nil
	}

	doc, err := l.Dump()
	if err != nil {
		return 0, err
	}
	if g.Config.Layout.Debug {
		if err := g.saveDebug(l); err != nil {
			return 0, err
		}
	}
	return len(doc.Fragment), nil
}

func (g *Generator) saveDebug(l *layout.Layout) error {
	dir := filepath.Join(g.Config.OutputDir, DebugDir)
	return saveJPEG(l.Render(true, false), dir, l.Name()+".jpg", g.Config.JPEGQuality)
}

// jobSeed derives a distinct, reproducible seed per sample.
func (g *Generator) jobSeed(j job) int64 {
	return g.seed + int64(j.page)*1_000_003 + int64(j.sample)*7919
}

// pageSeed seeds region detection for page i, independent of the order
// pages are loaded in.
func (g *Generator) pageSeed(i int) int64 {
	return g.seed ^ (int64(i)+1)*0x5DEECE66D
}

// fixedRegions returns the configured regions clipped to the canvas.
func (g *Generator) fixedRegions(bounds image.Rectangle) []image.Rectangle {
	var out []image.Rectangle
	for _, r := range g.Config.Layout.Regions {
		if rect := image.Rect(r.X, r.Y, r.X+r.W, r.Y+r.H).Intersect(bounds); !rect.Empty() {
			out = append(out, rect)
		}
	}
	return out
}

type counters struct {
	written, empty, failed, fragments atomic.Int64
}

func (c *counters) stats(jobs int, d time.Duration) *Stats {
	return &Stats{
		Jobs:      jobs,
		Written:   int(c.written.Load()),
		Empty:     int(c.empty.Load()),
		Failed:    int(c.failed.Load()),
		Fragments: int(c.fragments.Load()),
		Duration:  d,
	}
}
