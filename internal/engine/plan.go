package engine

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/ivlev/synthtext/internal/plan"
)

// WritePlan detects regions on every page and writes them as a plan to path,
// or to a timestamped file in PlanDir when path is empty. Pages without
// usable regions are left out. It returns the path written.
func (g *Generator) WritePlan(ctx context.Context, path string) (string, error) {
	pageCount := g.Source.PageCount()
	if pageCount == 0 {
		return "", errors.New("source has no pages")
	}

	pages := make([]*plan.Page, pageCount)
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.workers())
	for i := 0; i < pageCount; i++ {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			img, err := g.render(i)
			if err != nil {
				g.Logger.Warn("page skipped", "page", g.Source.PageName(i), "err", err)
				return nil
			}
			pg, err := g.detect(i, img)
			if err != nil {
				g.Logger.Warn("page skipped", "page", g.Source.PageName(i), "err", err)
				return nil
			}
			g.Logger.Debug("page analyzed", "page", pg.Name, "regions", len(pg.Regions))
			pages[i] = &pg
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return "", err
	}

	p := &plan.Plan{
		Version:  plan.Version,
		Source:   g.Config.InputPath,
		Detector: g.detector.Name(),
	}
	for _, pg := range pages {
		if pg != nil {
			p.Pages = append(p.Pages, *pg)
		}
	}
	if len(p.Pages) == 0 {
		return "", errors.New("no page produced usable regions")
	}

	if path == "" {
		path = plan.GeneratePath(g.Config.PlanDir)
	}
	if err := plan.Write(p, path); err != nil {
		return "", err
	}
	g.Logger.Info("plan written", "path", path, "pages", len(p.Pages))
	return path, nil
}
