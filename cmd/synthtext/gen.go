package main

import (
	"github.com/spf13/cobra"

	"github.com/ivlev/synthtext/internal/config"
	"github.com/ivlev/synthtext/internal/engine"
)

func newGenCmd(load func() (*config.Config, error)) *cobra.Command {
	var (
		input, output, planPath, detector string
		count, workers, qrRatio           int
		seed                              int64
		fill, debug, stats                bool
	)

	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate labeled samples",
		Long:  `Generate lays fragments over every background page and writes pictures, fragment crops and JSON labels to the output directory.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			f := cmd.Flags()
			if f.Changed("input") {
				cfg.InputPath = input
			}
			if f.Changed("output") {
				cfg.OutputDir = output
			}
			if f.Changed("plan") {
				cfg.PlanPath = planPath
			}
			if f.Changed("detector") {
				cfg.Detector = detector
			}
			if f.Changed("count") {
				cfg.Count = count
			}
			if f.Changed("workers") {
				cfg.Workers = workers
			}
			if f.Changed("seed") {
				cfg.Seed = seed
			}
			if f.Changed("qr-ratio") {
				cfg.QR.Ratio = qrRatio
			}
			if f.Changed("fill") {
				cfg.Layout.Fill = fill
			}
			if f.Changed("debug") {
				cfg.Layout.Debug = debug
			}
			if f.Changed("stats") {
				cfg.ShowStats = stats
			}

			ctx := cmd.Context()
			logger := loggerFrom(ctx)
			src, err := openSource(logger, cfg)
			if err != nil {
				return err
			}
			defer src.Close()

			g, err := engine.NewGenerator(cfg, src, logger)
			if err != nil {
				return err
			}
			s, err := g.Run(ctx)
			if err != nil {
				return err
			}
			logger.Info("done", "written", s.Written, "empty", s.Empty, "failed", s.Failed, "output", cfg.OutputDir)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&input, "input", "i", "", "PDF file, image file or image directory")
	f.StringVarP(&output, "output", "o", "", "output directory")
	f.StringVar(&planPath, "plan", "", `region plan file, or "latest"`)
	f.StringVar(&detector, "detector", "", "region detector: contrast, random, grid")
	f.IntVarP(&count, "count", "n", 1, "samples per background")
	f.IntVarP(&workers, "workers", "w", 0, "parallel workers (0 sizes by CPU and memory)")
	f.Int64Var(&seed, "seed", 0, "random seed (0 uses the clock)")
	f.IntVar(&qrRatio, "qr-ratio", 0, "percent of fragments rendered as QR codes")
	f.BoolVar(&fill, "fill", false, "keep filling each region until placement fails")
	f.BoolVar(&debug, "debug", false, "also write previews with region and block boxes")
	f.BoolVar(&stats, "stats", false, "print a performance report and append to benchmark.log")
	return cmd
}
