package main

import (
	"github.com/spf13/cobra"

	"github.com/ivlev/synthtext/internal/config"
	"github.com/ivlev/synthtext/internal/engine"
)

func newPlanCmd(load func() (*config.Config, error)) *cobra.Command {
	var input, output, detector string

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Detect regions and write a region plan",
		Long:  `Plan runs the region detector over every background and writes the regions as a YAML plan that gen --plan can reuse or that can be edited by hand.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("input") {
				cfg.InputPath = input
			}
			if cmd.Flags().Changed("detector") {
				cfg.Detector = detector
			}
			// The generator would otherwise try to read the plan.
			cfg.PlanPath = ""

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
			_, err = g.WritePlan(ctx, output)
			return err
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "PDF file, image file or image directory")
	cmd.Flags().StringVarP(&output, "output", "o", "", "plan file (default: timestamped file in plan_dir)")
	cmd.Flags().StringVar(&detector, "detector", "", "region detector: contrast, random, grid")
	return cmd
}
