package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/ivlev/synthtext/internal/config"
	"github.com/ivlev/synthtext/internal/source"
	"github.com/ivlev/synthtext/internal/system"
)

// Default locations used when --input is not given.
var (
	defaultPDFDir   = filepath.Join("input", "pdf")
	defaultImageDir = filepath.Join("input", "images")
)

type ctxKey int

const loggerKey ctxKey = 0

func newLogger(level log.Level) *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

func loggerFrom(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

func newRootCmd() *cobra.Command {
	var (
		verbose    bool
		configPath string
	)

	root := &cobra.Command{
		Use:          "synthtext",
		Short:        "synthtext lays rendered text over backgrounds to build OCR training data",
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := log.InfoLevel
			if verbose {
				level = log.DebugLevel
			}
			logger := newLogger(level)
			if n, err := system.InitResourceLimits(2048); err != nil {
				logger.Warn("cannot raise open file limit", "err", err)
			} else {
				logger.Debug("open file limit", "value", n)
			}
			cmd.SetContext(context.WithValue(cmd.Context(), loggerKey, logger))
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file")

	load := func() (*config.Config, error) {
		cfg, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}
		cfg.BuildVersion = version
		return cfg, nil
	}
	root.AddCommand(newGenCmd(load))
	root.AddCommand(newPlanCmd(load))
	return root
}

// openSource opens cfg.InputPath, defaulting to the newest PDF in input/pdf
// and then to the input/images directory.
func openSource(logger *log.Logger, cfg *config.Config) (source.Source, error) {
	if cfg.InputPath == "" {
		if latest, err := system.FindLatestFile(defaultPDFDir, ".pdf"); err == nil {
			cfg.InputPath = latest
		} else {
			cfg.InputPath = defaultImageDir
		}
		logger.Info("input selected", "path", cfg.InputPath)
	}
	src, err := source.Open(cfg.InputPath)
	if err != nil {
		return nil, err
	}
	return src, nil
}
