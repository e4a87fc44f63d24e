package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// BenchmarkLog is appended to in the output directory when stats are on.
const BenchmarkLog = "benchmark.log"

type Stats struct {
	Jobs      int
	Written   int
	Empty     int
	Failed    int
	Fragments int
	Duration  time.Duration
}

func (s *Stats) SamplesPerSecond() float64 {
	if s.Duration <= 0 {
		return 0
	}
	return float64(s.Written) / s.Duration.Seconds()
}

func (g *Generator) report(s *Stats) {
	g.Logger.Info("performance report",
		"build", g.Config.BuildVersion,
		"total", s.Duration.Round(time.Millisecond),
		"written", s.Written,
		"empty", s.Empty,
		"failed", s.Failed,
		"fragments", s.Fragments,
		"samples/s", fmt.Sprintf("%.2f", s.SamplesPerSecond()),
	)

	entry := fmt.Sprintf("[%s] Build: %s | Input: %s | Samples: %d/%d | Fragments: %d | Total: %.2fs | Rate: %.2f/s\n",
		time.Now().Format("2006-01-02 15:04:05"),
		g.Config.BuildVersion,
		filepath.Base(g.Config.InputPath),
		s.Written,
		s.Jobs,
		s.Fragments,
		s.Duration.Seconds(),
		s.SamplesPerSecond(),
	)

	if err := os.MkdirAll(g.Config.OutputDir, 0755); err != nil {
		g.Logger.Warn("cannot write benchmark log", "err", err)
		return
	}
	f, err := os.OpenFile(filepath.Join(g.Config.OutputDir, BenchmarkLog), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		g.Logger.Warn("cannot write benchmark log", "err", err)
		return
	}
	defer f.Close()
	f.WriteString(entry)
}
