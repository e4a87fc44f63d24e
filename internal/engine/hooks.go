package engine

import (
	"image"

	"github.com/charmbracelet/log"

	"github.com/ivlev/synthtext/internal/layout"
)

// LogHooks reports placement events through a charmbracelet logger. Per
// attempt events go to debug level.
type LogHooks struct {
	logger *log.Logger
}

func NewLogHooks(logger *log.Logger) *LogHooks {
	return &LogHooks{logger: logger}
}

func (h *LogHooks) OnBlockPlaced(ev layout.PlacementEvent) {
	h.logger.Debug("block placed",
		"region", ev.Group,
		"box", ev.Inner,
		"strategy", ev.Strategy,
		"orientation", ev.Orientation,
		"kind", ev.Kind,
		"text", ev.Text,
	)
}

func (h *LogHooks) OnAttemptFailed(ev layout.PlacementEvent) {
	h.logger.Debug("attempt failed",
		"region", ev.Group,
		"strategy", ev.Strategy,
		"orientation", ev.Orientation,
		"outcome", ev.Outcome,
		"attempt", ev.Attempt,
	)
}

func (h *LogHooks) OnGroupDone(group int, box image.Rectangle, placed bool, attempts int) {
	if !placed {
		h.logger.Info("region budget exhausted", "region", group, "box", box, "attempts", attempts)
	}
}

func (h *LogHooks) OnDumped(name string, fragments int) {
	h.logger.Info("sample written", "name", name, "fragments", fragments)
}
