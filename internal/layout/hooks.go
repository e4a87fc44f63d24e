package layout

import "image"

// Outcome describes how a placement attempt ended.
type Outcome string

const (
	OutcomePlaced   Outcome = "placed"
	OutcomeNoFit    Outcome = "no_fit"
	OutcomeRejected Outcome = "rejected"
)

// PlacementEvent is emitted for every attempt a block group makes.
type PlacementEvent struct {
	Group       int
	Box         image.Rectangle
	Strategy    string
	Orientation Orientation
	Outcome     Outcome
	Attempt     int
	Kind        string
	Text        string
	Inner       image.Rectangle
}

// Hooks receives events from generation and export. Implementations must
// be safe for concurrent use when layouts are generated in parallel.
type Hooks interface {
	OnBlockPlaced(ev PlacementEvent)
	OnAttemptFailed(ev PlacementEvent)
	// OnGroupDone fires once per AutoAppendBlock call.
	OnGroupDone(group int, box image.Rectangle, placed bool, attempts int)
	OnDumped(name string, fragments int)
}

// NoopHooks ignores every event.
type NoopHooks struct{}

func (NoopHooks) OnBlockPlaced(PlacementEvent)                {}
func (NoopHooks) OnAttemptFailed(PlacementEvent)              {}
func (NoopHooks) OnGroupDone(int, image.Rectangle, bool, int) {}
func (NoopHooks) OnDumped(string, int)                        {}
