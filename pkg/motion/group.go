package motion

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// Step is a single channel's move within a group.
type Step struct {
	Channel  int
	Angle    float64
	Duration time.Duration
	Steps    int
}

// Group is a set of steps executed concurrently, optionally followed by a
// pause. A group with no steps is a pure delay and emits no driver calls.
type Group struct {
	Steps []Step
	Pause time.Duration
}

// Move builds a step with the default subdivision.
func Move(channel int, angle float64, duration time.Duration) Step {
	return Step{Channel: channel, Angle: angle, Duration: duration}
}

// Delay builds a pure-delay group.
func Delay(d time.Duration) Group {
	return Group{Pause: d}
}

// RunGroup launches one interpolation per step and waits for all of them.
// A failing member does not cancel its siblings: a half-finished gesture
// looks worse than a late failure report. The first error encountered is
// returned after every member has finished.
func (c *Controller) RunGroup(ctx context.Context, g Group) error {
	var eg errgroup.Group
	for _, st := range g.Steps {
		eg.Go(func() error {
			return c.Interpolate(ctx, st.Channel, st.Angle, st.Duration, st.Steps)
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}
	if g.Pause > 0 {
		select {
		case <-ctx.Done():
			return ErrCancelled
		case <-time.After(g.Pause):
		}
	}
	return nil
}

// RunSequence runs groups strictly in order. A failing group aborts the
// remainder of the sequence.
func (c *Controller) RunSequence(ctx context.Context, groups []Group) error {
	for _, g := range groups {
		if err := c.RunGroup(ctx, g); err != nil {
			return err
		}
	}
	return nil
}
