// Package motion implements the interpolation primitive and the motion
// group combinator. An interpolation is a time-subdivided linear ramp from
// a channel's last known position to a clamped target; a group runs several
// interpolations concurrently and joins before the next group starts.
package motion

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/teslashibe/go-walle/internal/log"
	"github.com/teslashibe/go-walle/pkg/servo"
)

// ErrCancelled is returned when a stop request interrupts a ramp. The
// channel is left wherever the ramp had reached.
var ErrCancelled = errors.New("motion: cancelled")

// DefaultSteps is the subdivision used when a move doesn't specify one.
const DefaultSteps = 10

// Controller executes interpolated and immediate servo moves against a
// registry, a position table, and a driver.
type Controller struct {
	reg    *servo.Registry
	pos    *servo.Positions
	driver servo.Driver
}

// NewController creates a motion controller.
func NewController(reg *servo.Registry, pos *servo.Positions, driver servo.Driver) *Controller {
	return &Controller{reg: reg, pos: pos, driver: driver}
}

// Positions returns the controller's position table.
func (c *Controller) Positions() *servo.Positions {
	return c.pos
}

// Registry returns the controller's channel registry.
func (c *Controller) Registry() *servo.Registry {
	return c.reg
}

// Interpolate ramps a channel linearly from its tracked position to target
// over duration, subdivided into steps equal increments. The target is
// silently clamped into the channel's safe range. Each step issues one
// driver write truncated to a whole degree; a failed write is logged and
// the ramp continues, but the position table only reflects accepted writes.
// Cancellation is observed between steps.
func (c *Controller) Interpolate(ctx context.Context, channel int, target float64, duration time.Duration, steps int) error {
	spec, err := c.reg.Describe(channel)
	if err != nil {
		return err
	}
	if steps <= 0 {
		steps = DefaultSteps
	}
	if target < spec.Min {
		target = spec.Min
	}
	if target > spec.Max {
		target = spec.Max
	}

	start := c.pos.Get(channel)
	stepDelay := duration / time.Duration(steps)

	for i := 1; i <= steps; i++ {
		if i > 1 {
			select {
			case <-ctx.Done():
				return ErrCancelled
			case <-time.After(stepDelay):
			}
		}

		angle := math.Trunc(start + (target-start)*float64(i)/float64(steps))
		if err := c.driver.SetAngle(channel, angle); err != nil {
			log.Warn("servo write failed, continuing ramp",
				"channel", channel, "angle", angle, "error", err)
			continue
		}
		c.pos.Set(channel, angle)
	}
	return nil
}

// SetImmediate performs a single validated driver write with no ramp.
// Unlike Interpolate it rejects out-of-range angles instead of clamping.
func (c *Controller) SetImmediate(channel int, angle float64) error {
	spec, err := c.reg.Describe(channel)
	if err != nil {
		return err
	}
	if angle < spec.Min || angle > spec.Max {
		return &servo.OutOfRangeError{Channel: channel, Angle: angle, Min: spec.Min, Max: spec.Max}
	}
	if err := c.driver.SetAngle(channel, angle); err != nil {
		return &servo.DriverError{Channel: channel, Angle: angle, Err: err}
	}
	c.pos.Set(channel, angle)
	return nil
}
