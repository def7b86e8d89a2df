// Package choreo holds the routine library: named, pre-authored gesture
// choreographies expressed as ordered motion groups, plus the interpreter
// for caller-supplied custom sequences.
//
// Builders are pure functions over the channel registry; they read no other
// state, so a routine can be built (and rebuilt) at any time.
package choreo

import (
	"errors"
	"time"

	"github.com/teslashibe/go-walle/pkg/motion"
	"github.com/teslashibe/go-walle/pkg/servo"
)

// ErrUnknownRoutine is returned for a routine name not in the library.
var ErrUnknownRoutine = errors.New("choreo: unknown routine")

// Routine is a named sequence of motion groups producing a recognizable
// gesture.
type Routine struct {
	Name   string
	Groups []motion.Group
}

// MoveParam is one caller-supplied descriptor for a custom routine.
// Channel and Angle are pointers so missing fields can be detected and the
// entry skipped rather than rejected.
type MoveParam struct {
	Channel  *int     `json:"channel"`
	Angle    *float64 `json:"angle"`
	Duration float64  `json:"duration"` // seconds; 0 means 0.5
	Steps    int      `json:"steps"`    // 0 means 10
}

// DefaultMoveDuration is applied to custom descriptors without a duration.
const DefaultMoveDuration = 500 * time.Millisecond

// Library builds routines against a channel registry.
type Library struct {
	reg *servo.Registry
}

// NewLibrary creates a routine library for the given registry.
func NewLibrary(reg *servo.Registry) *Library {
	return &Library{reg: reg}
}

// Names returns the built-in routine names in presentation order.
// "custom" is included: it is a valid Build target with params.
func (l *Library) Names() []string {
	return []string{"wave", "nod", "curious", "excited", "full", "reset", "custom"}
}

// Build returns the routine for name. Params are only consulted for
// "custom"; built-ins ignore them.
func (l *Library) Build(name string, params []MoveParam) (Routine, error) {
	switch name {
	case "wave":
		return l.Wave(), nil
	case "nod":
		return l.Nod(), nil
	case "curious":
		return l.Curious(), nil
	case "excited":
		return l.Excited(), nil
	case "full":
		return l.Full(), nil
	case "reset":
		return l.Reset(), nil
	case "custom":
		return l.Custom(params), nil
	}
	return Routine{}, ErrUnknownRoutine
}

// Custom builds one single-step group per descriptor, run sequentially.
// Descriptors missing a channel or angle are skipped, not rejected, so one
// bad entry never aborts an otherwise valid sequence.
func (l *Library) Custom(params []MoveParam) Routine {
	groups := make([]motion.Group, 0, len(params))
	for _, p := range params {
		if p.Channel == nil || p.Angle == nil {
			continue
		}
		d := DefaultMoveDuration
		if p.Duration > 0 {
			d = time.Duration(p.Duration * float64(time.Second))
		}
		groups = append(groups, motion.Group{
			Steps: []motion.Step{{
				Channel:  *p.Channel,
				Angle:    *p.Angle,
				Duration: d,
				Steps:    p.Steps,
			}},
		})
	}
	return Routine{Name: "custom", Groups: groups}
}

// Reset drives every channel back to its registry default in one
// concurrent group.
func (l *Library) Reset() Routine {
	g := motion.Group{}
	for _, spec := range l.reg.List() {
		g.Steps = append(g.Steps, motion.Move(spec.ID, spec.Default, 500*time.Millisecond))
	}
	return Routine{Name: "reset", Groups: []motion.Group{g}}
}

// defaultAngle returns the registry default for a channel, or fallback if
// the rig doesn't define it. Builders stay usable on partial rigs.
func (l *Library) defaultAngle(channel int, fallback float64) float64 {
	spec, err := l.reg.Describe(channel)
	if err != nil {
		return fallback
	}
	return spec.Default
}
