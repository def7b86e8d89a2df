// Package servo provides the channel registry, position tracking, and
// actuator driver abstraction for the WALL-E servo rig.
//
// A channel is one independently controllable servo joint. The registry is
// the single source of truth for safe angle ranges and default poses; it is
// immutable after construction so concurrent readers need no locking.
package servo

import (
	"fmt"
	"sort"
)

// Default rig channel assignments (PCA9685 board, standard WALL-E build).
const (
	ChanHeadRotation = 0
	ChanNeckTop      = 1
	ChanNeckBottom   = 2
	ChanEyeRight     = 3
	ChanEyeLeft      = 4
	ChanArmLeft      = 5
	ChanArmRight     = 6
)

// ChannelSpec describes one actuator channel and its safe operating range.
// Angles are in degrees.
type ChannelSpec struct {
	ID      int     `json:"channel" yaml:"channel"`
	Name    string  `json:"name" yaml:"name"`
	Min     float64 `json:"min" yaml:"min"`
	Max     float64 `json:"max" yaml:"max"`
	Default float64 `json:"default" yaml:"default"`
}

// Validate checks the spec's range invariants.
func (s ChannelSpec) Validate() error {
	if s.Min < 0 || s.Max > 180 {
		return fmt.Errorf("servo: channel %d range %.0f-%.0f outside 0-180", s.ID, s.Min, s.Max)
	}
	if s.Min > s.Default || s.Default > s.Max {
		return fmt.Errorf("servo: channel %d default %.0f outside range %.0f-%.0f",
			s.ID, s.Default, s.Min, s.Max)
	}
	return nil
}

// DefaultChannels returns the built-in WALL-E channel table.
func DefaultChannels() []ChannelSpec {
	return []ChannelSpec{
		{ID: ChanHeadRotation, Name: "Head Rotation", Min: 40, Max: 140, Default: 90},
		{ID: ChanNeckTop, Name: "Neck Top", Min: 90, Max: 140, Default: 120},
		{ID: ChanNeckBottom, Name: "Neck Bottom", Min: 50, Max: 130, Default: 90},
		{ID: ChanEyeRight, Name: "Eye Right", Min: 0, Max: 180, Default: 90},
		{ID: ChanEyeLeft, Name: "Eye Left", Min: 40, Max: 170, Default: 90},
		{ID: ChanArmLeft, Name: "Arm Left", Min: 0, Max: 180, Default: 30},
		{ID: ChanArmRight, Name: "Arm Right", Min: 0, Max: 180, Default: 150},
	}
}

// Registry is the static table of actuator channels. Read-only after
// construction.
type Registry struct {
	byID map[int]ChannelSpec
	ids  []int
}

// NewRegistry builds a registry from the given specs. It rejects duplicate
// channel ids and specs that violate the range invariants.
func NewRegistry(specs []ChannelSpec) (*Registry, error) {
	r := &Registry{byID: make(map[int]ChannelSpec, len(specs))}
	for _, s := range specs {
		if err := s.Validate(); err != nil {
			return nil, err
		}
		if _, dup := r.byID[s.ID]; dup {
			return nil, fmt.Errorf("servo: duplicate channel %d", s.ID)
		}
		r.byID[s.ID] = s
		r.ids = append(r.ids, s.ID)
	}
	sort.Ints(r.ids)
	return r, nil
}

// DefaultRegistry returns a registry loaded with the built-in WALL-E table.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(DefaultChannels())
	if err != nil {
		panic(err) // built-in table is known valid
	}
	return r
}

// Describe returns the spec for a channel, or ErrUnknownChannel.
func (r *Registry) Describe(id int) (ChannelSpec, error) {
	s, ok := r.byID[id]
	if !ok {
		return ChannelSpec{}, fmt.Errorf("%w: %d", ErrUnknownChannel, id)
	}
	return s, nil
}

// List returns all channel specs ordered by channel id.
func (r *Registry) List() []ChannelSpec {
	out := make([]ChannelSpec, 0, len(r.ids))
	for _, id := range r.ids {
		out = append(out, r.byID[id])
	}
	return out
}
