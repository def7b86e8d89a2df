package servo

import "sync"

// Positions tracks the last angle commanded for each channel. It is the
// source of truth for interpolation start points: values reflect what was
// requested of the driver, not necessarily what the servo has physically
// reached yet.
//
// Entries are only updated after the driver accepts a write. Within a
// motion group each channel is written by at most one goroutine, so the
// lock only guards the map itself.
type Positions struct {
	mu     sync.RWMutex
	angles map[int]float64
	reg    *Registry
}

// NewPositions creates a position table seeded to each channel's default.
func NewPositions(reg *Registry) *Positions {
	p := &Positions{reg: reg}
	p.Reset()
	return p
}

// Get returns the last commanded angle for a channel. Unknown channels
// report zero; callers validate against the registry first.
func (p *Positions) Get(id int) float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.angles[id]
}

// Set records the last commanded angle for a channel.
func (p *Positions) Set(id int, angle float64) {
	p.mu.Lock()
	p.angles[id] = angle
	p.mu.Unlock()
}

// Snapshot returns a copy of the table for status reporting.
func (p *Positions) Snapshot() map[int]float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make(map[int]float64, len(p.angles))
	for id, a := range p.angles {
		out[id] = a
	}
	return out
}

// Reset re-seeds every channel to its registry default.
func (p *Positions) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.angles = make(map[int]float64, len(p.reg.ids))
	for _, spec := range p.reg.List() {
		p.angles[spec.ID] = spec.Default
	}
}
