// Package engine provides the exclusivity scheduler: a single-flight gate
// that admits at most one routine onto the rig at a time, with cooperative
// stop and an always-available status snapshot.
package engine

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/teslashibe/go-walle/internal/log"
	"github.com/teslashibe/go-walle/pkg/choreo"
	"github.com/teslashibe/go-walle/pkg/motion"
	"github.com/teslashibe/go-walle/pkg/servo"
)

// ErrBusy is returned when a routine is already commanding the rig. The
// request is dropped, never queued; the caller decides whether to retry.
var ErrBusy = errors.New("engine: routine already running")

// Status is a point-in-time snapshot of the engine.
type Status struct {
	Busy      bool            `json:"busy"`
	Routine   string          `json:"routine,omitempty"`
	RunID     string          `json:"run_id,omitempty"`
	Positions map[int]float64 `json:"positions"`
}

// Engine gates routine execution so only one choreography commands the rig
// at a time. State transitions Idle -> Running -> Idle; the busy flag is
// cleared on every exit path, including panics inside a routine.
type Engine struct {
	ctrl *motion.Controller
	lib  *choreo.Library

	mu      sync.Mutex
	busy    bool
	routine string
	runID   string
	cancel  context.CancelFunc

	onChange func(Status)
}

// New creates an engine over the given motion controller and routine
// library.
func New(ctrl *motion.Controller, lib *choreo.Library) *Engine {
	return &Engine{ctrl: ctrl, lib: lib}
}

// OnChange registers a hook invoked with a fresh status after every state
// transition. Used by the control surface to broadcast over websockets.
func (e *Engine) OnChange(fn func(Status)) {
	e.mu.Lock()
	e.onChange = fn
	e.mu.Unlock()
}

// Routines lists the available routine names.
func (e *Engine) Routines() []string {
	return e.lib.Names()
}

// Channels lists the rig's channel specs.
func (e *Engine) Channels() []servo.ChannelSpec {
	return e.ctrl.Registry().List()
}

// Start admits a routine if the rig is idle and launches it on its own
// goroutine, returning the run id. It returns ErrBusy without queueing when
// another routine is in flight, or choreo.ErrUnknownRoutine for a name the
// library doesn't know.
func (e *Engine) Start(name string, params []choreo.MoveParam) (string, error) {
	routine, err := e.lib.Build(name, params)
	if err != nil {
		return "", err
	}

	e.mu.Lock()
	if e.busy {
		e.mu.Unlock()
		return "", ErrBusy
	}
	ctx, cancel := context.WithCancel(context.Background())
	id := uuid.NewString()
	e.busy = true
	e.routine = routine.Name
	e.runID = id
	e.cancel = cancel
	e.mu.Unlock()

	e.notify()
	log.Info("routine started", "routine", routine.Name, "run_id", id, "groups", len(routine.Groups))

	go e.run(ctx, cancel, routine, id)
	return id, nil
}

// Stop signals the in-flight routine, if any, and returns immediately.
// Interpolations observe the signal at their next step boundary; motion is
// never rewound.
func (e *Engine) Stop() {
	e.mu.Lock()
	cancel := e.cancel
	e.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Status returns a snapshot of the engine. It never blocks on a running
// routine.
func (e *Engine) Status() Status {
	e.mu.Lock()
	s := Status{Busy: e.busy, Routine: e.routine, RunID: e.runID}
	e.mu.Unlock()
	s.Positions = e.ctrl.Positions().Snapshot()
	return s
}

// SetImmediate performs a strict low-level servo placement, bypassing the
// routine gate. Single write, no ramp, no clamping.
func (e *Engine) SetImmediate(channel int, angle float64) error {
	err := e.ctrl.SetImmediate(channel, angle)
	if err == nil {
		e.notify()
	}
	return err
}

func (e *Engine) run(ctx context.Context, cancel context.CancelFunc, routine choreo.Routine, id string) {
	started := time.Now()
	defer func() {
		if r := recover(); r != nil {
			log.Error("routine panicked", "routine", routine.Name, "run_id", id, "panic", r)
		}
		cancel()
		e.mu.Lock()
		e.busy = false
		e.routine = ""
		e.runID = ""
		e.cancel = nil
		e.mu.Unlock()
		e.notify()
	}()

	err := e.ctrl.RunSequence(ctx, routine.Groups)
	switch {
	case errors.Is(err, motion.ErrCancelled):
		log.Info("routine stopped", "routine", routine.Name, "run_id", id,
			"elapsed", time.Since(started))
	case err != nil:
		log.Warn("routine failed", "routine", routine.Name, "run_id", id, "error", err)
	default:
		log.Info("routine completed", "routine", routine.Name, "run_id", id,
			"elapsed", time.Since(started))
	}
}

func (e *Engine) notify() {
	e.mu.Lock()
	fn := e.onChange
	e.mu.Unlock()
	if fn != nil {
		fn(e.Status())
	}
}
