package motion

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/teslashibe/go-walle/pkg/servo"
)

type driverCall struct {
	Channel int
	Angle   float64
}

// mockDriver records every write, optionally failing selected calls.
type mockDriver struct {
	mu    sync.Mutex
	calls []driverCall
	fail  func(call driverCall) error
}

func (d *mockDriver) SetAngle(channel int, angle float64) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	call := driverCall{Channel: channel, Angle: angle}
	d.calls = append(d.calls, call)
	if d.fail != nil {
		return d.fail(call)
	}
	return nil
}

func (d *mockDriver) callCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.calls)
}

func (d *mockDriver) angles(channel int) []float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []float64
	for _, c := range d.calls {
		if c.Channel == channel {
			out = append(out, c.Angle)
		}
	}
	return out
}

func newTestController(t *testing.T, specs ...servo.ChannelSpec) (*Controller, *mockDriver) {
	t.Helper()
	if len(specs) == 0 {
		specs = servo.DefaultChannels()
	}
	reg, err := servo.NewRegistry(specs)
	if err != nil {
		t.Fatal(err)
	}
	driver := &mockDriver{}
	return NewController(reg, servo.NewPositions(reg), driver), driver
}

func TestInterpolate_LinearRamp(t *testing.T) {
	ctrl, driver := newTestController(t,
		servo.ChannelSpec{ID: 6, Name: "Arm Right", Min: 0, Max: 180, Default: 150})

	err := ctrl.Interpolate(context.Background(), 6, 90, 50*time.Millisecond, 10)
	if err != nil {
		t.Fatalf("Interpolate: %v", err)
	}

	angles := driver.angles(6)
	want := []float64{144, 138, 132, 126, 120, 114, 108, 102, 96, 90}
	if len(angles) != len(want) {
		t.Fatalf("got %d driver calls, want %d: %v", len(angles), len(want), angles)
	}
	for i := range want {
		if angles[i] != want[i] {
			t.Errorf("step %d: got %v, want %v", i+1, angles[i], want[i])
		}
	}
	if got := ctrl.Positions().Get(6); got != 90 {
		t.Errorf("final position: got %v, want 90", got)
	}
}

func TestInterpolate_ClampsTarget(t *testing.T) {
	ctrl, driver := newTestController(t,
		servo.ChannelSpec{ID: 0, Name: "Head Rotation", Min: 40, Max: 140, Default: 90})

	if err := ctrl.Interpolate(context.Background(), 0, 500, 20*time.Millisecond, 10); err != nil {
		t.Fatalf("Interpolate: %v", err)
	}

	for _, a := range driver.angles(0) {
		if a < 40 || a > 140 {
			t.Errorf("driver call outside safe range: %v", a)
		}
	}
	if got := ctrl.Positions().Get(0); got != 140 {
		t.Errorf("final position: got %v, want clamped max 140", got)
	}
}

func TestInterpolate_UnknownChannel(t *testing.T) {
	ctrl, driver := newTestController(t)

	err := ctrl.Interpolate(context.Background(), 15, 90, 10*time.Millisecond, 10)
	if !errors.Is(err, servo.ErrUnknownChannel) {
		t.Errorf("got %v, want ErrUnknownChannel", err)
	}
	if driver.callCount() != 0 {
		t.Errorf("driver called %d times for unknown channel", driver.callCount())
	}
}

func TestInterpolate_DriverFailureContinuesRamp(t *testing.T) {
	ctrl, driver := newTestController(t,
		servo.ChannelSpec{ID: 6, Min: 0, Max: 180, Default: 150})
	driver.fail = func(c driverCall) error {
		if c.Angle == 90 { // final step rejected
			return errors.New("i2c write failed")
		}
		return nil
	}

	err := ctrl.Interpolate(context.Background(), 6, 90, 30*time.Millisecond, 10)
	if err != nil {
		t.Fatalf("single step failure should not abort ramp: %v", err)
	}
	if got := driver.callCount(); got != 10 {
		t.Errorf("got %d driver calls, want 10", got)
	}
	// Tracker only reflects accepted writes: step 9 was the last success.
	if got := ctrl.Positions().Get(6); got != 96 {
		t.Errorf("final position: got %v, want 96", got)
	}
}

func TestInterpolate_Cancelled(t *testing.T) {
	ctrl, driver := newTestController(t,
		servo.ChannelSpec{ID: 6, Min: 0, Max: 180, Default: 150})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- ctrl.Interpolate(ctx, 6, 90, time.Second, 10)
	}()

	time.Sleep(150 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, ErrCancelled) {
			t.Errorf("got %v, want ErrCancelled", err)
		}
	case <-time.After(300 * time.Millisecond):
		t.Fatal("interpolation did not observe cancellation within a step interval")
	}

	if n := driver.callCount(); n == 0 || n >= 10 {
		t.Errorf("expected a partial ramp, got %d calls", n)
	}
	// Position stays wherever the ramp reached; no rewind.
	if got := ctrl.Positions().Get(6); got >= 150 || got <= 90 {
		t.Errorf("position after cancel: got %v, want between 90 and 150 exclusive", got)
	}
}

func TestSetImmediate_OutOfRange(t *testing.T) {
	ctrl, driver := newTestController(t,
		servo.ChannelSpec{ID: 6, Min: 0, Max: 180, Default: 150})

	err := ctrl.SetImmediate(6, 200)
	var rangeErr *servo.OutOfRangeError
	if !errors.As(err, &rangeErr) {
		t.Fatalf("got %v, want OutOfRangeError", err)
	}
	if rangeErr.Min != 0 || rangeErr.Max != 180 {
		t.Errorf("range in error: got %v-%v, want 0-180", rangeErr.Min, rangeErr.Max)
	}
	if driver.callCount() != 0 {
		t.Errorf("driver called %d times for rejected angle", driver.callCount())
	}
	if got := ctrl.Positions().Get(6); got != 150 {
		t.Errorf("position changed on rejected move: got %v, want 150", got)
	}
}

func TestSetImmediate_Valid(t *testing.T) {
	ctrl, driver := newTestController(t)

	if err := ctrl.SetImmediate(servo.ChanEyeLeft, 120); err != nil {
		t.Fatalf("SetImmediate: %v", err)
	}
	if got := driver.callCount(); got != 1 {
		t.Errorf("got %d driver calls, want 1", got)
	}
	if got := ctrl.Positions().Get(servo.ChanEyeLeft); got != 120 {
		t.Errorf("position: got %v, want 120", got)
	}
}

func TestSetImmediate_DriverFailure(t *testing.T) {
	ctrl, driver := newTestController(t)
	driver.fail = func(driverCall) error { return errors.New("bus timeout") }

	err := ctrl.SetImmediate(servo.ChanEyeLeft, 120)
	var driverErr *servo.DriverError
	if !errors.As(err, &driverErr) {
		t.Fatalf("got %v, want DriverError", err)
	}
	if got := ctrl.Positions().Get(servo.ChanEyeLeft); got != 90 {
		t.Errorf("position updated on failed write: got %v, want 90", got)
	}
}
