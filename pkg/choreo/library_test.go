package choreo

import (
	"errors"
	"testing"
	"time"

	"github.com/teslashibe/go-walle/pkg/motion"
	"github.com/teslashibe/go-walle/pkg/servo"
)

func newTestLibrary(t *testing.T) *Library {
	t.Helper()
	return NewLibrary(servo.DefaultRegistry())
}

func groupChannels(g motion.Group) map[int]float64 {
	out := make(map[int]float64, len(g.Steps))
	for _, st := range g.Steps {
		out[st.Channel] = st.Angle
	}
	return out
}

func TestLibrary_Names(t *testing.T) {
	lib := newTestLibrary(t)
	names := lib.Names()

	want := map[string]bool{
		"wave": false, "nod": false, "curious": false,
		"excited": false, "full": false, "reset": false, "custom": false,
	}
	for _, n := range names {
		if _, ok := want[n]; !ok {
			t.Errorf("unexpected routine %q", n)
		}
		want[n] = true
	}
	for n, seen := range want {
		if !seen {
			t.Errorf("routine %q missing from Names", n)
		}
	}
}

func TestBuild_UnknownRoutine(t *testing.T) {
	lib := newTestLibrary(t)
	_, err := lib.Build("moonwalk", nil)
	if !errors.Is(err, ErrUnknownRoutine) {
		t.Errorf("got %v, want ErrUnknownRoutine", err)
	}
}

func TestBuild_BuiltinsProduceGroups(t *testing.T) {
	lib := newTestLibrary(t)
	for _, name := range []string{"wave", "nod", "curious", "excited", "full", "reset"} {
		r, err := lib.Build(name, nil)
		if err != nil {
			t.Errorf("Build(%q): %v", name, err)
			continue
		}
		if len(r.Groups) == 0 {
			t.Errorf("Build(%q): no groups", name)
		}
		if r.Name != name {
			t.Errorf("Build(%q): routine named %q", name, r.Name)
		}
	}
}

func TestWave_TurnsHeadThenEndsNeutral(t *testing.T) {
	lib := newTestLibrary(t)
	wave := lib.Wave()

	first := groupChannels(wave.Groups[0])
	if first[servo.ChanHeadRotation] != 110 {
		t.Errorf("first group head angle: got %v, want 110", first[servo.ChanHeadRotation])
	}
	if _, ok := first[servo.ChanNeckBottom]; !ok {
		t.Error("first group should move the neck with the head")
	}

	last := groupChannels(wave.Groups[len(wave.Groups)-1])
	if last[servo.ChanHeadRotation] != 90 || last[servo.ChanNeckBottom] != 90 {
		t.Errorf("wave should end at neutral, got %v", last)
	}
}

func TestExcited_ArmsCounterPhase(t *testing.T) {
	lib := newTestLibrary(t)
	excited := lib.Excited()

	// Second group is the first shake: arms on opposite sides.
	shake := groupChannels(excited.Groups[1])
	if shake[servo.ChanArmLeft] == shake[servo.ChanArmRight] {
		t.Errorf("shake group arms in phase: %v", shake)
	}
}

func TestFull_EndsWithAllChannelsNeutral(t *testing.T) {
	lib := newTestLibrary(t)
	reg := servo.DefaultRegistry()
	full := lib.Full()

	last := groupChannels(full.Groups[len(full.Groups)-1])
	for _, spec := range reg.List() {
		angle, ok := last[spec.ID]
		if !ok {
			t.Errorf("final group missing channel %d", spec.ID)
			continue
		}
		if angle != spec.Default {
			t.Errorf("channel %d final angle: got %v, want default %v", spec.ID, angle, spec.Default)
		}
	}
}

func TestReset_CoversEveryChannel(t *testing.T) {
	lib := newTestLibrary(t)
	reg := servo.DefaultRegistry()
	reset := lib.Reset()

	if len(reset.Groups) != 1 {
		t.Fatalf("reset should be one concurrent group, got %d", len(reset.Groups))
	}
	chans := groupChannels(reset.Groups[0])
	for _, spec := range reg.List() {
		if chans[spec.ID] != spec.Default {
			t.Errorf("channel %d: got %v, want default %v", spec.ID, chans[spec.ID], spec.Default)
		}
	}
}

func TestCustom_SkipsIncompleteDescriptors(t *testing.T) {
	lib := newTestLibrary(t)

	ch6, ch5 := 6, 5
	angle := 90.0
	params := []MoveParam{
		{Channel: &ch6, Angle: &angle, Duration: 0.3},
		{Channel: &ch5}, // missing angle: skipped, not rejected
		{Angle: &angle}, // missing channel: skipped
		{Channel: &ch5, Angle: &angle},
	}

	r := lib.Custom(params)
	if len(r.Groups) != 2 {
		t.Fatalf("got %d groups, want 2 (incomplete entries skipped)", len(r.Groups))
	}

	first := r.Groups[0].Steps[0]
	if first.Channel != 6 || first.Duration != 300*time.Millisecond {
		t.Errorf("first step: %+v", first)
	}

	// Missing duration falls back to the default.
	second := r.Groups[1].Steps[0]
	if second.Duration != DefaultMoveDuration {
		t.Errorf("second step duration: got %v, want %v", second.Duration, DefaultMoveDuration)
	}
}

func TestCustom_SequentialSingleStepGroups(t *testing.T) {
	lib := newTestLibrary(t)

	ch := 0
	angle := 100.0
	params := []MoveParam{
		{Channel: &ch, Angle: &angle},
		{Channel: &ch, Angle: &angle},
	}

	r := lib.Custom(params)
	for i, g := range r.Groups {
		if len(g.Steps) != 1 {
			t.Errorf("group %d has %d steps, want 1", i, len(g.Steps))
		}
	}
}
