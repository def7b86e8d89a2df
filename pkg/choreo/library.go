package choreo

import (
	"time"

	"github.com/teslashibe/go-walle/pkg/motion"
	"github.com/teslashibe/go-walle/pkg/servo"
)

// Phase angles below come from the standard WALL-E build: head turned
// toward the waving arm at 110, arm raised to 90, nod between neck 70 and
// 110 with the eyes following, and so on. Return-to-neutral phases target
// the registry defaults so a re-trimmed rig keeps its own rest pose.

func ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }

// Wave turns the head toward the right arm, raises the arm, oscillates it
// three times, lowers it, and re-centers the head.
func (l *Library) Wave() Routine {
	groups := []motion.Group{
		{Steps: []motion.Step{
			motion.Move(servo.ChanHeadRotation, 110, ms(600)),
			motion.Move(servo.ChanNeckBottom, 100, ms(600)),
		}, Pause: ms(200)},
		{Steps: []motion.Step{
			motion.Move(servo.ChanArmRight, 90, ms(800)),
		}, Pause: ms(100)},
	}
	for i := 0; i < 3; i++ {
		groups = append(groups,
			motion.Group{Steps: []motion.Step{motion.Move(servo.ChanArmRight, 60, ms(300))}},
			motion.Group{Steps: []motion.Step{motion.Move(servo.ChanArmRight, 120, ms(300))}},
		)
	}
	groups = append(groups,
		motion.Group{Steps: []motion.Step{
			motion.Move(servo.ChanArmRight, l.defaultAngle(servo.ChanArmRight, 150), ms(800)),
		}},
		motion.Group{Steps: []motion.Step{
			motion.Move(servo.ChanHeadRotation, l.defaultAngle(servo.ChanHeadRotation, 90), ms(600)),
			motion.Move(servo.ChanNeckBottom, l.defaultAngle(servo.ChanNeckBottom, 90), ms(600)),
		}},
	)
	return Routine{Name: "wave", Groups: groups}
}

// Nod moves the neck and both eyes down then up three times, ending on a
// return-to-neutral group.
func (l *Library) Nod() Routine {
	var groups []motion.Group
	for i := 0; i < 3; i++ {
		groups = append(groups,
			motion.Group{Steps: []motion.Step{
				motion.Move(servo.ChanNeckBottom, 70, ms(400)),
				motion.Move(servo.ChanEyeRight, 120, ms(400)),
				motion.Move(servo.ChanEyeLeft, 120, ms(400)),
			}, Pause: ms(100)},
			motion.Group{Steps: []motion.Step{
				motion.Move(servo.ChanNeckBottom, 110, ms(400)),
				motion.Move(servo.ChanEyeRight, 60, ms(400)),
				motion.Move(servo.ChanEyeLeft, 60, ms(400)),
			}, Pause: ms(100)},
		)
	}
	groups = append(groups, motion.Group{Steps: []motion.Step{
		motion.Move(servo.ChanNeckBottom, l.defaultAngle(servo.ChanNeckBottom, 90), ms(500)),
		motion.Move(servo.ChanEyeRight, l.defaultAngle(servo.ChanEyeRight, 90), ms(500)),
		motion.Move(servo.ChanEyeLeft, l.defaultAngle(servo.ChanEyeLeft, 90), ms(500)),
	}})
	return Routine{Name: "nod", Groups: groups}
}

// Curious looks left, right, then up, with the eyes tracking the head, and
// returns to neutral. Fixed pauses separate the glances.
func (l *Library) Curious() Routine {
	return Routine{Name: "curious", Groups: []motion.Group{
		{Steps: []motion.Step{
			motion.Move(servo.ChanHeadRotation, 60, ms(700)),
			motion.Move(servo.ChanEyeRight, 110, ms(700)),
			motion.Move(servo.ChanEyeLeft, 110, ms(700)),
		}, Pause: ms(500)},
		{Steps: []motion.Step{
			motion.Move(servo.ChanHeadRotation, 120, ms(900)),
			motion.Move(servo.ChanEyeRight, 70, ms(900)),
			motion.Move(servo.ChanEyeLeft, 70, ms(900)),
		}, Pause: ms(500)},
		{Steps: []motion.Step{
			motion.Move(servo.ChanHeadRotation, 90, ms(500)),
			motion.Move(servo.ChanNeckBottom, 110, ms(600)),
			motion.Move(servo.ChanEyeRight, 60, ms(600)),
			motion.Move(servo.ChanEyeLeft, 60, ms(600)),
		}, Pause: ms(500)},
		{Steps: []motion.Step{
			motion.Move(servo.ChanHeadRotation, l.defaultAngle(servo.ChanHeadRotation, 90), ms(600)),
			motion.Move(servo.ChanNeckBottom, l.defaultAngle(servo.ChanNeckBottom, 90), ms(600)),
			motion.Move(servo.ChanEyeRight, l.defaultAngle(servo.ChanEyeRight, 90), ms(600)),
			motion.Move(servo.ChanEyeLeft, l.defaultAngle(servo.ChanEyeLeft, 90), ms(600)),
		}},
	}}
}

// Excited raises both arms with the neck, shakes the arms in counter-phase
// four times, and lowers everything back down.
func (l *Library) Excited() Routine {
	groups := []motion.Group{
		{Steps: []motion.Step{
			motion.Move(servo.ChanArmLeft, 90, ms(500)),
			motion.Move(servo.ChanArmRight, 90, ms(500)),
			motion.Move(servo.ChanNeckBottom, 110, ms(500)),
		}},
	}
	groups = append(groups, armShake(4, ms(200))...)
	groups = append(groups, motion.Group{Steps: []motion.Step{
		motion.Move(servo.ChanArmLeft, l.defaultAngle(servo.ChanArmLeft, 30), ms(600)),
		motion.Move(servo.ChanArmRight, l.defaultAngle(servo.ChanArmRight, 150), ms(600)),
		motion.Move(servo.ChanNeckBottom, l.defaultAngle(servo.ChanNeckBottom, 90), ms(600)),
	}})
	return Routine{Name: "excited", Groups: groups}
}

// armShake oscillates both arms in counter-phase for reps repetitions.
func armShake(reps int, d time.Duration) []motion.Group {
	var groups []motion.Group
	for i := 0; i < reps; i++ {
		groups = append(groups,
			motion.Group{Steps: []motion.Step{
				motion.Move(servo.ChanArmLeft, 60, d),
				motion.Move(servo.ChanArmRight, 120, d),
			}},
			motion.Group{Steps: []motion.Step{
				motion.Move(servo.ChanArmLeft, 120, d),
				motion.Move(servo.ChanArmRight, 60, d),
			}},
		)
	}
	return groups
}

// Full is the complete choreography: abbreviated wave, look-around, nod,
// excited shake, a bow, and a full-channel return to neutral. It is built
// from the same phase blocks as the other routines with its own compressed
// timings rather than calling into them.
func (l *Library) Full() Routine {
	groups := []motion.Group{
		// Greeting wave
		{Steps: []motion.Step{
			motion.Move(servo.ChanHeadRotation, 110, ms(600)),
			motion.Move(servo.ChanArmRight, 90, ms(800)),
		}},
	}
	for i := 0; i < 2; i++ {
		groups = append(groups,
			motion.Group{Steps: []motion.Step{motion.Move(servo.ChanArmRight, 60, ms(250))}},
			motion.Group{Steps: []motion.Step{motion.Move(servo.ChanArmRight, 120, ms(250))}},
		)
	}
	groups = append(groups,
		motion.Group{Steps: []motion.Step{motion.Move(servo.ChanArmRight, 150, ms(600))}},

		// Look around
		motion.Group{Steps: []motion.Step{motion.Move(servo.ChanHeadRotation, 60, ms(700))}, Pause: ms(300)},
		motion.Group{Steps: []motion.Step{motion.Move(servo.ChanHeadRotation, 120, ms(900))}, Pause: ms(300)},
		motion.Group{Steps: []motion.Step{motion.Move(servo.ChanHeadRotation, 90, ms(500))}},
	)

	// Nod
	for i := 0; i < 2; i++ {
		groups = append(groups,
			motion.Group{Steps: []motion.Step{
				motion.Move(servo.ChanNeckBottom, 70, ms(350)),
				motion.Move(servo.ChanEyeRight, 120, ms(350)),
				motion.Move(servo.ChanEyeLeft, 120, ms(350)),
			}},
			motion.Group{Steps: []motion.Step{
				motion.Move(servo.ChanNeckBottom, 110, ms(350)),
				motion.Move(servo.ChanEyeRight, 60, ms(350)),
				motion.Move(servo.ChanEyeLeft, 60, ms(350)),
			}},
		)
	}

	// Excited celebration
	groups = append(groups, motion.Group{Steps: []motion.Step{
		motion.Move(servo.ChanArmLeft, 90, ms(500)),
		motion.Move(servo.ChanArmRight, 90, ms(500)),
	}})
	groups = append(groups, armShake(3, ms(200))...)

	// Bow: neck forward, arms to rest
	groups = append(groups, motion.Group{Steps: []motion.Step{
		motion.Move(servo.ChanNeckBottom, 70, ms(800)),
		motion.Move(servo.ChanArmLeft, 30, ms(800)),
		motion.Move(servo.ChanArmRight, 150, ms(800)),
	}, Pause: ms(500)})

	// Full-channel return to neutral
	neutral := motion.Group{}
	for _, spec := range l.reg.List() {
		neutral.Steps = append(neutral.Steps, motion.Move(spec.ID, spec.Default, ms(700)))
	}
	groups = append(groups, neutral)

	return Routine{Name: "full", Groups: groups}
}
