// Package steps drives the reveal sequence of a diagram.
//
// A [Manager] owns the current step, the animation and auto-advance
// timers, keyboard handling and a subscriber list. Every transition
// starts an animation; while it runs, further transitions are rejected,
// which keeps navigation strictly sequential.
//
//	m := steps.New(d.StepConfigs(), steps.Options{Loop: true})
//	defer m.Destroy()
//	unsubscribe := m.Subscribe(func(s steps.State) { fmt.Println(s.CurrentStep) })
//	defer unsubscribe()
//	m.Next()
//
// # Timing
//
// Timers are created through a [Clock]. [RealClock] uses time.AfterFunc,
// so timer callbacks arrive on other goroutines; the manager serializes
// them with a mutex and runs user callbacks outside of it. [ManualClock]
// only fires when advanced, which makes timing deterministic in tests and
// in single-threaded drivers such as a terminal UI.
//
// Each timer kind (animation, auto-advance) has a single slot. Scheduling
// replaces and cancels the previous timer, and a generation counter drops
// callbacks from timers that were cancelled after they had already fired.
package steps
