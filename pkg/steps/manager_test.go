package steps

import (
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/diagramkit/pkg/diagram"
)

type keyName string

func (k keyName) String() string { return string(k) }

func configs(n int) []diagram.StepConfig {
	out := make([]diagram.StepConfig, n)
	for i := range out {
		out[i] = diagram.StepConfig{ID: string(rune('a' + i))}
	}
	return out
}

func newManager(t *testing.T, n int, opts Options) (*Manager, *ManualClock) {
	t.Helper()
	clock := &ManualClock{}
	opts.Clock = clock
	m := New(configs(n), opts)
	t.Cleanup(m.Destroy)
	return m, clock
}

func TestNextToCompletion(t *testing.T) {
	completions := 0
	m, clock := newManager(t, 5, Options{OnComplete: func() { completions++ }})

	for i := 1; i <= 4; i++ {
		if !m.Next() {
			t.Fatalf("Next() #%d = false", i)
		}
		clock.Advance(DefaultAnimationDuration)
	}
	if got := m.State().CurrentStep; got != 4 {
		t.Fatalf("CurrentStep = %d, want 4", got)
	}
	if m.Next() {
		t.Error("fifth Next() = true, want false")
	}
	if m.Next() {
		t.Error("Next() past the end = true")
	}
	if completions != 1 {
		t.Errorf("completions = %d, want 1", completions)
	}
	if got := m.State().CurrentStep; got != 4 {
		t.Errorf("CurrentStep = %d after completion, want 4", got)
	}
}

func TestCompletionWithoutAnimationWait(t *testing.T) {
	completions := 0
	m, clock := newManager(t, 2, Options{OnComplete: func() { completions++ }})
	m.Next()
	if completions != 0 {
		t.Fatal("completion fired before the animation finished")
	}
	clock.Advance(DefaultAnimationDuration)
	if completions != 1 {
		t.Fatalf("completions = %d, want 1", completions)
	}

	// leaving and re-entering the last step is a new visit
	m.Previous()
	clock.Advance(DefaultAnimationDuration)
	m.Next()
	clock.Advance(DefaultAnimationDuration)
	if completions != 2 {
		t.Errorf("completions = %d, want 2", completions)
	}
}

func TestPreviousAtStart(t *testing.T) {
	var notified int
	m, _ := newManager(t, 5, Options{})
	m.Subscribe(func(State) { notified++ })

	before := m.State()
	if m.Previous() {
		t.Error("Previous() at step 0 = true")
	}
	if m.State() != before {
		t.Errorf("state changed: %+v -> %+v", before, m.State())
	}
	if notified != 0 {
		t.Errorf("subscribers notified %d times", notified)
	}
}

func TestBusyGuard(t *testing.T) {
	m, clock := newManager(t, 5, Options{})

	if !m.GoToStep(2) {
		t.Fatal("GoToStep(2) = false")
	}
	if m.GoToStep(3) {
		t.Error("GoToStep(3) during animation = true")
	}
	if m.Next() || m.Previous() {
		t.Error("navigation accepted during animation")
	}
	if m.CanGoNext() || m.CanGoPrevious() {
		t.Error("CanGo* true during animation")
	}

	clock.Advance(DefaultAnimationDuration - time.Millisecond)
	if !m.State().IsAnimating {
		t.Fatal("animation finished early")
	}
	clock.Advance(time.Millisecond)
	if m.State().IsAnimating {
		t.Fatal("animation still running")
	}
	if !m.GoToStep(3) {
		t.Error("GoToStep(3) after animation = false")
	}
}

func TestGoToStep(t *testing.T) {
	tests := []struct {
		name    string
		from    int
		to      int
		want    bool
		wantDir Direction
	}{
		{"Forward", 0, 3, true, DirectionForward},
		{"Backward", 3, 1, true, DirectionBackward},
		{"Negative", 0, -1, false, DirectionNone},
		{"PastEnd", 0, 5, false, DirectionNone},
		{"Same", 0, 0, false, DirectionNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, clock := newManager(t, 5, Options{})
			if tt.from != 0 {
				m.GoToStep(tt.from)
				clock.Advance(time.Second)
				m.mu.Lock()
				m.state.Direction = DirectionNone
				m.mu.Unlock()
			}
			if got := m.GoToStep(tt.to); got != tt.want {
				t.Fatalf("GoToStep(%d) = %v, want %v", tt.to, got, tt.want)
			}
			if got := m.State().Direction; got != tt.wantDir {
				t.Errorf("Direction = %q, want %q", got, tt.wantDir)
			}
		})
	}
}

func TestStepAnimationDuration(t *testing.T) {
	steps := configs(3)
	steps[1].AnimationDuration = diagram.Int(1000)
	clock := &ManualClock{}
	var completed []int
	m := New(steps, Options{Clock: clock, OnAnimationComplete: func(i int) { completed = append(completed, i) }})
	defer m.Destroy()

	m.Next()
	clock.Advance(DefaultAnimationDuration)
	if !m.State().IsAnimating {
		t.Fatal("step duration ignored")
	}
	clock.Advance(1000*time.Millisecond - DefaultAnimationDuration)
	if m.State().IsAnimating || len(completed) != 1 || completed[0] != 1 {
		t.Errorf("animating=%v completed=%v", m.State().IsAnimating, completed)
	}
}

func TestLoop(t *testing.T) {
	completions := 0
	m, clock := newManager(t, 3, Options{Loop: true, OnComplete: func() { completions++ }})
	for range 2 {
		m.Next()
		clock.Advance(time.Second)
	}
	if !m.CanGoNext() {
		t.Error("CanGoNext() false on last step with loop")
	}
	if !m.Next() {
		t.Fatal("Next() on last step with loop = false")
	}
	s := m.State()
	if s.CurrentStep != 0 || s.Direction != DirectionForward {
		t.Errorf("after wrap: %+v", s)
	}
	if completions != 0 {
		t.Errorf("completions = %d with loop", completions)
	}
}

func TestReset(t *testing.T) {
	resets := 0
	animationsDone := 0
	m, clock := newManager(t, 4, Options{
		OnReset:             func() { resets++ },
		OnAnimationComplete: func(int) { animationsDone++ },
	})
	m.GoToStep(3)
	m.StartAutoAdvance()
	m.Reset()

	want := State{TotalSteps: 4}
	if got := m.State(); got != want {
		t.Errorf("state = %+v, want %+v", got, want)
	}
	if resets != 1 {
		t.Errorf("resets = %d", resets)
	}
	if clock.Pending() != 0 {
		t.Errorf("pending timers = %d", clock.Pending())
	}
	clock.Advance(time.Minute)
	if animationsDone != 0 {
		t.Error("cancelled animation completed")
	}
}

func TestAutoAdvance(t *testing.T) {
	completions := 0
	m, clock := newManager(t, 3, Options{OnComplete: func() { completions++ }})

	m.StartAutoAdvance()
	if !m.State().IsAutoAdvancing {
		t.Fatal("not auto-advancing")
	}
	clock.Advance(DefaultAutoAdvanceDelay - time.Millisecond)
	if m.State().CurrentStep != 0 {
		t.Fatal("advanced before the delay")
	}
	clock.Advance(time.Millisecond)
	if m.State().CurrentStep != 1 {
		t.Fatalf("CurrentStep = %d, want 1", m.State().CurrentStep)
	}

	// animation, then delay, then the next step
	clock.Advance(DefaultAnimationDuration + DefaultAutoAdvanceDelay)
	if m.State().CurrentStep != 2 {
		t.Fatalf("CurrentStep = %d, want 2", m.State().CurrentStep)
	}
	clock.Advance(DefaultAnimationDuration)
	s := m.State()
	if s.IsAutoAdvancing {
		t.Error("auto-advance still on after completion")
	}
	if completions != 1 {
		t.Errorf("completions = %d, want 1", completions)
	}
	if clock.Pending() != 0 {
		t.Errorf("pending timers = %d", clock.Pending())
	}
}

func TestAutoAdvanceRequiresInteraction(t *testing.T) {
	steps := configs(3)
	steps[1].RequiresInteraction = true
	clock := &ManualClock{}
	m := New(steps, Options{Clock: clock})
	defer m.Destroy()

	m.StartAutoAdvance()
	clock.Advance(DefaultAutoAdvanceDelay + DefaultAnimationDuration)
	if m.State().CurrentStep != 1 {
		t.Fatalf("CurrentStep = %d, want 1", m.State().CurrentStep)
	}
	clock.Advance(time.Minute)
	if m.State().CurrentStep != 1 {
		t.Errorf("advanced past an interactive step")
	}
	if !m.State().IsAutoAdvancing {
		t.Error("auto-advance should stay on")
	}

	m.Next()
	clock.Advance(DefaultAnimationDuration + DefaultAutoAdvanceDelay)
	if m.State().CurrentStep != 2 {
		t.Errorf("auto-advance did not resume, step %d", m.State().CurrentStep)
	}
}

func TestStopAutoAdvance(t *testing.T) {
	m, clock := newManager(t, 3, Options{})
	m.ToggleAutoAdvance()
	m.ToggleAutoAdvance()
	if m.State().IsAutoAdvancing {
		t.Fatal("toggle twice left auto-advance on")
	}
	clock.Advance(time.Minute)
	if m.State().CurrentStep != 0 {
		t.Error("stopped auto-advance still moved")
	}
}

func TestHandleKey(t *testing.T) {
	tests := []struct {
		key     string
		start   int
		handled bool
		want    int
	}{
		{"right", 0, true, 1},
		{"down", 0, true, 1},
		{" ", 0, true, 1},
		{"left", 2, true, 1},
		{"up", 2, true, 1},
		{"home", 3, true, 0},
		{"end", 1, true, 4},
		{"x", 1, false, 1},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			m, clock := newManager(t, 5, Options{EnableKeyboard: true})
			if tt.start != 0 {
				m.GoToStep(tt.start)
				clock.Advance(time.Second)
			}
			if got := m.HandleKey(keyName(tt.key)); got != tt.handled {
				t.Errorf("HandleKey(%q) = %v, want %v", tt.key, got, tt.handled)
			}
			if got := m.State().CurrentStep; got != tt.want {
				t.Errorf("CurrentStep = %d, want %d", got, tt.want)
			}
		})
	}

	t.Run("Toggle", func(t *testing.T) {
		m, _ := newManager(t, 5, Options{EnableKeyboard: true})
		m.HandleKey(keyName("P"))
		if !m.State().IsAutoAdvancing {
			t.Error("P did not start auto-advance")
		}
		m.HandleKey(keyName("p"))
		if m.State().IsAutoAdvancing {
			t.Error("p did not stop auto-advance")
		}
	})

	t.Run("Disabled", func(t *testing.T) {
		m, _ := newManager(t, 5, Options{})
		if m.HandleKey(keyName("right")) || m.State().CurrentStep != 0 {
			t.Error("key handled with keyboard disabled")
		}
	})
}

func TestProgress(t *testing.T) {
	tests := []struct {
		total, step int
		want        float64
	}{
		{0, 0, 100},
		{1, 0, 100},
		{5, 0, 0},
		{5, 2, 50},
		{5, 4, 100},
	}
	for _, tt := range tests {
		m, clock := newManager(t, tt.total, Options{})
		if tt.step > 0 {
			m.GoToStep(tt.step)
			clock.Advance(time.Second)
		}
		if got := m.Progress(); got != tt.want {
			t.Errorf("Progress(%d/%d) = %v, want %v", tt.step, tt.total, got, tt.want)
		}
	}
}

func TestUpdateSteps(t *testing.T) {
	m, clock := newManager(t, 5, Options{})
	var last State
	m.Subscribe(func(s State) { last = s })

	m.GoToStep(4)
	clock.Advance(time.Second)
	m.UpdateSteps(configs(3))

	want := State{CurrentStep: 2, TotalSteps: 3, Direction: DirectionForward}
	if got := m.State(); got != want {
		t.Errorf("state = %+v, want %+v", got, want)
	}
	if last != want {
		t.Errorf("subscriber saw %+v", last)
	}

	m.UpdateSteps(nil)
	if got := m.State(); got.CurrentStep != 0 || got.TotalSteps != 0 {
		t.Errorf("empty steps: %+v", got)
	}
	if m.Next() || m.CanGoNext() {
		t.Error("navigation with no steps")
	}
}

func TestUpdateStepsEmptyWhileAnimating(t *testing.T) {
	m, clock := newManager(t, 3, Options{})
	m.StartAutoAdvance()
	clock.Advance(DefaultAutoAdvanceDelay)
	if s := m.State(); s.CurrentStep != 1 || !s.IsAnimating {
		t.Fatalf("expected an animation into step 1, got %+v", s)
	}

	m.UpdateSteps(nil)
	clock.Advance(time.Second)
	clock.Advance(DefaultAutoAdvanceDelay)

	want := State{CurrentStep: 0, TotalSteps: 0, Direction: DirectionForward}
	if got := m.State(); got != want {
		t.Errorf("state = %+v, want %+v", got, want)
	}
	if n := clock.Pending(); n != 0 {
		t.Errorf("%d timers still pending", n)
	}
}

func TestSubscribe(t *testing.T) {
	m, clock := newManager(t, 3, Options{})

	var order []string
	var states []State
	unsubA := m.Subscribe(func(s State) {
		order = append(order, "a")
		states = append(states, s)
	})
	m.Subscribe(func(State) { order = append(order, "b") })

	m.Next()
	if len(order) != 2 || order[0] != "a" || order[1] != "b" {
		t.Fatalf("order = %v", order)
	}
	if !states[0].IsAnimating || states[0].CurrentStep != 1 {
		t.Errorf("snapshot = %+v", states[0])
	}

	// snapshots are copies
	states[0].CurrentStep = 99
	if m.State().CurrentStep != 1 {
		t.Error("subscriber mutated manager state")
	}

	unsubA()
	unsubA()
	clock.Advance(time.Second)
	if len(order) != 3 || order[2] != "b" {
		t.Errorf("order after unsubscribe = %v", order)
	}
}

func TestCallbacks(t *testing.T) {
	var events []string
	m, clock := newManager(t, 3, Options{
		OnStepChange:        func(i int, cfg diagram.StepConfig) { events = append(events, "change:"+cfg.ID) },
		OnAnimationStart:    func(int) { events = append(events, "start") },
		OnAnimationComplete: func(int) { events = append(events, "done") },
	})
	m.Next()
	clock.Advance(time.Second)

	want := []string{"change:b", "start", "done"}
	if len(events) != len(want) {
		t.Fatalf("events = %v, want %v", events, want)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Errorf("events = %v, want %v", events, want)
		}
	}
}

func TestDestroy(t *testing.T) {
	calls := 0
	m, clock := newManager(t, 3, Options{OnAnimationComplete: func(int) { calls++ }})
	m.Subscribe(func(State) { calls++ })
	m.Next()
	calls = 0

	m.Destroy()
	clock.Advance(time.Minute)
	if calls != 0 {
		t.Errorf("%d callbacks after Destroy", calls)
	}
	if m.Next() || m.GoToStep(2) {
		t.Error("destroyed manager accepted navigation")
	}
	if clock.Pending() != 0 {
		t.Errorf("pending timers = %d", clock.Pending())
	}
}

func TestFrame(t *testing.T) {
	steps := []diagram.StepConfig{
		{ID: "obj", HighlightElements: []string{"block"}},
		{ID: "weight", HighlightElements: []string{"W"}},
		{ID: "all", VisibleElements: []string{"block", "W", "N"}, HighlightElements: []string{"N"}},
	}
	clock := &ManualClock{}
	m := New(steps, Options{Clock: clock})
	defer m.Destroy()

	m.Next()
	f := m.Frame()
	if len(f.Visible) != 2 || f.Visible[0] != "block" || f.Visible[1] != "W" {
		t.Errorf("visible = %v", f.Visible)
	}
	if len(f.Highlighted) != 1 || f.Highlighted[0] != "W" {
		t.Errorf("highlighted = %v", f.Highlighted)
	}

	clock.Advance(time.Second)
	m.Next()
	if f := m.Frame(); len(f.Visible) != 3 || f.Step != 2 {
		t.Errorf("frame = %+v", f)
	}
}

func TestRealClockConcurrent(t *testing.T) {
	var mu sync.Mutex
	done := make(chan struct{})
	m := New(configs(3), Options{
		DefaultAnimationDuration: time.Millisecond,
		AutoAdvanceDelay:         time.Millisecond,
		OnComplete: func() {
			mu.Lock()
			defer mu.Unlock()
			select {
			case <-done:
			default:
				close(done)
			}
		},
	})
	defer m.Destroy()

	m.StartAutoAdvance()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("auto-advance did not complete")
	}
	if s := m.State(); s.CurrentStep != 2 {
		t.Errorf("CurrentStep = %d, want 2", s.CurrentStep)
	}
}
