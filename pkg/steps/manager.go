package steps

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/key"

	"github.com/matzehuels/diagramkit/pkg/diagram"
)

// Defaults for [Options].
const (
	DefaultAutoAdvanceDelay  = 2 * time.Second
	DefaultAnimationDuration = 400 * time.Millisecond
)

// Direction is the direction of the most recent transition.
type Direction string

const (
	DirectionNone     Direction = ""
	DirectionForward  Direction = "forward"
	DirectionBackward Direction = "backward"
)

// State is a snapshot of the manager. Subscribers always receive copies.
type State struct {
	CurrentStep     int       `json:"current_step"`
	TotalSteps      int       `json:"total_steps"`
	IsAnimating     bool      `json:"is_animating"`
	IsAutoAdvancing bool      `json:"is_auto_advancing"`
	Direction       Direction `json:"direction,omitempty"`
}

// Options configures a [Manager]. Zero durations use the defaults.
type Options struct {
	// Loop wraps from the last step back to the first.
	Loop bool
	// AutoAdvanceDelay is the pause between a finished animation and the
	// next automatic step.
	AutoAdvanceDelay time.Duration
	// DefaultAnimationDuration applies to steps without their own duration.
	DefaultAnimationDuration time.Duration
	// EnableKeyboard makes HandleKey act on key presses.
	EnableKeyboard bool
	// Clock schedules timers. Nil uses RealClock.
	Clock Clock
	// Keys overrides DefaultKeyMap.
	Keys KeyMap

	OnStepChange        func(step int, cfg diagram.StepConfig)
	OnAnimationStart    func(step int)
	OnAnimationComplete func(step int)
	// OnComplete fires once each time the final step is reached without
	// looping.
	OnComplete func()
	OnReset    func()
}

// SetDefaults fills zero values.
func (o *Options) SetDefaults() {
	if o.AutoAdvanceDelay <= 0 {
		o.AutoAdvanceDelay = DefaultAutoAdvanceDelay
	}
	if o.DefaultAnimationDuration <= 0 {
		o.DefaultAnimationDuration = DefaultAnimationDuration
	}
	if o.Clock == nil {
		o.Clock = RealClock{}
	}
	if o.Keys.empty() {
		o.Keys = DefaultKeyMap()
	}
}

// slot holds at most one pending timer of a kind.
type slot struct {
	timer Timer
	gen   uint64
}

// arm cancels the pending timer and returns the generation for the next.
func (s *slot) arm() uint64 {
	s.cancel()
	return s.gen
}

func (s *slot) cancel() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.gen++
}

type subscriber struct {
	id int
	fn func(State)
}

// Manager is the step state machine. It is safe for concurrent use.
type Manager struct {
	mu    sync.Mutex
	opts  Options
	steps []diagram.StepConfig
	state State

	anim slot
	auto slot

	subs      []subscriber
	nextSubID int

	// completed records that OnComplete fired for the current visit of the
	// final step.
	completed bool
	destroyed bool
}

// New creates a manager positioned on the first step.
func New(steps []diagram.StepConfig, opts Options) *Manager {
	opts.SetDefaults()
	return &Manager{
		opts:  opts,
		steps: slices.Clone(steps),
		state: State{TotalSteps: len(steps)},
	}
}

// =============================================================================
// Queries
// =============================================================================

// State returns a snapshot of the current state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Steps returns a copy of the step configs.
func (m *Manager) Steps() []diagram.StepConfig {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.steps)
}

// Current returns the config of the current step.
func (m *Manager) Current() (diagram.StepConfig, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state.TotalSteps == 0 {
		return diagram.StepConfig{}, false
	}
	return m.steps[m.state.CurrentStep], true
}

// CanGoNext reports whether Next would move.
func (m *Manager) CanGoNext() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.state
	return !s.IsAnimating && s.TotalSteps > 0 && (s.CurrentStep < s.TotalSteps-1 || m.opts.Loop)
}

// CanGoPrevious reports whether Previous would move.
func (m *Manager) CanGoPrevious() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return !m.state.IsAnimating && m.state.CurrentStep > 0
}

// Progress returns completion in percent: 100 for zero or one steps,
// otherwise current / (total - 1) × 100.
func (m *Manager) Progress() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state.TotalSteps <= 1 {
		return 100
	}
	return float64(m.state.CurrentStep) / float64(m.state.TotalSteps-1) * 100
}

// =============================================================================
// Transitions
// =============================================================================

// Next moves to the following step. At the last step it wraps when looping;
// otherwise it reports completion and returns false. It returns false
// while an animation runs.
func (m *Manager) Next() bool {
	m.mu.Lock()
	if m.destroyed || m.state.IsAnimating || m.state.TotalSteps == 0 {
		m.mu.Unlock()
		return false
	}
	var events []func()
	ok := false
	if m.state.CurrentStep < m.state.TotalSteps-1 {
		events = m.transition(m.state.CurrentStep+1, DirectionForward)
		ok = true
	} else if m.opts.Loop {
		events = m.transition(0, DirectionForward)
		ok = true
	} else {
		events = m.complete()
		if m.state.IsAutoAdvancing {
			m.state.IsAutoAdvancing = false
			m.auto.cancel()
			events = append(events, m.notify())
		}
	}
	m.mu.Unlock()
	run(events)
	return ok
}

// Previous moves to the preceding step. It returns false on the first step
// and while an animation runs.
func (m *Manager) Previous() bool {
	m.mu.Lock()
	if m.destroyed || m.state.IsAnimating || m.state.CurrentStep == 0 {
		m.mu.Unlock()
		return false
	}
	events := m.transition(m.state.CurrentStep-1, DirectionBackward)
	m.mu.Unlock()
	run(events)
	return true
}

// GoToStep jumps to step i. It returns false if i is out of range, is
// already the current step, or an animation runs.
func (m *Manager) GoToStep(i int) bool {
	m.mu.Lock()
	if m.destroyed || m.state.IsAnimating || i < 0 || i >= m.state.TotalSteps || i == m.state.CurrentStep {
		m.mu.Unlock()
		return false
	}
	dir := DirectionForward
	if i < m.state.CurrentStep {
		dir = DirectionBackward
	}
	events := m.transition(i, dir)
	m.mu.Unlock()
	run(events)
	return true
}

// Reset cancels all timers and returns to the first step with animation
// and auto-advance off.
func (m *Manager) Reset() {
	m.mu.Lock()
	if m.destroyed {
		m.mu.Unlock()
		return
	}
	m.anim.cancel()
	m.auto.cancel()
	m.completed = false
	m.state = State{TotalSteps: len(m.steps)}
	var events []func()
	if f := m.opts.OnReset; f != nil {
		events = append(events, f)
	}
	events = append(events, m.notify())
	m.mu.Unlock()
	run(events)
}

// transition enters step i. Caller holds the lock; the returned events
// must run after it is released.
func (m *Manager) transition(i int, dir Direction) []func() {
	m.auto.cancel()
	if i != m.state.CurrentStep {
		m.completed = false
	}
	m.state.CurrentStep = i
	m.state.Direction = dir
	m.state.IsAnimating = true

	cfg := m.steps[i]
	gen := m.anim.arm()
	m.anim.timer = m.opts.Clock.AfterFunc(cfg.Duration(m.opts.DefaultAnimationDuration), func() {
		m.animationDone(gen)
	})

	var events []func()
	if f := m.opts.OnStepChange; f != nil {
		events = append(events, func() { f(i, cfg) })
	}
	if f := m.opts.OnAnimationStart; f != nil {
		events = append(events, func() { f(i) })
	}
	return append(events, m.notify())
}

func (m *Manager) animationDone(gen uint64) {
	m.mu.Lock()
	if m.destroyed || gen != m.anim.gen || !m.state.IsAnimating {
		m.mu.Unlock()
		return
	}
	m.anim.timer = nil
	m.state.IsAnimating = false
	step := m.state.CurrentStep
	if step >= len(m.steps) {
		m.state.IsAutoAdvancing = false
		events := []func(){m.notify()}
		m.mu.Unlock()
		run(events)
		return
	}

	var events []func()
	if f := m.opts.OnAnimationComplete; f != nil {
		events = append(events, func() { f(step) })
	}
	last := step == m.state.TotalSteps-1
	if last && !m.opts.Loop {
		events = append(events, m.complete()...)
	}
	if m.state.IsAutoAdvancing {
		switch {
		case last && !m.opts.Loop:
			m.state.IsAutoAdvancing = false
		case !m.steps[step].RequiresInteraction:
			m.scheduleAuto()
		}
	}
	events = append(events, m.notify())
	m.mu.Unlock()
	run(events)
}

// complete fires OnComplete once per visit of the final step.
func (m *Manager) complete() []func() {
	if m.completed {
		return nil
	}
	m.completed = true
	if f := m.opts.OnComplete; f != nil {
		return []func(){f}
	}
	return nil
}

// =============================================================================
// Auto-advance
// =============================================================================

// StartAutoAdvance turns auto-advance on. The first step follows after
// AutoAdvanceDelay unless an animation is running or the current step
// requires interaction.
func (m *Manager) StartAutoAdvance() {
	m.mu.Lock()
	if m.destroyed || m.state.IsAutoAdvancing || m.state.TotalSteps == 0 {
		m.mu.Unlock()
		return
	}
	m.state.IsAutoAdvancing = true
	if !m.state.IsAnimating && !m.steps[m.state.CurrentStep].RequiresInteraction {
		m.scheduleAuto()
	}
	events := []func(){m.notify()}
	m.mu.Unlock()
	run(events)
}

// StopAutoAdvance turns auto-advance off and cancels the pending step.
func (m *Manager) StopAutoAdvance() {
	m.mu.Lock()
	if m.destroyed || !m.state.IsAutoAdvancing {
		m.mu.Unlock()
		return
	}
	m.state.IsAutoAdvancing = false
	m.auto.cancel()
	events := []func(){m.notify()}
	m.mu.Unlock()
	run(events)
}

// ToggleAutoAdvance flips auto-advance.
func (m *Manager) ToggleAutoAdvance() {
	if m.State().IsAutoAdvancing {
		m.StopAutoAdvance()
	} else {
		m.StartAutoAdvance()
	}
}

func (m *Manager) scheduleAuto() {
	gen := m.auto.arm()
	m.auto.timer = m.opts.Clock.AfterFunc(m.opts.AutoAdvanceDelay, func() {
		m.mu.Lock()
		fire := !m.destroyed && gen == m.auto.gen && m.state.IsAutoAdvancing
		if fire {
			m.auto.timer = nil
		}
		m.mu.Unlock()
		if fire {
			m.Next()
		}
	})
}

// =============================================================================
// Keyboard
// =============================================================================

// HandleKey performs the action bound to k and reports whether k was
// bound. It ignores every key unless EnableKeyboard is set. Any
// fmt.Stringer works; bubbletea's tea.KeyMsg can be passed directly.
func (m *Manager) HandleKey(k fmt.Stringer) bool {
	if !m.opts.EnableKeyboard {
		return false
	}
	keys := m.opts.Keys
	switch {
	case key.Matches(k, keys.Next):
		m.Next()
	case key.Matches(k, keys.Prev):
		m.Previous()
	case key.Matches(k, keys.First):
		m.GoToStep(0)
	case key.Matches(k, keys.Last):
		m.GoToStep(m.State().TotalSteps - 1)
	case key.Matches(k, keys.Toggle):
		m.ToggleAutoAdvance()
	default:
		return false
	}
	return true
}

// Keys returns the active key bindings.
func (m *Manager) Keys() KeyMap { return m.opts.Keys }

// =============================================================================
// Steps and subscribers
// =============================================================================

// UpdateSteps replaces the step configs, clamping the current step into
// the new range, and notifies subscribers. An empty list stops any running
// animation and auto-advance.
func (m *Manager) UpdateSteps(steps []diagram.StepConfig) {
	m.mu.Lock()
	if m.destroyed {
		m.mu.Unlock()
		return
	}
	m.steps = slices.Clone(steps)
	m.state.TotalSteps = len(steps)
	if m.state.CurrentStep >= len(steps) {
		m.state.CurrentStep = max(len(steps)-1, 0)
		m.completed = false
	}
	if len(steps) == 0 {
		m.anim.cancel()
		m.auto.cancel()
		m.state.IsAnimating = false
		m.state.IsAutoAdvancing = false
	}
	events := []func(){m.notify()}
	m.mu.Unlock()
	run(events)
}

// Subscribe registers fn for state changes and returns a function that
// removes it. Listeners run in registration order.
func (m *Manager) Subscribe(fn func(State)) (unsubscribe func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.destroyed {
		return func() {}
	}
	m.nextSubID++
	id := m.nextSubID
	m.subs = append(m.subs, subscriber{id: id, fn: fn})
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.subs = slices.DeleteFunc(m.subs, func(s subscriber) bool { return s.id == id })
	}
}

// Destroy cancels all timers and drops subscribers. The manager ignores
// every call afterwards.
func (m *Manager) Destroy() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.destroyed = true
	m.anim.cancel()
	m.auto.cancel()
	m.subs = nil
}

// notify captures the state and the current subscribers. Caller holds
// the lock.
func (m *Manager) notify() func() {
	snapshot := m.state
	subs := slices.Clone(m.subs)
	return func() {
		for _, s := range subs {
			s.fn(snapshot)
		}
	}
}

func run(events []func()) {
	for _, e := range events {
		e()
	}
}
