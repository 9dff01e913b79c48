package server

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/diagramkit/pkg/diagram"
	errs "github.com/matzehuels/diagramkit/pkg/errors"
	"github.com/matzehuels/diagramkit/pkg/steps"
)

// DefaultSessionTTL is how long an idle playback session lives.
const DefaultSessionTTL = time.Hour

// session is one step playback. The manager is safe for concurrent use;
// expiresAt is guarded by the registry lock.
type session struct {
	id        string
	diagramID string
	manager   *steps.Manager
	createdAt time.Time
	expiresAt time.Time
}

// SessionView is the JSON form of a session.
type SessionView struct {
	ID        string              `json:"id"`
	DiagramID string              `json:"diagram_id,omitempty"`
	State     steps.State         `json:"state"`
	Frame     steps.Frame         `json:"frame"`
	Step      *diagram.StepConfig `json:"step,omitempty"`
	Progress  float64             `json:"progress"`
	CanNext   bool                `json:"can_next"`
	CanPrev   bool                `json:"can_previous"`
	CreatedAt time.Time           `json:"created_at"`
	ExpiresAt time.Time           `json:"expires_at"`
}

// sessionRegistry owns playback sessions. Idle sessions expire after ttl;
// every successful lookup extends the expiry.
type sessionRegistry struct {
	mu    sync.Mutex
	items map[string]*session
	ttl   time.Duration
	base  steps.Options
	now   func() time.Time
}

func newSessionRegistry(ttl time.Duration, base steps.Options) *sessionRegistry {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	// HTTP sessions take no key presses and run no callbacks
	base.EnableKeyboard = false
	base.OnStepChange = nil
	base.OnAnimationStart = nil
	base.OnAnimationComplete = nil
	base.OnComplete = nil
	base.OnReset = nil
	return &sessionRegistry{
		items: make(map[string]*session),
		ttl:   ttl,
		base:  base,
		now:   time.Now,
	}
}

func (r *sessionRegistry) create(diagramID string, cfgs []diagram.StepConfig, loop bool) *session {
	opts := r.base
	opts.Loop = opts.Loop || loop

	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	s := &session{
		id:        uuid.NewString(),
		diagramID: diagramID,
		manager:   steps.New(cfgs, opts),
		createdAt: now,
		expiresAt: now.Add(r.ttl),
	}
	r.items[s.id] = s
	return s
}

func (r *sessionRegistry) get(id string) (*session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.items[id]
	if !ok {
		return nil, errs.New(errs.ErrCodeSessionNotFound, "session %q not found", id)
	}
	now := r.now()
	if now.After(s.expiresAt) {
		delete(r.items, id)
		s.manager.Destroy()
		return nil, errs.New(errs.ErrCodeSessionNotFound, "session %q expired", id)
	}
	s.expiresAt = now.Add(r.ttl)
	return s, nil
}

func (r *sessionRegistry) delete(id string) error {
	r.mu.Lock()
	s, ok := r.items[id]
	delete(r.items, id)
	r.mu.Unlock()
	if !ok {
		return errs.New(errs.ErrCodeSessionNotFound, "session %q not found", id)
	}
	s.manager.Destroy()
	return nil
}

// cleanup destroys expired sessions and returns how many were removed.
func (r *sessionRegistry) cleanup() int {
	r.mu.Lock()
	var expired []*session
	now := r.now()
	for id, s := range r.items {
		if now.After(s.expiresAt) {
			expired = append(expired, s)
			delete(r.items, id)
		}
	}
	r.mu.Unlock()
	for _, s := range expired {
		s.manager.Destroy()
	}
	return len(expired)
}

// updateSteps replaces the steps of every live session playing diagramID
// and returns how many were updated.
func (r *sessionRegistry) updateSteps(diagramID string, cfgs []diagram.StepConfig) int {
	if diagramID == "" {
		return 0
	}
	r.mu.Lock()
	var live []*session
	for _, s := range r.items {
		if s.diagramID == diagramID {
			live = append(live, s)
		}
	}
	r.mu.Unlock()
	for _, s := range live {
		s.manager.UpdateSteps(cfgs)
	}
	return len(live)
}

// closeAll destroys every session.
func (r *sessionRegistry) closeAll() {
	r.mu.Lock()
	items := r.items
	r.items = make(map[string]*session)
	r.mu.Unlock()
	for _, s := range items {
		s.manager.Destroy()
	}
}

func (r *sessionRegistry) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

func (r *sessionRegistry) view(s *session) SessionView {
	r.mu.Lock()
	expires := s.expiresAt
	r.mu.Unlock()

	v := SessionView{
		ID:        s.id,
		DiagramID: s.diagramID,
		State:     s.manager.State(),
		Frame:     s.manager.Frame(),
		Progress:  s.manager.Progress(),
		CanNext:   s.manager.CanGoNext(),
		CanPrev:   s.manager.CanGoPrevious(),
		CreatedAt: s.createdAt,
		ExpiresAt: expires,
	}
	if cfg, ok := s.manager.Current(); ok {
		v.Step = &cfg
	}
	return v
}
