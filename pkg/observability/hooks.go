// Package observability lets applications observe validation, layout,
// caching and HTTP traffic without the library depending on a metrics
// backend.
//
// Every hook set has a no-op default. Register replacements once at
// startup, before the first diagram is processed:
//
//	observability.SetLayoutHooks(promLayoutHooks{})
//
// Library code fetches the current hooks at the call site:
//
//	h := observability.Layout()
//	h.OnLayoutStart(ctx, "free-body", n)
package observability

import (
	"context"
	"sync"
	"time"
)

// ValidationHooks observes validation and auto-correction.
type ValidationHooks interface {
	OnValidateStart(ctx context.Context, diagramType string)
	OnValidateComplete(ctx context.Context, diagramType string, valid bool, errors, warnings int, duration time.Duration)
	OnCorrect(ctx context.Context, diagramType string)
}

// LayoutHooks observes layout computation. iterations is the number of
// collision-resolution passes the label placer needed.
type LayoutHooks interface {
	OnLayoutStart(ctx context.Context, diagramType string, elementCount int)
	OnLayoutComplete(ctx context.Context, diagramType string, iterations int, success bool, duration time.Duration, err error)
}

// CacheHooks observes cache lookups and writes. keyType is "validation" or
// "layout".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// HTTPHooks observes API requests.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, path string)
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)
}

type (
	NoopValidationHooks struct{}
	NoopLayoutHooks     struct{}
	NoopCacheHooks      struct{}
	NoopHTTPHooks       struct{}
)

func (NoopValidationHooks) OnValidateStart(context.Context, string) {}
func (NoopValidationHooks) OnValidateComplete(context.Context, string, bool, int, int, time.Duration) {
}
func (NoopValidationHooks) OnCorrect(context.Context, string) {}

func (NoopLayoutHooks) OnLayoutStart(context.Context, string, int)                                {}
func (NoopLayoutHooks) OnLayoutComplete(context.Context, string, int, bool, time.Duration, error) {}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// registry holds the active hooks.
type registry struct {
	mu         sync.RWMutex
	validation ValidationHooks
	layout     LayoutHooks
	cache      CacheHooks
	http       HTTPHooks
}

var hooks = newRegistry()

func newRegistry() *registry {
	return &registry{
		validation: NoopValidationHooks{},
		layout:     NoopLayoutHooks{},
		cache:      NoopCacheHooks{},
		http:       NoopHTTPHooks{},
	}
}

// set stores h in slot unless h is nil.
func set[T comparable](slot *T, h T) {
	var zero T
	if h == zero {
		return
	}
	hooks.mu.Lock()
	*slot = h
	hooks.mu.Unlock()
}

func get[T any](slot *T) T {
	hooks.mu.RLock()
	defer hooks.mu.RUnlock()
	return *slot
}

// SetValidationHooks replaces the validation hooks. nil is ignored.
func SetValidationHooks(h ValidationHooks) { set(&hooks.validation, h) }

// SetLayoutHooks replaces the layout hooks. nil is ignored.
func SetLayoutHooks(h LayoutHooks) { set(&hooks.layout, h) }

// SetCacheHooks replaces the cache hooks. nil is ignored.
func SetCacheHooks(h CacheHooks) { set(&hooks.cache, h) }

// SetHTTPHooks replaces the HTTP hooks. nil is ignored.
func SetHTTPHooks(h HTTPHooks) { set(&hooks.http, h) }

func Validation() ValidationHooks { return get(&hooks.validation) }
func Layout() LayoutHooks         { return get(&hooks.layout) }
func Cache() CacheHooks           { return get(&hooks.cache) }
func HTTP() HTTPHooks             { return get(&hooks.http) }

// Reset restores the no-op hooks. Tests use it to undo registrations.
func Reset() {
	fresh := newRegistry()
	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	hooks.validation = fresh.validation
	hooks.layout = fresh.layout
	hooks.cache = fresh.cache
	hooks.http = fresh.http
}
