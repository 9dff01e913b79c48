package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/diagramkit/pkg/cache"
	"github.com/matzehuels/diagramkit/pkg/diagram"
	errs "github.com/matzehuels/diagramkit/pkg/errors"
	"github.com/matzehuels/diagramkit/pkg/observability"
	"github.com/matzehuels/diagramkit/pkg/validate"
)

// Cache key types reported to observability hooks.
const (
	keyTypeValidation = "validation"
	keyTypeLayout     = "layout"
)

// Runner executes pipeline stages with caching. It keeps no per-run
// state, so one Runner may serve concurrent requests.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner returns a Runner. A nil cache disables caching, a nil keyer
// means [cache.DefaultKeyer] and a nil logger discards output.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		opts := Options{}
		opts.SetDefaults()
		logger = opts.Logger
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute validates d, corrects it when opts.AutoCorrect is set and the
// diagram is invalid, and lays out the result. Invalid diagrams are not an
// error: Result.Layout is nil and Result.Validation explains why.
func (r *Runner) Execute(ctx context.Context, d *diagram.StructuredDiagram, opts Options) (*Result, error) {
	if d == nil {
		return nil, errs.New(errs.ErrCodeInvalidInput, "no diagram")
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	hash, err := diagramHash(d)
	if err != nil {
		return nil, err
	}
	result := &Result{Diagram: d, DiagramHash: hash}

	start := time.Now()
	res, hit, err := r.ValidateWithCacheInfo(ctx, d, opts.Refresh)
	if err != nil {
		return nil, err
	}
	result.Validation = res
	result.CacheInfo.ValidationHit = hit
	result.Stats.ValidateTime = time.Since(start)

	r.Logger.Info("validated diagram",
		"type", d.Type,
		"valid", res.Valid,
		"errors", len(res.Errors),
		"warnings", len(res.Warnings),
		"confidence", res.Confidence)

	work := d
	if !res.Valid {
		if !opts.AutoCorrect {
			return result, nil
		}
		work = r.Correct(ctx, d)
		result.Corrected = true
		if after := validate.ValidateDiagram(work); !after.Valid {
			r.Logger.Warn("diagram still invalid after correction", "type", d.Type, "errors", len(after.Errors))
			result.Diagram = work
			return result, nil
		}
	}
	result.Diagram = work

	start = time.Now()
	l, hit, err := r.LayoutWithCacheInfo(ctx, work, opts)
	if err != nil {
		return nil, err
	}
	result.Layout = l
	result.CacheInfo.LayoutHit = hit
	result.Stats.LayoutTime = time.Since(start)
	result.Stats.Elements = len(l.Elements())
	result.Stats.Collisions = len(l.Collisions)
	result.Stats.Iterations = l.Iterations

	r.Logger.Info("computed layout",
		"type", work.Type,
		"elements", result.Stats.Elements,
		"collisions", result.Stats.Collisions,
		"iterations", l.Iterations,
		"cached", hit)

	return result, nil
}

// Validate is [Runner.ValidateWithCacheInfo] without the cache flag.
func (r *Runner) Validate(ctx context.Context, d *diagram.StructuredDiagram) (validate.Result, error) {
	res, _, err := r.ValidateWithCacheInfo(ctx, d, false)
	return res, err
}

// ValidateWithCacheInfo runs [validate.ValidateDiagram] on d. Results are
// cached by diagram hash; refresh skips the lookup.
func (r *Runner) ValidateWithCacheInfo(ctx context.Context, d *diagram.StructuredDiagram, refresh bool) (validate.Result, bool, error) {
	if d == nil {
		return validate.Result{}, false, errs.New(errs.ErrCodeInvalidInput, "no diagram")
	}
	hash, err := diagramHash(d)
	if err != nil {
		return validate.Result{}, false, err
	}
	key := r.Keyer.ValidationKey(hash)

	if !refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var cached validate.Result
			if err := json.Unmarshal(data, &cached); err == nil {
				observability.Cache().OnCacheHit(ctx, keyTypeValidation)
				return cached, true, nil
			}
		} else if err != nil {
			r.Logger.Debug("cache read failed", "key", key, "error", err)
		}
		observability.Cache().OnCacheMiss(ctx, keyTypeValidation)
	}

	hooks := observability.Validation()
	hooks.OnValidateStart(ctx, string(d.Type))
	start := time.Now()
	res := validate.ValidateDiagram(d)
	hooks.OnValidateComplete(ctx, string(d.Type), res.Valid, len(res.Errors), len(res.Warnings), time.Since(start))

	r.store(ctx, key, keyTypeValidation, res, cache.ValidationTTL)
	return res, false, nil
}

// Correct returns an auto-corrected copy of d.
func (r *Runner) Correct(ctx context.Context, d *diagram.StructuredDiagram) *diagram.StructuredDiagram {
	observability.Validation().OnCorrect(ctx, string(d.Type))
	fixed := validate.AutoCorrect(d)
	r.Logger.Debug("auto-corrected diagram", "type", d.Type)
	return fixed
}

// Layout is [Runner.LayoutWithCacheInfo] without the cache flag.
func (r *Runner) Layout(ctx context.Context, d *diagram.StructuredDiagram, opts Options) (*Layout, error) {
	l, _, err := r.LayoutWithCacheInfo(ctx, d, opts)
	return l, err
}

// LayoutWithCacheInfo builds the layout for d, cached by diagram hash and
// layout options.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, d *diagram.StructuredDiagram, opts Options) (*Layout, bool, error) {
	if d == nil {
		return nil, false, errs.New(errs.ErrCodeInvalidInput, "no diagram")
	}
	if err := opts.Validate(); err != nil {
		return nil, false, err
	}
	hash, err := diagramHash(d)
	if err != nil {
		return nil, false, err
	}
	key := r.Keyer.LayoutKey(hash, opts.LayoutKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			if cached, err := UnmarshalLayout(data); err == nil {
				observability.Cache().OnCacheHit(ctx, keyTypeLayout)
				return cached, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, keyTypeLayout)
	}

	hooks := observability.Layout()
	hooks.OnLayoutStart(ctx, string(d.Type), elementCount(d))
	start := time.Now()
	l, err := BuildLayout(d, opts)
	if err != nil {
		hooks.OnLayoutComplete(ctx, string(d.Type), 0, false, time.Since(start), err)
		return nil, false, err
	}
	hooks.OnLayoutComplete(ctx, string(d.Type), l.Iterations, l.Success, time.Since(start), nil)
	if !l.Success {
		opts.Logger.Warn("layout left collisions", "type", d.Type, "collisions", len(l.Collisions))
	}

	r.store(ctx, key, keyTypeLayout, l, cache.LayoutTTL)
	return l, false, nil
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) store(ctx context.Context, key, keyType string, v any, ttl time.Duration) {
	data, err := json.Marshal(v)
	if err != nil {
		r.Logger.Debug("cache encode failed", "key", key, "error", err)
		return
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Debug("cache write failed", "key", key, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

func diagramHash(d *diagram.StructuredDiagram) (string, error) {
	h, err := cache.HashJSON(d)
	if err != nil {
		return "", errs.Wrap(errs.ErrCodeInternal, err, "hash diagram")
	}
	return h, nil
}

// elementCount estimates the number of elements a layout will place,
// before labels.
func elementCount(d *diagram.StructuredDiagram) int {
	if d.Data == nil || d.Data.DiagramType() != d.Type {
		return 0
	}
	if scene, ok := physicsScenes[d.Type]; ok {
		return len(scene(d.Data).forces) + 1
	}
	if plot, ok := plotScenes[d.Type]; ok {
		return len(plot(d.Data).points)
	}
	return 0
}
