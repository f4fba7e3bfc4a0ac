// Package pipeline provides the core scene generation pipeline.
//
// This package implements the complete layout → emit → render pipeline used
// by CLI, API, and worker components. By centralizing this logic, we ensure
// consistent behavior across all entry points and avoid code duplication.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Layout: Build the positioned scene plan from a diagram request
//  2. Emit: Generate the renderer script from the plan
//  3. Render: Execute the external renderer and locate the video artifact
//
// Layout and emit are pure and cheap; render shells out and dominates
// request latency, which is why plans and finished artifacts are cached.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, renderer, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{Request: req})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Artifact.Path)
package pipeline

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/sceneforge/sceneforge/pkg/cache"
	"github.com/sceneforge/sceneforge/pkg/diagram"
	"github.com/sceneforge/sceneforge/pkg/diagram/layout"
	"github.com/sceneforge/sceneforge/pkg/emit"
	"github.com/sceneforge/sceneforge/pkg/errors"
	"github.com/sceneforge/sceneforge/pkg/observability"
	"github.com/sceneforge/sceneforge/pkg/render"
	"github.com/sceneforge/sceneforge/pkg/scene"
)

// DefaultCacheTTL bounds how long cached plans and artifacts stay valid.
const DefaultCacheTTL = 24 * time.Hour

// Options configures one pipeline execution.
type Options struct {
	// Request is the diagram to generate. Required.
	Request *diagram.Request `json:"request"`

	// SceneID overrides the generated scene identifier. Leave empty to get a
	// fresh UUID; set it to make runs reproducible.
	SceneID string `json:"scene_id,omitempty"`

	// SkipRender stops after the emit stage. The CLI uses this for script
	// inspection and previews.
	SkipRender bool `json:"skip_render,omitempty"`

	// CacheTTL overrides DefaultCacheTTL when positive.
	CacheTTL time.Duration `json:"cache_ttl,omitempty"`
}

// ValidateAndSetDefaults checks the options and fills defaults in place.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Request == nil {
		return errors.New(errors.ErrCodeInvalidRequest, "pipeline options carry no request")
	}
	if err := o.Request.Validate(); err != nil {
		return err
	}
	if o.SceneID == "" {
		o.SceneID = uuid.NewString()
	}
	if o.CacheTTL <= 0 {
		o.CacheTTL = DefaultCacheTTL
	}
	return nil
}

// Stats records per-stage timings.
type Stats struct {
	LayoutTime time.Duration `json:"layout_time"`
	EmitTime   time.Duration `json:"emit_time"`
	RenderTime time.Duration `json:"render_time"`
}

// CacheInfo records which stages were served from cache.
type CacheInfo struct {
	PlanHit     bool `json:"plan_hit"`
	ArtifactHit bool `json:"artifact_hit"`
}

// Result is the outcome of a pipeline execution.
type Result struct {
	SceneID   string           `json:"scene_id"`
	ClassName string           `json:"class_name"`
	Plan      *scene.Plan      `json:"plan"`
	Script    *emit.Script     `json:"-"`
	Artifact  *render.Artifact `json:"artifact,omitempty"`
	Stats     Stats            `json:"stats"`
	CacheInfo CacheInfo        `json:"cache_info"`
}

// Renderer abstracts the render runner so tests can substitute a fake.
type Renderer interface {
	Render(ctx context.Context, script *emit.Script) (*render.Artifact, error)
	// Settings reports the quality and format the renderer produces, which
	// are part of the artifact cache identity.
	Settings() (quality, format string)
}

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for its collaborators - it doesn't store
// pipeline results. Multiple goroutines can safely use the same Runner with
// different options.
type Runner struct {
	Cache    cache.Cache
	Keyer    cache.Keyer
	Renderer Renderer
	Logger   *log.Logger
}

// NewRunner creates a runner with the given collaborators.
// If keyer is nil, a DefaultKeyer is used.
// If c is nil, a NullCache is used (caching disabled).
// If renderer is nil, Execute fails on render unless SkipRender is set.
func NewRunner(c cache.Cache, keyer cache.Keyer, renderer Renderer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:    c,
		Keyer:    keyer,
		Renderer: renderer,
		Logger:   logger,
	}
}

// Execute runs the complete layout → emit → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{SceneID: opts.SceneID}

	// Stage 1: Layout
	layoutStart := time.Now()
	plan, planHit, err := r.buildPlan(ctx, opts.Request, opts.CacheTTL)
	if err != nil {
		return nil, err
	}
	result.Plan = plan
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.PlanHit = planHit

	r.Logger.Info("built scene plan",
		"kind", opts.Request.Kind,
		"elements", len(plan.Elements),
		"steps", len(plan.Steps),
		"cached", planHit,
		"duration", result.Stats.LayoutTime)

	// Stage 2: Emit
	emitStart := time.Now()
	observability.Pipeline().OnEmitStart(ctx, opts.SceneID)
	script, err := emit.Render(plan, opts.SceneID)
	observability.Pipeline().OnEmitComplete(ctx, opts.SceneID, scriptLen(script), time.Since(emitStart), err)
	if err != nil {
		return nil, err
	}
	result.Script = script
	result.ClassName = script.ClassName
	result.Stats.EmitTime = time.Since(emitStart)

	if opts.SkipRender {
		return result, nil
	}
	if r.Renderer == nil {
		return nil, errors.New(errors.ErrCodeInternal, "pipeline has no renderer configured")
	}

	// Stage 3: Render
	renderStart := time.Now()
	artifact, artifactHit, err := r.renderScript(ctx, plan, script, opts.CacheTTL)
	if err != nil {
		return nil, err
	}
	result.Artifact = artifact
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.ArtifactHit = artifactHit

	r.Logger.Info("rendered scene",
		"scene_id", opts.SceneID,
		"artifact", artifact.Path,
		"cached", artifactHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// buildPlan computes or restores the scene plan for a request.
func (r *Runner) buildPlan(ctx context.Context, req *diagram.Request, ttl time.Duration) (*scene.Plan, bool, error) {
	key := r.Keyer.PlanKey(cache.PlanKeyOpts{Kind: string(req.Kind), Params: req})

	if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
		var plan scene.Plan
		if err := json.Unmarshal(data, &plan); err == nil && plan.Validate() == nil {
			observability.Cache().OnCacheHit(ctx, "plan")
			return &plan, true, nil
		}
		// Corrupt entry; rebuild below.
		_ = r.Cache.Delete(ctx, key)
	}
	observability.Cache().OnCacheMiss(ctx, "plan")

	start := time.Now()
	observability.Pipeline().OnLayoutStart(ctx, string(req.Kind))
	plan, err := layout.Build(req)
	elements, steps := 0, 0
	if plan != nil {
		elements, steps = len(plan.Elements), len(plan.Steps)
	}
	observability.Pipeline().OnLayoutComplete(ctx, string(req.Kind), elements, steps, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	if data, err := json.Marshal(plan); err == nil {
		if err := r.Cache.Set(ctx, key, data, ttl); err == nil {
			observability.Cache().OnCacheSet(ctx, "plan", len(data))
		}
	}
	return plan, false, nil
}

// renderScript renders the script, serving the artifact from cache when a
// previous run already produced it and the file still exists.
//
// The script text embeds the per-request scene ID, so artifact identity comes
// from the plan plus the render settings instead.
func (r *Runner) renderScript(ctx context.Context, plan *scene.Plan, script *emit.Script, ttl time.Duration) (*render.Artifact, bool, error) {
	planJSON, err := json.Marshal(plan)
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "marshal plan for artifact key")
	}
	quality, format := r.Renderer.Settings()
	key := r.Keyer.ArtifactKey(cache.Hash(planJSON), cache.ArtifactKeyOpts{Quality: quality, Format: format})

	if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
		var artifact render.Artifact
		if err := json.Unmarshal(data, &artifact); err == nil {
			if _, statErr := os.Stat(artifact.Path); statErr == nil {
				observability.Cache().OnCacheHit(ctx, "artifact")
				return &artifact, true, nil
			}
		}
		// File vanished or entry corrupt; re-render.
		_ = r.Cache.Delete(ctx, key)
	}
	observability.Cache().OnCacheMiss(ctx, "artifact")

	artifact, err := r.Renderer.Render(ctx, script)
	if err != nil {
		return nil, false, err
	}

	if data, err := json.Marshal(artifact); err == nil {
		if err := r.Cache.Set(ctx, key, data, ttl); err == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}
	return artifact, false, nil
}

func scriptLen(s *emit.Script) int {
	if s == nil {
		return 0
	}
	return len(s.Source)
}
