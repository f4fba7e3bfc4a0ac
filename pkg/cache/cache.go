// Package cache provides caching for generated plans and rendered artifacts.
//
// Backends implement the [Cache] interface: a file-based cache for CLI and
// single-host usage, a Redis cache for shared deployments, and a null cache
// for tests and disabled caching. Key construction is separated into the
// [Keyer] interface so deployments can namespace keys without touching the
// backends.
package cache

import (
	"context"
	"time"
)

// Cache is the backend interface. Get returns (data, hit, error); a miss is
// not an error.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// PlanKeyOpts are the request fields that affect plan identity.
type PlanKeyOpts struct {
	Kind   string
	Params any
}

// ArtifactKeyOpts are the render settings that affect artifact identity.
type ArtifactKeyOpts struct {
	Quality string
	Format  string
}

// Keyer generates cache keys for the pipeline stages.
type Keyer interface {
	// PlanKey identifies a computed scene plan by its request.
	PlanKey(opts PlanKeyOpts) string
	// ArtifactKey identifies a rendered artifact by the plan it was rendered
	// from and the render settings.
	ArtifactKey(planHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer generates globally scoped keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// PlanKey generates a key for plan caching.
func (k *DefaultKeyer) PlanKey(opts PlanKeyOpts) string {
	return hashKey("plan", opts.Kind, opts.Params)
}

// ArtifactKey generates a key for artifact caching.
func (k *DefaultKeyer) ArtifactKey(planHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", planHash, opts)
}
