// Package jobs tracks generation jobs across their lifecycle so API clients
// can poll for status and fetch finished videos.
//
// Two stores are provided: an in-memory store for single-instance
// deployments and tests, and a MongoDB store for deployments where job state
// must survive restarts or be shared between instances.
package jobs

import (
	"context"
	"time"

	"github.com/sceneforge/sceneforge/pkg/errors"
	"github.com/sceneforge/sceneforge/pkg/scene"
)

// Status is a job lifecycle state.
type Status string

// Job states, in lifecycle order.
const (
	StatusPending   Status = "pending"
	StatusRendering Status = "rendering"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Job is one generation job.
type Job struct {
	ID           string       `json:"id" bson:"_id"`
	Kind         scene.Family `json:"kind" bson:"kind"`
	Status       Status       `json:"status" bson:"status"`
	Error        string       `json:"error,omitempty" bson:"error,omitempty"`
	ClassName    string       `json:"class_name,omitempty" bson:"class_name,omitempty"`
	ArtifactPath string       `json:"artifact_path,omitempty" bson:"artifact_path,omitempty"`
	Summary      scene.Summary `json:"summary,omitempty" bson:"summary,omitempty"`
	CreatedAt    time.Time    `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at" bson:"updated_at"`
}

// Store persists jobs. Put inserts or replaces by ID; Get returns
// ErrCodeNotFound for unknown IDs.
type Store interface {
	Put(ctx context.Context, job *Job) error
	Get(ctx context.Context, id string) (*Job, error)
	List(ctx context.Context, limit int) ([]*Job, error)
	Close(ctx context.Context) error
}

// New creates a pending job for a diagram kind.
func New(id string, kind scene.Family) *Job {
	now := time.Now().UTC()
	return &Job{
		ID:        id,
		Kind:      kind,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// MarkRendering transitions the job into the rendering state.
func (j *Job) MarkRendering() {
	j.Status = StatusRendering
	j.UpdatedAt = time.Now().UTC()
}

// MarkCompleted records the finished artifact.
func (j *Job) MarkCompleted(className, artifactPath string, summary scene.Summary) {
	j.Status = StatusCompleted
	j.ClassName = className
	j.ArtifactPath = artifactPath
	j.Summary = summary
	j.UpdatedAt = time.Now().UTC()
}

// MarkFailed records the failure message.
func (j *Job) MarkFailed(err error) {
	j.Status = StatusFailed
	if err != nil {
		j.Error = errors.UserMessage(err)
	}
	j.UpdatedAt = time.Now().UTC()
}

func notFound(id string) error {
	return errors.New(errors.ErrCodeNotFound, "job %s not found", id)
}
