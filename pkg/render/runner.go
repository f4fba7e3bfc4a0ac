// Package render executes emitted scene scripts with the external manim
// binary and locates the resulting video artifact.
//
// The runner owns the script's on-disk lifecycle: it writes the script to a
// temp file, invokes the renderer with a context deadline, removes the temp
// file, and resolves the output path. A preflight check refuses to start a
// render when the host is low on memory, since the renderer is by far the
// most expensive part of a request.
package render

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/mem"

	"github.com/sceneforge/sceneforge/pkg/emit"
	"github.com/sceneforge/sceneforge/pkg/errors"
	"github.com/sceneforge/sceneforge/pkg/observability"
)

// Options configures the render runner.
type Options struct {
	Binary    string        // renderer executable, default "manim"
	Quality   string        // render quality flag, default "medium_quality"
	Format    string        // output container, default "mp4"
	OutputDir string        // where artifacts land, default "videos"
	Timeout   time.Duration // per-render deadline, default 2 minutes

	// MinFreeMemoryMB refuses renders when available memory drops below this.
	// Zero disables the check.
	MinFreeMemoryMB uint64
}

// withDefaults fills unset options.
func (o Options) withDefaults() Options {
	if o.Binary == "" {
		o.Binary = "manim"
	}
	if o.Quality == "" {
		o.Quality = "medium_quality"
	}
	if o.Format == "" {
		o.Format = "mp4"
	}
	if o.OutputDir == "" {
		o.OutputDir = "videos"
	}
	if o.Timeout <= 0 {
		o.Timeout = 2 * time.Minute
	}
	return o
}

// Artifact describes a rendered video.
type Artifact struct {
	Path      string        `json:"path"`
	SizeBytes int64         `json:"size_bytes"`
	Elapsed   time.Duration `json:"elapsed"`
}

// Runner renders scripts with an external renderer process.
type Runner struct {
	opts Options
}

// NewRunner creates a runner with defaults applied.
func NewRunner(opts Options) *Runner {
	return &Runner{opts: opts.withDefaults()}
}

// Settings reports the quality and format the runner renders with.
func (r *Runner) Settings() (quality, format string) {
	return r.opts.Quality, r.opts.Format
}

// Render writes the script to a temp file, runs the renderer, and returns the
// located artifact. The temp script is removed whether or not the render
// succeeds.
func (r *Runner) Render(ctx context.Context, script *emit.Script) (*Artifact, error) {
	if err := r.preflight(); err != nil {
		return nil, err
	}

	observability.Pipeline().OnRenderStart(ctx, script.SceneID, r.opts.Quality)
	start := time.Now()
	artifact, err := r.render(ctx, script)
	observability.Pipeline().OnRenderComplete(ctx, script.SceneID, r.opts.Quality, time.Since(start), err)
	return artifact, err
}

func (r *Runner) render(ctx context.Context, script *emit.Script) (*Artifact, error) {
	if err := os.MkdirAll(r.opts.OutputDir, 0755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "create output dir")
	}

	tmp, err := os.CreateTemp("", "scene_*.py")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "create script file")
	}
	scriptPath := tmp.Name()
	defer os.Remove(scriptPath)

	if _, err := tmp.WriteString(script.Source); err != nil {
		tmp.Close()
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "write script file")
	}
	if err := tmp.Close(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "close script file")
	}

	ctx, cancel := context.WithTimeout(ctx, r.opts.Timeout)
	defer cancel()

	start := time.Now()
	cmd := exec.CommandContext(ctx, r.opts.Binary,
		scriptPath,
		script.ClassName,
		"--format="+r.opts.Format,
		"--media_dir", r.opts.OutputDir,
		"--video_dir", r.opts.OutputDir,
		"--quality="+r.opts.Quality,
		"--disable_caching",
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, errors.New(errors.ErrCodeTimeout,
				"render of %s exceeded %s", script.SceneID, r.opts.Timeout)
		}
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err,
			"renderer exited abnormally: %s", stderrTail(stderr.String()))
	}

	path, err := r.findArtifact(script)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "stat artifact")
	}

	return &Artifact{
		Path:      path,
		SizeBytes: info.Size(),
		Elapsed:   time.Since(start),
	}, nil
}

// findArtifact locates the rendered video. The renderer names files after the
// scene class, so look for the class name first and fall back to anything
// carrying the scene ID.
func (r *Runner) findArtifact(script *emit.Script) (string, error) {
	exact := filepath.Join(r.opts.OutputDir, script.ClassName+"."+r.opts.Format)
	if _, err := os.Stat(exact); err == nil {
		return exact, nil
	}

	matches, _ := filepath.Glob(filepath.Join(r.opts.OutputDir, "*"+script.ClassName+"*."+r.opts.Format))
	if len(matches) > 0 {
		return matches[0], nil
	}

	return "", errors.New(errors.ErrCodeRenderFailed,
		"renderer produced no %s artifact for %s", r.opts.Format, script.SceneID)
}

// preflight refuses to start a render on a memory-starved host.
func (r *Runner) preflight() error {
	if r.opts.MinFreeMemoryMB == 0 {
		return nil
	}
	vm, err := mem.VirtualMemory()
	if err != nil {
		// Can't read memory stats; don't block the render over it.
		return nil
	}
	if vm.Available < r.opts.MinFreeMemoryMB*1024*1024 {
		return errors.New(errors.ErrCodeResources,
			"only %d MB memory available, need %d MB",
			vm.Available/1024/1024, r.opts.MinFreeMemoryMB)
	}
	return nil
}

func stderrTail(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 400 {
		s = "..." + s[len(s)-400:]
	}
	if s == "" {
		s = "(no stderr)"
	}
	return s
}
