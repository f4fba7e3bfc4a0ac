package render

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sceneforge/sceneforge/pkg/emit"
	"github.com/sceneforge/sceneforge/pkg/errors"
)

func testScript() *emit.Script {
	return &emit.Script{
		SceneID:   "abc-123",
		ClassName: "HTTPFlow_abc_123",
		Source:    "from manim import *\n",
	}
}

// fakeRenderer writes a shell script that stands in for the manim binary.
func fakeRenderer(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fake-manim")
	script := "#!/bin/sh\n" + body + "\n"
	if err := os.WriteFile(path, []byte(script), 0755); err != nil {
		t.Fatalf("write fake renderer: %v", err)
	}
	return path
}

func TestRenderSuccess(t *testing.T) {
	out := t.TempDir()
	bin := fakeRenderer(t, `touch "`+filepath.Join(out, "HTTPFlow_abc_123.mp4")+`"`)

	r := NewRunner(Options{Binary: bin, OutputDir: out, Timeout: 10 * time.Second})
	artifact, err := r.Render(context.Background(), testScript())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if filepath.Base(artifact.Path) != "HTTPFlow_abc_123.mp4" {
		t.Errorf("artifact path = %q", artifact.Path)
	}
	if artifact.Elapsed <= 0 {
		t.Errorf("elapsed = %v", artifact.Elapsed)
	}
}

func TestRenderGlobFallback(t *testing.T) {
	out := t.TempDir()
	// Renderer adds a resolution suffix to the file name.
	bin := fakeRenderer(t, `touch "`+filepath.Join(out, "720p30_HTTPFlow_abc_123.mp4")+`"`)

	r := NewRunner(Options{Binary: bin, OutputDir: out, Timeout: 10 * time.Second})
	artifact, err := r.Render(context.Background(), testScript())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if filepath.Base(artifact.Path) != "720p30_HTTPFlow_abc_123.mp4" {
		t.Errorf("artifact path = %q", artifact.Path)
	}
}

func TestRenderNoArtifact(t *testing.T) {
	out := t.TempDir()
	bin := fakeRenderer(t, "exit 0")

	r := NewRunner(Options{Binary: bin, OutputDir: out, Timeout: 10 * time.Second})
	_, err := r.Render(context.Background(), testScript())
	if !errors.Is(err, errors.ErrCodeRenderFailed) {
		t.Errorf("got %v, want RENDER_FAILED", err)
	}
}

func TestRenderFailure(t *testing.T) {
	out := t.TempDir()
	bin := fakeRenderer(t, `echo "Traceback: boom" >&2; exit 1`)

	r := NewRunner(Options{Binary: bin, OutputDir: out, Timeout: 10 * time.Second})
	_, err := r.Render(context.Background(), testScript())
	if !errors.Is(err, errors.ErrCodeRenderFailed) {
		t.Fatalf("got %v, want RENDER_FAILED", err)
	}
	if msg := errors.UserMessage(err); msg == "" {
		t.Error("failure carries no message")
	}
}

func TestRenderTimeout(t *testing.T) {
	out := t.TempDir()
	bin := fakeRenderer(t, "sleep 5")

	r := NewRunner(Options{Binary: bin, OutputDir: out, Timeout: 100 * time.Millisecond})
	_, err := r.Render(context.Background(), testScript())
	if !errors.Is(err, errors.ErrCodeTimeout) {
		t.Errorf("got %v, want TIMEOUT", err)
	}
}

func TestRenderPreflightRefuses(t *testing.T) {
	out := t.TempDir()
	bin := fakeRenderer(t, "exit 0")

	// No host has this much memory free.
	r := NewRunner(Options{
		Binary: bin, OutputDir: out, Timeout: time.Second,
		MinFreeMemoryMB: math.MaxUint64 / (1024 * 1024) / 2,
	})
	_, err := r.Render(context.Background(), testScript())
	if !errors.Is(err, errors.ErrCodeResources) {
		t.Errorf("got %v, want INSUFFICIENT_RESOURCES", err)
	}
}

func TestOptionsDefaults(t *testing.T) {
	o := Options{}.withDefaults()
	if o.Binary != "manim" || o.Quality != "medium_quality" || o.Format != "mp4" {
		t.Errorf("defaults = %+v", o)
	}
	if o.Timeout != 2*time.Minute {
		t.Errorf("timeout default = %v", o.Timeout)
	}
}
