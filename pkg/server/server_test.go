package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/sceneforge/sceneforge/pkg/emit"
	"github.com/sceneforge/sceneforge/pkg/errors"
	"github.com/sceneforge/sceneforge/pkg/jobs"
	"github.com/sceneforge/sceneforge/pkg/pipeline"
	"github.com/sceneforge/sceneforge/pkg/render"
	"github.com/sceneforge/sceneforge/pkg/scene"
)

// fakeRenderer writes a small artifact file per render.
type fakeRenderer struct {
	dir string
	err error
}

func (f *fakeRenderer) Render(ctx context.Context, script *emit.Script) (*render.Artifact, error) {
	if f.err != nil {
		return nil, f.err
	}
	path := filepath.Join(f.dir, script.ClassName+".mp4")
	if err := os.WriteFile(path, []byte("video"), 0644); err != nil {
		return nil, err
	}
	return &render.Artifact{Path: path, SizeBytes: 5}, nil
}

func (f *fakeRenderer) Settings() (string, string) {
	return "medium_quality", "mp4"
}

func newTestServer(t *testing.T, rendererErr error) (*Server, *jobs.MemoryStore) {
	t.Helper()
	fr := &fakeRenderer{dir: t.TempDir(), err: rendererErr}
	runner := pipeline.NewRunner(nil, nil, fr, log.New(io.Discard))
	store := jobs.NewMemoryStore()
	return New(runner, store, log.New(io.Discard)), store
}

func doJSON(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t, nil)
	rec := doJSON(t, s, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("health status = %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "healthy" {
		t.Errorf("body = %v", body)
	}
}

func TestGenerateHTTPFlowDefaults(t *testing.T) {
	s, store := newTestServer(t, nil)

	rec := doJSON(t, s, http.MethodPost, "/generate/http-flow", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}

	var resp generateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != jobs.StatusCompleted {
		t.Errorf("status = %s", resp.Status)
	}
	if !strings.HasPrefix(resp.ClassName, "HTTPFlow_") {
		t.Errorf("class name = %q", resp.ClassName)
	}
	if resp.VideoPath == "" {
		t.Error("video path missing")
	}

	job, err := store.Get(context.Background(), resp.ID)
	if err != nil {
		t.Fatalf("job not stored: %v", err)
	}
	if job.Kind != scene.FamilyProtocol {
		t.Errorf("job kind = %s", job.Kind)
	}
}

func TestGenerateDataStructureParams(t *testing.T) {
	s, _ := newTestServer(t, nil)

	rec := doJSON(t, s, http.MethodPost, "/generate/data-structure",
		`{"type": "binary_tree", "data": [5, 3, 8, 1, 4]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}

	var resp generateResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if !strings.HasPrefix(resp.ClassName, "DataStructure_") {
		t.Errorf("class name = %q", resp.ClassName)
	}
	if resp.Summary["structure"] != "binary_tree" {
		t.Errorf("summary = %v", resp.Summary)
	}
}

func TestGenerateEmptyFlowRejected(t *testing.T) {
	s, _ := newTestServer(t, nil)

	rec := doJSON(t, s, http.MethodPost, "/generate/process-flow",
		`{"flow_type": "circular", "steps": []}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	var resp errorResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Code != errors.ErrCodeEmptyInput {
		t.Errorf("error code = %s", resp.Code)
	}
}

func TestGenerateMalformedBody(t *testing.T) {
	s, _ := newTestServer(t, nil)
	rec := doJSON(t, s, http.MethodPost, "/generate/dns-resolution", `{"domain": 12`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestGenerateRenderFailure(t *testing.T) {
	s, _ := newTestServer(t, errors.New(errors.ErrCodeRenderFailed, "renderer exited abnormally"))

	rec := doJSON(t, s, http.MethodPost, "/generate/http-flow", "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}

	var resp errorResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Code != errors.ErrCodeRenderFailed {
		t.Errorf("error code = %s", resp.Code)
	}
}

func TestStatusAndVideo(t *testing.T) {
	s, _ := newTestServer(t, nil)

	rec := doJSON(t, s, http.MethodPost, "/generate/process-flow",
		`{"steps": [{"name": "Start"}, {"name": "Done"}]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("generate status = %d", rec.Code)
	}
	var resp generateResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)

	// Status endpoint
	statusRec := doJSON(t, s, http.MethodGet, "/status/"+resp.ID, "")
	if statusRec.Code != http.StatusOK {
		t.Fatalf("status endpoint = %d", statusRec.Code)
	}
	var job jobs.Job
	_ = json.Unmarshal(statusRec.Body.Bytes(), &job)
	if job.Status != jobs.StatusCompleted {
		t.Errorf("job status = %s", job.Status)
	}

	// Video endpoint serves the artifact
	videoRec := doJSON(t, s, http.MethodGet, "/video/"+resp.ID, "")
	if videoRec.Code != http.StatusOK {
		t.Fatalf("video endpoint = %d", videoRec.Code)
	}
	if videoRec.Body.String() != "video" {
		t.Errorf("video body = %q", videoRec.Body.String())
	}
}

func TestStatusUnknownID(t *testing.T) {
	s, _ := newTestServer(t, nil)
	rec := doJSON(t, s, http.MethodGet, "/status/nope", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestVideoNotReady(t *testing.T) {
	s, store := newTestServer(t, nil)
	job := jobs.New("pending-job", scene.FamilyFlow)
	_ = store.Put(context.Background(), job)

	rec := doJSON(t, s, http.MethodGet, "/video/pending-job", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	var resp errorResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Code != errors.ErrCodeVideoNotFound {
		t.Errorf("error code = %s", resp.Code)
	}
}
