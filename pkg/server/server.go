// Package server exposes the generation pipeline over HTTP.
//
// One POST endpoint per diagram family accepts that family's parameters,
// runs the pipeline synchronously, and records a job so clients can fetch
// status and video afterwards:
//
//	POST /generate/http-flow
//	POST /generate/dns-resolution
//	POST /generate/data-structure
//	POST /generate/process-flow
//	GET  /status/{id}
//	GET  /video/{id}
//	GET  /health
//
// Error responses carry the machine-readable code alongside the message, and
// input failures map to 4xx while renderer failures map to 5xx.
package server

import (
	"encoding/json"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/sceneforge/sceneforge/pkg/diagram"
	"github.com/sceneforge/sceneforge/pkg/errors"
	"github.com/sceneforge/sceneforge/pkg/jobs"
	"github.com/sceneforge/sceneforge/pkg/observability"
	"github.com/sceneforge/sceneforge/pkg/pipeline"
	"github.com/sceneforge/sceneforge/pkg/scene"
)

// Server handles the HTTP API.
type Server struct {
	runner *pipeline.Runner
	store  jobs.Store
	logger *log.Logger
	router chi.Router
}

// New creates a server around a pipeline runner and job store.
func New(runner *pipeline.Runner, store jobs.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		runner: runner,
		store:  store,
		logger: logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Post("/generate/http-flow", s.generate(scene.FamilyProtocol))
	r.Post("/generate/dns-resolution", s.generate(scene.FamilyResolution))
	r.Post("/generate/data-structure", s.generate(scene.FamilyStructure))
	r.Post("/generate/process-flow", s.generate(scene.FamilyFlow))
	r.Get("/status/{id}", s.status)
	r.Get("/video/{id}", s.video)
	r.Get("/health", s.health)

	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// observe reports request/response events to the API hooks.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		observability.API().OnRequest(r.Context(), r.Method, r.URL.Path)
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		observability.API().OnResponse(r.Context(), r.Method, r.URL.Path, ww.Status(), time.Since(start))
	})
}

// generateResponse is the payload for a successful generation.
type generateResponse struct {
	ID        string             `json:"id"`
	Status    jobs.Status        `json:"status"`
	ClassName string             `json:"class_name"`
	VideoPath string             `json:"video_path,omitempty"`
	Summary   scene.Summary      `json:"summary,omitempty"`
	Stats     pipeline.Stats     `json:"stats"`
	CacheInfo pipeline.CacheInfo `json:"cache_info"`
}

// generate returns the handler for one diagram family.
func (s *Server) generate(kind scene.Family) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := decodeRequest(kind, r)
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		// The job is keyed by the scene ID so /status and /video line up with
		// the artifact names.
		sceneID := uuid.NewString()
		job := jobs.New(sceneID, kind)
		job.MarkRendering()
		_ = s.store.Put(r.Context(), job)

		result, err := s.runner.Execute(r.Context(), pipeline.Options{Request: req, SceneID: sceneID})
		if err != nil {
			job.MarkFailed(err)
			_ = s.store.Put(r.Context(), job)
			s.writeError(w, r, err)
			return
		}

		job.MarkCompleted(result.ClassName, result.Artifact.Path, result.Plan.Summary)
		_ = s.store.Put(r.Context(), job)

		s.writeJSON(w, http.StatusOK, generateResponse{
			ID:        job.ID,
			Status:    job.Status,
			ClassName: result.ClassName,
			VideoPath: result.Artifact.Path,
			Summary:   result.Plan.Summary,
			Stats:     result.Stats,
			CacheInfo: result.CacheInfo,
		})
	}
}

// decodeRequest reads the family parameters from the body. An empty body is
// allowed; defaults describe a complete sample diagram.
func decodeRequest(kind scene.Family, r *http.Request) (*diagram.Request, error) {
	req := &diagram.Request{Kind: kind}

	var target any
	switch kind {
	case scene.FamilyProtocol:
		req.Protocol = &diagram.ProtocolParams{}
		target = req.Protocol
	case scene.FamilyResolution:
		req.Resolution = &diagram.ResolutionParams{}
		target = req.Resolution
	case scene.FamilyStructure:
		req.Structure = &diagram.StructureParams{}
		target = req.Structure
	case scene.FamilyFlow:
		req.Flow = &diagram.FlowParams{}
		target = req.Flow
	}

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(target); err != nil && err != io.EOF {
		return nil, errors.Wrap(errors.ErrCodeInvalidRequest, err, "decode request body")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return req, nil
}

func (s *Server) status(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	job, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, job)
}

func (s *Server) video(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	job, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if job.Status != jobs.StatusCompleted || job.ArtifactPath == "" {
		s.writeError(w, r, errors.New(errors.ErrCodeVideoNotFound, "no video for job %s", id))
		return
	}
	if _, err := os.Stat(job.ArtifactPath); err != nil {
		s.writeError(w, r, errors.New(errors.ErrCodeVideoNotFound, "video for job %s no longer exists", id))
		return
	}

	w.Header().Set("Content-Type", "video/mp4")
	http.ServeFile(w, r, job.ArtifactPath)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "sceneforge",
	})
}

// errorResponse is the payload for failures.
type errorResponse struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

// statusFor maps error codes to HTTP status codes.
func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidRequest, errors.ErrCodeInvalidKind, errors.ErrCodeEmptyInput:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeVideoNotFound:
		return http.StatusNotFound
	case errors.ErrCodeResources:
		return http.StatusServiceUnavailable
	case errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	status := statusFor(code)
	if status >= 500 {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err)
	} else {
		s.logger.Debug("request rejected", "path", r.URL.Path, "err", err)
	}
	s.writeJSON(w, status, errorResponse{Code: code, Message: errors.UserMessage(err)})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "err", err)
	}
}
