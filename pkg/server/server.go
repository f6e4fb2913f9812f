package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/yurifrl/salesdata/pkg/config"
	"github.com/yurifrl/salesdata/pkg/engine"
	"github.com/yurifrl/salesdata/pkg/render"
	"github.com/yurifrl/salesdata/pkg/service"
)

const maxUploadSize = 32 << 20

// Server exposes the report pipeline over HTTP.
type Server struct {
	config    *config.Config
	logger    *log.Logger
	mux       *http.ServeMux
	processor *service.Processor
}

// New creates a new HTTP server
func New(config *config.Config, logger *log.Logger) *Server {
	s := &Server{
		config:    config,
		logger:    logger,
		mux:       http.NewServeMux(),
		processor: service.NewProcessor(config, logger),
	}
	s.setupRoutes()
	return s
}

// Start starts the HTTP server
func (s *Server) Start(addr string) error {
	return http.ListenAndServe(addr, s.mux)
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/report", s.withLogging(s.handleReport))
	s.mux.HandleFunc("/api/metrics", s.withLogging(s.handleMetrics))
	s.mux.HandleFunc("/healthz", s.withLogging(s.handleHealth))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}); err != nil {
		s.logger.Warn("failed to write json response", "err", err)
	}
}

// Metric describes one entry of the metric catalogue.
type Metric struct {
	Name     string   `json:"name"`
	Title    string   `json:"title"`
	Requires []string `json:"requires"`
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respondError(w, r, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}

	ops := engine.Operations()
	metrics := make([]Metric, len(ops))
	for i, op := range ops {
		metrics[i] = Metric{Name: op.Name, Title: op.Title, Requires: op.Requires}
	}

	if err := s.writeJSON(w, http.StatusOK, map[string]any{
		"status":  "success",
		"metrics": metrics,
	}); err != nil {
		s.logger.Warn("failed to write json response", "err", err)
	}
}

// handleReport computes a report for an uploaded sheet. The optional metrics
// field is a comma separated list; format selects a renderer instead of the
// JSON body.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.respondError(w, r, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, r, http.StatusBadRequest, "failed to read file", err)
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		s.respondError(w, r, http.StatusInternalServerError, "failed to read file", err)
		return
	}

	format := r.FormValue("format")
	var renderer render.Renderer
	if format != "" {
		if renderer, err = render.New(format); err != nil {
			s.respondError(w, r, http.StatusBadRequest, "unknown format", err)
			return
		}
	}

	rep, err := s.processor.Report(r.Context(), data, header.Filename, splitList(r.FormValue("metrics")))
	if err != nil {
		if errors.Is(err, engine.ErrUnknownMetric) {
			s.respondError(w, r, http.StatusBadRequest, "unknown metric", err)
			return
		}
		s.respondError(w, r, http.StatusBadRequest, "failed to process file", err)
		return
	}

	if renderer == nil {
		if err := s.writeJSON(w, http.StatusOK, rep); err != nil {
			s.logger.Warn("failed to write json response", "err", err)
		}
		return
	}

	var buf bytes.Buffer
	if err := renderer.Render(&buf, rep); err != nil {
		s.respondError(w, r, http.StatusInternalServerError, "failed to render report", err)
		return
	}
	w.Header().Set("Content-Type", render.ContentType(format))
	if _, err := w.Write(buf.Bytes()); err != nil {
		s.logger.Warn("failed to write report response", "err", err)
	}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// --- helpers ---

// writeJSON encodes v as JSON with the given status and writes headers.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// respondError logs the error and returns a minimal JSON error body.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, status int, message string, err error) {
	if err != nil {
		s.logger.Warn("request error", "status", status, "msg", message, "err", err, "method", r.Method, "path", r.URL.Path)
	} else {
		s.logger.Warn("request error", "status", status, "msg", message, "method", r.Method, "path", r.URL.Path)
	}
	body := map[string]string{
		"status": "error",
		"error":  message,
	}
	if err != nil {
		body["detail"] = err.Error()
	}
	_ = s.writeJSON(w, status, body)
}

// withLogging wraps a handler to log request start/end and recover panics.
func (s *Server) withLogging(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.logger.Debug("http request", "method", r.Method, "path", r.URL.Path, "remote", r.RemoteAddr)
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("panic recovered", "panic", rec, "method", r.Method, "path", r.URL.Path)
				s.respondError(w, r, http.StatusInternalServerError, "internal server error", fmt.Errorf("panic: %v", rec))
			}
		}()
		next(w, r)
	}
}
