// Package server exposes the analysis pipeline over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/gyeh/claimstats/internal/config"
	"github.com/gyeh/claimstats/internal/db"
	"github.com/gyeh/claimstats/internal/ingest"
	"github.com/gyeh/claimstats/internal/model"
)

// AnalyzeFunc runs one analysis for the uploaded file described by cfg.
type AnalyzeFunc func(ctx context.Context, cfg *config.Config) (*model.RunSummary, error)

// SubscriberStore records newsletter signups.
type SubscriberStore interface {
	SaveSubscriber(ctx context.Context, email, source string) (int, error)
}

// Server holds the HTTP handlers and their dependencies.
type Server struct {
	log      zerolog.Logger
	base     config.Config
	analyze  AnalyzeFunc
	subs     SubscriberStore // nil when storage is not configured
	validate *validator.Validate
}

// New creates a Server. base supplies limits and delivery settings copied
// into every analysis.
func New(log zerolog.Logger, base config.Config, analyze AnalyzeFunc, subs SubscriberStore) *Server {
	return &Server{
		log:      log,
		base:     base,
		analyze:  analyze,
		subs:     subs,
		validate: validator.New(),
	}
}

// Routes builds the router.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Post("/analyze", s.handleAnalyze)
		r.Post("/subscribe", s.handleSubscribe)
	})
	return r
}

type errorResponse struct {
	Error string `json:"error"`
}

type analyzeStats struct {
	ClaimsAnalyzed int64 `json:"claimsAnalyzed"`
	Warnings       int   `json:"warnings"`
}

type analyzeResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Stats   analyzeStats `json:"stats"`
}

type subscribeRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type subscribeResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "ok"})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	maxBytes := s.base.MaxFileBytes()
	// Leave headroom for the multipart envelope and the email field.
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes+1<<20)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			s.fail(w, r, http.StatusBadRequest, fmt.Sprintf("File size exceeds %dMB limit", maxBytes>>20))
			return
		}
		s.fail(w, r, http.StatusBadRequest, "No file provided")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		s.fail(w, r, http.StatusBadRequest, "No file provided")
		return
	}
	defer file.Close()

	email := strings.TrimSpace(r.FormValue("email"))
	if err := s.validate.Var(email, "required,email"); err != nil {
		s.fail(w, r, http.StatusBadRequest, "Valid email address required")
		return
	}
	if !strings.EqualFold(filepath.Ext(header.Filename), ".xlsx") {
		s.fail(w, r, http.StatusBadRequest, "Only .xlsx files are supported")
		return
	}
	if header.Size > maxBytes {
		s.fail(w, r, http.StatusBadRequest, fmt.Sprintf("File size exceeds %dMB limit", maxBytes>>20))
		return
	}

	path, err := spool(file)
	if err != nil {
		s.log.Error().Err(err).Msg("spool upload")
		s.fail(w, r, http.StatusInternalServerError, "Analysis failed. Please try again.")
		return
	}
	defer os.Remove(path)

	cfg := s.base
	cfg.FilePath = path
	cfg.Email = email
	summary, err := s.analyze(r.Context(), &cfg)
	if err != nil {
		if ingest.IsInputError(err) {
			var pe *ingest.PipelineError
			msg := err.Error()
			if errors.As(err, &pe) {
				msg = pe.Err.Error()
			}
			s.fail(w, r, http.StatusBadRequest, msg)
			return
		}
		s.log.Error().Err(err).Str("file", header.Filename).Msg("analysis failed")
		s.fail(w, r, http.StatusInternalServerError, "Analysis failed. Please try again.")
		return
	}

	render.JSON(w, r, analyzeResponse{
		Success: true,
		Message: "Analysis complete. Check your email for results.",
		Stats: analyzeStats{
			ClaimsAnalyzed: summary.ClaimsParsed,
			Warnings:       len(summary.Warnings),
		},
	})
}

func (s *Server) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	var req subscribeRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		s.fail(w, r, http.StatusBadRequest, "Valid email address required")
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if err := s.validate.Struct(req); err != nil {
		s.fail(w, r, http.StatusBadRequest, "Valid email address required")
		return
	}

	if s.subs == nil {
		s.log.Warn().Msg("subscriber storage not configured, skipping save")
	} else if _, err := s.subs.SaveSubscriber(r.Context(), req.Email, db.SourceSubscribe); err != nil {
		s.log.Error().Err(err).Msg("save subscriber")
		s.fail(w, r, http.StatusInternalServerError, "Subscription failed. Please try again.")
		return
	}

	render.JSON(w, r, subscribeResponse{Success: true, Message: "Successfully subscribed!"})
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, status int, msg string) {
	render.Status(r, status)
	render.JSON(w, r, errorResponse{Error: msg})
}

// spool copies the upload to a temp file so the readers can open it by path.
func spool(src io.Reader) (string, error) {
	f, err := os.CreateTemp("", "claims-*.xlsx")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	if _, err := io.Copy(f, src); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("close temp file: %w", err)
	}
	return f.Name(), nil
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Str("request_id", middleware.GetReqID(r.Context())).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}
