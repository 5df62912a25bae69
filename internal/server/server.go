package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spektr-org/salescope/engine"
	"github.com/spektr-org/salescope/helpers"
	"github.com/spektr-org/salescope/internal/metrics"
	"github.com/spektr-org/salescope/schema"
)

// multipartSlack is extra body room for multipart boundaries and headers.
const multipartSlack = 1 << 20

// Options configures the HTTP server.
type Options struct {
	Listen         string
	MaxUploadBytes int64
	Infer          schema.InferOptions
	Defaults       engine.Params
}

// Server is the HTTP surface over inference and reporting.
type Server struct {
	router *chi.Mux
	engine *engine.Engine
	opts   Options
	logger *slog.Logger
	srv    *http.Server
}

// New creates a server. Call Start to listen.
func New(eng *engine.Engine, opts Options, logger *slog.Logger) *Server {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = helpers.DefaultMaxUploadBytes
	}
	if opts.Infer == (schema.InferOptions{}) {
		opts.Infer = schema.DefaultInferOptions()
	}
	if opts.Defaults == (engine.Params{}) {
		opts.Defaults = engine.DefaultParams()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	s := &Server{
		router: chi.NewRouter(),
		engine: eng,
		opts:   opts,
		logger: logger.With(slog.String("component", "server")),
	}
	s.setupRoutes()

	s.srv = &http.Server{
		Addr:              opts.Listen,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       5 * time.Minute,
		WriteTimeout:      5 * time.Minute,
	}
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.router }

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(metrics.Middleware)
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowOriginFunc: func(_ *http.Request, origin string) bool { return isLocalhostOrigin(origin) },
		AllowedMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:  []string{"Content-Type", "X-Filename"},
	}))

	s.router.Get("/healthz", s.handleHealth)
	s.router.Handle("/metrics", promhttp.Handler())

	s.router.Route("/v1", func(r chi.Router) {
		r.Post("/detect", s.handleDetect)
		r.Post("/analyze", s.handleAnalyze)
		r.Post("/export", s.handleExport)
	})
}

// isLocalhostOrigin reports whether the given Origin header value is a localhost origin.
func isLocalhostOrigin(origin string) bool {
	return strings.HasPrefix(origin, "http://localhost") ||
		strings.HasPrefix(origin, "https://localhost") ||
		strings.HasPrefix(origin, "http://127.0.0.1") ||
		strings.HasPrefix(origin, "https://127.0.0.1")
}

// Start listens until the server is shut down.
func (s *Server) Start() error {
	s.logger.Info("listening", "addr", s.srv.Addr)
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

// ============================================================================
// UPLOADS
// ============================================================================

// readUpload parses the dataset from a multipart "file" field or, for any
// other content type, the raw body named by X-Filename (or ?filename=).
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (*helpers.Upload, error) {
	limit := s.opts.MaxUploadBytes
	r.Body = http.MaxBytesReader(w, r.Body, limit+multipartSlack)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		mr, err := r.MultipartReader()
		if err != nil {
			return nil, fmt.Errorf("invalid multipart body: %w", err)
		}
		for {
			part, err := mr.NextPart()
			if errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("multipart body has no %q field", "file")
			}
			if err != nil {
				return nil, fmt.Errorf("invalid multipart body: %w", err)
			}
			if part.FormName() != "file" {
				continue
			}
			return helpers.Load(part.FileName(), part, limit)
		}
	}

	name := r.Header.Get("X-Filename")
	if name == "" {
		name = r.URL.Query().Get("filename")
	}
	return helpers.Load(name, r.Body, limit)
}

// paramsFromQuery reads top_n, granularity and currency over the defaults.
func (s *Server) paramsFromQuery(r *http.Request) (engine.Params, error) {
	p := s.opts.Defaults
	q := r.URL.Query()

	if v := q.Get("top_n"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return p, fmt.Errorf("%w: top_n must be an integer", engine.ErrInvalidParams)
		}
		p.TopN = n
	}
	if v := q.Get("granularity"); v != "" {
		g, err := engine.ParseGranularity(v)
		if err != nil {
			return p, err
		}
		p.Granularity = g
	}
	if v, ok := q["currency"]; ok {
		p.Currency = v[0]
	}
	return p, p.Validate()
}

// ============================================================================
// RESPONSES
// ============================================================================

type errorResponse struct {
	Error     string `json:"error"`
	Status    int    `json:"status"`
	RequestID string `json:"requestId,omitempty"`
}

func statusFor(err error) int {
	var maxErr *http.MaxBytesError
	switch {
	case errors.Is(err, helpers.ErrTooLarge), errors.As(err, &maxErr):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, helpers.ErrUnsupportedFormat):
		return http.StatusUnsupportedMediaType
	default:
		return http.StatusBadRequest
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	s.logger.Warn("request failed",
		"path", r.URL.Path,
		"status", status,
		"request_id", middleware.GetReqID(r.Context()),
		"error", err)

	render.Status(r, status)
	render.JSON(w, r, errorResponse{
		Error:     err.Error(),
		Status:    status,
		RequestID: middleware.GetReqID(r.Context()),
	})
}
