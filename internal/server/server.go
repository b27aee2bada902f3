package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"runtime"
	"slices"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/osse101/CozyCasino_Go/internal/logger"
	"github.com/osse101/CozyCasino_Go/internal/metrics"
	"github.com/osse101/CozyCasino_Go/internal/session"
)

// SessionLookup returns the view of the session of namespace
type SessionLookup func(namespace string) (session.View, bool)

// Options configures the status server
type Options struct {
	Port             int
	ServiceName      string
	Version          string
	AllowedOrigins   []string
	DefaultNamespace string
	Sessions         SessionLookup

	// Extra GET routes mounted next to the built-in ones
	Routes map[string]http.Handler
}

// Server is the local read-only status server
type Server struct {
	httpServer *http.Server
	opts       Options
}

// HealthResponse is the body of /healthz
type HealthResponse struct {
	Status string `json:"status"`
}

// VersionInfo is the body of /version
type VersionInfo struct {
	Service   string `json:"service"`
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
}

// ErrorResponse is the body of error replies
type ErrorResponse struct {
	Error string `json:"error"`
}

// NewServer creates a new Server instance
func NewServer(opts Options) *Server {
	s := &Server{opts: opts}
	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf("127.0.0.1:%d", opts.Port),
		Handler:           s.routes(),
		ReadHeaderTimeout: readHeaderTimeout,
	}
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	// Chi middleware executes in order defined (outermost to innermost)
	r.Use(SecurityHeadersMiddleware())
	r.Use(RateLimitMiddleware(NewRateLimiter(RateLimitRequests, RateLimitWindow)))
	if len(s.opts.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.opts.AllowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodOptions},
			AllowedHeaders:   []string{HeaderValueAllowedRequestHeader},
			AllowCredentials: false,
			MaxAge:           corsMaxAge,
		}))
	}
	r.Use(requestMiddleware)

	r.Get(RouteHealthz, handleHealthz())
	r.Get(RouteVersion, handleVersion(s.opts.ServiceName, s.opts.Version))
	r.Handle(RouteMetrics, promhttp.Handler())
	r.Get(RouteSession, handleSession(s.opts.DefaultNamespace, s.opts.Sessions))
	for pattern, h := range s.opts.Routes {
		r.Method(http.MethodGet, pattern, h)
	}

	return r
}

// Handler returns the routed handler
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start serves until Stop. It returns nil after a graceful stop.
func (s *Server) Start() error {
	slog.Default().Info(LogMsgServerStarting, "addr", s.httpServer.Addr)
	err := s.httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Serve serves on an existing listener
func (s *Server) Serve(l net.Listener) error {
	slog.Default().Info(LogMsgServerStarting, "addr", l.Addr().String())
	err := s.httpServer.Serve(l)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Stop stops the server gracefully
func (s *Server) Stop(ctx context.Context) error {
	defer slog.Default().Info(LogMsgServerStopped)
	return s.httpServer.Shutdown(ctx)
}

func handleHealthz() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, r, http.StatusOK, HealthResponse{Status: "ok"})
	}
}

func handleVersion(service, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, r, http.StatusOK, VersionInfo{
			Service:   service,
			Version:   version,
			GoVersion: runtime.Version(),
		})
	}
}

func handleSession(defaultNamespace string, lookup SessionLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ns := r.URL.Query().Get(QueryNamespace)
		if ns == "" {
			ns = defaultNamespace
		}
		if lookup == nil {
			respondJSON(w, r, http.StatusNotFound, ErrorResponse{Error: ErrMsgSessionNotFound})
			return
		}
		view, ok := lookup(ns)
		if !ok {
			respondJSON(w, r, http.StatusNotFound, ErrorResponse{Error: ErrMsgSessionNotFound})
			return
		}
		w.Header().Set(HeaderCacheControl, HeaderValueNoStore)
		respondJSON(w, r, http.StatusOK, view)
	}
}

func respondJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set(HeaderContentType, HeaderValueJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.FromContext(r.Context()).Error(LogMsgEncodeFailed, "error", err)
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK, // default status
	}
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	if !rw.written {
		rw.statusCode = statusCode
		rw.written = true
		rw.ResponseWriter.WriteHeader(statusCode)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

// Flush lets streaming handlers push through the wrapper
func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// requestMiddleware tags the request with an ID, counts it and logs it
func requestMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ctx := logger.WithRequestID(r.Context(), logger.GenerateRequestID())
		r = r.WithContext(ctx)

		rw := newResponseWriter(w)
		next.ServeHTTP(rw, r)

		route := chi.RouteContext(ctx).RoutePattern()
		if route == "" {
			route = metrics.RouteUnmatched
		}
		metrics.HTTPRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(rw.statusCode)).Inc()

		if slices.Contains(quietPaths, route) {
			return
		}
		duration := time.Since(start)
		logger.FromContext(ctx).Info(LogMsgRequestCompleted,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds())
	})
}
