// Package server provides the HTTP API of the portfolio site: public content
// reads, the admin content editor, settings, and the contact form.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/jonathan/portfolio/internal/config"
	"github.com/jonathan/portfolio/internal/contact"
	"github.com/jonathan/portfolio/internal/datasync"
	"github.com/jonathan/portfolio/internal/server/middleware"
	"github.com/jonathan/portfolio/internal/server/ratelimit"
	"github.com/jonathan/portfolio/internal/settings"
)

// defaultMaxBodyBytes caps request bodies when the config leaves it unset.
const defaultMaxBodyBytes = 16 << 20

// HealthChecker reports whether a backing service is reachable.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// Deps are the services the server exposes.
type Deps struct {
	Engine   *datasync.Engine
	Feed     *datasync.Feed
	Settings *settings.Store
	Contact  *contact.Service
	Health   HealthChecker
	Logger   *slog.Logger
}

// Server represents the HTTP server
type Server struct {
	httpServer      *http.Server
	shutdownTimeout time.Duration
	maxBodyBytes    int64

	engine   *datasync.Engine
	cache    *datasync.Cache
	feed     *datasync.Feed
	settings *settings.Store
	contact  *contact.Service
	health   HealthChecker

	auth           config.AuthConfig
	passwordConfig *config.PasswordConfig
	jwtService     *JWTService
	rateLimiter    *ratelimit.Limiter

	logger  *slog.Logger
	baseURL string
	now     func() time.Time
}

// New creates a new server instance
func New(cfg *config.Config, deps Deps) (*Server, error) {
	if deps.Engine == nil || deps.Settings == nil || deps.Contact == nil {
		return nil, errors.New("server: engine, settings, and contact service are required")
	}

	passwordConfig, err := cfg.Auth.PasswordConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create password config: %w", err)
	}
	jwtConfig, err := cfg.Auth.JWTConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT config: %w", err)
	}

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	feed := deps.Feed
	if feed == nil {
		feed = datasync.NewFeed(cfg.Site.NotificationFeed)
	}
	maxBody := cfg.Server.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = defaultMaxBodyBytes
	}

	s := &Server{
		shutdownTimeout: cfg.Server.ShutdownTimeout,
		maxBodyBytes:    maxBody,
		engine:          deps.Engine,
		cache:           deps.Engine.Cache(),
		feed:            feed,
		settings:        deps.Settings,
		contact:         deps.Contact,
		health:          deps.Health,
		auth:            cfg.Auth,
		passwordConfig:  passwordConfig,
		jwtService:      NewJWTService(jwtConfig),
		rateLimiter:     ratelimit.NewLimiter(ratelimit.FromConfig(cfg.RateLimit)),
		logger:          logger,
		baseURL:         cfg.Site.BaseURL,
		now:             time.Now,
	}

	s.httpServer = &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      s.handler(cfg.CORS),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	return s, nil
}

// Handler returns the server's full middleware chain and routes.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) routes() *http.ServeMux {
	admin := func(h http.HandlerFunc) http.Handler {
		return middleware.AuthMiddleware(s.jwtService.AsTokenValidator())(h)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /sitemap.xml", s.handleSitemap)

	// Public site
	mux.HandleFunc("GET /api/site", s.handleSite)
	mux.HandleFunc("POST /api/contact", s.handleContact)
	mux.HandleFunc("GET /api/{collection}", s.handleList)
	mux.HandleFunc("GET /api/{collection}/{id}", s.handleGet)
	mux.HandleFunc("GET /api/{collection}/{id}/related", s.handleRelated)

	// Admin
	mux.HandleFunc("POST /api/admin/login", s.handleLogin)
	mux.Handle("GET /api/admin/status", admin(s.handleStatus))
	mux.Handle("POST /api/admin/refresh", admin(s.handleRefresh))
	mux.Handle("GET /api/admin/notifications", admin(s.handleNotifications))
	mux.Handle("GET /api/admin/settings", admin(s.handleGetSettings))
	mux.Handle("PUT /api/admin/settings", admin(s.handlePutSettings))
	mux.Handle("GET /api/admin/profile", admin(s.handleGetProfile))
	mux.Handle("PUT /api/admin/profile", admin(s.handlePutProfile))
	mux.Handle("POST /api/admin/{collection}", admin(s.handleCreate))
	mux.Handle("PUT /api/admin/{collection}/{id}", admin(s.handleUpdate))
	mux.Handle("DELETE /api/admin/{collection}/{id}", admin(s.handleDelete))
	return mux
}

func (s *Server) handler(corsCfg config.CORSConfig) http.Handler {
	var h http.Handler = s.routes()
	h = s.withRateLimit(h)
	h = cors.New(cors.Options{
		AllowedOrigins:   corsCfg.Origins(),
		AllowedMethods:   corsCfg.Methods(),
		AllowedHeaders:   corsCfg.Headers(),
		ExposedHeaders:   []string{"X-Request-Id", "Retry-After"},
		AllowCredentials: corsCfg.AllowCredentials,
		MaxAge:           corsCfg.MaxAge,
	}).Handler(h)
	h = chimw.Recoverer(h)
	h = s.withLogging(h)
	h = chimw.RealIP(h)
	h = chimw.RequestID(h)
	return h
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		s.rateLimiter.Stop()
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	timeout := s.shutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	err := s.httpServer.Shutdown(shutdownCtx)
	s.rateLimiter.Stop()
	if err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}

// Close stops background work without serving. Used by tests.
func (s *Server) Close() {
	s.rateLimiter.Stop()
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter { return r.ResponseWriter }

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		if id := chimw.GetReqID(r.Context()); id != "" {
			w.Header().Set(chimw.RequestIDHeader, id)
		}
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		level := slog.LevelInfo
		if rec.status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		s.logger.Log(r.Context(), level, "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
			"remote", r.RemoteAddr,
			"request_id", chimw.GetReqID(r.Context()),
		)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(s.extractClientID(r), r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, r, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// extractClientID returns the client IP. RealIP has already replaced
// RemoteAddr from the proxy headers.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, r *http.Request, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}
	if info.RetryAfter > 0 {
		seconds := int(info.RetryAfter.Round(time.Second).Seconds())
		response["retry_after"] = seconds
		w.Header().Set("Retry-After", strconv.Itoa(seconds))
	}

	s.logger.Warn("rate limit exceeded", "path", r.URL.Path, "client", s.extractClientID(r), "limit", info.Limit)
	s.jsonResponse(w, http.StatusTooManyRequests, response)
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("error encoding JSON response", "error", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// errResponse writes err with the status HTTPStatus assigns to it. Server
// errors are logged and their details hidden.
func (s *Server) errResponse(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		s.errorResponse(w, status, http.StatusText(status))
		return
	}
	s.errorResponse(w, status, err.Error())
}

// body returns the request body capped at the configured size.
func (s *Server) body(w http.ResponseWriter, r *http.Request) io.ReadCloser {
	return http.MaxBytesReader(w, r.Body, s.maxBodyBytes)
}

// decodeJSON reads a bounded request body into v.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(s.body(w, r))
	if err := dec.Decode(v); err != nil {
		return &ErrValidation{Field: "body", Message: err.Error()}
	}
	return nil
}

// parseQueryInt parses an integer query parameter with default and max values
func parseQueryInt(r *http.Request, key string, defaultValue, maxValue int) int {
	valStr := r.URL.Query().Get(key)
	if valStr == "" {
		return defaultValue
	}
	val, err := strconv.Atoi(valStr)
	if err != nil || val < 0 {
		return defaultValue
	}
	if maxValue > 0 && val > maxValue {
		return maxValue
	}
	return val
}

// isAdmin reports whether the request carries a valid admin token. Public
// routes use it to include drafts.
func (s *Server) isAdmin(r *http.Request) bool {
	_, err := middleware.Authenticate(s.jwtService.AsTokenValidator(), r)
	return err == nil
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{"status": "ok", "loading": s.cache.Loading()}
	if s.health != nil {
		if err := s.health.Ping(r.Context()); err != nil {
			resp["status"] = "degraded"
			resp["error"] = err.Error()
			s.jsonResponse(w, http.StatusServiceUnavailable, resp)
			return
		}
	}
	s.jsonResponse(w, http.StatusOK, resp)
}
