package http

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"finboard/internal/assistant"
	"finboard/internal/auth"
	"finboard/internal/backend"
	"finboard/internal/cache"
	applog "finboard/internal/log"
	"finboard/internal/middleware/ratelimit"
	"finboard/internal/middleware/security"
	"finboard/internal/middleware/trace"
	"finboard/internal/services"
)

// backendTimeout bounds every call into the data backend.
const backendTimeout = 7 * time.Second

// Deps are the collaborators the handlers call into. Ready and Caches are
// optional.
type Deps struct {
	Backend   backend.Backend
	Auth      *auth.Service
	Dashboard *services.DashboardService
	Assistant *assistant.Conversation
	Ready     func(ctx context.Context) error
	Caches    *cache.Manager
	Logger    *applog.Logger

	RateLimit      ratelimit.Config
	Headers        security.HeadersConfig
	TrustedProxies []string
}

type Server struct {
	http.Server
	deps Deps

	detector    *security.Detector
	rateLimiter *ratelimit.Limiter
	tracer      *trace.Middleware

	started  time.Time
	recorded atomic.Int64

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run
// http.Server.
func NewServer(addr string, deps Deps) *Server {
	if deps.Logger == nil {
		deps.Logger = applog.New(applog.DefaultConfig())
	}
	if deps.RateLimit.RequestsPerMinute == 0 {
		deps.RateLimit = ratelimit.DefaultConfig()
	}
	if deps.Headers == (security.HeadersConfig{}) {
		deps.Headers = security.DefaultHeadersConfig()
	}

	s := &Server{
		deps:        deps,
		detector:    security.NewDetector(),
		rateLimiter: ratelimit.NewLimiter(deps.RateLimit),
		started:     time.Now(),
	}
	for _, cidr := range deps.TrustedProxies {
		if err := s.detector.AddTrustedProxy(cidr); err != nil {
			deps.Logger.Warn("Ignoring trusted proxy", "cidr", cidr, "error", err)
		}
	}
	s.tracer = trace.NewMiddleware(s.detector.ExtractClientIP, deps.Logger)

	mux := http.NewServeMux()
	s.routes(mux)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           s.middleware(mux),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	if deps.Caches != nil {
		deps.Caches.StartCleanup(10 * time.Minute)
	}
	return s
}

func (s *Server) routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /metrics", s.handleMetrics)

	mux.HandleFunc("POST /api/auth/signup", s.handleSignup)
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	mux.HandleFunc("POST /api/auth/logout", s.handleLogout)
	mux.HandleFunc("GET /api/auth/me", s.handleMe)

	mux.HandleFunc("GET /api/transactions", s.handleListTransactions)
	mux.HandleFunc("POST /api/transactions", s.handleCreateTransaction)
	mux.HandleFunc("DELETE /api/transactions/{id}", s.handleDeleteTransaction)

	mux.HandleFunc("GET /api/analytics/categories", s.handleCategoryAnalysis)
	mux.HandleFunc("GET /api/analytics/tips", s.handleTips)
	mux.HandleFunc("GET /api/analytics/prediction", s.handlePrediction)
	mux.HandleFunc("GET /api/analytics/overview", s.handleOverview)
	mux.HandleFunc("GET /api/alerts", s.handleAlerts)
	mux.HandleFunc("GET /api/eco", s.handleEco)
	mux.HandleFunc("GET /api/dashboard", s.handleDashboard)

	mux.HandleFunc("GET /api/categories", s.handleListCategories)
	mux.HandleFunc("POST /api/categories", s.handleCreateCategory)
	mux.HandleFunc("PUT /api/categories/{id}", s.handleUpdateCategory)
	mux.HandleFunc("DELETE /api/categories/{id}", s.handleDeleteCategory)

	mux.HandleFunc("GET /api/goals", s.handleListGoals)
	mux.HandleFunc("POST /api/goals/{id}/join", s.handleJoinGoal)

	mux.HandleFunc("GET /api/assistant/messages", s.handleListMessages)
	mux.HandleFunc("POST /api/assistant/messages", s.handleSendMessage)
	mux.HandleFunc("DELETE /api/assistant/messages", s.handleResetMessages)
}

// middleware wraps the mux, outermost first: request id and access log,
// security headers, suspicious request filter, rate limit.
func (s *Server) middleware(next http.Handler) http.Handler {
	onLimit := func(w http.ResponseWriter, r *http.Request) {
		ErrorResponse(http.StatusTooManyRequests, "rate limit exceeded, please try again later").Write(w)
	}
	h := s.rateLimiter.Middleware(s.detector.ExtractClientIP, onLimit)(next)
	h = s.detector.Middleware(s.detector.ExtractClientIP)(h)
	h = security.NewHeadersMiddleware(s.deps.Headers).Middleware(h)
	return s.tracer.Middleware(h)
}

// Shutdown gracefully shuts down the server and its background goroutines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.Stop()
		if s.deps.Caches != nil {
			s.deps.Caches.Stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// ListenAndServe runs the server until Shutdown. http.ErrServerClosed is
// not an error.
func (s *Server) ListenAndServe() error {
	s.deps.Logger.Info("HTTP server listening", "addr", s.Addr)
	if err := s.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().Body(map[string]string{"status": "ok"}).Write(w)
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.deps.Ready != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.deps.Ready(ctx); err != nil {
			applog.FromContext(r.Context()).WarnContext(r.Context(), "Readiness check failed", "error", err)
			ErrorResponse(http.StatusServiceUnavailable, "not ready").Write(w)
			return
		}
	}
	NewJSONResponse().Body(map[string]string{"status": "ready"}).Write(w)
}

func (s *Server) backendContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), backendTimeout)
}
