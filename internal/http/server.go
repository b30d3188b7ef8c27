// Package http serves the budgeter JSON API and landing page.
package http

import (
	"context"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"budgeter/internal/advice"
	"budgeter/internal/amqp"
	"budgeter/internal/cache"
	"budgeter/internal/core"
	"budgeter/internal/history"
	"budgeter/internal/log"
	"budgeter/internal/middleware/ratelimit"
	"budgeter/internal/middleware/security"
	"budgeter/internal/middleware/trace"
	"budgeter/internal/settings"
	appweb "budgeter/web"
)

// BudgetComputer computes budgets and exposes the history log.
type BudgetComputer interface {
	Compute(ctx context.Context, req core.BudgetRequest) (core.BudgetResult, error)
	History() []history.Entry
	HistorySize() int
}

// ChatAdvisor answers /ai_chat messages.
type ChatAdvisor interface {
	Reply(ctx context.Context, message string, turns []advice.Turn) (advice.Reply, error)
	Enabled() bool
}

// Deps are the collaborators a Server needs. Budget, Advisor and Settings are
// required; the rest only feed /readyz.
type Deps struct {
	Budget   BudgetComputer
	Advisor  ChatAdvisor
	Settings settings.Store

	Logger             *log.Logger
	SettingsBackend    string
	RateLimitPerMinute int
	AdviceCache        interface{ Stats() cache.Stats }
	Events             interface{ Stats() amqp.Stats }
	// Cleanup, when set, is stopped on Shutdown.
	Cleanup *cache.Manager
}

type Server struct {
	http.Server

	deps      Deps
	logger    *log.Logger
	templates *template.Template
	limiter   *ratelimit.Limiter
	tracer    *trace.Middleware
	detector  *security.Detector
	started   time.Time

	shutdownOnce sync.Once
}

// NewServer wires routes and middleware and returns a server ready for
// ListenAndServe.
func NewServer(addr string, deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	logger = logger.WithComponent(log.ComponentHTTP)

	detector := security.NewDetector()
	s := &Server{
		Server: http.Server{
			Addr:              addr,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			// /ai_chat may wait on the AI provider
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  120 * time.Second,
		},
		deps:     deps,
		logger:   logger,
		detector: detector,
		limiter:  ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: deps.RateLimitPerMinute}),
		tracer:   trace.NewMiddleware(logger, detector.ExtractClientIP),
		started:  time.Now(),
	}

	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		logger.Warn("Failed parsing templates", log.FieldError, err)
	}
	s.templates = t

	s.Handler = s.routes()
	return s
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	limited := s.limiter.Middleware(s.detector.ExtractClientIP, func(w http.ResponseWriter, r *http.Request) {
		log.FromContext(r.Context()).WithComponent(log.ComponentRateLimit).WarnContext(r.Context(), "Rate limit exceeded",
			log.FieldClientIP, s.detector.ExtractClientIP(r), log.FieldPath, r.URL.Path)
		writeError(w, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.")
	})
	api := func(component string, h http.HandlerFunc) http.Handler {
		return log.ComponentMiddleware(component)(security.NoStore(h))
	}

	mux.Handle("GET /settings", api(log.ComponentSettings, s.handleGetSettings))
	mux.Handle("POST /settings", limited(api(log.ComponentSettings, s.handlePostSettings)))
	mux.Handle("POST /budget", limited(api(log.ComponentBudget, s.handleBudget)))
	mux.Handle("GET /history", api(log.ComponentBudget, s.handleHistory))
	mux.Handle("POST /ai_chat", limited(api(log.ComponentAdvice, s.handleChat)))

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("GET /static/", security.StaticAssetMiddleware(3600)(static))
	} else {
		s.logger.Warn("Failed to mount embedded static FS", log.FieldError, err)
	}
	mux.HandleFunc("GET /{$}", s.handleIndex)

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	return headers.Middleware(s.tracer.Middleware(s.inspect(mux)))
}

// inspect logs requests that look like scans; they are still served.
func (s *Server) inspect(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if reason, ok := s.detector.Inspect(r); ok {
			log.FromContext(r.Context()).WithComponent(log.ComponentSecurity).WarnContext(r.Context(), "Suspicious request",
				"reason", reason,
				log.FieldClientIP, s.detector.ExtractClientIP(r),
				log.FieldPath, r.URL.Path)
		}
		next.ServeHTTP(w, r)
	})
}

// Shutdown stops background goroutines and then the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		if s.deps.Cleanup != nil {
			s.deps.Cleanup.Stop()
		}
		err = s.Server.Shutdown(ctx)
	})
	return err
}
