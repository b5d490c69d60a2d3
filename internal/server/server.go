package server

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/vishnuvijayan0005/jobtracker-web/internal/actions"
	"github.com/vishnuvijayan0005/jobtracker-web/internal/api"
	"github.com/vishnuvijayan0005/jobtracker-web/internal/config"
	"github.com/vishnuvijayan0005/jobtracker-web/internal/listing"
	"github.com/vishnuvijayan0005/jobtracker-web/internal/server/flash"
	"github.com/vishnuvijayan0005/jobtracker-web/internal/server/middleware"
	"github.com/vishnuvijayan0005/jobtracker-web/internal/server/ratelimit"
	"github.com/vishnuvijayan0005/jobtracker-web/internal/session"
	"github.com/vishnuvijayan0005/jobtracker-web/internal/store"
	"github.com/vishnuvijayan0005/jobtracker-web/internal/types"
)

var logger = slog.New(slog.NewTextHandler(os.Stderr, nil))

// SetLogger installs a logger for the server package and its flash cookies.
// Passing nil is a no-op.
func SetLogger(l *slog.Logger) {
	if l != nil {
		logger = l
		flash.SetLogger(l)
	}
}

// Server represents the HTTP server
type Server struct {
	cfg         *config.Config
	client      *api.Client
	mode        listing.Mode
	rateLimiter *ratelimit.Limiter
	flash       *flash.Service
	templates   map[string]*template.Template
	handler     http.Handler
	httpServer  *http.Server
}

// New creates a page server. client must not keep cookies of its own: every
// backend call carries the cookies of the browser request it serves. A
// client built with api.DiscardJar satisfies that.
func New(cfg *config.Config, client *api.Client) (*Server, error) {
	if cfg == nil {
		def := config.Default()
		cfg = &def
	}
	flashConfig, err := config.NewFlashConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create flash config: %w", err)
	}
	templates, err := loadTemplates()
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:         cfg,
		client:      client,
		mode:        listing.ParseMode(cfg.Pagination),
		rateLimiter: ratelimit.NewLimiter(ratelimit.FromConfig(cfg.RateLimit)),
		flash:       flash.NewService(flashConfig),
		templates:   templates,
	}

	mux := http.NewServeMux()
	s.routes(mux)

	s.handler = middleware.Chain(mux,
		middleware.Recovery(logger),
		middleware.RequestID,
		middleware.Logging(logger),
		s.withRateLimit,
		s.withBackendCookies,
	)

	s.httpServer = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s, nil
}

func (s *Server) routes(mux *http.ServeMux) {
	anyone := s.requireRole()
	user := s.requireRole(types.RoleUser)
	company := s.requireRole(types.RoleCompanyAdmin)
	admin := s.requireRole(types.RoleAdmin)

	mux.HandleFunc("GET /{$}", s.handleHome)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /access-denied", s.handleAccessDenied)
	mux.HandleFunc("GET /login", s.handleLoginPage)
	mux.HandleFunc("POST /login", s.handleLogin)
	mux.HandleFunc("POST /logout", s.handleLogout)
	mux.HandleFunc("GET /register", s.handleRegisterPage)
	mux.HandleFunc("POST /register", s.handleRegister)
	mux.HandleFunc("GET /register-company", s.handleRegisterCompanyPage)
	mux.HandleFunc("POST /register-company", s.handleRegisterCompany)
	mux.HandleFunc("GET /forgot-password", s.handleForgotPasswordPage)
	mux.HandleFunc("POST /forgot-password", s.handleForgotPassword)
	mux.HandleFunc("GET /reset-password/{id}", s.handleResetPasswordPage)
	mux.HandleFunc("POST /reset-password/{id}", s.handleResetPassword)
	mux.Handle("GET /me", anyone(s.handleMe))

	// Job seekers
	mux.Handle("GET /jobs", user(s.handleJobs))
	mux.Handle("GET /jobs/{id}", user(s.handleJob))
	mux.Handle("POST /jobs/{id}/apply", user(s.handleApply))
	mux.Handle("GET /applications", user(s.handleApplications))
	mux.Handle("POST /applications/{id}/withdraw", user(s.handleWithdraw))
	mux.Handle("GET /companies", user(s.handleCompanies))
	mux.Handle("GET /profile", user(s.handleProfilePage))
	mux.Handle("POST /profile", user(s.handleProfile))

	// Company admins
	mux.Handle("GET /company/jobs", company(s.handleCompanyJobs))
	mux.Handle("GET /company/jobs/new", company(s.handleNewJobPage))
	mux.Handle("POST /company/jobs/new", company(s.handleNewJob))
	mux.Handle("POST /company/jobs/{id}/status", company(s.handleJobStatus))
	mux.Handle("GET /company/jobs/{id}/applications", company(s.handleJobApplications))
	mux.Handle("POST /company/applications/{id}/interview", company(s.handleScheduleInterview))
	mux.Handle("POST /company/applications/{id}/result", company(s.handleInterviewResult))

	// Site admins
	mux.Handle("GET /admin/companies", admin(s.handleAdminCompanies))
	mux.Handle("POST /admin/companies/{id}/status", admin(s.handleCompanyStatus))
	mux.Handle("GET /admin/users", admin(s.handleAdminUsers))
	mux.Handle("POST /admin/users/{id}/status", admin(s.handleUserStatus))
	mux.Handle("GET /admin/users/{id}/profile", admin(s.handleAdminUserProfile))
	mux.Handle("GET /admin/jobs", admin(s.handleAdminJobs))
	mux.Handle("POST /admin/jobs/{id}/status", admin(s.handleAdminJobStatus))
}

// Handler returns the server's full middleware chain.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", slog.String("addr", s.httpServer.Addr), slog.String("backend", s.client.BaseURL()))
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

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	defer s.rateLimiter.Stop()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	logger.Info("server stopped")
	return nil
}

// Close releases background resources without serving.
func (s *Server) Close() {
	s.rateLimiter.Stop()
}

// requireRole wraps handlers in the shared role gate. No roles admits any
// signed-in user.
func (s *Server) requireRole(roles ...types.Role) func(http.HandlerFunc) http.Handler {
	gate := session.NewGate(s.cfg.AccessDeniedPath, roles...).Middleware(s.sessionFor)
	return func(h http.HandlerFunc) http.Handler {
		return gate(h)
	}
}

// sessionFor builds an identity store bound to the request's cookies.
func (s *Server) sessionFor(_ *http.Request) *session.Store {
	return session.NewStore(s.client)
}

// stores builds the entity caches for one request.
func (s *Server) stores() *store.Stores {
	return store.New(s.client, nil)
}

// dispatch runs a against the backend; notifications go to n.
func (s *Server) dispatch(ctx context.Context, a actions.Action, n actions.Notifier) error {
	return actions.NewDispatcher(s.client, s.stores(), n).Run(ctx, a)
}

// dispatchAndRedirect runs a, leaves its outcome in the flash and sends the
// browser to target, which re-fetches the affected list.
func (s *Server) dispatchAndRedirect(w http.ResponseWriter, r *http.Request, a actions.Action, target string) {
	if err := s.dispatch(r.Context(), a, s.flash.Notifier(w)); err != nil {
		logger.Info("action did not complete", slog.String("action", a.Name), slog.Any("err", err))
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// flashError redirects to target with an error notification.
func (s *Server) flashError(w http.ResponseWriter, r *http.Request, err error, target string) {
	s.flash.Set(w, actions.Notification{Level: actions.LevelError, Message: userMessage(err)})
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// withBackendCookies forwards the browser's cookies, less the flash cookie,
// on every backend call made while serving the request.
func (s *Server) withBackendCookies(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var cookies []*http.Cookie
		for _, c := range r.Cookies() {
			if c.Name != flash.CookieName {
				cookies = append(cookies, c)
			}
		}
		next.ServeHTTP(w, r.WithContext(api.WithCookies(r.Context(), cookies)))
	})
}

// relayCookies hands backend session cookies to the browser, scoped to
// this server.
func relayCookies(w http.ResponseWriter, cookies []*http.Cookie) {
	for _, c := range cookies {
		http.SetCookie(w, &http.Cookie{
			Name:     c.Name,
			Value:    c.Value,
			Path:     "/",
			Expires:  c.Expires,
			MaxAge:   c.MaxAge,
			HttpOnly: true,
			Secure:   c.Secure,
			SameSite: http.SameSiteLaxMode,
		})
	}
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)
		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, r, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// extractClientID uses the IP address from RemoteAddr.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on limited routes.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if !info.Limited {
		return
	}
	w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
	w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
	w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
}

// rateLimitResponse renders a 429 page.
func (s *Server) rateLimitResponse(w http.ResponseWriter, r *http.Request, info ratelimit.Info) {
	seconds := int(info.RetryAfter.Seconds()) + 1
	w.Header().Set("Retry-After", fmt.Sprintf("%d", seconds))
	logger.Warn("rate limit exceeded",
		slog.String("path", r.URL.Path),
		slog.String("client", s.extractClientID(r)),
		slog.Int("limit", info.Limit))
	s.render(w, r, http.StatusTooManyRequests, "error", page{
		Title: "Too many attempts",
		Data:  fmt.Sprintf("Too many attempts. Please wait %d seconds and try again.", seconds),
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// landingPath is where a user goes after signing in.
func landingPath(u *types.SessionUser) string {
	if u == nil {
		return "/login"
	}
	switch u.Role {
	case types.RoleAdmin:
		return "/admin/companies?view=pending"
	case types.RoleCompanyAdmin:
		return "/company/jobs"
	default:
		if !u.ProfileComplete {
			return "/profile"
		}
		return "/jobs"
	}
}
