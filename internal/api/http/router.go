package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/mind-engage/interview-coach/internal/auth"
	authmw "github.com/mind-engage/interview-coach/internal/auth/middleware"
	"github.com/mind-engage/interview-coach/internal/interview"
	"github.com/mind-engage/interview-coach/internal/logging"
	"github.com/mind-engage/interview-coach/internal/rbac"
)

type RouterConfig struct {
	Service *interview.Service
	Log     *zap.Logger

	// Auth nil disables authentication; every caller then acts as admin.
	Auth          *authmw.AuthService
	Reviewer      authmw.Credentials
	SecureCookies bool

	// Ready backs /readyz, typically a database ping.
	Ready func(ctx context.Context) error
}

func NewRouter(cfg RouterConfig) http.Handler {
	log := cfg.Log
	if log == nil {
		log = zap.NewNop()
	}
	svc := cfg.Service

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, logging.Middleware(log), middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if cfg.Ready != nil {
			if err := cfg.Ready(r.Context()); err != nil {
				log.Warn("not ready", zap.Error(err))
				http.Error(w, "not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	if cfg.Auth != nil {
		r.Post("/auth/guest", auth.GuestLoginHandler(cfg.Auth, cfg.SecureCookies))
		r.Post("/auth/login", authmw.LoginHandler(cfg.Auth, cfg.Reviewer))
	}

	r.Route("/api/interviews", func(ar chi.Router) {
		if cfg.Auth != nil {
			ar.Use(authmw.JWTMiddleware(cfg.Auth))
		} else {
			ar.Use(authmw.AttachStaticRole(rbac.RoleAdmin))
		}

		ar.With(rbac.Require(rbac.PermStart)).Post("/", StartInterviewHandler(svc, log))
		ar.With(rbac.Require(rbac.PermStart)).Post("/reset", StartInterviewHandler(svc, log))
		ar.With(rbac.RequireAny(rbac.PermHistoryOwn, rbac.PermHistoryAll)).Get("/", ListInterviewsHandler(svc, log))

		ar.With(rbac.RequireAny(rbac.PermViewOwn, rbac.PermViewAll)).Get("/{id}", GetInterviewHandler(svc, log))
		ar.With(rbac.Require(rbac.PermRespond)).Post("/{id}/responses", SubmitResponseHandler(svc, log))
		ar.With(rbac.Require(rbac.PermResume)).Post("/{id}/resume", ResumeInterviewHandler(svc, log))
		ar.With(rbac.Require(rbac.PermExport)).Get("/{id}/export", ExportInterviewHandler(svc, log))
		ar.With(rbac.Require(rbac.PermViewAll)).Get("/{id}/events", ListEventsHandler(svc, log))
	})

	return r
}
