package handler

import (
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/zhouzirui/contact-site/backend/internal/config"
	"github.com/zhouzirui/contact-site/backend/internal/handler/inquiry"
	"github.com/zhouzirui/contact-site/backend/internal/handler/static"
	"github.com/zhouzirui/contact-site/backend/internal/metrics"
	middlewarePkg "github.com/zhouzirui/contact-site/backend/internal/middleware"
)

// NewRouter wires HTTP routes to core services. Every request that no route
// claims, whatever its method, is answered by the static site.
func NewRouter(cfg *config.Config, inquiries inquiry.Submitter, assets fs.FS, log *logrus.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{Logger: log, NoColor: true}))
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)
	r.Use(middlewarePkg.SecurityHeaders(cfg.Security.CSPEnabled))
	r.Use(middlewarePkg.CORS(cfg.Security.AllowedOrigins))

	// The fallback must be set before sub-routers are mounted so they
	// inherit it.
	site := static.New(assets, cfg.Static.Index, log)
	r.NotFound(site.ServeHTTP)
	r.MethodNotAllowed(site.ServeHTTP)

	inquiryHandler := inquiry.New(inquiries, log)

	r.Route("/api", func(api chi.Router) {
		inquiryHandler.RegisterRoutes(api)
	})

	if cfg.Metrics.Enabled {
		r.Get(cfg.Metrics.Path, metrics.Handler().ServeHTTP)
	}

	return r
}
