package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/dcrisk/pkg/usecase"
	"github.com/secmon-lab/dcrisk/pkg/utils/errutil"
	"github.com/secmon-lab/dcrisk/pkg/utils/logging"
	"github.com/secmon-lab/dcrisk/pkg/utils/safe"
)

type Server struct {
	router       *chi.Mux
	uc           *usecase.UseCases
	secureCookie bool
}

type Options func(*Server)

// WithSecureCookie marks the session cookie Secure. Enable it behind HTTPS.
func WithSecureCookie(secure bool) Options {
	return func(s *Server) {
		s.secureCookie = secure
	}
}

func New(uc *usecase.UseCases, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router: r,
		uc:     uc,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", healthHandler)

	r.Route("/api", func(r chi.Router) {
		r.Use(sessionMiddleware(s.secureCookie))

		r.Get("/summary", summaryHandler(uc.Catalog))
		r.Get("/matrix", matrixHandler(uc.Catalog))
		r.Get("/interconnections", interconnectionsHandler(uc.Catalog))
		r.Get("/categories/{id}", categoryHandler)
		r.Get("/monitoring-tools", monitoringToolsHandler(uc.Catalog))

		r.Route("/risks", func(r chi.Router) {
			r.Get("/", listRisksHandler(uc.Catalog))
			r.Get("/{id}", getRiskHandler(uc.Catalog))
			r.Get("/{id}/dependencies", relatedRisksHandler(uc.Catalog.DependenciesOf))
			r.Get("/{id}/dependents", relatedRisksHandler(uc.Catalog.DependentsOf))
			r.Get("/{id}/interconnections", relatedRisksHandler(uc.Catalog.InterconnectionsOf))
		})

		r.Route("/best-practices", func(r chi.Router) {
			r.Get("/", listPracticesHandler(uc.Practice))
			r.Post("/{id}/toggle", togglePracticeHandler(uc.Practice))
		})
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		logger := logging.Default().With("request_id", middleware.GetReqID(r.Context()))
		r = r.WithContext(logging.With(r.Context(), logger))

		defer func() {
			logger.Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to marshal response"), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	safe.Write(r.Context(), w, data)
}
