package http

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// jsonBodyLimit bounds signup, login and analyze bodies.
const jsonBodyLimit = 64 << 10

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(
		h.withTraceID,
		h.withLogging,
		middleware.Recoverer,
		cors.Handler(cors.Options{
			AllowedOrigins:   h.cfg.AllowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders:   []string{"Authorization", "Content-Type", conversationIDHeader, traceIDHeader},
			ExposedHeaders:   []string{"Authorization", traceIDHeader},
			AllowCredentials: true,
			MaxAge:           300,
		}),
	)
	if h.cfg.RequestTimeout > 0 {
		router.Use(middleware.Timeout(h.cfg.RequestTimeout))
	}

	router.Get("/", h.liveness)
	router.Get("/api/version", h.getServerVersion)

	// routes without authorization
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequestSize(jsonBodyLimit))
		r.Post("/api/auth/signup", h.signup)
		r.Post("/api/auth/login", h.login)
	})

	// routes with authorization
	router.Route("/api/analysis", func(r chi.Router) {
		r.Use(h.auth, h.withSessionKey)

		r.Post("/upload", h.upload)
		r.With(middleware.RequestSize(jsonBodyLimit)).Post("/analyze", h.analyze)
		r.Post("/clear-session", h.clearSession)
		r.Get("/session", h.getSession)
	})

	if h.blobDir != "" {
		router.Handle("/blobs/*", http.StripPrefix("/blobs/", noDirListing(http.FileServer(http.Dir(h.blobDir)))))
	}

	router.NotFound(notFound)
	router.MethodNotAllowed(methodNotAllowed)

	return router
}

func noDirListing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			notFound(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}
