package httpapi

import (
	"net/http"
	"time"

	"reportify_notifier/internal/app"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	corslib "github.com/rs/cors"
	"github.com/sirupsen/logrus"
)

// RouterConfig holds the HTTP settings of the admin API.
type RouterConfig struct {
	AdminToken       string
	CORSAllowOrigins []string
	Location         *time.Location
}

// NewRouter creates the chi router of the admin API.
func NewRouter(notifier app.NotificationService, db Pinger, cfg RouterConfig, log *logrus.Entry) *chi.Mux {
	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}
	h := &handler{
		notifier: notifier,
		db:       db,
		validate: newRequestValidator(),
		location: loc,
		logger:   log,
	}

	r := chi.NewRouter()

	// --- Middleware stack ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(log))
	r.Use(middleware.Recoverer)

	c := corslib.New(corslib.Options{
		AllowedOrigins:   cfg.CORSAllowOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", AdminTokenHeader},
		AllowCredentials: false,
	})
	r.Use(c.Handler)

	// --- Routes ---
	r.Get("/health", h.health)

	r.Route("/reportify/notifications", func(r chi.Router) {
		r.Use(requireAdminToken(cfg.AdminToken))
		r.Get("/session-summary", h.sessionSummary)
		r.Post("/send-report", h.sendReport)
		r.Post("/sweep", h.sweep)
	})

	return r
}

// NewServer wraps the router in an http.Server with conservative timeouts.
// Sweeps can take minutes, so the write timeout is generous.
func NewServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      10 * time.Minute,
		IdleTimeout:       120 * time.Second,
	}
}
