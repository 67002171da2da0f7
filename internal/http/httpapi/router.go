package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"videostudio/internal/http/handlers"
	"videostudio/internal/middleware"
)

type Options struct {
	Logger          zerolog.Logger
	AllowedOrigins  []string
	RateLimitPerMin int
	CountryLookup   middleware.CountryLookup
	SessionTTL      time.Duration
	SecureCookies   bool

	// TrustProxyHeaders rewrites RemoteAddr from X-Real-IP/X-Forwarded-For.
	// Enable only behind a proxy that overwrites those headers.
	TrustProxyHeaders bool
}

func NewRouter(app *handlers.App, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	if opts.TrustProxyHeaders {
		r.Use(chimw.RealIP)
	}
	r.Use(
		middleware.Country(opts.CountryLookup),
		middleware.Logger(opts.Logger),
		chimw.Recoverer,
		middleware.CORS(opts.AllowedOrigins),
	)

	// Health
	r.Get("/v1/healthz", app.Health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/options", app.Options)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Session(opts.SessionTTL, opts.SecureCookies))

			r.With(middleware.RateLimit(opts.RateLimitPerMin, time.Minute)).
				Post("/generate-video", app.GenerateVideo)

			r.Route("/history", func(r chi.Router) {
				r.Get("/", app.ListHistory)
				r.Delete("/", app.ClearHistory)
				r.Get("/{id}", app.GetHistory)
			})
		})
	})

	return r
}
