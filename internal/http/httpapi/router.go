package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"mediagen/internal/http/handlers"
	"mediagen/internal/middleware"
)

// Options configures router construction.
type Options struct {
	App             *handlers.App
	Logger          zerolog.Logger
	DefaultLocale   string
	CountryLookup   middleware.CountryLookup
	RateLimitPerMin int
	StaticDir       string
}

// NewRouter wires the full route tree with the service middleware stack.
func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(opts.Logger),
		middleware.Locale(opts.DefaultLocale, opts.CountryLookup),
	)
	if opts.RateLimitPerMin > 0 {
		r.Use(middleware.RateLimit(opts.RateLimitPerMin, time.Minute))
	}

	app := opts.App

	r.Get("/v1/healthz", app.Health)

	r.Route("/v1/audio", func(r chi.Router) {
		r.Post("/generate", app.AudioGenerate)
		r.Post("/generate-language", app.AudioGenerateLanguage)
		r.Get("/voices", app.AudioVoices)
	})

	r.Route("/v1/video", func(r chi.Router) {
		r.Post("/generate", app.VideosGenerate)
		r.Get("/status/{task_id}", app.VideoStatus)
		r.Get("/jobs/{job_id}", app.VideoJob)
	})

	r.Post("/v1/graphics/generate", app.GraphicsGenerate)

	if opts.StaticDir != "" {
		fs := http.StripPrefix("/static/", http.FileServer(http.Dir(opts.StaticDir)))
		r.Get("/static/*", fs.ServeHTTP)
	}

	return r
}
