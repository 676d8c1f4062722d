package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	mw "github.com/torchan-dev/torchan/internal/middleware"
	"github.com/torchan-dev/torchan/internal/middleware/metrics"
	rl "github.com/torchan-dev/torchan/internal/middleware/ratelimiter"
	"github.com/torchan-dev/torchan/internal/setup"
	"github.com/torchan-dev/torchan/internal/utils"
)

// New configures the chi router with all routes.
// IMPORTANT! ratelimiters set with .Use limit requests for all endpoints
// combined in that subrouter.
func New(deps *setup.Dependencies) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(metrics.Middleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:8081"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	}))

	h := deps.Handler

	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Get("/boards", h.GetBoards)
		r.Get("/uploads/{file}", h.ServeUpload)

		// Moderator session endpoints, brute-force limited by IP.
		r.Group(func(r chi.Router) {
			r.Use(mw.RateLimit(rl.OnceInSecond(), utils.GetIP))
			r.Post("/mod/login", h.Login)
		})
		r.Post("/mod/logout", h.Logout)

		// Destructive endpoints pass the moderation gateway; the session
		// token is only extracted here, authorization happens in the service.
		r.Group(func(r chi.Router) {
			r.Use(mw.ExtractSession)
			r.Delete("/mod/{board}/{thread}", h.DeleteThread)
			r.Delete("/mod/{board}/{thread}/{reply}", h.DeleteReply)
		})

		// Reads: cheap per-IP bucket on top of nothing else.
		r.Group(func(r chi.Router) {
			r.Use(mw.RateLimit(rl.Rps10(), utils.GetIP))
			r.Get("/{board}", h.GetBoard)
			r.Get("/{board}/{thread}", h.GetThread)
		})

		// Writes: token bucket in front of the persistent flood guard.
		r.Group(func(r chi.Router) {
			r.Use(mw.RateLimit(rl.New(1, 2, 1*time.Hour), utils.GetIP))
			r.Post("/{board}", h.CreateThread)
			r.Post("/{board}/{thread}", h.CreateReply)
		})
	})

	// Avoid 404s for CORS preflight requests
	r.MethodFunc(http.MethodOptions, "/*", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	return r
}
