package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"cardpark/internal/health"
	"cardpark/internal/http/handler"
	"cardpark/internal/http/middleware"
	"cardpark/internal/http/response"
)

type Dependencies struct {
	Handler           *handler.Handler
	DeviceTokens      *middleware.DeviceTokenManager
	CORSOrigins       []string
	APIRateLimitRPM   int
	ClaimRateLimitRPM int
	Readiness         *health.ProbeRunner
	EnableOTelHTTP    bool
}

func NewRouter(dep Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.StructuredRequestLogger)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.CORS(dep.CORSOrigins))
	r.Use(middleware.BodyLimit(1 << 20))
	r.Use(middleware.NewRateLimiter(dep.APIRateLimitRPM, time.Minute, "api").Middleware())
	r.Use(middleware.DeviceSession(dep.DeviceTokens))

	claimLimiter := middleware.NewRateLimiter(dep.ClaimRateLimitRPM, time.Minute, "claim").Middleware()

	r.Get("/health/live", func(w http.ResponseWriter, r *http.Request) {
		response.JSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		if dep.Readiness == nil {
			response.JSON(w, r, http.StatusOK, map[string]any{"status": "ready", "checks": []any{}})
			return
		}
		ready, results := dep.Readiness.Ready(r.Context())
		if ready {
			response.JSON(w, r, http.StatusOK, map[string]any{"status": "ready", "checks": results})
			return
		}
		response.Error(w, r, http.StatusServiceUnavailable, "DEPENDENCY_UNREADY", "dependencies are not ready", map[string]any{"checks": results})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/codes/{code}", dep.Handler.Resolve)
		r.With(claimLimiter).Post("/codes/{code}/claim", dep.Handler.Claim)

		r.Get("/session", dep.Handler.Session)
		r.Delete("/session", dep.Handler.SignOut)
		r.Post("/session/favorites/{code}", dep.Handler.ToggleFavorite)
	})

	// HTML view surface: the root connect form plus one page per code.
	// Anything that is not a code-shaped segment falls back to the
	// root.
	r.Get("/", dep.Handler.ViewRoot)
	r.Get("/connect", dep.Handler.ViewConnect)
	r.Get("/{code}", dep.Handler.ViewCode)
	r.With(claimLimiter).Post("/{code}", dep.Handler.ViewClaim)
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
	})

	var h http.Handler = r
	if dep.EnableOTelHTTP {
		h = otelhttp.NewHandler(r, "http.server")
	}
	return h
}
