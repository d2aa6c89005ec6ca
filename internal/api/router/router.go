// Package router wires the HTTP API: public booking endpoints, the
// authenticated patient area, and the admin surface.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/clinicware/platform/internal/appointments"
	"github.com/clinicware/platform/internal/auth"
	"github.com/clinicware/platform/internal/clinics"
	httpmiddleware "github.com/clinicware/platform/internal/http/middleware"
	"github.com/clinicware/platform/internal/patients"
	"github.com/clinicware/platform/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger              *logging.Logger
	AuthHandler         *auth.Handler
	PatientsHandler     *patients.Handler
	AppointmentsHandler *appointments.Handler
	ClinicsHandler      *clinics.Handler

	Tokens   *auth.TokenIssuer
	UserRepo auth.Repository

	MetricsHandler     http.Handler
	CORSAllowedOrigins []string

	// Requests per second and burst for the sign-in endpoints.
	SignInRateLimit float64
	SignInBurst     int

	Version string
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	requireUser := httpmiddleware.RequireUser(cfg.Tokens, cfg.UserRepo)
	requireAdmin := httpmiddleware.RequireAdmin(cfg.Tokens, cfg.UserRepo)
	optionalUser := httpmiddleware.OptionalUser(cfg.Tokens, cfg.UserRepo)

	r.Get("/healthz", healthz)
	r.Get("/version", versionHandler(cfg.Version))
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Route("/api/v1", func(api chi.Router) {
		// Public endpoints: the booking form and sign-in flows.
		api.Group(func(public chi.Router) {
			public.Get("/clinics", cfg.ClinicsHandler.List)
			public.Get("/clinics/{id}/slots", cfg.ClinicsHandler.Slots)

			public.With(optionalUser).Post("/appointments", cfg.AppointmentsHandler.Create)

			public.Group(func(signin chi.Router) {
				if cfg.SignInRateLimit > 0 {
					signin.Use(httpmiddleware.RateLimit(cfg.SignInRateLimit, cfg.SignInBurst))
				}
				signin.Post("/auth/signup", cfg.AuthHandler.Signup)
				signin.Post("/auth/signin", cfg.AuthHandler.Signin)
				signin.Post("/auth/google-signin", cfg.AuthHandler.GoogleSignin)
			})
		})

		// Signed-in patients.
		api.Group(func(user chi.Router) {
			user.Use(requireUser)
			user.Get("/auth/me", cfg.AuthHandler.Me)
			user.Get("/my-appointments", cfg.AppointmentsHandler.Mine)
		})

		// Admin surface.
		api.Group(func(admin chi.Router) {
			admin.Use(requireAdmin)

			admin.Route("/patients", func(p chi.Router) {
				p.Post("/", cfg.PatientsHandler.Create)
				p.Get("/", cfg.PatientsHandler.List)
				p.Get("/search", cfg.PatientsHandler.Search)
				p.Get("/{id}", cfg.PatientsHandler.Get)
				p.Put("/{id}", cfg.PatientsHandler.Update)
				p.Delete("/{id}", cfg.PatientsHandler.Delete)
			})

			admin.Route("/appointments", func(a chi.Router) {
				a.Get("/", cfg.AppointmentsHandler.List)
				a.Get("/{id}", cfg.AppointmentsHandler.Get)
				a.Put("/{id}/status", cfg.AppointmentsHandler.UpdateStatus)
				a.Get("/{id}/payment-proof", cfg.AppointmentsHandler.PaymentProof)
			})

			admin.Put("/clinics/{id}", cfg.ClinicsHandler.Update)
		})
	})

	return r
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

func versionHandler(version string) http.HandlerFunc {
	if version == "" {
		version = "dev"
	}
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"version":"` + version + `"}`))
	}
}
