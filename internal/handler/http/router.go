package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/httprate"
	"github.com/go-chi/jwtauth/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type RouterOptions struct {
	Logger         *slog.Logger
	AllowedOrigins []string
	// PunchRateLimit is the number of punches accepted per client IP per minute.
	PunchRateLimit int
	// Gatherer backs GET /metrics; nil disables the endpoint.
	Gatherer prometheus.Gatherer
}

type Handlers struct {
	Auth        AuthHandler
	Attendance  AttendanceHandler
	Employee    EmployeeHandler
	ShiftWindow ShiftWindowHandler
	Report      ReportHandler
}

func NewRouter(JWTService jwt.Service, opts RouterOptions, h Handlers) *chi.Mux {
	r := chi.NewRouter()
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(chiMiddleware.RealIP)
	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	if opts.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}

	punchLimit := opts.PunchRateLimit
	if punchLimit <= 0 {
		punchLimit = 30
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/public/attendance", func(r chi.Router) {
			r.Use(httprate.Limit(punchLimit, time.Minute,
				httprate.WithKeyFuncs(httprate.KeyByIP),
				httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
					response.TooManyRequests(w, "Too many punch attempts, try again in a minute")
				}),
			))
			r.Post("/punch", h.Attendance.Punch)
		})

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", h.Auth.Login)
			r.Post("/refresh", h.Auth.RefreshToken)

			r.Group(func(r chi.Router) {
				r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
				r.Use(middleware.AuthRequired)
				r.Get("/validate", h.Auth.Validate)
			})
		})

		// Requires an administrator
		r.Route("/admin", func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired)
			r.Use(middleware.AdminOnly)

			r.Route("/employees", func(r chi.Router) {
				r.Get("/", h.Employee.ListEmployees)
				r.Post("/", h.Employee.CreateEmployee)
				r.Get("/active", h.Employee.ListActive)
				r.Get("/search", h.Employee.SearchEmployees)
				r.Get("/area/{area}", h.Employee.ListByArea)
				r.Get("/job-title/{title}", h.Employee.ListByJobTitle)
				r.Get("/dni/{dni}", h.Employee.GetByDNI)
				r.Get("/code/{code}", h.Employee.GetByCode)
				r.Get("/stats", h.Employee.Stats)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", h.Employee.GetEmployee)
					r.Put("/", h.Employee.UpdateEmployee)
					r.Delete("/", h.Employee.DeleteEmployee)
					r.Put("/reactivate", h.Employee.ReactivateEmployee)
					r.Delete("/permanent", h.Employee.DeletePermanently)
				})
			})

			r.Route("/shift-windows", func(r chi.Router) {
				r.Get("/", h.ShiftWindow.List)
				r.Post("/", h.ShiftWindow.Create)
				r.Get("/active", h.ShiftWindow.ListActive)
				r.Get("/type/{type}", h.ShiftWindow.ListByType)
				r.Get("/search", h.ShiftWindow.Search)
				r.Get("/in-range", h.ShiftWindow.ListWithin)
				r.Get("/stats", h.ShiftWindow.Stats)
				r.Post("/check-overlap", h.ShiftWindow.CheckOverlap)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", h.ShiftWindow.Get)
					r.Put("/", h.ShiftWindow.Update)
					r.Delete("/", h.ShiftWindow.Deactivate)
					r.Put("/reactivate", h.ShiftWindow.Reactivate)
					r.Delete("/permanent", h.ShiftWindow.DeletePermanently)
				})
			})

			r.Route("/reports", func(r chi.Router) {
				r.Post("/attendance", h.Report.GetAttendanceReport)
				r.Post("/export/excel", h.Report.ExportExcel)
				r.Post("/export/pdf", h.Report.ExportPDF)
			})
		})
	})
	return r
}
