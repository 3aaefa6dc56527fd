package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/config"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/shift"
	appHTTP "github.com/cmlabs-hris/timeclock-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/cache"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/cron"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/repository/postgresql"
	redisRepo "github.com/cmlabs-hris/timeclock-backend-go/internal/repository/redis"
	attendanceService "github.com/cmlabs-hris/timeclock-backend-go/internal/service/attendance"
	serviceAuth "github.com/cmlabs-hris/timeclock-backend-go/internal/service/auth"
	employeeService "github.com/cmlabs-hris/timeclock-backend-go/internal/service/employee"
	reportService "github.com/cmlabs-hris/timeclock-backend-go/internal/service/report"
	shiftService "github.com/cmlabs-hris/timeclock-backend-go/internal/service/shift"
	"github.com/go-chi/httplog/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.LogLevel(),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "timeclock"),
		slog.String("version", "v1.0.0"),
		slog.String("env", cfg.App.Env),
	)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dsn := cfg.DatabaseURL()
	if err := database.RunMigrations(dsn); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	loc := cfg.Location()
	transactor := postgresql.NewTransactor(db)

	userRepo := postgresql.NewUserRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	punchRepo := postgresql.NewPunchRepository(db)
	reportRepo := postgresql.NewReportRepository(db)

	var windowRepo shift.WindowRepository = postgresql.NewShiftWindowRepository(db)
	if cfg.Redis.Addr != "" {
		redisClient, err := cache.NewClient(cache.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			slog.Warn("Shift window cache disabled", "error", err)
		} else {
			defer redisClient.Close()
			windowRepo = redisRepo.NewShiftWindowRepository(windowRepo, redisClient, cfg.Redis.TTL)
		}
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.New(registry)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)
	authService := serviceAuth.NewAuthService(userRepo, JWTService)
	classifier := shiftService.NewClassifier(windowRepo)
	windowService := shiftService.NewWindowService(windowRepo, transactor)
	attendanceSvc := attendanceService.NewAttendanceService(employeeRepo, punchRepo, classifier, transactor, loc, time.Now)
	employeeSvc := employeeService.NewEmployeeService(employeeRepo, punchRepo)
	reportSvc := reportService.NewReportService(reportRepo, loc)

	if cfg.Admin.Password != "" {
		created, err := authService.EnsureAdmin(ctx, auth.BootstrapAdminRequest{
			Username: cfg.Admin.Username,
			Email:    cfg.Admin.Email,
			Password: cfg.Admin.Password,
		})
		if err != nil {
			return fmt.Errorf("bootstrap admin: %w", err)
		}
		if created {
			slog.Info("Administrator account created", "username", cfg.Admin.Username)
		}
	}

	scheduler := cron.NewScheduler()
	cron.NewStatsJobs(employeeRepo, windowService, appMetrics, cfg.Cron.StatsInterval).RegisterJobs(scheduler)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	router := appHTTP.NewRouter(JWTService, appHTTP.RouterOptions{
		Logger:         logger,
		AllowedOrigins: cfg.App.AllowedOrigins,
		PunchRateLimit: cfg.App.PunchRateLimit,
		Gatherer:       registry,
	}, appHTTP.Handlers{
		Auth:        appHTTP.NewAuthHandler(authService),
		Attendance:  appHTTP.NewAttendanceHandler(attendanceSvc, appMetrics),
		Employee:    appHTTP.NewEmployeeHandler(employeeSvc),
		ShiftWindow: appHTTP.NewShiftWindowHandler(windowService),
		Report:      appHTTP.NewReportHandler(reportSvc),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server running", "addr", srv.Addr, "timezone", loc.String())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	slog.Info("Server shutting down")
	return srv.Shutdown(shutdownCtx)
}
