package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/metrics"
)

// StatsJobs refreshes configuration gauges.
type StatsJobs struct {
	employeeRepo  employee.EmployeeRepository
	windowService shift.WindowService
	metrics       *metrics.Metrics
	interval      time.Duration
}

func NewStatsJobs(employeeRepo employee.EmployeeRepository, windowService shift.WindowService, m *metrics.Metrics, interval time.Duration) *StatsJobs {
	return &StatsJobs{
		employeeRepo:  employeeRepo,
		windowService: windowService,
		metrics:       m,
		interval:      interval,
	}
}

func (j *StatsJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("refresh_configuration_stats", j.interval, j.RefreshConfigurationStats)
}

// RefreshConfigurationStats updates the gauges and warns while a punch type has no active window.
func (j *StatsJobs) RefreshConfigurationStats(ctx context.Context) error {
	activeEmployees, err := j.employeeRepo.CountActive(ctx)
	if err != nil {
		return fmt.Errorf("failed to count active employees: %w", err)
	}

	stats, err := j.windowService.Stats(ctx)
	if err != nil {
		return fmt.Errorf("failed to get shift window stats: %w", err)
	}

	j.metrics.SetConfiguration(activeEmployees, stats.TotalActive, stats.Complete)

	if !stats.Complete {
		slog.Warn("Cron: shift window configuration is incomplete, some punch types have no active window",
			"active_windows", stats.TotalActive)
	}
	slog.Debug("Cron: configuration stats refreshed",
		"active_employees", activeEmployees,
		"active_windows", stats.TotalActive,
		"complete", stats.Complete)
	return nil
}
