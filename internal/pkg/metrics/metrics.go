// Package metrics exposes the time clock's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "timeclock"

// Rejection reasons.
const (
	ReasonEmployeeNotFound = "employee_not_found"
	ReasonDuplicate        = "duplicate"
	ReasonInvalid          = "invalid"
)

type Metrics struct {
	Punches              *prometheus.CounterVec
	PunchRejections      *prometheus.CounterVec
	ActiveEmployees      prometheus.Gauge
	ActiveShiftWindows   prometheus.Gauge
	ShiftWindowsComplete prometheus.Gauge
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Punches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "punches_total",
			Help:      "Punches registered, by punch type and status.",
		}, []string{"punch_type", "status"}),
		PunchRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "punch_rejections_total",
			Help:      "Punch attempts that were refused, by reason.",
		}, []string{"reason"}),
		ActiveEmployees: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_employees",
			Help:      "Employees currently active.",
		}),
		ActiveShiftWindows: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_shift_windows",
			Help:      "Shift windows currently active.",
		}),
		ShiftWindowsComplete: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "shift_windows_complete",
			Help:      "1 when every punch type has an active shift window.",
		}),
	}
	reg.MustRegister(m.Punches, m.PunchRejections, m.ActiveEmployees, m.ActiveShiftWindows, m.ShiftWindowsComplete)
	return m
}

// PunchRecorded is a no-op on a nil receiver.
func (m *Metrics) PunchRecorded(punchType, status string) {
	if m == nil {
		return
	}
	m.Punches.WithLabelValues(punchType, status).Inc()
}

// PunchRejected is a no-op on a nil receiver.
func (m *Metrics) PunchRejected(reason string) {
	if m == nil {
		return
	}
	m.PunchRejections.WithLabelValues(reason).Inc()
}

// SetConfiguration records the gauges refreshed by the stats job.
func (m *Metrics) SetConfiguration(activeEmployees, activeWindows int64, complete bool) {
	if m == nil {
		return
	}
	m.ActiveEmployees.Set(float64(activeEmployees))
	m.ActiveShiftWindows.Set(float64(activeWindows))
	if complete {
		m.ShiftWindowsComplete.Set(1)
	} else {
		m.ShiftWindowsComplete.Set(0)
	}
}
