package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/validator"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	handlerTestAccessExp  = "1h"
	handlerTestRefreshExp = "24h"
	handlerTestSecret     = "test-secret-key-for-jwt"

	knownRecordID = "0188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b"
)

type stubAttendanceService struct {
	record func(req attendance.PunchRequest) (attendance.PunchResult, error)
}

func (s *stubAttendanceService) Record(_ context.Context, req attendance.PunchRequest) (attendance.PunchResult, error) {
	return s.record(req)
}

type stubAuthService struct {
	auth.AuthService
}

func (s *stubAuthService) Validate(context.Context) (auth.UserResponse, error) {
	return auth.UserResponse{ID: "u1", Username: "admin", IsAdmin: true, Active: true}, nil
}

type stubEmployeeService struct {
	employee.EmployeeService
}

func (s *stubEmployeeService) GetEmployee(_ context.Context, id string) (employee.EmployeeResponse, error) {
	if id == knownRecordID {
		return employee.EmployeeResponse{ID: id, DNI: "12345678", Code: "EMP001"}, nil
	}
	return employee.EmployeeResponse{}, employee.ErrEmployeeNotFound
}

func (s *stubEmployeeService) DeleteEmployee(context.Context, string) error {
	return nil
}

func (s *stubEmployeeService) GetByDNI(_ context.Context, dni string) (employee.EmployeeResponse, error) {
	if dni == "12345678" {
		return employee.EmployeeResponse{ID: "e1", DNI: dni, Code: "EMP001"}, nil
	}
	return employee.EmployeeResponse{}, employee.ErrEmployeeNotFound
}

type stubWindowService struct {
	shift.WindowService
}

func (s *stubWindowService) Create(_ context.Context, req shift.CreateWindowRequest) (shift.WindowResponse, error) {
	if err := req.Validate(); err != nil {
		return shift.WindowResponse{}, err
	}
	return shift.WindowResponse{}, shift.ErrWindowOverlap
}

func (s *stubWindowService) Get(_ context.Context, id string) (shift.WindowResponse, error) {
	if id == knownRecordID {
		return shift.WindowResponse{ID: id}, nil
	}
	return shift.WindowResponse{}, shift.ErrWindowNotFound
}

func (s *stubWindowService) Deactivate(context.Context, string) error {
	return nil
}

type stubReportService struct {
	report.ReportService
}

func (s *stubReportService) ExportExcel(_ context.Context, filter report.AttendanceReportFilter) (report.ExportFile, error) {
	return report.ExportFile{
		Filename:    filter.Filename("xlsx"),
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Content:     []byte("PK"),
	}, nil
}

type testServer struct {
	handler http.Handler
	jwt     jwt.Service
	metrics *metrics.Metrics
}

func newTestServer(t *testing.T, record func(req attendance.PunchRequest) (attendance.PunchResult, error)) testServer {
	t.Helper()
	jwtService := jwt.NewJWTService(handlerTestSecret, handlerTestAccessExp, handlerTestRefreshExp)
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	router := NewRouter(jwtService, RouterOptions{
		Logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		AllowedOrigins: []string{"http://localhost:3000"},
		PunchRateLimit: 3,
		Gatherer:       reg,
	}, Handlers{
		Auth:        NewAuthHandler(&stubAuthService{}),
		Attendance:  NewAttendanceHandler(&stubAttendanceService{record: record}, m),
		Employee:    NewEmployeeHandler(&stubEmployeeService{}),
		ShiftWindow: NewShiftWindowHandler(&stubWindowService{}),
		Report:      NewReportHandler(&stubReportService{}),
	})
	return testServer{handler: router, jwt: jwtService, metrics: m}
}

func (s testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var env response.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestPunch_Recorded(t *testing.T) {
	srv := newTestServer(t, func(req attendance.PunchRequest) (attendance.PunchResult, error) {
		return attendance.PunchResult{
			Success:   true,
			Message:   "Entry registered at 08:05:00 - On time",
			Employee:  attendance.EmployeeSummary{ID: "e1", DNI: req.DNI},
			PunchType: "ENTRY",
			Status:    "ON_TIME",
		}, nil
	})

	rec := srv.do(t, http.MethodPost, "/api/public/attendance/punch", "", map[string]string{"dni": "12345678"})
	require.Equal(t, http.StatusCreated, rec.Code)

	env := decodeEnvelope(t, rec)
	assert.True(t, env.Success)
	assert.Equal(t, "Entry registered at 08:05:00 - On time", env.Message)
	assert.Equal(t, 1.0, testutil.ToFloat64(srv.metrics.Punches.WithLabelValues("ENTRY", "ON_TIME")))
}

func TestPunch_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
		reason string
	}{
		{"unknown employee", employee.ErrEmployeeNotFound, http.StatusNotFound, "NOT_FOUND", metrics.ReasonEmployeeNotFound},
		{"duplicate", &attendance.DuplicatePunchError{DNI: "12345678", PunchType: shift.PunchTypeEntry}, http.StatusConflict, "CONFLICT", metrics.ReasonDuplicate},
		{"invalid dni", validator.ValidationErrors{{Field: "dni", Message: "dni must be exactly 8 digits"}}, http.StatusUnprocessableEntity, "VALIDATION_ERROR", metrics.ReasonInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, func(attendance.PunchRequest) (attendance.PunchResult, error) {
				return attendance.PunchResult{}, tt.err
			})

			rec := srv.do(t, http.MethodPost, "/api/public/attendance/punch", "", map[string]string{"dni": "12345678"})
			assert.Equal(t, tt.status, rec.Code)

			env := decodeEnvelope(t, rec)
			assert.False(t, env.Success)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.code, env.Error.Code)
			assert.Equal(t, 1.0, testutil.ToFloat64(srv.metrics.PunchRejections.WithLabelValues(tt.reason)))
		})
	}
}

func TestPunch_UnknownEmployeeMessage(t *testing.T) {
	srv := newTestServer(t, func(req attendance.PunchRequest) (attendance.PunchResult, error) {
		return attendance.PunchResult{}, fmt.Errorf("failed to find employee by dni: %w", employee.ErrEmployeeNotFound)
	})

	rec := srv.do(t, http.MethodPost, "/api/public/attendance/punch", "", map[string]string{"dni": "99999999"})
	require.Equal(t, http.StatusNotFound, rec.Code)

	env := decodeEnvelope(t, rec)
	require.NotNil(t, env.Error)
	assert.Equal(t, "Employee not found", env.Error.Message)
	assert.NotContains(t, rec.Body.String(), "99999999")
}

func TestPunch_MalformedBody(t *testing.T) {
	srv := newTestServer(t, func(attendance.PunchRequest) (attendance.PunchResult, error) {
		t.Fatal("service must not be called")
		return attendance.PunchResult{}, nil
	})

	req := httptest.NewRequest(http.MethodPost, "/api/public/attendance/punch", bytes.NewBufferString("{"))
	rec := httptest.NewRecorder()
	srv.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPunch_RateLimited(t *testing.T) {
	srv := newTestServer(t, func(attendance.PunchRequest) (attendance.PunchResult, error) {
		return attendance.PunchResult{PunchType: "ENTRY", Status: "ON_TIME"}, nil
	})

	for i := 0; i < 3; i++ {
		rec := srv.do(t, http.MethodPost, "/api/public/attendance/punch", "", map[string]string{"dni": "12345678"})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := srv.do(t, http.MethodPost, "/api/public/attendance/punch", "", map[string]string{"dni": "12345678"})
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestAdminRoutes_RequireAdminToken(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.do(t, http.MethodGet, "/api/admin/employees/dni/12345678", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	clerk, _, err := srv.jwt.GenerateAccessToken("u2", "clerk", false)
	require.NoError(t, err)
	rec = srv.do(t, http.MethodGet, "/api/admin/employees/dni/12345678", clerk, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	admin, _, err := srv.jwt.GenerateAccessToken("u1", "admin", true)
	require.NoError(t, err)
	rec = srv.do(t, http.MethodGet, "/api/admin/employees/dni/12345678", admin, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = srv.do(t, http.MethodGet, "/api/admin/employees/dni/99999999", admin, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestShiftWindowCreate_ErrorMapping(t *testing.T) {
	srv := newTestServer(t, nil)
	admin, _, err := srv.jwt.GenerateAccessToken("u1", "admin", true)
	require.NoError(t, err)

	rec := srv.do(t, http.MethodPost, "/api/admin/shift-windows", admin, shift.CreateWindowRequest{
		Name: "Morning entry", StartTime: "07:50", EndTime: "08:20", PunchType: "ENTRY",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = srv.do(t, http.MethodPost, "/api/admin/shift-windows", admin, shift.CreateWindowRequest{
		Name: "Backwards", StartTime: "09:00", EndTime: "08:00", PunchType: "ENTRY",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Contains(t, env.Error.Details, "end_time")
}

func TestAdminRoutes_MalformedIDs(t *testing.T) {
	srv := newTestServer(t, nil)
	admin, _, err := srv.jwt.GenerateAccessToken("u1", "admin", true)
	require.NoError(t, err)

	tests := []struct {
		method string
		path   string
		status int
	}{
		{http.MethodGet, "/api/admin/shift-windows/abc", http.StatusNotFound},
		{http.MethodDelete, "/api/admin/shift-windows/abc", http.StatusNotFound},
		{http.MethodPut, "/api/admin/shift-windows/abc/reactivate", http.StatusNotFound},
		{http.MethodDelete, "/api/admin/shift-windows/abc/permanent", http.StatusNotFound},
		{http.MethodGet, "/api/admin/employees/abc", http.StatusNotFound},
		{http.MethodDelete, "/api/admin/employees/1", http.StatusNotFound},
		{http.MethodPut, "/api/admin/employees/abc/reactivate", http.StatusNotFound},
		{http.MethodDelete, "/api/admin/employees/abc/permanent", http.StatusNotFound},
		{http.MethodGet, "/api/admin/shift-windows/" + knownRecordID, http.StatusOK},
		{http.MethodDelete, "/api/admin/shift-windows/" + knownRecordID, http.StatusOK},
		{http.MethodGet, "/api/admin/employees/" + knownRecordID, http.StatusOK},
		{http.MethodDelete, "/api/admin/employees/" + knownRecordID, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := srv.do(t, tt.method, tt.path, admin, nil)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestShiftWindowUpdate_MalformedID(t *testing.T) {
	srv := newTestServer(t, nil)
	admin, _, err := srv.jwt.GenerateAccessToken("u1", "admin", true)
	require.NoError(t, err)

	rec := srv.do(t, http.MethodPut, "/api/admin/shift-windows/abc", admin, shift.CreateWindowRequest{
		Name: "Morning entry", StartTime: "07:50", EndTime: "08:20", PunchType: "ENTRY",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	env := decodeEnvelope(t, rec)
	require.NotNil(t, env.Error)
	assert.Equal(t, "Shift window not found", env.Error.Message)
}

func TestExportExcel_Download(t *testing.T) {
	srv := newTestServer(t, nil)
	admin, _, err := srv.jwt.GenerateAccessToken("u1", "admin", true)
	require.NoError(t, err)

	rec := srv.do(t, http.MethodPost, "/api/admin/reports/export/excel", admin, map[string]string{
		"start_date": "2024-01-01",
		"end_date":   "2024-01-31",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `attachment; filename="attendance_report_2024-01-01_2024-01-31.xlsx"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "PK", rec.Body.String())
}

func TestValidateEndpoint(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.do(t, http.MethodGet, "/api/auth/validate", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	access, _, err := srv.jwt.GenerateAccessToken("u1", "admin", true)
	require.NoError(t, err)
	rec = srv.do(t, http.MethodGet, "/api/auth/validate", access, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHeartbeatAndMetrics(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.do(t, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	srv.metrics.PunchRejected(metrics.ReasonDuplicate)
	rec = srv.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `timeclock_punch_rejections_total{reason="duplicate"} 1`)
}
