// Package errorlog writes structured security and diagnostic events for HTTP requests.
// Every event carries the event type, client IP, user agent, method and path.
package errorlog

import (
	"log/slog"
	"net"
	"net/http"
	"sort"
	"strings"
)

const (
	EventAuthentication = "AUTHENTICATION_ERROR"
	EventAccessDenied   = "ACCESS_DENIED"
	EventValidation     = "VALIDATION_ERROR"
	EventDataIntegrity  = "DATA_INTEGRITY_ERROR"
	EventInternal       = "INTERNAL_ERROR"
	EventPunchRejected  = "PUNCH_ERROR"
)

// ClientIP returns the host part of r.RemoteAddr. Proxy headers are resolved upstream by chi's RealIP.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func requestAttrs(r *http.Request, event string) []any {
	return []any{
		slog.String("event_type", event),
		slog.String("client_ip", ClientIP(r)),
		slog.String("user_agent", r.UserAgent()),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	}
}

// AuthenticationFailure logs a rejected login or token.
func AuthenticationFailure(r *http.Request, username string, err error) {
	attrs := requestAttrs(r, EventAuthentication)
	if username != "" {
		attrs = append(attrs, slog.String("username", username))
	}
	slog.WarnContext(r.Context(), "authentication failed", append(attrs, slog.Any("error", err))...)
}

// AccessDenied logs an authenticated request lacking privileges.
func AccessDenied(r *http.Request, username string) {
	attrs := requestAttrs(r, EventAccessDenied)
	slog.WarnContext(r.Context(), "access denied", append(attrs, slog.String("username", username))...)
}

// Validation logs rejected input. Only field names and messages are logged, never values.
func Validation(r *http.Request, details map[string]string) {
	fields := make([]string, 0, len(details))
	for field := range details {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	attrs := requestAttrs(r, EventValidation)
	slog.InfoContext(r.Context(), "validation failed", append(attrs, slog.String("fields", strings.Join(fields, ",")))...)
}

// DataIntegrity logs a write refused by a uniqueness, overlap or reference rule.
func DataIntegrity(r *http.Request, err error) {
	attrs := requestAttrs(r, EventDataIntegrity)
	slog.WarnContext(r.Context(), "data integrity violation", append(attrs, slog.Any("error", err))...)
}

// Internal logs an unexpected failure.
func Internal(r *http.Request, err error) {
	attrs := requestAttrs(r, EventInternal)
	slog.ErrorContext(r.Context(), "internal error", append(attrs, slog.Any("error", err))...)
}

// MaskDNI keeps the last three digits of a national id.
func MaskDNI(dni string) string {
	if len(dni) <= 3 {
		return strings.Repeat("*", len(dni))
	}
	return strings.Repeat("*", len(dni)-3) + dni[len(dni)-3:]
}

// PunchRejected logs a punch that was not recorded. The DNI is masked, including inside err.
func PunchRejected(r *http.Request, dni, reason string, err error) {
	masked := MaskDNI(dni)
	attrs := requestAttrs(r, EventPunchRejected)
	attrs = append(attrs, slog.String("dni", masked), slog.String("reason", reason))
	if err != nil {
		msg := err.Error()
		if dni != "" {
			msg = strings.ReplaceAll(msg, dni, masked)
		}
		attrs = append(attrs, slog.String("error", msg))
	}
	slog.WarnContext(r.Context(), "punch rejected", attrs...)
}
