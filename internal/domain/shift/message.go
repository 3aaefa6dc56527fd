package shift

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Classification is the outcome of classifying one punch time.
type Classification struct {
	PunchType        PunchType
	Status           Status
	MinutesDeviation int
	Message          string
}

// BuildMessage renders the user-facing confirmation for a classified punch.
func BuildMessage(t TimeOfDay, punchType PunchType, status Status, minutes int) string {
	label := capitalize(strings.ToLower(punchType.Description()))

	switch status {
	case StatusOnTime:
		return fmt.Sprintf("%s registered at %s, on time 🎉", label, t)
	case StatusLate:
		if minutes > 0 {
			return fmt.Sprintf("%s registered, you were %d min late ⏰", label, minutes)
		}
		return fmt.Sprintf("%s registered at %s", label, t)
	case StatusOutOfWindow:
		return fmt.Sprintf("%s registered outside working hours at %s ⚠️", label, t)
	default:
		return fmt.Sprintf("%s registered at %s", label, t)
	}
}

// Note is the free-text remark stored with a punch; empty when there is nothing to flag.
func Note(status Status, minutes int) string {
	switch {
	case status == StatusLate && minutes > 0:
		return fmt.Sprintf("Late by %d minutes", minutes)
	case status == StatusOutOfWindow:
		return "Punch outside working hours"
	default:
		return ""
	}
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
