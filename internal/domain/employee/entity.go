package employee

import (
	"fmt"
	"time"
)

type Employee struct {
	ID         string
	Code       string
	DNI        string
	FirstNames string
	LastNames  string
	JobTitle   string
	Area       string
	Active     bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (e Employee) FullName() string {
	return e.FirstNames + " " + e.LastNames
}

// FormatCode renders the sequential employee code, e.g. EMP007.
func FormatCode(seq int64) string {
	return fmt.Sprintf("EMP%03d", seq)
}

// MaxCodeAttempts bounds retries when a generated code collides with an existing one.
const MaxCodeAttempts = 10
