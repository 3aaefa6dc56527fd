package employee

import "errors"

var (
	ErrEmployeeNotFound        = errors.New("employee not found")
	ErrDNIExists               = errors.New("DNI already registered")
	ErrCodeExists              = errors.New("employee code already exists")
	ErrCodeGenerationFailed    = errors.New("could not generate a unique employee code")
	ErrEmployeeAlreadyActive   = errors.New("employee is already active")
	ErrEmployeeAlreadyInactive = errors.New("employee is already inactive")
	ErrHasPunchHistory         = errors.New("employee has punch history and cannot be permanently deleted")
)
