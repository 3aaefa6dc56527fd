package report

import "errors"

var (
	ErrExportFailed = errors.New("failed to generate report file")
	ErrTooManyRows  = errors.New("report exceeds the maximum number of exportable rows")
)
