// internal/output/interface.go
package output

import "io"

// LoggerInterface is the output surface commands depend on. Commands hold
// it instead of *Logger so tests can capture or replace their output.
type LoggerInterface interface {
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
	Debug(format string, args ...interface{})
	Success(format string, args ...interface{})
	Bold(format string, args ...interface{})
	JSON(v interface{}) error

	SetVerbose(verbose bool)
	SetNoColor(noColor bool)
	SetJSONMode(jsonMode bool)
	IsVerbose() bool
	IsJSONMode() bool
	Writer() io.Writer

	PrintTransaction(r TxReport)
	PrintFailure(r TxReport)
}

var _ LoggerInterface = (*Logger)(nil)
