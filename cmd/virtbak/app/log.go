package app

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// Log provides error/warning/etc helpers for orchestrators and commands
type Log struct {
	trace bool
	out   io.Writer
	err   io.Writer
}

var (
	colorTrace   = color.New(color.FgHiBlack)
	colorWarning = color.New(color.FgYellow)
	colorError   = color.New(color.FgRed)
	colorSuccess = color.New(color.FgGreen)
)

// NewLog creates a new Log, trace messages are shown only when trace is true
func NewLog(trace bool) *Log {
	return &Log{
		trace: trace,
		out:   os.Stdout,
		err:   os.Stderr,
	}
}

// Trace prints a debug-level message
func (log *Log) Trace(message string) {
	if !log.trace {
		return
	}
	colorTrace.Fprintf(log.out, "TRACE: %s\n", message)
}

// Tracef prints a formated debug-level message
func (log *Log) Tracef(format string, args ...interface{}) {
	log.Trace(fmt.Sprintf(format, args...))
}

// Info prints an informational message
func (log *Log) Info(message string) {
	fmt.Fprintln(log.out, message)
}

// Infof prints a formated informational message
func (log *Log) Infof(format string, args ...interface{}) {
	log.Info(fmt.Sprintf(format, args...))
}

// Warning prints a non-fatal warning
func (log *Log) Warning(message string) {
	colorWarning.Fprintf(log.err, "WARNING: %s\n", message)
}

// Warningf prints a formated non-fatal warning
func (log *Log) Warningf(format string, args ...interface{}) {
	log.Warning(fmt.Sprintf(format, args...))
}

// Error prints an error message
func (log *Log) Error(message string) {
	colorError.Fprintf(log.err, "ERROR: %s\n", message)
}

// Errorf prints a formated error message
func (log *Log) Errorf(format string, args ...interface{}) {
	log.Error(fmt.Sprintf(format, args...))
}

// Success prints a operation-completed message
func (log *Log) Success(message string) {
	colorSuccess.Fprintln(log.out, message)
}

// Successf prints a formated operation-completed message
func (log *Log) Successf(format string, args ...interface{}) {
	log.Success(fmt.Sprintf(format, args...))
}
