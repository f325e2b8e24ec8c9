// Package logger provides leveled logging for the task manager.
package logger

import (
	"os"
	"strings"

	"github.com/op/go-logging"
)

const timeFormat = "2006/01/02 15:04:05"

var logger *logging.Logger

func init() {
	InitLogger(logging.INFO)
}

// InitLogger replaces the package logger with a stderr backend at the given level.
func InitLogger(level logging.Level) {
	newLogger := logging.MustGetLogger("task-manager")

	backend := logging.NewLogBackend(os.Stderr, "", 0)
	formatted := logging.NewBackendFormatter(backend,
		logging.MustStringFormatter(`%{time:`+timeFormat+`} %{level} - %{message}`))

	leveled := logging.AddModuleLevel(formatted)
	leveled.SetLevel(level, "task-manager")
	newLogger.SetBackend(leveled)

	logger = newLogger
}

// ParseLevel maps a config string to a logging level, falling back to INFO.
func ParseLevel(level string) logging.Level {
	parsed, err := logging.LogLevel(strings.ToUpper(level))
	if err != nil {
		return logging.INFO
	}
	return parsed
}

func Debug(args ...any) {
	logger.Debug(args...)
}

func Debugf(format string, args ...any) {
	logger.Debugf(format, args...)
}

func Info(args ...any) {
	logger.Info(args...)
}

func Infof(format string, args ...any) {
	logger.Infof(format, args...)
}

func Warning(args ...any) {
	logger.Warning(args...)
}

func Warningf(format string, args ...any) {
	logger.Warningf(format, args...)
}

func Error(args ...any) {
	logger.Error(args...)
}

func Errorf(format string, args ...any) {
	logger.Errorf(format, args...)
}

// Fatalf logs at CRITICAL and exits.
func Fatalf(format string, args ...any) {
	logger.Fatalf(format, args...)
}
