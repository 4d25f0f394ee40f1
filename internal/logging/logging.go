// Package logging configures the process-wide logrus logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"path"
	"runtime"
	"strings"

	formatter "github.com/antonfisher/nested-logrus-formatter"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/kozaktomas/photo-analyzer/internal/config"
)

type Fields = logrus.Fields

// New builds a logger writing to stderr and, when cfg.File is set, to a rotating log file.
// An unknown level falls back to info.
func New(cfg config.LogConfig) *logrus.Logger {
	logger := logrus.New()

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	logger.SetFormatter(&formatter.Formatter{
		NoColors:        cfg.File != "",
		TimestampFormat: "02 Jan 06 - 15:04:05",
		HideKeys:        false,
		CallerFirst:     true,
		CustomCallerFormatter: func(f *runtime.Frame) string {
			s := strings.Split(f.Function, ".")
			funcName := s[len(s)-1]
			return fmt.Sprintf(" [%s:%d][%s()]", path.Base(f.File), f.Line, funcName)
		},
	})

	writers := []io.Writer{os.Stderr}
	if cfg.File != "" {
		writers = append(writers, &lumberjack.Logger{
			Filename:   cfg.File,
			LocalTime:  true,
			Compress:   true,
			MaxSize:    100,
			MaxAge:     7,
			MaxBackups: 3,
		})
	}

	logger.SetOutput(io.MultiWriter(writers...))
	logger.SetReportCaller(true)

	return logger
}

// Discard returns a logger that drops everything. Used by tests and the CLI in quiet mode.
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// ErrorWithTraceID logs msg at error level tagged with a fresh trace id and returns the id,
// so callers can hand it to the client without exposing the error itself.
func ErrorWithTraceID(logger logrus.FieldLogger, fields Fields, err error, msg string) string {
	traceID := uuid.NewString()

	entry := logger.WithFields(fields).WithField("trace_id", traceID)
	if err != nil {
		entry = entry.WithError(err)
	}
	entry.Error(msg)

	return traceID
}
