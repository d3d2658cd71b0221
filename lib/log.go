package lib

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

var IsTraceEnabled bool = false

func Write(format string, msg ...interface{}) {
	fmt.Fprintf(os.Stderr, format, msg...)
}

func Writeln(format string, msg ...interface{}) {
	fmt.Fprintln(os.Stderr, fmt.Sprintf(format, msg...))
}

func Traceln(format string, msg ...interface{}) {
	if IsTraceEnabled {
		fmt.Fprintln(os.Stderr, fmt.Sprintf(format, msg...))
	}
}

func Exit(err error) {
	if err != nil {
		Writeln(err.Error())
		os.Exit(1)
	}
	os.Exit(0)
}

// Logger is the structured logger used by the server and the bootstrapper.
type Logger struct {
	zerolog.Logger
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// NewLogger writes human readable lines to stderr.
func NewLogger(level string) *Logger {
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}
	return &Logger{Logger: zerolog.New(output).Level(parseLevel(level)).With().Timestamp().Logger()}
}

// NewLoggerWithOutput writes JSON events to w.
func NewLoggerWithOutput(level string, w io.Writer) *Logger {
	return &Logger{Logger: zerolog.New(w).Level(parseLevel(level)).With().Timestamp().Logger()}
}

func NewSilentLogger() *Logger {
	return &Logger{Logger: zerolog.New(io.Discard)}
}
