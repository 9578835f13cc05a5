package log

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Field mutates a log event, see Str, Int64, Dur, Err.
type Field func(e *zerolog.Event)

func Str(k, v string) Field         { return func(e *zerolog.Event) { e.Str(k, v) } }
func Int64(k string, v int64) Field { return func(e *zerolog.Event) { e.Int64(k, v) } }
func Dur(k string, v time.Duration) Field {
	return func(e *zerolog.Event) { e.Dur(k, v) }
}
func Err(err error) Field {
	return func(e *zerolog.Event) {
		if err != nil {
			e.Err(err)
		}
	}
}

// Logger represents the log interface
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Error(msg string, fields ...Field)
}

func init() {
	SetLogger(NewConsoleLogger(os.Stdout))
}

var (
	Debug func(msg string, fields ...Field)
	Info  func(msg string, fields ...Field)
	Error func(msg string, fields ...Field)
)

// SetLogger rewrites the default logger
func SetLogger(logger Logger) {
	if logger == nil {
		return
	}
	Debug = logger.Debug
	Info = logger.Info
	Error = logger.Error
}
