package log

import (
	"io"

	"github.com/Ariaszzzhc/reactor-core-go/internal/env"
	"github.com/rs/zerolog"
)

const consoleTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// ZeroLogger is a Logger backed by zerolog. Debug events are dropped unless env.Debug is set.
type ZeroLogger struct {
	base zerolog.Logger
}

// NewConsoleLogger writes human readable lines to w.
func NewConsoleLogger(w io.Writer) *ZeroLogger {
	cw := zerolog.ConsoleWriter{Out: w, TimeFormat: consoleTimeFormat}
	return NewZeroLogger(zerolog.New(cw).With().Timestamp().Logger())
}

// NewZeroLogger wraps an existing zerolog logger, e.g. a JSON one.
func NewZeroLogger(base zerolog.Logger) *ZeroLogger {
	return &ZeroLogger{base: base}
}

// Nop returns a logger that never writes anything.
func Nop() *ZeroLogger {
	return &ZeroLogger{base: zerolog.Nop()}
}

func (l *ZeroLogger) Debug(msg string, fields ...Field) {
	if !env.Debug {
		return
	}
	write(l.base.Debug(), msg, fields)
}

func (l *ZeroLogger) Info(msg string, fields ...Field) {
	write(l.base.Info(), msg, fields)
}

func (l *ZeroLogger) Error(msg string, fields ...Field) {
	write(l.base.Error(), msg, fields)
}

func write(e *zerolog.Event, msg string, fields []Field) {
	if e == nil {
		return
	}
	for _, f := range fields {
		if f != nil {
			f(e)
		}
	}
	e.Msg(msg)
}
