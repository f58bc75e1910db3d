package log

import "context"

type nopLogger struct{}

// NewNopLogger returns a ContextLogger that drops everything.
func NewNopLogger() ContextLogger {
	return nopLogger{}
}

func (nopLogger) Info(...any)                                 {}
func (nopLogger) Warn(...any)                                 {}
func (nopLogger) Error(...any)                                {}
func (nopLogger) Debug(...any)                                {}
func (nopLogger) Fatal(...any)                                {}
func (nopLogger) Print(Level, ...any)                         {}
func (nopLogger) InfoContext(context.Context, ...any)         {}
func (nopLogger) WarnContext(context.Context, ...any)         {}
func (nopLogger) ErrorContext(context.Context, ...any)        {}
func (nopLogger) DebugContext(context.Context, ...any)        {}
func (nopLogger) FatalContext(context.Context, ...any)        {}
func (nopLogger) PrintContext(context.Context, Level, ...any) {}
