package log

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
)

type Logger interface {
	Info(...any)
	Warn(...any)
	Error(...any)
	Debug(...any)
	Fatal(...any)
	Print(Level, ...any)
}

type ContextLogger interface {
	Logger
	InfoContext(context.Context, ...any)
	WarnContext(context.Context, ...any)
	ErrorContext(context.Context, ...any)
	DebugContext(context.Context, ...any)
	FatalContext(context.Context, ...any)
	PrintContext(context.Context, Level, ...any)
}

type ColorLogger interface {
	EnableColor() bool
}

type SetColorLogger interface {
	SetColor(color.Attribute)
}

type Level int

const (
	Debug Level = iota
	Info
	Warn
	Error
	Fatal
)

func (l Level) String() string {
	switch l {
	case Debug:
		return "Debug"
	case Info:
		return "Info"
	case Warn:
		return "Warn"
	case Error:
		return "Error"
	case Fatal:
		return "Fatal"
	default:
		return "Unknown"
	}
}

func (l Level) Color() color.Attribute {
	switch l {
	case Debug:
		return color.FgBlue
	case Info:
		return color.FgGreen
	case Warn:
		return color.FgYellow
	case Error:
		return color.FgRed
	case Fatal:
		return color.FgMagenta
	default:
		return color.Reset
	}
}

func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return Debug, nil
	case "info", "":
		return Info, nil
	case "warn", "warning":
		return Warn, nil
	case "error":
		return Error, nil
	case "fatal":
		return Fatal, nil
	default:
		return Info, fmt.Errorf("unknown log level: %s", s)
	}
}

func DefaultFormatFunc(level, s string) string {
	return fmt.Sprintf("[%s] [%s] %s", time.Now().Format(time.DateTime), level, s)
}

func DisableTimestampFormatFunc(level, s string) string {
	return fmt.Sprintf("[%s] %s", level, s)
}
