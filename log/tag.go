package log

import (
	"context"
	"fmt"

	"github.com/fatih/color"
)

var (
	_ SetColorLogger = (*tagLogger)(nil)
	_ SetColorLogger = (*tagContextLogger)(nil)
)

type tagLogger struct {
	tag   string
	color *color.Attribute
	Logger
}

func NewTagLogger(rootLogger Logger, tag string) Logger {
	return &tagLogger{
		tag:    tag,
		Logger: rootLogger,
	}
}

func (t *tagLogger) SetColor(c color.Attribute) {
	t.color = &c
}

func (t *tagLogger) prefix() string {
	return renderTag(t.Logger, t.tag, t.color)
}

func (t *tagLogger) Print(level Level, a ...any) {
	t.Logger.Print(level, fmt.Sprintf("%s %s", t.prefix(), fmt.Sprint(a...)))
}

func (t *tagLogger) Info(a ...any) {
	t.Print(Info, a...)
}

func (t *tagLogger) Warn(a ...any) {
	t.Print(Warn, a...)
}

func (t *tagLogger) Error(a ...any) {
	t.Print(Error, a...)
}

func (t *tagLogger) Debug(a ...any) {
	t.Print(Debug, a...)
}

func (t *tagLogger) Fatal(a ...any) {
	t.Print(Fatal, a...)
}

func (t *tagLogger) EnableColor() bool {
	if cl, ok := t.Logger.(ColorLogger); ok {
		return cl.EnableColor()
	}
	return false
}

type tagContextLogger struct {
	tag   string
	color *color.Attribute
	ContextLogger
}

func NewTagContextLogger(rootLogger ContextLogger, tag string) ContextLogger {
	return &tagContextLogger{
		tag:           tag,
		ContextLogger: rootLogger,
	}
}

func (t *tagContextLogger) SetColor(c color.Attribute) {
	t.color = &c
}

func (t *tagContextLogger) prefix() string {
	return renderTag(t.ContextLogger, t.tag, t.color)
}

func (t *tagContextLogger) Print(level Level, a ...any) {
	t.ContextLogger.Print(level, fmt.Sprintf("%s %s", t.prefix(), fmt.Sprint(a...)))
}

func (t *tagContextLogger) Info(a ...any) {
	t.Print(Info, a...)
}

func (t *tagContextLogger) Warn(a ...any) {
	t.Print(Warn, a...)
}

func (t *tagContextLogger) Error(a ...any) {
	t.Print(Error, a...)
}

func (t *tagContextLogger) Debug(a ...any) {
	t.Print(Debug, a...)
}

func (t *tagContextLogger) Fatal(a ...any) {
	t.Print(Fatal, a...)
}

func (t *tagContextLogger) PrintContext(ctx context.Context, level Level, a ...any) {
	t.ContextLogger.PrintContext(ctx, level, fmt.Sprintf("%s %s", t.prefix(), fmt.Sprint(a...)))
}

func (t *tagContextLogger) InfoContext(ctx context.Context, a ...any) {
	t.PrintContext(ctx, Info, a...)
}

func (t *tagContextLogger) WarnContext(ctx context.Context, a ...any) {
	t.PrintContext(ctx, Warn, a...)
}

func (t *tagContextLogger) ErrorContext(ctx context.Context, a ...any) {
	t.PrintContext(ctx, Error, a...)
}

func (t *tagContextLogger) DebugContext(ctx context.Context, a ...any) {
	t.PrintContext(ctx, Debug, a...)
}

func (t *tagContextLogger) FatalContext(ctx context.Context, a ...any) {
	t.PrintContext(ctx, Fatal, a...)
}

func renderTag(l any, tag string, c *color.Attribute) string {
	s := fmt.Sprintf("[%s]", tag)
	if c == nil {
		return s
	}
	if cl, ok := l.(ColorLogger); ok && cl.EnableColor() {
		return GetColor(*c).Sprint(s)
	}
	return s
}
