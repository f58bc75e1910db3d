package log

import (
	"context"
	"fmt"
	"time"

	"github.com/yaotthaha/ipsetd/lib/tools"

	"github.com/fatih/color"
)

type contextTag struct{}

type contextMsg struct {
	id    string
	color color.Attribute
	start time.Time
}

// AddContextTag stamps ctx with a request id; ContextLogger prefixes it together
// with the elapsed time.
func AddContextTag(ctx context.Context) context.Context {
	return context.WithValue(ctx, (*contextTag)(nil), &contextMsg{
		id:    tools.RandomNumStr(8),
		color: RandomColor(),
		start: time.Now(),
	})
}

func GetContextTag(ctx context.Context) string {
	v, ok := ctx.Value((*contextTag)(nil)).(*contextMsg)
	if !ok {
		return ""
	}
	return v.id
}

type contextLogger struct {
	Logger
}

func NewContextLogger(rootLogger Logger) ContextLogger {
	return &contextLogger{
		Logger: rootLogger,
	}
}

func (c *contextLogger) EnableColor() bool {
	if cl, ok := c.Logger.(ColorLogger); ok {
		return cl.EnableColor()
	}
	return false
}

func (c *contextLogger) PrintContext(ctx context.Context, level Level, a ...any) {
	value, ok := ctx.Value((*contextTag)(nil)).(*contextMsg)
	if !ok {
		c.Print(level, a...)
		return
	}
	prefix := fmt.Sprintf("%s %dms", value.id, time.Since(value.start).Milliseconds())
	if c.EnableColor() {
		prefix = GetColor(value.color).Sprint(prefix)
	}
	an := make([]any, 0, len(a)+1)
	an = append(an, fmt.Sprintf("[%s] ", prefix))
	an = append(an, a...)
	c.Print(level, an...)
}

func (c *contextLogger) InfoContext(ctx context.Context, a ...any) {
	c.PrintContext(ctx, Info, a...)
}

func (c *contextLogger) WarnContext(ctx context.Context, a ...any) {
	c.PrintContext(ctx, Warn, a...)
}

func (c *contextLogger) ErrorContext(ctx context.Context, a ...any) {
	c.PrintContext(ctx, Error, a...)
}

func (c *contextLogger) DebugContext(ctx context.Context, a ...any) {
	c.PrintContext(ctx, Debug, a...)
}

func (c *contextLogger) FatalContext(ctx context.Context, a ...any) {
	c.PrintContext(ctx, Fatal, a...)
}
