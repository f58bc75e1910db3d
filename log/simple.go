package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

var DefaultSimpleLogger Logger

func init() {
	l := NewLogger()
	l.SetLevel(Debug)
	DefaultSimpleLogger = l
}

type SimpleLogger struct {
	lock       sync.Mutex
	output     io.Writer
	formatFunc func(level, s string) string
	level      Level
	color      bool
}

func NewLogger() *SimpleLogger {
	return &SimpleLogger{
		output:     os.Stdout,
		formatFunc: DefaultFormatFunc,
		level:      Info,
	}
}

func (s *SimpleLogger) SetOutput(w io.Writer) {
	s.lock.Lock()
	defer s.lock.Unlock()
	if w != nil {
		s.output = w
	} else {
		s.output = io.Discard
	}
}

func (s *SimpleLogger) SetFormatFunc(f func(level, s string) string) {
	if f != nil {
		s.formatFunc = f
	}
}

func (s *SimpleLogger) SetLevel(level Level) {
	s.level = level
}

// SetDebug lowers the level to Debug, or restores Info.
func (s *SimpleLogger) SetDebug(debug bool) {
	if debug {
		s.level = Debug
	} else {
		s.level = Info
	}
}

func (s *SimpleLogger) SetColor(color bool) {
	s.color = color
}

func (s *SimpleLogger) EnableColor() bool {
	return s.color
}

func (s *SimpleLogger) print(level Level, str string) {
	if level < s.level {
		return
	}
	str = strings.TrimSpace(str)
	levelStr := level.String()
	if s.color {
		levelStr = GetColor(level.Color()).Sprint(levelStr)
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	fmt.Fprintln(s.output, s.formatFunc(levelStr, str))
}

func (s *SimpleLogger) Print(level Level, a ...any) {
	s.print(level, fmt.Sprint(a...))
}

func (s *SimpleLogger) Info(a ...any) {
	s.print(Info, fmt.Sprint(a...))
}

func (s *SimpleLogger) Warn(a ...any) {
	s.print(Warn, fmt.Sprint(a...))
}

func (s *SimpleLogger) Error(a ...any) {
	s.print(Error, fmt.Sprint(a...))
}

func (s *SimpleLogger) Debug(a ...any) {
	s.print(Debug, fmt.Sprint(a...))
}

func (s *SimpleLogger) Fatal(a ...any) {
	s.print(Fatal, fmt.Sprint(a...))
}
