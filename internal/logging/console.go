package logging

import (
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Prefix starts every diagnostic line.
const Prefix = "[mcplaunch] "

// Level is a logging severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return fmt.Sprintf("LEVEL(%d)", int(l))
	}
}

var levelColors = map[Level]lipgloss.Color{
	LevelDebug: lipgloss.Color("245"),
	LevelInfo:  lipgloss.Color("86"),
	LevelWarn:  lipgloss.Color("214"),
	LevelError: lipgloss.Color("196"),
}

// ConsoleLogger writes leveled key=value lines. Level tags are colored only
// when the writer is a terminal.
type ConsoleLogger struct {
	out    *log.Logger
	level  Level
	styles map[Level]lipgloss.Style
	fields []interface{}
}

// NewConsoleLogger creates a logger writing entries at or above level to w.
func NewConsoleLogger(w io.Writer, level Level) *ConsoleLogger {
	r := lipgloss.NewRenderer(w)
	styles := make(map[Level]lipgloss.Style, len(levelColors))
	for lvl, color := range levelColors {
		styles[lvl] = r.NewStyle().Bold(true).Foreground(color).TabWidth(lipgloss.NoTabConversion)
	}
	return &ConsoleLogger{
		out:    log.New(w, Prefix, 0),
		level:  level,
		styles: styles,
	}
}

// With returns a logger that appends keysAndValues to every entry.
func (l *ConsoleLogger) With(keysAndValues ...interface{}) *ConsoleLogger {
	child := *l
	child.fields = append(append([]interface{}{}, l.fields...), keysAndValues...)
	return &child
}

func (l *ConsoleLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.log(LevelDebug, msg, keysAndValues)
}

func (l *ConsoleLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log(LevelInfo, msg, keysAndValues)
}

func (l *ConsoleLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.log(LevelWarn, msg, keysAndValues)
}

func (l *ConsoleLogger) Error(msg string, keysAndValues ...interface{}) {
	l.log(LevelError, msg, keysAndValues)
}

func (l *ConsoleLogger) log(level Level, msg string, keysAndValues []interface{}) {
	if level < l.level {
		return
	}

	var b strings.Builder
	b.WriteString(l.styles[level].Render(level.String()))
	b.WriteByte(' ')
	b.WriteString(msg)
	writePairs(&b, keysAndValues)
	writePairs(&b, l.fields)

	l.out.Print(b.String())
}

func writePairs(b *strings.Builder, kv []interface{}) {
	for i := 0; i < len(kv); i += 2 {
		b.WriteByte(' ')
		if i+1 == len(kv) {
			fmt.Fprintf(b, "%v=(MISSING)", kv[i])
			break
		}
		fmt.Fprintf(b, "%v=%s", kv[i], formatValue(kv[i+1]))
	}
}

func formatValue(v interface{}) string {
	s := fmt.Sprintf("%v", v)
	if s == "" || strings.ContainsAny(s, " \t\n\"=") {
		return fmt.Sprintf("%q", s)
	}
	return s
}
