// Package logbar provides leveled terminal logging that cooperates with a
// bottom-pinned progress renderer: log lines scroll above the bar, the bar
// is lifted out of the way and repinned after every emission.
package logbar

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"logbar/pkg/term"
)

// Level is a log severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelCrit
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelCrit:
		return "CRIT"
	default:
		return "INFO"
	}
}

// levelFieldWidth fits the widest bracketed tag, "[DEBUG]" and "[ERROR]".
const levelFieldWidth = 7

// Logger formats and emits leveled messages through a term.Writer. All
// emissions run under the coordinator's render lock so they never tear a
// concurrently redrawn progress line.
type Logger struct {
	w     *term.Writer
	co    *term.Coordinator
	theme *Theme
	once  *onceRegistry
}

// New returns a Logger writing to out.
func New(out io.Writer) *Logger {
	return NewTerm(term.NewWriter(out))
}

// NewTerm returns a Logger on an existing terminal writer.
func NewTerm(w *term.Writer) *Logger {
	return &Logger{
		w:     w,
		co:    term.NewCoordinator(),
		theme: DefaultTheme(),
		once:  newOnceRegistry(),
	}
}

var (
	shared     *Logger
	sharedOnce sync.Once
)

// Shared returns the process-wide logger on stdout, constructing it on
// first use. This is application-boundary convenience; library code should
// take an explicit *Logger.
func Shared() *Logger {
	sharedOnce.Do(func() {
		shared = New(os.Stdout)
	})
	return shared
}

// Term returns the underlying terminal writer.
func (l *Logger) Term() *term.Writer {
	return l.w
}

// Coordinator returns the render coordinator shared with progress bars.
func (l *Logger) Coordinator() *term.Coordinator {
	return l.co
}

// Theme returns the active theme.
func (l *Logger) Theme() *Theme {
	return l.theme
}

// Log emits one formatted line at the given level. When a progress
// renderer is active the line is written between a lift and a repin, as a
// single uninterruptible unit. A write failure is returned to the caller.
func (l *Logger) Log(level Level, format string, v ...any) error {
	return l.emit(level, sprint(format, v...))
}

func (l *Logger) Debug(format string, v ...any) error {
	return l.emit(LevelDebug, sprint(format, v...))
}

func (l *Logger) Info(format string, v ...any) error {
	return l.emit(LevelInfo, sprint(format, v...))
}

func (l *Logger) Warn(format string, v ...any) error {
	return l.emit(LevelWarn, sprint(format, v...))
}

func (l *Logger) Error(format string, v ...any) error {
	return l.emit(LevelError, sprint(format, v...))
}

func (l *Logger) Crit(format string, v ...any) error {
	return l.emit(LevelCrit, sprint(format, v...))
}

// LogOnce emits the message at most once per process run. The suppression
// key defaults to the formatted message; pass a non-empty key to dedicate
// the suppression to something other than the text itself.
func (l *Logger) LogOnce(level Level, key, format string, v ...any) error {
	msg := sprint(format, v...)
	if key == "" {
		key = msg
	}
	if !l.once.add(key) {
		return nil
	}
	return l.emit(level, msg)
}

func (l *Logger) DebugOnce(format string, v ...any) error {
	return l.LogOnce(LevelDebug, "", format, v...)
}

func (l *Logger) InfoOnce(format string, v ...any) error {
	return l.LogOnce(LevelInfo, "", format, v...)
}

func (l *Logger) WarnOnce(format string, v ...any) error {
	return l.LogOnce(LevelWarn, "", format, v...)
}

func (l *Logger) ErrorOnce(format string, v ...any) error {
	return l.LogOnce(LevelError, "", format, v...)
}

func (l *Logger) CritOnce(format string, v ...any) error {
	return l.LogOnce(LevelCrit, "", format, v...)
}

func (l *Logger) emit(level Level, msg string) error {
	line := l.formatLine(level, msg)
	return l.co.Sync(func(active term.Pinned) error {
		if active == nil {
			return l.w.WriteLine(line)
		}
		if err := active.Lift(); err != nil {
			return err
		}
		if err := l.w.WriteLine(line); err != nil {
			return err
		}
		return active.Repin()
	})
}

// formatLine renders "[LEVEL] message" with a fixed-width level field. On
// interactive streams the message is padded to the full terminal width so
// it overwrites any remnant of a previously pinned line. Long messages are
// never cut: they wrap in the terminal instead of losing content.
func (l *Logger) formatLine(level Level, msg string) string {
	tag := "[" + level.String() + "]"
	pad := strings.Repeat(" ", levelFieldWidth-len(tag))
	if l.w.Interactive() {
		if width := l.w.Width(); width > levelFieldWidth+1 {
			msg = term.Pad(msg, width-levelFieldWidth-1)
		}
		tag = l.theme.ForLevel(level).Render(tag)
	}
	return tag + pad + " " + msg
}

func sprint(format string, v ...any) string {
	if len(v) == 0 {
		return format
	}
	return fmt.Sprintf(format, v...)
}
