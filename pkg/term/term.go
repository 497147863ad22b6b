// Package term wraps the raw output stream and the cursor control
// sequences needed to keep a progress line pinned below scrolling output.
package term

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-runewidth"
	xterm "golang.org/x/term"
)

const (
	escCursorUp  = "\x1b[%dA"
	escClearLine = "\x1b[2K"
)

// Writer wraps an output stream and exposes the small set of terminal
// operations the logger and the progress renderer need. It carries no
// locking of its own: callers serialize through a Coordinator.
type Writer struct {
	out         io.Writer
	fd          int
	interactive bool
	width       int
}

// NewWriter wraps w. When w is an *os.File attached to a terminal the
// writer comes up interactive; any other stream degrades to plain
// sequential output with no cursor control.
func NewWriter(w io.Writer) *Writer {
	tw := &Writer{out: w, fd: -1}
	if f, ok := w.(*os.File); ok {
		tw.fd = int(f.Fd())
		tw.interactive = xterm.IsTerminal(tw.fd)
	}
	return tw
}

// ForceInteractive overrides terminal detection. Used by tests and by
// callers that pipe through a pty-like stream the detection cannot see.
func (w *Writer) ForceInteractive(on bool) *Writer {
	w.interactive = on
	return w
}

// ForceWidth pins the reported terminal width to cols.
func (w *Writer) ForceWidth(cols int) *Writer {
	w.width = cols
	return w
}

// Interactive reports whether cursor control sequences may be emitted.
func (w *Writer) Interactive() bool {
	return w.interactive
}

// Width returns the terminal width in cells, or 0 when it is unknown.
func (w *Writer) Width() int {
	if w.width > 0 {
		return w.width
	}
	if w.fd >= 0 && w.interactive {
		if cols, _, err := xterm.GetSize(w.fd); err == nil {
			return cols
		}
	}
	return 0
}

// WriteRaw writes s as-is, without a trailing newline.
func (w *Writer) WriteRaw(s string) error {
	if _, err := io.WriteString(w.out, s); err != nil {
		return fmt.Errorf("terminal write: %w", err)
	}
	return nil
}

// WriteLine writes s followed by a newline.
func (w *Writer) WriteLine(s string) error {
	return w.WriteRaw(s + "\n")
}

// CursorUp moves the cursor up n lines. No-op on non-interactive streams.
func (w *Writer) CursorUp(n int) error {
	if !w.interactive || n <= 0 {
		return nil
	}
	return w.WriteRaw(fmt.Sprintf(escCursorUp, n))
}

// ClearLine returns the cursor to column 0 and erases the whole line.
// No-op on non-interactive streams.
func (w *Writer) ClearLine() error {
	if !w.interactive {
		return nil
	}
	return w.WriteRaw("\r" + escClearLine)
}

// Fit pads or truncates s to exactly width terminal cells, counting wide
// runes as two cells. Strings shorter than width are padded with spaces so
// a redraw fully overwrites whatever occupied the line before.
func Fit(s string, width int) string {
	if width <= 0 {
		return s
	}
	if runewidth.StringWidth(s) > width {
		return runewidth.Truncate(s, width, "")
	}
	return runewidth.FillRight(s, width)
}

// Pad pads s with spaces to at least width terminal cells. Unlike Fit it
// never truncates: strings already at or past width come back unchanged.
func Pad(s string, width int) string {
	if width <= 0 || runewidth.StringWidth(s) >= width {
		return s
	}
	return runewidth.FillRight(s, width)
}
