package logbar

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"logbar/pkg/term"
)

func TestLogLevels(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(buf)

	log.Debug("hello debug")
	log.Info("hello info")
	log.Warn("hello warn")
	log.Error("hello error")
	log.Crit("hello critical")

	out := buf.String()
	for _, want := range []string{
		"[DEBUG] hello debug",
		"[INFO]  hello info",
		"[WARN]  hello warn",
		"[ERROR] hello error",
		"[CRIT]  hello critical",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q, got: %q", want, out)
		}
	}
}

func TestLogFormatting(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(buf)

	log.Info("value: %d of %d", 3, 10)
	if !strings.Contains(buf.String(), "value: 3 of 10") {
		t.Errorf("Expected formatted message, got: %q", buf.String())
	}

	buf.Reset()
	// Without args the message passes through untouched, escapes and all.
	log.Info("ratio 100%% done")
	if !strings.Contains(buf.String(), "ratio 100%% done") {
		t.Errorf("Expected verbatim message, got: %q", buf.String())
	}

	buf.Reset()
	// Verbs inside argument values never reach the formatter.
	log.Info("%s", "literal %d inside")
	if !strings.Contains(buf.String(), "literal %d inside") {
		t.Errorf("Expected argument text to survive untouched, got: %q", buf.String())
	}
}

func TestLongMessageIsNeverTruncated(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewTerm(term.NewWriter(buf).ForceInteractive(true).ForceWidth(20))
	log.theme = &Theme{}

	msg := "this message is much longer than the terminal width"
	log.Info("%s", msg)

	// Narrow terminals wrap long lines; they never lose content.
	if !strings.Contains(buf.String(), msg) {
		t.Errorf("Expected the full message on a narrow terminal, got: %q", buf.String())
	}
}

func TestLogOnceSuppressesRepeat(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(buf)

	log.InfoOnce("hello once")
	log.InfoOnce("hello once")

	if got := strings.Count(buf.String(), "hello once"); got != 1 {
		t.Errorf("Expected exactly one emission, got %d: %q", got, buf.String())
	}
}

func TestLogOnceDistinctKeys(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(buf)

	log.LogOnce(LevelInfo, "k1", "same message")
	log.LogOnce(LevelInfo, "k2", "same message")

	if got := strings.Count(buf.String(), "same message"); got != 2 {
		t.Errorf("Expected both keyed emissions, got %d: %q", got, buf.String())
	}

	// A key already present suppresses even a different message.
	log.LogOnce(LevelInfo, "k1", "other message")
	if strings.Contains(buf.String(), "other message") {
		t.Errorf("Expected keyed suppression, got: %q", buf.String())
	}
}

func TestLogPadsToTerminalWidth(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewTerm(term.NewWriter(buf).ForceInteractive(true).ForceWidth(40))
	log.theme = &Theme{} // zero styles keep the byte count honest

	log.Info("short")

	line := strings.TrimSuffix(buf.String(), "\n")
	if len(line) != 40 {
		t.Errorf("Expected line padded to 40 cells, got %d: %q", len(line), line)
	}
}

func TestLogWithoutTerminal(t *testing.T) {
	// Logging must keep working when the stream has no terminal state:
	// plain lines, no padding, no escapes.
	buf := &bytes.Buffer{}
	log := New(buf)

	log.Info("logging without terminal")

	out := buf.String()
	if out != "[INFO]  logging without terminal\n" {
		t.Errorf("Expected bare line, got: %q", out)
	}
}

type recordingPinned struct {
	w      *term.Writer
	events []string
}

func (p *recordingPinned) Lift() error {
	p.events = append(p.events, "lift")
	return p.w.ClearLine()
}

func (p *recordingPinned) Repin() error {
	p.events = append(p.events, "repin")
	return p.w.WriteRaw("BAR")
}

func (p *recordingPinned) Rows() int      { return 1 }
func (p *recordingPinned) Finished() bool { return false }

func TestLogLiftsAndRepinsActiveRenderer(t *testing.T) {
	buf := &bytes.Buffer{}
	tw := term.NewWriter(buf).ForceInteractive(true)
	log := NewTerm(tw)

	pinned := &recordingPinned{w: tw}
	if err := log.Coordinator().Register(pinned); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	log.Info("scrolling line")

	if got := strings.Join(pinned.events, ","); got != "lift,repin" {
		t.Errorf("Expected lift then repin, got: %q", got)
	}
	out := buf.String()
	liftIdx := strings.Index(out, "\r\x1b[2K")
	msgIdx := strings.Index(out, "scrolling line")
	barIdx := strings.Index(out, "BAR")
	if liftIdx < 0 || msgIdx < 0 || barIdx < 0 || !(liftIdx < msgIdx && msgIdx < barIdx) {
		t.Errorf("Expected lift/print/repin ordering, got: %q", out)
	}

	log.Info("second line")
	if got := strings.Join(pinned.events, ","); got != "lift,repin,lift,repin" {
		t.Errorf("Expected a repin between consecutive log lines, got: %q", got)
	}
}

type brokenStream struct{}

func (brokenStream) Write(p []byte) (int, error) {
	return 0, errors.New("stream closed")
}

func TestLogSurfacesStreamFailure(t *testing.T) {
	log := New(brokenStream{})
	if err := log.Info("does not matter"); err == nil {
		t.Error("Expected stream failure to surface to the caller")
	}
}
