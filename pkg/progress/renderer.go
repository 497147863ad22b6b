package progress

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"

	"logbar/pkg/logbar"
	"logbar/pkg/term"
)

// renderer owns the redraw protocol for one bar. All painting happens
// under the coordinator's render lock: the logger calls Lift/Repin while
// holding it, the bar's own redraws go through Coordinator.Sync.
type renderer struct {
	w     *term.Writer
	theme *logbar.Theme
	st    *State

	style       fillStyle
	showSteps   bool
	stepsOffset int
	animPeriod  time.Duration
	animStart   time.Time

	// rows is the number of terminal lines the previous paint occupies;
	// 0 means nothing is on screen yet.
	rows        int
	everPainted bool
	lastPlain   string
}

func newRenderer(w *term.Writer, theme *logbar.Theme, st *State) *renderer {
	return &renderer{
		w:          w,
		theme:      theme,
		st:         st,
		style:      fillStyles["block"],
		showSteps:  true,
		animPeriod: 100 * time.Millisecond,
		animStart:  time.Now(),
	}
}

func (r *renderer) Finished() bool {
	return r.st.Finished()
}

func (r *renderer) Rows() int {
	return r.rows
}

// Lift clears the painted lines, leaving the cursor at column 0 of the
// former first bar line, ready for a scrolling log line.
func (r *renderer) Lift() error {
	if r.rows == 0 || !r.w.Interactive() {
		return nil
	}
	if err := r.w.ClearLine(); err != nil {
		return err
	}
	for i := 1; i < r.rows; i++ {
		if err := r.w.CursorUp(1); err != nil {
			return err
		}
		if err := r.w.ClearLine(); err != nil {
			return err
		}
	}
	return nil
}

// Repin repaints the bar from the last known state after a log line
// displaced it. No-op until the bar has painted at least once.
func (r *renderer) Repin() error {
	if r.rows == 0 || !r.w.Interactive() {
		return nil
	}
	return r.paint(false)
}

// redraw runs the full protocol: clear the previous paint, recompute the
// display lines, and write them without a trailing newline so the cursor
// stays at end-of-bar. The final redraw adds the newline that leaves the
// cursor on a fresh line below the bar.
func (r *renderer) redraw(final bool) error {
	if !r.w.Interactive() {
		return r.sequential(final)
	}
	if err := r.Lift(); err != nil {
		return err
	}
	return r.paint(final)
}

func (r *renderer) paint(final bool) error {
	lines := r.render()
	r.rows = len(lines)
	r.everPainted = true
	for i, line := range lines {
		if i > 0 {
			if err := r.w.WriteRaw("\n"); err != nil {
				return err
			}
		}
		if err := r.w.WriteRaw(line); err != nil {
			return err
		}
	}
	if final {
		return r.w.WriteRaw("\n")
	}
	return nil
}

// sequential is the degraded mode for non-interactive streams: plain full
// lines, no cursor control. Identical consecutive renders are suppressed
// so auto mode does not flood redirected output.
func (r *renderer) sequential(final bool) error {
	joined := strings.Join(r.plainLines(), "\n")
	if joined == r.lastPlain {
		return nil
	}
	r.lastPlain = joined
	r.everPainted = true
	return r.w.WriteLine(joined)
}

// render returns the display lines, styled for an interactive stream:
// the bar line, plus the subtitle on its own line when set.
func (r *renderer) render() []string {
	s := r.st.snapshot()
	width := r.w.Width()

	line := r.barLine(s, width)
	if s.title != "" && strings.HasPrefix(line, s.title) {
		line = r.animatedText(s.title) + line[len(s.title):]
	}

	lines := []string{line}
	if s.subtitle != "" {
		lines = append(lines, term.Fit(s.subtitle, width))
	}
	return lines
}

func (r *renderer) plainLines() []string {
	s := r.st.snapshot()
	lines := []string{r.barLine(s, 0)}
	if s.subtitle != "" {
		lines = append(lines, s.subtitle)
	}
	return lines
}

// barLine lays out the first display line in plain text:
//
//	TITLE [cur of total] ████----| elapsed / remaining [cur/total] P.p%
//
// The bar segment absorbs whatever width remains between the left prefix
// and the trailing counters.
func (r *renderer) barLine(s stateView, width int) string {
	tail := r.tail(s)

	left := ""
	if s.title != "" {
		left = s.title + strings.Repeat(" ", s.maxTitle-len(s.title)) + " "
	}
	if r.showSteps && s.total >= 0 {
		left += fmt.Sprintf("[%d of %d] ", s.current-r.stepsOffset, s.total-r.stepsOffset)
	}

	if s.total < 0 {
		return term.Fit(left+tail, width)
	}

	barLen := 0
	if width > 0 {
		barLen = width - runewidth.StringWidth(left) - runewidth.StringWidth(tail) - 2
		if barLen < 0 {
			barLen = 0
		}
	}
	filled := 0
	if s.total > 0 {
		filled = barLen * s.current / s.total
		if filled > barLen {
			filled = barLen
		}
	} else {
		filled = barLen
	}
	bar := strings.Repeat(r.style.fill, filled) + strings.Repeat(r.style.empty, barLen-filled)
	return term.Fit(left+bar+"| "+tail, width)
}

// tail renders the counter segment. A known total gets elapsed/remaining
// and an exact percentage; an unknown total degrades to a step counter
// with no percentage at all.
func (r *renderer) tail(s stateView) string {
	elapsed := time.Since(s.started).Truncate(time.Second)
	if s.total < 0 {
		return fmt.Sprintf("%s steps in %s", humanize.Comma(int64(s.current)), elapsed)
	}

	pct := 100.0
	if s.total > 0 {
		pct = 100 * float64(s.current) / float64(s.total)
	}
	steps := s.current
	if steps < 1 {
		steps = 1
	}
	remaining := time.Duration(float64(elapsed) / float64(steps) * float64(s.total)).Truncate(time.Second)
	return fmt.Sprintf("%s / %s [%d/%d] %.1f%%", elapsed, remaining, s.current, s.total, pct)
}

// animatedText sweeps a highlighted rune across the text, one position
// per animation period. Non-interactive streams never reach here.
func (r *renderer) animatedText(text string) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return ""
	}
	idx := int(time.Since(r.animStart)/r.animPeriod) % len(runes)
	var b strings.Builder
	for i, ch := range runes {
		if i == idx {
			b.WriteString(r.theme.TitleHighlight.Render(string(ch)))
		} else {
			b.WriteString(r.theme.TitleBase.Render(string(ch)))
		}
	}
	return b.String()
}
