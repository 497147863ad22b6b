package logbar

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Spec describes one column of a ColumnsPrinter. Span merges that many
// value slots under a single header cell. Width is an optional hint:
// an absolute cell count ("12") or a percentage of the table width ("40%").
type Spec struct {
	Label string
	Span  int
	Width string
}

// ColumnsPrinter formats rows into aligned columns and emits them through
// the Logger, so tables interleave correctly with an active progress bar.
// Column widths grow as wider values arrive and never shrink, keeping
// successive rows aligned.
type ColumnsPrinter struct {
	log     *Logger
	specs   []Spec
	starts  []int
	widths  []int
	pads    []int
	padding int
	hint    string

	lastBorder bool
}

// Columns returns a printer with one single-slot column per label.
func (l *Logger) Columns(labels ...string) *ColumnsPrinter {
	specs := make([]Spec, 0, len(labels))
	for _, label := range labels {
		specs = append(specs, Spec{Label: label})
	}
	return l.ColumnsSpec(specs...)
}

// ColumnsSpec returns a printer using explicit column specs.
func (l *Logger) ColumnsSpec(specs ...Spec) *ColumnsPrinter {
	c := &ColumnsPrinter{
		log:     l,
		padding: 2,
	}
	for _, s := range specs {
		if s.Span < 1 {
			s.Span = 1
		}
		c.specs = append(c.specs, s)
	}
	c.layout()
	c.initialWidths()
	return c
}

// Padding sets the per-cell padding (default 2).
func (c *ColumnsPrinter) Padding(n int) *ColumnsPrinter {
	if n < 0 {
		n = 0
	}
	c.padding = n
	c.initialWidths()
	return c
}

// Width sets the target table width: absolute ("80") or a percentage of
// the terminal width ("50%").
func (c *ColumnsPrinter) Width(hint string) *ColumnsPrinter {
	c.hint = hint
	c.initialWidths()
	return c
}

// Widths returns the current slot widths.
func (c *ColumnsPrinter) Widths() []int {
	out := make([]int, len(c.widths))
	copy(out, c.widths)
	return out
}

// Render emits the header row framed by borders and returns it.
func (c *ColumnsPrinter) Render() (string, error) {
	if len(c.specs) == 0 {
		return "", nil
	}
	row := c.headerRow()
	if err := c.printRow(LevelInfo, row); err != nil {
		return row, err
	}
	return row, nil
}

func (c *ColumnsPrinter) Info(values ...any) error  { return c.emitRow(LevelInfo, values) }
func (c *ColumnsPrinter) Debug(values ...any) error { return c.emitRow(LevelDebug, values) }
func (c *ColumnsPrinter) Warn(values ...any) error  { return c.emitRow(LevelWarn, values) }
func (c *ColumnsPrinter) Error(values ...any) error { return c.emitRow(LevelError, values) }
func (c *ColumnsPrinter) Crit(values ...any) error  { return c.emitRow(LevelCrit, values) }

func (c *ColumnsPrinter) emitRow(level Level, values []any) error {
	cells := c.prepare(values)
	for i, v := range cells {
		if w := runewidth.StringWidth(v); w > c.widths[i] {
			c.widths[i] = w
		}
	}
	return c.printRow(level, c.valueRow(cells))
}

// printRow frames a row with borders, collapsing the border shared by two
// consecutive rows.
func (c *ColumnsPrinter) printRow(level Level, row string) error {
	if !c.lastBorder {
		if err := c.log.Log(level, "%s", c.border()); err != nil {
			return err
		}
	}
	if err := c.log.Log(level, "%s", row); err != nil {
		return err
	}
	c.lastBorder = true
	return c.log.Log(level, "%s", c.border())
}

// prepare stringifies values and reconciles their count with the slot
// count: missing cells become empty, extra values widen the last column.
func (c *ColumnsPrinter) prepare(values []any) []string {
	cells := make([]string, 0, len(values))
	for _, v := range values {
		cells = append(cells, fmt.Sprint(v))
	}
	if len(cells) > len(c.widths) && len(c.specs) > 0 {
		grown := len(cells) - len(c.widths)
		c.specs[len(c.specs)-1].Span += grown
		c.layout()
		// Only the appended slots start minimal; widths already learned
		// from earlier rows never shrink.
		for i := len(c.widths) - grown; i < len(c.widths); i++ {
			if c.widths[i] < 1 {
				c.widths[i] = 1
			}
		}
	}
	for len(cells) < len(c.widths) {
		cells = append(cells, "")
	}
	return cells[:len(c.widths)]
}

// layout recomputes slot starts and sizes the width/pad slices.
func (c *ColumnsPrinter) layout() {
	c.starts = c.starts[:0]
	slots := 0
	for _, s := range c.specs {
		c.starts = append(c.starts, slots)
		slots += s.Span
	}
	widths := make([]int, slots)
	pads := make([]int, slots)
	n := copy(widths, c.widths)
	copy(pads, c.pads)
	for ; n < slots; n++ {
		pads[n] = c.padding
	}
	c.widths = widths
	c.pads = pads
}

// initialWidths resets slot widths from the header labels and width
// hints, then distributes any remaining target width round-robin over the
// hint-less columns.
func (c *ColumnsPrinter) initialWidths() {
	if len(c.widths) == 0 {
		return
	}
	for i := range c.widths {
		c.widths[i] = 1
		c.pads[i] = c.padding
	}

	target := c.targetWidth()
	for i, s := range c.specs {
		if s.Width == "" {
			continue
		}
		c.applyHint(i, resolveHint(s.Width, target))
	}
	c.growLabels()

	current := c.totalWidth()
	if current >= target {
		return
	}
	var expandable []int
	for i, s := range c.specs {
		if s.Width == "" {
			expandable = append(expandable, i)
		}
	}
	if len(expandable) == 0 {
		for i := range c.specs {
			expandable = append(expandable, i)
		}
	}
	for remaining := target - current; remaining > 0; {
		for _, col := range expandable {
			if remaining <= 0 {
				break
			}
			c.widths[c.starts[col]]++
			remaining--
		}
	}
}

// applyHint pins a column to target cells, dropping its padding so small
// hints stay honest.
func (c *ColumnsPrinter) applyHint(col, target int) {
	start, span := c.starts[col], c.specs[col].Span
	for i := start; i < start+span; i++ {
		c.pads[i] = 0
		c.widths[i] = 1
	}
	min := c.columnWidth(col)
	for extra := target - min; extra > 0; {
		for i := start; i < start+span && extra > 0; i++ {
			c.widths[i]++
			extra--
		}
	}
}

// growLabels widens each column's first slot until its header label fits.
func (c *ColumnsPrinter) growLabels() {
	for i, s := range c.specs {
		start := c.starts[i]
		end := start + s.Span - 1
		inner := c.columnWidth(i) - c.pads[start] - c.pads[end]
		if deficit := runewidth.StringWidth(s.Label) - inner; deficit > 0 {
			c.widths[start] += deficit
		}
	}
}

// columnWidth is the rendered width of a header cell: its slots, their
// padding, and the separators the merged cell swallows.
func (c *ColumnsPrinter) columnWidth(col int) int {
	start, span := c.starts[col], c.specs[col].Span
	total := span - 1
	for i := start; i < start+span; i++ {
		total += c.widths[i] + 2*c.pads[i]
	}
	return total
}

func (c *ColumnsPrinter) totalWidth() int {
	total := 0
	for i := range c.specs {
		total += c.columnWidth(i)
	}
	return total
}

// targetWidth resolves the table width hint against the usable terminal
// width (what remains after the level field). Unknown terminal width
// collapses to the minimal layout.
func (c *ColumnsPrinter) targetWidth() int {
	available := 0
	if cols := c.log.Term().Width(); cols > 0 {
		available = cols - (levelFieldWidth + 1)
		if available < 0 {
			available = 0
		}
	}
	target := available
	if c.hint != "" {
		target = resolveHint(c.hint, available)
	}
	return target
}

func resolveHint(hint string, total int) int {
	if strings.HasSuffix(hint, "%") {
		pct, err := strconv.ParseFloat(strings.TrimSuffix(hint, "%"), 64)
		if err != nil || pct <= 0 {
			return 0
		}
		return int(float64(total) * pct / 100)
	}
	n, err := strconv.Atoi(strings.TrimSpace(hint))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func (c *ColumnsPrinter) headerRow() string {
	cells := make([]string, 0, len(c.specs))
	for i, s := range c.specs {
		start := c.starts[i]
		end := start + s.Span - 1
		inner := c.columnWidth(i) - c.pads[start] - c.pads[end]
		cells = append(cells,
			pad(c.pads[start])+runewidth.FillRight(s.Label, inner)+pad(c.pads[end]))
	}
	return "|" + strings.Join(cells, "|") + "|"
}

func (c *ColumnsPrinter) valueRow(cells []string) string {
	parts := make([]string, 0, len(cells))
	for i, v := range cells {
		parts = append(parts,
			pad(c.pads[i])+runewidth.FillRight(v, c.widths[i])+pad(c.pads[i]))
	}
	return "|" + strings.Join(parts, "|") + "|"
}

func (c *ColumnsPrinter) border() string {
	segments := make([]string, 0, len(c.widths))
	for i, w := range c.widths {
		segments = append(segments, strings.Repeat("-", w+2*c.pads[i]))
	}
	return "+" + strings.Join(segments, "+") + "+"
}

func pad(n int) string {
	return strings.Repeat(" ", n)
}
