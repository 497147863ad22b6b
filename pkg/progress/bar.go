package progress

import (
	"iter"
	"time"

	"logbar/pkg/logbar"
	"logbar/pkg/term"
)

// Bar wraps a lazy sequence and renders its progress. Configuration is
// chainable and should happen before iteration starts; the zero
// configuration renders an auto-mode block bar on the shared logger's
// stream.
type Bar[T any] struct {
	src iter.Seq[T]
	st  *State
	r   *renderer
	log *logbar.Logger

	iterating bool
	unpinned  bool
	err       error
}

func newBar[T any](seq iter.Seq[T], total int) *Bar[T] {
	log := logbar.Shared()
	b := &Bar[T]{
		src: seq,
		st:  newState(total),
		log: log,
	}
	b.r = newRenderer(log.Term(), log.Theme(), b.st)
	return b
}

// Logger routes the bar's rendering and warnings through l instead of the
// shared logger. Must be called before iteration starts; style and step
// display configured earlier in the chain are kept.
func (b *Bar[T]) Logger(l *logbar.Logger) *Bar[T] {
	b.log = l
	b.r.w = l.Term()
	b.r.theme = l.Theme()
	return b
}

// Title sets the fixed title segment.
func (b *Bar[T]) Title(title string) *Bar[T] {
	b.warnLiveUpdate("title")
	b.st.setTitle(title)
	b.r.animStart = time.Now()
	return b
}

// Subtitle sets the subtitle, rendered on its own line below the bar.
func (b *Bar[T]) Subtitle(subtitle string) *Bar[T] {
	b.warnLiveUpdate("subtitle")
	b.st.setSubtitle(subtitle)
	return b
}

// Manual defers redrawing to explicit Draw calls.
func (b *Bar[T]) Manual() *Bar[T] {
	b.st.setMode(Manual)
	return b
}

// Auto redraws on every advance. This is the default.
func (b *Bar[T]) Auto() *Bar[T] {
	b.st.setMode(Auto)
	return b
}

// WithTotal overrides the total for sequences whose length is known to
// the caller but not to the wrapper.
func (b *Bar[T]) WithTotal(total int) *Bar[T] {
	b.st.setTotal(total)
	return b
}

// Style selects a named bar style; see Styles. An unknown name keeps the
// current style and warns once.
func (b *Bar[T]) Style(name string) *Bar[T] {
	s, ok := fillStyles[name]
	if !ok {
		b.log.WarnOnce("progress: unknown bar style %q, keeping current (available: %v)", name, Styles())
		return b
	}
	b.r.style = s
	return b
}

// Fill sets the fill and empty cells directly.
func (b *Bar[T]) Fill(fill, empty string) *Bar[T] {
	b.r.style = fillStyle{fill: fill, empty: empty}
	return b
}

// ShowSteps toggles the "[n of total]" segment on the left of the bar.
func (b *Bar[T]) ShowSteps(on bool) *Bar[T] {
	b.r.showSteps = on
	return b
}

// StepsOffset shifts the displayed step numbers, for sources that resume
// mid-sequence.
func (b *Bar[T]) StepsOffset(n int) *Bar[T] {
	b.r.stepsOffset = n
	return b
}

// State exposes the progress state for inspection.
func (b *Bar[T]) State() *State {
	return b.st
}

// Err returns the first write failure encountered during auto redraws,
// where no direct error return exists.
func (b *Bar[T]) Err() error {
	return b.err
}

// Items yields the wrapped sequence. Producing an element advances the
// state; in auto mode each advance repaints the bar. The bar registers
// with the coordinator on first use and is closed on every exit path,
// including an early break, so the cursor always ends below the bar.
func (b *Bar[T]) Items() iter.Seq[T] {
	return func(yield func(T) bool) {
		b.start()
		defer b.finish()
		for v := range b.src {
			if err := b.st.advance(1); err != nil {
				b.fail(err)
				return
			}
			if b.st.Mode() == Auto {
				b.autoDraw()
			}
			if !yield(v) {
				return
			}
		}
	}
}

// Advance moves the progress forward by n steps outside of iteration.
// In auto mode it also repaints; a bar that lost the renderer slot still
// advances its state but reports term.ErrRendererActive.
func (b *Bar[T]) Advance(n int) error {
	if n < 0 {
		return ErrBackwards
	}
	b.start()
	if err := b.st.advance(n); err != nil {
		return err
	}
	if b.st.Mode() == Auto {
		return b.draw()
	}
	return nil
}

// Draw repaints the bar from the current state. This is the manual-mode
// synchronization point. Drawing a finished bar returns ErrFinished; a
// bar rejected by the coordinator returns term.ErrRendererActive.
func (b *Bar[T]) Draw() error {
	if b.st.Finished() {
		return ErrFinished
	}
	b.start()
	return b.draw()
}

// Close finishes the bar: one final paint with a trailing newline (when
// anything was ever painted), then deregistration. The whole sequence
// runs under the render lock so a concurrent log emission can never
// repin the bar between its final paint and its teardown. Idempotent.
func (b *Bar[T]) Close() error {
	if b.st.Finished() {
		return nil
	}
	if b.unpinned {
		b.st.finish()
		return nil
	}
	return b.log.Coordinator().Finish(b.r, func() error {
		if b.st.Finished() {
			return nil
		}
		var err error
		if b.r.everPainted {
			err = b.r.redraw(true)
		}
		b.st.finish()
		return err
	})
}

// start registers the renderer on first use. When another bar is already
// active this one stays unpinned: it keeps producing elements and
// advancing state, but renders nothing (rejection policy, warned once).
func (b *Bar[T]) start() {
	if b.iterating {
		return
	}
	b.iterating = true
	if err := b.log.Coordinator().Register(b.r); err != nil {
		b.unpinned = true
		b.log.WarnOnce("progress: %v, this bar will not be rendered", err)
	}
}

func (b *Bar[T]) finish() {
	if err := b.Close(); err != nil {
		b.fail(err)
	}
}

func (b *Bar[T]) draw() error {
	if b.unpinned {
		return term.ErrRendererActive
	}
	return b.log.Coordinator().Sync(func(term.Pinned) error {
		return b.r.redraw(false)
	})
}

func (b *Bar[T]) autoDraw() {
	if b.unpinned || b.err != nil {
		return
	}
	if err := b.draw(); err != nil {
		b.fail(err)
	}
}

func (b *Bar[T]) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

// warnLiveUpdate flags title/subtitle changes after iteration started in
// auto mode: uncontrolled redraws race such updates, manual mode is the
// supported way to interleave them.
func (b *Bar[T]) warnLiveUpdate(what string) {
	if b.iterating && b.st.Mode() != Manual {
		b.log.WarnOnce("progress: %s updates after iteration starts require manual render mode", what)
	}
}
