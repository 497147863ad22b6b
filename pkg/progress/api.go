// Package progress renders a single bottom-pinned progress bar that
// coexists with scrolling log output. A Bar wraps a lazy sequence: each
// element produced advances the progress state, and in auto mode repaints
// the bar in place.
package progress

import (
	"errors"
	"iter"
	"slices"
)

// UnknownTotal marks a source sequence of unknown length. The bar then
// renders an elapsed step counter instead of a percentage.
const UnknownTotal = -1

// RenderMode selects when the bar repaints.
type RenderMode int

const (
	// Auto repaints on every advance of the wrapped sequence.
	Auto RenderMode = iota
	// Manual defers all repainting to explicit Draw calls, giving the
	// caller a synchronization point to interleave logs and subtitle
	// updates without racing the redraw.
	Manual
)

var (
	// ErrFinished reports a draw or advance on a bar that already
	// reached its final state.
	ErrFinished = errors.New("progress bar already finished")
	// ErrBackwards reports an attempt to move progress backwards.
	ErrBackwards = errors.New("progress cannot move backwards")
)

// fillStyle is a named pair of fill/empty cells for the bar segment.
type fillStyle struct {
	fill  string
	empty string
}

var fillStyles = map[string]fillStyle{
	"block": {"█", "-"},
	"ascii": {"#", "-"},
	"dots":  {"⣿", "⣀"},
	"arrow": {"=", " "},
}

// Styles lists the available named bar styles.
func Styles() []string {
	names := make([]string, 0, len(fillStyles))
	for name := range fillStyles {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Each wraps an arbitrary sequence of unknown length. Use WithTotal when
// the length is known ahead of time.
func Each[T any](seq iter.Seq[T]) *Bar[T] {
	return newBar(seq, UnknownTotal)
}

// Over wraps a slice; the total is its length.
func Over[T any](items []T) *Bar[T] {
	return newBar(slices.Values(items), len(items))
}

// Steps returns a bar over the integers 0..n-1.
func Steps(n int) *Bar[int] {
	seq := func(yield func(int) bool) {
		for i := 0; i < n; i++ {
			if !yield(i) {
				return
			}
		}
	}
	return newBar(seq, n)
}
