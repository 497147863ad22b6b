// Command logbar demonstrates the output coordinator: a bottom-pinned
// progress bar, scrolling log lines from concurrent workers, manual-mode
// redraws, and column-aligned tables, all on one terminal stream.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"logbar/pkg/logbar"
	"logbar/pkg/progress"
)

func main() {
	steps := flag.Int("steps", 30, "steps for the auto-mode bar")
	workers := flag.Int("workers", 3, "workers logging while the bar runs")
	delay := flag.Duration("delay", 80*time.Millisecond, "per-step delay")
	style := flag.String("style", "block", "bar style, one of: "+fmt.Sprint(progress.Styles()))
	flag.Parse()

	log := logbar.Shared()

	if err := runAuto(log, *steps, *workers, *delay, *style); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := runManual(log, *delay); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	runColumns(log)
}

// runAuto iterates an auto-mode bar while worker goroutines log through
// the same stream; the coordinator keeps the bar pinned below the chatter.
func runAuto(log *logbar.Logger, steps, workers int, delay time.Duration, style string) error {
	log.Info("auto mode: %d steps, %d chatty workers", steps, workers)

	bar := progress.Steps(steps).Title("demo").Style(style)
	done := make(chan struct{})

	var g errgroup.Group
	for w := 0; w < workers; w++ {
		w := w
		g.Go(func() error {
			ticker := time.NewTicker(3 * delay)
			defer ticker.Stop()
			for i := 0; ; i++ {
				select {
				case <-done:
					return nil
				case <-ticker.C:
					if err := log.Info("worker %d: event %d", w, i); err != nil {
						return err
					}
				}
			}
		})
	}

	for range bar.Items() {
		time.Sleep(delay)
	}
	close(done)
	if err := g.Wait(); err != nil {
		return err
	}
	return bar.Err()
}

// runManual shows the explicit synchronization point: each item logs a
// line, updates the subtitle, and triggers exactly one redraw.
func runManual(log *logbar.Logger, delay time.Duration) error {
	log.Info("manual mode: per-item subtitles")

	items := []string{"alpha", "beta", "gamma", "delta", "epsilon"}
	bar := progress.Over(items).Title("stages").Manual()
	for name := range bar.Items() {
		if err := log.Info("processing %s", name); err != nil {
			return err
		}
		bar.Subtitle("current: " + name)
		if err := bar.Draw(); err != nil {
			return err
		}
		time.Sleep(2 * delay)
	}
	return nil
}

func runColumns(log *logbar.Logger) {
	log.Info("columns")

	cols := log.Columns("stage", "items", "status")
	cols.Render()
	cols.Info("alpha", 12, "ok")
	cols.Info("beta", 3, "ok")
	cols.Warn("gamma", 0, "skipped")
}
