package progress

import (
	"sync"
	"time"
)

// State holds the mutable state of one progress run. current only moves
// forward while the run is unfinished; once finished no further mutation
// is accepted.
type State struct {
	mu       sync.Mutex
	current  int
	total    int
	title    string
	subtitle string
	mode     RenderMode
	finished bool

	// widest title/subtitle seen, so shrinking text keeps stable padding
	maxTitle    int
	maxSubtitle int

	started time.Time
}

func newState(total int) *State {
	if total < 0 {
		total = UnknownTotal
	}
	return &State{
		total:   total,
		mode:    Auto,
		started: time.Now(),
	}
}

func (s *State) Current() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *State) Total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total
}

func (s *State) Mode() RenderMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

func (s *State) Finished() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finished
}

func (s *State) advance(n int) error {
	if n < 0 {
		return ErrBackwards
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finished {
		return ErrFinished
	}
	s.current += n
	return nil
}

func (s *State) setTotal(total int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if total < 0 {
		total = UnknownTotal
	}
	s.total = total
}

func (s *State) setTitle(title string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.title = title
	if len(title) > s.maxTitle {
		s.maxTitle = len(title)
	}
}

func (s *State) setSubtitle(subtitle string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subtitle = subtitle
	if len(subtitle) > s.maxSubtitle {
		s.maxSubtitle = len(subtitle)
	}
}

func (s *State) setMode(mode RenderMode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = mode
}

func (s *State) finish() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.finished = true
}

// stateView is an immutable snapshot handed to the renderer.
type stateView struct {
	current     int
	total       int
	title       string
	subtitle    string
	maxTitle    int
	maxSubtitle int
	started     time.Time
}

func (s *State) snapshot() stateView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return stateView{
		current:     s.current,
		total:       s.total,
		title:       s.title,
		subtitle:    s.subtitle,
		maxTitle:    s.maxTitle,
		maxSubtitle: s.maxSubtitle,
		started:     s.started,
	}
}
