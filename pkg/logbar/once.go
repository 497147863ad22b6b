package logbar

import "sync"

// onceRegistry tracks which message keys have already been emitted.
// Keys are never evicted: "once" means once per process run.
type onceRegistry struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

func newOnceRegistry() *onceRegistry {
	return &onceRegistry{seen: make(map[string]struct{})}
}

// add inserts key and reports whether it was newly inserted.
func (r *onceRegistry) add(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.seen[key]; ok {
		return false
	}
	r.seen[key] = struct{}{}
	return true
}
