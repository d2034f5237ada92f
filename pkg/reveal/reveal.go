// Package reveal implements the typewriter presentation of a completed
// answer: the text is shown one rune at a time on a fixed interval rather
// than all at once. It has no effect on what is persisted or returned by
// the exchange itself.
package reveal

import (
	"context"
	"sync"
	"time"
)

// DefaultInterval is the delay between revealed runes
const DefaultInterval = 5 * time.Millisecond

// Renderer reveals answers progressively. Starting a new reveal always
// invalidates the one in flight: a superseded reveal stops emitting
// immediately, so two answers can never interleave in the output.
type Renderer struct {
	interval time.Duration

	mu     sync.Mutex
	gen    uint64
	active bool
}

// NewRenderer creates a renderer with the given per-rune interval
func NewRenderer(interval time.Duration) *Renderer {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Renderer{interval: interval}
}

// InProgress reports whether a reveal is currently running. The caller-facing
// surface uses this to keep actions that assume a finished answer (copy,
// like/dislike) disabled until the reveal completes.
func (r *Renderer) InProgress() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

// Start begins revealing answer. emit receives each successively longer
// prefix; the final emission equals answer exactly once. The returned
// channel is closed when the reveal finishes or is superseded/canceled.
func (r *Renderer) Start(ctx context.Context, answer string, emit func(prefix string)) <-chan struct{} {
	r.mu.Lock()
	r.gen++
	gen := r.gen
	r.active = true
	r.mu.Unlock()

	done := make(chan struct{})
	go r.run(ctx, gen, answer, emit, done)
	return done
}

func (r *Renderer) run(ctx context.Context, gen uint64, answer string, emit func(string), done chan struct{}) {
	defer close(done)

	runes := []rune(answer)
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for i := 1; i <= len(runes); i++ {
		select {
		case <-ctx.Done():
			r.finish(gen)
			return
		case <-ticker.C:
		}

		// The emit happens under the lock so the staleness check and the
		// write are atomic: once a newer reveal has started, this one can
		// never emit again.
		r.mu.Lock()
		if r.gen != gen {
			r.mu.Unlock()
			return
		}
		emit(string(runes[:i]))
		if i == len(runes) {
			r.active = false
		}
		r.mu.Unlock()
	}

	r.finish(gen)
}

// finish clears the in-progress flag if this reveal is still the current one
func (r *Renderer) finish(gen uint64) {
	r.mu.Lock()
	if r.gen == gen {
		r.active = false
	}
	r.mu.Unlock()
}
