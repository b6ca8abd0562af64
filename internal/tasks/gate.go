package tasks

import (
	"context"
	"sync"
)

// Gate is the cooperative pause signal shared between the UI and the
// worker. The worker calls Wait at track boundaries; while paused, Wait
// blocks on a change notification instead of polling. Pausing never
// interrupts an in-flight subprocess.
type Gate struct {
	mu      sync.Mutex
	paused  bool
	resumed chan struct{} // closed while running, replaced on pause
}

// NewGate returns a gate in the running state.
func NewGate() *Gate {
	ch := make(chan struct{})
	close(ch)

	return &Gate{resumed: ch}
}

// Pause blocks future Wait calls until Resume.
func (g *Gate) Pause() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.paused {
		g.paused = true
		g.resumed = make(chan struct{})
	}
}

// Resume releases every goroutine blocked in Wait.
func (g *Gate) Resume() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.paused {
		g.paused = false
		close(g.resumed)
	}
}

// Toggle flips the pause state and returns whether the gate is now
// paused.
func (g *Gate) Toggle() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.paused = !g.paused
	if g.paused {
		g.resumed = make(chan struct{})
	} else {
		close(g.resumed)
	}

	return g.paused
}

// Paused reports the current state.
func (g *Gate) Paused() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.paused
}

// Wait blocks while the gate is paused. It returns early with the
// context's error if ctx is cancelled.
func (g *Gate) Wait(ctx context.Context) error {
	for {
		g.mu.Lock()
		if !g.paused {
			g.mu.Unlock()
			return nil
		}
		ch := g.resumed
		g.mu.Unlock()

		select {
		case <-ch:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
