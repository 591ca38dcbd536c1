package config

import (
	"context"
	"log"
	"sync"

	"github.com/justyntemme/twinpane/internal/debug"
)

// Saver persists snapshots on its own goroutine. Snapshots queued while a
// save is running collapse into the newest one.
type Saver struct {
	backend Backend
	wake    chan struct{}

	mu      sync.Mutex
	pending *Config

	saveMu sync.Mutex
}

func NewSaver(b Backend) *Saver {
	return &Saver{backend: b, wake: make(chan struct{}, 1)}
}

// Enqueue schedules cfg for saving and returns immediately. It has the
// signature of a Store change effect.
func (s *Saver) Enqueue(cfg Config) {
	s.mu.Lock()
	s.pending = &cfg
	s.mu.Unlock()
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Run saves queued snapshots until ctx is done, then flushes what is left.
func (s *Saver) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			s.Flush()
			return
		case <-s.wake:
			s.saveNext()
		}
	}
}

// Flush saves any pending snapshot on the calling goroutine.
func (s *Saver) Flush() {
	s.saveNext()
}

func (s *Saver) saveNext() {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.Lock()
	cfg := s.pending
	s.pending = nil
	s.mu.Unlock()
	if cfg == nil {
		return
	}
	if err := s.backend.Save(*cfg); err != nil {
		log.Printf("Config: save failed: %v", err)
		return
	}
	debug.Log(debug.CONFIG, "saved")
}
