package expression

import (
	"context"
	"sync"
	"time"
)

// DefaultCadence matches the usual detection polling interval.
const DefaultCadence = 100 * time.Millisecond

// Sampler keeps the most recent label offered by any number of producers and
// releases it at most once per cadence tick.
type Sampler struct {
	cadence time.Duration

	mu     sync.Mutex
	latest string
	fresh  bool
}

// NewSampler creates a sampler. Non-positive cadences use DefaultCadence.
func NewSampler(cadence time.Duration) *Sampler {
	if cadence <= 0 {
		cadence = DefaultCadence
	}
	return &Sampler{cadence: cadence}
}

// Cadence returns the sampling period.
func (s *Sampler) Cadence() time.Duration {
	return s.cadence
}

// Offer records a label, replacing any label not yet taken.
func (s *Sampler) Offer(label string) {
	s.mu.Lock()
	s.latest = label
	s.fresh = true
	s.mu.Unlock()
}

// Take returns the latest label if one arrived since the previous Take.
func (s *Sampler) Take() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.fresh {
		return "", false
	}
	s.fresh = false
	return s.latest, true
}

// Run delivers sampled labels to emit once per cadence until ctx is done.
func (s *Sampler) Run(ctx context.Context, emit func(label string)) {
	ticker := time.NewTicker(s.cadence)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if label, ok := s.Take(); ok {
				emit(label)
			}
		}
	}
}
