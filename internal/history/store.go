// Package history keeps a bounded in-memory metric history per resource,
// optionally backed by a durable series store for continuity across
// restarts.
package history

import (
	"context"
	"log"
	"sync"

	"netpulse/internal/domain"
	"netpulse/internal/repository"
)

type write struct {
	resourceID string
	sample     domain.Sample
}

// Store owns the per-resource ring buffers. The in-memory buffer is
// authoritative for the current process; durable writes are best-effort
// and never block or fail the caller.
type Store struct {
	cap     int
	durable repository.SeriesStore // nil disables persistence

	mu      sync.Mutex
	buffers map[string][]domain.Sample

	writes    chan write
	onFailure func()
}

// NewStore creates a history store capped at domain.HistoryCap samples per
// resource. Pass a nil durable store to keep history purely in memory.
func NewStore(durable repository.SeriesStore) *Store {
	return &Store{
		cap:     domain.HistoryCap,
		durable: durable,
		buffers: make(map[string][]domain.Sample),
		writes:  make(chan write, 1024),
	}
}

// OnPersistFailure registers a callback invoked whenever a durable write
// fails or is dropped. Set before Run.
func (s *Store) OnPersistFailure(fn func()) {
	s.onFailure = fn
}

func (s *Store) persistFailed() {
	if s.onFailure != nil {
		s.onFailure()
	}
}

// Run drains the durable write queue until the context is cancelled.
// A single drainer preserves per-resource append order on disk.
func (s *Store) Run(ctx context.Context) {
	if s.durable == nil {
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		case w := <-s.writes:
			if err := s.durable.AppendSample(ctx, w.resourceID, w.sample); err != nil {
				log.Printf("Failed to persist sample for %s: %v", w.resourceID, err)
				s.persistFailed()
			}
		}
	}
}

// Append adds a sample to the resource's buffer, evicting the oldest
// sample once the cap is exceeded, and returns a copy of the buffer.
func (s *Store) Append(resourceID string, sample domain.Sample) []domain.Sample {
	s.mu.Lock()
	buf := append(s.buffers[resourceID], sample)
	if len(buf) > s.cap {
		buf = buf[len(buf)-s.cap:]
	}
	s.buffers[resourceID] = buf
	out := make([]domain.Sample, len(buf))
	copy(out, buf)
	s.mu.Unlock()

	if s.durable != nil {
		select {
		case s.writes <- write{resourceID: resourceID, sample: sample}:
		default:
			// Persistence is falling behind; the in-memory buffer stays
			// authoritative and the sample is dropped from durable storage.
			log.Printf("History write queue full, dropping durable sample for %s", resourceID)
			s.persistFailed()
		}
	}

	return out
}

// Load returns the resource's history, reloading from durable storage on
// first access. Unreadable series degrade to empty.
func (s *Store) Load(ctx context.Context, resourceID string) []domain.Sample {
	s.mu.Lock()
	if buf, ok := s.buffers[resourceID]; ok {
		out := make([]domain.Sample, len(buf))
		copy(out, buf)
		s.mu.Unlock()
		return out
	}
	s.mu.Unlock()

	if s.durable == nil {
		return []domain.Sample{}
	}

	samples, err := s.durable.LoadSeries(ctx, resourceID, s.cap)
	if err != nil {
		log.Printf("Failed to load history for %s, starting empty: %v", resourceID, err)
		return []domain.Sample{}
	}

	s.mu.Lock()
	s.buffers[resourceID] = samples
	out := make([]domain.Sample, len(samples))
	copy(out, samples)
	s.mu.Unlock()
	return out
}

// MostRecentValue returns the last appended value for the resource,
// consulting durable storage when the buffer is empty. Used to seed
// waveform base values so metrics stay continuous across restarts.
func (s *Store) MostRecentValue(ctx context.Context, resourceID string) (float64, bool) {
	s.mu.Lock()
	if buf, ok := s.buffers[resourceID]; ok && len(buf) > 0 {
		v := buf[len(buf)-1].Value
		s.mu.Unlock()
		return v, true
	}
	s.mu.Unlock()

	if s.durable == nil {
		return 0, false
	}

	v, ok, err := s.durable.LastValue(ctx, resourceID)
	if err != nil {
		log.Printf("Failed to read last value for %s: %v", resourceID, err)
		return 0, false
	}
	return v, ok
}

// Len returns the current buffer length for the resource
func (s *Store) Len(resourceID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.buffers[resourceID])
}
