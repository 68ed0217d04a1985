// Package state owns the per-network simulation state and orchestrates
// metric recomputation, alert classification, history retention, and
// snapshot diffing.
package state

import (
	"context"
	"math/rand"
	"sort"
	"sync"
	"time"

	"netpulse/internal/alert"
	"netpulse/internal/diff"
	"netpulse/internal/domain"
	"netpulse/internal/history"
	"netpulse/internal/topology"
	"netpulse/internal/waveform"
)

// networkState is the exclusively-owned mutable state for one network id.
// All reads and writes go through its mutex so that "read old snapshot,
// compute new, replace" is atomic per id.
type networkState struct {
	mu         sync.Mutex
	data       *domain.NetworkData
	lastUpdate time.Time
	patterns   map[string]waveform.Pattern
}

// Store maps network ids to their owned state. States are created lazily
// on first access and live for the process lifetime.
type Store struct {
	factory    *topology.Factory
	history    *history.Store
	classifier alert.Classifier

	now func() time.Time

	rngMu sync.Mutex
	rng   *rand.Rand

	mu     sync.Mutex
	states map[string]*networkState
}

// NewStore creates a state store wired to its collaborators
func NewStore(factory *topology.Factory, hist *history.Store, classifier alert.Classifier) *Store {
	return &Store{
		factory:    factory,
		history:    hist,
		classifier: classifier,
		now:        time.Now,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
		states:     make(map[string]*networkState),
	}
}

// WithNow replaces the clock, for tests
func (s *Store) WithNow(now func() time.Time) *Store {
	s.now = now
	return s
}

// WithRand replaces the pattern random source, for tests
func (s *Store) WithRand(r *rand.Rand) *Store {
	s.rng = r
	return s
}

// Snapshot recomputes every resource of the network from elapsed time and
// returns the complete new snapshot.
func (s *Store) Snapshot(ctx context.Context, id string) (*domain.NetworkData, error) {
	st, err := s.getOrCreate(ctx, id)
	if err != nil {
		return nil, err
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	newData, _ := s.recompute(st)
	return newData, nil
}

// Update performs the same recomputation as Snapshot but returns only the
// sparse diff against the snapshot from immediately before this call.
func (s *Store) Update(ctx context.Context, id string) (*domain.Diff, error) {
	st, err := s.getOrCreate(ctx, id)
	if err != nil {
		return nil, err
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	newData, oldData := s.recompute(st)
	return diff.Compute(oldData, newData)
}

// Invalidate drops the cached state for a network id so the next access
// rebuilds it from its seed. Used when a seed file changes on disk.
func (s *Store) Invalidate(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.states[id]; !ok {
		return false
	}
	delete(s.states, id)
	return true
}

// Networks returns the ids with live state, sorted
func (s *Store) Networks() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.states))
	for id := range s.states {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// getOrCreate returns the owned state for the id, building it on first
// access. The map lock is held only around lookup and insertion; builds
// for distinct ids proceed in parallel, and a lost insertion race discards
// the duplicate build.
func (s *Store) getOrCreate(ctx context.Context, id string) (*networkState, error) {
	s.mu.Lock()
	if st, ok := s.states[id]; ok {
		s.mu.Unlock()
		return st, nil
	}
	s.mu.Unlock()

	st, err := s.create(ctx, id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.states[id]; ok {
		return existing, nil
	}
	s.states[id] = st
	return st, nil
}

func (s *Store) create(ctx context.Context, id string) (*networkState, error) {
	now := s.now()

	data, err := s.factory.Build(id, now)
	if err != nil {
		return nil, err
	}

	st := &networkState{
		data:       data,
		lastUpdate: now,
		patterns:   make(map[string]waveform.Pattern, len(data.Nodes)+len(data.Links)),
	}

	for i := range data.Nodes {
		node := &data.Nodes[i]
		s.initResource(ctx, id, node.ID, &node.Metrics, st)
	}
	for i := range data.Links {
		link := &data.Links[i]
		s.initResource(ctx, id, link.Key(), &link.Metrics, st)
	}

	return st, nil
}

// initResource reloads durable history and fixes the resource's immutable
// waveform pattern, seeding its base from the last persisted value so the
// series stays continuous across restarts.
func (s *Store) initResource(ctx context.Context, networkID, key string, m *domain.MetricData, st *networkState) {
	rid := resourceID(networkID, key)

	if samples := s.history.Load(ctx, rid); len(samples) > 0 {
		m.History = samples
	}

	base := m.Current.Allocation
	if last, ok := s.history.MostRecentValue(ctx, rid); ok {
		base = last
		m.Current.Allocation = last
	}

	s.rngMu.Lock()
	st.patterns[key] = waveform.NewPattern(s.rng, base)
	s.rngMu.Unlock()
}

// recompute evolves every resource of the state to the current time and
// replaces the stored snapshot. Caller holds st.mu. Returns the new and
// the previous snapshot.
func (s *Store) recompute(st *networkState) (*domain.NetworkData, *domain.NetworkData) {
	now := s.now()
	if now.Before(st.data.Metadata.LastUpdated) {
		// lastUpdated is monotonically non-decreasing even if the clock
		// steps backwards
		now = st.data.Metadata.LastUpdated
	}
	elapsed := now.Sub(st.lastUpdate).Seconds()

	oldData := st.data
	newData := &domain.NetworkData{
		Metadata: oldData.Metadata,
		Nodes:    make([]domain.Node, len(oldData.Nodes)),
		Links:    make([]domain.Link, len(oldData.Links)),
	}
	newData.Metadata.LastUpdated = now

	networkID := oldData.Metadata.ID
	for i := range oldData.Nodes {
		node := oldData.Nodes[i]
		node.Metrics = s.evolve(networkID, node.ID, st.patterns[node.ID], elapsed, now)
		newData.Nodes[i] = node
	}
	for i := range oldData.Links {
		link := oldData.Links[i]
		link.Metrics = s.evolve(networkID, link.Key(), st.patterns[link.Key()], elapsed, now)
		newData.Links[i] = link
	}

	st.data = newData
	st.lastUpdate = now
	return newData, oldData
}

func (s *Store) evolve(networkID, key string, p waveform.Pattern, elapsed float64, now time.Time) domain.MetricData {
	value := waveform.Value(p, elapsed)

	samples := s.history.Append(resourceID(networkID, key), domain.Sample{
		Timestamp: now,
		Value:     value,
	})

	alerts := s.classifier.Classify(value, now)
	if alerts == nil {
		alerts = make([]domain.Alert, 0)
	}

	return domain.MetricData{
		Current: domain.MetricCurrent{Allocation: value, Timestamp: now},
		History: samples,
		Alerts:  alerts,
	}
}

// resourceID namespaces history series by network so node ids may repeat
// across networks
func resourceID(networkID, key string) string {
	return networkID + "/" + key
}
