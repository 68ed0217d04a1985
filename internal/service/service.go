// Package service provides the request-facing facade over the state store
// and publishes update events for connected clients.
package service

import (
	"context"
	"errors"
	"time"

	"netpulse/internal/domain"
	"netpulse/internal/metrics"
	"netpulse/internal/state"
	"netpulse/internal/topology"
)

// NetworkService exposes the two core operations per network id:
// a full snapshot and an incremental diff.
type NetworkService struct {
	store    *state.Store
	eventBus *EventBus
	metrics  *metrics.Registry
}

// NewNetworkService creates a new network service
func NewNetworkService(store *state.Store, eventBus *EventBus, reg *metrics.Registry) *NetworkService {
	return &NetworkService{
		store:    store,
		eventBus: eventBus,
		metrics:  reg,
	}
}

// GetSnapshot returns the complete current state of the network,
// recomputed from elapsed time. Unknown ids yield topology.ErrNotFound.
func (s *NetworkService) GetSnapshot(ctx context.Context, id string) (*domain.NetworkData, error) {
	known := s.knows(id)
	start := time.Now()

	data, err := s.store.Snapshot(ctx, id)
	s.record("snapshot", id, err, start)
	if err != nil {
		return nil, err
	}

	if !known {
		s.eventBus.Publish(NewEvent(EventNetworkCreated, id, data.Metadata))
	}
	return data, nil
}

// GetUpdate recomputes the network and returns only the resources whose
// metrics changed since the previous snapshot.
func (s *NetworkService) GetUpdate(ctx context.Context, id string) (*domain.Diff, error) {
	known := s.knows(id)
	start := time.Now()

	d, err := s.store.Update(ctx, id)
	s.record("update", id, err, start)
	if err != nil {
		return nil, err
	}

	if !known {
		s.eventBus.Publish(NewEvent(EventNetworkCreated, id, nil))
	}
	if !d.Empty() {
		s.eventBus.Publish(NewEvent(EventNetworkUpdated, id, d))
	}
	for _, ch := range d.NodeChanges {
		for _, a := range ch.Alerts {
			s.eventBus.Publish(NewEvent(EventAlertRaised, id, a))
		}
	}
	for _, ch := range d.LinkChanges {
		for _, a := range ch.Alerts {
			s.eventBus.Publish(NewEvent(EventAlertRaised, id, a))
		}
	}

	return d, nil
}

// Networks lists the ids with live state
func (s *NetworkService) Networks() []string {
	return s.store.Networks()
}

// Invalidate drops cached state for a network id
func (s *NetworkService) Invalidate(id string) bool {
	return s.store.Invalidate(id)
}

func (s *NetworkService) knows(id string) bool {
	for _, known := range s.store.Networks() {
		if known == id {
			return true
		}
	}
	return false
}

func (s *NetworkService) record(op, id string, err error, start time.Time) {
	if s.metrics == nil {
		return
	}
	status := "ok"
	switch {
	case errors.Is(err, topology.ErrNotFound):
		status = "not_found"
	case err != nil:
		status = "error"
	}
	s.metrics.RecordOperation(op, id, status, time.Since(start))
	s.metrics.NetworksLive.Set(float64(len(s.store.Networks())))
}
