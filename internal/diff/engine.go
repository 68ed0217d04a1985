// Package diff computes sparse changesets between successive snapshots of
// the same network.
package diff

import (
	"errors"
	"fmt"

	"netpulse/internal/domain"
)

// ErrShapeMismatch indicates the two snapshots do not describe the same
// resource identity sets. That is a state-management bug, not user input,
// so callers fail fast instead of emitting a silently wrong diff.
var ErrShapeMismatch = errors.New("snapshot shape mismatch")

// Compute compares two snapshots and returns the resources whose current
// values, history, or alerts changed. Nodes are keyed by id, links by
// "source->target"; unchanged resources are omitted.
func Compute(oldData, newData *domain.NetworkData) (*domain.Diff, error) {
	if len(oldData.Nodes) != len(newData.Nodes) || len(oldData.Links) != len(newData.Links) {
		return nil, fmt.Errorf("%w: %d/%d nodes vs %d/%d links",
			ErrShapeMismatch, len(oldData.Nodes), len(newData.Nodes), len(oldData.Links), len(newData.Links))
	}

	d := &domain.Diff{
		Timestamp:   newData.Metadata.LastUpdated,
		NodeChanges: make(map[string]domain.ResourceChange),
		LinkChanges: make(map[string]domain.ResourceChange),
	}

	oldNodes := make(map[string]*domain.Node, len(oldData.Nodes))
	for i := range oldData.Nodes {
		oldNodes[oldData.Nodes[i].ID] = &oldData.Nodes[i]
	}
	for i := range newData.Nodes {
		n := &newData.Nodes[i]
		prev, ok := oldNodes[n.ID]
		if !ok {
			return nil, fmt.Errorf("%w: node %q absent from previous snapshot", ErrShapeMismatch, n.ID)
		}
		if !prev.Metrics.Equal(n.Metrics) {
			d.NodeChanges[n.ID] = change(n.Metrics)
		}
	}

	oldLinks := make(map[string]*domain.Link, len(oldData.Links))
	for i := range oldData.Links {
		oldLinks[oldData.Links[i].Key()] = &oldData.Links[i]
	}
	for i := range newData.Links {
		l := &newData.Links[i]
		prev, ok := oldLinks[l.Key()]
		if !ok {
			return nil, fmt.Errorf("%w: link %q absent from previous snapshot", ErrShapeMismatch, l.Key())
		}
		if !prev.Metrics.Equal(l.Metrics) {
			d.LinkChanges[l.Key()] = change(l.Metrics)
		}
	}

	return d, nil
}

func change(m domain.MetricData) domain.ResourceChange {
	history := make([]domain.Sample, len(m.History))
	copy(history, m.History)
	alerts := make([]domain.Alert, len(m.Alerts))
	copy(alerts, m.Alerts)
	return domain.ResourceChange{
		Current: m.Current,
		History: history,
		Alerts:  alerts,
	}
}
