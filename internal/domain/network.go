package domain

import (
	"fmt"
	"time"
)

// NetworkMetadata describes a network and its refresh hints
type NetworkMetadata struct {
	ID              string    `json:"id" yaml:"id" validate:"required"`
	ParentNetwork   string    `json:"parentNetwork,omitempty" yaml:"parent_network,omitempty"`
	Description     string    `json:"description,omitempty" yaml:"description,omitempty"`
	LastUpdated     time.Time `json:"lastUpdated" yaml:"last_updated"`
	UpdateInterval  int       `json:"updateInterval" yaml:"update_interval"`   // milliseconds, advisory refresh hint
	RetentionPeriod int       `json:"retentionPeriod" yaml:"retention_period"` // seconds, advisory only (never drives eviction)
}

// NetworkData is a complete snapshot of one network at a point in time
type NetworkData struct {
	Metadata NetworkMetadata `json:"metadata" yaml:"metadata"`
	Nodes    []Node          `json:"nodes" yaml:"nodes" validate:"dive"`
	Links    []Link          `json:"links" yaml:"links,omitempty" validate:"dive"`
}

// NewNetworkData creates an empty snapshot for the given network id
func NewNetworkData(id string) *NetworkData {
	return &NetworkData{
		Metadata: NetworkMetadata{ID: id},
		Nodes:    make([]Node, 0),
		Links:    make([]Link, 0),
	}
}

// Node returns the node with the given id, or nil
func (d *NetworkData) Node(id string) *Node {
	for i := range d.Nodes {
		if d.Nodes[i].ID == id {
			return &d.Nodes[i]
		}
	}
	return nil
}

// Validate checks the structural invariants that hold for every snapshot:
// link endpoints must resolve to nodes, no self-loops, at most one link
// per unordered node pair, and allocations within [0,100].
func (d *NetworkData) Validate() error {
	ids := make(map[string]struct{}, len(d.Nodes))
	for i := range d.Nodes {
		n := &d.Nodes[i]
		if n.ID == "" {
			return fmt.Errorf("node %d: missing id", i)
		}
		if _, dup := ids[n.ID]; dup {
			return fmt.Errorf("duplicate node id %q", n.ID)
		}
		ids[n.ID] = struct{}{}
		if n.Metrics.Current.Allocation < 0 || n.Metrics.Current.Allocation > 100 {
			return fmt.Errorf("node %q: allocation %.2f out of range", n.ID, n.Metrics.Current.Allocation)
		}
	}

	pairs := make(map[string]struct{}, len(d.Links))
	for i := range d.Links {
		l := &d.Links[i]
		if l.Source == l.Target {
			return fmt.Errorf("link %q: self-loop", l.Key())
		}
		if _, ok := ids[l.Source]; !ok {
			return fmt.Errorf("link %q: unknown source node", l.Key())
		}
		if _, ok := ids[l.Target]; !ok {
			return fmt.Errorf("link %q: unknown target node", l.Key())
		}
		if _, dup := pairs[l.PairKey()]; dup {
			return fmt.Errorf("duplicate link between %q and %q", l.Source, l.Target)
		}
		pairs[l.PairKey()] = struct{}{}
		if l.Metrics.Current.Allocation < 0 || l.Metrics.Current.Allocation > 100 {
			return fmt.Errorf("link %q: allocation %.2f out of range", l.Key(), l.Metrics.Current.Allocation)
		}
	}

	return nil
}
