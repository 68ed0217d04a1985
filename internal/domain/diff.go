package domain

import "time"

// ResourceChange carries the new metric state of a resource that changed
// between two snapshots
type ResourceChange struct {
	Current MetricCurrent `json:"current"`
	History []Sample      `json:"history"`
	Alerts  []Alert       `json:"alerts"`
}

// Diff is a sparse changeset between two successive snapshots of the same
// network. Node entries are keyed by node id, link entries by
// "source->target". Unchanged resources are omitted.
type Diff struct {
	Timestamp   time.Time                 `json:"timestamp"`
	NodeChanges map[string]ResourceChange `json:"nodeChanges"`
	LinkChanges map[string]ResourceChange `json:"linkChanges"`
}

// Empty reports whether the diff carries no changes
func (d *Diff) Empty() bool {
	return len(d.NodeChanges) == 0 && len(d.LinkChanges) == 0
}
