package domain

import "fmt"

// Link represents a connection between two nodes in the same network
type Link struct {
	Source  string     `json:"source" yaml:"source" validate:"required"`
	Target  string     `json:"target" yaml:"target" validate:"required"`
	Metrics MetricData `json:"metrics" yaml:"metrics"`
}

// NewLink creates a link between two node ids
func NewLink(source, target string) *Link {
	return &Link{
		Source:  source,
		Target:  target,
		Metrics: NewMetricData(),
	}
}

// Key returns the resource identifier for the link
func (l *Link) Key() string {
	return fmt.Sprintf("%s->%s", l.Source, l.Target)
}

// PairKey returns a direction-independent identifier for uniqueness checks
func (l *Link) PairKey() string {
	if l.Source > l.Target {
		return l.Target + "|" + l.Source
	}
	return l.Source + "|" + l.Target
}
