package domain

import "time"

// HistoryCap bounds the number of retained history samples per resource
const HistoryCap = 50

// AlertType classifies the severity of an alert
type AlertType string

const (
	AlertWarning  AlertType = "warning"
	AlertCritical AlertType = "critical"
)

// Alert is raised when a resource's allocation crosses a threshold
type Alert struct {
	Type      AlertType `json:"type" yaml:"type"`
	Message   string    `json:"message" yaml:"message"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
}

// Sample is a single historical metric observation
type Sample struct {
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	Value     float64   `json:"value" yaml:"value"`
}

// MetricCurrent holds the most recent metric values for a resource
type MetricCurrent struct {
	Allocation float64   `json:"allocation" yaml:"allocation" validate:"gte=0,lte=100"`
	Timestamp  time.Time `json:"timestamp" yaml:"timestamp"`
}

// MetricData aggregates current values, bounded history, and active alerts
// for a single resource (node or link)
type MetricData struct {
	Current MetricCurrent `json:"current" yaml:"current"`
	History []Sample      `json:"history" yaml:"history,omitempty"`
	Alerts  []Alert       `json:"alerts" yaml:"alerts,omitempty"`
}

// NewMetricData returns empty metric data with initialized collections
func NewMetricData() MetricData {
	return MetricData{
		History: make([]Sample, 0),
		Alerts:  make([]Alert, 0),
	}
}

// Equal compares two metric blocks by value
func (m MetricData) Equal(other MetricData) bool {
	if m.Current.Allocation != other.Current.Allocation ||
		!m.Current.Timestamp.Equal(other.Current.Timestamp) {
		return false
	}
	if len(m.History) != len(other.History) {
		return false
	}
	for i := range m.History {
		if m.History[i].Value != other.History[i].Value ||
			!m.History[i].Timestamp.Equal(other.History[i].Timestamp) {
			return false
		}
	}
	if len(m.Alerts) != len(other.Alerts) {
		return false
	}
	for i := range m.Alerts {
		if m.Alerts[i].Type != other.Alerts[i].Type ||
			m.Alerts[i].Message != other.Alerts[i].Message ||
			!m.Alerts[i].Timestamp.Equal(other.Alerts[i].Timestamp) {
			return false
		}
	}
	return true
}
