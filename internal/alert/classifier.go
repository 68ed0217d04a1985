// Package alert classifies metric values against warning and critical
// thresholds.
package alert

import (
	"fmt"
	"time"

	"netpulse/internal/domain"
)

const (
	// DefaultWarnThreshold is the allocation level that raises a warning
	DefaultWarnThreshold = 75.0
	// DefaultCritThreshold is the allocation level that raises a critical alert
	DefaultCritThreshold = 90.0
)

// Classifier maps a metric value to at most one alert
type Classifier struct {
	WarnThreshold float64
	CritThreshold float64
}

// NewClassifier creates a classifier with the default thresholds
func NewClassifier() Classifier {
	return Classifier{
		WarnThreshold: DefaultWarnThreshold,
		CritThreshold: DefaultCritThreshold,
	}
}

// Classify returns zero or one alert for the given allocation value.
// Critical strictly supersedes warning, never both.
func (c Classifier) Classify(value float64, ts time.Time) []domain.Alert {
	switch {
	case value >= c.CritThreshold:
		return []domain.Alert{{
			Type:      domain.AlertCritical,
			Message:   fmt.Sprintf("allocation critically high: %.1f%%", value),
			Timestamp: ts,
		}}
	case value >= c.WarnThreshold:
		return []domain.Alert{{
			Type:      domain.AlertWarning,
			Message:   fmt.Sprintf("allocation warning: %.1f%%", value),
			Timestamp: ts,
		}}
	default:
		return nil
	}
}
