package alert

import (
	"testing"
	"time"

	"netpulse/internal/domain"
)

func TestClassify(t *testing.T) {
	c := NewClassifier()
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	t.Run("below warning threshold yields no alert", func(t *testing.T) {
		if alerts := c.Classify(74.9, now); len(alerts) != 0 {
			t.Errorf("expected no alerts for 74.9, got %d", len(alerts))
		}
	})

	t.Run("warning threshold is inclusive", func(t *testing.T) {
		alerts := c.Classify(75.0, now)
		if len(alerts) != 1 {
			t.Fatalf("expected exactly one alert for 75.0, got %d", len(alerts))
		}
		if alerts[0].Type != domain.AlertWarning {
			t.Errorf("expected warning, got %s", alerts[0].Type)
		}
		if alerts[0].Message != "allocation warning: 75.0%" {
			t.Errorf("unexpected message: %q", alerts[0].Message)
		}
		if !alerts[0].Timestamp.Equal(now) {
			t.Errorf("unexpected timestamp: %v", alerts[0].Timestamp)
		}
	})

	t.Run("critical threshold is inclusive and supersedes warning", func(t *testing.T) {
		alerts := c.Classify(90.0, now)
		if len(alerts) != 1 {
			t.Fatalf("expected exactly one alert for 90.0, got %d", len(alerts))
		}
		if alerts[0].Type != domain.AlertCritical {
			t.Errorf("expected critical, got %s", alerts[0].Type)
		}
		if alerts[0].Message != "allocation critically high: 90.0%" {
			t.Errorf("unexpected message: %q", alerts[0].Message)
		}
	})

	t.Run("message rounds to one decimal", func(t *testing.T) {
		alerts := c.Classify(92.345, now)
		if len(alerts) != 1 {
			t.Fatalf("expected one alert, got %d", len(alerts))
		}
		if alerts[0].Message != "allocation critically high: 92.3%" {
			t.Errorf("unexpected message: %q", alerts[0].Message)
		}
	})

	t.Run("custom thresholds are honored", func(t *testing.T) {
		custom := Classifier{WarnThreshold: 50, CritThreshold: 60}

		if alerts := custom.Classify(49.9, now); len(alerts) != 0 {
			t.Errorf("expected no alerts below custom warn threshold")
		}
		if alerts := custom.Classify(55, now); len(alerts) != 1 || alerts[0].Type != domain.AlertWarning {
			t.Errorf("expected warning between custom thresholds")
		}
		if alerts := custom.Classify(60, now); len(alerts) != 1 || alerts[0].Type != domain.AlertCritical {
			t.Errorf("expected critical at custom crit threshold")
		}
	})
}
