package codec

import (
	"encoding/json"
	"fmt"
	"io"

	"netpulse/internal/domain"
)

// JSONDecoder parses JSON seed files
type JSONDecoder struct{}

// Format returns the codec format identifier
func (JSONDecoder) Format() string {
	return "json"
}

// Decode parses a NetworkData seed from JSON
func (JSONDecoder) Decode(r io.Reader) (*domain.NetworkData, error) {
	var data domain.NetworkData
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to parse JSON seed: %w", err)
	}
	return &data, nil
}
