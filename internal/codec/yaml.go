package codec

import (
	"fmt"
	"io"

	"netpulse/internal/domain"

	"gopkg.in/yaml.v3"
)

// YAMLDecoder parses YAML seed files
type YAMLDecoder struct{}

// Format returns the codec format identifier
func (YAMLDecoder) Format() string {
	return "yaml"
}

// Decode parses a NetworkData seed from YAML
func (YAMLDecoder) Decode(r io.Reader) (*domain.NetworkData, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read YAML seed: %w", err)
	}

	var data domain.NetworkData
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to parse YAML seed: %w", err)
	}
	return &data, nil
}
