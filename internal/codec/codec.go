// Package codec decodes seed network descriptions from their on-disk
// formats.
package codec

import (
	"io"
	"path/filepath"
	"strings"

	"netpulse/internal/domain"
)

// Decoder parses a serialized NetworkData seed
type Decoder interface {
	Decode(r io.Reader) (*domain.NetworkData, error)
	Format() string
}

// Extensions lists the seed file extensions in lookup order
var Extensions = []string{".yaml", ".yml", ".json"}

// ForPath returns the decoder matching the file extension, if any
func ForPath(path string) (Decoder, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAMLDecoder{}, true
	case ".json":
		return JSONDecoder{}, true
	default:
		return nil, false
	}
}
