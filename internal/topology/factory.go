// Package topology builds the initial graph for a network id, either from
// a seed description on disk or by synthesizing a small random network.
package topology

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"sync"
	"time"

	"netpulse/internal/codec"
	"netpulse/internal/domain"

	"github.com/go-playground/validator/v10"
)

// ErrNotFound is returned when no seed exists for a network id and no
// generation fallback is configured
var ErrNotFound = errors.New("network not found")

const (
	// Generated nodes sit on a circle of this radius around the canvas center
	circleRadius = 200.0
	centerX      = 400.0
	centerY      = 300.0

	clusterProbability = 0.3
	linkProbability    = 0.7

	// DefaultUpdateInterval is the advisory refresh hint in milliseconds
	DefaultUpdateInterval = 5000
	// DefaultRetentionPeriod is the advisory retention hint in seconds
	DefaultRetentionPeriod = 3600
)

// Factory constructs or loads initial network topologies
type Factory struct {
	seedDir  string
	generate bool
	validate *validator.Validate

	// Advisory metadata hints stamped onto generated networks
	UpdateInterval  int
	RetentionPeriod int

	mu  sync.Mutex
	rng *rand.Rand
}

// New creates a factory. seedDir may be empty when only generation is
// wanted; generate enables the synthetic fallback for unknown ids.
func New(seedDir string, generate bool) *Factory {
	return &Factory{
		seedDir:         seedDir,
		generate:        generate,
		validate:        validator.New(),
		UpdateInterval:  DefaultUpdateInterval,
		RetentionPeriod: DefaultRetentionPeriod,
		rng:             rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// WithRand replaces the random source, mainly for deterministic tests
func (f *Factory) WithRand(r *rand.Rand) *Factory {
	f.rng = r
	return f
}

// Build returns the initial topology for the id: a seed when one exists,
// a generated network when the fallback is enabled, ErrNotFound otherwise.
func (f *Factory) Build(id string, now time.Time) (*domain.NetworkData, error) {
	data, err := f.Load(id, now)
	if err == nil {
		return data, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	if f.generate {
		return f.Generate(id, now), nil
	}
	return nil, err
}

// Load reads and validates the seed description for the id,
// or ErrNotFound when no seed file exists.
func (f *Factory) Load(id string, now time.Time) (*domain.NetworkData, error) {
	if f.seedDir == "" {
		return nil, fmt.Errorf("network %q: %w", id, ErrNotFound)
	}

	for _, ext := range codec.Extensions {
		path := filepath.Join(f.seedDir, id+ext)
		file, err := os.Open(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("failed to open seed %s: %w", path, err)
		}

		dec, _ := codec.ForPath(path)
		data, err := dec.Decode(file)
		file.Close()
		if err != nil {
			return nil, fmt.Errorf("seed %s: %w", path, err)
		}

		f.normalize(id, data, now)
		if err := f.validate.Struct(data); err != nil {
			return nil, fmt.Errorf("seed %s: %w", path, err)
		}
		if err := data.Validate(); err != nil {
			return nil, fmt.Errorf("seed %s: %w", path, err)
		}
		return data, nil
	}

	return nil, fmt.Errorf("network %q: %w", id, ErrNotFound)
}

func (f *Factory) normalize(id string, data *domain.NetworkData, now time.Time) {
	data.Metadata.ID = id
	if data.Metadata.LastUpdated.IsZero() {
		data.Metadata.LastUpdated = now
	}
	if data.Metadata.UpdateInterval == 0 {
		data.Metadata.UpdateInterval = f.UpdateInterval
	}
	if data.Metadata.RetentionPeriod == 0 {
		data.Metadata.RetentionPeriod = f.RetentionPeriod
	}
	for i := range data.Nodes {
		normalizeMetrics(&data.Nodes[i].Metrics, now)
		if data.Nodes[i].Type == "" {
			data.Nodes[i].Type = domain.NodeTypeLeaf
		}
	}
	for i := range data.Links {
		normalizeMetrics(&data.Links[i].Metrics, now)
	}
}

func normalizeMetrics(m *domain.MetricData, now time.Time) {
	if m.History == nil {
		m.History = make([]domain.Sample, 0)
	}
	if m.Alerts == nil {
		m.Alerts = make([]domain.Alert, 0)
	}
	if m.Current.Timestamp.IsZero() {
		m.Current.Timestamp = now
	}
}

// Generate synthesizes a small random network: 3 or 4 nodes on a circle,
// each a cluster with probability 0.3, and a random subgraph of links over
// the distinct unordered pairs.
func (f *Factory) Generate(id string, now time.Time) *domain.NetworkData {
	f.mu.Lock()
	defer f.mu.Unlock()

	data := domain.NewNetworkData(id)
	data.Metadata.LastUpdated = now
	data.Metadata.UpdateInterval = f.UpdateInterval
	data.Metadata.RetentionPeriod = f.RetentionPeriod
	data.Metadata.Description = fmt.Sprintf("generated network %s", id)

	count := 3 + f.rng.Intn(2)
	for i := 0; i < count; i++ {
		angle := 2 * math.Pi * float64(i) / float64(count)
		node := domain.NewNode(
			fmt.Sprintf("%s-node%d", id, i),
			centerX+circleRadius*math.Cos(angle),
			centerY+circleRadius*math.Sin(angle),
		)
		if f.rng.Float64() < clusterProbability {
			node.Type = domain.NodeTypeCluster
			node.ChildNetwork = fmt.Sprintf("%s_%d", id, i)
		}
		node.Metrics.Current = domain.MetricCurrent{
			Allocation: 30 + f.rng.Float64()*40,
			Timestamp:  now,
		}
		data.Nodes = append(data.Nodes, *node)
	}

	for i := 0; i < count; i++ {
		for j := i + 1; j < count; j++ {
			if f.rng.Float64() >= linkProbability {
				continue
			}
			link := domain.NewLink(data.Nodes[i].ID, data.Nodes[j].ID)
			link.Metrics.Current = domain.MetricCurrent{
				Allocation: 30 + f.rng.Float64()*40,
				Timestamp:  now,
			}
			data.Links = append(data.Links, *link)
		}
	}

	return data
}
