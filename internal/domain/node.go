package domain

// NodeType represents the kind of network node
type NodeType string

const (
	// NodeTypeLeaf is a terminal node with no nested network
	NodeTypeLeaf NodeType = "leaf"
	// NodeTypeCluster references a nested child network for drill-down
	NodeTypeCluster NodeType = "cluster"
)

// Node represents a monitored entity in the network graph
type Node struct {
	ID           string     `json:"id" yaml:"id" validate:"required"`
	X            float64    `json:"x" yaml:"x"`
	Y            float64    `json:"y" yaml:"y"`
	Type         NodeType   `json:"type" yaml:"type" validate:"required,oneof=leaf cluster"`
	ChildNetwork string     `json:"childNetwork,omitempty" yaml:"child_network,omitempty"`
	Metrics      MetricData `json:"metrics" yaml:"metrics"`
}

// NewNode creates a leaf node at the given position
func NewNode(id string, x, y float64) *Node {
	return &Node{
		ID:      id,
		X:       x,
		Y:       y,
		Type:    NodeTypeLeaf,
		Metrics: NewMetricData(),
	}
}

// IsCluster reports whether the node drills down into a child network
func (n *Node) IsCluster() bool {
	return n.Type == NodeTypeCluster && n.ChildNetwork != ""
}
