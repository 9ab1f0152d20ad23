package neat

import "fmt"

// NodeRole classifies a node gene.
type NodeRole int

const (
	InputNode NodeRole = iota
	HiddenNode
	OutputNode
)

func (r NodeRole) String() string {
	switch r {
	case InputNode:
		return "input"
	case HiddenNode:
		return "hidden"
	case OutputNode:
		return "output"
	default:
		return fmt.Sprintf("NodeRole(%d)", int(r))
	}
}

// --------------------------- NodeGene ---------------------------

// NodeGene represents a node (neuron) in the genome.
type NodeGene struct {
	ID         int // Stable across genomes sharing ancestry
	Role       NodeRole
	Activation Activation

	// Transient evaluation state, reset on every evaluation and not part
	// of the node's genetic identity.
	InputSum float64
	Output   float64
}

// NewNodeGene creates a node gene with zeroed evaluation state.
func NewNodeGene(id int, role NodeRole, activation Activation) *NodeGene {
	return &NodeGene{ID: id, Role: role, Activation: activation}
}

// String returns a string representation of the NodeGene.
func (ng *NodeGene) String() string {
	return fmt.Sprintf("NodeGene(ID: %d, Role: %s, Activation: %s)", ng.ID, ng.Role, ng.Activation)
}

// Copy creates a copy of the genetic part of the NodeGene.
func (ng *NodeGene) Copy() *NodeGene {
	return NewNodeGene(ng.ID, ng.Role, ng.Activation)
}

// Reset clears the evaluation state.
func (ng *NodeGene) Reset() {
	ng.InputSum = 0
	ng.Output = 0
}

// --------------------------- ConnectionGene ---------------------------

// ConnectionGene represents a weighted connection between two nodes.
// Innovation is the historical marking assigned by the InnovationLedger.
// Enabled is read-only once the gene belongs to a genome; change it through
// Genome.SetConnectionEnabled.
type ConnectionGene struct {
	Source     int
	Target     int
	Weight     float64
	Innovation int
	Enabled    bool
}

// Key returns the ordered endpoint pair of the connection.
func (cg *ConnectionGene) Key() ConnectionKey {
	return ConnectionKey{Source: cg.Source, Target: cg.Target}
}

// String returns a string representation of the ConnectionGene.
func (cg *ConnectionGene) String() string {
	return fmt.Sprintf("ConnGene(#%d %d->%d, Weight: %.3f, Enabled: %t)",
		cg.Innovation, cg.Source, cg.Target, cg.Weight, cg.Enabled)
}

// Copy creates a deep copy of the ConnectionGene.
func (cg *ConnectionGene) Copy() *ConnectionGene {
	c := *cg
	return &c
}
