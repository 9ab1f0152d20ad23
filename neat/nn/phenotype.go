package nn

import (
	"fmt"

	"github.com/baldhumanity/tetris-neat/neat"
)

// Phenotype pairs a genome with its evaluation order and offers slice-based
// activation in input/output id order.
type Phenotype struct {
	genome    *neat.Genome
	order     EvaluationOrder
	inputIDs  []int
	outputIDs []int
	inputs    map[int]float64
}

// New builds the phenotype of g. It fails with ErrCycle when the enabled
// connections of g are not acyclic.
func New(g *neat.Genome) (*Phenotype, error) {
	p := &Phenotype{genome: g}
	if err := p.Rebuild(); err != nil {
		return nil, err
	}
	return p, nil
}

// Rebuild recomputes the evaluation order after a structural change.
func (p *Phenotype) Rebuild() error {
	order := Build(p.genome)
	if !order.Complete() {
		return fmt.Errorf("%w: ordered %d of %d nodes", ErrCycle, len(order.NodeIDs), p.genome.NodeCount())
	}
	p.order = order
	p.inputIDs = p.genome.InputIDs()
	p.outputIDs = p.genome.OutputIDs()
	p.inputs = make(map[int]float64, len(p.inputIDs))
	return nil
}

// Genome returns the genome the phenotype was built from.
func (p *Phenotype) Genome() *neat.Genome { return p.genome }

// Order returns the evaluation order.
func (p *Phenotype) Order() EvaluationOrder { return p.order }

// Stale reports whether the genome changed structure since the last build.
func (p *Phenotype) Stale() bool { return p.order.revision != p.genome.Revision() }

// Evaluate runs the network on inputs keyed by input node id.
func (p *Phenotype) Evaluate(inputs map[int]float64) (map[int]float64, error) {
	return Evaluate(p.order, p.genome, inputs)
}

// Activate runs the network on inputs given in ascending input id order and
// returns outputs in ascending output id order.
func (p *Phenotype) Activate(inputs []float64) ([]float64, error) {
	if len(inputs) != len(p.inputIDs) {
		return nil, fmt.Errorf("mismatch between input count (%d) and network input nodes (%d)", len(inputs), len(p.inputIDs))
	}
	for i, id := range p.inputIDs {
		p.inputs[id] = inputs[i]
	}
	values, err := p.Evaluate(p.inputs)
	if err != nil {
		return nil, err
	}
	outputs := make([]float64, len(p.outputIDs))
	for i, id := range p.outputIDs {
		outputs[i] = values[id]
	}
	return outputs, nil
}
