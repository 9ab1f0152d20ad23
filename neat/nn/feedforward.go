package nn

import (
	"errors"
	"fmt"
	"sort"

	"github.com/baldhumanity/tetris-neat/neat"
)

var (
	ErrMissingInput    = errors.New("input value missing for input node")
	ErrUnexpectedInput = errors.New("input value given for a non-input node")
	ErrStaleOrder      = errors.New("evaluation order does not match the genome's current structure")
	ErrCycle           = errors.New("enabled connections contain a cycle")
)

// EvaluationOrder is a topological order of a genome's nodes over its enabled
// connections. It is only valid for the genome revision it was built from.
type EvaluationOrder struct {
	NodeIDs []int

	genome   *neat.Genome
	revision uint64
}

// Complete reports whether every node of the genome made it into the order.
// An incomplete order means the enabled subgraph has a cycle.
func (o EvaluationOrder) Complete() bool {
	return o.genome != nil && len(o.NodeIDs) == o.genome.NodeCount()
}

// Build computes the evaluation order of g with Kahn's algorithm over enabled
// connections. Ready nodes are taken in ascending id order so the result is
// reproducible. Nodes on or behind a cycle are left out of the order.
func Build(g *neat.Genome) EvaluationOrder {
	nodeIDs := g.NodeIDs()
	inDegree := make(map[int]int, len(nodeIDs))
	graph := make(map[int][]int, len(nodeIDs))
	for _, c := range g.Connections() {
		if !c.Enabled {
			continue
		}
		graph[c.Source] = append(graph[c.Source], c.Target)
		inDegree[c.Target]++
	}

	queue := []int{}
	for _, id := range nodeIDs {
		if inDegree[id] == 0 {
			queue = append(queue, id)
		}
	}

	evalOrder := make([]int, 0, len(nodeIDs))
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		evalOrder = append(evalOrder, u)

		for _, v := range graph[u] {
			inDegree[v]--
			if inDegree[v] == 0 {
				queue = append(queue, v)
			}
		}
		sort.Ints(queue)
	}

	return EvaluationOrder{
		NodeIDs:  evalOrder,
		genome:   g,
		revision: g.Revision(),
	}
}

// Evaluate runs a feed-forward pass. inputs must hold a value for exactly the
// input nodes of g; the result maps each output node id to its activation.
//
// Evaluate writes the transient InputSum/Output fields of g's nodes.
func Evaluate(order EvaluationOrder, g *neat.Genome, inputs map[int]float64) (map[int]float64, error) {
	if order.genome != g || order.revision != g.Revision() {
		return nil, ErrStaleOrder
	}
	if !order.Complete() {
		return nil, fmt.Errorf("%w: ordered %d of %d nodes", ErrCycle, len(order.NodeIDs), g.NodeCount())
	}
	if err := checkInputs(g, inputs); err != nil {
		return nil, err
	}

	for _, id := range order.NodeIDs {
		node, _ := g.Node(id)
		node.Reset()
	}
	for id, v := range inputs {
		node, _ := g.Node(id)
		node.Output = v
	}

	for _, id := range order.NodeIDs {
		if _, fixed := inputs[id]; fixed {
			continue
		}
		node, _ := g.Node(id)
		sum := 0.0
		for _, c := range g.Incoming(id) {
			src, _ := g.Node(c.Source)
			sum += src.Output * c.Weight
		}
		node.InputSum = sum
		node.Output = node.Activation.Apply(sum)
	}

	outputs := make(map[int]float64, g.OutputCount)
	for _, id := range g.OutputIDs() {
		node, _ := g.Node(id)
		outputs[id] = node.Output
	}
	return outputs, nil
}

func checkInputs(g *neat.Genome, inputs map[int]float64) error {
	for id := range inputs {
		node, ok := g.Node(id)
		if !ok || node.Role != neat.InputNode {
			return fmt.Errorf("%w: node %d", ErrUnexpectedInput, id)
		}
	}
	for _, id := range g.InputIDs() {
		if _, ok := inputs[id]; !ok {
			return fmt.Errorf("%w: node %d", ErrMissingInput, id)
		}
	}
	return nil
}
