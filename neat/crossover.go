package neat

import (
	"math/rand"

	"go.uber.org/zap"
)

// inheritDisabledProb is the chance a matching gene stays disabled in the
// child when either parent carries it disabled.
const inheritDisabledProb = 0.75

// Crossover combines g and other into a new genome. The fitter parent
// (ties favour g) is dominant: the child inherits every connection gene the
// dominant parent has, taking weight and enabled state from either parent at
// random for matching innovations. Genes unique to the weaker parent are
// dropped. Nodes are the union of both parents, by id.
//
// Crossover mints no new innovation numbers; the child shares the parents' ledger.
func (g *Genome) Crossover(other *Genome, fitnessSelf, fitnessOther float64) (*Genome, error) {
	if g.ledger != other.ledger {
		return nil, ErrLedgerMismatch
	}

	dominant, recessive := g, other
	if fitnessOther > fitnessSelf {
		dominant, recessive = other, g
	}

	child := &Genome{
		InputCount:  dominant.InputCount,
		OutputCount: dominant.OutputCount,
		nodes:       make(map[int]*NodeGene, len(dominant.nodes)+len(recessive.nodes)),
		connections: make([]*ConnectionGene, 0, len(dominant.connections)),
		ledger:      g.ledger,
		rates:       dominant.rates,
		rng:         rand.New(rand.NewSource(g.rng.Int63())),
	}

	// Recessive first so the dominant parent's copy wins on shared ids.
	for id, n := range recessive.nodes {
		child.nodes[id] = n.Copy()
	}
	for id, n := range dominant.nodes {
		child.nodes[id] = n.Copy()
	}

	matching := make(map[int]*ConnectionGene, len(recessive.connections))
	for _, c := range recessive.connections {
		matching[c.Innovation] = c
	}

	wantEnabled := make([]bool, 0, len(dominant.connections))
	dominantEnabled := make([]bool, 0, len(dominant.connections))
	dropped := 0
	for _, c := range dominant.connections {
		gene := c.Copy()
		if m, ok := matching[c.Innovation]; ok {
			parent := c
			if child.rng.Float64() < 0.5 {
				parent = m
			}
			gene.Weight = parent.Weight
			gene.Enabled = parent.Enabled
			if !c.Enabled || !m.Enabled {
				gene.Enabled = child.rng.Float64() >= inheritDisabledProb
			}
		}

		_, hasSource := child.nodes[gene.Source]
		_, hasTarget := child.nodes[gene.Target]
		if !hasSource || !hasTarget {
			dropped++
			continue
		}

		wantEnabled = append(wantEnabled, gene.Enabled)
		dominantEnabled = append(dominantEnabled, c.Enabled)
		gene.Enabled = false
		child.connections = append(child.connections, gene)
	}

	// The dominant parent's enabled genes are acyclic on their own, so they
	// go in first. Genes re-enabled from a disabled dominant copy are added
	// afterwards, one at a time, and stay disabled if they would close a cycle.
	for i, c := range child.connections {
		if wantEnabled[i] && dominantEnabled[i] {
			c.Enabled = true
		}
	}
	for i, c := range child.connections {
		if !wantEnabled[i] || dominantEnabled[i] {
			continue
		}
		if child.createsCycle(c.Source, c.Target) {
			Logger().Debug("crossover kept gene disabled: would create a cycle",
				zap.Int("innovation", c.Innovation))
			continue
		}
		c.Enabled = true
	}
	child.touch()

	if dropped > 0 {
		Logger().Debug("crossover dropped dangling genes", zap.Int("dropped", dropped))
	}
	return child, nil
}
