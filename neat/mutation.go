package neat

import "go.uber.org/zap"

// Mutate applies each operator with the probability configured in the
// genome's rates. Structural operators run first.
func (g *Genome) Mutate() {
	if g.rng.Float64() < g.rates.NodeAdditionRate {
		g.MutateAddNode()
	}
	if g.rng.Float64() < g.rates.ConnectionAdditionRate {
		g.MutateAddConnection()
	}
	if g.rng.Float64() < g.rates.ToggleConnectionRate {
		g.MutateToggleConnection()
	}
	if g.rng.Float64() < g.rates.WeightMutationRate {
		g.MutateChangeWeight()
	}
	if g.rng.Float64() < g.rates.ActivationMutationRate {
		g.MutateChangeActivation()
	}
}

// MutateAddNode splits a random enabled connection. The connection is
// disabled and replaced by source->new (weight 1) and new->target (the old
// weight), so the network's behaviour is roughly preserved.
func (g *Genome) MutateAddNode() {
	enabled := make([]*ConnectionGene, 0, len(g.connections))
	for _, c := range g.connections {
		if c.Enabled {
			enabled = append(enabled, c)
		}
	}
	if len(enabled) == 0 {
		Logger().Debug("add node skipped: no enabled connection")
		return
	}

	split := enabled[g.rng.Intn(len(enabled))]
	split.Enabled = false

	id := g.ledger.SplitNodeID(split.Innovation)
	if _, exists := g.nodes[id]; exists {
		// The same connection was split before in this genome and later
		// re-enabled. A second copy of that node would alias it.
		id = g.ledger.NextNodeID()
	}
	g.nodes[id] = NewNodeGene(id, HiddenNode, g.rates.HiddenActivation)

	g.appendConnection(split.Source, id, 1.0)
	g.appendConnection(id, split.Target, split.Weight)
	g.touch()

	Logger().Debug("added node",
		zap.Int("node", id),
		zap.Int("split_innovation", split.Innovation),
		zap.Int("source", split.Source),
		zap.Int("target", split.Target))
}

// MutateAddConnection tries up to AddConnectionAttempts random node pairs and
// adds the first one that is legal: source not an output, target not an
// input, not already connected and not closing a cycle.
func (g *Genome) MutateAddConnection() {
	sources := make([]int, 0, len(g.nodes))
	targets := make([]int, 0, len(g.nodes))
	for _, id := range g.NodeIDs() {
		role := g.nodes[id].Role
		if role != OutputNode {
			sources = append(sources, id)
		}
		if role != InputNode {
			targets = append(targets, id)
		}
	}
	if len(sources) == 0 || len(targets) == 0 {
		Logger().Debug("add connection skipped: no candidate endpoints")
		return
	}

	for attempt := 0; attempt < g.rates.AddConnectionAttempts; attempt++ {
		source := sources[g.rng.Intn(len(sources))]
		target := targets[g.rng.Intn(len(targets))]
		if err := g.checkNewConnection(source, target); err != nil {
			continue
		}
		conn := g.appendConnection(source, target, g.randomWeight())
		g.touch()
		Logger().Debug("added connection",
			zap.Int("source", source),
			zap.Int("target", target),
			zap.Int("innovation", conn.Innovation),
			zap.Int("attempt", attempt+1))
		return
	}
	Logger().Debug("add connection skipped: no legal pair found",
		zap.Int("attempts", g.rates.AddConnectionAttempts))
}

// MutateChangeWeight resamples the weight of one random connection.
func (g *Genome) MutateChangeWeight() {
	if len(g.connections) == 0 {
		Logger().Debug("change weight skipped: no connections")
		return
	}
	conn := g.connections[g.rng.Intn(len(g.connections))]
	conn.Weight = g.randomWeight()
}

// MutateChangeActivation resamples the activation of one random node.
func (g *Genome) MutateChangeActivation() {
	if len(g.nodes) == 0 || len(g.rates.Activations) == 0 {
		Logger().Debug("change activation skipped: no nodes or activation options")
		return
	}
	ids := g.NodeIDs()
	node := g.nodes[ids[g.rng.Intn(len(ids))]]
	node.Activation = g.rates.Activations[g.rng.Intn(len(g.rates.Activations))]
}

// MutateToggleConnection flips the enabled flag of one random connection.
// Enabling is refused when it would close a cycle.
func (g *Genome) MutateToggleConnection() {
	if len(g.connections) == 0 {
		Logger().Debug("toggle skipped: no connections")
		return
	}
	conn := g.connections[g.rng.Intn(len(g.connections))]
	if !conn.Enabled && g.createsCycle(conn.Source, conn.Target) {
		Logger().Debug("toggle skipped: enabling would create a cycle",
			zap.Int("innovation", conn.Innovation))
		return
	}
	conn.Enabled = !conn.Enabled
	g.touch()
}
