package neat

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
)

// Genome is the genetic encoding of one sparse feed-forward network: node
// genes keyed by id and an ordered list of connection genes.
//
// A Genome is owned by a single goroutine at a time. The InnovationLedger it
// references is shared with the rest of the population and is safe for
// concurrent use.
type Genome struct {
	InputCount  int
	OutputCount int

	nodes       map[int]*NodeGene
	connections []*ConnectionGene

	ledger *InnovationLedger
	rates  *Rates
	rng    *rand.Rand

	// revision counts structural changes. Derived data (incoming lists,
	// evaluation orders) is only valid for the revision it was built from.
	revision uint64
	incoming map[int][]*ConnectionGene
}

// NewGenome creates a genome holding only its input and output nodes.
// Input ids are 0..inputCount-1, output ids follow directly after.
func NewGenome(inputCount, outputCount int, rates *Rates, ledger *InnovationLedger, seed int64) (*Genome, error) {
	if inputCount <= 0 || outputCount <= 0 {
		return nil, fmt.Errorf("genome needs at least one input and one output, got %d/%d", inputCount, outputCount)
	}
	if ledger == nil {
		return nil, fmt.Errorf("genome needs an innovation ledger")
	}
	if rates == nil {
		rates = DefaultRates()
	}
	r := *rates
	if err := r.Validate(); err != nil {
		return nil, err
	}

	g := &Genome{
		InputCount:  inputCount,
		OutputCount: outputCount,
		nodes:       make(map[int]*NodeGene, inputCount+outputCount),
		ledger:      ledger,
		rates:       &r,
		rng:         rand.New(rand.NewSource(seed)),
	}
	for id := 0; id < inputCount; id++ {
		g.nodes[id] = NewNodeGene(id, InputNode, Identity)
	}
	for id := inputCount; id < inputCount+outputCount; id++ {
		g.nodes[id] = NewNodeGene(id, OutputNode, r.OutputActivation)
	}
	ledger.ReserveNodeIDs(inputCount + outputCount)
	return g, nil
}

// Generate creates a genome with sparse random input->output wiring.
// MaxStartConnectionCount pairs are drawn, each kept with probability
// StartConnectionProbability; duplicate pairs are skipped.
func Generate(inputCount, outputCount int, rates *Rates, ledger *InnovationLedger, seed int64) (*Genome, error) {
	g, err := NewGenome(inputCount, outputCount, rates, ledger, seed)
	if err != nil {
		return nil, err
	}

	inputs := g.idsWithRole(InputNode)
	outputs := g.idsWithRole(OutputNode)
	for i := 0; i < g.rates.MaxStartConnectionCount; i++ {
		if g.rng.Float64() >= g.rates.StartConnectionProbability {
			continue
		}
		source := inputs[g.rng.Intn(len(inputs))]
		target := outputs[g.rng.Intn(len(outputs))]
		if g.findConnection(source, target) != nil {
			continue
		}
		g.appendConnection(source, target, g.randomWeight())
	}
	g.touch()
	return g, nil
}

// AddNode inserts a node gene. Hidden ids are reserved in the ledger so it
// never hands them out again.
func (g *Genome) AddNode(id int, role NodeRole, activation Activation) (*NodeGene, error) {
	if _, exists := g.nodes[id]; exists {
		return nil, fmt.Errorf("%w: %d", ErrDuplicateNode, id)
	}
	if !activation.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownActivation, int(activation))
	}
	node := NewNodeGene(id, role, activation)
	g.nodes[id] = node
	g.ledger.ReserveNodeIDs(id + 1)
	g.touch()
	return node, nil
}

// AddConnection appends an enabled connection after checking every structural
// invariant. The innovation number comes from the shared ledger.
func (g *Genome) AddConnection(source, target int, weight float64) (*ConnectionGene, error) {
	if err := g.checkNewConnection(source, target); err != nil {
		return nil, err
	}
	conn := g.appendConnection(source, target, weight)
	g.touch()
	return conn, nil
}

// SetConnectionEnabled enables or disables the connection with the given
// innovation number. Enabling fails with ErrCycle when it would close a cycle.
// Changing the flag bumps the revision, so evaluation orders built before the
// call are rejected as stale.
func (g *Genome) SetConnectionEnabled(innovation int, enabled bool) error {
	var conn *ConnectionGene
	for _, c := range g.connections {
		if c.Innovation == innovation {
			conn = c
			break
		}
	}
	if conn == nil {
		return fmt.Errorf("%w: innovation %d", ErrUnknownConnection, innovation)
	}
	if conn.Enabled == enabled {
		return nil
	}
	if enabled && g.createsCycle(conn.Source, conn.Target) {
		return fmt.Errorf("%w: %s", ErrCycle, conn)
	}
	conn.Enabled = enabled
	g.touch()
	return nil
}

// Copy returns an independent deep copy that shares the ledger and rates.
// The copy draws its own random stream seeded from this genome's.
func (g *Genome) Copy() *Genome {
	c := &Genome{
		InputCount:  g.InputCount,
		OutputCount: g.OutputCount,
		nodes:       make(map[int]*NodeGene, len(g.nodes)),
		connections: make([]*ConnectionGene, 0, len(g.connections)),
		ledger:      g.ledger,
		rates:       g.rates,
		rng:         rand.New(rand.NewSource(g.rng.Int63())),
		revision:    g.revision,
	}
	for id, n := range g.nodes {
		c.nodes[id] = n.Copy()
	}
	for _, conn := range g.connections {
		c.connections = append(c.connections, conn.Copy())
	}
	return c
}

// Node returns the node gene with the given id.
func (g *Genome) Node(id int) (*NodeGene, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// NodeIDs returns every node id in ascending order.
func (g *Genome) NodeIDs() []int {
	ids := make([]int, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// InputIDs returns the input node ids in ascending order.
func (g *Genome) InputIDs() []int { return g.idsWithRole(InputNode) }

// OutputIDs returns the output node ids in ascending order.
func (g *Genome) OutputIDs() []int { return g.idsWithRole(OutputNode) }

// NodeCount returns the number of node genes.
func (g *Genome) NodeCount() int { return len(g.nodes) }

// Connections returns the connection genes in insertion order.
// The slice and its genes are owned by the genome. Treat Enabled as read-only
// and use SetConnectionEnabled: writing it directly skips the revision bump
// and leaves cached structure stale.
func (g *Genome) Connections() []*ConnectionGene { return g.connections }

// Ledger returns the innovation ledger shared with the population.
func (g *Genome) Ledger() *InnovationLedger { return g.ledger }

// Rates returns the mutation rates the genome was created with.
func (g *Genome) Rates() *Rates { return g.rates }

// Revision identifies the current structure. It changes whenever nodes or
// connections are added or a connection is enabled or disabled.
func (g *Genome) Revision() uint64 { return g.revision }

// Incoming returns the enabled connections targeting id, in connection order.
func (g *Genome) Incoming(id int) []*ConnectionGene {
	if g.incoming == nil {
		g.incoming = make(map[int][]*ConnectionGene, len(g.nodes))
		for _, c := range g.connections {
			if c.Enabled {
				g.incoming[c.Target] = append(g.incoming[c.Target], c)
			}
		}
	}
	return g.incoming[id]
}

// Validate checks the structural invariants of the genome: every connection
// references existing nodes, respects node roles, appears once by endpoints
// and by innovation, and the enabled subgraph is acyclic.
func (g *Genome) Validate() error {
	pairs := make(map[ConnectionKey]bool, len(g.connections))
	innovations := make(map[int]bool, len(g.connections))
	for _, c := range g.connections {
		src, ok := g.nodes[c.Source]
		if !ok {
			return fmt.Errorf("%w: source %d of %s", ErrUnknownNode, c.Source, c)
		}
		tgt, ok := g.nodes[c.Target]
		if !ok {
			return fmt.Errorf("%w: target %d of %s", ErrUnknownNode, c.Target, c)
		}
		if src.Role == OutputNode || tgt.Role == InputNode {
			return fmt.Errorf("%w: %s", ErrInvalidRole, c)
		}
		if c.Source == c.Target {
			return fmt.Errorf("%w: %s", ErrSelfLoop, c)
		}
		if pairs[c.Key()] {
			return fmt.Errorf("%w: %s", ErrDuplicateConn, c)
		}
		if innovations[c.Innovation] {
			return fmt.Errorf("%w: innovation %d", ErrDuplicateConn, c.Innovation)
		}
		pairs[c.Key()] = true
		innovations[c.Innovation] = true
	}
	if !g.acyclic() {
		return ErrCycle
	}
	return nil
}

// String returns a string representation of the genome.
func (g *Genome) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Nodes (%d): [", len(g.nodes))
	for i, id := range g.NodeIDs() {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(g.nodes[id].String())
	}
	fmt.Fprintf(&b, "],\n Connections (%d): [", len(g.connections))
	for i, c := range g.connections {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(c.String())
	}
	b.WriteString("]")
	return b.String()
}

// checkNewConnection reports why source->target cannot be added, or nil.
func (g *Genome) checkNewConnection(source, target int) error {
	src, ok := g.nodes[source]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownNode, source)
	}
	tgt, ok := g.nodes[target]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownNode, target)
	}
	if src.Role == OutputNode || tgt.Role == InputNode {
		return fmt.Errorf("%w: %s %d -> %s %d", ErrInvalidRole, src.Role, source, tgt.Role, target)
	}
	if source == target {
		return fmt.Errorf("%w: %d", ErrSelfLoop, source)
	}
	if g.findConnection(source, target) != nil {
		return fmt.Errorf("%w: %d -> %d", ErrDuplicateConn, source, target)
	}
	if g.createsCycle(source, target) {
		return fmt.Errorf("%w: %d -> %d", ErrCycle, source, target)
	}
	return nil
}

// appendConnection records an enabled connection without validation.
// Callers are responsible for calling touch.
func (g *Genome) appendConnection(source, target int, weight float64) *ConnectionGene {
	conn := &ConnectionGene{
		Source:     source,
		Target:     target,
		Weight:     weight,
		Innovation: g.ledger.ConnectionInnovation(source, target),
		Enabled:    true,
	}
	g.connections = append(g.connections, conn)
	return conn
}

func (g *Genome) findConnection(source, target int) *ConnectionGene {
	for _, c := range g.connections {
		if c.Source == source && c.Target == target {
			return c
		}
	}
	return nil
}

// createsCycle reports whether an enabled source->target edge would close a
// cycle, i.e. whether target already reaches source through enabled connections.
func (g *Genome) createsCycle(source, target int) bool {
	if source == target {
		return true
	}

	successors := make(map[int][]int)
	for _, c := range g.connections {
		if c.Enabled {
			successors[c.Source] = append(successors[c.Source], c.Target)
		}
	}

	visited := make(map[int]bool)
	queue := []int{target}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if current == source {
			return true
		}
		if visited[current] {
			continue
		}
		visited[current] = true
		queue = append(queue, successors[current]...)
	}
	return false
}

// acyclic runs Kahn's algorithm over the enabled subgraph and reports
// whether every node could be ordered.
func (g *Genome) acyclic() bool {
	inDegree := make(map[int]int, len(g.nodes))
	successors := make(map[int][]int)
	for _, c := range g.connections {
		if c.Enabled {
			successors[c.Source] = append(successors[c.Source], c.Target)
			inDegree[c.Target]++
		}
	}
	queue := []int{}
	for id := range g.nodes {
		if inDegree[id] == 0 {
			queue = append(queue, id)
		}
	}
	seen := 0
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		seen++
		for _, v := range successors[u] {
			inDegree[v]--
			if inDegree[v] == 0 {
				queue = append(queue, v)
			}
		}
	}
	return seen == len(g.nodes)
}

func (g *Genome) idsWithRole(role NodeRole) []int {
	ids := []int{}
	for id, n := range g.nodes {
		if n.Role == role {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	return ids
}

func (g *Genome) randomWeight() float64 {
	return g.rates.WeightMinValue + g.rng.Float64()*(g.rates.WeightMaxValue-g.rates.WeightMinValue)
}

// touch marks a structural change.
func (g *Genome) touch() {
	g.revision++
	g.incoming = nil
}
