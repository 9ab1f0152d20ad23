package neat

import "sync"

// ConnectionKey identifies a structural connection by its ordered endpoints.
type ConnectionKey struct {
	Source int
	Target int
}

// InnovationLedger hands out historical markings shared by every genome of a
// population. The same structural mutation arising independently in different
// genomes receives the same innovation number (or hidden node id), which is
// what lets crossover line up genes of differently shaped parents.
//
// The ledger is safe for concurrent use. It never forgets a key.
type InnovationLedger struct {
	mu             sync.Mutex
	connections    map[ConnectionKey]int
	splits         map[int]int
	nextInnovation int
	nextNode       int
}

// LedgerStats is a snapshot of a ledger's counters.
type LedgerStats struct {
	Innovations int // number of distinct connection innovations recorded
	Splits      int // number of split innovations with an assigned node id
	NextNodeID  int
}

// NewInnovationLedger creates an empty ledger. Innovation numbers start at 1,
// node ids start at 0 until ReserveNodeIDs moves them past the io nodes.
func NewInnovationLedger() *InnovationLedger {
	return &InnovationLedger{
		connections:    make(map[ConnectionKey]int),
		splits:         make(map[int]int),
		nextInnovation: 1,
	}
}

// ConnectionInnovation returns the innovation number of the ordered pair
// (source, target), allocating the next one the first time the pair is seen.
func (l *InnovationLedger) ConnectionInnovation(source, target int) int {
	key := ConnectionKey{Source: source, Target: target}

	l.mu.Lock()
	defer l.mu.Unlock()

	if innov, ok := l.connections[key]; ok {
		return innov
	}
	innov := l.nextInnovation
	l.nextInnovation++
	l.connections[key] = innov
	return innov
}

// SplitNodeID returns the hidden node id created when the connection with the
// given innovation number was split, allocating one on first use.
func (l *InnovationLedger) SplitNodeID(innovation int) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	if id, ok := l.splits[innovation]; ok {
		return id
	}
	id := l.allocNodeLocked()
	l.splits[innovation] = id
	return id
}

// NextNodeID allocates a node id that is not tied to any split.
func (l *InnovationLedger) NextNodeID() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.allocNodeLocked()
}

// ReserveNodeIDs guarantees every id allocated from now on is >= n.
// Genomes call it with their io node count so hidden ids never collide.
func (l *InnovationLedger) ReserveNodeIDs(n int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.nextNode < n {
		l.nextNode = n
	}
}

// Stats returns the current counters.
func (l *InnovationLedger) Stats() LedgerStats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return LedgerStats{
		Innovations: len(l.connections),
		Splits:      len(l.splits),
		NextNodeID:  l.nextNode,
	}
}

func (l *InnovationLedger) allocNodeLocked() int {
	id := l.nextNode
	l.nextNode++
	return id
}
