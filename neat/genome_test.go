package neat

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGenome(t *testing.T, inputs, outputs int, ledger *InnovationLedger, seed int64) *Genome {
	t.Helper()
	g, err := NewGenome(inputs, outputs, DefaultRates(), ledger, seed)
	require.NoError(t, err)
	return g
}

func TestNewGenomeAssignsIONodeIDs(t *testing.T) {
	l := NewInnovationLedger()
	g := newTestGenome(t, 3, 2, l, 1)

	assert.Equal(t, []int{0, 1, 2}, g.InputIDs())
	assert.Equal(t, []int{3, 4}, g.OutputIDs())
	assert.Empty(t, g.Connections())

	out, ok := g.Node(3)
	require.True(t, ok)
	assert.Equal(t, OutputNode, out.Role)
	assert.Equal(t, Sigmoid, out.Activation)

	// Hidden ids must start after the io nodes.
	assert.Equal(t, 5, l.NextNodeID())
}

func TestNewGenomeRejectsBadArguments(t *testing.T) {
	l := NewInnovationLedger()

	_, err := NewGenome(0, 1, nil, l, 1)
	assert.Error(t, err)
	_, err = NewGenome(1, 1, nil, nil, 1)
	assert.Error(t, err)

	rates := DefaultRates()
	rates.NodeAdditionRate = 2
	_, err = NewGenome(1, 1, rates, l, 1)
	assert.ErrorIs(t, err, ErrInvalidRates)
}

func TestGenerateWiresInputsToOutputs(t *testing.T) {
	rates := DefaultRates()
	rates.StartConnectionProbability = 1
	rates.MaxStartConnectionCount = 10

	l := NewInnovationLedger()
	g, err := Generate(6, 6, rates, l, 42)
	require.NoError(t, err)
	require.NoError(t, g.Validate())

	conns := g.Connections()
	assert.NotEmpty(t, conns)
	assert.LessOrEqual(t, len(conns), 10)
	for _, c := range conns {
		src, _ := g.Node(c.Source)
		tgt, _ := g.Node(c.Target)
		assert.Equal(t, InputNode, src.Role)
		assert.Equal(t, OutputNode, tgt.Role)
		assert.True(t, c.Enabled)
		assert.GreaterOrEqual(t, c.Weight, rates.WeightMinValue)
		assert.LessOrEqual(t, c.Weight, rates.WeightMaxValue)
		assert.Equal(t, l.ConnectionInnovation(c.Source, c.Target), c.Innovation)
	}
}

func TestGenerateWithZeroProbabilityIsUnconnected(t *testing.T) {
	rates := DefaultRates()
	rates.StartConnectionProbability = 0

	g, err := Generate(4, 2, rates, NewInnovationLedger(), 7)
	require.NoError(t, err)
	assert.Empty(t, g.Connections())
}

func TestGenerateIsDeterministicForSeed(t *testing.T) {
	a, err := Generate(6, 6, DefaultRates(), NewInnovationLedger(), 99)
	require.NoError(t, err)
	b, err := Generate(6, 6, DefaultRates(), NewInnovationLedger(), 99)
	require.NoError(t, err)
	assert.Equal(t, a.String(), b.String())
}

func TestAddConnectionInvariants(t *testing.T) {
	l := NewInnovationLedger()
	g := newTestGenome(t, 1, 1, l, 1)
	_, err := g.AddNode(2, HiddenNode, Sigmoid)
	require.NoError(t, err)
	_, err = g.AddNode(3, HiddenNode, Sigmoid)
	require.NoError(t, err)

	tests := []struct {
		name   string
		source int
		target int
		want   error
	}{
		{name: "output to input", source: 1, target: 0, want: ErrInvalidRole},
		{name: "from output", source: 1, target: 2, want: ErrInvalidRole},
		{name: "into input", source: 2, target: 0, want: ErrInvalidRole},
		{name: "self loop", source: 2, target: 2, want: ErrSelfLoop},
		{name: "missing source", source: 9, target: 1, want: ErrUnknownNode},
		{name: "missing target", source: 0, target: 9, want: ErrUnknownNode},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := g.AddConnection(tc.source, tc.target, 1)
			assert.ErrorIs(t, err, tc.want)
		})
	}

	_, err = g.AddConnection(2, 3, 1)
	require.NoError(t, err)
	_, err = g.AddConnection(2, 3, 1)
	assert.ErrorIs(t, err, ErrDuplicateConn)
	_, err = g.AddConnection(3, 2, 1)
	assert.ErrorIs(t, err, ErrCycle)

	assert.Len(t, g.Connections(), 1)
	assert.NoError(t, g.Validate())
}

func TestAddNodeReservesLedgerID(t *testing.T) {
	l := NewInnovationLedger()
	g := newTestGenome(t, 1, 1, l, 1)

	_, err := g.AddNode(8, HiddenNode, ReLU)
	require.NoError(t, err)
	_, err = g.AddNode(8, HiddenNode, ReLU)
	assert.ErrorIs(t, err, ErrDuplicateNode)
	_, err = g.AddNode(20, HiddenNode, Activation(99))
	assert.ErrorIs(t, err, ErrUnknownActivation)

	assert.Equal(t, 9, l.NextNodeID())
}

func TestRevisionTracksStructuralChanges(t *testing.T) {
	g := newTestGenome(t, 1, 1, NewInnovationLedger(), 1)
	r0 := g.Revision()

	conn, err := g.AddConnection(0, 1, 0.5)
	require.NoError(t, err)
	r1 := g.Revision()
	assert.NotEqual(t, r0, r1)

	g.MutateChangeWeight()
	g.MutateChangeActivation()
	assert.Equal(t, r1, g.Revision())

	g.MutateToggleConnection()
	assert.False(t, conn.Enabled)
	assert.NotEqual(t, r1, g.Revision())
	assert.Empty(t, g.Incoming(1))
}

func TestIncomingFollowsConnectionOrder(t *testing.T) {
	g := newTestGenome(t, 3, 1, NewInnovationLedger(), 1)
	_, err := g.AddConnection(2, 3, 1)
	require.NoError(t, err)
	_, err = g.AddConnection(0, 3, 1)
	require.NoError(t, err)
	_, err = g.AddConnection(1, 3, 1)
	require.NoError(t, err)

	var sources []int
	for _, c := range g.Incoming(3) {
		sources = append(sources, c.Source)
	}
	assert.Equal(t, []int{2, 0, 1}, sources)
}

func TestCopyIsIndependent(t *testing.T) {
	l := NewInnovationLedger()
	g := newTestGenome(t, 2, 1, l, 1)
	conn, err := g.AddConnection(0, 2, 0.25)
	require.NoError(t, err)

	c := g.Copy()
	require.Same(t, l, c.Ledger())
	assert.Equal(t, g.String(), c.String())

	conn.Weight = 0.75
	node, _ := g.Node(2)
	node.Activation = ReLU

	assert.Equal(t, 0.25, c.Connections()[0].Weight)
	copied, _ := c.Node(2)
	assert.Equal(t, Sigmoid, copied.Activation)

	c.MutateAddNode()
	assert.Equal(t, 3, g.NodeCount())
	assert.Equal(t, 4, c.NodeCount())
	assert.Len(t, g.Connections(), 1)
}

func TestValidateDetectsCorruption(t *testing.T) {
	g := newTestGenome(t, 1, 1, NewInnovationLedger(), 1)
	_, err := g.AddNode(2, HiddenNode, Sigmoid)
	require.NoError(t, err)
	_, err = g.AddNode(3, HiddenNode, Sigmoid)
	require.NoError(t, err)
	a, err := g.AddConnection(2, 3, 1)
	require.NoError(t, err)
	a.Enabled = false
	b, err := g.AddConnection(3, 2, 1)
	require.NoError(t, err)
	require.NoError(t, g.Validate())

	a.Enabled = true
	assert.True(t, errors.Is(g.Validate(), ErrCycle))

	a.Enabled = false
	b.Target = 42
	assert.ErrorIs(t, g.Validate(), ErrUnknownNode)
}

func TestSetConnectionEnabled(t *testing.T) {
	g := newTestGenome(t, 1, 1, NewInnovationLedger(), 1)
	_, err := g.AddNode(2, HiddenNode, Sigmoid)
	require.NoError(t, err)
	_, err = g.AddNode(3, HiddenNode, Sigmoid)
	require.NoError(t, err)
	fwd, err := g.AddConnection(2, 3, 1)
	require.NoError(t, err)
	require.Len(t, g.Incoming(3), 1)

	rev := g.Revision()
	require.NoError(t, g.SetConnectionEnabled(fwd.Innovation, false))
	assert.False(t, fwd.Enabled)
	assert.NotEqual(t, rev, g.Revision())
	assert.Empty(t, g.Incoming(3))

	// Setting the current value is not a structural change.
	rev = g.Revision()
	require.NoError(t, g.SetConnectionEnabled(fwd.Innovation, false))
	assert.Equal(t, rev, g.Revision())

	back, err := g.AddConnection(3, 2, 1)
	require.NoError(t, err)
	rev = g.Revision()
	assert.ErrorIs(t, g.SetConnectionEnabled(fwd.Innovation, true), ErrCycle)
	assert.False(t, fwd.Enabled)
	assert.Equal(t, rev, g.Revision())

	require.NoError(t, g.SetConnectionEnabled(back.Innovation, false))
	require.NoError(t, g.SetConnectionEnabled(fwd.Innovation, true))
	assert.NoError(t, g.Validate())

	assert.ErrorIs(t, g.SetConnectionEnabled(99, true), ErrUnknownConnection)
}
