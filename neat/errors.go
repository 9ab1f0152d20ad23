package neat

import "errors"

var (
	ErrUnknownActivation = errors.New("unknown activation function")
	ErrUnknownNode       = errors.New("node not present in genome")
	ErrDuplicateNode     = errors.New("node already present in genome")
	ErrInvalidRole       = errors.New("connection violates node roles")
	ErrSelfLoop          = errors.New("connection from a node to itself")
	ErrDuplicateConn     = errors.New("connection already present in genome")
	ErrUnknownConnection = errors.New("connection not present in genome")
	ErrCycle             = errors.New("connection would create a cycle")
	ErrLedgerMismatch    = errors.New("genomes do not share an innovation ledger")
	ErrInvalidRates      = errors.New("invalid mutation rates")
)
