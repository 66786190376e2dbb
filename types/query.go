package types

// QueryPath selects what a StateQuery reads.
type QueryPath string

// Supported query paths.
const (
	QueryBalance     QueryPath = "/balance"
	QueryNonce       QueryPath = "/nonce"
	QueryBlockNumber QueryPath = "/block_number"
	QueryState       QueryPath = "/state"
)

// Query result codes.
const (
	QueryOK uint32 = iota
	QueryUnknownPath
)

// StateQuery is a request to read runtime state.
type StateQuery struct {
	Path    QueryPath `cramberry:"1"`
	Account AccountID `cramberry:"2"`
}

// StateQueryResult is the runtime's answer to a StateQuery. Only the
// field matching the query path is populated; State is non-nil for
// every successful QueryState answer.
type StateQueryResult struct {
	Code uint32 `cramberry:"1"`
	Info string `cramberry:"2"`
	// Block number the answer was read at.
	Height  BlockNumber `cramberry:"3"`
	Balance Balance     `cramberry:"4"`
	Nonce   Nonce       `cramberry:"5"`
	State   *State      `cramberry:"6"`
}
