// Package types binds the runtime's generic parameters to concrete
// types and defines the data exchanged with the runtime.
//
// These are plain Go structs with cramberry struct tags for
// deterministic binary serialization. Transport concerns (gRPC codec
// registration) are handled in the transport packages.
package types

// AccountID identifies an account. Callers are authenticated before
// their extrinsics reach the runtime.
type AccountID string

// Nonce counts the extrinsics an account has issued.
type Nonce uint32

// BlockNumber is the height of a block.
type BlockNumber uint32

// Result codes carried by ExtrinsicResult.
const (
	CodeOK uint32 = iota
	CodeInsufficientFunds
	CodeOverflow
	CodeNonceOverflow
	CodeUnknown
)

// ExtrinsicResult is the outcome of applying a single extrinsic.
type ExtrinsicResult struct {
	// Position of this extrinsic in the block (0-indexed).
	Index uint32 `cramberry:"1"`
	// Result code. 0 = success.
	Code uint32 `cramberry:"2"`
	// Human-readable error description, empty on success.
	Info string `cramberry:"3"`
}

// OK returns true if the extrinsic was applied successfully.
func (r ExtrinsicResult) OK() bool { return r.Code == CodeOK }

// BlockOutcome is the result of applying a block that passed
// validation.
type BlockOutcome struct {
	BlockNumber BlockNumber `cramberry:"1"`
	// Per-extrinsic results, in block order.
	Results []ExtrinsicResult `cramberry:"2"`
}

// Failed returns the number of extrinsics that were not applied.
func (o BlockOutcome) Failed() int {
	n := 0
	for _, r := range o.Results {
		if !r.OK() {
			n++
		}
	}
	return n
}
