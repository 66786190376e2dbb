// Package frame defines the building blocks shared by every pallet
// and by the runtime that composes them: the Dispatch capability,
// the generic block and extrinsic shapes, and the numeric bounds a
// pallet may place on its type parameters.
//
// A pallet owns a disjoint slice of state and a call type of its own.
// The runtime aggregates the pallets' call types into one routable
// call and applies blocks of extrinsics in order.
package frame

// Dispatch is implemented by every pallet over its own call type and
// by the runtime over the aggregated call type.
//
// Dispatch applies the effect of call on behalf of caller. The caller
// is assumed to be authenticated already. A non-nil error means the
// call had no effect on the state owned by the implementer.
type Dispatch[Caller, Call any] interface {
	Dispatch(caller Caller, call Call) error
}

// Unsigned is the bound for counters such as nonces and block
// numbers. The zero value is zero.
type Unsigned interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uint
}

// CheckedInc returns v+1 and true, or v and false if the increment
// would wrap.
func CheckedInc[T Unsigned](v T) (T, bool) {
	n := v + 1
	if n == 0 {
		return v, false
	}
	return n, true
}

// Balance is the bound for ledger amounts. The zero value of B must
// be the zero amount, and both operations must report overflow or
// underflow instead of wrapping.
type Balance[B any] interface {
	comparable
	CheckedAdd(B) (B, bool)
	CheckedSub(B) (B, bool)
}

// Header carries the block metadata the runtime validates.
type Header[N Unsigned] struct {
	BlockNumber N `cramberry:"1"`
}

// Extrinsic is one externally submitted instruction.
type Extrinsic[A, C any] struct {
	Caller A `cramberry:"1"`
	Call   C `cramberry:"2"`
}

// Block is a header plus an ordered list of extrinsics. Extrinsics
// are applied strictly in slice order.
type Block[N Unsigned, X any] struct {
	Header     Header[N] `cramberry:"1"`
	Extrinsics []X       `cramberry:"2"`
}
