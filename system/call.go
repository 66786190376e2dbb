package system

// Remark records an opaque note on chain. It has no effect on state
// beyond the nonce increment every extrinsic receives.
type Remark struct {
	Data []byte `cramberry:"1"`
}

// Call is the tagged union of system operations. Exactly one field
// must be set.
type Call struct {
	Remark *Remark `cramberry:"1"`
}

// Validate reports whether exactly one operation is selected.
func (c Call) Validate() error {
	if c.Remark == nil {
		return ErrMalformedCall
	}
	return nil
}

// Dispatch routes call to the matching operation.
func (p *Pallet[A, BN, N]) Dispatch(_ A, call Call) error {
	switch {
	case call.Remark != nil:
		return nil
	default:
		return ErrMalformedCall
	}
}
