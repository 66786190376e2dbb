package frame

import (
	"errors"
	"fmt"
	"math"
	"testing"
)

func TestBlockError(t *testing.T) {
	err := NewMismatchError(1, 5)
	if err.Kind != KindBlockNumberMismatch {
		t.Errorf("expected kind BlockNumberMismatch, got %s", err.Kind)
	}

	expected := "block number mismatch: expected 1, got 5"
	if err.Error() != expected {
		t.Errorf("expected %q, got %q", expected, err.Error())
	}

	malformed := &BlockError{Kind: KindMalformedCall, Index: 3}
	if malformed.Error() != "malformed call in extrinsic 3" {
		t.Errorf("unexpected message: %s", malformed.Error())
	}
}

func TestIsBlockError(t *testing.T) {
	blockErr := NewMismatchError(2, 9)

	// Direct.
	b, ok := IsBlockError(blockErr)
	if !ok {
		t.Fatal("expected IsBlockError to return true")
	}
	if b.Got != 9 {
		t.Errorf("expected got 9, got %d", b.Got)
	}

	// Wrapped.
	wrapped := fmt.Errorf("wrapped: %w", blockErr)
	b2, ok2 := IsBlockError(wrapped)
	if !ok2 {
		t.Fatal("expected IsBlockError to unwrap wrapped error")
	}
	if b2.Expected != 2 {
		t.Errorf("expected 2, got %d", b2.Expected)
	}

	// Extrinsic errors are not block errors.
	_, ok3 := IsBlockError(&ExtrinsicError{Err: errors.New("insufficient funds")})
	if ok3 {
		t.Fatal("expected IsBlockError to return false for extrinsic error")
	}

	// Nil.
	_, ok4 := IsBlockError(nil)
	if ok4 {
		t.Fatal("expected IsBlockError to return false for nil")
	}
}

func TestExtrinsicError_Unwrap(t *testing.T) {
	sentinel := errors.New("insufficient funds")
	err := &ExtrinsicError{Block: 4, Index: 1, Err: sentinel}

	if !errors.Is(err, sentinel) {
		t.Fatal("expected errors.Is to see the wrapped error")
	}
	expected := "extrinsic 1 in block 4: insufficient funds"
	if err.Error() != expected {
		t.Errorf("expected %q, got %q", expected, err.Error())
	}
}

func TestCheckedInc(t *testing.T) {
	if n, ok := CheckedInc(uint32(0)); !ok || n != 1 {
		t.Errorf("expected (1, true), got (%d, %v)", n, ok)
	}
	if n, ok := CheckedInc(uint8(math.MaxUint8)); ok || n != math.MaxUint8 {
		t.Errorf("expected (255, false), got (%d, %v)", n, ok)
	}

	type height uint16
	if n, ok := CheckedInc(height(41)); !ok || n != 42 {
		t.Errorf("expected (42, true), got (%d, %v)", n, ok)
	}
}

func TestBlockErrorKind_String(t *testing.T) {
	if KindBlockNumberOverflow.String() != "BlockNumberOverflow" {
		t.Errorf("unexpected: %s", KindBlockNumberOverflow)
	}
	if BlockErrorKind(99).String() != "unknown(99)" {
		t.Errorf("unexpected: %s", BlockErrorKind(99))
	}
}
