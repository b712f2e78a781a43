package eval

import (
	"errors"
	"fmt"
)

// -----------------------------------------------------------------------------
// Errors
// -----------------------------------------------------------------------------

var (
	// ErrNotFound is returned when a candidate is not found in the registry.
	ErrNotFound = errors.New("candidate not found")

	// ErrAlreadyRegistered is returned when attempting to register a duplicate name.
	ErrAlreadyRegistered = errors.New("candidate already registered")

	// ErrNilCandidate is returned when attempting to register a nil operation.
	ErrNilCandidate = errors.New("candidate operation must not be nil")

	// ErrEmptyName is returned when attempting to register under an empty name.
	ErrEmptyName = errors.New("candidate name must not be empty")

	// ErrRegistryFrozen is returned when registering into a frozen registry.
	ErrRegistryFrozen = errors.New("registry is frozen")

	// ErrNoBaseline is returned when a baseline is requested from an empty registry.
	ErrNoBaseline = errors.New("registry has no baseline candidate")
)

// -----------------------------------------------------------------------------
// Token
// -----------------------------------------------------------------------------

// Token is an immutable, non-owning view over a contiguous byte range
// holding one short string (a word, a line, or an arbitrary span).
//
// Description:
//
//	Tokens are slices into a backing buffer owned by the corpus provider
//	for the duration of a benchmark pass. The harness never mutates a
//	token and never retains one past its corpus's lifetime.
type Token []byte

// Len returns the byte length of the token.
func (t Token) Len() int { return len(t) }

// IsEmpty reports whether the token has zero length.
func (t Token) IsEmpty() bool { return len(t) == 0 }

// String returns a copy of the token bytes for display purposes.
func (t Token) String() string { return string(t) }

// -----------------------------------------------------------------------------
// Operation Signatures
// -----------------------------------------------------------------------------

// UnaryOp is the uniform signature for single-token operations such as
// checksums, hashes, and dereference-cost probes. Family-specific result
// types are encoded into the uint64 domain by the registering wrapper.
type UnaryOp func(t Token) uint64

// BinaryOp is the uniform signature for two-token operations such as
// equality and three-way ordering. Both operands come from the same
// corpus stream; see the benchmark package for the pairing rule.
type BinaryOp func(a, b Token) uint64

// EncodeBool maps a boolean result onto the uniform result domain.
func EncodeBool(v bool) uint64 {
	if v {
		return 1
	}
	return 0
}

// DecodeBool recovers a boolean result from the uniform result domain.
func DecodeBool(v uint64) bool { return v != 0 }

// -----------------------------------------------------------------------------
// Ordering
// -----------------------------------------------------------------------------

// Ordering is the three-way comparison result of an ordering candidate.
// The values match bytes.Compare so stdlib-backed candidates convert
// without branching.
type Ordering int

const (
	// Less means the first operand sorts before the second.
	Less Ordering = iota - 1
	// Equal means both operands compare equal.
	Equal
	// Greater means the first operand sorts after the second.
	Greater
)

// String returns the string representation of an Ordering.
func (o Ordering) String() string {
	switch o {
	case Less:
		return "less"
	case Equal:
		return "equal"
	case Greater:
		return "greater"
	default:
		return fmt.Sprintf("ordering(%d)", int(o))
	}
}

// Encode maps the ordering onto the uniform result domain as {0, 1, 2}.
func (o Ordering) Encode() uint64 { return uint64(o + 1) }

// DecodeOrdering recovers an Ordering from the uniform result domain.
func DecodeOrdering(v uint64) Ordering { return Ordering(int64(v) - 1) }

// OrderingFromCompare converts a bytes.Compare style result (-1, 0, +1,
// or any sign-carrying int) into an Ordering.
func OrderingFromCompare(c int) Ordering {
	switch {
	case c < 0:
		return Less
	case c > 0:
		return Greater
	default:
		return Equal
	}
}

// -----------------------------------------------------------------------------
// Candidate
// -----------------------------------------------------------------------------

// Candidate is one named implementation of an operation, registered for
// comparative benchmarking.
//
// Description:
//
//	A candidate pairs a stable report name with an operation of the
//	registry's arity. NeedsVerification marks implementations whose
//	correctness is not already assumed (accelerated or hand-tuned
//	variants); the verifier cross-checks only those, and only against
//	the registry baseline. Candidates are immutable after registration.
type Candidate[O any] struct {
	// Name is the stable identifier used in verification and reporting.
	// Convention: family slash variant, e.g. "checksum/serial".
	Name string

	// Op is the operation under test.
	Op O

	// NeedsVerification marks the candidate for pre-timing verification
	// against the registry baseline. The baseline itself and candidates
	// wrapping already-trusted routines leave this false.
	NeedsVerification bool
}
