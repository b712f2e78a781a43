// Package correctness verifies accelerated candidates against their
// family baseline before any timing happens.
//
// A candidate flagged for verification is run over a deterministic
// sample of the corpus, element by element, and every output is
// compared to the baseline's output for exact equality. The first
// disagreement stops verification for that candidate and is reported
// with the offending input; a failed candidate is excluded from timing
// but still appears in the report with a failure marker. Verification
// is never retried.
package correctness

import (
	"errors"
	"fmt"

	"github.com/ashvardanian/SubstringSearchBenchmark/eval"
)

// -----------------------------------------------------------------------------
// Errors
// -----------------------------------------------------------------------------

// ErrMismatch indicates a candidate disagreed with its baseline.
var ErrMismatch = errors.New("correctness mismatch")

// MismatchError describes the first disagreement between a candidate
// and its baseline.
//
// Description:
//
//	Carries enough context to reproduce the failure by hand: the
//	candidate's name, the sample index, the rendered input, and both
//	outputs. Unwraps to ErrMismatch so callers can match with
//	errors.Is.
type MismatchError struct {
	// Candidate is the disagreeing candidate's name.
	Candidate string

	// Index is the position in the sample stream.
	Index int

	// Input is the rendered offending input, truncated for display.
	Input string

	// Baseline is the baseline's encoded output.
	Baseline uint64

	// Got is the candidate's encoded output.
	Got uint64
}

// Error implements the error interface.
func (e *MismatchError) Error() string {
	return fmt.Sprintf("%s: %s at sample %d on %s: baseline=%d got=%d",
		ErrMismatch, e.Candidate, e.Index, e.Input, e.Baseline, e.Got)
}

// Unwrap lets errors.Is match ErrMismatch.
func (e *MismatchError) Unwrap() error {
	return ErrMismatch
}

// -----------------------------------------------------------------------------
// Options
// -----------------------------------------------------------------------------

const defaultSampleSize = 1024

type config struct {
	sampleSize int
}

// Option configures a verification pass.
type Option func(*config)

// WithSampleSize sets the number of corpus elements (or adjacent
// pairs) to check.
//
// Description:
//
//	The sample is the corpus prefix, capped at the corpus length, so
//	repeated runs over the same corpus verify the same stream. Must
//	be positive; non-positive values are ignored.
//
// Example:
//
//	err := correctness.VerifyUnary(base, cand, "crc32c", corpus,
//	    correctness.WithSampleSize(4096))
func WithSampleSize(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.sampleSize = n
		}
	}
}

// -----------------------------------------------------------------------------
// Verification
// -----------------------------------------------------------------------------

// VerifyUnary checks a unary candidate against its baseline over a
// corpus prefix.
//
// Inputs:
//   - baseline: The reference operation. Must not be nil.
//   - candidate: The operation under suspicion. Must not be nil.
//   - name: Candidate name for the error report.
//   - corpus: Input tokens. An empty corpus verifies trivially.
//   - opts: Optional settings.
//
// Outputs:
//   - error: Nil when every sampled output matches; *MismatchError on
//     the first disagreement.
//
// Thread Safety: Safe for concurrent use with distinct corpora.
func VerifyUnary(baseline, candidate eval.UnaryOp, name string, corpus []eval.Token, opts ...Option) error {
	cfg := config{sampleSize: defaultSampleSize}
	for _, opt := range opts {
		opt(&cfg)
	}

	n := cfg.sampleSize
	if n > len(corpus) {
		n = len(corpus)
	}
	for i := 0; i < n; i++ {
		want := baseline(corpus[i])
		got := candidate(corpus[i])
		if got != want {
			return &MismatchError{
				Candidate: name,
				Index:     i,
				Input:     renderToken(corpus[i]),
				Baseline:  want,
				Got:       got,
			}
		}
	}
	return nil
}

// VerifyBinary checks a binary candidate against its baseline over
// adjacent corpus pairs.
//
// Description:
//
//	Pairs element i with element (i+1) mod n, matching the pairing the
//	sampler times, so verification covers the exact input stream the
//	candidate will be measured on.
//
// Outputs:
//   - error: Nil when every sampled output matches; *MismatchError on
//     the first disagreement.
func VerifyBinary(baseline, candidate eval.BinaryOp, name string, corpus []eval.Token, opts ...Option) error {
	cfg := config{sampleSize: defaultSampleSize}
	for _, opt := range opts {
		opt(&cfg)
	}

	n := cfg.sampleSize
	if n > len(corpus) {
		n = len(corpus)
	}
	for i := 0; i < n; i++ {
		a := corpus[i]
		b := corpus[(i+1)%len(corpus)]
		want := baseline(a, b)
		got := candidate(a, b)
		if got != want {
			return &MismatchError{
				Candidate: name,
				Index:     i,
				Input:     renderPair(a, b),
				Baseline:  want,
				Got:       got,
			}
		}
	}
	return nil
}

// renderToken quotes a token for an error message, truncating long
// inputs so a pathological corpus cannot flood the report.
func renderToken(t eval.Token) string {
	const maxRender = 32
	if len(t) <= maxRender {
		return fmt.Sprintf("%q", string(t))
	}
	return fmt.Sprintf("%q...(%d bytes)", string(t[:maxRender]), len(t))
}

// renderPair renders both operands of a binary mismatch.
func renderPair(a, b eval.Token) string {
	return renderToken(a) + " ~ " + renderToken(b)
}
