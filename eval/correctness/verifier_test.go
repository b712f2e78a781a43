package correctness

import (
	"errors"
	"strings"
	"testing"

	"github.com/ashvardanian/SubstringSearchBenchmark/eval"
)

func tokens(words ...string) []eval.Token {
	out := make([]eval.Token, len(words))
	for i, w := range words {
		out[i] = eval.Token(w)
	}
	return out
}

// byteSum is the reference unary op used throughout: the sum of all
// byte values, so "abc" yields 294.
func byteSum(t eval.Token) uint64 {
	var sum uint64
	for _, b := range t {
		sum += uint64(b)
	}
	return sum
}

func TestVerifyUnary(t *testing.T) {
	corpus := tokens("abc", "hello", "x", "benchmark")

	t.Run("agreeing candidate passes", func(t *testing.T) {
		if err := VerifyUnary(byteSum, byteSum, "twin", corpus); err != nil {
			t.Fatalf("VerifyUnary() = %v, want nil", err)
		}
	})

	t.Run("empty corpus verifies trivially", func(t *testing.T) {
		if err := VerifyUnary(byteSum, byteSum, "twin", nil); err != nil {
			t.Fatalf("VerifyUnary() = %v, want nil", err)
		}
	})

	t.Run("disagreement is reported with context", func(t *testing.T) {
		offByOne := func(tok eval.Token) uint64 { return byteSum(tok) + 1 }
		err := VerifyUnary(byteSum, offByOne, "off-by-one", corpus)
		if !errors.Is(err, ErrMismatch) {
			t.Fatalf("VerifyUnary() = %v, want ErrMismatch", err)
		}

		var mismatch *MismatchError
		if !errors.As(err, &mismatch) {
			t.Fatalf("VerifyUnary() error type = %T, want *MismatchError", err)
		}
		if mismatch.Candidate != "off-by-one" {
			t.Errorf("Candidate = %q, want %q", mismatch.Candidate, "off-by-one")
		}
		if mismatch.Index != 0 {
			t.Errorf("Index = %d, want 0", mismatch.Index)
		}
		if mismatch.Baseline != 294 {
			t.Errorf("Baseline = %d, want 294", mismatch.Baseline)
		}
		if mismatch.Got != 295 {
			t.Errorf("Got = %d, want 295", mismatch.Got)
		}
		if !strings.Contains(mismatch.Input, "abc") {
			t.Errorf("Input = %q, want it to contain the offending token", mismatch.Input)
		}
	})

	t.Run("repeat verification reports the same outcome", func(t *testing.T) {
		offByOne := func(tok eval.Token) uint64 { return byteSum(tok) + 1 }

		first := VerifyUnary(byteSum, offByOne, "off-by-one", corpus)
		second := VerifyUnary(byteSum, offByOne, "off-by-one", corpus)

		var a, b *MismatchError
		if !errors.As(first, &a) || !errors.As(second, &b) {
			t.Fatalf("VerifyUnary() = (%v, %v), want two *MismatchError", first, second)
		}
		if a.Index != b.Index || a.Baseline != b.Baseline || a.Got != b.Got {
			t.Errorf("outcomes differ across runs: %+v vs %+v", a, b)
		}
	})

	t.Run("stops at first disagreement", func(t *testing.T) {
		calls := 0
		flaky := func(tok eval.Token) uint64 {
			calls++
			if len(tok) == 5 {
				return 0
			}
			return byteSum(tok)
		}
		err := VerifyUnary(byteSum, flaky, "flaky", corpus)

		var mismatch *MismatchError
		if !errors.As(err, &mismatch) {
			t.Fatalf("VerifyUnary() = %v, want *MismatchError", err)
		}
		if mismatch.Index != 1 {
			t.Errorf("Index = %d, want 1", mismatch.Index)
		}
		if calls != 2 {
			t.Errorf("candidate calls = %d, want 2 (fail fast)", calls)
		}
	})

	t.Run("sample size bounds the check", func(t *testing.T) {
		lateMismatch := func(tok eval.Token) uint64 {
			if len(tok) == 9 {
				return 0
			}
			return byteSum(tok)
		}
		err := VerifyUnary(byteSum, lateMismatch, "late", corpus, WithSampleSize(3))
		if err != nil {
			t.Fatalf("VerifyUnary() = %v, want nil for mismatch beyond sample", err)
		}

		err = VerifyUnary(byteSum, lateMismatch, "late", corpus, WithSampleSize(4))
		if !errors.Is(err, ErrMismatch) {
			t.Fatalf("VerifyUnary() = %v, want ErrMismatch once sample covers it", err)
		}
	})

	t.Run("sample size caps at corpus length", func(t *testing.T) {
		if err := VerifyUnary(byteSum, byteSum, "twin", corpus, WithSampleSize(1_000_000)); err != nil {
			t.Fatalf("VerifyUnary() = %v, want nil", err)
		}
	})

	t.Run("long inputs are truncated in the report", func(t *testing.T) {
		long := tokens(strings.Repeat("a", 100))
		bad := func(eval.Token) uint64 { return 0 }
		err := VerifyUnary(byteSum, bad, "bad", long)

		var mismatch *MismatchError
		if !errors.As(err, &mismatch) {
			t.Fatalf("VerifyUnary() = %v, want *MismatchError", err)
		}
		if !strings.Contains(mismatch.Input, "(100 bytes)") {
			t.Errorf("Input = %q, want truncation marker", mismatch.Input)
		}
	})
}

func TestVerifyBinary(t *testing.T) {
	corpus := tokens("ab", "cd")
	concatSum := func(a, b eval.Token) uint64 { return byteSum(a) + byteSum(b) }

	t.Run("agreeing candidate passes", func(t *testing.T) {
		if err := VerifyBinary(concatSum, concatSum, "twin", corpus); err != nil {
			t.Fatalf("VerifyBinary() = %v, want nil", err)
		}
	})

	t.Run("checks the wrap-around pair", func(t *testing.T) {
		// Disagrees only on the pair ("cd", "ab"), which exists solely
		// because the last element wraps to the first.
		wrapOnly := func(a, b eval.Token) uint64 {
			if string(a) == "cd" && string(b) == "ab" {
				return 0
			}
			return concatSum(a, b)
		}
		err := VerifyBinary(concatSum, wrapOnly, "wrap", corpus)

		var mismatch *MismatchError
		if !errors.As(err, &mismatch) {
			t.Fatalf("VerifyBinary() = %v, want *MismatchError", err)
		}
		if mismatch.Index != 1 {
			t.Errorf("Index = %d, want 1", mismatch.Index)
		}
		if !strings.Contains(mismatch.Input, "~") {
			t.Errorf("Input = %q, want both operands rendered", mismatch.Input)
		}
	})

	t.Run("empty corpus verifies trivially", func(t *testing.T) {
		if err := VerifyBinary(concatSum, concatSum, "twin", nil); err != nil {
			t.Fatalf("VerifyBinary() = %v, want nil", err)
		}
	})
}
