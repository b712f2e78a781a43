package corpus

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/ashvardanian/SubstringSearchBenchmark/eval"
)

// ErrUnknownMode indicates an unrecognized synthetic mode name.
var ErrUnknownMode = errors.New("unknown synthetic mode")

// DefaultAlphabet is the draw set for uniform synthetic tokens.
const DefaultAlphabet = "abcdefghijklmnopqrstuvwxyz"

// Mode selects the flavor of synthetic tokens.
type Mode int

const (
	// ModeWords draws dictionary words, matching the length and byte
	// distribution of natural-language datasets.
	ModeWords Mode = iota

	// ModeUniform draws uniform random bytes from an alphabet with
	// uniform lengths in [1, maxLength].
	ModeUniform
)

// String returns the string representation of a Mode.
func (m Mode) String() string {
	switch m {
	case ModeWords:
		return "words"
	case ModeUniform:
		return "uniform"
	default:
		return "unknown"
	}
}

// ParseMode parses a mode name as given on the command line. "letters" is
// accepted as an alias for uniform since that is what the tokens look like.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "words":
		return ModeWords, nil
	case "uniform", "letters":
		return ModeUniform, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// Generator produces deterministic synthetic token corpora.
//
// Description:
//
//	A generator is seeded once and then fully deterministic: the same
//	seed and parameters yield byte-identical corpora, so synthetic
//	runs are comparable across machines and sessions. Each Tokens
//	call lays its tokens out in one exactly-sized arena, mirroring
//	how a loaded dataset file is held.
//
// Thread Safety: Not safe for concurrent use; rand.Rand is not
// thread-safe.
type Generator struct {
	rng   *rand.Rand
	faker *gofakeit.Faker
}

// NewGenerator creates a generator seeded for reproducibility.
//
// Example:
//
//	gen := corpus.NewGenerator(42)
//	tokens := gen.Tokens(100_000, 16, corpus.DefaultAlphabet, corpus.ModeWords)
func NewGenerator(seed int64) *Generator {
	return &Generator{
		rng:   rand.New(rand.NewSource(seed)),
		faker: gofakeit.New(seed),
	}
}

// Tokens generates n tokens backed by a single arena.
//
// Description:
//
//	Token lengths are decided first, then one arena of exactly the
//	summed size is filled, so views never move and locality matches a
//	loaded file. Words longer than maxLength are truncated rather
//	than redrawn to keep generation O(n).
//
// Inputs:
//   - n: Token count. Non-positive yields an empty corpus.
//   - maxLength: Upper bound on token length. Values below 1 are
//     raised to 1.
//   - alphabet: Draw set for ModeUniform; empty selects
//     DefaultAlphabet. Ignored by ModeWords.
//   - mode: Token flavor.
//
// Outputs:
//   - []eval.Token: Generated tokens in generation order.
func (g *Generator) Tokens(n, maxLength int, alphabet string, mode Mode) []eval.Token {
	if n <= 0 {
		return nil
	}
	if maxLength < 1 {
		maxLength = 1
	}
	if alphabet == "" {
		alphabet = DefaultAlphabet
	}

	lengths := make([]int, n)
	total := 0
	var words []string
	if mode == ModeWords {
		words = make([]string, n)
	}
	for i := 0; i < n; i++ {
		switch mode {
		case ModeWords:
			w := g.faker.Word()
			if len(w) > maxLength {
				w = w[:maxLength]
			}
			words[i] = w
			lengths[i] = len(w)
		default:
			lengths[i] = 1 + g.rng.Intn(maxLength)
		}
		total += lengths[i]
	}

	arena := make([]byte, 0, total)
	tokens := make([]eval.Token, n)
	for i := 0; i < n; i++ {
		start := len(arena)
		if mode == ModeWords {
			arena = append(arena, words[i]...)
		} else {
			arena = g.AppendRandom(arena, alphabet, lengths[i])
		}
		tokens[i] = eval.Token(arena[start:len(arena):len(arena)])
	}
	return tokens
}

// AppendRandom appends n bytes drawn uniformly from alphabet to buf
// and returns the extended buffer.
func (g *Generator) AppendRandom(buf []byte, alphabet string, n int) []byte {
	if alphabet == "" {
		alphabet = DefaultAlphabet
	}
	for i := 0; i < n; i++ {
		buf = append(buf, alphabet[g.rng.Intn(len(alphabet))])
	}
	return buf
}
