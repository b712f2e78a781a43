// Package corpus turns benchmark input text into token views.
//
// A corpus owns one contiguous byte arena (a loaded dataset file or a
// synthetic buffer) and exposes token slices into it. Tokens never
// copy: words, lines, and length buckets are all views over the same
// arena, the way the operations under test would see them inside a
// larger system. Splitting is computed lazily and memoized, so unused
// variants cost nothing.
package corpus

import (
	"bytes"

	"github.com/ashvardanian/SubstringSearchBenchmark/eval"
)

// Corpus holds a text arena and its derived token views.
//
// Thread Safety: Not safe for concurrent use; the lazy splitters
// memoize without locking. Build and split before sharing.
type Corpus struct {
	data  []byte
	words []eval.Token
	lines []eval.Token
}

// FromBytes wraps an in-memory buffer as a corpus. The corpus aliases
// the buffer; callers must not mutate it afterwards.
func FromBytes(data []byte) *Corpus {
	return &Corpus{data: data}
}

// Len returns the arena size in bytes.
func (c *Corpus) Len() int {
	return len(c.data)
}

// Words returns the whitespace-separated tokens of the arena.
//
// Description:
//
//	Splitting follows bytes.Fields: any run of whitespace separates
//	tokens, so the result never contains zero-length tokens. The
//	slice is computed once and reused.
func (c *Corpus) Words() []eval.Token {
	if c.words == nil {
		fields := bytes.Fields(c.data)
		c.words = make([]eval.Token, len(fields))
		for i, f := range fields {
			c.words[i] = eval.Token(f)
		}
	}
	return c.words
}

// Lines returns the newline-separated tokens of the arena.
//
// Description:
//
//	Lines are split on '\n' with a trailing '\r' trimmed, so DOS
//	datasets tokenize the same as Unix ones. Interior empty lines are
//	kept as zero-length tokens; the empty fragment after a trailing
//	newline is dropped.
func (c *Corpus) Lines() []eval.Token {
	if c.lines == nil {
		c.lines = splitLines(c.data)
	}
	return c.lines
}

// Whole returns the entire arena as a single token, or nothing for an
// empty arena.
func (c *Corpus) Whole() []eval.Token {
	if len(c.data) == 0 {
		return nil
	}
	return []eval.Token{eval.Token(c.data)}
}

func splitLines(data []byte) []eval.Token {
	if len(data) == 0 {
		return []eval.Token{}
	}
	parts := bytes.Split(data, []byte{'\n'})
	if len(parts) > 0 && len(parts[len(parts)-1]) == 0 {
		parts = parts[:len(parts)-1]
	}
	lines := make([]eval.Token, len(parts))
	for i, p := range parts {
		if len(p) > 0 && p[len(p)-1] == '\r' {
			p = p[:len(p)-1]
		}
		lines[i] = eval.Token(p)
	}
	return lines
}

// FilterByLength returns the tokens of exactly the given byte length.
//
// Description:
//
//	Length buckets isolate the short-string regimes the operation
//	families care about. The result shares the input's backing arena;
//	an empty bucket is a valid empty corpus.
func FilterByLength(tokens []eval.Token, length int) []eval.Token {
	var out []eval.Token
	for _, t := range tokens {
		if len(t) == length {
			out = append(out, t)
		}
	}
	return out
}

// TotalLength sums the byte lengths of the given tokens.
func TotalLength(tokens []eval.Token) int {
	total := 0
	for _, t := range tokens {
		total += len(t)
	}
	return total
}
