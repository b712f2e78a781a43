package ops

import (
	"fmt"
	"strings"
	"testing"

	"github.com/ashvardanian/SubstringSearchBenchmark/corpus"
	"github.com/ashvardanian/SubstringSearchBenchmark/eval"
)

func flipCase(t eval.Token) eval.Token {
	out := make(eval.Token, len(t))
	for i, c := range t {
		switch {
		case c >= 'a' && c <= 'z':
			out[i] = c - ('a' - 'A')
		case c >= 'A' && c <= 'Z':
			out[i] = c + ('a' - 'A')
		default:
			out[i] = c
		}
	}
	return out
}

func TestFolds_Registry(t *testing.T) {
	reg := Folds()

	names := reg.Names()
	if len(names) < 2 || names[0] != "ifold/serial" || names[1] != "ifold/swar" {
		t.Fatalf("unexpected candidate order: %v", names)
	}
	if reg.Candidates()[0].NeedsVerification {
		t.Error("baseline must not carry the verification flag")
	}

	if _, ok := reg.Get("ifold/asm"); ok != hasAVX2 {
		t.Errorf("ifold/asm registered=%v but hasAVX2=%v", ok, hasAVX2)
	}
}

func TestFold_Table(t *testing.T) {
	pairs := []struct {
		a, b string
		want uint64
	}{
		{"", "", 1},
		{"a", "A", 1},
		{"Hello", "hELLo", 1},
		{"HELLO WORLD", "hello world", 1},
		{"Hello", "Hella", 0},
		{"hello", "hellos", 0},
		{"hello1", "HELLO1", 1},
		// Non-letters that sit 0x20 apart must not be conflated.
		{"@", "`", 0},
		{"[", "{", 0},
		{"@abc", "`abc", 0},
		// Bytes above 0x7F never fold.
		{"\x80", "\xa0", 0},
		{"a\x80b", "A\x80B", 1},
		// Case flips on both sides of the eight byte lane boundary.
		{"AbCdEfGhIjKlMnOp", "aBcDeFgHiJkLmNoP", 1},
		{"AbCdEfGhIjKlMnOp", "aBcDeFgHiJkLmNoX", 0},
		{"abcdefghZ", "ABCDEFGHz", 1},
		{"abcdefghZ", "ABCDEFGHY", 0},
	}

	for _, c := range Folds().Candidates() {
		t.Run(c.Name, func(t *testing.T) {
			for _, p := range pairs {
				got := c.Op(eval.Token(p.a), eval.Token(p.b))
				if got != p.want {
					t.Errorf("(%q, %q): expected %d, got %d", p.a, p.b, p.want, got)
				}
			}
		})
	}
}

func TestFoldSerial_MatchesStdlibOnASCII(t *testing.T) {
	// strings.EqualFold applies Unicode simple folding, which coincides
	// with ASCII folding as long as every byte stays below 0x80.
	inputs := []string{"", "a", "Go", "gopher", "GOPHER", "Hello, World!", "mixed CASE 123"}
	for _, a := range inputs {
		for _, b := range inputs {
			want := eval.EncodeBool(strings.EqualFold(a, b))
			if got := foldSerial(eval.Token(a), eval.Token(b)); got != want {
				t.Errorf("(%q, %q): expected %d, got %d", a, b, want, got)
			}
		}
	}
}

func TestFold_VariantsAgreeWithSerial(t *testing.T) {
	tokens := corpus.NewGenerator(11).Tokens(200, 24, "AZaz@`[{\x80", corpus.ModeUniform)
	variants := Folds().Candidates()[1:]
	for _, c := range variants {
		for i := range tokens {
			a := tokens[i]
			b := tokens[(i+1)%len(tokens)]
			if got, want := c.Op(a, b), foldSerial(a, b); got != want {
				t.Fatalf("%s: pair %d (%q, %q): expected %d, got %d", c.Name, i, a, b, want, got)
			}
			flipped := flipCase(a)
			if got := c.Op(a, flipped); got != 1 {
				t.Fatalf("%s: token %d (%q) vs flipped copy: returned %d", c.Name, i, a, got)
			}
		}
	}
}

func BenchmarkFold(b *testing.B) {
	candidates := Folds().Candidates()
	for _, n := range []int{8, 64, 512} {
		x := make(eval.Token, n)
		for i := range x {
			x[i] = byte('a' + i%26)
		}
		y := flipCase(x)
		for _, c := range candidates {
			b.Run(fmt.Sprintf("%s/len=%d", c.Name, n), func(b *testing.B) {
				b.SetBytes(int64(2 * n))
				var sink uint64
				for i := 0; i < b.N; i++ {
					sink += c.Op(x, y)
				}
				benchSink += sink
			})
		}
	}
}
