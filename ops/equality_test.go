package ops

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/ashvardanian/SubstringSearchBenchmark/corpus"
	"github.com/ashvardanian/SubstringSearchBenchmark/eval"
)

func TestEqualities_Registry(t *testing.T) {
	reg := Equalities()

	wantNames := []string{"equal/serial", "equal/stdlib", "equal/swar"}
	gotNames := reg.Names()
	if len(gotNames) != len(wantNames) {
		t.Fatalf("expected %d candidates, got %v", len(wantNames), gotNames)
	}
	for i, want := range wantNames {
		if gotNames[i] != want {
			t.Errorf("candidate %d: expected %q, got %q", i, want, gotNames[i])
		}
	}
	if reg.Candidates()[0].NeedsVerification {
		t.Error("baseline must not carry the verification flag")
	}
}

func TestEqual_MatchesReference(t *testing.T) {
	pairs := []struct {
		a, b string
	}{
		{"", ""},
		{"", "x"},
		{"x", ""},
		{"a", "a"},
		{"a", "b"},
		{"abcdefgh", "abcdefgh"},
		{"abcdefgh", "abcdefgx"},
		{"Xbcdefgh", "abcdefgh"},
		{"abcdefghi", "abcdefghi"},
		{"abcdefghi", "abcdefghX"},
		{"short", "longer by some margin"},
		{"the quick brown fox jumps", "the quick brown fox jumps"},
		{"the quick brown fox jumps", "the quick brown fox jumpt"},
	}

	for _, c := range Equalities().Candidates() {
		t.Run(c.Name, func(t *testing.T) {
			for _, p := range pairs {
				a, b := eval.Token(p.a), eval.Token(p.b)
				want := eval.EncodeBool(bytes.Equal(a, b))
				if got := c.Op(a, b); got != want {
					t.Errorf("(%q, %q): expected %d, got %d", p.a, p.b, want, got)
				}
			}
		})
	}
}

func TestEqual_GeneratedPairs(t *testing.T) {
	tokens := corpus.NewGenerator(7).Tokens(200, 24, "ab", corpus.ModeUniform)
	for _, c := range Equalities().Candidates() {
		for i := range tokens {
			a := tokens[i]
			b := tokens[(i+1)%len(tokens)]
			want := eval.EncodeBool(bytes.Equal(a, b))
			if got := c.Op(a, b); got != want {
				t.Fatalf("%s: pair %d (%q, %q): expected %d, got %d", c.Name, i, a, b, want, got)
			}
			if got := c.Op(a, a); got != 1 {
				t.Fatalf("%s: token %d (%q): self compare returned %d", c.Name, i, a, got)
			}
		}
	}
}

func BenchmarkEqual(b *testing.B) {
	candidates := Equalities().Candidates()
	for _, n := range []int{8, 64, 512} {
		x := make(eval.Token, n)
		for i := range x {
			x[i] = byte('a' + i%26)
		}
		y := append(eval.Token(nil), x...)
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
