package ops

import (
	"fmt"
	"testing"

	"github.com/ashvardanian/SubstringSearchBenchmark/corpus"
	"github.com/ashvardanian/SubstringSearchBenchmark/eval"
)

func naiveByteSum(t eval.Token) uint64 {
	var sum uint64
	for _, c := range t {
		sum += uint64(c)
	}
	return sum
}

func TestChecksums_Registry(t *testing.T) {
	reg := Checksums()

	wantNames := []string{"checksum/serial", "checksum/unrolled", "checksum/swar"}
	gotNames := reg.Names()
	if len(gotNames) != len(wantNames) {
		t.Fatalf("expected %d candidates, got %v", len(wantNames), gotNames)
	}
	for i, want := range wantNames {
		if gotNames[i] != want {
			t.Errorf("candidate %d: expected %q, got %q", i, want, gotNames[i])
		}
	}

	baseline, err := reg.Baseline()
	if err != nil {
		t.Fatalf("unexpected baseline error: %v", err)
	}
	if baseline.Name != "checksum/serial" {
		t.Errorf("expected serial baseline, got %q", baseline.Name)
	}
	if baseline.NeedsVerification {
		t.Error("baseline must not carry the verification flag")
	}
	for _, c := range reg.Candidates()[1:] {
		if !c.NeedsVerification {
			t.Errorf("%s should carry the verification flag", c.Name)
		}
	}
}

func TestChecksum_MatchesReference(t *testing.T) {
	inputs := []string{
		"",
		"a",
		"abc",
		"abcdefg",
		"abcdefgh",
		"abcdefghi",
		"abcdefghijklmnop",
		"the quick brown fox jumps over the lazy dog",
		string(make([]byte, 100)),
		"\x00\xff\x80\x7f\x01\xfe\x02\xfd\x03",
	}

	reg := Checksums()
	for _, c := range reg.Candidates() {
		t.Run(c.Name, func(t *testing.T) {
			for _, in := range inputs {
				token := eval.Token(in)
				want := naiveByteSum(token)
				if got := c.Op(token); got != want {
					t.Errorf("input %q: expected %d, got %d", in, want, got)
				}
			}
		})
	}
}

func TestChecksum_GeneratedCorpus(t *testing.T) {
	tokens := corpus.NewGenerator(42).Tokens(300, 40, "", corpus.ModeUniform)
	reg := Checksums()
	for _, c := range reg.Candidates() {
		for i, token := range tokens {
			want := naiveByteSum(token)
			if got := c.Op(token); got != want {
				t.Fatalf("%s: token %d (%q): expected %d, got %d", c.Name, i, token, want, got)
			}
		}
	}
}

func BenchmarkChecksum(b *testing.B) {
	candidates := Checksums().Candidates()
	for _, n := range []int{8, 64, 512} {
		token := make(eval.Token, n)
		for i := range token {
			token[i] = byte('a' + i%26)
		}
		for _, c := range candidates {
			b.Run(fmt.Sprintf("%s/len=%d", c.Name, n), func(b *testing.B) {
				b.SetBytes(int64(n))
				var sink uint64
				for i := 0; i < b.N; i++ {
					sink += c.Op(token)
				}
				benchSink += sink
			})
		}
	}
}

// benchSink defeats dead-code elimination in the package benchmarks.
var benchSink uint64
