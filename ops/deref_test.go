package ops

import (
	"fmt"
	"testing"

	"github.com/ashvardanian/SubstringSearchBenchmark/eval"
)

func TestDerefs_Registry(t *testing.T) {
	reg := Derefs()

	wantNames := []string{"deref/view", "deref/string", "deref/copy"}
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

func TestDeref_AllReportLength(t *testing.T) {
	inputs := []string{"", "a", "token", string(make([]byte, 100))}
	for _, c := range Derefs().Candidates() {
		t.Run(c.Name, func(t *testing.T) {
			for _, in := range inputs {
				if got := c.Op(eval.Token(in)); got != uint64(len(in)) {
					t.Errorf("input of length %d: got %d", len(in), got)
				}
			}
		})
	}
}

func TestDerefCopy_ScratchReuse(t *testing.T) {
	op := newDerefCopy()

	// Shrinking after growing must still report the new length, not the
	// scratch capacity.
	long := eval.Token(make([]byte, 100))
	if got := op(long); got != uint64(len(long)) {
		t.Fatalf("long token: got %d", got)
	}
	if got := op(eval.Token("ab")); got != 2 {
		t.Fatalf("short token after long: got %d", got)
	}
	if got := op(eval.Token("")); got != 0 {
		t.Fatalf("empty token: got %d", got)
	}
}

func BenchmarkDeref(b *testing.B) {
	candidates := Derefs().Candidates()
	for _, n := range []int{8, 64, 512} {
		token := make(eval.Token, n)
		for i := range token {
			token[i] = byte('a' + i%26)
		}
		for _, c := range candidates {
			b.Run(fmt.Sprintf("%s/len=%d", c.Name, n), func(b *testing.B) {
				b.SetBytes(1)
				var sink uint64
				for i := 0; i < b.N; i++ {
					sink += c.Op(token)
				}
				benchSink += sink
			})
		}
	}
}
