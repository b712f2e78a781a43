package ops

import (
	"github.com/ashvardanian/SubstringSearchBenchmark/eval"
)

// -----------------------------------------------------------------------------
// Dereference-Cost Family
// -----------------------------------------------------------------------------

// Derefs returns the dereference-cost candidate registry.
//
// Description:
//
//	Every candidate reports the token's length, so the variants verify
//	cleanly against the view baseline; what differs is the container
//	work done before the length is read. The family measures per-access
//	overhead rather than content throughput, so the sampler accounts
//	one byte unit per invocation for it.
//
//	  deref/view    reads the length off the view (baseline)
//	  deref/string  materializes string(t) first, paying the conversion
//	  deref/copy    copies the bytes into a reusable scratch slice first
//
// Thread Safety: deref/copy owns a scratch buffer captured by its
// closure, so a registry from Derefs must not be timed from more than
// one goroutine at once.
func Derefs() *eval.Registry[eval.UnaryOp] {
	reg := eval.NewRegistry[eval.UnaryOp]()
	reg.MustRegister("deref/view", derefView, false)
	reg.MustRegister("deref/string", derefString, true)
	reg.MustRegister("deref/copy", newDerefCopy(), true)
	return reg
}

func derefView(t eval.Token) uint64 { return uint64(len(t)) }

func derefString(t eval.Token) uint64 {
	s := string(t)
	return uint64(len(s))
}

func newDerefCopy() eval.UnaryOp {
	scratch := make([]byte, 0, 64)
	return func(t eval.Token) uint64 {
		scratch = append(scratch[:0], t...)
		return uint64(len(scratch))
	}
}
