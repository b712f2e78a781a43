package ops

import (
	"bytes"
	"encoding/binary"

	"github.com/ashvardanian/SubstringSearchBenchmark/eval"
)

// -----------------------------------------------------------------------------
// Ordering Family
// -----------------------------------------------------------------------------

// Orderings returns the three-way lexicographic comparison registry.
//
// Description:
//
//	Candidates compare byte-wise over the common prefix and break ties
//	by length, shorter first. Results are eval.Ordering values encoded
//	as 0, 1, 2 for less, equal, greater. Variants are verified against
//	the serial baseline.
//
//	  order/serial   byte loop with length extension (baseline)
//	  order/stdlib   bytes.Compare
//	  order/chunked  eight-byte big-endian word compare
//
// Thread Safety: the returned registry is not frozen; freeze it before
// sharing across goroutines.
func Orderings() *eval.Registry[eval.BinaryOp] {
	reg := eval.NewRegistry[eval.BinaryOp]()
	reg.MustRegister("order/serial", orderSerial, false)
	reg.MustRegister("order/stdlib", orderStdlib, true)
	reg.MustRegister("order/chunked", orderChunked, true)
	return reg
}

func orderSerial(a, b eval.Token) uint64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return eval.Less.Encode()
			}
			return eval.Greater.Encode()
		}
	}
	return orderByLength(len(a), len(b))
}

func orderStdlib(a, b eval.Token) uint64 {
	return eval.OrderingFromCompare(bytes.Compare(a, b)).Encode()
}

// orderChunked loads eight bytes big-endian so that the numeric order of
// the words matches the lexicographic order of the bytes they hold.
func orderChunked(a, b eval.Token) uint64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	i := 0
	for ; i+8 <= n; i += 8 {
		x := binary.BigEndian.Uint64(a[i:])
		y := binary.BigEndian.Uint64(b[i:])
		if x != y {
			if x < y {
				return eval.Less.Encode()
			}
			return eval.Greater.Encode()
		}
	}
	for ; i < n; i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return eval.Less.Encode()
			}
			return eval.Greater.Encode()
		}
	}
	return orderByLength(len(a), len(b))
}

func orderByLength(la, lb int) uint64 {
	switch {
	case la < lb:
		return eval.Less.Encode()
	case la > lb:
		return eval.Greater.Encode()
	default:
		return eval.Equal.Encode()
	}
}
