package ops

import (
	"bytes"
	"encoding/binary"

	"github.com/ashvardanian/SubstringSearchBenchmark/eval"
)

// -----------------------------------------------------------------------------
// Equality Family
// -----------------------------------------------------------------------------

// Equalities returns the exact-equality candidate registry.
//
// Description:
//
//	Results are encoded as 1 for equal and 0 for unequal. The stdlib and
//	SWAR variants are verified against the serial baseline.
//
//	  equal/serial  length check plus byte loop (baseline)
//	  equal/stdlib  bytes.Equal
//	  equal/swar    eight-byte word compare with a byte tail
//
// Thread Safety: the returned registry is not frozen; freeze it before
// sharing across goroutines.
func Equalities() *eval.Registry[eval.BinaryOp] {
	reg := eval.NewRegistry[eval.BinaryOp]()
	reg.MustRegister("equal/serial", equalSerial, false)
	reg.MustRegister("equal/stdlib", equalStdlib, true)
	reg.MustRegister("equal/swar", equalSWAR, true)
	return reg
}

func equalSerial(a, b eval.Token) uint64 {
	if len(a) != len(b) {
		return 0
	}
	for i := 0; i < len(a); i++ {
		if a[i] != b[i] {
			return 0
		}
	}
	return 1
}

func equalStdlib(a, b eval.Token) uint64 {
	return eval.EncodeBool(bytes.Equal(a, b))
}

func equalSWAR(a, b eval.Token) uint64 {
	if len(a) != len(b) {
		return 0
	}
	i := 0
	for ; i+8 <= len(a); i += 8 {
		if binary.LittleEndian.Uint64(a[i:]) != binary.LittleEndian.Uint64(b[i:]) {
			return 0
		}
	}
	for ; i < len(a); i++ {
		if a[i] != b[i] {
			return 0
		}
	}
	return 1
}
