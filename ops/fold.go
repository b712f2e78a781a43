package ops

import (
	"encoding/binary"

	"github.com/segmentio/asm/ascii"

	"github.com/ashvardanian/SubstringSearchBenchmark/eval"
)

// -----------------------------------------------------------------------------
// Case-Insensitive Equality Family
// -----------------------------------------------------------------------------

// Folds returns the ASCII case-insensitive equality candidate registry.
//
// Description:
//
//	Candidates fold only the ASCII letters 'A'..'Z'; every other byte,
//	including punctuation pairs that differ by 0x20 and bytes above
//	0x7F, must match exactly. Results are encoded as 1 for a fold-equal
//	pair and 0 otherwise. Variants are verified against the serial
//	baseline.
//
//	  ifold/serial  per-byte fold loop (baseline)
//	  ifold/swar    eight-byte word fold with a byte tail
//	  ifold/asm     segmentio/asm vector kernel, amd64 with AVX2 only
//
// Thread Safety: the returned registry is not frozen; freeze it before
// sharing across goroutines.
func Folds() *eval.Registry[eval.BinaryOp] {
	reg := eval.NewRegistry[eval.BinaryOp]()
	reg.MustRegister("ifold/serial", foldSerial, false)
	reg.MustRegister("ifold/swar", foldSWAR, true)
	if hasAVX2 {
		reg.MustRegister("ifold/asm", foldASM, true)
	}
	return reg
}

// toLowerASCII folds 'A'..'Z' and leaves every other byte untouched.
// A bare |0x20 would conflate '@' with '`' and '[' with '{'.
func toLowerASCII(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}

func foldSerial(a, b eval.Token) uint64 {
	if len(a) != len(b) {
		return 0
	}
	for i := 0; i < len(a); i++ {
		if toLowerASCII(a[i]) != toLowerASCII(b[i]) {
			return 0
		}
	}
	return 1
}

// hasUpperASCIIWord returns a word with 0x80 set in each byte lane that
// holds an ASCII uppercase letter.
// Based on https://graphics.stanford.edu/~seander/bithacks.html#HasBetweenInWord
func hasUpperASCIIWord(x uint64) uint64 {
	const mult = ^uint64(0) / 255
	const m, n = 'A' - 1, 'Z' + 1

	A := mult * (127 + n)
	B := x & (mult * 127)
	C := ^x
	D := mult * (127 - m)
	return (A - B) & C & (B + D) & (mult * 128)
}

// foldWordASCII lowercases the flagged lanes. The 0x80 marker shifted
// right twice is 0x20, the case bit, and adding it cannot carry across
// lanes because folded bytes stay below 0x7B.
func foldWordASCII(x uint64) uint64 {
	return x + (hasUpperASCIIWord(x) >> 2)
}

func foldSWAR(a, b eval.Token) uint64 {
	if len(a) != len(b) {
		return 0
	}
	i := 0
	for ; i+8 <= len(a); i += 8 {
		x := binary.LittleEndian.Uint64(a[i:])
		y := binary.LittleEndian.Uint64(b[i:])
		if x != y && foldWordASCII(x) != foldWordASCII(y) {
			return 0
		}
	}
	for ; i < len(a); i++ {
		if toLowerASCII(a[i]) != toLowerASCII(b[i]) {
			return 0
		}
	}
	return 1
}

func foldASM(a, b eval.Token) uint64 {
	return eval.EncodeBool(ascii.EqualFold(a, b))
}
