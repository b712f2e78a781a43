package ops

import (
	"encoding/binary"

	"github.com/ashvardanian/SubstringSearchBenchmark/eval"
)

// -----------------------------------------------------------------------------
// Checksum Family
// -----------------------------------------------------------------------------

// Checksums returns the byte-sum candidate registry.
//
// Description:
//
//	Every candidate computes the plain sum of all byte values in the
//	token, so the accelerated variants are verified against the serial
//	baseline before timing.
//
//	  checksum/serial    byte-at-a-time loop (baseline)
//	  checksum/unrolled  four independent accumulators
//	  checksum/swar      eight bytes per step, folded per word
//
// Thread Safety: the returned registry is not frozen; freeze it before
// sharing across goroutines.
func Checksums() *eval.Registry[eval.UnaryOp] {
	reg := eval.NewRegistry[eval.UnaryOp]()
	reg.MustRegister("checksum/serial", checksumSerial, false)
	reg.MustRegister("checksum/unrolled", checksumUnrolled, true)
	reg.MustRegister("checksum/swar", checksumSWAR, true)
	return reg
}

func checksumSerial(t eval.Token) uint64 {
	var sum uint64
	for i := 0; i < len(t); i++ {
		sum += uint64(t[i])
	}
	return sum
}

// checksumUnrolled keeps four accumulators live so the adds do not form
// one serial dependency chain.
func checksumUnrolled(t eval.Token) uint64 {
	var s0, s1, s2, s3 uint64
	i := 0
	for ; i+4 <= len(t); i += 4 {
		s0 += uint64(t[i])
		s1 += uint64(t[i+1])
		s2 += uint64(t[i+2])
		s3 += uint64(t[i+3])
	}
	for ; i < len(t); i++ {
		s0 += uint64(t[i])
	}
	return s0 + s1 + s2 + s3
}

// checksumSWAR sums eight bytes per load. Adjacent bytes are widened
// into 16-bit lanes (each pair sum is at most 510), then the four lanes
// are folded with one multiply: the high 16 bits of pair*0x0001000100010001
// hold the lane total, which is at most 2040 and cannot carry.
func checksumSWAR(t eval.Token) uint64 {
	const laneMask = 0x00FF00FF00FF00FF
	var sum uint64
	i := 0
	for ; i+8 <= len(t); i += 8 {
		w := binary.LittleEndian.Uint64(t[i:])
		pair := (w & laneMask) + ((w >> 8) & laneMask)
		sum += (pair * 0x0001000100010001) >> 48
	}
	for ; i < len(t); i++ {
		sum += uint64(t[i])
	}
	return sum
}
