package ops

import (
	"hash/crc32"
	"hash/maphash"

	"github.com/cespare/xxhash/v2"
	"github.com/zeebo/xxh3"

	"github.com/ashvardanian/SubstringSearchBenchmark/eval"
)

// -----------------------------------------------------------------------------
// Hash Family
// -----------------------------------------------------------------------------

// 64-bit FNV-1a parameters.
const (
	fnvOffset64 = 14695981039346656037
	fnvPrime64  = 1099511628211
)

var (
	castagnoli = crc32.MakeTable(crc32.Castagnoli)
	mapSeed    = maphash.MakeSeed()
)

// Hashes returns the hashing candidate registry.
//
// Description:
//
//	The candidates are distinct hash functions, so their outputs differ
//	by design and none of them carries the verification flag. The family
//	compares throughput only.
//
//	  hash/fnv1a    hand-rolled 64-bit FNV-1a loop (baseline)
//	  hash/maphash  stdlib hash/maphash with a process-wide seed
//	  hash/crc32c   stdlib Castagnoli CRC, hardware-backed where available
//	  hash/xxhash   cespare/xxhash 64-bit digest
//	  hash/xxh3     zeebo/xxh3 64-bit digest
//
// Thread Safety: the returned registry is not frozen; freeze it before
// sharing across goroutines.
func Hashes() *eval.Registry[eval.UnaryOp] {
	reg := eval.NewRegistry[eval.UnaryOp]()
	reg.MustRegister("hash/fnv1a", hashFNV1a, false)
	reg.MustRegister("hash/maphash", hashMap, false)
	reg.MustRegister("hash/crc32c", hashCRC32C, false)
	reg.MustRegister("hash/xxhash", hashXX, false)
	reg.MustRegister("hash/xxh3", hashXXH3, false)
	return reg
}

// hashFNV1a is the byte-at-a-time reference loop. It doubles as the
// family's stand-in for "what a trivial serial hash costs".
func hashFNV1a(t eval.Token) uint64 {
	h := uint64(fnvOffset64)
	for i := 0; i < len(t); i++ {
		h ^= uint64(t[i])
		h *= fnvPrime64
	}
	return h
}

// hashMap values are stable within one process but not across runs;
// maphash seeds cannot be pinned.
func hashMap(t eval.Token) uint64 { return maphash.Bytes(mapSeed, t) }

func hashCRC32C(t eval.Token) uint64 { return uint64(crc32.Checksum(t, castagnoli)) }

func hashXX(t eval.Token) uint64 { return xxhash.Sum64(t) }

func hashXXH3(t eval.Token) uint64 { return xxh3.Hash(t) }
