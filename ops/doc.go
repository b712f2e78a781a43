// Package ops is the operation catalog: the concrete candidate families
// the harness benchmarks against each other.
//
// # Overview
//
// Each family groups one operation's competing implementations under a
// shared registry. Entry 0 is the trusted serial baseline; accelerated
// variants carry the verification flag and are cross-checked against it
// before timing, except in the hash family where candidates are distinct
// functions and only throughput is comparable.
//
//	checksum  unary   byte-sum: serial, unrolled, swar
//	hash      unary   fnv1a, maphash, crc32c, xxhash, xxh3
//	equal     binary  exact equality: serial, stdlib, swar
//	ifold     binary  ASCII fold equality: serial, swar, asm
//	order     binary  three-way compare: serial, stdlib, chunked
//	deref     unary   view access cost: view, string, copy
//
// Candidate names follow the family/variant convention, for example
// "checksum/serial". Family-specific results are encoded into the
// uniform uint64 domain at registration, so the core never depends on
// any concrete operation.
//
// # Capability Gating
//
// Registration functions consult CPU feature flags detected once at
// init. A variant whose kernel needs a feature the machine lacks is
// simply never registered, so the registry, verifier, and driver stay
// oblivious to how many variants a target supports. Capabilities lists
// the detected features for run reports.
//
// # Thread Safety
//
// Registries returned by the catalog are mutable until frozen, and the
// deref/copy candidate owns a scratch buffer, so families must be timed
// from a single goroutine. Capability flags are read-only after init.
package ops
