// Package eval provides the core abstractions of the token benchmark
// harness: token views, uniform candidate signatures, and the ordered
// candidate registry.
//
// # Overview
//
// Every benchmarked operation is a Candidate: a named callable with a
// fixed arity over Token inputs and a uint64 result. Candidates that
// wrap accelerated or hand-tuned routines carry a verification flag so
// the correctness layer can cross-check them against the trusted
// baseline before any timing is trusted.
//
// # Architecture
//
//	┌──────────────────────────────────────────────────────────────┐
//	│                        eval core                             │
//	├──────────────────────────────────────────────────────────────┤
//	│                                                              │
//	│   ops/ wrappers ──► Registry[UnaryOp]  ─┐                    │
//	│                     Registry[BinaryOp] ─┤                    │
//	│                                         ▼                    │
//	│        entry 0 = baseline   ┌─────────────────────┐          │
//	│        insertion order =    │ correctness.Verifier │          │
//	│        verify/report order  │ benchmark.Driver     │          │
//	│                             └─────────────────────┘          │
//	│                                                              │
//	└──────────────────────────────────────────────────────────────┘
//
// Family-specific result types (booleans, three-way orderings, lengths)
// are encoded into the uniform uint64 domain by the closures registered
// in ops, so the registry, verifier, and driver never depend on any
// concrete operation.
//
// # Thread Safety
//
// Registries guard registration with a mutex but the harness itself is
// strictly single-threaded; see the benchmark package.
package eval
