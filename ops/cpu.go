package ops

import (
	"github.com/segmentio/asm/cpu"
	"github.com/segmentio/asm/cpu/arm64"
	"github.com/segmentio/asm/cpu/x86"
)

// -----------------------------------------------------------------------------
// CPU Capability Detection
// -----------------------------------------------------------------------------

// Feature flags are read once at package init. Registration functions
// consult them so the registry only ever holds candidates whose kernels
// can actually run on this machine; the registry, verifier, and driver
// stay oblivious to how many variants exist on a given target.
var (
	hasSSE42 = cpu.X86.Has(x86.SSE42)
	hasAVX2  = cpu.X86.Has(x86.AVX2)
	hasNEON  = cpu.ARM64.Has(arm64.ASIMD)
	hasCRC32 = cpu.ARM64.Has(arm64.CRC32)
)

// Capabilities returns the detected CPU feature labels in a stable order.
//
// Description:
//
//	The labels are informational. They are recorded in run reports so
//	that results can be interpreted later: a missing "avx2" explains a
//	missing "ifold/asm" candidate, and "sse4.2" (or "crc32" on arm64)
//	explains hardware-accelerated CRC throughput.
//
// Outputs:
//   - []string: zero or more of "sse4.2", "avx2", "neon", "crc32".
//
// Thread Safety: safe for concurrent use; the flags never change after init.
func Capabilities() []string {
	var caps []string
	if hasSSE42 {
		caps = append(caps, "sse4.2")
	}
	if hasAVX2 {
		caps = append(caps, "avx2")
	}
	if hasNEON {
		caps = append(caps, "neon")
	}
	if hasCRC32 {
		caps = append(caps, "crc32")
	}
	return caps
}
