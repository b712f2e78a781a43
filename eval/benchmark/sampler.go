package benchmark

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/ashvardanian/SubstringSearchBenchmark/eval"
)

// benchSink receives accumulated op results so the compiler cannot
// discard the calls under test.
var benchSink uint64

// -----------------------------------------------------------------------------
// Sampling
// -----------------------------------------------------------------------------

// MeasureUnary times a unary operation over a corpus within the
// configured time budget.
//
// Description:
//
//	Runs the operation over the corpus in slices, reading the
//	monotonic clock once per slice rather than once per call. The
//	corpus wraps around for as long as the budget allows, so small
//	corpora are revisited and large ones may not complete a full
//	pass. At least one slice always runs, even under a budget shorter
//	than a single invocation.
//
// Inputs:
//   - ctx: Cancellation stops the pass at the next slice boundary;
//     completed slices still yield a valid result. Must not be nil.
//   - name: Candidate name recorded in the result.
//   - op: The operation under test. Must not be nil.
//   - corpus: Input tokens. Must not be empty.
//   - mode: Byte accounting mode (BytesToken or BytesUnit).
//   - cfg: Benchmark configuration. Must validate.
//
// Outputs:
//   - *Result: Finalized measurement. Never nil on success.
//   - error: ErrEmptyCorpus or ErrInvalidConfig.
//
// Thread Safety: Not safe for concurrent use against the same corpus
// arena. The driver runs passes sequentially.
func MeasureUnary(ctx context.Context, name string, op eval.UnaryOp, corpus []eval.Token, mode BytesMode, cfg *Config) (*Result, error) {
	if len(corpus) == 0 {
		return nil, ErrEmptyCorpus
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	slice := cfg.SliceSize
	if slice > len(corpus) {
		slice = len(corpus)
	}

	var memBefore, memAfter runtime.MemStats
	if cfg.CollectMemory {
		runtime.GC()
		runtime.ReadMemStats(&memBefore)
	}

	var (
		sink        uint64
		invocations uint64
		bytes       uint64
		elapsed     time.Duration
		raw         []time.Duration
	)
	next := 0
	cursor := time.Now()
	deadline := cursor.Add(cfg.TimeBudget)
	for {
		var sliceBytes uint64
		if mode == BytesUnit {
			for i := 0; i < slice; i++ {
				sink += op(corpus[next])
				next++
				if next == len(corpus) {
					next = 0
				}
			}
			sliceBytes = uint64(slice)
		} else {
			for i := 0; i < slice; i++ {
				t := corpus[next]
				sink += op(t)
				sliceBytes += uint64(len(t))
				next++
				if next == len(corpus) {
					next = 0
				}
			}
		}
		now := time.Now()
		raw = append(raw, now.Sub(cursor))
		elapsed += now.Sub(cursor)
		cursor = now
		invocations += uint64(slice)
		bytes += sliceBytes
		if !now.Before(deadline) || ctx.Err() != nil {
			break
		}
	}
	benchSink += sink

	if cfg.CollectMemory {
		runtime.ReadMemStats(&memAfter)
	}

	return finalizeResult(name, slice, invocations, bytes, elapsed, raw, cfg, &memBefore, &memAfter), nil
}

// MeasureBinary times a binary operation over adjacent corpus pairs
// within the configured time budget.
//
// Description:
//
//	Pairs element i with element (i+1) mod n, the same pairing the
//	verifier checks, so a timed candidate was verified on the exact
//	input stream it is measured on. Bytes are accounted as the summed
//	length of both operands. Otherwise identical to MeasureUnary.
//
// Outputs:
//   - *Result: Finalized measurement. Never nil on success.
//   - error: ErrEmptyCorpus or ErrInvalidConfig.
func MeasureBinary(ctx context.Context, name string, op eval.BinaryOp, corpus []eval.Token, cfg *Config) (*Result, error) {
	if len(corpus) == 0 {
		return nil, ErrEmptyCorpus
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	slice := cfg.SliceSize
	if slice > len(corpus) {
		slice = len(corpus)
	}

	var memBefore, memAfter runtime.MemStats
	if cfg.CollectMemory {
		runtime.GC()
		runtime.ReadMemStats(&memBefore)
	}

	var (
		sink        uint64
		invocations uint64
		bytes       uint64
		elapsed     time.Duration
		raw         []time.Duration
	)
	n := len(corpus)
	next := 0
	cursor := time.Now()
	deadline := cursor.Add(cfg.TimeBudget)
	for {
		var sliceBytes uint64
		for i := 0; i < slice; i++ {
			a := corpus[next]
			b := corpus[(next+1)%n]
			sink += op(a, b)
			sliceBytes += uint64(len(a)) + uint64(len(b))
			next++
			if next == n {
				next = 0
			}
		}
		now := time.Now()
		raw = append(raw, now.Sub(cursor))
		elapsed += now.Sub(cursor)
		cursor = now
		invocations += uint64(slice)
		bytes += sliceBytes
		if !now.Before(deadline) || ctx.Err() != nil {
			break
		}
	}
	benchSink += sink

	if cfg.CollectMemory {
		runtime.ReadMemStats(&memAfter)
	}

	return finalizeResult(name, slice, invocations, bytes, elapsed, raw, cfg, &memBefore, &memAfter), nil
}

// -----------------------------------------------------------------------------
// Finalization
// -----------------------------------------------------------------------------

// finalizeResult constructs the Result from collected slice data.
func finalizeResult(name string, slice int, invocations, bytes uint64, elapsed time.Duration, raw []time.Duration, cfg *Config, memBefore, memAfter *runtime.MemStats) *Result {
	result := &Result{
		Name:        name,
		Invocations: invocations,
		Bytes:       bytes,
		Elapsed:     elapsed,
		SliceSize:   slice,
		Timestamp:   time.Now().UnixMilli(),
		RawSamples:  raw,
	}

	if cfg.RemoveOutliers && len(raw) > 4 {
		result.Samples = RemoveOutliers(raw, cfg.OutlierThreshold)
	} else {
		result.Samples = raw
	}

	if invocations > 0 {
		result.NsPerOp = float64(elapsed.Nanoseconds()) / float64(invocations)
	}
	if elapsed > 0 {
		secs := elapsed.Seconds()
		result.Throughput.OpsPerSecond = float64(invocations) / secs
		result.Throughput.BytesPerSecond = float64(bytes) / secs
	}

	if stats, err := CalculateLatencyStats(result.Samples); err == nil {
		result.Latency = scaleLatencyStats(stats, slice)
	}

	if cfg.CollectMemory && memBefore != nil && memAfter != nil {
		result.Memory = &MemoryStats{
			HeapAllocBefore: memBefore.HeapAlloc,
			HeapAllocAfter:  memAfter.HeapAlloc,
			HeapAllocDelta:  int64(memAfter.HeapAlloc) - int64(memBefore.HeapAlloc),
			GCPauses:        memAfter.NumGC - memBefore.NumGC,
		}
		if memAfter.Mallocs > memBefore.Mallocs && invocations > 0 {
			result.Memory.AllocsPerOp = (memAfter.Mallocs - memBefore.Mallocs) / invocations
		}
		if memAfter.PauseTotalNs > memBefore.PauseTotalNs {
			result.Memory.GCPauseTotal = time.Duration(memAfter.PauseTotalNs - memBefore.PauseTotalNs)
		}
	}

	return result
}

// scaleLatencyStats converts per-slice statistics to per-operation
// statistics. Every order statistic scales linearly under a constant
// divisor, so dividing after aggregation is exact.
func scaleLatencyStats(stats LatencyStats, slice int) LatencyStats {
	if slice <= 1 {
		return stats
	}
	d := time.Duration(slice)
	f := float64(slice)
	return LatencyStats{
		Min:      stats.Min / d,
		Max:      stats.Max / d,
		Mean:     stats.Mean / d,
		Median:   stats.Median / d,
		StdDev:   stats.StdDev / d,
		Variance: stats.Variance / (f * f),
		P50:      stats.P50 / d,
		P90:      stats.P90 / d,
		P95:      stats.P95 / d,
		P99:      stats.P99 / d,
	}
}

// -----------------------------------------------------------------------------
// Formatting Helpers
// -----------------------------------------------------------------------------

// formatOpLatency renders a per-operation latency with sub-nanosecond
// precision, because the cheapest candidates run well under 1ns.
func formatOpLatency(nsPerOp float64) string {
	switch {
	case nsPerOp >= 1e6:
		return fmt.Sprintf("%.2fms", nsPerOp/1e6)
	case nsPerOp >= 1e3:
		return fmt.Sprintf("%.2fµs", nsPerOp/1e3)
	default:
		return fmt.Sprintf("%.2fns", nsPerOp)
	}
}
