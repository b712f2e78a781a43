// Package benchmark measures token operation candidates under a fixed
// time budget and reports statistically grounded comparisons.
//
// # Overview
//
// The package provides the four-step pipeline that every candidate
// family goes through on every corpus variant:
//
//  1. Guard: empty registries and empty corpora short-circuit into
//     no-op reports.
//  2. Verify: candidates flagged for verification run over a sample of
//     the corpus and must match the family baseline exactly; a
//     disagreeing candidate is excluded from timing and reported with
//     a failure marker.
//  3. Time: the baseline and every surviving candidate run over the
//     corpus, wrapping around for as long as the time budget allows.
//     The monotonic clock is read once per slice of invocations, so
//     measurement overhead never dominates nanosecond-scale
//     operations.
//  4. Report: per-candidate latency and throughput plus
//     baseline-relative speedups, Welch's t-test significance, and
//     Cohen's d effect sizes.
//
// # Architecture
//
//	                 +-----------+
//	     registry -->|  Driver   |<-- corpus variant
//	                 +-----+-----+
//	                       |
//	         +-------------+-------------+
//	         v             v             v
//	   correctness     MeasureUnary   statistics
//	   (verify pass)   MeasureBinary  (Welch, Cohen's d,
//	                   (budget loop)   percentiles, IQR)
//	         |             |             |
//	         +-------------+-------------+
//	                       v
//	                 FamilyReport --> Reporter (console, JSON)
//
// # Usage
//
//	cfg := benchmark.DefaultConfig()
//	cfg.TimeBudget = 2 * time.Second
//
//	driver := benchmark.NewDriver(cfg)
//	report, err := driver.RunUnary(ctx, "checksum", "words",
//	    ops.Checksums(), tokens, benchmark.BytesToken)
//	if err != nil {
//	    return fmt.Errorf("running checksum family: %w", err)
//	}
//
//	reporter := benchmark.NewConsoleReporter(os.Stdout, false)
//	if err := reporter.Report(report); err != nil {
//	    return fmt.Errorf("rendering report: %w", err)
//	}
//
// # Measurement Notes
//
// Timing samples are per-slice durations, not per-call durations. A
// slice is at most Config.SliceSize invocations, capped at the corpus
// length. Per-operation statistics are derived by dividing the slice
// statistics, which is exact because the slice size is constant within
// a pass. Accumulated results flow into a package-level sink so the
// compiler cannot elide the operations under test.
//
// # Thread Safety
//
// The Driver is safe for concurrent use, but passes that share a
// corpus arena must run sequentially. Reporters are not safe for
// concurrent use.
package benchmark
