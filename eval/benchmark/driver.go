package benchmark

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ashvardanian/SubstringSearchBenchmark/eval"
	"github.com/ashvardanian/SubstringSearchBenchmark/eval/correctness"
)

const tracerName = "benchtoken.eval.benchmark"

// -----------------------------------------------------------------------------
// Driver
// -----------------------------------------------------------------------------

// Driver executes the fixed pipeline for one candidate family on one
// corpus: guard, verify, time, report.
//
// Description:
//
//	Guard short-circuits empty registries and empty corpora into
//	no-ops. Verify runs flagged candidates against the family baseline
//	and excludes any that disagree. Time measures the baseline and
//	every surviving candidate under the same budget on the same
//	corpus. Report assembles per-candidate results and
//	baseline-relative comparisons in registration order. The same
//	driver is reused across families and corpus variants.
//
// Thread Safety: Safe for concurrent use, but passes sharing a corpus
// arena must run sequentially.
type Driver struct {
	cfg    *Config
	logger *slog.Logger
}

// NewDriver creates a driver with the given configuration.
//
// Inputs:
//   - cfg: Benchmark configuration. Nil selects DefaultConfig().
//
// Outputs:
//   - *Driver: The new driver. Never nil.
//
// Example:
//
//	cfg := benchmark.DefaultConfig()
//	cfg.TimeBudget = 2 * time.Second
//	driver := benchmark.NewDriver(cfg)
func NewDriver(cfg *Config) *Driver {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Driver{
		cfg:    cfg,
		logger: slog.Default(),
	}
}

// SetLogger sets the logger for the driver. Nil values are ignored.
func (d *Driver) SetLogger(logger *slog.Logger) {
	if logger != nil {
		d.logger = logger
	}
}

// Config returns the driver's configuration.
func (d *Driver) Config() *Config {
	return d.cfg
}

// RunUnary executes one pass for a unary family.
//
// Inputs:
//   - ctx: Context for tracing and cancellation. Must not be nil.
//   - family: Family label for the report, e.g. "checksum".
//   - corpusName: Corpus variant label, e.g. "words" or "len-8".
//   - reg: The family's candidate registry. Frozen on entry.
//   - corpus: Input tokens. Empty corpora no-op with an empty report.
//   - mode: Byte accounting mode for throughput.
//
// Outputs:
//   - *FamilyReport: Results and comparisons in registration order.
//     Never nil on success.
//   - error: Non-nil only for setup failures; verification mismatches
//     are recorded in the report, not returned.
//
// Example:
//
//	report, err := driver.RunUnary(ctx, "checksum", "words",
//	    ops.Checksums(), corpus.Words(), benchmark.BytesToken)
func (d *Driver) RunUnary(ctx context.Context, family, corpusName string, reg *eval.Registry[eval.UnaryOp], corpus []eval.Token, mode BytesMode) (*FamilyReport, error) {
	return runFamily(d, ctx, family, corpusName, reg, corpus,
		func(baseline, candidate eval.UnaryOp, name string) error {
			return correctness.VerifyUnary(baseline, candidate, name, corpus,
				correctness.WithSampleSize(d.cfg.VerifySample))
		},
		func(ctx context.Context, name string, op eval.UnaryOp) (*Result, error) {
			return MeasureUnary(ctx, name, op, corpus, mode, d.cfg)
		},
	)
}

// RunBinary executes one pass for a binary family over adjacent corpus
// pairs. Otherwise identical to RunUnary; bytes are accounted as the
// summed length of both operands.
func (d *Driver) RunBinary(ctx context.Context, family, corpusName string, reg *eval.Registry[eval.BinaryOp], corpus []eval.Token) (*FamilyReport, error) {
	return runFamily(d, ctx, family, corpusName, reg, corpus,
		func(baseline, candidate eval.BinaryOp, name string) error {
			return correctness.VerifyBinary(baseline, candidate, name, corpus,
				correctness.WithSampleSize(d.cfg.VerifySample))
		},
		func(ctx context.Context, name string, op eval.BinaryOp) (*Result, error) {
			return MeasureBinary(ctx, name, op, corpus, d.cfg)
		},
	)
}

// -----------------------------------------------------------------------------
// Pipeline
// -----------------------------------------------------------------------------

// runFamily is the arity-independent pipeline. Methods cannot carry
// extra type parameters, so it takes the driver as a plain argument.
func runFamily[O any](
	d *Driver,
	ctx context.Context,
	family, corpusName string,
	reg *eval.Registry[O],
	corpus []eval.Token,
	verify func(baseline, candidate O, name string) error,
	measure func(ctx context.Context, name string, op O) (*Result, error),
) (*FamilyReport, error) {
	if ctx == nil {
		return nil, errors.New("context must not be nil")
	}
	if err := d.cfg.Validate(); err != nil {
		return nil, err
	}

	report := &FamilyReport{
		Family:     family,
		Corpus:     corpusName,
		CorpusSize: len(corpus),
	}

	// Guard. A catalog cannot drift between phases once frozen.
	reg.Freeze()
	if reg.Len() == 0 {
		d.logger.Debug("family has no candidates, skipping",
			slog.String("family", family),
			slog.String("corpus", corpusName),
		)
		return report, nil
	}
	if len(corpus) == 0 {
		d.logger.Warn("corpus is empty, skipping family",
			slog.String("family", family),
			slog.String("corpus", corpusName),
		)
		return report, nil
	}

	tracer := otel.Tracer(tracerName)
	ctx, span := tracer.Start(ctx, "benchmark.Driver.run",
		trace.WithAttributes(
			attribute.String("bench.family", family),
			attribute.String("bench.corpus", corpusName),
			attribute.Int("bench.corpus_size", len(corpus)),
			attribute.Int("bench.candidates", reg.Len()),
		),
	)
	defer span.End()

	baseline, err := reg.Baseline()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "no baseline")
		return nil, fmt.Errorf("resolving baseline for %s: %w", family, err)
	}
	baseIdx := reg.BaselineIndex()
	candidates := reg.Candidates()

	// Verify. Flagged candidates run over the sample stream and any
	// disagreement excludes them from timing. No retries.
	failures := make([]string, len(candidates))
	for i, cand := range candidates {
		if i == baseIdx || !cand.NeedsVerification {
			continue
		}
		if verr := verify(baseline.Op, cand.Op, cand.Name); verr != nil {
			failures[i] = verr.Error()
			d.logger.Warn("verification failed, excluding candidate from timing",
				slog.String("family", family),
				slog.String("corpus", corpusName),
				slog.String("candidate", cand.Name),
				slog.String("error", verr.Error()),
			)
		}
	}

	// Time. Registration order, baseline included, failures skipped.
	results := make([]*Result, len(candidates))
	for i, cand := range candidates {
		if failures[i] != "" {
			results[i] = FailedResult(cand.Name, failures[i])
			continue
		}
		mctx, mspan := tracer.Start(ctx, "benchmark.Driver.time",
			trace.WithAttributes(attribute.String("bench.candidate", cand.Name)),
		)
		res, merr := measure(mctx, cand.Name, cand.Op)
		mspan.End()
		if merr != nil {
			span.RecordError(merr)
			span.SetStatus(codes.Error, "measurement failed")
			return nil, fmt.Errorf("timing %s on %s: %w", cand.Name, corpusName, merr)
		}
		results[i] = res
	}
	report.Results = results

	// Report. Baseline-relative comparisons for every timed candidate,
	// plus a fastest-vs-slowest verdict across the whole family.
	report.Baseline = baseline.Name
	base := results[baseIdx]
	for i, res := range results {
		if i == baseIdx || res.Failed {
			continue
		}
		report.Comparisons = append(report.Comparisons, CompareToBaseline(base, res, d.cfg.ConfidenceLevel))
	}
	d.rankFamily(report)

	span.SetAttributes(
		attribute.Int("bench.mismatches", report.Mismatches()),
		attribute.Float64("bench.baseline_ns_per_op", base.NsPerOp),
	)
	span.SetStatus(codes.Ok, "family pass completed")

	d.logger.Debug("family pass complete",
		slog.String("family", family),
		slog.String("corpus", corpusName),
		slog.Int("candidates", len(candidates)),
		slog.Int("mismatches", report.Mismatches()),
	)

	return report, nil
}

// rankFamily compares the fastest and slowest timed candidates and
// declares a winner when the gap is statistically significant.
func (d *Driver) rankFamily(report *FamilyReport) {
	var timed []*Result
	for _, res := range report.Results {
		if !res.Failed && len(res.Samples) > 0 {
			timed = append(timed, res)
		}
	}
	if len(timed) < 2 {
		return
	}

	fastest, slowest := timed[0], timed[0]
	for _, res := range timed[1:] {
		if res.NsPerOp < fastest.NsPerOp {
			fastest = res
		}
		if res.NsPerOp > slowest.NsPerOp {
			slowest = res
		}
	}
	if fastest == slowest {
		return
	}

	_, pValue := WelchTTest(fastest.Samples, slowest.Samples)
	report.PValue = pValue
	report.Significant = pValue < 1-d.cfg.ConfidenceLevel
	if fastest.NsPerOp > 0 {
		report.Speedup = slowest.NsPerOp / fastest.NsPerOp
	}
	if report.Significant {
		report.Winner = fastest.Name
	}
}
