package benchmark

import (
	"errors"
	"math"
	"sort"
	"time"
)

// -----------------------------------------------------------------------------
// Errors
// -----------------------------------------------------------------------------

var (
	// ErrNoSamples indicates that no timing samples were collected.
	ErrNoSamples = errors.New("no samples collected")

	// ErrInvalidConfig indicates an invalid benchmark configuration.
	ErrInvalidConfig = errors.New("invalid benchmark configuration")

	// ErrEmptyCorpus indicates a sampler was handed zero inputs. The
	// driver guard turns this case into a no-op before the sampler can
	// ever see it; the error exists for direct sampler misuse.
	ErrEmptyCorpus = errors.New("corpus is empty")
)

// -----------------------------------------------------------------------------
// Configuration
// -----------------------------------------------------------------------------

// Config holds the settings shared by every (registry, corpus) pass.
//
// Description:
//
//	One Config drives a whole run: the per-candidate time budget, the
//	slice size between clock reads, the verification sample size, and
//	the statistical post-processing knobs. Use DefaultConfig() and
//	override fields as needed; Validate() must pass before use.
//
// Thread Safety: Safe for concurrent read access after initialization.
type Config struct {
	// TimeBudget is the wall-clock budget per candidate timing pass.
	// Default: 1s
	TimeBudget time.Duration

	// SliceSize is the number of invocations between monotonic clock
	// reads. Reading the clock per call would dominate nanosecond-scale
	// candidates. Capped at the corpus length. Default: 1024
	SliceSize int

	// VerifySample is the number of corpus elements (or adjacent pairs)
	// fed to the verifier. Default: 1024
	VerifySample int

	// RemoveOutliers trims statistical outliers from slice samples.
	// Default: true
	RemoveOutliers bool

	// OutlierThreshold is the IQR multiplier for outlier detection.
	// Default: 1.5
	OutlierThreshold float64

	// CollectMemory captures heap counters around each timing pass.
	// Default: true
	CollectMemory bool

	// ConfidenceLevel is used for significance tests and intervals.
	// Default: 0.95
	ConfidenceLevel float64

	// FailOnMismatch makes verification failures fatal to the process
	// exit code. Off by default: a disagreeing accelerated variant is
	// reported and skipped, never retried, and the run completes.
	FailOnMismatch bool
}

// DefaultConfig returns a configuration with default values.
//
// Outputs:
//   - *Config: Configuration with defaults applied. Never nil.
//
// Example:
//
//	cfg := benchmark.DefaultConfig()
//	cfg.TimeBudget = 5 * time.Second
func DefaultConfig() *Config {
	return &Config{
		TimeBudget:       time.Second,
		SliceSize:        1024,
		VerifySample:     1024,
		RemoveOutliers:   true,
		OutlierThreshold: 1.5,
		CollectMemory:    true,
		ConfidenceLevel:  0.95,
	}
}

// Validate checks that the configuration is valid.
//
// Outputs:
//   - error: Non-nil if a field is out of range, wrapping
//     ErrInvalidConfig and naming the field.
func (c *Config) Validate() error {
	if c.TimeBudget <= 0 {
		return errors.Join(ErrInvalidConfig, errors.New("time budget must be positive"))
	}
	if c.SliceSize <= 0 {
		return errors.Join(ErrInvalidConfig, errors.New("slice size must be positive"))
	}
	if c.VerifySample <= 0 {
		return errors.Join(ErrInvalidConfig, errors.New("verify sample must be positive"))
	}
	if c.OutlierThreshold <= 0 {
		return errors.Join(ErrInvalidConfig, errors.New("outlier threshold must be positive"))
	}
	if c.ConfidenceLevel <= 0 || c.ConfidenceLevel >= 1 {
		return errors.Join(ErrInvalidConfig, errors.New("confidence level must be in (0, 1)"))
	}
	return nil
}

// -----------------------------------------------------------------------------
// Byte Accounting
// -----------------------------------------------------------------------------

// BytesMode selects the throughput denominator for a family.
type BytesMode int

const (
	// BytesToken counts the byte length of each input token (unary ops).
	BytesToken BytesMode = iota
	// BytesPair counts the summed length of both operands (binary ops).
	BytesPair
	// BytesUnit counts a fixed unit per invocation, for dereference-style
	// measurements where input length is not the cost driver.
	BytesUnit
)

// String returns the string representation of a BytesMode.
func (m BytesMode) String() string {
	switch m {
	case BytesToken:
		return "token"
	case BytesPair:
		return "pair"
	case BytesUnit:
		return "unit"
	default:
		return "unknown"
	}
}

// -----------------------------------------------------------------------------
// Results
// -----------------------------------------------------------------------------

// Result holds the aggregate outcome for one candidate on one corpus.
//
// Description:
//
//	A Result is produced fresh per (registry, corpus) pass and never
//	mutated after finalization. Candidates that failed verification
//	carry Failed=true with the mismatch summary and zeroed timing
//	fields; they are reported but never timed.
//
// Thread Safety: Safe for concurrent read access after creation.
type Result struct {
	// Name is the candidate's registry name.
	Name string

	// Invocations is the number of measured operation calls.
	Invocations uint64

	// Bytes is the total input bytes processed (per the family's
	// BytesMode).
	Bytes uint64

	// Elapsed is the total measured wall time.
	Elapsed time.Duration

	// SliceSize is the number of invocations per timing sample.
	SliceSize int

	// NsPerOp is mean nanoseconds per operation at full precision.
	// Durations round to whole nanoseconds, which erases the cost of
	// the cheapest candidates; this field does not.
	NsPerOp float64

	// Latency holds per-operation latency statistics derived from
	// per-slice samples.
	Latency LatencyStats

	// Throughput holds derived rates.
	Throughput ThroughputStats

	// Memory holds heap counters around the timing pass (if collected).
	Memory *MemoryStats

	// Failed marks a candidate excluded from timing by verification.
	Failed bool

	// FailureReason is the human-readable mismatch summary when Failed.
	FailureReason string

	// Timestamp is when the pass finished (Unix milliseconds UTC).
	Timestamp int64

	// Samples holds the per-slice durations used for statistics, after
	// optional outlier removal. Slice size is fixed per pass, so these
	// compare directly across candidates on the same corpus.
	Samples []time.Duration

	// RawSamples holds the per-slice durations before outlier removal.
	RawSamples []time.Duration
}

// FailedResult builds the placeholder result for a candidate that was
// excluded from timing by verification. It carries the failure marker
// and reason and nothing else.
func FailedResult(name, reason string) *Result {
	return &Result{
		Name:          name,
		Failed:        true,
		FailureReason: reason,
		Timestamp:     time.Now().UnixMilli(),
	}
}

// LatencyStats holds per-operation latency statistics.
//
// Description:
//
//	Percentiles use linear interpolation over the per-slice samples.
//	For sub-microsecond operations the per-slice estimate is the only
//	measurement that does not perturb what it measures.
type LatencyStats struct {
	// Min is the fastest per-operation estimate observed.
	Min time.Duration

	// Max is the slowest per-operation estimate observed.
	Max time.Duration

	// Mean is the arithmetic mean.
	Mean time.Duration

	// Median is the 50th percentile.
	Median time.Duration

	// StdDev is the standard deviation.
	StdDev time.Duration

	// Variance is StdDev squared, in nanoseconds squared.
	Variance float64

	// P50 is the 50th percentile.
	P50 time.Duration

	// P90 is the 90th percentile.
	P90 time.Duration

	// P95 is the 95th percentile.
	P95 time.Duration

	// P99 is the 99th percentile.
	P99 time.Duration
}

// ThroughputStats holds derived rates for one candidate.
type ThroughputStats struct {
	// OpsPerSecond is measured invocations per second.
	OpsPerSecond float64

	// BytesPerSecond is input bytes per second under the family's
	// BytesMode. Zero for unit-accounted families.
	BytesPerSecond float64
}

// MemoryStats holds heap counters captured around one timing pass.
//
// Description:
//
//	Captured outside the timed loop, so collection cost never distorts
//	the measurement. Most candidates allocate nothing; the dereference
//	family is the deliberate exception.
type MemoryStats struct {
	// HeapAllocBefore is heap bytes in use before the pass.
	HeapAllocBefore uint64

	// HeapAllocAfter is heap bytes in use after the pass.
	HeapAllocAfter uint64

	// HeapAllocDelta is the change in heap bytes.
	HeapAllocDelta int64

	// AllocsPerOp is mallocs per invocation, rounded down.
	AllocsPerOp uint64

	// GCPauses is the number of GC cycles during the pass.
	GCPauses uint32

	// GCPauseTotal is the summed GC pause time during the pass.
	GCPauseTotal time.Duration
}

// -----------------------------------------------------------------------------
// Reports
// -----------------------------------------------------------------------------

// FamilyReport collects the results of one (registry, corpus) pass.
type FamilyReport struct {
	// Family is the operation family, e.g. "checksum".
	Family string

	// Corpus labels the corpus variant, e.g. "words" or "len-8".
	Corpus string

	// CorpusSize is the number of tokens (or pairs) in the corpus.
	CorpusSize int

	// Baseline is the name of the family's baseline candidate.
	Baseline string

	// Results holds per-candidate outcomes in registry order.
	Results []*Result

	// Comparisons holds baseline-relative statistics for every
	// non-baseline candidate that was timed, in registry order.
	Comparisons []Comparison

	// Winner is the fastest timed candidate, set only when the gap
	// between the fastest and slowest timed candidates is
	// statistically significant.
	Winner string

	// Speedup is slowest mean latency / fastest mean latency across
	// the timed candidates. Zero with fewer than two timed results.
	Speedup float64

	// PValue is the two-tailed p-value of the fastest-vs-slowest test.
	PValue float64

	// Significant reports whether that gap passed the significance
	// threshold.
	Significant bool
}

// Mismatches counts the candidates that failed verification.
func (f *FamilyReport) Mismatches() int {
	n := 0
	for _, r := range f.Results {
		if r.Failed {
			n++
		}
	}
	return n
}

// RunReport is the top-level outcome of one benchtoken invocation.
type RunReport struct {
	// RunID is a UUID identifying this run.
	RunID string

	// Mode is "synthetic" or "file".
	Mode string

	// Dataset is the corpus path in file mode, empty otherwise.
	Dataset string

	// Capabilities lists the detected CPU features relevant to the
	// registered catalogs.
	Capabilities []string

	// StartedAt and FinishedAt bound the run (Unix milliseconds UTC).
	StartedAt  int64
	FinishedAt int64

	// Families holds every (registry, corpus) pass in execution order.
	Families []*FamilyReport
}

// Mismatches counts verification failures across all passes.
func (r *RunReport) Mismatches() int {
	n := 0
	for _, f := range r.Families {
		n += f.Mismatches()
	}
	return n
}

// -----------------------------------------------------------------------------
// Comparison
// -----------------------------------------------------------------------------

// Comparison holds the statistical comparison of one candidate against
// its family baseline.
//
// Description:
//
//	Speedup is the ratio of baseline mean latency to candidate mean
//	latency, so values above 1 mean the candidate is faster. Welch's
//	t-test supplies the significance verdict and Cohen's d the effect
//	size.
type Comparison struct {
	// Candidate is the compared candidate's name.
	Candidate string

	// Baseline is the family baseline's name.
	Baseline string

	// Speedup is baseline mean latency / candidate mean latency.
	Speedup float64

	// TStatistic is Welch's t-statistic.
	TStatistic float64

	// PValue is the two-tailed p-value.
	PValue float64

	// Significant is true when PValue < 1 - confidence level.
	Significant bool

	// EffectSize is Cohen's d.
	EffectSize float64

	// EffectSizeCategory buckets the effect size.
	EffectSizeCategory EffectSizeCategory
}

// CompareToBaseline computes baseline-relative statistics for a timed
// candidate.
//
// Inputs:
//   - baseline: The family baseline's result. Must carry samples.
//   - candidate: The compared candidate's result. Must carry samples.
//   - confidenceLevel: e.g. 0.95.
//
// Outputs:
//   - Comparison: Populated comparison. Speedup is 0 when either side
//     has no samples.
func CompareToBaseline(baseline, candidate *Result, confidenceLevel float64) Comparison {
	cmp := Comparison{
		Candidate: candidate.Name,
		Baseline:  baseline.Name,
	}
	if len(baseline.Samples) == 0 || len(candidate.Samples) == 0 {
		return cmp
	}

	baseMean := calculateMean(baseline.Samples)
	candMean := calculateMean(candidate.Samples)
	if candMean > 0 {
		cmp.Speedup = baseMean / candMean
	}

	cmp.TStatistic, cmp.PValue = WelchTTest(baseline.Samples, candidate.Samples)
	cmp.Significant = cmp.PValue < 1-confidenceLevel
	cmp.EffectSize = CalculateCohensD(baseline.Samples, candidate.Samples)
	cmp.EffectSizeCategory = CategorizeEffectSize(cmp.EffectSize)
	return cmp
}

// EffectSizeCategory categorizes effect sizes using Cohen's conventions.
type EffectSizeCategory int

const (
	// EffectNegligible indicates Cohen's d < 0.2
	EffectNegligible EffectSizeCategory = iota
	// EffectSmall indicates Cohen's d between 0.2 and 0.5
	EffectSmall
	// EffectMedium indicates Cohen's d between 0.5 and 0.8
	EffectMedium
	// EffectLarge indicates Cohen's d >= 0.8
	EffectLarge
)

// String returns the string representation of the effect size category.
func (e EffectSizeCategory) String() string {
	switch e {
	case EffectNegligible:
		return "negligible"
	case EffectSmall:
		return "small"
	case EffectMedium:
		return "medium"
	case EffectLarge:
		return "large"
	default:
		return "unknown"
	}
}

// CategorizeEffectSize returns the category for a given Cohen's d.
// Uses the absolute value, so direction does not affect the category.
func CategorizeEffectSize(d float64) EffectSizeCategory {
	absD := math.Abs(d)
	switch {
	case absD < 0.2:
		return EffectNegligible
	case absD < 0.5:
		return EffectSmall
	case absD < 0.8:
		return EffectMedium
	default:
		return EffectLarge
	}
}

// -----------------------------------------------------------------------------
// Statistics Functions
// -----------------------------------------------------------------------------

// CalculateLatencyStats computes latency statistics from samples.
//
// Description:
//
//	Computes min, max, mean, median, standard deviation, variance, and
//	percentiles (P50, P90, P95, P99) with linear interpolation.
//
// Inputs:
//   - samples: Per-operation duration samples. Must not be empty.
//
// Outputs:
//   - LatencyStats: Computed statistics.
//   - error: ErrNoSamples if samples is empty.
func CalculateLatencyStats(samples []time.Duration) (LatencyStats, error) {
	if len(samples) == 0 {
		return LatencyStats{}, ErrNoSamples
	}

	sorted := make([]time.Duration, len(samples))
	copy(sorted, samples)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i] < sorted[j]
	})

	stats := LatencyStats{
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		Median: percentile(sorted, 0.5),
		P50:    percentile(sorted, 0.5),
		P90:    percentile(sorted, 0.9),
		P95:    percentile(sorted, 0.95),
		P99:    percentile(sorted, 0.99),
	}

	var sum time.Duration
	for _, s := range samples {
		sum += s
	}
	stats.Mean = sum / time.Duration(len(samples))

	var sumSquaredDiff float64
	meanFloat := float64(stats.Mean)
	for _, s := range samples {
		diff := float64(s) - meanFloat
		sumSquaredDiff += diff * diff
	}
	stats.Variance = sumSquaredDiff / float64(len(samples))
	stats.StdDev = time.Duration(math.Sqrt(stats.Variance))

	return stats, nil
}

// percentile calculates the p-th percentile of sorted samples using
// linear interpolation.
func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	if len(sorted) == 1 {
		return sorted[0]
	}

	index := p * float64(len(sorted)-1)
	lower := int(math.Floor(index))
	upper := int(math.Ceil(index))

	if lower == upper {
		return sorted[lower]
	}

	fraction := index - float64(lower)
	return time.Duration(float64(sorted[lower])*(1-fraction) + float64(sorted[upper])*fraction)
}

// RemoveOutliers removes outliers using the IQR method.
//
// Description:
//
//	Values outside [Q1 - threshold*IQR, Q3 + threshold*IQR] are
//	dropped. If that would drop more than half the samples, the
//	original slice is returned unchanged. Fewer than 4 samples are
//	returned unchanged.
//
// Inputs:
//   - samples: Duration samples.
//   - threshold: IQR multiplier (1.5 for mild outliers, 3.0 for extreme).
//
// Outputs:
//   - []time.Duration: Samples with outliers removed.
func RemoveOutliers(samples []time.Duration, threshold float64) []time.Duration {
	if len(samples) < 4 {
		return samples
	}

	sorted := make([]time.Duration, len(samples))
	copy(sorted, samples)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i] < sorted[j]
	})

	q1 := percentile(sorted, 0.25)
	q3 := percentile(sorted, 0.75)
	iqr := q3 - q1

	lowerBound := q1 - time.Duration(threshold*float64(iqr))
	upperBound := q3 + time.Duration(threshold*float64(iqr))

	var filtered []time.Duration
	for _, s := range samples {
		if s >= lowerBound && s <= upperBound {
			filtered = append(filtered, s)
		}
	}

	if len(filtered) < len(samples)/2 {
		return samples
	}

	return filtered
}

// CalculateCohensD calculates Cohen's d effect size between two sample
// sets using the pooled standard deviation. Positive d means samples1
// ran slower than samples2.
func CalculateCohensD(samples1, samples2 []time.Duration) float64 {
	if len(samples1) == 0 || len(samples2) == 0 {
		return 0
	}

	mean1 := calculateMean(samples1)
	mean2 := calculateMean(samples2)

	var1 := calculateVariance(samples1, mean1)
	var2 := calculateVariance(samples2, mean2)

	n1 := float64(len(samples1))
	n2 := float64(len(samples2))
	pooledVar := ((n1-1)*var1 + (n2-1)*var2) / (n1 + n2 - 2)
	pooledStdDev := math.Sqrt(pooledVar)

	if pooledStdDev == 0 {
		return 0
	}

	return (mean1 - mean2) / pooledStdDev
}

// calculateMean calculates the arithmetic mean of samples.
func calculateMean(samples []time.Duration) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, s := range samples {
		sum += float64(s)
	}
	return sum / float64(len(samples))
}

// calculateVariance calculates the population variance of samples.
func calculateVariance(samples []time.Duration, mean float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sumSquaredDiff float64
	for _, s := range samples {
		diff := float64(s) - mean
		sumSquaredDiff += diff * diff
	}
	return sumSquaredDiff / float64(len(samples))
}

// WelchTTest performs Welch's t-test on two sample sets.
//
// Description:
//
//	Welch's t-test tolerates unequal variances and sample sizes, which
//	per-slice timing samples routinely have. The p-value uses a normal
//	approximation, which is adequate at the sample counts a one-second
//	budget produces.
//
// Outputs:
//   - tStatistic: Negative when samples1 ran faster than samples2.
//   - pValue: Approximate two-tailed p-value; 1 when samples are
//     insufficient or variance-free.
func WelchTTest(samples1, samples2 []time.Duration) (tStatistic float64, pValue float64) {
	if len(samples1) < 2 || len(samples2) < 2 {
		return 0, 1
	}

	mean1 := calculateMean(samples1)
	mean2 := calculateMean(samples2)

	var1 := calculateVariance(samples1, mean1)
	var2 := calculateVariance(samples2, mean2)

	n1 := float64(len(samples1))
	n2 := float64(len(samples2))

	se := math.Sqrt(var1/n1 + var2/n2)
	if se == 0 {
		return 0, 1
	}

	tStatistic = (mean1 - mean2) / se

	// Welch-Satterthwaite degrees of freedom
	num := math.Pow(var1/n1+var2/n2, 2)
	denom := math.Pow(var1/n1, 2)/(n1-1) + math.Pow(var2/n2, 2)/(n2-1)
	if denom == 0 {
		return tStatistic, 1
	}
	df := num / denom

	if df >= 30 {
		pValue = 2 * normalCDF(-math.Abs(tStatistic))
	} else if df > 2 {
		pValue = 2 * normalCDF(-math.Abs(tStatistic)*math.Sqrt(df/(df-2)))
	} else {
		pValue = 1
	}

	return tStatistic, pValue
}

// normalCDF approximates the standard normal cumulative distribution.
func normalCDF(x float64) float64 {
	return 0.5 * (1 + math.Erf(x/math.Sqrt2))
}

// ConfidenceInterval calculates a symmetric confidence interval for the
// sample mean.
//
// Description:
//
//	Small samples (n < 30) use t-distribution critical values; larger
//	samples use z-scores. Supported confidence levels: 0.90, 0.95, 0.99.
//
// Outputs:
//   - lower, upper: Interval bounds around the mean.
func ConfidenceInterval(samples []time.Duration, confidenceLevel float64) (lower, upper time.Duration) {
	if len(samples) < 2 {
		if len(samples) == 1 {
			return samples[0], samples[0]
		}
		return 0, 0
	}

	mean := calculateMean(samples)
	variance := calculateVariance(samples, mean)
	stdErr := math.Sqrt(variance / float64(len(samples)))

	n := len(samples)
	df := n - 1

	var criticalValue float64
	if n >= 30 {
		switch {
		case confidenceLevel >= 0.99:
			criticalValue = 2.576
		case confidenceLevel >= 0.95:
			criticalValue = 1.96
		case confidenceLevel >= 0.90:
			criticalValue = 1.645
		default:
			criticalValue = 1.96
		}
	} else {
		criticalValue = tCriticalValue(df, confidenceLevel)
	}

	margin := criticalValue * stdErr
	return time.Duration(mean - margin), time.Duration(mean + margin)
}

// tCriticalValue returns the two-tailed t-distribution critical value
// for df degrees of freedom at the given confidence level.
func tCriticalValue(df int, confidenceLevel float64) float64 {
	t90 := []float64{6.314, 2.920, 2.353, 2.132, 2.015, 1.943, 1.895, 1.860, 1.833, 1.812,
		1.796, 1.782, 1.771, 1.761, 1.753, 1.746, 1.740, 1.734, 1.729, 1.725,
		1.721, 1.717, 1.714, 1.711, 1.708, 1.706, 1.703, 1.701, 1.699, 1.697}
	t95 := []float64{12.706, 4.303, 3.182, 2.776, 2.571, 2.447, 2.365, 2.306, 2.262, 2.228,
		2.201, 2.179, 2.160, 2.145, 2.131, 2.120, 2.110, 2.101, 2.093, 2.086,
		2.080, 2.074, 2.069, 2.064, 2.060, 2.056, 2.052, 2.048, 2.045, 2.042}
	t99 := []float64{63.657, 9.925, 5.841, 4.604, 4.032, 3.707, 3.499, 3.355, 3.250, 3.169,
		3.106, 3.055, 3.012, 2.977, 2.947, 2.921, 2.898, 2.878, 2.861, 2.845,
		2.831, 2.819, 2.807, 2.797, 2.787, 2.779, 2.771, 2.763, 2.756, 2.750}

	var table []float64
	switch {
	case confidenceLevel >= 0.99:
		table = t99
	case confidenceLevel >= 0.95:
		table = t95
	default:
		table = t90
	}

	if df < 1 {
		df = 1
	}
	if df > 30 {
		switch {
		case confidenceLevel >= 0.99:
			return 2.576
		case confidenceLevel >= 0.95:
			return 1.96
		default:
			return 1.645
		}
	}

	return table[df-1]
}
