package regression

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/ashvardanian/SubstringSearchBenchmark/eval/benchmark"
)

// -----------------------------------------------------------------------------
// Regression Types
// -----------------------------------------------------------------------------

// RegressionType identifies the metric a regression was detected on.
type RegressionType int

const (
	// RegressionNone indicates no regression.
	RegressionNone RegressionType = iota

	// RegressionPerOp indicates the per-operation cost increased.
	RegressionPerOp

	// RegressionThroughput indicates byte throughput decreased.
	RegressionThroughput

	// RegressionMemory indicates allocations per operation increased.
	RegressionMemory
)

// String returns the string representation.
func (r RegressionType) String() string {
	switch r {
	case RegressionNone:
		return "none"
	case RegressionPerOp:
		return "ns_per_op"
	case RegressionThroughput:
		return "throughput"
	case RegressionMemory:
		return "memory"
	default:
		return "unknown"
	}
}

// Severity indicates how severe a regression is.
type Severity int

const (
	// SeverityNone indicates no issue.
	SeverityNone Severity = iota

	// SeverityWarning indicates a change approaching its threshold.
	SeverityWarning

	// SeverityError indicates a threshold was exceeded.
	SeverityError
)

// String returns the string representation.
func (s Severity) String() string {
	switch s {
	case SeverityNone:
		return "none"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// -----------------------------------------------------------------------------
// Detection Result
// -----------------------------------------------------------------------------

// Regression describes one detected regression.
type Regression struct {
	// Type identifies the regressed metric.
	Type RegressionType

	// Severity is the regression severity.
	Severity Severity

	// Candidate is the affected candidate, e.g. "checksum/swar".
	Candidate string

	// BaselineValue is the saved metric value.
	BaselineValue float64

	// CurrentValue is the metric value from this run.
	CurrentValue float64

	// Change is the relative change; positive means worse.
	Change float64

	// Threshold is the configured limit the change is measured against.
	Threshold float64

	// Message is a human-readable description.
	Message string
}

// DetectionResult holds the outcome of comparing a run against a
// saved baseline.
type DetectionResult struct {
	// BaselineName is the compared baseline's label.
	BaselineName string

	// Baseline is the saved data the run was compared against.
	Baseline *BaselineData

	// Regressions contains all blocking regressions.
	Regressions []Regression

	// Warnings contains non-blocking issues: near-threshold changes,
	// candidates present on only one side, capability drift.
	Warnings []Regression

	// Pass is true when no blocking regressions were found.
	Pass bool

	// MaxSeverity is the highest severity found.
	MaxSeverity Severity

	// AnalyzedAt is when detection was performed.
	AnalyzedAt time.Time
}

// HasRegressions reports whether any blocking regressions were detected.
func (r *DetectionResult) HasRegressions() bool {
	return len(r.Regressions) > 0
}

// HasWarnings reports whether any warnings were detected.
func (r *DetectionResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// -----------------------------------------------------------------------------
// Detector
// -----------------------------------------------------------------------------

// DetectorConfig configures regression detection.
type DetectorConfig struct {
	// PerOpThreshold is the allowed ns/op increase ratio (0.10 = 10%).
	PerOpThreshold float64

	// ThroughputThreshold is the allowed bytes/s decrease ratio.
	ThroughputThreshold float64

	// MemoryThreshold is the allowed allocs/op increase ratio.
	MemoryThreshold float64

	// WarnThresholdRatio is the fraction of a threshold at which to
	// warn instead of fail, e.g. 0.8 warns at 80% of the limit.
	WarnThresholdRatio float64

	// MinSamples is the minimum timing slices required on both sides
	// for a comparison to be trusted.
	MinSamples int
}

// DefaultDetectorConfig returns sensible defaults.
func DefaultDetectorConfig() *DetectorConfig {
	return &DetectorConfig{
		PerOpThreshold:      0.10,
		ThroughputThreshold: 0.10,
		MemoryThreshold:     0.25,
		WarnThresholdRatio:  0.80,
		MinSamples:          30,
	}
}

// Detector compares a finished run against a saved baseline.
//
// Thread Safety: safe for concurrent use (stateless).
type Detector struct {
	config *DetectorConfig
}

// NewDetector creates a new regression detector.
//
// Inputs:
//   - config: detection configuration. If nil, uses defaults.
func NewDetector(config *DetectorConfig) *Detector {
	if config == nil {
		config = DefaultDetectorConfig()
	}
	return &Detector{config: config}
}

// Detect compares every timed candidate in the report against the
// saved baseline.
//
// Description:
//
//	Candidates are matched by report name. A candidate present on only
//	one side produces a warning, never a failure, so adding or removing
//	variants does not block a gate. Failed candidates carry no timing
//	and are skipped. Capability drift between the two runs is warned
//	about because it changes which kernels execute.
func (d *Detector) Detect(baseline *BaselineData, report *benchmark.RunReport) *DetectionResult {
	result := &DetectionResult{
		BaselineName: baseline.Name,
		Baseline:     baseline,
		Regressions:  make([]Regression, 0),
		Warnings:     make([]Regression, 0),
		Pass:         true,
		MaxSeverity:  SeverityNone,
		AnalyzedAt:   time.Now(),
	}

	if !capabilitiesEqual(baseline.Capabilities, report.Capabilities) {
		addWarning(result, Regression{
			Type:     RegressionNone,
			Severity: SeverityWarning,
			Message: fmt.Sprintf("CPU capabilities differ: baseline %v, current %v",
				baseline.Capabilities, report.Capabilities),
		})
	}

	matched := make(map[string]bool, len(baseline.Candidates))
	for _, family := range report.Families {
		for _, r := range family.Results {
			if r.Failed || len(r.Samples) == 0 {
				continue
			}
			saved, ok := baseline.Candidates[r.Name]
			if !ok {
				addWarning(result, Regression{
					Type:      RegressionNone,
					Severity:  SeverityWarning,
					Candidate: r.Name,
					Message:   fmt.Sprintf("%s: no baseline entry, skipping", r.Name),
				})
				continue
			}
			matched[r.Name] = true
			d.checkCandidate(result, r, saved)
		}
	}

	for _, name := range sortedNames(baseline.Candidates) {
		if !matched[name] {
			addWarning(result, Regression{
				Type:      RegressionNone,
				Severity:  SeverityWarning,
				Candidate: name,
				Message:   fmt.Sprintf("%s: in baseline but not in this run", name),
			})
		}
	}

	return result
}

func (d *Detector) checkCandidate(result *DetectionResult, r *benchmark.Result, saved CandidateBaseline) {
	if len(r.Samples) < d.config.MinSamples || saved.SampleCount < d.config.MinSamples {
		addWarning(result, Regression{
			Type:      RegressionNone,
			Severity:  SeverityWarning,
			Candidate: r.Name,
			Message: fmt.Sprintf("%s: insufficient samples (%d current, %d baseline, need %d)",
				r.Name, len(r.Samples), saved.SampleCount, d.config.MinSamples),
		})
	}

	d.checkIncrease(result, RegressionPerOp, r.Name,
		saved.NsPerOp, r.NsPerOp, d.config.PerOpThreshold)
	d.checkDecrease(result, RegressionThroughput, r.Name,
		saved.Throughput.BytesPerSecond, r.Throughput.BytesPerSecond, d.config.ThroughputThreshold)
	d.checkIncrease(result, RegressionMemory, r.Name,
		float64(saved.Memory.AllocsPerOp), allocsPerOp(r), d.config.MemoryThreshold)
}

// checkIncrease flags metrics where growth is a regression.
func (d *Detector) checkIncrease(result *DetectionResult, regType RegressionType,
	candidate string, baseline, current, threshold float64) {

	if baseline == 0 {
		return
	}
	change := (current - baseline) / baseline
	d.record(result, Regression{
		Type:          regType,
		Candidate:     candidate,
		BaselineValue: baseline,
		CurrentValue:  current,
		Change:        change,
		Threshold:     threshold,
	}, "increased")
}

// checkDecrease flags metrics where shrinkage is a regression.
func (d *Detector) checkDecrease(result *DetectionResult, regType RegressionType,
	candidate string, baseline, current, threshold float64) {

	if baseline == 0 {
		return
	}
	change := (baseline - current) / baseline
	d.record(result, Regression{
		Type:          regType,
		Candidate:     candidate,
		BaselineValue: baseline,
		CurrentValue:  current,
		Change:        change,
		Threshold:     threshold,
	}, "decreased")
}

func (d *Detector) record(result *DetectionResult, reg Regression, verb string) {
	switch {
	case reg.Change > reg.Threshold:
		reg.Severity = SeverityError
		reg.Message = fmt.Sprintf("%s: %s %s by %.1f%% (threshold: %.1f%%)",
			reg.Candidate, reg.Type, verb, reg.Change*100, reg.Threshold*100)
		result.Regressions = append(result.Regressions, reg)
		result.Pass = false
		if reg.Severity > result.MaxSeverity {
			result.MaxSeverity = reg.Severity
		}
	case reg.Change > reg.Threshold*d.config.WarnThresholdRatio:
		reg.Severity = SeverityWarning
		reg.Message = fmt.Sprintf("%s: %s %s by %.1f%% (approaching threshold: %.1f%%)",
			reg.Candidate, reg.Type, verb, reg.Change*100, reg.Threshold*100)
		addWarning(result, reg)
	}
}

// addWarning appends a non-blocking issue and keeps MaxSeverity honest.
func addWarning(result *DetectionResult, reg Regression) {
	result.Warnings = append(result.Warnings, reg)
	if result.MaxSeverity < SeverityWarning {
		result.MaxSeverity = SeverityWarning
	}
}

func allocsPerOp(r *benchmark.Result) float64 {
	if r.Memory == nil {
		return 0
	}
	return float64(r.Memory.AllocsPerOp)
}

func capabilitiesEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func sortedNames(candidates map[string]CandidateBaseline) []string {
	names := make([]string, 0, len(candidates))
	for name := range candidates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// -----------------------------------------------------------------------------
// Statistical Detector
// -----------------------------------------------------------------------------

// StatisticalDetector filters per-op regressions through a significance
// test so noisy hardware does not fail a gate on jitter.
type StatisticalDetector struct {
	*Detector
	pValueThreshold float64
}

// NewStatisticalDetector creates a detector with significance testing.
//
// Inputs:
//   - config: detection configuration. If nil, uses defaults.
//   - pValueThreshold: p-value above which a per-op change is treated
//     as noise (0.05 is conventional).
func NewStatisticalDetector(config *DetectorConfig, pValueThreshold float64) *StatisticalDetector {
	return &StatisticalDetector{
		Detector:        NewDetector(config),
		pValueThreshold: pValueThreshold,
	}
}

// DetectSignificant runs Detect, then demotes per-op regressions whose
// difference is not statistically significant to warnings.
//
// Description:
//
//	The saved baseline keeps only summary statistics, not raw samples,
//	so Welch's t-test runs on mean, standard deviation, and sample
//	count from both sides. Throughput and memory regressions are left
//	untouched; they derive from the same timings, and the per-op check
//	is the one gating latency noise.
func (d *StatisticalDetector) DetectSignificant(baseline *BaselineData, report *benchmark.RunReport) *DetectionResult {
	result := d.Detect(baseline, report)
	if len(result.Regressions) == 0 {
		return result
	}

	current := make(map[string]CandidateBaseline)
	for _, family := range report.Families {
		for _, r := range family.Results {
			if r.Failed || len(r.Samples) == 0 {
				continue
			}
			current[r.Name] = candidateFromResult(r)
		}
	}

	kept := result.Regressions[:0]
	for _, reg := range result.Regressions {
		if reg.Type != RegressionPerOp {
			kept = append(kept, reg)
			continue
		}
		saved, okSaved := baseline.Candidates[reg.Candidate]
		cur, okCur := current[reg.Candidate]
		if !okSaved || !okCur {
			kept = append(kept, reg)
			continue
		}

		tStat, pValue := welchFromSummary(
			saved.Latency.MeanNs, saved.Latency.StdDevNs, saved.SampleCount,
			cur.Latency.MeanNs, cur.Latency.StdDevNs, cur.SampleCount,
		)
		if pValue > d.pValueThreshold {
			reg.Severity = SeverityWarning
			reg.Message = fmt.Sprintf("%s: per-op change not statistically significant (p=%.4f, t=%.4f)",
				reg.Candidate, pValue, tStat)
			addWarning(result, reg)
			continue
		}
		kept = append(kept, reg)
	}
	result.Regressions = kept

	result.Pass = len(result.Regressions) == 0
	result.MaxSeverity = SeverityNone
	if len(result.Warnings) > 0 {
		result.MaxSeverity = SeverityWarning
	}
	if len(result.Regressions) > 0 {
		result.MaxSeverity = SeverityError
	}
	return result
}

// welchFromSummary performs Welch's t-test from summary statistics.
func welchFromSummary(mean1, sd1 float64, n1 int, mean2, sd2 float64, n2 int) (tStatistic, pValue float64) {
	if n1 < 2 || n2 < 2 {
		return 0, 1
	}

	fn1, fn2 := float64(n1), float64(n2)
	se := math.Sqrt(sd1*sd1/fn1 + sd2*sd2/fn2)
	if se == 0 {
		return 0, 1
	}
	tStatistic = (mean1 - mean2) / se

	// Welch-Satterthwaite degrees of freedom.
	num := math.Pow(sd1*sd1/fn1+sd2*sd2/fn2, 2)
	denom := math.Pow(sd1*sd1/fn1, 2)/(fn1-1) + math.Pow(sd2*sd2/fn2, 2)/(fn2-1)
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

func normalCDF(x float64) float64 {
	return 0.5 * (1 + math.Erf(x/math.Sqrt2))
}
