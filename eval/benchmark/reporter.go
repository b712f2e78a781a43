package benchmark

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
)

// -----------------------------------------------------------------------------
// Reporter Interface
// -----------------------------------------------------------------------------

// Reporter renders benchmark outcomes to an output stream.
//
// Description:
//
//	Report renders a single family pass; ReportRun renders a whole run
//	with its header and every family pass. Implementations must not
//	mutate the reports they are given.
type Reporter interface {
	// Report renders one family pass.
	Report(report *FamilyReport) error

	// ReportRun renders a complete run.
	ReportRun(run *RunReport) error
}

// -----------------------------------------------------------------------------
// Console Reporter
// -----------------------------------------------------------------------------

// ConsoleReporter renders human-readable benchmark output.
//
// Description:
//
//	One stanza per candidate under a family header, with a
//	winner-or-no-winner verdict per family. Verbose mode adds elapsed
//	time, spread, confidence intervals, and memory counters.
//
// Thread Safety: Not safe for concurrent use.
type ConsoleReporter struct {
	out     io.Writer
	verbose bool
}

// NewConsoleReporter creates a console reporter.
//
// Inputs:
//   - out: Destination stream. Must not be nil.
//   - verbose: Enables the detailed sections.
//
// Outputs:
//   - *ConsoleReporter: The new reporter. Never nil.
func NewConsoleReporter(out io.Writer, verbose bool) *ConsoleReporter {
	return &ConsoleReporter{out: out, verbose: verbose}
}

// Report renders one family pass.
func (r *ConsoleReporter) Report(report *FamilyReport) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Benchmark: %s (corpus: %s, %d tokens)\n", report.Family, report.Corpus, report.CorpusSize)
	if len(report.Results) == 0 {
		b.WriteString("  skipped: no candidates or empty corpus\n\n")
		_, err := io.WriteString(r.out, b.String())
		return err
	}

	comparisons := make(map[string]Comparison, len(report.Comparisons))
	for _, c := range report.Comparisons {
		comparisons[c.Candidate] = c
	}

	for _, res := range report.Results {
		r.writeResult(&b, report, res, comparisons)
	}

	timed := len(report.Results) - report.Mismatches()
	if timed >= 2 {
		if report.Winner != "" {
			fmt.Fprintf(&b, "  Winner: %s (%.2fx, p=%.4f)\n", report.Winner, report.Speedup, report.PValue)
		} else {
			b.WriteString("  No statistically significant winner\n")
		}
	}
	b.WriteString("\n")

	_, err := io.WriteString(r.out, b.String())
	return err
}

// writeResult renders one candidate stanza.
func (r *ConsoleReporter) writeResult(b *strings.Builder, report *FamilyReport, res *Result, comparisons map[string]Comparison) {
	marker := ""
	if res.Name == report.Baseline {
		marker = " (baseline)"
	}
	fmt.Fprintf(b, "  Candidate: %s%s\n", res.Name, marker)

	if res.Failed {
		fmt.Fprintf(b, "    FAILED: %s\n", truncate(res.FailureReason, 160))
		return
	}

	fmt.Fprintf(b, "    Invocations: %d\n", res.Invocations)
	fmt.Fprintf(b, "    Latency: %s/op\n", formatOpLatency(res.NsPerOp))
	fmt.Fprintf(b, "    Percentiles: P50: %v  P90: %v  P95: %v  P99: %v\n",
		res.Latency.P50, res.Latency.P90, res.Latency.P95, res.Latency.P99)
	fmt.Fprintf(b, "    Ops/sec: %.2f\n", res.Throughput.OpsPerSecond)
	if res.Throughput.BytesPerSecond > 0 {
		fmt.Fprintf(b, "    Throughput: %s/s (%s processed)\n",
			formatBytes(uint64(res.Throughput.BytesPerSecond)), formatBytes(res.Bytes))
	}

	if cmp, ok := comparisons[res.Name]; ok && cmp.Speedup > 0 {
		line := fmt.Sprintf("    Speedup: %.2fx vs %s (p=%.4f, effect: %s)", cmp.Speedup, cmp.Baseline, cmp.PValue, cmp.EffectSizeCategory)
		if !cmp.Significant {
			line += " [not significant]"
		}
		b.WriteString(line + "\n")
	}

	if r.verbose {
		fmt.Fprintf(b, "    Elapsed: %v over %d slices of %d\n", res.Elapsed, len(res.RawSamples), res.SliceSize)
		fmt.Fprintf(b, "    Spread: mean %v, stddev %v, min %v, max %v\n",
			res.Latency.Mean, res.Latency.StdDev, res.Latency.Min, res.Latency.Max)
		if len(res.Samples) >= 2 && res.SliceSize > 0 {
			lower, upper := ConfidenceInterval(res.Samples, 0.95)
			fmt.Fprintf(b, "    95%% CI: [%v, %v] per op\n",
				lower/time.Duration(res.SliceSize), upper/time.Duration(res.SliceSize))
		}
		if res.Memory != nil {
			b.WriteString("    Memory:\n")
			fmt.Fprintf(b, "      Heap Before: %s\n", formatBytes(res.Memory.HeapAllocBefore))
			fmt.Fprintf(b, "      Heap After: %s\n", formatBytes(res.Memory.HeapAllocAfter))
			fmt.Fprintf(b, "      Heap Delta: %s\n", formatBytesDelta(res.Memory.HeapAllocDelta))
			fmt.Fprintf(b, "      Allocs/op: %d\n", res.Memory.AllocsPerOp)
			fmt.Fprintf(b, "      GC Pauses: %d (%v total)\n", res.Memory.GCPauses, res.Memory.GCPauseTotal)
		}
	}
}

// ReportRun renders a complete run.
func (r *ConsoleReporter) ReportRun(run *RunReport) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Benchmark Run: %s\n", run.RunID)
	fmt.Fprintf(&b, "Mode: %s\n", run.Mode)
	if run.Dataset != "" {
		fmt.Fprintf(&b, "Dataset: %s\n", run.Dataset)
	}
	if len(run.Capabilities) > 0 {
		fmt.Fprintf(&b, "CPU features: %s\n", strings.Join(run.Capabilities, ", "))
	}
	if run.FinishedAt > run.StartedAt {
		fmt.Fprintf(&b, "Wall time: %v\n", time.Duration(run.FinishedAt-run.StartedAt)*time.Millisecond)
	}
	b.WriteString("\n")
	if _, err := io.WriteString(r.out, b.String()); err != nil {
		return err
	}

	for _, family := range run.Families {
		if err := r.Report(family); err != nil {
			return err
		}
	}

	if n := run.Mismatches(); n > 0 {
		if _, err := fmt.Fprintf(r.out, "Correctness mismatches: %d\n", n); err != nil {
			return err
		}
	}
	return nil
}

// -----------------------------------------------------------------------------
// JSON Reporter
// -----------------------------------------------------------------------------

// JSONReporter renders benchmark output as JSON.
//
// Description:
//
//	Emits one JSON document per call: an object for a family pass, an
//	object for a whole run. Field names are snake_case and durations
//	are integer nanoseconds, so downstream tooling never parses Go
//	duration strings.
//
// Thread Safety: Not safe for concurrent use.
type JSONReporter struct {
	out    io.Writer
	pretty bool
}

// NewJSONReporter creates a JSON reporter.
//
// Inputs:
//   - out: Destination stream. Must not be nil.
//   - pretty: Enables indented output.
//
// Outputs:
//   - *JSONReporter: The new reporter. Never nil.
func NewJSONReporter(out io.Writer, pretty bool) *JSONReporter {
	return &JSONReporter{out: out, pretty: pretty}
}

// Report renders one family pass as a JSON object.
func (r *JSONReporter) Report(report *FamilyReport) error {
	return r.write(toJSONFamily(report))
}

// ReportRun renders a complete run as a single JSON object.
func (r *JSONReporter) ReportRun(run *RunReport) error {
	doc := jsonRun{
		RunID:        run.RunID,
		Mode:         run.Mode,
		Dataset:      run.Dataset,
		Capabilities: run.Capabilities,
		StartedAt:    run.StartedAt,
		FinishedAt:   run.FinishedAt,
		Mismatches:   run.Mismatches(),
	}
	for _, family := range run.Families {
		doc.Families = append(doc.Families, toJSONFamily(family))
	}
	return r.write(doc)
}

// write marshals and writes a single JSON document.
func (r *JSONReporter) write(doc any) error {
	var (
		data []byte
		err  error
	)
	if r.pretty {
		data, err = json.MarshalIndent(doc, "", "  ")
	} else {
		data, err = json.Marshal(doc)
	}
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}
	data = append(data, '\n')
	_, err = r.out.Write(data)
	return err
}

// -----------------------------------------------------------------------------
// JSON Wire Types
// -----------------------------------------------------------------------------

// The exported report types carry time.Duration fields, which marshal
// as bare nanosecond integers without units. These wire types fix the
// field names and units instead of tagging the domain types.

type jsonRun struct {
	RunID        string       `json:"run_id"`
	Mode         string       `json:"mode"`
	Dataset      string       `json:"dataset,omitempty"`
	Capabilities []string     `json:"capabilities,omitempty"`
	StartedAt    int64        `json:"started_at_ms"`
	FinishedAt   int64        `json:"finished_at_ms"`
	Mismatches   int          `json:"mismatches"`
	Families     []jsonFamily `json:"families"`
}

type jsonFamily struct {
	Family      string           `json:"family"`
	Corpus      string           `json:"corpus"`
	CorpusSize  int              `json:"corpus_size"`
	Baseline    string           `json:"baseline,omitempty"`
	Results     []jsonResult     `json:"results"`
	Comparisons []jsonComparison `json:"comparisons,omitempty"`
	Winner      string           `json:"winner,omitempty"`
	Speedup     float64          `json:"speedup,omitempty"`
	PValue      float64          `json:"p_value,omitempty"`
	Significant bool             `json:"significant"`
}

type jsonResult struct {
	Name          string          `json:"name"`
	Invocations   uint64          `json:"invocations"`
	Bytes         uint64          `json:"bytes"`
	ElapsedNs     int64           `json:"elapsed_ns"`
	NsPerOp       float64         `json:"ns_per_op"`
	SliceSize     int             `json:"slice_size"`
	Latency       jsonLatency     `json:"latency"`
	Throughput    jsonThroughput  `json:"throughput"`
	Memory        *jsonMemory     `json:"memory,omitempty"`
	Failed        bool            `json:"failed,omitempty"`
	FailureReason string          `json:"failure_reason,omitempty"`
	TimestampMs   int64           `json:"timestamp_ms"`
}

type jsonLatency struct {
	MinNs    int64 `json:"min_ns"`
	MaxNs    int64 `json:"max_ns"`
	MeanNs   int64 `json:"mean_ns"`
	MedianNs int64 `json:"median_ns"`
	StdDevNs int64 `json:"stddev_ns"`
	P50Ns    int64 `json:"p50_ns"`
	P90Ns    int64 `json:"p90_ns"`
	P95Ns    int64 `json:"p95_ns"`
	P99Ns    int64 `json:"p99_ns"`
}

type jsonThroughput struct {
	OpsPerSecond   float64 `json:"ops_per_second"`
	BytesPerSecond float64 `json:"bytes_per_second"`
}

type jsonMemory struct {
	HeapAllocBefore uint64 `json:"heap_alloc_before"`
	HeapAllocAfter  uint64 `json:"heap_alloc_after"`
	HeapAllocDelta  int64  `json:"heap_alloc_delta"`
	AllocsPerOp     uint64 `json:"allocs_per_op"`
	GCPauses        uint32 `json:"gc_pauses"`
	GCPauseTotalNs  int64  `json:"gc_pause_total_ns"`
}

type jsonComparison struct {
	Candidate          string  `json:"candidate"`
	Baseline           string  `json:"baseline"`
	Speedup            float64 `json:"speedup"`
	TStatistic         float64 `json:"t_statistic"`
	PValue             float64 `json:"p_value"`
	Significant        bool    `json:"significant"`
	EffectSize         float64 `json:"effect_size"`
	EffectSizeCategory string  `json:"effect_size_category"`
}

func toJSONFamily(report *FamilyReport) jsonFamily {
	doc := jsonFamily{
		Family:      report.Family,
		Corpus:      report.Corpus,
		CorpusSize:  report.CorpusSize,
		Baseline:    report.Baseline,
		Winner:      report.Winner,
		Speedup:     report.Speedup,
		PValue:      report.PValue,
		Significant: report.Significant,
	}
	for _, res := range report.Results {
		doc.Results = append(doc.Results, toJSONResult(res))
	}
	for _, cmp := range report.Comparisons {
		doc.Comparisons = append(doc.Comparisons, jsonComparison{
			Candidate:          cmp.Candidate,
			Baseline:           cmp.Baseline,
			Speedup:            cmp.Speedup,
			TStatistic:         cmp.TStatistic,
			PValue:             cmp.PValue,
			Significant:        cmp.Significant,
			EffectSize:         cmp.EffectSize,
			EffectSizeCategory: cmp.EffectSizeCategory.String(),
		})
	}
	return doc
}

func toJSONResult(res *Result) jsonResult {
	doc := jsonResult{
		Name:          res.Name,
		Invocations:   res.Invocations,
		Bytes:         res.Bytes,
		ElapsedNs:     res.Elapsed.Nanoseconds(),
		NsPerOp:       res.NsPerOp,
		SliceSize:     res.SliceSize,
		Failed:        res.Failed,
		FailureReason: res.FailureReason,
		TimestampMs:   res.Timestamp,
		Latency: jsonLatency{
			MinNs:    res.Latency.Min.Nanoseconds(),
			MaxNs:    res.Latency.Max.Nanoseconds(),
			MeanNs:   res.Latency.Mean.Nanoseconds(),
			MedianNs: res.Latency.Median.Nanoseconds(),
			StdDevNs: res.Latency.StdDev.Nanoseconds(),
			P50Ns:    res.Latency.P50.Nanoseconds(),
			P90Ns:    res.Latency.P90.Nanoseconds(),
			P95Ns:    res.Latency.P95.Nanoseconds(),
			P99Ns:    res.Latency.P99.Nanoseconds(),
		},
		Throughput: jsonThroughput{
			OpsPerSecond:   res.Throughput.OpsPerSecond,
			BytesPerSecond: res.Throughput.BytesPerSecond,
		},
	}
	if res.Memory != nil {
		doc.Memory = &jsonMemory{
			HeapAllocBefore: res.Memory.HeapAllocBefore,
			HeapAllocAfter:  res.Memory.HeapAllocAfter,
			HeapAllocDelta:  res.Memory.HeapAllocDelta,
			AllocsPerOp:     res.Memory.AllocsPerOp,
			GCPauses:        res.Memory.GCPauses,
			GCPauseTotalNs:  res.Memory.GCPauseTotal.Nanoseconds(),
		}
	}
	return doc
}

// -----------------------------------------------------------------------------
// Formatting Helpers
// -----------------------------------------------------------------------------

// formatBytes formats a byte count in human-readable form.
func formatBytes(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := uint64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}

// formatBytesDelta formats a signed byte delta with an explicit sign.
func formatBytesDelta(delta int64) string {
	if delta < 0 {
		return "-" + formatBytes(uint64(-delta))
	}
	return "+" + formatBytes(uint64(delta))
}

// truncate shortens a string to max characters, with an ellipsis when
// anything was cut.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
