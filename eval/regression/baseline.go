package regression

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ashvardanian/SubstringSearchBenchmark/eval/benchmark"
)

// -----------------------------------------------------------------------------
// Errors
// -----------------------------------------------------------------------------

var (
	// ErrBaselineNotFound indicates no saved baseline exists under the name.
	ErrBaselineNotFound = errors.New("baseline not found")

	// ErrInvalidBaseline indicates the baseline data is corrupted.
	ErrInvalidBaseline = errors.New("invalid baseline data")

	// ErrInvalidName indicates a baseline name unusable as a file stem.
	ErrInvalidName = errors.New("invalid baseline name")
)

// -----------------------------------------------------------------------------
// Baseline Data
// -----------------------------------------------------------------------------

// Baseline stores and retrieves saved benchmark baselines by name.
//
// Thread Safety: implementations must be safe for concurrent use.
type Baseline interface {
	// Get retrieves the baseline saved under name.
	// Returns ErrBaselineNotFound if no baseline exists.
	Get(ctx context.Context, name string) (*BaselineData, error)

	// Set stores a baseline under name, replacing any previous one.
	Set(ctx context.Context, name string, data *BaselineData) error

	// List returns all saved baseline names.
	List(ctx context.Context) ([]string, error)

	// Delete removes a saved baseline.
	Delete(ctx context.Context, name string) error
}

// BaselineData is one saved baseline: a snapshot of every timed
// candidate from a benchmark run, keyed by candidate name.
type BaselineData struct {
	// Name is the label the baseline was saved under, e.g. "main".
	Name string `json:"name"`

	// RunID identifies the run the snapshot was taken from.
	RunID string `json:"run_id"`

	// CreatedAt is when the baseline was first saved.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is when the baseline was last replaced.
	UpdatedAt time.Time `json:"updated_at"`

	// Capabilities are the CPU features detected when the snapshot was
	// taken. Comparing runs across different feature sets is legal but
	// the detector surfaces the difference as a warning.
	Capabilities []string `json:"capabilities,omitempty"`

	// Candidates holds per-candidate metrics keyed by report name,
	// e.g. "checksum/swar".
	Candidates map[string]CandidateBaseline `json:"candidates"`
}

// CandidateBaseline holds the per-candidate metrics a later run is
// compared against. Per-operation figures are kept as float64
// nanoseconds; sub-nanosecond costs are real in this harness and
// truncating them to whole durations would zero the signal.
type CandidateBaseline struct {
	// NsPerOp is the headline per-operation cost.
	NsPerOp float64 `json:"ns_per_op"`

	// Latency holds the per-operation latency distribution.
	Latency LatencyBaseline `json:"latency"`

	// Throughput holds the derived rates.
	Throughput ThroughputBaseline `json:"throughput"`

	// Memory holds allocation metrics; zero when memory collection was off.
	Memory MemoryBaseline `json:"memory"`

	// SampleCount is the number of timing slices behind the snapshot.
	SampleCount int `json:"sample_count"`
}

// LatencyBaseline holds a per-operation latency distribution in
// float64 nanoseconds.
type LatencyBaseline struct {
	MeanNs   float64 `json:"mean_ns"`
	StdDevNs float64 `json:"std_dev_ns"`
	P50Ns    float64 `json:"p50_ns"`
	P95Ns    float64 `json:"p95_ns"`
	P99Ns    float64 `json:"p99_ns"`
}

// ThroughputBaseline holds derived throughput rates.
type ThroughputBaseline struct {
	OpsPerSecond   float64 `json:"ops_per_second"`
	BytesPerSecond float64 `json:"bytes_per_second,omitempty"`
}

// MemoryBaseline holds allocation metrics.
type MemoryBaseline struct {
	AllocsPerOp   uint64 `json:"allocs_per_op"`
	HeapDeltaByte int64  `json:"heap_delta_bytes,omitempty"`
}

// FromRunReport converts a finished run into a storable baseline.
//
// Description:
//
//	Every timed result in the report becomes one candidate entry, keyed
//	by its report name. Failed candidates carry no timing and are
//	skipped. Per-operation latency percentiles are recomputed from the
//	per-slice samples so they keep full precision instead of the whole
//	nanosecond truncation the report's display stats use.
func FromRunReport(name string, report *benchmark.RunReport) *BaselineData {
	data := &BaselineData{
		Name:         name,
		Capabilities: append([]string(nil), report.Capabilities...),
		Candidates:   make(map[string]CandidateBaseline),
	}
	data.RunID = report.RunID

	for _, family := range report.Families {
		for _, r := range family.Results {
			if r.Failed || len(r.Samples) == 0 {
				continue
			}
			data.Candidates[r.Name] = candidateFromResult(r)
		}
	}
	return data
}

func candidateFromResult(r *benchmark.Result) CandidateBaseline {
	div := float64(r.SliceSize)
	if div == 0 {
		div = 1
	}
	// Callers filter empty-sample results, and zero stats on error keep
	// the entry harmless either way.
	sliceStats, _ := benchmark.CalculateLatencyStats(r.Samples)

	return CandidateBaseline{
		NsPerOp: r.NsPerOp,
		Latency: LatencyBaseline{
			MeanNs:   float64(sliceStats.Mean) / div,
			StdDevNs: float64(sliceStats.StdDev) / div,
			P50Ns:    float64(sliceStats.P50) / div,
			P95Ns:    float64(sliceStats.P95) / div,
			P99Ns:    float64(sliceStats.P99) / div,
		},
		Throughput: ThroughputBaseline{
			OpsPerSecond:   r.Throughput.OpsPerSecond,
			BytesPerSecond: r.Throughput.BytesPerSecond,
		},
		Memory:      memoryFromResult(r),
		SampleCount: len(r.Samples),
	}
}

func memoryFromResult(r *benchmark.Result) MemoryBaseline {
	if r.Memory == nil {
		return MemoryBaseline{}
	}
	return MemoryBaseline{
		AllocsPerOp:   r.Memory.AllocsPerOp,
		HeapDeltaByte: r.Memory.HeapAllocDelta,
	}
}

// -----------------------------------------------------------------------------
// Memory Baseline Store
// -----------------------------------------------------------------------------

// MemoryBaselineStore stores baselines in memory.
//
// Description:
//
//	Useful for tests and single-invocation comparisons. Data is lost
//	when the process exits.
//
// Thread Safety: safe for concurrent use.
type MemoryBaselineStore struct {
	mu   sync.RWMutex
	data map[string]*BaselineData
}

// NewMemoryBaseline creates a new memory-backed baseline store.
func NewMemoryBaseline() *MemoryBaselineStore {
	return &MemoryBaselineStore{
		data: make(map[string]*BaselineData),
	}
}

// Get implements Baseline.
func (m *MemoryBaselineStore) Get(_ context.Context, name string) (*BaselineData, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.data[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrBaselineNotFound, name)
	}

	// Return a copy to prevent mutation.
	return copyBaseline(data), nil
}

// Set implements Baseline.
func (m *MemoryBaselineStore) Set(_ context.Context, name string, data *BaselineData) error {
	if data == nil {
		return fmt.Errorf("%w: nil data", ErrInvalidBaseline)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	stored := copyBaseline(data)
	stored.Name = name
	stored.UpdatedAt = time.Now()
	if prev, ok := m.data[name]; ok {
		stored.CreatedAt = prev.CreatedAt
	} else if stored.CreatedAt.IsZero() {
		stored.CreatedAt = stored.UpdatedAt
	}
	m.data[name] = stored
	return nil
}

// List implements Baseline.
func (m *MemoryBaselineStore) List(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.data))
	for name := range m.data {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Delete implements Baseline.
func (m *MemoryBaselineStore) Delete(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.data[name]; !ok {
		return fmt.Errorf("%w: %s", ErrBaselineNotFound, name)
	}
	delete(m.data, name)
	return nil
}

func copyBaseline(data *BaselineData) *BaselineData {
	out := *data
	out.Capabilities = append([]string(nil), data.Capabilities...)
	out.Candidates = make(map[string]CandidateBaseline, len(data.Candidates))
	for k, v := range data.Candidates {
		out.Candidates[k] = v
	}
	return &out
}

// -----------------------------------------------------------------------------
// File Baseline Store
// -----------------------------------------------------------------------------

// FileBaselineStore stores baselines in JSON files.
//
// Description:
//
//	Each baseline gets its own file: {dir}/{name}.json. Names must be
//	usable as file stems; anything containing a path separator is
//	rejected so a crafted name cannot escape the directory.
//
// Thread Safety: safe for concurrent use within one process.
type FileBaselineStore struct {
	dir string
	mu  sync.RWMutex
}

// NewFileBaseline creates a file-backed baseline store.
//
// Inputs:
//   - dir: directory for baseline files, created if missing.
func NewFileBaseline(dir string) (*FileBaselineStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileBaselineStore{dir: dir}, nil
}

// Get implements Baseline.
func (f *FileBaselineStore) Get(_ context.Context, name string) (*BaselineData, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	raw, err := os.ReadFile(f.filePath(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrBaselineNotFound, name)
		}
		return nil, err
	}

	var data BaselineData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidBaseline, name, err)
	}
	return &data, nil
}

// Set implements Baseline.
func (f *FileBaselineStore) Set(_ context.Context, name string, data *BaselineData) error {
	if err := validateName(name); err != nil {
		return err
	}
	if data == nil {
		return fmt.Errorf("%w: nil data", ErrInvalidBaseline)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	stored := copyBaseline(data)
	stored.Name = name
	stored.UpdatedAt = time.Now()
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = stored.UpdatedAt
	}

	raw, err := json.MarshalIndent(stored, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(f.filePath(name), raw, 0o644)
}

// List implements Baseline.
func (f *FileBaselineStore) List(_ context.Context) ([]string, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if filepath.Ext(name) == ".json" {
			names = append(names, strings.TrimSuffix(name, ".json"))
		}
	}
	return names, nil
}

// Delete implements Baseline.
func (f *FileBaselineStore) Delete(_ context.Context, name string) error {
	if err := validateName(name); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	path := f.filePath(name)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("%w: %s", ErrBaselineNotFound, name)
	}
	return os.Remove(path)
}

func (f *FileBaselineStore) filePath(name string) string {
	return filepath.Join(f.dir, name+".json")
}

func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty", ErrInvalidName)
	}
	if strings.ContainsAny(name, `/\`) || name != filepath.Base(name) {
		return fmt.Errorf("%w: %s", ErrInvalidName, name)
	}
	return nil
}
