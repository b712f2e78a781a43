package eval

import (
	"fmt"
	"reflect"
	"sync"
)

// Registry is an ordered, write-once collection of candidates sharing
// one operation signature.
//
// Description:
//
//	Insertion order is load-bearing: it is both the verification order
//	(baseline first) and the report order. Entry 0 is the trusted
//	baseline unless another entry is explicitly designated. Registries
//	are write-once, read-many: there is no removal, and Freeze makes
//	further registration an error. An empty registry is a valid, inert
//	state that the driver short-circuits on.
//
// Thread Safety: Registration is guarded by a mutex in case catalogs
// are assembled from init funcs; the read path after Freeze is
// lock-free by construction (no writers remain).
type Registry[O any] struct {
	mu       sync.RWMutex
	items    []Candidate[O]
	index    map[string]int
	baseline int
	frozen   bool
}

// NewRegistry creates a new empty registry for the given arity.
//
// Outputs:
//   - *Registry[O]: The new registry. Never nil.
//
// Example:
//
//	reg := eval.NewRegistry[eval.UnaryOp]()
//	reg.MustRegister("checksum/serial", serialChecksum, false)
func NewRegistry[O any]() *Registry[O] {
	return &Registry[O]{
		index: make(map[string]int),
	}
}

// Register appends a candidate to the registry.
//
// Description:
//
//	The name must be unique and non-empty; the operation must be
//	non-nil. Registration order determines verification and report
//	order, so baselines register first.
//
// Inputs:
//   - name: Stable identifier for verification and reporting.
//   - op: The operation under test. Must not be nil.
//   - needsVerification: Marks the candidate for pre-timing verification.
//
// Outputs:
//   - error: nil on success, ErrEmptyName, ErrNilCandidate,
//     ErrAlreadyRegistered, or ErrRegistryFrozen otherwise.
func (r *Registry[O]) Register(name string, op O, needsVerification bool) error {
	if name == "" {
		return ErrEmptyName
	}
	if v := reflect.ValueOf(op); v.Kind() == reflect.Func && v.IsNil() {
		return fmt.Errorf("%w: %s", ErrNilCandidate, name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return fmt.Errorf("%w: cannot register %s", ErrRegistryFrozen, name)
	}
	if _, exists := r.index[name]; exists {
		return fmt.Errorf("%w: %s", ErrAlreadyRegistered, name)
	}

	r.index[name] = len(r.items)
	r.items = append(r.items, Candidate[O]{
		Name:              name,
		Op:                op,
		NeedsVerification: needsVerification,
	})
	return nil
}

// MustRegister registers a candidate and panics on error.
//
// Description:
//
//	Convenience for static catalogs assembled at startup. Should not
//	be used after a run has begun.
func (r *Registry[O]) MustRegister(name string, op O, needsVerification bool) {
	if err := r.Register(name, op, needsVerification); err != nil {
		panic(fmt.Sprintf("eval: failed to register %s: %v", name, err))
	}
}

// SetBaseline designates a registered candidate as the trusted baseline.
//
// Description:
//
//	By default entry 0 is the baseline. An explicit designation is for
//	catalogs whose reference implementation is not registered first.
//
// Outputs:
//   - error: nil on success, ErrNotFound if the name is unknown,
//     ErrRegistryFrozen after Freeze.
func (r *Registry[O]) SetBaseline(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return fmt.Errorf("%w: cannot redesignate baseline", ErrRegistryFrozen)
	}
	i, exists := r.index[name]
	if !exists {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	r.baseline = i
	return nil
}

// Baseline returns the trusted baseline candidate.
//
// Outputs:
//   - Candidate[O]: The baseline entry.
//   - error: ErrNoBaseline if the registry is empty.
func (r *Registry[O]) Baseline() (Candidate[O], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.items) == 0 {
		return Candidate[O]{}, ErrNoBaseline
	}
	return r.items[r.baseline], nil
}

// BaselineIndex returns the index of the baseline entry (0 by default).
func (r *Registry[O]) BaselineIndex() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.baseline
}

// Get retrieves a candidate by name.
//
// Outputs:
//   - Candidate[O]: The candidate, zero-valued if not found.
//   - bool: true if found.
func (r *Registry[O]) Get(name string) (Candidate[O], bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, exists := r.index[name]
	if !exists {
		return Candidate[O]{}, false
	}
	return r.items[i], true
}

// At returns the candidate at position i in registration order.
func (r *Registry[O]) At(i int) Candidate[O] {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.items[i]
}

// Len returns the number of registered candidates.
func (r *Registry[O]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

// Names returns candidate names in registration order.
//
// Description:
//
//	The slice is a copy and deliberately NOT sorted: registration
//	order is the contract for verification and reporting.
func (r *Registry[O]) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.items))
	for i, c := range r.items {
		names[i] = c.Name
	}
	return names
}

// Candidates returns a copy of all entries in registration order.
func (r *Registry[O]) Candidates() []Candidate[O] {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Candidate[O], len(r.items))
	copy(out, r.items)
	return out
}

// Freeze makes the registry read-only.
//
// Description:
//
//	The driver freezes a registry before its first pass so a catalog
//	cannot drift between verification and timing. Freezing twice is a
//	no-op.
func (r *Registry[O]) Freeze() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frozen = true
}

// IsFrozen reports whether the registry has been frozen.
func (r *Registry[O]) IsFrozen() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.frozen
}
