package ops

import (
	"errors"
	"fmt"

	"github.com/ashvardanian/SubstringSearchBenchmark/eval"
	"github.com/ashvardanian/SubstringSearchBenchmark/eval/benchmark"
)

// -----------------------------------------------------------------------------
// Family Catalog
// -----------------------------------------------------------------------------

// ErrUnknownFamily is returned when a family name is not in the catalog.
var ErrUnknownFamily = errors.New("unknown operation family")

// Kind is the arity of an operation family.
type Kind int

const (
	// KindUnary families apply one candidate call per token.
	KindUnary Kind = iota
	// KindBinary families apply one candidate call per adjacent token pair.
	KindBinary
)

// String returns the string representation of a Kind.
func (k Kind) String() string {
	switch k {
	case KindUnary:
		return "unary"
	case KindBinary:
		return "binary"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Family bundles one operation family's registry with the metadata the
// driver needs to run it: its arity and its byte accounting mode.
// Exactly one of Unary or Binary is populated, matching Kind.
type Family struct {
	Name   string
	Kind   Kind
	Mode   benchmark.BytesMode
	Unary  *eval.Registry[eval.UnaryOp]
	Binary *eval.Registry[eval.BinaryOp]
}

// Catalog returns all operation families in report order, each with a
// freshly built registry reflecting the detected CPU capabilities.
//
// Description:
//
//	Registries are rebuilt on every call because the driver freezes a
//	registry when it runs it. Callers that run the same family over
//	several corpus variants can reuse one Family value; freezing is
//	idempotent and registration order is stable across calls.
func Catalog() []Family {
	return []Family{
		{Name: "checksum", Kind: KindUnary, Mode: benchmark.BytesToken, Unary: Checksums()},
		{Name: "hash", Kind: KindUnary, Mode: benchmark.BytesToken, Unary: Hashes()},
		{Name: "equal", Kind: KindBinary, Mode: benchmark.BytesPair, Binary: Equalities()},
		{Name: "ifold", Kind: KindBinary, Mode: benchmark.BytesPair, Binary: Folds()},
		{Name: "order", Kind: KindBinary, Mode: benchmark.BytesPair, Binary: Orderings()},
		{Name: "deref", Kind: KindUnary, Mode: benchmark.BytesUnit, Unary: Derefs()},
	}
}

// FamilyNames returns the catalog's family names in report order.
func FamilyNames() []string {
	catalog := Catalog()
	names := make([]string, len(catalog))
	for i, f := range catalog {
		names[i] = f.Name
	}
	return names
}

// Select returns the named families in catalog order, or all of them
// when names is empty. Unknown names fail with ErrUnknownFamily.
func Select(names []string) ([]Family, error) {
	catalog := Catalog()
	if len(names) == 0 {
		return catalog, nil
	}

	wanted := make(map[string]bool, len(names))
	for _, name := range names {
		known := false
		for _, f := range catalog {
			if f.Name == name {
				known = true
				break
			}
		}
		if !known {
			return nil, fmt.Errorf("%w: %s", ErrUnknownFamily, name)
		}
		wanted[name] = true
	}

	selected := make([]Family, 0, len(wanted))
	for _, f := range catalog {
		if wanted[f.Name] {
			selected = append(selected, f)
		}
	}
	return selected, nil
}
