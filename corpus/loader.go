package corpus

import (
	"errors"
	"fmt"
	"os"
)

// ErrCorpusUnavailable indicates the dataset file could not be read.
var ErrCorpusUnavailable = errors.New("corpus unavailable")

// Load reads a dataset file into memory and returns a corpus over it.
//
// Description:
//
//	The whole file is held in one arena so every token view stays
//	valid for the lifetime of the corpus. Benchmark datasets are
//	single-digit megabytes to a few hundred, which is exactly what
//	the wrap-around sampler wants resident anyway.
//
// Inputs:
//   - path: Dataset file path.
//
// Outputs:
//   - *Corpus: The loaded corpus. Never nil on success.
//   - error: Wraps ErrCorpusUnavailable with the path and a fetch
//     hint when the file cannot be read.
func Load(path string) (*Corpus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s (fetch a dataset with scripts/fetch_dataset.sh): %v",
			ErrCorpusUnavailable, path, err)
	}
	return FromBytes(data), nil
}
