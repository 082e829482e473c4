// Package termdata loads per-term requisite expression tables from a
// remote source and caches them in memory with request deduplication.
//
// The [Source] interface abstracts where tables come from; [Client] is the
// HTTP implementation backed by the on-disk response cache. [Cache] sits
// in front of a Source and guarantees each term is fetched at most once,
// no matter how many goroutines ask for it concurrently.
package termdata

import (
	"context"
	"errors"
	"fmt"

	"github.com/coursegraph/coursegraph/pkg/requisite"
	"github.com/coursegraph/coursegraph/pkg/term"
)

// ErrNoData is returned by a Source when it has no requisite table for the
// requested term. This is an expected condition for terms outside the
// source's coverage, distinct from transport failures.
var ErrNoData = errors.New("no requisite data for term")

// Metadata describes the range of terms a source has data for.
type Metadata struct {
	MinTerm string `json:"min_prereq_term"`
	MaxTerm string `json:"max_prereq_term"`
}

// Bounds converts the metadata's term keys into a clampable range.
func (m Metadata) Bounds() (term.Bounds, error) {
	earliest, err := term.Parse(m.MinTerm)
	if err != nil {
		return term.Bounds{}, fmt.Errorf("min_prereq_term: %w", err)
	}
	latest, err := term.Parse(m.MaxTerm)
	if err != nil {
		return term.Bounds{}, fmt.Errorf("max_prereq_term: %w", err)
	}
	if latest.Before(earliest) {
		return term.Bounds{}, fmt.Errorf("%w: min_prereq_term %s after max_prereq_term %s",
			term.ErrInvalidTerm, m.MinTerm, m.MaxTerm)
	}
	return term.Bounds{Earliest: earliest, Latest: latest}, nil
}

// Source provides requisite tables and coverage metadata.
//
// Expressions returns [ErrNoData] when the source has nothing for the
// term; any other error indicates the data could not be obtained.
type Source interface {
	Expressions(ctx context.Context, t term.Term) (requisite.Table, error)
	Metadata(ctx context.Context) (Metadata, error)
}
