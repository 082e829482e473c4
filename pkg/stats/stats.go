// Package stats consumes externally computed course statistics and turns
// them into metric weights. The statistics themselves (failure rates,
// equity gaps, waitlist lengths) are produced elsewhere; this package
// only fetches and applies them. A course with no known statistics is
// "unknown", never an error, and contributes the neutral weight 1.
package stats

import (
	"context"

	"github.com/coursegraph/coursegraph/pkg/metrics"
	"github.com/coursegraph/coursegraph/pkg/plan"
)

// CourseStats holds the externally supplied statistics for one course.
// Pointer fields are nil when the value is unknown.
type CourseStats struct {
	// FailRate is the fraction of enrollments that did not pass, in [0, 1].
	FailRate *float64 `json:"fail_rate"`
	// FailRateDept is true when FailRate is a department-level rate
	// rather than a course-specific one.
	FailRateDept bool `json:"fail_rate_dept"`
	// EquityGaps lists category codes with a documented outcome gap.
	EquityGaps []string `json:"equity_gaps"`
	// EquityGapsDept is true when EquityGaps is department-level data.
	EquityGapsDept bool `json:"equity_gaps_dept"`
	// TermsOffered lists season codes the course is usually offered in,
	// or nil when unknown.
	TermsOffered []string `json:"terms_offered"`
	// AvgWaitlist is the average waitlist length, or nil when unknown.
	AvgWaitlist *float64 `json:"avg_waitlist"`
}

// Provider looks up statistics by course name. The second result is false
// when the provider has no data for the course; that is an expected
// outcome, not an error.
type Provider interface {
	Course(ctx context.Context, name string) (CourseStats, bool, error)
}

// Weights builds the per-course weight map for weighted blocking factor
// and complexity: 1 + failure rate, with unknown courses and unknown
// rates weighing 1.
func Weights(ctx context.Context, p *plan.Plan, provider Provider) (map[plan.CourseID]float64, error) {
	out := make(map[plan.CourseID]float64, p.CourseCount())
	for _, c := range p.Courses() {
		out[c.ID] = 1
		s, ok, err := provider.Course(ctx, c.Name)
		if err != nil {
			return nil, err
		}
		if ok && s.FailRate != nil {
			out[c.ID] = 1 + *s.FailRate
		}
	}
	return out, nil
}

// WeightFunc adapts a weight map into the metrics engine's weight
// callback. IDs absent from the map weigh 1.
func WeightFunc(weights map[plan.CourseID]float64) metrics.Weight {
	return func(id plan.CourseID) float64 {
		if w, ok := weights[id]; ok {
			return w
		}
		return 1
	}
}
