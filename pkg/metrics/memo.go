package metrics

import (
	"encoding/json"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/coursegraph/coursegraph/pkg/cache"
	"github.com/coursegraph/coursegraph/pkg/plan"
	"github.com/coursegraph/coursegraph/pkg/term"
)

// PlanHash returns a structural content hash of the plan: its courses in
// plan order and its edge set. Two plans with the same courses, term
// layout, and edges hash identically regardless of how they were built.
func PlanHash(p *plan.Plan) string {
	type hashCourse struct {
		ID      plan.CourseID `json:"id"`
		Name    string        `json:"name"`
		Year    int           `json:"year"`
		Quarter int           `json:"quarter"`
		Credits float64       `json:"credits"`
	}
	type hashable struct {
		Courses []hashCourse `json:"courses"`
		Edges   []plan.Edge  `json:"edges"`
	}

	h := hashable{Edges: p.Edges()}
	for _, c := range p.Courses() {
		h.Courses = append(h.Courses, hashCourse{c.ID, c.Name, c.Year, c.Quarter, c.Credits})
	}
	data, _ := json.Marshal(h)
	return cache.Hash(data)
}

// Memo is an LRU-backed memoization layer over [Compute], keyed by the
// structural hash of the plan plus the weight table and calendar system.
// The engine itself stays pure; Memo is the outer layer for callers that
// recompute metrics on every plan mutation.
//
// Memo is safe for concurrent use.
type Memo struct {
	entries *lru.Cache[string, Report]
}

// NewMemo creates a Memo holding up to size reports.
func NewMemo(size int) (*Memo, error) {
	entries, err := lru.New[string, Report](size)
	if err != nil {
		return nil, err
	}
	return &Memo{entries: entries}, nil
}

// Compute returns the metrics report for the plan, computing it at most
// once per (plan shape, weights, system) combination. The weights map may
// be nil for plain counts; entries default to 1 for courses absent from a
// non-nil map, so partial statistics coverage still weights known courses.
func (m *Memo) Compute(p *plan.Plan, weights map[plan.CourseID]float64, system term.System) Report {
	key := m.key(p, weights, system)
	if report, ok := m.entries.Get(key); ok {
		return report
	}

	var weight Weight
	if weights != nil {
		weight = func(id plan.CourseID) float64 {
			if w, ok := weights[id]; ok {
				return w
			}
			return 1
		}
	}
	report := Compute(p, weight, system)
	m.entries.Add(key, report)
	return report
}

// Len returns the number of memoized reports.
func (m *Memo) Len() int { return m.entries.Len() }

func (m *Memo) key(p *plan.Plan, weights map[plan.CourseID]float64, system term.System) string {
	type keyable struct {
		Plan    string                    `json:"plan"`
		Weights map[plan.CourseID]float64 `json:"weights,omitempty"`
		System  string                    `json:"system"`
	}
	data, _ := json.Marshal(keyable{Plan: PlanHash(p), Weights: weights, System: system.String()})
	return cache.Hash(data)
}
