package requisite

import (
	"context"
	"errors"
	"testing"

	cgerrors "github.com/coursegraph/coursegraph/pkg/errors"
	"github.com/coursegraph/coursegraph/pkg/plan"
	"github.com/coursegraph/coursegraph/pkg/term"
)

// fakeData serves canned tables keyed by term key and can simulate
// missing terms and fetch failures.
type fakeData struct {
	tables  map[string]Table
	missing map[string]bool
	err     error
	calls   []string
}

func (f *fakeData) EnsureTerm(_ context.Context, t term.Term) (Table, bool, error) {
	f.calls = append(f.calls, t.String())
	if f.err != nil {
		return nil, false, f.err
	}
	if f.missing[t.String()] {
		return nil, false, nil
	}
	tbl, ok := f.tables[t.String()]
	if !ok {
		return nil, false, nil
	}
	return tbl, true, nil
}

// testBounds keeps every nominal term pinned to a single key so tests can
// serve one table for the whole plan.
func testBounds(key string) term.Bounds {
	t, err := term.Parse(key)
	if err != nil {
		panic(err)
	}
	return term.Bounds{Earliest: t, Latest: t}
}

// buildPlan lays out one course name list per term, with Year and Quarter
// derived from the term index under the semester calendar.
func buildPlan(t *testing.T, termNames ...[]string) (*plan.Plan, map[string]plan.CourseID) {
	t.Helper()
	p := plan.New(len(termNames))
	ids := make(map[string]plan.CourseID)
	for i, names := range termNames {
		for _, name := range names {
			id, err := p.AddCourse(i, plan.Course{
				Name:    name,
				Year:    i / 2,
				Quarter: i % 2,
				Credits: 4,
			})
			if err != nil {
				t.Fatalf("AddCourse(%q): %v", name, err)
			}
			if _, dup := ids[name]; !dup {
				ids[name] = id
			}
		}
	}
	return p, ids
}

func resolve(t *testing.T, p *plan.Plan, data TermData, bounds term.Bounds) (*plan.Plan, plan.EdgeTypes) {
	t.Helper()
	r := New(data, Options{})
	resolved, types, err := r.Resolve(context.Background(), p, 2020, term.Semester, bounds)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	return resolved, types
}

func TestResolveDirectEdges(t *testing.T) {
	p, ids := buildPlan(t, []string{"MATH 1"}, []string{"MATH 2"})
	data := &fakeData{tables: map[string]Table{
		"FA20": {"MATH 2": {{"MATH 1"}}},
	}}

	resolved, types := resolve(t, p, data, testBounds("FA20"))

	if got := resolved.EdgeCount(); got != 1 {
		t.Fatalf("EdgeCount = %d, want 1", got)
	}
	key := plan.EdgeKey{Source: ids["MATH 1"], Target: ids["MATH 2"]}
	e, ok := resolved.Edge(key)
	if !ok {
		t.Fatalf("edge %v missing", key)
	}
	if !e.Direct || e.Redundant {
		t.Errorf("edge = %+v, want direct and not redundant", e)
	}
	if types[key] != plan.Prerequisite {
		t.Errorf("type = %v, want prerequisite", types[key])
	}
}

func TestResolveAlternatives(t *testing.T) {
	tests := []struct {
		name     string
		expr     Expression
		direct   []string
		indirect []string
	}{
		{
			name:     "first fully matching alternative is chosen",
			expr:     Expression{{"MATH 1", "PHYS 1"}, {"CHEM 1"}},
			direct:   []string{"MATH 1", "PHYS 1"},
			indirect: []string{"CHEM 1"},
		},
		{
			name:     "partial alternatives fall back to first with any match",
			expr:     Expression{{"MATH 1", "GHOST 9"}, {"CHEM 1", "PHANTOM 9"}},
			direct:   []string{"MATH 1"},
			indirect: []string{"CHEM 1"},
		},
		{
			name:     "later full alternative beats earlier partial one",
			expr:     Expression{{"MATH 1", "GHOST 9"}, {"CHEM 1"}},
			direct:   []string{"CHEM 1"},
			indirect: []string{"MATH 1"},
		},
		{
			name:   "unresolvable members produce no edges",
			expr:   Expression{{"GHOST 9"}},
			direct: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, ids := buildPlan(t,
				[]string{"MATH 1", "PHYS 1", "CHEM 1"},
				[]string{"TARGET 10"})
			data := &fakeData{tables: map[string]Table{
				"FA20": {"TARGET 10": tt.expr},
			}}

			resolved, _ := resolve(t, p, data, testBounds("FA20"))

			target := ids["TARGET 10"]
			for _, name := range tt.direct {
				e, ok := resolved.Edge(plan.EdgeKey{Source: ids[name], Target: target})
				if !ok || !e.Direct {
					t.Errorf("edge %s -> TARGET 10: got %+v ok=%v, want direct", name, e, ok)
				}
			}
			for _, name := range tt.indirect {
				e, ok := resolved.Edge(plan.EdgeKey{Source: ids[name], Target: target})
				if !ok || e.Direct {
					t.Errorf("edge %s -> TARGET 10: got %+v ok=%v, want indirect", name, e, ok)
				}
			}
			want := len(tt.direct) + len(tt.indirect)
			if got := resolved.EdgeCount(); got != want {
				t.Errorf("EdgeCount = %d, want %d", got, want)
			}
		})
	}
}

func TestResolveRedundantEdge(t *testing.T) {
	// C requires A, B requires both A and C. The A -> B requirement is
	// already implied by A -> C -> B, so it is flagged redundant.
	p, ids := buildPlan(t, []string{"A"}, []string{"C"}, []string{"B"})
	data := &fakeData{tables: map[string]Table{
		"FA20": {
			"C": {{"A"}},
			"B": {{"A", "C"}},
		},
	}}

	resolved, _ := resolve(t, p, data, testBounds("FA20"))

	check := func(from, to string, wantRedundant bool) {
		t.Helper()
		e, ok := resolved.Edge(plan.EdgeKey{Source: ids[from], Target: ids[to]})
		if !ok {
			t.Fatalf("edge %s -> %s missing", from, to)
		}
		if e.Redundant != wantRedundant {
			t.Errorf("edge %s -> %s redundant = %v, want %v", from, to, e.Redundant, wantRedundant)
		}
	}
	check("A", "C", false)
	check("C", "B", false)
	check("A", "B", true)
}

func TestResolveIdempotent(t *testing.T) {
	p, _ := buildPlan(t, []string{"A"}, []string{"C"}, []string{"B"})
	data := &fakeData{tables: map[string]Table{
		"FA20": {
			"C": {{"A"}},
			"B": {{"A", "C"}, {"X 1"}},
		},
	}}
	bounds := testBounds("FA20")

	once, onceTypes := resolve(t, p, data, bounds)
	twice, twiceTypes := resolve(t, once, data, bounds)

	onceEdges := once.Edges()
	twiceEdges := twice.Edges()
	if len(onceEdges) != len(twiceEdges) {
		t.Fatalf("edge counts differ: %d vs %d", len(onceEdges), len(twiceEdges))
	}
	for i := range onceEdges {
		if onceEdges[i] != twiceEdges[i] {
			t.Errorf("edge %d differs: %+v vs %+v", i, onceEdges[i], twiceEdges[i])
		}
	}
	if len(onceTypes) != len(twiceTypes) {
		t.Errorf("type map sizes differ: %d vs %d", len(onceTypes), len(twiceTypes))
	}
}

func TestResolveInputPlanUntouched(t *testing.T) {
	p, ids := buildPlan(t, []string{"A"}, []string{"B"})
	if err := p.AddEdge(plan.Edge{Source: ids["B"], Target: ids["A"]}); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}
	data := &fakeData{tables: map[string]Table{
		"FA20": {"B": {{"A"}}},
	}}

	resolved, _ := resolve(t, p, data, testBounds("FA20"))

	if got := p.EdgeCount(); got != 1 {
		t.Errorf("input plan EdgeCount = %d, want 1", got)
	}
	if _, ok := p.Edge(plan.EdgeKey{Source: ids["B"], Target: ids["A"]}); !ok {
		t.Error("input plan lost its original edge")
	}
	if _, ok := resolved.Edge(plan.EdgeKey{Source: ids["B"], Target: ids["A"]}); ok {
		t.Error("stale pre-resolution edge survived into the resolved plan")
	}
}

func TestResolveMissingTermIsNotAnError(t *testing.T) {
	p, _ := buildPlan(t, []string{"A"}, []string{"B"})
	data := &fakeData{missing: map[string]bool{"FA20": true}}

	resolved, types := resolve(t, p, data, testBounds("FA20"))

	if got := resolved.EdgeCount(); got != 0 {
		t.Errorf("EdgeCount = %d, want 0", got)
	}
	if len(types) != 0 {
		t.Errorf("types = %v, want empty", types)
	}
}

func TestResolveFetchErrorFailsResolution(t *testing.T) {
	p, _ := buildPlan(t, []string{"A"}, []string{"B"})
	cause := errors.New("connection refused")
	data := &fakeData{err: cause}

	r := New(data, Options{})
	_, _, err := r.Resolve(context.Background(), p, 2020, term.Semester, testBounds("FA20"))
	if err == nil {
		t.Fatal("Resolve succeeded, want error")
	}
	if !cgerrors.Is(err, cgerrors.ErrCodeNetwork) {
		t.Errorf("error code = %v, want NETWORK_ERROR", cgerrors.GetCode(err))
	}
	if !errors.Is(err, cause) {
		t.Error("error chain lost the underlying cause")
	}
}

func TestResolveClampsToBounds(t *testing.T) {
	// Four semester terms span FA20..FA21, but data only exists for FA20.
	// Clamping pins every course to FA20, so one call suffices.
	p, ids := buildPlan(t, []string{"A"}, []string{"B"}, []string{"C"}, []string{"D"})
	data := &fakeData{tables: map[string]Table{
		"FA20": {"D": {{"C"}}},
	}}

	resolved, _ := resolve(t, p, data, testBounds("FA20"))

	if len(data.calls) != 1 || data.calls[0] != "FA20" {
		t.Errorf("calls = %v, want exactly [FA20]", data.calls)
	}
	if _, ok := resolved.Edge(plan.EdgeKey{Source: ids["C"], Target: ids["D"]}); !ok {
		t.Error("edge C -> D missing")
	}
}

func TestResolveCorequisiteTags(t *testing.T) {
	p, ids := buildPlan(t, []string{"CHEM 6A"}, []string{"CHEM 6B", "CHEM 7L"})
	data := &fakeData{tables: map[string]Table{
		"FA20": {
			"CHEM 6B": {{"CHEM 6A"}},
			"CHEM 7L": {{"coreq:CHEM 6B", "strict_coreq:CHEM 6A"}},
		},
	}}

	_, types := resolve(t, p, data, testBounds("FA20"))

	tests := []struct {
		from, to string
		want     plan.EdgeType
	}{
		{"CHEM 6A", "CHEM 6B", plan.Prerequisite},
		{"CHEM 6B", "CHEM 7L", plan.Corequisite},
		{"CHEM 6A", "CHEM 7L", plan.StrictCorequisite},
	}
	for _, tt := range tests {
		key := plan.EdgeKey{Source: ids[tt.from], Target: ids[tt.to]}
		if got, ok := types[key]; !ok || got != tt.want {
			t.Errorf("type(%s -> %s) = %v ok=%v, want %v", tt.from, tt.to, got, ok, tt.want)
		}
	}
}

func TestResolveIgnoresSelfReference(t *testing.T) {
	p, _ := buildPlan(t, []string{"A"}, []string{"B"})
	data := &fakeData{tables: map[string]Table{
		"FA20": {"B": {{"B", "A"}}},
	}}

	resolved, _ := resolve(t, p, data, testBounds("FA20"))

	if got := resolved.EdgeCount(); got != 1 {
		t.Errorf("EdgeCount = %d, want 1 (self-reference dropped)", got)
	}
}

func TestResolveDuplicateNamesUseFirstOccurrence(t *testing.T) {
	p, _ := buildPlan(t, []string{"MATH 1"}, []string{"MATH 1"}, []string{"PHYS 2"})
	data := &fakeData{tables: map[string]Table{
		"FA20": {"PHYS 2": {{"MATH 1"}}},
	}}

	resolved, _ := resolve(t, p, data, testBounds("FA20"))

	first := p.Term(0)[0]
	target := p.Term(2)[0]
	if _, ok := resolved.Edge(plan.EdgeKey{Source: first, Target: target}); !ok {
		t.Error("edge should come from the first plan-order occurrence of MATH 1")
	}
	if got := resolved.EdgeCount(); got != 1 {
		t.Errorf("EdgeCount = %d, want 1", got)
	}
}
