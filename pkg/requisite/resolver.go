package requisite

import (
	"context"
	"io"
	"sort"

	"github.com/charmbracelet/log"

	cgerrors "github.com/coursegraph/coursegraph/pkg/errors"
	"github.com/coursegraph/coursegraph/pkg/plan"
	"github.com/coursegraph/coursegraph/pkg/term"
)

// TermData supplies requisite expression tables per academic term.
//
// EnsureTerm returns the table for t, fetching or loading it on demand.
// The second result is false when the source has no data for the term at
// all; that is not an error, and the resolver treats the term's courses as
// having no requisites. A non-nil error means the data could not be
// obtained and the resolution as a whole fails.
type TermData interface {
	EnsureTerm(ctx context.Context, t term.Term) (Table, bool, error)
}

// Options configures a Resolver.
type Options struct {
	// Logger receives per-term diagnostics. Defaults to a discarding logger.
	Logger *log.Logger
}

// Resolver rebuilds a plan's requisite edges from term data.
type Resolver struct {
	data   TermData
	logger *log.Logger
}

// New creates a Resolver backed by the given term data source.
func New(data TermData, opts Options) *Resolver {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Resolver{data: data, logger: logger}
}

// pendingEdge is an edge decided during classification, kept in discovery
// order so the rebuilt plan's edge list is deterministic.
type pendingEdge struct {
	key       plan.EdgeKey
	typ       plan.EdgeType
	direct    bool
	redundant bool
}

// Resolve returns a copy of p whose requisite edges are rebuilt from the
// term tables, together with the requisite type of every edge. The input
// plan is never mutated.
//
// Each course is assigned the nominal term implied by its plan position
// (via [term.ForCourse] relative to referenceYear), clamped into bounds.
// For each course with an expression in its term's table, the first
// alternative whose members all match plan courses is chosen and yields
// direct edges; if no alternative fully matches, the first with at least
// one match is chosen instead. Matching members of the remaining
// alternatives yield indirect edges. An edge is flagged redundant when its
// target is still reachable from its source through a longer path of
// direct edges.
//
// Resolving an already-resolved plan is a no-op: the edge set depends only
// on the course grid and the term tables, both of which resolution leaves
// untouched.
func (r *Resolver) Resolve(ctx context.Context, p *plan.Plan, referenceYear int, system term.System, bounds term.Bounds) (*plan.Plan, plan.EdgeTypes, error) {
	resolved := p.Clone()
	resolved.ClearEdges()

	courseTerms := make(map[plan.CourseID]term.Term, p.CourseCount())
	distinct := make(map[term.Term]struct{})
	for _, c := range p.Courses() {
		t := bounds.Clamp(term.ForCourse(referenceYear, c.Year, c.Quarter, system))
		courseTerms[c.ID] = t
		distinct[t] = struct{}{}
	}

	// Fetch every needed table up front, in chronological order so retries
	// and cache fills happen deterministically.
	needed := make([]term.Term, 0, len(distinct))
	for t := range distinct {
		needed = append(needed, t)
	}
	sort.Slice(needed, func(i, j int) bool { return needed[i].Before(needed[j]) })

	tables := make(map[term.Term]Table, len(needed))
	for _, t := range needed {
		tbl, ok, err := r.data.EnsureTerm(ctx, t)
		if err != nil {
			return nil, nil, cgerrors.Wrap(cgerrors.ErrCodeNetwork, err,
				"loading requisite data for term %s", t)
		}
		if !ok {
			r.logger.Warn("no requisite data for term, treating its courses as requisite-free", "term", t.String())
			continue
		}
		tables[t] = tbl
	}

	var pending []pendingEdge
	index := make(map[plan.EdgeKey]int)

	record := func(source, target plan.CourseID, typ plan.EdgeType, direct bool) {
		key := plan.EdgeKey{Source: source, Target: target}
		if i, ok := index[key]; ok {
			// A direct classification wins over an earlier indirect one.
			if direct && !pending[i].direct {
				pending[i].direct = true
			}
			return
		}
		index[key] = len(pending)
		pending = append(pending, pendingEdge{key: key, typ: typ, direct: direct})
	}

	// Walk courses in plan order so edge discovery order is stable.
	for i := 0; i < p.TermCount(); i++ {
		for _, target := range p.Term(i) {
			c, ok := p.Course(target)
			if !ok {
				continue
			}
			tbl, ok := tables[courseTerms[target]]
			if !ok {
				continue
			}
			expr, ok := tbl[c.Name]
			if !ok {
				continue
			}
			r.classify(resolved, target, expr, record)
		}
	}

	markRedundant(pending)

	types := make(plan.EdgeTypes, len(pending))
	for _, pe := range pending {
		err := resolved.AddEdge(plan.Edge{
			Source:    pe.key.Source,
			Target:    pe.key.Target,
			Type:      pe.typ,
			Direct:    pe.direct,
			Redundant: pe.redundant,
		})
		if err != nil {
			return nil, nil, cgerrors.Wrap(cgerrors.ErrCodeInvalidPlan, err,
				"adding resolved edge %d -> %d", pe.key.Source, pe.key.Target)
		}
		types[pe.key] = pe.typ
	}
	return resolved, types, nil
}

// classify picks the satisfied alternative of expr for the target course
// and records direct edges for its members and indirect edges for every
// other alternative's matching members. Members naming the target itself
// never produce an edge.
func (r *Resolver) classify(p *plan.Plan, target plan.CourseID, expr Expression, record func(source, target plan.CourseID, typ plan.EdgeType, direct bool)) {
	type resolvedMember struct {
		source plan.CourseID
		typ    plan.EdgeType
	}

	resolvedAlts := make([][]resolvedMember, len(expr))
	chosen := -1
	fallback := -1
	for i, alt := range expr {
		full := true
		for _, raw := range alt {
			name, typ := Member(raw)
			id, ok := p.CourseByName(name)
			if !ok || id == target {
				full = false
				continue
			}
			resolvedAlts[i] = append(resolvedAlts[i], resolvedMember{source: id, typ: typ})
		}
		if full && chosen < 0 {
			chosen = i
		}
		if len(resolvedAlts[i]) > 0 && fallback < 0 {
			fallback = i
		}
	}
	if chosen < 0 {
		chosen = fallback
	}
	if chosen < 0 {
		return
	}

	for _, m := range resolvedAlts[chosen] {
		record(m.source, target, m.typ, true)
	}
	for i, alt := range resolvedAlts {
		if i == chosen {
			continue
		}
		for _, m := range alt {
			record(m.source, target, m.typ, false)
		}
	}
}

// markRedundant flags every pending edge whose target can still be reached
// from its source through direct edges other than the edge itself.
func markRedundant(pending []pendingEdge) {
	forwards := make(map[plan.CourseID][]plan.CourseID)
	for _, pe := range pending {
		if pe.direct {
			forwards[pe.key.Source] = append(forwards[pe.key.Source], pe.key.Target)
		}
	}

	for i := range pending {
		pending[i].redundant = reachableAround(forwards, pending[i].key, pending[i].direct)
	}
}

// reachableAround reports whether key.Target is reachable from key.Source
// over the direct-edge adjacency without taking the single-hop edge
// Source -> Target itself (which only exists when the edge is direct).
func reachableAround(forwards map[plan.CourseID][]plan.CourseID, key plan.EdgeKey, skipHop bool) bool {
	visited := map[plan.CourseID]bool{key.Source: true}
	var stack []plan.CourseID

	skipped := !skipHop
	for _, next := range forwards[key.Source] {
		if next == key.Target && !skipped {
			skipped = true
			continue
		}
		if next == key.Target {
			return true
		}
		if !visited[next] {
			visited[next] = true
			stack = append(stack, next)
		}
	}

	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, next := range forwards[node] {
			if next == key.Target {
				return true
			}
			if !visited[next] {
				visited[next] = true
				stack = append(stack, next)
			}
		}
	}
	return false
}
