// Package metrics computes curriculum analytics over a degree plan's
// requisite graph: blocking factor, delay factor, composite complexity,
// and path centrality.
//
// All functions are pure with respect to their inputs and total over
// well-formed DAG input: every course in the plan appears as a key in
// every returned mapping, defaulting to 0 where no path or weight
// applies. Behavior is unspecified if the plan's edges contain a cycle;
// callers that cannot trust their input should run Plan.Validate first.
package metrics

import (
	"github.com/coursegraph/coursegraph/pkg/plan"
	"github.com/coursegraph/coursegraph/pkg/term"
)

// Weight maps a course to a scalar used by the weighted blocking factor.
// A nil Weight counts every course as 1 (plain count of blocked courses).
// Callers typically derive weights from external statistics, e.g.
// 1 + failure rate.
type Weight func(plan.CourseID) float64

// Path is an ordered root-to-leaf sequence of courses along forwards edges.
type Path []plan.CourseID

// Contains reports whether the path includes the given course.
func (p Path) Contains(id plan.CourseID) bool {
	for _, c := range p {
		if c == id {
			return true
		}
	}
	return false
}

// BlockingFactor sums weight(c) over every course c reachable from id by
// following forwards (dependent) edges one or more times. Diamond
// dependencies are counted once: reachability is deduplicated with a
// visited set. The course itself is excluded.
func BlockingFactor(p *plan.Plan, id plan.CourseID, weight Weight) float64 {
	visited := map[plan.CourseID]bool{id: true}
	var sum float64

	var dfs func(plan.CourseID)
	dfs = func(cur plan.CourseID) {
		for _, next := range p.Forwards(cur) {
			if visited[next] {
				continue
			}
			visited[next] = true
			if weight == nil {
				sum++
			} else {
				sum += weight(next)
			}
			dfs(next)
		}
	}
	dfs(id)
	return sum
}

// BlockingFactors computes the blocking factor of every course in the plan.
// Leaf courses map to 0.
func BlockingFactors(p *plan.Plan, weight Weight) map[plan.CourseID]float64 {
	out := make(map[plan.CourseID]float64, p.CourseCount())
	for _, id := range p.CourseIDs() {
		out[id] = BlockingFactor(p, id, weight)
	}
	return out
}

// AllPaths enumerates every maximal path from a root (no backwards edges)
// to a leaf (no forwards edges), traversing forwards edges. An isolated
// course is both root and leaf and yields the singleton path containing
// only itself.
//
// Maximal-suffix path sets are memoized per course, so shared sub-DAGs are
// expanded once. The result is still exponential in the worst case for
// dense DAGs; term-sized plans (tens of courses) are the intended
// operating range, larger inputs are a documented scale limit.
func AllPaths(p *plan.Plan) []Path {
	suffixes := make(map[plan.CourseID][]Path, p.CourseCount())

	var suffix func(plan.CourseID) []Path
	suffix = func(id plan.CourseID) []Path {
		if cached, ok := suffixes[id]; ok {
			return cached
		}
		next := p.Forwards(id)
		var paths []Path
		if len(next) == 0 {
			paths = []Path{{id}}
		} else {
			for _, n := range next {
				for _, tail := range suffix(n) {
					path := make(Path, 0, len(tail)+1)
					path = append(path, id)
					path = append(path, tail...)
					paths = append(paths, path)
				}
			}
		}
		suffixes[id] = paths
		return paths
	}

	var all []Path
	for _, root := range p.Roots() {
		all = append(all, suffix(root)...)
	}
	return all
}

// DelayFactors computes, for each course, the length (course count) of the
// longest enumerated path measured from the course forward: the course
// itself plus everything it transitively delays. A course that heads a
// path gets the full path length; a leaf gets 1. Every course in the plan
// appears in the result, defaulting to 1.
func DelayFactors(p *plan.Plan, paths []Path) map[plan.CourseID]float64 {
	out := make(map[plan.CourseID]float64, p.CourseCount())
	for _, id := range p.CourseIDs() {
		out[id] = 1
	}
	for _, path := range paths {
		for i, id := range path {
			if remaining := float64(len(path) - i); remaining > out[id] {
				out[id] = remaining
			}
		}
	}
	return out
}

// Complexities combines blocking and delay factors into the composite
// complexity: blocking + delay per course. The system parameter is a
// pass-through classification for downstream display policies (semester
// vs. quarter calendars); no numeric conversion is applied here - scaling
// by failure-rate-derived factors is a caller concern.
func Complexities(blocking, delay map[plan.CourseID]float64, _ term.System) map[plan.CourseID]float64 {
	out := make(map[plan.CourseID]float64, len(blocking))
	for id, bf := range blocking {
		out[id] = bf + delay[id]
	}
	return out
}

// Centralities measures each course's aggregate prominence across the
// enumerated paths: the sum of the lengths of all paths through the
// course, net of the course's own blocking and delay contributions,
// floored at 0. The blocking and delay maps must be the unweighted ones
// for the formula to balance.
func Centralities(p *plan.Plan, paths []Path, blocking, delay map[plan.CourseID]float64) map[plan.CourseID]float64 {
	out := make(map[plan.CourseID]float64, p.CourseCount())
	for _, id := range p.CourseIDs() {
		var total float64
		for _, path := range paths {
			if path.Contains(id) {
				total += float64(len(path))
			}
		}
		c := total - blocking[id] - delay[id]
		if c < 0 {
			c = 0
		}
		out[id] = c
	}
	return out
}

// Report bundles a full metrics pass over one plan.
type Report struct {
	// Blocking holds per-course blocking factors under the weight the
	// report was computed with (plain counts when the weight was nil).
	Blocking map[plan.CourseID]float64
	// Delay holds per-course delay factors (forward longest-path lengths).
	Delay map[plan.CourseID]float64
	// Complexity is Blocking + Delay per course.
	Complexity map[plan.CourseID]float64
	// Centrality is the path-prominence measure, always computed from
	// unweighted blocking factors.
	Centrality map[plan.CourseID]float64
	// Paths is the enumerated set of maximal root-to-leaf paths.
	Paths []Path
}

// Compute runs the full metrics pass: paths, blocking, delay, complexity,
// and centrality. The weight applies to blocking (and therefore to
// complexity); centrality always uses plain counts.
func Compute(p *plan.Plan, weight Weight, system term.System) Report {
	paths := AllPaths(p)
	blocking := BlockingFactors(p, weight)
	delay := DelayFactors(p, paths)

	counts := blocking
	if weight != nil {
		counts = BlockingFactors(p, nil)
	}

	return Report{
		Blocking:   blocking,
		Delay:      delay,
		Complexity: Complexities(blocking, delay, system),
		Centrality: Centralities(p, paths, counts, delay),
		Paths:      paths,
	}
}
