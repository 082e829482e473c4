// Package plan provides the typed graph model for a multi-term degree plan:
// courses, term ordering, and the requisite edges connecting them.
//
// Courses live in an arena addressed by integer [CourseID], and the
// requisite relations are stored as index lists on the side (forwards and
// backwards adjacency maps) rather than as embedded object references.
// This keeps the structure free of reference cycles, so it can be rebuilt
// wholesale, serialized, and cloned without bookkeeping.
//
// The backwards and forwards relations are inverses of each other and stay
// mutually consistent by construction: a single [Plan.AddEdge] call updates
// both sides, and [Plan.Validate] checks the invariant.
package plan

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrInvalidCourse is returned by [Plan.AddCourse] when the course name
	// is empty or credits are negative.
	ErrInvalidCourse = errors.New("course must have a name and non-negative credits")

	// ErrDuplicateCourseID is returned by [Plan.AddCourse] when a course
	// with the same ID already exists. Course IDs are unique within a plan.
	ErrDuplicateCourseID = errors.New("duplicate course ID")

	// ErrUnknownTerm is returned by [Plan.AddCourse] when the term index is
	// out of range for the plan.
	ErrUnknownTerm = errors.New("unknown term index")

	// ErrUnknownCourse is returned when an operation references a course ID
	// that does not exist in the plan.
	ErrUnknownCourse = errors.New("unknown course")

	// ErrInvalidEdgeEndpoint is returned by [Plan.Validate] when an edge
	// references a course that doesn't exist. This indicates corruption.
	ErrInvalidEdgeEndpoint = errors.New("invalid edge endpoint")

	// ErrInconsistentAdjacency is returned by [Plan.Validate] when the
	// backwards and forwards relations disagree with the edge set.
	ErrInconsistentAdjacency = errors.New("backwards/forwards adjacency out of sync")

	// ErrPlanHasCycle is returned by [Plan.Validate] when the requisite
	// edges contain a directed cycle. The resolver and metrics assume a DAG
	// and never call this check themselves; callers that cannot trust their
	// input should validate before resolving.
	ErrPlanHasCycle = errors.New("requisite edges contain a cycle")
)

// CourseID addresses a course within one plan's arena.
// IDs are assigned by [Plan.AddCourse] and are never reused.
type CourseID int

// Course is a single planned course. Name is the free-text course code
// used as the join key against per-term requisite tables and external
// statistics; Year and Quarter place the course within the plan's term
// grid (both 0-indexed); Credits is a non-negative unit weight.
type Course struct {
	ID      CourseID `json:"id"`
	Name    string   `json:"name"`
	Year    int      `json:"year"`
	Quarter int      `json:"quarter"`
	Credits float64  `json:"credits"`
}

// EdgeType classifies a requisite edge.
type EdgeType int

const (
	// Prerequisite means the source must be completed before the target.
	Prerequisite EdgeType = iota
	// Corequisite means the source may be taken concurrently with the target.
	Corequisite
	// StrictCorequisite means the source must be taken concurrently with the target.
	StrictCorequisite
)

var edgeTypeNames = map[EdgeType]string{
	Prerequisite:      "prerequisite",
	Corequisite:       "corequisite",
	StrictCorequisite: "strict-corequisite",
}

// String returns the canonical lowercase name of the edge type.
func (t EdgeType) String() string {
	if s, ok := edgeTypeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("EdgeType(%d)", int(t))
}

// ParseEdgeType converts a type tag from source data into an EdgeType.
// Unrecognized or empty tags default to Prerequisite.
func ParseEdgeType(tag string) EdgeType {
	switch tag {
	case "corequisite", "coreq":
		return Corequisite
	case "strict-corequisite", "strict_coreq":
		return StrictCorequisite
	default:
		return Prerequisite
	}
}

// Edge is a directed requisite relation: the source course is required by
// the target course. Direct marks an immediate, minimal requirement (vs.
// one only reachable through a non-chosen alternative); Redundant marks an
// edge whose requirement is already implied by another path of direct
// edges.
type Edge struct {
	Source    CourseID `json:"source"`
	Target    CourseID `json:"target"`
	Type      EdgeType `json:"type"`
	Direct    bool     `json:"direct"`
	Redundant bool     `json:"redundant"`
}

// Key returns the identifying (source, target) pair of the edge.
func (e Edge) Key() EdgeKey { return EdgeKey{Source: e.Source, Target: e.Target} }

// EdgeKey is the ordered (source, target) pair identifying an edge.
type EdgeKey struct {
	Source CourseID
	Target CourseID
}

// EdgeTypes maps edge identities to their requisite type. It is produced
// by a resolution pass alongside the rebuilt plan.
type EdgeTypes map[EdgeKey]EdgeType

// Plan is a term-ordered degree plan with requisite adjacency.
// Term order is significant (it defines academic progression) and is an
// input, not derived.
//
// The zero value is not usable - use [New] to create a plan.
// Plan is not safe for concurrent mutation without external synchronization;
// the resolver never mutates a plan it was handed, it returns a new one.
type Plan struct {
	courses   map[CourseID]*Course
	terms     [][]CourseID
	edges     []Edge
	forwards  map[CourseID][]CourseID // source -> courses that depend on it
	backwards map[CourseID][]CourseID // target -> its requisites
	nextID    CourseID
}

// New creates an empty plan with the given number of terms.
func New(termCount int) *Plan {
	if termCount < 0 {
		termCount = 0
	}
	return &Plan{
		courses:   make(map[CourseID]*Course),
		terms:     make([][]CourseID, termCount),
		forwards:  make(map[CourseID][]CourseID),
		backwards: make(map[CourseID][]CourseID),
		nextID:    1,
	}
}

// AddTerm appends an empty term and returns its index.
func (p *Plan) AddTerm() int {
	p.terms = append(p.terms, nil)
	return len(p.terms) - 1
}

// AddCourse places a course in the given term and returns its ID.
// If c.ID is zero, a fresh ID is assigned; otherwise the supplied ID is
// used and must be unique. The course's Year and Quarter are taken as
// given - the plan does not derive them from the term index.
func (p *Plan) AddCourse(termIdx int, c Course) (CourseID, error) {
	if c.Name == "" || c.Credits < 0 {
		return 0, ErrInvalidCourse
	}
	if termIdx < 0 || termIdx >= len(p.terms) {
		return 0, fmt.Errorf("%w: %d", ErrUnknownTerm, termIdx)
	}
	if c.ID == 0 {
		c.ID = p.nextID
	} else if _, exists := p.courses[c.ID]; exists {
		return 0, fmt.Errorf("%w: %d", ErrDuplicateCourseID, c.ID)
	}
	if c.ID >= p.nextID {
		p.nextID = c.ID + 1
	}
	course := c
	p.courses[course.ID] = &course
	p.terms[termIdx] = append(p.terms[termIdx], course.ID)
	return course.ID, nil
}

// RenameCourse changes a course's display name. The name is the join key
// against requisite tables, so callers should re-run resolution afterwards
// to rebuild the edges the old name produced.
func (p *Plan) RenameCourse(id CourseID, name string) error {
	if name == "" {
		return ErrInvalidCourse
	}
	c, ok := p.courses[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownCourse, id)
	}
	c.Name = name
	return nil
}

// AddEdge adds a requisite edge between two existing courses, updating
// both adjacency relations. Duplicate (source, target) pairs are rejected
// silently to keep the adjacency sets deduplicated.
func (p *Plan) AddEdge(e Edge) error {
	if _, ok := p.courses[e.Source]; !ok {
		return fmt.Errorf("%w: source %d", ErrUnknownCourse, e.Source)
	}
	if _, ok := p.courses[e.Target]; !ok {
		return fmt.Errorf("%w: target %d", ErrUnknownCourse, e.Target)
	}
	if slices.Contains(p.forwards[e.Source], e.Target) {
		return nil
	}
	p.edges = append(p.edges, e)
	p.forwards[e.Source] = append(p.forwards[e.Source], e.Target)
	p.backwards[e.Target] = append(p.backwards[e.Target], e.Source)
	return nil
}

// RemoveEdge removes the source→target edge if it exists.
// No error is returned if the edge does not exist.
func (p *Plan) RemoveEdge(source, target CourseID) {
	p.edges = slices.DeleteFunc(p.edges, func(e Edge) bool {
		return e.Source == source && e.Target == target
	})
	p.forwards[source] = slices.DeleteFunc(p.forwards[source], func(id CourseID) bool { return id == target })
	p.backwards[target] = slices.DeleteFunc(p.backwards[target], func(id CourseID) bool { return id == source })
}

// ClearEdges drops every edge and both adjacency relations.
// Resolution passes rebuild the edge set wholesale rather than patching it.
func (p *Plan) ClearEdges() {
	p.edges = nil
	p.forwards = make(map[CourseID][]CourseID)
	p.backwards = make(map[CourseID][]CourseID)
}

// Clone returns a deep copy of the plan. Mutating the copy (including its
// edges and adjacency) never affects the original.
func (p *Plan) Clone() *Plan {
	out := &Plan{
		courses:   make(map[CourseID]*Course, len(p.courses)),
		terms:     make([][]CourseID, len(p.terms)),
		edges:     slices.Clone(p.edges),
		forwards:  make(map[CourseID][]CourseID, len(p.forwards)),
		backwards: make(map[CourseID][]CourseID, len(p.backwards)),
		nextID:    p.nextID,
	}
	for id, c := range p.courses {
		course := *c
		out.courses[id] = &course
	}
	for i, t := range p.terms {
		out.terms[i] = slices.Clone(t)
	}
	for id, next := range p.forwards {
		out.forwards[id] = slices.Clone(next)
	}
	for id, prev := range p.backwards {
		out.backwards[id] = slices.Clone(prev)
	}
	return out
}

// Course returns the course with the given ID and true, or nil and false.
// The returned pointer refers to the plan's own course struct.
func (p *Plan) Course(id CourseID) (*Course, bool) {
	c, ok := p.courses[id]
	return c, ok
}

// CourseByName returns the first course in plan order whose name matches
// exactly. When multiple courses share a name, the first occurrence wins;
// this is the plan's documented collision policy.
func (p *Plan) CourseByName(name string) (CourseID, bool) {
	for _, term := range p.terms {
		for _, id := range term {
			if p.courses[id].Name == name {
				return id, true
			}
		}
	}
	return 0, false
}

// Courses returns all courses in plan order (term by term).
func (p *Plan) Courses() []*Course {
	out := make([]*Course, 0, len(p.courses))
	for _, term := range p.terms {
		for _, id := range term {
			out = append(out, p.courses[id])
		}
	}
	return out
}

// CourseIDs returns all course IDs in plan order.
func (p *Plan) CourseIDs() []CourseID {
	out := make([]CourseID, 0, len(p.courses))
	for _, term := range p.terms {
		out = append(out, term...)
	}
	return out
}

// Term returns the ordered course IDs of the given term, or nil if the
// index is out of range. The returned slice is a read-only view.
func (p *Plan) Term(i int) []CourseID {
	if i < 0 || i >= len(p.terms) {
		return nil
	}
	return p.terms[i]
}

// TermCount returns the number of terms in the plan.
func (p *Plan) TermCount() int { return len(p.terms) }

// CourseCount returns the number of courses in the plan.
func (p *Plan) CourseCount() int { return len(p.courses) }

// EdgeCount returns the number of requisite edges in the plan.
func (p *Plan) EdgeCount() int { return len(p.edges) }

// Edges returns a copy of all edges in insertion order.
func (p *Plan) Edges() []Edge { return slices.Clone(p.edges) }

// Edge returns the edge with the given key and true, or a zero Edge and false.
func (p *Plan) Edge(key EdgeKey) (Edge, bool) {
	for _, e := range p.edges {
		if e.Source == key.Source && e.Target == key.Target {
			return e, true
		}
	}
	return Edge{}, false
}

// Forwards returns the courses that depend on the given course.
// The returned slice is a read-only view into the adjacency relation.
func (p *Plan) Forwards(id CourseID) []CourseID { return p.forwards[id] }

// Backwards returns the requisites of the given course.
// The returned slice is a read-only view into the adjacency relation.
func (p *Plan) Backwards(id CourseID) []CourseID { return p.backwards[id] }

// Roots returns courses with no backwards edges, in plan order.
func (p *Plan) Roots() []CourseID {
	var roots []CourseID
	for _, id := range p.CourseIDs() {
		if len(p.backwards[id]) == 0 {
			roots = append(roots, id)
		}
	}
	return roots
}

// Leaves returns courses with no forwards edges, in plan order.
func (p *Plan) Leaves() []CourseID {
	var leaves []CourseID
	for _, id := range p.CourseIDs() {
		if len(p.forwards[id]) == 0 {
			leaves = append(leaves, id)
		}
	}
	return leaves
}

// Validate checks graph integrity and returns nil if valid.
// It verifies three invariants:
//
//  1. Every edge connects courses that exist in the arena
//  2. The backwards/forwards relations mirror the edge set exactly
//  3. The requisite edges are acyclic
//
// Cycle detection runs in O(V+E) using depth-first search with
// white/gray/black coloring.
func (p *Plan) Validate() error {
	for _, e := range p.edges {
		if _, ok := p.courses[e.Source]; !ok {
			return fmt.Errorf("%w: %d -> %d", ErrInvalidEdgeEndpoint, e.Source, e.Target)
		}
		if _, ok := p.courses[e.Target]; !ok {
			return fmt.Errorf("%w: %d -> %d", ErrInvalidEdgeEndpoint, e.Source, e.Target)
		}
		if !slices.Contains(p.forwards[e.Source], e.Target) ||
			!slices.Contains(p.backwards[e.Target], e.Source) {
			return fmt.Errorf("%w: %d -> %d", ErrInconsistentAdjacency, e.Source, e.Target)
		}
	}
	return p.detectCycles()
}

func (p *Plan) detectCycles() error {
	const (
		white = iota
		gray
		black
	)

	color := make(map[CourseID]int, len(p.courses))
	var hasCycle bool

	var dfs func(id CourseID)
	dfs = func(id CourseID) {
		color[id] = gray
		for _, next := range p.forwards[id] {
			switch color[next] {
			case white:
				dfs(next)
			case gray:
				hasCycle = true
				return
			}
		}
		color[id] = black
	}

	for id := range p.courses {
		if color[id] == white {
			dfs(id)
			if hasCycle {
				return ErrPlanHasCycle
			}
		}
	}
	return nil
}
