package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/coursegraph/coursegraph/pkg/metrics"
	"github.com/coursegraph/coursegraph/pkg/plan"
)

// Graph is the JSON shape handed to external renderers: every course with
// its computed metric fields, and every edge with its classification
// flags. Renderers map these numbers into visual attributes; nothing here
// prescribes styling.
type Graph struct {
	Nodes []Node     `json:"nodes"`
	Edges []EdgeView `json:"edges"`
}

// Node is one course with its computed metrics.
type Node struct {
	ID         plan.CourseID `json:"id"`
	Name       string        `json:"name"`
	Year       int           `json:"year"`
	Quarter    int           `json:"quarter"`
	Credits    float64       `json:"credits"`
	Blocking   float64       `json:"blocking"`
	Delay      float64       `json:"delay"`
	Complexity float64       `json:"complexity"`
	Centrality float64       `json:"centrality"`
}

// EdgeView is one requisite edge with its classification flags.
type EdgeView struct {
	Source    plan.CourseID `json:"source"`
	Target    plan.CourseID `json:"target"`
	Type      string        `json:"type"`
	Direct    bool          `json:"direct"`
	Redundant bool          `json:"redundant"`
}

// BuildGraph assembles the renderer-facing view of a resolved plan.
func BuildGraph(p *plan.Plan, report metrics.Report) Graph {
	g := Graph{
		Nodes: make([]Node, 0, p.CourseCount()),
		Edges: make([]EdgeView, 0, p.EdgeCount()),
	}
	for _, c := range p.Courses() {
		g.Nodes = append(g.Nodes, Node{
			ID:         c.ID,
			Name:       c.Name,
			Year:       c.Year,
			Quarter:    c.Quarter,
			Credits:    c.Credits,
			Blocking:   report.Blocking[c.ID],
			Delay:      report.Delay[c.ID],
			Complexity: report.Complexity[c.ID],
			Centrality: report.Centrality[c.ID],
		})
	}
	for _, e := range p.Edges() {
		g.Edges = append(g.Edges, EdgeView{
			Source:    e.Source,
			Target:    e.Target,
			Type:      e.Type.String(),
			Direct:    e.Direct,
			Redundant: e.Redundant,
		})
	}
	return g
}

// WriteGraphJSON writes the renderer-facing graph as indented JSON.
func WriteGraphJSON(p *plan.Plan, report metrics.Report, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(BuildGraph(p, report)); err != nil {
		return fmt.Errorf("encode graph: %w", err)
	}
	return nil
}
