// Package export renders resolved plans for external consumption: Graphviz
// DOT and SVG for visual inspection, and a JSON graph carrying the computed
// per-course metrics for downstream renderers.
package export

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/coursegraph/coursegraph/pkg/metrics"
	"github.com/coursegraph/coursegraph/pkg/plan"
)

// Options configures DOT rendering.
type Options struct {
	// Detailed includes the computed metrics in node labels.
	// When false, only the course name is shown.
	Detailed bool

	// HideRedundant drops redundant edges instead of drawing them dotted.
	HideRedundant bool
}

// ToDOT converts a resolved plan to Graphviz DOT format. Courses of the
// same term share a rank, so the drawing follows the plan's term grid.
// Indirect edges are dashed, redundant edges dotted and grey, and
// corequisite edges drawn without an arrowhead.
func ToDOT(p *plan.Plan, report metrics.Report, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph plan {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=24, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, c := range p.Courses() {
		fmt.Fprintf(&buf, "  %q [label=%q];\n", nodeID(p, c.ID), fmtLabel(c, report, opts.Detailed))
	}

	buf.WriteString("\n")
	for i := 0; i < p.TermCount(); i++ {
		ids := p.Term(i)
		if len(ids) == 0 {
			continue
		}
		names := make([]string, len(ids))
		for j, id := range ids {
			names[j] = fmt.Sprintf("%q", nodeID(p, id))
		}
		fmt.Fprintf(&buf, "  { rank=same; %s }\n", strings.Join(names, "; "))
	}

	buf.WriteString("\n")
	for _, e := range p.Edges() {
		if e.Redundant && opts.HideRedundant {
			continue
		}
		attrs := edgeAttrs(e)
		if len(attrs) == 0 {
			fmt.Fprintf(&buf, "  %q -> %q;\n", nodeID(p, e.Source), nodeID(p, e.Target))
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", nodeID(p, e.Source), nodeID(p, e.Target), strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

// nodeID disambiguates courses that share a name by suffixing the course
// ID only when needed.
func nodeID(p *plan.Plan, id plan.CourseID) string {
	c, ok := p.Course(id)
	if !ok {
		return fmt.Sprintf("#%d", id)
	}
	if first, _ := p.CourseByName(c.Name); first != id {
		return fmt.Sprintf("%s #%d", c.Name, id)
	}
	return c.Name
}

func fmtLabel(c *plan.Course, report metrics.Report, detailed bool) string {
	if !detailed {
		return c.Name
	}
	parts := []string{
		fmt.Sprintf("bf: %g", report.Blocking[c.ID]),
		fmt.Sprintf("df: %g", report.Delay[c.ID]),
		fmt.Sprintf("cx: %g", report.Complexity[c.ID]),
		fmt.Sprintf("cc: %g", report.Centrality[c.ID]),
	}
	return c.Name + "\n" + strings.Join(parts, "\n")
}

func edgeAttrs(e plan.Edge) []string {
	var attrs []string
	if e.Redundant {
		attrs = append(attrs, "style=dotted", "color=grey")
	} else if !e.Direct {
		attrs = append(attrs, "style=dashed")
	}
	if e.Type != plan.Prerequisite {
		attrs = append(attrs, "arrowhead=none")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
