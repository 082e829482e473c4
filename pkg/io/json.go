package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	cgerrors "github.com/coursegraph/coursegraph/pkg/errors"
	"github.com/coursegraph/coursegraph/pkg/plan"
	"github.com/coursegraph/coursegraph/pkg/term"
)

type planDoc struct {
	System  string      `json:"system"`
	Courses []courseDoc `json:"courses"`
	Edges   []edgeDoc   `json:"edges,omitempty"`
}

type courseDoc struct {
	Name    string  `json:"name"`
	Year    int     `json:"year"`
	Quarter int     `json:"quarter"`
	Credits float64 `json:"credits"`
}

type edgeDoc struct {
	Source    string `json:"source"`
	Target    string `json:"target"`
	Type      string `json:"type,omitempty"`
	Direct    *bool  `json:"direct,omitempty"`
	Redundant bool   `json:"redundant,omitempty"`
}

// ReadJSON decodes a plan document from r.
//
// Courses are placed on the term grid implied by the document's calendar
// system; the plan gets enough terms to hold the latest course. Edge
// endpoints resolve by name to the first plan-order occurrence; unknown
// endpoints are an error. Declared edges default to direct.
func ReadJSON(r io.Reader) (*plan.Plan, term.System, error) {
	var doc planDoc
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, term.Semester, cgerrors.Wrap(cgerrors.ErrCodeInvalidFormat, err, "decoding plan document")
	}
	return buildPlan(doc)
}

// ImportJSON reads a plan document from the file at path.
func ImportJSON(path string) (*plan.Plan, term.System, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, term.Semester, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}

func buildPlan(doc planDoc) (*plan.Plan, term.System, error) {
	system := term.Semester
	if doc.System != "" {
		var err error
		if system, err = term.ParseSystem(doc.System); err != nil {
			return nil, term.Semester, cgerrors.Wrap(cgerrors.ErrCodeInvalidSystem, err, "plan document system")
		}
	}

	perYear := system.TermsPerYear()
	termCount := 0
	for _, c := range doc.Courses {
		if c.Year < 0 || c.Quarter < 0 || c.Quarter >= perYear {
			return nil, system, cgerrors.New(cgerrors.ErrCodeInvalidPlan,
				"course %q has position year=%d quarter=%d outside the %s grid", c.Name, c.Year, c.Quarter, system)
		}
		if idx := c.Year*perYear + c.Quarter + 1; idx > termCount {
			termCount = idx
		}
	}

	p := plan.New(termCount)
	for _, c := range doc.Courses {
		idx := c.Year*perYear + c.Quarter
		_, err := p.AddCourse(idx, plan.Course{
			Name:    c.Name,
			Year:    c.Year,
			Quarter: c.Quarter,
			Credits: c.Credits,
		})
		if err != nil {
			return nil, system, cgerrors.Wrap(cgerrors.ErrCodeInvalidCourse, err, "course %q", c.Name)
		}
	}

	for _, e := range doc.Edges {
		source, ok := p.CourseByName(e.Source)
		if !ok {
			return nil, system, cgerrors.New(cgerrors.ErrCodeInvalidPlan, "edge source %q is not in the plan", e.Source)
		}
		target, ok := p.CourseByName(e.Target)
		if !ok {
			return nil, system, cgerrors.New(cgerrors.ErrCodeInvalidPlan, "edge target %q is not in the plan", e.Target)
		}
		direct := true
		if e.Direct != nil {
			direct = *e.Direct
		}
		err := p.AddEdge(plan.Edge{
			Source:    source,
			Target:    target,
			Type:      plan.ParseEdgeType(e.Type),
			Direct:    direct,
			Redundant: e.Redundant,
		})
		if err != nil {
			return nil, system, cgerrors.Wrap(cgerrors.ErrCodeInvalidPlan, err, "edge %q -> %q", e.Source, e.Target)
		}
	}
	return p, system, nil
}

// WriteJSON encodes the plan as an indented plan document. Edge flags are
// included so a resolved plan round-trips through [ReadJSON].
func WriteJSON(p *plan.Plan, system term.System, w io.Writer) error {
	doc := planDoc{
		System:  system.String(),
		Courses: make([]courseDoc, 0, p.CourseCount()),
	}
	for _, c := range p.Courses() {
		doc.Courses = append(doc.Courses, courseDoc{
			Name:    c.Name,
			Year:    c.Year,
			Quarter: c.Quarter,
			Credits: c.Credits,
		})
	}
	for _, e := range p.Edges() {
		source, _ := p.Course(e.Source)
		target, _ := p.Course(e.Target)
		if source == nil || target == nil {
			continue
		}
		direct := e.Direct
		doc.Edges = append(doc.Edges, edgeDoc{
			Source:    source.Name,
			Target:    target.Name,
			Type:      e.Type.String(),
			Direct:    &direct,
			Redundant: e.Redundant,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes the plan document to a file at path.
func ExportJSON(p *plan.Plan, system term.System, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(p, system, f)
}
