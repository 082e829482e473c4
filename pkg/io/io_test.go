package io

import (
	"bytes"
	"strings"
	"testing"

	cgerrors "github.com/coursegraph/coursegraph/pkg/errors"
	"github.com/coursegraph/coursegraph/pkg/metrics"
	"github.com/coursegraph/coursegraph/pkg/plan"
	"github.com/coursegraph/coursegraph/pkg/term"
)

const samplePlan = `{
	"system": "quarter",
	"courses": [
		{"name": "MATH 20A", "year": 0, "quarter": 0, "credits": 4},
		{"name": "MATH 20B", "year": 0, "quarter": 1, "credits": 4},
		{"name": "PHYS 2A", "year": 1, "quarter": 0, "credits": 4}
	],
	"edges": [
		{"source": "MATH 20A", "target": "MATH 20B"},
		{"source": "MATH 20B", "target": "PHYS 2A", "type": "coreq"}
	]
}`

func TestReadJSON(t *testing.T) {
	p, system, err := ReadJSON(strings.NewReader(samplePlan))
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if system != term.Quarter {
		t.Errorf("system = %v, want quarter", system)
	}
	if got := p.CourseCount(); got != 3 {
		t.Errorf("CourseCount = %d, want 3", got)
	}
	// Year 1 quarter 0 under the quarter system is term index 3.
	if got := p.TermCount(); got != 4 {
		t.Errorf("TermCount = %d, want 4", got)
	}
	if got := p.EdgeCount(); got != 2 {
		t.Errorf("EdgeCount = %d, want 2", got)
	}

	b, _ := p.CourseByName("MATH 20B")
	phys, _ := p.CourseByName("PHYS 2A")
	e, ok := p.Edge(plan.EdgeKey{Source: b, Target: phys})
	if !ok {
		t.Fatal("edge MATH 20B -> PHYS 2A missing")
	}
	if e.Type != plan.Corequisite || !e.Direct {
		t.Errorf("edge = %+v, want direct corequisite", e)
	}
}

func TestReadJSONErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  cgerrors.Code
	}{
		{
			name:  "malformed json",
			input: `{"courses": [`,
			code:  cgerrors.ErrCodeInvalidFormat,
		},
		{
			name:  "unknown system",
			input: `{"system": "trimester", "courses": []}`,
			code:  cgerrors.ErrCodeInvalidSystem,
		},
		{
			name:  "quarter outside grid",
			input: `{"system": "semester", "courses": [{"name": "X", "year": 0, "quarter": 2, "credits": 4}]}`,
			code:  cgerrors.ErrCodeInvalidPlan,
		},
		{
			name:  "unknown edge endpoint",
			input: `{"courses": [{"name": "X", "credits": 4}], "edges": [{"source": "X", "target": "Y"}]}`,
			code:  cgerrors.ErrCodeInvalidPlan,
		},
		{
			name:  "unnamed course",
			input: `{"courses": [{"credits": 4}]}`,
			code:  cgerrors.ErrCodeInvalidCourse,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ReadJSON(strings.NewReader(tt.input))
			if err == nil {
				t.Fatal("ReadJSON succeeded, want error")
			}
			if !cgerrors.Is(err, tt.code) {
				t.Errorf("error code = %v, want %v", cgerrors.GetCode(err), tt.code)
			}
		})
	}
}

func TestJSONRoundTrip(t *testing.T) {
	p, system, err := ReadJSON(strings.NewReader(samplePlan))
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}

	var buf bytes.Buffer
	if err := WriteJSON(p, system, &buf); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	back, backSystem, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("ReadJSON round trip: %v", err)
	}

	if backSystem != system {
		t.Errorf("system = %v, want %v", backSystem, system)
	}
	if back.CourseCount() != p.CourseCount() || back.EdgeCount() != p.EdgeCount() {
		t.Errorf("round trip sizes = (%d, %d), want (%d, %d)",
			back.CourseCount(), back.EdgeCount(), p.CourseCount(), p.EdgeCount())
	}
	for i, e := range p.Edges() {
		if back.Edges()[i] != e {
			t.Errorf("edge %d = %+v, want %+v", i, back.Edges()[i], e)
		}
	}
}

func TestReadCSV(t *testing.T) {
	input := "name,year,quarter,credits\nMATH 20A,0,0,4\nMATH 20B,0,1,4\n"
	p, err := ReadCSV(strings.NewReader(input), term.Quarter)
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if got := p.CourseCount(); got != 2 {
		t.Errorf("CourseCount = %d, want 2", got)
	}
	if got := p.EdgeCount(); got != 0 {
		t.Errorf("EdgeCount = %d, want 0", got)
	}
}

func TestReadCSVErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty file", ""},
		{"short row", "name,year,quarter,credits\nMATH 20A,0\n"},
		{"bad credits", "name,year,quarter,credits\nMATH 20A,0,0,four\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadCSV(strings.NewReader(tt.input), term.Semester); err == nil {
				t.Fatal("ReadCSV succeeded, want error")
			} else if !cgerrors.Is(err, cgerrors.ErrCodeInvalidFormat) {
				t.Errorf("error code = %v, want INVALID_FORMAT", cgerrors.GetCode(err))
			}
		})
	}
}

func TestWriteMetricsCSV(t *testing.T) {
	p := plan.New(2)
	a, _ := p.AddCourse(0, plan.Course{Name: "A", Credits: 4})
	b, _ := p.AddCourse(1, plan.Course{Name: "B", Year: 0, Quarter: 1, Credits: 4})
	if err := p.AddEdge(plan.Edge{Source: a, Target: b, Direct: true}); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}
	report := metrics.Compute(p, nil, term.Semester)

	var buf bytes.Buffer
	if err := WriteMetricsCSV(p, report, &buf); err != nil {
		t.Fatalf("WriteMetricsCSV: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("lines = %d, want header plus 2 rows", len(lines))
	}
	if lines[0] != "name,year,quarter,credits,blocking,delay,complexity,centrality" {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "A,0,0,4,1,2,3,") {
		t.Errorf("row A = %q, want blocking 1 delay 2 complexity 3", lines[1])
	}
}
