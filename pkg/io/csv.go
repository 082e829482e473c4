package io

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	cgerrors "github.com/coursegraph/coursegraph/pkg/errors"
	"github.com/coursegraph/coursegraph/pkg/metrics"
	"github.com/coursegraph/coursegraph/pkg/plan"
	"github.com/coursegraph/coursegraph/pkg/term"
)

// ReadCSV decodes a row-per-course plan from r. The first row must be the
// header "name,year,quarter,credits"; column order is fixed. CSV plans
// carry no edges.
func ReadCSV(r io.Reader, system term.System) (*plan.Plan, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, cgerrors.Wrap(cgerrors.ErrCodeInvalidFormat, err, "reading plan rows")
	}
	if len(records) == 0 {
		return nil, cgerrors.New(cgerrors.ErrCodeInvalidFormat, "plan file is empty")
	}

	doc := planDoc{System: system.String()}
	for i, row := range records[1:] {
		line := i + 2
		if len(row) != 4 {
			return nil, cgerrors.New(cgerrors.ErrCodeInvalidFormat, "line %d: want 4 columns, got %d", line, len(row))
		}
		year, err := strconv.Atoi(row[1])
		if err != nil {
			return nil, cgerrors.Wrap(cgerrors.ErrCodeInvalidFormat, err, "line %d: year", line)
		}
		quarter, err := strconv.Atoi(row[2])
		if err != nil {
			return nil, cgerrors.Wrap(cgerrors.ErrCodeInvalidFormat, err, "line %d: quarter", line)
		}
		credits, err := strconv.ParseFloat(row[3], 64)
		if err != nil {
			return nil, cgerrors.Wrap(cgerrors.ErrCodeInvalidFormat, err, "line %d: credits", line)
		}
		doc.Courses = append(doc.Courses, courseDoc{
			Name:    row[0],
			Year:    year,
			Quarter: quarter,
			Credits: credits,
		})
	}

	p, _, err := buildPlan(doc)
	return p, err
}

// ImportCSV reads a row-per-course plan from the file at path.
func ImportCSV(path string, system term.System) (*plan.Plan, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadCSV(f, system)
}

// WriteMetricsCSV writes one row per course with its computed metrics, in
// plan order. The header is
// "name,year,quarter,credits,blocking,delay,complexity,centrality".
func WriteMetricsCSV(p *plan.Plan, report metrics.Report, w io.Writer) error {
	cw := csv.NewWriter(w)
	header := []string{"name", "year", "quarter", "credits", "blocking", "delay", "complexity", "centrality"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	num := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	for _, c := range p.Courses() {
		row := []string{
			c.Name,
			strconv.Itoa(c.Year),
			strconv.Itoa(c.Quarter),
			num(c.Credits),
			num(report.Blocking[c.ID]),
			num(report.Delay[c.ID]),
			num(report.Complexity[c.ID]),
			num(report.Centrality[c.ID]),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row for %s: %w", c.Name, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
