// Package pipeline provides the core analysis pipeline for coursegraph.
//
// This package implements the complete load → resolve → measure → export
// pipeline that can be used by CLI and API components. By centralizing this
// logic, we ensure consistent behavior across all entry points and avoid
// code duplication.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Load: Decode a plan document (JSON or CSV)
//  2. Resolve: Rebuild requisite edges from per-term expression tables
//  3. Measure: Compute blocking, delay, complexity, and centrality
//  4. Export: Generate output in various formats (JSON, DOT, SVG, CSV)
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(terms, provider, logger)
//	opts := pipeline.Options{
//	    PlanPath: "plans/cs-major.json",
//	    Formats:  []string{"json"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	graph := result.Artifacts["json"]
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/coursegraph/coursegraph/pkg/metrics"
	"github.com/coursegraph/coursegraph/pkg/plan"
	"github.com/coursegraph/coursegraph/pkg/term"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultReferenceYear anchors plan positions to calendar terms when no
	// reference year is given: year 0 of the plan starts in this fall.
	DefaultReferenceYear = 2020

	// DefaultMemoSize is the number of metric reports kept by the runner's
	// memo cache.
	DefaultMemoSize = 64
)

// Format constants for output formats.
const (
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatCSV  = "csv"
	FormatPlan = "plan"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatDOT:  true,
	FormatSVG:  true,
	FormatCSV:  true,
	FormatPlan: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the analysis pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Load options. Exactly one of PlanPath and Document must be set;
	// Document takes precedence and must be plan-document JSON.
	PlanPath string `json:"plan_path,omitempty"`
	Document []byte `json:"document,omitempty"`

	// Resolve options
	ReferenceYear int    `json:"reference_year,omitempty"`
	System        string `json:"system,omitempty"` // overrides the document's system

	// Measure options
	Weighted bool `json:"weighted,omitempty"` // scale blocking by failure rates

	// Export options
	Formats       []string `json:"formats,omitempty"`
	Detailed      bool     `json:"detailed,omitempty"`       // metric labels in DOT output
	HideRedundant bool     `json:"hide_redundant,omitempty"` // drop redundant edges from DOT output

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent - calling it multiple times has the same
// effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.PlanPath == "" && len(o.Document) == 0 {
		return fmt.Errorf("plan_path or document is required")
	}
	if o.System != "" {
		if _, err := term.ParseSystem(o.System); err != nil {
			return err
		}
	}
	if o.ReferenceYear == 0 {
		o.ReferenceYear = DefaultReferenceYear
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatJSON}
	}
	for _, f := range o.Formats {
		if !ValidFormats[f] {
			return fmt.Errorf("invalid format: %q (must be one of: json, dot, svg, csv, plan)", f)
		}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Plan is the resolved plan with rebuilt requisite edges.
	Plan *plan.Plan

	// EdgeTypes maps every resolved edge to its requisite type.
	EdgeTypes plan.EdgeTypes

	// Report holds the computed per-course metrics.
	Report metrics.Report

	// System is the calendar system the plan was resolved under.
	System term.System

	// PlanHash is the content hash of the resolved plan.
	PlanHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	CourseCount  int
	EdgeCount    int
	TermsFetched int
	LoadTime     time.Duration
	ResolveTime  time.Duration
	MeasureTime  time.Duration
	ExportTime   time.Duration
}
