// Package io provides JSON and CSV import and export for degree plans.
//
// # Overview
//
// This package converts between on-disk plan documents and the in-memory
// plan model. The formats are designed for:
//
//   - Hand-authored plans checked into a repository
//   - Integration with external tools that produce or consume plan data
//   - Round-trip preservation: import, resolve, export, and re-import
//
// # JSON Format
//
// A plan document names its calendar system and lists courses; edges are
// optional (the resolver normally derives them):
//
//	{
//	  "system": "quarter",
//	  "courses": [
//	    {"name": "MATH 20A", "year": 0, "quarter": 0, "credits": 4},
//	    {"name": "MATH 20B", "year": 0, "quarter": 1, "credits": 4}
//	  ],
//	  "edges": [
//	    {"source": "MATH 20A", "target": "MATH 20B", "type": "prerequisite"}
//	  ]
//	}
//
// Course year and quarter are 0-indexed plan positions; credits must be
// non-negative. Edge endpoints reference courses by name and resolve to
// the first plan-order occurrence. The edge "type" accepts the tags
// understood by plan.ParseEdgeType and defaults to prerequisite.
//
// # CSV Format
//
// The row-per-course import format has a header row and four columns:
//
//	name,year,quarter,credits
//	MATH 20A,0,0,4
//	MATH 20B,0,1,4
//
// CSV import never carries edges; resolve the plan to obtain them.
// [WriteMetricsCSV] exports a per-course metrics table for spreadsheet
// analysis.
//
// # Import and Export
//
// Use [ImportJSON] / [ImportCSV] to read from a file path, or [ReadJSON] /
// [ReadCSV] to read from any io.Reader. [ExportJSON] and [WriteJSON] write
// the complete plan including resolved edge flags (direct, redundant), so
// a resolved plan survives a round trip.
//
// All functions create independent plan instances; none of them retain or
// close the readers and writers they are handed.
package io
