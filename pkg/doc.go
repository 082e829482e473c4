// Package pkg provides the core libraries for Coursegraph curriculum analysis.
//
// # Overview
//
// Coursegraph resolves course requisites against published term data and
// measures the prerequisite structure of degree plans. The pkg directory
// is organized into four main areas:
//
//  1. Domain logic - [plan], [term], [requisite], [metrics]
//  2. Data access - [termdata], [stats], [httputil], [cache], [store]
//  3. Input/output - [io], [export]
//  4. Orchestration - [pipeline], with [observability] hooks throughout
//
// # Architecture
//
// The typical data flow through Coursegraph:
//
//	Plan file (JSON/CSV)
//	         ↓
//	    [io] package (load plan + calendar system)
//	         ↓
//	    [requisite] package (resolve edges from term data)
//	         ↓
//	    [metrics] package (blocking, delay, complexity, centrality)
//	         ↓
//	    [export] package (graph JSON, DOT, SVG, CSV)
//
// # Quick Start
//
// Resolve a plan and compute its metrics through the pipeline:
//
//	import (
//	    "context"
//	    "github.com/coursegraph/coursegraph/pkg/httputil"
//	    "github.com/coursegraph/coursegraph/pkg/pipeline"
//	    "github.com/coursegraph/coursegraph/pkg/termdata"
//	)
//
//	cache, _ := httputil.NewCache("", 0)
//	terms := termdata.NewCache(termdata.NewClient("https://example.edu/terms", cache))
//	runner := pipeline.NewRunner(terms, nil, nil)
//
//	result, _ := runner.Execute(context.Background(), pipeline.Options{
//	    PlanPath: "cs-major.json",
//	    Formats:  []string{pipeline.FormatSVG},
//	})
//
// # Main Packages
//
//   - [plan]: the in-memory degree plan (courses, terms, typed edges)
//   - [term]: academic terms, calendar systems, and term arithmetic
//   - [requisite]: requisite expressions and the edge resolver
//   - [metrics]: graph metrics over resolved plans, with an LRU memo
//   - [termdata]: the requisite data source client and its async cache
//   - [stats]: course statistics (failure rates) for weighted metrics
//   - [io]: plan document reading and writing (JSON, CSV)
//   - [export]: annotated graph output (JSON, DOT, SVG via graphviz)
//   - [store]: stored plan documents (in-memory and MongoDB)
//   - [cache]: byte-level cache backends (file, Redis, null)
//   - [httputil]: cached, retrying HTTP fetch helpers
//   - [pipeline]: load → resolve → measure → export orchestration
//   - [observability]: hook registry for resolver and cache events
//   - [errors]: structured error codes shared across the module
package pkg
