package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/coursegraph/coursegraph/pkg/export"
	planio "github.com/coursegraph/coursegraph/pkg/io"
	"github.com/coursegraph/coursegraph/pkg/metrics"
	"github.com/coursegraph/coursegraph/pkg/observability"
	"github.com/coursegraph/coursegraph/pkg/plan"
	"github.com/coursegraph/coursegraph/pkg/requisite"
	"github.com/coursegraph/coursegraph/pkg/stats"
	"github.com/coursegraph/coursegraph/pkg/term"
)

// TermSource supplies requisite tables and the term range they cover.
// termdata.Cache satisfies it.
type TermSource interface {
	requisite.TermData
	Bounds(ctx context.Context) (term.Bounds, error)
}

// Runner encapsulates pipeline execution. The Runner is stateless except
// for the term cache, the stats provider, and the metrics memo - it
// doesn't store pipeline results. Multiple goroutines can safely use the
// same Runner with different options.
type Runner struct {
	Terms  TermSource
	Stats  stats.Provider // nil disables weighted metrics
	Memo   *metrics.Memo
	Logger *log.Logger
}

// NewRunner creates a runner over the given term source.
// If provider is nil, weighted runs fall back to unweighted metrics.
// If logger is nil, the default logger is used.
func NewRunner(terms TermSource, provider stats.Provider, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	memo, err := metrics.NewMemo(DefaultMemoSize)
	if err != nil {
		panic(err) // DefaultMemoSize is a positive constant
	}
	return &Runner{
		Terms:  terms,
		Stats:  provider,
		Memo:   memo,
		Logger: logger,
	}
}

// Execute runs the complete load → resolve → measure → export pipeline.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	logger := opts.Logger
	if logger == nil {
		logger = r.Logger
	}

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Load
	loadStart := time.Now()
	p, system, err := r.load(opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.System = system
	result.Stats.LoadTime = time.Since(loadStart)

	logger.Info("loaded plan",
		"courses", p.CourseCount(),
		"terms", p.TermCount(),
		"system", system)

	// Stage 2: Resolve
	resolveStart := time.Now()
	bounds, err := r.Terms.Bounds(ctx)
	if err != nil {
		return nil, fmt.Errorf("metadata: %w", err)
	}

	observability.Resolver().OnResolveStart(ctx, p.CourseCount())
	resolver := requisite.New(r.Terms, requisite.Options{Logger: logger})
	resolved, types, err := resolver.Resolve(ctx, p, opts.ReferenceYear, system, bounds)
	result.Stats.ResolveTime = time.Since(resolveStart)
	if err != nil {
		observability.Resolver().OnResolveComplete(ctx, 0, result.Stats.ResolveTime, err)
		return nil, fmt.Errorf("resolve: %w", err)
	}
	observability.Resolver().OnResolveComplete(ctx, resolved.EdgeCount(), result.Stats.ResolveTime, nil)

	result.Plan = resolved
	result.EdgeTypes = types
	result.PlanHash = metrics.PlanHash(resolved)
	result.Stats.CourseCount = resolved.CourseCount()
	result.Stats.EdgeCount = resolved.EdgeCount()
	if counter, ok := r.Terms.(interface{ Stats() (int, int) }); ok {
		fetched, _ := counter.Stats()
		result.Stats.TermsFetched = fetched
	}

	logger.Info("resolved requisites",
		"edges", resolved.EdgeCount(),
		"duration", result.Stats.ResolveTime)

	// Stage 3: Measure
	measureStart := time.Now()
	var weights map[plan.CourseID]float64
	if opts.Weighted && r.Stats != nil {
		if weights, err = stats.Weights(ctx, resolved, r.Stats); err != nil {
			return nil, fmt.Errorf("weights: %w", err)
		}
	}
	observability.Resolver().OnMetricsStart(ctx, resolved.CourseCount())
	result.Report = r.Memo.Compute(resolved, weights, system)
	result.Stats.MeasureTime = time.Since(measureStart)
	observability.Resolver().OnMetricsComplete(ctx, len(result.Report.Paths), result.Stats.MeasureTime)

	logger.Info("computed metrics",
		"paths", len(result.Report.Paths),
		"duration", result.Stats.MeasureTime)

	// Stage 4: Export
	exportStart := time.Now()
	for _, format := range opts.Formats {
		artifact, err := r.export(resolved, result.Report, system, format, opts)
		if err != nil {
			return nil, fmt.Errorf("export %s: %w", format, err)
		}
		result.Artifacts[format] = artifact
	}
	result.Stats.ExportTime = time.Since(exportStart)

	logger.Info("exported artifacts",
		"formats", opts.Formats,
		"duration", result.Stats.ExportTime)

	return result, nil
}

func (r *Runner) load(opts Options) (*plan.Plan, term.System, error) {
	var (
		p      *plan.Plan
		system term.System
		err    error
	)
	switch {
	case len(opts.Document) > 0:
		p, system, err = planio.ReadJSON(bytes.NewReader(opts.Document))
	case strings.HasSuffix(opts.PlanPath, ".csv"):
		// CSV documents carry no system of their own.
		system = term.Semester
		if opts.System != "" {
			system, _ = term.ParseSystem(opts.System)
		}
		p, err = planio.ImportCSV(opts.PlanPath, system)
	default:
		p, system, err = planio.ImportJSON(opts.PlanPath)
	}
	if err != nil {
		return nil, system, err
	}
	if opts.System != "" {
		// Validated by ValidateAndSetDefaults.
		system, _ = term.ParseSystem(opts.System)
	}
	return p, system, nil
}

func (r *Runner) export(p *plan.Plan, report metrics.Report, system term.System, format string, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case FormatJSON:
		if err := export.WriteGraphJSON(p, report, &buf); err != nil {
			return nil, err
		}
	case FormatDOT:
		buf.WriteString(export.ToDOT(p, report, export.Options{
			Detailed:      opts.Detailed,
			HideRedundant: opts.HideRedundant,
		}))
	case FormatSVG:
		dot := export.ToDOT(p, report, export.Options{
			Detailed:      opts.Detailed,
			HideRedundant: opts.HideRedundant,
		})
		svg, err := export.RenderSVG(dot)
		if err != nil {
			return nil, err
		}
		return svg, nil
	case FormatCSV:
		if err := planio.WriteMetricsCSV(p, report, &buf); err != nil {
			return nil, err
		}
	case FormatPlan:
		if err := planio.WriteJSON(p, system, &buf); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("invalid format: %q", format)
	}
	return buf.Bytes(), nil
}
