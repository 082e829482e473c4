package cli

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/coursegraph/coursegraph/pkg/export"
	"github.com/coursegraph/coursegraph/pkg/pipeline"
)

// timePrecision is the rounding applied to durations in terminal output.
const timePrecision = time.Millisecond

// analyzeOpts holds the command-line flags for the analyze command.
type analyzeOpts struct {
	weighted      bool   // scale blocking by failure rates
	system        string // calendar system override
	referenceYear int    // academic year anchor override
	noCache       bool   // bypass the upstream response cache
	output        string // write the graph JSON here
	top           int    // number of courses in the summary table
}

// newAnalyzeCmd creates the analyze command. It resolves requisites for a
// plan file against the configured term data source and prints a metrics
// summary.
func newAnalyzeCmd(cfg *Config) *cobra.Command {
	opts := analyzeOpts{top: 10}

	cmd := &cobra.Command{
		Use:   "analyze <plan-file>",
		Short: "Resolve requisites and compute metrics for a plan",
		Long: `Resolve requisites for a degree plan and compute its prerequisite metrics.

The plan file may be JSON (with an embedded calendar system) or CSV.

Examples:
  coursegraph analyze cs-major.json
  coursegraph analyze cs-major.csv --system quarter
  coursegraph analyze cs-major.json --weighted --output graph.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, cfg, &opts, args[0])
		},
	}

	cmd.Flags().BoolVar(&opts.weighted, "weighted", false, "weight metrics by course failure rates")
	cmd.Flags().StringVar(&opts.system, "system", "", "calendar system (semester or quarter)")
	cmd.Flags().IntVar(&opts.referenceYear, "reference-year", 0, "academic year that plan year 0 maps to")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the response cache")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the graph JSON to this file")
	cmd.Flags().IntVar(&opts.top, "top", opts.top, "number of courses in the summary table")

	return cmd
}

func runAnalyze(cmd *cobra.Command, cfg *Config, opts *analyzeOpts, planPath string) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	runner, err := newRunner(cfg, opts.noCache, logger)
	if err != nil {
		return err
	}
	if opts.weighted && cfg.StatsURL == "" {
		printWarning("No statistics source configured; metrics stay unweighted")
	}

	pOpts := pipeline.Options{
		PlanPath:      planPath,
		Weighted:      opts.weighted,
		System:        firstNonEmpty(opts.system, cfg.System),
		ReferenceYear: firstNonZero(opts.referenceYear, cfg.ReferenceYear),
		Formats:       []string{pipeline.FormatJSON},
		Logger:        logger,
	}

	spinner := newSpinnerWithContext(ctx, "Resolving requisites...")
	spinner.Start()
	result, err := runner.Execute(ctx, pOpts)
	if err != nil {
		spinner.StopWithError("Analysis failed")
		return err
	}
	spinner.StopWithSuccess(fmt.Sprintf("Analyzed %s", planPath))

	printStats(result.Stats.CourseCount, result.Stats.EdgeCount, result.Stats.TermsFetched)
	printDetail("resolve %s · metrics %s",
		result.Stats.ResolveTime.Round(timePrecision),
		result.Stats.MeasureTime.Round(timePrecision))

	nodes := export.BuildGraph(result.Plan, result.Report).Nodes
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].Complexity > nodes[j].Complexity })
	if len(nodes) > opts.top {
		nodes = nodes[:opts.top]
	}

	fmt.Println()
	fmt.Println(StyleTitle.Render("Courses by complexity"))
	for _, n := range nodes {
		printKeyValue(n.Name, fmt.Sprintf(
			"blocking %s  delay %s  complexity %s  centrality %s",
			StyleNumber.Render(formatMetric(n.Blocking)),
			StyleNumber.Render(formatMetric(n.Delay)),
			StyleNumber.Render(formatMetric(n.Complexity)),
			StyleNumber.Render(formatMetric(n.Centrality))))
	}

	if opts.output != "" {
		if err := os.WriteFile(opts.output, result.Artifacts[pipeline.FormatJSON], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", opts.output, err)
		}
		printFile(opts.output)
	}

	fmt.Println()
	printNextStep("Render the graph", fmt.Sprintf("%s export %s --format svg", appName, planPath))
	return nil
}

func formatMetric(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstNonZero(values ...int) int {
	for _, v := range values {
		if v != 0 {
			return v
		}
	}
	return 0
}
