package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/coursegraph/coursegraph/pkg/pipeline"
)

// exportOpts holds the command-line flags for the export command.
type exportOpts struct {
	formats       string // comma-separated output formats
	output        string // output file, or directory for multiple formats
	weighted      bool
	system        string
	referenceYear int
	detailed      bool // metric labels in DOT/SVG output
	hideRedundant bool // drop redundant edges from DOT/SVG output
	noCache       bool
}

// artifactExt maps a pipeline format to its file extension.
var artifactExt = map[string]string{
	pipeline.FormatJSON: ".graph.json",
	pipeline.FormatDOT:  ".dot",
	pipeline.FormatSVG:  ".svg",
	pipeline.FormatCSV:  ".csv",
	pipeline.FormatPlan: ".plan.json",
}

// newExportCmd creates the export command. It runs the full pipeline and
// writes the requested artifacts to disk.
func newExportCmd(cfg *Config) *cobra.Command {
	opts := exportOpts{formats: pipeline.FormatSVG}

	cmd := &cobra.Command{
		Use:   "export <plan-file>",
		Short: "Export graph artifacts for a plan",
		Long: `Resolve requisites for a plan and export the annotated graph.

Formats: json (graph document), dot, svg, csv (per-course metrics),
plan (resolved plan document with edges).

Examples:
  coursegraph export cs-major.json
  coursegraph export cs-major.json --format dot,svg --detailed
  coursegraph export cs-major.json --format csv -o metrics.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, cfg, &opts, args[0])
		},
	}

	cmd.Flags().StringVarP(&opts.formats, "format", "f", opts.formats, "comma-separated formats: json, dot, svg, csv, plan")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (directory when exporting multiple formats)")
	cmd.Flags().BoolVar(&opts.weighted, "weighted", false, "weight metrics by course failure rates")
	cmd.Flags().StringVar(&opts.system, "system", "", "calendar system (semester or quarter)")
	cmd.Flags().IntVar(&opts.referenceYear, "reference-year", 0, "academic year that plan year 0 maps to")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "include metric labels in dot/svg output")
	cmd.Flags().BoolVar(&opts.hideRedundant, "hide-redundant", false, "drop redundant edges from dot/svg output")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the response cache")

	return cmd
}

func runExport(cmd *cobra.Command, cfg *Config, opts *exportOpts, planPath string) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	formats := splitFormats(opts.formats)
	if opts.output != "" && len(formats) > 1 {
		if info, err := os.Stat(opts.output); err != nil || !info.IsDir() {
			return fmt.Errorf("--output must name a directory when exporting multiple formats")
		}
	}

	runner, err := newRunner(cfg, opts.noCache, logger)
	if err != nil {
		return err
	}

	pOpts := pipeline.Options{
		PlanPath:      planPath,
		Weighted:      opts.weighted,
		System:        firstNonEmpty(opts.system, cfg.System),
		ReferenceYear: firstNonZero(opts.referenceYear, cfg.ReferenceYear),
		Formats:       formats,
		Detailed:      opts.detailed,
		HideRedundant: opts.hideRedundant,
		Logger:        logger,
	}

	spinner := newSpinnerWithContext(ctx, "Exporting graph...")
	spinner.Start()
	result, err := runner.Execute(ctx, pOpts)
	if err != nil {
		spinner.StopWithError("Export failed")
		return err
	}
	spinner.StopWithSuccess(fmt.Sprintf("Exported %s", planPath))
	printStats(result.Stats.CourseCount, result.Stats.EdgeCount, result.Stats.TermsFetched)

	for _, format := range formats {
		path := artifactPath(planPath, opts.output, format, len(formats) > 1)
		if err := os.WriteFile(path, result.Artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}
	return nil
}

// artifactPath chooses the destination for one artifact. A single-format
// export honors --output as a file path; multi-format exports place files
// named after the plan into the output directory (or alongside the plan).
func artifactPath(planPath, output, format string, multi bool) string {
	if output != "" && !multi {
		return output
	}
	base := strings.TrimSuffix(filepath.Base(planPath), filepath.Ext(planPath))
	name := base + artifactExt[format]
	if output != "" {
		return filepath.Join(output, name)
	}
	return filepath.Join(filepath.Dir(planPath), name)
}

// splitFormats parses a comma-separated format string into a slice.
func splitFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
