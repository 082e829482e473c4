package cli

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/coursegraph/coursegraph/pkg/export"
	"github.com/coursegraph/coursegraph/pkg/pipeline"
)

// newBrowseCmd creates the browse command, an interactive view over a
// plan's courses and their metrics.
func newBrowseCmd(cfg *Config) *cobra.Command {
	var (
		weighted      bool
		system        string
		referenceYear int
	)

	cmd := &cobra.Command{
		Use:   "browse <plan-file>",
		Short: "Explore a plan's courses and metrics interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			runner, err := newRunner(cfg, false, logger)
			if err != nil {
				return err
			}

			spinner := newSpinnerWithContext(ctx, "Resolving requisites...")
			spinner.Start()
			result, err := runner.Execute(ctx, pipeline.Options{
				PlanPath:      args[0],
				Weighted:      weighted,
				System:        firstNonEmpty(system, cfg.System),
				ReferenceYear: firstNonZero(referenceYear, cfg.ReferenceYear),
				Formats:       []string{pipeline.FormatJSON},
				Logger:        logger,
			})
			spinner.Stop()
			if err != nil {
				return err
			}

			model := newCourseListModel(args[0], export.BuildGraph(result.Plan, result.Report).Nodes)
			_, err = tea.NewProgram(model, tea.WithContext(ctx)).Run()
			return err
		},
	}

	cmd.Flags().BoolVar(&weighted, "weighted", false, "weight metrics by course failure rates")
	cmd.Flags().StringVar(&system, "system", "", "calendar system (semester or quarter)")
	cmd.Flags().IntVar(&referenceYear, "reference-year", 0, "academic year that plan year 0 maps to")

	return cmd
}

// List styles
var (
	listDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
	listHeaderStyle = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

// sortKeys are the columns the course list can be ordered by, cycled
// with the "s" key.
var sortKeys = []string{"name", "blocking", "delay", "complexity", "centrality"}

// courseListModel is the bubbletea model for the course browser.
type courseListModel struct {
	Title   string
	Nodes   []export.Node
	Cursor  int
	Height  int
	Offset  int
	SortKey int
}

// newCourseListModel creates a course list sorted by name.
func newCourseListModel(title string, nodes []export.Node) courseListModel {
	m := courseListModel{
		Title:  title,
		Nodes:  nodes,
		Height: 15,
	}
	m.sortNodes()
	return m
}

func (m *courseListModel) sortNodes() {
	key := sortKeys[m.SortKey]
	sort.SliceStable(m.Nodes, func(i, j int) bool {
		a, b := m.Nodes[i], m.Nodes[j]
		switch key {
		case "blocking":
			return a.Blocking > b.Blocking
		case "delay":
			return a.Delay > b.Delay
		case "complexity":
			return a.Complexity > b.Complexity
		case "centrality":
			return a.Centrality > b.Centrality
		default:
			return a.Name < b.Name
		}
	})
}

func (m courseListModel) Init() tea.Cmd {
	return nil
}

func (m courseListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Nodes)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "s":
			m.SortKey = (m.SortKey + 1) % len(sortKeys)
			m.sortNodes()
			m.Cursor = 0
			m.Offset = 0
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 8
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m courseListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(fmt.Sprintf("%s · %d courses", m.Title, len(m.Nodes))))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("↑/↓ navigate  s sort (%s)  q quit", sortKeys[m.SortKey])))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Nodes) {
		end = len(m.Nodes)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		n := m.Nodes[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{
			cursor,
			n.Name,
			fmt.Sprintf("Y%d T%d", n.Year+1, n.Quarter+1),
			formatMetric(n.Credits),
			formatMetric(n.Blocking),
			formatMetric(n.Delay),
			formatMetric(n.Complexity),
			formatMetric(n.Centrality),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Course", "Term", "Credits", "Blocking", "Delay", "Complexity", "Centrality").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return listHeaderStyle
			}
			if m.Offset+row == m.Cursor {
				return lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
			}
			if col <= 1 {
				return lipgloss.NewStyle().Foreground(colorWhite)
			}
			return lipgloss.NewStyle().Foreground(colorGray)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Nodes))))

	return b.String()
}
