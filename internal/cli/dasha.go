package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/jyotish/pkg/dasha"
	"github.com/matzehuels/jyotish/pkg/errors"
	"github.com/matzehuels/jyotish/pkg/pipeline"
)

type dashaOpts struct {
	birth       birthFlags
	chart       chartFlags
	system      string
	depth       string
	at          string
	interactive bool
}

// dashaCommand creates the dasha timeline command.
func (c *CLI) dashaCommand() *cobra.Command {
	opts := dashaOpts{}

	cmd := &cobra.Command{
		Use:   "dasha",
		Short: "Print or browse the dasha timeline",
		Long: `Print the Vimshottari or Yogini period timeline for a birth.

With --interactive the timeline opens in a browser where enter descends into
a period's sub-periods and backspace returns to the parent level.`,
		Example: `  jyotish dasha --date 1990-05-17T04:30:00Z --lat 28.61 --lon 77.21
  jyotish dasha --date 1990-05-17T04:30:00Z --lat 28.61 --lon 77.21 --depth antar
  jyotish dasha --date 1990-05-17T04:30:00Z --lat 28.61 --lon 77.21 --at 2024-01-01
  jyotish dasha --date 1990-05-17T04:30:00Z --lat 28.61 --lon 77.21 --interactive`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDasha(cmd, &opts)
		},
	}

	opts.birth.register(cmd)
	opts.chart.register(cmd)
	cmd.Flags().StringVar(&opts.system, "system", dasha.Vimshottari.Name, "dasha system: vimshottari or yogini")
	cmd.Flags().StringVar(&opts.depth, "depth", "maha", "deepest level to print: maha, antar or pratyantar")
	cmd.Flags().StringVar(&opts.at, "at", "", "print only the periods running at this instant")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "browse the timeline interactively")

	return cmd
}

func (c *CLI) runDasha(cmd *cobra.Command, opts *dashaOpts) error {
	depth, err := parseLevel(opts.depth)
	if err != nil {
		return err
	}
	runner, err := c.newRunner(cmd.Context(), opts.chart.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	bundle, _, err := c.computeChart(cmd.Context(), cmd, runner, &opts.birth, &opts.chart)
	if err != nil {
		return err
	}
	tree, err := treeOf(bundle, opts.system)
	if err != nil {
		return err
	}

	if opts.at != "" {
		at, err := parseInstant(opts.at, opts.birth.tz)
		if err != nil {
			return err
		}
		a := tree.Active(at)
		if a.Maha == nil {
			return errors.New(errors.ErrCodeInvalidInstant, "%s is outside the computed timeline (%s to %s)",
				at.Format(time.DateOnly), tree.Birth.Format(time.DateOnly), tree.Horizon.Format(time.DateOnly))
		}
		fmt.Println(StyleTitle.Render(fmt.Sprintf("%s dasha at %s", titleCase(tree.System), at.Format(time.DateOnly))))
		for _, p := range []*dasha.Period{a.Maha, a.Antar, a.Pratyantar} {
			if p != nil {
				printKeyValue(p.Level.String(), fmt.Sprintf("%s  %s", p.Name, periodSpan(*p)))
			}
		}
		return nil
	}

	if opts.interactive {
		_, err := tea.NewProgram(newDashaBrowser(tree, time.Now()), tea.WithContext(cmd.Context())).Run()
		return err
	}

	fmt.Println(StyleTitle.Render(titleCase(tree.System) + " dasha"))
	printTable([]string{"Period", "Lord", "Start", "End", "Length"}, timelineRows(tree, depth, time.Now()))
	return nil
}

func treeOf(b *pipeline.Bundle, system string) (*dasha.Tree, error) {
	switch strings.ToLower(system) {
	case dasha.Vimshottari.Name:
		return b.Vimshottari, nil
	case dasha.Yogini.Name:
		return b.Yogini, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidInput, "dasha system %q must be %s or %s", system, dasha.Vimshottari.Name, dasha.Yogini.Name)
}

func parseLevel(s string) (dasha.Level, error) {
	for _, l := range []dasha.Level{dasha.Maha, dasha.Antar, dasha.Pratyantar} {
		if strings.EqualFold(s, l.String()) {
			return l, nil
		}
	}
	return 0, errors.New(errors.ErrCodeInvalidInput, "dasha level %q must be maha, antar or pratyantar", s)
}

// timelineRows lists the periods down to depth in time order, each child
// after its parent, marking those running at now.
func timelineRows(t *dasha.Tree, depth dasha.Level, now time.Time) [][]string {
	var rows [][]string
	var walk func(ps []dasha.Period)
	walk = func(ps []dasha.Period) {
		for _, p := range ps {
			marker := "  "
			if p.Contains(now) {
				marker = "▸ "
			}
			indent := strings.Repeat("  ", int(p.Level-dasha.Maha))
			rows = append(rows, []string{
				marker + indent + p.Level.String(),
				p.Name,
				p.Start.Format(time.DateOnly),
				p.End.Format(time.DateOnly),
				formatSpan(p.End.Sub(p.Start)),
			})
			if p.Level < depth {
				walk(t.Children(p.ID))
			}
		}
	}
	walk(t.Mahas())
	return rows
}

// activeChain formats the running periods as "Venus / Sun / Moon".
func activeChain(ps ...*dasha.Period) string {
	var names []string
	for _, p := range ps {
		if p != nil {
			names = append(names, p.Name)
		}
	}
	return strings.Join(names, " / ")
}

func periodSpan(p dasha.Period) string {
	return fmt.Sprintf("%s to %s", p.Start.Format(time.DateOnly), p.End.Format(time.DateOnly))
}

// formatSpan renders a period length as years, months and days of the
// 365.25-day year.
func formatSpan(d time.Duration) string {
	const day = 24 * time.Hour
	days := float64(d) / float64(day)
	years := int(days / 365.25)
	days -= float64(years) * 365.25
	months := int(days / (365.25 / 12))
	days -= float64(months) * (365.25 / 12)
	return fmt.Sprintf("%dy %dm %dd", years, months, int(days))
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
