package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/jyotish/pkg/kuta"
	"github.com/matzehuels/jyotish/pkg/pipeline"
)

type matchOpts struct {
	birth   birthFlags
	partner birthFlags
	chart   chartFlags
	json    bool
}

// matchCommand creates the guna milan compatibility command.
func (c *CLI) matchCommand() *cobra.Command {
	opts := matchOpts{}

	cmd := &cobra.Command{
		Use:   "match",
		Short: "Score the guna milan of two natal charts",
		Long: `Compare the natal Moons of two charts with the eight kutas of the
ashtakoota match, out of 36 points. The --date chart is read as the
boy's and the --partner-date chart as the girl's.`,
		Example: `  jyotish match --date 1990-05-17T04:30:00Z --lat 28.61 --lon 77.21 \
    --partner-date 1992-11-02T14:10:00Z --partner-lat 19.07 --partner-lon 72.88`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runMatch(cmd, &opts)
		},
	}

	opts.birth.register(cmd)
	opts.partner.registerPrefixed(cmd, "partner-")
	opts.chart.register(cmd)
	cmd.Flags().BoolVar(&opts.json, "json", false, "write the match as JSON to stdout")

	return cmd
}

func (c *CLI) runMatch(cmd *cobra.Command, opts *matchOpts) error {
	ctx := cmd.Context()
	runner, err := c.newRunner(ctx, opts.chart.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	boy, _, err := c.computeChart(ctx, cmd, runner, &opts.birth, &opts.chart)
	if err != nil {
		return err
	}
	girl, _, err := c.computeChart(ctx, cmd, runner, &opts.partner, &opts.chart)
	if err != nil {
		return err
	}

	m, err := pipeline.Compatibility(boy, girl)
	if err != nil {
		return err
	}

	if opts.json {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(m)
	}
	printMatch(boy, girl, m)
	return nil
}

func printMatch(boy, girl *pipeline.Bundle, m *kuta.Match) {
	fmt.Println(StyleTitle.Render(fmt.Sprintf("Guna milan of %s and %s", chartName(boy), chartName(girl))))

	rows := make([][]string, 0, len(m.Kutas))
	for _, k := range m.Kutas {
		score := fmt.Sprintf("%g / %g", k.Score, k.Max)
		if k.Score == 0 {
			score = StyleWarning.Render(score)
		}
		rows = append(rows, []string{k.Name, score, k.Detail})
	}
	printTable([]string{"Kuta", "Score", "Detail"}, rows)

	printSection("Total")
	printKeyValue("Points", fmt.Sprintf("%g / %g (%.1f%%)", m.Total, m.Max, m.Percent))
	printKeyValue("Assessment", m.Assessment)
}

func chartName(b *pipeline.Bundle) string {
	if b.Birth.Name != "" {
		return b.Birth.Name
	}
	return b.Birth.Instant.Format("2006-01-02")
}
