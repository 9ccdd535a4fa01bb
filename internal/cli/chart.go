package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/jyotish/pkg/astro"
	"github.com/matzehuels/jyotish/pkg/errors"
	"github.com/matzehuels/jyotish/pkg/pipeline"
)

type chartOpts struct {
	birth    birthFlags
	chart    chartFlags
	json     bool
	save     bool
	division int
}

// chartCommand creates the chart command.
func (c *CLI) chartCommand() *cobra.Command {
	opts := chartOpts{}

	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Compute a natal chart",
		Long: `Compute a sidereal natal chart with divisional charts, dignities, yogas and
strengths, and print it.`,
		Example: `  jyotish chart --date 1990-05-17T10:00 --tz Asia/Kolkata --lat 28.61 --lon 77.21
  jyotish chart --date 1990-05-17T04:30:00Z --lat 28.61 --lon 77.21 --json > chart.json
  jyotish chart --date 1990-05-17T04:30:00Z --lat 28.61 --lon 77.21 --division 9`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runChart(cmd, &opts)
		},
	}

	opts.birth.register(cmd)
	opts.chart.register(cmd)
	cmd.Flags().BoolVar(&opts.json, "json", false, "write the full bundle as JSON to stdout")
	cmd.Flags().BoolVar(&opts.save, "save", false, "store the bundle in the configured record store")
	cmd.Flags().IntVarP(&opts.division, "division", "d", 1, "divisional chart to print")

	return cmd
}

func (c *CLI) runChart(cmd *cobra.Command, opts *chartOpts) error {
	ctx := cmd.Context()
	prog := newProgress(c.Logger)

	runner, err := c.newRunner(ctx, opts.chart.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	bundle, stats, err := c.computeChart(ctx, cmd, runner, &opts.birth, &opts.chart)
	if err != nil {
		return err
	}

	if opts.save {
		store, err := c.openStore()
		if err != nil {
			return err
		}
		defer store.Close()
		id, err := store.SaveBundle(ctx, bundle)
		if err != nil {
			return err
		}
		c.Logger.Info("saved chart", "person", id, "driver", c.cfg.Store.Driver)
	}

	if opts.json {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(bundle)
	}

	v := bundle.Divisional(opts.division)
	if v == nil {
		return errors.New(errors.ErrCodeUnsupportedDivision, "division D%d was not computed; pass --divisions %d", opts.division, opts.division)
	}

	printChart(bundle, v)
	printStats(stats)
	prog.done("Computed chart")
	return nil
}

// printChart prints the header, the positions of v and, for the natal
// frame, the derived structures.
func printChart(b *pipeline.Bundle, v *astro.Variant) {
	title := "Natal chart"
	if v.Division != 1 {
		title = fmt.Sprintf("Divisional chart D%d", v.Division)
	}
	if b.Birth.Name != "" {
		title += " - " + b.Birth.Name
	}
	fmt.Println(StyleTitle.Render(title))
	printKeyValue("Born", b.Birth.Instant.UTC().Format(time.RFC3339))
	printKeyValue("Location", fmt.Sprintf("%.4f, %.4f", b.Birth.Latitude, b.Birth.Longitude))
	printKeyValue("Ayanamsha", fmt.Sprintf("%s %s", b.Ayanamsha, astro.FormatDMS(b.AyanamshaValue)))
	printKeyValue("Ascendant", fmt.Sprintf("%s %s (%s %d)", v.Ascendant.Sign, astro.FormatDMS(v.Ascendant.Degree), v.Ascendant.Nakshatra, v.Ascendant.Pada))

	rows := make([][]string, 0, astro.NumGrahas)
	for _, p := range v.Positions {
		rows = append(rows, positionRow(p))
	}
	printTable(positionHeaders, rows)

	for _, w := range b.Warnings {
		printWarning("%s", w.Message)
	}
	if v.Division != 1 {
		return
	}

	if len(b.Vargottama) > 0 {
		printKeyValue("Vargottama", joinGrahas(b.Vargottama))
	}
	for _, w := range b.Wars {
		printKeyValue("Graha yuddha", fmt.Sprintf("%v defeats %v (%.2f°)", w.Winner, w.Loser, w.Separation))
	}

	if len(b.Yogas) > 0 {
		printSection("Yogas")
		rows = rows[:0]
		for _, y := range b.Yogas {
			rows = append(rows, []string{y.Name, string(y.Category), string(y.Strength), y.Rationale})
		}
		printTable([]string{"Yoga", "Category", "Strength", "Rationale"}, rows)
	}

	if len(b.Shadbala) > 0 {
		printSection("Shadbala")
		rows = rows[:0]
		for _, s := range b.Shadbala {
			ratio := fmt.Sprintf("%.2f", s.Ratio)
			if s.Weak {
				ratio = StyleDanger.Render(ratio)
			}
			rows = append(rows, []string{
				s.Graha.String(),
				fmt.Sprintf("%.1f", s.Sthana),
				fmt.Sprintf("%.1f", s.Dig),
				fmt.Sprintf("%.1f", s.Kala),
				fmt.Sprintf("%.1f", s.Chesta),
				fmt.Sprintf("%.1f", s.Naisargika),
				fmt.Sprintf("%.1f", s.Drik),
				fmt.Sprintf("%.1f", s.Total),
				ratio,
			})
		}
		printTable([]string{"Graha", "Sthana", "Dig", "Kala", "Chesta", "Naisargika", "Drik", "Total", "Ratio"}, rows)
	}

	if av := b.Ashtakavarga; av != nil {
		printSection("Sarvashtakavarga")
		cells := make([]string, 12)
		for i, n := range av.Sarva {
			cells[i] = fmt.Sprintf("%d", n)
		}
		headers := make([]string, 12)
		for i := range headers {
			headers[i] = astro.Sign(i + 1).String()[:3]
		}
		printTable(headers, [][]string{cells})
		printDetail("Total %d bindus", av.Grand())
	}

	if b.Vimshottari != nil {
		active := b.Vimshottari.Active(time.Now())
		if active.Maha != nil {
			printSection("Current dasha")
			printKeyValue("Vimshottari", activeChain(active.Maha, active.Antar, active.Pratyantar))
		}
	}
}

func joinGrahas(gs []astro.Graha) string {
	names := make([]string, len(gs))
	for i, g := range gs {
		names[i] = g.String()
	}
	return strings.Join(names, ", ")
}
