package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/jyotish/pkg/muhurta"
)

// defaultMuhurtaDays is how many days are compared when no --at is given.
const defaultMuhurtaDays = 7

type muhurtaOpts struct {
	birth birthFlags
	chart chartFlags
	event string
	at    []string
	json  bool
}

// muhurtaCommand creates the electional timing command.
func (c *CLI) muhurtaCommand() *cobra.Command {
	opts := muhurtaOpts{}

	cmd := &cobra.Command{
		Use:   "muhurta",
		Short: "Rank candidate instants for an undertaking",
		Long: `Score how well each candidate instant suits an event for the native:
the transiting Moon from the natal Moon, the weekday lord, the Moon's
nakshatra, transit contacts and ashtakavarga support. Without --at the
current time of day is compared over the next week.`,
		Example: `  jyotish muhurta --date 1990-05-17T04:30:00Z --lat 28.61 --lon 77.21 --event travel
  jyotish muhurta --date 1990-05-17T04:30:00Z --lat 28.61 --lon 77.21 --event ceremony \
    --at 2025-04-10T09:00 --at 2025-04-14T09:00`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runMuhurta(cmd, &opts)
		},
	}

	opts.birth.register(cmd)
	opts.chart.register(cmd)
	cmd.Flags().StringVar(&opts.event, "event", string(muhurta.General), "event kind: "+strings.Join(eventNames(), ", "))
	cmd.Flags().StringArrayVar(&opts.at, "at", nil, "candidate instant, repeatable (default the next week)")
	cmd.Flags().BoolVar(&opts.json, "json", false, "write the evaluations as JSON to stdout")

	return cmd
}

func eventNames() []string {
	var out []string
	for _, e := range muhurta.Events() {
		out = append(out, string(e))
	}
	return out
}

func (c *CLI) runMuhurta(cmd *cobra.Command, opts *muhurtaOpts) error {
	ctx := cmd.Context()
	event, err := muhurta.ParseEvent(opts.event)
	if err != nil {
		return err
	}

	var instants []time.Time
	for _, s := range opts.at {
		at, err := parseInstant(s, opts.birth.tz)
		if err != nil {
			return err
		}
		instants = append(instants, at)
	}
	if len(instants) == 0 {
		now := time.Now()
		for d := range defaultMuhurtaDays {
			instants = append(instants, now.AddDate(0, 0, d))
		}
	}

	runner, err := c.newRunner(ctx, opts.chart.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	bundle, _, err := c.computeChart(ctx, cmd, runner, &opts.birth, &opts.chart)
	if err != nil {
		return err
	}

	evals, err := runner.EvaluateMuhurta(ctx, bundle, instants, event)
	if err != nil {
		return err
	}

	if opts.json {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(evals)
	}
	printMuhurta(event, evals)
	return nil
}

func printMuhurta(event muhurta.Event, evals []*muhurta.Evaluation) {
	fmt.Println(StyleTitle.Render(fmt.Sprintf("Muhurta for %s", event)))

	rows := make([][]string, 0, len(evals))
	for i, e := range evals {
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			e.Instant.Format("2006-01-02 15:04 MST"),
			e.Weekday.String(),
			fmt.Sprintf("%.1f", e.Total),
			labelStyle(e.Label),
			fmt.Sprintf("%s, %s (%d)", e.Moon.Nakshatra, e.Moon.Sign, e.Moon.FromMoon),
		})
	}
	printTable([]string{"#", "Instant", "Day", "Score", "Label", "Moon"}, rows)

	best := evals[0]
	printSection("Best instant")
	printKeyValue("Scores", fmt.Sprintf("gochara %.1f, vara %.1f, nakshatra %.1f, transit %.1f, ashtakavarga %.1f",
		best.Scores.Gochara, best.Scores.Vara, best.Scores.Nakshatra, best.Scores.Transit, best.Scores.Ashtakavarga))
	for _, f := range best.Factors {
		printDetail("%s", f)
	}
	for _, r := range best.Recommendations {
		printKeyValue("Advice", r)
	}
}

func labelStyle(l muhurta.Label) string {
	switch l {
	case muhurta.HighlyAuspicious, muhurta.Auspicious:
		return StyleSuccess.Render(string(l))
	case muhurta.Moderate:
		return StyleValue.Render(string(l))
	case muhurta.Challenging:
		return StyleWarning.Render(string(l))
	}
	return StyleDanger.Render(string(l))
}
