package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/jyotish/pkg/astro"
	"github.com/matzehuels/jyotish/pkg/transit"
)

type transitOpts struct {
	birth birthFlags
	chart chartFlags
	at    string
	json  bool
}

// transitCommand creates the transit overlay command.
func (c *CLI) transitCommand() *cobra.Command {
	opts := transitOpts{}

	cmd := &cobra.Command{
		Use:   "transit",
		Short: "Overlay the sky at an instant onto a natal chart",
		Long: `Compute the transiting positions at an instant and read them against the
natal chart: houses from the ascendant and the Moon, vedha obstructions,
ashtakavarga bindus, Sade Sati and the nodal axis.`,
		Example: `  jyotish transit --date 1990-05-17T04:30:00Z --lat 28.61 --lon 77.21
  jyotish transit --date 1990-05-17T04:30:00Z --lat 28.61 --lon 77.21 --at 2025-03-29T12:00`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runTransit(cmd, &opts)
		},
	}

	opts.birth.register(cmd)
	opts.chart.register(cmd)
	cmd.Flags().StringVar(&opts.at, "at", "", "transit instant (default now)")
	cmd.Flags().BoolVar(&opts.json, "json", false, "write the overlay as JSON to stdout")

	return cmd
}

func (c *CLI) runTransit(cmd *cobra.Command, opts *transitOpts) error {
	ctx := cmd.Context()
	at := time.Now()
	if opts.at != "" {
		var err error
		if at, err = parseInstant(opts.at, opts.birth.tz); err != nil {
			return err
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

	ov, err := runner.OverlayTransit(ctx, bundle, at)
	if err != nil {
		return err
	}

	if opts.json {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(ov)
	}
	printOverlay(ov)
	return nil
}

func printOverlay(ov *transit.Overlay) {
	fmt.Println(StyleTitle.Render("Transits at " + ov.Snapshot.Instant.Format(time.RFC3339)))

	rows := make([][]string, 0, astro.NumGrahas)
	for _, p := range ov.Placements {
		state := StyleDim.Render("unfavourable")
		switch {
		case p.Favourable && p.Obstructed:
			state = StyleWarning.Render("obstructed")
		case p.Favourable:
			state = StyleSuccess.Render("favourable")
		}
		bindus := ""
		if p.Bindus != nil {
			bindus = fmt.Sprintf("%d / %d", p.Bindus.Bhinna, p.Bindus.Sarva)
		}
		name := p.Graha.String()
		if p.Retrograde {
			name += " (R)"
		}
		rows = append(rows, []string{
			name,
			fmt.Sprintf("%s %s", p.Sign, astro.FormatDMS(p.Longitude-float64(p.Sign-1)*30)),
			fmt.Sprintf("%d", p.House),
			fmt.Sprintf("%d", p.FromMoon),
			state,
			bindus,
			contactsOf(p),
		})
	}
	printTable([]string{"Graha", "Position", "House", "From Moon", "Vedha", "Bindus", "Contacts"}, rows)

	for _, v := range ov.Vedha {
		printDetail("%v in %d from the Moon is obstructed by %v in %d", v.Obstructed, v.Favourable, v.Obstructor, v.Obstructing)
	}

	printSection("Periods")
	if ov.SadeSati.Active {
		printKeyValue("Sade Sati", StyleWarning.Render(string(ov.SadeSati.Phase)))
	} else {
		printKeyValue("Sade Sati", fmt.Sprintf("inactive (Saturn %d from the Moon)", ov.SadeSati.FromMoon))
	}
	j := ov.Jupiter
	printKeyValue("Jupiter", fmt.Sprintf("%d from the Moon%s, %d from the ascendant%s",
		j.FromMoon, favourMark(j.FavourableFromMoon), j.FromAscendant, favourMark(j.FavourableFromLagna)))
	printKeyValue("Nodal axis", fmt.Sprintf("houses %d-%d", ov.Nodes.Houses[0], ov.Nodes.Houses[1]))
}

func contactsOf(p transit.Placement) string {
	var parts []string
	for _, c := range p.Conjunctions {
		parts = append(parts, fmt.Sprintf("☌ %v", c.Natal))
	}
	for _, a := range p.Aspects {
		parts = append(parts, fmt.Sprintf("%d→ %v", a.Offset, a.Natal))
	}
	return strings.Join(parts, ", ")
}

func favourMark(ok bool) string {
	if ok {
		return " " + StyleSuccess.Render(iconSuccess)
	}
	return ""
}
