package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/jyotish/pkg/errors"
	"github.com/matzehuels/jyotish/pkg/house"
	"github.com/matzehuels/jyotish/pkg/render/aspectgraph"
)

// Graph output formats.
const (
	formatDOT = "dot"
	formatSVG = "svg"
	formatPNG = "png"
)

type graphOpts struct {
	birth    birthFlags
	chart    chartFlags
	output   string
	format   string
	division int
	fullOnly bool
	detailed bool
}

// graphCommand creates the aspect graph export command.
func (c *CLI) graphCommand() *cobra.Command {
	opts := graphOpts{}

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Export the aspect graph of a chart",
		Long: `Export the graha aspect graph of a chart frame as Graphviz DOT, SVG or PNG.
The format follows the --output extension unless --format is given; without
--output DOT is written to stdout.`,
		Example: `  jyotish graph --date 1990-05-17T04:30:00Z --lat 28.61 --lon 77.21 -o aspects.svg
  jyotish graph --date 1990-05-17T04:30:00Z --lat 28.61 --lon 77.21 --full-only | dot -Tpng > aspects.png`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGraph(cmd, &opts)
		},
	}

	opts.birth.register(cmd)
	opts.chart.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: dot, svg or png")
	cmd.Flags().IntVarP(&opts.division, "division", "d", 1, "divisional chart to draw")
	cmd.Flags().BoolVar(&opts.fullOnly, "full-only", false, "draw only full aspects")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "label nodes with sign, degree and nakshatra")

	return cmd
}

func (c *CLI) runGraph(cmd *cobra.Command, opts *graphOpts) error {
	ctx := cmd.Context()
	format, err := graphFormat(opts.format, opts.output)
	if err != nil {
		return err
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
	v := bundle.Divisional(opts.division)
	if v == nil {
		return errors.New(errors.ErrCodeUnsupportedDivision, "division D%d was not computed; pass --divisions %d", opts.division, opts.division)
	}
	g := bundle.Aspects
	if opts.division != 1 {
		g = house.Aspects(v)
	}

	dot := aspectgraph.ToDOT(v, g, aspectgraph.Options{
		FullOnly: opts.fullOnly,
		Detailed: opts.detailed,
		Title:    fmt.Sprintf("D%d %s", opts.division, bundle.Birth.Name),
	})

	var data []byte
	switch format {
	case formatDOT:
		data = []byte(dot)
	case formatSVG:
		data, err = aspectgraph.RenderSVG(ctx, dot)
	case formatPNG:
		data, err = aspectgraph.RenderPNG(ctx, dot)
	}
	if err != nil {
		return err
	}

	if opts.output == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(opts.output, data, 0o644); err != nil {
		return err
	}
	printSuccess("Wrote %s aspect graph", strings.ToUpper(format))
	printFile(opts.output)
	return nil
}

// graphFormat resolves the output format from the flag or the file
// extension.
func graphFormat(format, output string) (string, error) {
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(output)), ".")
		if format == "" || format == "gv" {
			format = formatDOT
		}
	}
	switch format {
	case formatDOT, formatSVG, formatPNG:
		return format, nil
	}
	return "", errors.New(errors.ErrCodeInvalidInput, "graph format %q must be dot, svg or png", format)
}
