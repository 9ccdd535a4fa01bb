package cli

import (
	"context"
	"os"
	"time"
	_ "time/tzdata" // embedded zone database for --tz

	"github.com/spf13/cobra"

	"github.com/matzehuels/jyotish/pkg/errors"
	"github.com/matzehuels/jyotish/pkg/pipeline"
	"github.com/matzehuels/jyotish/pkg/sidereal"
)

// =============================================================================
// Birth Flags
// =============================================================================

// birthFlags collects the birth data shared by chart-based commands.
type birthFlags struct {
	name string
	date string
	tz   string
	lat  float64
	lon  float64
}

func (f *birthFlags) register(cmd *cobra.Command) { f.registerPrefixed(cmd, "") }

// registerPrefixed registers the birth flags as --<prefix>date and so on,
// for commands that read a second chart.
func (f *birthFlags) registerPrefixed(cmd *cobra.Command, prefix string) {
	cmd.Flags().StringVar(&f.name, prefix+"name", "", "name recorded with the chart")
	cmd.Flags().StringVar(&f.date, prefix+"date", "", "birth date and time, e.g. 1990-05-17T10:00 or RFC 3339 (required)")
	cmd.Flags().StringVar(&f.tz, prefix+"tz", "UTC", "IANA time zone for a --"+prefix+"date without an offset")
	cmd.Flags().Float64Var(&f.lat, prefix+"lat", 0, "birth latitude in degrees, north positive")
	cmd.Flags().Float64Var(&f.lon, prefix+"lon", 0, "birth longitude in degrees, east positive")
	_ = cmd.MarkFlagRequired(prefix + "date")
}

func (f *birthFlags) params() (pipeline.BirthParams, error) {
	instant, err := parseInstant(f.date, f.tz)
	if err != nil {
		return pipeline.BirthParams{}, err
	}
	b := pipeline.BirthParams{Name: f.name, Instant: instant, Latitude: f.lat, Longitude: f.lon}
	return b, b.Validate()
}

// localLayouts are accepted date forms without a zone offset.
var localLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// parseInstant parses s as RFC 3339, or as local time in zone tz.
func parseInstant(s, tz string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.Time{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "unknown time zone %q", tz)
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.New(errors.ErrCodeInvalidInstant, "cannot parse date %q", s)
}

// =============================================================================
// Chart Flags
// =============================================================================

// chartFlags override the [chart] config section.
type chartFlags struct {
	ayanamsha string
	nodes     string
	divisions []int
	horizon   int
	noCache   bool
	refresh   bool
}

func (f *chartFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.ayanamsha, "ayanamsha", "", "ayanamsha model (default from config)")
	cmd.Flags().StringVar(&f.nodes, "nodes", "", "lunar node mode: mean or true")
	cmd.Flags().IntSliceVar(&f.divisions, "divisions", nil, "divisional charts to compute, e.g. 9,10,60")
	cmd.Flags().IntVar(&f.horizon, "horizon", 0, "dasha horizon in years")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "recompute even if the chart is cached")
}

// options layers the flags that were set over the configured defaults.
func (c *CLI) options(cmd *cobra.Command, f *chartFlags) pipeline.Options {
	opts := c.cfg.Options()
	flags := cmd.Flags()
	if flags.Changed("ayanamsha") {
		opts.Ayanamsha = f.ayanamsha
	}
	if flags.Changed("nodes") {
		opts.NodeMode = sidereal.NodeMode(f.nodes)
	}
	if flags.Changed("divisions") {
		opts.Divisions = f.divisions
	}
	if flags.Changed("horizon") {
		opts.DashaHorizon = f.horizon
	}
	opts.Refresh = f.refresh
	return opts
}

// computeChart runs the pipeline for the birth and chart flags of cmd.
func (c *CLI) computeChart(ctx context.Context, cmd *cobra.Command, runner *pipeline.Runner, bf *birthFlags, cf *chartFlags) (*pipeline.Bundle, pipeline.Stats, error) {
	birth, err := bf.params()
	if err != nil {
		return nil, pipeline.Stats{}, err
	}

	spin := startSpinner(ctx, os.Stderr, "Computing chart...")
	bundle, stats, err := runner.ComputeChartWithStats(ctx, birth, c.options(cmd, cf))
	spin.stop()
	if err != nil {
		return nil, stats, err
	}
	c.Logger.Debug("computed chart", "cached", stats.CacheHit, "duration", stats.Duration, "precision", stats.Precision)
	return bundle, stats, nil
}
