package cli

import (
	"io"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/jyotish/pkg/config"
	"github.com/matzehuels/jyotish/pkg/errors"
	"github.com/matzehuels/jyotish/pkg/sidereal"
)

func TestParseInstant(t *testing.T) {
	kolkata, _ := time.LoadLocation("Asia/Kolkata")
	tests := []struct {
		name string
		in   string
		tz   string
		want time.Time
	}{
		{"rfc3339", "1990-05-17T10:00:00+05:30", "UTC", time.Date(1990, 5, 17, 4, 30, 0, 0, time.UTC)},
		{"local minutes", "1990-05-17T10:00", "Asia/Kolkata", time.Date(1990, 5, 17, 10, 0, 0, 0, kolkata)},
		{"space separated", "1990-05-17 04:30:15", "UTC", time.Date(1990, 5, 17, 4, 30, 15, 0, time.UTC)},
		{"date only", "1990-05-17", "UTC", time.Date(1990, 5, 17, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseInstant(tt.in, tt.tz)
			if err != nil {
				t.Fatalf("parseInstant(%q, %q) error: %v", tt.in, tt.tz, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("parseInstant(%q, %q) = %v, want %v", tt.in, tt.tz, got, tt.want)
			}
		})
	}
}

func TestParseInstantErrors(t *testing.T) {
	if _, err := parseInstant("17/05/1990", "UTC"); !errors.Is(err, errors.ErrCodeInvalidInstant) {
		t.Errorf("parseInstant(bad date) = %v, want INVALID_INSTANT", err)
	}
	if _, err := parseInstant("1990-05-17", "Mars/Olympus"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("parseInstant(bad zone) = %v, want INVALID_INPUT", err)
	}
}

func TestBirthParamsValidates(t *testing.T) {
	f := birthFlags{date: "1990-05-17T04:30", tz: "UTC", lat: 95}
	if _, err := f.params(); err == nil {
		t.Error("params() accepted latitude 95")
	}
}

func TestOptionsLayering(t *testing.T) {
	c := New(io.Discard, LogInfo)
	c.cfg = config.Default()
	c.cfg.Chart.Ayanamsha = "raman"
	c.cfg.Chart.DashaHorizon = 80

	var f chartFlags
	cmd := &cobra.Command{Use: "test"}
	f.register(cmd)
	if err := cmd.ParseFlags([]string{"--nodes", "true", "--divisions", "9,60"}); err != nil {
		t.Fatal(err)
	}

	opts := c.options(cmd, &f)
	if opts.Ayanamsha != "raman" || opts.DashaHorizon != 80 {
		t.Errorf("config values lost: %+v", opts)
	}
	if opts.NodeMode != sidereal.TrueNode {
		t.Errorf("NodeMode = %q, want flag value", opts.NodeMode)
	}
	if len(opts.Divisions) != 2 || opts.Divisions[1] != 60 {
		t.Errorf("Divisions = %v, want [9 60]", opts.Divisions)
	}
}
