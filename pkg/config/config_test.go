package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/jyotish/pkg/errors"
	"github.com/matzehuels/jyotish/pkg/sidereal"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[chart]
ayanamsha = "raman"
node_mode = "true"
divisions = [1, 9, 60]

[ephemeris]
url = "http://localhost:8080"
timeout = "5s"

[cache]
backend = "none"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}
	if cfg.Chart.Ayanamsha != "raman" || cfg.Chart.NodeMode != "true" {
		t.Errorf("chart = %+v", cfg.Chart)
	}
	if got := cfg.Chart.DashaHorizon; got != 120 {
		t.Errorf("DashaHorizon = %d, want default 120", got)
	}
	if cfg.Ephemeris.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v, want 5s", cfg.Ephemeris.Timeout)
	}
	if cfg.Cache.Backend != BackendNone || cfg.Store.Driver != "sqlite" {
		t.Errorf("cache/store = %+v %+v", cfg.Cache, cfg.Store)
	}

	opts := cfg.Options()
	if opts.NodeMode != sidereal.TrueNode || len(opts.Divisions) != 3 {
		t.Errorf("Options() = %+v", opts)
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Errorf("ValidateAndSetDefaults() = %v", err)
	}
}

func TestLoadMissing(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(default) = %v", err)
	}
	if cfg.Chart.Ayanamsha != "lahiri" {
		t.Errorf("Ayanamsha = %q", cfg.Chart.Ayanamsha)
	}

	_, err = Load(filepath.Join(t.TempDir(), "absent.toml"))
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("Load(absent) = %v, want INVALID_CONFIG", err)
	}
}

func TestLoadRejects(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"syntax", "[chart\n", "parse"},
		{"unknown key", "[chart]\nayanamsa = \"raman\"\n", "chart.ayanamsa"},
		{"backend", "[cache]\nbackend = \"memcached\"\n", "memcached"},
		{"redis without addr", "[cache]\nbackend = \"redis\"\n", "redis_addr"},
		{"driver", "[store]\ndriver = \"mysql\"\n", "mysql"},
		{"retries", "[ephemeris]\nretries = -1\n", "retries"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Fatalf("Load() = %v, want INVALID_CONFIG", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Load() = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	got, err := Path()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join("/tmp/xdg", "jyotish", "config.toml"); got != want {
		t.Errorf("Path() = %q, want %q", got, want)
	}
}

func TestEncodeDecode(t *testing.T) {
	cfg := Default()
	cfg.Chart.Divisions = []int{1, 9}
	cfg.Cache.Backend = BackendRedis
	cfg.Cache.RedisAddr = "localhost:6379"

	var buf bytes.Buffer
	if err := cfg.Encode(&buf); err != nil {
		t.Fatalf("Encode() = %v", err)
	}
	got, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode() = %v", err)
	}
	if got.Cache.RedisAddr != cfg.Cache.RedisAddr || got.Cache.TTL != cfg.Cache.TTL || len(got.Chart.Divisions) != 2 {
		t.Errorf("Decode(Encode()) = %+v, want %+v", got, cfg)
	}
}

func TestStoreDSN(t *testing.T) {
	data := t.TempDir()
	t.Setenv("XDG_DATA_HOME", data)

	cfg := Default()
	got, err := cfg.StoreDSN()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(data, "jyotish", "charts.db"); got != want {
		t.Errorf("StoreDSN() = %q, want %q", got, want)
	}

	cfg.Store = StoreConfig{Driver: "postgres", DSN: "postgres://localhost/jyotish"}
	if got, _ := cfg.StoreDSN(); got != cfg.Store.DSN {
		t.Errorf("StoreDSN(postgres) = %q", got)
	}
}
