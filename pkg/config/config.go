// Package config loads jyotish settings from a TOML file.
//
// Settings resolve in three layers: built-in defaults, then the file, then
// command-line flags (applied by the caller on the returned [Config]).
//
// # File Location
//
// The default file is $XDG_CONFIG_HOME/jyotish/config.toml, falling back to
// ~/.config/jyotish/config.toml. A missing default file is not an error; a
// missing explicit path is.
//
// # Example
//
//	[chart]
//	ayanamsha = "raman"
//	node_mode = "true"
//	divisions = [1, 9, 10, 60]
//
//	[ephemeris]
//	url = "https://ephemeris.example.com"
//	timeout = "5s"
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//
//	[store]
//	driver = "sqlite"
//	dsn = "charts.db"
package config

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/jyotish/pkg/ayanamsha"
	"github.com/matzehuels/jyotish/pkg/cache"
	"github.com/matzehuels/jyotish/pkg/errors"
	"github.com/matzehuels/jyotish/pkg/pipeline"
	"github.com/matzehuels/jyotish/pkg/sidereal"
)

const (
	appName  = "jyotish"
	fileName = "config.toml"
)

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Config is the complete settings tree.
type Config struct {
	Chart     ChartConfig     `toml:"chart"`
	Ephemeris EphemerisConfig `toml:"ephemeris"`
	Cache     CacheConfig     `toml:"cache"`
	Store     StoreConfig     `toml:"store"`
}

// ChartConfig mirrors the serialized fields of [pipeline.Options].
type ChartConfig struct {
	Ayanamsha      string  `toml:"ayanamsha"`
	NodeMode       string  `toml:"node_mode"`
	Divisions      []int   `toml:"divisions"`
	DashaHorizon   int     `toml:"dasha_horizon"`
	PolarThreshold float64 `toml:"polar_threshold"`
}

// EphemerisConfig selects the position provider. An empty URL means the
// built-in analytic model.
type EphemerisConfig struct {
	URL     string        `toml:"url"`
	APIKey  string        `toml:"api_key"`
	Timeout time.Duration `toml:"timeout"`
	Retries int           `toml:"retries"`
}

type CacheConfig struct {
	Backend       string        `toml:"backend"`
	Dir           string        `toml:"dir"`
	RedisAddr     string        `toml:"redis_addr"`
	RedisPassword string        `toml:"redis_password"`
	RedisDB       int           `toml:"redis_db"`
	TTL           time.Duration `toml:"ttl"`
}

// StoreConfig selects the record store used by "chart --save".
type StoreConfig struct {
	Driver string `toml:"driver"`
	DSN    string `toml:"dsn"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Chart: ChartConfig{
			Ayanamsha:      ayanamsha.Default,
			NodeMode:       string(sidereal.MeanNode),
			DashaHorizon:   pipeline.DefaultDashaHorizon,
			PolarThreshold: sidereal.DefaultPolarThreshold,
		},
		Ephemeris: EphemerisConfig{
			Timeout: pipeline.DefaultEphemerisTimeout,
			Retries: cache.DefaultBackoff.Attempts,
		},
		Cache: CacheConfig{
			Backend: BackendFile,
			TTL:     cache.ChartTTL,
		},
		Store: StoreConfig{
			Driver: "sqlite",
		},
	}
}

// Path returns the default config file location.
func Path() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, fileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, fileName), nil
}

// Load reads path over the defaults. An empty path reads the default
// location and tolerates its absence.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		p, err := Path()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, errors.New(errors.ErrCodeInvalidConfig, "config %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	return cfg, cfg.Validate()
}

// Decode parses TOML from r over the defaults.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	return cfg, cfg.Validate()
}

// Encode writes c as TOML.
func (c Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// Validate checks the settings that are not checked by
// [pipeline.Options.ValidateAndSetDefaults].
func (c Config) Validate() error {
	switch c.Cache.Backend {
	case BackendFile, BackendNone:
	case BackendRedis:
		if c.Cache.RedisAddr == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache backend %q requires redis_addr", BackendRedis)
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "cache backend %q must be %q, %q or %q", c.Cache.Backend, BackendFile, BackendRedis, BackendNone)
	}
	switch c.Store.Driver {
	case "sqlite", "postgres":
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "store driver %q must be sqlite or postgres", c.Store.Driver)
	}
	if c.Ephemeris.Timeout < 0 || c.Cache.TTL < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "durations must not be negative")
	}
	if c.Ephemeris.Retries < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "ephemeris retries %d must not be negative", c.Ephemeris.Retries)
	}
	return nil
}

// Options converts the chart section into pipeline options.
func (c Config) Options() pipeline.Options {
	return pipeline.Options{
		Ayanamsha:        c.Chart.Ayanamsha,
		NodeMode:         sidereal.NodeMode(c.Chart.NodeMode),
		Divisions:        append([]int(nil), c.Chart.Divisions...),
		DashaHorizon:     c.Chart.DashaHorizon,
		PolarThreshold:   c.Chart.PolarThreshold,
		EphemerisTimeout: c.Ephemeris.Timeout,
	}
}

// StoreDSN returns the store DSN, defaulting sqlite to a file in the
// user's data directory.
func (c Config) StoreDSN() (string, error) {
	if c.Store.DSN != "" || c.Store.Driver != "sqlite" {
		return c.Store.DSN, nil
	}
	dir := os.Getenv("XDG_DATA_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(home, ".local", "share")
	}
	dir = filepath.Join(dir, appName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return filepath.Join(dir, "charts.db"), nil
}
