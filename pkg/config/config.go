// Package config loads kgview settings from a TOML file.
//
// The file lives at $XDG_CONFIG_HOME/kgview/config.toml by default. Every
// key is optional: missing keys keep the values from [Default], and the
// merged result is validated before use. Command-line flags override the
// file.
//
//	[simulation]
//	charge = -300
//
//	[viewport]
//	zoom_duration = "250ms"
//
//	[source]
//	url = "http://localhost:5000/api"
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	kgerrors "github.com/matzehuels/kgview/pkg/errors"
	"github.com/matzehuels/kgview/pkg/sim"
	"github.com/matzehuels/kgview/pkg/source"
	"github.com/matzehuels/kgview/pkg/view"
	"github.com/matzehuels/kgview/pkg/viewport"
)

// Config is the full settings file.
type Config struct {
	Simulation SimulationConfig `toml:"simulation"`
	Viewport   ViewportConfig   `toml:"viewport"`
	Source     SourceConfig     `toml:"source"`
	Cache      CacheConfig      `toml:"cache"`
	Metrics    MetricsConfig    `toml:"metrics"`
}

// SimulationConfig mirrors sim.Config.
type SimulationConfig struct {
	LinkDistance       float64 `toml:"link_distance" validate:"gt=0"`
	LinkStrength       float64 `toml:"link_strength" validate:"gte=0"` // 0 selects degree-based strength
	Charge             float64 `toml:"charge"`
	CollideRadius      float64 `toml:"collide_radius" validate:"gte=0"`
	CollideStrength    float64 `toml:"collide_strength" validate:"gte=0,lte=1"`
	Friction           float64 `toml:"friction" validate:"gt=0,lte=1"`
	AlphaDecay         float64 `toml:"alpha_decay" validate:"gt=0,lt=1"`
	AlphaMin           float64 `toml:"alpha_min" validate:"gt=0,lt=1"`
	BarnesHutThreshold int     `toml:"barnes_hut_threshold" validate:"gte=0"`
	Theta              float64 `toml:"theta" validate:"gt=0,lte=2"`
	Seed               uint64  `toml:"seed"` // 0 seeds from the clock
}

// ViewportConfig mirrors viewport.Config plus the fit padding.
type ViewportConfig struct {
	MinScale      float64  `toml:"min_scale" validate:"gt=0"`
	MaxScale      float64  `toml:"max_scale" validate:"gtfield=MinScale"`
	MaxFitScale   float64  `toml:"max_fit_scale" validate:"gt=0"`
	ZoomStep      float64  `toml:"zoom_step" validate:"gt=1"`
	ZoomDuration  Duration `toml:"zoom_duration" validate:"gte=0"`
	FitDuration   Duration `toml:"fit_duration" validate:"gte=0"`
	ResetDuration Duration `toml:"reset_duration" validate:"gte=0"`
	Padding       float64  `toml:"padding" validate:"gte=0"`
}

// SourceConfig selects where graphs come from.
type SourceConfig struct {
	URL       string   `toml:"url" validate:"omitempty,url"`
	Radius    int      `toml:"radius" validate:"gte=1"`
	Direction string   `toml:"direction" validate:"oneof=in out both"`
	Timeout   Duration `toml:"timeout" validate:"gt=0"`
	Retries   int      `toml:"retries" validate:"gte=1,lte=10"`
	Watch     bool     `toml:"watch"` // reload file sources on change
}

// CacheConfig selects the response cache backend.
type CacheConfig struct {
	Backend       string   `toml:"backend" validate:"oneof=file redis none"`
	Dir           string   `toml:"dir"` // empty uses the user cache directory
	TTL           Duration `toml:"ttl" validate:"gte=0"`
	RedisAddr     string   `toml:"redis_addr" validate:"required_if=Backend redis"`
	RedisPassword string   `toml:"redis_password"`
	RedisDB       int      `toml:"redis_db" validate:"gte=0"`
	Prefix        string   `toml:"prefix"`
}

// MetricsConfig enables the Prometheus endpoint.
type MetricsConfig struct {
	Addr string `toml:"addr" validate:"omitempty,hostname_port"` // empty disables
}

// Default returns the built-in settings.
func Default() *Config {
	s := sim.DefaultConfig()
	v := viewport.DefaultConfig()
	return &Config{
		Simulation: SimulationConfig{
			LinkDistance:       s.LinkDistance,
			LinkStrength:       s.LinkStrength,
			Charge:             s.Charge,
			CollideRadius:      s.CollideRadius,
			CollideStrength:    s.CollideStrength,
			Friction:           s.Friction,
			AlphaDecay:         s.AlphaDecay,
			AlphaMin:           s.AlphaMin,
			BarnesHutThreshold: s.BarnesHutThreshold,
			Theta:              s.Theta,
		},
		Viewport: ViewportConfig{
			MinScale:      v.MinScale,
			MaxScale:      v.MaxScale,
			MaxFitScale:   v.MaxFitScale,
			ZoomStep:      v.ZoomStep,
			ZoomDuration:  Duration(v.ZoomDuration),
			FitDuration:   Duration(v.FitDuration),
			ResetDuration: Duration(v.ResetDuration),
			Padding:       view.DefaultPadding,
		},
		Source: SourceConfig{
			URL:       source.DefaultBaseURL,
			Radius:    source.DefaultRadius,
			Direction: source.DirectionBoth,
			Timeout:   Duration(10 * time.Second),
			Retries:   3,
		},
		Cache: CacheConfig{
			Backend: "file",
			TTL:     Duration(24 * time.Hour),
			Prefix:  "kgview:",
		},
	}
}

// Dir returns the kgview config directory.
func Dir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "kgview")
}

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return filepath.Join(Dir(), "config.toml")
}

// Load reads path over the defaults and validates the result. An empty
// path reads DefaultPath. A missing file is not an error.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}
	cfg := Default()
	meta, err := toml.DecodeFile(path, cfg)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, kgerrors.Wrap(kgerrors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, kgerrors.New(kgerrors.ErrCodeInvalidConfig, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg to path, creating its directory.
func Save(path string, cfg *Config) error {
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(cfg)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("toml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks every section and reports all violations at once.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return kgerrors.Wrap(kgerrors.ErrCodeInvalidConfig, err, "validate config")
	}
	msgs := make([]string, len(verrs))
	for i, fe := range verrs {
		msgs[i] = describe(fe)
	}
	return kgerrors.New(kgerrors.ErrCodeInvalidConfig, "%s", strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	// Namespace is "Config.section.key".
	field := fe.Namespace()
	if _, rest, ok := strings.Cut(field, "."); ok {
		field = rest
	}
	switch fe.Tag() {
	case "required_if":
		return fmt.Sprintf("%s is required when %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %v", field, fe.Param(), fe.Value())
	case "gtfield":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "url", "hostname_port":
		return fmt.Sprintf("%s is not a valid %s: %v", field, fe.Tag(), fe.Value())
	default:
		return fmt.Sprintf("%s must satisfy %s=%s, got %v", field, fe.Tag(), fe.Param(), fe.Value())
	}
}

// Sim converts the simulation section.
func (c *Config) Sim() sim.Config {
	s := c.Simulation
	cfg := sim.DefaultConfig()
	cfg.LinkDistance = s.LinkDistance
	cfg.LinkStrength = s.LinkStrength
	cfg.Charge = s.Charge
	cfg.CollideRadius = s.CollideRadius
	cfg.CollideStrength = s.CollideStrength
	cfg.Friction = s.Friction
	cfg.AlphaDecay = s.AlphaDecay
	cfg.AlphaMin = s.AlphaMin
	cfg.BarnesHutThreshold = s.BarnesHutThreshold
	cfg.Theta = s.Theta
	cfg.Seed = s.Seed
	return cfg
}

// View converts the viewport section.
func (c *Config) View() viewport.Config {
	v := c.Viewport
	return viewport.Config{
		MinScale:      v.MinScale,
		MaxScale:      v.MaxScale,
		MaxFitScale:   v.MaxFitScale,
		ZoomStep:      v.ZoomStep,
		ZoomDuration:  time.Duration(v.ZoomDuration),
		FitDuration:   time.Duration(v.FitDuration),
		ResetDuration: time.Duration(v.ResetDuration),
	}
}

// CacheDir returns the file cache directory, defaulting to the user cache
// directory.
func (c *Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "kgview"), nil
}

// Duration is a time.Duration written as a string such as "250ms" in TOML.
type Duration time.Duration

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// D returns d as a time.Duration.
func (d Duration) D() time.Duration { return time.Duration(d) }
