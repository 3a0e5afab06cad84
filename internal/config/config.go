package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/lehigh-university-libraries/printlayout/internal/canvas"
	"github.com/lehigh-university-libraries/printlayout/internal/pricing"
	"github.com/lehigh-university-libraries/printlayout/internal/units"
)

// ErrInvalid is returned for configuration that cannot drive a canvas
var ErrInvalid = errors.New("invalid configuration")

// Config holds every tunable of the layout and pricing loop
type Config struct {
	Canvas         canvas.Surface `yaml:"canvas" toml:"canvas"`
	Snap           float64        `yaml:"snap" toml:"snap"`
	CmPerPixel     float64        `yaml:"cm_per_pixel" toml:"cm_per_pixel"`
	Footprint      float64        `yaml:"footprint" toml:"footprint"`
	BadgeOffsetX   float64        `yaml:"badge_offset_x" toml:"badge_offset_x"`
	MinScale       float64        `yaml:"min_scale" toml:"min_scale"`
	Pricing        pricing.Engine `yaml:"pricing" toml:"pricing"`
	MaxUploadBytes int64          `yaml:"max_upload_bytes" toml:"max_upload_bytes"`
	Preload        []string       `yaml:"preload" toml:"preload"`
	Port           string         `yaml:"port" toml:"port"`
}

// Default returns the stock configuration
func Default() Config {
	opts := canvas.DefaultOptions()
	return Config{
		Canvas:         canvas.Surface{Width: 800, Height: 600},
		Snap:           opts.Snap,
		CmPerPixel:     units.DefaultCmPerPixel,
		Footprint:      opts.Footprint,
		BadgeOffsetX:   opts.BadgeOffsetX,
		MinScale:       opts.MinScale,
		Pricing:        pricing.NewDefaultEngine(),
		MaxUploadBytes: 10 * 1024 * 1024,
		Port:           "8888",
	}
}

// Load builds the configuration from defaults, the optional file at path and
// then the environment, in that order of precedence.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return Config{}, err
		}
		slog.Debug("Loaded config file", "path", path)
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, c); err != nil {
			return fmt.Errorf("failed to parse YAML config: %w", err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, c); err != nil {
			return fmt.Errorf("failed to parse TOML config: %w", err)
		}
	default:
		return fmt.Errorf("unsupported config format: %s (supported: .yaml, .yml, .toml)", ext)
	}
	return nil
}

// ApplyEnv overrides fields from PRINTLAYOUT_* variables
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	ints := map[string]*int{
		"PRINTLAYOUT_CANVAS_WIDTH":  &c.Canvas.Width,
		"PRINTLAYOUT_CANVAS_HEIGHT": &c.Canvas.Height,
	}
	for key, dst := range ints {
		if v, ok := lookup(key); ok && v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%w: %s=%q is not an integer", ErrInvalid, key, v)
			}
			*dst = n
		}
	}

	floats := map[string]*float64{
		"PRINTLAYOUT_SNAP":             &c.Snap,
		"PRINTLAYOUT_CM_PER_PIXEL":     &c.CmPerPixel,
		"PRINTLAYOUT_PRICE_PER_SQUARE": &c.Pricing.PricePerSquare,
		"PRINTLAYOUT_SQUARE_SIZE":      &c.Pricing.SquareSize,
	}
	for key, dst := range floats {
		if v, ok := lookup(key); ok && v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("%w: %s=%q is not a number", ErrInvalid, key, v)
			}
			*dst = f
		}
	}

	if v, ok := lookup("PRINTLAYOUT_PRELOAD"); ok {
		c.Preload = nil
		for _, p := range strings.Split(v, ",") {
			if p = strings.TrimSpace(p); p != "" {
				c.Preload = append(c.Preload, p)
			}
		}
	}

	if v, ok := lookup("PRINTLAYOUT_PORT"); ok && v != "" {
		c.Port = v
	}
	return nil
}

// Validate rejects settings the canvas cannot work with
func (c Config) Validate() error {
	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		return fmt.Errorf("%w: canvas must be positive, got %dx%d", ErrInvalid, c.Canvas.Width, c.Canvas.Height)
	}
	if c.Snap < 0 {
		return fmt.Errorf("%w: snap must not be negative", ErrInvalid)
	}
	if c.CmPerPixel <= 0 {
		return fmt.Errorf("%w: cm_per_pixel must be positive", ErrInvalid)
	}
	if c.Footprint <= 0 {
		return fmt.Errorf("%w: footprint must be positive", ErrInvalid)
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("%w: max_upload_bytes must be positive", ErrInvalid)
	}
	if err := c.Pricing.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

// CanvasOptions returns the controller options described by c
func (c Config) CanvasOptions() canvas.Options {
	return canvas.Options{
		Footprint:    c.Footprint,
		Snap:         c.Snap,
		BadgeOffsetX: c.BadgeOffsetX,
		MinScale:     c.MinScale,
	}
}

// Converter returns the unit converter described by c
func (c Config) Converter() units.Converter {
	return units.NewConverter(c.CmPerPixel)
}
