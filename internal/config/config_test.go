package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func env(values map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := values[k]
		return v, ok
	}
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 800, cfg.Canvas.Width)
	assert.Equal(t, 600, cfg.Canvas.Height)
	assert.Equal(t, 10.0, cfg.Snap)
	assert.Equal(t, 0.5, cfg.CmPerPixel)
	assert.Equal(t, 100.0, cfg.Footprint)
	assert.Equal(t, -25.0, cfg.BadgeOffsetX)
	assert.Equal(t, 25.0, cfg.Pricing.PricePerSquare)
	assert.Equal(t, 0.25, cfg.Pricing.SquareSize)
	assert.Equal(t, "8888", cfg.Port)
}

func TestLoadYAMLOverridesDefaults(t *testing.T) {
	path := writeFile(t, "printlayout.yaml", `
canvas:
  width: 1200
  height: 900
snap: 20
pricing:
  price_per_square: 30
  square_size: 0.25
  step: 25
  minimum: 50
preload:
  - assets/logo.png
`)

	t.Setenv("PRINTLAYOUT_SNAP", "")
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 1200, cfg.Canvas.Width)
	assert.Equal(t, 900, cfg.Canvas.Height)
	assert.Equal(t, 20.0, cfg.Snap)
	assert.Equal(t, 30.0, cfg.Pricing.PricePerSquare)
	assert.Equal(t, 50.0, cfg.Pricing.Minimum)
	assert.Equal(t, []string{"assets/logo.png"}, cfg.Preload)
	// untouched keys keep their defaults
	assert.Equal(t, 0.5, cfg.CmPerPixel)
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "printlayout.toml", `
snap = 5.0
cm_per_pixel = 0.25

[canvas]
width = 640
height = 480

[pricing]
price_per_square = 25.0
square_size = 0.5
step = 10.0
minimum = 10.0
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 640, cfg.Canvas.Width)
	assert.Equal(t, 5.0, cfg.Snap)
	assert.Equal(t, 0.25, cfg.CmPerPixel)
	assert.Equal(t, 0.5, cfg.Pricing.SquareSize)
	assert.Equal(t, 10.0, cfg.Pricing.Step)
}

func TestLoadRejectsUnknownExtension(t *testing.T) {
	path := writeFile(t, "printlayout.ini", "snap=1")
	_, err := Load(path)
	assert.ErrorContains(t, err, "unsupported config format")
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	path := writeFile(t, "bad.yaml", "canvas:\n  width: 0\n  height: 10\n")
	_, err := Load(path)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestApplyEnvTakesPrecedence(t *testing.T) {
	cfg := Default()
	cfg.Snap = 20

	err := cfg.ApplyEnv(env(map[string]string{
		"PRINTLAYOUT_CANVAS_WIDTH":     "1024",
		"PRINTLAYOUT_SNAP":             "15",
		"PRINTLAYOUT_PRICE_PER_SQUARE": "40",
		"PRINTLAYOUT_PRELOAD":          "a.png, ,https://example.org/b.png",
		"PRINTLAYOUT_PORT":             "9000",
	}))
	require.NoError(t, err)

	assert.Equal(t, 1024, cfg.Canvas.Width)
	assert.Equal(t, 600, cfg.Canvas.Height)
	assert.Equal(t, 15.0, cfg.Snap)
	assert.Equal(t, 40.0, cfg.Pricing.PricePerSquare)
	assert.Equal(t, []string{"a.png", "https://example.org/b.png"}, cfg.Preload)
	assert.Equal(t, "9000", cfg.Port)
}

func TestApplyEnvRejectsGarbage(t *testing.T) {
	cfg := Default()
	assert.ErrorIs(t, cfg.ApplyEnv(env(map[string]string{"PRINTLAYOUT_CANVAS_HEIGHT": "tall"})), ErrInvalid)
	assert.ErrorIs(t, cfg.ApplyEnv(env(map[string]string{"PRINTLAYOUT_SQUARE_SIZE": "big"})), ErrInvalid)
}

func TestCanvasOptions(t *testing.T) {
	opts := Default().CanvasOptions()
	assert.Equal(t, 100.0, opts.Footprint)
	assert.Equal(t, 10.0, opts.Snap)
	assert.Equal(t, -25.0, opts.BadgeOffsetX)
	assert.Equal(t, 0.01, opts.MinScale)
}
