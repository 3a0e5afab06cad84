package infopanel

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/lehigh-university-libraries/printlayout/internal/models"
	"github.com/lehigh-university-libraries/printlayout/internal/pricing"
	"github.com/lehigh-university-libraries/printlayout/internal/registry"
	"github.com/lehigh-university-libraries/printlayout/internal/units"
)

func sampleMetrics() []models.ImageMetrics {
	return []models.ImageMetrics{
		{
			ID: 1700000000000, Name: "logo.png",
			WidthCm: 50, HeightCm: 25, AreaM2: 0.2, AspectRatio: 2, Cost: 25, Priced: true,
			Position: models.Position{Left: 400, Top: 300},
		},
		{
			ID: 1700000000001, Name: "pending.png",
			WidthCm: 10, HeightCm: 10, AspectRatio: 1,
			Position: models.Position{Left: 20.4, Top: 49.6},
		},
	}
}

func TestRenderLines(t *testing.T) {
	r := Render(sampleMetrics(), 25)

	require.Len(t, r.Lines, 2)
	assert.Equal(t,
		"ID: 1700000000000, Name: logo.png, Width: 50.00 cm, Height: 25.00 cm, Area: 0.20 m2, Aspect Ratio: 2.00, Cost: €25.00, Left: 400, Top: 300",
		r.Lines[0])
	assert.Equal(t,
		"ID: 1700000000001, Name: pending.png, Width: 10.00 cm, Height: 10.00 cm, Area: - m2, Aspect Ratio: 1.00, Cost: €-, Left: 20, Top: 50",
		r.Lines[1])
	assert.Equal(t, "Total cost: € 25", r.Summary)
}

func TestRenderEmpty(t *testing.T) {
	r := Render(nil, 0)
	assert.Empty(t, r.Lines)
	assert.Equal(t, "Total cost: € 0", r.Summary)
	assert.Equal(t, "Total cost: € 0\n", r.Text())
}

func TestRenderDoesNotMutateInput(t *testing.T) {
	in := sampleMetrics()
	before := sampleMetrics()
	Render(in, 25)
	assert.Equal(t, before, in)
}

func TestWriteFormats(t *testing.T) {
	r := Render(sampleMetrics(), 25)

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Write(&buf, r, FormatText))
		assert.Equal(t, 3, strings.Count(buf.String(), "\n"))
		assert.True(t, strings.HasSuffix(buf.String(), "Total cost: € 25\n"))
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Write(&buf, r, FormatJSON))

		var decoded Report
		require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
		assert.Equal(t, 25.0, decoded.Total)
		assert.Len(t, decoded.Entries, 2)
		assert.Len(t, decoded.Lines, 2)
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Write(&buf, r, FormatYAML))

		var decoded struct {
			Total   float64 `yaml:"total"`
			Entries []struct {
				Name string  `yaml:"name"`
				Left float64 `yaml:"left"`
			} `yaml:"entries"`
		}
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
		assert.Equal(t, 25.0, decoded.Total)
		require.Len(t, decoded.Entries, 2)
		assert.Equal(t, "logo.png", decoded.Entries[0].Name)
		assert.Equal(t, 400.0, decoded.Entries[0].Left)
	})

	t.Run("unknown", func(t *testing.T) {
		assert.Error(t, Write(&bytes.Buffer{}, r, "csv"))
	})
}

func TestPanelFollowsRegistry(t *testing.T) {
	reg := registry.New(units.NewConverter(units.DefaultCmPerPixel), pricing.NewDefaultEngine())

	var renders []Report
	p := NewPanel(reg, func(r Report) { renders = append(renders, r) })

	require.Len(t, renders, 1)
	assert.Equal(t, "Total cost: € 0", p.Latest().Summary)

	g := models.Geometry{NaturalWidth: 100, NaturalHeight: 100, ScaleX: 1, ScaleY: 1}
	reg.Add(g, 1, 1, nil, "a.png")
	reg.Update(1, g)

	assert.Len(t, renders, 3)
	assert.Equal(t, "Total cost: € 25", p.Latest().Summary)
	assert.Len(t, p.Latest().Lines, 1)

	reg.Remove(1)
	assert.Empty(t, p.Latest().Lines)

	p.Close()
	reg.Add(g, 1, 2, nil, "b.png")
	assert.Len(t, renders, 4)
	assert.Empty(t, p.Latest().Lines)
}

func TestStyledIncludesTotal(t *testing.T) {
	out := Styled(Render(sampleMetrics(), 25))
	assert.Contains(t, out, "logo.png")
	assert.Contains(t, out, "Total cost: € 25")

	empty := Styled(Render(nil, 0))
	assert.Contains(t, empty, "No images placed")
}
