package quote

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lehigh-university-libraries/printlayout/internal/assets"
	"github.com/lehigh-university-libraries/printlayout/internal/canvas"
	"github.com/lehigh-university-libraries/printlayout/internal/config"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
}

func writeManifest(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "poster.png"), 100, 100)
	writePNG(t, filepath.Join(dir, "banner.png"), 100, 100)

	manifest := `images:
  - path: poster.png
    name: Poster
    left: 23
    top: 47
  - path: banner.png
    scale_x: 2
    scale_y: 2
`
	path := filepath.Join(dir, "layout.yaml")
	require.NoError(t, os.WriteFile(path, []byte(manifest), 0644))
	return path
}

func TestLoadManifest(t *testing.T) {
	path := writeManifest(t)

	m, err := LoadManifest(path)
	require.NoError(t, err)
	require.Len(t, m.Images, 2)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "poster.png"), m.Images[0].Path)
	require.NotNil(t, m.Images[0].Left)
	assert.Equal(t, 23.0, *m.Images[0].Left)
	assert.Nil(t, m.Images[1].Left)
}

func TestLoadManifestErrors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
	}{
		{"empty", "images: []\n"},
		{"missing path", "images:\n  - name: x\n"},
		{"not yaml", "images: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))
			_, err := LoadManifest(path)
			assert.Error(t, err)
		})
	}
}

func TestBuild(t *testing.T) {
	m, err := LoadManifest(writeManifest(t))
	require.NoError(t, err)

	report, err := Build(context.Background(), config.Default(), assets.NewFetcher(), m)
	require.NoError(t, err)
	require.Len(t, report.Entries, 2)

	poster, banner := report.Entries[0], report.Entries[1]
	assert.Equal(t, "Poster", poster.Name)
	assert.Equal(t, 20.0, poster.Left)
	assert.Equal(t, 50.0, poster.Top)
	assert.Equal(t, 25.0, poster.Cost)

	assert.Equal(t, "banner.png", banner.Name)
	assert.Equal(t, 100.0, banner.WidthCm)
	assert.Equal(t, 100.0, banner.Cost)

	var sum float64
	for _, e := range report.Entries {
		sum += e.Cost
	}
	assert.Equal(t, sum, report.Total)
	assert.Equal(t, "Total cost: € 125", report.Summary)
}

func TestBuildRejectsUndecodable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("not an image"), 0644))

	_, err := Build(context.Background(), config.Default(), assets.NewFetcher(), Manifest{Images: []Item{{Path: path}}})
	assert.ErrorIs(t, err, canvas.ErrUndecodable)
}

func TestWriteParquetRoundTrip(t *testing.T) {
	m, err := LoadManifest(writeManifest(t))
	require.NoError(t, err)
	report, err := Build(context.Background(), config.Default(), assets.NewFetcher(), m)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, report, FormatParquet))

	pf, err := parquet.OpenFile(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	assert.Equal(t, int64(2), pf.NumRows())

	reader := parquet.NewGenericReader[Row](pf)
	defer reader.Close()
	rows := make([]Row, 2)
	n, _ := reader.Read(rows)
	require.Equal(t, 2, n)
	assert.Equal(t, "Poster", rows[0].Name)
	assert.Equal(t, 100.0, rows[1].Cost)
}

func TestWriteTextDelegates(t *testing.T) {
	m, err := LoadManifest(writeManifest(t))
	require.NoError(t, err)
	report, err := Build(context.Background(), config.Default(), assets.NewFetcher(), m)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, report, "text"))
	assert.Contains(t, buf.String(), "Name: Poster")
	assert.Contains(t, buf.String(), "Total cost: € 125")

	assert.Error(t, Write(&buf, report, "xml"))
}
