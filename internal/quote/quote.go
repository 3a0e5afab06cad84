// Package quote prices a whole layout described by a manifest file, without
// a browser in the loop.
package quote

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"
	"gopkg.in/yaml.v3"

	"github.com/lehigh-university-libraries/printlayout/internal/assets"
	"github.com/lehigh-university-libraries/printlayout/internal/config"
	"github.com/lehigh-university-libraries/printlayout/internal/infopanel"
	"github.com/lehigh-university-libraries/printlayout/internal/session"
)

// FormatParquet is the columnar export accepted by Write in addition to the
// info panel formats
const FormatParquet = "parquet"

// Manifest lists the images of a layout in placement order
type Manifest struct {
	Images []Item `yaml:"images"`
}

// Item is one image of a manifest. Unset transforms keep the placement
// defaults: centered and fitted to the footprint.
type Item struct {
	Path   string   `yaml:"path"`
	Name   string   `yaml:"name,omitempty"`
	Left   *float64 `yaml:"left,omitempty"`
	Top    *float64 `yaml:"top,omitempty"`
	ScaleX *float64 `yaml:"scale_x,omitempty"`
	ScaleY *float64 `yaml:"scale_y,omitempty"`
}

// LoadManifest reads a YAML manifest. Relative image paths are resolved
// against the manifest's directory.
func LoadManifest(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("failed to read manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("failed to parse manifest: %w", err)
	}
	if len(m.Images) == 0 {
		return Manifest{}, fmt.Errorf("manifest %s lists no images", path)
	}

	dir := filepath.Dir(path)
	for i, item := range m.Images {
		if item.Path == "" {
			return Manifest{}, fmt.Errorf("manifest image %d has no path", i+1)
		}
		if !assets.IsURL(item.Path) && !filepath.IsAbs(item.Path) {
			m.Images[i].Path = filepath.Join(dir, item.Path)
		}
	}
	return m, nil
}

// Build places every manifest image on a fresh canvas, applies its scale and
// then its position, and returns the resulting info panel report
func Build(ctx context.Context, cfg config.Config, f *assets.Fetcher, m Manifest) (infopanel.Report, error) {
	sess := session.New("quote", cfg, nil)
	defer sess.Close()

	for _, item := range m.Images {
		if err := ctx.Err(); err != nil {
			return infopanel.Report{}, err
		}

		data, err := f.Fetch(ctx, item.Path)
		if err != nil {
			return infopanel.Report{}, fmt.Errorf("%s: %w", item.Path, err)
		}

		name := item.Name
		if name == "" {
			name = filepath.Base(item.Path)
		}

		img, err := sess.Place(data, name)
		if err != nil {
			return infopanel.Report{}, fmt.Errorf("%s: %w", item.Path, err)
		}

		if item.ScaleX != nil || item.ScaleY != nil {
			sx, sy := img.ScaleX, img.ScaleY
			if item.ScaleX != nil {
				sx = *item.ScaleX
			}
			if item.ScaleY != nil {
				sy = *item.ScaleY
			}
			if img, err = sess.Scale(img.ID, sx, sy); err != nil {
				return infopanel.Report{}, err
			}
		}

		if item.Left != nil || item.Top != nil {
			left, top := img.Left, img.Top
			if item.Left != nil {
				left = *item.Left
			}
			if item.Top != nil {
				top = *item.Top
			}
			if img, err = sess.Move(img.ID, left, top); err != nil {
				return infopanel.Report{}, err
			}
		}

		slog.Debug("Quoted image", "path", item.Path, "id", img.ID, "scale_x", img.ScaleX, "scale_y", img.ScaleY)
	}

	return sess.Report(), nil
}

// Row is one metrics entry in the Parquet export
type Row struct {
	ID          int64   `parquet:"id"`
	Name        string  `parquet:"name"`
	WidthCm     float64 `parquet:"width_cm"`
	HeightCm    float64 `parquet:"height_cm"`
	AreaM2      float64 `parquet:"area_m2"`
	AspectRatio float64 `parquet:"aspect_ratio"`
	Cost        float64 `parquet:"cost"`
	Left        float64 `parquet:"left"`
	Top         float64 `parquet:"top"`
}

// Rows flattens the report entries for columnar export
func Rows(report infopanel.Report) []Row {
	rows := make([]Row, 0, len(report.Entries))
	for _, m := range report.Entries {
		rows = append(rows, Row{
			ID:          m.ID,
			Name:        m.Name,
			WidthCm:     m.WidthCm,
			HeightCm:    m.HeightCm,
			AreaM2:      m.AreaM2,
			AspectRatio: m.AspectRatio,
			Cost:        m.Cost,
			Left:        m.Left,
			Top:         m.Top,
		})
	}
	return rows
}

// Write encodes report as text, json, yaml or parquet
func Write(w io.Writer, report infopanel.Report, format string) error {
	if format != FormatParquet {
		return infopanel.Write(w, report, format)
	}

	pw := parquet.NewGenericWriter[Row](w)
	if _, err := pw.Write(Rows(report)); err != nil {
		return fmt.Errorf("failed to write parquet rows: %w", err)
	}
	if err := pw.Close(); err != nil {
		return fmt.Errorf("failed to finish parquet file: %w", err)
	}
	return nil
}
