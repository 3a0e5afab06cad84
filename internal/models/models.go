package models

import "time"

// Position is a center-origin point in canvas pixels
type Position struct {
	Left float64 `json:"left" yaml:"left"`
	Top  float64 `json:"top" yaml:"top"`
}

// PlacedImage is an image sitting on the canvas
type PlacedImage struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	Format        string  `json:"format"`
	NaturalWidth  int     `json:"natural_width"`
	NaturalHeight int     `json:"natural_height"`
	ScaleX        float64 `json:"scale_x"`
	ScaleY        float64 `json:"scale_y"`
	Position
}

// Geometry returns the transform snapshot used to recompute metrics
func (p *PlacedImage) Geometry() Geometry {
	return Geometry{
		NaturalWidth:  p.NaturalWidth,
		NaturalHeight: p.NaturalHeight,
		ScaleX:        p.ScaleX,
		ScaleY:        p.ScaleY,
		Position:      p.Position,
	}
}

// Geometry is the raw transform of a placed image
type Geometry struct {
	NaturalWidth  int
	NaturalHeight int
	ScaleX        float64
	ScaleY        float64
	Position
}

// DisplayWidth is the on-canvas width in pixels
func (g Geometry) DisplayWidth() float64 {
	return float64(g.NaturalWidth) * g.ScaleX
}

// DisplayHeight is the on-canvas height in pixels
func (g Geometry) DisplayHeight() float64 {
	return float64(g.NaturalHeight) * g.ScaleY
}

// ImageMetrics holds the display-ready measurements of one placed image.
// Area and Cost are only meaningful when Priced is true.
type ImageMetrics struct {
	ID          int64   `json:"id" yaml:"id"`
	Name        string  `json:"name" yaml:"name"`
	WidthCm     float64 `json:"width_cm" yaml:"width_cm"`
	HeightCm    float64 `json:"height_cm" yaml:"height_cm"`
	AreaM2      float64 `json:"area_m2" yaml:"area_m2"`
	AspectRatio float64 `json:"aspect_ratio" yaml:"aspect_ratio"`
	Cost        float64 `json:"cost" yaml:"cost"`
	Priced      bool    `json:"priced" yaml:"priced"`
	Position    `yaml:",inline"`
}

// Badge is the transient cost label shown next to a hovered image
type Badge struct {
	Visible bool    `json:"visible"`
	ImageID int64   `json:"image_id,omitempty"`
	Left    float64 `json:"left"`
	Top     float64 `json:"top"`
	Text    string  `json:"text"`
}

// SessionSummary is the listing view of a layout session
type SessionSummary struct {
	ID        string    `json:"id"`
	Images    int       `json:"images"`
	TotalCost float64   `json:"total_cost"`
	CreatedAt time.Time `json:"created_at"`
}

// SessionState is the full view of a layout session
type SessionState struct {
	ID         string         `json:"id"`
	Width      int            `json:"width"`
	Height     int            `json:"height"`
	Snap       float64        `json:"snap"`
	Images     []PlacedImage  `json:"images"`
	Metrics    []ImageMetrics `json:"metrics"`
	TotalCost  float64        `json:"total_cost"`
	SelectedID *int64         `json:"selected_id,omitempty"`
	Badge      Badge          `json:"badge"`
	CreatedAt  time.Time      `json:"created_at"`
}
