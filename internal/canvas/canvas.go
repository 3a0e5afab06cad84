package canvas

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"math"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/lehigh-university-libraries/printlayout/internal/models"
	"github.com/lehigh-university-libraries/printlayout/internal/registry"
)

// ErrUndecodable is returned when image data cannot be decoded
var ErrUndecodable = errors.New("image could not be decoded")

// Surface is the fixed drawable area in pixels
type Surface struct {
	Width  int `json:"width" yaml:"width" toml:"width"`
	Height int `json:"height" yaml:"height" toml:"height"`
}

// Options tune placement and interaction
type Options struct {
	// Footprint is the pixel size the longer side of a new image is fitted to
	Footprint float64
	// Snap is the grid unit positions are rounded to
	Snap float64
	// BadgeOffsetX shifts the hover badge horizontally from the image origin
	BadgeOffsetX float64
	// MinScale is the smallest scale factor either axis may shrink to
	MinScale float64
}

// DefaultOptions mirrors the stock canvas behaviour
func DefaultOptions() Options {
	return Options{
		Footprint:    100,
		Snap:         10,
		BadgeOffsetX: -25,
		MinScale:     0.01,
	}
}

// Controller owns the canvas surface, the placed images and the selection.
// Every change to an image transform is pushed to the registry before the
// call returns. It is not safe for concurrent use.
type Controller struct {
	surface  Surface
	opts     Options
	registry *registry.Registry
	ids      IDSource

	images  []*models.PlacedImage
	sources map[int64][]byte

	selected    int64
	hasSelected bool
	badge       models.Badge
	preloaded   int
}

// New creates a controller for surface that reports into reg
func New(surface Surface, opts Options, reg *registry.Registry, ids IDSource) *Controller {
	if ids == nil {
		ids = NewClockIDs()
	}
	return &Controller{
		surface:  surface,
		opts:     opts,
		registry: reg,
		ids:      ids,
		sources:  make(map[int64][]byte),
	}
}

// Surface returns the canvas dimensions
func (c *Controller) Surface() Surface {
	return c.surface
}

// Options returns the interaction settings
func (c *Controller) Options() Options {
	return c.opts
}

// PlaceImage decodes data, fits it to the footprint, centers it, selects it
// and registers it. Metrics are computed in two phases: the entry is added
// unpriced and then recomputed from the placed geometry.
func (c *Controller) PlaceImage(data []byte, name string) (models.PlacedImage, error) {
	img, err := c.place(data, name, false)
	if err != nil {
		return models.PlacedImage{}, err
	}
	slog.Debug("Image placed", "id", img.ID, "name", name, "width", img.NaturalWidth, "height", img.NaturalHeight)
	return img, nil
}

// Preload places a bundled asset. The entry is registered with an explicit
// area and named after its load order.
func (c *Controller) Preload(data []byte) (models.PlacedImage, error) {
	name := fmt.Sprintf("Preloaded Image %d", c.preloaded+1)
	img, err := c.place(data, name, true)
	if err != nil {
		return models.PlacedImage{}, err
	}
	c.preloaded++
	slog.Debug("Image preloaded", "id", img.ID, "name", name)
	return img, nil
}

func (c *Controller) place(data []byte, name string, withArea bool) (models.PlacedImage, error) {
	w, h, format, err := decodeConfig(data)
	if err != nil {
		return models.PlacedImage{}, err
	}

	scale := math.Min(c.opts.Footprint/float64(w), c.opts.Footprint/float64(h))
	img := &models.PlacedImage{
		ID:            c.ids.NextID(),
		Name:          name,
		Format:        format,
		NaturalWidth:  w,
		NaturalHeight: h,
		ScaleX:        scale,
		ScaleY:        scale,
		Position: models.Position{
			Left: float64(c.surface.Width) / 2,
			Top:  float64(c.surface.Height) / 2,
		},
	}

	c.images = append(c.images, img)
	c.sources[img.ID] = data
	c.selected, c.hasSelected = img.ID, true

	var area *float64
	if withArea {
		a := c.registry.AreaOf(img.Geometry())
		area = &a
	}
	c.registry.Add(img.Geometry(), scale, img.ID, area, name)
	// Subscribers see the add first, then the recompute from the placed transform.
	c.registry.Update(img.ID, img.Geometry())

	return *img, nil
}

// Scale applies new scale factors to id. Each axis is clamped on its own so
// the transformed box never exceeds the surface; aspect ratio is not kept.
func (c *Controller) Scale(id int64, scaleX, scaleY float64) (models.PlacedImage, bool) {
	img := c.find(id)
	if img == nil {
		return models.PlacedImage{}, false
	}

	img.ScaleX = c.clampScale(scaleX, c.surface.Width, img.NaturalWidth)
	img.ScaleY = c.clampScale(scaleY, c.surface.Height, img.NaturalHeight)

	c.selected, c.hasSelected = id, true
	c.registry.Update(id, img.Geometry())
	c.showBadge(img)

	return *img, true
}

// clampScale keeps scale within [min(MinScale, limit), limit] where limit
// fits the natural size to the surface. The surface bound always wins.
func (c *Controller) clampScale(scale float64, surface, natural int) float64 {
	limit := float64(surface) / float64(natural)
	floor := math.Min(c.opts.MinScale, limit)
	if scale < floor || math.IsNaN(scale) {
		scale = floor
	}
	if scale > limit {
		scale = limit
	}
	return scale
}

// Move snaps the requested position of id to the grid and commits it
func (c *Controller) Move(id int64, left, top float64) (models.PlacedImage, bool) {
	img := c.find(id)
	if img == nil {
		return models.PlacedImage{}, false
	}

	img.Left = Snap(left, c.opts.Snap)
	img.Top = Snap(top, c.opts.Snap)

	c.selected, c.hasSelected = id, true
	c.registry.Update(id, img.Geometry())
	c.showBadge(img)

	return *img, true
}

// Snap rounds v to the nearest multiple of unit, halves rounding up
func Snap(v, unit float64) float64 {
	if unit <= 0 {
		return v
	}
	return math.Floor(v/unit+0.5) * unit
}

// Select makes id the active image
func (c *Controller) Select(id int64) bool {
	if c.find(id) == nil {
		return false
	}
	c.selected, c.hasSelected = id, true
	return true
}

// Deselect clears the active image
func (c *Controller) Deselect() {
	c.selected, c.hasSelected = 0, false
}

// Selected returns the active image, if any
func (c *Controller) Selected() (models.PlacedImage, bool) {
	if !c.hasSelected {
		return models.PlacedImage{}, false
	}
	img := c.find(c.selected)
	if img == nil {
		return models.PlacedImage{}, false
	}
	return *img, true
}

// DeleteSelected removes the active image from the surface and the registry.
// It reports false when nothing was selected.
func (c *Controller) DeleteSelected() bool {
	if !c.hasSelected {
		return false
	}
	id := c.selected

	for i, img := range c.images {
		if img.ID == id {
			c.images = append(c.images[:i], c.images[i+1:]...)
			break
		}
	}
	delete(c.sources, id)
	c.registry.Remove(id)

	c.Deselect()
	c.badge = models.Badge{}
	slog.Debug("Image deleted", "id", id)
	return true
}

// Hover shows the cost badge next to id
func (c *Controller) Hover(id int64) (models.Badge, bool) {
	img := c.find(id)
	if img == nil {
		return models.Badge{}, false
	}
	c.showBadge(img)
	return c.badge, true
}

// HoverOut hides the cost badge
func (c *Controller) HoverOut() {
	c.badge.Visible = false
}

// Badge returns the current cost badge
func (c *Controller) Badge() models.Badge {
	return c.badge
}

func (c *Controller) showBadge(img *models.PlacedImage) {
	text := "€-"
	if m, ok := c.registry.Get(img.ID); ok && m.Priced {
		text = fmt.Sprintf("€%.2f", m.Cost)
	}
	c.badge = models.Badge{
		Visible: true,
		ImageID: img.ID,
		Left:    img.Left + c.opts.BadgeOffsetX,
		Top:     img.Top,
		Text:    text,
	}
}

// Images returns the placed images in stacking order
func (c *Controller) Images() []models.PlacedImage {
	out := make([]models.PlacedImage, 0, len(c.images))
	for _, img := range c.images {
		out = append(out, *img)
	}
	return out
}

// Image returns the placed image with id
func (c *Controller) Image(id int64) (models.PlacedImage, bool) {
	img := c.find(id)
	if img == nil {
		return models.PlacedImage{}, false
	}
	return *img, true
}

// Source returns the uploaded bytes of id
func (c *Controller) Source(id int64) ([]byte, bool) {
	data, ok := c.sources[id]
	return data, ok
}

func (c *Controller) find(id int64) *models.PlacedImage {
	for _, img := range c.images {
		if img.ID == id {
			return img
		}
	}
	return nil
}

func decodeConfig(data []byte) (int, int, string, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, "", fmt.Errorf("%w: %v", ErrUndecodable, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return 0, 0, "", fmt.Errorf("%w: empty %s image", ErrUndecodable, format)
	}
	return cfg.Width, cfg.Height, format, nil
}
