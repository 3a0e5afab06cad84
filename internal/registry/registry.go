package registry

import (
	"github.com/lehigh-university-libraries/printlayout/internal/models"
	"github.com/lehigh-university-libraries/printlayout/internal/pricing"
	"github.com/lehigh-university-libraries/printlayout/internal/units"
)

// Snapshot is the registry state handed to subscribers after a mutation
type Snapshot struct {
	Metrics []models.ImageMetrics
	Total   float64
}

// Listener receives a Snapshot after every effective mutation
type Listener func(Snapshot)

type subscription struct {
	id int
	fn Listener
}

// Registry keeps one ImageMetrics entry per placed image, in insertion order.
// It is not safe for concurrent use; the owning session serializes access.
type Registry struct {
	converter units.Converter
	pricing   pricing.Engine

	entries []models.ImageMetrics

	subs    []subscription
	nextSub int
}

// New creates an empty registry
func New(converter units.Converter, engine pricing.Engine) *Registry {
	return &Registry{
		converter: converter,
		pricing:   engine,
	}
}

// Add registers an image placed at geometry g with a uniform scale.
// When area is nil the entry stays unpriced until the next Update.
func (r *Registry) Add(g models.Geometry, scale float64, id int64, area *float64, name string) {
	widthCm := r.converter.PixelsToCm(float64(g.NaturalWidth) * scale)
	heightCm := r.converter.PixelsToCm(float64(g.NaturalHeight) * scale)

	m := models.ImageMetrics{
		ID:          id,
		Name:        name,
		WidthCm:     widthCm,
		HeightCm:    heightCm,
		AspectRatio: aspectRatio(widthCm, heightCm),
		Position:    g.Position,
	}
	if area != nil {
		m.AreaM2 = *area
		m.Cost = r.pricing.Cost(*area)
		m.Priced = true
	}

	r.entries = append(r.entries, m)
	r.notify()
}

// Update recomputes the metrics of id from its new geometry.
// Unknown ids are ignored.
func (r *Registry) Update(id int64, g models.Geometry) {
	i := r.indexOf(id)
	if i < 0 {
		return
	}

	widthCm := r.converter.PixelsToCm(g.DisplayWidth())
	heightCm := r.converter.PixelsToCm(g.DisplayHeight())
	area := r.converter.AreaSqMeters(widthCm, heightCm)

	m := &r.entries[i]
	m.WidthCm = widthCm
	m.HeightCm = heightCm
	m.AreaM2 = area
	m.AspectRatio = aspectRatio(widthCm, heightCm)
	m.Cost = r.pricing.Cost(area)
	m.Priced = true
	m.Position = g.Position

	r.notify()
}

// AreaOf returns the printed area in m² of geometry g
func (r *Registry) AreaOf(g models.Geometry) float64 {
	return r.converter.AreaSqMeters(
		r.converter.PixelsToCm(g.DisplayWidth()),
		r.converter.PixelsToCm(g.DisplayHeight()),
	)
}

// Remove deletes the entry for id; removing an absent id does nothing
func (r *Registry) Remove(id int64) {
	i := r.indexOf(id)
	if i < 0 {
		return
	}
	r.entries = append(r.entries[:i], r.entries[i+1:]...)
	r.notify()
}

// TotalCost sums the cost of every priced entry
func (r *Registry) TotalCost() float64 {
	var total float64
	for _, m := range r.entries {
		if m.Priced {
			total += m.Cost
		}
	}
	return total
}

// All returns a copy of the entries in insertion order
func (r *Registry) All() []models.ImageMetrics {
	out := make([]models.ImageMetrics, len(r.entries))
	copy(out, r.entries)
	return out
}

// Get returns the entry for id
func (r *Registry) Get(id int64) (models.ImageMetrics, bool) {
	i := r.indexOf(id)
	if i < 0 {
		return models.ImageMetrics{}, false
	}
	return r.entries[i], true
}

// Len is the number of live entries
func (r *Registry) Len() int {
	return len(r.entries)
}

// Snapshot returns the current metrics and total
func (r *Registry) Snapshot() Snapshot {
	return Snapshot{Metrics: r.All(), Total: r.TotalCost()}
}

// Subscribe registers fn to run after every mutation.
// The returned func cancels the subscription.
func (r *Registry) Subscribe(fn Listener) (cancel func()) {
	id := r.nextSub
	r.nextSub++
	r.subs = append(r.subs, subscription{id: id, fn: fn})

	return func() {
		for i, s := range r.subs {
			if s.id == id {
				r.subs = append(r.subs[:i], r.subs[i+1:]...)
				return
			}
		}
	}
}

func (r *Registry) notify() {
	if len(r.subs) == 0 {
		return
	}
	snap := r.Snapshot()
	for _, s := range r.subs {
		s.fn(snap)
	}
}

func (r *Registry) indexOf(id int64) int {
	for i := range r.entries {
		if r.entries[i].ID == id {
			return i
		}
	}
	return -1
}

func aspectRatio(w, h float64) float64 {
	if h == 0 {
		return 0
	}
	return w / h
}
