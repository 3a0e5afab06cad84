// Package session ties one canvas, its registry and its info panel together
// into a single owned context.
//
// A Session is the unit of state for every front end: one browser session
// in the HTTP service, one terminal run in the TUI, one manifest in the quote
// command. Events on a session are serialized by its mutex, which stands in
// for the single event loop the layout core expects.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/lehigh-university-libraries/printlayout/internal/assets"
	"github.com/lehigh-university-libraries/printlayout/internal/canvas"
	"github.com/lehigh-university-libraries/printlayout/internal/config"
	"github.com/lehigh-university-libraries/printlayout/internal/infopanel"
	"github.com/lehigh-university-libraries/printlayout/internal/models"
	"github.com/lehigh-university-libraries/printlayout/internal/registry"
)

// ErrImageNotFound is returned when an event names an image that is not on the canvas
var ErrImageNotFound = errors.New("image not found")

// Session is one layout workspace
type Session struct {
	ID        string
	CreatedAt time.Time

	mu       sync.Mutex
	cfg      config.Config
	registry *registry.Registry
	canvas   *canvas.Controller
	panel    *infopanel.Panel
}

// New creates an empty session configured by cfg.
// A nil ids uses the wall-clock id source.
func New(id string, cfg config.Config, ids canvas.IDSource) *Session {
	reg := registry.New(cfg.Converter(), cfg.Pricing)
	return &Session{
		ID:        id,
		CreatedAt: time.Now(),
		cfg:       cfg,
		registry:  reg,
		canvas:    canvas.New(cfg.Canvas, cfg.CanvasOptions(), reg, ids),
		panel:     infopanel.NewPanel(reg, nil),
	}
}

// Preload places the configured assets
func (s *Session) Preload(ctx context.Context, f *assets.Fetcher) []models.PlacedImage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return f.Preload(ctx, s.canvas, s.cfg.Preload)
}

// Place decodes and places an uploaded image
func (s *Session) Place(data []byte, name string) (models.PlacedImage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.canvas.PlaceImage(data, name)
}

// Move snaps and commits a new position for id
func (s *Session) Move(id int64, left, top float64) (models.PlacedImage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	img, ok := s.canvas.Move(id, left, top)
	if !ok {
		return models.PlacedImage{}, ErrImageNotFound
	}
	return img, nil
}

// Scale clamps and commits new scale factors for id
func (s *Session) Scale(id int64, scaleX, scaleY float64) (models.PlacedImage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	img, ok := s.canvas.Scale(id, scaleX, scaleY)
	if !ok {
		return models.PlacedImage{}, ErrImageNotFound
	}
	return img, nil
}

// Select makes id the active image
func (s *Session) Select(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.canvas.Select(id) {
		return ErrImageNotFound
	}
	return nil
}

// Deselect clears the active image
func (s *Session) Deselect() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.canvas.Deselect()
}

// DeleteSelected removes the active image, reporting whether one existed
func (s *Session) DeleteSelected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.canvas.DeleteSelected()
}

// Hover shows the cost badge for id
func (s *Session) Hover(id int64) (models.Badge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	badge, ok := s.canvas.Hover(id)
	if !ok {
		return models.Badge{}, ErrImageNotFound
	}
	return badge, nil
}

// HoverOut hides the cost badge
func (s *Session) HoverOut() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.canvas.HoverOut()
}

// Source returns the uploaded bytes and format of id
func (s *Session) Source(id int64) ([]byte, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	img, ok := s.canvas.Image(id)
	if !ok {
		return nil, "", ErrImageNotFound
	}
	data, _ := s.canvas.Source(id)
	return data, img.Format, nil
}

// Report returns the latest info panel rendering
func (s *Session) Report() infopanel.Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.panel.Latest()
}

// State returns the full view of the session
func (s *Session) State() models.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()

	surface := s.canvas.Surface()
	state := models.SessionState{
		ID:        s.ID,
		Width:     surface.Width,
		Height:    surface.Height,
		Snap:      s.canvas.Options().Snap,
		Images:    s.canvas.Images(),
		Metrics:   s.registry.All(),
		TotalCost: s.registry.TotalCost(),
		Badge:     s.canvas.Badge(),
		CreatedAt: s.CreatedAt,
	}
	if sel, ok := s.canvas.Selected(); ok {
		id := sel.ID
		state.SelectedID = &id
	}
	return state
}

// Summary returns the listing view of the session
func (s *Session) Summary() models.SessionSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.SessionSummary{
		ID:        s.ID,
		Images:    s.registry.Len(),
		TotalCost: s.registry.TotalCost(),
		CreatedAt: s.CreatedAt,
	}
}

// Close detaches the info panel from the registry
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.panel.Close()
}
