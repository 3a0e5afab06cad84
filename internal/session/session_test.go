package session

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lehigh-university-libraries/printlayout/internal/assets"
	"github.com/lehigh-university-libraries/printlayout/internal/config"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func TestSessionLifecycle(t *testing.T) {
	s := New("s1", config.Default(), nil)
	defer s.Close()

	img, err := s.Place(pngBytes(t, 100, 100), "a.png")
	require.NoError(t, err)

	moved, err := s.Move(img.ID, 23, 47)
	require.NoError(t, err)
	assert.Equal(t, 20.0, moved.Left)
	assert.Equal(t, 50.0, moved.Top)

	_, err = s.Scale(img.ID, 2, 2)
	require.NoError(t, err)

	state := s.State()
	assert.Equal(t, "s1", state.ID)
	assert.Equal(t, 800, state.Width)
	require.Len(t, state.Metrics, 1)
	require.NotNil(t, state.SelectedID)
	assert.Equal(t, img.ID, *state.SelectedID)
	// 200x200px -> 100x100cm -> 1 m² -> 100
	assert.Equal(t, 100.0, state.TotalCost)
	assert.Equal(t, "Total cost: € 100", s.Report().Summary)

	assert.True(t, s.DeleteSelected())
	assert.False(t, s.DeleteSelected())
	assert.Zero(t, s.Summary().Images)
	assert.Equal(t, "Total cost: € 0", s.Report().Summary)
}

func TestSessionUnknownImage(t *testing.T) {
	s := New("s1", config.Default(), nil)

	_, err := s.Move(1, 0, 0)
	assert.ErrorIs(t, err, ErrImageNotFound)
	_, err = s.Scale(1, 1, 1)
	assert.ErrorIs(t, err, ErrImageNotFound)
	assert.ErrorIs(t, s.Select(1), ErrImageNotFound)
	_, err = s.Hover(1)
	assert.ErrorIs(t, err, ErrImageNotFound)
	_, _, err = s.Source(1)
	assert.ErrorIs(t, err, ErrImageNotFound)
}

func TestSessionSource(t *testing.T) {
	s := New("s1", config.Default(), nil)
	data := pngBytes(t, 10, 10)

	img, err := s.Place(data, "a.png")
	require.NoError(t, err)

	got, format, err := s.Source(img.ID)
	require.NoError(t, err)
	assert.Equal(t, data, got)
	assert.Equal(t, "png", format)
}

func TestSessionPreload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "logo.png")
	require.NoError(t, os.WriteFile(path, pngBytes(t, 50, 50), 0644))

	cfg := config.Default()
	cfg.Preload = []string{path, filepath.Join(dir, "missing.png")}
	s := New("s1", cfg, nil)

	placed := s.Preload(context.Background(), assets.NewFetcher())
	require.Len(t, placed, 1)
	assert.Equal(t, "Preloaded Image 1", placed[0].Name)
	assert.Equal(t, 1, s.Summary().Images)
}

func TestSessionSerializesEvents(t *testing.T) {
	s := New("s1", config.Default(), nil)
	data := pngBytes(t, 20, 20)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Place(data, "a.png")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	state := s.State()
	assert.Len(t, state.Images, 20)
	assert.Len(t, state.Metrics, 20)

	seen := map[int64]bool{}
	for _, img := range state.Images {
		assert.False(t, seen[img.ID], "duplicate id %d", img.ID)
		seen[img.ID] = true
	}
}
