package assets

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/lehigh-university-libraries/printlayout/internal/models"
)

// DefaultMaxBytes caps a single asset at 10MB
const DefaultMaxBytes = 10 * 1024 * 1024

// Fetcher retrieves image bytes from local paths or http(s) URLs
type Fetcher struct {
	HTTPClient *http.Client
	MaxBytes   int64
}

// NewFetcher creates a new asset fetcher
func NewFetcher() *Fetcher {
	return &Fetcher{
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		MaxBytes: DefaultMaxBytes,
	}
}

// IsURL reports whether src should be fetched over HTTP
func IsURL(src string) bool {
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}

// Fetch reads src from disk or downloads it
func (f *Fetcher) Fetch(ctx context.Context, src string) ([]byte, error) {
	if IsURL(src) {
		return f.download(ctx, src)
	}

	file, err := os.Open(src)
	if err != nil {
		return nil, fmt.Errorf("failed to open asset: %w", err)
	}
	defer file.Close()

	return f.readLimited(file)
}

func (f *Fetcher) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := f.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download asset: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download asset: HTTP %d", resp.StatusCode)
	}

	return f.readLimited(resp.Body)
}

func (f *Fetcher) readLimited(r io.Reader) ([]byte, error) {
	limit := f.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxBytes
	}

	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read asset: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("asset too large (max %d bytes)", limit)
	}
	return data, nil
}

// Placer is the part of the canvas controller preloading needs
type Placer interface {
	Preload(data []byte) (models.PlacedImage, error)
}

// Preload fetches every source in order and places it on p.
// Sources that fail to fetch or decode are logged and skipped.
func (f *Fetcher) Preload(ctx context.Context, p Placer, sources []string) []models.PlacedImage {
	placed := make([]models.PlacedImage, 0, len(sources))
	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			slog.Warn("Preload interrupted", "err", err)
			break
		}

		data, err := f.Fetch(ctx, src)
		if err != nil {
			slog.Warn("Failed to fetch preload asset", "src", src, "err", err)
			continue
		}

		img, err := p.Preload(data)
		if err != nil {
			slog.Warn("Failed to place preload asset", "src", src, "err", err)
			continue
		}
		slog.Info("Preloaded asset", "src", src, "id", img.ID, "name", img.Name)
		placed = append(placed, img)
	}
	return placed
}
