package handlers

import (
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/lehigh-university-libraries/printlayout/internal/assets"
	"github.com/lehigh-university-libraries/printlayout/internal/session"
)

//go:embed static
var staticFiles embed.FS

var staticFS, _ = fs.Sub(staticFiles, "static")

func (h *Handler) HandleStatic(w http.ResponseWriter, r *http.Request) {
	filepath := strings.TrimPrefix(r.URL.Path, "/static/")
	filepath = strings.TrimPrefix(filepath, "/")

	if filepath == "" {
		filepath = "index.html"
	}

	// Check if image URL parameter is provided
	imageURL := r.URL.Query().Get("image")
	if imageURL != "" {
		sessionID, err := h.createSessionFromURL(r, imageURL)
		if err != nil {
			slog.Error("Failed to create session from URL", "url", imageURL, "error", err)
			http.Error(w, "Failed to process image URL: "+err.Error(), http.StatusBadRequest)
			return
		}

		// Redirect to the homepage
		http.Redirect(w, r, "/?session="+sessionID, http.StatusFound)
		return
	}

	// Prevent directory traversal attacks
	if strings.Contains(filepath, "..") {
		http.Error(w, "Invalid file path", http.StatusBadRequest)
		return
	}

	// Set appropriate content type based on file extension
	switch path.Ext(filepath) {
	case ".css":
		w.Header().Set("Content-Type", "text/css")
	case ".js":
		w.Header().Set("Content-Type", "application/javascript")
	case ".html":
		w.Header().Set("Content-Type", "text/html")
	}

	http.ServeFileFS(w, r, staticFS, filepath)
}

// createSessionFromURL opens a new session with the image at imageURL placed on it
func (h *Handler) createSessionFromURL(r *http.Request, imageURL string) (string, error) {
	// Only remote images; local paths are reserved for configured preloads.
	if !assets.IsURL(imageURL) {
		return "", fmt.Errorf("image must be an http or https URL")
	}

	imageData, err := h.fetcher.Fetch(r.Context(), imageURL)
	if err != nil {
		return "", err
	}

	// Extract filename from URL
	parts := strings.Split(imageURL, "/")
	filename := parts[len(parts)-1]
	if filename == "" {
		filename = "image"
	}

	sessionID := uuid.NewString()
	sess := session.New(sessionID, h.cfg, nil)
	if _, err := sess.Place(imageData, filename); err != nil {
		sess.Close()
		return "", err
	}
	h.sessionStore.Set(sessionID, sess)

	slog.Info("Session created from URL", "session_id", sessionID, "url", imageURL)
	return sessionID, nil
}
