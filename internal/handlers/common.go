package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/lehigh-university-libraries/printlayout/internal/assets"
	"github.com/lehigh-university-libraries/printlayout/internal/config"
	"github.com/lehigh-university-libraries/printlayout/internal/session"
	"github.com/lehigh-university-libraries/printlayout/internal/storage"
)

type Handler struct {
	sessionStore *storage.SessionStore
	fetcher      *assets.Fetcher
	cfg          config.Config
}

func New(cfg config.Config) *Handler {
	fetcher := assets.NewFetcher()
	fetcher.MaxBytes = cfg.MaxUploadBytes

	return &Handler{
		sessionStore: storage.New(),
		fetcher:      fetcher,
		cfg:          cfg,
	}
}

// Routes builds the HTTP API and static page router
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("OK")); err != nil {
			slog.Error("Unable to write healthcheck", "err", err)
		}
	})

	r.Route("/api/sessions", func(r chi.Router) {
		r.Get("/", h.HandleListSessions)
		r.Post("/", h.HandleCreateSession)

		r.Route("/{sessionID}", func(r chi.Router) {
			r.Get("/", h.HandleGetSession)
			r.Delete("/", h.HandleDeleteSession)
			r.Get("/info", h.HandleInfo)

			r.Post("/images", h.HandleUpload)
			r.Get("/images/{imageID}/raw", h.HandleRaw)
			r.Put("/images/{imageID}/position", h.HandleMove)
			r.Put("/images/{imageID}/scale", h.HandleScale)

			r.Put("/selection", h.HandleSelect)
			r.Delete("/selection", h.HandleDeselect)
			r.Delete("/selected", h.HandleDeleteSelected)

			r.Put("/hover", h.HandleHover)
			r.Delete("/hover", h.HandleHoverOut)
		})
	})

	r.Get("/*", h.HandleStatic)

	return r
}

// Response helpers
func (h *Handler) writeJSON(w http.ResponseWriter, data interface{}) {
	h.writeJSONStatus(w, http.StatusOK, data)
}

func (h *Handler) writeJSONStatus(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	if code >= http.StatusInternalServerError {
		slog.Error(message, "status", code)
	} else {
		slog.Warn(message, "status", code)
	}
	http.Error(w, message, code)
}

// Session helpers
func (h *Handler) getSessionOrError(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sessionID := chi.URLParam(r, "sessionID")
	sess, exists := h.sessionStore.Get(sessionID)
	if !exists {
		h.writeError(w, "Session not found", http.StatusNotFound)
		return nil, false
	}
	return sess, true
}

func (h *Handler) imageIDOrError(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "imageID"), 10, 64)
	if err != nil {
		h.writeError(w, "Invalid image id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func (h *Handler) decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}
