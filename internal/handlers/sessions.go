package handlers

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/lehigh-university-libraries/printlayout/internal/infopanel"
	"github.com/lehigh-university-libraries/printlayout/internal/models"
	"github.com/lehigh-university-libraries/printlayout/internal/session"
)

func (h *Handler) HandleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions := h.sessionStore.GetAll()
	summaries := make([]models.SessionSummary, 0, len(sessions))
	for _, sess := range sessions {
		summaries = append(summaries, sess.Summary())
	}
	h.writeJSON(w, summaries)
}

func (h *Handler) HandleCreateSession(w http.ResponseWriter, r *http.Request) {
	sessionID := uuid.NewString()
	sess := session.New(sessionID, h.cfg, nil)

	// Preloads finish before the session becomes visible to other requests.
	placed := sess.Preload(r.Context(), h.fetcher)
	h.sessionStore.Set(sessionID, sess)

	slog.Info("Session created", "session_id", sessionID, "preloaded", len(placed))
	h.writeJSONStatus(w, http.StatusCreated, sess.State())
}

func (h *Handler) HandleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.getSessionOrError(w, r)
	if !ok {
		return
	}
	h.writeJSON(w, sess.State())
}

func (h *Handler) HandleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.getSessionOrError(w, r)
	if !ok {
		return
	}
	h.sessionStore.Delete(sess.ID)
	slog.Info("Session deleted", "session_id", sess.ID)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleInfo(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.getSessionOrError(w, r)
	if !ok {
		return
	}

	format := r.URL.Query().Get("format")
	switch format {
	case "", infopanel.FormatText:
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	case infopanel.FormatJSON:
		w.Header().Set("Content-Type", "application/json")
	case infopanel.FormatYAML:
		w.Header().Set("Content-Type", "application/yaml")
	default:
		h.writeError(w, "Invalid format. Must be 'text', 'json', or 'yaml'", http.StatusBadRequest)
		return
	}

	if err := infopanel.Write(w, sess.Report(), format); err != nil {
		slog.Error("Unable to write info panel", "session_id", sess.ID, "err", err)
	}
}
