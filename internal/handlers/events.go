package handlers

import (
	"net/http"

	"github.com/lehigh-university-libraries/printlayout/internal/session"
)

type moveRequest struct {
	Left *float64 `json:"left"`
	Top  *float64 `json:"top"`
}

type scaleRequest struct {
	ScaleX *float64 `json:"scale_x"`
	ScaleY *float64 `json:"scale_y"`
}

type targetRequest struct {
	ID *int64 `json:"id"`
}

// HandleMove commits a drag: the position is snapped to the grid
func (h *Handler) HandleMove(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.getSessionOrError(w, r)
	if !ok {
		return
	}
	id, ok := h.imageIDOrError(w, r)
	if !ok {
		return
	}

	var req moveRequest
	if !h.decodeBody(w, r, &req) {
		return
	}
	if req.Left == nil || req.Top == nil {
		h.writeError(w, "left and top are required", http.StatusBadRequest)
		return
	}

	if _, err := sess.Move(id, *req.Left, *req.Top); err != nil {
		h.writeError(w, "Image not found", http.StatusNotFound)
		return
	}
	h.writeJSON(w, sess.State())
}

// HandleScale commits a corner drag: scale factors are clamped to the surface
func (h *Handler) HandleScale(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.getSessionOrError(w, r)
	if !ok {
		return
	}
	id, ok := h.imageIDOrError(w, r)
	if !ok {
		return
	}

	var req scaleRequest
	if !h.decodeBody(w, r, &req) {
		return
	}
	if req.ScaleX == nil || req.ScaleY == nil {
		h.writeError(w, "scale_x and scale_y are required", http.StatusBadRequest)
		return
	}

	if _, err := sess.Scale(id, *req.ScaleX, *req.ScaleY); err != nil {
		h.writeError(w, "Image not found", http.StatusNotFound)
		return
	}
	h.writeJSON(w, sess.State())
}

func (h *Handler) HandleSelect(w http.ResponseWriter, r *http.Request) {
	h.withTarget(w, r, func(sess *session.Session, id int64) error {
		return sess.Select(id)
	})
}

func (h *Handler) HandleDeselect(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.getSessionOrError(w, r)
	if !ok {
		return
	}
	sess.Deselect()
	h.writeJSON(w, sess.State())
}

// HandleDeleteSelected is the Delete key: it removes the active image if any
func (h *Handler) HandleDeleteSelected(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.getSessionOrError(w, r)
	if !ok {
		return
	}
	sess.DeleteSelected()
	h.writeJSON(w, sess.State())
}

func (h *Handler) HandleHover(w http.ResponseWriter, r *http.Request) {
	h.withTarget(w, r, func(sess *session.Session, id int64) error {
		_, err := sess.Hover(id)
		return err
	})
}

func (h *Handler) HandleHoverOut(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.getSessionOrError(w, r)
	if !ok {
		return
	}
	sess.HoverOut()
	h.writeJSON(w, sess.State())
}

func (h *Handler) withTarget(w http.ResponseWriter, r *http.Request, fn func(*session.Session, int64) error) {
	sess, ok := h.getSessionOrError(w, r)
	if !ok {
		return
	}

	var req targetRequest
	if !h.decodeBody(w, r, &req) {
		return
	}
	if req.ID == nil {
		h.writeError(w, "id is required", http.StatusBadRequest)
		return
	}

	if err := fn(sess, *req.ID); err != nil {
		h.writeError(w, "Image not found", http.StatusNotFound)
		return
	}
	h.writeJSON(w, sess.State())
}
