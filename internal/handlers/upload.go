package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/lehigh-university-libraries/printlayout/internal/canvas"
)

func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.getSessionOrError(w, r)
	if !ok {
		return
	}

	file, header, err := r.FormFile("files")
	if err != nil {
		file, header, err = r.FormFile("file")
		if err != nil {
			h.writeError(w, "Failed to read file: "+err.Error(), http.StatusBadRequest)
			return
		}
	}
	defer file.Close()

	maxBytes := h.cfg.MaxUploadBytes
	fileData, err := io.ReadAll(io.LimitReader(file, maxBytes+1))
	if err != nil {
		h.writeError(w, "Failed to read file contents: "+err.Error(), http.StatusInternalServerError)
		return
	}

	if int64(len(fileData)) > maxBytes {
		h.writeError(w, "File too large", http.StatusRequestEntityTooLarge)
		return
	}

	img, err := sess.Place(fileData, header.Filename)
	if err != nil {
		if errors.Is(err, canvas.ErrUndecodable) {
			h.writeError(w, "Unsupported or corrupt image: "+err.Error(), http.StatusUnprocessableEntity)
			return
		}
		h.writeError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	slog.Info("Image uploaded", "session_id", sess.ID, "image_id", img.ID, "name", img.Name, "bytes", len(fileData))

	response := map[string]any{
		"session_id": sess.ID,
		"message":    "Successfully uploaded 1 image",
		"image":      img,
		"state":      sess.State(),
	}

	h.writeJSONStatus(w, http.StatusCreated, response)
}

func (h *Handler) HandleRaw(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.getSessionOrError(w, r)
	if !ok {
		return
	}
	id, ok := h.imageIDOrError(w, r)
	if !ok {
		return
	}

	data, format, err := sess.Source(id)
	if err != nil {
		h.writeError(w, "Image not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "image/"+format)
	if _, err := w.Write(data); err != nil {
		slog.Error("Unable to write image", "session_id", sess.ID, "image_id", id, "err", err)
	}
}
