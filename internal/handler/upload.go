package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/absurd-industries/guild/internal/auth"
	"github.com/absurd-industries/guild/internal/upload"
)

type UploadHandler struct {
	uploader *upload.Uploader
	logger   *slog.Logger
}

func NewUploadHandler(uploader *upload.Uploader, logger *slog.Logger) *UploadHandler {
	return &UploadHandler{uploader: uploader, logger: logger}
}

type uploadResponse struct {
	Success bool   `json:"success"`
	URL     string `json:"url,omitempty"`
	Key     string `json:"key,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Image accepts a multipart image upload and returns the stored URL as JSON.
func (h *UploadHandler) Image(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())

	if !h.uploader.Configured() {
		writeJSON(w, http.StatusServiceUnavailable, uploadResponse{Error: "Image uploads are not configured"})
		return
	}

	if err := r.ParseMultipartForm(upload.MaxFileSize); err != nil {
		writeJSON(w, http.StatusBadRequest, uploadResponse{Error: "File size too large. Maximum 5MB allowed."})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, uploadResponse{Error: "No file provided"})
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if msg := upload.Validate(header.Size, contentType); msg != "" {
		writeJSON(w, http.StatusBadRequest, uploadResponse{Error: msg})
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, upload.MaxFileSize+1))
	if err != nil {
		h.logger.Error("read upload", "user_id", user.ID, "error", err)
		writeJSON(w, http.StatusInternalServerError, uploadResponse{Error: "Failed to read file"})
		return
	}

	kind := upload.KindProfile
	if r.FormValue("kind") == string(upload.KindProduct) {
		kind = upload.KindProduct
	}

	result, err := h.uploader.Store(r.Context(), kind, user.ID, contentType, data)
	if err != nil {
		h.logger.Error("store upload", "user_id", user.ID, "error", err)
		writeJSON(w, http.StatusInternalServerError, uploadResponse{Error: "Failed to store file"})
		return
	}

	h.logger.Info("image uploaded", "user_id", user.ID, "key", result.Key, "size", header.Size)
	writeJSON(w, http.StatusOK, uploadResponse{Success: true, URL: result.URL, Key: result.Key})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
