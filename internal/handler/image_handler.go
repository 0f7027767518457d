package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/justinong00/mern-dormguru-sub000/internal/service"

	"go.uber.org/zap"
)

// multipart overhead allowed on top of the image itself
const formOverhead = 1 << 20

type ImageHandler struct {
	svc      *service.ImageService
	maxBytes int64
	log      *zap.Logger
}

func NewImageHandler(s *service.ImageService, maxBytes int64, log *zap.Logger) *ImageHandler {
	return &ImageHandler{svc: s, maxBytes: maxBytes, log: log}
}

type uploadResponse struct {
	URL string `json:"url"`
}

// @Summary Upload image
// @Description Accepts a multipart form with an "image" file and returns its public URL.
// @Tags images
// @Security BearerAuth
// @Accept mpfd
// @Produce json
// @Param image formData file true "image file"
// @Success 200 {object} envelope
// @Failure 400 {object} envelope
// @Router /api/images [post]
func (h *ImageHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if h.maxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+formOverhead)
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			writeFail(w, http.StatusBadRequest, "Image is too large")
		case errors.Is(err, http.ErrMissingFile):
			writeFail(w, http.StatusBadRequest, "image is required")
		default:
			writeFail(w, http.StatusBadRequest, "Invalid multipart form")
		}
		return
	}
	defer file.Close()

	ctx, cancel := context.WithTimeout(r.Context(), longTimeout)
	defer cancel()

	url, err := h.svc.Upload(ctx, file)
	if err != nil {
		if statusFor(err) == http.StatusInternalServerError {
			h.log.Error("image upload failed", zap.Error(err))
		}
		writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, "Image uploaded successfully", uploadResponse{URL: url})
}
