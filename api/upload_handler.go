package api

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/rpupo63/virtual-closet-backend/errs"
	"github.com/rpupo63/virtual-closet-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// multipartOverhead covers boundaries and part headers on top of the file itself.
const multipartOverhead = 64 * 1024

type uploadHandler struct {
	responder Responder
	logger    zerolog.Logger
	uploader  *services.ImageUploader
}

func newUploadHandler(uploader *services.ImageUploader) uploadHandler {
	logger := log.With().Str("handlerName", "uploadHandler").Logger()

	return uploadHandler{
		responder: NewResponder(logger),
		logger:    logger,
		uploader:  uploader,
	}
}

// uploadImage stores a clothing photo
// @Summary Upload image
// @Description Accepts a multipart "file" field holding an image of at most 5MB
// @Tags Uploads
// @Accept mpfd
// @Produce json
// @Param file formData file true "Image"
// @Success 201 {object} services.UploadResult
// @Failure 400 {object} ErrorResponse "Bad Request - Missing file"
// @Failure 413 {object} ErrorResponse "Payload Too Large"
// @Failure 415 {object} ErrorResponse "Unsupported Media Type - Not an image"
// @Router /uploads/images [post]
func (h uploadHandler) uploadImage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
			h.responder.WriteError(w, errs.NewUnsupportedMediaTypeError(r.Header.Get("Content-Type"), "multipart/form-data"))
			return
		}

		maxBytes := h.uploader.MaxBytes()
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes+multipartOverhead)
		if err := r.ParseMultipartForm(maxBytes + multipartOverhead); err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				h.responder.WriteError(w, errs.NewMaxBodySizeExceededError(maxBytes))
				return
			}
			h.responder.WriteError(w, errs.NewBadRequestError("invalid multipart form"))
			return
		}
		defer r.MultipartForm.RemoveAll()

		file, header, err := r.FormFile("file")
		if err != nil {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("file"))
			return
		}
		defer file.Close()

		// one byte past the limit is enough to reject
		data, err := io.ReadAll(io.LimitReader(file, maxBytes+1))
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("could not read file"))
			return
		}

		result, err := h.uploader.Upload(r.Context(), ownerID(r.Context()), header.Filename, data)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSONStatus(w, http.StatusCreated, result)
	}
}

// deleteImage removes an uploaded image that has not been attached to an item
// @Summary Delete uploaded image
// @Tags Uploads
// @Param path query string true "Storage path returned by the upload"
// @Success 204
// @Failure 400 {object} ErrorResponse
// @Router /uploads/images [delete]
func (h uploadHandler) deleteImage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := r.URL.Query().Get("path")
		if key == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("path"))
			return
		}

		if err := h.uploader.Delete(r.Context(), ownerID(r.Context()), key); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
