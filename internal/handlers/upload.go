package handlers

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"time"

	"babysteps-backend/internal/dateutil"
	"babysteps-backend/internal/middleware"
	"babysteps-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

const maxUploadBytes = 512 << 20 // videos included

type mediaStorage interface {
	Upload(ctx context.Context, userID, contentType string, body io.Reader) (string, error)
}

// UploadHandler handles media upload HTTP requests
type UploadHandler struct {
	storage     mediaStorage
	uploadQueue *services.UploadQueueService
	babyService *services.BabyService
	stepService *services.StepService
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(
	storage mediaStorage,
	uploadQueue *services.UploadQueueService,
	babyService *services.BabyService,
	stepService *services.StepService,
) *UploadHandler {
	return &UploadHandler{
		storage:     storage,
		uploadQueue: uploadQueue,
		babyService: babyService,
		stepService: stepService,
	}
}

// Upload handles POST /api/v1/upload — a single media file in, a public
// URL out.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, "No file provided", http.StatusBadRequest)
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !services.AllowedMediaType(contentType) {
		respondError(w, "File type "+contentType+" is not allowed", http.StatusBadRequest)
		return
	}

	url, err := h.storage.Upload(r.Context(), userID, contentType, file)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Str("filename", header.Filename).Msg("Upload failed")
		respondError(w, "Upload failed, please try again", http.StatusInternalServerError)
		return
	}

	log.Info().Str("user_id", userID).Str("filename", header.Filename).Msg("Media uploaded")
	respondJSON(w, map[string]string{"url": url}, http.StatusOK)
}

// UploadBatch handles POST /api/v1/babies/{baby_id}/upload-batch.
// Files arrive as the repeated multipart field "files"; the optional
// repeated fields "capture_date" (YYYY-MM-DD) and "modified" (unix
// seconds) align with them by index. With commit=true the done items are
// saved as steps in the same request.
func (h *UploadHandler) UploadBatch(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	babyID := chi.URLParam(r, "baby_id")

	baby, err := h.babyService.Get(r.Context(), userID, babyID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	birthdate, err := dateutil.ParseDate(baby.Birthdate)
	if err != nil {
		log.Error().Err(err).Str("baby_id", babyID).Msg("Baby has malformed birthdate")
		respondError(w, "Something went wrong, please try again", http.StatusInternalServerError)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(64 << 20); err != nil {
		respondError(w, "Invalid multipart body", http.StatusBadRequest)
		return
	}

	fileHeaders := r.MultipartForm.File["files"]
	if len(fileHeaders) == 0 {
		respondError(w, "No files provided", http.StatusBadRequest)
		return
	}
	captureDates := r.MultipartForm.Value["capture_date"]
	modTimes := r.MultipartForm.Value["modified"]

	files := make([]services.QueueFile, 0, len(fileHeaders))
	opened := make([]interface{ Close() error }, 0, len(fileHeaders))
	defer func() {
		for _, f := range opened {
			f.Close()
		}
	}()

	for i, fh := range fileHeaders {
		contentType := fh.Header.Get("Content-Type")
		if !services.AllowedMediaType(contentType) {
			respondError(w, "File type "+contentType+" is not allowed", http.StatusBadRequest)
			return
		}

		f, err := fh.Open()
		if err != nil {
			respondError(w, "Unreadable file "+fh.Filename, http.StatusBadRequest)
			return
		}
		opened = append(opened, f)

		qf := services.QueueFile{
			Name:        fh.Filename,
			ContentType: contentType,
			Body:        f,
		}
		if i < len(captureDates) {
			qf.CaptureDate = captureDates[i]
		}
		if i < len(modTimes) {
			if secs, err := strconv.ParseInt(modTimes[i], 10, 64); err == nil && secs > 0 {
				qf.ModTime = time.Unix(secs, 0)
			}
		}
		files = append(files, qf)
	}

	items := h.uploadQueue.BatchUpload(r.Context(), userID, birthdate, files)

	if r.FormValue("commit") == "true" {
		inputs := services.StepInputs(babyID, items)
		if len(inputs) > 0 {
			if _, err := h.stepService.CreateBulk(r.Context(), userID, inputs); err != nil {
				log.Error().Err(err).Str("user_id", userID).Str("baby_id", babyID).
					Msg("Failed to commit uploaded batch")
				respondServiceError(w, err)
				return
			}
		}
	}

	respondJSON(w, map[string]any{"items": items}, http.StatusOK)
}
