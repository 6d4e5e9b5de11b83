package services

import (
	"context"
	"io"
	"strings"
	"time"

	"babysteps-backend/internal/dateutil"
	"babysteps-backend/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Upload queue item states.
const (
	QueueStatusPending   = "pending"
	QueueStatusUploading = "uploading"
	QueueStatusDone      = "done"
	QueueStatusError     = "error"
)

const uploadConcurrency = 4

type uploader interface {
	Upload(ctx context.Context, userID, contentType string, body io.Reader) (string, error)
}

// QueueFile is one file handed to a batch upload.
type QueueFile struct {
	Name        string
	ContentType string
	Body        io.Reader
	CaptureDate string    // embedded capture date ("YYYY-MM-DD"), when the client extracted one
	ModTime     time.Time // file last-modified fallback
}

// QueueItem is the per-file outcome of a batch upload.
type QueueItem struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Status      string `json:"status"`
	URL         string `json:"url,omitempty"`
	Date        string `json:"date"`
	Notice      bool   `json:"notice"` // date preceded the birthdate and was forced to today
}

// UploadQueueService coordinates a batch of concurrent media uploads.
// Items move pending → uploading → done|error independently; one failed
// item never blocks or rolls back its siblings.
type UploadQueueService struct {
	storage uploader
}

// NewUploadQueueService creates a new upload-queue service
func NewUploadQueueService(storage uploader) *UploadQueueService {
	return &UploadQueueService{storage: storage}
}

// resolveDate picks the provisional date for a file: capture date when
// parseable, else the file's mtime, else today; dates before the birthdate
// are forced to today and flagged.
func resolveDate(f QueueFile, birthdate, now time.Time) (string, bool) {
	date := dateutil.Midnight(now)
	if f.CaptureDate != "" {
		if d, err := dateutil.ParseDate(f.CaptureDate); err == nil {
			date = d
		} else if !f.ModTime.IsZero() {
			date = dateutil.Midnight(f.ModTime)
		}
	} else if !f.ModTime.IsZero() {
		date = dateutil.Midnight(f.ModTime)
	}

	if date.Before(dateutil.Midnight(birthdate)) {
		return dateutil.FormatDate(now), true
	}
	return dateutil.FormatDate(date), false
}

// BatchUpload uploads all files concurrently and returns one item per file
// in input order.
func (s *UploadQueueService) BatchUpload(ctx context.Context, userID string, birthdate time.Time, files []QueueFile) []QueueItem {
	now := time.Now()
	items := make([]QueueItem, len(files))
	for i, f := range files {
		date, notice := resolveDate(f, birthdate, now)
		items[i] = QueueItem{
			ID:          uuid.New().String(),
			Name:        f.Name,
			ContentType: f.ContentType,
			Status:      QueueStatusPending,
			Date:        date,
			Notice:      notice,
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uploadConcurrency)
	for i := range files {
		i := i
		g.Go(func() error {
			items[i].Status = QueueStatusUploading
			url, err := s.storage.Upload(gctx, userID, files[i].ContentType, files[i].Body)
			if err != nil {
				log.Warn().Err(err).Str("file", files[i].Name).Msg("Queue item upload failed")
				items[i].Status = QueueStatusError
				return nil
			}
			items[i].Status = QueueStatusDone
			items[i].URL = url
			return nil
		})
	}
	g.Wait()

	return items
}

// StepInputs builds step records from the queue, including only items that
// reached done. Items in error stay in the queue for manual retry or
// removal.
func StepInputs(babyID string, items []QueueItem) []StepInput {
	inputs := make([]StepInput, 0, len(items))
	for _, item := range items {
		if item.Status != QueueStatusDone {
			continue
		}
		url := item.URL
		stepType := models.StepTypePhoto
		if strings.HasPrefix(item.ContentType, "video/") {
			stepType = models.StepTypeVideo
		}
		inputs = append(inputs, StepInput{
			BabyID:   babyID,
			PhotoURL: &url,
			Date:     item.Date,
			Type:     stepType,
		})
	}
	return inputs
}
