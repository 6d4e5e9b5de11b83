package services

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"babysteps-backend/internal/dateutil"
	"babysteps-backend/internal/models"
)

type fakeUploader struct {
	failNames map[string]bool
}

func (f *fakeUploader) Upload(_ context.Context, userID, contentType string, body io.Reader) (string, error) {
	b, _ := io.ReadAll(body)
	name := string(b)
	if f.failNames[name] {
		return "", fmt.Errorf("upload rejected")
	}
	return "https://cdn.example.com/memories/" + userID + "/" + name, nil
}

func queueFile(name string, captureDate string) QueueFile {
	return QueueFile{
		Name:        name,
		ContentType: "image/jpeg",
		Body:        strings.NewReader(name),
		CaptureDate: captureDate,
	}
}

func mustDate(s string) time.Time {
	d, err := dateutil.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestBatchUploadIndependentFailures(t *testing.T) {
	up := &fakeUploader{failNames: map[string]bool{"two": true}}
	svc := NewUploadQueueService(up)
	birth := mustDate("2024-01-10")

	items := svc.BatchUpload(context.Background(), "u1", birth, []QueueFile{
		queueFile("one", "2024-02-01"),
		queueFile("two", "2024-02-02"),
		queueFile("three", "2024-02-03"),
	})

	require.Len(t, items, 3)
	assert.Equal(t, QueueStatusDone, items[0].Status)
	assert.Equal(t, QueueStatusError, items[1].Status)
	assert.Equal(t, QueueStatusDone, items[2].Status)
	assert.Empty(t, items[1].URL)
	assert.Contains(t, items[0].URL, "one")
}

func TestBatchUploadCommitSkipsErrors(t *testing.T) {
	up := &fakeUploader{failNames: map[string]bool{"two": true}}
	svc := NewUploadQueueService(up)
	birth := mustDate("2024-01-10")

	items := svc.BatchUpload(context.Background(), "u1", birth, []QueueFile{
		queueFile("one", "2024-02-01"),
		queueFile("two", "2024-02-02"),
		queueFile("three", "2024-02-03"),
	})

	inputs := StepInputs("b1", items)
	require.Len(t, inputs, 2, "only done items are committed")
	assert.Equal(t, "2024-02-01", inputs[0].Date)
	assert.Equal(t, "2024-02-03", inputs[1].Date)
	for _, in := range inputs {
		assert.Equal(t, "b1", in.BabyID)
		assert.Equal(t, models.StepTypePhoto, in.Type)
	}
}

func TestStepInputsVideoType(t *testing.T) {
	items := []QueueItem{
		{Status: QueueStatusDone, URL: "https://cdn.example.com/a.mp4", ContentType: "video/mp4", Date: "2024-02-01"},
	}
	inputs := StepInputs("b1", items)
	require.Len(t, inputs, 1)
	assert.Equal(t, models.StepTypeVideo, inputs[0].Type)
}

func TestResolveDate(t *testing.T) {
	birth := mustDate("2024-01-10")
	now := mustDate("2024-06-01")

	tests := []struct {
		name       string
		file       QueueFile
		wantDate   string
		wantNotice bool
	}{
		{
			name:     "capture date wins",
			file:     QueueFile{CaptureDate: "2024-03-05", ModTime: mustDate("2024-04-01")},
			wantDate: "2024-03-05",
		},
		{
			name:     "unparseable capture date falls back to mtime",
			file:     QueueFile{CaptureDate: "03/05/2024", ModTime: mustDate("2024-04-01")},
			wantDate: "2024-04-01",
		},
		{
			name:     "no metadata at all falls back to today",
			file:     QueueFile{},
			wantDate: "2024-06-01",
		},
		{
			name:       "date before birth forced to today with notice",
			file:       QueueFile{CaptureDate: "2023-12-25"},
			wantDate:   "2024-06-01",
			wantNotice: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			date, notice := resolveDate(tt.file, birth, now)
			assert.Equal(t, tt.wantDate, date)
			assert.Equal(t, tt.wantNotice, notice)
		})
	}
}

func TestBatchUploadManyConcurrent(t *testing.T) {
	up := &fakeUploader{}
	svc := NewUploadQueueService(up)
	birth := mustDate("2024-01-10")

	files := make([]QueueFile, 20)
	for i := range files {
		files[i] = queueFile(fmt.Sprintf("f%02d", i), "2024-02-01")
	}

	items := svc.BatchUpload(context.Background(), "u1", birth, files)
	require.Len(t, items, 20)
	for i, item := range items {
		assert.Equal(t, QueueStatusDone, item.Status)
		assert.Contains(t, item.URL, fmt.Sprintf("f%02d", i), "results stay in input order")
	}
}
