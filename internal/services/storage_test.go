package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllowedMediaType(t *testing.T) {
	assert.True(t, AllowedMediaType("image/jpeg"))
	assert.True(t, AllowedMediaType("image/heic"))
	assert.True(t, AllowedMediaType("video/quicktime"))
	assert.False(t, AllowedMediaType("image/gif"))
	assert.False(t, AllowedMediaType("application/pdf"))
	assert.False(t, AllowedMediaType(""))
}

func TestKeyFromURL(t *testing.T) {
	svc := &StorageService{bucket: "media", baseURL: "https://media.s3.eu-north-1.amazonaws.com"}

	key, err := svc.keyFromURL("https://media.s3.eu-north-1.amazonaws.com/memories/u1/abc.jpg")
	require.NoError(t, err)
	assert.Equal(t, "memories/u1/abc.jpg", key)

	// URLs from an older CDN host still resolve by path.
	key, err = svc.keyFromURL("https://cdn.example.com/memories/u1/old.png")
	require.NoError(t, err)
	assert.Equal(t, "memories/u1/old.png", key)

	_, err = svc.keyFromURL("https://cdn.example.com/")
	assert.Error(t, err)
}
