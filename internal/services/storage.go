package services

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	appconfig "babysteps-backend/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// allowedMediaTypes maps the accepted MIME types to storage extensions.
// Anything else is rejected before any byte reaches the provider.
var allowedMediaTypes = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/webp":      ".webp",
	"image/heic":      ".heic",
	"image/heif":      ".heif",
	"video/mp4":       ".mp4",
	"video/quicktime": ".mov",
}

// AllowedMediaType reports whether contentType may be uploaded.
func AllowedMediaType(contentType string) bool {
	_, ok := allowedMediaTypes[contentType]
	return ok
}

// StorageService stores media objects in an S3-compatible bucket and hands
// back publicly resolvable URLs.
type StorageService struct {
	s3Client *s3.Client
	bucket   string
	baseURL  string
}

// NewStorageService creates a new storage service
func NewStorageService(cfg appconfig.StorageConfig) (*StorageService, error) {
	awsCfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey, cfg.SecretKey, "",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	baseURL := cfg.PublicURL
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}

	return &StorageService{
		s3Client: s3Client,
		bucket:   cfg.Bucket,
		baseURL:  strings.TrimSuffix(baseURL, "/"),
	}, nil
}

// Upload validates the content type, writes the payload under a fresh key
// and returns the public URL.
func (s *StorageService) Upload(ctx context.Context, userID, contentType string, body io.Reader) (string, error) {
	ext, ok := allowedMediaTypes[contentType]
	if !ok {
		return "", fmt.Errorf("file type %s is not allowed", contentType)
	}

	key := fmt.Sprintf("memories/%s/%s%s", userID, uuid.New().String(), ext)

	_, err := s.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload object: %w", err)
	}

	return s.baseURL + "/" + key, nil
}

// Delete removes the object a public URL points at.
func (s *StorageService) Delete(ctx context.Context, mediaURL string) error {
	key, err := s.keyFromURL(mediaURL)
	if err != nil {
		return err
	}

	_, err = s.s3Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

func (s *StorageService) keyFromURL(mediaURL string) (string, error) {
	if rest, ok := strings.CutPrefix(mediaURL, s.baseURL+"/"); ok {
		return rest, nil
	}
	u, err := url.Parse(mediaURL)
	if err != nil {
		return "", fmt.Errorf("invalid media url %q: %w", mediaURL, err)
	}
	key := strings.TrimPrefix(u.Path, "/")
	if key == "" {
		return "", fmt.Errorf("media url %q has no object key", mediaURL)
	}
	return key, nil
}
