// internal/services/storage_service_test.go
package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atelierprints/catalog-backend/internal/config"
)

func newS3TestConfig() *config.Config {
	return &config.Config{
		AWS: config.AWSConfig{
			Region:          "eu-west-3",
			AccessKeyID:     "AKIATESTACCESSKEY",
			SecretAccessKey: "test-secret-access-key",
			S3Bucket:        "test-catalog-media",
		},
	}
}

// Presigning is a local signature computation; no bucket is contacted.
func TestGeneratePresignedURLSignsKey(t *testing.T) {
	storage, err := NewStorageService(newS3TestConfig())
	require.NoError(t, err)

	url, err := storage.GeneratePresignedURL("products/abc/poster.jpg", 15*time.Minute)
	require.NoError(t, err)
	assert.Contains(t, url, "products/abc/poster.jpg")
	assert.Contains(t, url, "X-Amz-Signature")
	assert.Contains(t, url, "test-catalog-media")
}

func TestGeneratePresignedURLRequiresS3(t *testing.T) {
	storage, err := NewStorageService(&config.Config{})
	require.NoError(t, err)

	_, err = storage.GeneratePresignedURL("products/abc/poster.jpg", time.Minute)
	require.Error(t, err)
}

func TestDownloadURLSignsWhenS3Configured(t *testing.T) {
	storage, err := NewStorageService(newS3TestConfig())
	require.NoError(t, err)

	url, err := storage.DownloadURL("products/abc/poster.jpg", "https://cdn.example.com/poster.jpg", 15*time.Minute)
	require.NoError(t, err)
	assert.Contains(t, url, "X-Amz-Signature")
}

func TestDownloadURLFallsBackToPublicURL(t *testing.T) {
	storage, err := NewStorageService(&config.Config{})
	require.NoError(t, err)

	url, err := storage.DownloadURL("products/abc/poster.jpg", "https://cdn.example.com/poster.jpg", 15*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/poster.jpg", url)
}
