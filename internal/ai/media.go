package ai

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/davidsonotienoomondi91-cloud/dual-power-women-hub-upgrade-sub000/internal/config"
)

// Uploader stores a raw file with the media provider and returns a durable URL.
type Uploader interface {
	Upload(ctx context.Context, filename string, data []byte) (string, error)
}

// MediaClient uploads files to the configured media provider.
type MediaClient struct {
	http   *resty.Client
	apiKey string
	logger *zap.Logger
}

// NewMediaClient builds a MediaClient from service configuration.
func NewMediaClient(cfg *config.Config, logger *zap.Logger) *MediaClient {
	client := resty.New().
		SetBaseURL(cfg.MediaUploadURL).
		SetTimeout(60 * time.Second)

	return &MediaClient{
		http:   client,
		apiKey: cfg.MediaUploadKey,
		logger: logger,
	}
}

type uploadEnvelope struct {
	URL string `json:"url"`
}

// Upload implements Uploader.
func (c *MediaClient) Upload(ctx context.Context, filename string, data []byte) (string, error) {
	var envelope uploadEnvelope
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+c.apiKey).
		SetFileReader("file", filename, bytes.NewReader(data)).
		SetResult(&envelope).
		Post("/upload")

	if err != nil {
		return "", fmt.Errorf("media upload failed: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("media upload failed: status %d", resp.StatusCode())
	}
	if envelope.URL == "" {
		return "", fmt.Errorf("media upload returned no URL")
	}
	return envelope.URL, nil
}

// UploadOrInline tries the provider and falls back to an inline data URL when
// it is unreachable, so a flaky provider never blocks a KYC or listing flow.
// The second return reports whether the fallback was used.
func UploadOrInline(ctx context.Context, u Uploader, filename string, data []byte) (string, bool) {
	url, err := u.Upload(ctx, filename, data)
	if err == nil {
		return url, false
	}

	mime := http.DetectContentType(data)
	return fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(data)), true
}
