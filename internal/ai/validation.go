package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/davidsonotienoomondi91-cloud/dual-power-women-hub-upgrade-sub000/internal/config"
)

// MaxValidationImages caps a listing validation request; ID-document checks
// send exactly two (front and back).
const MaxValidationImages = 5

// ValidationResult is the narrow response contract of the image/document
// validation service.
type ValidationResult struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
}

// Validator judges a set of images against contextual text.
type Validator interface {
	ValidateImages(ctx context.Context, images []string, contextText string) (ValidationResult, error)
}

// ValidationClient calls the hosted validation service.
type ValidationClient struct {
	http   *resty.Client
	apiKey string
	logger *zap.Logger
}

// NewValidationClient builds a ValidationClient from service configuration.
func NewValidationClient(cfg *config.Config, logger *zap.Logger) *ValidationClient {
	client := resty.New().
		SetBaseURL(cfg.AIBaseURL).
		SetTimeout(90 * time.Second).
		SetHeader("Content-Type", "application/json")

	return &ValidationClient{
		http:   client,
		apiKey: cfg.AIAPIKey,
		logger: logger,
	}
}

// ValidateImages implements Validator.
func (c *ValidationClient) ValidateImages(ctx context.Context, images []string, contextText string) (ValidationResult, error) {
	if len(images) > MaxValidationImages {
		images = images[:MaxValidationImages]
	}

	var result ValidationResult
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("X-Api-Key", c.apiKey).
		SetBody(map[string]interface{}{
			"images":  images,
			"context": contextText,
		}).
		SetResult(&result).
		Post("/v1/validate")

	if err != nil {
		return ValidationResult{}, fmt.Errorf("validation call failed: %w", err)
	}
	if resp.IsError() {
		return ValidationResult{}, fmt.Errorf("validation call failed: status %d", resp.StatusCode())
	}
	return result, nil
}

// FailOpenResult is the default outcome when validation does not answer in
// time: approve for now, flag for manual review.
var FailOpenResult = ValidationResult{
	Valid:  true,
	Reason: "validation timed out, approved pending manual review",
}

// ValidateFailOpen races a validation call against the configured window.
// The second return reports whether the fail-open default was used.
func ValidateFailOpen(ctx context.Context, v Validator, timeout time.Duration, images []string, contextText string) (ValidationResult, bool) {
	return RaceFailOpen(ctx, timeout, FailOpenResult, func(ctx context.Context) (ValidationResult, error) {
		return v.ValidateImages(ctx, images, contextText)
	})
}
