package store

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/davidsonotienoomondi91-cloud/dual-power-women-hub-upgrade-sub000/internal/config"
	"github.com/davidsonotienoomondi91-cloud/dual-power-women-hub-upgrade-sub000/internal/models"
)

// Client owns the only two primitive operations against the remote document
// host: fetch the whole document, save the whole document. No caching, no
// diffing, no partial updates.
type Client interface {
	Fetch(ctx context.Context) (*models.Document, error)
	Save(ctx context.Context, doc *models.Document) error
}

// fetchEnvelope matches the host's GET response shape.
type fetchEnvelope struct {
	Record *models.Document `json:"record"`
}

// RemoteClient talks to the document host over HTTPS, identified by a fixed
// resource id and authenticated with a static secret header.
type RemoteClient struct {
	http   *resty.Client
	binID  string
	logger *zap.Logger
}

// NewRemoteClient builds a RemoteClient from service configuration.
func NewRemoteClient(cfg *config.Config, logger *zap.Logger) *RemoteClient {
	client := resty.New().
		SetBaseURL(cfg.StoreURL).
		SetTimeout(cfg.StoreTimeout).
		SetRetryCount(cfg.StoreRetries).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(3 * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("X-Access-Key", cfg.StoreAPIKey).
		// Writes are whole-document overwrites; retrying a failed PUT could
		// resurrect a payload built from state another save already replaced.
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return r != nil && r.Request.Method == resty.MethodGet
		})

	return &RemoteClient{
		http:   client,
		binID:  cfg.StoreBinID,
		logger: logger,
	}
}

// Fetch issues a GET for the latest document revision.
func (c *RemoteClient) Fetch(ctx context.Context) (*models.Document, error) {
	var envelope fetchEnvelope
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&envelope).
		Get(fmt.Sprintf("/b/%s/latest", c.binID))

	if err != nil {
		return nil, fmt.Errorf("document fetch failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("document fetch failed: status %d", resp.StatusCode())
	}

	doc := envelope.Record
	if doc == nil {
		doc = &models.Document{}
	}
	doc.Normalize()
	return doc, nil
}

// Save issues a PUT of the entire document. Unlike the legacy client, a
// failed save is reported to the caller instead of being collapsed into a
// boolean nobody checks.
func (c *RemoteClient) Save(ctx context.Context, doc *models.Document) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(doc).
		Put(fmt.Sprintf("/b/%s", c.binID))

	if err != nil {
		return fmt.Errorf("document save failed: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("document save failed: status %d", resp.StatusCode())
	}

	c.logger.Debug("document saved",
		zap.Int("status", resp.StatusCode()),
		zap.Int("users", len(doc.Users)),
		zap.Int("assets", len(doc.Assets)),
		zap.Int("transactions", len(doc.Transactions)),
	)
	return nil
}
