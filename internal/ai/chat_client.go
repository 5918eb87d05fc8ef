package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/davidsonotienoomondi91-cloud/dual-power-women-hub-upgrade-sub000/internal/config"
)

// ChatTurn is one prior turn of a conversation.
type ChatTurn struct {
	Role string `json:"role"` // user | model | nurse
	Text string `json:"text"`
}

// Citation is a grounding reference attached to a reply.
type Citation struct {
	URI   string `json:"uri"`
	Title string `json:"title,omitempty"`
}

// ChatRequest is the narrow request contract of the generative text service.
type ChatRequest struct {
	System  string     `json:"system"`
	History []ChatTurn `json:"history"`
	Message string     `json:"message"`

	// APIKeyOverride replaces the configured credential for this call when
	// the admin stored one in app settings.
	APIKeyOverride string `json:"-"`
}

// ChatResponse is the narrow response contract of the generative text service.
type ChatResponse struct {
	Text      string     `json:"text"`
	Citations []Citation `json:"citations,omitempty"`
}

// Chatter generates one reply for a conversation turn.
type Chatter interface {
	Generate(ctx context.Context, req ChatRequest) (*ChatResponse, error)
}

// ChatClient calls the hosted generative text service, trying the primary
// model and then the fallback model on failure of the first.
type ChatClient struct {
	http          *resty.Client
	apiKey        string
	primaryModel  string
	fallbackModel string
	logger        *zap.Logger
}

// NewChatClient builds a ChatClient from service configuration.
func NewChatClient(cfg *config.Config, logger *zap.Logger) *ChatClient {
	client := resty.New().
		SetBaseURL(cfg.AIBaseURL).
		SetTimeout(30 * time.Second).
		SetHeader("Content-Type", "application/json")

	return &ChatClient{
		http:          client,
		apiKey:        cfg.AIAPIKey,
		primaryModel:  cfg.AIPrimaryModel,
		fallbackModel: cfg.AIFallbackModel,
		logger:        logger,
	}
}

// Generate implements Chatter.
func (c *ChatClient) Generate(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	key := c.apiKey
	if req.APIKeyOverride != "" {
		key = req.APIKeyOverride
	}

	resp, err := c.generateWithModel(ctx, c.primaryModel, key, req)
	if err == nil {
		return resp, nil
	}

	c.logger.Warn("primary model failed, trying fallback",
		zap.String("primary", c.primaryModel),
		zap.String("fallback", c.fallbackModel),
		zap.Error(err),
	)

	resp, fallbackErr := c.generateWithModel(ctx, c.fallbackModel, key, req)
	if fallbackErr != nil {
		return nil, fmt.Errorf("both models failed: primary: %v, fallback: %w", err, fallbackErr)
	}
	return resp, nil
}

func (c *ChatClient) generateWithModel(ctx context.Context, model, key string, req ChatRequest) (*ChatResponse, error) {
	var result ChatResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("X-Api-Key", key).
		SetBody(req).
		SetResult(&result).
		Post(fmt.Sprintf("/v1/models/%s:generate", model))

	if err != nil {
		return nil, fmt.Errorf("generate call failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("generate call failed: status %d", resp.StatusCode())
	}
	return &result, nil
}
