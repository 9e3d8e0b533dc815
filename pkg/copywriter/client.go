// Package copywriter calls an OpenRouter-compatible completion API to draft
// product marketing copy. Responses are treated as opaque strings.
package copywriter

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/adiwijaya-dev/shopdash-backend/pkg/config"
	"github.com/adiwijaya-dev/shopdash-backend/pkg/logger"
)

var (
	ErrNotConfigured = errors.New("copywriter is not configured")
	ErrEmptyPrompt   = errors.New("prompt is empty")
	ErrNoCompletion  = errors.New("completion response had no choices")
)

type APIError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("copywriter api error: %s", e.Status)
	}
	return fmt.Sprintf("copywriter api error: %s: %s", e.Status, e.Body)
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

type Client struct {
	http    *resty.Client
	model   string
	logg    *logger.Logger
	enabled bool
}

func NewClient(cfg config.CopywriterConfig, logg *logger.Logger) *Client {
	model := strings.TrimSpace(cfg.Model)
	apiKey := strings.TrimSpace(cfg.APIKey)

	client := &Client{model: model, logg: logg}
	if model == "" || apiKey == "" {
		if logg != nil {
			logg.Warn(context.Background(), "copywriter config incomplete, generation disabled")
		}
		return client
	}

	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetAuthScheme("Bearer").
		SetAuthToken(apiKey).
		SetTimeout(cfg.HTTPTimeout).
		SetRetryCount(1).
		SetRetryWaitTime(1 * time.Second).
		AddRetryCondition(func(resp *resty.Response, err error) bool {
			if err != nil {
				return true
			}
			return resp != nil && resp.StatusCode() == http.StatusTooManyRequests
		})

	client.http = httpClient
	client.enabled = true
	return client
}

func (c *Client) Enabled() bool {
	return c != nil && c.enabled
}

const systemPrompt = "You write short, punchy marketplace product copy in Indonesian. Reply with the copy only, no preamble."

// Generate returns marketing copy for the prompt.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if !c.Enabled() {
		return "", ErrNotConfigured
	}
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", ErrEmptyPrompt
	}

	var parsed chatResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(chatRequest{
			Model: c.model,
			Messages: []chatMessage{
				{Role: "system", Content: systemPrompt},
				{Role: "user", Content: prompt},
			},
		}).
		SetResult(&parsed).
		Post("/chat/completions")
	if err != nil {
		return "", fmt.Errorf("calling completion api: %w", err)
	}
	if resp.IsError() {
		return "", &APIError{
			StatusCode: resp.StatusCode(),
			Status:     resp.Status(),
			Body:       strings.TrimSpace(string(resp.Body())),
		}
	}
	if len(parsed.Choices) == 0 {
		return "", ErrNoCompletion
	}

	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}

// ProductDescription builds a prompt from the product facts and generates copy.
func (c *Client) ProductDescription(ctx context.Context, name, brand string, price float64) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", ErrEmptyPrompt
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Product: %s\n", name)
	if strings.TrimSpace(brand) != "" {
		fmt.Fprintf(&sb, "Brand: %s\n", brand)
	}
	if price > 0 {
		fmt.Fprintf(&sb, "Price: Rp%.0f\n", price)
	}
	sb.WriteString("Write one paragraph of product copy.")

	return c.Generate(ctx, sb.String())
}
