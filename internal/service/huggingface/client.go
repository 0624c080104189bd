// Package huggingface is a small client for the hosted inference API shared by
// the sentiment and entity collaborators.
package huggingface

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
)

// Config holds inference client settings.
type Config struct {
	BaseURL  string
	APIToken string
	Timeout  time.Duration
}

// APIError is a non-2xx response from the inference API.
type APIError struct {
	StatusCode    int
	Message       string
	EstimatedTime float64
}

func (e *APIError) Error() string {
	return fmt.Sprintf("huggingface: status %d: %s", e.StatusCode, e.Message)
}

// Loading reports whether the model is still being loaded by the provider.
func (e *APIError) Loading() bool {
	return e.StatusCode == http.StatusServiceUnavailable ||
		strings.Contains(strings.ToLower(e.Message), "loading")
}

// IsLoading reports whether err is a model-loading APIError.
func IsLoading(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Loading()
}

type errorBody struct {
	Error         string  `json:"error"`
	EstimatedTime float64 `json:"estimated_time"`
}

type request struct {
	Inputs     string         `json:"inputs"`
	Parameters map[string]any `json:"parameters,omitempty"`
}

// Client calls text models by id.
type Client struct {
	http *resty.Client
}

// New creates a client.
func New(cfg Config) *Client {
	c := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if cfg.Timeout > 0 {
		c.SetTimeout(cfg.Timeout)
	}
	if cfg.APIToken != "" {
		c.SetAuthToken(cfg.APIToken)
	}
	return &Client{http: c}
}

// Infer posts inputs to model and returns the raw JSON body.
func (c *Client) Infer(ctx context.Context, model, inputs string, params map[string]any) ([]byte, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(request{Inputs: inputs, Parameters: params}).
		Post("/" + model)
	if err != nil {
		return nil, err
	}

	if resp.IsError() {
		apiErr := &APIError{StatusCode: resp.StatusCode(), Message: strings.TrimSpace(string(resp.Body()))}
		var body errorBody
		if json.Unmarshal(resp.Body(), &body) == nil && body.Error != "" {
			apiErr.Message = body.Error
			apiErr.EstimatedTime = body.EstimatedTime
		}
		return nil, apiErr
	}
	return resp.Body(), nil
}

// WarmupConfig bounds how long Warmup waits for a model to load.
type WarmupConfig struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxWait         time.Duration
}

// DefaultWarmupConfig returns warm-up bounds suited to hosted cold starts.
func DefaultWarmupConfig(maxWait time.Duration) WarmupConfig {
	return WarmupConfig{
		InitialInterval: 2 * time.Second,
		MaxInterval:     10 * time.Second,
		MaxWait:         maxWait,
	}
}

// Warmup sends a probe to model until it stops reporting that it is loading.
// Any other error ends the wait immediately.
func (c *Client) Warmup(ctx context.Context, model string, cfg WarmupConfig) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = cfg.InitialInterval
	bo.MaxInterval = cfg.MaxInterval
	bo.MaxElapsedTime = cfg.MaxWait

	attempt := 0
	probe := func() error {
		attempt++
		_, err := c.Infer(ctx, model, "warm up", nil)
		if err == nil {
			return nil
		}
		if IsLoading(err) {
			log.Info().Str("model", model).Int("attempt", attempt).Msg("Model loading, waiting")
			return err
		}
		return backoff.Permanent(err)
	}

	if err := backoff.Retry(probe, backoff.WithContext(bo, ctx)); err != nil {
		return fmt.Errorf("warm up %s: %w", model, err)
	}
	log.Info().Str("model", model).Int("attempts", attempt).Msg("Model ready")
	return nil
}
