package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/killallgit/recipe-api/internal/metrics"
	"github.com/killallgit/recipe-api/internal/models"
)

const maxErrorBody = 1024

// Config holds configuration for the Gemini client
type Config struct {
	APIKey          string
	BaseURL         string  // Default: https://generativelanguage.googleapis.com/v1beta/models
	Model           string  // Default: gemini-2.0-flash
	Temperature     float64 // Default: 0.1
	MaxOutputTokens int     // Default: 2048
	Timeout         time.Duration
	Logger          *zap.Logger
	Metrics         *metrics.Collector
}

// Client extracts recipes from text or audio with a single generateContent call
type Client struct {
	httpClient *http.Client
	config     Config
	logger     *zap.Logger
	metrics    *metrics.Collector
}

// NewClient creates a new Gemini client
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://generativelanguage.googleapis.com/v1beta/models"
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-2.0-flash"
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.1
	}
	if cfg.MaxOutputTokens <= 0 {
		cfg.MaxOutputTokens = 2048
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 90 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		config:     cfg,
		logger:     logger.Named("gemini"),
		metrics:    cfg.Metrics,
	}
}

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// ParseText extracts a recipe from caption or transcript text
func (c *Client) ParseText(ctx context.Context, text string) (*models.PartialRecipe, error) {
	parts := []part{{Text: buildPrompt(SourceText, text)}}
	return c.generate(ctx, SourceText, parts)
}

// ParseAudio extracts a recipe from raw audio bytes of the given MIME type
func (c *Client) ParseAudio(ctx context.Context, audio []byte, mimeType string) (*models.PartialRecipe, error) {
	parts := []part{
		{Text: buildPrompt(SourceAudio, "")},
		{InlineData: &inlineData{MimeType: mimeType, Data: base64.StdEncoding.EncodeToString(audio)}},
	}
	return c.generate(ctx, SourceAudio, parts)
}

func (c *Client) generate(ctx context.Context, source Source, parts []part) (result *models.PartialRecipe, err error) {
	defer func() {
		status := "ok"
		if err != nil {
			status = "error"
		} else if !result.HasRecipe {
			status = "no_recipe"
		}
		c.metrics.AIRequest(string(source), status)
	}()

	endpoint, err := c.endpoint()
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: parts}},
		GenerationConfig: generationConfig{
			Temperature:     c.config.Temperature,
			MaxOutputTokens: c.config.MaxOutputTokens,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEndpoint, err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &ServerError{StatusCode: resp.StatusCode, Body: string(snippet)}
	}

	var envelope generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoContent, err)
	}
	if len(envelope.Candidates) == 0 || len(envelope.Candidates[0].Content.Parts) == 0 {
		return nil, ErrNoContent
	}
	text := envelope.Candidates[0].Content.Parts[0].Text
	if strings.TrimSpace(text) == "" {
		return nil, ErrNoContent
	}

	result, err = parseRecipe(text)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("recipe parsed",
		zap.String("source", string(source)),
		zap.Bool("has_recipe", result.HasRecipe),
		zap.Int("ingredients", len(result.Ingredients)),
		zap.Int("steps", len(result.Steps)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return result, nil
}

// endpoint builds {base}/{model}:generateContent?key=...
func (c *Client) endpoint() (string, error) {
	base, err := url.Parse(strings.TrimRight(c.config.BaseURL, "/"))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidEndpoint, err)
	}
	if (base.Scheme != "http" && base.Scheme != "https") || base.Host == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidEndpoint, c.config.BaseURL)
	}
	if strings.TrimSpace(c.config.Model) == "" || strings.ContainsAny(c.config.Model, "/?#") {
		return "", fmt.Errorf("%w: model %q", ErrInvalidEndpoint, c.config.Model)
	}

	q := url.Values{}
	q.Set("key", c.config.APIKey)
	return fmt.Sprintf("%s/%s:generateContent?%s", base.String(), c.config.Model, q.Encode()), nil
}
